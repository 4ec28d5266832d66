// Package diagnostic turns parse errors of diagrams into diagnostics.
package diagnostic

import (
	"errors"
	"strings"

	"github.com/teleivo/merm"
	"github.com/teleivo/merm/internal/document"
	"github.com/teleivo/merm/lsp/internal/rpc"
)

// Source names the origin of diagnostics in editors.
const Source = "merm"

// Compute parses src and returns its diagnostics together with the parsed document. The
// document is nil if src has errors. Parsing stops at the first error so there is at most one
// diagnostic.
func Compute(src string, uri rpc.DocumentURI, version int32) (rpc.PublishDiagnosticsParams, *document.Document) {
	params := rpc.PublishDiagnosticsParams{
		URI:         uri,
		Version:     version,
		Diagnostics: []rpc.Diagnostic{},
	}

	doc, err := document.Parse("auto", src)
	if err == nil {
		return params, doc
	}

	d := rpc.Diagnostic{Severity: rpc.SeverityError, Source: Source, Message: err.Error()}
	var perr *merm.Error
	if errors.As(err, &perr) {
		d.Message = perr.Message()
		d.Range = errorRange(src, perr)
	}
	params.Diagnostics = append(params.Diagnostics, d)
	return params, nil
}

// errorRange covers the subject of the error if it is the source text at the error position.
// Otherwise the range is empty.
func errorRange(src string, err *merm.Error) rpc.Range {
	start := min(err.Pos.Offset, len(src))
	end := start
	if err.Subject != "" && strings.HasPrefix(src[start:], err.Subject) {
		end += len(err.Subject)
	}
	return rpc.Range{Start: rpc.PositionAt(src, start), End: rpc.PositionAt(src, end)}
}
