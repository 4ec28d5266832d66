package rpc

import (
	"fmt"
	"strings"
)

// DocumentURI identifies a text document.
type DocumentURI string

// Position is a zero-based line and character offset. Characters are counted in UTF-8 code
// units, the position encoding negotiated in [InitializeResult].
type Position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

// PositionAt returns the position of the byte offset in src.
func PositionAt(src string, offset int) Position {
	offset = min(max(offset, 0), len(src))
	lineStart := strings.LastIndexByte(src[:offset], '\n') + 1
	return Position{
		Line:      uint32(strings.Count(src[:lineStart], "\n")),
		Character: uint32(offset - lineStart),
	}
}

// Offset returns the byte offset of p in src. A character past the end of its line refers to the
// end of the line.
func (p Position) Offset(src string) (int, error) {
	offset := 0
	for line := uint32(0); line < p.Line; line++ {
		i := strings.IndexByte(src[offset:], '\n')
		if i < 0 {
			return 0, fmt.Errorf("line %d is out of range: document has %d lines", p.Line, line+1)
		}
		offset += i + 1
	}
	end := strings.IndexByte(src[offset:], '\n')
	if end < 0 {
		end = len(src) - offset
	}
	return offset + min(int(p.Character), end), nil
}

// Range is a range in a text document. The end is exclusive.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// InitializeResult is the result of the initialize request.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   ServerInfo         `json:"serverInfo"`
}

type ServerCapabilities struct {
	HoverProvider    bool   `json:"hoverProvider"`
	PositionEncoding string `json:"positionEncoding"`
	// TextDocumentSync is 1 for full and 2 for incremental document changes.
	TextDocumentSync int `json:"textDocumentSync"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type TextDocumentItem struct {
	URI        DocumentURI `json:"uri"`
	LanguageID string      `json:"languageId"`
	Version    int32       `json:"version"`
	Text       string      `json:"text"`
}

type TextDocumentIdentifier struct {
	URI DocumentURI `json:"uri"`
}

type VersionedTextDocumentIdentifier struct {
	URI     DocumentURI `json:"uri"`
	Version int32       `json:"version"`
}

type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

// TextDocumentContentChangeEvent replaces the text in Range with Text. The whole document is
// replaced if Range is nil.
type TextDocumentContentChangeEvent struct {
	Range *Range `json:"range,omitempty"`
	Text  string `json:"text"`
}

type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

type Hover struct {
	Contents MarkupContent `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}

type MarkupContent struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type DiagnosticSeverity int

const (
	SeverityError DiagnosticSeverity = iota + 1
	SeverityWarning
	SeverityInformation
	SeverityHint
)

type Diagnostic struct {
	Range    Range              `json:"range"`
	Severity DiagnosticSeverity `json:"severity"`
	Source   string             `json:"source"`
	Message  string             `json:"message"`
}

type PublishDiagnosticsParams struct {
	URI         DocumentURI  `json:"uri"`
	Version     int32        `json:"version"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}
