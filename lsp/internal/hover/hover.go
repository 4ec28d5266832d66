// Package hover provides hover documentation for flowchart nodes and pie slices.
package hover

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/teleivo/merm/internal/document"
	"github.com/teleivo/merm/internal/lexer"
	"github.com/teleivo/merm/lsp/internal/rpc"
	"github.com/teleivo/merm/token"
)

// Info returns hover information for the token at the byte offset in src. doc is the parsed src.
// Info returns nil if there is nothing to show.
func Info(l *lexer.Lexer, src string, doc *document.Document, offset int) *rpc.Hover {
	if doc == nil {
		return nil
	}

	for tok, err := range l.All(src) {
		if err != nil {
			continue
		}
		if tok.Kind == token.EOF || tok.Start.Offset > offset {
			return nil
		}
		if offset >= tok.End.Offset {
			continue
		}

		value := markdown(tok, doc)
		if value == "" {
			return nil
		}
		return &rpc.Hover{
			Contents: rpc.MarkupContent{Kind: "markdown", Value: value},
			Range: &rpc.Range{
				Start: rpc.PositionAt(src, tok.Start.Offset),
				End:   rpc.PositionAt(src, tok.End.Offset),
			},
		}
	}
	return nil
}

func markdown(tok token.Token, doc *document.Document) string {
	switch tok.Kind {
	case token.Flowchart:
		if doc.Flowchart != nil {
			return fmt.Sprintf("**flowchart** %s\n\n%d nodes, %d edges", doc.Flowchart.Direction, len(doc.Flowchart.Nodes), len(doc.Flowchart.Edges))
		}
	case token.Pie:
		if doc.Pie != nil {
			var total float64
			for _, d := range doc.Pie.Data {
				total += d.Value
			}
			return fmt.Sprintf("**pie**\n\n%d slices, total %s", len(doc.Pie.Data), formatFloat(total))
		}
	case token.Ident, token.Number, token.Direction:
		if n, ok := doc.Node(tok.Literal); ok {
			return node(n, doc.Flowchart)
		}
	case token.String:
		if !strings.HasPrefix(tok.Literal, `"`) {
			return ""
		}
		if d, ok := doc.Datum(strings.Trim(tok.Literal, `"`)); ok {
			return fmt.Sprintf("**%s** %s (%s)", d.Label, formatFloat(d.Value), d.Percent)
		}
	}
	return ""
}

func node(n document.Node, f *document.Flowchart) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** %s node", n.ID, n.Shape)
	if n.Label != "" {
		fmt.Fprintf(&sb, "\n\nlabel: %s", n.Label)
	}
	var succ []string
	for _, e := range f.Edges {
		if e.From == n.ID {
			succ = append(succ, e.To)
		}
	}
	if len(succ) > 0 {
		fmt.Fprintf(&sb, "\n\nsuccessors: %s", strings.Join(succ, ", "))
	}
	return sb.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
