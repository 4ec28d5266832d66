// Package diagnostic prints parse errors together with the source line they point at.
package diagnostic

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/teleivo/merm"
)

// Printer prints errors like
//
//	chart.mmd:2:4: inconsistent line style: cannot mix '-' and '=' in one connector
//	  2 | A -=-> B
//	    |    ^
type Printer struct {
	location *color.Color
	message  *color.Color
	gutter   *color.Color
	caret    *color.Color
}

// NewPrinter creates a printer. Colors are only used if colored is true.
func NewPrinter(colored bool) *Printer {
	p := &Printer{
		location: color.New(color.Bold),
		message:  color.New(color.FgRed, color.Bold),
		gutter:   color.New(color.FgBlue),
		caret:    color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.location, p.message, p.gutter, p.caret} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Fprint prints err to w. Errors other than [*merm.Error] are printed without an excerpt. The name
// identifies src, like the file it was read from.
func (p *Printer) Fprint(w io.Writer, name, src string, err error) error {
	var perr *merm.Error
	if !errors.As(err, &perr) || !perr.Pos.IsValid() || perr.Pos.Offset > len(src) {
		_, werr := fmt.Fprintf(w, "%s %s\n", p.location.Sprint(name+":"), p.message.Sprint(err.Error()))
		return werr
	}

	line := excerpt(src, perr.Pos.Offset)
	lineNr := fmt.Sprint(perr.Pos.Line)
	pad := strings.Repeat(" ", len(lineNr))

	var sb strings.Builder
	sb.WriteString(p.location.Sprintf("%s:%s:", name, perr.Pos))
	sb.WriteString(" ")
	sb.WriteString(p.message.Sprint(perr.Message()))
	sb.WriteString("\n")
	sb.WriteString(p.gutter.Sprintf(" %s | ", lineNr))
	sb.WriteString(line)
	sb.WriteString("\n")
	sb.WriteString(p.gutter.Sprintf(" %s | ", pad))
	sb.WriteString(indent(line, perr.Pos.Column-1))
	sb.WriteString(p.caret.Sprint("^"))
	sb.WriteString("\n")

	_, werr := io.WriteString(w, sb.String())
	return werr
}

// excerpt returns the line of src containing offset without its line terminator.
func excerpt(src string, offset int) string {
	start := strings.LastIndexByte(src[:offset], '\n') + 1
	end := strings.IndexByte(src[offset:], '\n')
	if end < 0 {
		end = len(src)
	} else {
		end += offset
	}
	return strings.TrimSuffix(src[start:end], "\r")
}

// indent returns whitespace as wide as the first n runes of line. Tabs are kept so the caret lines
// up with the excerpt.
func indent(line string, n int) string {
	var sb strings.Builder
	for _, r := range line {
		if n == 0 {
			break
		}
		if r == '\t' {
			sb.WriteRune('\t')
		} else {
			sb.WriteRune(' ')
		}
		n--
	}
	for ; n > 0; n-- {
		sb.WriteRune(' ')
	}
	return sb.String()
}
