// Package token defines source positions shared by the diagram parsers.
package token

import (
	"strconv"
)

// Position describes a position in diagram source code.
type Position struct {
	Line   int // Line is the line number starting at 1. A line of zero is not valid.
	Column int // Column is the horizontal position in terms of runes starting at 1. A column of zero is not valid.
	Offset int // Offset is the byte offset into the source starting at 0.
}

// IsValid reports whether the position refers to a location in the source.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// String returns the position in line:column format.
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Before reports whether the position p is before o.
func (p Position) Before(o Position) bool {
	if p.Line < o.Line {
		return true
	} else if p.Line == o.Line && p.Column < o.Column {
		return true
	}
	return false
}

// After reports whether the position p is after o.
func (p Position) After(o Position) bool {
	if p.Line > o.Line {
		return true
	} else if p.Line == o.Line && p.Column > o.Column {
		return true
	}
	return false
}
