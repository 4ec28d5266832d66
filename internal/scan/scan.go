// Package scan provides the scanning primitives both diagram parsers are built from.
//
// A [Cursor] is an immutable view of the remaining input together with its source position.
// Recognizers take a cursor and either return what they consumed together with the advanced
// cursor, or an error. On error the caller still holds its original cursor and can try an
// alternative from there, which is all the backtracking the parsers need.
package scan

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/teleivo/merm"
	"github.com/teleivo/merm/token"
)

// Cursor points into diagram source code.
type Cursor struct {
	src string // src is the input up to the cursor's limit
	pos token.Position
	eol bool // eol is set if a newline follows the cursor's limit
}

// New creates a cursor at the start of src.
func New(src string) Cursor {
	return Cursor{src: src, pos: token.Position{Line: 1, Column: 1}}
}

// Pos returns the position of the next unconsumed character.
func (c Cursor) Pos() token.Position {
	return c.pos
}

// Rest returns the unconsumed input.
func (c Cursor) Rest() string {
	return c.src[c.pos.Offset:]
}

// EOF reports whether all input has been consumed.
func (c Cursor) EOF() bool {
	return c.pos.Offset >= len(c.src)
}

// HasPrefix reports whether the unconsumed input starts with s.
func (c Cursor) HasPrefix(s string) bool {
	return strings.HasPrefix(c.Rest(), s)
}

// Peek returns the next rune without consuming it. It returns -1 at the end of input.
func (c Cursor) Peek() rune {
	if c.EOF() {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(c.Rest())
	return r
}

// Advance consumes n bytes. n must not split a rune.
func (c Cursor) Advance(n int) Cursor {
	end := c.pos.Offset + n
	for _, r := range c.src[c.pos.Offset:end] {
		if r == '\n' {
			c.pos.Line++
			c.pos.Column = 1
		} else {
			c.pos.Column++
		}
	}
	c.pos.Offset = end
	return c
}

// Next consumes one rune.
func (c Cursor) Next() Cursor {
	if c.EOF() {
		return c
	}
	_, size := utf8.DecodeRuneInString(c.Rest())
	return c.Advance(size)
}

// Line splits off the remainder of the current line. The returned line cursor ends before the
// newline, next starts after it.
func (c Cursor) Line() (line Cursor, next Cursor) {
	rest := c.Rest()
	i := strings.IndexByte(rest, '\n')
	if i < 0 {
		return c, c.Advance(len(rest))
	}
	line = Cursor{src: c.src[:c.pos.Offset+i], pos: c.pos, eol: true}
	return line, c.Advance(i + 1)
}

// TrimEnd drops trailing whitespace from the cursor's input.
func (c Cursor) TrimEnd() Cursor {
	rest := strings.TrimRightFunc(c.Rest(), IsSpace)
	c.src = c.src[:c.pos.Offset+len(rest)]
	return c
}

// Slice returns the input between c and end, which must be a cursor advanced from c.
func (c Cursor) Slice(end Cursor) string {
	return c.src[c.pos.Offset:end.pos.Offset]
}

// found returns the next rune as the subject of an error. It returns "\n" at the end of a line
// cursor and "" at the end of input.
func (c Cursor) found() string {
	if c.EOF() {
		if c.eol {
			return "\n"
		}
		return ""
	}
	_, size := utf8.DecodeRuneInString(c.Rest())
	return c.Rest()[:size]
}

// Error creates an error of given kind at the cursor's position.
func (c Cursor) Error(kind merm.ErrorKind, want string) *merm.Error {
	return &merm.Error{Kind: kind, Pos: c.pos, Want: want, Subject: c.found()}
}

// IsSpace reports whether r is whitespace in either dialect.
func IsSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\n', '\f':
		return true
	}
	return false
}

// Space consumes zero or more whitespace characters. It never fails.
func Space(c Cursor) Cursor {
	rest := c.Rest()
	i := 0
	for i < len(rest) && IsSpace(rune(rest[i])) {
		i++
	}
	return c.Advance(i)
}

// Literal consumes lit.
func Literal(c Cursor, lit string) (Cursor, error) {
	if !c.HasPrefix(lit) {
		return c, c.Error(merm.ExpectedLiteral, strconv.Quote(lit))
	}
	return c.Advance(len(lit)), nil
}

// OneOf consumes the first of lits that matches. Callers order lits by priority, longer
// literals sharing a prefix with shorter ones must come first.
func OneOf(c Cursor, lits ...string) (string, Cursor, error) {
	for _, lit := range lits {
		if c.HasPrefix(lit) {
			return lit, c.Advance(len(lit)), nil
		}
	}
	return "", c, c.Error(merm.ExpectedLiteral, Expected(lits...))
}

// Expected formats lits as a list of quoted literals like `"a", "b" or "c"`.
func Expected(lits ...string) string {
	var sb strings.Builder
	for i, lit := range lits {
		if i > 0 {
			if i == len(lits)-1 {
				sb.WriteString(" or ")
			} else {
				sb.WriteString(", ")
			}
		}
		sb.WriteString(strconv.Quote(lit))
	}
	return sb.String()
}

func isAlphanumeric(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// Ident consumes one or more ASCII letters and digits.
func Ident(c Cursor) (string, Cursor, error) {
	rest := c.Rest()
	i := 0
	for i < len(rest) && isAlphanumeric(rest[i]) {
		i++
	}
	if i == 0 {
		return "", c, c.Error(merm.ExpectedIdentifier, "")
	}
	return rest[:i], c.Advance(i), nil
}

// Count consumes a run of the byte b and returns its length. It never fails.
func Count(c Cursor, b byte) (int, Cursor) {
	rest := c.Rest()
	i := 0
	for i < len(rest) && rest[i] == b {
		i++
	}
	return i, c.Advance(i)
}

// Until consumes input up to but excluding the next occurrence of lit.
func Until(c Cursor, lit string) (string, Cursor, error) {
	i := strings.Index(c.Rest(), lit)
	if i < 0 {
		err := c.Error(merm.SearchExhausted, strconv.Quote(lit))
		err.Subject = ""
		return "", c, err
	}
	return c.Rest()[:i], c.Advance(i), nil
}

// Quoted consumes a string enclosed in quote characters and returns its content. There is no
// escaping, the string ends at the next quote.
func Quoted(c Cursor, quote byte) (string, Cursor, error) {
	q := string(quote)
	if !c.HasPrefix(q) {
		return "", c, c.Error(merm.ExpectedLiteral, strconv.Quote(q))
	}
	body := c.Advance(1)
	i := strings.IndexByte(body.Rest(), quote)
	if i < 0 {
		return "", c, &merm.Error{Kind: merm.UnclosedQuote, Pos: c.pos, Want: strconv.Quote(q)}
	}
	return body.Rest()[:i], body.Advance(i + 1), nil
}

func digits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

// Float consumes a floating point literal of the form [+-](digits[.[digits]] | .digits)[(e|E)[+-]digits].
func Float(c Cursor) (float64, Cursor, error) {
	s := c.Rest()
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	intEnd := digits(s, i)
	hasInt := intEnd > i
	i = intEnd
	hasFrac := false
	if i < len(s) && s[i] == '.' {
		fracEnd := digits(s, i+1)
		hasFrac = fracEnd > i+1
		if hasInt || hasFrac {
			i = fracEnd
		}
	}
	if !hasInt && !hasFrac {
		return 0, c, c.Error(merm.ExpectedNumber, "")
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expEnd := digits(s, j)
		if expEnd == j {
			return 0, c, c.Advance(j).Error(merm.ExpectedNumber, "")
		}
		i = expEnd
	}

	lit := s[:i]
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0, c, &merm.Error{Kind: merm.ExpectedNumber, Pos: c.pos, Subject: lit, Err: err}
	}
	return v, c.Advance(i), nil
}
