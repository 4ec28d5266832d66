// Package merm provides the error taxonomy shared by the parsers of the flowchart and pie diagram
// dialects found in the packages [github.com/teleivo/merm/flowchart] and
// [github.com/teleivo/merm/pie].
//
// Both parsers are hand written backtracking recognizers working directly on the input string.
// They either return a complete model or an [*Error] pointing at the offending character. No
// partial model is returned on failure.
//
// All strings in a parsed model are substrings of the input passed to the parser. They share the
// input's memory and are never copied.
package merm

import (
	"fmt"
	"strings"

	"github.com/teleivo/merm/token"
)

// ErrorKind classifies an [Error].
type ErrorKind int

const (
	// ExpectedLiteral means a fixed literal (or one of several) listed in [Error.Want] was
	// required.
	ExpectedLiteral ErrorKind = iota + 1
	// ExpectedIdentifier means a run of one or more alphanumeric characters was required.
	ExpectedIdentifier
	// ExpectedNumber means a floating point literal was required. [Error.Err] holds the
	// conversion failure if the literal was recognized but could not be converted.
	ExpectedNumber
	// UnclosedQuote means a quoted string is missing its closing quote.
	UnclosedQuote
	// SearchExhausted means the input ended while searching for the literal in [Error.Want].
	SearchExhausted
	// TrailingInput means the input continues after a complete diagram.
	TrailingInput
	// DuplicateNode means a node identifier was given a label or shape more than once.
	DuplicateNode
	// DuplicateEdge means an edge between the same ordered pair of nodes was declared twice.
	DuplicateEdge
	// UnclosedNode means the end delimiter of a node shape is missing.
	UnclosedNode
	// UnmatchedShape means a quoted node label is not followed by an end delimiter valid for its
	// start delimiter.
	UnmatchedShape
	// InconsistentLineStyle means a connector mixes '-' and '='.
	InconsistentLineStyle
	// IllegalToken means the token lexer could not match the input.
	IllegalToken
)

var kindStrings = map[ErrorKind]string{
	ExpectedLiteral:       "expected literal",
	ExpectedIdentifier:    "expected identifier",
	ExpectedNumber:        "expected number",
	UnclosedQuote:         "unclosed quote",
	SearchExhausted:       "search exhausted input",
	TrailingInput:         "unexpected trailing input",
	DuplicateNode:         "duplicate node",
	DuplicateEdge:         "duplicate edge",
	UnclosedNode:          "unclosed node",
	UnmatchedShape:        "unmatched shape delimiter",
	InconsistentLineStyle: "inconsistent line style",
	IllegalToken:          "illegal token",
}

func (k ErrorKind) String() string {
	if s, ok := kindStrings[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error represents an error in diagram source code. The position Pos points at the character that
// caused the error.
type Error struct {
	Kind ErrorKind
	Pos  token.Position
	// Want is the literal expected or searched for. It is empty for kinds that do not expect a
	// literal.
	Want string
	// Subject is the source text the error is about, like a node identifier or the offending
	// input. It is empty at the end of input and "\n" at the end of a line.
	Subject string
	// Err is the underlying cause, if any.
	Err error
}

// Error formats the error as "line:column: message".
func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Message()
}

// Message describes the error without its position.
func (e *Error) Message() string {
	var msg strings.Builder
	switch e.Kind {
	case ExpectedLiteral:
		msg.WriteString("expected ")
		msg.WriteString(e.Want)
		writeFound(&msg, e.Subject)
	case ExpectedIdentifier:
		msg.WriteString("expected identifier")
		writeFound(&msg, e.Subject)
	case ExpectedNumber:
		msg.WriteString("expected number")
		writeFound(&msg, e.Subject)
		if e.Err != nil {
			msg.WriteString(": ")
			msg.WriteString(e.Err.Error())
		}
	case UnclosedQuote:
		msg.WriteString("unclosed quote: missing closing ")
		msg.WriteString(e.Want)
	case SearchExhausted:
		msg.WriteString("reached end of input looking for ")
		msg.WriteString(e.Want)
	case TrailingInput:
		fmt.Fprintf(&msg, "unexpected trailing input %q", e.Subject)
	case DuplicateNode:
		fmt.Fprintf(&msg, "node %q is already declared, label and shape can only be given once", e.Subject)
	case DuplicateEdge:
		fmt.Fprintf(&msg, "edge %s is already declared", e.Subject)
	case UnclosedNode:
		fmt.Fprintf(&msg, "unclosed node %q: missing %s", e.Subject, e.Want)
	case UnmatchedShape:
		fmt.Fprintf(&msg, "label of node %q must be closed by %s", e.Subject, e.Want)
	case InconsistentLineStyle:
		msg.WriteString("inconsistent line style: cannot mix '-' and '=' in one connector")
	case IllegalToken:
		fmt.Fprintf(&msg, "illegal token %q", e.Subject)
	default:
		msg.WriteString(e.Kind.String())
	}
	return msg.String()
}

func writeFound(msg *strings.Builder, subject string) {
	switch subject {
	case "":
		msg.WriteString(" but reached end of input")
		return
	case "\n":
		msg.WriteString(" but reached end of line")
		return
	}
	fmt.Fprintf(msg, " but got %q", subject)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an [*Error] of the same kind. It allows matching errors by kind
// using errors.Is(err, &merm.Error{Kind: merm.DuplicateEdge}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}
