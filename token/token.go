package token

// Kind represents the kinds of lexical tokens of the flowchart and pie dialects.
type Kind int

const (
	ILLEGAL Kind = iota
	// EOF is not part of either dialect and is used to indicate the end of the input. No token
	// should follow the EOF token.
	EOF

	LeftParen    // (
	RightParen   // )
	LeftBracket  // [
	RightBracket // ]
	LeftBrace    // {
	RightBrace   // }
	LeftAngle    // <
	RightAngle   // >
	Slash        // /
	Backslash    // \
	Ampersand    // &
	Colon        // :
	Dash         // -
	Equal        // =
	Dot          // .
	LinkStart    // --
	Link         // ---
	ArrowLink    // -->
	Ident        // like A 12 node1
	String       // like "a label" or |a label|
	Number       // like 42 -1.5 .5e3
	Text         // any other printable character like ? or ü

	// Keywords
	Flowchart // flowchart
	Direction // TB TD BT LR RL
	Pie       // pie
	ShowData  // showData
	Title     // title
)

var kindStrings = map[Kind]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	LeftParen:    "(",
	RightParen:   ")",
	LeftBracket:  "[",
	RightBracket: "]",
	LeftBrace:    "{",
	RightBrace:   "}",
	LeftAngle:    "<",
	RightAngle:   ">",
	Slash:        "/",
	Backslash:    `\`,
	Ampersand:    "&",
	Colon:        ":",
	Dash:         "-",
	Equal:        "=",
	Dot:          ".",
	LinkStart:    "--",
	Link:         "---",
	ArrowLink:    "-->",
	Ident:        "identifier",
	String:       "string",
	Number:       "number",
	Text:         "text",

	Flowchart: "flowchart",
	Direction: "direction",
	Pie:       "pie",
	ShowData:  "showData",
	Title:     "title",
}

func (k Kind) String() string {
	return kindStrings[k]
}

// Punctuation lists the kinds spelled by a single fixed literal.
var Punctuation = []Kind{
	LeftParen, RightParen, LeftBracket, RightBracket, LeftBrace, RightBrace, LeftAngle, RightAngle,
	Slash, Backslash, Ampersand, Colon, Dash, Equal, Dot, LinkStart, Link, ArrowLink,
}

// Keywords maps the keyword spellings of both dialects to their kind. Keywords are case-sensitive.
var Keywords = map[string]Kind{
	"flowchart": Flowchart,
	"TB":        Direction,
	"TD":        Direction,
	"BT":        Direction,
	"LR":        Direction,
	"RL":        Direction,
	"pie":       Pie,
	"showData":  ShowData,
	"title":     Title,
}

// Token represents a lexical token of a diagram dialect.
type Token struct {
	Kind       Kind
	Literal    string
	Start, End Position
}

func (t Token) String() string {
	switch t.Kind {
	case Ident, String, Number, Text, Direction:
		return t.Literal
	}
	return t.Kind.String()
}

// IsKeyword returns true if the token is a keyword of either dialect.
func (t Token) IsKeyword() bool {
	return t.Kind >= Flowchart
}
