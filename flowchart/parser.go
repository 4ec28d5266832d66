package flowchart

import (
	"github.com/teleivo/merm"
	"github.com/teleivo/merm/internal/scan"
	"github.com/teleivo/merm/token"
)

var directions = map[string]Direction{
	"TB": TopBottom,
	"TD": TopBottom,
	"BT": BottomTop,
	"RL": RightLeft,
	"LR": LeftRight,
}

// shapeStarts lists the opening delimiters of node shapes in the order they are tried in. A
// delimiter must come before any shorter delimiter it starts with.
var shapeStarts = []string{"(((", "([", "[[", "[(", "((", "{{", "[/", `[\`, "[", "(", ">", "{"}

type shapeEnd struct {
	delim string
	shape Shape
}

// shapeEnds maps an opening delimiter to the closing delimiters it can be paired with.
var shapeEnds = map[string][]shapeEnd{
	"[":   {{"]", Square}},
	"(":   {{")", Round}},
	"([":  {{"])", Stadium}},
	"[[":  {{"]]", Subroutine}},
	"[(":  {{")]", Cylinder}},
	"((":  {{"))", Circle}},
	"(((": {{")))", DoubleCircle}},
	">":   {{"]", Asymmetric}},
	"{":   {{"}", Rhombus}},
	"{{":  {{"}}", Hexagon}},
	"[/":  {{"/]", Parallelogram}, {`\]`, Trapezoid}},
	`[\`:  {{`\]`, ParallelogramReverse}, {"/]", TrapezoidReverse}},
}

func matchEnd(c scan.Cursor, ends []shapeEnd) (Shape, scan.Cursor, bool) {
	for _, end := range ends {
		if c.HasPrefix(end.delim) {
			return end.shape, c.Advance(len(end.delim)), true
		}
	}
	return Square, c, false
}

func expectedEnds(ends []shapeEnd) string {
	lits := make([]string, len(ends))
	for i, end := range ends {
		lits[i] = end.delim
	}
	return scan.Expected(lits...)
}

// nodeRef is a node as it appears in a statement.
type nodeRef struct {
	Node
	pos token.Position
	// declared is set if the node is followed by a shape.
	declared bool
}

type parser struct {
	chart *Flowchart
	// left and right hold the node lists on either side of the connector being processed. They
	// are reused across the connections of all statements.
	left, right []nodeRef
}

// Parse parses src written in the flowchart dialect. The strings of the returned flowchart are
// substrings of src.
//
// The first error ends parsing and is returned as a [*merm.Error].
func Parse(src string) (*Flowchart, error) {
	c, err := scan.Literal(scan.Space(scan.New(src)), "flowchart")
	if err != nil {
		return nil, err
	}
	lit, c, err := scan.OneOf(scan.Space(c), "TB", "TD", "BT", "RL", "LR")
	if err != nil {
		return nil, err
	}

	p := parser{chart: newFlowchart(directions[lit])}
	for !c.EOF() {
		var line scan.Cursor
		line, c = c.Line()
		line = scan.Space(line).TrimEnd()
		if line.EOF() || line.HasPrefix("%%") {
			continue
		}
		if err := p.statement(line); err != nil {
			return nil, err
		}
	}
	return p.chart, nil
}

// statement parses one line of node lists joined by connectors like
//
//	A & B --> C -.-> D
//
// Each connector connects every node on its left to every node on its right.
func (p *parser) statement(c scan.Cursor) error {
	var err error
	p.left, c, err = nodeList(p.left[:0], c)
	if err != nil {
		return err
	}
	first := true
	for first || !c.EOF() {
		if !first {
			p.left, p.right = p.right, p.left
		}

		pos := c.Pos()
		var conn Connector
		conn, c, err = connector(c)
		if err != nil {
			return err
		}
		p.right, c, err = nodeList(p.right[:0], scan.Space(c))
		if err != nil {
			return err
		}

		if first {
			if err := p.register(p.left); err != nil {
				return err
			}
		}
		if err := p.register(p.right); err != nil {
			return err
		}
		if err := p.connect(conn, pos); err != nil {
			return err
		}
		first = false
	}
	return nil
}

func (p *parser) register(nodes []nodeRef) error {
	for _, n := range nodes {
		if !p.chart.addNode(n.Node, n.declared) {
			return &merm.Error{Kind: merm.DuplicateNode, Pos: n.pos, Subject: n.ID}
		}
	}
	return nil
}

func (p *parser) connect(conn Connector, pos token.Position) error {
	for _, from := range p.left {
		for _, to := range p.right {
			if !p.chart.addEdge(from.ID, to.ID, conn) {
				return &merm.Error{Kind: merm.DuplicateEdge, Pos: pos, Subject: from.ID + " --> " + to.ID}
			}
		}
	}
	return nil
}

// nodeList parses one or more nodes separated by '&' and appends them to nodes. It consumes
// trailing whitespace.
func nodeList(nodes []nodeRef, c scan.Cursor) ([]nodeRef, scan.Cursor, error) {
	n, c, err := node(c)
	if err != nil {
		return nodes, c, err
	}
	nodes = append(nodes, n)
	c = scan.Space(c)
	for c.Peek() == '&' {
		n, c, err = node(scan.Space(c.Next()))
		if err != nil {
			return nodes, c, err
		}
		nodes = append(nodes, n)
		c = scan.Space(c)
	}
	return nodes, c, nil
}

// node parses a node identifier and its optional shape.
func node(c scan.Cursor) (nodeRef, scan.Cursor, error) {
	pos := c.Pos()
	id, c, err := scan.Ident(c)
	if err != nil {
		return nodeRef{}, c, err
	}
	n := nodeRef{Node: Node{ID: id}, pos: pos}

	c = scan.Space(c)
	start, next, err := scan.OneOf(c, shapeStarts...)
	if err != nil {
		return n, c, nil
	}
	startPos := c.Pos()
	c = next
	n.declared = true
	ends := shapeEnds[start]

	if q := scan.Space(c); q.Peek() == '"' {
		label, end, err := scan.Quoted(q, '"')
		if err != nil {
			return nodeRef{}, c, err
		}
		end = scan.Space(end)
		shape, next, ok := matchEnd(end, ends)
		if !ok {
			return nodeRef{}, c, &merm.Error{Kind: merm.UnmatchedShape, Pos: end.Pos(), Want: expectedEnds(ends), Subject: id}
		}
		n.Label, n.Shape = label, shape
		return n, next, nil
	}

	// The label extends up to the first closing delimiter, whatever it contains.
	for end := c; !end.EOF(); end = end.Next() {
		if shape, next, ok := matchEnd(end, ends); ok {
			n.Label, n.Shape = c.Slice(end), shape
			return n, next, nil
		}
	}
	return nodeRef{}, c, &merm.Error{Kind: merm.UnclosedNode, Pos: startPos, Want: expectedEnds(ends), Subject: id}
}

// connector parses a dotted or a solid connector. Connectors are made of an optional start glyph,
// a line and an optional end glyph.
func connector(c scan.Cursor) (Connector, scan.Cursor, error) {
	if conn, next, err := dotted(c); err == nil {
		return conn, next, nil
	}
	return solid(c)
}

// dotted parses connectors like -.- or <-..->. The rank is the number of dots.
func dotted(c scan.Cursor) (Connector, scan.Cursor, error) {
	conn := Connector{LineStyle: Dotted}
	conn.ArrowStart, c = arrow(c, true)
	c, err := scan.Literal(c, "-")
	if err != nil {
		return conn, c, err
	}
	conn.Rank, c = scan.Count(c, '.')
	if conn.Rank == 0 {
		return conn, c, c.Error(merm.ExpectedLiteral, `"."`)
	}
	c, err = scan.Literal(c, "-")
	if err != nil {
		return conn, c, err
	}
	conn.ArrowEnd, c = arrow(c, false)
	return conn, c, nil
}

// solid parses connectors like --> or <===. The rank is the number of line characters minus one
// for the leading character and minus one more if there is no end glyph. A start glyph replaces
// the leading character.
func solid(c scan.Cursor) (Connector, scan.Cursor, error) {
	var conn Connector
	var line rune
	var err error

	conn.ArrowStart, c = arrow(c, true)
	if conn.ArrowStart == NoArrow {
		if line, c, err = segment(c, line); err != nil {
			return conn, c, err
		}
	}
	if line, c, err = segment(c, line); err != nil {
		return conn, c, err
	}
	conn.Rank = 1
	for r := c.Peek(); r == '-' || r == '='; r = c.Peek() {
		if line, c, err = segment(c, line); err != nil {
			return conn, c, err
		}
		conn.Rank++
	}

	conn.ArrowEnd, c = arrow(c, false)
	if conn.ArrowEnd == NoArrow {
		conn.Rank--
	}
	if line == '=' {
		conn.LineStyle = Thick
	}
	return conn, c, nil
}

// segment parses one line character. It must match line unless line is zero.
func segment(c scan.Cursor, line rune) (rune, scan.Cursor, error) {
	r := c.Peek()
	if r != '-' && r != '=' {
		return line, c, c.Error(merm.ExpectedLiteral, scan.Expected("-", "="))
	}
	if line != 0 && r != line {
		return line, c, c.Error(merm.InconsistentLineStyle, "")
	}
	return r, c.Next(), nil
}

// arrow parses an optional glyph at the start or end of a connector.
func arrow(c scan.Cursor, start bool) (ArrowStyle, scan.Cursor) {
	switch r := c.Peek(); {
	case r == 'o':
		return CircleArrow, c.Next()
	case r == 'x':
		return CrossArrow, c.Next()
	case start && r == '<', !start && r == '>':
		return Arrow, c.Next()
	}
	return NoArrow, c
}
