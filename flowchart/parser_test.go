package flowchart_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"
	"github.com/teleivo/merm"
	"github.com/teleivo/merm/flowchart"
	"github.com/teleivo/merm/token"
)

func TestParse(t *testing.T) {
	t.Run("Header", func(t *testing.T) {
		tests := map[string]struct {
			in   string
			want flowchart.Direction
		}{
			"TopBottom":           {in: "flowchart TB", want: flowchart.TopBottom},
			"TopDown":             {in: "flowchart TD", want: flowchart.TopBottom},
			"BottomTop":           {in: "flowchart BT", want: flowchart.BottomTop},
			"LeftRight":           {in: "flowchart LR", want: flowchart.LeftRight},
			"RightLeft":           {in: "flowchart RL", want: flowchart.RightLeft},
			"LeadingWhitespace":   {in: "\n\t  flowchart   RL\n", want: flowchart.RightLeft},
			"StatementAfterBlank": {in: "flowchart LR\n\n\nA --> B", want: flowchart.LeftRight},
		}

		for name, test := range tests {
			t.Run(name, func(t *testing.T) {
				f, err := flowchart.Parse(test.in)

				require.NoError(t, err, "Parse(%q)", test.in)
				assert.EqualValues(t, f.Direction, test.want, "Parse(%q)", test.in)
			})
		}
	})

	t.Run("Statements", func(t *testing.T) {
		arrow := flowchart.Connector{ArrowEnd: flowchart.Arrow, Rank: 1}

		tests := map[string]struct {
			in        string
			wantNodes []flowchart.Node
			wantEdges []flowchart.Edge
		}{
			"OneTargetPerLine": {
				in: "flowchart TB\nA --> C\nA --> D",
				wantNodes: []flowchart.Node{
					{ID: "A"},
					{ID: "C"},
					{ID: "D"},
				},
				wantEdges: []flowchart.Edge{
					{From: "A", To: "C", Connector: arrow},
					{From: "A", To: "D", Connector: arrow},
				},
			},
			"FanOut": {
				in: "flowchart TB\nA & B --> C & D",
				wantNodes: []flowchart.Node{
					{ID: "A"},
					{ID: "B"},
					{ID: "C"},
					{ID: "D"},
				},
				wantEdges: []flowchart.Edge{
					{From: "A", To: "C", Connector: arrow},
					{From: "A", To: "D", Connector: arrow},
					{From: "B", To: "C", Connector: arrow},
					{From: "B", To: "D", Connector: arrow},
				},
			},
			"FanOutWithoutSpaces": {
				in: "flowchart TB\nA&B-->C",
				wantNodes: []flowchart.Node{
					{ID: "A"},
					{ID: "B"},
					{ID: "C"},
				},
				wantEdges: []flowchart.Edge{
					{From: "A", To: "C", Connector: arrow},
					{From: "B", To: "C", Connector: arrow},
				},
			},
			"Chain": {
				in: "flowchart TB\nA --> B -.-> C & D ==> E",
				wantNodes: []flowchart.Node{
					{ID: "A"},
					{ID: "B"},
					{ID: "C"},
					{ID: "D"},
					{ID: "E"},
				},
				wantEdges: []flowchart.Edge{
					{From: "A", To: "B", Connector: arrow},
					{From: "B", To: "C", Connector: flowchart.Connector{LineStyle: flowchart.Dotted, ArrowEnd: flowchart.Arrow, Rank: 1}},
					{From: "B", To: "D", Connector: flowchart.Connector{LineStyle: flowchart.Dotted, ArrowEnd: flowchart.Arrow, Rank: 1}},
					{From: "C", To: "E", Connector: flowchart.Connector{LineStyle: flowchart.Thick, ArrowEnd: flowchart.Arrow, Rank: 1}},
					{From: "D", To: "E", Connector: flowchart.Connector{LineStyle: flowchart.Thick, ArrowEnd: flowchart.Arrow, Rank: 1}},
				},
			},
			"SubroutineFanOut": {
				in: "flowchart TB\nA[[ text ]] ----> C & D",
				wantNodes: []flowchart.Node{
					{ID: "A", Label: " text ", Shape: flowchart.Subroutine},
					{ID: "C"},
					{ID: "D"},
				},
				wantEdges: []flowchart.Edge{
					{From: "A", To: "C", Connector: flowchart.Connector{ArrowEnd: flowchart.Arrow, Rank: 3}},
					{From: "A", To: "D", Connector: flowchart.Connector{ArrowEnd: flowchart.Arrow, Rank: 3}},
				},
			},
			"MentionAfterDeclaration": {
				in: "flowchart TB\nA[Start] --> B{Is it?}\nB --> A",
				wantNodes: []flowchart.Node{
					{ID: "A", Label: "Start"},
					{ID: "B", Label: "Is it?", Shape: flowchart.Rhombus},
				},
				wantEdges: []flowchart.Edge{
					{From: "A", To: "B", Connector: arrow},
					{From: "B", To: "A", Connector: arrow},
				},
			},
			"SelfEdge": {
				in: "flowchart TB\nA --> A",
				wantNodes: []flowchart.Node{
					{ID: "A"},
				},
				wantEdges: []flowchart.Edge{
					{From: "A", To: "A", Connector: arrow},
				},
			},
			"CommentsAndBlankLines": {
				in: "flowchart TB\n%% the start\n\n   A --> B   \r\n\t%% the end\n",
				wantNodes: []flowchart.Node{
					{ID: "A"},
					{ID: "B"},
				},
				wantEdges: []flowchart.Edge{
					{From: "A", To: "B", Connector: arrow},
				},
			},
			"StatementOnHeaderLine": {
				in: "flowchart TB A --> B",
				wantNodes: []flowchart.Node{
					{ID: "A"},
					{ID: "B"},
				},
				wantEdges: []flowchart.Edge{
					{From: "A", To: "B", Connector: arrow},
				},
			},
			"OnlyHeader": {
				in:        "flowchart TB\n",
				wantNodes: []flowchart.Node{},
				wantEdges: []flowchart.Edge{},
			},
		}

		for name, test := range tests {
			t.Run(name, func(t *testing.T) {
				f, err := flowchart.Parse(test.in)

				require.NoError(t, err, "Parse(%q)", test.in)
				assert.EqualValues(t, f.Nodes(), test.wantNodes, "Parse(%q)", test.in)
				assert.EqualValues(t, f.Edges(), test.wantEdges, "Parse(%q)", test.in)
			})
		}
	})

	t.Run("Shapes", func(t *testing.T) {
		tests := map[string]struct {
			in   string
			want flowchart.Node
		}{
			"Square":               {in: "A[label]", want: flowchart.Node{ID: "A", Label: "label", Shape: flowchart.Square}},
			"Round":                {in: "A(label)", want: flowchart.Node{ID: "A", Label: "label", Shape: flowchart.Round}},
			"Stadium":              {in: "A([label])", want: flowchart.Node{ID: "A", Label: "label", Shape: flowchart.Stadium}},
			"Subroutine":           {in: "A[[label]]", want: flowchart.Node{ID: "A", Label: "label", Shape: flowchart.Subroutine}},
			"Cylinder":             {in: "A[(label)]", want: flowchart.Node{ID: "A", Label: "label", Shape: flowchart.Cylinder}},
			"Circle":               {in: "A((label))", want: flowchart.Node{ID: "A", Label: "label", Shape: flowchart.Circle}},
			"DoubleCircle":         {in: "A(((label)))", want: flowchart.Node{ID: "A", Label: "label", Shape: flowchart.DoubleCircle}},
			"Asymmetric":           {in: "A>label]", want: flowchart.Node{ID: "A", Label: "label", Shape: flowchart.Asymmetric}},
			"Rhombus":              {in: "A{label}", want: flowchart.Node{ID: "A", Label: "label", Shape: flowchart.Rhombus}},
			"Hexagon":              {in: "A{{label}}", want: flowchart.Node{ID: "A", Label: "label", Shape: flowchart.Hexagon}},
			"Parallelogram":        {in: "A[/label/]", want: flowchart.Node{ID: "A", Label: "label", Shape: flowchart.Parallelogram}},
			"ParallelogramReverse": {in: `A[\label\]`, want: flowchart.Node{ID: "A", Label: "label", Shape: flowchart.ParallelogramReverse}},
			"Trapezoid":            {in: `A[/label\]`, want: flowchart.Node{ID: "A", Label: "label", Shape: flowchart.Trapezoid}},
			"TrapezoidReverse":     {in: `A[\label/]`, want: flowchart.Node{ID: "A", Label: "label", Shape: flowchart.TrapezoidReverse}},
			"SpaceBeforeShape":     {in: "A [label]", want: flowchart.Node{ID: "A", Label: "label", Shape: flowchart.Square}},
			"UnquotedKeepsSpace":   {in: "A( two words )", want: flowchart.Node{ID: "A", Label: " two words ", Shape: flowchart.Round}},
			"UnquotedEndsAtFirstClose": {
				in:   "A[a[b]",
				want: flowchart.Node{ID: "A", Label: "a[b", Shape: flowchart.Square},
			},
			"UnquotedUnicode": {in: "A{{Grüße}}", want: flowchart.Node{ID: "A", Label: "Grüße", Shape: flowchart.Hexagon}},
			"Quoted":          {in: `A["a (label)"]`, want: flowchart.Node{ID: "A", Label: "a (label)", Shape: flowchart.Square}},
			"QuotedPadded":    {in: `A((  "label"  ))`, want: flowchart.Node{ID: "A", Label: "label", Shape: flowchart.Circle}},
			"QuotedCloseInLabel": {
				in:   `A[/"a/]b"\]`,
				want: flowchart.Node{ID: "A", Label: "a/]b", Shape: flowchart.Trapezoid},
			},
			"EmptyLabel": {in: "A[]", want: flowchart.Node{ID: "A", Shape: flowchart.Square}},
		}

		for name, test := range tests {
			t.Run(name, func(t *testing.T) {
				in := "flowchart LR\n" + test.in + " --> B"

				f, err := flowchart.Parse(in)

				require.NoError(t, err, "Parse(%q)", in)
				got, ok := f.Node("A")
				require.True(t, ok, "Parse(%q) is missing node A", in)
				assert.EqualValues(t, got, test.want, "Parse(%q)", in)
				_, ok = f.Edge("A", "B")
				assert.True(t, ok, "Parse(%q) is missing edge A --> B", in)
			})
		}
	})

	t.Run("Connectors", func(t *testing.T) {
		tests := map[string]struct {
			in   string
			want flowchart.Connector
		}{
			"Arrow":           {in: "-->", want: flowchart.Connector{ArrowEnd: flowchart.Arrow, Rank: 1}},
			"LongerArrow":     {in: "--->", want: flowchart.Connector{ArrowEnd: flowchart.Arrow, Rank: 2}},
			"Line":            {in: "---", want: flowchart.Connector{Rank: 1}},
			"LongerLine":      {in: "----", want: flowchart.Connector{Rank: 2}},
			"ShortestLine":    {in: "--", want: flowchart.Connector{Rank: 0}},
			"ThickArrow":      {in: "==>", want: flowchart.Connector{LineStyle: flowchart.Thick, ArrowEnd: flowchart.Arrow, Rank: 1}},
			"ThickLine":       {in: "===", want: flowchart.Connector{LineStyle: flowchart.Thick, Rank: 1}},
			"BothArrows":      {in: "<-->", want: flowchart.Connector{ArrowStart: flowchart.Arrow, ArrowEnd: flowchart.Arrow, Rank: 2}},
			"StartArrowOnly":  {in: "<---", want: flowchart.Connector{ArrowStart: flowchart.Arrow, Rank: 2}},
			"Circles":         {in: "o--o", want: flowchart.Connector{ArrowStart: flowchart.CircleArrow, ArrowEnd: flowchart.CircleArrow, Rank: 2}},
			"Crosses":         {in: "x==x", want: flowchart.Connector{LineStyle: flowchart.Thick, ArrowStart: flowchart.CrossArrow, ArrowEnd: flowchart.CrossArrow, Rank: 2}},
			"EndCircle":       {in: "--o", want: flowchart.Connector{ArrowEnd: flowchart.CircleArrow, Rank: 1}},
			"EndCross":        {in: "--x", want: flowchart.Connector{ArrowEnd: flowchart.CrossArrow, Rank: 1}},
			"Dotted":          {in: "-.-", want: flowchart.Connector{LineStyle: flowchart.Dotted, Rank: 1}},
			"DottedArrow":     {in: "-.->", want: flowchart.Connector{LineStyle: flowchart.Dotted, ArrowEnd: flowchart.Arrow, Rank: 1}},
			"LongerDotted":    {in: "-...->", want: flowchart.Connector{LineStyle: flowchart.Dotted, ArrowEnd: flowchart.Arrow, Rank: 3}},
			"DottedBothEnds":  {in: "<-.->", want: flowchart.Connector{LineStyle: flowchart.Dotted, ArrowStart: flowchart.Arrow, ArrowEnd: flowchart.Arrow, Rank: 1}},
			"DottedCircleEnd": {in: "-..-o", want: flowchart.Connector{LineStyle: flowchart.Dotted, ArrowEnd: flowchart.CircleArrow, Rank: 2}},
		}

		for name, test := range tests {
			t.Run(name, func(t *testing.T) {
				in := "flowchart LR\nA " + test.in + " B"

				f, err := flowchart.Parse(in)

				require.NoError(t, err, "Parse(%q)", in)
				got, ok := f.Edge("A", "B")
				require.True(t, ok, "Parse(%q) is missing edge A --> B", in)
				assert.EqualValues(t, got, test.want, "Parse(%q)", in)
			})
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		in := `flowchart LR
A[Start] --> B{Is it?}
B --o C & D
C ==> E((End)) -.-> A`

		first, err := flowchart.Parse(in)
		require.NoError(t, err, "Parse(%q)", in)
		second, err := flowchart.Parse(in)
		require.NoError(t, err, "Parse(%q)", in)

		assert.EqualValues(t, second.Direction, first.Direction, "Parse(%q) twice", in)
		assert.EqualValues(t, second.Nodes(), first.Nodes(), "Parse(%q) twice", in)
		assert.EqualValues(t, second.Edges(), first.Edges(), "Parse(%q) twice", in)
		assert.EqualValues(t, len(first.Edges()), 5, "Parse(%q)", in)
	})

	t.Run("Invalid", func(t *testing.T) {
		tests := map[string]struct {
			in       string
			wantKind merm.ErrorKind
			wantErr  string
		}{
			"MissingKeyword": {
				in:       "pie",
				wantKind: merm.ExpectedLiteral,
				wantErr:  `1:1: expected "flowchart" but got "p"`,
			},
			"MissingDirection": {
				in:       "flowchart",
				wantKind: merm.ExpectedLiteral,
				wantErr:  `1:10: expected "TB", "TD", "BT", "RL" or "LR" but reached end of input`,
			},
			"InvalidDirection": {
				in:       "flowchart XY",
				wantKind: merm.ExpectedLiteral,
				wantErr:  `1:11: expected "TB", "TD", "BT", "RL" or "LR" but got "X"`,
			},
			"DuplicateNode": {
				in:       "flowchart LR\nA[one] --> B\nA(two) --> C",
				wantKind: merm.DuplicateNode,
				wantErr:  `3:1: node "A" is already declared, label and shape can only be given once`,
			},
			"DeclarationAfterMention": {
				in:       "flowchart LR\nA --> B\nB[b] --> C",
				wantKind: merm.DuplicateNode,
				wantErr:  `3:1: node "B" is already declared, label and shape can only be given once`,
			},
			"IdenticalDeclaration": {
				in:       "flowchart LR\nA[x] --> B & A[x]",
				wantKind: merm.DuplicateNode,
				wantErr:  `2:14: node "A" is already declared, label and shape can only be given once`,
			},
			"DuplicateEdge": {
				in:       "flowchart LR\nA --> B\nA -.-> B",
				wantKind: merm.DuplicateEdge,
				wantErr:  `3:3: edge A --> B is already declared`,
			},
			"DuplicateEdgeInFanOut": {
				in:       "flowchart LR\nA --> B & B",
				wantKind: merm.DuplicateEdge,
				wantErr:  `2:3: edge A --> B is already declared`,
			},
			"InconsistentLineStyle": {
				in:       "flowchart LR\nA -=-> B",
				wantKind: merm.InconsistentLineStyle,
				wantErr:  `2:4: inconsistent line style: cannot mix '-' and '=' in one connector`,
			},
			"InconsistentLineStyleLater": {
				in:       "flowchart LR\nA ==-> B",
				wantKind: merm.InconsistentLineStyle,
				wantErr:  `2:5: inconsistent line style: cannot mix '-' and '=' in one connector`,
			},
			"UnclosedNode": {
				in:       "flowchart LR\nA[label --> B",
				wantKind: merm.UnclosedNode,
				wantErr:  `2:2: unclosed node "A": missing "]"`,
			},
			"UnclosedNodeAtLineEnd": {
				in:       "flowchart LR\nA[label\n] --> B",
				wantKind: merm.UnclosedNode,
				wantErr:  `2:2: unclosed node "A": missing "]"`,
			},
			"UnmatchedShape": {
				in:       "flowchart LR\nA[\"label\") --> B",
				wantKind: merm.UnmatchedShape,
				wantErr:  `2:10: label of node "A" must be closed by "]"`,
			},
			"UnmatchedAmbiguousShape": {
				in:       "flowchart LR\nA[/\"x\"] --> B",
				wantKind: merm.UnmatchedShape,
				wantErr:  `2:7: label of node "A" must be closed by "/]" or "\\]"`,
			},
			"UnclosedQuote": {
				in:       "flowchart LR\nA[\"label] --> B",
				wantKind: merm.UnclosedQuote,
				wantErr:  `2:3: unclosed quote: missing closing "\""`,
			},
			"MissingConnector": {
				in:       "flowchart LR\nA B",
				wantKind: merm.ExpectedLiteral,
				wantErr:  `2:3: expected "-" or "=" but got "B"`,
			},
			"MissingTarget": {
				in:       "flowchart LR\nA -->  ",
				wantKind: merm.ExpectedIdentifier,
				wantErr:  `2:6: expected identifier but reached end of input`,
			},
			"MissingTargetBeforeNextLine": {
				in:       "flowchart TB\nA -->\nB --> C",
				wantKind: merm.ExpectedIdentifier,
				wantErr:  `2:6: expected identifier but reached end of line`,
			},
			"TrailingNode": {
				in:       "flowchart LR\nA --> B C",
				wantKind: merm.ExpectedLiteral,
				wantErr:  `2:9: expected "-" or "=" but got "C"`,
			},
			"EmptyListMember": {
				in:       "flowchart LR\nA & --> B",
				wantKind: merm.ExpectedIdentifier,
				wantErr:  `2:5: expected identifier but got "-"`,
			},
		}

		for name, test := range tests {
			t.Run(name, func(t *testing.T) {
				f, err := flowchart.Parse(test.in)

				require.NotNil(t, err, "Parse(%q)", test.in)
				assert.True(t, f == nil, "Parse(%q) must not return a flowchart on error", test.in)
				var perr *merm.Error
				require.True(t, errors.As(err, &perr), "Parse(%q) must return a *merm.Error", test.in)
				assert.EqualValues(t, perr.Kind, test.wantKind, "Parse(%q)", test.in)
				assert.EqualValues(t, err.Error(), test.wantErr, "Parse(%q)", test.in)
			})
		}
	})

	t.Run("ErrorPositionCountsRunes", func(t *testing.T) {
		in := "flowchart LR\nA[äö] -=> B"

		_, err := flowchart.Parse(in)

		var perr *merm.Error
		require.True(t, errors.As(err, &perr), "Parse(%q) must return a *merm.Error", in)
		assert.EqualValues(t, perr.Pos, token.Position{Line: 2, Column: 8, Offset: 22}, "Parse(%q)", in)
	})
}

// maxParseDuration bounds parsing of the inputs in TestParseLargeInput. Inputs are large enough
// that parsing in quadratic time would exceed it by far.
const maxParseDuration = 5 * time.Second

func TestParseLargeInput(t *testing.T) {
	const n = 100_000

	var fanOut strings.Builder
	fanOut.WriteString("flowchart TB\nA --> n0")
	for i := 1; i < n; i++ {
		fanOut.WriteString(" & n")
		fanOut.WriteString(strconv.Itoa(i))
	}

	t.Run("FanOut", func(t *testing.T) {
		in := fanOut.String()

		start := time.Now()
		got, err := flowchart.Parse(in)
		elapsed := time.Since(start)

		require.NoError(t, err, "Parse(fan-out of %d)", n)
		assert.EqualValues(t, len(got.Edges()), n, "Parse(fan-out of %d)", n)
		assert.True(t, elapsed < maxParseDuration, "Parse(fan-out of %d) took %s", n, elapsed)
	})

	tests := map[string]struct {
		in       string
		wantKind merm.ErrorKind
	}{
		"UnclosedLabel": {
			in:       "flowchart TB\nA[" + strings.Repeat("a", 1<<20) + " --> B",
			wantKind: merm.UnclosedNode,
		},
		"UnclosedQuotedLabel": {
			in:       "flowchart TB\nA[\"" + strings.Repeat("a", 1<<20) + "] --> B",
			wantKind: merm.UnclosedQuote,
		},
		"DuplicateEdgeAfterFanOut": {
			in:       fanOut.String() + " & n0",
			wantKind: merm.DuplicateEdge,
		},
		"LongIdentifierWithoutConnector": {
			in:       "flowchart TB\n" + strings.Repeat("a", 1<<20) + " " + strings.Repeat("b", 1<<20),
			wantKind: merm.ExpectedLiteral,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			start := time.Now()
			_, err := flowchart.Parse(test.in)
			elapsed := time.Since(start)

			require.NotNil(t, err, "Parse(%d bytes)", len(test.in))
			assert.True(t, errors.Is(err, &merm.Error{Kind: test.wantKind}), "Parse(%d bytes) want %s, got %v", len(test.in), test.wantKind, err)
			assert.True(t, elapsed < maxParseDuration, "Parse(%d bytes) took %s", len(test.in), elapsed)
		})
	}
}
