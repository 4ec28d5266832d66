// Package flowchart parses the flowchart dialect into a directed graph of shaped nodes.
//
// A flowchart starts with a header naming the direction the chart flows in, followed by one
// statement per line connecting nodes:
//
//	flowchart LR
//	A[Start] --> B{Is it?}
//	B --o C & D
//	C ==> E((End)) -.-> A
//
// Nodes are created when first mentioned. A node's label and shape are given by the delimiters
// following its identifier and can be declared once. Edges carry the style of the connector that
// created them. Lines starting with %% are comments.
package flowchart

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/teleivo/merm/internal/assert"
)

// Direction is the direction a flowchart flows in.
type Direction int

const (
	TopBottom Direction = iota // TB or TD
	BottomTop                  // BT
	LeftRight                  // LR
	RightLeft                  // RL
)

var directionStrings = [...]string{
	TopBottom: "TB",
	BottomTop: "BT",
	LeftRight: "LR",
	RightLeft: "RL",
}

func (d Direction) String() string {
	return directionStrings[d]
}

// Shape is the shape a node is drawn in. It is selected by the delimiters around a node label.
type Shape int

const (
	Square               Shape = iota // A[label]
	Round                             // A(label)
	Stadium                           // A([label])
	Subroutine                        // A[[label]]
	Cylinder                          // A[(label)]
	Circle                            // A((label))
	DoubleCircle                      // A(((label)))
	Asymmetric                        // A>label]
	Rhombus                           // A{label}
	Hexagon                           // A{{label}}
	Parallelogram                     // A[/label/]
	ParallelogramReverse              // A[\label\]
	Trapezoid                         // A[/label\]
	TrapezoidReverse                  // A[\label/]
)

var shapeStrings = [...]string{
	Square:               "square",
	Round:                "round",
	Stadium:              "stadium",
	Subroutine:           "subroutine",
	Cylinder:             "cylinder",
	Circle:               "circle",
	DoubleCircle:         "double circle",
	Asymmetric:           "asymmetric",
	Rhombus:              "rhombus",
	Hexagon:              "hexagon",
	Parallelogram:        "parallelogram",
	ParallelogramReverse: "reverse parallelogram",
	Trapezoid:            "trapezoid",
	TrapezoidReverse:     "reverse trapezoid",
}

func (s Shape) String() string {
	return shapeStrings[s]
}

// LineStyle is the style of a connector's line.
type LineStyle int

const (
	Normal LineStyle = iota // ---
	Thick                   // ===
	Dotted                  // -.-
)

var lineStyleStrings = [...]string{
	Normal: "normal",
	Thick:  "thick",
	Dotted: "dotted",
}

func (l LineStyle) String() string {
	return lineStyleStrings[l]
}

// ArrowStyle is the head drawn at one end of a connector.
type ArrowStyle int

const (
	NoArrow     ArrowStyle = iota
	Arrow                  // < or >
	CircleArrow            // o
	CrossArrow             // x
)

var arrowStyleStrings = [...]string{
	NoArrow:     "none",
	Arrow:       "arrow",
	CircleArrow: "circle",
	CrossArrow:  "cross",
}

func (a ArrowStyle) String() string {
	return arrowStyleStrings[a]
}

// Node is a node of a flowchart.
type Node struct {
	// ID identifies the node within its flowchart.
	ID string
	// Label is the text displayed inside the node. An empty label displays the ID.
	Label string
	Shape Shape
}

// LabelOrID returns the text to display for the node.
func (n Node) LabelOrID() string {
	if n.Label == "" {
		return n.ID
	}
	return n.Label
}

// Connector describes how an edge is drawn.
type Connector struct {
	LineStyle  LineStyle
	ArrowStart ArrowStyle
	ArrowEnd   ArrowStyle
	// Label is always empty as labels on connectors are not supported yet.
	Label string
	// Rank hints at the length of the edge. Layouts should only rely on the relative order of
	// ranks.
	Rank int
}

// Edge connects two nodes of a flowchart.
type Edge struct {
	From, To string
	Connector
}

type edgeKey struct {
	from, to string
}

// Flowchart is a parsed flowchart. Nodes and edges are iterated in the order they were first
// declared in.
type Flowchart struct {
	Direction Direction
	nodes     *linkedhashmap.Map // string -> Node
	edges     *linkedhashmap.Map // edgeKey -> Edge
}

func newFlowchart(direction Direction) *Flowchart {
	return &Flowchart{
		Direction: direction,
		nodes:     linkedhashmap.New(),
		edges:     linkedhashmap.New(),
	}
}

// Nodes returns the nodes in declaration order.
func (f *Flowchart) Nodes() []Node {
	nodes := make([]Node, 0, f.nodes.Size())
	for it := f.nodes.Iterator(); it.Next(); {
		nodes = append(nodes, it.Value().(Node))
	}
	return nodes
}

// Node returns the node identified by id.
func (f *Flowchart) Node(id string) (Node, bool) {
	n, ok := f.nodes.Get(id)
	if !ok {
		return Node{}, false
	}
	return n.(Node), true
}

// Edges returns the edges in declaration order.
func (f *Flowchart) Edges() []Edge {
	edges := make([]Edge, 0, f.edges.Size())
	for it := f.edges.Iterator(); it.Next(); {
		edges = append(edges, it.Value().(Edge))
	}
	return edges
}

// Edge returns the connector of the edge from node from to node to.
func (f *Flowchart) Edge(from, to string) (Connector, bool) {
	e, ok := f.edges.Get(edgeKey{from, to})
	if !ok {
		return Connector{}, false
	}
	return e.(Edge).Connector, true
}

// Successors returns the identifiers of the nodes that node id has an edge to, in declaration
// order of the edges.
func (f *Flowchart) Successors(id string) []string {
	var succ []string
	for it := f.edges.Iterator(); it.Next(); {
		if k := it.Key().(edgeKey); k.from == id {
			succ = append(succ, k.to)
		}
	}
	return succ
}

// addNode registers n. A node that only mentions its identifier is added unless it exists. A
// declared node must not exist yet.
func (f *Flowchart) addNode(n Node, declared bool) bool {
	_, exists := f.nodes.Get(n.ID)
	if exists {
		return !declared
	}
	f.nodes.Put(n.ID, n)
	return true
}

// addEdge adds an edge unless one with the same ordered pair of nodes exists.
func (f *Flowchart) addEdge(from, to string, conn Connector) bool {
	_, fromOK := f.nodes.Get(from)
	_, toOK := f.nodes.Get(to)
	assert.That(fromOK && toOK, "edge %s -> %s must connect registered nodes", from, to)

	k := edgeKey{from, to}
	if _, exists := f.edges.Get(k); exists {
		return false
	}
	f.edges.Put(k, Edge{From: from, To: to, Connector: conn})
	return true
}
