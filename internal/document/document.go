// Package document turns diagram source code into the model printed, served and hashed by the
// merm tools.
package document

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cnf/structhash"

	"github.com/teleivo/merm/flowchart"
	"github.com/teleivo/merm/pie"
)

// Detect returns the dialect src is written in judging by its first word.
func Detect(src string) string {
	if strings.HasPrefix(strings.TrimLeft(src, " \t\r\n\f"), "pie") {
		return "pie"
	}
	return "flowchart"
}

// ValidDialect reports whether dialect can be passed to [Parse].
func ValidDialect(dialect string) bool {
	return dialect == "auto" || dialect == "flowchart" || dialect == "pie"
}

// Document is a parsed diagram. Exactly one of Flowchart and Pie is set.
type Document struct {
	Dialect   string     `json:"dialect"`
	Flowchart *Flowchart `json:"flowchart,omitempty"`
	Pie       *Pie       `json:"pie,omitempty"`
	Digest    string     `json:"digest,omitempty"`
}

type Flowchart struct {
	Direction string `json:"direction"`
	Nodes     []Node `json:"nodes"`
	Edges     []Edge `json:"edges"`
}

type Node struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
	Shape string `json:"shape"`
}

type Edge struct {
	From       string `json:"from"`
	To         string `json:"to"`
	LineStyle  string `json:"lineStyle"`
	ArrowStart string `json:"arrowStart"`
	ArrowEnd   string `json:"arrowEnd"`
	Rank       int    `json:"rank"`
	Label      string `json:"label,omitempty"`
}

type Pie struct {
	Title    *string `json:"title,omitempty"`
	ShowData bool    `json:"showData"`
	Data     []Datum `json:"data"`
}

type Datum struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Percent string  `json:"percent"`
}

// Parse parses src in the given dialect. The dialect "auto" uses [Detect]. Parse errors are
// returned as [*merm.Error].
func Parse(dialect, src string) (*Document, error) {
	if dialect == "auto" {
		dialect = Detect(src)
	}

	switch dialect {
	case "flowchart":
		f, err := flowchart.Parse(src)
		if err != nil {
			return nil, err
		}
		return &Document{Dialect: dialect, Flowchart: newFlowchart(f)}, nil
	case "pie":
		p, err := pie.Parse(src)
		if err != nil {
			return nil, err
		}
		return &Document{Dialect: dialect, Pie: newPie(p)}, nil
	}
	return nil, fmt.Errorf("invalid dialect %q: must be one of auto, flowchart or pie", dialect)
}

func newFlowchart(f *flowchart.Flowchart) *Flowchart {
	doc := Flowchart{Direction: f.Direction.String(), Nodes: []Node{}, Edges: []Edge{}}
	for _, n := range f.Nodes() {
		doc.Nodes = append(doc.Nodes, Node{ID: n.ID, Label: n.Label, Shape: n.Shape.String()})
	}
	for _, e := range f.Edges() {
		doc.Edges = append(doc.Edges, Edge{
			From:       e.From,
			To:         e.To,
			LineStyle:  e.LineStyle.String(),
			ArrowStart: e.ArrowStart.String(),
			ArrowEnd:   e.ArrowEnd.String(),
			Rank:       e.Rank,
			Label:      e.Label,
		})
	}
	return &doc
}

func newPie(p *pie.Pie) *Pie {
	doc := Pie{Title: p.Title, ShowData: p.ShowData, Data: make([]Datum, len(p.Data))}
	percentages := p.Percentages()
	for i, d := range p.Data {
		doc.Data[i] = Datum{Label: d.Label, Value: d.Value, Percent: percentages[i]}
	}
	return &doc
}

// Node returns the flowchart node identified by id.
func (d *Document) Node(id string) (Node, bool) {
	if d.Flowchart == nil {
		return Node{}, false
	}
	for _, n := range d.Flowchart.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Datum returns the first pie datum labeled label.
func (d *Document) Datum(label string) (Datum, bool) {
	if d.Pie == nil {
		return Datum{}, false
	}
	for _, datum := range d.Pie.Data {
		if datum.Label == label {
			return datum, true
		}
	}
	return Datum{}, false
}

// pieDigest is hashed instead of a Pie so an absent title differs from an empty one.
type pieDigest struct {
	Title    bool
	Text     string
	ShowData bool
	Data     []Datum
}

// ComputeDigest hashes the model and stores the result in Digest. Diagrams that only differ in
// whitespace or comments have the same digest.
func (d *Document) ComputeDigest() error {
	var v any
	if d.Flowchart != nil {
		v = *d.Flowchart
	} else {
		pd := pieDigest{ShowData: d.Pie.ShowData, Data: d.Pie.Data}
		if d.Pie.Title != nil {
			pd.Title, pd.Text = true, *d.Pie.Title
		}
		v = pd
	}
	h, err := structhash.Hash(v, 1)
	if err != nil {
		return fmt.Errorf("failed to compute digest: %v", err)
	}
	d.Digest = h
	return nil
}

// WriteJSON writes the document as indented JSON.
func (d *Document) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// WriteText writes the document as tables aligned for reading in a terminal.
func (d *Document) WriteText(w io.Writer) error {
	var err error
	if d.Flowchart != nil {
		err = d.Flowchart.writeText(w)
	} else {
		err = d.Pie.writeText(w)
	}
	if err != nil {
		return err
	}
	if d.Digest != "" {
		_, err = fmt.Fprintf(w, "\ndigest %s\n", d.Digest)
	}
	return err
}

func (f *Flowchart) writeText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "flowchart %s\n\n", f.Direction); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "NODE\tSHAPE\tLABEL\n")
	for _, n := range f.Nodes {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", n.ID, n.Shape, n.Label)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(f.Edges) == 0 {
		return nil
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "FROM\tTO\tLINE\tSTART\tEND\tRANK\n")
	for _, e := range f.Edges {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n", e.From, e.To, e.LineStyle, e.ArrowStart, e.ArrowEnd, e.Rank)
	}
	return tw.Flush()
}

func (p *Pie) writeText(w io.Writer) error {
	header := "pie"
	if p.ShowData {
		header += " showData"
	}
	if p.Title != nil {
		header += " title " + *p.Title
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", header); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "LABEL\tVALUE\tPERCENT\n")
	for _, d := range p.Data {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Label, strconv.FormatFloat(d.Value, 'f', -1, 64), d.Percent)
	}
	return tw.Flush()
}
