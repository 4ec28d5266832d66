// Package pie parses the pie chart dialect.
//
// A pie chart is the keyword pie, an optional showData flag, an optional title and one or more
// quoted labels with their value:
//
//	pie showData
//	    title Key elements in Product X
//	    "Calcium" : 42.96
//	    "Potassium" : 50.05
//	    "Magnesium" : 10.01
//
// Whitespace including newlines is insignificant between these parts.
package pie

import (
	"fmt"
	"strconv"
)

// Pie is a parsed pie chart.
type Pie struct {
	// Title is displayed above the chart. A nil title takes no space while an empty title leaves
	// room for one.
	Title *string
	// ShowData adds the value of each datum to its legend entry.
	ShowData bool
	// Data is in source order which is the order segments are drawn in.
	Data []Datum
}

// Datum is a labeled value of a pie chart.
type Datum struct {
	Label string
	// Value is taken as written. It is not checked for being positive.
	Value float64
}

// Total returns the sum of all values.
func (p *Pie) Total() float64 {
	var total float64
	for _, d := range p.Data {
		total += d.Value
	}
	return total
}

// Fractions returns the share of the total each datum takes up. All fractions are zero if the
// total is zero.
func (p *Pie) Fractions() []float64 {
	fractions := make([]float64, len(p.Data))
	total := p.Total()
	if total == 0 {
		return fractions
	}
	for i, d := range p.Data {
		fractions[i] = d.Value / total
	}
	return fractions
}

// Percentages returns the segment labels, each datum's share of the total as a rounded percentage
// like "42%".
func (p *Pie) Percentages() []string {
	fractions := p.Fractions()
	labels := make([]string, len(fractions))
	for i, f := range fractions {
		labels[i] = fmt.Sprintf("%.0f%%", f*100)
	}
	return labels
}

// Legend returns the legend entry of each datum. An entry is the label followed by the value in
// brackets if ShowData is set.
func (p *Pie) Legend() []string {
	legend := make([]string, len(p.Data))
	for i, d := range p.Data {
		if p.ShowData {
			legend[i] = d.Label + " [" + strconv.FormatFloat(d.Value, 'f', -1, 64) + "]"
		} else {
			legend[i] = d.Label
		}
	}
	return legend
}
