package style

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load returns the default or dark style overlaid with the values set in v. Values are read from
// keys below "style" like
//
//	style:
//	  pie:
//	    outline:
//	      color: "#333333"
//	      width: 2
//	    palette: ["#1f77b4", "#ff7f0e"]
//	    percentages: false
//	  flowchart:
//	    node:
//	      fill: "#ececff"
//
// Colors are given in hex notation, sizes and widths must be positive.
func Load(v *viper.Viper, dark bool) (Style, error) {
	s := Default()
	if dark {
		s = Dark()
	}

	l := loader{v: v}
	l.color("style.pie.background", &s.Pie.Background)
	l.text("style.pie.title", &s.Pie.Title)
	l.stroke("style.pie.outline", &s.Pie.SegmentOutline)
	l.palette("style.pie.palette", &s.Pie.Segments)
	if s.Pie.SegmentLabel != nil {
		l.text("style.pie.segmentlabel", s.Pie.SegmentLabel)
	}
	if v.IsSet("style.pie.percentages") && !v.GetBool("style.pie.percentages") {
		s.Pie.SegmentLabel = nil
	}
	l.text("style.pie.legend", &s.Pie.LegendLabel)

	l.color("style.flowchart.background", &s.Flowchart.Background)
	l.color("style.flowchart.node.fill", &s.Flowchart.NodeFill)
	l.stroke("style.flowchart.node.outline", &s.Flowchart.NodeOutline)
	l.text("style.flowchart.node.label", &s.Flowchart.NodeLabel)
	l.stroke("style.flowchart.edge", &s.Flowchart.Edge)
	l.stroke("style.flowchart.thickedge", &s.Flowchart.ThickEdge)

	if l.err != nil {
		return Style{}, l.err
	}
	return s, nil
}

// loader sets style values from configuration. It stops at the first invalid value.
type loader struct {
	v   *viper.Viper
	err error
}

func (l *loader) color(key string, c *Color) {
	if l.err != nil || !l.v.IsSet(key) {
		return
	}
	parsed, err := ParseColor(l.v.GetString(key))
	if err != nil {
		l.err = fmt.Errorf("%s: %w", key, err)
		return
	}
	*c = parsed
}

func (l *loader) positive(key string, f *float64) {
	if l.err != nil || !l.v.IsSet(key) {
		return
	}
	value := l.v.GetFloat64(key)
	if value <= 0 {
		l.err = fmt.Errorf("%s: must be a positive number, got %q", key, l.v.GetString(key))
		return
	}
	*f = value
}

func (l *loader) text(prefix string, t *TextStyle) {
	if l.v.IsSet(prefix + ".font") {
		t.Font = l.v.GetString(prefix + ".font")
	}
	l.positive(prefix+".size", &t.Size)
	l.color(prefix+".color", &t.Color)
	if l.v.IsSet(prefix + ".bold") {
		t.Bold = l.v.GetBool(prefix + ".bold")
	}
}

func (l *loader) stroke(prefix string, s *StrokeStyle) {
	l.color(prefix+".color", &s.Color)
	l.positive(prefix+".width", &s.Width)
}

func (l *loader) palette(key string, p *Palette) {
	if l.err != nil || !l.v.IsSet(key) {
		return
	}
	var colors Palette
	for i, hex := range l.v.GetStringSlice(key) {
		c, err := ParseColor(hex)
		if err != nil {
			l.err = fmt.Errorf("%s[%d]: %w", key, i, err)
			return
		}
		colors = append(colors, c)
	}
	if len(colors) == 0 {
		l.err = fmt.Errorf("%s: must list at least one color", key)
		return
	}
	*p = colors
}
