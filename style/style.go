// Package style describes how diagrams are presented.
//
// Styles are plain values. Start from [Default] or [Dark] and change what you need, or overlay
// configuration using [Load]. Nothing in this module keeps a style in global state.
package style

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Color is a color in the RGB color model with an alpha channel.
type Color struct {
	R, G, B, A uint8
}

var (
	Transparent = Color{}
	Black       = RGB(0, 0, 0)
	White       = RGB(0xff, 0xff, 0xff)
)

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 0xff}
}

// ParseColor parses a color in hex notation like "#ff8800" or "#ff880080".
func ParseColor(s string) (Color, error) {
	digits, ok := strings.CutPrefix(s, "#")
	if !ok || (len(digits) != 6 && len(digits) != 8) {
		return Color{}, fmt.Errorf("invalid color %q: must be of the form #rrggbb or #rrggbbaa", s)
	}
	b, err := hex.DecodeString(digits)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	c := RGB(b[0], b[1], b[2])
	if len(b) == 4 {
		c.A = b[3]
	}
	return c, nil
}

// String returns the color in hex notation. The alpha channel is left out if the color is opaque.
func (c Color) String() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// TextStyle describes how text is drawn.
type TextStyle struct {
	Font  string
	Size  float64
	Color Color
	Bold  bool
}

// Text returns the text style used on light backgrounds.
func Text() TextStyle {
	return TextStyle{Font: "sans-serif", Size: 16, Color: Black}
}

// DarkText returns the text style used on dark backgrounds.
func DarkText() TextStyle {
	return TextStyle{Font: "sans-serif", Size: 16, Color: White}
}

// WithBold returns a copy of t with Bold set to bold.
func (t TextStyle) WithBold(bold bool) TextStyle {
	t.Bold = bold
	return t
}

// WithSize returns a copy of t with the given font size.
func (t TextStyle) WithSize(size float64) TextStyle {
	t.Size = size
	return t
}

// LineCap is the shape of the ends of stroked lines.
type LineCap int

const (
	ButtCap LineCap = iota
	RoundCap
	SquareCap
)

// LineJoin is the shape of the corners of stroked lines.
type LineJoin int

const (
	MiterJoin LineJoin = iota
	RoundJoin
	BevelJoin
)

// DefaultMiterLimit is the miter limit as defined by PostScript.
const DefaultMiterLimit = 10.0

// StrokeStyle describes how lines are drawn.
type StrokeStyle struct {
	Color Color
	Width float64
	Cap   LineCap
	Join  LineJoin
	// MiterLimit is the distance between the inner and outer corner of a miter join beyond which
	// the join is beveled.
	MiterLimit float64
}

// Stroke returns a stroke with butt caps and miter joins.
func Stroke(c Color, width float64) StrokeStyle {
	return StrokeStyle{Color: c, Width: width, MiterLimit: DefaultMiterLimit}
}

// Palette is a sequence of colors assigned to pie segments in order.
type Palette []Color

// At returns the color of the i-th segment. Colors repeat once the palette is exhausted.
func (p Palette) At(i int) Color {
	if len(p) == 0 {
		return Black
	}
	return p[i%len(p)]
}

// DefaultPalette returns the colors pie segments are filled with by default.
func DefaultPalette() Palette {
	return Palette{
		RGB(0x1f, 0x77, 0xb4),
		RGB(0xff, 0x7f, 0x0e),
		RGB(0x2c, 0xa0, 0x2c),
		RGB(0xd6, 0x27, 0x28),
		RGB(0x94, 0x67, 0xbd),
		RGB(0x8c, 0x56, 0x4b),
		RGB(0xe3, 0x77, 0xc2),
		RGB(0x7f, 0x7f, 0x7f),
		RGB(0xbc, 0xbd, 0x22),
		RGB(0x17, 0xbe, 0xcf),
	}
}

// PieStyle describes how a pie chart is drawn.
type PieStyle struct {
	Background     Color
	Title          TextStyle
	SegmentOutline StrokeStyle
	Segments       Palette
	// SegmentLabel styles the percentage drawn on each segment. Percentages are not drawn if nil.
	SegmentLabel *TextStyle
	LegendLabel  TextStyle
}

// FlowchartStyle describes how a flowchart is drawn.
type FlowchartStyle struct {
	Background  Color
	NodeFill    Color
	NodeOutline StrokeStyle
	NodeLabel   TextStyle
	Edge        StrokeStyle
	// ThickEdge is used for edges drawn with = instead of -.
	ThickEdge StrokeStyle
}

// Style holds the styles of both diagram kinds.
type Style struct {
	Pie       PieStyle
	Flowchart FlowchartStyle
}

// Default returns the style for light backgrounds.
func Default() Style {
	segmentLabel := DarkText().WithSize(12)
	return Style{
		Pie: PieStyle{
			Background:     Transparent,
			Title:          Text().WithBold(true),
			SegmentOutline: Stroke(Black, 1.5),
			Segments:       DefaultPalette(),
			SegmentLabel:   &segmentLabel,
			LegendLabel:    Text(),
		},
		Flowchart: FlowchartStyle{
			Background:  Transparent,
			NodeFill:    RGB(0xec, 0xec, 0xff),
			NodeOutline: Stroke(RGB(0x93, 0x70, 0xdb), 1),
			NodeLabel:   Text(),
			Edge:        Stroke(RGB(0x33, 0x33, 0x33), 2),
			ThickEdge:   Stroke(RGB(0x33, 0x33, 0x33), 3.5),
		},
	}
}

// Dark returns the style for dark backgrounds.
func Dark() Style {
	s := Default()
	s.Pie.Title = DarkText().WithBold(true)
	s.Pie.LegendLabel = DarkText()
	s.Flowchart.NodeFill = RGB(0x1f, 0x20, 0x20)
	s.Flowchart.NodeOutline.Color = RGB(0xcc, 0xcc, 0xcc)
	s.Flowchart.NodeLabel = DarkText()
	s.Flowchart.Edge.Color = RGB(0xcc, 0xcc, 0xcc)
	s.Flowchart.ThickEdge.Color = RGB(0xcc, 0xcc, 0xcc)
	return s
}
