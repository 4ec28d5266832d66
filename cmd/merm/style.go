package main

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teleivo/merm/style"
)

func (a *app) styleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "style",
		Short: "Print the style diagrams are drawn with",
		Long: "Print the default style or the dark style overlaid with the style configured in " +
			"the file given via --config.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dark, _ := cmd.Flags().GetBool("dark")
			s, err := style.Load(a.v, dark)
			if err != nil {
				return err
			}
			if a.v.GetBool("no_color") {
				pterm.DisableStyling()
			}
			return pterm.DefaultTable.WithHasHeader().WithData(styleTable(s)).WithWriter(a.out).Render()
		},
	}
	cmd.Flags().Bool("dark", false, "start from the style for dark backgrounds")
	return cmd
}

func styleTable(s style.Style) [][]string {
	rows := [][]string{{"ELEMENT", "COLOR", "SIZE", "SAMPLE"}}
	color := func(name string, c style.Color) {
		rows = append(rows, []string{name, c.String(), "", swatch(c)})
	}
	text := func(name string, t style.TextStyle) {
		size := formatSize(t.Size)
		if t.Bold {
			size += " bold"
		}
		rows = append(rows, []string{name, t.Color.String(), size, swatch(t.Color)})
	}
	stroke := func(name string, st style.StrokeStyle) {
		rows = append(rows, []string{name, st.Color.String(), formatSize(st.Width), swatch(st.Color)})
	}

	color("pie.background", s.Pie.Background)
	text("pie.title", s.Pie.Title)
	stroke("pie.outline", s.Pie.SegmentOutline)
	for i, c := range s.Pie.Segments {
		color(fmt.Sprintf("pie.palette[%d]", i), c)
	}
	if s.Pie.SegmentLabel != nil {
		text("pie.segmentlabel", *s.Pie.SegmentLabel)
	}
	text("pie.legend", s.Pie.LegendLabel)

	color("flowchart.background", s.Flowchart.Background)
	color("flowchart.node.fill", s.Flowchart.NodeFill)
	stroke("flowchart.node.outline", s.Flowchart.NodeOutline)
	text("flowchart.node.label", s.Flowchart.NodeLabel)
	stroke("flowchart.edge", s.Flowchart.Edge)
	stroke("flowchart.thickedge", s.Flowchart.ThickEdge)
	return rows
}

// swatch shows color c. Transparent colors are not shown.
func swatch(c style.Color) string {
	if c.A == 0 {
		return ""
	}
	return pterm.NewRGB(c.R, c.G, c.B).Sprint("████")
}

func formatSize(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64) + "px"
}
