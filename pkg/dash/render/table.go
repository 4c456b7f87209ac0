package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/komsit37/tickerdash/pkg/dash/format"
	"github.com/komsit37/tickerdash/pkg/dash/pipeline"
	"github.com/komsit37/tickerdash/pkg/dash/types"
)

const (
	defaultMaxColWidth = 40
	defaultChartHeight = 15
	defaultWidth       = 100
	// room for the y-axis labels left of the plot
	axisWidth = 12
	tableGap  = 2
)

// TableRenderer draws the dashboard for a terminal: title, ASCII chart, and
// the metrics tables side by side.
type TableRenderer struct{}

func NewTableRenderer() *TableRenderer { return &TableRenderer{} }

func (r *TableRenderer) Render(w io.Writer, res pipeline.Result, opts RenderOptions) error {
	if !res.OK() {
		_, err := fmt.Fprintln(w, paint(opts.Color, text.Colors{text.FgRed}, res.Message))
		return err
	}
	d := res.Dashboard
	fmt.Fprintln(w, paint(opts.Color, text.Colors{text.Bold}, d.Title))
	for _, warn := range res.Warnings {
		fmt.Fprintln(w, paint(opts.Color, text.Colors{text.FgYellow}, warn))
	}
	fmt.Fprintln(w)

	if d.Chart != nil {
		if plot := Plot(*d.Chart, d.Interval, opts); plot != "" {
			fmt.Fprintln(w, plot)
			fmt.Fprintln(w)
		}
	}
	_, err := fmt.Fprintln(w, SideBySide(d.Tables, opts))
	return err
}

// Plot draws a chart spec as an ASCII line chart. Undefined samples are left
// as gaps. Returns "" when no series has points.
func Plot(spec types.ChartSpec, interval types.Interval, opts RenderOptions) string {
	var (
		data    [][]float64
		legends []string
		colors  []asciigraph.AnsiColor
		longest int
	)
	for _, s := range spec.Series {
		if len(s.Points) == 0 {
			continue
		}
		vals := make([]float64, len(s.Points))
		for i, p := range s.Points {
			if p.Value == nil {
				vals[i] = math.NaN()
			} else {
				vals[i] = *p.Value
			}
		}
		data = append(data, vals)
		legends = append(legends, s.Name)
		colors = append(colors, ansiColor(s.Color))
		if len(vals) > longest {
			longest = len(vals)
		}
	}
	if len(data) == 0 {
		return ""
	}

	height := opts.ChartHeight
	if height <= 0 {
		height = defaultChartHeight
	}
	options := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.LowerBound(spec.YRange[0]),
		asciigraph.UpperBound(spec.YRange[1]),
		asciigraph.Caption(caption(spec, interval, opts.Color)),
	}
	if opts.Color {
		options = append(options, asciigraph.SeriesColors(colors...), asciigraph.SeriesLegends(legends...))
	}
	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}
	if avail := width - axisWidth; avail >= 2 && longest > avail {
		options = append(options, asciigraph.Width(avail))
	}
	return asciigraph.PlotMany(data, options...)
}

func caption(spec types.ChartSpec, interval types.Interval, color bool) string {
	var pts []types.Point
	for _, s := range spec.Series {
		if len(s.Points) > 0 {
			pts = s.Points
			break
		}
	}
	c := fmt.Sprintf("%s, %s to %s", spec.YAxisTitle,
		pts[0].Time.Format(timeLayout(interval)),
		pts[len(pts)-1].Time.Format(timeLayout(interval)))
	if !color && len(spec.Series) > 1 {
		names := make([]string, len(spec.Series))
		for i, s := range spec.Series {
			names[i] = s.Name
		}
		c += " (" + strings.Join(names, ", ") + ")"
	}
	return c
}

func ansiColor(name string) asciigraph.AnsiColor {
	if c, ok := asciigraph.ColorNames[strings.ToLower(name)]; ok {
		return c
	}
	return asciigraph.Default
}

// SideBySide renders the tables next to each other in a borderless outer
// table, or stacked when they would not fit opts.Width.
func SideBySide(tables []types.Table, opts RenderOptions) string {
	if len(tables) == 0 {
		return ""
	}
	rendered := make([]string, len(tables))
	total := 0
	for i, t := range tables {
		rendered[i] = renderTable(t, opts)
		total += text.LongestLineLen(rendered[i])
	}
	total += tableGap * (len(tables) - 1)
	if opts.Width > 0 && total > opts.Width {
		return strings.Join(rendered, "\n\n")
	}

	outer := table.NewWriter()
	outer.SetStyle(table.StyleLight)
	outer.Style().Options.DrawBorder = false
	outer.Style().Options.SeparateColumns = false
	outer.Style().Options.SeparateHeader = false
	outer.Style().Options.SeparateRows = false
	outer.Style().Box.PaddingLeft = ""
	outer.Style().Box.PaddingRight = strings.Repeat(" ", tableGap)
	row := make(table.Row, len(rendered))
	for i, s := range rendered {
		row[i] = s
	}
	outer.AppendRow(row)
	return outer.Render()
}

func renderTable(t types.Table, opts RenderOptions) string {
	tw := table.NewWriter()
	if opts.Color {
		tw.SetStyle(table.StyleColoredDark)
	} else {
		tw.SetStyle(table.StyleLight)
	}
	tw.Style().Options.SeparateRows = false
	tw.Style().Format.Header = text.FormatDefault

	maxWidth := opts.MaxColWidth
	if maxWidth <= 0 {
		maxWidth = defaultMaxColWidth
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMax: maxWidth},
		{Number: 2, WidthMax: maxWidth, Align: text.AlignRight, AlignHeader: text.AlignRight},
	})
	tw.AppendHeader(table.Row{t.Header[0], t.Header[1]})
	for _, r := range t.Rows {
		v := r.Value
		if opts.Color && v == format.NA {
			v = text.Faint.Sprint(v)
		}
		tw.AppendRow(table.Row{r.Label, v})
	}
	return tw.Render()
}

func paint(color bool, c text.Colors, s string) string {
	if !color {
		return s
	}
	return c.Sprint(s)
}
