package render

import (
	"embed"
	"html/template"
	"io"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/komsit37/tickerdash/pkg/dash/chart"
	"github.com/komsit37/tickerdash/pkg/dash/pipeline"
	"github.com/komsit37/tickerdash/pkg/dash/types"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// Option is one entry of a form select.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Form is the request form shown above the dashboard in serve mode.
type Form struct {
	Action    string
	Symbol    string
	Periods   []Option
	Intervals []Option
	ShowSMA   bool
	SMALabel  string
}

// NewForm pre-fills the form from req.
func NewForm(action string, req types.Request, window int) *Form {
	f := &Form{Action: action, Symbol: req.Symbol, ShowSMA: req.ShowSMA, SMALabel: chart.SMAName(window)}
	for _, p := range types.Periods {
		f.Periods = append(f.Periods, Option{Value: string(p), Label: p.Label(), Selected: p == req.Period})
	}
	for _, i := range types.Intervals {
		f.Intervals = append(f.Intervals, Option{Value: string(i), Label: i.Label(), Selected: i == req.Interval})
	}
	return f
}

type pageView struct {
	Title        string
	Form         *Form
	Error        string
	Warnings     []string
	Heading      string
	Assets       []string
	ChartElement template.HTML
	ChartScript  template.HTML
	Tables       []types.Table
}

// HTMLRenderer writes a standalone page with an interactive chart and the
// metrics tables.
type HTMLRenderer struct{}

func NewHTMLRenderer() *HTMLRenderer { return &HTMLRenderer{} }

func (r *HTMLRenderer) Render(w io.Writer, res pipeline.Result, _ RenderOptions) error {
	return WritePage(w, nil, &res)
}

// WritePage renders the page with an optional form and an optional result.
func WritePage(w io.Writer, form *Form, res *pipeline.Result) error {
	v := pageView{Title: "Financial Analysis", Form: form}
	if res != nil {
		if !res.OK() {
			v.Error = res.Message
		}
		v.Warnings = res.Warnings
		if d := res.Dashboard; d != nil {
			v.Title = d.Title
			v.Heading = d.Title
			v.Tables = d.Tables
			if d.Chart != nil {
				snip, assets := ChartSnippet(*d.Chart, d.Interval)
				v.ChartElement = template.HTML(snip.Element) //nolint:gosec // generated by go-echarts
				v.ChartScript = template.HTML(snip.Script)   //nolint:gosec // generated by go-echarts
				v.Assets = assets
			}
		}
	}
	return pageTemplate.Execute(w, v)
}

// EChart converts a chart spec into a go-echarts line chart.
func EChart(spec types.ChartSpec, interval types.Interval) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: spec.Title,
			Width:     "100%",
			Height:    pixels(spec.Height),
			Theme:     spec.Theme,
		}),
		charts.WithTitleOpts(opts.Title{Title: spec.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: spec.XAxisTitle}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: spec.YAxisTitle,
			Min:  round2(spec.YRange[0]),
			Max:  round2(spec.YRange[1]),
		}),
	)

	var x []string
	for _, s := range spec.Series {
		if len(s.Points) > len(x) {
			x = make([]string, len(s.Points))
			for i, p := range s.Points {
				x[i] = p.Time.Format(timeLayout(interval))
			}
		}
	}
	line.SetXAxis(x)
	for _, s := range spec.Series {
		data := make([]opts.LineData, len(s.Points))
		for i, p := range s.Points {
			if p.Value == nil {
				data[i] = opts.LineData{Value: "-"}
			} else {
				data[i] = opts.LineData{Value: round2(*p.Value)}
			}
		}
		line.AddSeries(s.Name, data,
			charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color, Width: float32(s.Width)}),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		)
	}
	return line
}

// Snippet is the embeddable markup of one chart.
type Snippet struct {
	Element string
	Script  string
}

// ChartSnippet renders spec for embedding in a page. assets are the script
// URLs the snippet needs.
func ChartSnippet(spec types.ChartSpec, interval types.Interval) (Snippet, []string) {
	line := EChart(spec, interval)
	s := line.RenderSnippet()
	assets := append([]string(nil), line.JSAssets.Values...)
	return Snippet{Element: s.Element, Script: s.Script}, assets
}

func pixels(h int) string {
	if h <= 0 {
		h = 500
	}
	return strconv.Itoa(h) + "px"
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
