package chart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/komsit37/tickerdash/pkg/dash/format"
	"github.com/komsit37/tickerdash/pkg/dash/series"
	"github.com/komsit37/tickerdash/pkg/dash/types"
)

// ErrNoData is returned when there is no price history to plot.
var ErrNoData = errors.New("no price history")

const (
	ClosingPriceName = "Closing Price"
	closeColor       = "blue"
	closeWidth       = 2
	smaColor         = "red"
	smaWidth         = 1.5
)

// Input carries everything needed to describe the price chart.
type Input struct {
	Symbol  string
	Quote   types.QuoteRecord
	History types.PriceSeries
	// MovingAverage shares the History index domain; leading values may be nil.
	MovingAverage        []types.Point
	IncludeMovingAverage bool
	// Window labels the moving-average series; defaults to 15.
	Window int
}

// Title is "<SYMBOL> - <long name>", with "N/A" for an unknown name.
func Title(symbol string, q types.QuoteRecord) string {
	name, ok := q.String("longName")
	if !ok {
		name = format.NA
	}
	return fmt.Sprintf("%s - %s", strings.ToUpper(strings.TrimSpace(symbol)), name)
}

// SMAName labels a moving-average series, e.g. "15 SMA".
func SMAName(window int) string {
	if window < 1 {
		window = types.DefaultSMAWindow
	}
	return fmt.Sprintf("%d SMA", window)
}

// Build describes the line chart for in. The closing price is always
// plotted; the moving average only when requested and non-empty. The y
// range spans the closes with 5% headroom either side.
func Build(in Input) (types.ChartSpec, error) {
	if len(in.History) == 0 {
		return types.ChartSpec{}, ErrNoData
	}
	lo, hi := in.History[0].Close, in.History[0].Close
	for _, p := range in.History[1:] {
		if p.Close < lo {
			lo = p.Close
		}
		if p.Close > hi {
			hi = p.Close
		}
	}

	spec := types.ChartSpec{
		Title:       Title(in.Symbol, in.Quote),
		XAxisTitle:  "Date",
		YAxisTitle:  "Price",
		LegendTitle: "Legend",
		Height:      500,
		Theme:       "white",
		YRange:      [2]float64{lo * 0.95, hi * 1.05},
		Series: []types.Series{{
			Name:   ClosingPriceName,
			Color:  closeColor,
			Width:  closeWidth,
			Points: series.Closes(in.History),
		}},
	}
	if in.IncludeMovingAverage && len(in.MovingAverage) > 0 {
		spec.Series = append(spec.Series, types.Series{
			Name:   SMAName(in.Window),
			Color:  smaColor,
			Width:  smaWidth,
			Points: copyPoints(in.MovingAverage),
		})
	}
	return spec, nil
}

func copyPoints(in []types.Point) []types.Point {
	out := make([]types.Point, len(in))
	for i, p := range in {
		out[i].Time = p.Time
		if p.Value != nil {
			v := *p.Value
			out[i].Value = &v
		}
	}
	return out
}
