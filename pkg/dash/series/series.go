package series

import (
	"errors"

	"github.com/komsit37/tickerdash/pkg/dash/types"
)

// ErrWindow is returned for a moving-average window smaller than one.
var ErrWindow = errors.New("moving average window must be positive")

// Closes returns the closing prices as plot points.
func Closes(points types.PriceSeries) []types.Point {
	out := make([]types.Point, len(points))
	for i, p := range points {
		c := p.Close
		out[i] = types.Point{Time: p.Time, Value: &c}
	}
	return out
}

// MovingAverage computes a trailing simple moving average of the closes.
// The output has one point per input point with the same timestamp; the
// first window-1 values are nil. A window longer than the series leaves
// every value nil.
func MovingAverage(points types.PriceSeries, window int) ([]types.Point, error) {
	if window < 1 {
		return nil, ErrWindow
	}
	out := make([]types.Point, len(points))
	for i, p := range points {
		out[i].Time = p.Time
		if i < window-1 {
			continue
		}
		var sum float64
		for _, q := range points[i-window+1 : i+1] {
			sum += q.Close
		}
		avg := sum / float64(window)
		out[i].Value = &avg
	}
	return out, nil
}

// PlotSeries assembles the closing-price series and, when include is set,
// its moving average. ma is nil when not included.
func PlotSeries(points types.PriceSeries, window int, include bool) (closes, ma []types.Point, err error) {
	closes = Closes(points)
	if !include {
		return closes, nil, nil
	}
	ma, err = MovingAverage(points, window)
	if err != nil {
		return nil, nil, err
	}
	return closes, ma, nil
}

// Defined counts the points that carry a value.
func Defined(points []types.Point) int {
	n := 0
	for _, p := range points {
		if p.Value != nil {
			n++
		}
	}
	return n
}
