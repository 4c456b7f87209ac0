package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/komsit37/tickerdash/pkg/dash/chart"
	"github.com/komsit37/tickerdash/pkg/dash/series"
	"github.com/komsit37/tickerdash/pkg/dash/source"
	"github.com/komsit37/tickerdash/pkg/dash/tables"
	"github.com/komsit37/tickerdash/pkg/dash/types"
)

// Status classifies the outcome of a request.
type Status int

const (
	StatusOK Status = iota
	StatusInvalidInput
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInvalidInput:
		return "invalid_input"
	default:
		return "failed"
	}
}

// MarshalText renders the status by name in JSON.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText parses a status name written by MarshalText.
func (s *Status) UnmarshalText(b []byte) error {
	for _, st := range []Status{StatusOK, StatusInvalidInput, StatusFailed} {
		if string(b) == st.String() {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", b)
}

// Result is the outcome of one request. On StatusOK the Dashboard is set
// and Warnings may explain missing parts (e.g. no chart). Otherwise Message
// carries the human-readable cause and nothing else is rendered.
type Result struct {
	Status    Status           `json:"status"`
	Message   string           `json:"message,omitempty"`
	Warnings  []string         `json:"warnings,omitempty"`
	Dashboard *types.Dashboard `json:"dashboard,omitempty"`
	// Elapsed is the wall time spent fetching.
	Elapsed time.Duration `json:"-"`
}

// OK reports whether the dashboard was built.
func (r Result) OK() bool { return r.Status == StatusOK }

// Runner wires a source to the chart and table builders.
type Runner struct {
	Source    source.Source
	Logger    *zap.Logger
	SMAWindow int
}

// Execute validates req, fetches its snapshot once, and builds the
// dashboard. It never panics on bad data; every failure becomes a Result.
func (r *Runner) Execute(ctx context.Context, req types.Request) (res Result) {
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	defer func() {
		if p := recover(); p != nil {
			log.Error("dashboard build panicked", zap.Any("panic", p))
			res = failed(fmt.Errorf("%v", p))
		}
	}()

	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if err := Validate(req); err != nil {
		log.Info("rejected request", zap.String("symbol", req.Symbol), zap.Error(err))
		return Result{Status: StatusInvalidInput, Message: err.Error()}
	}
	if _, err := tables.ExpandSets(req.Tables); err != nil {
		return Result{Status: StatusInvalidInput, Message: err.Error()}
	}

	start := time.Now()
	snap, err := r.Source.Fetch(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		log.Warn("fetch failed", zap.String("symbol", req.Symbol), zap.Duration("elapsed", elapsed), zap.Error(err))
		return failedAfter(err, elapsed)
	}
	log.Info("fetched snapshot",
		zap.String("symbol", req.Symbol),
		zap.String("period", string(req.Period)),
		zap.String("interval", string(req.Interval)),
		zap.Int("bars", len(snap.History)),
		zap.Duration("elapsed", elapsed))

	dash := &types.Dashboard{
		Symbol:   req.Symbol,
		Title:    chart.Title(req.Symbol, snap.Quote),
		Period:   req.Period,
		Interval: req.Interval,
	}
	res = Result{Status: StatusOK, Dashboard: dash, Elapsed: elapsed}

	spec, err := r.buildChart(req, snap)
	switch {
	case errors.Is(err, chart.ErrNoData):
		res.Warnings = append(res.Warnings, NoDataWarning(req))
	case err != nil:
		return failedAfter(err, elapsed)
	default:
		dash.Chart = &spec
		for _, sr := range spec.Series {
			log.Debug("chart series", zap.String("series", sr.Name), zap.Int("points", series.Defined(sr.Points)))
		}
	}

	dash.Tables, err = tables.Build(snap.Quote, req.Tables...)
	if err != nil {
		return failedAfter(err, elapsed)
	}
	return res
}

func (r *Runner) buildChart(req types.Request, snap source.Snapshot) (types.ChartSpec, error) {
	if len(snap.History) == 0 {
		return types.ChartSpec{}, chart.ErrNoData
	}
	window := r.SMAWindow
	if window == 0 {
		window = types.DefaultSMAWindow
	}
	_, ma, err := series.PlotSeries(snap.History, window, req.ShowSMA)
	if err != nil {
		return types.ChartSpec{}, err
	}
	return chart.Build(chart.Input{
		Symbol:               req.Symbol,
		Quote:                snap.Quote,
		History:              snap.History,
		MovingAverage:        ma,
		IncludeMovingAverage: req.ShowSMA,
		Window:               window,
	})
}

// NoDataWarning explains an empty history for req.
func NoDataWarning(req types.Request) string {
	return fmt.Sprintf("No data returned for %s with period='%s' and interval='%s'. "+
		"Some combinations are not supported by Yahoo Finance.", req.Symbol, req.Period, req.Interval)
}

func failed(err error) Result {
	return Result{Status: StatusFailed, Message: "An error occurred: " + err.Error()}
}

// failedAfter is failed for errors raised once the fetch has been timed.
func failedAfter(err error, elapsed time.Duration) Result {
	res := failed(err)
	res.Elapsed = elapsed
	return res
}
