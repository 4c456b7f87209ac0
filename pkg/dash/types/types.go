package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// QuoteRecord is a flat snapshot of company and security fields keyed the
// way Yahoo Finance names them (marketCap, sector, currentPrice, ...).
// Values are float64, string, or absent.
type QuoteRecord map[string]any

// Get returns the value for key. A present key holding nil counts as absent.
func (q QuoteRecord) Get(key string) (any, bool) {
	if q == nil {
		return nil, false
	}
	v, ok := q[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Float returns key as a finite float64.
func (q QuoteRecord) Float(key string) (float64, bool) {
	v, ok := q.Get(key)
	if !ok {
		return 0, false
	}
	f, ok := ToFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// String returns key as a trimmed non-empty string.
func (q QuoteRecord) String(key string) (string, bool) {
	v, ok := q.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// ToFloat converts any Go numeric kind or json.Number to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// PricePoint is one sampled bar of a price history.
type PricePoint struct {
	Time   time.Time `json:"time" yaml:"time"`
	Open   float64   `json:"open" yaml:"open"`
	High   float64   `json:"high" yaml:"high"`
	Low    float64   `json:"low" yaml:"low"`
	Close  float64   `json:"close" yaml:"close"`
	Volume int64     `json:"volume" yaml:"volume"`
}

// PriceSeries is ordered by Time ascending. Gaps (non-trading periods,
// bars Yahoo returned without a close) are allowed.
type PriceSeries []PricePoint

// Point is a plot sample. A nil Value is an undefined sample, e.g. a moving
// average before its window fills.
type Point struct {
	Time  time.Time `json:"time"`
	Value *float64  `json:"value"`
}

// Series is a named line of a chart.
type Series struct {
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
	Points []Point `json:"points"`
}

// ChartSpec describes a line chart independent of how it is drawn.
type ChartSpec struct {
	Title       string     `json:"title"`
	XAxisTitle  string     `json:"xAxisTitle"`
	YAxisTitle  string     `json:"yAxisTitle"`
	LegendTitle string     `json:"legendTitle"`
	Height      int        `json:"height"`
	Theme       string     `json:"theme"`
	YRange      [2]float64 `json:"yRange"`
	Series      []Series   `json:"series"`
}

// Row is a label/value pair of a metrics table.
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Table is a fixed two-column metrics table.
type Table struct {
	Name   string    `json:"name"`
	Header [2]string `json:"header"`
	Rows   []Row     `json:"rows"`
}

// Dashboard is everything rendered for one request.
type Dashboard struct {
	Symbol   string     `json:"symbol"`
	Title    string     `json:"title"`
	Period   Period     `json:"period"`
	Interval Interval   `json:"interval"`
	Chart    *ChartSpec `json:"chart,omitempty"`
	Tables   []Table    `json:"tables"`
}

// Period is a Yahoo Finance range code.
type Period string

const (
	Period1Mo Period = "1mo"
	Period3Mo Period = "3mo"
	Period6Mo Period = "6mo"
	Period1Y  Period = "1y"
	Period5Y  Period = "5y"
)

// Interval is a Yahoo Finance sampling interval code.
type Interval string

const (
	Interval5m  Interval = "5m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval1d  Interval = "1d"
)

const (
	DefaultPeriod    = Period6Mo
	DefaultInterval  = Interval1d
	DefaultShowSMA   = true
	DefaultSMAWindow = 15
)

// Periods lists the selectable periods in display order.
var Periods = []Period{Period1Mo, Period3Mo, Period6Mo, Period1Y, Period5Y}

// Intervals lists the selectable intervals in display order.
var Intervals = []Interval{Interval5m, Interval30m, Interval1h, Interval1d}

var periodLabels = map[Period]string{
	Period1Mo: "1 Month",
	Period3Mo: "3 Month",
	Period6Mo: "6 Month",
	Period1Y:  "1 Year",
	Period5Y:  "5 Year",
}

var intervalLabels = map[Interval]string{
	Interval5m:  "5 Min",
	Interval30m: "30 Min",
	Interval1h:  "1 Hr",
	Interval1d:  "1 Day",
}

// Label is the human name shown in selectors, e.g. "6 Month".
func (p Period) Label() string { return periodLabels[p] }

// Label is the human name shown in selectors, e.g. "1 Day".
func (i Interval) Label() string { return intervalLabels[i] }

// ParsePeriod accepts a code ("6mo") or a label ("6 Month"), case-insensitive.
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	for _, p := range Periods {
		if strings.EqualFold(s, string(p)) || strings.EqualFold(s, p.Label()) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// ParseInterval accepts a code ("1d") or a label ("1 Day"), case-insensitive.
func ParseInterval(s string) (Interval, error) {
	s = strings.TrimSpace(s)
	for _, i := range Intervals {
		if strings.EqualFold(s, string(i)) || strings.EqualFold(s, i.Label()) {
			return i, nil
		}
	}
	return "", fmt.Errorf("unknown interval %q", s)
}

// Request is one user-triggered dashboard job.
type Request struct {
	Symbol   string   `json:"symbol" validate:"required,max=20,ticker"`
	Period   Period   `json:"period" validate:"required,oneof=1mo 3mo 6mo 1y 5y"`
	Interval Interval `json:"interval" validate:"required,oneof=5m 30m 1h 1d"`
	ShowSMA  bool     `json:"showSMA"`
	Tables   []string `json:"tables,omitempty"`
}
