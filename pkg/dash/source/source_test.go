package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	yfgo "github.com/komsit37/yf-go"

	"github.com/komsit37/tickerdash/pkg/dash/types"
)

func req(sym string, p types.Period, i types.Interval) types.Request {
	return types.Request{Symbol: sym, Period: p, Interval: i, ShowSMA: true}
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported(types.Period1Mo, types.Interval5m))
	assert.False(t, Supported(types.Period3Mo, types.Interval5m))
	assert.False(t, Supported(types.Period6Mo, types.Interval30m))
	assert.True(t, Supported(types.Period1Y, types.Interval1h))
	assert.False(t, Supported(types.Period5Y, types.Interval1h))
	for _, p := range types.Periods {
		assert.True(t, Supported(p, types.Interval1d), p)
	}
	assert.False(t, Supported("2y", types.Interval1d))
	assert.False(t, Supported(types.Period1Mo, "1wk"))
}

func TestYAMLSource_File(t *testing.T) {
	src := YAMLSource{Path: "testdata/AAPL.yaml"}

	snap, err := src.Fetch(context.Background(), req("aapl", types.Period3Mo, types.Interval1d))
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", snap.Quote["longName"])
	assert.Equal(t, 2.8e12, snap.Quote["marketCap"])
	assert.Equal(t, 164000.0, snap.Quote["fullTimeEmployees"])
	require.Len(t, snap.History, 63)
	assert.True(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).Equal(snap.History[0].Time))
	assert.Equal(t, 185.0, snap.History[0].Close)
	assert.Equal(t, int64(50000000), snap.History[0].Volume)
}

func TestYAMLSource_TrimsToPeriod(t *testing.T) {
	src := YAMLSource{Path: "testdata/AAPL.yaml"}
	snap, err := src.Fetch(context.Background(), req("AAPL", types.Period1Mo, types.Interval1d))
	require.NoError(t, err)
	require.Len(t, snap.History, 21)
	assert.True(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC).Equal(snap.History[0].Time))
}

func TestYAMLSource_NoDataForOtherIntervals(t *testing.T) {
	src := YAMLSource{Path: "testdata"}
	snap, err := src.Fetch(context.Background(), req("AAPL", types.Period1Mo, types.Interval5m))
	require.NoError(t, err)
	assert.Empty(t, snap.History)
	assert.NotEmpty(t, snap.Quote)
}

func TestYAMLSource_UnknownSymbol(t *testing.T) {
	_, err := YAMLSource{Path: "testdata"}.Fetch(context.Background(), req("MSFT", types.Period1Mo, types.Interval1d))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MSFT")

	_, err = YAMLSource{Path: "testdata/missing.yaml"}.Fetch(context.Background(), req("AAPL", types.Period1Mo, types.Interval1d))
	assert.Error(t, err)
}

func f(v float64) *float64 { return &v }
func n(v int64) *int64     { return &v }

func TestToSeries(t *testing.T) {
	res := yfgo.ChartResult{
		Meta:      yfgo.ChartMeta{ExchangeTimezoneName: "America/New_York"},
		Timestamp: []int64{1704205800, 1704292200, 1704378600},
		Indicators: yfgo.ChartIndicators{Quote: []yfgo.ChartQuoteSeries{{
			Open:   []*float64{f(187.15), nil, f(182.15)},
			High:   []*float64{f(188.44), nil, f(183.09)},
			Low:    []*float64{f(183.89), nil, f(180.88)},
			Close:  []*float64{f(185.64), nil, f(181.91)},
			Volume: []*int64{n(82488700), nil},
		}}},
	}
	got := ToSeries(res)
	require.Len(t, got, 2)
	assert.Equal(t, 185.64, got[0].Close)
	assert.Equal(t, int64(82488700), got[0].Volume)
	assert.Equal(t, int64(0), got[1].Volume)
	assert.Equal(t, int64(1704378600), got[1].Time.Unix())
	assert.Equal(t, "America/New_York", got[0].Time.Location().String())

	assert.Empty(t, ToSeries(yfgo.ChartResult{}))
}

type fakeYahoo struct {
	yfgo.API
	summary   any
	chart     yfgo.ChartResult
	chartErr  error
	chartOpts *yfgo.ChartOptions
}

func (f *fakeYahoo) QuoteSummary(context.Context, string, []yfgo.QuoteSummaryModule) (any, error) {
	return f.summary, nil
}

func (f *fakeYahoo) ChartTyped(_ context.Context, _ string, opts yfgo.ChartOptions) (yfgo.ChartResult, error) {
	f.chartOpts = &opts
	return f.chart, f.chartErr
}

func summary() any {
	return map[string]any{"price": map[string]any{"longName": "Apple Inc."}}
}

func TestYahooSource_Fetch(t *testing.T) {
	api := &fakeYahoo{
		summary: summary(),
		chart: yfgo.ChartResult{
			Timestamp:  []int64{1704205800},
			Indicators: yfgo.ChartIndicators{Quote: []yfgo.ChartQuoteSeries{{Close: []*float64{f(185.64)}}}},
		},
	}
	src := NewYahooSource(api, time.Second, nil)

	snap, err := src.Fetch(context.Background(), req("AAPL", types.Period6Mo, types.Interval1d))
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", snap.Quote["longName"])
	require.Len(t, snap.History, 1)
	require.NotNil(t, api.chartOpts)
	assert.Equal(t, "6mo", api.chartOpts.Range)
	assert.Equal(t, "1d", api.chartOpts.Interval)
}

func TestYahooSource_UnsupportedSkipsChart(t *testing.T) {
	api := &fakeYahoo{summary: summary()}
	snap, err := NewYahooSource(api, 0, nil).Fetch(context.Background(), req("AAPL", types.Period5Y, types.Interval5m))
	require.NoError(t, err)
	assert.Empty(t, snap.History)
	assert.Nil(t, api.chartOpts)
}

func TestYahooSource_ChartErrors(t *testing.T) {
	api := &fakeYahoo{summary: summary(), chartErr: errors.New("no chart data returned")}
	snap, err := NewYahooSource(api, 0, nil).Fetch(context.Background(), req("AAPL", types.Period1Mo, types.Interval1d))
	require.NoError(t, err)
	assert.Empty(t, snap.History)

	api.chartErr = errors.New("yahoo finance error: 500 Internal Server Error")
	_, err = NewYahooSource(api, 0, nil).Fetch(context.Background(), req("AAPL", types.Period1Mo, types.Interval1d))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chart for AAPL")
}

func TestYahooSource_UnknownTables(t *testing.T) {
	r := req("AAPL", types.Period1Mo, types.Interval1d)
	r.Tables = []string{"bogus"}
	_, err := NewYahooSource(&fakeYahoo{summary: summary()}, 0, nil).Fetch(context.Background(), r)
	assert.Error(t, err)
}

func TestWriteFixture(t *testing.T) {
	src := YAMLSource{Path: "testdata/AAPL.yaml"}
	snap, err := src.Fetch(context.Background(), req("AAPL", types.Period1Mo, types.Interval1d))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "aapl-1mo.yaml")
	fh, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteFixture(fh, "aapl", types.Interval1d, snap))
	require.NoError(t, fh.Close())

	again, err := YAMLSource{Path: path}.Fetch(context.Background(), req("AAPL", types.Period1Mo, types.Interval1d))
	require.NoError(t, err)
	assert.Equal(t, snap.Quote, again.Quote)
	require.Len(t, again.History, len(snap.History))
	assert.True(t, snap.History[0].Time.Equal(again.History[0].Time))
	assert.Equal(t, snap.History[len(snap.History)-1].Close, again.History[len(again.History)-1].Close)
}
