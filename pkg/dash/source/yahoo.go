package source

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	yfgo "github.com/komsit37/yf-go"

	"github.com/komsit37/tickerdash/pkg/dash/enrich"
	"github.com/komsit37/tickerdash/pkg/dash/tables"
	"github.com/komsit37/tickerdash/pkg/dash/types"
)

// maxPeriod is the longest range Yahoo serves for each interval.
var maxPeriod = map[types.Interval]types.Period{
	types.Interval5m:  types.Period1Mo,
	types.Interval30m: types.Period1Mo,
	types.Interval1h:  types.Period1Y,
	types.Interval1d:  types.Period5Y,
}

// Supported reports whether Yahoo returns bars for the combination.
// Intraday bars only go back 60 days (5m, 30m) or 730 days (1h).
func Supported(p types.Period, i types.Interval) bool {
	limit, ok := maxPeriod[i]
	if !ok {
		return false
	}
	return periodRank(p) >= 0 && periodRank(p) <= periodRank(limit)
}

func periodRank(p types.Period) int {
	for i, v := range types.Periods {
		if v == p {
			return i
		}
	}
	return -1
}

// YahooSource fetches quotes and history from Yahoo Finance via yf-go.
type YahooSource struct {
	Quotes  enrich.QuoteService
	Client  yfgo.API
	Timeout time.Duration
	Log     *zap.Logger
}

// NewYahooSource builds a source around one yf-go client.
func NewYahooSource(client yfgo.API, timeout time.Duration, log *zap.Logger) *YahooSource {
	if log == nil {
		log = zap.NewNop()
	}
	return &YahooSource{
		Quotes:  enrich.NewYFService(client, timeout, log),
		Client:  client,
		Timeout: timeout,
		Log:     log,
	}
}

// NewYahooClient returns a yf-go client with its response cache disabled;
// every request reaches Yahoo.
func NewYahooClient() *yfgo.Client {
	return yfgo.NewClient(yfgo.WithCacheDisabled())
}

func (s *YahooSource) Fetch(ctx context.Context, req types.Request) (Snapshot, error) {
	keys, err := tables.RequiredKeys(req.Tables)
	if err != nil {
		return Snapshot{}, err
	}
	q, err := s.Quotes.Get(ctx, req.Symbol, keys)
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{Quote: q}

	if !Supported(req.Period, req.Interval) {
		s.Log.Info("unsupported period/interval, skipping history",
			zap.String("symbol", req.Symbol),
			zap.String("period", string(req.Period)),
			zap.String("interval", string(req.Interval)))
		return snap, nil
	}

	cctx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	res, err := s.Client.ChartTyped(cctx, req.Symbol, yfgo.ChartOptions{
		Range:    string(req.Period),
		Interval: string(req.Interval),
	})
	if err != nil {
		// yf-go reports an empty chart.result this way.
		if strings.Contains(err.Error(), "no chart data returned") {
			return snap, nil
		}
		return Snapshot{}, errors.Wrapf(err, "chart for %s", req.Symbol)
	}
	snap.History = ToSeries(res)
	s.Log.Debug("chart fetched",
		zap.String("symbol", req.Symbol),
		zap.Int("bars", len(snap.History)))
	return snap, nil
}

// ToSeries converts a chart response into a price series in the exchange's
// time zone. Bars without a close are skipped.
func ToSeries(res yfgo.ChartResult) types.PriceSeries {
	if len(res.Indicators.Quote) == 0 {
		return nil
	}
	loc := time.UTC
	if tz := res.Meta.ExchangeTimezoneName; tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}
	qs := res.Indicators.Quote[0]
	out := make(types.PriceSeries, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		c := floatAt(qs.Close, i)
		if c == nil {
			continue
		}
		p := types.PricePoint{Time: time.Unix(ts, 0).In(loc), Close: *c}
		if v := floatAt(qs.Open, i); v != nil {
			p.Open = *v
		}
		if v := floatAt(qs.High, i); v != nil {
			p.High = *v
		}
		if v := floatAt(qs.Low, i); v != nil {
			p.Low = *v
		}
		if i < len(qs.Volume) && qs.Volume[i] != nil {
			p.Volume = *qs.Volume[i]
		}
		out = append(out, p)
	}
	return out
}

func floatAt(s []*float64, i int) *float64 {
	if i < len(s) {
		return s[i]
	}
	return nil
}
