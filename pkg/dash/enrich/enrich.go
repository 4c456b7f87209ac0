package enrich

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	yfgo "github.com/komsit37/yf-go"

	"github.com/komsit37/tickerdash/pkg/dash/types"
)

// QuoteService fetches the quote record for a symbol.
type QuoteService interface {
	// Get returns a record holding at least the requested keys when Yahoo
	// has them. No keys means every known key.
	Get(ctx context.Context, sym string, keys []string) (types.QuoteRecord, error)
}

// moduleOrder is both the request order and the merge priority: when two
// modules carry the same key, the earlier one wins.
var moduleOrder = []yfgo.QuoteSummaryModule{
	yfgo.ModuleFinancialData,
	yfgo.ModuleSummaryDetail,
	yfgo.ModuleDefaultKeyStatistics,
	yfgo.ModuleAssetProfile,
	yfgo.ModulePrice,
}

// moduleKeys lists which module serves each record key.
var moduleKeys = map[yfgo.QuoteSummaryModule][]string{
	yfgo.ModuleFinancialData:        {"currentPrice", "recommendationKey", "financialCurrency"},
	yfgo.ModuleSummaryDetail:        {"previousClose", "dayHigh", "dayLow", "fiftyTwoWeekHigh", "fiftyTwoWeekLow", "marketCap", "forwardPE", "dividendRate", "dividendYield"},
	yfgo.ModuleDefaultKeyStatistics: {"enterpriseValue", "forwardEps", "pegRatio"},
	yfgo.ModuleAssetProfile:         {"country", "sector", "industry", "fullTimeEmployees"},
	yfgo.ModulePrice:                {"longName", "shortName", "symbol", "currency"},
}

// ModulesForKeys returns the quoteSummary modules needed to serve keys, in
// merge order. The price module is always included for the display name.
func ModulesForKeys(keys []string) []yfgo.QuoteSummaryModule {
	if len(keys) == 0 {
		return append([]yfgo.QuoteSummaryModule(nil), moduleOrder...)
	}
	want := map[string]struct{}{}
	for _, k := range keys {
		want[k] = struct{}{}
	}
	var out []yfgo.QuoteSummaryModule
	for _, m := range moduleOrder {
		if m == yfgo.ModulePrice {
			out = append(out, m)
			continue
		}
		for _, k := range moduleKeys[m] {
			if _, ok := want[k]; ok {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// YFService implements QuoteService using yf-go.
type YFService struct {
	client  yfgo.API
	timeout time.Duration
	log     *zap.Logger
}

// NewYFService wraps client. A nil logger discards output.
func NewYFService(client yfgo.API, timeout time.Duration, log *zap.Logger) *YFService {
	if log == nil {
		log = zap.NewNop()
	}
	return &YFService{client: client, timeout: timeout, log: log}
}

func (s *YFService) Get(ctx context.Context, sym string, keys []string) (types.QuoteRecord, error) {
	sym = strings.TrimSpace(sym)
	if sym == "" {
		return nil, errors.New("symbol is required")
	}
	mods := ModulesForKeys(keys)

	cctx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	start := time.Now()
	raw, err := s.client.QuoteSummary(cctx, sym, mods)
	if err != nil {
		return nil, errors.Wrapf(err, "quote summary for %s", sym)
	}
	q := Flatten(raw, mods)
	s.log.Debug("quote summary fetched",
		zap.String("symbol", sym),
		zap.Strings("modules", yfgo.ModulesToStrings(mods)),
		zap.Int("fields", len(q)),
		zap.Duration("elapsed", time.Since(start)))
	return q, nil
}

// Flatten merges quoteSummary modules into one record. Yahoo number
// objects ({"raw": 1.2, "fmt": "1.20"}) collapse to their raw value; empty
// objects and nested lists are dropped.
func Flatten(raw any, mods []yfgo.QuoteSummaryModule) types.QuoteRecord {
	out := types.QuoteRecord{}
	root, ok := raw.(map[string]any)
	if !ok {
		return out
	}
	for _, m := range mods {
		fields, ok := root[m.String()].(map[string]any)
		if !ok {
			continue
		}
		for k, v := range fields {
			if _, taken := out[k]; taken {
				continue
			}
			if val, ok := scalar(v); ok {
				out[k] = val
			}
		}
	}
	return out
}

func scalar(v any) (any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case string, float64, bool:
		return t, true
	case map[string]any:
		r, ok := t["raw"]
		if !ok || r == nil {
			return nil, false
		}
		return scalar(r)
	default:
		return nil, false
	}
}
