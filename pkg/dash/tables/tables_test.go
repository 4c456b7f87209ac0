package tables

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/tickerdash/pkg/dash/types"
)

func appleQuote() types.QuoteRecord {
	return types.QuoteRecord{
		"longName":          "Apple Inc.",
		"country":           "United States",
		"sector":            "Technology",
		"industry":          "Consumer Electronics",
		"marketCap":         2_800_000_000_000.0,
		"enterpriseValue":   2_870_000_000_000.0,
		"fullTimeEmployees": 164000.0,
		"currentPrice":      189.984,
		"previousClose":     188.5,
		"dayHigh":           190.32,
		"dayLow":            187.11,
		"fiftyTwoWeekHigh":  199.62,
		"fiftyTwoWeekLow":   164.08,
		"forwardEps":        7.12,
		"forwardPE":         26.68,
		"pegRatio":          2.9,
		"dividendRate":      0.96,
		"dividendYield":     0.0051,
		"recommendationKey": "buy",
	}
}

func values(t types.Table) map[string]string {
	out := make(map[string]string, len(t.Rows))
	for _, r := range t.Rows {
		out[r.Label] = r.Value
	}
	return out
}

func labels(t types.Table) []string {
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Label
	}
	return out
}

func TestInfoTable(t *testing.T) {
	tbl := InfoTable(appleQuote())
	assert.Equal(t, [2]string{"Stock Info", "Value"}, tbl.Header)
	assert.Equal(t, []string{"Country", "Sector", "Industry", "Market Cap", "Enterprise Value", "Employees"}, labels(tbl))
	v := values(tbl)
	assert.Equal(t, "United States", v["Country"])
	assert.Equal(t, "$2.8T", v["Market Cap"])
	assert.Equal(t, "$2.9T", v["Enterprise Value"])
	assert.Equal(t, "164000", v["Employees"])
}

func TestPriceTable(t *testing.T) {
	tbl := PriceTable(appleQuote())
	assert.Equal(t, [2]string{"Price Info", "Value"}, tbl.Header)
	assert.Equal(t, []string{"Current Price", "Previous Close", "Day High", "Day Low", "52 Week High", "52 Week Low"}, labels(tbl))
	v := values(tbl)
	assert.Equal(t, "$189.98", v["Current Price"])
	assert.Equal(t, "$188.50", v["Previous Close"])
	assert.Equal(t, "$164.08", v["52 Week Low"])
}

func TestBusinessTable(t *testing.T) {
	tbl := BusinessTable(appleQuote())
	assert.Equal(t, [2]string{"Business Metrics", "Value"}, tbl.Header)
	assert.Equal(t, []string{"EPS (FWD)", "P/E (FWD)", "PEG Ratio", "Div Rate (FWD)", "Div Yield (FWD)", "Recommendation"}, labels(tbl))
	v := values(tbl)
	assert.Equal(t, "7.12", v["EPS (FWD)"])
	assert.Equal(t, "2.90", v["PEG Ratio"])
	assert.Equal(t, "$0.96", v["Div Rate (FWD)"])
	assert.Equal(t, "0.51%", v["Div Yield (FWD)"])
	assert.Equal(t, "Buy", v["Recommendation"])
}

func TestTables_MissingFieldsKeepRows(t *testing.T) {
	for _, q := range []types.QuoteRecord{nil, {}, {"marketCap": nil, "dividendYield": 0.0, "sector": ""}} {
		all, err := Build(q)
		require.NoError(t, err)
		require.Len(t, all, 3)
		for _, tbl := range all {
			assert.Len(t, tbl.Rows, 6, tbl.Name)
			for _, r := range tbl.Rows {
				assert.Equal(t, "N/A", r.Value, "%s/%s", tbl.Name, r.Label)
			}
		}
	}
}

func TestTables_WrongTypesFallBack(t *testing.T) {
	q := types.QuoteRecord{"currentPrice": "n/a", "forwardPE": "Infinity", "recommendationKey": 3.0}
	assert.Equal(t, "N/A", values(PriceTable(q))["Current Price"])
	v := values(BusinessTable(q))
	assert.Equal(t, "N/A", v["P/E (FWD)"])
	assert.Equal(t, "N/A", v["Recommendation"])
}

func TestBuild_Subset(t *testing.T) {
	got, err := Build(appleQuote(), "business", "info", "business")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Business Metrics", got[0].Name)
	assert.Equal(t, "Stock Info", got[1].Name)
}

func TestExpandSets_Unknown(t *testing.T) {
	_, err := ExpandSets([]string{"info", "nope"})
	var use *UnknownSetError
	require.True(t, errors.As(err, &use))
	assert.Equal(t, "nope", use.Name)
	assert.Equal(t, []string{"business", "info", "price"}, use.Available)
}

func TestRequiredKeys(t *testing.T) {
	keys, err := RequiredKeys([]string{"price"})
	require.NoError(t, err)
	assert.Equal(t, []string{"currentPrice", "previousClose", "dayHigh", "dayLow", "fiftyTwoWeekHigh", "fiftyTwoWeekLow"}, keys)

	all, err := RequiredKeys(nil)
	require.NoError(t, err)
	assert.Len(t, all, 18)
}

func TestBuild_BlankNamesMeanAll(t *testing.T) {
	for _, names := range [][]string{nil, {""}, {" ", ""}} {
		got, err := Build(appleQuote(), names...)
		require.NoError(t, err)
		require.Len(t, got, 3, "%q", names)
		assert.Equal(t, "Stock Info", got[0].Name)
		assert.Equal(t, "Business Metrics", got[2].Name)

		keys, err := RequiredKeys(names)
		require.NoError(t, err)
		assert.Len(t, keys, 18, "%q", names)
	}
}
