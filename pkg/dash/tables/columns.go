package tables

import (
	"github.com/komsit37/tickerdash/pkg/dash/format"
	"github.com/komsit37/tickerdash/pkg/dash/types"
)

// Formatter converts a raw quote value into its display string.
type Formatter func(v any) string

// Def binds a table row label to a quote key and a formatter.
type Def struct {
	Key    string
	Label  string
	Format Formatter
}

// Value renders the row for q.
func (d Def) Value(q types.QuoteRecord) string {
	v, _ := q.Get(d.Key)
	return d.Format(v)
}

func dollars(v any) string { return format.Numeric(v, format.TemplateDollar2) }
func fixed2(v any) string  { return format.Numeric(v, format.TemplateFixed2) }
func percent(v any) string { return format.Percent(v) }

func def(key, label string, f Formatter) Def {
	return Def{Key: key, Label: label, Format: f}
}

var (
	infoDefs = []Def{
		def("country", "Country", format.Text),
		def("sector", "Sector", format.Text),
		def("industry", "Industry", format.Text),
		def("marketCap", "Market Cap", format.Magnitude),
		def("enterpriseValue", "Enterprise Value", format.Magnitude),
		def("fullTimeEmployees", "Employees", format.Text),
	}
	priceDefs = []Def{
		def("currentPrice", "Current Price", dollars),
		def("previousClose", "Previous Close", dollars),
		def("dayHigh", "Day High", dollars),
		def("dayLow", "Day Low", dollars),
		def("fiftyTwoWeekHigh", "52 Week High", dollars),
		def("fiftyTwoWeekLow", "52 Week Low", dollars),
	}
	businessDefs = []Def{
		def("forwardEps", "EPS (FWD)", fixed2),
		def("forwardPE", "P/E (FWD)", fixed2),
		def("pegRatio", "PEG Ratio", fixed2),
		def("dividendRate", "Div Rate (FWD)", dollars),
		def("dividendYield", "Div Yield (FWD)", percent),
		def("recommendationKey", "Recommendation", format.Capitalize),
	}
)

func build(name string, defs []Def, q types.QuoteRecord) types.Table {
	t := types.Table{
		Name:   name,
		Header: [2]string{name, "Value"},
		Rows:   make([]types.Row, 0, len(defs)),
	}
	for _, d := range defs {
		t.Rows = append(t.Rows, types.Row{Label: d.Label, Value: d.Value(q)})
	}
	return t
}

// InfoTable builds the "Stock Info" table.
func InfoTable(q types.QuoteRecord) types.Table { return build(InfoName, infoDefs, q) }

// PriceTable builds the "Price Info" table.
func PriceTable(q types.QuoteRecord) types.Table { return build(PriceName, priceDefs, q) }

// BusinessTable builds the "Business Metrics" table.
func BusinessTable(q types.QuoteRecord) types.Table { return build(BusinessName, businessDefs, q) }

// Build renders the named sets in order. No names, or only blank ones,
// means every set.
func Build(q types.QuoteRecord, names ...string) ([]types.Table, error) {
	sets, err := expandOrAll(names)
	if err != nil {
		return nil, err
	}
	out := make([]types.Table, 0, len(sets))
	for _, s := range sets {
		out = append(out, build(s.Title, s.Defs, q))
	}
	return out, nil
}
