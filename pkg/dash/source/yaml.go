package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/komsit37/tickerdash/pkg/dash/types"
)

// fixture is the on-disk shape of a recorded snapshot:
//
//	symbol: AAPL
//	interval: 1d
//	quote: {longName: Apple Inc., marketCap: 2.8e12}
//	history:
//	  - {time: 2024-01-02, open: 187.2, high: 188.4, low: 183.9, close: 185.6, volume: 82488700}
type fixture struct {
	Symbol   string            `yaml:"symbol"`
	Interval string            `yaml:"interval"`
	Quote    map[string]any    `yaml:"quote"`
	History  types.PriceSeries `yaml:"history"`
}

// YAMLSource replays recorded snapshots from a YAML file or a directory of
// them, one file per symbol.
type YAMLSource struct {
	Path string
}

func (s YAMLSource) Fetch(ctx context.Context, req types.Request) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	fixtures, err := s.load()
	if err != nil {
		return Snapshot{}, err
	}
	sym := strings.ToUpper(strings.TrimSpace(req.Symbol))
	f, ok := fixtures[sym]
	if !ok {
		return Snapshot{}, fmt.Errorf("no recorded snapshot for %s in %s", sym, s.Path)
	}

	snap := Snapshot{Quote: normQuote(f.Quote)}
	interval := types.Interval1d
	if f.Interval != "" {
		if interval, err = types.ParseInterval(f.Interval); err != nil {
			return Snapshot{}, fmt.Errorf("%s: %w", sym, err)
		}
	}
	if interval != req.Interval || !Supported(req.Period, req.Interval) {
		return snap, nil
	}
	snap.History = trimToPeriod(f.History, req.Period)
	return snap, nil
}

func (s YAMLSource) load() (map[string]fixture, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		return nil, err
	}
	var files []string
	if info.IsDir() {
		err := filepath.WalkDir(s.Path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(d.Name()))
			if ext == ".yaml" || ext == ".yml" {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(files)
	} else {
		files = []string{s.Path}
	}

	out := make(map[string]fixture, len(files))
	for _, full := range files {
		f, err := readFixture(full)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", full, err)
		}
		// A file without a symbol is named after it, e.g. AAPL.yaml.
		sym := strings.TrimSpace(f.Symbol)
		if sym == "" {
			sym = strings.TrimSuffix(filepath.Base(full), filepath.Ext(full))
		}
		out[strings.ToUpper(sym)] = f
	}
	return out, nil
}

// WriteFixture records snap in the format YAMLSource replays.
func WriteFixture(w io.Writer, sym string, interval types.Interval, snap Snapshot) error {
	f := fixture{
		Symbol:   strings.ToUpper(strings.TrimSpace(sym)),
		Interval: string(interval),
		Quote:    map[string]any(snap.Quote),
		History:  snap.History,
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return err
	}
	return enc.Close()
}

func readFixture(path string) (fixture, error) {
	fh, err := os.Open(path)
	if err != nil {
		return fixture{}, err
	}
	defer fh.Close()
	data, err := io.ReadAll(fh)
	if err != nil {
		return fixture{}, err
	}
	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fixture{}, err
	}
	sort.SliceStable(f.History, func(i, j int) bool { return f.History[i].Time.Before(f.History[j].Time) })
	return f, nil
}

// normQuote widens YAML integers to float64 so recorded quotes look like
// decoded Yahoo JSON.
func normQuote(in map[string]any) types.QuoteRecord {
	out := make(types.QuoteRecord, len(in))
	for k, v := range in {
		switch n := v.(type) {
		case int:
			out[k] = float64(n)
		case int64:
			out[k] = float64(n)
		case uint64:
			out[k] = float64(n)
		case map[string]any, []any:
			continue
		default:
			out[k] = v
		}
	}
	return out
}

// trimToPeriod keeps the bars within the period ending at the last bar.
func trimToPeriod(h types.PriceSeries, p types.Period) types.PriceSeries {
	if len(h) == 0 {
		return nil
	}
	end := h[len(h)-1].Time
	var start time.Time
	switch p {
	case types.Period1Mo:
		start = end.AddDate(0, -1, 0)
	case types.Period3Mo:
		start = end.AddDate(0, -3, 0)
	case types.Period6Mo:
		start = end.AddDate(0, -6, 0)
	case types.Period1Y:
		start = end.AddDate(-1, 0, 0)
	default:
		start = end.AddDate(-5, 0, 0)
	}
	out := make(types.PriceSeries, 0, len(h))
	for _, pt := range h {
		if pt.Time.After(start) {
			out = append(out, pt)
		}
	}
	return out
}
