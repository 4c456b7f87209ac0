package tables

import (
	"sort"
	"strings"
)

// Table titles, also used as the header of the label column.
const (
	InfoName     = "Stock Info"
	PriceName    = "Price Info"
	BusinessName = "Business Metrics"
)

// Set is a named, fixed schema of rows.
type Set struct {
	Name  string
	Title string
	Defs  []Def
}

// Sets defines the table schemas by short name:
// - "info": descriptive company fields
// - "price": current and 52-week prices
// - "business": forward valuation, dividend and analyst fields
var Sets = map[string]Set{
	"info":     {Name: "info", Title: InfoName, Defs: infoDefs},
	"price":    {Name: "price", Title: PriceName, Defs: priceDefs},
	"business": {Name: "business", Title: BusinessName, Defs: businessDefs},
}

// Order is the display order of all sets.
var Order = []string{"info", "price", "business"}

// ExpandSets resolves set names, preserving order and dropping duplicates.
func ExpandSets(names []string) ([]Set, error) {
	out := make([]Set, 0, len(names))
	seen := map[string]struct{}{}
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		s, ok := Sets[name]
		if !ok {
			return nil, &UnknownSetError{Name: name, Available: availableSets()}
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}

// expandOrAll is ExpandSets falling back to every set when names select
// none.
func expandOrAll(names []string) ([]Set, error) {
	sets, err := ExpandSets(names)
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return ExpandSets(Order)
	}
	return sets, nil
}

// RequiredKeys lists the quote keys read by the named sets.
func RequiredKeys(names []string) ([]string, error) {
	sets, err := expandOrAll(names)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, s := range sets {
		for _, d := range s.Defs {
			keys = append(keys, d.Key)
		}
	}
	return keys, nil
}

// UnknownSetError reports an unknown table set name.
type UnknownSetError struct {
	Name      string
	Available []string
}

func (e *UnknownSetError) Error() string {
	return "unknown table set: " + e.Name + "; available: " + strings.Join(e.Available, ", ")
}

func availableSets() []string {
	keys := make([]string, 0, len(Sets))
	for k := range Sets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
