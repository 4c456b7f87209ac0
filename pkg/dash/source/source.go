package source

import (
	"context"

	"github.com/komsit37/tickerdash/pkg/dash/types"
)

// Snapshot is what one fetch returns: the quote record and the price
// history. An empty History means the provider had no bars for the
// requested period/interval, which is not an error.
type Snapshot struct {
	Quote   types.QuoteRecord `yaml:"quote" json:"quote"`
	History types.PriceSeries `yaml:"history" json:"history"`
}

// Source fetches a snapshot for a request.
type Source interface {
	Fetch(ctx context.Context, req types.Request) (Snapshot, error)
}
