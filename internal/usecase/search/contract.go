package search

import (
	"context"

	"github.com/kailas-cloud/landscan/internal/domain/listing"
	"github.com/kailas-cloud/landscan/internal/domain/search/query"
)

// Strategy fetches one page of raw listings for a query.
// An empty slice with a nil error means the strategy has nothing for that page.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, q query.Query, page int) ([]listing.Raw, error)
}

// Normalizer converts a page of raw listings, dropping skipped ones.
type Normalizer interface {
	NormalizePage(raws []listing.Raw, allowed listing.CodeSet) listing.Page
}

// SessionFunc derives the context of one search, e.g. to attach per-search
// upstream pacing. It runs once per Search call.
type SessionFunc func(ctx context.Context) context.Context
