package search

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/landscan/internal/domain"
	"github.com/kailas-cloud/landscan/internal/domain/listing"
	"github.com/kailas-cloud/landscan/internal/domain/search/query"
	"github.com/kailas-cloud/landscan/internal/logger"
	"github.com/kailas-cloud/landscan/internal/metrics"
)

// MaxPages is the hard ceiling on page attempts per search.
const MaxPages = 10

// Search outcomes, also used as metric labels.
const (
	OutcomeComplete  = "complete"
	OutcomeExhausted = "exhausted"
	OutcomePartial   = "partial"
)

// Result is the outcome of one search. Listings never exceeds the query's MaxResults.
type Result struct {
	ID        string
	Listings  []listing.Normalized
	Pages     int
	Filtered  int
	Malformed int
	// Partial is set when the context ended before the search finished.
	Partial bool
}

// Service drives strategy fallback, pagination and aggregation.
type Service struct {
	strategies []Strategy
	normalizer Normalizer
	maxPages   int
	session    SessionFunc
	logger     *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithMaxPages overrides the page limit. Values outside 1..MaxPages fall back to MaxPages.
func WithMaxPages(n int) Option {
	return func(s *Service) {
		if n > 0 && n <= MaxPages {
			s.maxPages = n
		}
	}
}

// WithSession sets the hook that prepares the context of every search.
func WithSession(fn SessionFunc) Option {
	return func(s *Service) {
		if fn != nil {
			s.session = fn
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a search service. Strategies are tried in order on every page.
func New(normalizer Normalizer, strategies []Strategy, opts ...Option) *Service {
	s := &Service{
		strategies: strategies,
		normalizer: normalizer,
		maxPages:   MaxPages,
		session:    func(ctx context.Context) context.Context { return ctx },
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search collects up to q.MaxResults() normalized listings. Upstream failures
// degrade to fewer results; a done context returns what was gathered so far.
func (s *Service) Search(ctx context.Context, q query.Query) Result {
	res := Result{ID: uuid.NewString(), Listings: make([]listing.Normalized, 0, q.MaxResults())}
	log := logger.FromContextOr(ctx, s.logger).With(
		zap.String("search_id", res.ID),
		zap.String("region", q.RegionID()),
	)
	ctx = s.session(logger.ContextWithLogger(ctx, log))

	allowed := q.AllowedTypes()
	limit := q.MaxResults()

	for page := 1; page <= s.maxPages && len(res.Listings) < limit; page++ {
		if ctx.Err() != nil {
			res.Partial = true
			break
		}
		res.Pages = page

		raws := s.fetchPage(ctx, log, q, page)
		if len(raws) == 0 {
			if ctx.Err() != nil {
				res.Partial = true
			} else {
				log.Debug("no more listings", zap.Int("page", page))
			}
			break
		}

		normalized := s.normalizer.NormalizePage(raws, allowed)
		res.Filtered += normalized.Filtered
		res.Malformed += normalized.Malformed
		metrics.ListingsSkippedTotal.WithLabelValues(string(listing.SkipFiltered)).Add(float64(normalized.Filtered))
		metrics.ListingsSkippedTotal.WithLabelValues(string(listing.SkipMalformed)).Add(float64(normalized.Malformed))

		if len(normalized.Listings) == 0 {
			log.Debug("page has no matching listings", zap.Int("page", page), zap.Int("raw", len(raws)))
			continue
		}

		take := normalized.Listings
		if remaining := limit - len(res.Listings); len(take) > remaining {
			take = take[:remaining]
		}
		res.Listings = append(res.Listings, take...)
	}

	outcome := OutcomeExhausted
	switch {
	case res.Partial:
		outcome = OutcomePartial
	case len(res.Listings) >= limit:
		outcome = OutcomeComplete
	}
	metrics.SearchTotal.WithLabelValues(outcome).Inc()
	metrics.SearchPages.Observe(float64(res.Pages))

	log.Info("search finished",
		zap.String("outcome", outcome),
		zap.Int("results", len(res.Listings)),
		zap.Int("pages", res.Pages),
		zap.Int("filtered", res.Filtered),
		zap.Int("malformed", res.Malformed),
	)
	return res
}

// fetchPage returns the first non-empty page among the strategies.
// Errors count as empty.
func (s *Service) fetchPage(ctx context.Context, log *zap.Logger, q query.Query, page int) []listing.Raw {
	for i, st := range s.strategies {
		if ctx.Err() != nil {
			return nil
		}
		raws, err := st.Fetch(ctx, q, page)
		if err != nil {
			if errors.Is(err, domain.ErrStrategyUnavailable) {
				log.Debug("strategy unavailable", zap.String("strategy", st.Name()), zap.Error(err))
			} else {
				log.Warn("strategy fetch failed",
					zap.String("strategy", st.Name()), zap.Int("page", page), zap.Error(err))
			}
			continue
		}
		if len(raws) == 0 {
			continue
		}
		if i > 0 {
			metrics.SearchFallbackTotal.Inc()
			log.Debug("page served by fallback", zap.String("strategy", st.Name()), zap.Int("page", page))
		}
		return raws
	}
	return nil
}
