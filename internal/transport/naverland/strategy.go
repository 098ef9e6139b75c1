package naverland

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/landscan/internal/domain"
	"github.com/kailas-cloud/landscan/internal/domain/geo"
	"github.com/kailas-cloud/landscan/internal/domain/listing"
	"github.com/kailas-cloud/landscan/internal/domain/search/query"
	logpkg "github.com/kailas-cloud/landscan/internal/logger"
	"github.com/kailas-cloud/landscan/internal/metrics"
)

// Strategy names, also used as metric labels.
const (
	StrategyCortar = "cortar"
	StrategyGeo    = "geo"

	sortByDate = "dates"
)

// RegionResolver maps a region id to its map window.
type RegionResolver interface {
	Resolve(id string) (geo.BoundingBox, error)
}

// CortarStrategy addresses the listing service by administrative region number.
type CortarStrategy struct {
	client *Client
}

// NewCortarStrategy creates the region-number strategy.
func NewCortarStrategy(client *Client) *CortarStrategy {
	return &CortarStrategy{client: client}
}

// Name returns the strategy label.
func (s *CortarStrategy) Name() string { return StrategyCortar }

// Fetch requests one page for the query's region.
func (s *CortarStrategy) Fetch(ctx context.Context, q query.Query, page int) ([]listing.Raw, error) {
	params := baseParams(q, page)
	params.Set("cortarNo", q.RegionID())
	return s.client.fetch(ctx, StrategyCortar, page, params)
}

// GeoBoundStrategy addresses the listing service by a map window around the region center.
type GeoBoundStrategy struct {
	client  *Client
	regions RegionResolver
}

// NewGeoBoundStrategy creates the bounding-box strategy.
func NewGeoBoundStrategy(client *Client, regions RegionResolver) *GeoBoundStrategy {
	return &GeoBoundStrategy{client: client, regions: regions}
}

// Name returns the strategy label.
func (s *GeoBoundStrategy) Name() string { return StrategyGeo }

// Fetch requests one page for the region's bounding box.
// An unknown region or a degenerate window yields domain.ErrStrategyUnavailable
// without a request.
func (s *GeoBoundStrategy) Fetch(ctx context.Context, q query.Query, page int) ([]listing.Raw, error) {
	box, err := s.regions.Resolve(q.RegionID())
	if err == nil && !box.Valid() {
		err = fmt.Errorf("degenerate map window for region %s", q.RegionID())
	}
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(StrategyGeo, "unavailable").Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrStrategyUnavailable, err)
	}
	logpkg.FromContextOr(ctx, s.client.logger).Debug("geo map window",
		zap.Int("page", page),
		zap.Float64("width_m", box.WidthMeters()),
		zap.Float64("height_m", box.HeightMeters()),
	)

	params := baseParams(q, page)
	params.Set("z", strconv.Itoa(box.Zoom))
	params.Set("lat", formatCoord(box.CenterLat))
	params.Set("lon", formatCoord(box.CenterLon))
	params.Set("btm", formatCoord(box.Bottom))
	params.Set("lft", formatCoord(box.Left))
	params.Set("top", formatCoord(box.Top))
	params.Set("rgt", formatCoord(box.Right))
	return s.client.fetch(ctx, StrategyGeo, page, params)
}

// baseParams builds the filter parameters shared by both strategies.
func baseParams(q query.Query, page int) url.Values {
	params := url.Values{}
	params.Set("rletTpCd", strings.Join(q.PropertyTypes(), ":"))
	params.Set("tradTpCd", strings.Join(q.TradeTypes(), ":"))
	params.Set("sort", sortByDate)
	params.Set("page", strconv.Itoa(page))

	// Whole square meters, truncated. Zero bounds are not sent.
	if sqm, ok := q.MinAreaSqm(); ok && int(sqm) > 0 {
		params.Set("spcMin", strconv.Itoa(int(sqm)))
	}
	if sqm, ok := q.MaxAreaSqm(); ok && int(sqm) > 0 {
		params.Set("spcMax", strconv.Itoa(int(sqm)))
	}
	return params
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
