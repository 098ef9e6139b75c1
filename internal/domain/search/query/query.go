package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kailas-cloud/landscan/internal/domain"
	"github.com/kailas-cloud/landscan/internal/domain/listing"
)

// Search parameter defaults and limits. Areas are in pyeong.
const (
	DefaultPropertyType = "D01"
	DefaultTradeType    = "B2"
	DefaultMinArea      = 0
	DefaultMaxArea      = 1000
	DefaultMaxResults   = 50
	MaxResultsLimit     = 1000
)

var codePattern = regexp.MustCompile(`^[A-Z][0-9]{1,2}$`)

// Params carries caller input before validation. Nil slices and pointers take defaults;
// an empty non-nil code slice sends no code and disables the property-type filter.
type Params struct {
	RegionID      string
	PropertyTypes []string
	TradeTypes    []string
	MinAreaPyeong *float64
	MaxAreaPyeong *float64
	MaxResults    *int
}

// Query is a validated, immutable listing search.
type Query struct {
	regionID      string
	propertyTypes []string
	tradeTypes    []string
	minAreaSqm    *float64
	maxAreaSqm    *float64
	maxResults    int
}

// New validates params, applies defaults and converts area bounds to square meters.
// A zero area bound means "no bound".
func New(p Params) (Query, error) {
	regionID := strings.TrimSpace(p.RegionID)
	if regionID == "" {
		return Query{}, fmt.Errorf("%w: region_code is required", domain.ErrInvalidQuery)
	}

	propertyTypes, err := codes("property_types", p.PropertyTypes, DefaultPropertyType)
	if err != nil {
		return Query{}, err
	}
	tradeTypes, err := codes("trade_types", p.TradeTypes, DefaultTradeType)
	if err != nil {
		return Query{}, err
	}

	minArea := float64(DefaultMinArea)
	if p.MinAreaPyeong != nil {
		minArea = *p.MinAreaPyeong
	}
	maxArea := float64(DefaultMaxArea)
	if p.MaxAreaPyeong != nil {
		maxArea = *p.MaxAreaPyeong
	}
	if minArea < 0 || maxArea < 0 {
		return Query{}, fmt.Errorf("%w: area bounds must not be negative", domain.ErrInvalidQuery)
	}
	if minArea > 0 && maxArea > 0 && minArea > maxArea {
		return Query{}, fmt.Errorf("%w: min_area %.2f exceeds max_area %.2f", domain.ErrInvalidQuery, minArea, maxArea)
	}

	maxResults := DefaultMaxResults
	if p.MaxResults != nil {
		maxResults = *p.MaxResults
	}
	if maxResults <= 0 || maxResults > MaxResultsLimit {
		return Query{}, fmt.Errorf("%w: max_results must be between 1 and %d, got %d",
			domain.ErrInvalidQuery, MaxResultsLimit, maxResults)
	}

	return Query{
		regionID:      regionID,
		propertyTypes: propertyTypes,
		tradeTypes:    tradeTypes,
		minAreaSqm:    sqmBound(minArea),
		maxAreaSqm:    sqmBound(maxArea),
		maxResults:    maxResults,
	}, nil
}

func codes(name string, in []string, fallback string) ([]string, error) {
	if in == nil {
		return []string{fallback}, nil
	}
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if !codePattern.MatchString(c) {
			return nil, fmt.Errorf("%w: %s: invalid code %q", domain.ErrInvalidQuery, name, c)
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}

func sqmBound(pyeong float64) *float64 {
	if pyeong <= 0 {
		return nil
	}
	v := listing.PyeongToSqm(pyeong)
	return &v
}

// RegionID returns the region identifier (cortarNo).
func (q Query) RegionID() string { return q.regionID }

// PropertyTypes returns a copy of the requested property-type codes.
func (q Query) PropertyTypes() []string { return append([]string(nil), q.propertyTypes...) }

// TradeTypes returns a copy of the requested trade-type codes.
func (q Query) TradeTypes() []string { return append([]string(nil), q.tradeTypes...) }

// AllowedTypes returns the property-type filter used during normalization.
func (q Query) AllowedTypes() listing.CodeSet { return listing.NewCodeSet(q.propertyTypes...) }

// MinAreaSqm returns the lower area bound in square meters, if any.
func (q Query) MinAreaSqm() (float64, bool) { return deref(q.minAreaSqm) }

// MaxAreaSqm returns the upper area bound in square meters, if any.
func (q Query) MaxAreaSqm() (float64, bool) { return deref(q.maxAreaSqm) }

// MaxResults returns the result cap.
func (q Query) MaxResults() int { return q.maxResults }

func deref(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}
