package chi

import (
	"github.com/kailas-cloud/landscan/internal/domain/listing"
	"github.com/kailas-cloud/landscan/internal/domain/region"
	"github.com/kailas-cloud/landscan/internal/domain/search/query"
)

type regionItem struct {
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Geohash string  `json:"geohash"`
}

func regionToItem(r region.Region) regionItem {
	return regionItem{
		Code:    r.ID,
		Name:    r.Name,
		Lat:     r.Latitude,
		Lon:     r.Longitude,
		Geohash: r.Geohash(),
	}
}

// searchRequest carries area bounds in pyeong. Absent fields take query defaults.
type searchRequest struct {
	RegionCode    string   `json:"region_code"`
	PropertyTypes []string `json:"property_types"`
	TradeTypes    []string `json:"trade_types"`
	MinArea       *float64 `json:"min_area"`
	MaxArea       *float64 `json:"max_area"`
	MaxResults    *int     `json:"max_results"`
}

func (r searchRequest) params() query.Params {
	return query.Params{
		RegionID:      r.RegionCode,
		PropertyTypes: r.PropertyTypes,
		TradeTypes:    r.TradeTypes,
		MinAreaPyeong: r.MinArea,
		MaxAreaPyeong: r.MaxArea,
		MaxResults:    r.MaxResults,
	}
}

// searchQueryParams is the GET form of searchRequest.
type searchQueryParams struct {
	RegionCode    *string
	PropertyTypes *[]string
	TradeTypes    *[]string
	MinArea       *float64
	MaxArea       *float64
	MaxResults    *int
}

func (p searchQueryParams) request() searchRequest {
	req := searchRequest{MinArea: p.MinArea, MaxArea: p.MaxArea, MaxResults: p.MaxResults}
	if p.RegionCode != nil {
		req.RegionCode = *p.RegionCode
	}
	if p.PropertyTypes != nil {
		req.PropertyTypes = *p.PropertyTypes
	}
	if p.TradeTypes != nil {
		req.TradeTypes = *p.TradeTypes
	}
	return req
}

type searchResponse struct {
	Success bool                 `json:"success"`
	Count   int                  `json:"count"`
	Partial bool                 `json:"partial"`
	Data    []listing.Normalized `json:"data"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type downloadRequest struct {
	Data []listing.Normalized `json:"data"`
}

type healthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}
