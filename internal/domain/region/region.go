package region

import (
	"fmt"
	"sort"

	"github.com/mmcloughlin/geohash"

	"github.com/kailas-cloud/landscan/internal/domain"
	"github.com/kailas-cloud/landscan/internal/domain/geo"
)

// GeohashPrecision is ~1.2km x 0.6km, finer than a district.
const GeohashPrecision = 6

// Region is a named district with a representative center point.
type Region struct {
	ID        string
	Name      string
	Latitude  float64
	Longitude float64
}

// Bounds returns the default map window around the region center.
func (r Region) Bounds() geo.BoundingBox {
	// Coordinates are validated by NewCatalog, Around cannot fail here.
	b, _ := geo.Around(r.Latitude, r.Longitude, geo.DefaultDelta, geo.DefaultZoom)
	return b
}

// Geohash encodes the region center.
func (r Region) Geohash() string {
	return geohash.EncodeWithPrecision(r.Latitude, r.Longitude, GeohashPrecision)
}

// Catalog is an immutable id -> region table. Safe for concurrent reads.
type Catalog struct {
	byID   map[string]Region
	sorted []Region
}

// NewCatalog validates and indexes regions. Ids must be unique.
func NewCatalog(regions []Region) (*Catalog, error) {
	byID := make(map[string]Region, len(regions))
	for _, r := range regions {
		if r.ID == "" {
			return nil, fmt.Errorf("region id is required (name %q)", r.Name)
		}
		if r.Name == "" {
			return nil, fmt.Errorf("region %s: name is required", r.ID)
		}
		if !geo.ValidateCoordinates(r.Latitude, r.Longitude) {
			return nil, fmt.Errorf("region %s: invalid coordinates (%f, %f)", r.ID, r.Latitude, r.Longitude)
		}
		if _, dup := byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate region id %s", r.ID)
		}
		byID[r.ID] = r
	}

	sorted := make([]Region, 0, len(byID))
	for _, r := range byID {
		sorted = append(sorted, r)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Name == sorted[j].Name {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].Name < sorted[j].Name
	})

	return &Catalog{byID: byID, sorted: sorted}, nil
}

// Get returns the region by id. A miss wraps domain.ErrRegionNotFound.
func (c *Catalog) Get(id string) (Region, error) {
	r, ok := c.byID[id]
	if !ok {
		return Region{}, fmt.Errorf("%w: %s", domain.ErrRegionNotFound, id)
	}
	return r, nil
}

// Resolve maps a region id to its bounding box.
func (c *Catalog) Resolve(id string) (geo.BoundingBox, error) {
	r, err := c.Get(id)
	if err != nil {
		return geo.BoundingBox{}, err
	}
	return r.Bounds(), nil
}

// List returns all regions sorted by name.
func (c *Catalog) List() []Region {
	out := make([]Region, len(c.sorted))
	copy(out, c.sorted)
	return out
}

// Len returns the number of regions.
func (c *Catalog) Len() int { return len(c.byID) }
