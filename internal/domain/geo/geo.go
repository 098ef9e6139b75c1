package geo

import (
	"fmt"
	"math"
)

// earthRadiusMeters is the mean radius of Earth used for Haversine distance.
const earthRadiusMeters = 6_371_000.0

// Map window defaults used by the listing service's cluster endpoints.
const (
	DefaultDelta = 0.05
	DefaultZoom  = 14
)

// BoundingBox is a map window around a center point, in degrees.
type BoundingBox struct {
	CenterLat float64
	CenterLon float64
	Bottom    float64
	Left      float64
	Top       float64
	Right     float64
	Zoom      int
}

// Around expands delta degrees from the center in each direction.
func Around(lat, lon, delta float64, zoom int) (BoundingBox, error) {
	if !ValidateCoordinates(lat, lon) {
		return BoundingBox{}, fmt.Errorf("invalid coordinates (%f, %f)", lat, lon)
	}
	if delta <= 0 {
		return BoundingBox{}, fmt.Errorf("delta must be positive, got %f", delta)
	}
	return BoundingBox{
		CenterLat: lat,
		CenterLon: lon,
		Bottom:    lat - delta,
		Left:      lon - delta,
		Top:       lat + delta,
		Right:     lon + delta,
		Zoom:      zoom,
	}, nil
}

// Valid reports whether the center lies strictly inside the box.
func (b BoundingBox) Valid() bool {
	return b.Bottom < b.CenterLat && b.CenterLat < b.Top &&
		b.Left < b.CenterLon && b.CenterLon < b.Right
}

// WidthMeters returns the east-west span measured along the center latitude.
func (b BoundingBox) WidthMeters() float64 {
	return Haversine(b.CenterLat, b.Left, b.CenterLat, b.Right)
}

// HeightMeters returns the north-south span.
func (b BoundingBox) HeightMeters() float64 {
	return Haversine(b.Bottom, b.CenterLon, b.Top, b.CenterLon)
}

// Haversine returns the great-circle distance in meters between two points
// specified by latitude and longitude in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
