package recicla

import (
	"math"
	"strconv"
	"strings"
)

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"latitude"`
	Lng float64 `json:"longitude"`
}

// IsFinite reports whether both coordinates are neither NaN nor infinite.
func (p Point) IsFinite() bool {
	return isFinite(p.Lat) && isFinite(p.Lng)
}

// DegreesPerKilometer approximates one kilometre as a fraction of a degree
// on both axes. Good enough near the equator; not a geodesic distance.
const DegreesPerKilometer = 0.009

// BoundingBox is a closed axis-aligned rectangle of coordinates.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// Contains reports whether p lies inside the box, edges included.
func (b BoundingBox) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// BoundingBoxAround approximates the circle of radiusMeters around center with
// a square box. Points near the corners may lie outside the true circle.
func BoundingBoxAround(center Point, radiusMeters float64) BoundingBox {
	delta := (radiusMeters / 1000) * DegreesPerKilometer
	return BoundingBox{
		MinLat: center.Lat - delta,
		MaxLat: center.Lat + delta,
		MinLng: center.Lng - delta,
		MaxLng: center.Lng + delta,
	}
}

// ServiceArea is the region complaints may be filed for.
type ServiceArea struct {
	Name string
	BoundingBox
}

// DefaultServiceArea covers the city of Fortaleza.
var DefaultServiceArea = ServiceArea{
	Name: "Fortaleza",
	BoundingBox: BoundingBox{
		MinLat: -3.8,
		MaxLat: -3.6,
		MinLng: -38.7,
		MaxLng: -38.4,
	},
}

// Validate parses raw coordinates and checks them against the area.
// Returns EINVALID if either value is missing, non-numeric, not finite or
// outside the area.
func (a ServiceArea) Validate(latRaw, lngRaw string) (Point, error) {
	latRaw, lngRaw = strings.TrimSpace(latRaw), strings.TrimSpace(lngRaw)
	if latRaw == "" || lngRaw == "" {
		return Point{}, Invalid("Latitude and longitude are required")
	}

	lat, err := parseCoordinate(latRaw)
	if err != nil {
		return Point{}, Invalid("Invalid coordinates")
	}
	lng, err := parseCoordinate(lngRaw)
	if err != nil {
		return Point{}, Invalid("Invalid coordinates")
	}

	return a.ValidatePoint(Point{Lat: lat, Lng: lng})
}

// ValidatePoint checks an already parsed point against the area.
// Returns EINVALID if a coordinate is not finite or the point lies outside.
func (a ServiceArea) ValidatePoint(p Point) (Point, error) {
	if !p.IsFinite() {
		return Point{}, Invalid("Invalid coordinates")
	}
	if !a.Contains(p) {
		return Point{}, Invalid("Coordinates must be within %s (%g to %g latitude, %g to %g longitude)",
			a.name(), a.MinLat, a.MaxLat, a.MinLng, a.MaxLng)
	}
	return p, nil
}

func (a ServiceArea) name() string {
	if a.Name == "" {
		return "the service area"
	}
	return a.Name
}

func parseCoordinate(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if !isFinite(f) {
		return 0, strconv.ErrRange
	}
	return f, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
