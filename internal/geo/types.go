package geo

import (
	"fmt"
	"math"
)

// Point is a geographic coordinate in degrees.
type Point struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", p.Lng, p.Lat)
}

// Distance is the straight-line distance between a and b in raw degree
// units. It is not a geodesic distance.
func Distance(a, b Point) float64 {
	return math.Sqrt(math.Pow(b.Lng-a.Lng, 2) + math.Pow(b.Lat-a.Lat, 2))
}

// Box is the bounding rectangle of a point set in longitude/latitude space.
type Box struct {
	MinLng float64 `json:"min_lng" yaml:"min_lng"`
	MaxLng float64 `json:"max_lng" yaml:"max_lng"`
	MinLat float64 `json:"min_lat" yaml:"min_lat"`
	MaxLat float64 `json:"max_lat" yaml:"max_lat"`
}

// EmptyBox is the boundary of an empty point set: every extreme is left at
// its inverted full-Earth sentinel.
var EmptyBox = Box{
	MinLng: 180,
	MaxLng: -180,
	MinLat: 90,
	MaxLat: -90,
}

func (b Box) Width() float64  { return b.MaxLng - b.MinLng }
func (b Box) Height() float64 { return b.MaxLat - b.MinLat }

func (b Box) Size() (float64, float64) {
	return b.Width(), b.Height()
}

// IsEmpty reports whether b is still the inverted sentinel of an empty set.
func (b Box) IsEmpty() bool {
	return b.MinLng > b.MaxLng || b.MinLat > b.MaxLat
}

// Contains reports whether p lies inside b, edges included.
func (b Box) Contains(p Point) bool {
	return p.Lng >= b.MinLng && p.Lng <= b.MaxLng && p.Lat >= b.MinLat && p.Lat <= b.MaxLat
}

func (b Box) String() string {
	return fmt.Sprintf("lng [%.6f, %.6f] lat [%.6f, %.6f]", b.MinLng, b.MaxLng, b.MinLat, b.MaxLat)
}
