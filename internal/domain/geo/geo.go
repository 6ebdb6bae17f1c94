package geo

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean radius of Earth used for Haversine distance.
const EarthRadiusKm = 6371.0

// Point is a validated latitude/longitude pair in degrees.
type Point struct {
	lat float64
	lon float64
}

// New validates coordinate ranges and creates a Point.
func New(lat, lon float64) (Point, error) {
	if !Validate(lat, lon) {
		return Point{}, fmt.Errorf("coordinates out of range: lat=%v lon=%v", lat, lon)
	}
	return Point{lat: lat, lon: lon}, nil
}

// Lat returns the latitude in degrees.
func (p Point) Lat() float64 { return p.lat }

// Lon returns the longitude in degrees.
func (p Point) Lon() float64 { return p.lon }

// Validate checks that latitude is in [-90,90] and longitude in [-180,180].
func Validate(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Haversine returns the great-circle distance in kilometers between two points.
// Symmetric; Haversine(p, p) is 0 within floating-point epsilon.
func Haversine(a, b Point) float64 {
	lat1r := a.lat * math.Pi / 180
	lat2r := b.lat * math.Pi / 180
	dLat := (b.lat - a.lat) * math.Pi / 180
	dLon := (b.lon - a.lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}
