// internal/domain/address/distance.go
package address

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0

// Point is a WGS84 coordinate
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the point lies within coordinate bounds
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180 &&
		!math.IsNaN(p.Lat) && !math.IsNaN(p.Lon)
}

// HaversineKm is the great-circle distance between a and b in kilometres
func HaversineKm(a, b Point) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)
	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Pow(math.Sin(dLon/2), 2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Advisory is the delivery-zone note for a chosen location
type Advisory struct {
	DistanceKm float64 `json:"distance_km"`
	Warn       bool    `json:"warn"`
	Message    string  `json:"message,omitempty"`
}

// Zone is the delivery area around a reference point
type Zone struct {
	Name     string
	Center   Point
	RadiusKm float64
}

// Check computes the advisory for p. Distances beyond the radius warn;
// exactly on the radius does not. A zero latitude or longitude is treated
// as unknown and produces no advisory.
func (z Zone) Check(p Point) Advisory {
	if p.Lat == 0 || p.Lon == 0 {
		return Advisory{}
	}
	km := HaversineKm(p, z.Center)
	adv := Advisory{DistanceKm: math.Round(km*10) / 10}
	if km > z.RadiusKm {
		adv.Warn = true
		adv.Message = fmt.Sprintf("Note: Your address is approximately %.1f km from %s. Delivery availability may vary.", km, z.Name)
	}
	return adv
}
