package domain

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Immutable geographic coordinates (WGS-84 decimal degrees).
type Coordinates struct {
	Lat float64
	Lon float64
}

// Return coordinates as an orb point ([lon, lat]).
func (c Coordinates) OrbPoint() orb.Point { return orb.Point{c.Lon, c.Lat} }

// Return coordinates as [lon, lat] for GeoJSON and external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Valid reports whether both components are finite and inside the WGS-84 range.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// DistanceKm returns the great-circle (haversine) distance to o in kilometres.
func (c Coordinates) DistanceKm(o Coordinates) float64 {
	return geo.DistanceHaversine(c.OrbPoint(), o.OrbPoint()) / 1000
}
