// Package render turns computed routes into presentation formats: a text
// table, a GeoJSON map layer and a WKB path.
package render

import (
	"encoding/binary"
	"fmt"
	"routeflow-service/internal/domain"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

const (
	MarkerStart = "start"
	MarkerStop  = "stop"
)

func pathCoords(route domain.Route) []float64 {
	flat := make([]float64, 0, 2*len(route.Stops))
	for _, s := range route.Stops {
		flat = append(flat, s.Lon, s.Lat)
	}
	return flat
}

// GeoJSON builds a FeatureCollection with one Point per stop, in visiting
// order, followed by a LineString joining the stops. Routes with fewer than
// two stops have no line.
func GeoJSON(route domain.Route) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(route.Stops)+1)}

	for i, s := range route.Stops {
		marker := MarkerStop
		if s.IsDepot {
			marker = MarkerStart
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       fmt.Sprintf("stop-%d", i+1),
			Geometry: geom.NewPointFlat(geom.XY, []float64{s.Lon, s.Lat}),
			Properties: map[string]interface{}{
				"order":    i + 1,
				"address":  s.Address,
				"is_depot": s.IsDepot,
				"marker":   marker,
			},
		})
	}

	if len(route.Stops) >= 2 {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       "path",
			Geometry: geom.NewLineStringFlat(geom.XY, pathCoords(route)),
			Properties: map[string]interface{}{
				"total_distance_km": route.TotalDistanceKm,
			},
		})
	}

	return fc
}

// PathWKB encodes the visiting order as a little-endian WKB LineString.
// It returns nil for routes with fewer than two stops.
func PathWKB(route domain.Route) ([]byte, error) {
	if len(route.Stops) < 2 {
		return nil, nil
	}

	b, err := wkb.Marshal(geom.NewLineStringFlat(geom.XY, pathCoords(route)), binary.LittleEndian)
	if err != nil {
		return nil, fmt.Errorf("encode path wkb: %w", err)
	}
	return b, nil
}
