package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"routeflow-service/internal/domain"
	"routeflow-service/internal/ports"
)

// StaticGeocoder resolves addresses from a fixed table.
// Used for offline runs and tests, or in front of a live geocoder via Fallback.
type StaticGeocoder struct {
	m map[string]domain.Coordinates

	// Consulted for addresses missing from the table, when set.
	Fallback ports.Geocoder
}

func NewStaticGeocoder(table map[string]domain.Coordinates) *StaticGeocoder {
	m := make(map[string]domain.Coordinates, len(table))
	for addr, c := range table {
		m[Normalize(addr)] = c
	}
	return &StaticGeocoder{m: m}
}

func (s *StaticGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coordinates{}, err
	}

	c, ok := s.m[Normalize(address)]
	if !ok {
		if s.Fallback != nil {
			return s.Fallback.Geocode(ctx, address)
		}
		return domain.Coordinates{}, fmt.Errorf("static geocoder %q: %w", address, ports.ErrAddressNotFound)
	}
	return c, nil
}

type GeocodeSeed struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// ReadSeeds loads and validates address -> coordinate seeds from a JSON file.
func ReadSeeds(jsonPath string) (map[string]domain.Coordinates, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read geocode seeds: read %q: %w", jsonPath, err)
	}

	var data []GeocodeSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("read geocode seeds: parse json: %w", err)
	}

	out := make(map[string]domain.Coordinates, len(data))
	for i, item := range data {
		addr := Normalize(item.Address)
		if addr == "" {
			return nil, fmt.Errorf("read geocode seeds: item at index %d: address cannot be empty", i+1)
		}

		c := domain.Coordinates{Lat: item.Lat, Lon: item.Lon}
		if !c.Valid() {
			return nil, fmt.Errorf("read geocode seeds: item %q: coordinates out of range", addr)
		}
		out[addr] = c
	}

	return out, nil
}
