package geocode

import (
	"context"
	"fmt"
	"routeflow-service/internal/domain"
	"routeflow-service/internal/ports"

	"github.com/rs/zerolog/log"
)

// CachingGeocoder checks a persistent cache before delegating to the
// wrapped Geocoder. Cache failures degrade to a direct lookup; "not found"
// answers are never cached.
type CachingGeocoder struct {
	next  ports.Geocoder
	cache ports.GeocodeCache
}

func NewCachingGeocoder(next ports.Geocoder, cache ports.GeocodeCache) *CachingGeocoder {
	return &CachingGeocoder{next: next, cache: cache}
}

func (c *CachingGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	key := Normalize(address)

	if c.cache != nil && key != "" {
		hits, err := c.cache.GetMany(ctx, []string{key})
		if err != nil {
			log.Warn().Err(err).Str("address", key).Msg("geocode cache read failed")
		} else if coords, ok := hits[key]; ok {
			return coords, nil
		}
	}

	coords, err := c.next.Geocode(ctx, address)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("caching geocoder: %w", err)
	}

	if c.cache != nil && key != "" {
		if err := c.cache.PutMany(ctx, map[string]domain.Coordinates{key: coords}); err != nil {
			log.Warn().Err(err).Str("address", key).Msg("geocode cache write failed")
		}
	}

	return coords, nil
}
