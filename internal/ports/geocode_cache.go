package ports

import (
	"context"
	"routeflow-service/internal/domain"
)

// Persistent address -> coordinate cache used in front of a Geocoder.
// Keys are expected to be normalized by the caller.
type GeocodeCache interface {
	// Fetch cached coordinates; addresses without an entry are absent from the result.
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	// Store address -> coordinate mappings.
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
