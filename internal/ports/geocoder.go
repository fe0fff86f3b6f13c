package ports

import (
	"context"
	"routeflow-service/internal/domain"
)

// Contract for resolving a postal address to coordinates.
type Geocoder interface {
	// Return coordinates for address, or ErrAddressNotFound when the
	// lookup service has no match.
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}
