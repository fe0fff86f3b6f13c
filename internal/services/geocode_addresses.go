package services

import (
	"context"
	"errors"
	"routeflow-service/internal/domain"
	"routeflow-service/internal/platform/obs"
	"routeflow-service/internal/ports"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const DefaultGeocodeConcurrency = 4

type geocodeResult struct {
	coords domain.Coordinates
	ok     bool
}

// Resolve addresses to points with at most concurrency lookups in flight.
//
// Resolved points keep the relative order of addresses, so the first
// resolved address becomes the depot downstream. Addresses the geocoder
// cannot resolve, including lookups that time out on their own, are
// returned separately and never abort the batch; only cancellation of ctx
// does.
func GeocodeAddresses(
	ctx context.Context,
	addresses []string,
	geocoder ports.Geocoder,
	concurrency int,
) (_ []domain.Point, _ []string, err error) {
	defer obs.Time(ctx, "geocode_addresses")(&err)

	if concurrency <= 0 {
		concurrency = DefaultGeocodeConcurrency
	}

	results := make([]geocodeResult, len(addresses))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, addr := range addresses {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			c, err := geocoder.Geocode(gctx, addr)
			switch {
			case err == nil:
				results[i] = geocodeResult{coords: c, ok: true}
			case ctx.Err() != nil:
				// The caller gave up; per-lookup timeouts land in the default case.
				return ctx.Err()
			case errors.Is(err, ports.ErrAddressNotFound):
				log.Info().Str("req_id", obs.RequestID(ctx)).Str("address", addr).Msg("address not found")
			default:
				log.Warn().Err(err).Str("req_id", obs.RequestID(ctx)).Str("address", addr).Msg("geocode failed")
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	// A cancelled parent can race the last lookups; report it rather than a partial batch.
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	points := make([]domain.Point, 0, len(addresses))
	unresolved := []string{}
	for i, r := range results {
		if !r.ok {
			unresolved = append(unresolved, addresses[i])
			continue
		}
		points = append(points, domain.Point{Address: addresses[i], Coordinates: r.coords})
	}

	return points, unresolved, nil
}
