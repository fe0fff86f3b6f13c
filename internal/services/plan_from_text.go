package services

import (
	"context"
	"errors"
	"fmt"
	"routeflow-service/internal/domain"
	"routeflow-service/internal/platform/obs"
	"routeflow-service/internal/ports"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type PlanFromTextRequest struct {
	RawText     string
	Concurrency int
	// Optional; defaults to time.Now and a random UUID.
	Now   func() time.Time
	NewID func() string
}

// Turn free-form delivery text into a RoutePlan.
//
// Addresses are extracted, geocoded and ordered by BuildRoute. The first
// resolved address is the depot. When no address can be extracted the
// call fails with ports.ErrNoAddresses; when none can be geocoded the plan
// carries an empty route and every address is reported as unresolved.
func PlanFromText(
	ctx context.Context,
	req PlanFromTextRequest,
	extractor ports.TextExtractor,
	geocoder ports.Geocoder,
) (_ *domain.RoutePlan, err error) {
	defer obs.Time(ctx, "plan_from_text")(&err)

	text := strings.TrimSpace(req.RawText)
	if text == "" {
		return nil, errors.New("plan from text: text must be non-empty")
	}

	addresses, err := extractor.ExtractAddresses(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("plan from text: extract addresses: %w", err)
	}
	if len(addresses) == 0 {
		return nil, fmt.Errorf("plan from text: %w", ports.ErrNoAddresses)
	}

	points, unresolved, err := GeocodeAddresses(ctx, addresses, geocoder, req.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("plan from text: geocode addresses: %w", err)
	}
	if len(points) == 0 {
		log.Warn().
			Str("req_id", obs.RequestID(ctx)).
			Int("addresses", len(addresses)).
			Msg("no address could be geocoded")
	}

	now := time.Now
	if req.Now != nil {
		now = req.Now
	}
	newID := uuid.NewString
	if req.NewID != nil {
		newID = req.NewID
	}

	return &domain.RoutePlan{
		ID:         newID(),
		RawInput:   req.RawText,
		Route:      BuildRoute(points),
		Unresolved: unresolved,
		CreatedAt:  now().UTC(),
	}, nil
}
