package ports

import (
	"context"
	"routeflow-service/internal/domain"
)

// Port: session storage for computed route plans.
// Plans are stored as produced; the repository never recomputes routes.
type RoutePlanRepository interface {
	Save(ctx context.Context, plan *domain.RoutePlan) error
	// Return ErrPlanNotFound for unknown ids.
	Get(ctx context.Context, id string) (*domain.RoutePlan, error)
	// Return ErrPlanNotFound for unknown ids.
	Delete(ctx context.Context, id string) error
	// Return up to limit plans, most recent first.
	List(ctx context.Context, limit int) ([]*domain.RoutePlan, error)
}
