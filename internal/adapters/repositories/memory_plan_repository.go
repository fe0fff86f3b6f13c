package repositories

import (
	"context"
	"errors"
	"fmt"
	"routeflow-service/internal/domain"
	"routeflow-service/internal/ports"
	"slices"
	"sync"
)

// In-process RoutePlanRepository used when no database is configured.
// Plans are copied on the way in and out so callers cannot mutate stored state.
// Ids must be UUIDs, as in the Postgres implementation.
type MemoryPlanRepository struct {
	mu    sync.RWMutex
	plans map[string]*domain.RoutePlan
}

func NewMemoryPlanRepository() *MemoryPlanRepository {
	return &MemoryPlanRepository{plans: make(map[string]*domain.RoutePlan)}
}

func clonePlan(p *domain.RoutePlan) *domain.RoutePlan {
	c := *p
	c.Route.Stops = slices.Clone(p.Route.Stops)
	c.Unresolved = slices.Clone(p.Unresolved)
	return &c
}

func (m *MemoryPlanRepository) Save(ctx context.Context, plan *domain.RoutePlan) error {
	if plan == nil || plan.ID == "" {
		return errors.New("save plan: plan id must be non-empty")
	}
	if !validPlanID(plan.ID) {
		return fmt.Errorf("save plan: id %q is not a UUID", plan.ID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[plan.ID] = clonePlan(plan)
	return nil
}

func (m *MemoryPlanRepository) Get(ctx context.Context, id string) (*domain.RoutePlan, error) {
	if !validPlanID(id) {
		return nil, fmt.Errorf("get plan id=%q: %w", id, ports.ErrPlanNotFound)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.plans[id]
	if !ok {
		return nil, fmt.Errorf("get plan id=%q: %w", id, ports.ErrPlanNotFound)
	}
	return clonePlan(p), nil
}

func (m *MemoryPlanRepository) Delete(ctx context.Context, id string) error {
	if !validPlanID(id) {
		return fmt.Errorf("delete plan id=%q: %w", id, ports.ErrPlanNotFound)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.plans[id]; !ok {
		return fmt.Errorf("delete plan id=%q: %w", id, ports.ErrPlanNotFound)
	}
	delete(m.plans, id)
	return nil
}

func (m *MemoryPlanRepository) List(ctx context.Context, limit int) ([]*domain.RoutePlan, error) {
	if limit <= 0 {
		return []*domain.RoutePlan{}, nil
	}

	m.mu.RLock()
	all := make([]*domain.RoutePlan, 0, len(m.plans))
	for _, p := range m.plans {
		all = append(all, p)
	}
	m.mu.RUnlock()

	slices.SortFunc(all, func(a, b *domain.RoutePlan) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})

	if len(all) > limit {
		all = all[:limit]
	}

	out := make([]*domain.RoutePlan, 0, len(all))
	for _, p := range all {
		out = append(out, clonePlan(p))
	}
	return out, nil
}
