package repositories

import (
	"context"
	"routeflow-service/internal/domain"
	"routeflow-service/internal/ports"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	planA = "00000000-0000-4000-8000-00000000000a"
	planB = "00000000-0000-4000-8000-00000000000b"
	planC = "00000000-0000-4000-8000-00000000000c"
)

func testPlan(id string, createdAt time.Time) *domain.RoutePlan {
	return &domain.RoutePlan{
		ID:       id,
		RawInput: "Av. Paulista, 1000 e Rua Augusta, 500",
		Route: domain.Route{
			Stops: []domain.Point{
				{Address: "Av. Paulista, 1000", Coordinates: domain.Coordinates{Lat: -23.5614, Lon: -46.6559}, IsDepot: true},
				{Address: "Rua Augusta, 500", Coordinates: domain.Coordinates{Lat: -23.5535, Lon: -46.6523}},
			},
			TotalDistanceKm: 0.95,
		},
		Unresolved: []string{"Rua Perdida, 1"},
		CreatedAt:  createdAt,
	}
}

func TestMemoryPlanRepositorySaveGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPlanRepository()
	plan := testPlan(planA, time.Now())

	require.NoError(t, repo.Save(ctx, plan))

	// Stored state is isolated from the caller's copy.
	plan.Route.Stops[0].Address = "mutated"
	plan.Unresolved[0] = "mutated"

	got, err := repo.Get(ctx, planA)
	require.NoError(t, err)
	assert.Equal(t, "Av. Paulista, 1000", got.Route.Stops[0].Address)
	assert.Equal(t, []string{"Rua Perdida, 1"}, got.Unresolved)

	got.Route.Stops[0].Address = "mutated again"
	again, err := repo.Get(ctx, planA)
	require.NoError(t, err)
	assert.Equal(t, "Av. Paulista, 1000", again.Route.Stops[0].Address)

	_, err = repo.Get(ctx, planB)
	assert.ErrorIs(t, err, ports.ErrPlanNotFound)
}

func TestMemoryPlanRepositoryRequiresUUIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPlanRepository()

	assert.Error(t, repo.Save(ctx, nil))
	assert.Error(t, repo.Save(ctx, testPlan("", time.Now())))
	assert.Error(t, repo.Save(ctx, testPlan("p1", time.Now())))

	_, err := repo.Get(ctx, "p1")
	assert.ErrorIs(t, err, ports.ErrPlanNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "p1"), ports.ErrPlanNotFound)

	list, err := repo.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMemoryPlanRepositoryList(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPlanRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, testPlan(planB, base)))
	require.NoError(t, repo.Save(ctx, testPlan(planA, base)))
	require.NoError(t, repo.Save(ctx, testPlan(planC, base.Add(time.Hour))))

	list, err := repo.List(ctx, 10)
	require.NoError(t, err)
	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{planC, planA, planB}, ids)

	list, err = repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, planC, list[0].ID)

	list, err = repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMemoryPlanRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPlanRepository()
	require.NoError(t, repo.Save(ctx, testPlan(planA, time.Now())))

	require.NoError(t, repo.Delete(ctx, planA))
	_, err := repo.Get(ctx, planA)
	assert.ErrorIs(t, err, ports.ErrPlanNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, planA), ports.ErrPlanNotFound)
}

func TestValidPlanID(t *testing.T) {
	assert.True(t, validPlanID("1b4e28ba-2fa1-11d2-883f-0016d3cca427"))
	assert.False(t, validPlanID("p1"))
	assert.False(t, validPlanID(""))
}
