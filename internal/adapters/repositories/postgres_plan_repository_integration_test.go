//go:build integration

package repositories

import (
	"context"
	"routeflow-service/internal/domain"
	"routeflow-service/internal/platform/db/dbtest"
	"routeflow-service/internal/ports"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
)

func setupPlanRepository(t *testing.T) *PostgresPlanRepository {
	t.Helper()
	conn := dbtest.Open(t)
	require.NoError(t, InitSchema(context.Background(), conn))
	// Schema creation is idempotent.
	require.NoError(t, InitSchema(context.Background(), conn))
	return NewPostgresPlanRepository(conn)
}

func TestPostgresPlanRepository(t *testing.T) {
	ctx := context.Background()
	repo := setupPlanRepository(t)

	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	first := testPlan(uuid.NewString(), base)
	second := testPlan(uuid.NewString(), base.Add(time.Minute))
	second.Unresolved = nil
	second.Route = domain.Route{Stops: []domain.Point{}}

	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	got, err := repo.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.RawInput, got.RawInput)
	assert.Equal(t, first.Route, got.Route)
	assert.Equal(t, first.Unresolved, got.Unresolved)
	assert.True(t, first.CreatedAt.Equal(got.CreatedAt))

	got, err = repo.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Route.Stops)
	assert.Empty(t, got.Unresolved)

	list, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	var path []byte
	require.NoError(t, repo.DB.QueryRowContext(ctx, `SELECT path_wkb FROM route_plans WHERE id = $1`, first.ID).Scan(&path))
	g, err := wkb.Unmarshal(path)
	require.NoError(t, err)
	assert.Equal(t, len(first.Route.Stops), g.(*geom.LineString).NumCoords())

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.Get(ctx, first.ID)
	assert.ErrorIs(t, err, ports.ErrPlanNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), ports.ErrPlanNotFound)

	_, err = repo.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ports.ErrPlanNotFound)
}
