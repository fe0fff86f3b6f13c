package services

import (
	"context"
	"errors"
	"fmt"
	"routeflow-service/internal/domain"
	"routeflow-service/internal/ports"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const deliveryText = "Entregar na Av. Paulista, 1000, depois Rua Pamplona, 800 e Rua Augusta, 500."

var fixedNow = time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)

func fixedRequest(text string) PlanFromTextRequest {
	return PlanFromTextRequest{
		RawText: text,
		Now:     func() time.Time { return fixedNow },
		NewID:   func() string { return "plan-1" },
	}
}

func TestPlanFromText(t *testing.T) {
	ext := new(MockTextExtractor)
	ext.On("ExtractAddresses", mock.Anything, deliveryText).
		Return([]string{"Av. Paulista, 1000", "Rua Pamplona, 800", "Rua Augusta, 500"}, nil)

	geo := new(MockGeocoder)
	geo.On("Geocode", mock.Anything, "Av. Paulista, 1000").Return(paulista, nil)
	geo.On("Geocode", mock.Anything, "Rua Pamplona, 800").Return(pamplona, nil)
	geo.On("Geocode", mock.Anything, "Rua Augusta, 500").Return(augusta, nil)

	plan, err := PlanFromText(context.Background(), fixedRequest(deliveryText), ext, geo)

	require.NoError(t, err)
	assert.Equal(t, "plan-1", plan.ID)
	assert.Equal(t, deliveryText, plan.RawInput)
	assert.Equal(t, fixedNow, plan.CreatedAt)
	assert.Empty(t, plan.Unresolved)

	// Pamplona is closer to Paulista than Augusta is.
	assert.Equal(t, []string{"Av. Paulista, 1000", "Rua Pamplona, 800", "Rua Augusta, 500"}, addresses(plan.Route.Stops))
	assert.True(t, plan.Route.Stops[0].IsDepot)
	assert.Equal(t, TotalDistanceKm(plan.Route.Stops), plan.Route.TotalDistanceKm)

	ext.AssertExpectations(t)
	geo.AssertExpectations(t)
}

func TestPlanFromTextNoAddresses(t *testing.T) {
	ext := new(MockTextExtractor)
	ext.On("ExtractAddresses", mock.Anything, "oi, tudo bem?").Return([]string{}, nil)
	geo := new(MockGeocoder)

	_, err := PlanFromText(context.Background(), fixedRequest("oi, tudo bem?"), ext, geo)

	require.ErrorIs(t, err, ports.ErrNoAddresses)
	geo.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
}

func TestPlanFromTextNothingResolved(t *testing.T) {
	ext := new(MockTextExtractor)
	ext.On("ExtractAddresses", mock.Anything, "Rua X e Rua Y").Return([]string{"Rua X", "Rua Y"}, nil)
	geo := new(MockGeocoder)
	geo.On("Geocode", mock.Anything, mock.Anything).
		Return(domain.Coordinates{}, fmt.Errorf("lookup: %w", ports.ErrAddressNotFound))

	plan, err := PlanFromText(context.Background(), fixedRequest("Rua X e Rua Y"), ext, geo)

	require.NoError(t, err)
	assert.Empty(t, plan.Route.Stops)
	assert.NotNil(t, plan.Route.Stops)
	assert.Equal(t, 0.0, plan.Route.TotalDistanceKm)
	assert.Equal(t, []string{"Rua X", "Rua Y"}, plan.Unresolved)
}

func TestPlanFromTextDepotIsFirstResolved(t *testing.T) {
	ext := new(MockTextExtractor)
	ext.On("ExtractAddresses", mock.Anything, mock.Anything).Return([]string{"Lost", "Rua Augusta, 500", "Av. Paulista, 1000"}, nil)
	geo := new(MockGeocoder)
	geo.On("Geocode", mock.Anything, "Lost").Return(domain.Coordinates{}, ports.ErrAddressNotFound)
	geo.On("Geocode", mock.Anything, "Rua Augusta, 500").Return(augusta, nil)
	geo.On("Geocode", mock.Anything, "Av. Paulista, 1000").Return(paulista, nil)

	plan, err := PlanFromText(context.Background(), fixedRequest("whatever"), ext, geo)

	require.NoError(t, err)
	depot, ok := plan.Route.Depot()
	require.True(t, ok)
	assert.Equal(t, "Rua Augusta, 500", depot.Address)
	assert.Equal(t, []string{"Lost"}, plan.Unresolved)
}

func TestPlanFromTextExtractorError(t *testing.T) {
	ext := new(MockTextExtractor)
	ext.On("ExtractAddresses", mock.Anything, mock.Anything).Return(nil, ports.ErrExtractorRateLimited)

	_, err := PlanFromText(context.Background(), fixedRequest("text"), ext, new(MockGeocoder))

	require.ErrorIs(t, err, ports.ErrExtractorRateLimited)
}

func TestPlanFromTextBlankText(t *testing.T) {
	ext := new(MockTextExtractor)

	_, err := PlanFromText(context.Background(), fixedRequest("   "), ext, new(MockGeocoder))

	require.Error(t, err)
	assert.False(t, errors.Is(err, ports.ErrNoAddresses))
	ext.AssertNotCalled(t, "ExtractAddresses", mock.Anything, mock.Anything)
}

func TestPlanFromTextDefaultsIDAndClock(t *testing.T) {
	ext := new(MockTextExtractor)
	ext.On("ExtractAddresses", mock.Anything, mock.Anything).Return([]string{"A"}, nil)
	geo := new(MockGeocoder)
	geo.On("Geocode", mock.Anything, "A").Return(paulista, nil)

	before := time.Now().UTC()
	plan, err := PlanFromText(context.Background(), PlanFromTextRequest{RawText: "A"}, ext, geo)

	require.NoError(t, err)
	assert.Len(t, plan.ID, 36)
	assert.False(t, plan.CreatedAt.Before(before.Add(-time.Second)))
	assert.Equal(t, 0.0, plan.Route.TotalDistanceKm)
}
