package services

import (
	"context"
	"routeflow-service/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) ExtractAddresses(ctx context.Context, text string) ([]string, error) {
	args := m.Called(ctx, text)
	res, _ := args.Get(0).([]string)
	return res, args.Error(1)
}

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(domain.Coordinates), args.Error(1)
}
