package picker

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/picker-cli/internal/model"
	"github.com/sells-group/picker-cli/pkg/distance"
)

// --- Places Mock ---

type mockPlacesClient struct {
	mock.Mock
}

func (m *mockPlacesClient) Search(ctx context.Context, query string, bias model.Coordinate, radiusMeters float64) (*model.ResolvedPlace, error) {
	args := m.Called(ctx, query, bias, radiusMeters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ResolvedPlace), args.Error(1)
}

func (m *mockPlacesClient) Details(ctx context.Context, placeID string) (*model.PlaceDetails, error) {
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PlaceDetails), args.Error(1)
}

// --- Distance Mock ---

type mockDistanceClient struct {
	mock.Mock
}

func (m *mockDistanceClient) Estimate(ctx context.Context, origin, dest model.Coordinate, mode distance.Mode) (*distance.Estimate, error) {
	args := m.Called(ctx, origin, dest, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*distance.Estimate), args.Error(1)
}

// --- Locator Mock ---

type mockLocator struct {
	mock.Mock
}

func (m *mockLocator) Current(ctx context.Context) (*model.Coordinate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coordinate), args.Error(1)
}
