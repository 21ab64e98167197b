package routes_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"pharmadelivery/internal/core/application/routes"
	"pharmadelivery/internal/core/domain/model/command"
	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/pharmacy"
	"pharmadelivery/internal/core/domain/model/tour"
	"pharmadelivery/internal/core/ports"
	"pharmadelivery/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCommandRepository struct {
	mock.Mock
}

func (m *MockCommandRepository) Add(ctx context.Context, c *command.Command) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCommandRepository) Update(ctx context.Context, c *command.Command) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCommandRepository) Get(ctx context.Context, scope ports.Scope, id kernel.UUID) (*command.Command, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*command.Command), args.Error(1)
}

func (m *MockCommandRepository) GetMany(ctx context.Context, scope ports.Scope, ids []kernel.UUID) ([]*command.Command, error) {
	args := m.Called(ctx, scope, ids)
	return args.Get(0).([]*command.Command), args.Error(1)
}

func (m *MockCommandRepository) GetByTour(ctx context.Context, tourID string) ([]*command.Command, error) {
	args := m.Called(ctx, tourID)
	return args.Get(0).([]*command.Command), args.Error(1)
}

func (m *MockCommandRepository) Delete(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockTourRepository struct {
	mock.Mock
}

func (m *MockTourRepository) Add(ctx context.Context, t *tour.Tour) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTourRepository) Update(ctx context.Context, t *tour.Tour) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTourRepository) Get(ctx context.Context, scope ports.Scope, id string) (*tour.Tour, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tour.Tour), args.Error(1)
}

func (m *MockTourRepository) GetMany(ctx context.Context, scope ports.Scope, ids []string) ([]*tour.Tour, error) {
	args := m.Called(ctx, scope, ids)
	return args.Get(0).([]*tour.Tour), args.Error(1)
}

func (m *MockTourRepository) GetByDate(ctx context.Context, scope ports.Scope, date time.Time) ([]*tour.Tour, error) {
	args := m.Called(ctx, scope, date)
	return args.Get(0).([]*tour.Tour), args.Error(1)
}

func (m *MockTourRepository) GetWithoutRoute(ctx context.Context, date time.Time) ([]*tour.Tour, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]*tour.Tour), args.Error(1)
}

func (m *MockTourRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockPharmacyRepository struct {
	mock.Mock
}

func (m *MockPharmacyRepository) Get(ctx context.Context, id kernel.UUID) (*pharmacy.Pharmacy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pharmacy.Pharmacy), args.Error(1)
}

func (m *MockPharmacyRepository) GetMany(ctx context.Context, ids []kernel.UUID) ([]*pharmacy.Pharmacy, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*pharmacy.Pharmacy), args.Error(1)
}

type MockRoutingGateway struct {
	mock.Mock
}

func (m *MockRoutingGateway) RouteForTour(ctx context.Context, points []kernel.GeoPoint) (*tour.Route, error) {
	args := m.Called(ctx, points)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tour.Route), args.Error(1)
}

func (m *MockRoutingGateway) BatchDistances(ctx context.Context, waypoints []ports.Waypoint) (map[string]float64, error) {
	args := m.Called(ctx, waypoints)
	return args.Get(0).(map[string]float64), args.Error(1)
}

type store struct {
	commands   *MockCommandRepository
	tours      *MockTourRepository
	pharmacies *MockPharmacyRepository
}

func newStore() store {
	return store{&MockCommandRepository{}, &MockTourRepository{}, &MockPharmacyRepository{}}
}

func (s store) CommandRepository() ports.CommandRepository { return s.commands }
func (s store) TourRepository() ports.TourRepository { return s.tours }
func (s store) PharmacyRepository() ports.PharmacyRepository { return s.pharmacies }

func newTour(t *testing.T, id string) *tour.Tour {
	t.Helper()
	tr, err := tour.NewTour(id, kernel.NewUUID(), id[:4], time.Now())
	require.NoError(t, err)
	return tr
}

func point(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return p
}

func commandAt(t *testing.T, tourID string, order *int, pharmacyID *kernel.UUID, location *kernel.GeoPoint) *command.Command {
	t.Helper()
	c, err := command.RestoreCommand(kernel.NewUUID(), kernel.NewUUID(), time.Now(), nil,
		command.Details{PharmacyID: pharmacyID, Location: location}, &tourID, order, nil, nil)
	require.NoError(t, err)
	return c
}

func intPtr(v int) *int {
	return &v
}

const (
	tourA = "aaaaaaaaaaaaaaaaaaaa"
	tourB = "bbbbbbbbbbbbbbbbbbbb"
)

func TestPlanner_UpdateTourRoutes(t *testing.T) {
	t.Run("should batch pharmacies and store computed routes", func(t *testing.T) {
		s := newStore()
		gateway := &MockRoutingGateway{}
		m := metrics.New()
		a, b := newTour(t, tourA), newTour(t, tourB)

		phID := kernel.NewUUID()
		phPoint := point(t, 48.85, 2.35)
		ph, err := pharmacy.RestorePharmacy(phID, "Centrale", "75001", &phPoint)
		require.NoError(t, err)
		ownPoint := point(t, 45.76, 4.83)

		s.commands.On("GetByTour", mock.Anything, tourA).
			Return([]*command.Command{commandAt(t, tourA, intPtr(1), &phID, nil), commandAt(t, tourA, intPtr(2), nil, &ownPoint)}, nil)
		s.commands.On("GetByTour", mock.Anything, tourB).Return([]*command.Command{}, nil)
		s.pharmacies.On("GetMany", mock.Anything, []kernel.UUID{phID}).Return([]*pharmacy.Pharmacy{ph}, nil).Once()

		route, err := tour.NewRoute("encoded", 12.3, 25)
		require.NoError(t, err)
		gateway.On("RouteForTour", mock.Anything, []kernel.GeoPoint{phPoint, ownPoint}).Return(route, nil).Once()
		s.tours.On("Update", mock.Anything, a).Return(nil).Once()
		s.tours.On("Update", mock.Anything, b).Return(nil).Once()

		planner := routes.NewPlanner(gateway, 2, m, slog.Default())
		err = planner.UpdateTourRoutes(t.Context(), s, []*tour.Tour{a, b})

		require.NoError(t, err)
		assert.Same(t, route, a.Route())
		assert.Nil(t, b.Route())
		assert.InDelta(t, 1, testutil.ToFloat64(m.RouteComputations.WithLabelValues(metrics.RouteComputed)), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(m.RouteComputations.WithLabelValues(metrics.RouteEmpty)), 0)
		s.pharmacies.AssertExpectations(t)
		s.tours.AssertExpectations(t)
		gateway.AssertExpectations(t)
	})

	t.Run("should degrade failed tours and still persist all", func(t *testing.T) {
		s := newStore()
		gateway := &MockRoutingGateway{}
		a, b := newTour(t, tourA), newTour(t, tourB)
		old, err := tour.NewRoute("old", 1, 1)
		require.NoError(t, err)
		a.ApplyRoute(old)
		b.ApplyRoute(old)

		pa, pb := point(t, 1, 1), point(t, 2, 2)
		s.commands.On("GetByTour", mock.Anything, tourA).Return([]*command.Command{commandAt(t, tourA, intPtr(1), nil, &pa)}, nil)
		s.commands.On("GetByTour", mock.Anything, tourB).Return([]*command.Command{commandAt(t, tourB, intPtr(1), nil, &pb)}, nil)

		fresh, err := tour.NewRoute("fresh", 3, 4)
		require.NoError(t, err)
		gateway.On("RouteForTour", mock.Anything, []kernel.GeoPoint{pa}).Return(nil, errors.New("timeout")).Once()
		gateway.On("RouteForTour", mock.Anything, []kernel.GeoPoint{pb}).Return(fresh, nil).Once()
		s.tours.On("Update", mock.Anything, mock.Anything).Return(nil).Twice()

		err = routes.NewPlanner(gateway, 1, nil, slog.Default()).UpdateTourRoutes(t.Context(), s, []*tour.Tour{a, b})

		require.NoError(t, err)
		assert.Nil(t, a.Route())
		assert.Same(t, fresh, b.Route())
		s.tours.AssertExpectations(t)
		s.pharmacies.AssertNotCalled(t, "GetMany", mock.Anything, mock.Anything)
	})

	t.Run("should treat a nil route as unknown", func(t *testing.T) {
		s := newStore()
		gateway := &MockRoutingGateway{}
		a := newTour(t, tourA)
		pa := point(t, 1, 1)
		s.commands.On("GetByTour", mock.Anything, tourA).Return([]*command.Command{commandAt(t, tourA, intPtr(1), nil, &pa)}, nil)
		gateway.On("RouteForTour", mock.Anything, mock.Anything).Return(nil, nil).Once()
		s.tours.On("Update", mock.Anything, a).Return(nil).Once()

		err := routes.NewPlanner(gateway, 1, nil, slog.Default()).UpdateTourRoutes(t.Context(), s, []*tour.Tour{a})

		require.NoError(t, err)
		assert.Nil(t, a.Route())
	})

	t.Run("should surface storage errors", func(t *testing.T) {
		s := newStore()
		boom := errors.New("db down")
		s.commands.On("GetByTour", mock.Anything, tourA).Return([]*command.Command(nil), boom)

		err := routes.NewPlanner(&MockRoutingGateway{}, 1, nil, slog.Default()).
			UpdateTourRoutes(t.Context(), s, []*tour.Tour{newTour(t, tourA)})

		require.ErrorIs(t, err, boom)
	})
}

func TestPlanner_ReorganizeTourOrder(t *testing.T) {
	s := newStore()
	first := commandAt(t, tourA, intPtr(4), nil, nil)
	joined := commandAt(t, tourA, intPtr(command.PendingOrder), nil, nil)
	second := commandAt(t, tourA, intPtr(9), nil, nil)
	s.commands.On("GetByTour", mock.Anything, tourA).Return([]*command.Command{joined, second, first}, nil)
	s.commands.On("Update", mock.Anything, mock.Anything).Return(nil).Times(3)

	out, err := routes.NewPlanner(&MockRoutingGateway{}, 1, nil, slog.Default()).ReorganizeTourOrder(t.Context(), s, tourA)

	require.NoError(t, err)
	assert.Equal(t, []*command.Command{first, second, joined}, out)
	assert.Equal(t, 1, *first.TourOrder())
	assert.Equal(t, 2, *second.TourOrder())
	assert.Equal(t, 3, *joined.TourOrder())
	s.commands.AssertExpectations(t)
}

func TestPlanner_Refresh(t *testing.T) {
	s := newStore()
	a := newTour(t, tourA)
	scope := ports.AccountScope(a.AccountID())
	s.tours.On("GetMany", mock.Anything, scope, []string{tourA}).Return([]*tour.Tour{a}, nil).Once()
	s.commands.On("GetByTour", mock.Anything, tourA).Return([]*command.Command{}, nil).Twice()
	s.tours.On("Update", mock.Anything, a).Return(nil).Once()

	err := routes.NewPlanner(&MockRoutingGateway{}, 1, nil, slog.Default()).
		Refresh(t.Context(), s, scope, []string{tourA, "", tourA})

	require.NoError(t, err)
	s.tours.AssertExpectations(t)
	s.commands.AssertExpectations(t)
}
