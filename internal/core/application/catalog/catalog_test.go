package catalog_test

import (
	"context"
	"sync"
	"testing"

	"pharmadelivery/internal/core/application/catalog"
	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStatusRepository struct {
	mock.Mock
}

func (m *MockStatusRepository) Get(ctx context.Context, kind status.Kind, id status.ID) (status.Entry, error) {
	args := m.Called(ctx, kind, id)
	return args.Get(0).(status.Entry), args.Error(1)
}

func entry(t *testing.T, kind status.Kind, id status.ID, name string) status.Entry {
	t.Helper()
	e, err := status.NewEntry(kind, id, name)
	require.NoError(t, err)
	return e
}

func TestCatalog_Lookup(t *testing.T) {
	t.Run("should read storage once per id", func(t *testing.T) {
		repo := &MockStatusRepository{}
		delivered := entry(t, status.KindCommand, status.CommandDelivered, "Delivered")
		repo.On("Get", mock.Anything, status.KindCommand, status.CommandDelivered).Return(delivered, nil).Once()
		c := catalog.New(repo)

		for range 3 {
			got, err := c.Lookup(t.Context(), status.KindCommand, status.CommandDelivered)

			require.NoError(t, err)
			assert.Equal(t, "Delivered", got.Name())
		}
		repo.AssertExpectations(t)
	})

	t.Run("should keep kinds apart", func(t *testing.T) {
		repo := &MockStatusRepository{}
		repo.On("Get", mock.Anything, status.KindCommand, status.ID(3)).
			Return(entry(t, status.KindCommand, 3, "Delivered"), nil).Once()
		repo.On("Get", mock.Anything, status.KindPackage, status.ID(3)).
			Return(entry(t, status.KindPackage, 3, "Package delivered"), nil).Once()
		repo.On("Get", mock.Anything, status.KindTour, status.ID(3)).
			Return(entry(t, status.KindTour, 3, "In delivery"), nil).Once()
		c := catalog.New(repo)

		cmd, err := c.Lookup(t.Context(), status.KindCommand, 3)
		require.NoError(t, err)
		pkg, err := c.Lookup(t.Context(), status.KindPackage, 3)
		require.NoError(t, err)
		tr, err := c.Lookup(t.Context(), status.KindTour, 3)
		require.NoError(t, err)

		assert.Equal(t, "Delivered", cmd.Name())
		assert.Equal(t, "Package delivered", pkg.Name())
		assert.Equal(t, "In delivery", tr.Name())
		repo.AssertExpectations(t)
	})

	t.Run("should not cache misses", func(t *testing.T) {
		repo := &MockStatusRepository{}
		notFound := errs.NewObjectNotFoundError("statusID", 9)
		repo.On("Get", mock.Anything, status.KindTour, status.ID(9)).Return(status.Entry{}, notFound).Twice()
		c := catalog.New(repo)

		_, err := c.Lookup(t.Context(), status.KindTour, 9)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		_, err = c.Lookup(t.Context(), status.KindTour, 9)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)

		repo.AssertExpectations(t)
	})

	t.Run("should serve concurrent readers", func(t *testing.T) {
		repo := &MockStatusRepository{}
		repo.On("Get", mock.Anything, status.KindTour, status.TourLoading).
			Return(entry(t, status.KindTour, status.TourLoading, "Loading"), nil)
		c := catalog.New(repo)

		var wg sync.WaitGroup
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := c.Lookup(context.Background(), status.KindTour, status.TourLoading)
				assert.NoError(t, err)
				assert.Equal(t, "Loading", got.Name())
			}()
		}
		wg.Wait()
	})

	t.Run("should reject unknown kind", func(t *testing.T) {
		c := catalog.New(&MockStatusRepository{})

		_, err := c.Lookup(t.Context(), status.KindUnknown, 1)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
