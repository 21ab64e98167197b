package history_test

import (
	"testing"
	"time"

	"pharmadelivery/internal/core/domain/model/history"
	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	profile := kernel.NewUUID()

	t.Run("should create event", func(t *testing.T) {
		ev, err := history.NewEvent(status.KindCommand, "cmd-1", status.CommandInTransit, &profile, at)

		require.NoError(t, err)
		require.NoError(t, ev.Validate())
		assert.Equal(t, status.KindCommand, ev.Kind())
		assert.Equal(t, "cmd-1", ev.EntityID())
		assert.Equal(t, status.CommandInTransit, ev.StatusID())
		assert.Equal(t, &profile, ev.ProfileID())
		assert.Equal(t, at, ev.CreatedAt())
	})

	t.Run("should allow system events without profile", func(t *testing.T) {
		ev, err := history.NewEvent(status.KindTour, "abc", status.TourCreated, nil, at)

		require.NoError(t, err)
		assert.Nil(t, ev.ProfileID())
	})

	t.Run("should reject status outside the kind table", func(t *testing.T) {
		_, err := history.NewEvent(status.KindTour, "abc", status.ID(7), nil, at)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should collect every validation error", func(t *testing.T) {
		_, err := history.NewEvent(status.KindPackage, "", status.PackageDelivered, nil, time.Time{})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "entityID")
		assert.Contains(t, err.Error(), "createdAt")
	})
}

func TestAdvance(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	newEvent := func(id status.ID, at time.Time) *history.Event {
		ev, err := history.NewEvent(status.KindCommand, "cmd-1", id, nil, at)
		require.NoError(t, err)
		return ev
	}

	t.Run("should point at the first event", func(t *testing.T) {
		ev := newEvent(status.CommandToPickUp, base)

		ref := history.Advance(nil, ev)

		assert.Equal(t, ev.ID(), ref.EventID())
		assert.Equal(t, status.CommandToPickUp, ref.StatusID())
	})

	t.Run("should move forward to a newer event", func(t *testing.T) {
		first := newEvent(status.CommandToPickUp, base)
		second := newEvent(status.CommandInTransit, base.Add(time.Hour))
		current := history.Advance(nil, first)

		ref := history.Advance(&current, second)

		assert.Equal(t, second.ID(), ref.EventID())
	})

	t.Run("should move on equal timestamps", func(t *testing.T) {
		first := newEvent(status.CommandToPickUp, base)
		second := newEvent(status.CommandInTransit, base)
		current := history.Advance(nil, first)

		ref := history.Advance(&current, second)

		assert.Equal(t, second.ID(), ref.EventID())
	})

	t.Run("should keep the pointer for back-dated events", func(t *testing.T) {
		first := newEvent(status.CommandInTransit, base)
		late := newEvent(status.CommandDelivered, base.Add(-time.Hour))
		current := history.Advance(nil, first)

		ref := history.Advance(&current, late)

		assert.Equal(t, first.ID(), ref.EventID())
		assert.Equal(t, status.CommandInTransit, ref.StatusID())
	})
}

func TestRestoreRef(t *testing.T) {
	_, err := history.RestoreRef(status.KindPackage, kernel.NewUUID(), status.ID(9), time.Now())

	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}
