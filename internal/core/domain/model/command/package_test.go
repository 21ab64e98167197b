package command_test

import (
	"testing"
	"time"

	"pharmadelivery/internal/core/domain/model/command"
	"pharmadelivery/internal/core/domain/model/history"
	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPackage(t *testing.T) {
	t.Run("should default transport number to barcode", func(t *testing.T) {
		p, err := command.NewPackage(kernel.NewUUID(), kernel.NewUUID(), "123", command.Parcel{Weight: 2, IsFresh: true})

		require.NoError(t, err)
		assert.Equal(t, "123", p.TransportNumber())
		assert.True(t, p.IsFresh())
	})

	t.Run("should keep imported transport number", func(t *testing.T) {
		p, err := command.NewPackage(kernel.NewUUID(), kernel.NewUUID(), "123", command.Parcel{TransportNumber: "TR-9"})

		require.NoError(t, err)
		assert.Equal(t, "TR-9", p.TransportNumber())
	})

	t.Run("should require barcode", func(t *testing.T) {
		_, err := command.NewPackage(kernel.NewUUID(), kernel.NewUUID(), "", command.Parcel{})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestPackage_ApplyEvent(t *testing.T) {
	p, err := command.NewPackage(kernel.NewUUID(), kernel.NewUUID(), "123", command.Parcel{})
	require.NoError(t, err)
	assert.False(t, p.HasStatus(status.PackageToPickUp))

	ev, err := history.NewEvent(status.KindPackage, p.ID().String(), status.PackageDamaged, nil, time.Now())
	require.NoError(t, err)

	require.NoError(t, p.ApplyEvent(ev))

	assert.True(t, p.HasStatus(status.PackageDamaged))
	assert.Equal(t, ev.ID(), p.Status().EventID())
}
