package services_test

import (
	"testing"
	"time"

	"pharmadelivery/internal/core/domain/model/command"
	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commandWithPackages(t *testing.T, barcodes ...string) *command.Command {
	t.Helper()
	c, err := command.NewCommand(kernel.NewUUID(), kernel.NewUUID(), time.Now(), command.Details{})
	require.NoError(t, err)
	for _, code := range barcodes {
		p, err := command.NewPackage(kernel.NewUUID(), c.ID(), code, command.Parcel{})
		require.NoError(t, err)
		require.NoError(t, c.AddPackage(p))
	}
	return c
}

func idOf(c *command.Command) *kernel.UUID {
	id := c.ID()
	return &id
}

func TestLoadingInspector_Compare(t *testing.T) {
	inspector := services.NewLoadingInspector()

	t.Run("should match by id with reordered barcodes", func(t *testing.T) {
		a := commandWithPackages(t, "A1", "A2")
		b := commandWithPackages(t, "B1")
		delivered := status.CommandDelivered

		matches, err := inspector.Compare([]*command.Command{a, b}, []services.LoadedCommand{
			{CommandID: idOf(b), Barcodes: []string{"B1"}, StatusID: &delivered},
			{CommandID: idOf(a), Barcodes: []string{"A2", "A1"}},
		})

		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Same(t, a, matches[0].Command)
		assert.Nil(t, matches[0].Loaded.StatusID)
		assert.Same(t, b, matches[1].Command)
		assert.Equal(t, &delivered, matches[1].Loaded.StatusID)
	})

	t.Run("should match by barcodes when id is missing", func(t *testing.T) {
		a := commandWithPackages(t, "A1", "A2")

		matches, err := inspector.Compare([]*command.Command{a}, []services.LoadedCommand{
			{Barcodes: []string{"A2", "A1"}},
		})

		require.NoError(t, err)
		assert.Same(t, a, matches[0].Command)
	})

	t.Run("should detect a missing barcode", func(t *testing.T) {
		a := commandWithPackages(t, "A1", "A2")

		_, err := inspector.Compare([]*command.Command{a}, []services.LoadedCommand{
			{CommandID: idOf(a), Barcodes: []string{"A1"}},
		})

		require.ErrorIs(t, err, services.ErrLoadingMismatch)
		assert.Contains(t, err.Error(), "packages of command")
	})

	t.Run("should detect cardinality mismatch", func(t *testing.T) {
		a := commandWithPackages(t, "A1")
		b := commandWithPackages(t, "B1")

		_, err := inspector.Compare([]*command.Command{a, b}, []services.LoadedCommand{
			{CommandID: idOf(a), Barcodes: []string{"A1"}},
		})

		require.ErrorIs(t, err, services.ErrLoadingMismatch)
	})

	t.Run("should detect unknown command", func(t *testing.T) {
		a := commandWithPackages(t, "A1")

		_, err := inspector.Compare([]*command.Command{a}, []services.LoadedCommand{
			{CommandID: idOf(commandWithPackages(t, "A1")), Barcodes: []string{"A1"}},
		})

		require.ErrorIs(t, err, services.ErrLoadingMismatch)
		assert.Contains(t, err.Error(), "not part of the tour")
	})

	t.Run("should detect the same command loaded twice", func(t *testing.T) {
		a := commandWithPackages(t, "A1")
		b := commandWithPackages(t, "B1")

		_, err := inspector.Compare([]*command.Command{a, b}, []services.LoadedCommand{
			{CommandID: idOf(a), Barcodes: []string{"A1"}},
			{Barcodes: []string{"A1"}},
		})

		require.ErrorIs(t, err, services.ErrLoadingMismatch)
	})
}
