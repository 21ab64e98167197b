package commands_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"pharmadelivery/internal/core/application/usecases/commands"
	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/core/domain/services"
	"pharmadelivery/internal/pkg/errs"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bulkCommandStatus(t *testing.T, w *world, batch commands.CommandStatusBatch) error {
	t.Helper()
	cmd, err := commands.NewUpdateCommandStatusBulkCommand(w.accountID, &w.profileID, batch)
	require.NoError(t, err)
	return commands.NewUpdateCommandStatusBulkCommandHandler(w.uow, w.transitions).Handle(t.Context(), cmd)
}

func TestCreateCommand(t *testing.T) {
	t.Run("should generate checksummed barcodes under the pharmacy prefix", func(t *testing.T) {
		w := newWorld(t)
		ph := w.store.addPharmacy(t, "75011", 48.85, 2.37)

		id := w.createCommand(t, ph, "", "")

		got := w.store.command(t, id)
		require.Len(t, got.Packages(), 2)
		for _, p := range got.Packages() {
			assert.True(t, strings.HasPrefix(p.Barcode(), "75011"))
			assert.True(t, services.ValidBarcode(p.Barcode()))
			assert.Equal(t, p.Barcode(), p.TransportNumber())
		}
		assert.NotEqual(t, got.Packages()[0].Barcode(), got.Packages()[1].Barcode())
	})

	t.Run("should seed the first status of the command and every package", func(t *testing.T) {
		w := newWorld(t)
		ph := w.store.addPharmacy(t, "75011", 48.85, 2.37)

		id := w.createCommand(t, ph, "B-1", "B-2")

		got := w.store.command(t, id)
		require.NotNil(t, got.Status())
		assert.Equal(t, status.CommandToPickUp, got.Status().StatusID())
		assert.Len(t, w.store.eventsOf(status.KindCommand, id.String()), 1)
		for _, p := range got.Packages() {
			assert.True(t, p.HasStatus(status.PackageToPickUp))
			assert.Len(t, w.store.eventsOf(status.KindPackage, p.ID().String()), 1)
		}
	})

	t.Run("should refuse a barcode that is already used", func(t *testing.T) {
		w := newWorld(t)
		ph := w.store.addPharmacy(t, "75011", 48.85, 2.37)
		w.createCommand(t, ph, "DUP-1")

		cmd, err := commands.NewCreateCommandCommand(w.accountID, ph.ID(), nil, nil,
			commands.ImportedCommand{Packages: []commands.ImportedPackage{{Barcode: "DUP-1"}}}, time.Now(), false)
		require.NoError(t, err)

		_, err = commands.NewCreateCommandCommandHandler(w.uow, w.transitions, w.ids).Handle(t.Context(), cmd)

		require.Error(t, err)
		assert.Contains(t, err.Error(), commands.ErrBarcodeIsTaken.Error())
	})

	t.Run("should fail for an unknown pharmacy", func(t *testing.T) {
		w := newWorld(t)

		cmd, err := commands.NewCreateCommandCommand(w.accountID, kernel.NewUUID(), nil, nil,
			commands.ImportedCommand{Packages: []commands.ImportedPackage{{}}}, time.Now(), false)
		require.NoError(t, err)

		_, err = commands.NewCreateCommandCommandHandler(w.uow, w.transitions, w.ids).Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Zero(t, w.store.eventCount())
	})
}

func TestBulkCommandStatus_FieldChangeOpensAnomalies(t *testing.T) {
	w := newWorld(t)
	ph := w.store.addPharmacy(t, "69001", 45.76, 4.83)
	ids := []kernel.UUID{
		w.createCommand(t, ph, "B1-1"),
		w.createCommand(t, ph, "B2-1", "B2-2"),
		w.createCommand(t, ph, "B3-1"),
	}

	err := bulkCommandStatus(t, w, commands.CommandStatusBatch{
		StatusID:   status.CommandNotDelivered,
		CommandIDs: ids,
		CreatedAt:  time.Now(),
		Comment:    "shop closed",
	})

	require.NoError(t, err)
	require.Equal(t, 3, w.anomalies.count())
	assert.Equal(t, "not delivered: shop closed", w.anomalies.created[0].Comment())
	assert.Equal(t, []string{"B2-1", "B2-2"}, w.anomalies.created[1].Barcodes())
	for _, id := range ids {
		got := w.store.command(t, id)
		assert.Equal(t, status.CommandNotDelivered, got.Status().StatusID())
		for _, p := range got.Packages() {
			assert.True(t, p.HasStatus(status.PackageToPickUp), "package status must not change")
		}
	}
	assert.InDelta(t, 3, testutil.ToFloat64(w.metrics.AnomaliesCreated.WithLabelValues("created")), 0)
}

func TestBulkCommandStatus_WebChangeCascadesToPackages(t *testing.T) {
	w := newWorld(t)
	ph := w.store.addPharmacy(t, "69001", 45.76, 4.83)
	first := w.createCommand(t, ph, "C1-1", "C1-2")
	second := w.createCommand(t, ph, "C2-1")
	third := w.createCommand(t, ph, "C3-1")

	already := w.store.command(t, first).Packages()[0]
	pkgCmd, err := commands.NewUpdatePackageStatusBulkCommand(w.accountID, &w.profileID,
		status.PackageNotDelivered, []kernel.UUID{already.ID()}, time.Now())
	require.NoError(t, err)
	require.NoError(t, commands.NewUpdatePackageStatusBulkCommandHandler(w.uow, w.transitions).Handle(t.Context(), pkgCmd))

	err = bulkCommandStatus(t, w, commands.CommandStatusBatch{
		StatusID:   status.CommandNotDelivered,
		CommandIDs: []kernel.UUID{first, second, third},
		CreatedAt:  time.Now(),
		IsWeb:      true,
	})

	require.NoError(t, err)
	assert.Zero(t, w.anomalies.count())
	for _, id := range []kernel.UUID{first, second, third} {
		for _, p := range w.store.command(t, id).Packages() {
			assert.True(t, p.HasStatus(status.PackageNotDelivered))
			assert.Len(t, w.store.eventsOf(status.KindPackage, p.ID().String()), 2)
		}
	}
	assert.InDelta(t, 3, testutil.ToFloat64(w.metrics.PackageCascades), 0)
}

func TestBulkCommandStatus(t *testing.T) {
	t.Run("should write nothing when one id does not resolve", func(t *testing.T) {
		w := newWorld(t)
		ph := w.store.addPharmacy(t, "69001", 45.76, 4.83)
		known := w.createCommand(t, ph, "N-1")
		before := w.store.eventCount()

		err := bulkCommandStatus(t, w, commands.CommandStatusBatch{
			StatusID:   status.CommandDelivered,
			CommandIDs: []kernel.UUID{known, kernel.NewUUID()},
			CreatedAt:  time.Now(),
			IsWeb:      true,
		})

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Equal(t, before, w.store.eventCount())
		assert.Equal(t, status.CommandToPickUp, w.store.command(t, known).Status().StatusID())
	})

	t.Run("should keep the newest status when a late event arrives", func(t *testing.T) {
		w := newWorld(t)
		ph := w.store.addPharmacy(t, "69001", 45.76, 4.83)
		id := w.createCommand(t, ph, "L-1")

		err := bulkCommandStatus(t, w, commands.CommandStatusBatch{
			StatusID:   status.CommandDelivered,
			CommandIDs: []kernel.UUID{id},
			CreatedAt:  time.Now().Add(-time.Hour),
			IsWeb:      true,
		})

		require.NoError(t, err)
		got := w.store.command(t, id)
		assert.Len(t, w.store.eventsOf(status.KindCommand, id.String()), 2)
		assert.Equal(t, status.CommandToPickUp, got.Status().StatusID())
		for _, p := range got.Packages() {
			assert.True(t, p.HasStatus(status.PackageToPickUp))
		}
	})

	t.Run("should overwrite the location when one is reported", func(t *testing.T) {
		w := newWorld(t)
		ph := w.store.addPharmacy(t, "69001", 45.76, 4.83)
		id := w.createCommand(t, ph, "G-1")
		where, err := kernel.NewGeoPoint(45.7, 4.8)
		require.NoError(t, err)

		err = bulkCommandStatus(t, w, commands.CommandStatusBatch{
			StatusID:   status.CommandInTransit,
			CommandIDs: []kernel.UUID{id},
			CreatedAt:  time.Now(),
			Location:   &where,
			IsWeb:      true,
		})

		require.NoError(t, err)
		got := w.store.command(t, id).Location()
		require.NotNil(t, got)
		assert.InDelta(t, 45.7, got.Lat(), 1e-9)
	})

	t.Run("should log and swallow anomaly failures", func(t *testing.T) {
		w := newWorld(t)
		w.anomalies.err = errors.New("anomaly store down")
		ph := w.store.addPharmacy(t, "69001", 45.76, 4.83)
		id := w.createCommand(t, ph, "F-1")

		err := bulkCommandStatus(t, w, commands.CommandStatusBatch{
			StatusID:   status.CommandRefused,
			CommandIDs: []kernel.UUID{id},
			CreatedAt:  time.Now(),
		})

		require.NoError(t, err)
		assert.Equal(t, status.CommandRefused, w.store.command(t, id).Status().StatusID())
		assert.InDelta(t, 1, testutil.ToFloat64(w.metrics.AnomaliesCreated.WithLabelValues("failed")), 0)
	})
}

func TestUpdateCommandStatus(t *testing.T) {
	t.Run("should not open an anomaly for a non-negative outcome", func(t *testing.T) {
		w := newWorld(t)
		ph := w.store.addPharmacy(t, "13001", 43.29, 5.37)
		id := w.createCommand(t, ph, "S-1")

		cmd, err := commands.NewUpdateCommandStatusCommand(w.accountID, &w.profileID, id, status.CommandDelivered, false, "")
		require.NoError(t, err)
		require.NoError(t, commands.NewUpdateCommandStatusCommandHandler(w.uow, w.transitions).Handle(t.Context(), cmd))

		assert.Zero(t, w.anomalies.count())
		assert.Equal(t, status.CommandDelivered, w.store.command(t, id).Status().StatusID())
	})

	t.Run("should map reserve delivery onto delivered packages", func(t *testing.T) {
		w := newWorld(t)
		ph := w.store.addPharmacy(t, "13001", 43.29, 5.37)
		id := w.createCommand(t, ph, "S-2")

		cmd, err := commands.NewUpdateCommandStatusCommand(w.accountID, &w.profileID, id, status.CommandDeliveredWithReserve, true, "")
		require.NoError(t, err)
		require.NoError(t, commands.NewUpdateCommandStatusCommandHandler(w.uow, w.transitions).Handle(t.Context(), cmd))

		for _, p := range w.store.command(t, id).Packages() {
			assert.True(t, p.HasStatus(status.PackageDelivered))
		}
	})

	t.Run("should not see commands of another account", func(t *testing.T) {
		w := newWorld(t)
		ph := w.store.addPharmacy(t, "13001", 43.29, 5.37)
		id := w.createCommand(t, ph, "S-3")

		cmd, err := commands.NewUpdateCommandStatusCommand(kernel.NewUUID(), nil, id, status.CommandDelivered, true, "")
		require.NoError(t, err)
		err = commands.NewUpdateCommandStatusCommandHandler(w.uow, w.transitions).Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestUpdatePackageStatusBulk(t *testing.T) {
	t.Run("should append an event even when the status does not change", func(t *testing.T) {
		w := newWorld(t)
		ph := w.store.addPharmacy(t, "31000", 43.6, 1.44)
		id := w.createCommand(t, ph, "P-1", "P-2")
		pkgs := w.store.command(t, id).Packages()

		cmd, err := commands.NewUpdatePackageStatusBulkCommand(w.accountID, &w.profileID, status.PackageToPickUp,
			[]kernel.UUID{pkgs[0].ID(), pkgs[1].ID()}, time.Now())
		require.NoError(t, err)
		require.NoError(t, commands.NewUpdatePackageStatusBulkCommandHandler(w.uow, w.transitions).Handle(t.Context(), cmd))

		for _, p := range pkgs {
			assert.Len(t, w.store.eventsOf(status.KindPackage, p.ID().String()), 2)
		}
	})

	t.Run("should fail the batch on an unknown package", func(t *testing.T) {
		w := newWorld(t)
		before := w.store.eventCount()

		cmd, err := commands.NewUpdatePackageStatusBulkCommand(w.accountID, nil, status.PackageReturned,
			[]kernel.UUID{kernel.NewUUID()}, time.Now())
		require.NoError(t, err)
		err = commands.NewUpdatePackageStatusBulkCommandHandler(w.uow, w.transitions).Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Equal(t, before, w.store.eventCount())
	})
}

func TestDeleteCommand(t *testing.T) {
	t.Run("should remove packages, history and artifacts and close the tour gap", func(t *testing.T) {
		w := newWorld(t)
		ph := w.store.addPharmacy(t, "44000", 47.21, -1.55)
		gone := w.createCommand(t, ph, "D-1", "D-2")
		kept := w.createCommand(t, ph, "D-3")
		tourID := w.createTour(t, "West", time.Now())
		w.assign(t, tourID, gone, kept)

		cmd, err := commands.NewDeleteCommandCommand(w.accountID, gone)
		require.NoError(t, err)
		require.NoError(t, commands.NewDeleteCommandCommandHandler(w.uow, w.planner, w.logger).Handle(t.Context(), cmd))

		_, stillThere := w.store.commands[gone]
		assert.False(t, stillThere)
		assert.Empty(t, w.store.eventsOf(status.KindCommand, gone.String()))
		assert.ElementsMatch(t, []string{"D-1", "D-2"}, w.store.artifacts)
		assert.Equal(t, []int{1}, w.store.tourOrders(tourID))
		assert.Equal(t, 1, *w.store.command(t, kept).TourOrder())
	})

	t.Run("should let a hyper admin delete across accounts", func(t *testing.T) {
		w := newWorld(t)
		ph := w.store.addPharmacy(t, "44000", 47.21, -1.55)
		id := w.createCommand(t, ph, "H-1")

		cmd, err := commands.NewHyperAdminDeleteCommandCommand(id)
		require.NoError(t, err)
		require.NoError(t, commands.NewDeleteCommandCommandHandler(w.uow, w.planner, w.logger).Handle(t.Context(), cmd))

		_, stillThere := w.store.commands[id]
		assert.False(t, stillThere)
	})

	t.Run("should keep artifacts when the commit fails", func(t *testing.T) {
		w := newWorld(t)
		ph := w.store.addPharmacy(t, "44000", 47.21, -1.55)
		id := w.createCommand(t, ph, "K-1", "K-2")
		w.store.commitErr = errors.New("connection lost")

		cmd, err := commands.NewDeleteCommandCommand(w.accountID, id)
		require.NoError(t, err)
		err = commands.NewDeleteCommandCommandHandler(w.uow, w.planner, w.logger).Handle(t.Context(), cmd)

		require.EqualError(t, err, "connection lost")
		assert.Empty(t, w.store.artifacts)
	})
}
