// Package commands contains the write operations of the delivery core.
// Every handler follows the same pattern: validate the command, open a unit of
// work, load and mutate aggregates, persist, commit. Side effects that must
// not abort the transaction (anomaly creation) run after commit.
package commands

import (
	"context"

	"pharmadelivery/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// CommandRepoFactory provides access to the command repository within a transaction.
	CommandRepoFactory interface {
		CommandRepository() ports.CommandRepository
	}

	// PackageRepoFactory provides access to the package repository within a transaction.
	PackageRepoFactory interface {
		PackageRepository() ports.PackageRepository
	}

	// TourRepoFactory provides access to the tour repository within a transaction.
	TourRepoFactory interface {
		TourRepository() ports.TourRepository
	}

	// HistoryRepoFactory provides access to the status history within a transaction.
	HistoryRepoFactory interface {
		HistoryRepository() ports.HistoryRepository
	}

	// PharmacyRepoFactory provides read access to pharmacies within a transaction.
	PharmacyRepoFactory interface {
		PharmacyRepository() ports.PharmacyRepository
	}

	// ArtifactStoreFactory provides access to stored package artifacts.
	ArtifactStoreFactory interface {
		ArtifactStore() ports.ArtifactStore
	}

	// TourUoW is used by tour handlers that never touch commands.
	TourUoW interface {
		TxManager
		TourRepoFactory
		HistoryRepoFactory
	}

	// TourUoWFactory creates unit of work instances for tour-only handlers.
	TourUoWFactory interface {
		Create() TourUoW
	}

	// UoW spans every aggregate of the core. Handlers that move commands
	// between tours or cascade statuses use it.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   commandRepo := uow.CommandRepository()
	//   historyRepo := uow.HistoryRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		CommandRepoFactory
		PackageRepoFactory
		TourRepoFactory
		HistoryRepoFactory
		PharmacyRepoFactory
		ArtifactStoreFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
