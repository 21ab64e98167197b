package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary. Repositories returned
// after Begin share its transaction; reads always go to the database, so a
// read after a write observes that write.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit commits the transaction, then hands the history events appended
	// through it to the configured StatusEventPublisher.
	Commit(ctx context.Context) error

	Rollback(ctx context.Context) error

	CommandRepository() CommandRepository
	PackageRepository() PackageRepository
	TourRepository() TourRepository
	HistoryRepository() HistoryRepository
	TariffRepository() TariffRepository
	PharmacyRepository() PharmacyRepository
	ArtifactStore() ArtifactStore
}
