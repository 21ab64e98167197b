// Package postgres provides the GORM implementation of the Unit of Work.
// A unit of work owns one database transaction; every repository it hands
// out after Begin shares that transaction.
//
// Repositories report what they wrote through TrackAggregate. After a
// successful Commit the unit of work forwards the tracked history events to
// the StatusEventPublisher, so subscribers never observe a status that was
// rolled back.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.CommandRepository().Update(ctx, c); err != nil {
//	    return err
//	}
//	if err := uow.HistoryRepository().Append(ctx, ev); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Each UnitOfWork instance is single-goroutine; concurrent operations create
// their own instance through the factory.
package postgres

import (
	"context"
	"log/slog"

	"pharmadelivery/internal/adapters/out/postgres/commandrepo"
	"pharmadelivery/internal/adapters/out/postgres/historyrepo"
	"pharmadelivery/internal/adapters/out/postgres/referencerepo"
	"pharmadelivery/internal/adapters/out/postgres/tourrepo"
	"pharmadelivery/internal/core/domain/model/history"
	"pharmadelivery/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate or event written during the unit of work.
type trackedAggregate struct {
	ID        string
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection
// pool and one event publisher.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	publisher ports.StatusEventPublisher
	logger    *slog.Logger
}

// NewGormUnitOfWorkFactory creates the factory. publisher may be nil, in which
// case committed events are dropped.
func NewGormUnitOfWorkFactory(
	db *gorm.DB,
	publisher ports.StatusEventPublisher,
	logger *slog.Logger,
) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{
		db:        db,
		publisher: publisher,
		logger:    logger.With("component", "unit_of_work"),
	}
}

// Create produces a fresh unit of work with its own transaction state and
// tracking list.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		publisher:         f.publisher,
		logger:            f.logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and tracks what was
// written through it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	publisher         ports.StatusEventPublisher
	logger            *slog.Logger
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling it twice keeps the first transaction.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Commit finalizes the transaction, then publishes the history events
// appended through it. A publishing failure is logged and does not undo the
// commit.
//
// Returns gorm.ErrInvalidTransaction if no transaction is active.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return err
	}

	uow.publishEvents(ctx)
	return nil
}

// Rollback discards the transaction and everything tracked with it.
//
// Returns gorm.ErrInvalidTransaction if no transaction is active, which makes
// the deferred Rollback after a successful Commit a harmless no-op.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	uow.trackedAggregates = uow.trackedAggregates[:0]
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// conn returns the transaction when one is active, otherwise the pool.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// CommandRepository returns a command repository bound to the current
// transaction, or to the pool when none is active.
func (uow *GormUnitOfWork) CommandRepository() ports.CommandRepository {
	return commandrepo.NewGormCommandRepository(uow.conn(), uow)
}

// PackageRepository returns a package repository on the current connection.
func (uow *GormUnitOfWork) PackageRepository() ports.PackageRepository {
	return commandrepo.NewGormPackageRepository(uow.conn())
}

// TourRepository returns a tour repository on the current connection.
func (uow *GormUnitOfWork) TourRepository() ports.TourRepository {
	return tourrepo.NewGormTourRepository(uow.conn(), uow)
}

// HistoryRepository returns a history repository on the current connection.
// Events it appends are published after Commit.
func (uow *GormUnitOfWork) HistoryRepository() ports.HistoryRepository {
	return historyrepo.NewGormHistoryRepository(uow.conn(), uow)
}

// TariffRepository returns a tariff reader on the current connection.
func (uow *GormUnitOfWork) TariffRepository() ports.TariffRepository {
	return referencerepo.NewGormTariffRepository(uow.conn())
}

// PharmacyRepository returns a pharmacy reader on the current connection.
func (uow *GormUnitOfWork) PharmacyRepository() ports.PharmacyRepository {
	return referencerepo.NewGormPharmacyRepository(uow.conn())
}

// ArtifactStore returns an artifact store on the current connection. After
// Commit that is the pool.
func (uow *GormUnitOfWork) ArtifactStore() ports.ArtifactStore {
	return referencerepo.NewGormArtifactStore(uow.conn())
}

// TrackAggregate registers an aggregate or event written within this unit of
// work. Repositories call it after a successful write.
func (uow *GormUnitOfWork) TrackAggregate(id string, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// TrackedEvents returns the history events tracked so far, in write order.
func (uow *GormUnitOfWork) TrackedEvents() []*history.Event {
	events := make([]*history.Event, 0, len(uow.trackedAggregates))
	for _, tracked := range uow.trackedAggregates {
		if ev, ok := tracked.Aggregate.(*history.Event); ok {
			events = append(events, ev)
		}
	}
	return events
}

func (uow *GormUnitOfWork) publishEvents(ctx context.Context) {
	events := uow.TrackedEvents()
	uow.trackedAggregates = uow.trackedAggregates[:0]
	if uow.publisher == nil || len(events) == 0 {
		return
	}

	if err := uow.publisher.Publish(ctx, events); err != nil {
		uow.logger.ErrorContext(ctx, "failed to publish status events",
			"count", len(events), "error", err)
	}
}
