package historyrepo

import (
	"context"
	"errors"

	"pharmadelivery/internal/core/domain/model/history"
	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type aggregateTracker interface {
	TrackAggregate(id string, aggregate any)
}

// GormHistoryRepository appends status events. Appended events are tracked so
// the unit of work can publish them once committed.
type GormHistoryRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// NewGormHistoryRepository creates a history repository. Appended events are
// reported to tracker.
func NewGormHistoryRepository(db *gorm.DB, tracker aggregateTracker) *GormHistoryRepository {
	return &GormHistoryRepository{db: db, tracker: tracker}
}

// Append validates and inserts one event.
func (r *GormHistoryRepository) Append(ctx context.Context, ev *history.Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}

	dto := eventFromDomain(ev)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(ev.ID().String(), ev)
	return nil
}

// List returns the events of one entity, oldest first.
func (r *GormHistoryRepository) List(ctx context.Context, kind status.Kind, entityID string) ([]*history.Event, error) {
	var dtos []EventDTO
	err := r.db.WithContext(ctx).
		Where("kind = ? AND entity_id = ?", int(kind), entityID).
		Order("created_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	events := make([]*history.Event, 0, len(dtos))
	for _, dto := range dtos {
		ev, mapErr := eventToDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		events = append(events, ev)
	}
	return events, nil
}

// Purge deletes every event of one entity.
func (r *GormHistoryRepository) Purge(ctx context.Context, kind status.Kind, entityID string) error {
	return r.db.WithContext(ctx).
		Where("kind = ? AND entity_id = ?", int(kind), entityID).
		Delete(&EventDTO{}).Error
}

// GormStatusRepository reads the status tables.
type GormStatusRepository struct {
	db *gorm.DB
}

// NewGormStatusRepository creates a status table reader on db.
func NewGormStatusRepository(db *gorm.DB) *GormStatusRepository {
	return &GormStatusRepository{db: db}
}

// Get returns one status row.
// Returns errs.ErrObjectNotFound when the table has no such id.
func (r *GormStatusRepository) Get(ctx context.Context, kind status.Kind, id status.ID) (status.Entry, error) {
	var dto StatusDTO
	err := r.db.WithContext(ctx).First(&dto, "kind = ? AND id = ?", int(kind), int(id)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return status.Entry{}, errs.NewObjectNotFoundError(kind.String()+" status", int(id))
		}
		return status.Entry{}, err
	}
	return status.NewEntry(kind, id, dto.Name)
}

var defaultNames = map[status.Kind][]string{
	status.KindCommand: {
		"To pick up", "In transit", "Delivered", "Not delivered", "Delivered with reserve",
		"Postponed", "Damaged", "Refused", "Recipient absent",
	},
	status.KindPackage: {"To pick up", "In transit", "Delivered", "Not delivered", "Damaged", "Returned"},
	status.KindTour:    {"Created", "Loading", "In delivery", "Completed", "Cancelled"},
}

// Seed inserts the default status names. Existing rows keep their names.
func Seed(ctx context.Context, db *gorm.DB) error {
	rows := make([]StatusDTO, 0, 20)
	for _, kind := range []status.Kind{status.KindCommand, status.KindPackage, status.KindTour} {
		for i, name := range defaultNames[kind] {
			rows = append(rows, StatusDTO{Kind: int(kind), ID: i + 1, Name: name})
		}
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
