package tourrepo

import (
	"context"
	"errors"
	"time"

	"pharmadelivery/internal/core/domain/model/tour"
	"pharmadelivery/internal/core/ports"
	"pharmadelivery/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type aggregateTracker interface {
	TrackAggregate(id string, aggregate any)
}

var forUpdate = clause.Locking{Strength: "UPDATE"}

func scoped(db *gorm.DB, scope ports.Scope) *gorm.DB {
	if scope.Unscoped {
		return db
	}
	return db.Where("tours.account_id = ?", scope.AccountID.Bytes())
}

// GormTourRepository implements ports.TourRepository.
type GormTourRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// NewGormTourRepository creates a tour repository. Written aggregates are
// reported to tracker.
func NewGormTourRepository(db *gorm.DB, tracker aggregateTracker) *GormTourRepository {
	return &GormTourRepository{db: db, tracker: tracker}
}

// Add validates and inserts a new tour.
func (r *GormTourRepository) Add(ctx context.Context, aggregate *tour.Tour) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes every column of the tour, nulls included.
// Returns errs.ErrObjectNotFound when the row does not exist.
func (r *GormTourRepository) Update(ctx context.Context, aggregate *tour.Tour) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&TourDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("id").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("tour", aggregate.ID())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get loads one tour and locks the row for update.
// Returns errs.ErrObjectNotFound when the id is unknown or outside scope.
func (r *GormTourRepository) Get(ctx context.Context, scope ports.Scope, id string) (*tour.Tour, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	var dto TourDTO
	err := scoped(r.db.WithContext(ctx), scope).
		Clauses(forUpdate).
		First(&dto, "tours.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("tour", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetMany loads tours in the order of ids with duplicates dropped, locking
// each row.
// Returns errs.ErrObjectNotFound naming the first missing id.
func (r *GormTourRepository) GetMany(ctx context.Context, scope ports.Scope, ids []string) ([]*tour.Tour, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return []*tour.Tour{}, nil
	}

	var dtos []TourDTO
	err := scoped(r.db.WithContext(ctx), scope).
		Clauses(forUpdate).
		Where("tours.id IN ?", unique).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[string]TourDTO, len(dtos))
	for _, dto := range dtos {
		byID[dto.ID] = dto
	}

	tours := make([]*tour.Tour, 0, len(unique))
	for _, id := range unique {
		dto, ok := byID[id]
		if !ok {
			return nil, errs.NewObjectNotFoundError("tour", id)
		}
		t, mapErr := toDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		tours = append(tours, t)
	}
	return tours, nil
}

// GetByDate returns the tours delivered on date, ordered by account, name and
// id. Rows are not locked.
func (r *GormTourRepository) GetByDate(ctx context.Context, scope ports.Scope, date time.Time) ([]*tour.Tour, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	var dtos []TourDTO
	err := scoped(r.db.WithContext(ctx), scope).
		Where("tours.delivery_date = ?", date.Format(dateLayout)).
		Order("tours.account_id, tours.name, tours.id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

// GetWithoutRoute returns the tours of date that have commands but no stored
// route, across all accounts.
func (r *GormTourRepository) GetWithoutRoute(ctx context.Context, date time.Time) ([]*tour.Tour, error) {
	var dtos []TourDTO
	err := r.db.WithContext(ctx).
		Where("tours.delivery_date = ?", date.Format(dateLayout)).
		Where("tours.route_geometry IS NULL").
		Where("EXISTS (SELECT 1 FROM commands WHERE commands.tour_id = tours.id)").
		Order("tours.id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

// Exists reports whether a tour id is taken.
func (r *GormTourRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&TourDTO{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func toDomainAll(dtos []TourDTO) ([]*tour.Tour, error) {
	tours := make([]*tour.Tour, 0, len(dtos))
	for _, dto := range dtos {
		t, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		tours = append(tours, t)
	}
	return tours, nil
}
