package commandrepo

import (
	"context"
	"errors"

	"pharmadelivery/internal/core/domain/model/command"
	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/ports"
	"pharmadelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type aggregateTracker interface {
	TrackAggregate(id string, aggregate any)
}

var forUpdate = clause.Locking{Strength: "UPDATE"}

// scoped restricts a commands query to the caller's account.
func scoped(db *gorm.DB, scope ports.Scope) *gorm.DB {
	if scope.Unscoped {
		return db
	}
	return db.Where("commands.account_id = ?", scope.AccountID.Bytes())
}

// GormCommandRepository implements ports.CommandRepository.
type GormCommandRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// NewGormCommandRepository creates a command repository. Written aggregates
// are reported to tracker.
func NewGormCommandRepository(db *gorm.DB, tracker aggregateTracker) *GormCommandRepository {
	return &GormCommandRepository{db: db, tracker: tracker}
}

// Add inserts the command row and its packages in one statement batch.
func (r *GormCommandRepository) Add(ctx context.Context, aggregate *command.Command) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID().String(), aggregate)
	return nil
}

// Update writes every column, nulls included, then upserts the packages.
func (r *GormCommandRepository) Update(ctx context.Context, aggregate *command.Command) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	packages := dto.Packages
	dto.Packages = nil

	result := r.db.WithContext(ctx).
		Model(&CommandDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit(clause.Associations, "id").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("command", aggregate.ID().String())
	}

	if len(packages) > 0 {
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&packages).Error
		if err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID().String(), aggregate)
	return nil
}

// Get loads one command with its packages and locks the row for update.
// Returns errs.ErrObjectNotFound when the id is unknown or outside scope.
func (r *GormCommandRepository) Get(ctx context.Context, scope ports.Scope, id kernel.UUID) (*command.Command, error) {
	if err := errors.Join(scope.Validate(), id.Validate()); err != nil {
		return nil, err
	}

	var dto CommandDTO
	err := scoped(r.db.WithContext(ctx), scope).
		Clauses(forUpdate).
		Preload("Packages", orderPackages).
		First(&dto, "commands.id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("command", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetMany loads commands in the order of ids, locking each row.
// Returns errs.ErrObjectNotFound naming the first id that is missing or
// outside scope.
func (r *GormCommandRepository) GetMany(
	ctx context.Context,
	scope ports.Scope,
	ids []kernel.UUID,
) ([]*command.Command, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	raw := rawIDs(ids)
	if len(raw) == 0 {
		return []*command.Command{}, nil
	}

	var dtos []CommandDTO
	err := scoped(r.db.WithContext(ctx), scope).
		Clauses(forUpdate).
		Preload("Packages", orderPackages).
		Where("commands.id IN ?", raw).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]CommandDTO, len(dtos))
	for _, dto := range dtos {
		byID[dto.ID] = dto
	}

	commands := make([]*command.Command, 0, len(raw))
	for _, id := range raw {
		dto, ok := byID[id]
		if !ok {
			return nil, errs.NewObjectNotFoundError("command", id.String())
		}
		c, mapErr := toDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		commands = append(commands, c)
	}
	return commands, nil
}

// GetByTour loads the commands of a tour by tour order, unordered ones last.
// It is unscoped; callers check tour access first.
func (r *GormCommandRepository) GetByTour(ctx context.Context, tourID string) ([]*command.Command, error) {
	var dtos []CommandDTO
	err := r.db.WithContext(ctx).
		Clauses(forUpdate).
		Preload("Packages", orderPackages).
		Where("tour_id = ?", tourID).
		Order("tour_order ASC NULLS LAST, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	commands := make([]*command.Command, 0, len(dtos))
	for _, dto := range dtos {
		c, mapErr := toDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		commands = append(commands, c)
	}
	return commands, nil
}

// Delete removes a command. Its packages go with it through the cascade.
// Returns errs.ErrObjectNotFound when no row was deleted.
func (r *GormCommandRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&CommandDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("command", id.String())
	}
	return nil
}

func orderPackages(db *gorm.DB) *gorm.DB {
	return db.Order("packages.barcode")
}

// GormPackageRepository implements ports.PackageRepository.
type GormPackageRepository struct {
	db *gorm.DB
}

// NewGormPackageRepository creates a package repository on db.
func NewGormPackageRepository(db *gorm.DB) *GormPackageRepository {
	return &GormPackageRepository{db: db}
}

// GetMany loads packages in the order of ids, locking each row. A scoped
// lookup only sees packages whose command belongs to the account.
// Returns errs.ErrObjectNotFound naming the first missing id.
func (r *GormPackageRepository) GetMany(
	ctx context.Context,
	scope ports.Scope,
	ids []kernel.UUID,
) ([]*command.Package, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	raw := rawIDs(ids)
	if len(raw) == 0 {
		return []*command.Package{}, nil
	}

	query := r.db.WithContext(ctx).Clauses(forUpdate).Where("packages.id IN ?", raw)
	if !scope.Unscoped {
		query = query.Where(
			"packages.command_id IN (?)",
			r.db.Model(&CommandDTO{}).Select("id").Where("account_id = ?", scope.AccountID.Bytes()),
		)
	}

	var dtos []PackageDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]PackageDTO, len(dtos))
	for _, dto := range dtos {
		byID[dto.ID] = dto
	}

	packages := make([]*command.Package, 0, len(raw))
	for _, id := range raw {
		dto, ok := byID[id]
		if !ok {
			return nil, errs.NewObjectNotFoundError("package", id.String())
		}
		p, mapErr := packageToDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		packages = append(packages, p)
	}
	return packages, nil
}

// Update writes every column of the package.
// Returns errs.ErrObjectNotFound when the row does not exist.
func (r *GormPackageRepository) Update(ctx context.Context, pkg *command.Package) error {
	if err := pkg.Validate(); err != nil {
		return err
	}

	dto := packageFromDomain(pkg)
	result := r.db.WithContext(ctx).
		Model(&PackageDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("id").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("package", pkg.ID().String())
	}
	return nil
}

// Delete removes a package row. Deleting a missing row is not an error.
func (r *GormPackageRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&PackageDTO{}, "id = ?", id.Bytes()).Error
}

// BarcodeExists reports whether any package already carries barcode.
func (r *GormPackageRepository) BarcodeExists(ctx context.Context, barcode string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&PackageDTO{}).Where("barcode = ?", barcode).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
