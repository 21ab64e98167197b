package referencerepo

import (
	"context"
	"errors"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/pharmacy"
	"pharmadelivery/internal/core/domain/model/tariff"
	"pharmadelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPharmacyRepository implements ports.PharmacyRepository.
type GormPharmacyRepository struct {
	db *gorm.DB
}

// NewGormPharmacyRepository creates a pharmacy reader on db.
func NewGormPharmacyRepository(db *gorm.DB) *GormPharmacyRepository {
	return &GormPharmacyRepository{db: db}
}

// Get loads one pharmacy.
// Returns errs.ErrObjectNotFound when the id is unknown.
func (r *GormPharmacyRepository) Get(ctx context.Context, id kernel.UUID) (*pharmacy.Pharmacy, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PharmacyDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("pharmacy", id.String())
		}
		return nil, err
	}

	return pharmacyToDomain(dto)
}

// GetMany loads the pharmacies that exist among ids. Unknown ids are skipped
// and the result order is unspecified.
func (r *GormPharmacyRepository) GetMany(ctx context.Context, ids []kernel.UUID) ([]*pharmacy.Pharmacy, error) {
	if len(ids) == 0 {
		return []*pharmacy.Pharmacy{}, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	var dtos []PharmacyDTO
	if err := r.db.WithContext(ctx).Where("id IN ?", raw).Find(&dtos).Error; err != nil {
		return nil, err
	}

	pharmacies := make([]*pharmacy.Pharmacy, 0, len(dtos))
	for _, dto := range dtos {
		p, err := pharmacyToDomain(dto)
		if err != nil {
			return nil, err
		}
		pharmacies = append(pharmacies, p)
	}
	return pharmacies, nil
}

// GormTariffRepository implements ports.TariffRepository.
type GormTariffRepository struct {
	db *gorm.DB
}

// NewGormTariffRepository creates a tariff reader on db.
func NewGormTariffRepository(db *gorm.DB) *GormTariffRepository {
	return &GormTariffRepository{db: db}
}

// List returns the account's bands sorted by upper distance bound. An account
// without a tariff gets an empty slice.
func (r *GormTariffRepository) List(ctx context.Context, accountID kernel.UUID) ([]tariff.Band, error) {
	if err := accountID.Validate(); err != nil {
		return nil, err
	}

	var dtos []TariffBandDTO
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID.Bytes()).
		Order("km_max").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	bands := make([]tariff.Band, 0, len(dtos))
	for _, dto := range dtos {
		b, mapErr := bandToDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		bands = append(bands, b)
	}
	return bands, nil
}

// GormArtifactStore implements ports.ArtifactStore. Files themselves are
// garbage-collected by the document service once their row is gone.
type GormArtifactStore struct {
	db *gorm.DB
}

// NewGormArtifactStore creates an artifact store on db.
func NewGormArtifactStore(db *gorm.DB) *GormArtifactStore {
	return &GormArtifactStore{db: db}
}

// DeletePackageArtifacts removes every artifact row of a package. A barcode
// without artifacts is not an error.
func (s *GormArtifactStore) DeletePackageArtifacts(ctx context.Context, barcode string) error {
	return s.db.WithContext(ctx).Where("barcode = ?", barcode).Delete(&ArtifactDTO{}).Error
}
