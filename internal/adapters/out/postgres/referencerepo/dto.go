// Package referencerepo reads data owned by neighbouring services: pharmacies,
// tariff bands and package artifacts.
package referencerepo

import (
	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/pharmacy"
	"pharmadelivery/internal/core/domain/model/tariff"

	"github.com/google/uuid"
)

// PharmacyDTO is the pharmacies table, owned by the pharmacy service.
type PharmacyDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"type:varchar(255);not null"`
	PostalCode string    `gorm:"type:varchar(10)"`
	Lat        *float64  `gorm:"type:double precision"`
	Lon        *float64  `gorm:"type:double precision"`
}

// TableName returns the table name for GORM.
func (PharmacyDTO) TableName() string {
	return "pharmacies"
}

// TariffBandDTO is one distance band of an account's tariff.
type TariffBandDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	AccountID uuid.UUID `gorm:"type:uuid;not null;index"`
	KmMax     float64   `gorm:"type:double precision;not null"`
	Price     float64   `gorm:"type:numeric(10,2);not null"`
}

// TableName returns the table name for GORM.
func (TariffBandDTO) TableName() string {
	return "tariff_bands"
}

// ArtifactDTO references a file produced for a package.
type ArtifactDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Barcode string    `gorm:"type:varchar(32);not null;index"`
	Kind    string    `gorm:"type:varchar(32);not null"`
	Path    string    `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM.
func (ArtifactDTO) TableName() string {
	return "package_artifacts"
}

func pharmacyToDomain(dto PharmacyDTO) (*pharmacy.Pharmacy, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	location, err := kernel.OptionalGeoPoint(dto.Lat, dto.Lon)
	if err != nil {
		return nil, err
	}
	return pharmacy.RestorePharmacy(id, dto.Name, dto.PostalCode, location)
}

func bandToDomain(dto TariffBandDTO) (tariff.Band, error) {
	return tariff.NewBand(dto.KmMax, dto.Price)
}
