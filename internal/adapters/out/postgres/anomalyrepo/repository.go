// Package anomalyrepo stores anomalies opened on negative delivery outcomes.
package anomalyrepo

import (
	"context"
	"time"

	"pharmadelivery/internal/core/domain/model/anomaly"
	"pharmadelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// AnomalyDTO is the anomalies table. Barcodes lists the packages of the
// command at the time the anomaly was opened.
type AnomalyDTO struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CommandID  uuid.UUID      `gorm:"type:uuid;not null;index"`
	PharmacyID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Code       string         `gorm:"type:varchar(32);not null"`
	Comment    string         `gorm:"type:text"`
	Barcodes   pq.StringArray `gorm:"type:text[]"`
	CreatedBy  *uuid.UUID     `gorm:"type:uuid"`
	CreatedAt  time.Time      `gorm:"type:timestamptz;not null"`
}

// TableName returns the table name for GORM.
func (AnomalyDTO) TableName() string {
	return "anomalies"
}

func fromDomain(a *anomaly.Anomaly) AnomalyDTO {
	return AnomalyDTO{
		ID:         a.ID().Bytes(),
		CommandID:  a.CommandID().Bytes(),
		PharmacyID: a.PharmacyID().Bytes(),
		Code:       a.Code(),
		Comment:    a.Comment(),
		Barcodes:   pq.StringArray(a.Barcodes()),
		CreatedBy:  kernel.OptionalBytes(a.CreatedBy()),
		CreatedAt:  a.CreatedAt(),
	}
}

// GormAnomalyService implements ports.AnomalyService. It writes outside the
// status transaction, on its own connection.
type GormAnomalyService struct {
	db *gorm.DB
}

// NewGormAnomalyService creates an anomaly writer on db. Pass the pool, not a
// transaction.
func NewGormAnomalyService(db *gorm.DB) *GormAnomalyService {
	return &GormAnomalyService{db: db}
}

// Create validates the anomaly and inserts it. The insert commits on its own,
// so an anomaly survives a rollback of the status change that opened it.
func (s *GormAnomalyService) Create(ctx context.Context, a *anomaly.Anomaly) error {
	if err := a.Validate(); err != nil {
		return err
	}

	dto := fromDomain(a)
	return s.db.WithContext(ctx).Create(&dto).Error
}
