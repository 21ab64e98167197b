package postgres

import (
	"context"

	"pharmadelivery/internal/adapters/out/postgres/anomalyrepo"
	"pharmadelivery/internal/adapters/out/postgres/commandrepo"
	"pharmadelivery/internal/adapters/out/postgres/historyrepo"
	"pharmadelivery/internal/adapters/out/postgres/referencerepo"
	"pharmadelivery/internal/adapters/out/postgres/tourrepo"

	"gorm.io/gorm"
)

// Models lists every table owned or read by the delivery core.
func Models() []any {
	return []any{
		&historyrepo.StatusDTO{},
		&historyrepo.EventDTO{},
		&referencerepo.PharmacyDTO{},
		&referencerepo.TariffBandDTO{},
		&referencerepo.ArtifactDTO{},
		&tourrepo.TourDTO{},
		&commandrepo.CommandDTO{},
		&commandrepo.PackageDTO{},
		&anomalyrepo.AnomalyDTO{},
	}
}

// Migrate creates missing tables and seeds the status tables.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return err
	}
	return historyrepo.Seed(ctx, db)
}
