package ports

import (
	"context"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/pharmacy"
	"pharmadelivery/internal/core/domain/model/tariff"
)

// TariffRepository reads the distance bands configured for an account.
type TariffRepository interface {
	// List returns the bands ordered by ascending KmMax.
	List(ctx context.Context, accountID kernel.UUID) ([]tariff.Band, error)
}

// PharmacyRepository reads destination pharmacies. The core never writes them.
type PharmacyRepository interface {
	// Get returns errs.ObjectNotFoundError for unknown ids.
	Get(ctx context.Context, id kernel.UUID) (*pharmacy.Pharmacy, error)

	// GetMany loads all listed pharmacies in one round trip. Unknown ids are
	// skipped.
	GetMany(ctx context.Context, ids []kernel.UUID) ([]*pharmacy.Pharmacy, error)
}

// ArtifactStore owns files produced for packages (labels, proofs of delivery).
type ArtifactStore interface {
	DeletePackageArtifacts(ctx context.Context, barcode string) error
}
