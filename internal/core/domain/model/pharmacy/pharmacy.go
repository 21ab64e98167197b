// Package pharmacy is the read-only view of a destination pharmacy.
package pharmacy

import (
	"errors"
	"fmt"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/pkg/errs"
)

var ErrPostalCodeIsNotNumeric = errors.New("postal code is not numeric")

// Pharmacy is reference data owned elsewhere.
type Pharmacy struct {
	id         kernel.UUID
	name       string
	postalCode string
	location   *kernel.GeoPoint
}

// RestorePharmacy rebuilds a pharmacy loaded from storage. location may be nil.
// Returns ErrUUIDIsNotConstructed wrapped by kernel when id is zero.
func RestorePharmacy(id kernel.UUID, name, postalCode string, location *kernel.GeoPoint) (*Pharmacy, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return &Pharmacy{id: id, name: name, postalCode: postalCode, location: location}, nil
}

// ID returns the pharmacy identifier.
func (p *Pharmacy) ID() kernel.UUID {
	return p.id
}

// Name returns the display name used in reports.
func (p *Pharmacy) Name() string {
	return p.name
}

// PostalCode returns the postal code as stored. Generated barcodes start with it.
func (p *Pharmacy) PostalCode() string {
	return p.postalCode
}

// Location is nil when the pharmacy was never geocoded.
func (p *Pharmacy) Location() *kernel.GeoPoint {
	return p.location
}

// BarcodePrefix is the leading part of every barcode generated for this
// pharmacy's packages.
func (p *Pharmacy) BarcodePrefix() (string, error) {
	if p.postalCode == "" {
		return "", errs.NewValueIsRequiredError("postalCode")
	}
	for _, r := range p.postalCode {
		if r < '0' || r > '9' {
			return "", errs.NewValueIsInvalidErrorWithCause("postalCode", fmt.Errorf("%w: %q", ErrPostalCodeIsNotNumeric, p.postalCode))
		}
	}
	return p.postalCode, nil
}
