package commands

import (
	"errors"
	"time"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/pkg/errs"
	"pharmadelivery/internal/pkg/guard"
)

var ErrCreateCommandCommandIsNotConstructed = errors.New(
	"CreateCommandCommand must be created via NewCreateCommandCommand constructor",
)

// ImportedPackage is one parcel line of an imported order. Empty barcode or
// transport number are filled in by the handler.
type ImportedPackage struct {
	Barcode         string
	TransportNumber string
	Weight          float64
	Dimensions      string
	IsFresh         bool
}

// ImportedCommand is an order as received from a pharmacy import.
type ImportedCommand struct {
	Comment      string
	Location     *kernel.GeoPoint
	ManualTariff *float64
	Packages     []ImportedPackage
}

// CreateCommandCommand registers a new command with its packages.
// It carries the imported order untouched; barcodes and transport numbers are
// completed by the handler.
//
// Example:
//
//	cmd, err := NewCreateCommandCommand(accountID, pharmacyID, &senderID, &profileID,
//	    ImportedCommand{Packages: []ImportedPackage{{Weight: 1.5}}}, time.Now(), false)
//	if err != nil {
//	    return err
//	}
//	id, err := handler.Handle(ctx, cmd)
// CreateCommandCommand registers a new command with its packages.
//
// Example:
//
//	cmd, err := NewCreateCommandCommand(accountID, pharmacyID, &senderID, &profileID,
//	    ImportedCommand{Packages: []ImportedPackage{{Weight: 1.5}}}, time.Now(), false)
//	if err != nil {
//	    return err
//	}
//	id, err := handler.Handle(ctx, cmd)
type CreateCommandCommand struct { //nolint:recvcheck //using for validation
	accountID      kernel.UUID
	pharmacyID     kernel.UUID
	senderID       *kernel.UUID
	profileID      *kernel.UUID
	imported       ImportedCommand
	expeditionDate time.Time
	isNewPharmacy  bool

	guard guard.ConstructorGuard
}

// NewCreateCommandCommand creates a command import request.
// Validates that account and pharmacy ids are set, the expedition date is not
// zero and at least one package is imported.
// Returns every violation joined into one error.
func NewCreateCommandCommand(
	accountID, pharmacyID kernel.UUID,
	senderID, profileID *kernel.UUID,
	imported ImportedCommand,
	expeditionDate time.Time,
	isNewPharmacy bool,
) (CreateCommandCommand, error) {
	c := CreateCommandCommand{
		senderID:       senderID,
		profileID:      profileID,
		expeditionDate: expeditionDate,
		isNewPharmacy:  isNewPharmacy,
		guard:          guard.NewConstructorGuard(),
	}

	var errDate error
	if expeditionDate.IsZero() {
		errDate = errs.NewValueIsRequiredError("expeditionDate")
	}

	if err := errors.Join(
		c.setAccountID(accountID),
		c.setPharmacyID(pharmacyID),
		c.setImported(imported),
		errDate,
	); err != nil {
		return CreateCommandCommand{}, err
	}

	return c, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateCommandCommandIsNotConstructed if validation fails.
func (c CreateCommandCommand) Validate() error {
	return c.guard.Validate(ErrCreateCommandCommandIsNotConstructed)
}

// AccountID returns the account the command is created in.
func (c CreateCommandCommand) AccountID() kernel.UUID {
	return c.accountID
}

// PharmacyID returns the ordering pharmacy.
func (c CreateCommandCommand) PharmacyID() kernel.UUID {
	return c.pharmacyID
}

// SenderID returns the sending site, or nil when the pharmacy ships itself.
func (c CreateCommandCommand) SenderID() *kernel.UUID {
	return c.senderID
}

// ProfileID returns the profile recorded on the seeded status events.
func (c CreateCommandCommand) ProfileID() *kernel.UUID {
	return c.profileID
}

// Imported returns the order lines as received.
func (c CreateCommandCommand) Imported() ImportedCommand {
	return c.imported
}

// ExpeditionDate returns the date the pharmacy ships the order.
func (c CreateCommandCommand) ExpeditionDate() time.Time {
	return c.expeditionDate
}

// IsNewPharmacy reports whether the pharmacy was created by this import.
func (c CreateCommandCommand) IsNewPharmacy() bool {
	return c.isNewPharmacy
}

func (c *CreateCommandCommand) setAccountID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("accountID", err)
	}
	c.accountID = id
	return nil
}

func (c *CreateCommandCommand) setPharmacyID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("pharmacyID", err)
	}
	c.pharmacyID = id
	return nil
}

func (c *CreateCommandCommand) setImported(imported ImportedCommand) error {
	if len(imported.Packages) == 0 {
		return errs.NewValueIsRequiredError("packages")
	}
	c.imported = imported
	return nil
}
