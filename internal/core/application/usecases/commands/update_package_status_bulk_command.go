package commands

import (
	"errors"
	"time"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/pkg/errs"
	"pharmadelivery/internal/pkg/guard"
)

var ErrUpdatePackageStatusBulkCommandIsNotConstructed = errors.New(
	"UpdatePackageStatusBulkCommand must be created via NewUpdatePackageStatusBulkCommand constructor",
)

// UpdatePackageStatusBulkCommand sets a package status directly, without going
// through the owning commands.
//
// Example:
//
//	cmd, err := NewUpdatePackageStatusBulkCommand(accountID, &profileID, status.PackageDamaged,
//	    []kernel.UUID{packageID}, time.Now())
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
// UpdatePackageStatusBulkCommand sets a package status directly, without going
// through the owning commands.
type UpdatePackageStatusBulkCommand struct { //nolint:recvcheck //using for validation
	accountID  kernel.UUID
	profileID  *kernel.UUID
	statusID   status.ID
	packageIDs []kernel.UUID
	createdAt  time.Time

	guard guard.ConstructorGuard
}

// NewUpdatePackageStatusBulkCommand creates a bulk package status change.
// Validates the account id, a non-empty package list, the status id against
// the package table and a non-zero createdAt.
// Returns every violation joined into one error.
func NewUpdatePackageStatusBulkCommand(
	accountID kernel.UUID,
	profileID *kernel.UUID,
	statusID status.ID,
	packageIDs []kernel.UUID,
	createdAt time.Time,
) (UpdatePackageStatusBulkCommand, error) {
	var errCreatedAt error
	if createdAt.IsZero() {
		errCreatedAt = errs.NewValueIsRequiredError("createdAt")
	}

	if err := errors.Join(
		requireID("accountID", accountID),
		requireIDs("packageIds", packageIDs),
		status.ValidateID(status.KindPackage, statusID),
		errCreatedAt,
	); err != nil {
		return UpdatePackageStatusBulkCommand{}, err
	}

	return UpdatePackageStatusBulkCommand{
		accountID:  accountID,
		profileID:  profileID,
		statusID:   statusID,
		packageIDs: packageIDs,
		createdAt:  createdAt,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdatePackageStatusBulkCommandIsNotConstructed if validation fails.
func (c UpdatePackageStatusBulkCommand) Validate() error {
	return c.guard.Validate(ErrUpdatePackageStatusBulkCommandIsNotConstructed)
}

// AccountID returns the account the packages must belong to.
func (c UpdatePackageStatusBulkCommand) AccountID() kernel.UUID { return c.accountID }

// ProfileID returns the author of the events, nil for system changes.
func (c UpdatePackageStatusBulkCommand) ProfileID() *kernel.UUID { return c.profileID }

// StatusID returns the target package status.
func (c UpdatePackageStatusBulkCommand) StatusID() status.ID { return c.statusID }

// PackageIDs returns the packages to update.
func (c UpdatePackageStatusBulkCommand) PackageIDs() []kernel.UUID { return c.packageIDs }

// CreatedAt returns the event timestamp.
func (c UpdatePackageStatusBulkCommand) CreatedAt() time.Time { return c.createdAt }
