package commands

import (
	"errors"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/core/domain/model/tour"
	"pharmadelivery/internal/core/domain/services"
	"pharmadelivery/internal/pkg/guard"
)

var ErrValidateLoadingCommandIsNotConstructed = errors.New(
	"ValidateLoadingCommand must be created via NewValidateLoadingCommand constructor",
)

// ValidateLoadingCommand carries the driver's view of a loaded vehicle.
//
// Example:
//
//	absent := status.CommandRecipientAbsent
//	cmd, err := NewValidateLoadingCommand(accountID, &driverID, tourID, []services.LoadedCommand{
//	    {CommandID: &commandID, Barcodes: []string{"75001-000001"}},
//	    {Barcodes: []string{"75001-000002"}, StatusID: &absent, Comment: "closed"},
//	})
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
// ValidateLoadingCommand carries the driver's view of a loaded vehicle.
type ValidateLoadingCommand struct { //nolint:recvcheck //using for validation
	accountID kernel.UUID
	profileID *kernel.UUID
	tourID    string
	snapshot  []services.LoadedCommand

	guard guard.ConstructorGuard
}

// NewValidateLoadingCommand creates a loading check for tourID.
// Returns errs.ErrValueIsInvalid for a malformed tour id and
// errs.ErrValueIsOutOfRange for a sent status outside the command table.
func NewValidateLoadingCommand(
	accountID kernel.UUID,
	profileID *kernel.UUID,
	tourID string,
	snapshot []services.LoadedCommand,
) (ValidateLoadingCommand, error) {
	checks := []error{requireID("accountID", accountID), tour.ValidateID(tourID)}
	for _, loaded := range snapshot {
		if loaded.StatusID != nil {
			checks = append(checks, status.ValidateID(status.KindCommand, *loaded.StatusID))
		}
	}
	if err := errors.Join(checks...); err != nil {
		return ValidateLoadingCommand{}, err
	}

	return ValidateLoadingCommand{
		accountID: accountID,
		profileID: profileID,
		tourID:    tourID,
		snapshot:  snapshot,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrValidateLoadingCommandIsNotConstructed if validation fails.
func (c ValidateLoadingCommand) Validate() error {
	return c.guard.Validate(ErrValidateLoadingCommandIsNotConstructed)
}

// AccountID returns the account owning the tour.
func (c ValidateLoadingCommand) AccountID() kernel.UUID { return c.accountID }

// ProfileID returns the driver profile recorded on the events.
func (c ValidateLoadingCommand) ProfileID() *kernel.UUID { return c.profileID }

// TourID returns the tour being loaded.
func (c ValidateLoadingCommand) TourID() string { return c.tourID }

// Snapshot returns the commands and barcodes the driver scanned.
func (c ValidateLoadingCommand) Snapshot() []services.LoadedCommand { return c.snapshot }
