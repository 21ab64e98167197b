package commands

import (
	"errors"
	"time"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/pkg/errs"
	"pharmadelivery/internal/pkg/guard"
)

var ErrUpdateCommandStatusBulkCommandIsNotConstructed = errors.New(
	"UpdateCommandStatusBulkCommand must be created via NewUpdateCommandStatusBulkCommand constructor",
)

// CommandStatusBatch is the payload of a bulk command status change.
// CreatedAt is the moment the change happened on the device and becomes the
// event timestamp. Location, when set, overwrites each command's geolocation.
type CommandStatusBatch struct {
	StatusID   status.ID
	CommandIDs []kernel.UUID
	CreatedAt  time.Time
	Location   *kernel.GeoPoint
	IsWeb      bool
	Comment    string
}

// UpdateCommandStatusBulkCommand applies one status to many commands at once.
//
// Example:
//
//	cmd, err := NewUpdateCommandStatusBulkCommand(accountID, &profileID, CommandStatusBatch{
//	    StatusID:   status.CommandDelivered,
//	    CommandIDs: []kernel.UUID{first, second},
//	    CreatedAt:  scannedAt,
//	    IsWeb:      true,
//	})
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
// UpdateCommandStatusBulkCommand applies one status to many commands at once.
type UpdateCommandStatusBulkCommand struct { //nolint:recvcheck //using for validation
	accountID kernel.UUID
	profileID *kernel.UUID
	batch     CommandStatusBatch

	guard guard.ConstructorGuard
}

// NewUpdateCommandStatusBulkCommand creates a bulk status change.
// Validates that the account id is set, the batch lists at least one command,
// the status id is within the command table and CreatedAt is not zero.
// Returns every violation joined into one error.
func NewUpdateCommandStatusBulkCommand(
	accountID kernel.UUID,
	profileID *kernel.UUID,
	batch CommandStatusBatch,
) (UpdateCommandStatusBulkCommand, error) {
	var errCreatedAt error
	if batch.CreatedAt.IsZero() {
		errCreatedAt = errs.NewValueIsRequiredError("createdAt")
	}

	if err := errors.Join(
		requireID("accountID", accountID),
		requireIDs("commandIds", batch.CommandIDs),
		status.ValidateID(status.KindCommand, batch.StatusID),
		errCreatedAt,
	); err != nil {
		return UpdateCommandStatusBulkCommand{}, err
	}

	return UpdateCommandStatusBulkCommand{
		accountID: accountID,
		profileID: profileID,
		batch:     batch,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateCommandStatusBulkCommandIsNotConstructed if validation fails.
func (c UpdateCommandStatusBulkCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCommandStatusBulkCommandIsNotConstructed)
}

// AccountID returns the account the commands must belong to.
func (c UpdateCommandStatusBulkCommand) AccountID() kernel.UUID { return c.accountID }

// ProfileID returns the author of the events, nil for system changes.
func (c UpdateCommandStatusBulkCommand) ProfileID() *kernel.UUID { return c.profileID }

// Batch returns the status change payload.
func (c UpdateCommandStatusBulkCommand) Batch() CommandStatusBatch { return c.batch }
