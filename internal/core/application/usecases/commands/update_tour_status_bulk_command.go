package commands

import (
	"errors"
	"time"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/core/domain/model/tour"
	"pharmadelivery/internal/pkg/errs"
	"pharmadelivery/internal/pkg/guard"
)

var ErrUpdateTourStatusBulkCommandIsNotConstructed = errors.New(
	"UpdateTourStatusBulkCommand must be created via NewUpdateTourStatusBulkCommand constructor",
)

// UpdateTourStatusBulkCommand sets one status on many tours. A zero createdAt
// means now.
//
// Example:
//
//	cmd, err := NewUpdateTourStatusBulkCommand(accountID, &profileID, status.TourCompleted,
//	    []string{"00112233445566778899"}, time.Time{})
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
// UpdateTourStatusBulkCommand sets one status on many tours. A zero createdAt
// means now.
type UpdateTourStatusBulkCommand struct { //nolint:recvcheck //using for validation
	accountID kernel.UUID
	profileID *kernel.UUID
	statusID  status.ID
	tourIDs   []string
	createdAt time.Time

	guard guard.ConstructorGuard
}

// NewUpdateTourStatusBulkCommand creates a bulk tour status change.
// Returns errs.ErrValueIsRequired for a zero account id or an empty list,
// errs.ErrValueIsInvalid for a malformed tour id and errs.ErrValueIsOutOfRange
// for a status outside the tour table.
func NewUpdateTourStatusBulkCommand(
	accountID kernel.UUID,
	profileID *kernel.UUID,
	statusID status.ID,
	tourIDs []string,
	createdAt time.Time,
) (UpdateTourStatusBulkCommand, error) {
	var errTours error
	if len(tourIDs) == 0 {
		errTours = errs.NewValueIsRequiredError("tourIds")
	}
	for _, id := range tourIDs {
		if err := tour.ValidateID(id); err != nil {
			errTours = err
			break
		}
	}

	if err := errors.Join(
		requireID("accountID", accountID),
		status.ValidateID(status.KindTour, statusID),
		errTours,
	); err != nil {
		return UpdateTourStatusBulkCommand{}, err
	}

	return UpdateTourStatusBulkCommand{
		accountID: accountID,
		profileID: profileID,
		statusID:  statusID,
		tourIDs:   tourIDs,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateTourStatusBulkCommandIsNotConstructed if validation fails.
func (c UpdateTourStatusBulkCommand) Validate() error {
	return c.guard.Validate(ErrUpdateTourStatusBulkCommandIsNotConstructed)
}

// AccountID returns the account the tours must belong to.
func (c UpdateTourStatusBulkCommand) AccountID() kernel.UUID { return c.accountID }

// ProfileID returns the author of the events, nil for system changes.
func (c UpdateTourStatusBulkCommand) ProfileID() *kernel.UUID { return c.profileID }

// StatusID returns the target tour status.
func (c UpdateTourStatusBulkCommand) StatusID() status.ID { return c.statusID }

// TourIDs returns the tours to update.
func (c UpdateTourStatusBulkCommand) TourIDs() []string { return c.tourIDs }

// CreatedAt returns the event timestamp, zero for now.
func (c UpdateTourStatusBulkCommand) CreatedAt() time.Time { return c.createdAt }
