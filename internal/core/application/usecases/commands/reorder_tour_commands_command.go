package commands

import (
	"errors"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/tour"
	"pharmadelivery/internal/pkg/guard"
)

var ErrReorderTourCommandsCommandIsNotConstructed = errors.New(
	"ReorderTourCommandsCommand must be created via NewReorderTourCommandsCommand constructor",
)

// ReorderTourCommandsCommand sets an explicit stop order for a tour. Listed
// commands come first in the given order; unlisted ones keep their relative
// order after them.
//
// Example:
//
//	cmd, err := NewReorderTourCommandsCommand(accountID, tourID, []kernel.UUID{third, first})
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
// ReorderTourCommandsCommand sets an explicit stop order for a tour. Listed
// commands come first in the given order; unlisted ones keep their relative
// order after them.
type ReorderTourCommandsCommand struct { //nolint:recvcheck //using for validation
	accountID  kernel.UUID
	tourID     string
	commandIDs []kernel.UUID

	guard guard.ConstructorGuard
}

// NewReorderTourCommandsCommand creates a reorder request for tourID.
// Returns errs.ErrValueIsRequired for an empty list or a zero id and
// errs.ErrValueIsInvalid for a malformed tour id.
func NewReorderTourCommandsCommand(accountID kernel.UUID, tourID string, commandIDs []kernel.UUID) (ReorderTourCommandsCommand, error) {
	if err := errors.Join(
		requireID("accountID", accountID),
		tour.ValidateID(tourID),
		requireIDs("commandIds", commandIDs),
	); err != nil {
		return ReorderTourCommandsCommand{}, err
	}

	return ReorderTourCommandsCommand{
		accountID:  accountID,
		tourID:     tourID,
		commandIDs: commandIDs,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrReorderTourCommandsCommandIsNotConstructed if validation fails.
func (c ReorderTourCommandsCommand) Validate() error {
	return c.guard.Validate(ErrReorderTourCommandsCommandIsNotConstructed)
}

// AccountID returns the account owning the tour.
func (c ReorderTourCommandsCommand) AccountID() kernel.UUID { return c.accountID }

// TourID returns the tour to reorder.
func (c ReorderTourCommandsCommand) TourID() string { return c.tourID }

// CommandIDs returns the commands that take the first positions.
func (c ReorderTourCommandsCommand) CommandIDs() []kernel.UUID { return c.commandIDs }
