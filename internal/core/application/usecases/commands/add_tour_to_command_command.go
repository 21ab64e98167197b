package commands

import (
	"errors"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/tour"
	"pharmadelivery/internal/pkg/guard"
)

var ErrAddTourToCommandCommandIsNotConstructed = errors.New(
	"AddTourToCommandCommand must be created via NewAddTourToCommandCommand constructor",
)

// AddTourToCommandCommand moves a single command into a tour.
// The command joins after the tour's existing stops.
//
// Example:
//
//	cmd, err := NewAddTourToCommandCommand(accountID, commandID, "00112233445566778899")
//	if err != nil {
//	    return fmt.Errorf("invalid move: %w", err)
//	}
//	if err = handler.Handle(ctx, cmd); err != nil {
//	    return err
//	}
// AddTourToCommandCommand moves a single command into a tour.
type AddTourToCommandCommand struct { //nolint:recvcheck //using for validation
	accountID kernel.UUID
	commandID kernel.UUID
	tourID    string

	guard guard.ConstructorGuard
}

// NewAddTourToCommandCommand creates a command moving commandID into tourID.
// Returns errs.ErrValueIsRequired for a zero account or command id and
// errs.ErrValueIsInvalid for a malformed tour id.
func NewAddTourToCommandCommand(accountID, commandID kernel.UUID, tourID string) (AddTourToCommandCommand, error) {
	if err := errors.Join(
		requireID("accountID", accountID),
		requireID("commandID", commandID),
		tour.ValidateID(tourID),
	); err != nil {
		return AddTourToCommandCommand{}, err
	}

	return AddTourToCommandCommand{
		accountID: accountID,
		commandID: commandID,
		tourID:    tourID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAddTourToCommandCommandIsNotConstructed if validation fails.
func (c AddTourToCommandCommand) Validate() error {
	return c.guard.Validate(ErrAddTourToCommandCommandIsNotConstructed)
}

// AccountID returns the account both the command and the tour must belong to.
func (c AddTourToCommandCommand) AccountID() kernel.UUID { return c.accountID }

// CommandID returns the command being moved.
func (c AddTourToCommandCommand) CommandID() kernel.UUID { return c.commandID }

// TourID returns the destination tour.
func (c AddTourToCommandCommand) TourID() string { return c.tourID }
