package commands

import (
	"context"

	"pharmadelivery/internal/core/domain/model/kernel"
)

// AddTourToCommandCommandHandler is the single-command form of
// AssignCommandsToTourCommandHandler, with the same post-pass over the source
// and destination tours.
//
// Example:
//
//	handler := NewAddTourToCommandCommandHandler(uowFactory, planner)
//	cmd, err := NewAddTourToCommandCommand(accountID, commandID, tourID)
//	if err != nil {
//	    return err
//	}
//	if err = handler.Handle(ctx, cmd); errors.Is(err, errs.ErrObjectNotFound) {
//	    log.Println("Command or tour is not in this account")
//	}
// AddTourToCommandCommandHandler is the single-command form of
// AssignCommandsToTourCommandHandler, with the same post-pass over the source
// and destination tours.
type AddTourToCommandCommandHandler struct {
	uowFactory UoWFactory
	planner    TourPlanner
}

// NewAddTourToCommandCommandHandler creates a handler for single command moves.
// The planner renumbers and reroutes both tours once the command has moved.
func NewAddTourToCommandCommandHandler(uowFactory UoWFactory, planner TourPlanner) AddTourToCommandCommandHandler {
	return AddTourToCommandCommandHandler{uowFactory: uowFactory, planner: planner}
}

// Handle moves the command and refreshes the tour it left and the tour it
// joined within one transaction.
// Returns errs.ErrObjectNotFound when the command or the tour is not visible
// to the account.
func (h AddTourToCommandCommandHandler) Handle(ctx context.Context, cmd AddTourToCommandCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return moveCommandsToTour(ctx, h.uowFactory, h.planner, cmd.AccountID(), []kernel.UUID{cmd.CommandID()}, cmd.TourID())
}
