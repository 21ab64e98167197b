package commands

import (
	"context"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/ports"
)

// AssignCommandsToTourCommandHandler moves commands into a tour, then
// renumbers and reroutes the target tour and every tour the commands left.
//
// The tour and the commands are row-locked for the rest of the transaction, so
// overlapping assignments on the same rows run one after the other.
//
// Example:
//
//	handler := NewAssignCommandsToTourCommandHandler(uowFactory, planner)
//	cmd, err := NewAssignCommandsToTourCommand(accountID, commandIDs, tourID)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrObjectNotFound):
//	    log.Println("Unknown tour or command, nothing was moved")
//	case err != nil:
//	    log.Printf("Assignment failed: %v", err)
//	}
// AssignCommandsToTourCommandHandler moves commands into a tour, then
// renumbers and reroutes the target tour and every tour the commands left.
//
// The tour and the commands are row-locked for the rest of the transaction, so
// overlapping assignments on the same rows run one after the other.
type AssignCommandsToTourCommandHandler struct {
	uowFactory UoWFactory
	planner    TourPlanner
}

// NewAssignCommandsToTourCommandHandler creates a handler for bulk tour assignment.
// The planner recomputes order and route for every touched tour.
func NewAssignCommandsToTourCommandHandler(uowFactory UoWFactory, planner TourPlanner) AssignCommandsToTourCommandHandler {
	return AssignCommandsToTourCommandHandler{uowFactory: uowFactory, planner: planner}
}

// Handle moves every listed command or none of them.
// Returns errs.ErrObjectNotFound when the tour or any command is not visible
// to the account; nothing is written in that case.
func (h AssignCommandsToTourCommandHandler) Handle(ctx context.Context, cmd AssignCommandsToTourCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return moveCommandsToTour(ctx, h.uowFactory, h.planner, cmd.AccountID(), cmd.CommandIDs(), cmd.TourID())
}

func moveCommandsToTour(
	ctx context.Context,
	uowFactory UoWFactory,
	planner TourPlanner,
	accountID kernel.UUID,
	commandIDs []kernel.UUID,
	tourID string,
) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	scope := ports.AccountScope(accountID)
	target, err := uow.TourRepository().Get(ctx, scope, tourID)
	if err != nil {
		return err
	}

	commandRepo := uow.CommandRepository()
	aggregates, err := commandRepo.GetMany(ctx, scope, commandIDs)
	if err != nil {
		return err
	}

	touched := append(tourIDsOf(aggregates), target.ID())
	for rank, aggregate := range aggregates {
		if err = aggregate.MoveToTour(target.ID(), rank); err != nil {
			return err
		}
		if err = commandRepo.Update(ctx, aggregate); err != nil {
			return err
		}
	}

	if err = planner.Refresh(ctx, uow, scope, touched); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
