package commands

import (
	"context"

	"pharmadelivery/internal/core/ports"
)

// UnassignCommandsFromTourCommandHandler clears tour and order of the commands,
// then renumbers and reroutes the tours they left.
//
// Example:
//
//	handler := NewUnassignCommandsFromTourCommandHandler(uowFactory, planner)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to unassign: %w", err)
//	}
// UnassignCommandsFromTourCommandHandler clears tour and order of the commands,
// then renumbers and reroutes the tours they left.
type UnassignCommandsFromTourCommandHandler struct {
	uowFactory UoWFactory
	planner    TourPlanner
}

// NewUnassignCommandsFromTourCommandHandler creates a handler for bulk unassignment.
func NewUnassignCommandsFromTourCommandHandler(uowFactory UoWFactory, planner TourPlanner) UnassignCommandsFromTourCommandHandler {
	return UnassignCommandsFromTourCommandHandler{uowFactory: uowFactory, planner: planner}
}

// Handle detaches every listed command or none of them. Commands without a
// tour are accepted and stay without one.
// Returns errs.ErrObjectNotFound when any command is not visible to the account.
func (h UnassignCommandsFromTourCommandHandler) Handle(ctx context.Context, cmd UnassignCommandsFromTourCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	scope := ports.AccountScope(cmd.AccountID())
	commandRepo := uow.CommandRepository()
	aggregates, err := commandRepo.GetMany(ctx, scope, cmd.CommandIDs())
	if err != nil {
		return err
	}

	sources := tourIDsOf(aggregates)
	for _, aggregate := range aggregates {
		aggregate.LeaveTour()
		if err = commandRepo.Update(ctx, aggregate); err != nil {
			return err
		}
	}

	if err = h.planner.Refresh(ctx, uow, scope, sources); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
