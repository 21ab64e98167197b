package commands

import (
	"context"

	"pharmadelivery/internal/core/domain/model/tour"
	"pharmadelivery/internal/core/domain/services"
	"pharmadelivery/internal/core/ports"
)

// ReorderTourCommandsCommandHandler applies an explicit stop order and
// recomputes the tour route. A listed command outside the tour fails the call
// with errs.ObjectNotFoundError before anything is written.
//
// Example:
//
//	handler := NewReorderTourCommandsCommandHandler(uowFactory, planner)
//	err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    log.Println("Tour unknown or a command is not on it")
//	}
// ReorderTourCommandsCommandHandler applies an explicit stop order and
// recomputes the tour route. A listed command outside the tour fails the call
// with errs.ObjectNotFoundError before anything is written.
type ReorderTourCommandsCommandHandler struct {
	uowFactory UoWFactory
	planner    TourPlanner
	sequencer  services.Sequencer
}

// NewReorderTourCommandsCommandHandler creates a handler for explicit reorders.
func NewReorderTourCommandsCommandHandler(uowFactory UoWFactory, planner TourPlanner) ReorderTourCommandsCommandHandler {
	return ReorderTourCommandsCommandHandler{
		uowFactory: uowFactory,
		planner:    planner,
		sequencer:  services.NewSequencer(),
	}
}

// Handle renumbers the tour 1..N in the requested order and reroutes it.
// Returns errs.ErrObjectNotFound when the tour is not visible to the account
// or a listed command is not on it.
func (h ReorderTourCommandsCommandHandler) Handle(ctx context.Context, cmd ReorderTourCommandsCommand) error {
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

	target, err := uow.TourRepository().Get(ctx, ports.AccountScope(cmd.AccountID()), cmd.TourID())
	if err != nil {
		return err
	}

	commandRepo := uow.CommandRepository()
	members, err := commandRepo.GetByTour(ctx, target.ID())
	if err != nil {
		return err
	}

	ordered, err := h.sequencer.Reorder(members, cmd.CommandIDs())
	if err != nil {
		return err
	}
	for _, c := range ordered {
		if err = commandRepo.Update(ctx, c); err != nil {
			return err
		}
	}

	if err = h.planner.UpdateTourRoutes(ctx, uow, []*tour.Tour{target}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
