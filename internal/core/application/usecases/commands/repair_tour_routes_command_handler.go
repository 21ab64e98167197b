package commands

import (
	"context"
)

// RepairTourRoutesCommandHandler asks the gateway again for every tour of the
// day that has commands but no route.
//
// Example:
//
//	handler := NewRepairTourRoutesCommandHandler(uowFactory, planner)
//	repaired, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	log.Printf("%d routes recovered", repaired)
// RepairTourRoutesCommandHandler asks the gateway again for every tour of the
// day that has commands but no route.
type RepairTourRoutesCommandHandler struct {
	uowFactory UoWFactory
	planner    TourPlanner
}

// NewRepairTourRoutesCommandHandler creates a handler for the route repair job.
func NewRepairTourRoutesCommandHandler(uowFactory UoWFactory, planner TourPlanner) RepairTourRoutesCommandHandler {
	return RepairTourRoutesCommandHandler{uowFactory: uowFactory, planner: planner}
}

// Handle returns how many tours got a route back. Tours the gateway still
// cannot route stay without one until the next attempt.
func (h RepairTourRoutesCommandHandler) Handle(ctx context.Context, cmd RepairTourRoutesCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	tours, err := uow.TourRepository().GetWithoutRoute(ctx, cmd.Day())
	if err != nil {
		return 0, err
	}
	if len(tours) == 0 {
		return 0, nil
	}

	if err = h.planner.UpdateTourRoutes(ctx, uow, tours); err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	repaired := 0
	for _, t := range tours {
		if t.Route() != nil {
			repaired++
		}
	}
	return repaired, nil
}
