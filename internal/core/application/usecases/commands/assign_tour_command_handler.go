package commands

import (
	"context"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/tour"
	"pharmadelivery/internal/core/ports"
)

// AssignTourCommandHandler sets the driver of a tour. Stops, order and route
// are left as they are.
//
// Example:
//
//	handler := NewAssignTourCommandHandler(tourUoWFactory)
//	cmd, err := NewAssignTourCommand(accountID, tourID, driverID)
//	if err != nil {
//	    return err
//	}
//	if err = handler.Handle(ctx, cmd); errors.Is(err, errs.ErrObjectNotFound) {
//	    log.Println("No such tour in this account")
//	}
type AssignTourCommandHandler struct {
	uowFactory TourUoWFactory
}

// NewAssignTourCommandHandler creates a handler for driver assignment.
func NewAssignTourCommandHandler(uowFactory TourUoWFactory) AssignTourCommandHandler {
	return AssignTourCommandHandler{uowFactory: uowFactory}
}

// Handle loads the tour in the account scope, sets the driver and saves it.
// Returns errs.ErrObjectNotFound when the tour is not visible to the account.
func (h AssignTourCommandHandler) Handle(ctx context.Context, cmd AssignTourCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return editTour(ctx, h.uowFactory, cmd.AccountID(), cmd.TourID(), func(t *tour.Tour) error {
		return t.AssignDriver(cmd.DriverID())
	})
}

// UnassignTourCommandHandler clears the driver of a tour.
//
// Example:
//
//	handler := NewUnassignTourCommandHandler(tourUoWFactory)
//	cmd, err := NewUnassignTourCommand(accountID, tourID)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
type UnassignTourCommandHandler struct {
	uowFactory TourUoWFactory
}

// NewUnassignTourCommandHandler creates a handler for driver removal.
func NewUnassignTourCommandHandler(uowFactory TourUoWFactory) UnassignTourCommandHandler {
	return UnassignTourCommandHandler{uowFactory: uowFactory}
}

// Handle clears the driver. Clearing a tour without driver succeeds.
// Returns errs.ErrObjectNotFound when the tour is not visible to the account.
func (h UnassignTourCommandHandler) Handle(ctx context.Context, cmd UnassignTourCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return editTour(ctx, h.uowFactory, cmd.AccountID(), cmd.TourID(), func(t *tour.Tour) error {
		t.UnassignDriver()
		return nil
	})
}

func editTour(ctx context.Context, uowFactory TourUoWFactory, accountID kernel.UUID, tourID string, edit func(*tour.Tour) error) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	tourRepo := uow.TourRepository()
	aggregate, err := tourRepo.Get(ctx, ports.AccountScope(accountID), tourID)
	if err != nil {
		return err
	}
	if err = edit(aggregate); err != nil {
		return err
	}
	if err = tourRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
