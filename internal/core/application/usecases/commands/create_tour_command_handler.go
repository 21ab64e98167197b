package commands

import (
	"context"
	"time"

	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/core/domain/model/tour"
	"pharmadelivery/internal/core/domain/services"
)

// CreateTourCommandHandler creates an empty tour under a fresh opaque id and
// seeds its "created" status.
//
// Example:
//
//	handler := NewCreateTourCommandHandler(tourUoWFactory, transitions, services.NewIDGenerator())
//	tourID, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("failed to create tour: %w", err)
//	}
//	fmt.Printf("Tour %s ready for assignment", tourID)
// CreateTourCommandHandler creates an empty tour under a fresh opaque id and
// seeds its "created" status.
type CreateTourCommandHandler struct {
	uowFactory  TourUoWFactory
	transitions StatusTransitions
	ids         services.IDGenerator
}

// NewCreateTourCommandHandler creates a handler for tour creation.
// ids draws tour ids until one is unused.
func NewCreateTourCommandHandler(
	uowFactory TourUoWFactory,
	transitions StatusTransitions,
	ids services.IDGenerator,
) CreateTourCommandHandler {
	return CreateTourCommandHandler{uowFactory: uowFactory, transitions: transitions, ids: ids}
}

// Handle creates the tour and returns its 20 character id.
// Returns services.ErrIDSpaceExhausted when no free id was found.
// Handle returns the id of the created tour.
func (h CreateTourCommandHandler) Handle(ctx context.Context, cmd CreateTourCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	tourRepo := uow.TourRepository()
	id, err := h.ids.TourID(ctx, tourRepo.Exists)
	if err != nil {
		return "", err
	}

	aggregate, err := tour.NewTour(id, cmd.AccountID(), cmd.Name(), cmd.DeliveryDate())
	if err != nil {
		return "", err
	}
	if err = applyTourFields(aggregate, cmd.Fields()); err != nil {
		return "", err
	}

	if err = tourRepo.Add(ctx, aggregate); err != nil {
		return "", err
	}
	if _, err = h.transitions.ledger.RecordTour(ctx, uow.HistoryRepository(), aggregate, status.TourCreated, cmd.ProfileID(), time.Time{}); err != nil {
		return "", err
	}
	if err = tourRepo.Update(ctx, aggregate); err != nil {
		return "", err
	}

	if err = uow.Commit(ctx); err != nil {
		return "", err
	}

	return aggregate.ID(), nil
}

// applyTourFields writes every sent field onto t. A null clears the column.
func applyTourFields(t *tour.Tour, fields TourFields) error {
	if fields.Color.IsSet() {
		color, _ := fields.Color.Value()
		t.Recolor(color)
	}
	if fields.ZoneID.IsSet() {
		t.MoveToZone(fields.ZoneID.Ptr())
	}
	if fields.Recurrence.IsSet() {
		days, _ := fields.Recurrence.Value()
		if err := t.SetRecurrence(days); err != nil {
			return err
		}
	}
	if fields.DriverID.IsSet() {
		driverID, ok := fields.DriverID.Value()
		if !ok {
			t.UnassignDriver()
			return nil
		}
		if err := t.AssignDriver(driverID); err != nil {
			return err
		}
	}
	return nil
}
