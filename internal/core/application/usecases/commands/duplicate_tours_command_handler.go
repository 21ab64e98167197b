package commands

import (
	"context"
	"time"

	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/core/domain/model/tour"
	"pharmadelivery/internal/core/domain/services"
)

// DuplicateToursCommandHandler copies every tour of the source day onto the
// target day: name, color, zone, recurrence and driver. Commands stay where
// they are. An account that already has tours on the target day is skipped,
// so running the duplication twice creates nothing the second time.
//
// Example:
//
//	handler := NewDuplicateToursCommandHandler(tourUoWFactory, transitions, services.NewIDGenerator())
//	created, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	log.Printf("%d tours planned for %s", created, cmd.Target().Format(time.DateOnly))
// DuplicateToursCommandHandler copies every tour of the source day onto the
// target day: name, color, zone, recurrence and driver. Commands stay where
// they are. An account that already has tours on the target day is skipped,
// so running the duplication twice creates nothing the second time.
type DuplicateToursCommandHandler struct {
	uowFactory  TourUoWFactory
	transitions StatusTransitions
	ids         services.IDGenerator
}

// NewDuplicateToursCommandHandler creates a handler for tour duplication.
// Copies get fresh ids from ids and start in the "loading" status.
func NewDuplicateToursCommandHandler(
	uowFactory TourUoWFactory,
	transitions StatusTransitions,
	ids services.IDGenerator,
) DuplicateToursCommandHandler {
	return DuplicateToursCommandHandler{uowFactory: uowFactory, transitions: transitions, ids: ids}
}

// Handle copies the tours in one transaction and returns the number created.
// Zero with a nil error means every account was already planned.
// Handle returns the number of tours created.
func (h DuplicateToursCommandHandler) Handle(ctx context.Context, cmd DuplicateToursCommand) (int, error) {
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

	tourRepo := uow.TourRepository()
	existing, err := tourRepo.GetByDate(ctx, cmd.Scope(), cmd.Target())
	if err != nil {
		return 0, err
	}
	planned := make(map[kernel.UUID]struct{}, len(existing))
	for _, t := range existing {
		planned[t.AccountID()] = struct{}{}
	}

	sources, err := tourRepo.GetByDate(ctx, cmd.Scope(), cmd.Source())
	if err != nil {
		return 0, err
	}

	history := uow.HistoryRepository()
	created := 0
	for _, src := range sources {
		if _, skip := planned[src.AccountID()]; skip {
			continue
		}

		id, idErr := h.ids.TourID(ctx, tourRepo.Exists)
		if idErr != nil {
			return 0, idErr
		}
		copied, copyErr := copyTour(id, src, cmd.Target())
		if copyErr != nil {
			return 0, copyErr
		}

		if err = tourRepo.Add(ctx, copied); err != nil {
			return 0, err
		}
		if _, err = h.transitions.ledger.RecordTour(ctx, history, copied, status.TourLoading, cmd.ProfileID(), time.Time{}); err != nil {
			return 0, err
		}
		if err = tourRepo.Update(ctx, copied); err != nil {
			return 0, err
		}
		created++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	if h.transitions.metrics != nil {
		h.transitions.metrics.ToursDuplicated.Add(float64(created))
	}
	return created, nil
}

func copyTour(id string, src *tour.Tour, deliveryDate time.Time) (*tour.Tour, error) {
	return tour.RestoreTour(id, src.AccountID(), src.Name(), deliveryDate, tour.State{
		Color:      src.Color(),
		DriverID:   src.DriverID(),
		ZoneID:     src.ZoneID(),
		Recurrence: src.Recurrence(),
	})
}
