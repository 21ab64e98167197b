package commands

import (
	"context"
	"errors"
	"time"

	"pharmadelivery/internal/core/domain/model/anomaly"
	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/core/domain/services"
	"pharmadelivery/internal/core/ports"
)

// LoadingStatus is the verdict of a loading check.
type LoadingStatus string

const (
	LoadingOK            LoadingStatus = "OK"
	LoadingRefreshNeeded LoadingStatus = "REFRESH_NEEDED"
)

const loadingAcceptedReason = "loading validated"

// LoadingResult tells the driver whether the vehicle may leave or whether the
// app must reload the tour first.
type LoadingResult struct {
	Status  LoadingStatus
	Message string
}

// ValidateLoadingCommandHandler accepts a loading snapshot when it matches the
// tour exactly. An accepted tour moves to "in delivery" and the statuses the
// driver sent are applied as field changes, so they may open anomalies.
// A mismatch writes nothing and is not an error.
//
// Example:
//
//	handler := NewValidateLoadingCommandHandler(uowFactory, transitions)
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	if result.Status == LoadingRefreshNeeded {
//	    log.Printf("Reload the tour: %s", result.Message)
//	}
// ValidateLoadingCommandHandler accepts a loading snapshot when it matches the
// tour exactly. An accepted tour moves to "in delivery" and the statuses the
// driver sent are applied as field changes, so they may open anomalies.
// A mismatch writes nothing and is not an error.
type ValidateLoadingCommandHandler struct {
	uowFactory  UoWFactory
	transitions StatusTransitions
	inspector   services.LoadingInspector
}

// NewValidateLoadingCommandHandler creates a handler for loading checks.
func NewValidateLoadingCommandHandler(uowFactory UoWFactory, transitions StatusTransitions) ValidateLoadingCommandHandler {
	return ValidateLoadingCommandHandler{
		uowFactory:  uowFactory,
		transitions: transitions,
		inspector:   services.NewLoadingInspector(),
	}
}

// Handle compares the snapshot with the tour and applies it when it matches.
// Returns LoadingRefreshNeeded with a message for any mismatch, and
// errs.ErrObjectNotFound when the tour is not visible to the account.
func (h ValidateLoadingCommandHandler) Handle(ctx context.Context, cmd ValidateLoadingCommand) (LoadingResult, error) {
	if err := cmd.Validate(); err != nil {
		return LoadingResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return LoadingResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	target, err := uow.TourRepository().Get(ctx, ports.AccountScope(cmd.AccountID()), cmd.TourID())
	if err != nil {
		return LoadingResult{}, err
	}

	commandRepo := uow.CommandRepository()
	members, err := commandRepo.GetByTour(ctx, target.ID())
	if err != nil {
		return LoadingResult{}, err
	}

	matches, err := h.inspector.Compare(members, cmd.Snapshot())
	if errors.Is(err, services.ErrLoadingMismatch) {
		return LoadingResult{Status: LoadingRefreshNeeded, Message: err.Error()}, nil
	}
	if err != nil {
		return LoadingResult{}, err
	}

	now := time.Now()
	history := uow.HistoryRepository()
	if _, err = h.transitions.ledger.RecordTour(ctx, history, target, status.TourInDelivery, cmd.ProfileID(), now); err != nil {
		return LoadingResult{}, err
	}
	if err = uow.TourRepository().Update(ctx, target); err != nil {
		return LoadingResult{}, err
	}

	pending := make([]*anomaly.Anomaly, 0)
	for _, m := range matches {
		if m.Loaded.StatusID == nil {
			continue
		}
		entry, lookupErr := h.transitions.lookup(ctx, status.KindCommand, *m.Loaded.StatusID)
		if lookupErr != nil {
			return LoadingResult{}, lookupErr
		}

		a, changeErr := h.transitions.changeCommandStatus(ctx, history, m.Command, commandStatusChange{
			entry:     entry,
			profileID: cmd.ProfileID(),
			at:        now,
			comment:   m.Loaded.Comment,
		})
		if changeErr != nil {
			return LoadingResult{}, changeErr
		}
		if a != nil {
			pending = append(pending, a)
		}
		if err = commandRepo.Update(ctx, m.Command); err != nil {
			return LoadingResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return LoadingResult{}, err
	}

	h.transitions.reportAnomalies(ctx, pending)
	return LoadingResult{Status: LoadingOK, Message: loadingAcceptedReason}, nil
}
