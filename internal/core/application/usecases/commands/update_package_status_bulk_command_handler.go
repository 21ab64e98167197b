package commands

import (
	"context"

	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/core/ports"
)

// UpdatePackageStatusBulkCommandHandler appends one event per listed package.
//
// Unlike the command cascade this path does not skip packages already at the
// target status: every package gets an event.
//
// Example:
//
//	handler := NewUpdatePackageStatusBulkCommandHandler(uowFactory, transitions)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("package update failed: %w", err)
//	}
// UpdatePackageStatusBulkCommandHandler appends one event per listed package.
//
// Unlike the command cascade this path does not skip packages already at the
// target status: every package gets an event.
type UpdatePackageStatusBulkCommandHandler struct {
	uowFactory  UoWFactory
	transitions StatusTransitions
}

// NewUpdatePackageStatusBulkCommandHandler creates a handler for bulk package
// status changes.
func NewUpdatePackageStatusBulkCommandHandler(
	uowFactory UoWFactory,
	transitions StatusTransitions,
) UpdatePackageStatusBulkCommandHandler {
	return UpdatePackageStatusBulkCommandHandler{uowFactory: uowFactory, transitions: transitions}
}

// Handle writes every event or none of them.
// Returns errs.ErrObjectNotFound for an unknown status row or a package outside
// the account.
func (h UpdatePackageStatusBulkCommandHandler) Handle(ctx context.Context, cmd UpdatePackageStatusBulkCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if _, err := h.transitions.lookup(ctx, status.KindPackage, cmd.StatusID()); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	packageRepo := uow.PackageRepository()
	packages, err := packageRepo.GetMany(ctx, ports.AccountScope(cmd.AccountID()), cmd.PackageIDs())
	if err != nil {
		return err
	}

	history := uow.HistoryRepository()
	for _, p := range packages {
		if _, err = h.transitions.ledger.RecordPackage(ctx, history, p, cmd.StatusID(), cmd.ProfileID(), cmd.CreatedAt()); err != nil {
			return err
		}
	}

	for _, p := range packages {
		if err = packageRepo.Update(ctx, p); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
