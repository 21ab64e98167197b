package ports

import (
	"context"

	"pharmadelivery/internal/core/domain/model/command"
	"pharmadelivery/internal/core/domain/model/kernel"
)

// CommandRepository persists Command aggregates together with their packages.
type CommandRepository interface {
	// Add inserts the command and every package it holds.
	Add(ctx context.Context, aggregate *command.Command) error

	// Update writes the command row and the rows of all its packages.
	Update(ctx context.Context, aggregate *command.Command) error

	// Get loads one command with its packages.
	// Returns errs.ObjectNotFoundError when the id is unknown within scope.
	Get(ctx context.Context, scope Scope, id kernel.UUID) (*command.Command, error)

	// GetMany loads and row-locks every listed command, in the order of ids.
	// Duplicate ids are collapsed. If any id does not resolve within scope the
	// call returns errs.ObjectNotFoundError and nothing else.
	GetMany(ctx context.Context, scope Scope, ids []kernel.UUID) ([]*command.Command, error)

	// GetByTour loads and row-locks the commands of a tour, ordered by tour
	// order with unordered commands last.
	GetByTour(ctx context.Context, tourID string) ([]*command.Command, error)

	// Delete removes the command row. Packages and history must already be gone.
	Delete(ctx context.Context, id kernel.UUID) error
}

// PackageRepository gives direct access to packages outside their command.
type PackageRepository interface {
	// GetMany loads every listed package, in the order of ids, with the same
	// all-or-nothing rule as CommandRepository.GetMany.
	GetMany(ctx context.Context, scope Scope, ids []kernel.UUID) ([]*command.Package, error)

	Update(ctx context.Context, pkg *command.Package) error

	Delete(ctx context.Context, id kernel.UUID) error

	// BarcodeExists reports whether any package already uses barcode.
	BarcodeExists(ctx context.Context, barcode string) (bool, error)
}
