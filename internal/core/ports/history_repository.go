package ports

import (
	"context"

	"pharmadelivery/internal/core/domain/model/history"
	"pharmadelivery/internal/core/domain/model/status"
)

// HistoryRepository is the append-only status log. There is no update
// operation; Purge exists only for full entity deletion.
type HistoryRepository interface {
	Append(ctx context.Context, event *history.Event) error

	// List returns the events of one entity, oldest first.
	List(ctx context.Context, kind status.Kind, entityID string) ([]*history.Event, error)

	Purge(ctx context.Context, kind status.Kind, entityID string) error
}

// StatusRepository reads the static status tables.
type StatusRepository interface {
	// Get returns errs.ObjectNotFoundError for unknown ids.
	Get(ctx context.Context, kind status.Kind, id status.ID) (status.Entry, error)
}
