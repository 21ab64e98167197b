// Package ledger is the single code path that changes an entity's status.
//
// Every Record* call appends one history event and moves the owning entity's
// current-status pointer in the same transaction. Nothing else in the core
// appends events or touches the pointers.
package ledger

import (
	"context"
	"strconv"
	"time"

	"pharmadelivery/internal/core/domain/model/command"
	"pharmadelivery/internal/core/domain/model/history"
	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/core/domain/model/tour"
	"pharmadelivery/internal/core/ports"
	"pharmadelivery/internal/pkg/metrics"
)

type subject interface {
	ApplyEvent(ev *history.Event) error
}

// Ledger appends status events.
type Ledger struct {
	metrics *metrics.Metrics
	now     func() time.Time
}

// New returns a ledger; m may be nil.
func New(m *metrics.Metrics) *Ledger {
	return &Ledger{metrics: m, now: time.Now}
}

// RecordCommand appends a command event. A zero at means now.
func (l *Ledger) RecordCommand(
	ctx context.Context,
	repo ports.HistoryRepository,
	c *command.Command,
	statusID status.ID,
	profileID *kernel.UUID,
	at time.Time,
) (*history.Event, error) {
	return l.record(ctx, repo, c, status.KindCommand, c.ID().String(), statusID, profileID, at)
}

// RecordPackage appends a package event. A zero at means now.
func (l *Ledger) RecordPackage(
	ctx context.Context,
	repo ports.HistoryRepository,
	p *command.Package,
	statusID status.ID,
	profileID *kernel.UUID,
	at time.Time,
) (*history.Event, error) {
	return l.record(ctx, repo, p, status.KindPackage, p.ID().String(), statusID, profileID, at)
}

// RecordTour appends a tour event. A zero at means now.
func (l *Ledger) RecordTour(
	ctx context.Context,
	repo ports.HistoryRepository,
	t *tour.Tour,
	statusID status.ID,
	profileID *kernel.UUID,
	at time.Time,
) (*history.Event, error) {
	return l.record(ctx, repo, t, status.KindTour, t.ID(), statusID, profileID, at)
}

func (l *Ledger) record(
	ctx context.Context,
	repo ports.HistoryRepository,
	s subject,
	kind status.Kind,
	entityID string,
	statusID status.ID,
	profileID *kernel.UUID,
	at time.Time,
) (*history.Event, error) {
	if at.IsZero() {
		at = l.now()
	}

	ev, err := history.NewEvent(kind, entityID, statusID, profileID, at)
	if err != nil {
		return nil, err
	}
	if err = repo.Append(ctx, ev); err != nil {
		return nil, err
	}
	if err = s.ApplyEvent(ev); err != nil {
		return nil, err
	}

	if l.metrics != nil {
		l.metrics.StatusTransitions.WithLabelValues(kind.String(), strconv.Itoa(int(statusID))).Inc()
	}
	return ev, nil
}
