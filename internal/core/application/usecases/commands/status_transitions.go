package commands

import (
	"context"
	"log/slog"
	"time"

	"pharmadelivery/internal/core/application/catalog"
	"pharmadelivery/internal/core/application/ledger"
	"pharmadelivery/internal/core/domain/model/anomaly"
	"pharmadelivery/internal/core/domain/model/command"
	"pharmadelivery/internal/core/domain/model/kernel"
	"pharmadelivery/internal/core/domain/model/status"
	"pharmadelivery/internal/core/ports"
	"pharmadelivery/internal/pkg/metrics"
)

// StatusTransitions holds the collaborators shared by every handler that
// changes command, package or tour statuses.
type StatusTransitions struct {
	catalog   *catalog.Catalog
	ledger    *ledger.Ledger
	anomalies ports.AnomalyService
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewStatusTransitions wires the shared collaborators; m may be nil.
func NewStatusTransitions(
	catalog *catalog.Catalog,
	ledger *ledger.Ledger,
	anomalies ports.AnomalyService,
	m *metrics.Metrics,
	logger *slog.Logger,
) StatusTransitions {
	return StatusTransitions{
		catalog:   catalog,
		ledger:    ledger,
		anomalies: anomalies,
		metrics:   m,
		logger:    logger.With("component", "StatusTransitions"),
	}
}

type commandStatusChange struct {
	entry     status.Entry
	profileID *kernel.UUID
	at        time.Time
	isWeb     bool
	comment   string
}

// changeCommandStatus appends the command event, cascades to packages for web
// changes and returns the anomaly to open, if any. Package cascade skips
// packages already at the mapped status.
func (s StatusTransitions) changeCommandStatus(
	ctx context.Context,
	history ports.HistoryRepository,
	c *command.Command,
	change commandStatusChange,
) (*anomaly.Anomaly, error) {
	statusID := change.entry.ID()
	if _, err := s.ledger.RecordCommand(ctx, history, c, statusID, change.profileID, change.at); err != nil {
		return nil, err
	}

	if change.isWeb {
		if target, ok := status.PackageStatusFor(statusID); ok {
			for _, p := range c.Packages() {
				if p.HasStatus(target) {
					continue
				}
				if _, err := s.ledger.RecordPackage(ctx, history, p, target, change.profileID, change.at); err != nil {
					return nil, err
				}
				if s.metrics != nil {
					s.metrics.PackageCascades.Inc()
				}
			}
		}
		return nil, nil
	}

	if !status.IsAnomalyTrigger(statusID) || c.PharmacyID() == nil {
		return nil, nil
	}

	a, err := anomaly.ForStatusChange(
		c.ID(), *c.PharmacyID(),
		change.entry.Name(), change.comment,
		c.Barcodes(), change.profileID, change.at,
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to build anomaly", "commandID", c.ID(), "error", err)
		s.countAnomaly("failed")
		return nil, nil
	}
	return a, nil
}

// reportAnomalies creates the anomalies collected by a committed handler.
// Failures are logged and never returned.
func (s StatusTransitions) reportAnomalies(ctx context.Context, anomalies []*anomaly.Anomaly) {
	for _, a := range anomalies {
		if err := s.anomalies.Create(ctx, a); err != nil {
			s.logger.ErrorContext(ctx, "failed to create anomaly",
				"commandID", a.CommandID(), "pharmacyID", a.PharmacyID(), "error", err)
			s.countAnomaly("failed")
			continue
		}
		s.countAnomaly("created")
	}
}

func (s StatusTransitions) countAnomaly(result string) {
	if s.metrics != nil {
		s.metrics.AnomaliesCreated.WithLabelValues(result).Inc()
	}
}

func (s StatusTransitions) lookup(ctx context.Context, kind status.Kind, id status.ID) (status.Entry, error) {
	return s.catalog.Lookup(ctx, kind, id)
}
