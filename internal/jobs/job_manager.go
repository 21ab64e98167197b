package jobs

import (
	"fmt"
	"log/slog"

	"pharmadelivery/internal/core/domain/model/kernel"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	tourDuplicationJob *TourDuplicationJob
	routeRepairJob     *RouteRepairJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	duplicator TourDuplicator,
	repairer RouteRepairer,
	deliveryDays kernel.Weekdays,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		tourDuplicationJob: NewTourDuplicationJob(duplicator, deliveryDays, logger),
		routeRepairJob:     NewRouteRepairJob(repairer, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.routeRepairJob.Start(); err != nil {
		return fmt.Errorf("failed to start route repair job: %w", err)
	}

	if err := jm.tourDuplicationJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.routeRepairJob.Stop()
		return fmt.Errorf("failed to start tour duplication job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ones to finish.
func (jm *JobManager) StopAll() {
	jm.tourDuplicationJob.Stop()
	jm.routeRepairJob.Stop()
}
