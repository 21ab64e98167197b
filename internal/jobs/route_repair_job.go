package jobs

import (
	"context"
	"log/slog"
	"time"

	"pharmadelivery/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// RouteRepairSchedule retries missing routes every ten minutes.
const RouteRepairSchedule = "0 */10 * * * *"

// RouteRepairer recomputes missing routes and returns how many were stored.
type RouteRepairer interface {
	Handle(ctx context.Context, cmd commands.RepairTourRoutesCommand) (int, error)
}

// RouteRepairJob recomputes today's tour routes that degraded to unknown
// while the routing gateway was unavailable.
type RouteRepairJob struct {
	handler RouteRepairer
	now     func() time.Time
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewRouteRepairJob creates the job. Call Start to schedule it.
func NewRouteRepairJob(handler RouteRepairer, logger *slog.Logger) *RouteRepairJob {
	return &RouteRepairJob{
		handler: handler,
		now:     time.Now,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "route_repair_job"),
	}
}

// Start schedules the job on RouteRepairSchedule.
func (j *RouteRepairJob) Start() error {
	_, err := j.cron.AddFunc(RouteRepairSchedule, func() {
		j.run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Route repair job started", "schedule", RouteRepairSchedule)
	return nil
}

// Stop waits for a running repair to finish and stops the scheduler.
func (j *RouteRepairJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Route repair job stopped")
}

func (j *RouteRepairJob) run(ctx context.Context) {
	cmd, err := commands.NewRepairTourRoutesCommand(j.now().UTC())
	if err != nil {
		j.logger.ErrorContext(ctx, "Route repair job failed", "error", err)
		return
	}

	repaired, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Route repair job failed", "error", err)
		return
	}
	if repaired > 0 {
		j.logger.InfoContext(ctx, "tour routes repaired", "count", repaired)
	}
}
