package jobs

import (
	"context"
	"log/slog"
	"time"

	"pharmadelivery/internal/core/application/usecases/commands"
	"pharmadelivery/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
)

// TourDuplicationSchedule runs the duplication every night at 02:30.
const TourDuplicationSchedule = "0 30 2 * * *"

// TourDuplicator copies tours from one day to another and returns how many
// were created.
type TourDuplicator interface {
	Handle(ctx context.Context, cmd commands.DuplicateToursCommand) (int, error)
}

// TourDuplicationJob copies the tours of the last delivery day onto the next
// one, for every account.
type TourDuplicationJob struct {
	handler      TourDuplicator
	deliveryDays kernel.Weekdays
	now          func() time.Time
	cron         *cron.Cron
	logger       *slog.Logger
}

// NewTourDuplicationJob creates the job for the given delivery days. Call
// Start to schedule it.
func NewTourDuplicationJob(handler TourDuplicator, deliveryDays kernel.Weekdays, logger *slog.Logger) *TourDuplicationJob {
	return &TourDuplicationJob{
		handler:      handler,
		deliveryDays: deliveryDays,
		now:          time.Now,
		cron:         cron.New(cron.WithSeconds()),
		logger:       logger.With("component", "tour_duplication_job"),
	}
}

// Start schedules the job on TourDuplicationSchedule.
func (j *TourDuplicationJob) Start() error {
	_, err := j.cron.AddFunc(TourDuplicationSchedule, func() {
		j.run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Tour duplication job started",
		"schedule", TourDuplicationSchedule, "deliveryDays", j.deliveryDays.String())
	return nil
}

// Stop waits for a running duplication to finish and stops the scheduler.
func (j *TourDuplicationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Tour duplication job stopped")
}

func (j *TourDuplicationJob) run(ctx context.Context) {
	source, target, ok := duplicationDays(j.now(), j.deliveryDays)
	if !ok {
		j.logger.WarnContext(ctx, "no delivery day configured, skipping tour duplication")
		return
	}

	cmd, err := commands.NewDuplicateAllToursCommand(source, target)
	if err != nil {
		j.logger.ErrorContext(ctx, "Tour duplication job failed", "error", err)
		return
	}

	created, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Tour duplication job failed",
			"source", source.Format(time.DateOnly), "target", target.Format(time.DateOnly), "error", err)
		return
	}
	j.logger.InfoContext(ctx, "tours duplicated",
		"source", source.Format(time.DateOnly), "target", target.Format(time.DateOnly), "created", created)
}

// duplicationDays picks the next delivery day after now as target and the
// delivery day preceding it as source. With a single delivery day per week the
// source is the same weekday one week earlier.
func duplicationDays(now time.Time, days kernel.Weekdays) (time.Time, time.Time, bool) {
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	var target time.Time
	for i := 1; i <= 7; i++ {
		if day := today.AddDate(0, 0, i); days.Includes(day) {
			target = day
			break
		}
	}
	if target.IsZero() {
		return time.Time{}, time.Time{}, false
	}

	for i := 1; i <= 7; i++ {
		if day := target.AddDate(0, 0, -i); days.Includes(day) {
			return day, target, true
		}
	}
	return time.Time{}, time.Time{}, false
}
