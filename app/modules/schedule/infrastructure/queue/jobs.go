package schedulequeue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/riverqueue/river"

	scheduleservice "github.com/zrl-league/zrl-manager/app/modules/schedule/application"
	"github.com/zrl-league/zrl-manager/app/shared/observability/attr"
)

// RefreshActiveEventJob re-evaluates which events are active.
type RefreshActiveEventJob struct{}

// Kind returns the job type identifier for River
func (RefreshActiveEventJob) Kind() string { return "refresh_active_event" }

// ActiveEventRefresher is the schedule operation the worker drives.
type ActiveEventRefresher interface {
	RefreshActiveEvents(ctx context.Context) (*scheduleservice.RefreshSummary, error)
}

// RefreshActiveEventWorker runs RefreshActiveEventJob.
type RefreshActiveEventWorker struct {
	river.WorkerDefaults[RefreshActiveEventJob]
	refresher ActiveEventRefresher
	logger    *slog.Logger
}

func NewRefreshActiveEventWorker(logger *slog.Logger, refresher ActiveEventRefresher) *RefreshActiveEventWorker {
	return &RefreshActiveEventWorker{refresher: refresher, logger: logger}
}

func (w *RefreshActiveEventWorker) Work(ctx context.Context, job *river.Job[RefreshActiveEventJob]) error {
	summary, err := w.refresher.RefreshActiveEvents(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "Active event refresh failed",
			attr.Int64("job_id", job.ID),
			attr.Int("attempt", job.Attempt),
			attr.Error(err),
		)
		return fmt.Errorf("failed to refresh active events: %w", err)
	}

	logAttrs := []any{
		attr.Int64("job_id", job.ID),
		attr.Int("changed", summary.Changed),
		attr.Int("activated", len(summary.Activated)),
	}
	if summary.ActiveDate != nil {
		logAttrs = append(logAttrs, attr.Date("active_date", *summary.ActiveDate))
	}
	w.logger.InfoContext(ctx, "Active events refreshed", logAttrs...)
	return nil
}

// Timeout bounds a single refresh run.
func (w *RefreshActiveEventWorker) Timeout(*river.Job[RefreshActiveEventJob]) time.Duration {
	return time.Minute
}

// periodicJobs schedules the refresh every interval, and once at startup.
func periodicJobs(interval time.Duration) []*river.PeriodicJob {
	return []*river.PeriodicJob{
		river.NewPeriodicJob(
			river.PeriodicInterval(interval),
			func() (river.JobArgs, *river.InsertOpts) {
				return RefreshActiveEventJob{}, &river.InsertOpts{Queue: QueueName}
			},
			&river.PeriodicJobOpts{RunOnStart: true},
		),
	}
}
