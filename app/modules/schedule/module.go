package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	scheduleservice "github.com/zrl-league/zrl-manager/app/modules/schedule/application"
	schedulehandlers "github.com/zrl-league/zrl-manager/app/modules/schedule/infrastructure/handlers"
	schedulequeue "github.com/zrl-league/zrl-manager/app/modules/schedule/infrastructure/queue"
	scheduledb "github.com/zrl-league/zrl-manager/app/modules/schedule/infrastructure/repositories"
	"github.com/zrl-league/zrl-manager/app/shared/clock"
	"github.com/zrl-league/zrl-manager/app/shared/eventbus"
	"github.com/zrl-league/zrl-manager/app/shared/observability"
)

// Options carries the deployment settings of the schedule module. An empty
// QueueDSN disables the background refresh job.
type Options struct {
	Location        *time.Location
	Clock           clock.Clock
	QueueDSN        string
	RefreshInterval time.Duration
}

// Module represents the schedule module.
type Module struct {
	ScheduleService scheduleservice.Service
	Queue           *schedulequeue.Service
	mu              sync.Mutex
	cancelFunc      context.CancelFunc
	closed          bool
	observability   observability.Observability
}

// NewScheduleModule wires the schedule repository, service, job queue and HTTP
// handlers.
func NewScheduleModule(
	ctx context.Context,
	obs observability.Observability,
	publisher eventbus.Publisher,
	apiRouter chi.Router,
	db *bun.DB,
	teams scheduleservice.TeamDirectory,
	opts Options,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "schedule.NewScheduleModule initializing")

	repo := scheduledb.NewRepository(db)
	metrics := observability.NewOperationMetrics(obs.Registry.Prometheus, "schedule")
	service := scheduleservice.NewScheduleService(repo, teams, logger, metrics, tracer, db, publisher, opts.Clock, opts.Location)

	module := &Module{
		ScheduleService: service,
		observability:   obs,
	}

	var enqueuer schedulehandlers.RefreshEnqueuer
	if opts.QueueDSN != "" {
		queue, err := schedulequeue.NewService(ctx, opts.QueueDSN, logger, metrics, service, opts.RefreshInterval)
		if err != nil {
			return nil, fmt.Errorf("failed to create schedule queue: %w", err)
		}
		module.Queue = queue
		enqueuer = queue
	}

	if apiRouter != nil {
		schedulehandlers.Mount(apiRouter, schedulehandlers.NewScheduleHandlers(service, enqueuer, logger, tracer))
	}
	return module, nil
}

// Run starts the job queue and blocks until ctx is cancelled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting schedule module")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if !m.setCancel(cancel) {
		logger.InfoContext(ctx, "Schedule module closed before start")
		return
	}

	if m.Queue != nil {
		if err := m.Queue.Start(ctx); err != nil {
			logger.ErrorContext(ctx, "Schedule queue failed to start", "error", err)
		}
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Schedule module goroutine stopped")
}

// Close stops the job queue.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping schedule module")

	m.mu.Lock()
	m.closed = true
	cancel := m.cancelFunc
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	if m.Queue != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := m.Queue.Stop(ctx); err != nil {
			logger.Error("Error stopping schedule queue", "error", err)
			return fmt.Errorf("error stopping schedule queue: %w", err)
		}
	}

	logger.Info("Schedule module stopped")
	return nil
}

// setCancel hands Run's cancel func to Close. It reports false once Close ran.
func (m *Module) setCancel(cancel context.CancelFunc) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false
	}
	m.cancelFunc = cancel
	return true
}
