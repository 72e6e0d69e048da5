package audit

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	auditservice "github.com/zrl-league/zrl-manager/app/modules/audit/application"
	audithandlers "github.com/zrl-league/zrl-manager/app/modules/audit/infrastructure/handlers"
	auditdb "github.com/zrl-league/zrl-manager/app/modules/audit/infrastructure/repositories"
	auditrouter "github.com/zrl-league/zrl-manager/app/modules/audit/infrastructure/router"
	"github.com/zrl-league/zrl-manager/app/shared/clock"
	"github.com/zrl-league/zrl-manager/app/shared/events"
	"github.com/zrl-league/zrl-manager/app/shared/observability"
)

// Module represents the audit module.
type Module struct {
	AuditService  auditservice.Service
	AuditRouter   *auditrouter.AuditRouter
	mu            sync.Mutex
	cancelFunc    context.CancelFunc
	closed        bool
	observability observability.Observability
}

// NewAuditModule wires the audit trail: a router over every domain topic
// and the admin listing endpoint.
func NewAuditModule(
	ctx context.Context,
	obs observability.Observability,
	subscriber message.Subscriber,
	apiRouter chi.Router,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "audit.NewAuditModule initializing")

	repo := auditdb.NewRepository(db)
	metrics := observability.NewOperationMetrics(obs.Registry.Prometheus, "audit")
	service := auditservice.NewAuditService(repo, logger, metrics, tracer, clock.RealClock{})

	router, err := auditrouter.NewAuditRouter(logger, subscriber, tracer, obs.Registry.Prometheus)
	if err != nil {
		return nil, err
	}
	if err := router.Configure(service, events.AllTopics); err != nil {
		return nil, fmt.Errorf("failed to configure audit router: %w", err)
	}

	if apiRouter != nil {
		audithandlers.Mount(apiRouter, audithandlers.NewAuditHandlers(service, logger, tracer))
	}

	return &Module{
		AuditService:  service,
		AuditRouter:   router,
		observability: obs,
	}, nil
}

// Run consumes events until ctx is cancelled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting audit module")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if !m.setCancel(cancel) {
		logger.InfoContext(ctx, "Audit module closed before start")
		return
	}

	if err := m.AuditRouter.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.ErrorContext(ctx, "Audit router stopped", "error", err)
	}
	logger.InfoContext(ctx, "Audit module goroutine stopped")
}

func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping audit module")

	m.mu.Lock()
	m.closed = true
	cancel := m.cancelFunc
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if err := m.AuditRouter.Close(); err != nil {
		return fmt.Errorf("error stopping audit router: %w", err)
	}
	logger.Info("Audit module stopped")
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
