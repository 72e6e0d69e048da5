package roster

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	rosterservice "github.com/zrl-league/zrl-manager/app/modules/roster/application"
	rosterhandlers "github.com/zrl-league/zrl-manager/app/modules/roster/infrastructure/handlers"
	rosterdb "github.com/zrl-league/zrl-manager/app/modules/roster/infrastructure/repositories"
	"github.com/zrl-league/zrl-manager/app/shared/eventbus"
	"github.com/zrl-league/zrl-manager/app/shared/observability"
)

// Module represents the roster module.
type Module struct {
	RosterService rosterservice.Service
	Repository    rosterdb.Repository
	observability observability.Observability
}

// NewRosterModule wires the roster repository, service and HTTP handlers. When
// apiRouter is nil no routes are registered.
func NewRosterModule(
	ctx context.Context,
	obs observability.Observability,
	publisher eventbus.Publisher,
	apiRouter chi.Router,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "roster.NewRosterModule initializing")

	repo := rosterdb.NewRepository(db)
	metrics := observability.NewOperationMetrics(obs.Registry.Prometheus, "roster")
	service := rosterservice.NewRosterService(repo, logger, metrics, tracer, db, publisher)

	if apiRouter != nil {
		rosterhandlers.Mount(apiRouter, rosterhandlers.NewRosterHandlers(service, logger, tracer))
	}

	return &Module{
		RosterService: service,
		Repository:    repo,
		observability: obs,
	}, nil
}

// Close releases module resources. The roster module holds none beyond the
// shared database handle.
func (m *Module) Close() error {
	m.observability.Provider.Logger.Info("Roster module stopped")
	return nil
}
