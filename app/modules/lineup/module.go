package lineup

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	lineupservice "github.com/zrl-league/zrl-manager/app/modules/lineup/application"
	lineuphandlers "github.com/zrl-league/zrl-manager/app/modules/lineup/infrastructure/handlers"
	lineupdb "github.com/zrl-league/zrl-manager/app/modules/lineup/infrastructure/repositories"
	"github.com/zrl-league/zrl-manager/app/shared/eventbus"
	"github.com/zrl-league/zrl-manager/app/shared/observability"
)

// Module represents the lineup module.
type Module struct {
	LineupService lineupservice.Service
	observability observability.Observability
}

// NewLineupModule wires the lineup engine. roster and resolver come from the
// roster and schedule modules.
func NewLineupModule(
	ctx context.Context,
	obs observability.Observability,
	publisher eventbus.Publisher,
	apiRouter chi.Router,
	db *bun.DB,
	roster lineupservice.RosterReader,
	resolver lineupservice.EventDateResolver,
	limit int,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "lineup.NewLineupModule initializing")

	repo := lineupdb.NewRepository(db)
	metrics := observability.NewOperationMetrics(obs.Registry.Prometheus, "lineup")
	service := lineupservice.NewLineupService(repo, roster, resolver, logger, metrics, tracer, db, publisher, limit)

	if apiRouter != nil {
		lineuphandlers.Mount(apiRouter, lineuphandlers.NewLineupHandlers(service, logger, tracer))
	}

	return &Module{
		LineupService: service,
		observability: obs,
	}, nil
}

func (m *Module) Close() error {
	m.observability.Provider.Logger.Info("Lineup module stopped")
	return nil
}
