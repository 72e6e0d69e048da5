package report

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	reportservice "github.com/zrl-league/zrl-manager/app/modules/report/application"
	reporthandlers "github.com/zrl-league/zrl-manager/app/modules/report/infrastructure/handlers"
	reportdb "github.com/zrl-league/zrl-manager/app/modules/report/infrastructure/repositories"
	"github.com/zrl-league/zrl-manager/app/shared/observability"
)

// Module represents the report module. It owns no tables and reads the
// roster, schedule and lineup tables.
type Module struct {
	ReportService reportservice.Service
	observability observability.Observability
}

func NewReportModule(ctx context.Context, obs observability.Observability, apiRouter chi.Router, db *bun.DB) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "report.NewReportModule initializing")

	repo := reportdb.NewRepository(db)
	metrics := observability.NewOperationMetrics(obs.Registry.Prometheus, "report")
	service := reportservice.NewReportService(repo, logger, metrics, tracer)

	if apiRouter != nil {
		reporthandlers.Mount(apiRouter, reporthandlers.NewReportHandlers(service, logger, tracer))
	}

	return &Module{ReportService: service, observability: obs}, nil
}

func (m *Module) Close() error {
	m.observability.Provider.Logger.Info("Report module stopped")
	return nil
}
