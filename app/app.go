// Package app composes the league manager: configuration, database, event
// bus, modules and the HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	"github.com/zrl-league/zrl-manager/app/modules/audit"
	"github.com/zrl-league/zrl-manager/app/modules/lineup"
	"github.com/zrl-league/zrl-manager/app/modules/report"
	"github.com/zrl-league/zrl-manager/app/modules/roster"
	"github.com/zrl-league/zrl-manager/app/modules/schedule"
	"github.com/zrl-league/zrl-manager/app/shared/clock"
	"github.com/zrl-league/zrl-manager/app/shared/dbutil"
	"github.com/zrl-league/zrl-manager/app/shared/eventbus"
	"github.com/zrl-league/zrl-manager/app/shared/httpx"
	"github.com/zrl-league/zrl-manager/app/shared/observability"
	"github.com/zrl-league/zrl-manager/config"
	"github.com/zrl-league/zrl-manager/pkg/jwt"
)

// App holds the wired application.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	DB            *bun.DB
	EventBus      eventbus.EventBus
	JWT           jwt.Service
	Router        *chi.Mux
	Modules       Modules
}

// Modules groups the feature modules.
type Modules struct {
	Roster   *roster.Module
	Schedule *schedule.Module
	Lineup   *lineup.Module
	Report   *report.Module
	Audit    *audit.Module
}

// NewApp connects to the database and event bus and wires every module.
func NewApp(ctx context.Context, cfg *config.Config, obs observability.Observability) (*App, error) {
	logger := obs.Provider.Logger

	location, err := time.LoadLocation(cfg.League.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid league timezone %q: %w", cfg.League.Timezone, err)
	}

	db, err := dbutil.Open(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, err
	}

	bus, err := newEventBus(cfg, obs)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	app := &App{
		Config:        cfg,
		Observability: obs,
		DB:            db,
		EventBus:      bus,
		JWT:           jwt.NewService(cfg.JWT.Secret, cfg.JWT.DefaultTTL, cfg.JWT.Issuer),
		Router: httpx.NewRouter(httpx.RouterConfig{
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			RateLimit:      cfg.HTTP.RateLimit,
			Burst:          cfg.HTTP.Burst,
			RequestTimeout: 30 * time.Second,
		}),
	}

	api := chi.NewRouter()
	api.Use(httpx.AuthMiddleware(app.JWT, logger))
	app.Router.Mount("/api", api)

	if err := app.initializeModules(ctx, api, location); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func newEventBus(cfg *config.Config, obs observability.Observability) (eventbus.EventBus, error) {
	switch cfg.Events.Backend {
	case "memory":
		return eventbus.NewMemory(obs.Provider.Logger), nil
	case "nats":
		bus, err := eventbus.NewNATS(eventbus.NATSConfig{
			URL:        cfg.NATS.URL,
			Seed:       cfg.NATS.Seed,
			QueueGroup: "zrl-manager",
		}, obs.Provider.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect event bus: %w", err)
		}
		return bus, nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Events.Backend)
	}
}

// initializeModules wires the modules in dependency order: the lineup engine
// reads the roster store and asks the schedule for the next event date.
func (app *App) initializeModules(ctx context.Context, api chi.Router, location *time.Location) error {
	publisher := eventbus.NewJSONPublisher(app.EventBus, app.Observability.Provider.Logger)

	rosterModule, err := roster.NewRosterModule(ctx, app.Observability, publisher, api, app.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize roster module: %w", err)
	}
	app.Modules.Roster = rosterModule

	scheduleModule, err := schedule.NewScheduleModule(ctx, app.Observability, publisher, api, app.DB, rosterModule.Repository, schedule.Options{
		Location:        location,
		Clock:           clock.RealClock{},
		QueueDSN:        app.Config.Postgres.DSN,
		RefreshInterval: app.Config.Queue.RefreshInterval,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize schedule module: %w", err)
	}
	app.Modules.Schedule = scheduleModule

	lineupModule, err := lineup.NewLineupModule(ctx, app.Observability, publisher, api, app.DB,
		rosterModule.Repository, scheduleModule.ScheduleService, app.Config.League.LineupLimit)
	if err != nil {
		return fmt.Errorf("failed to initialize lineup module: %w", err)
	}
	app.Modules.Lineup = lineupModule

	reportModule, err := report.NewReportModule(ctx, app.Observability, api, app.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize report module: %w", err)
	}
	app.Modules.Report = reportModule

	auditModule, err := audit.NewAuditModule(ctx, app.Observability, app.EventBus, api, app.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize audit module: %w", err)
	}
	app.Modules.Audit = auditModule

	return nil
}

// Run starts the background modules and serves HTTP until ctx is cancelled or
// the server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go app.Modules.Schedule.Run(ctx, &wg)
	go app.Modules.Audit.Run(ctx, &wg)

	err := httpx.NewServer(app.Config.HTTP.Address, app.Router, app.Observability.Provider.Logger).Run(ctx)
	cancel()
	wg.Wait()
	return err
}

// Close stops the modules in reverse order, then the bus and database.
func (app *App) Close() error {
	var errs []error
	closers := []interface{ Close() error }{}
	if app.Modules.Audit != nil {
		closers = append(closers, app.Modules.Audit)
	}
	if app.Modules.Report != nil {
		closers = append(closers, app.Modules.Report)
	}
	if app.Modules.Lineup != nil {
		closers = append(closers, app.Modules.Lineup)
	}
	if app.Modules.Schedule != nil {
		closers = append(closers, app.Modules.Schedule)
	}
	if app.Modules.Roster != nil {
		closers = append(closers, app.Modules.Roster)
	}
	for _, c := range closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close event bus: %w", err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
