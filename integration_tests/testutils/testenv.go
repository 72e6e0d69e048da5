//go:build integration

package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	tcnats "github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/zrl-league/zrl-manager/app/migrations"
	"github.com/zrl-league/zrl-manager/app/shared/observability"
	"github.com/zrl-league/zrl-manager/integration_tests/containers"
)

// appTables are truncated between tests, children first.
var appTables = []string{
	"audit_entries",
	"rider_availability",
	"lineup_assignments",
	"events",
	"rounds",
	"seasons",
	"rider_teams",
	"teams",
	"riders",
	"leagues",
}

// TestEnvironment holds the containers and connections shared by one test package.
type TestEnvironment struct {
	PgContainer   *postgres.PostgresContainer
	NatsContainer *tcnats.NATSContainer
	DB            *bun.DB
	DSN           string
	NatsURL       string
	Obs           observability.Observability
	Logger        *slog.Logger
}

// NewTestEnvironment starts Postgres, applies every migration and, when
// withNATS is set, starts a NATS server.
func NewTestEnvironment(ctx context.Context, withNATS bool) (*TestEnvironment, error) {
	env := &TestEnvironment{
		Obs:    observability.NewTest(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return nil, err
	}
	env.PgContainer = pgContainer
	env.DSN = dsn

	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		env.Close(ctx)
		return nil, fmt.Errorf("failed to open sql DB connection: %w", err)
	}
	env.DB = bun.NewDB(sqlDB, pgdialect.New())

	if err := migrations.Up(ctx, env.DB, dsn, env.Logger); err != nil {
		env.Close(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if withNATS {
		natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
		if err != nil {
			env.Close(ctx)
			return nil, err
		}
		env.NatsContainer = natsContainer
		env.NatsURL = natsURL
	}
	return env, nil
}

// Reset truncates every application table and restarts identities.
func (env *TestEnvironment) Reset(ctx context.Context) error {
	query := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(appTables, ", "))
	if _, err := env.DB.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}

// Close releases connections and terminates containers.
func (env *TestEnvironment) Close(ctx context.Context) {
	if env.DB != nil {
		_ = env.DB.Close()
	}
	if env.NatsContainer != nil {
		_ = env.NatsContainer.Terminate(ctx)
	}
	if env.PgContainer != nil {
		_ = env.PgContainer.Terminate(ctx)
	}
}
