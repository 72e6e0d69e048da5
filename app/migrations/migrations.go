// Package migrations lists the module migration sets in dependency order and
// applies them together with River's queue schema.
package migrations

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	auditmigrations "github.com/zrl-league/zrl-manager/app/modules/audit/infrastructure/repositories/migrations"
	lineupmigrations "github.com/zrl-league/zrl-manager/app/modules/lineup/infrastructure/repositories/migrations"
	rostermigrations "github.com/zrl-league/zrl-manager/app/modules/roster/infrastructure/repositories/migrations"
	schedulemigrations "github.com/zrl-league/zrl-manager/app/modules/schedule/infrastructure/repositories/migrations"
)

// Module is one module's migration set.
type Module struct {
	Name       string
	Migrations *migrate.Migrations
}

// Modules returns the migration sets in foreign key order: lineups reference
// teams and riders, events reference leagues.
func Modules() []Module {
	return []Module{
		{Name: "roster", Migrations: rostermigrations.Migrations},
		{Name: "schedule", Migrations: schedulemigrations.Migrations},
		{Name: "lineup", Migrations: lineupmigrations.Migrations},
		{Name: "audit", Migrations: auditmigrations.Migrations},
	}
}

// NewMigrator keeps each module's bookkeeping in its own tables so modules can
// be rolled back independently.
func NewMigrator(db *bun.DB, m Module) *migrate.Migrator {
	return migrate.NewMigrator(db, m.Migrations,
		migrate.WithTableName("bun_migrations_"+m.Name),
		migrate.WithLocksTableName("bun_migration_locks_"+m.Name),
		migrate.WithMarkAppliedOnSuccess(true),
	)
}

// Up applies River's schema and then every module migration.
func Up(ctx context.Context, db *bun.DB, dsn string, logger *slog.Logger) error {
	if err := RiverUp(ctx, dsn, logger); err != nil {
		return err
	}
	for _, m := range Modules() {
		migrator := NewMigrator(db, m)
		if err := migrator.Init(ctx); err != nil {
			return fmt.Errorf("failed to initialize %s migrations: %w", m.Name, err)
		}
		group, err := migrator.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to run %s migrations: %w", m.Name, err)
		}
		if group.IsZero() {
			logger.InfoContext(ctx, "No new migrations", slog.String("module", m.Name))
		} else {
			logger.InfoContext(ctx, "Migrated module", slog.String("module", m.Name), slog.String("group", group.String()))
		}
	}
	return nil
}

// RiverUp brings River's job tables to the latest version.
func RiverUp(ctx context.Context, dsn string, logger *slog.Logger) error {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool for River migrations: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}
	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{})
	if err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}
	logger.InfoContext(ctx, "River migrations applied", slog.Int("versions", len(res.Versions)))
	return nil
}
