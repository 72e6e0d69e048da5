package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"

	"github.com/zrl-league/zrl-manager/app/migrations"
	"github.com/zrl-league/zrl-manager/app/shared/dbutil"
	"github.com/zrl-league/zrl-manager/config"
)

type moduleMigrator struct {
	name     string
	pkg      string
	migrator *migrate.Migrator
}

func main() {
	cliApp := &cli.App{
		Name:  "bun",
		Usage: "database migrations for every module",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file"},
		},
		Commands: []*cli.Command{
			newMultiModuleDBCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openMigrators(c *cli.Context) (*bun.DB, string, []moduleMigrator, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to load config: %w", err)
	}
	db, err := dbutil.Open(c.Context, cfg.Postgres.DSN)
	if err != nil {
		return nil, "", nil, err
	}
	var out []moduleMigrator
	for _, m := range migrations.Modules() {
		out = append(out, moduleMigrator{
			name:     m.Name,
			pkg:      m.Name + "migrations",
			migrator: migrations.NewMigrator(db, m),
		})
	}
	return db, cfg.Postgres.DSN, out, nil
}

// withMigrators opens the database for one subcommand and closes it afterwards.
func withMigrators(fn func(c *cli.Context, dsn string, ms []moduleMigrator) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		db, dsn, ms, err := openMigrators(c)
		if err != nil {
			return err
		}
		defer db.Close()
		return fn(c, dsn, ms)
	}
}

func findModule(ms []moduleMigrator, name string) (moduleMigrator, error) {
	for _, m := range ms {
		if m.name == name {
			return m, nil
		}
	}
	names := make([]string, 0, len(ms))
	for _, m := range ms {
		names = append(names, m.name)
	}
	return moduleMigrator{}, fmt.Errorf("invalid module name %q (one of %s)", name, strings.Join(names, ", "))
}

func newMultiModuleDBCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: withMigrators(func(c *cli.Context, _ string, ms []moduleMigrator) error {
					for _, m := range ms {
						fmt.Printf("Initializing migrations for module: %s\n", m.name)
						if err := m.migrator.Init(c.Context); err != nil {
							return fmt.Errorf("init %s: %w", m.name, err)
						}
					}
					return nil
				}),
			},
			{
				Name:  "migrate",
				Usage: "apply River's schema and every module's pending migrations",
				Action: withMigrators(func(c *cli.Context, dsn string, ms []moduleMigrator) error {
					if err := migrations.RiverUp(c.Context, dsn, slog.Default()); err != nil {
						return err
					}
					for _, m := range ms {
						fmt.Printf("Running migrations for module: %s\n", m.name)
						if err := m.migrator.Init(c.Context); err != nil {
							return fmt.Errorf("init %s: %w", m.name, err)
						}
						if err := m.migrator.Lock(c.Context); err != nil {
							return err
						}
						group, err := m.migrator.Migrate(c.Context)
						_ = m.migrator.Unlock(c.Context)
						if err != nil {
							return fmt.Errorf("migrate %s: %w", m.name, err)
						}
						if group.IsZero() {
							fmt.Printf("No new migrations to run for module: %s\n", m.name)
						} else {
							fmt.Printf("Migrated module: %s to %s\n", m.name, group)
						}
					}
					return nil
				}),
			},
			{
				Name:  "rollback",
				Usage: "roll back the last migration group, in reverse module order",
				Action: withMigrators(func(c *cli.Context, _ string, ms []moduleMigrator) error {
					for i := len(ms) - 1; i >= 0; i-- {
						m := ms[i]
						fmt.Printf("Rolling back migrations for module: %s\n", m.name)
						group, err := m.migrator.Rollback(c.Context)
						if err != nil {
							return fmt.Errorf("rollback %s: %w", m.name, err)
						}
						if group.IsZero() {
							fmt.Printf("No groups to roll back for module: %s\n", m.name)
						} else {
							fmt.Printf("Rolled back module: %s to %s\n", m.name, group)
						}
					}
					return nil
				}),
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "<module> <name...>",
				Action: withMigrators(func(c *cli.Context, _ string, ms []moduleMigrator) error {
					m, err := findModule(ms, c.Args().First())
					if err != nil {
						return err
					}
					name := strings.Join(c.Args().Tail(), "_")
					mf, err := m.migrator.CreateGoMigration(c.Context, name, migrate.WithPackageName(m.pkg))
					if err != nil {
						return err
					}
					fmt.Printf("Created migration for module %s: %s (%s)\n", m.name, mf.Name, mf.Path)
					return nil
				}),
			},
			{
				Name:      "create_sql",
				Usage:     "create up and down SQL migrations",
				ArgsUsage: "<module> <name...>",
				Action: withMigrators(func(c *cli.Context, _ string, ms []moduleMigrator) error {
					m, err := findModule(ms, c.Args().First())
					if err != nil {
						return err
					}
					name := strings.Join(c.Args().Tail(), "_")
					files, err := m.migrator.CreateSQLMigrations(c.Context, name)
					if err != nil {
						return err
					}
					for _, mf := range files {
						fmt.Printf("Created migration for module %s: %s (%s)\n", m.name, mf.Name, mf.Path)
					}
					return nil
				}),
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: withMigrators(func(c *cli.Context, _ string, ms []moduleMigrator) error {
					for _, m := range ms {
						status, err := m.migrator.MigrationsWithStatus(c.Context)
						if err != nil {
							return err
						}
						fmt.Printf("Migrations for module: %s\n", m.name)
						fmt.Printf("  %s\n", status)
						fmt.Printf("  Applied: %s\n", status.Applied())
						fmt.Printf("  Unapplied: %s\n", status.Unapplied())
					}
					return nil
				}),
			},
		},
	}
}
