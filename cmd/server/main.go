package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/zrl-league/zrl-manager/app"
	"github.com/zrl-league/zrl-manager/app/shared/observability"
	"github.com/zrl-league/zrl-manager/config"
	"github.com/zrl-league/zrl-manager/pkg/jwt"
)

// version is set at build time with -ldflags.
var version = "dev"

func main() {
	cliApp := &cli.App{
		Name:  "zrl-manager",
		Usage: "ZRL e-cycling league manager",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			tokenCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API, event consumers and background jobs",
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			obs, err := observability.Init(ctx, config.ToObsConfig(cfg, version))
			if err != nil {
				return fmt.Errorf("failed to initialize observability: %w", err)
			}
			logger := obs.Provider.Logger

			application, err := app.NewApp(ctx, cfg, obs)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			runErr := application.Run(ctx)
			logger.Info("Shutting down")

			if err := application.Close(); err != nil {
				logger.Error("Error during shutdown", "error", err)
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := obs.Shutdown(shutdownCtx); err != nil {
				logger.Error("Error stopping metrics endpoint", "error", err)
			}
			return runErr
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "mint an API token for an admin or a team captain",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "role", Required: true, Usage: "admin or captain"},
			&cli.Int64Flag{Name: "team", Usage: "captained team id (captain only)"},
			&cli.StringFlag{Name: "subject", Usage: "token subject; defaults to the role and team"},
			&cli.DurationFlag{Name: "ttl", Usage: "token lifetime; defaults to the configured TTL"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			role := jwt.Role(c.String("role"))
			teamID := c.Int64("team")
			if err := validateActor(role, teamID); err != nil {
				return err
			}

			subject := c.String("subject")
			if subject == "" {
				subject = defaultSubject(role, teamID)
			}

			svc := jwt.NewService(cfg.JWT.Secret, cfg.JWT.DefaultTTL, cfg.JWT.Issuer)
			token, err := svc.GenerateToken(subject, role, teamID, c.Duration("ttl"))
			if err != nil {
				return fmt.Errorf("failed to generate token: %w", err)
			}
			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}

func validateActor(role jwt.Role, teamID int64) error {
	switch {
	case !role.IsValid():
		return fmt.Errorf("invalid role %q: must be admin or captain", role)
	case role == jwt.RoleCaptain && teamID <= 0:
		return fmt.Errorf("a captain token needs --team")
	case role == jwt.RoleAdmin && teamID != 0:
		return fmt.Errorf("--team is only valid for captain tokens")
	}
	return nil
}

func defaultSubject(role jwt.Role, teamID int64) string {
	if role == jwt.RoleCaptain {
		return fmt.Sprintf("captain:%d", teamID)
	}
	return role.String()
}
