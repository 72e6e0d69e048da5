package rostermigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating leagues, riders, teams and rider_teams tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS leagues (
					id BIGSERIAL PRIMARY KEY,
					name VARCHAR(100) NOT NULL UNIQUE,
					type VARCHAR(50),
					region VARCHAR(50),
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create leagues table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS riders (
					id BIGINT PRIMARY KEY,
					name VARCHAR(100) NOT NULL,
					category VARCHAR(2) NOT NULL CHECK (category IN ('D','C','B','A','A+')),
					active BOOLEAN NOT NULL DEFAULT TRUE,
					is_captain BOOLEAN NOT NULL DEFAULT FALSE,
					email VARCHAR(255),
					ftp INTEGER,
					country VARCHAR(50),
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_riders_category ON riders(category);
			`); err != nil {
				return fmt.Errorf("failed to create riders table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS teams (
					id BIGSERIAL PRIMARY KEY,
					name VARCHAR(100) NOT NULL UNIQUE,
					category VARCHAR(2) NOT NULL CHECK (category IN ('D','C','B','A')),
					division VARCHAR(20),
					division_number INTEGER,
					league_id BIGINT REFERENCES leagues(id) ON DELETE SET NULL,
					captain_rider_id BIGINT REFERENCES riders(id) ON DELETE SET NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE UNIQUE INDEX IF NOT EXISTS uq_teams_captain_rider_id
					ON teams(captain_rider_id) WHERE captain_rider_id IS NOT NULL;
				CREATE INDEX IF NOT EXISTS idx_teams_league_id ON teams(league_id);
			`); err != nil {
				return fmt.Errorf("failed to create teams table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS rider_teams (
					rider_id BIGINT NOT NULL REFERENCES riders(id) ON DELETE CASCADE,
					team_id BIGINT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					PRIMARY KEY (rider_id, team_id)
				);
				CREATE INDEX IF NOT EXISTS idx_rider_teams_team_id ON rider_teams(team_id);
			`); err != nil {
				return fmt.Errorf("failed to create rider_teams table: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping roster tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				DROP TABLE IF EXISTS rider_teams;
				DROP TABLE IF EXISTS teams;
				DROP TABLE IF EXISTS riders;
				DROP TABLE IF EXISTS leagues;
			`); err != nil {
				return fmt.Errorf("failed to drop roster tables: %w", err)
			}
			return nil
		})
	})
}
