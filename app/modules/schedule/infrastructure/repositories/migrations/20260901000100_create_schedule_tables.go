package schedulemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating seasons, rounds and events tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS seasons (
					id BIGSERIAL PRIMARY KEY,
					name VARCHAR(100) NOT NULL,
					start_year INTEGER NOT NULL,
					end_year INTEGER NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT uq_seasons_years UNIQUE (start_year, end_year),
					CHECK (end_year >= start_year)
				);
			`); err != nil {
				return fmt.Errorf("failed to create seasons table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS rounds (
					id BIGSERIAL PRIMARY KEY,
					season_id BIGINT NOT NULL REFERENCES seasons(id) ON DELETE CASCADE,
					number INTEGER NOT NULL,
					name VARCHAR(100) NOT NULL,
					start_date DATE,
					end_date DATE,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT uq_rounds_season_number UNIQUE (season_id, number)
				);
			`); err != nil {
				return fmt.Errorf("failed to create rounds table: %w", err)
			}

			// leagues comes from the roster migration set, which runs first. A
			// league with scheduled events cannot be deleted.
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS events (
					id BIGSERIAL PRIMARY KEY,
					round_id BIGINT NOT NULL REFERENCES rounds(id) ON DELETE CASCADE,
					league_id BIGINT CONSTRAINT fk_events_league REFERENCES leagues(id) ON DELETE RESTRICT,
					name VARCHAR(150) NOT NULL,
					event_date DATE NOT NULL,
					format VARCHAR(50),
					world VARCHAR(50),
					route VARCHAR(100),
					distance_km NUMERIC(6,2),
					elevation_m INTEGER,
					active BOOLEAN NOT NULL DEFAULT FALSE,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_events_event_date ON events(event_date);
				CREATE INDEX IF NOT EXISTS idx_events_league_id ON events(league_id);
			`); err != nil {
				return fmt.Errorf("failed to create events table: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping schedule tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				DROP TABLE IF EXISTS events;
				DROP TABLE IF EXISTS rounds;
				DROP TABLE IF EXISTS seasons;
			`); err != nil {
				return fmt.Errorf("failed to drop schedule tables: %w", err)
			}
			return nil
		})
	})
}
