package lineupmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating lineup_assignments and rider_availability tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			// One row per rider and date across all teams; the service maps a
			// violation of this key to a double booking.
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS lineup_assignments (
					id BIGSERIAL PRIMARY KEY,
					team_id BIGINT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
					event_date DATE NOT NULL,
					rider_id BIGINT NOT NULL REFERENCES riders(id) ON DELETE CASCADE,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT uq_lineup_assignments_event_date_rider UNIQUE (event_date, rider_id)
				);
				CREATE INDEX IF NOT EXISTS idx_lineup_assignments_team_date
					ON lineup_assignments(team_id, event_date);
			`); err != nil {
				return fmt.Errorf("failed to create lineup_assignments table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS rider_availability (
					team_id BIGINT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
					event_date DATE NOT NULL,
					rider_id BIGINT NOT NULL REFERENCES riders(id) ON DELETE CASCADE,
					status VARCHAR(12) NOT NULL CHECK (status IN ('available','unavailable','maybe')),
					note VARCHAR(255),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					PRIMARY KEY (team_id, event_date, rider_id)
				);
			`); err != nil {
				return fmt.Errorf("failed to create rider_availability table: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping lineup tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				DROP TABLE IF EXISTS rider_availability;
				DROP TABLE IF EXISTS lineup_assignments;
			`); err != nil {
				return fmt.Errorf("failed to drop lineup tables: %w", err)
			}
			return nil
		})
	})
}
