package auditmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating audit_entries table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS audit_entries (
					id UUID PRIMARY KEY,
					message_id VARCHAR(64) NOT NULL,
					topic VARCHAR(128) NOT NULL,
					correlation_id VARCHAR(64),
					payload JSONB NOT NULL,
					recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT uq_audit_entries_message_id UNIQUE (message_id)
				);
				CREATE INDEX IF NOT EXISTS idx_audit_entries_topic_recorded
					ON audit_entries(topic, recorded_at DESC);
			`); err != nil {
				return fmt.Errorf("failed to create audit_entries table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping audit_entries table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS audit_entries;`); err != nil {
				return fmt.Errorf("failed to drop audit_entries table: %w", err)
			}
			return nil
		})
	})
}
