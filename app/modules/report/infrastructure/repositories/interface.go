package reportdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository reads the cross-module views behind the reports.
type Repository interface {
	LineupRows(ctx context.Context, db bun.IDB, filter LineupFilter) ([]LineupRow, error)
	TeamSummaries(ctx context.Context, db bun.IDB, filter TeamFilter) ([]TeamSummary, error)
	CategoryCounts(ctx context.Context, db bun.IDB, filter RiderFilter) ([]CategoryCount, error)
}
