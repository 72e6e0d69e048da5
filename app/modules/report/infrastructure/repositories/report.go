package reportdb

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM. Every filter value
// is bound as a query argument.
type Impl struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) LineupRows(ctx context.Context, db bun.IDB, filter LineupFilter) ([]LineupRow, error) {
	db = r.resolveDB(db)
	var rows []LineupRow
	q := db.NewSelect().
		TableExpr("lineup_assignments AS la").
		ColumnExpr("t.id AS team_id, t.name AS team_name, t.category AS team_category").
		ColumnExpr("COALESCE(t.division, '') AS division, COALESCE(l.name, '') AS league_name").
		ColumnExpr("r.id AS rider_id, r.name AS rider_name, r.category AS rider_category").
		ColumnExpr("(t.captain_rider_id IS NOT NULL AND t.captain_rider_id = r.id) AS is_captain").
		Join("JOIN teams AS t ON t.id = la.team_id").
		Join("JOIN riders AS r ON r.id = la.rider_id").
		Join("LEFT JOIN leagues AS l ON l.id = t.league_id").
		Where("la.event_date = ?::date", filter.EventDate.Format(time.DateOnly))

	if filter.LeagueID != nil {
		q = q.Where("t.league_id = ?", *filter.LeagueID)
	}
	if len(filter.Categories) > 0 {
		q = q.Where("t.category IN (?)", bun.In(filter.Categories))
	}
	if filter.Division != "" {
		q = q.Where("t.division = ?", filter.Division)
	}

	if err := q.OrderExpr("t.name ASC, t.id ASC, r.name ASC").Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to query lineup rows: %w", err)
	}
	return rows, nil
}

func (r *Impl) TeamSummaries(ctx context.Context, db bun.IDB, filter TeamFilter) ([]TeamSummary, error) {
	db = r.resolveDB(db)
	var rows []TeamSummary
	q := db.NewSelect().
		TableExpr("teams AS t").
		ColumnExpr("t.id AS team_id, t.name, t.category, COALESCE(t.division, '') AS division").
		ColumnExpr("COALESCE(l.name, '') AS league_name").
		ColumnExpr("COUNT(rt.rider_id) AS rider_count").
		ColumnExpr("COALESCE(c.name, '') AS captain_name").
		Join("LEFT JOIN leagues AS l ON l.id = t.league_id").
		Join("LEFT JOIN rider_teams AS rt ON rt.team_id = t.id").
		Join("LEFT JOIN riders AS c ON c.id = t.captain_rider_id").
		GroupExpr("t.id, l.name, c.name")

	if filter.LeagueID != nil {
		q = q.Where("t.league_id = ?", *filter.LeagueID)
	}
	if len(filter.Categories) > 0 {
		q = q.Where("t.category IN (?)", bun.In(filter.Categories))
	}
	if filter.Division != "" {
		q = q.Where("t.division = ?", filter.Division)
	}

	if err := q.OrderExpr("t.name ASC, t.id ASC").Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to query team summaries: %w", err)
	}
	return rows, nil
}

func (r *Impl) CategoryCounts(ctx context.Context, db bun.IDB, filter RiderFilter) ([]CategoryCount, error) {
	db = r.resolveDB(db)
	var rows []CategoryCount
	q := db.NewSelect().
		TableExpr("riders AS r").
		ColumnExpr("r.category, COUNT(DISTINCT r.id) AS riders").
		Where("r.active")

	if filter.TeamID != nil || filter.LeagueID != nil {
		q = q.Join("JOIN rider_teams AS rt ON rt.rider_id = r.id").
			Join("JOIN teams AS t ON t.id = rt.team_id")
	}
	if filter.TeamID != nil {
		q = q.Where("t.id = ?", *filter.TeamID)
	}
	if filter.LeagueID != nil {
		q = q.Where("t.league_id = ?", *filter.LeagueID)
	}

	if err := q.GroupExpr("r.category").OrderExpr("r.category ASC").Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to count riders by category: %w", err)
	}
	return rows, nil
}
