package scheduledb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/zrl-league/zrl-manager/app/shared/dbutil"
)

var (
	// ErrNotFound is returned when a season, round or event does not exist.
	ErrNotFound = errors.New("schedule record not found")
	// ErrAlreadyExists is returned when an insert hits a unique key.
	ErrAlreadyExists = errors.New("schedule record already exists")
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new schedule repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

// dateArg renders a calendar date so comparisons against DATE columns do not
// depend on the session time zone.
func dateArg(t time.Time) string {
	return t.Format(time.DateOnly)
}

func expectRows(res sql.Result, what string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for %s: %w", what, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func insertErr(err error, what string) error {
	if dbutil.IsUniqueViolation(err, "") {
		return ErrAlreadyExists
	}
	return fmt.Errorf("failed to create %s: %w", what, err)
}

// --- Seasons ---

func (r *Impl) GetSeason(ctx context.Context, db bun.IDB, seasonID int64) (*Season, error) {
	db = r.resolveDB(db)
	season := new(Season)
	if err := db.NewSelect().Model(season).Where("s.id = ?", seasonID).Scan(ctx); err != nil {
		return nil, notFound(err, "season")
	}
	return season, nil
}

func (r *Impl) GetSeasonForUpdate(ctx context.Context, db bun.IDB, seasonID int64) (*Season, error) {
	db = r.resolveDB(db)
	season := new(Season)
	if err := db.NewSelect().Model(season).Where("s.id = ?", seasonID).For("UPDATE").Scan(ctx); err != nil {
		return nil, notFound(err, "season")
	}
	return season, nil
}

func (r *Impl) GetSeasonByYears(ctx context.Context, db bun.IDB, startYear, endYear int) (*Season, error) {
	db = r.resolveDB(db)
	season := new(Season)
	err := db.NewSelect().Model(season).
		Where("s.start_year = ?", startYear).
		Where("s.end_year = ?", endYear).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err, "season")
	}
	return season, nil
}

func (r *Impl) ListSeasons(ctx context.Context, db bun.IDB) ([]Season, error) {
	db = r.resolveDB(db)
	var seasons []Season
	if err := db.NewSelect().Model(&seasons).Order("s.start_year DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}
	return seasons, nil
}

func (r *Impl) CreateSeason(ctx context.Context, db bun.IDB, season *Season) error {
	db = r.resolveDB(db)
	season.CreatedAt = time.Now().UTC()
	if _, err := db.NewInsert().Model(season).Returning("id").Exec(ctx); err != nil {
		return insertErr(err, "season")
	}
	return nil
}

// --- Rounds ---

func (r *Impl) GetRound(ctx context.Context, db bun.IDB, roundID int64) (*Round, error) {
	db = r.resolveDB(db)
	round := new(Round)
	if err := db.NewSelect().Model(round).Where("rd.id = ?", roundID).Scan(ctx); err != nil {
		return nil, notFound(err, "round")
	}
	return round, nil
}

func (r *Impl) ListRounds(ctx context.Context, db bun.IDB, seasonID int64) ([]Round, error) {
	db = r.resolveDB(db)
	var rounds []Round
	err := db.NewSelect().Model(&rounds).
		Where("rd.season_id = ?", seasonID).
		Order("rd.number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	return rounds, nil
}

func (r *Impl) NextRoundNumber(ctx context.Context, db bun.IDB, seasonID int64) (int, error) {
	db = r.resolveDB(db)
	var next int
	err := db.NewSelect().
		Model((*Round)(nil)).
		ColumnExpr("COALESCE(MAX(rd.number), 0) + 1").
		Where("rd.season_id = ?", seasonID).
		Scan(ctx, &next)
	if err != nil {
		return 0, fmt.Errorf("failed to compute next round number: %w", err)
	}
	return next, nil
}

func (r *Impl) CreateRound(ctx context.Context, db bun.IDB, round *Round) error {
	db = r.resolveDB(db)
	round.CreatedAt = time.Now().UTC()
	if _, err := db.NewInsert().Model(round).Returning("id").Exec(ctx); err != nil {
		return insertErr(err, "round")
	}
	return nil
}

func (r *Impl) UpdateRound(ctx context.Context, db bun.IDB, round *Round) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model(round).
		Column("number", "name", "start_date", "end_date").
		WherePK().
		Exec(ctx)
	if err != nil {
		if dbutil.IsUniqueViolation(err, "") {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to update round: %w", err)
	}
	return expectRows(res, "round")
}

// DeleteRound removes the round and, by cascade, its events.
func (r *Impl) DeleteRound(ctx context.Context, db bun.IDB, roundID int64) error {
	db = r.resolveDB(db)
	res, err := db.NewDelete().
		Model((*Round)(nil)).
		Where("id = ?", roundID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete round: %w", err)
	}
	return expectRows(res, "round")
}

// --- Events ---

func (r *Impl) GetEvent(ctx context.Context, db bun.IDB, eventID int64) (*Event, error) {
	db = r.resolveDB(db)
	event := new(Event)
	if err := db.NewSelect().Model(event).Where("e.id = ?", eventID).Scan(ctx); err != nil {
		return nil, notFound(err, "event")
	}
	return event, nil
}

func (r *Impl) ListEvents(ctx context.Context, db bun.IDB, filter EventFilter) ([]Event, error) {
	db = r.resolveDB(db)
	var events []Event
	q := db.NewSelect().Model(&events)

	if filter.RoundID != 0 {
		q = q.Where("e.round_id = ?", filter.RoundID)
	}
	if filter.SeasonID != 0 {
		q = q.Where("e.round_id IN (?)", db.NewSelect().
			Model((*Round)(nil)).
			Column("id").
			Where("season_id = ?", filter.SeasonID))
	}
	if filter.LeagueID != 0 {
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("e.league_id IS NULL").WhereOr("e.league_id = ?", filter.LeagueID)
		})
	}
	if !filter.From.IsZero() {
		q = q.Where("e.event_date >= ?::date", dateArg(filter.From))
	}
	if !filter.To.IsZero() {
		q = q.Where("e.event_date <= ?::date", dateArg(filter.To))
	}
	if filter.Active != nil {
		q = q.Where("e.active = ?", *filter.Active)
	}

	if err := q.Order("e.event_date ASC", "e.id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (r *Impl) CreateEvent(ctx context.Context, db bun.IDB, event *Event) error {
	db = r.resolveDB(db)
	event.CreatedAt = time.Now().UTC()
	if _, err := db.NewInsert().Model(event).Returning("id").Exec(ctx); err != nil {
		return insertErr(err, "event")
	}
	return nil
}

func (r *Impl) DeleteEvent(ctx context.Context, db bun.IDB, eventID int64) error {
	db = r.resolveDB(db)
	res, err := db.NewDelete().
		Model((*Event)(nil)).
		Where("id = ?", eventID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return expectRows(res, "event")
}

func (r *Impl) NextEvent(ctx context.Context, db bun.IDB, from time.Time, leagueID *int64) (*Event, error) {
	db = r.resolveDB(db)
	event := new(Event)
	q := db.NewSelect().Model(event).Where("e.event_date >= ?::date", dateArg(from))
	if leagueID != nil {
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("e.league_id IS NULL").WhereOr("e.league_id = ?", *leagueID)
		})
	} else {
		q = q.Where("e.league_id IS NULL")
	}
	if err := q.Order("e.event_date ASC", "e.id ASC").Limit(1).Scan(ctx); err != nil {
		return nil, notFound(err, "next event")
	}
	return event, nil
}

func (r *Impl) EarliestEventDate(ctx context.Context, db bun.IDB, from time.Time) (*time.Time, error) {
	db = r.resolveDB(db)
	var date sql.NullTime
	err := db.NewSelect().
		Model((*Event)(nil)).
		ColumnExpr("MIN(e.event_date)").
		Where("e.event_date >= ?::date", dateArg(from)).
		Scan(ctx, &date)
	if err != nil {
		return nil, fmt.Errorf("failed to find earliest event date: %w", err)
	}
	if !date.Valid {
		return nil, nil
	}
	d := date.Time.UTC()
	return &d, nil
}

func (r *Impl) SetActiveDate(ctx context.Context, db bun.IDB, date *time.Time) (int, error) {
	db = r.resolveDB(db)
	q := db.NewUpdate().Model((*Event)(nil))
	if date == nil {
		q = q.Set("active = FALSE").Where("e.active")
	} else {
		q = q.Set("active = (e.event_date = ?::date)", dateArg(*date)).
			Where("e.active <> (e.event_date = ?::date)", dateArg(*date))
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to update active events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected for active events: %w", err)
	}
	return int(n), nil
}
