package lineupdb

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/uptrace/bun"

	"github.com/zrl-league/zrl-manager/app/shared/dbutil"
)

// DoubleBookingConstraint is the unique key that allows one assignment per
// rider and date across all teams.
const DoubleBookingConstraint = "uq_lineup_assignments_event_date_rider"

// DoubleBookedError reports that the database rejected an insert because the
// rider already races for another team that day. RiderIDs is empty when the
// server did not name the rider.
type DoubleBookedError struct {
	RiderIDs []int64
}

func (e *DoubleBookedError) Error() string {
	return fmt.Sprintf("riders %v already assigned on this date", e.RiderIDs)
}

var conflictKey = regexp.MustCompile(`\(event_date, rider_id\)=\([^,]+, (\d+)\)`)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new lineup repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func dateArg(t time.Time) string {
	return t.Format(time.DateOnly)
}

// LockKey names the advisory lock guarding a team's lineup on date.
func LockKey(teamID int64, date time.Time) string {
	return fmt.Sprintf("lineup:%d:%s", teamID, dateArg(date))
}

func (r *Impl) LockTeamDate(ctx context.Context, db bun.IDB, teamID int64, date time.Time) error {
	return dbutil.AdvisoryXactLock(ctx, r.resolveDB(db), LockKey(teamID, date))
}

func (r *Impl) ListLineup(ctx context.Context, db bun.IDB, teamID int64, date time.Time) ([]LineupRider, error) {
	db = r.resolveDB(db)
	var riders []LineupRider
	err := db.NewSelect().
		Model((*Assignment)(nil)).
		ColumnExpr("la.rider_id, r.name, r.category, r.active").
		Join("JOIN riders AS r ON r.id = la.rider_id").
		Where("la.team_id = ?", teamID).
		Where("la.event_date = ?::date", dateArg(date)).
		Order("la.id ASC").
		Scan(ctx, &riders)
	if err != nil {
		return nil, fmt.Errorf("failed to list lineup: %w", err)
	}
	return riders, nil
}

func (r *Impl) ConflictingAssignments(ctx context.Context, db bun.IDB, date time.Time, riderIDs []int64, teamID int64) ([]Assignment, error) {
	if len(riderIDs) == 0 {
		return nil, nil
	}
	db = r.resolveDB(db)
	var rows []Assignment
	err := db.NewSelect().
		Model(&rows).
		Where("la.event_date = ?::date", dateArg(date)).
		Where("la.rider_id IN (?)", bun.In(riderIDs)).
		Where("la.team_id <> ?", teamID).
		Order("la.rider_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find conflicting assignments: %w", err)
	}
	return rows, nil
}

func (r *Impl) ReplaceLineup(ctx context.Context, db bun.IDB, teamID int64, date time.Time, riderIDs []int64) error {
	db = r.resolveDB(db)
	_, err := db.NewDelete().
		Model((*Assignment)(nil)).
		Where("team_id = ?", teamID).
		Where("event_date = ?::date", dateArg(date)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear lineup: %w", err)
	}
	if len(riderIDs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	rows := make([]Assignment, len(riderIDs))
	for i, id := range riderIDs {
		rows[i] = Assignment{TeamID: teamID, EventDate: date, RiderID: id, CreatedAt: now}
	}
	if _, err := db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		if dbutil.IsUniqueViolation(err, DoubleBookingConstraint) {
			return &DoubleBookedError{RiderIDs: parseConflict(dbutil.UniqueViolationDetail(err))}
		}
		return fmt.Errorf("failed to insert lineup: %w", err)
	}
	return nil
}

// parseConflict extracts the rider id from a unique violation detail such as
// "Key (event_date, rider_id)=(2025-11-04, 7) already exists."
func parseConflict(detail string) []int64 {
	m := conflictKey.FindStringSubmatch(detail)
	if m == nil {
		return nil
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return nil
	}
	return []int64{id}
}

func (r *Impl) DeleteAssignment(ctx context.Context, db bun.IDB, teamID int64, date time.Time, riderID int64) (bool, error) {
	db = r.resolveDB(db)
	res, err := db.NewDelete().
		Model((*Assignment)(nil)).
		Where("team_id = ?", teamID).
		Where("event_date = ?::date", dateArg(date)).
		Where("rider_id = ?", riderID).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to delete assignment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected for assignment: %w", err)
	}
	return n > 0, nil
}

func (r *Impl) UpsertAvailability(ctx context.Context, db bun.IDB, availability *Availability) error {
	db = r.resolveDB(db)
	availability.UpdatedAt = time.Now().UTC()
	_, err := db.NewInsert().
		Model(availability).
		On("CONFLICT (team_id, event_date, rider_id) DO UPDATE").
		Set("status = EXCLUDED.status").
		Set("note = EXCLUDED.note").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert availability: %w", err)
	}
	return nil
}

func (r *Impl) ListAvailability(ctx context.Context, db bun.IDB, teamID int64, date time.Time) ([]AvailabilityEntry, error) {
	db = r.resolveDB(db)
	var entries []AvailabilityEntry
	err := db.NewSelect().
		Model((*Availability)(nil)).
		ColumnExpr("av.rider_id, r.name, av.status, av.note, av.updated_at").
		Join("JOIN riders AS r ON r.id = av.rider_id").
		Where("av.team_id = ?", teamID).
		Where("av.event_date = ?::date", dateArg(date)).
		Order("r.name ASC").
		Scan(ctx, &entries)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability: %w", err)
	}
	return entries, nil
}
