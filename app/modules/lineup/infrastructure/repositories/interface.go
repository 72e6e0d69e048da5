package lineupdb

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Repository defines the contract for lineup persistence.
type Repository interface {
	// LockTeamDate serializes lineup writes for one team and date until the
	// surrounding transaction ends.
	LockTeamDate(ctx context.Context, db bun.IDB, teamID int64, date time.Time) error
	ListLineup(ctx context.Context, db bun.IDB, teamID int64, date time.Time) ([]LineupRider, error)
	// ConflictingAssignments returns assignments of riderIDs on date for teams
	// other than teamID.
	ConflictingAssignments(ctx context.Context, db bun.IDB, date time.Time, riderIDs []int64, teamID int64) ([]Assignment, error)
	// ReplaceLineup deletes the team's rows for date and inserts one per rider.
	// A rider already booked elsewhere yields *DoubleBookedError.
	ReplaceLineup(ctx context.Context, db bun.IDB, teamID int64, date time.Time, riderIDs []int64) error
	DeleteAssignment(ctx context.Context, db bun.IDB, teamID int64, date time.Time, riderID int64) (bool, error)

	UpsertAvailability(ctx context.Context, db bun.IDB, availability *Availability) error
	ListAvailability(ctx context.Context, db bun.IDB, teamID int64, date time.Time) ([]AvailabilityEntry, error)
}
