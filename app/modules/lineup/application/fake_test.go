package lineupservice

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	lineupdb "github.com/zrl-league/zrl-manager/app/modules/lineup/infrastructure/repositories"
	rosterdb "github.com/zrl-league/zrl-manager/app/modules/roster/infrastructure/repositories"
)

// ------------------------
// Fake Lineup Repo
// ------------------------

type FakeLineupRepo struct {
	trace []string

	LockTeamDateFunc           func(ctx context.Context, db bun.IDB, teamID int64, date time.Time) error
	ListLineupFunc             func(ctx context.Context, db bun.IDB, teamID int64, date time.Time) ([]lineupdb.LineupRider, error)
	ConflictingAssignmentsFunc func(ctx context.Context, db bun.IDB, date time.Time, riderIDs []int64, teamID int64) ([]lineupdb.Assignment, error)
	ReplaceLineupFunc          func(ctx context.Context, db bun.IDB, teamID int64, date time.Time, riderIDs []int64) error
	DeleteAssignmentFunc       func(ctx context.Context, db bun.IDB, teamID int64, date time.Time, riderID int64) (bool, error)
	UpsertAvailabilityFunc     func(ctx context.Context, db bun.IDB, availability *lineupdb.Availability) error
	ListAvailabilityFunc       func(ctx context.Context, db bun.IDB, teamID int64, date time.Time) ([]lineupdb.AvailabilityEntry, error)
}

func NewFakeLineupRepo() *FakeLineupRepo {
	return &FakeLineupRepo{trace: []string{}}
}

func (f *FakeLineupRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeLineupRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeLineupRepo) LockTeamDate(ctx context.Context, db bun.IDB, teamID int64, date time.Time) error {
	f.record("LockTeamDate")
	if f.LockTeamDateFunc != nil {
		return f.LockTeamDateFunc(ctx, db, teamID, date)
	}
	return nil
}

func (f *FakeLineupRepo) ListLineup(ctx context.Context, db bun.IDB, teamID int64, date time.Time) ([]lineupdb.LineupRider, error) {
	f.record("ListLineup")
	if f.ListLineupFunc != nil {
		return f.ListLineupFunc(ctx, db, teamID, date)
	}
	return nil, nil
}

func (f *FakeLineupRepo) ConflictingAssignments(ctx context.Context, db bun.IDB, date time.Time, riderIDs []int64, teamID int64) ([]lineupdb.Assignment, error) {
	f.record("ConflictingAssignments")
	if f.ConflictingAssignmentsFunc != nil {
		return f.ConflictingAssignmentsFunc(ctx, db, date, riderIDs, teamID)
	}
	return nil, nil
}

func (f *FakeLineupRepo) ReplaceLineup(ctx context.Context, db bun.IDB, teamID int64, date time.Time, riderIDs []int64) error {
	f.record("ReplaceLineup")
	if f.ReplaceLineupFunc != nil {
		return f.ReplaceLineupFunc(ctx, db, teamID, date, riderIDs)
	}
	return nil
}

func (f *FakeLineupRepo) DeleteAssignment(ctx context.Context, db bun.IDB, teamID int64, date time.Time, riderID int64) (bool, error) {
	f.record("DeleteAssignment")
	if f.DeleteAssignmentFunc != nil {
		return f.DeleteAssignmentFunc(ctx, db, teamID, date, riderID)
	}
	return false, nil
}

func (f *FakeLineupRepo) UpsertAvailability(ctx context.Context, db bun.IDB, availability *lineupdb.Availability) error {
	f.record("UpsertAvailability")
	if f.UpsertAvailabilityFunc != nil {
		return f.UpsertAvailabilityFunc(ctx, db, availability)
	}
	return nil
}

func (f *FakeLineupRepo) ListAvailability(ctx context.Context, db bun.IDB, teamID int64, date time.Time) ([]lineupdb.AvailabilityEntry, error) {
	f.record("ListAvailability")
	if f.ListAvailabilityFunc != nil {
		return f.ListAvailabilityFunc(ctx, db, teamID, date)
	}
	return nil, nil
}

var _ lineupdb.Repository = (*FakeLineupRepo)(nil)

// ------------------------
// Fake Roster Reader
// ------------------------

type FakeRoster struct {
	Teams   map[int64]*rosterdb.Team
	Members map[int64][]rosterdb.Rider
}

func NewFakeRoster() *FakeRoster {
	return &FakeRoster{Teams: map[int64]*rosterdb.Team{}, Members: map[int64][]rosterdb.Rider{}}
}

func (f *FakeRoster) team(id int64, riders ...rosterdb.Rider) *FakeRoster {
	f.Teams[id] = &rosterdb.Team{ID: id, Name: "team", Category: "B"}
	f.Members[id] = append(f.Members[id], riders...)
	return f
}

func (f *FakeRoster) GetTeam(_ context.Context, _ bun.IDB, teamID int64) (*rosterdb.Team, error) {
	t, ok := f.Teams[teamID]
	if !ok {
		return nil, rosterdb.ErrNotFound
	}
	return t, nil
}

func (f *FakeRoster) ListRoster(_ context.Context, _ bun.IDB, teamID int64) ([]rosterdb.Rider, error) {
	return f.Members[teamID], nil
}

var _ RosterReader = (*FakeRoster)(nil)

// ------------------------
// Fake Event Date Resolver
// ------------------------

type FakeResolver struct {
	Date  time.Time
	Err   error
	Calls int
}

func (f *FakeResolver) NextEventDate(_ context.Context, _ bun.IDB, _ int64) (time.Time, error) {
	f.Calls++
	return f.Date, f.Err
}

var _ EventDateResolver = (*FakeResolver)(nil)
