package scheduleservice

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	rosterdb "github.com/zrl-league/zrl-manager/app/modules/roster/infrastructure/repositories"
	scheduledb "github.com/zrl-league/zrl-manager/app/modules/schedule/infrastructure/repositories"
)

// ------------------------
// Fake Schedule Repo
// ------------------------

type FakeScheduleRepo struct {
	trace []string

	GetSeasonFunc          func(ctx context.Context, db bun.IDB, seasonID int64) (*scheduledb.Season, error)
	GetSeasonForUpdateFunc func(ctx context.Context, db bun.IDB, seasonID int64) (*scheduledb.Season, error)
	GetSeasonByYearsFunc   func(ctx context.Context, db bun.IDB, startYear, endYear int) (*scheduledb.Season, error)
	ListSeasonsFunc        func(ctx context.Context, db bun.IDB) ([]scheduledb.Season, error)
	CreateSeasonFunc       func(ctx context.Context, db bun.IDB, season *scheduledb.Season) error
	GetRoundFunc           func(ctx context.Context, db bun.IDB, roundID int64) (*scheduledb.Round, error)
	ListRoundsFunc         func(ctx context.Context, db bun.IDB, seasonID int64) ([]scheduledb.Round, error)
	NextRoundNumberFunc    func(ctx context.Context, db bun.IDB, seasonID int64) (int, error)
	CreateRoundFunc        func(ctx context.Context, db bun.IDB, round *scheduledb.Round) error
	UpdateRoundFunc        func(ctx context.Context, db bun.IDB, round *scheduledb.Round) error
	DeleteRoundFunc        func(ctx context.Context, db bun.IDB, roundID int64) error
	GetEventFunc           func(ctx context.Context, db bun.IDB, eventID int64) (*scheduledb.Event, error)
	ListEventsFunc         func(ctx context.Context, db bun.IDB, filter scheduledb.EventFilter) ([]scheduledb.Event, error)
	CreateEventFunc        func(ctx context.Context, db bun.IDB, event *scheduledb.Event) error
	DeleteEventFunc        func(ctx context.Context, db bun.IDB, eventID int64) error
	NextEventFunc          func(ctx context.Context, db bun.IDB, from time.Time, leagueID *int64) (*scheduledb.Event, error)
	EarliestEventDateFunc  func(ctx context.Context, db bun.IDB, from time.Time) (*time.Time, error)
	SetActiveDateFunc      func(ctx context.Context, db bun.IDB, date *time.Time) (int, error)
}

func NewFakeScheduleRepo() *FakeScheduleRepo {
	return &FakeScheduleRepo{trace: []string{}}
}

func (f *FakeScheduleRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeScheduleRepo) GetSeason(ctx context.Context, db bun.IDB, seasonID int64) (*scheduledb.Season, error) {
	f.record("GetSeason")
	if f.GetSeasonFunc != nil {
		return f.GetSeasonFunc(ctx, db, seasonID)
	}
	return nil, scheduledb.ErrNotFound
}

func (f *FakeScheduleRepo) GetSeasonForUpdate(ctx context.Context, db bun.IDB, seasonID int64) (*scheduledb.Season, error) {
	f.record("GetSeasonForUpdate")
	if f.GetSeasonForUpdateFunc != nil {
		return f.GetSeasonForUpdateFunc(ctx, db, seasonID)
	}
	return nil, scheduledb.ErrNotFound
}

func (f *FakeScheduleRepo) GetSeasonByYears(ctx context.Context, db bun.IDB, startYear, endYear int) (*scheduledb.Season, error) {
	f.record("GetSeasonByYears")
	if f.GetSeasonByYearsFunc != nil {
		return f.GetSeasonByYearsFunc(ctx, db, startYear, endYear)
	}
	return nil, scheduledb.ErrNotFound
}

func (f *FakeScheduleRepo) ListSeasons(ctx context.Context, db bun.IDB) ([]scheduledb.Season, error) {
	f.record("ListSeasons")
	if f.ListSeasonsFunc != nil {
		return f.ListSeasonsFunc(ctx, db)
	}
	return nil, nil
}

func (f *FakeScheduleRepo) CreateSeason(ctx context.Context, db bun.IDB, season *scheduledb.Season) error {
	f.record("CreateSeason")
	if f.CreateSeasonFunc != nil {
		return f.CreateSeasonFunc(ctx, db, season)
	}
	return nil
}

func (f *FakeScheduleRepo) GetRound(ctx context.Context, db bun.IDB, roundID int64) (*scheduledb.Round, error) {
	f.record("GetRound")
	if f.GetRoundFunc != nil {
		return f.GetRoundFunc(ctx, db, roundID)
	}
	return nil, scheduledb.ErrNotFound
}

func (f *FakeScheduleRepo) ListRounds(ctx context.Context, db bun.IDB, seasonID int64) ([]scheduledb.Round, error) {
	f.record("ListRounds")
	if f.ListRoundsFunc != nil {
		return f.ListRoundsFunc(ctx, db, seasonID)
	}
	return nil, nil
}

func (f *FakeScheduleRepo) NextRoundNumber(ctx context.Context, db bun.IDB, seasonID int64) (int, error) {
	f.record("NextRoundNumber")
	if f.NextRoundNumberFunc != nil {
		return f.NextRoundNumberFunc(ctx, db, seasonID)
	}
	return 1, nil
}

func (f *FakeScheduleRepo) CreateRound(ctx context.Context, db bun.IDB, round *scheduledb.Round) error {
	f.record("CreateRound")
	if f.CreateRoundFunc != nil {
		return f.CreateRoundFunc(ctx, db, round)
	}
	return nil
}

func (f *FakeScheduleRepo) UpdateRound(ctx context.Context, db bun.IDB, round *scheduledb.Round) error {
	f.record("UpdateRound")
	if f.UpdateRoundFunc != nil {
		return f.UpdateRoundFunc(ctx, db, round)
	}
	return nil
}

func (f *FakeScheduleRepo) DeleteRound(ctx context.Context, db bun.IDB, roundID int64) error {
	f.record("DeleteRound")
	if f.DeleteRoundFunc != nil {
		return f.DeleteRoundFunc(ctx, db, roundID)
	}
	return nil
}

func (f *FakeScheduleRepo) GetEvent(ctx context.Context, db bun.IDB, eventID int64) (*scheduledb.Event, error) {
	f.record("GetEvent")
	if f.GetEventFunc != nil {
		return f.GetEventFunc(ctx, db, eventID)
	}
	return nil, scheduledb.ErrNotFound
}

func (f *FakeScheduleRepo) ListEvents(ctx context.Context, db bun.IDB, filter scheduledb.EventFilter) ([]scheduledb.Event, error) {
	f.record("ListEvents")
	if f.ListEventsFunc != nil {
		return f.ListEventsFunc(ctx, db, filter)
	}
	return nil, nil
}

func (f *FakeScheduleRepo) CreateEvent(ctx context.Context, db bun.IDB, event *scheduledb.Event) error {
	f.record("CreateEvent")
	if f.CreateEventFunc != nil {
		return f.CreateEventFunc(ctx, db, event)
	}
	return nil
}

func (f *FakeScheduleRepo) DeleteEvent(ctx context.Context, db bun.IDB, eventID int64) error {
	f.record("DeleteEvent")
	if f.DeleteEventFunc != nil {
		return f.DeleteEventFunc(ctx, db, eventID)
	}
	return nil
}

func (f *FakeScheduleRepo) NextEvent(ctx context.Context, db bun.IDB, from time.Time, leagueID *int64) (*scheduledb.Event, error) {
	f.record("NextEvent")
	if f.NextEventFunc != nil {
		return f.NextEventFunc(ctx, db, from, leagueID)
	}
	return nil, scheduledb.ErrNotFound
}

func (f *FakeScheduleRepo) EarliestEventDate(ctx context.Context, db bun.IDB, from time.Time) (*time.Time, error) {
	f.record("EarliestEventDate")
	if f.EarliestEventDateFunc != nil {
		return f.EarliestEventDateFunc(ctx, db, from)
	}
	return nil, nil
}

func (f *FakeScheduleRepo) SetActiveDate(ctx context.Context, db bun.IDB, date *time.Time) (int, error) {
	f.record("SetActiveDate")
	if f.SetActiveDateFunc != nil {
		return f.SetActiveDateFunc(ctx, db, date)
	}
	return 0, nil
}

func (f *FakeScheduleRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ scheduledb.Repository = (*FakeScheduleRepo)(nil)

// ------------------------
// Fake Team Directory
// ------------------------

type FakeTeamDirectory struct {
	Teams   map[int64]*rosterdb.Team
	Leagues map[int64]*rosterdb.League
	Rosters map[int64][]rosterdb.Rider
}

func (f *FakeTeamDirectory) GetTeam(_ context.Context, _ bun.IDB, teamID int64) (*rosterdb.Team, error) {
	if t, ok := f.Teams[teamID]; ok {
		return t, nil
	}
	return nil, rosterdb.ErrNotFound
}

func (f *FakeTeamDirectory) GetLeague(_ context.Context, _ bun.IDB, leagueID int64) (*rosterdb.League, error) {
	if l, ok := f.Leagues[leagueID]; ok {
		return l, nil
	}
	return nil, rosterdb.ErrNotFound
}

func (f *FakeTeamDirectory) ListRoster(_ context.Context, _ bun.IDB, teamID int64) ([]rosterdb.Rider, error) {
	return f.Rosters[teamID], nil
}

var _ TeamDirectory = (*FakeTeamDirectory)(nil)
