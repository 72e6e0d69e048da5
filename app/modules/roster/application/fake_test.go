package rosterservice

import (
	"context"

	"github.com/uptrace/bun"

	rosterdb "github.com/zrl-league/zrl-manager/app/modules/roster/infrastructure/repositories"
)

// ------------------------
// Fake Roster Repo
// ------------------------

type FakeRosterRepo struct {
	trace []string

	GetRiderFunc              func(ctx context.Context, db bun.IDB, riderID int64) (*rosterdb.Rider, error)
	GetRiderForUpdateFunc     func(ctx context.Context, db bun.IDB, riderID int64) (*rosterdb.Rider, error)
	ListRidersFunc            func(ctx context.Context, db bun.IDB, filter rosterdb.RiderFilter) ([]rosterdb.Rider, error)
	CreateRiderFunc           func(ctx context.Context, db bun.IDB, rider *rosterdb.Rider) error
	UpsertRiderFunc           func(ctx context.Context, db bun.IDB, rider *rosterdb.Rider) (bool, error)
	SetRiderActiveFunc        func(ctx context.Context, db bun.IDB, riderID int64, active bool) error
	SetRiderCaptainFlagFunc   func(ctx context.Context, db bun.IDB, riderID int64, captain bool) error
	GetLeagueFunc             func(ctx context.Context, db bun.IDB, leagueID int64) (*rosterdb.League, error)
	ListLeaguesFunc           func(ctx context.Context, db bun.IDB) ([]rosterdb.League, error)
	CreateLeagueFunc          func(ctx context.Context, db bun.IDB, league *rosterdb.League) error
	UpdateLeagueFunc          func(ctx context.Context, db bun.IDB, league *rosterdb.League) error
	DeleteLeagueFunc          func(ctx context.Context, db bun.IDB, leagueID int64) error
	GetTeamFunc               func(ctx context.Context, db bun.IDB, teamID int64) (*rosterdb.Team, error)
	GetTeamForUpdateFunc      func(ctx context.Context, db bun.IDB, teamID int64) (*rosterdb.Team, error)
	ListTeamsFunc             func(ctx context.Context, db bun.IDB, filter rosterdb.TeamFilter) ([]rosterdb.Team, error)
	CreateTeamFunc            func(ctx context.Context, db bun.IDB, team *rosterdb.Team) error
	UpdateTeamFunc            func(ctx context.Context, db bun.IDB, team *rosterdb.Team) error
	DeleteTeamFunc            func(ctx context.Context, db bun.IDB, teamID int64) error
	SetTeamCaptainFunc        func(ctx context.Context, db bun.IDB, teamID int64, riderID *int64) error
	TeamCaptainedByFunc       func(ctx context.Context, db bun.IDB, riderID int64, excludeTeamID int64) (int64, error)
	ClearTeamCaptainFlagsFunc func(ctx context.Context, db bun.IDB, teamID int64) ([]int64, error)
	TeamIDsForRiderFunc       func(ctx context.Context, db bun.IDB, riderID int64) ([]int64, error)
	UpsertMembershipFunc      func(ctx context.Context, db bun.IDB, teamID, riderID int64) error
	DeleteMembershipFunc      func(ctx context.Context, db bun.IDB, teamID, riderID int64) (bool, error)
	IsActiveMemberFunc        func(ctx context.Context, db bun.IDB, teamID, riderID int64) (bool, error)
	ListRosterFunc            func(ctx context.Context, db bun.IDB, teamID int64) ([]rosterdb.Rider, error)
}

func NewFakeRosterRepo() *FakeRosterRepo {
	return &FakeRosterRepo{
		trace: []string{},
	}
}

func (f *FakeRosterRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeRosterRepo) GetRider(ctx context.Context, db bun.IDB, riderID int64) (*rosterdb.Rider, error) {
	f.record("GetRider")
	if f.GetRiderFunc != nil {
		return f.GetRiderFunc(ctx, db, riderID)
	}
	return nil, rosterdb.ErrNotFound
}

func (f *FakeRosterRepo) GetRiderForUpdate(ctx context.Context, db bun.IDB, riderID int64) (*rosterdb.Rider, error) {
	f.record("GetRiderForUpdate")
	if f.GetRiderForUpdateFunc != nil {
		return f.GetRiderForUpdateFunc(ctx, db, riderID)
	}
	return nil, rosterdb.ErrNotFound
}

func (f *FakeRosterRepo) ListRiders(ctx context.Context, db bun.IDB, filter rosterdb.RiderFilter) ([]rosterdb.Rider, error) {
	f.record("ListRiders")
	if f.ListRidersFunc != nil {
		return f.ListRidersFunc(ctx, db, filter)
	}
	return nil, nil
}

func (f *FakeRosterRepo) CreateRider(ctx context.Context, db bun.IDB, rider *rosterdb.Rider) error {
	f.record("CreateRider")
	if f.CreateRiderFunc != nil {
		return f.CreateRiderFunc(ctx, db, rider)
	}
	return nil
}

func (f *FakeRosterRepo) UpsertRider(ctx context.Context, db bun.IDB, rider *rosterdb.Rider) (bool, error) {
	f.record("UpsertRider")
	if f.UpsertRiderFunc != nil {
		return f.UpsertRiderFunc(ctx, db, rider)
	}
	return true, nil
}

func (f *FakeRosterRepo) SetRiderActive(ctx context.Context, db bun.IDB, riderID int64, active bool) error {
	f.record("SetRiderActive")
	if f.SetRiderActiveFunc != nil {
		return f.SetRiderActiveFunc(ctx, db, riderID, active)
	}
	return nil
}

func (f *FakeRosterRepo) SetRiderCaptainFlag(ctx context.Context, db bun.IDB, riderID int64, captain bool) error {
	f.record("SetRiderCaptainFlag")
	if f.SetRiderCaptainFlagFunc != nil {
		return f.SetRiderCaptainFlagFunc(ctx, db, riderID, captain)
	}
	return nil
}

func (f *FakeRosterRepo) GetLeague(ctx context.Context, db bun.IDB, leagueID int64) (*rosterdb.League, error) {
	f.record("GetLeague")
	if f.GetLeagueFunc != nil {
		return f.GetLeagueFunc(ctx, db, leagueID)
	}
	return nil, rosterdb.ErrNotFound
}

func (f *FakeRosterRepo) ListLeagues(ctx context.Context, db bun.IDB) ([]rosterdb.League, error) {
	f.record("ListLeagues")
	if f.ListLeaguesFunc != nil {
		return f.ListLeaguesFunc(ctx, db)
	}
	return nil, nil
}

func (f *FakeRosterRepo) CreateLeague(ctx context.Context, db bun.IDB, league *rosterdb.League) error {
	f.record("CreateLeague")
	if f.CreateLeagueFunc != nil {
		return f.CreateLeagueFunc(ctx, db, league)
	}
	return nil
}

func (f *FakeRosterRepo) UpdateLeague(ctx context.Context, db bun.IDB, league *rosterdb.League) error {
	f.record("UpdateLeague")
	if f.UpdateLeagueFunc != nil {
		return f.UpdateLeagueFunc(ctx, db, league)
	}
	return nil
}

func (f *FakeRosterRepo) DeleteLeague(ctx context.Context, db bun.IDB, leagueID int64) error {
	f.record("DeleteLeague")
	if f.DeleteLeagueFunc != nil {
		return f.DeleteLeagueFunc(ctx, db, leagueID)
	}
	return nil
}

func (f *FakeRosterRepo) GetTeam(ctx context.Context, db bun.IDB, teamID int64) (*rosterdb.Team, error) {
	f.record("GetTeam")
	if f.GetTeamFunc != nil {
		return f.GetTeamFunc(ctx, db, teamID)
	}
	return nil, rosterdb.ErrNotFound
}

func (f *FakeRosterRepo) GetTeamForUpdate(ctx context.Context, db bun.IDB, teamID int64) (*rosterdb.Team, error) {
	f.record("GetTeamForUpdate")
	if f.GetTeamForUpdateFunc != nil {
		return f.GetTeamForUpdateFunc(ctx, db, teamID)
	}
	return nil, rosterdb.ErrNotFound
}

func (f *FakeRosterRepo) ListTeams(ctx context.Context, db bun.IDB, filter rosterdb.TeamFilter) ([]rosterdb.Team, error) {
	f.record("ListTeams")
	if f.ListTeamsFunc != nil {
		return f.ListTeamsFunc(ctx, db, filter)
	}
	return nil, nil
}

func (f *FakeRosterRepo) CreateTeam(ctx context.Context, db bun.IDB, team *rosterdb.Team) error {
	f.record("CreateTeam")
	if f.CreateTeamFunc != nil {
		return f.CreateTeamFunc(ctx, db, team)
	}
	return nil
}

func (f *FakeRosterRepo) UpdateTeam(ctx context.Context, db bun.IDB, team *rosterdb.Team) error {
	f.record("UpdateTeam")
	if f.UpdateTeamFunc != nil {
		return f.UpdateTeamFunc(ctx, db, team)
	}
	return nil
}

func (f *FakeRosterRepo) DeleteTeam(ctx context.Context, db bun.IDB, teamID int64) error {
	f.record("DeleteTeam")
	if f.DeleteTeamFunc != nil {
		return f.DeleteTeamFunc(ctx, db, teamID)
	}
	return nil
}

func (f *FakeRosterRepo) SetTeamCaptain(ctx context.Context, db bun.IDB, teamID int64, riderID *int64) error {
	f.record("SetTeamCaptain")
	if f.SetTeamCaptainFunc != nil {
		return f.SetTeamCaptainFunc(ctx, db, teamID, riderID)
	}
	return nil
}

func (f *FakeRosterRepo) TeamCaptainedBy(ctx context.Context, db bun.IDB, riderID int64, excludeTeamID int64) (int64, error) {
	f.record("TeamCaptainedBy")
	if f.TeamCaptainedByFunc != nil {
		return f.TeamCaptainedByFunc(ctx, db, riderID, excludeTeamID)
	}
	return 0, nil
}

func (f *FakeRosterRepo) ClearTeamCaptainFlags(ctx context.Context, db bun.IDB, teamID int64) ([]int64, error) {
	f.record("ClearTeamCaptainFlags")
	if f.ClearTeamCaptainFlagsFunc != nil {
		return f.ClearTeamCaptainFlagsFunc(ctx, db, teamID)
	}
	return nil, nil
}

func (f *FakeRosterRepo) TeamIDsForRider(ctx context.Context, db bun.IDB, riderID int64) ([]int64, error) {
	f.record("TeamIDsForRider")
	if f.TeamIDsForRiderFunc != nil {
		return f.TeamIDsForRiderFunc(ctx, db, riderID)
	}
	return nil, nil
}

func (f *FakeRosterRepo) UpsertMembership(ctx context.Context, db bun.IDB, teamID, riderID int64) error {
	f.record("UpsertMembership")
	if f.UpsertMembershipFunc != nil {
		return f.UpsertMembershipFunc(ctx, db, teamID, riderID)
	}
	return nil
}

func (f *FakeRosterRepo) DeleteMembership(ctx context.Context, db bun.IDB, teamID, riderID int64) (bool, error) {
	f.record("DeleteMembership")
	if f.DeleteMembershipFunc != nil {
		return f.DeleteMembershipFunc(ctx, db, teamID, riderID)
	}
	return false, nil
}

func (f *FakeRosterRepo) IsActiveMember(ctx context.Context, db bun.IDB, teamID, riderID int64) (bool, error) {
	f.record("IsActiveMember")
	if f.IsActiveMemberFunc != nil {
		return f.IsActiveMemberFunc(ctx, db, teamID, riderID)
	}
	return false, nil
}

func (f *FakeRosterRepo) ListRoster(ctx context.Context, db bun.IDB, teamID int64) ([]rosterdb.Rider, error) {
	f.record("ListRoster")
	if f.ListRosterFunc != nil {
		return f.ListRosterFunc(ctx, db, teamID)
	}
	return nil, nil
}

// --- Accessors for assertions ---

func (f *FakeRosterRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ rosterdb.Repository = (*FakeRosterRepo)(nil)
