package rosterhandlers

import (
	"context"

	rosterservice "github.com/zrl-league/zrl-manager/app/modules/roster/application"
	rosterdb "github.com/zrl-league/zrl-manager/app/modules/roster/infrastructure/repositories"
)

// FakeService is a programmable rosterservice.Service.
type FakeService struct {
	trace []string

	CreateRiderFunc           func(ctx context.Context, req rosterservice.CreateRiderRequest) (*rosterdb.Rider, error)
	GetRiderFunc              func(ctx context.Context, riderID int64) (*rosterdb.Rider, error)
	ListRidersFunc            func(ctx context.Context, q rosterservice.RiderQuery) ([]rosterdb.Rider, error)
	SetRiderActiveFunc        func(ctx context.Context, riderID int64, active bool) (*rosterdb.Rider, error)
	ImportRidersFunc          func(ctx context.Context, filename string, data []byte) (*rosterservice.ImportSummary, error)
	CreateLeagueFunc          func(ctx context.Context, req rosterservice.LeagueRequest) (*rosterdb.League, error)
	ListLeaguesFunc           func(ctx context.Context) ([]rosterdb.League, error)
	UpdateLeagueFunc          func(ctx context.Context, leagueID int64, req rosterservice.LeagueRequest) (*rosterdb.League, error)
	DeleteLeagueFunc          func(ctx context.Context, leagueID int64) (*rosterservice.LeagueDeletion, error)
	CreateTeamFunc            func(ctx context.Context, req rosterservice.TeamRequest) (*rosterdb.Team, error)
	GetTeamFunc               func(ctx context.Context, teamID int64) (*rosterdb.Team, error)
	ListTeamsFunc             func(ctx context.Context, q rosterservice.TeamQuery) ([]rosterdb.Team, error)
	UpdateTeamFunc            func(ctx context.Context, teamID int64, req rosterservice.TeamRequest) (*rosterdb.Team, error)
	DeleteTeamFunc            func(ctx context.Context, teamID int64) (*rosterservice.TeamDeletion, error)
	AddRiderToRosterFunc      func(ctx context.Context, teamID, riderID int64) error
	RemoveRiderFromRosterFunc func(ctx context.Context, teamID, riderID int64) (*rosterservice.RosterRemoval, error)
	ListRosterFunc            func(ctx context.Context, teamID int64) ([]rosterdb.Rider, error)
	AssignCaptainFunc         func(ctx context.Context, teamID int64, riderID *int64) (*rosterservice.CaptainChange, error)
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeService) CreateRider(ctx context.Context, req rosterservice.CreateRiderRequest) (*rosterdb.Rider, error) {
	f.record("CreateRider")
	if f.CreateRiderFunc != nil {
		return f.CreateRiderFunc(ctx, req)
	}
	return nil, nil
}

func (f *FakeService) GetRider(ctx context.Context, riderID int64) (*rosterdb.Rider, error) {
	f.record("GetRider")
	if f.GetRiderFunc != nil {
		return f.GetRiderFunc(ctx, riderID)
	}
	return nil, nil
}

func (f *FakeService) ListRiders(ctx context.Context, q rosterservice.RiderQuery) ([]rosterdb.Rider, error) {
	f.record("ListRiders")
	if f.ListRidersFunc != nil {
		return f.ListRidersFunc(ctx, q)
	}
	return nil, nil
}

func (f *FakeService) SetRiderActive(ctx context.Context, riderID int64, active bool) (*rosterdb.Rider, error) {
	f.record("SetRiderActive")
	if f.SetRiderActiveFunc != nil {
		return f.SetRiderActiveFunc(ctx, riderID, active)
	}
	return nil, nil
}

func (f *FakeService) ImportRiders(ctx context.Context, filename string, data []byte) (*rosterservice.ImportSummary, error) {
	f.record("ImportRiders")
	if f.ImportRidersFunc != nil {
		return f.ImportRidersFunc(ctx, filename, data)
	}
	return nil, nil
}

func (f *FakeService) CreateLeague(ctx context.Context, req rosterservice.LeagueRequest) (*rosterdb.League, error) {
	f.record("CreateLeague")
	if f.CreateLeagueFunc != nil {
		return f.CreateLeagueFunc(ctx, req)
	}
	return nil, nil
}

func (f *FakeService) ListLeagues(ctx context.Context) ([]rosterdb.League, error) {
	f.record("ListLeagues")
	if f.ListLeaguesFunc != nil {
		return f.ListLeaguesFunc(ctx)
	}
	return nil, nil
}

func (f *FakeService) UpdateLeague(ctx context.Context, leagueID int64, req rosterservice.LeagueRequest) (*rosterdb.League, error) {
	f.record("UpdateLeague")
	if f.UpdateLeagueFunc != nil {
		return f.UpdateLeagueFunc(ctx, leagueID, req)
	}
	return nil, nil
}

func (f *FakeService) DeleteLeague(ctx context.Context, leagueID int64) (*rosterservice.LeagueDeletion, error) {
	f.record("DeleteLeague")
	if f.DeleteLeagueFunc != nil {
		return f.DeleteLeagueFunc(ctx, leagueID)
	}
	return nil, nil
}

func (f *FakeService) CreateTeam(ctx context.Context, req rosterservice.TeamRequest) (*rosterdb.Team, error) {
	f.record("CreateTeam")
	if f.CreateTeamFunc != nil {
		return f.CreateTeamFunc(ctx, req)
	}
	return nil, nil
}

func (f *FakeService) GetTeam(ctx context.Context, teamID int64) (*rosterdb.Team, error) {
	f.record("GetTeam")
	if f.GetTeamFunc != nil {
		return f.GetTeamFunc(ctx, teamID)
	}
	return nil, nil
}

func (f *FakeService) ListTeams(ctx context.Context, q rosterservice.TeamQuery) ([]rosterdb.Team, error) {
	f.record("ListTeams")
	if f.ListTeamsFunc != nil {
		return f.ListTeamsFunc(ctx, q)
	}
	return nil, nil
}

func (f *FakeService) UpdateTeam(ctx context.Context, teamID int64, req rosterservice.TeamRequest) (*rosterdb.Team, error) {
	f.record("UpdateTeam")
	if f.UpdateTeamFunc != nil {
		return f.UpdateTeamFunc(ctx, teamID, req)
	}
	return nil, nil
}

func (f *FakeService) DeleteTeam(ctx context.Context, teamID int64) (*rosterservice.TeamDeletion, error) {
	f.record("DeleteTeam")
	if f.DeleteTeamFunc != nil {
		return f.DeleteTeamFunc(ctx, teamID)
	}
	return nil, nil
}

func (f *FakeService) AddRiderToRoster(ctx context.Context, teamID, riderID int64) error {
	f.record("AddRiderToRoster")
	if f.AddRiderToRosterFunc != nil {
		return f.AddRiderToRosterFunc(ctx, teamID, riderID)
	}
	return nil
}

func (f *FakeService) RemoveRiderFromRoster(ctx context.Context, teamID, riderID int64) (*rosterservice.RosterRemoval, error) {
	f.record("RemoveRiderFromRoster")
	if f.RemoveRiderFromRosterFunc != nil {
		return f.RemoveRiderFromRosterFunc(ctx, teamID, riderID)
	}
	return nil, nil
}

func (f *FakeService) ListRoster(ctx context.Context, teamID int64) ([]rosterdb.Rider, error) {
	f.record("ListRoster")
	if f.ListRosterFunc != nil {
		return f.ListRosterFunc(ctx, teamID)
	}
	return nil, nil
}

func (f *FakeService) AssignCaptain(ctx context.Context, teamID int64, riderID *int64) (*rosterservice.CaptainChange, error) {
	f.record("AssignCaptain")
	if f.AssignCaptainFunc != nil {
		return f.AssignCaptainFunc(ctx, teamID, riderID)
	}
	return nil, nil
}

var _ rosterservice.Service = (*FakeService)(nil)
