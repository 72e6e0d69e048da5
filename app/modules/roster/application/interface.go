package rosterservice

import (
	"context"

	rosterdb "github.com/zrl-league/zrl-manager/app/modules/roster/infrastructure/repositories"
)

// Service is the roster API used by handlers and by the lineup module.
type Service interface {
	CreateRider(ctx context.Context, req CreateRiderRequest) (*rosterdb.Rider, error)
	GetRider(ctx context.Context, riderID int64) (*rosterdb.Rider, error)
	ListRiders(ctx context.Context, q RiderQuery) ([]rosterdb.Rider, error)
	SetRiderActive(ctx context.Context, riderID int64, active bool) (*rosterdb.Rider, error)
	ImportRiders(ctx context.Context, filename string, data []byte) (*ImportSummary, error)

	CreateLeague(ctx context.Context, req LeagueRequest) (*rosterdb.League, error)
	ListLeagues(ctx context.Context) ([]rosterdb.League, error)
	UpdateLeague(ctx context.Context, leagueID int64, req LeagueRequest) (*rosterdb.League, error)
	DeleteLeague(ctx context.Context, leagueID int64) (*LeagueDeletion, error)

	CreateTeam(ctx context.Context, req TeamRequest) (*rosterdb.Team, error)
	GetTeam(ctx context.Context, teamID int64) (*rosterdb.Team, error)
	ListTeams(ctx context.Context, q TeamQuery) ([]rosterdb.Team, error)
	UpdateTeam(ctx context.Context, teamID int64, req TeamRequest) (*rosterdb.Team, error)
	DeleteTeam(ctx context.Context, teamID int64) (*TeamDeletion, error)

	AddRiderToRoster(ctx context.Context, teamID, riderID int64) error
	RemoveRiderFromRoster(ctx context.Context, teamID, riderID int64) (*RosterRemoval, error)
	ListRoster(ctx context.Context, teamID int64) ([]rosterdb.Rider, error)
	AssignCaptain(ctx context.Context, teamID int64, riderID *int64) (*CaptainChange, error)
}

var _ Service = (*RosterService)(nil)
