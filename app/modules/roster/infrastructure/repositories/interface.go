package rosterdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for roster persistence. Every method takes the
// handle to run on; a nil handle uses the repository's default connection.
type Repository interface {
	GetRider(ctx context.Context, db bun.IDB, riderID int64) (*Rider, error)
	// GetRiderForUpdate reads the rider row and locks it until the transaction ends.
	GetRiderForUpdate(ctx context.Context, db bun.IDB, riderID int64) (*Rider, error)
	ListRiders(ctx context.Context, db bun.IDB, filter RiderFilter) ([]Rider, error)
	CreateRider(ctx context.Context, db bun.IDB, rider *Rider) error
	// UpsertRider inserts or updates profile fields, keeping active and captain
	// flags of an existing rider. It reports whether a row was created.
	UpsertRider(ctx context.Context, db bun.IDB, rider *Rider) (bool, error)
	SetRiderActive(ctx context.Context, db bun.IDB, riderID int64, active bool) error
	SetRiderCaptainFlag(ctx context.Context, db bun.IDB, riderID int64, captain bool) error

	GetLeague(ctx context.Context, db bun.IDB, leagueID int64) (*League, error)
	ListLeagues(ctx context.Context, db bun.IDB) ([]League, error)
	CreateLeague(ctx context.Context, db bun.IDB, league *League) error
	UpdateLeague(ctx context.Context, db bun.IDB, league *League) error
	DeleteLeague(ctx context.Context, db bun.IDB, leagueID int64) error

	GetTeam(ctx context.Context, db bun.IDB, teamID int64) (*Team, error)
	// GetTeamForUpdate reads the team row and locks it until the transaction ends.
	GetTeamForUpdate(ctx context.Context, db bun.IDB, teamID int64) (*Team, error)
	ListTeams(ctx context.Context, db bun.IDB, filter TeamFilter) ([]Team, error)
	CreateTeam(ctx context.Context, db bun.IDB, team *Team) error
	UpdateTeam(ctx context.Context, db bun.IDB, team *Team) error
	DeleteTeam(ctx context.Context, db bun.IDB, teamID int64) error
	SetTeamCaptain(ctx context.Context, db bun.IDB, teamID int64, riderID *int64) error
	// TeamCaptainedBy returns the id of another team captained by riderID, or 0.
	TeamCaptainedBy(ctx context.Context, db bun.IDB, riderID int64, excludeTeamID int64) (int64, error)
	// ClearTeamCaptainFlags clears is_captain on riders holding captaincy of
	// teamID and returns their ids. Riders captaining another team are untouched.
	ClearTeamCaptainFlags(ctx context.Context, db bun.IDB, teamID int64) ([]int64, error)

	TeamIDsForRider(ctx context.Context, db bun.IDB, riderID int64) ([]int64, error)
	UpsertMembership(ctx context.Context, db bun.IDB, teamID, riderID int64) error
	DeleteMembership(ctx context.Context, db bun.IDB, teamID, riderID int64) (bool, error)
	IsActiveMember(ctx context.Context, db bun.IDB, teamID, riderID int64) (bool, error)
	ListRoster(ctx context.Context, db bun.IDB, teamID int64) ([]Rider, error)
}
