package scheduleservice

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	rosterdb "github.com/zrl-league/zrl-manager/app/modules/roster/infrastructure/repositories"
	scheduledb "github.com/zrl-league/zrl-manager/app/modules/schedule/infrastructure/repositories"
)

// Service manages seasons, rounds and race events, and answers which event a
// team races next.
type Service interface {
	// CreateSeason returns the season for the given years, creating it when
	// missing. created reports whether a row was inserted.
	CreateSeason(ctx context.Context, req SeasonRequest) (season *scheduledb.Season, created bool, err error)
	ListSeasons(ctx context.Context) ([]scheduledb.Season, error)
	CreateRound(ctx context.Context, req RoundRequest) (*scheduledb.Round, error)
	ListRounds(ctx context.Context, seasonID int64) ([]scheduledb.Round, error)
	UpdateRound(ctx context.Context, req RoundUpdateRequest) (*scheduledb.Round, error)
	DeleteRound(ctx context.Context, roundID int64) (*RoundDeletion, error)
	CreateEvent(ctx context.Context, req EventRequest) (*scheduledb.Event, error)
	GetEvent(ctx context.Context, eventID int64) (*scheduledb.Event, error)
	ListEvents(ctx context.Context, query EventQuery) ([]scheduledb.Event, error)
	// DeleteEvent returns the removed event.
	DeleteEvent(ctx context.Context, eventID int64) (*scheduledb.Event, error)

	// NextEventDate runs on the caller's handle so it can take part in the
	// caller's transaction.
	NextEventDate(ctx context.Context, db bun.IDB, teamID int64) (time.Time, error)
	NextEvent(ctx context.Context, teamID int64) (*NextEventView, error)
	RefreshActiveEvents(ctx context.Context) (*RefreshSummary, error)
}

// TeamDirectory is the part of the roster store the schedule needs.
type TeamDirectory interface {
	GetTeam(ctx context.Context, db bun.IDB, teamID int64) (*rosterdb.Team, error)
	GetLeague(ctx context.Context, db bun.IDB, leagueID int64) (*rosterdb.League, error)
	ListRoster(ctx context.Context, db bun.IDB, teamID int64) ([]rosterdb.Rider, error)
}

var _ Service = (*ScheduleService)(nil)
