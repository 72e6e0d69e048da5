package scheduledb

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Repository defines the contract for schedule persistence.
type Repository interface {
	GetSeason(ctx context.Context, db bun.IDB, seasonID int64) (*Season, error)
	// GetSeasonForUpdate locks the season row; round numbering serializes on it.
	GetSeasonForUpdate(ctx context.Context, db bun.IDB, seasonID int64) (*Season, error)
	GetSeasonByYears(ctx context.Context, db bun.IDB, startYear, endYear int) (*Season, error)
	ListSeasons(ctx context.Context, db bun.IDB) ([]Season, error)
	CreateSeason(ctx context.Context, db bun.IDB, season *Season) error

	GetRound(ctx context.Context, db bun.IDB, roundID int64) (*Round, error)
	ListRounds(ctx context.Context, db bun.IDB, seasonID int64) ([]Round, error)
	NextRoundNumber(ctx context.Context, db bun.IDB, seasonID int64) (int, error)
	CreateRound(ctx context.Context, db bun.IDB, round *Round) error
	UpdateRound(ctx context.Context, db bun.IDB, round *Round) error
	// DeleteRound removes the round together with its events.
	DeleteRound(ctx context.Context, db bun.IDB, roundID int64) error

	GetEvent(ctx context.Context, db bun.IDB, eventID int64) (*Event, error)
	ListEvents(ctx context.Context, db bun.IDB, filter EventFilter) ([]Event, error)
	CreateEvent(ctx context.Context, db bun.IDB, event *Event) error
	DeleteEvent(ctx context.Context, db bun.IDB, eventID int64) error
	// NextEvent returns the earliest event on or after from. With a leagueID,
	// only events for that league or for all leagues qualify; without one, only
	// events for all leagues.
	NextEvent(ctx context.Context, db bun.IDB, from time.Time, leagueID *int64) (*Event, error)
	// EarliestEventDate returns the first event date on or after from, in any league.
	EarliestEventDate(ctx context.Context, db bun.IDB, from time.Time) (*time.Time, error)
	// SetActiveDate marks events on date active and every other event inactive.
	// A nil date deactivates all events.
	SetActiveDate(ctx context.Context, db bun.IDB, date *time.Time) (int, error)
}
