package lineupservice

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	rosterdb "github.com/zrl-league/zrl-manager/app/modules/roster/infrastructure/repositories"
)

// Service is the lineup constraint engine.
type Service interface {
	// ProposeLineup replaces the team's lineup for eventDate, or for the team's
	// next event when eventDate is nil. Rider ids are treated as a set.
	ProposeLineup(ctx context.Context, teamID int64, eventDate *time.Time, riderIDs []int64) (*LineupResult, error)
	// RemoveRider drops one rider from a lineup. Removing an absent rider is a no-op.
	RemoveRider(ctx context.Context, teamID int64, eventDate time.Time, riderID int64) (*Removal, error)
	GetLineup(ctx context.Context, teamID int64, eventDate *time.Time) (*LineupView, error)

	SetAvailability(ctx context.Context, req AvailabilityRequest) (*AvailabilityView, error)
	ListAvailability(ctx context.Context, teamID int64, eventDate time.Time) (*AvailabilityView, error)
}

// RosterReader is the slice of the roster repository the engine reads.
type RosterReader interface {
	GetTeam(ctx context.Context, db bun.IDB, teamID int64) (*rosterdb.Team, error)
	ListRoster(ctx context.Context, db bun.IDB, teamID int64) ([]rosterdb.Rider, error)
}

// EventDateResolver supplies the team's next race date when a proposal omits
// one. It runs on the caller's transaction.
type EventDateResolver interface {
	NextEventDate(ctx context.Context, db bun.IDB, teamID int64) (time.Time, error)
}

var (
	_ Service      = (*LineupService)(nil)
	_ RosterReader = (rosterdb.Repository)(nil)
)
