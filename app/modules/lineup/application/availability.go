package lineupservice

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/uptrace/bun"

	lineupdomain "github.com/zrl-league/zrl-manager/app/modules/lineup/domain"
	lineupdb "github.com/zrl-league/zrl-manager/app/modules/lineup/infrastructure/repositories"
	rosterdb "github.com/zrl-league/zrl-manager/app/modules/roster/infrastructure/repositories"
	"github.com/zrl-league/zrl-manager/app/shared/clock"
	"github.com/zrl-league/zrl-manager/app/shared/domainerr"
	"github.com/zrl-league/zrl-manager/app/shared/results"
)

// SetAvailability records a rostered rider's answer for a race date and returns
// the updated list for that date.
func (s *LineupService) SetAvailability(ctx context.Context, req AvailabilityRequest) (*AvailabilityView, error) {
	date := clock.TruncateDate(req.EventDate)
	return execute(s, ctx, "SetAvailability", dateKey(req.TeamID, date), func(ctx context.Context, db bun.IDB) (results.OperationResult[*AvailabilityView, error], error) {
		status, err := lineupdomain.ParseStatus(req.Status)
		if err != nil {
			return fail[*AvailabilityView](&domainerr.ValidationError{Field: "status", Reason: "must be available, unavailable or maybe"})
		}

		roster, err := s.rosterFor(ctx, db, req.TeamID)
		if err != nil {
			return failOrErr[*AvailabilityView](err)
		}
		if _, member := roster[req.RiderID]; !member {
			return fail[*AvailabilityView](&domainerr.NotRosteredError{TeamID: req.TeamID, RiderIDs: []int64{req.RiderID}})
		}

		if err := s.repo.UpsertAvailability(ctx, db, &lineupdb.Availability{
			TeamID:    req.TeamID,
			EventDate: date,
			RiderID:   req.RiderID,
			Status:    string(status),
			Note:      req.Note,
		}); err != nil {
			return results.OperationResult[*AvailabilityView, error]{}, err
		}

		view, err := s.availabilityView(ctx, db, req.TeamID, date, roster)
		if err != nil {
			return results.OperationResult[*AvailabilityView, error]{}, err
		}
		return ok(view)
	})
}

func (s *LineupService) ListAvailability(ctx context.Context, teamID int64, eventDate time.Time) (*AvailabilityView, error) {
	date := clock.TruncateDate(eventDate)
	return execute(s, ctx, "ListAvailability", dateKey(teamID, date), func(ctx context.Context, db bun.IDB) (results.OperationResult[*AvailabilityView, error], error) {
		roster, err := s.rosterFor(ctx, db, teamID)
		if err != nil {
			return failOrErr[*AvailabilityView](err)
		}
		view, err := s.availabilityView(ctx, db, teamID, date, roster)
		if err != nil {
			return results.OperationResult[*AvailabilityView, error]{}, err
		}
		return ok(view)
	})
}

// rosterFor checks the team exists and returns its roster keyed by rider id.
func (s *LineupService) rosterFor(ctx context.Context, db bun.IDB, teamID int64) (map[int64]rosterdb.Rider, error) {
	if _, err := s.roster.GetTeam(ctx, db, teamID); err != nil {
		if errors.Is(err, rosterdb.ErrNotFound) {
			return nil, domainerr.NewNotFound("team", teamID)
		}
		return nil, err
	}
	riders, err := s.roster.ListRoster(ctx, db, teamID)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]rosterdb.Rider, len(riders))
	for _, r := range riders {
		out[r.ID] = r
	}
	return out, nil
}

func (s *LineupService) availabilityView(ctx context.Context, db bun.IDB, teamID int64, date time.Time, roster map[int64]rosterdb.Rider) (*AvailabilityView, error) {
	entries, err := s.repo.ListAvailability(ctx, db, teamID, date)
	if err != nil {
		return nil, err
	}
	answered := make(map[int64]bool, len(entries))
	for _, e := range entries {
		answered[e.RiderID] = true
	}
	pending := []int64{}
	for riderID := range roster {
		if !answered[riderID] {
			pending = append(pending, riderID)
		}
	}
	slices.Sort(pending)
	if entries == nil {
		entries = []lineupdb.AvailabilityEntry{}
	}
	return &AvailabilityView{TeamID: teamID, EventDate: date, Entries: entries, Pending: pending}, nil
}
