package lineupservice

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/bun"

	lineupdomain "github.com/zrl-league/zrl-manager/app/modules/lineup/domain"
	lineupdb "github.com/zrl-league/zrl-manager/app/modules/lineup/infrastructure/repositories"
	rosterdb "github.com/zrl-league/zrl-manager/app/modules/roster/infrastructure/repositories"
	"github.com/zrl-league/zrl-manager/app/shared/clock"
	"github.com/zrl-league/zrl-manager/app/shared/domainerr"
	"github.com/zrl-league/zrl-manager/app/shared/events"
	"github.com/zrl-league/zrl-manager/app/shared/results"
)

// ProposeLineup validates the proposal and, when every check passes, replaces
// the team's lineup for the date. Checks run in this order and the first
// failure wins: team exists, date known, capacity, roster membership, double
// booking. Every offending rider is named in the failure.
func (s *LineupService) ProposeLineup(ctx context.Context, teamID int64, eventDate *time.Time, riderIDs []int64) (*LineupResult, error) {
	res, err := execute(s, ctx, "ProposeLineup", id(teamID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*LineupResult, error], error) {
		if _, err := s.roster.GetTeam(ctx, db, teamID); err != nil {
			if errors.Is(err, rosterdb.ErrNotFound) {
				return fail[*LineupResult](domainerr.NewNotFound("team", teamID))
			}
			return results.OperationResult[*LineupResult, error]{}, err
		}

		date, err := s.resolveDate(ctx, db, teamID, eventDate)
		if err != nil {
			return failOrErr[*LineupResult](err)
		}

		if err := s.repo.LockTeamDate(ctx, db, teamID, date); err != nil {
			return results.OperationResult[*LineupResult, error]{}, err
		}

		riders := lineupdomain.UniqueRiders(riderIDs)
		if len(riders) > s.limit {
			return fail[*LineupResult](&domainerr.CapacityExceededError{Limit: s.limit, Requested: len(riders)})
		}

		roster, err := s.rosterStatus(ctx, db, teamID)
		if err != nil {
			return results.OperationResult[*LineupResult, error]{}, err
		}
		if bad := lineupdomain.Ineligible(riders, roster); len(bad) > 0 {
			return fail[*LineupResult](&domainerr.NotRosteredError{TeamID: teamID, RiderIDs: bad})
		}

		conflicts, err := s.repo.ConflictingAssignments(ctx, db, date, riders, teamID)
		if err != nil {
			return results.OperationResult[*LineupResult, error]{}, err
		}
		if len(conflicts) > 0 {
			booked := make([]int64, 0, len(conflicts))
			for _, c := range conflicts {
				booked = append(booked, c.RiderID)
			}
			return fail[*LineupResult](&domainerr.DoubleBookingError{EventDate: date, RiderIDs: booked})
		}

		if err := s.repo.ReplaceLineup(ctx, db, teamID, date, riders); err != nil {
			var dbe *lineupdb.DoubleBookedError
			if errors.As(err, &dbe) {
				booked := dbe.RiderIDs
				if len(booked) == 0 {
					booked = riders
				}
				return fail[*LineupResult](&domainerr.DoubleBookingError{EventDate: date, RiderIDs: booked})
			}
			return results.OperationResult[*LineupResult, error]{}, err
		}

		return ok(&LineupResult{TeamID: teamID, EventDate: date, RiderIDs: riders, Count: len(riders)})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.LineupCommittedV1, events.LineupCommittedPayloadV1{
		TeamID:    res.TeamID,
		EventDate: res.EventDate.Format(time.DateOnly),
		RiderIDs:  res.RiderIDs,
	})
	return res, nil
}

// RemoveRider deletes one assignment under the same lock as ProposeLineup.
func (s *LineupService) RemoveRider(ctx context.Context, teamID int64, eventDate time.Time, riderID int64) (*Removal, error) {
	date := clock.TruncateDate(eventDate)
	removal, err := execute(s, ctx, "RemoveRider", dateKey(teamID, date), func(ctx context.Context, db bun.IDB) (results.OperationResult[*Removal, error], error) {
		if err := s.repo.LockTeamDate(ctx, db, teamID, date); err != nil {
			return results.OperationResult[*Removal, error]{}, err
		}
		removed, err := s.repo.DeleteAssignment(ctx, db, teamID, date, riderID)
		if err != nil {
			return results.OperationResult[*Removal, error]{}, err
		}
		return ok(&Removal{TeamID: teamID, EventDate: date, RiderID: riderID, Removed: removed})
	})
	if err != nil {
		return nil, err
	}

	if removal.Removed {
		s.publish(ctx, events.LineupRiderRemovedV1, events.LineupRiderRemovedPayloadV1{
			TeamID:    teamID,
			EventDate: date.Format(time.DateOnly),
			RiderID:   riderID,
			Removed:   true,
		})
	}
	return removal, nil
}

// GetLineup returns the lineup for eventDate, or for the team's next event
// when eventDate is nil.
func (s *LineupService) GetLineup(ctx context.Context, teamID int64, eventDate *time.Time) (*LineupView, error) {
	return execute(s, ctx, "GetLineup", id(teamID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*LineupView, error], error) {
		if _, err := s.roster.GetTeam(ctx, db, teamID); err != nil {
			if errors.Is(err, rosterdb.ErrNotFound) {
				return fail[*LineupView](domainerr.NewNotFound("team", teamID))
			}
			return results.OperationResult[*LineupView, error]{}, err
		}
		date, err := s.resolveDate(ctx, db, teamID, eventDate)
		if err != nil {
			return failOrErr[*LineupView](err)
		}
		riders, err := s.repo.ListLineup(ctx, db, teamID, date)
		if err != nil {
			return results.OperationResult[*LineupView, error]{}, err
		}
		if riders == nil {
			riders = []lineupdb.LineupRider{}
		}
		return ok(&LineupView{TeamID: teamID, EventDate: date, Limit: s.limit, Riders: riders})
	})
}

func (s *LineupService) resolveDate(ctx context.Context, db bun.IDB, teamID int64, eventDate *time.Time) (time.Time, error) {
	if eventDate != nil {
		return clock.TruncateDate(*eventDate), nil
	}
	if s.resolver == nil {
		return time.Time{}, &domainerr.NoScheduledEventError{TeamID: teamID}
	}
	date, err := s.resolver.NextEventDate(ctx, db, teamID)
	if err != nil {
		return time.Time{}, err
	}
	return clock.TruncateDate(date), nil
}

// rosterStatus maps each rostered rider to its active flag.
func (s *LineupService) rosterStatus(ctx context.Context, db bun.IDB, teamID int64) (map[int64]bool, error) {
	riders, err := s.roster.ListRoster(ctx, db, teamID)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]bool, len(riders))
	for _, r := range riders {
		out[r.ID] = r.Active
	}
	return out, nil
}

// failOrErr turns the resolver's domain errors into failure results and passes
// anything else through as an infrastructure error.
func failOrErr[S any](err error) (results.OperationResult[S, error], error) {
	var notFound *domainerr.NotFoundError
	var noEvent *domainerr.NoScheduledEventError
	if errors.As(err, &notFound) || errors.As(err, &noEvent) {
		return fail[S](err)
	}
	return results.OperationResult[S, error]{}, err
}
