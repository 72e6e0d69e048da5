package scheduleservice

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/bun"

	rosterdb "github.com/zrl-league/zrl-manager/app/modules/roster/infrastructure/repositories"
	scheduledb "github.com/zrl-league/zrl-manager/app/modules/schedule/infrastructure/repositories"
	"github.com/zrl-league/zrl-manager/app/shared/domainerr"
	"github.com/zrl-league/zrl-manager/app/shared/results"
)

// NextEventDate returns the date of the earliest event from today on (league
// time zone) that applies to the team's league. An event held today still
// counts. It fails with *domainerr.NotFoundError for an unknown team and
// *domainerr.NoScheduledEventError when nothing is scheduled.
func (s *ScheduleService) NextEventDate(ctx context.Context, db bun.IDB, teamID int64) (time.Time, error) {
	event, err := s.nextEvent(ctx, db, teamID)
	if err != nil {
		return time.Time{}, err
	}
	return event.EventDate, nil
}

func (s *ScheduleService) nextEvent(ctx context.Context, db bun.IDB, teamID int64) (*scheduledb.Event, error) {
	team, err := s.teams.GetTeam(ctx, db, teamID)
	if err != nil {
		if errors.Is(err, rosterdb.ErrNotFound) {
			return nil, domainerr.NewNotFound("team", teamID)
		}
		return nil, err
	}

	event, err := s.repo.NextEvent(ctx, db, s.today(), team.LeagueID)
	if err != nil {
		if errors.Is(err, scheduledb.ErrNotFound) {
			return nil, &domainerr.NoScheduledEventError{TeamID: teamID}
		}
		return nil, err
	}
	return event, nil
}

// NextEvent returns the team's next event together with its roster.
func (s *ScheduleService) NextEvent(ctx context.Context, teamID int64) (*NextEventView, error) {
	return execute(s, ctx, "NextEvent", id(teamID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*NextEventView, error], error) {
		event, err := s.nextEvent(ctx, db, teamID)
		if err != nil {
			var notFound *domainerr.NotFoundError
			var noEvent *domainerr.NoScheduledEventError
			if errors.As(err, &notFound) || errors.As(err, &noEvent) {
				return fail[*NextEventView](err)
			}
			return results.OperationResult[*NextEventView, error]{}, err
		}

		roster, err := s.teams.ListRoster(ctx, db, teamID)
		if err != nil {
			return results.OperationResult[*NextEventView, error]{}, err
		}
		return ok(&NextEventView{TeamID: teamID, Event: *event, Roster: roster})
	})
}
