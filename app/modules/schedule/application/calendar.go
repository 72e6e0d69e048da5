package scheduleservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	rosterdb "github.com/zrl-league/zrl-manager/app/modules/roster/infrastructure/repositories"
	scheduledb "github.com/zrl-league/zrl-manager/app/modules/schedule/infrastructure/repositories"
	"github.com/zrl-league/zrl-manager/app/shared/domainerr"
	"github.com/zrl-league/zrl-manager/app/shared/events"
	"github.com/zrl-league/zrl-manager/app/shared/results"
)

type seasonOutcome struct {
	season  *scheduledb.Season
	created bool
}

func (s *ScheduleService) CreateSeason(ctx context.Context, req SeasonRequest) (*scheduledb.Season, bool, error) {
	out, err := execute(s, ctx, "CreateSeason", fmt.Sprintf("%d-%d", req.StartYear, req.EndYear), func(ctx context.Context, db bun.IDB) (results.OperationResult[seasonOutcome, error], error) {
		if req.StartYear < 2000 || req.EndYear < req.StartYear {
			return fail[seasonOutcome](&domainerr.ValidationError{
				Field:  "end_year",
				Reason: fmt.Sprintf("season %d-%d is not a valid year range", req.StartYear, req.EndYear),
			})
		}

		existing, err := s.repo.GetSeasonByYears(ctx, db, req.StartYear, req.EndYear)
		if err == nil {
			return ok(seasonOutcome{season: existing})
		}
		if !errors.Is(err, scheduledb.ErrNotFound) {
			return results.OperationResult[seasonOutcome, error]{}, err
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			name = fmt.Sprintf("ZRL %d/%02d", req.StartYear, req.EndYear%100)
		}
		season := &scheduledb.Season{Name: name, StartYear: req.StartYear, EndYear: req.EndYear}
		if err := s.repo.CreateSeason(ctx, db, season); err != nil {
			if errors.Is(err, scheduledb.ErrAlreadyExists) {
				return fail[seasonOutcome](&domainerr.ConflictError{Entity: "season", Key: fmt.Sprintf("%d-%d", req.StartYear, req.EndYear)})
			}
			return results.OperationResult[seasonOutcome, error]{}, err
		}
		return ok(seasonOutcome{season: season, created: true})
	})
	if err != nil {
		return nil, false, err
	}
	return out.season, out.created, nil
}

func (s *ScheduleService) ListSeasons(ctx context.Context) ([]scheduledb.Season, error) {
	return execute(s, ctx, "ListSeasons", "", func(ctx context.Context, db bun.IDB) (results.OperationResult[[]scheduledb.Season, error], error) {
		seasons, err := s.repo.ListSeasons(ctx, db)
		if err != nil {
			return results.OperationResult[[]scheduledb.Season, error]{}, err
		}
		return ok(seasons)
	})
}

// CreateRound appends a round to a season. Numbers are assigned in creation
// order under a lock on the season row.
func (s *ScheduleService) CreateRound(ctx context.Context, req RoundRequest) (*scheduledb.Round, error) {
	return execute(s, ctx, "CreateRound", id(req.SeasonID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*scheduledb.Round, error], error) {
		if _, err := s.repo.GetSeasonForUpdate(ctx, db, req.SeasonID); err != nil {
			if errors.Is(err, scheduledb.ErrNotFound) {
				return fail[*scheduledb.Round](domainerr.NewNotFound("season", req.SeasonID))
			}
			return results.OperationResult[*scheduledb.Round, error]{}, err
		}

		start, err := s.optionalDate("start_date", req.StartDate)
		if err != nil {
			return fail[*scheduledb.Round](err)
		}
		end, err := s.optionalDate("end_date", req.EndDate)
		if err != nil {
			return fail[*scheduledb.Round](err)
		}
		if start != nil && end != nil && end.Before(*start) {
			return fail[*scheduledb.Round](&domainerr.ValidationError{Field: "end_date", Reason: "is before start_date"})
		}

		number, err := s.repo.NextRoundNumber(ctx, db, req.SeasonID)
		if err != nil {
			return results.OperationResult[*scheduledb.Round, error]{}, err
		}
		name := strings.TrimSpace(req.Name)
		if name == "" {
			name = fmt.Sprintf("Round %d", number)
		}

		round := &scheduledb.Round{
			SeasonID:  req.SeasonID,
			Number:    number,
			Name:      name,
			StartDate: start,
			EndDate:   end,
		}
		if err := s.repo.CreateRound(ctx, db, round); err != nil {
			return results.OperationResult[*scheduledb.Round, error]{}, err
		}
		return ok(round)
	})
}

func (s *ScheduleService) ListRounds(ctx context.Context, seasonID int64) ([]scheduledb.Round, error) {
	return execute(s, ctx, "ListRounds", id(seasonID), func(ctx context.Context, db bun.IDB) (results.OperationResult[[]scheduledb.Round, error], error) {
		if _, err := s.repo.GetSeason(ctx, db, seasonID); err != nil {
			if errors.Is(err, scheduledb.ErrNotFound) {
				return fail[[]scheduledb.Round](domainerr.NewNotFound("season", seasonID))
			}
			return results.OperationResult[[]scheduledb.Round, error]{}, err
		}
		rounds, err := s.repo.ListRounds(ctx, db, seasonID)
		if err != nil {
			return results.OperationResult[[]scheduledb.Round, error]{}, err
		}
		return ok(rounds)
	})
}

// UpdateRound rewrites a round. New bounds must still contain every event
// already scheduled in the round.
func (s *ScheduleService) UpdateRound(ctx context.Context, req RoundUpdateRequest) (*scheduledb.Round, error) {
	return execute(s, ctx, "UpdateRound", id(req.RoundID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*scheduledb.Round, error], error) {
		round, err := s.repo.GetRound(ctx, db, req.RoundID)
		if err != nil {
			if errors.Is(err, scheduledb.ErrNotFound) {
				return fail[*scheduledb.Round](domainerr.NewNotFound("round", req.RoundID))
			}
			return results.OperationResult[*scheduledb.Round, error]{}, err
		}

		if req.Number < 0 {
			return fail[*scheduledb.Round](&domainerr.ValidationError{Field: "number", Reason: "must be positive"})
		}
		start, err := s.optionalDate("start_date", req.StartDate)
		if err != nil {
			return fail[*scheduledb.Round](err)
		}
		end, err := s.optionalDate("end_date", req.EndDate)
		if err != nil {
			return fail[*scheduledb.Round](err)
		}
		if start != nil && end != nil {
			if end.Before(*start) {
				return fail[*scheduledb.Round](&domainerr.ValidationError{Field: "end_date", Reason: "is before start_date"})
			}
			scheduled, err := s.repo.ListEvents(ctx, db, scheduledb.EventFilter{RoundID: req.RoundID})
			if err != nil {
				return results.OperationResult[*scheduledb.Round, error]{}, err
			}
			for _, e := range scheduled {
				if e.EventDate.Before(*start) || e.EventDate.After(*end) {
					return fail[*scheduledb.Round](&domainerr.ValidationError{
						Field: "start_date",
						Reason: fmt.Sprintf("event %d on %s would fall outside %s to %s", e.ID, e.EventDate.Format(time.DateOnly),
							start.Format(time.DateOnly), end.Format(time.DateOnly)),
					})
				}
			}
		}

		if req.Number > 0 {
			round.Number = req.Number
		}
		if name := strings.TrimSpace(req.Name); name != "" {
			round.Name = name
		}
		round.StartDate = start
		round.EndDate = end
		if err := s.repo.UpdateRound(ctx, db, round); err != nil {
			switch {
			case errors.Is(err, scheduledb.ErrAlreadyExists):
				return fail[*scheduledb.Round](&domainerr.ConflictError{Entity: "round", Key: fmt.Sprintf("number %d in season %d", round.Number, round.SeasonID)})
			case errors.Is(err, scheduledb.ErrNotFound):
				return fail[*scheduledb.Round](domainerr.NewNotFound("round", req.RoundID))
			}
			return results.OperationResult[*scheduledb.Round, error]{}, err
		}
		return ok(round)
	})
}

// DeleteRound removes a round and its events. Lineups are keyed by team and
// date, not by event, so they are kept.
func (s *ScheduleService) DeleteRound(ctx context.Context, roundID int64) (*RoundDeletion, error) {
	deletion, err := execute(s, ctx, "DeleteRound", id(roundID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*RoundDeletion, error], error) {
		round, err := s.repo.GetRound(ctx, db, roundID)
		if err != nil {
			if errors.Is(err, scheduledb.ErrNotFound) {
				return fail[*RoundDeletion](domainerr.NewNotFound("round", roundID))
			}
			return results.OperationResult[*RoundDeletion, error]{}, err
		}
		scheduled, err := s.repo.ListEvents(ctx, db, scheduledb.EventFilter{RoundID: roundID})
		if err != nil {
			return results.OperationResult[*RoundDeletion, error]{}, err
		}
		if err := s.repo.DeleteRound(ctx, db, roundID); err != nil {
			if errors.Is(err, scheduledb.ErrNotFound) {
				return fail[*RoundDeletion](domainerr.NewNotFound("round", roundID))
			}
			return results.OperationResult[*RoundDeletion, error]{}, err
		}

		out := &RoundDeletion{RoundID: roundID, SeasonID: round.SeasonID, EventIDs: make([]int64, 0, len(scheduled))}
		for _, e := range scheduled {
			out.EventIDs = append(out.EventIDs, e.ID)
		}
		return ok(out)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.ScheduleRoundDeletedV1, events.ScheduleRoundDeletedPayloadV1{
		RoundID:  deletion.RoundID,
		SeasonID: deletion.SeasonID,
		EventIDs: deletion.EventIDs,
	})
	return deletion, nil
}

// CreateEvent adds a race day to a round. When the round has both bounds the
// date must fall inside them.
func (s *ScheduleService) CreateEvent(ctx context.Context, req EventRequest) (*scheduledb.Event, error) {
	return execute(s, ctx, "CreateEvent", id(req.RoundID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*scheduledb.Event, error], error) {
		round, err := s.repo.GetRound(ctx, db, req.RoundID)
		if err != nil {
			if errors.Is(err, scheduledb.ErrNotFound) {
				return fail[*scheduledb.Event](domainerr.NewNotFound("round", req.RoundID))
			}
			return results.OperationResult[*scheduledb.Event, error]{}, err
		}

		if req.LeagueID != nil {
			if _, err := s.teams.GetLeague(ctx, db, *req.LeagueID); err != nil {
				if errors.Is(err, rosterdb.ErrNotFound) {
					return fail[*scheduledb.Event](domainerr.NewNotFound("league", *req.LeagueID))
				}
				return results.OperationResult[*scheduledb.Event, error]{}, err
			}
		}

		date, err := s.parseDate(req.Date)
		if err != nil {
			return fail[*scheduledb.Event](&domainerr.ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not a recognizable date", req.Date)})
		}
		if round.StartDate != nil && round.EndDate != nil &&
			(date.Before(*round.StartDate) || date.After(*round.EndDate)) {
			return fail[*scheduledb.Event](&domainerr.ValidationError{
				Field: "date",
				Reason: fmt.Sprintf("%s is outside round %d (%s to %s)", date.Format(time.DateOnly), round.Number,
					round.StartDate.Format(time.DateOnly), round.EndDate.Format(time.DateOnly)),
			})
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			name = fmt.Sprintf("%s race %s", round.Name, date.Format(time.DateOnly))
		}
		event := &scheduledb.Event{
			RoundID:    req.RoundID,
			LeagueID:   req.LeagueID,
			Name:       name,
			EventDate:  date,
			Format:     strings.TrimSpace(req.Format),
			World:      strings.TrimSpace(req.World),
			Route:      strings.TrimSpace(req.Route),
			DistanceKM: req.DistanceKM,
			ElevationM: req.ElevationM,
		}
		if err := s.repo.CreateEvent(ctx, db, event); err != nil {
			return results.OperationResult[*scheduledb.Event, error]{}, err
		}
		return ok(event)
	})
}

func (s *ScheduleService) GetEvent(ctx context.Context, eventID int64) (*scheduledb.Event, error) {
	return execute(s, ctx, "GetEvent", id(eventID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*scheduledb.Event, error], error) {
		event, err := s.repo.GetEvent(ctx, db, eventID)
		if err != nil {
			if errors.Is(err, scheduledb.ErrNotFound) {
				return fail[*scheduledb.Event](domainerr.NewNotFound("event", eventID))
			}
			return results.OperationResult[*scheduledb.Event, error]{}, err
		}
		return ok(event)
	})
}

// DeleteEvent removes a race day. Deleting the active event leaves no event
// active until the next refresh.
func (s *ScheduleService) DeleteEvent(ctx context.Context, eventID int64) (*scheduledb.Event, error) {
	event, err := execute(s, ctx, "DeleteEvent", id(eventID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*scheduledb.Event, error], error) {
		event, err := s.repo.GetEvent(ctx, db, eventID)
		if err != nil {
			if errors.Is(err, scheduledb.ErrNotFound) {
				return fail[*scheduledb.Event](domainerr.NewNotFound("event", eventID))
			}
			return results.OperationResult[*scheduledb.Event, error]{}, err
		}
		if err := s.repo.DeleteEvent(ctx, db, eventID); err != nil {
			if errors.Is(err, scheduledb.ErrNotFound) {
				return fail[*scheduledb.Event](domainerr.NewNotFound("event", eventID))
			}
			return results.OperationResult[*scheduledb.Event, error]{}, err
		}
		return ok(event)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.ScheduleEventDeletedV1, events.ScheduleEventDeletedPayloadV1{
		EventID:   event.ID,
		RoundID:   event.RoundID,
		EventDate: event.EventDate.Format(time.DateOnly),
		WasActive: event.Active,
	})
	return event, nil
}

func (s *ScheduleService) ListEvents(ctx context.Context, query EventQuery) ([]scheduledb.Event, error) {
	return execute(s, ctx, "ListEvents", "", func(ctx context.Context, db bun.IDB) (results.OperationResult[[]scheduledb.Event, error], error) {
		filter := scheduledb.EventFilter{
			RoundID:  query.RoundID,
			SeasonID: query.SeasonID,
			LeagueID: query.LeagueID,
			From:     query.From,
			To:       query.To,
			Active:   query.Active,
		}
		if query.Upcoming {
			if today := s.today(); filter.From.Before(today) {
				filter.From = today
			}
		}
		events, err := s.repo.ListEvents(ctx, db, filter)
		if err != nil {
			return results.OperationResult[[]scheduledb.Event, error]{}, err
		}
		return ok(events)
	})
}

func (s *ScheduleService) optionalDate(field, input string) (*time.Time, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	d, err := s.parseDate(input)
	if err != nil {
		return nil, &domainerr.ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a recognizable date", input)}
	}
	return &d, nil
}
