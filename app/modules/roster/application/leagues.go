package rosterservice

import (
	"context"
	"errors"
	"strings"

	"github.com/uptrace/bun"

	rosterdb "github.com/zrl-league/zrl-manager/app/modules/roster/infrastructure/repositories"
	"github.com/zrl-league/zrl-manager/app/shared/domainerr"
	"github.com/zrl-league/zrl-manager/app/shared/events"
	"github.com/zrl-league/zrl-manager/app/shared/results"
)

func (s *RosterService) CreateLeague(ctx context.Context, req LeagueRequest) (*rosterdb.League, error) {
	return execute(s, ctx, "CreateLeague", req.Name, func(ctx context.Context, db bun.IDB) (results.OperationResult[*rosterdb.League, error], error) {
		name := strings.TrimSpace(req.Name)
		if name == "" {
			return fail[*rosterdb.League](&domainerr.ValidationError{Field: "name", Reason: "is required"})
		}
		league := &rosterdb.League{
			Name:   name,
			Type:   strings.TrimSpace(req.Type),
			Region: strings.TrimSpace(req.Region),
		}
		if err := s.repo.CreateLeague(ctx, db, league); err != nil {
			if errors.Is(err, rosterdb.ErrAlreadyExists) {
				return fail[*rosterdb.League](&domainerr.ConflictError{Entity: "league", Key: name})
			}
			return results.OperationResult[*rosterdb.League, error]{}, err
		}
		return ok(league)
	})
}

func (s *RosterService) ListLeagues(ctx context.Context) ([]rosterdb.League, error) {
	return execute(s, ctx, "ListLeagues", "", func(ctx context.Context, db bun.IDB) (results.OperationResult[[]rosterdb.League, error], error) {
		leagues, err := s.repo.ListLeagues(ctx, db)
		if err != nil {
			return results.OperationResult[[]rosterdb.League, error]{}, err
		}
		return ok(leagues)
	})
}

func (s *RosterService) UpdateLeague(ctx context.Context, leagueID int64, req LeagueRequest) (*rosterdb.League, error) {
	return execute(s, ctx, "UpdateLeague", id(leagueID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*rosterdb.League, error], error) {
		name := strings.TrimSpace(req.Name)
		if name == "" {
			return fail[*rosterdb.League](&domainerr.ValidationError{Field: "name", Reason: "is required"})
		}
		league, err := s.repo.GetLeague(ctx, db, leagueID)
		if err != nil {
			if errors.Is(err, rosterdb.ErrNotFound) {
				return fail[*rosterdb.League](domainerr.NewNotFound("league", leagueID))
			}
			return results.OperationResult[*rosterdb.League, error]{}, err
		}

		league.Name = name
		league.Type = strings.TrimSpace(req.Type)
		league.Region = strings.TrimSpace(req.Region)
		if err := s.repo.UpdateLeague(ctx, db, league); err != nil {
			return results.OperationResult[*rosterdb.League, error]{}, err
		}
		return ok(league)
	})
}

// DeleteLeague removes a league. Its teams stay and are detached; a league that
// still has scheduled events is refused.
func (s *RosterService) DeleteLeague(ctx context.Context, leagueID int64) (*LeagueDeletion, error) {
	deletion, err := execute(s, ctx, "DeleteLeague", id(leagueID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*LeagueDeletion, error], error) {
		league, err := s.repo.GetLeague(ctx, db, leagueID)
		if err != nil {
			if errors.Is(err, rosterdb.ErrNotFound) {
				return fail[*LeagueDeletion](domainerr.NewNotFound("league", leagueID))
			}
			return results.OperationResult[*LeagueDeletion, error]{}, err
		}

		teams, err := s.repo.ListTeams(ctx, db, rosterdb.TeamFilter{LeagueID: leagueID})
		if err != nil {
			return results.OperationResult[*LeagueDeletion, error]{}, err
		}

		if err := s.repo.DeleteLeague(ctx, db, leagueID); err != nil {
			switch {
			case errors.Is(err, rosterdb.ErrInUse):
				return fail[*LeagueDeletion](&domainerr.InUseError{Entity: "league", ID: leagueID, Reason: "events are scheduled for it"})
			case errors.Is(err, rosterdb.ErrNotFound):
				return fail[*LeagueDeletion](domainerr.NewNotFound("league", leagueID))
			}
			return results.OperationResult[*LeagueDeletion, error]{}, err
		}

		out := &LeagueDeletion{LeagueID: leagueID, Name: league.Name, DetachedTeamIDs: make([]int64, 0, len(teams))}
		for _, t := range teams {
			out.DetachedTeamIDs = append(out.DetachedTeamIDs, t.ID)
		}
		return ok(out)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.RosterLeagueDeletedV1, events.RosterLeagueDeletedPayloadV1{
		LeagueID:        deletion.LeagueID,
		Name:            deletion.Name,
		DetachedTeamIDs: deletion.DetachedTeamIDs,
	})
	return deletion, nil
}
