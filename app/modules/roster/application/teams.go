package rosterservice

import (
	"context"
	"errors"
	"strings"

	"github.com/uptrace/bun"

	rosterdomain "github.com/zrl-league/zrl-manager/app/modules/roster/domain"
	rosterdb "github.com/zrl-league/zrl-manager/app/modules/roster/infrastructure/repositories"
	"github.com/zrl-league/zrl-manager/app/shared/domainerr"
	"github.com/zrl-league/zrl-manager/app/shared/events"
	"github.com/zrl-league/zrl-manager/app/shared/results"
)

// validateTeam checks req and returns the normalized team category. Teams carry
// a plain tier; A+ is stored as A.
func (s *RosterService) validateTeam(ctx context.Context, db bun.IDB, req TeamRequest) (results.OperationResult[rosterdomain.Category, error], error) {
	if strings.TrimSpace(req.Name) == "" {
		return fail[rosterdomain.Category](&domainerr.ValidationError{Field: "name", Reason: "is required"})
	}
	category, err := rosterdomain.NormalizeCategory(req.Category)
	if err != nil {
		return fail[rosterdomain.Category](&domainerr.ValidationError{Field: "category", Reason: err.Error()})
	}
	if req.LeagueID != nil {
		if _, err := s.repo.GetLeague(ctx, db, *req.LeagueID); err != nil {
			if errors.Is(err, rosterdb.ErrNotFound) {
				return fail[rosterdomain.Category](domainerr.NewNotFound("league", *req.LeagueID))
			}
			return results.OperationResult[rosterdomain.Category, error]{}, err
		}
	}
	return ok(category)
}

func (s *RosterService) CreateTeam(ctx context.Context, req TeamRequest) (*rosterdb.Team, error) {
	return execute(s, ctx, "CreateTeam", req.Name, func(ctx context.Context, db bun.IDB) (results.OperationResult[*rosterdb.Team, error], error) {
		validated, err := s.validateTeam(ctx, db, req)
		if err != nil {
			return results.OperationResult[*rosterdb.Team, error]{}, err
		}
		if validated.IsFailure() {
			return fail[*rosterdb.Team](*validated.Failure)
		}
		category := *validated.Success

		team := &rosterdb.Team{
			Name:           strings.TrimSpace(req.Name),
			Category:       string(category),
			Division:       strings.TrimSpace(req.Division),
			DivisionNumber: req.DivisionNumber,
			LeagueID:       req.LeagueID,
		}
		if err := s.repo.CreateTeam(ctx, db, team); err != nil {
			if errors.Is(err, rosterdb.ErrAlreadyExists) {
				return fail[*rosterdb.Team](&domainerr.ConflictError{Entity: "team", Key: team.Name})
			}
			return results.OperationResult[*rosterdb.Team, error]{}, err
		}
		return ok(team)
	})
}

func (s *RosterService) GetTeam(ctx context.Context, teamID int64) (*rosterdb.Team, error) {
	return execute(s, ctx, "GetTeam", id(teamID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*rosterdb.Team, error], error) {
		team, err := s.repo.GetTeam(ctx, db, teamID)
		if err != nil {
			if errors.Is(err, rosterdb.ErrNotFound) {
				return fail[*rosterdb.Team](domainerr.NewNotFound("team", teamID))
			}
			return results.OperationResult[*rosterdb.Team, error]{}, err
		}
		return ok(team)
	})
}

func (s *RosterService) ListTeams(ctx context.Context, q TeamQuery) ([]rosterdb.Team, error) {
	return execute(s, ctx, "ListTeams", q.Category, func(ctx context.Context, db bun.IDB) (results.OperationResult[[]rosterdb.Team, error], error) {
		filter := rosterdb.TeamFilter{LeagueID: q.LeagueID, Division: strings.TrimSpace(q.Division)}
		if q.Category != "" {
			category, err := rosterdomain.NormalizeCategory(q.Category)
			if err != nil {
				return fail[[]rosterdb.Team](&domainerr.ValidationError{Field: "category", Reason: err.Error()})
			}
			filter.Category = string(category)
		}
		teams, err := s.repo.ListTeams(ctx, db, filter)
		if err != nil {
			return results.OperationResult[[]rosterdb.Team, error]{}, err
		}
		return ok(teams)
	})
}

// UpdateTeam rewrites the team's attributes. Lowering the category is refused
// while a rostered rider ranks above the new tier.
func (s *RosterService) UpdateTeam(ctx context.Context, teamID int64, req TeamRequest) (*rosterdb.Team, error) {
	return execute(s, ctx, "UpdateTeam", id(teamID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*rosterdb.Team, error], error) {
		team, err := s.repo.GetTeamForUpdate(ctx, db, teamID)
		if err != nil {
			if errors.Is(err, rosterdb.ErrNotFound) {
				return fail[*rosterdb.Team](domainerr.NewNotFound("team", teamID))
			}
			return results.OperationResult[*rosterdb.Team, error]{}, err
		}

		validated, err := s.validateTeam(ctx, db, req)
		if err != nil {
			return results.OperationResult[*rosterdb.Team, error]{}, err
		}
		if validated.IsFailure() {
			return fail[*rosterdb.Team](*validated.Failure)
		}
		category := *validated.Success

		if string(category) != team.Category {
			roster, err := s.repo.ListRoster(ctx, db, teamID)
			if err != nil {
				return results.OperationResult[*rosterdb.Team, error]{}, err
			}
			for _, rider := range roster {
				allowed, err := rosterdomain.CanJoin(rider.Category, string(category))
				if err != nil {
					return results.OperationResult[*rosterdb.Team, error]{}, err
				}
				if !allowed {
					return fail[*rosterdb.Team](&domainerr.CategoryMismatchError{
						RiderID:       rider.ID,
						RiderCategory: rider.Category,
						TeamID:        teamID,
						TeamCategory:  string(category),
					})
				}
			}
		}

		team.Name = strings.TrimSpace(req.Name)
		team.Category = string(category)
		team.Division = strings.TrimSpace(req.Division)
		team.DivisionNumber = req.DivisionNumber
		team.LeagueID = req.LeagueID
		if err := s.repo.UpdateTeam(ctx, db, team); err != nil {
			if errors.Is(err, rosterdb.ErrAlreadyExists) {
				return fail[*rosterdb.Team](&domainerr.ConflictError{Entity: "team", Key: team.Name})
			}
			return results.OperationResult[*rosterdb.Team, error]{}, err
		}
		return ok(team)
	})
}

// DeleteTeam removes a team together with its memberships, lineups and
// availability rows. The captain's flag is cleared unless they still captain
// another team.
func (s *RosterService) DeleteTeam(ctx context.Context, teamID int64) (*TeamDeletion, error) {
	deletion, err := execute(s, ctx, "DeleteTeam", id(teamID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*TeamDeletion, error], error) {
		team, err := s.repo.GetTeamForUpdate(ctx, db, teamID)
		if err != nil {
			if errors.Is(err, rosterdb.ErrNotFound) {
				return fail[*TeamDeletion](domainerr.NewNotFound("team", teamID))
			}
			return results.OperationResult[*TeamDeletion, error]{}, err
		}

		roster, err := s.repo.ListRoster(ctx, db, teamID)
		if err != nil {
			return results.OperationResult[*TeamDeletion, error]{}, err
		}
		cleared, err := s.repo.ClearTeamCaptainFlags(ctx, db, teamID)
		if err != nil {
			return results.OperationResult[*TeamDeletion, error]{}, err
		}
		if err := s.repo.DeleteTeam(ctx, db, teamID); err != nil {
			if errors.Is(err, rosterdb.ErrNotFound) {
				return fail[*TeamDeletion](domainerr.NewNotFound("team", teamID))
			}
			return results.OperationResult[*TeamDeletion, error]{}, err
		}

		out := &TeamDeletion{
			TeamID:            teamID,
			Name:              team.Name,
			RiderIDs:          make([]int64, 0, len(roster)),
			CaptainRiderID:    team.CaptainRiderID,
			ClearedCaptainIDs: cleared,
		}
		for _, r := range roster {
			out.RiderIDs = append(out.RiderIDs, r.ID)
		}
		return ok(out)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.RosterTeamDeletedV1, events.RosterTeamDeletedPayloadV1{
		TeamID:         deletion.TeamID,
		Name:           deletion.Name,
		RiderIDs:       deletion.RiderIDs,
		CaptainRiderID: deletion.CaptainRiderID,
	})
	return deletion, nil
}
