package rosterservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	rosterdomain "github.com/zrl-league/zrl-manager/app/modules/roster/domain"
	rosterdb "github.com/zrl-league/zrl-manager/app/modules/roster/infrastructure/repositories"
	"github.com/zrl-league/zrl-manager/app/shared/domainerr"
	"github.com/zrl-league/zrl-manager/app/shared/events"
	"github.com/zrl-league/zrl-manager/app/shared/results"
)

// AddRiderToRoster puts an active rider on a team. The rider's tier must not
// exceed the team's and the rider may belong to at most MaxTeamsPerRider teams.
// Re-adding an existing member replaces the row and does not count against the
// cap.
func (s *RosterService) AddRiderToRoster(ctx context.Context, teamID, riderID int64) error {
	_, err := execute(s, ctx, "AddRiderToRoster", fmt.Sprintf("%d/%d", teamID, riderID), func(ctx context.Context, db bun.IDB) (results.OperationResult[bool, error], error) {
		team, err := s.repo.GetTeamForUpdate(ctx, db, teamID)
		if err != nil {
			if errors.Is(err, rosterdb.ErrNotFound) {
				return fail[bool](domainerr.NewNotFound("team", teamID))
			}
			return results.OperationResult[bool, error]{}, err
		}

		// Locking the rider serializes concurrent adds of one rider to
		// different teams, which would otherwise both pass the cap check.
		rider, err := s.repo.GetRiderForUpdate(ctx, db, riderID)
		if err != nil {
			if errors.Is(err, rosterdb.ErrNotFound) {
				return fail[bool](domainerr.NewNotFound("rider", riderID))
			}
			return results.OperationResult[bool, error]{}, err
		}
		if !rider.Active {
			return fail[bool](&domainerr.InactiveRiderError{RiderID: riderID})
		}

		allowed, err := rosterdomain.CanJoin(rider.Category, team.Category)
		if err != nil {
			return results.OperationResult[bool, error]{}, err
		}
		if !allowed {
			return fail[bool](&domainerr.CategoryMismatchError{
				RiderID:       riderID,
				RiderCategory: rider.Category,
				TeamID:        teamID,
				TeamCategory:  team.Category,
			})
		}

		teamIDs, err := s.repo.TeamIDsForRider(ctx, db, riderID)
		if err != nil {
			return results.OperationResult[bool, error]{}, err
		}
		others := make([]int64, 0, len(teamIDs))
		for _, t := range teamIDs {
			if t != teamID {
				others = append(others, t)
			}
		}
		if len(others) >= rosterdomain.MaxTeamsPerRider {
			return fail[bool](&domainerr.RosterCapacityError{
				RiderID: riderID,
				Limit:   rosterdomain.MaxTeamsPerRider,
				TeamIDs: others,
			})
		}

		if err := s.repo.UpsertMembership(ctx, db, teamID, riderID); err != nil {
			return results.OperationResult[bool, error]{}, err
		}
		return ok(true)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.RosterMembershipAddedV1, events.RosterMembershipAddedPayloadV1{TeamID: teamID, RiderID: riderID})
	return nil
}

// RemoveRiderFromRoster deletes the membership. When the rider captained the
// team, the captaincy is cleared in the same transaction.
func (s *RosterService) RemoveRiderFromRoster(ctx context.Context, teamID, riderID int64) (*RosterRemoval, error) {
	removal, err := execute(s, ctx, "RemoveRiderFromRoster", fmt.Sprintf("%d/%d", teamID, riderID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*RosterRemoval, error], error) {
		team, err := s.repo.GetTeamForUpdate(ctx, db, teamID)
		if err != nil {
			if errors.Is(err, rosterdb.ErrNotFound) {
				return fail[*RosterRemoval](domainerr.NewNotFound("team", teamID))
			}
			return results.OperationResult[*RosterRemoval, error]{}, err
		}

		removed, err := s.repo.DeleteMembership(ctx, db, teamID, riderID)
		if err != nil {
			return results.OperationResult[*RosterRemoval, error]{}, err
		}

		out := &RosterRemoval{TeamID: teamID, RiderID: riderID, Removed: removed}
		if team.CaptainRiderID != nil && *team.CaptainRiderID == riderID {
			if err := s.repo.SetTeamCaptain(ctx, db, teamID, nil); err != nil {
				return results.OperationResult[*RosterRemoval, error]{}, err
			}
			if err := s.repo.SetRiderCaptainFlag(ctx, db, riderID, false); err != nil {
				return results.OperationResult[*RosterRemoval, error]{}, err
			}
			out.CaptainCleared = true
		}
		return ok(out)
	})
	if err != nil {
		return nil, err
	}

	if removal.Removed || removal.CaptainCleared {
		s.publish(ctx, events.RosterMembershipRemovedV1, events.RosterMembershipRemovedPayloadV1{
			TeamID:         teamID,
			RiderID:        riderID,
			CaptainCleared: removal.CaptainCleared,
		})
	}
	return removal, nil
}

func (s *RosterService) ListRoster(ctx context.Context, teamID int64) ([]rosterdb.Rider, error) {
	return execute(s, ctx, "ListRoster", id(teamID), func(ctx context.Context, db bun.IDB) (results.OperationResult[[]rosterdb.Rider, error], error) {
		if _, err := s.repo.GetTeam(ctx, db, teamID); err != nil {
			if errors.Is(err, rosterdb.ErrNotFound) {
				return fail[[]rosterdb.Rider](domainerr.NewNotFound("team", teamID))
			}
			return results.OperationResult[[]rosterdb.Rider, error]{}, err
		}
		riders, err := s.repo.ListRoster(ctx, db, teamID)
		if err != nil {
			return results.OperationResult[[]rosterdb.Rider, error]{}, err
		}
		return ok(riders)
	})
}
