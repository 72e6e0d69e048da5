package rosterservice

import (
	"context"
	"errors"

	"github.com/uptrace/bun"

	rosterdb "github.com/zrl-league/zrl-manager/app/modules/roster/infrastructure/repositories"
	"github.com/zrl-league/zrl-manager/app/shared/domainerr"
	"github.com/zrl-league/zrl-manager/app/shared/events"
	"github.com/zrl-league/zrl-manager/app/shared/results"
)

// AssignCaptain hands the team's captaincy to riderID, or removes it when
// riderID is nil. The previous captain's flag, the new captain's flag and the
// team pointer change in one transaction.
func (s *RosterService) AssignCaptain(ctx context.Context, teamID int64, riderID *int64) (*CaptainChange, error) {
	change, err := execute(s, ctx, "AssignCaptain", id(teamID), func(ctx context.Context, db bun.IDB) (results.OperationResult[*CaptainChange, error], error) {
		team, err := s.repo.GetTeamForUpdate(ctx, db, teamID)
		if err != nil {
			if errors.Is(err, rosterdb.ErrNotFound) {
				return fail[*CaptainChange](domainerr.NewNotFound("team", teamID))
			}
			return results.OperationResult[*CaptainChange, error]{}, err
		}

		if riderID != nil {
			if _, err := s.repo.GetRider(ctx, db, *riderID); err != nil {
				if errors.Is(err, rosterdb.ErrNotFound) {
					return fail[*CaptainChange](domainerr.NewNotFound("rider", *riderID))
				}
				return results.OperationResult[*CaptainChange, error]{}, err
			}
			member, err := s.repo.IsActiveMember(ctx, db, teamID, *riderID)
			if err != nil {
				return results.OperationResult[*CaptainChange, error]{}, err
			}
			if !member {
				return fail[*CaptainChange](&domainerr.NotRosteredError{TeamID: teamID, RiderIDs: []int64{*riderID}})
			}
			other, err := s.repo.TeamCaptainedBy(ctx, db, *riderID, teamID)
			if err != nil {
				return results.OperationResult[*CaptainChange, error]{}, err
			}
			if other != 0 {
				return fail[*CaptainChange](&domainerr.CaptainConflictError{RiderID: *riderID, OtherTeamID: other})
			}
		}

		cleared, err := s.repo.ClearTeamCaptainFlags(ctx, db, teamID)
		if err != nil {
			return results.OperationResult[*CaptainChange, error]{}, err
		}
		if riderID != nil {
			if err := s.repo.SetRiderCaptainFlag(ctx, db, *riderID, true); err != nil {
				return results.OperationResult[*CaptainChange, error]{}, err
			}
		}
		if err := s.repo.SetTeamCaptain(ctx, db, teamID, riderID); err != nil {
			return results.OperationResult[*CaptainChange, error]{}, err
		}

		return ok(&CaptainChange{
			TeamID:          teamID,
			RiderID:         riderID,
			PreviousRiderID: team.CaptainRiderID,
			ClearedRiderIDs: cleared,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.RosterCaptainAssignedV1, events.RosterCaptainAssignedPayloadV1{
		TeamID:          teamID,
		RiderID:         change.RiderID,
		PreviousRiderID: change.PreviousRiderID,
	})
	return change, nil
}
