package rosterservice

import (
	"context"
	"sort"

	"github.com/uptrace/bun"

	rosterdb "github.com/zrl-league/zrl-manager/app/modules/roster/infrastructure/repositories"
)

// rosterState backs a FakeRosterRepo with maps so multi-step operations can be
// checked end to end.
type rosterState struct {
	riders  map[int64]*rosterdb.Rider
	teams   map[int64]*rosterdb.Team
	members map[int64]map[int64]bool // teamID -> riderID
}

func newRosterState() *rosterState {
	return &rosterState{
		riders:  map[int64]*rosterdb.Rider{},
		teams:   map[int64]*rosterdb.Team{},
		members: map[int64]map[int64]bool{},
	}
}

func (s *rosterState) addRider(id int64, category string, active bool) *rosterdb.Rider {
	r := &rosterdb.Rider{ID: id, Name: "rider", Category: category, Active: active}
	s.riders[id] = r
	return r
}

func (s *rosterState) addTeam(id int64, category string) *rosterdb.Team {
	t := &rosterdb.Team{ID: id, Name: "team", Category: category}
	s.teams[id] = t
	return t
}

func (s *rosterState) enroll(teamID int64, riderIDs ...int64) {
	if s.members[teamID] == nil {
		s.members[teamID] = map[int64]bool{}
	}
	for _, id := range riderIDs {
		s.members[teamID][id] = true
	}
}

func (s *rosterState) repo() *FakeRosterRepo {
	f := NewFakeRosterRepo()
	getRider := func(_ context.Context, _ bun.IDB, riderID int64) (*rosterdb.Rider, error) {
		r, ok := s.riders[riderID]
		if !ok {
			return nil, rosterdb.ErrNotFound
		}
		cp := *r
		return &cp, nil
	}
	getTeam := func(_ context.Context, _ bun.IDB, teamID int64) (*rosterdb.Team, error) {
		t, ok := s.teams[teamID]
		if !ok {
			return nil, rosterdb.ErrNotFound
		}
		cp := *t
		return &cp, nil
	}
	f.GetRiderFunc = getRider
	f.GetRiderForUpdateFunc = getRider
	f.GetTeamFunc = getTeam
	f.GetTeamForUpdateFunc = getTeam
	f.SetRiderCaptainFlagFunc = func(_ context.Context, _ bun.IDB, riderID int64, captain bool) error {
		s.riders[riderID].IsCaptain = captain
		return nil
	}
	f.SetTeamCaptainFunc = func(_ context.Context, _ bun.IDB, teamID int64, riderID *int64) error {
		s.teams[teamID].CaptainRiderID = riderID
		return nil
	}
	f.TeamCaptainedByFunc = func(_ context.Context, _ bun.IDB, riderID, excludeTeamID int64) (int64, error) {
		for id, t := range s.teams {
			if id != excludeTeamID && t.CaptainRiderID != nil && *t.CaptainRiderID == riderID {
				return id, nil
			}
		}
		return 0, nil
	}
	f.ClearTeamCaptainFlagsFunc = func(_ context.Context, _ bun.IDB, teamID int64) ([]int64, error) {
		var cleared []int64
		if c := s.teams[teamID].CaptainRiderID; c != nil && s.riders[*c].IsCaptain {
			s.riders[*c].IsCaptain = false
			cleared = append(cleared, *c)
		}
		return cleared, nil
	}
	f.IsActiveMemberFunc = func(_ context.Context, _ bun.IDB, teamID, riderID int64) (bool, error) {
		return s.members[teamID][riderID] && s.riders[riderID] != nil && s.riders[riderID].Active, nil
	}
	f.TeamIDsForRiderFunc = func(_ context.Context, _ bun.IDB, riderID int64) ([]int64, error) {
		var ids []int64
		for teamID, m := range s.members {
			if m[riderID] {
				ids = append(ids, teamID)
			}
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		return ids, nil
	}
	f.UpsertMembershipFunc = func(_ context.Context, _ bun.IDB, teamID, riderID int64) error {
		s.enroll(teamID, riderID)
		return nil
	}
	f.DeleteMembershipFunc = func(_ context.Context, _ bun.IDB, teamID, riderID int64) (bool, error) {
		if !s.members[teamID][riderID] {
			return false, nil
		}
		delete(s.members[teamID], riderID)
		return true, nil
	}
	f.DeleteTeamFunc = func(_ context.Context, _ bun.IDB, teamID int64) error {
		if _, ok := s.teams[teamID]; !ok {
			return rosterdb.ErrNotFound
		}
		delete(s.teams, teamID)
		delete(s.members, teamID)
		return nil
	}
	f.ListRosterFunc = func(_ context.Context, _ bun.IDB, teamID int64) ([]rosterdb.Rider, error) {
		var out []rosterdb.Rider
		for id := range s.members[teamID] {
			out = append(out, *s.riders[id])
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return out, nil
	}
	return f
}
