package lineupservice

import (
	"context"
	"sort"
	"time"

	"github.com/uptrace/bun"

	lineupdb "github.com/zrl-league/zrl-manager/app/modules/lineup/infrastructure/repositories"
)

type slot struct {
	teamID int64
	date   string
}

// lineupState backs a FakeLineupRepo with maps so replacement and conflict
// rules can be checked across several proposals.
type lineupState struct {
	lineups map[slot][]int64
}

func newLineupState() *lineupState {
	return &lineupState{lineups: map[slot][]int64{}}
}

func (s *lineupState) set(teamID int64, date time.Time, riders ...int64) {
	s.lineups[slot{teamID, date.Format(time.DateOnly)}] = riders
}

func (s *lineupState) get(teamID int64, date time.Time) []int64 {
	return s.lineups[slot{teamID, date.Format(time.DateOnly)}]
}

// bookings counts assignments per rider on date across all teams.
func (s *lineupState) bookings(date time.Time) map[int64]int {
	out := map[int64]int{}
	for k, riders := range s.lineups {
		if k.date != date.Format(time.DateOnly) {
			continue
		}
		for _, r := range riders {
			out[r]++
		}
	}
	return out
}

func (s *lineupState) repo() *FakeLineupRepo {
	f := NewFakeLineupRepo()
	f.ConflictingAssignmentsFunc = func(_ context.Context, _ bun.IDB, date time.Time, riderIDs []int64, teamID int64) ([]lineupdb.Assignment, error) {
		wanted := map[int64]bool{}
		for _, id := range riderIDs {
			wanted[id] = true
		}
		var out []lineupdb.Assignment
		for k, riders := range s.lineups {
			if k.teamID == teamID || k.date != date.Format(time.DateOnly) {
				continue
			}
			for _, r := range riders {
				if wanted[r] {
					out = append(out, lineupdb.Assignment{TeamID: k.teamID, EventDate: date, RiderID: r})
				}
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].RiderID < out[j].RiderID })
		return out, nil
	}
	f.ReplaceLineupFunc = func(_ context.Context, _ bun.IDB, teamID int64, date time.Time, riderIDs []int64) error {
		s.set(teamID, date, append([]int64(nil), riderIDs...)...)
		return nil
	}
	f.DeleteAssignmentFunc = func(_ context.Context, _ bun.IDB, teamID int64, date time.Time, riderID int64) (bool, error) {
		riders := s.get(teamID, date)
		for i, r := range riders {
			if r == riderID {
				s.set(teamID, date, append(riders[:i:i], riders[i+1:]...)...)
				return true, nil
			}
		}
		return false, nil
	}
	f.ListLineupFunc = func(_ context.Context, _ bun.IDB, teamID int64, date time.Time) ([]lineupdb.LineupRider, error) {
		var out []lineupdb.LineupRider
		for _, r := range s.get(teamID, date) {
			out = append(out, lineupdb.LineupRider{RiderID: r, Active: true})
		}
		return out, nil
	}
	return f
}
