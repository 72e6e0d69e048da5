// Package events defines the domain topics published after a mutation commits,
// together with their payloads.
package events

const (
	RosterMembershipAddedV1   = "roster.membership.added.v1"
	RosterMembershipRemovedV1 = "roster.membership.removed.v1"
	RosterCaptainAssignedV1   = "roster.captain.assigned.v1"
	RosterRiderStatusV1       = "roster.rider.status.v1"
	RosterRidersImportedV1    = "roster.riders.imported.v1"
	RosterTeamDeletedV1       = "roster.team.deleted.v1"
	RosterLeagueDeletedV1     = "roster.league.deleted.v1"

	LineupCommittedV1    = "lineup.committed.v1"
	LineupRiderRemovedV1 = "lineup.rider.removed.v1"

	ScheduleEventActivatedV1 = "schedule.event.activated.v1"
	ScheduleEventDeletedV1   = "schedule.event.deleted.v1"
	ScheduleRoundDeletedV1   = "schedule.round.deleted.v1"
)

// AllTopics lists every topic, in publication-module order.
var AllTopics = []string{
	RosterMembershipAddedV1,
	RosterMembershipRemovedV1,
	RosterCaptainAssignedV1,
	RosterRiderStatusV1,
	RosterRidersImportedV1,
	RosterTeamDeletedV1,
	RosterLeagueDeletedV1,
	LineupCommittedV1,
	LineupRiderRemovedV1,
	ScheduleEventActivatedV1,
	ScheduleEventDeletedV1,
	ScheduleRoundDeletedV1,
}

type RosterMembershipAddedPayloadV1 struct {
	TeamID  int64 `json:"team_id"`
	RiderID int64 `json:"rider_id"`
}

type RosterMembershipRemovedPayloadV1 struct {
	TeamID         int64 `json:"team_id"`
	RiderID        int64 `json:"rider_id"`
	CaptainCleared bool  `json:"captain_cleared"`
}

// RosterCaptainAssignedPayloadV1 has a nil RiderID when the captain was removed.
type RosterCaptainAssignedPayloadV1 struct {
	TeamID          int64  `json:"team_id"`
	RiderID         *int64 `json:"rider_id"`
	PreviousRiderID *int64 `json:"previous_rider_id"`
}

type RosterRiderStatusPayloadV1 struct {
	RiderID int64 `json:"rider_id"`
	Active  bool  `json:"active"`
}

type RosterRidersImportedPayloadV1 struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// RosterTeamDeletedPayloadV1 lists the riders that were on the roster. Their
// memberships, lineup assignments and availability answers for the team were
// removed with it.
type RosterTeamDeletedPayloadV1 struct {
	TeamID         int64   `json:"team_id"`
	Name           string  `json:"name"`
	RiderIDs       []int64 `json:"rider_ids"`
	CaptainRiderID *int64  `json:"captain_rider_id"`
}

// RosterLeagueDeletedPayloadV1 lists the teams left without a league.
type RosterLeagueDeletedPayloadV1 struct {
	LeagueID        int64   `json:"league_id"`
	Name            string  `json:"name"`
	DetachedTeamIDs []int64 `json:"detached_team_ids"`
}

type LineupCommittedPayloadV1 struct {
	TeamID    int64   `json:"team_id"`
	EventDate string  `json:"event_date"`
	RiderIDs  []int64 `json:"rider_ids"`
}

type LineupRiderRemovedPayloadV1 struct {
	TeamID    int64  `json:"team_id"`
	EventDate string `json:"event_date"`
	RiderID   int64  `json:"rider_id"`
	Removed   bool   `json:"removed"`
}

type ScheduleEventActivatedPayloadV1 struct {
	EventID   int64  `json:"event_id"`
	EventDate string `json:"event_date"`
}

type ScheduleEventDeletedPayloadV1 struct {
	EventID   int64  `json:"event_id"`
	RoundID   int64  `json:"round_id"`
	EventDate string `json:"event_date"`
	WasActive bool   `json:"was_active"`
}

type ScheduleRoundDeletedPayloadV1 struct {
	RoundID  int64   `json:"round_id"`
	SeasonID int64   `json:"season_id"`
	EventIDs []int64 `json:"event_ids"`
}
