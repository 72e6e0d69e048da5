package lineupservice

import (
	"time"

	lineupdb "github.com/zrl-league/zrl-manager/app/modules/lineup/infrastructure/repositories"
)

// LineupResult is the outcome of a committed proposal.
type LineupResult struct {
	TeamID    int64     `json:"team_id"`
	EventDate time.Time `json:"event_date"`
	RiderIDs  []int64   `json:"rider_ids"`
	Count     int       `json:"count"`
}

// Removal reports whether RemoveRider deleted a row.
type Removal struct {
	TeamID    int64     `json:"team_id"`
	EventDate time.Time `json:"event_date"`
	RiderID   int64     `json:"rider_id"`
	Removed   bool      `json:"removed"`
}

// LineupView is a team's lineup for one date.
type LineupView struct {
	TeamID    int64                  `json:"team_id"`
	EventDate time.Time              `json:"event_date"`
	Limit     int                    `json:"limit"`
	Riders    []lineupdb.LineupRider `json:"riders"`
}

type AvailabilityRequest struct {
	TeamID    int64     `json:"-"`
	EventDate time.Time `json:"-"`
	RiderID   int64     `json:"rider_id"`
	Status    string    `json:"status"`
	Note      string    `json:"note"`
}

// AvailabilityView lists the answers for a date. Pending holds rostered riders
// who have not answered yet.
type AvailabilityView struct {
	TeamID    int64                        `json:"team_id"`
	EventDate time.Time                    `json:"event_date"`
	Entries   []lineupdb.AvailabilityEntry `json:"entries"`
	Pending   []int64                      `json:"pending"`
}
