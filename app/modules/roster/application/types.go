package rosterservice

type CreateRiderRequest struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Email    string `json:"email,omitempty"`
	FTP      *int   `json:"ftp,omitempty"`
	Country  string `json:"country,omitempty"`
}

// RiderQuery filters riders. Category is matched on its normalized tier, so "A"
// also returns A+ riders.
type RiderQuery struct {
	Category string
	TeamID   int64
	Active   *bool
	Search   string
	Limit    int
	Offset   int
}

type LeagueRequest struct {
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"`
	Region string `json:"region,omitempty"`
}

type TeamRequest struct {
	Name           string `json:"name"`
	Category       string `json:"category"`
	Division       string `json:"division,omitempty"`
	DivisionNumber int    `json:"division_number,omitempty"`
	LeagueID       *int64 `json:"league_id,omitempty"`
}

type TeamQuery struct {
	LeagueID int64
	Category string
	Division string
}

// RosterRemoval describes the effect of RemoveRiderFromRoster.
type RosterRemoval struct {
	TeamID         int64 `json:"team_id"`
	RiderID        int64 `json:"rider_id"`
	Removed        bool  `json:"removed"`
	CaptainCleared bool  `json:"captain_cleared"`
}

// CaptainChange describes the effect of AssignCaptain. RiderID is nil when the
// captain was removed.
type CaptainChange struct {
	TeamID          int64   `json:"team_id"`
	RiderID         *int64  `json:"rider_id"`
	PreviousRiderID *int64  `json:"previous_rider_id"`
	ClearedRiderIDs []int64 `json:"cleared_rider_ids"`
}

type ImportSummary struct {
	Total   int `json:"total"`
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// LeagueDeletion describes the effect of DeleteLeague. Teams of the league are
// kept and lose their league.
type LeagueDeletion struct {
	LeagueID        int64   `json:"league_id"`
	Name            string  `json:"name"`
	DetachedTeamIDs []int64 `json:"detached_team_ids"`
}

// TeamDeletion describes the effect of DeleteTeam. RiderIDs lists the roster at
// the time of deletion; the riders themselves are kept.
type TeamDeletion struct {
	TeamID            int64   `json:"team_id"`
	Name              string  `json:"name"`
	RiderIDs          []int64 `json:"rider_ids"`
	CaptainRiderID    *int64  `json:"captain_rider_id"`
	ClearedCaptainIDs []int64 `json:"cleared_captain_ids"`
}
