package reportdb

import "time"

// LineupFilter selects lineup rows for one race date. Category holds the
// stored team category values to match.
type LineupFilter struct {
	EventDate  time.Time
	LeagueID   *int64
	Categories []string
	Division   string
}

// TeamFilter narrows the teams report.
type TeamFilter struct {
	LeagueID   *int64
	Categories []string
	Division   string
}

// RiderFilter narrows the category distribution to a league or a team.
// Only active riders are counted.
type RiderFilter struct {
	LeagueID *int64
	TeamID   *int64
}

// LineupRow is one assigned rider with the team it races for.
type LineupRow struct {
	TeamID        int64  `bun:"team_id"`
	TeamName      string `bun:"team_name"`
	TeamCategory  string `bun:"team_category"`
	Division      string `bun:"division"`
	LeagueName    string `bun:"league_name"`
	RiderID       int64  `bun:"rider_id"`
	RiderName     string `bun:"rider_name"`
	RiderCategory string `bun:"rider_category"`
	IsCaptain     bool   `bun:"is_captain"`
}

// TeamSummary is one line of the teams report.
type TeamSummary struct {
	TeamID      int64  `bun:"team_id" json:"team_id"`
	Name        string `bun:"name" json:"name"`
	Category    string `bun:"category" json:"category"`
	Division    string `bun:"division" json:"division,omitempty"`
	LeagueName  string `bun:"league_name" json:"league,omitempty"`
	RiderCount  int    `bun:"rider_count" json:"rider_count"`
	CaptainName string `bun:"captain_name" json:"captain,omitempty"`
}

// CategoryCount is the number of riders stored with a raw category value.
type CategoryCount struct {
	Category string `bun:"category"`
	Riders   int    `bun:"riders"`
}
