package reportservice

import "time"

type LineupQuery struct {
	Date     time.Time
	LeagueID *int64
	Category string
	Division string
}

type TeamQuery struct {
	LeagueID *int64
	Category string
	Division string
}

type ChartQuery struct {
	LeagueID *int64
	TeamID   *int64
}

type LineupReport struct {
	EventDate time.Time    `json:"event_date"`
	Teams     []TeamLineup `json:"teams"`
}

type TeamLineup struct {
	TeamID   int64         `json:"team_id"`
	Name     string        `json:"name"`
	Category string        `json:"category"`
	Division string        `json:"division,omitempty"`
	League   string        `json:"league,omitempty"`
	Riders   []ReportRider `json:"riders"`
}

type ReportRider struct {
	RiderID  int64  `json:"rider_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Captain  bool   `json:"captain"`
}

// CategoryBar is one bar of the category chart.
type CategoryBar struct {
	Category string
	Riders   int
}
