package scheduleservice

import (
	"time"

	rosterdb "github.com/zrl-league/zrl-manager/app/modules/roster/infrastructure/repositories"
	scheduledb "github.com/zrl-league/zrl-manager/app/modules/schedule/infrastructure/repositories"
)

type SeasonRequest struct {
	Name      string `json:"name"`
	StartYear int    `json:"start_year"`
	EndYear   int    `json:"end_year"`
}

// RoundRequest dates accept the same inputs as EventRequest.Date and may be empty.
type RoundRequest struct {
	SeasonID  int64  `json:"-"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// RoundUpdateRequest replaces a round's attributes. A zero Number and an empty
// Name keep the current values; empty dates clear the bound.
type RoundUpdateRequest struct {
	RoundID   int64  `json:"-"`
	Number    int    `json:"number"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// RoundDeletion describes the effect of DeleteRound. EventIDs lists the events
// removed with the round.
type RoundDeletion struct {
	RoundID  int64   `json:"round_id"`
	SeasonID int64   `json:"season_id"`
	EventIDs []int64 `json:"event_ids"`
}

// EventRequest.Date is a calendar date or a phrase such as "next tuesday".
type EventRequest struct {
	RoundID    int64    `json:"-"`
	LeagueID   *int64   `json:"league_id"`
	Name       string   `json:"name"`
	Date       string   `json:"date"`
	Format     string   `json:"format"`
	World      string   `json:"world"`
	Route      string   `json:"route"`
	DistanceKM *float64 `json:"distance_km"`
	ElevationM *int     `json:"elevation_m"`
}

// EventQuery narrows ListEvents. Upcoming restricts to events from today on.
type EventQuery struct {
	RoundID  int64
	SeasonID int64
	LeagueID int64
	From     time.Time
	To       time.Time
	Active   *bool
	Upcoming bool
}

// NextEventView is what a captain sees when planning the next race.
type NextEventView struct {
	TeamID int64            `json:"team_id"`
	Event  scheduledb.Event `json:"event"`
	Roster []rosterdb.Rider `json:"roster"`
}

type RefreshSummary struct {
	ActiveDate *time.Time `json:"active_date"`
	Changed    int        `json:"changed"`
	Activated  []int64    `json:"activated"`
}
