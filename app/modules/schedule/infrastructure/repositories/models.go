package scheduledb

import (
	"time"

	"github.com/uptrace/bun"
)

// Season is a ZRL season, e.g. 2025/26.
type Season struct {
	bun.BaseModel `bun:"table:seasons,alias:s"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	StartYear int       `bun:"start_year,notnull" json:"start_year"`
	EndYear   int       `bun:"end_year,notnull" json:"end_year"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// Round is a numbered block of races within a season.
type Round struct {
	bun.BaseModel `bun:"table:rounds,alias:rd"`

	ID        int64      `bun:"id,pk,autoincrement" json:"id"`
	SeasonID  int64      `bun:"season_id,notnull" json:"season_id"`
	Number    int        `bun:"number,notnull" json:"number"`
	Name      string     `bun:"name,notnull" json:"name"`
	StartDate *time.Time `bun:"start_date,type:date" json:"start_date,omitempty"`
	EndDate   *time.Time `bun:"end_date,type:date" json:"end_date,omitempty"`
	CreatedAt time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// Event is a race day. A nil LeagueID means the event applies to every league.
type Event struct {
	bun.BaseModel `bun:"table:events,alias:e"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	RoundID    int64     `bun:"round_id,notnull" json:"round_id"`
	LeagueID   *int64    `bun:"league_id" json:"league_id,omitempty"`
	Name       string    `bun:"name,notnull" json:"name"`
	EventDate  time.Time `bun:"event_date,type:date,notnull" json:"event_date"`
	Format     string    `bun:"format,nullzero" json:"format,omitempty"`
	World      string    `bun:"world,nullzero" json:"world,omitempty"`
	Route      string    `bun:"route,nullzero" json:"route,omitempty"`
	DistanceKM *float64  `bun:"distance_km" json:"distance_km,omitempty"`
	ElevationM *int      `bun:"elevation_m" json:"elevation_m,omitempty"`
	Active     bool      `bun:"active,notnull,default:false" json:"active"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// EventFilter narrows ListEvents. Zero values mean "any".
type EventFilter struct {
	RoundID  int64
	SeasonID int64
	LeagueID int64
	From     time.Time
	To       time.Time
	Active   *bool
}
