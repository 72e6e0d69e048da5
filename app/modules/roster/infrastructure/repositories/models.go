package rosterdb

import (
	"time"

	"github.com/uptrace/bun"
)

// Rider is a league rider. ID is the rider's ZwiftPower id.
type Rider struct {
	bun.BaseModel `bun:"table:riders,alias:r"`

	ID        int64     `bun:"id,pk" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Category  string    `bun:"category,notnull" json:"category"`
	Active    bool      `bun:"active,notnull,default:true" json:"active"`
	IsCaptain bool      `bun:"is_captain,notnull,default:false" json:"is_captain"`
	Email     string    `bun:"email,nullzero" json:"email,omitempty"`
	FTP       *int      `bun:"ftp" json:"ftp,omitempty"`
	Country   string    `bun:"country,nullzero" json:"country,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// League groups teams, e.g. a regional ZRL league.
type League struct {
	bun.BaseModel `bun:"table:leagues,alias:l"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Type      string    `bun:"type,nullzero" json:"type,omitempty"`
	Region    string    `bun:"region,nullzero" json:"region,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// Team is a league team. CaptainRiderID mirrors the rider whose is_captain flag
// is set for this team.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	Name           string    `bun:"name,notnull" json:"name"`
	Category       string    `bun:"category,notnull" json:"category"`
	Division       string    `bun:"division,nullzero" json:"division,omitempty"`
	DivisionNumber int       `bun:"division_number,nullzero" json:"division_number,omitempty"`
	LeagueID       *int64    `bun:"league_id" json:"league_id,omitempty"`
	CaptainRiderID *int64    `bun:"captain_rider_id" json:"captain_rider_id,omitempty"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// Membership links a rider to a team roster.
type Membership struct {
	bun.BaseModel `bun:"table:rider_teams,alias:rt"`

	RiderID   int64     `bun:"rider_id,pk" json:"rider_id"`
	TeamID    int64     `bun:"team_id,pk" json:"team_id"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// RiderFilter narrows ListRiders. Zero values mean "any".
type RiderFilter struct {
	// Categories holds stored category values; see rosterdomain.StoredValues.
	Categories []string
	TeamID     int64
	Active     *bool
	Search     string
	Limit      int
	Offset     int
}

// TeamFilter narrows ListTeams. Zero values mean "any".
type TeamFilter struct {
	LeagueID int64
	Category string
	Division string
}
