package lineupdb

import (
	"time"

	"github.com/uptrace/bun"
)

// Assignment puts one rider in a team's lineup for a race date.
type Assignment struct {
	bun.BaseModel `bun:"table:lineup_assignments,alias:la"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	TeamID    int64     `bun:"team_id,notnull" json:"team_id"`
	EventDate time.Time `bun:"event_date,type:date,notnull" json:"event_date"`
	RiderID   int64     `bun:"rider_id,notnull" json:"rider_id"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// Availability is a rider's answer for a team's race date.
type Availability struct {
	bun.BaseModel `bun:"table:rider_availability,alias:av"`

	TeamID    int64     `bun:"team_id,pk" json:"team_id"`
	EventDate time.Time `bun:"event_date,pk,type:date" json:"event_date"`
	RiderID   int64     `bun:"rider_id,pk" json:"rider_id"`
	Status    string    `bun:"status,notnull" json:"status"`
	Note      string    `bun:"note,nullzero" json:"note,omitempty"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// LineupRider is an assignment joined with the rider's profile.
type LineupRider struct {
	RiderID  int64  `bun:"rider_id" json:"rider_id"`
	Name     string `bun:"name" json:"name"`
	Category string `bun:"category" json:"category"`
	Active   bool   `bun:"active" json:"active"`
}

// AvailabilityEntry is an availability row joined with the rider's name.
type AvailabilityEntry struct {
	RiderID   int64     `bun:"rider_id" json:"rider_id"`
	Name      string    `bun:"name" json:"name"`
	Status    string    `bun:"status" json:"status"`
	Note      string    `bun:"note" json:"note,omitempty"`
	UpdatedAt time.Time `bun:"updated_at" json:"updated_at"`
}
