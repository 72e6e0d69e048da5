// Package domainerr holds the error kinds raised by roster and lineup
// operations. Every kind carries the data a caller needs to correct the request.
package domainerr

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NotFoundError reports a missing team, rider, league, season, round or event.
type NotFoundError struct {
	Entity string
	ID     string
}

func NewNotFound(entity string, id int64) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: strconv.FormatInt(id, 10)}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// NoScheduledEventError is returned when no event date was supplied and the team
// has no upcoming event.
type NoScheduledEventError struct {
	TeamID int64
}

func (e *NoScheduledEventError) Error() string {
	return fmt.Sprintf("no scheduled event for team %d", e.TeamID)
}

// CapacityExceededError is returned when a lineup has more riders than allowed.
type CapacityExceededError struct {
	Limit     int
	Requested int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("lineup has %d riders, limit is %d", e.Requested, e.Limit)
}

// NotRosteredError names every rider that is not an active member of the team.
type NotRosteredError struct {
	TeamID   int64
	RiderIDs []int64
}

func (e *NotRosteredError) Error() string {
	return fmt.Sprintf("riders %s are not active members of team %d", joinIDs(e.RiderIDs), e.TeamID)
}

// DoubleBookingError names every rider already in another team's lineup on
// EventDate.
type DoubleBookingError struct {
	EventDate time.Time
	RiderIDs  []int64
}

func (e *DoubleBookingError) Error() string {
	return fmt.Sprintf("riders %s are already in another lineup on %s", joinIDs(e.RiderIDs), e.EventDate.Format(time.DateOnly))
}

// CategoryMismatchError is returned when a rider's tier is above the team's.
type CategoryMismatchError struct {
	RiderID       int64
	RiderCategory string
	TeamID        int64
	TeamCategory  string
}

func (e *CategoryMismatchError) Error() string {
	return fmt.Sprintf("rider %d (category %s) cannot join team %d (category %s)",
		e.RiderID, e.RiderCategory, e.TeamID, e.TeamCategory)
}

// RosterCapacityError is returned when a rider already belongs to Limit teams.
type RosterCapacityError struct {
	RiderID int64
	Limit   int
	TeamIDs []int64
}

func (e *RosterCapacityError) Error() string {
	return fmt.Sprintf("rider %d already belongs to %d teams (%s)", e.RiderID, e.Limit, joinIDs(e.TeamIDs))
}

// InactiveRiderError is returned when an inactive rider is added to a roster.
type InactiveRiderError struct {
	RiderID int64
}

func (e *InactiveRiderError) Error() string {
	return fmt.Sprintf("rider %d is not active", e.RiderID)
}

// CaptainConflictError is returned when a rider already captains another team.
type CaptainConflictError struct {
	RiderID     int64
	OtherTeamID int64
}

func (e *CaptainConflictError) Error() string {
	return fmt.Sprintf("rider %d is already captain of team %d", e.RiderID, e.OtherTeamID)
}

// ValidationError reports malformed input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError reports a uniqueness clash on create, e.g. a duplicate rider id.
type ConflictError struct {
	Entity string
	Key    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s already exists", e.Entity, e.Key)
}

// InUseError is returned when a delete is refused because other records still
// depend on the entity.
type InUseError struct {
	Entity string
	ID     int64
	Reason string
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("%s %d is still in use: %s", e.Entity, e.ID, e.Reason)
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
