// Package lineupdomain holds the pure rules of lineup proposals.
package lineupdomain

import (
	"fmt"
	"strings"
)

// DefaultLimit is the number of riders a team may field on one race date.
const DefaultLimit = 6

// UniqueRiders collapses duplicate ids, keeping the first occurrence of each.
// The result is never nil.
func UniqueRiders(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Ineligible returns, in proposal order, the riders that are not active members
// of the roster. roster maps rider id to its active flag.
func Ineligible(riderIDs []int64, roster map[int64]bool) []int64 {
	var out []int64
	for _, id := range riderIDs {
		if active, ok := roster[id]; !ok || !active {
			out = append(out, id)
		}
	}
	return out
}

// Status is a rider's availability answer for a race date.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
	StatusMaybe       Status = "maybe"
)

// ParseStatus accepts the three statuses case-insensitively.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusAvailable, StatusUnavailable, StatusMaybe:
		return s, nil
	default:
		return "", fmt.Errorf("unknown availability status %q", raw)
	}
}
