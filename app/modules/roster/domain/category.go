package rosterdomain

import (
	"fmt"
	"strings"
)

// Category is a skill tier. A+ is a valid stored value that ranks as A.
type Category string

const (
	CategoryD     Category = "D"
	CategoryC     Category = "C"
	CategoryB     Category = "B"
	CategoryA     Category = "A"
	CategoryAPlus Category = "A+"
)

// MaxTeamsPerRider caps roster memberships per rider.
const MaxTeamsPerRider = 2

// tierOrder lists normalized categories from lowest to highest.
var tierOrder = []Category{CategoryD, CategoryC, CategoryB, CategoryA}

// ParseCategory validates raw input and returns it in canonical form, keeping A+.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(raw)))
	switch c {
	case CategoryD, CategoryC, CategoryB, CategoryA, CategoryAPlus:
		return c, nil
	default:
		return "", fmt.Errorf("unknown category %q", raw)
	}
}

// NormalizeCategory maps a category onto the comparison scale. This is the only
// place A+ is folded into A.
func NormalizeCategory(raw string) (Category, error) {
	c, err := ParseCategory(raw)
	if err != nil {
		return "", err
	}
	if c == CategoryAPlus {
		return CategoryA, nil
	}
	return c, nil
}

// Tier returns the index of raw on the D < C < B < A scale.
func Tier(raw string) (int, error) {
	c, err := NormalizeCategory(raw)
	if err != nil {
		return -1, err
	}
	for i, t := range tierOrder {
		if t == c {
			return i, nil
		}
	}
	return -1, fmt.Errorf("unknown category %q", raw)
}

// CanJoin reports whether a rider of riderCategory may be rostered on a team of
// teamCategory: the rider's tier must not exceed the team's.
func CanJoin(riderCategory, teamCategory string) (bool, error) {
	riderTier, err := Tier(riderCategory)
	if err != nil {
		return false, fmt.Errorf("rider: %w", err)
	}
	teamTier, err := Tier(teamCategory)
	if err != nil {
		return false, fmt.Errorf("team: %w", err)
	}
	return riderTier <= teamTier, nil
}

// Categories returns the normalized tiers in ascending order.
func Categories() []Category {
	out := make([]Category, len(tierOrder))
	copy(out, tierOrder)
	return out
}

// StoredValues lists the raw values that normalize to c, for filtering stored
// rows by tier.
func StoredValues(c Category) []string {
	if c == CategoryA {
		return []string{string(CategoryA), string(CategoryAPlus)}
	}
	return []string{string(c)}
}
