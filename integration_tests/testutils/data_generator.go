//go:build integration

package testutils

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	rosterservice "github.com/zrl-league/zrl-manager/app/modules/roster/application"
)

// TestDataGenerator builds request payloads with realistic fake values.
type TestDataGenerator struct {
	faker  *gofakeit.Faker
	nextID int64
}

// NewTestDataGenerator seeds the faker; without a seed the clock is used.
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	s := time.Now().UnixNano()
	if len(seed) > 0 {
		s = seed[0]
	}
	return &TestDataGenerator{faker: gofakeit.New(uint64(s)), nextID: 1000}
}

// Rider returns a rider of the given category with a fresh ZwiftPower id.
func (g *TestDataGenerator) Rider(category string) rosterservice.CreateRiderRequest {
	g.nextID++
	ftp := g.faker.IntRange(150, 420)
	return rosterservice.CreateRiderRequest{
		ID:       g.nextID,
		Name:     g.faker.Name(),
		Category: category,
		Email:    g.faker.Email(),
		FTP:      &ftp,
		Country:  g.faker.Country(),
	}
}

// Team returns a team request in the given category.
// Names carry a counter because team and league names are unique.
func (g *TestDataGenerator) Team(category string, leagueID *int64) rosterservice.TeamRequest {
	g.nextID++
	return rosterservice.TeamRequest{
		Name:           fmt.Sprintf("%s %d", g.faker.City(), g.nextID),
		Category:       category,
		Division:       fmt.Sprintf("%s%d", category, g.faker.IntRange(1, 3)),
		DivisionNumber: g.faker.IntRange(1, 3),
		LeagueID:       leagueID,
	}
}

// League returns a league request.
func (g *TestDataGenerator) League() rosterservice.LeagueRequest {
	g.nextID++
	return rosterservice.LeagueRequest{
		Name:   fmt.Sprintf("ZRL %s %d", g.faker.Country(), g.nextID),
		Type:   "mixed",
		Region: "EMEA",
	}
}
