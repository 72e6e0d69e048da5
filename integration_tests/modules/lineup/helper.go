//go:build integration

package lineupintegrationtests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	lineupservice "github.com/zrl-league/zrl-manager/app/modules/lineup/application"
	lineupdb "github.com/zrl-league/zrl-manager/app/modules/lineup/infrastructure/repositories"
	rosterservice "github.com/zrl-league/zrl-manager/app/modules/roster/application"
	rosterdb "github.com/zrl-league/zrl-manager/app/modules/roster/infrastructure/repositories"
	scheduleservice "github.com/zrl-league/zrl-manager/app/modules/schedule/application"
	scheduledb "github.com/zrl-league/zrl-manager/app/modules/schedule/infrastructure/repositories"
	"github.com/zrl-league/zrl-manager/app/shared/clock"
	"github.com/zrl-league/zrl-manager/app/shared/eventbus"
	"github.com/zrl-league/zrl-manager/app/shared/observability"
	"github.com/zrl-league/zrl-manager/integration_tests/testutils"
)

// today is the anchored clock date; seeded events fall after it.
var today = time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

type LineupTestDeps struct {
	Ctx       context.Context
	Roster    rosterservice.Service
	Schedule  scheduleservice.Service
	Lineup    lineupservice.Service
	Publisher *eventbus.Recorder
	Gen       *testutils.TestDataGenerator
}

// SetupTestLineupService truncates the database and wires real roster,
// schedule and lineup services over it.
func SetupTestLineupService(t *testing.T) LineupTestDeps {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, testEnv.Reset(ctx))

	obs := testEnv.Obs
	logger := testEnv.Logger
	tracer := obs.Registry.Tracer
	metrics := observability.NewNoop()
	publisher := eventbus.NewRecorder()

	rosterRepo := rosterdb.NewRepository(testEnv.DB)
	roster := rosterservice.NewRosterService(rosterRepo, logger, metrics, tracer, testEnv.DB, publisher)
	schedule := scheduleservice.NewScheduleService(scheduledb.NewRepository(testEnv.DB), rosterRepo, logger, metrics, tracer,
		testEnv.DB, publisher, clock.NewAnchorClock(today), time.UTC)
	lineup := lineupservice.NewLineupService(lineupdb.NewRepository(testEnv.DB), rosterRepo, schedule, logger, metrics, tracer,
		testEnv.DB, publisher, 6)

	return LineupTestDeps{
		Ctx:       ctx,
		Roster:    roster,
		Schedule:  schedule,
		Lineup:    lineup,
		Publisher: publisher,
		Gen:       testutils.NewTestDataGenerator(42),
	}
}

// seedTeam creates a team of the given category with n rostered riders of
// the same category and returns the team id and rider ids.
func (d LineupTestDeps) seedTeam(t *testing.T, category string, leagueID *int64, n int) (int64, []int64) {
	t.Helper()
	team, err := d.Roster.CreateTeam(d.Ctx, d.Gen.Team(category, leagueID))
	require.NoError(t, err)
	riders := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		riders = append(riders, d.addRider(t, team.ID, category))
	}
	return team.ID, riders
}

func (d LineupTestDeps) addRider(t *testing.T, teamID int64, category string) int64 {
	t.Helper()
	rider, err := d.Roster.CreateRider(d.Ctx, d.Gen.Rider(category))
	require.NoError(t, err)
	require.NoError(t, d.Roster.AddRiderToRoster(d.Ctx, teamID, rider.ID))
	return rider.ID
}

// seedEvents creates a season and round with one event per date.
func (d LineupTestDeps) seedEvents(t *testing.T, leagueID *int64, dates ...string) {
	t.Helper()
	season, _, err := d.Schedule.CreateSeason(d.Ctx, scheduleservice.SeasonRequest{Name: "2026/27", StartYear: 2026, EndYear: 2027})
	require.NoError(t, err)
	round, err := d.Schedule.CreateRound(d.Ctx, scheduleservice.RoundRequest{SeasonID: season.ID, Name: "Round 1"})
	require.NoError(t, err)
	for i, date := range dates {
		_, err := d.Schedule.CreateEvent(d.Ctx, scheduleservice.EventRequest{
			RoundID:  round.ID,
			LeagueID: leagueID,
			Name:     "Race " + string(rune('A'+i)),
			Date:     date,
		})
		require.NoError(t, err)
	}
}

func date(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, s)
	require.NoError(t, err)
	return &d
}
