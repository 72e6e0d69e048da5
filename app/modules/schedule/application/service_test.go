package scheduleservice

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"

	rosterdb "github.com/zrl-league/zrl-manager/app/modules/roster/infrastructure/repositories"
	scheduledb "github.com/zrl-league/zrl-manager/app/modules/schedule/infrastructure/repositories"
	"github.com/zrl-league/zrl-manager/app/shared/clock"
	"github.com/zrl-league/zrl-manager/app/shared/domainerr"
	"github.com/zrl-league/zrl-manager/app/shared/eventbus"
	"github.com/zrl-league/zrl-manager/app/shared/events"
	"github.com/zrl-league/zrl-manager/app/shared/observability"
)

// Monday 3 November 2025, 23:30 UTC: already Tuesday in Rome.
var lateMonday = time.Date(2025, 11, 3, 23, 30, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

type testEnv struct {
	svc   *ScheduleService
	repo  *FakeScheduleRepo
	teams *FakeTeamDirectory
	bus   *eventbus.Recorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		t.Skip("tzdata not available")
	}
	env := &testEnv{
		repo: NewFakeScheduleRepo(),
		teams: &FakeTeamDirectory{
			Teams: map[int64]*rosterdb.Team{
				1: {ID: 1, Name: "Bora Amateurs", Category: "B", LeagueID: ptr(int64(7))},
				2: {ID: 2, Name: "No League", Category: "C"},
			},
			Leagues: map[int64]*rosterdb.League{7: {ID: 7, Name: "ZRL Italia"}},
			Rosters: map[int64][]rosterdb.Rider{1: {{ID: 11, Name: "Ada", Category: "B", Active: true}}},
		},
		bus: eventbus.NewRecorder(),
	}
	env.svc = NewScheduleService(
		env.repo,
		env.teams,
		nil,
		observability.NewNoop(),
		noop.NewTracerProvider().Tracer("test"),
		nil,
		env.bus,
		&clock.FakeClock{NowFn: func() time.Time { return lateMonday }},
		loc,
	)
	return env
}

func TestCreateSeason(t *testing.T) {
	t.Run("returns the existing season", func(t *testing.T) {
		env := newTestEnv(t)
		env.repo.GetSeasonByYearsFunc = func(_ context.Context, _ bun.IDB, start, end int) (*scheduledb.Season, error) {
			return &scheduledb.Season{ID: 3, Name: "ZRL 2025/26", StartYear: start, EndYear: end}, nil
		}

		season, created, err := env.svc.CreateSeason(context.Background(), SeasonRequest{StartYear: 2025, EndYear: 2026})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, int64(3), season.ID)
		assert.NotContains(t, env.repo.Trace(), "CreateSeason")
	})

	t.Run("creates with a default name", func(t *testing.T) {
		env := newTestEnv(t)
		env.repo.CreateSeasonFunc = func(_ context.Context, _ bun.IDB, s *scheduledb.Season) error {
			s.ID = 4
			return nil
		}

		season, created, err := env.svc.CreateSeason(context.Background(), SeasonRequest{StartYear: 2025, EndYear: 2026})
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "ZRL 2025/26", season.Name)
	})

	t.Run("rejects a reversed range", func(t *testing.T) {
		env := newTestEnv(t)
		_, _, err := env.svc.CreateSeason(context.Background(), SeasonRequest{StartYear: 2026, EndYear: 2025})
		var vErr *domainerr.ValidationError
		assert.ErrorAs(t, err, &vErr)
		assert.Empty(t, env.repo.Trace())
	})
}

func TestCreateRound(t *testing.T) {
	tests := []struct {
		name      string
		req       RoundRequest
		noSeason  bool
		wantName  string
		wantStart *time.Time
		wantErr   any
	}{
		{
			name:      "numbers and names the round",
			req:       RoundRequest{SeasonID: 1, StartDate: "2025-11-04", EndDate: "2025-11-25"},
			wantName:  "Round 3",
			wantStart: ptr(date(2025, 11, 4)),
		},
		{
			name:     "keeps an explicit name",
			req:      RoundRequest{SeasonID: 1, Name: "Round 3 - Climbers"},
			wantName: "Round 3 - Climbers",
		},
		{
			name:     "unknown season",
			req:      RoundRequest{SeasonID: 9},
			noSeason: true,
			wantErr:  new(*domainerr.NotFoundError),
		},
		{
			name:    "end before start",
			req:     RoundRequest{SeasonID: 1, StartDate: "2025-11-25", EndDate: "2025-11-04"},
			wantErr: new(*domainerr.ValidationError),
		},
		{
			name:    "unparseable date",
			req:     RoundRequest{SeasonID: 1, StartDate: "someday"},
			wantErr: new(*domainerr.ValidationError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if !tt.noSeason {
				env.repo.GetSeasonForUpdateFunc = func(_ context.Context, _ bun.IDB, id int64) (*scheduledb.Season, error) {
					return &scheduledb.Season{ID: id}, nil
				}
			}
			env.repo.NextRoundNumberFunc = func(context.Context, bun.IDB, int64) (int, error) { return 3, nil }

			round, err := env.svc.CreateRound(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorAs(t, err, tt.wantErr)
				assert.NotContains(t, env.repo.Trace(), "CreateRound")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 3, round.Number)
			assert.Equal(t, tt.wantName, round.Name)
			assert.Equal(t, tt.wantStart, round.StartDate)
		})
	}
}

func TestCreateEvent(t *testing.T) {
	round := &scheduledb.Round{ID: 5, Number: 2, Name: "Round 2", StartDate: ptr(date(2025, 11, 1)), EndDate: ptr(date(2025, 11, 30))}

	tests := []struct {
		name     string
		req      EventRequest
		wantDate time.Time
		wantErr  any
	}{
		{
			name:     "calendar date",
			req:      EventRequest{RoundID: 5, Name: "Race 1", Date: "2025-11-11"},
			wantDate: date(2025, 11, 11),
		},
		{
			// Today in Rome is Tuesday the 4th.
			name:     "natural language resolves in the league time zone",
			req:      EventRequest{RoundID: 5, Date: "tomorrow"},
			wantDate: date(2025, 11, 5),
		},
		{
			name:     "league scoped",
			req:      EventRequest{RoundID: 5, LeagueID: ptr(int64(7)), Date: "2025-11-18"},
			wantDate: date(2025, 11, 18),
		},
		{
			name:    "unknown league",
			req:     EventRequest{RoundID: 5, LeagueID: ptr(int64(99)), Date: "2025-11-18"},
			wantErr: new(*domainerr.NotFoundError),
		},
		{
			name:    "outside the round",
			req:     EventRequest{RoundID: 5, Date: "2025-12-02"},
			wantErr: new(*domainerr.ValidationError),
		},
		{
			name:    "unknown round",
			req:     EventRequest{RoundID: 6, Date: "2025-11-11"},
			wantErr: new(*domainerr.NotFoundError),
		},
		{
			name:    "not a date",
			req:     EventRequest{RoundID: 5, Date: "whenever"},
			wantErr: new(*domainerr.ValidationError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.repo.GetRoundFunc = func(_ context.Context, _ bun.IDB, id int64) (*scheduledb.Round, error) {
				if id == round.ID {
					return round, nil
				}
				return nil, scheduledb.ErrNotFound
			}

			event, err := env.svc.CreateEvent(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorAs(t, err, tt.wantErr)
				assert.NotContains(t, env.repo.Trace(), "CreateEvent")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDate, event.EventDate)
			assert.Equal(t, tt.req.LeagueID, event.LeagueID)
			assert.NotEmpty(t, event.Name)
		})
	}
}

func TestNextEventDate(t *testing.T) {
	t.Run("uses league-local today and the team league", func(t *testing.T) {
		env := newTestEnv(t)
		var gotFrom time.Time
		var gotLeague *int64
		env.repo.NextEventFunc = func(_ context.Context, _ bun.IDB, from time.Time, leagueID *int64) (*scheduledb.Event, error) {
			gotFrom, gotLeague = from, leagueID
			return &scheduledb.Event{ID: 1, EventDate: date(2025, 11, 4)}, nil
		}

		d, err := env.svc.NextEventDate(context.Background(), nil, 1)
		require.NoError(t, err)
		assert.Equal(t, date(2025, 11, 4), d)
		assert.Equal(t, date(2025, 11, 4), gotFrom)
		require.NotNil(t, gotLeague)
		assert.Equal(t, int64(7), *gotLeague)
	})

	t.Run("team without league", func(t *testing.T) {
		env := newTestEnv(t)
		env.repo.NextEventFunc = func(_ context.Context, _ bun.IDB, _ time.Time, leagueID *int64) (*scheduledb.Event, error) {
			assert.Nil(t, leagueID)
			return &scheduledb.Event{ID: 1, EventDate: date(2025, 11, 11)}, nil
		}
		d, err := env.svc.NextEventDate(context.Background(), nil, 2)
		require.NoError(t, err)
		assert.Equal(t, date(2025, 11, 11), d)
	})

	t.Run("nothing scheduled", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.NextEventDate(context.Background(), nil, 1)
		var noEvent *domainerr.NoScheduledEventError
		require.ErrorAs(t, err, &noEvent)
		assert.Equal(t, int64(1), noEvent.TeamID)
	})

	t.Run("unknown team", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.NextEventDate(context.Background(), nil, 42)
		var notFound *domainerr.NotFoundError
		assert.ErrorAs(t, err, &notFound)
		assert.Empty(t, env.repo.Trace())
	})

	t.Run("infrastructure error passes through", func(t *testing.T) {
		env := newTestEnv(t)
		boom := errors.New("connection reset")
		env.repo.NextEventFunc = func(context.Context, bun.IDB, time.Time, *int64) (*scheduledb.Event, error) {
			return nil, boom
		}
		_, err := env.svc.NextEventDate(context.Background(), nil, 1)
		assert.ErrorIs(t, err, boom)
	})
}

func TestNextEvent_IncludesRoster(t *testing.T) {
	env := newTestEnv(t)
	// Only league 7 has a scheduled event.
	env.repo.NextEventFunc = func(_ context.Context, _ bun.IDB, _ time.Time, leagueID *int64) (*scheduledb.Event, error) {
		if leagueID == nil || *leagueID != 7 {
			return nil, scheduledb.ErrNotFound
		}
		return &scheduledb.Event{ID: 8, LeagueID: ptr(int64(7)), EventDate: date(2025, 11, 4)}, nil
	}

	view, err := env.svc.NextEvent(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(8), view.Event.ID)
	require.Len(t, view.Roster, 1)
	assert.Equal(t, int64(11), view.Roster[0].ID)

	_, err = env.svc.NextEvent(context.Background(), 2)
	var noEvent *domainerr.NoScheduledEventError
	require.ErrorAs(t, err, &noEvent)
	assert.Equal(t, int64(2), noEvent.TeamID)
}

func TestNextEvent_LeaguelessTeamSeesLeaguelessEvent(t *testing.T) {
	env := newTestEnv(t)
	env.repo.NextEventFunc = func(_ context.Context, _ bun.IDB, _ time.Time, leagueID *int64) (*scheduledb.Event, error) {
		assert.Nil(t, leagueID)
		return &scheduledb.Event{ID: 9, EventDate: date(2025, 11, 4)}, nil
	}

	view, err := env.svc.NextEvent(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(9), view.Event.ID)
	assert.Empty(t, view.Roster)
}

func TestRefreshActiveEvents(t *testing.T) {
	env := newTestEnv(t)
	next := date(2025, 11, 4)
	calls := 0
	env.repo.ListEventsFunc = func(_ context.Context, _ bun.IDB, f scheduledb.EventFilter) ([]scheduledb.Event, error) {
		require.NotNil(t, f.Active)
		calls++
		if calls == 1 {
			return []scheduledb.Event{{ID: 1, EventDate: next}}, nil
		}
		return []scheduledb.Event{{ID: 1, EventDate: next}, {ID: 2, EventDate: next}}, nil
	}
	env.repo.EarliestEventDateFunc = func(_ context.Context, _ bun.IDB, from time.Time) (*time.Time, error) {
		assert.Equal(t, date(2025, 11, 4), from)
		return &next, nil
	}
	var gotDate *time.Time
	env.repo.SetActiveDateFunc = func(_ context.Context, _ bun.IDB, d *time.Time) (int, error) {
		gotDate = d
		return 2, nil
	}

	summary, err := env.svc.RefreshActiveEvents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &next, gotDate)
	assert.Equal(t, 2, summary.Changed)
	assert.Equal(t, []int64{2}, summary.Activated)

	recorded := env.bus.Events()
	require.Len(t, recorded, 1)
	assert.Equal(t, events.ScheduleEventActivatedV1, recorded[0].Topic)
	assert.Equal(t, events.ScheduleEventActivatedPayloadV1{EventID: 2, EventDate: "2025-11-04"}, recorded[0].Payload)
}

func TestRefreshActiveEvents_NothingUpcoming(t *testing.T) {
	env := newTestEnv(t)
	env.repo.SetActiveDateFunc = func(_ context.Context, _ bun.IDB, d *time.Time) (int, error) {
		assert.Nil(t, d)
		return 1, nil
	}

	summary, err := env.svc.RefreshActiveEvents(context.Background())
	require.NoError(t, err)
	assert.Nil(t, summary.ActiveDate)
	assert.Empty(t, summary.Activated)
	assert.Empty(t, env.bus.Events())
}

func TestUpdateRound(t *testing.T) {
	existing := func() *scheduledb.Round {
		return &scheduledb.Round{ID: 5, SeasonID: 1, Number: 2, Name: "Round 2", StartDate: ptr(date(2025, 11, 1)), EndDate: ptr(date(2025, 11, 30))}
	}
	scheduled := []scheduledb.Event{{ID: 8, RoundID: 5, EventDate: date(2025, 11, 11)}}

	tests := []struct {
		name       string
		req        RoundUpdateRequest
		updateErr  error
		wantRound  *scheduledb.Round
		wantErr    any
		wantUpdate bool
	}{
		{
			name:       "renames and moves bounds around events",
			req:        RoundUpdateRequest{RoundID: 5, Name: "Round 2 - Flat", StartDate: "2025-11-04", EndDate: "2025-11-18"},
			wantRound:  &scheduledb.Round{ID: 5, SeasonID: 1, Number: 2, Name: "Round 2 - Flat", StartDate: ptr(date(2025, 11, 4)), EndDate: ptr(date(2025, 11, 18))},
			wantUpdate: true,
		},
		{
			name:       "renumbers and clears bounds",
			req:        RoundUpdateRequest{RoundID: 5, Number: 4},
			wantRound:  &scheduledb.Round{ID: 5, SeasonID: 1, Number: 4, Name: "Round 2"},
			wantUpdate: true,
		},
		{
			name:    "bounds exclude a scheduled event",
			req:     RoundUpdateRequest{RoundID: 5, StartDate: "2025-11-12", EndDate: "2025-11-30"},
			wantErr: new(*domainerr.ValidationError),
		},
		{
			name:    "end before start",
			req:     RoundUpdateRequest{RoundID: 5, StartDate: "2025-11-30", EndDate: "2025-11-01"},
			wantErr: new(*domainerr.ValidationError),
		},
		{
			name:    "negative number",
			req:     RoundUpdateRequest{RoundID: 5, Number: -1},
			wantErr: new(*domainerr.ValidationError),
		},
		{
			name:       "number taken in season",
			req:        RoundUpdateRequest{RoundID: 5, Number: 3},
			updateErr:  scheduledb.ErrAlreadyExists,
			wantErr:    new(*domainerr.ConflictError),
			wantUpdate: true,
		},
		{
			name:    "unknown round",
			req:     RoundUpdateRequest{RoundID: 9},
			wantErr: new(*domainerr.NotFoundError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.repo.GetRoundFunc = func(_ context.Context, _ bun.IDB, roundID int64) (*scheduledb.Round, error) {
				if roundID != 5 {
					return nil, scheduledb.ErrNotFound
				}
				return existing(), nil
			}
			env.repo.ListEventsFunc = func(_ context.Context, _ bun.IDB, f scheduledb.EventFilter) ([]scheduledb.Event, error) {
				assert.Equal(t, int64(5), f.RoundID)
				return scheduled, nil
			}
			env.repo.UpdateRoundFunc = func(context.Context, bun.IDB, *scheduledb.Round) error { return tt.updateErr }

			round, err := env.svc.UpdateRound(context.Background(), tt.req)
			assert.Equal(t, tt.wantUpdate, slices.Contains(env.repo.Trace(), "UpdateRound"))
			if tt.wantErr != nil {
				assert.ErrorAs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRound, round)
		})
	}
}

func TestDeleteRound(t *testing.T) {
	t.Run("removes round with its events", func(t *testing.T) {
		env := newTestEnv(t)
		env.repo.GetRoundFunc = func(_ context.Context, _ bun.IDB, roundID int64) (*scheduledb.Round, error) {
			return &scheduledb.Round{ID: roundID, SeasonID: 1}, nil
		}
		env.repo.ListEventsFunc = func(context.Context, bun.IDB, scheduledb.EventFilter) ([]scheduledb.Event, error) {
			return []scheduledb.Event{{ID: 8}, {ID: 9}}, nil
		}

		deletion, err := env.svc.DeleteRound(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, &RoundDeletion{RoundID: 5, SeasonID: 1, EventIDs: []int64{8, 9}}, deletion)
		assert.Equal(t, []string{"GetRound", "ListEvents", "DeleteRound"}, env.repo.Trace())

		recorded := env.bus.Events()
		require.Len(t, recorded, 1)
		assert.Equal(t, events.ScheduleRoundDeletedV1, recorded[0].Topic)
		assert.Equal(t, events.ScheduleRoundDeletedPayloadV1{RoundID: 5, SeasonID: 1, EventIDs: []int64{8, 9}}, recorded[0].Payload)
	})

	t.Run("unknown round", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.DeleteRound(context.Background(), 5)
		assert.Equal(t, domainerr.NewNotFound("round", 5), err)
		assert.NotContains(t, env.repo.Trace(), "DeleteRound")
		assert.Empty(t, env.bus.Events())
	})
}

func TestDeleteEvent(t *testing.T) {
	t.Run("reports whether the event was active", func(t *testing.T) {
		env := newTestEnv(t)
		env.repo.GetEventFunc = func(_ context.Context, _ bun.IDB, eventID int64) (*scheduledb.Event, error) {
			return &scheduledb.Event{ID: eventID, RoundID: 5, EventDate: date(2025, 11, 4), Active: true}, nil
		}

		event, err := env.svc.DeleteEvent(context.Background(), 8)
		require.NoError(t, err)
		assert.Equal(t, int64(8), event.ID)
		assert.Equal(t, []string{"GetEvent", "DeleteEvent"}, env.repo.Trace())

		recorded := env.bus.Events()
		require.Len(t, recorded, 1)
		assert.Equal(t, events.ScheduleEventDeletedV1, recorded[0].Topic)
		assert.Equal(t, events.ScheduleEventDeletedPayloadV1{EventID: 8, RoundID: 5, EventDate: "2025-11-04", WasActive: true}, recorded[0].Payload)
	})

	t.Run("unknown event", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.DeleteEvent(context.Background(), 8)
		assert.Equal(t, domainerr.NewNotFound("event", 8), err)
		assert.NotContains(t, env.repo.Trace(), "DeleteEvent")
		assert.Empty(t, env.bus.Events())
	})
}
