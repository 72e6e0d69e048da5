package schedulehandlers

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	scheduleservice "github.com/zrl-league/zrl-manager/app/modules/schedule/application"
	scheduledb "github.com/zrl-league/zrl-manager/app/modules/schedule/infrastructure/repositories"
)

// FakeService is a programmable scheduleservice.Service.
type FakeService struct {
	trace []string

	CreateSeasonFunc        func(ctx context.Context, req scheduleservice.SeasonRequest) (*scheduledb.Season, bool, error)
	ListSeasonsFunc         func(ctx context.Context) ([]scheduledb.Season, error)
	CreateRoundFunc         func(ctx context.Context, req scheduleservice.RoundRequest) (*scheduledb.Round, error)
	ListRoundsFunc          func(ctx context.Context, seasonID int64) ([]scheduledb.Round, error)
	UpdateRoundFunc         func(ctx context.Context, req scheduleservice.RoundUpdateRequest) (*scheduledb.Round, error)
	DeleteRoundFunc         func(ctx context.Context, roundID int64) (*scheduleservice.RoundDeletion, error)
	CreateEventFunc         func(ctx context.Context, req scheduleservice.EventRequest) (*scheduledb.Event, error)
	GetEventFunc            func(ctx context.Context, eventID int64) (*scheduledb.Event, error)
	ListEventsFunc          func(ctx context.Context, query scheduleservice.EventQuery) ([]scheduledb.Event, error)
	DeleteEventFunc         func(ctx context.Context, eventID int64) (*scheduledb.Event, error)
	NextEventDateFunc       func(ctx context.Context, db bun.IDB, teamID int64) (time.Time, error)
	NextEventFunc           func(ctx context.Context, teamID int64) (*scheduleservice.NextEventView, error)
	RefreshActiveEventsFunc func(ctx context.Context) (*scheduleservice.RefreshSummary, error)
}

func (f *FakeService) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeService) CreateSeason(ctx context.Context, req scheduleservice.SeasonRequest) (*scheduledb.Season, bool, error) {
	f.record("CreateSeason")
	if f.CreateSeasonFunc != nil {
		return f.CreateSeasonFunc(ctx, req)
	}
	return &scheduledb.Season{}, true, nil
}

func (f *FakeService) ListSeasons(ctx context.Context) ([]scheduledb.Season, error) {
	f.record("ListSeasons")
	if f.ListSeasonsFunc != nil {
		return f.ListSeasonsFunc(ctx)
	}
	return []scheduledb.Season{}, nil
}

func (f *FakeService) CreateRound(ctx context.Context, req scheduleservice.RoundRequest) (*scheduledb.Round, error) {
	f.record("CreateRound")
	if f.CreateRoundFunc != nil {
		return f.CreateRoundFunc(ctx, req)
	}
	return &scheduledb.Round{SeasonID: req.SeasonID}, nil
}

func (f *FakeService) ListRounds(ctx context.Context, seasonID int64) ([]scheduledb.Round, error) {
	f.record("ListRounds")
	if f.ListRoundsFunc != nil {
		return f.ListRoundsFunc(ctx, seasonID)
	}
	return []scheduledb.Round{}, nil
}

func (f *FakeService) UpdateRound(ctx context.Context, req scheduleservice.RoundUpdateRequest) (*scheduledb.Round, error) {
	f.record("UpdateRound")
	if f.UpdateRoundFunc != nil {
		return f.UpdateRoundFunc(ctx, req)
	}
	return &scheduledb.Round{ID: req.RoundID, Number: req.Number, Name: req.Name}, nil
}

func (f *FakeService) DeleteRound(ctx context.Context, roundID int64) (*scheduleservice.RoundDeletion, error) {
	f.record("DeleteRound")
	if f.DeleteRoundFunc != nil {
		return f.DeleteRoundFunc(ctx, roundID)
	}
	return &scheduleservice.RoundDeletion{RoundID: roundID, EventIDs: []int64{}}, nil
}

func (f *FakeService) CreateEvent(ctx context.Context, req scheduleservice.EventRequest) (*scheduledb.Event, error) {
	f.record("CreateEvent")
	if f.CreateEventFunc != nil {
		return f.CreateEventFunc(ctx, req)
	}
	return &scheduledb.Event{RoundID: req.RoundID}, nil
}

func (f *FakeService) GetEvent(ctx context.Context, eventID int64) (*scheduledb.Event, error) {
	f.record("GetEvent")
	if f.GetEventFunc != nil {
		return f.GetEventFunc(ctx, eventID)
	}
	return &scheduledb.Event{ID: eventID}, nil
}

func (f *FakeService) ListEvents(ctx context.Context, query scheduleservice.EventQuery) ([]scheduledb.Event, error) {
	f.record("ListEvents")
	if f.ListEventsFunc != nil {
		return f.ListEventsFunc(ctx, query)
	}
	return []scheduledb.Event{}, nil
}

func (f *FakeService) DeleteEvent(ctx context.Context, eventID int64) (*scheduledb.Event, error) {
	f.record("DeleteEvent")
	if f.DeleteEventFunc != nil {
		return f.DeleteEventFunc(ctx, eventID)
	}
	return &scheduledb.Event{ID: eventID}, nil
}

func (f *FakeService) NextEventDate(ctx context.Context, db bun.IDB, teamID int64) (time.Time, error) {
	f.record("NextEventDate")
	if f.NextEventDateFunc != nil {
		return f.NextEventDateFunc(ctx, db, teamID)
	}
	return time.Time{}, nil
}

func (f *FakeService) NextEvent(ctx context.Context, teamID int64) (*scheduleservice.NextEventView, error) {
	f.record("NextEvent")
	if f.NextEventFunc != nil {
		return f.NextEventFunc(ctx, teamID)
	}
	return &scheduleservice.NextEventView{TeamID: teamID}, nil
}

func (f *FakeService) RefreshActiveEvents(ctx context.Context) (*scheduleservice.RefreshSummary, error) {
	f.record("RefreshActiveEvents")
	if f.RefreshActiveEventsFunc != nil {
		return f.RefreshActiveEventsFunc(ctx)
	}
	return &scheduleservice.RefreshSummary{Activated: []int64{}}, nil
}

var _ scheduleservice.Service = (*FakeService)(nil)

type fakeEnqueuer struct{ calls int }

func (f *fakeEnqueuer) EnqueueRefresh(context.Context) (int64, error) {
	f.calls++
	return 99, nil
}
