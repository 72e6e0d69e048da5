package lineuphandlers

import (
	"context"
	"time"

	lineupservice "github.com/zrl-league/zrl-manager/app/modules/lineup/application"
)

// FakeService is a programmable lineupservice.Service.
type FakeService struct {
	ProposeLineupFunc    func(ctx context.Context, teamID int64, eventDate *time.Time, riderIDs []int64) (*lineupservice.LineupResult, error)
	RemoveRiderFunc      func(ctx context.Context, teamID int64, eventDate time.Time, riderID int64) (*lineupservice.Removal, error)
	GetLineupFunc        func(ctx context.Context, teamID int64, eventDate *time.Time) (*lineupservice.LineupView, error)
	SetAvailabilityFunc  func(ctx context.Context, req lineupservice.AvailabilityRequest) (*lineupservice.AvailabilityView, error)
	ListAvailabilityFunc func(ctx context.Context, teamID int64, eventDate time.Time) (*lineupservice.AvailabilityView, error)
}

func (f *FakeService) ProposeLineup(ctx context.Context, teamID int64, eventDate *time.Time, riderIDs []int64) (*lineupservice.LineupResult, error) {
	if f.ProposeLineupFunc != nil {
		return f.ProposeLineupFunc(ctx, teamID, eventDate, riderIDs)
	}
	return &lineupservice.LineupResult{TeamID: teamID, RiderIDs: riderIDs, Count: len(riderIDs)}, nil
}

func (f *FakeService) RemoveRider(ctx context.Context, teamID int64, eventDate time.Time, riderID int64) (*lineupservice.Removal, error) {
	if f.RemoveRiderFunc != nil {
		return f.RemoveRiderFunc(ctx, teamID, eventDate, riderID)
	}
	return &lineupservice.Removal{TeamID: teamID, EventDate: eventDate, RiderID: riderID}, nil
}

func (f *FakeService) GetLineup(ctx context.Context, teamID int64, eventDate *time.Time) (*lineupservice.LineupView, error) {
	if f.GetLineupFunc != nil {
		return f.GetLineupFunc(ctx, teamID, eventDate)
	}
	return &lineupservice.LineupView{TeamID: teamID}, nil
}

func (f *FakeService) SetAvailability(ctx context.Context, req lineupservice.AvailabilityRequest) (*lineupservice.AvailabilityView, error) {
	if f.SetAvailabilityFunc != nil {
		return f.SetAvailabilityFunc(ctx, req)
	}
	return &lineupservice.AvailabilityView{TeamID: req.TeamID, EventDate: req.EventDate}, nil
}

func (f *FakeService) ListAvailability(ctx context.Context, teamID int64, eventDate time.Time) (*lineupservice.AvailabilityView, error) {
	if f.ListAvailabilityFunc != nil {
		return f.ListAvailabilityFunc(ctx, teamID, eventDate)
	}
	return &lineupservice.AvailabilityView{TeamID: teamID, EventDate: eventDate}, nil
}

var _ lineupservice.Service = (*FakeService)(nil)
