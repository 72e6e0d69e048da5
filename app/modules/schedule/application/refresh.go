package scheduleservice

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	scheduledb "github.com/zrl-league/zrl-manager/app/modules/schedule/infrastructure/repositories"
	"github.com/zrl-league/zrl-manager/app/shared/events"
	"github.com/zrl-league/zrl-manager/app/shared/results"
)

// RefreshActiveEvents flags the events on the next race date as active and
// clears the flag everywhere else. Several leagues racing on that date each keep
// their own active event.
func (s *ScheduleService) RefreshActiveEvents(ctx context.Context) (*RefreshSummary, error) {
	var activated []scheduledb.Event
	summary, err := execute(s, ctx, "RefreshActiveEvents", "", func(ctx context.Context, db bun.IDB) (results.OperationResult[*RefreshSummary, error], error) {
		active := true
		before, err := s.repo.ListEvents(ctx, db, scheduledb.EventFilter{Active: &active})
		if err != nil {
			return results.OperationResult[*RefreshSummary, error]{}, err
		}

		date, err := s.repo.EarliestEventDate(ctx, db, s.today())
		if err != nil {
			return results.OperationResult[*RefreshSummary, error]{}, err
		}
		changed, err := s.repo.SetActiveDate(ctx, db, date)
		if err != nil {
			return results.OperationResult[*RefreshSummary, error]{}, err
		}

		after, err := s.repo.ListEvents(ctx, db, scheduledb.EventFilter{Active: &active})
		if err != nil {
			return results.OperationResult[*RefreshSummary, error]{}, err
		}

		wasActive := make(map[int64]bool, len(before))
		for _, e := range before {
			wasActive[e.ID] = true
		}
		out := &RefreshSummary{ActiveDate: date, Changed: changed, Activated: []int64{}}
		activated = activated[:0]
		for _, e := range after {
			if !wasActive[e.ID] {
				out.Activated = append(out.Activated, e.ID)
				activated = append(activated, e)
			}
		}
		return ok(out)
	})
	if err != nil {
		return nil, err
	}

	for _, e := range activated {
		s.publish(ctx, events.ScheduleEventActivatedV1, events.ScheduleEventActivatedPayloadV1{
			EventID:   e.ID,
			EventDate: e.EventDate.Format(time.DateOnly),
		})
	}
	return summary, nil
}
