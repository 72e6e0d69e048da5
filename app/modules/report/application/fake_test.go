package reportservice

import (
	"context"

	"github.com/uptrace/bun"

	reportdb "github.com/zrl-league/zrl-manager/app/modules/report/infrastructure/repositories"
)

type FakeReportRepo struct {
	trace []string

	LineupRowsFunc     func(ctx context.Context, db bun.IDB, filter reportdb.LineupFilter) ([]reportdb.LineupRow, error)
	TeamSummariesFunc  func(ctx context.Context, db bun.IDB, filter reportdb.TeamFilter) ([]reportdb.TeamSummary, error)
	CategoryCountsFunc func(ctx context.Context, db bun.IDB, filter reportdb.RiderFilter) ([]reportdb.CategoryCount, error)
}

func NewFakeReportRepo() *FakeReportRepo {
	return &FakeReportRepo{trace: []string{}}
}

func (f *FakeReportRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeReportRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeReportRepo) LineupRows(ctx context.Context, db bun.IDB, filter reportdb.LineupFilter) ([]reportdb.LineupRow, error) {
	f.record("LineupRows")
	if f.LineupRowsFunc != nil {
		return f.LineupRowsFunc(ctx, db, filter)
	}
	return nil, nil
}

func (f *FakeReportRepo) TeamSummaries(ctx context.Context, db bun.IDB, filter reportdb.TeamFilter) ([]reportdb.TeamSummary, error) {
	f.record("TeamSummaries")
	if f.TeamSummariesFunc != nil {
		return f.TeamSummariesFunc(ctx, db, filter)
	}
	return nil, nil
}

func (f *FakeReportRepo) CategoryCounts(ctx context.Context, db bun.IDB, filter reportdb.RiderFilter) ([]reportdb.CategoryCount, error) {
	f.record("CategoryCounts")
	if f.CategoryCountsFunc != nil {
		return f.CategoryCountsFunc(ctx, db, filter)
	}
	return nil, nil
}

var _ reportdb.Repository = (*FakeReportRepo)(nil)
