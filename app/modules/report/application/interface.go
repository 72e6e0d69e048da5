package reportservice

import (
	"context"

	reportdb "github.com/zrl-league/zrl-manager/app/modules/report/infrastructure/repositories"
)

// Service builds the read-only league reports.
type Service interface {
	LineupReport(ctx context.Context, q LineupQuery) (*LineupReport, error)
	TeamsReport(ctx context.Context, q TeamQuery) ([]reportdb.TeamSummary, error)
	// LineupWorkbook renders LineupReport as an XLSX file with one sheet per team.
	LineupWorkbook(ctx context.Context, q LineupQuery) ([]byte, error)
	// CategoryChart renders active riders per category as a PNG bar chart.
	CategoryChart(ctx context.Context, q ChartQuery) ([]byte, error)
}

var _ Service = (*ReportService)(nil)
