package reportservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	reportdb "github.com/zrl-league/zrl-manager/app/modules/report/infrastructure/repositories"
	rosterdomain "github.com/zrl-league/zrl-manager/app/modules/roster/domain"
	"github.com/zrl-league/zrl-manager/app/shared/domainerr"
	"github.com/zrl-league/zrl-manager/app/shared/observability"
	"github.com/zrl-league/zrl-manager/app/shared/observability/attr"
	"github.com/zrl-league/zrl-manager/app/shared/results"
)

const serviceName = "ReportService"

// ReportService implements the Service interface. Reports only read, so
// operations run on the repository's default connection.
type ReportService struct {
	repo    reportdb.Repository
	logger  *slog.Logger
	metrics observability.OperationMetrics
	tracer  trace.Tracer
	palette ChartPalette
}

func NewReportService(repo reportdb.Repository, logger *slog.Logger, metrics observability.OperationMetrics, tracer trace.Tracer) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		palette: DefaultPalette,
	}
}

func (s *ReportService) LineupReport(ctx context.Context, q LineupQuery) (*LineupReport, error) {
	return read(s, ctx, "LineupReport", q.Date.Format(time.DateOnly), func(ctx context.Context) (results.OperationResult[*LineupReport, error], error) {
		return s.lineupReport(ctx, q)
	})
}

func (s *ReportService) lineupReport(ctx context.Context, q LineupQuery) (results.OperationResult[*LineupReport, error], error) {
	if q.Date.IsZero() {
		return fail[*LineupReport](&domainerr.ValidationError{Field: "date", Reason: "is required"})
	}
	categories, err := storedCategories(q.Category)
	if err != nil {
		return fail[*LineupReport](err)
	}
	rows, err := s.repo.LineupRows(ctx, nil, reportdb.LineupFilter{
		EventDate:  q.Date,
		LeagueID:   q.LeagueID,
		Categories: categories,
		Division:   q.Division,
	})
	if err != nil {
		return results.OperationResult[*LineupReport, error]{}, err
	}
	return ok(groupLineups(q.Date, rows))
}

// groupLineups folds rows, already ordered by team, into one entry per team.
func groupLineups(date time.Time, rows []reportdb.LineupRow) *LineupReport {
	report := &LineupReport{EventDate: date, Teams: []TeamLineup{}}
	for _, row := range rows {
		n := len(report.Teams)
		if n == 0 || report.Teams[n-1].TeamID != row.TeamID {
			report.Teams = append(report.Teams, TeamLineup{
				TeamID:   row.TeamID,
				Name:     row.TeamName,
				Category: row.TeamCategory,
				Division: row.Division,
				League:   row.LeagueName,
				Riders:   []ReportRider{},
			})
			n++
		}
		report.Teams[n-1].Riders = append(report.Teams[n-1].Riders, ReportRider{
			RiderID:  row.RiderID,
			Name:     row.RiderName,
			Category: row.RiderCategory,
			Captain:  row.IsCaptain,
		})
	}
	return report
}

func (s *ReportService) TeamsReport(ctx context.Context, q TeamQuery) ([]reportdb.TeamSummary, error) {
	return read(s, ctx, "TeamsReport", q.Division, func(ctx context.Context) (results.OperationResult[[]reportdb.TeamSummary, error], error) {
		categories, err := storedCategories(q.Category)
		if err != nil {
			return fail[[]reportdb.TeamSummary](err)
		}
		teams, err := s.repo.TeamSummaries(ctx, nil, reportdb.TeamFilter{
			LeagueID:   q.LeagueID,
			Categories: categories,
			Division:   q.Division,
		})
		if err != nil {
			return results.OperationResult[[]reportdb.TeamSummary, error]{}, err
		}
		if teams == nil {
			teams = []reportdb.TeamSummary{}
		}
		return ok(teams)
	})
}

func (s *ReportService) LineupWorkbook(ctx context.Context, q LineupQuery) ([]byte, error) {
	return read(s, ctx, "LineupWorkbook", q.Date.Format(time.DateOnly), func(ctx context.Context) (results.OperationResult[[]byte, error], error) {
		report, err := s.lineupReport(ctx, q)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}
		if report.IsFailure() {
			return fail[[]byte](*report.Failure)
		}
		data, err := BuildLineupWorkbook(*report.Success)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}
		return ok(data)
	})
}

func (s *ReportService) CategoryChart(ctx context.Context, q ChartQuery) ([]byte, error) {
	return read(s, ctx, "CategoryChart", "", func(ctx context.Context) (results.OperationResult[[]byte, error], error) {
		counts, err := s.repo.CategoryCounts(ctx, nil, reportdb.RiderFilter{LeagueID: q.LeagueID, TeamID: q.TeamID})
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}
		data, err := RenderCategoryChart(CategoryBars(counts), s.palette)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}
		return ok(data)
	})
}

// CategoryBars folds raw counts onto the D..A scale. A+ counts as A; values
// that do not parse are dropped.
func CategoryBars(counts []reportdb.CategoryCount) []CategoryBar {
	totals := map[rosterdomain.Category]int{}
	for _, c := range counts {
		cat, err := rosterdomain.NormalizeCategory(c.Category)
		if err != nil {
			continue
		}
		totals[cat] += c.Riders
	}
	var bars []CategoryBar
	for _, cat := range rosterdomain.Categories() {
		bars = append(bars, CategoryBar{Category: string(cat), Riders: totals[cat]})
	}
	return bars
}

func storedCategories(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	c, err := rosterdomain.NormalizeCategory(raw)
	if err != nil {
		return nil, &domainerr.ValidationError{Field: "category", Reason: err.Error()}
	}
	return rosterdomain.StoredValues(c), nil
}

func fail[S any](err error) (results.OperationResult[S, error], error) {
	return results.FailureResult[S, error](err), nil
}

func ok[S any](v S) (results.OperationResult[S, error], error) {
	return results.SuccessResult[S, error](v), nil
}

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// read runs op under telemetry and flattens the result. Reports never write,
// so there is no transaction.
func read[S any](s *ReportService, ctx context.Context, operationName, identifier string, op operationFunc[S, error]) (S, error) {
	return results.Unwrap(withTelemetry(s, ctx, operationName, identifier, op))
}

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *ReportService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			}
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		}
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}

	return result, nil
}
