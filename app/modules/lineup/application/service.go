package lineupservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	lineupdomain "github.com/zrl-league/zrl-manager/app/modules/lineup/domain"
	lineupdb "github.com/zrl-league/zrl-manager/app/modules/lineup/infrastructure/repositories"
	"github.com/zrl-league/zrl-manager/app/shared/eventbus"
	"github.com/zrl-league/zrl-manager/app/shared/observability"
	"github.com/zrl-league/zrl-manager/app/shared/observability/attr"
	"github.com/zrl-league/zrl-manager/app/shared/results"
)

const serviceName = "LineupService"

var errRollback = errors.New("rollback on failure result")

// LineupService implements the Service interface.
type LineupService struct {
	repo      lineupdb.Repository
	roster    RosterReader
	resolver  EventDateResolver
	logger    *slog.Logger
	metrics   observability.OperationMetrics
	tracer    trace.Tracer
	db        *bun.DB
	publisher eventbus.Publisher
	limit     int
}

// NewLineupService creates a new LineupService. A limit of zero or less uses
// lineupdomain.DefaultLimit.
func NewLineupService(
	repo lineupdb.Repository,
	roster RosterReader,
	resolver EventDateResolver,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	publisher eventbus.Publisher,
	limit int,
) *LineupService {
	if logger == nil {
		logger = slog.Default()
	}
	if limit <= 0 {
		limit = lineupdomain.DefaultLimit
	}
	return &LineupService{
		repo:      repo,
		roster:    roster,
		resolver:  resolver,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		db:        db,
		publisher: publisher,
		limit:     limit,
	}
}

func (s *LineupService) publish(ctx context.Context, topic string, payload any) {
	eventbus.PublishAfterCommit(ctx, s.publisher, s.logger, topic, payload)
}

func fail[S any](err error) (results.OperationResult[S, error], error) {
	return results.FailureResult[S, error](err), nil
}

func ok[S any](v S) (results.OperationResult[S, error], error) {
	return results.SuccessResult[S, error](v), nil
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

func dateKey(teamID int64, date time.Time) string {
	return id(teamID) + "@" + date.Format(time.DateOnly)
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

type txFunc[S any] func(ctx context.Context, db bun.IDB) (results.OperationResult[S, error], error)

// execute runs fn in a transaction under telemetry and flattens the result.
func execute[S any](s *LineupService, ctx context.Context, operationName, identifier string, fn txFunc[S]) (S, error) {
	return results.Unwrap(withTelemetry(s, ctx, operationName, identifier, func(ctx context.Context) (results.OperationResult[S, error], error) {
		return runInTx(s, ctx, fn)
	}))
}

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *LineupService,
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

	s.logger.InfoContext(ctx, "Operation triggered", attr.ExtractCorrelationID(ctx), attr.String("operation", operationName))

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

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}

	return result, nil
}

// runInTx runs fn in a transaction. A failure result rolls the transaction
// back, so a proposal rejected after its first write leaves no trace.
func runInTx[S any](
	s *LineupService,
	ctx context.Context,
	fn txFunc[S],
) (results.OperationResult[S, error], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, error]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		if txErr == nil && result.IsFailure() {
			return errRollback
		}
		return txErr
	})
	if errors.Is(err, errRollback) {
		return result, nil
	}
	return result, err
}
