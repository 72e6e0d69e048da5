package auditservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	auditdb "github.com/zrl-league/zrl-manager/app/modules/audit/infrastructure/repositories"
	"github.com/zrl-league/zrl-manager/app/shared/clock"
	"github.com/zrl-league/zrl-manager/app/shared/domainerr"
	"github.com/zrl-league/zrl-manager/app/shared/observability"
	"github.com/zrl-league/zrl-manager/app/shared/observability/attr"
)

const (
	serviceName = "AuditService"

	DefaultListLimit = 50
	MaxListLimit     = 500
)

type AuditService struct {
	repo    auditdb.Repository
	logger  *slog.Logger
	metrics observability.OperationMetrics
	tracer  trace.Tracer
	clock   clock.Clock
	newID   func() uuid.UUID
}

func NewAuditService(repo auditdb.Repository, logger *slog.Logger, metrics observability.OperationMetrics, tracer trace.Tracer, clk clock.Clock) *AuditService {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &AuditService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		clock:   clk,
		newID:   uuid.New,
	}
}

// Record stores event. A message seen before is skipped and reported as
// false. Payloads that are not JSON are kept as a JSON string.
func (s *AuditService) Record(ctx context.Context, event Event) (bool, error) {
	var stored bool
	err := s.observe(ctx, "Record", event.Topic, func(ctx context.Context) error {
		if event.Topic == "" {
			return &domainerr.ValidationError{Field: "topic", Reason: "is required"}
		}
		if event.MessageID == "" {
			return &domainerr.ValidationError{Field: "message_id", Reason: "is required"}
		}
		payload, err := jsonPayload(event.Payload)
		if err != nil {
			return err
		}
		stored, err = s.repo.Insert(ctx, nil, &auditdb.Entry{
			ID:            s.newID(),
			MessageID:     event.MessageID,
			Topic:         event.Topic,
			CorrelationID: event.CorrelationID,
			Payload:       payload,
			RecordedAt:    s.clock.NowUTC(),
		})
		return err
	})
	return stored, err
}

func jsonPayload(raw []byte) (json.RawMessage, error) {
	if len(raw) == 0 {
		return json.RawMessage("null"), nil
	}
	if json.Valid(raw) {
		return json.RawMessage(raw), nil
	}
	wrapped, err := json.Marshal(string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to wrap payload: %w", err)
	}
	return wrapped, nil
}

// ListEntries returns the newest entries, optionally for one topic. A zero
// limit means DefaultListLimit.
func (s *AuditService) ListEntries(ctx context.Context, topic string, limit int) ([]auditdb.Entry, error) {
	var entries []auditdb.Entry
	err := s.observe(ctx, "ListEntries", topic, func(ctx context.Context) error {
		switch {
		case limit < 0:
			return &domainerr.ValidationError{Field: "limit", Reason: "must not be negative"}
		case limit == 0:
			limit = DefaultListLimit
		case limit > MaxListLimit:
			return &domainerr.ValidationError{Field: "limit", Reason: fmt.Sprintf("must be at most %d", MaxListLimit)}
		}
		var err error
		entries, err = s.repo.List(ctx, nil, auditdb.EntryFilter{Topic: topic, Limit: limit})
		if entries == nil {
			entries = []auditdb.Entry{}
		}
		return err
	})
	return entries, err
}

func (s *AuditService) observe(ctx context.Context, operationName, topic string, op func(ctx context.Context) error) (err error) {
	span := trace.SpanFromContext(ctx)
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("topic", topic),
		))
	}
	defer span.End()

	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
		start := time.Now()
		defer func() {
			s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(start))
		}()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered", attr.ExtractCorrelationID(ctx), attr.Error(err))
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			}
		}
	}()

	err = op(ctx)
	var invalid *domainerr.ValidationError
	switch {
	case err == nil:
		if s.metrics != nil {
			s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
		}
		return nil
	case errors.As(err, &invalid):
		return err
	default:
		err = fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("topic", topic),
			attr.Error(err),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		}
		span.RecordError(err)
		return err
	}
}
