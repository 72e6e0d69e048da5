package auditrouter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	auditservice "github.com/zrl-league/zrl-manager/app/modules/audit/application"
	"github.com/zrl-league/zrl-manager/app/shared/observability/attr"
)

// AuditRouter consumes domain topics and records every message.
type AuditRouter struct {
	logger         *slog.Logger
	Router         *message.Router
	subscriber     message.Subscriber
	tracer         trace.Tracer
	metricsBuilder *metrics.PrometheusMetricsBuilder
}

// NewAuditRouter builds a watermill router over subscriber. A nil registry
// disables the router metrics.
func NewAuditRouter(logger *slog.Logger, subscriber message.Subscriber, tracer trace.Tracer, registry *prometheus.Registry) (*AuditRouter, error) {
	router, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create audit router: %w", err)
	}

	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if registry != nil {
		builder := metrics.NewPrometheusMetricsBuilder(registry, "zrl", "audit_router")
		metricsBuilder = &builder
	}
	return &AuditRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		tracer:         tracer,
		metricsBuilder: metricsBuilder,
	}, nil
}

// Configure adds middleware and one handler per topic.
func (r *AuditRouter) Configure(service auditservice.Service, topics []string) error {
	if r.metricsBuilder != nil {
		r.logger.Info("Adding Prometheus router metrics middleware")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Retry{MaxRetries: 3, Logger: watermill.NewSlogLogger(r.logger)}.Middleware,
	)

	seen := make(map[string]bool, len(topics))
	for _, topic := range topics {
		if topic == "" || seen[topic] {
			return fmt.Errorf("invalid or duplicate audit topic %q", topic)
		}
		seen[topic] = true
		r.Router.AddConsumerHandler("audit."+topic, topic, r.subscriber, r.recordHandler(service, topic))
	}
	return nil
}

func (r *AuditRouter) recordHandler(service auditservice.Service, topic string) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		cid := middleware.MessageCorrelationID(msg)
		ctx := attr.WithCorrelationID(msg.Context(), cid)
		ctx, span := r.tracer.Start(ctx, "AuditRouter.Record", trace.WithAttributes(
			attribute.String("topic", topic),
			attribute.String("message_id", msg.UUID),
		))
		defer span.End()

		stored, err := service.Record(ctx, auditservice.Event{
			Topic:         topic,
			MessageID:     msg.UUID,
			CorrelationID: cid,
			Payload:       msg.Payload,
		})
		if err != nil {
			r.logger.ErrorContext(ctx, "Error recording audit entry",
				attr.ExtractCorrelationID(ctx),
				attr.String("topic", topic),
				attr.String("message_id", msg.UUID),
				attr.Error(err),
			)
			return err
		}
		if !stored {
			r.logger.DebugContext(ctx, "Audit entry already recorded",
				attr.String("topic", topic),
				attr.String("message_id", msg.UUID),
			)
		}
		return nil
	}
}

// Run blocks until ctx is cancelled or the router is closed.
func (r *AuditRouter) Run(ctx context.Context) error {
	return r.Router.Run(ctx)
}

// Close stops the router.
func (r *AuditRouter) Close() error {
	return r.Router.Close()
}
