// Package eventbus carries domain events between modules over watermill, either
// in process (gochannel) or across processes (NATS).
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/zrl-league/zrl-manager/app/shared/observability/attr"
)

// EventBus is a watermill publisher and subscriber pair.
type EventBus interface {
	message.Publisher
	message.Subscriber
}

// Publisher is what services depend on to announce committed changes.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// NewMemory returns an in-process bus. Messages are lost on restart.
func NewMemory(logger *slog.Logger) EventBus {
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 256,
	}, watermill.NewSlogLogger(logger))
}

// JSONPublisher marshals payloads to JSON and stamps the correlation id from ctx.
type JSONPublisher struct {
	pub    message.Publisher
	logger *slog.Logger
}

func NewJSONPublisher(pub message.Publisher, logger *slog.Logger) *JSONPublisher {
	return &JSONPublisher{pub: pub, logger: logger}
}

func (p *JSONPublisher) Publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.SetContext(ctx)
	if cid := attr.CorrelationID(ctx); cid != "" {
		middleware.SetCorrelationID(cid, msg)
	}

	if err := p.pub.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "Event published",
		attr.ExtractCorrelationID(ctx),
		attr.String("topic", topic),
		attr.String("message_id", msg.UUID),
	)
	return nil
}

// PublishAfterCommit publishes and logs a failure instead of returning it: the
// mutation it describes is already committed.
func PublishAfterCommit(ctx context.Context, p Publisher, logger *slog.Logger, topic string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, topic, payload); err != nil {
		logger.ErrorContext(ctx, "Failed to publish event",
			attr.ExtractCorrelationID(ctx),
			attr.String("topic", topic),
			attr.Error(err),
		)
	}
}

// Decode unmarshals a message payload into T.
func Decode[T any](msg *message.Message) (*T, error) {
	var out T
	if err := json.Unmarshal(msg.Payload, &out); err != nil {
		return nil, fmt.Errorf("failed to decode message %s: %w", msg.UUID, err)
	}
	return &out, nil
}
