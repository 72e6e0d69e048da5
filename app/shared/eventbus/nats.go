package eventbus

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nkeys"
)

// NATSConfig configures the NATS transport.
type NATSConfig struct {
	URL        string
	Seed       string
	QueueGroup string
}

type natsBus struct {
	*wmnats.Publisher
	*wmnats.Subscriber

	closeOnce sync.Once
	closeErr  error
}

// Close shuts down both halves, the subscriber first. A watermill router
// closes its subscriber once per handler, so later calls return the first
// result.
func (b *natsBus) Close() error {
	b.closeOnce.Do(func() {
		subErr := b.Subscriber.Close()
		pubErr := b.Publisher.Close()
		switch {
		case subErr != nil:
			b.closeErr = fmt.Errorf("failed to close subscriber: %w", subErr)
		case pubErr != nil:
			b.closeErr = fmt.Errorf("failed to close publisher: %w", pubErr)
		}
	})
	return b.closeErr
}

// NewNATS connects a watermill publisher and subscriber to core NATS.
func NewNATS(cfg NATSConfig, logger *slog.Logger) (EventBus, error) {
	opts, err := ConnectOptions(cfg)
	if err != nil {
		return nil, err
	}
	wmLogger := watermill.NewSlogLogger(logger)
	marshaler := &wmnats.NATSMarshaler{}
	jsConfig := wmnats.JetStreamConfig{Disabled: true}

	pub, err := wmnats.NewPublisher(wmnats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: opts,
		Marshaler:   marshaler,
		JetStream:   jsConfig,
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}

	sub, err := wmnats.NewSubscriber(wmnats.SubscriberConfig{
		URL:              cfg.URL,
		QueueGroupPrefix: cfg.QueueGroup,
		SubscribersCount: 1,
		CloseTimeout:     30 * time.Second,
		AckWaitTimeout:   30 * time.Second,
		NatsOptions:      opts,
		Unmarshaler:      marshaler,
		JetStream:        jsConfig,
	}, wmLogger)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("failed to create NATS subscriber: %w", err)
	}

	return &natsBus{Publisher: pub, Subscriber: sub}, nil
}

// ConnectOptions builds the nats.go options for cfg, including nkey
// authentication when a seed is configured.
func ConnectOptions(cfg NATSConfig) ([]nats.Option, error) {
	opts := []nats.Option{
		nats.Name("zrl-manager"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
	}
	if cfg.Seed == "" {
		return opts, nil
	}

	kp, err := nkeys.FromSeed([]byte(cfg.Seed))
	if err != nil {
		return nil, fmt.Errorf("failed to parse nkey seed: %w", err)
	}
	publicKey, err := kp.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("failed to derive nkey public key: %w", err)
	}

	opts = append(opts, nats.Nkey(publicKey, func(nonce []byte) ([]byte, error) {
		return kp.Sign(nonce)
	}))
	return opts, nil
}
