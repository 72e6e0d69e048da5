package auditrouter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	auditservice "github.com/zrl-league/zrl-manager/app/modules/audit/application"
	auditdb "github.com/zrl-league/zrl-manager/app/modules/audit/infrastructure/repositories"
	"github.com/zrl-league/zrl-manager/app/shared/events"
)

type recordingService struct {
	mu       sync.Mutex
	events   []auditservice.Event
	failures int
}

func (s *recordingService) Record(_ context.Context, event auditservice.Event) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return false, errors.New("database unavailable")
	}
	s.events = append(s.events, event)
	return true, nil
}

func (s *recordingService) ListEntries(context.Context, string, int) ([]auditdb.Entry, error) {
	return nil, nil
}

func (s *recordingService) recorded() []auditservice.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]auditservice.Event(nil), s.events...)
}

func startRouter(t *testing.T, svc auditservice.Service) *gochannel.GoChannel {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger))

	r, err := NewAuditRouter(logger, bus, noop.NewTracerProvider().Tracer("test"), nil)
	require.NoError(t, err)
	require.NoError(t, r.Configure(svc, events.AllTopics))

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = r.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		_ = r.Close()
	})

	select {
	case <-r.Router.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}
	return bus
}

func TestAuditRouter_RecordsEveryTopic(t *testing.T) {
	svc := &recordingService{}
	bus := startRouter(t, svc)

	msg := message.NewMessage("msg-1", []byte(`{"team_id":4}`))
	middleware.SetCorrelationID("corr-1", msg)
	require.NoError(t, bus.Publish(events.LineupCommittedV1, msg))
	require.NoError(t, bus.Publish(events.ScheduleEventActivatedV1, message.NewMessage("msg-2", []byte(`{}`))))

	require.Eventually(t, func() bool { return len(svc.recorded()) == 2 }, 5*time.Second, 10*time.Millisecond)

	byID := map[string]auditservice.Event{}
	for _, e := range svc.recorded() {
		byID[e.MessageID] = e
	}
	assert.Equal(t, events.LineupCommittedV1, byID["msg-1"].Topic)
	assert.Equal(t, "corr-1", byID["msg-1"].CorrelationID)
	assert.JSONEq(t, `{"team_id":4}`, string(byID["msg-1"].Payload))
	assert.Equal(t, events.ScheduleEventActivatedV1, byID["msg-2"].Topic)
}

func TestAuditRouter_RetriesFailedRecord(t *testing.T) {
	svc := &recordingService{failures: 2}
	bus := startRouter(t, svc)

	require.NoError(t, bus.Publish(events.RosterRiderStatusV1, message.NewMessage("msg-1", []byte(`{}`))))

	require.Eventually(t, func() bool { return len(svc.recorded()) == 1 }, 5*time.Second, 10*time.Millisecond)
}

func TestAuditRouter_ConfigureRejectsDuplicateTopics(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger))
	r, err := NewAuditRouter(logger, bus, noop.NewTracerProvider().Tracer("test"), nil)
	require.NoError(t, err)

	err = r.Configure(&recordingService{}, []string{events.LineupCommittedV1, events.LineupCommittedV1})
	assert.Error(t, err)
}
