package auditservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zrl-league/zrl-manager/app/shared/clock"
	"github.com/zrl-league/zrl-manager/app/shared/domainerr"
	"github.com/zrl-league/zrl-manager/app/shared/observability"
)

var recordedAt = time.Date(2026, 9, 15, 18, 30, 0, 0, time.UTC)

func newTestService(repo *FakeAuditRepo) *AuditService {
	obs := observability.NewTest()
	return NewAuditService(repo, obs.Provider.Logger, observability.NewNoop(), obs.Registry.Tracer, clock.NewAnchorClock(recordedAt))
}

func TestAuditService_Record(t *testing.T) {
	tests := []struct {
		name        string
		event       Event
		wantPayload string
		wantErr     bool
	}{
		{
			name:        "json payload kept",
			event:       Event{Topic: "lineup.committed.v1", MessageID: "m1", CorrelationID: "c1", Payload: []byte(`{"team_id":3}`)},
			wantPayload: `{"team_id":3}`,
		},
		{
			name:        "text payload wrapped",
			event:       Event{Topic: "lineup.committed.v1", MessageID: "m2", Payload: []byte("not json")},
			wantPayload: `"not json"`,
		},
		{
			name:        "empty payload",
			event:       Event{Topic: "lineup.committed.v1", MessageID: "m3"},
			wantPayload: `null`,
		},
		{
			name:    "missing topic",
			event:   Event{MessageID: "m4", Payload: []byte(`{}`)},
			wantErr: true,
		},
		{
			name:    "missing message id",
			event:   Event{Topic: "lineup.committed.v1", Payload: []byte(`{}`)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &FakeAuditRepo{}
			svc := newTestService(repo)

			stored, err := svc.Record(context.Background(), tt.event)
			if tt.wantErr {
				var invalid *domainerr.ValidationError
				require.ErrorAs(t, err, &invalid)
				assert.Empty(t, repo.Trace())
				return
			}
			require.NoError(t, err)
			assert.True(t, stored)
			require.Len(t, repo.Entries, 1)
			entry := repo.Entries[0]
			assert.JSONEq(t, tt.wantPayload, string(entry.Payload))
			assert.Equal(t, tt.event.Topic, entry.Topic)
			assert.Equal(t, tt.event.CorrelationID, entry.CorrelationID)
			assert.Equal(t, recordedAt, entry.RecordedAt)
			assert.NotEqual(t, [16]byte{}, [16]byte(entry.ID))
		})
	}
}

func TestAuditService_RecordRedeliveryIsSkipped(t *testing.T) {
	repo := &FakeAuditRepo{}
	svc := newTestService(repo)
	event := Event{Topic: "roster.membership.added.v1", MessageID: "m1", Payload: []byte(`{}`)}

	first, err := svc.Record(context.Background(), event)
	require.NoError(t, err)
	second, err := svc.Record(context.Background(), event)
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
	assert.Len(t, repo.Entries, 1)
}

func TestAuditService_RecordInfrastructureError(t *testing.T) {
	repo := &FakeAuditRepo{InsertErr: errors.New("connection reset")}
	svc := newTestService(repo)

	_, err := svc.Record(context.Background(), Event{Topic: "t", MessageID: "m", Payload: []byte(`{}`)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Record: connection reset")
}

func TestAuditService_ListEntries(t *testing.T) {
	repo := &FakeAuditRepo{}
	svc := newTestService(repo)
	ctx := context.Background()
	for _, e := range []Event{
		{Topic: "a", MessageID: "1"},
		{Topic: "b", MessageID: "2"},
		{Topic: "a", MessageID: "3"},
	} {
		_, err := svc.Record(ctx, e)
		require.NoError(t, err)
	}

	t.Run("default limit", func(t *testing.T) {
		entries, err := svc.ListEntries(ctx, "", 0)
		require.NoError(t, err)
		assert.Len(t, entries, 3)
		assert.Equal(t, DefaultListLimit, repo.LastList.Limit)
	})

	t.Run("topic filter newest first", func(t *testing.T) {
		entries, err := svc.ListEntries(ctx, "a", 10)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "3", entries[0].MessageID)
		assert.Equal(t, "1", entries[1].MessageID)
	})

	t.Run("unknown topic is empty not nil", func(t *testing.T) {
		entries, err := svc.ListEntries(ctx, "zzz", 10)
		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})

	for _, limit := range []int{-1, MaxListLimit + 1} {
		_, err := svc.ListEntries(ctx, "", limit)
		var invalid *domainerr.ValidationError
		assert.ErrorAs(t, err, &invalid, "limit %d", limit)
	}
}
