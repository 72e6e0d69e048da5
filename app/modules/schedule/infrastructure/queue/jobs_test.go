package schedulequeue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scheduleservice "github.com/zrl-league/zrl-manager/app/modules/schedule/application"
)

type fakeRefresher struct {
	calls   int
	summary *scheduleservice.RefreshSummary
	err     error
}

func (f *fakeRefresher) RefreshActiveEvents(context.Context) (*scheduleservice.RefreshSummary, error) {
	f.calls++
	return f.summary, f.err
}

func testJob() *river.Job[RefreshActiveEventJob] {
	return &river.Job[RefreshActiveEventJob]{JobRow: &rivertype.JobRow{ID: 42, Attempt: 1}}
}

func TestRefreshActiveEventWorker(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	d := time.Date(2025, 11, 4, 0, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		f := &fakeRefresher{summary: &scheduleservice.RefreshSummary{ActiveDate: &d, Changed: 2, Activated: []int64{7}}}
		w := NewRefreshActiveEventWorker(logger, f)

		require.NoError(t, w.Work(context.Background(), testJob()))
		assert.Equal(t, 1, f.calls)
	})

	t.Run("nothing upcoming", func(t *testing.T) {
		f := &fakeRefresher{summary: &scheduleservice.RefreshSummary{}}
		w := NewRefreshActiveEventWorker(logger, f)
		require.NoError(t, w.Work(context.Background(), testJob()))
	})

	t.Run("failure is retried by returning the error", func(t *testing.T) {
		boom := errors.New("db down")
		w := NewRefreshActiveEventWorker(logger, &fakeRefresher{err: boom})
		assert.ErrorIs(t, w.Work(context.Background(), testJob()), boom)
	})
}

func TestRefreshActiveEventJob(t *testing.T) {
	assert.Equal(t, "refresh_active_event", RefreshActiveEventJob{}.Kind())
	jobs := periodicJobs(time.Hour)
	assert.Len(t, jobs, 1)
}
