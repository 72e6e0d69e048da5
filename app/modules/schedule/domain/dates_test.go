package scheduledomain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateParser_Parse(t *testing.T) {
	// Wednesday 5 November 2025, 10:00 UTC.
	now := time.Date(2025, 11, 5, 10, 0, 0, 0, time.UTC)
	p := NewDateParser()

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"iso date", "2025-11-11", time.Date(2025, 11, 11, 0, 0, 0, 0, time.UTC)},
		{"european date", "18/11/2025", time.Date(2025, 11, 18, 0, 0, 0, 0, time.UTC)},
		{"padded", "  2025-12-02 ", time.Date(2025, 12, 2, 0, 0, 0, 0, time.UTC)},
		{"tomorrow", "tomorrow", time.Date(2025, 11, 6, 0, 0, 0, 0, time.UTC)},
		{"next weekday", "next Tuesday", time.Date(2025, 11, 11, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.input, now, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDateParser_Rejects(t *testing.T) {
	p := NewDateParser()
	now := time.Date(2025, 11, 5, 10, 0, 0, 0, time.UTC)

	for _, input := range []string{"", "   ", "whenever the wind blows"} {
		_, err := p.Parse(input, now, time.UTC)
		assert.ErrorIs(t, err, ErrUnrecognizedDate, "input %q", input)
	}
}

func TestCalendarDate(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		t.Skip("tzdata not available")
	}
	late := time.Date(2025, 11, 3, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 11, 4, 0, 0, 0, 0, time.UTC), CalendarDate(late, rome))
	assert.Equal(t, time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC), CalendarDate(late, nil))
}
