package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBackend(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{"rfc3339 utc", "2025-03-10T15:00:00Z", time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)},
		{"naive with micros", "2025-03-10T10:00:00.123456", time.Date(2025, 3, 10, 10, 0, 0, 123456000, LimaTZ)},
		{"naive space", "2025-03-10 10:00:00", time.Date(2025, 3, 10, 10, 0, 0, 0, LimaTZ)},
		{"date only", "2025-03-10", time.Date(2025, 3, 10, 0, 0, 0, 0, LimaTZ)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBackend(tt.value)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v got %v", tt.want, got)
		})
	}
}

func TestParseBackend_EmptyAndInvalid(t *testing.T) {
	got, err := ParseBackend("  ")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = ParseBackend("yesterday")
	assert.ErrorIs(t, err, ErrUnparsableTime)
}

func TestFormatRelative(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, LimaTZ)

	assert.Equal(t, "just now", formatRelativeTo(now.Add(-10*time.Second), now))
	assert.Equal(t, "5 min ago", formatRelativeTo(now.Add(-5*time.Minute), now))
	assert.Equal(t, "in 3 h", formatRelativeTo(now.Add(3*time.Hour), now))
	assert.Equal(t, "2 d ago", formatRelativeTo(now.Add(-48*time.Hour), now))
}

func TestFormatDateTimeStr_Zero(t *testing.T) {
	assert.Equal(t, "-", FormatDateTimeStr(time.Time{}))
	assert.Equal(t, "2025-03-10 07:00", FormatDateTimeStr(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)))
}
