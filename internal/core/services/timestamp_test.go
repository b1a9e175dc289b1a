package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{"utc", "2026-10-20T10:00:00Z", time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC)},
		{"offset", "2026-10-20T10:00:00+02:00", time.Date(2026, 10, 20, 8, 0, 0, 0, time.UTC)},
		{"fraction truncated to ms", "2026-10-20T10:00:00.123456Z", time.Date(2026, 10, 20, 10, 0, 0, 123000000, time.UTC)},
		{"date only is utc midnight", "2026-10-20", time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)},
		{"no offset uses location", "2026-10-20T10:00", time.Date(2026, 10, 20, 14, 0, 0, 0, time.UTC)},
		{"no offset with seconds", "2026-10-20T10:00:30", time.Date(2026, 10, 20, 14, 0, 30, 0, time.UTC)},
		{"space separator", "2026-10-20 10:00:00", time.Date(2026, 10, 20, 14, 0, 0, 0, time.UTC)},
		{"surrounding space", "  2026-10-20T10:00:00Z ", time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.value, ny)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, value := range []string{"not-a-date", "2026-13-45", "2026-10-20T25:00:00Z", "tomorrow", "1729000000"} {
		_, err := ParseTimestamp(value, time.UTC)
		assert.Error(t, err, value)
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2026, 10, 20, 10, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	assert.Equal(t, "2026-10-20T08:00:00.000Z", FormatTimestamp(ts))
}
