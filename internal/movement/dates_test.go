package movement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"25.12.2024 14:30", time.Date(2024, 12, 25, 14, 30, 0, 0, time.UTC)},
		{"25.12.2024", time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)},
		{"2024-12-25T14:30", time.Date(2024, 12, 25, 14, 30, 0, 0, time.UTC)},
		{"2024-12-25T14:30:45", time.Date(2024, 12, 25, 14, 30, 45, 0, time.UTC)},
		{"2024-12-25", time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)},
		{"  25.12.2024 14:30  ", time.Date(2024, 12, 25, 14, 30, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, ok := ParseDate(tc.in)
		require.True(t, ok, "input %q", tc.in)
		assert.True(t, got.Equal(tc.want), "input %q: got %v", tc.in, got)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "сегодня", "32.13.2024", "2024/12/25"} {
		_, ok := ParseDate(in)
		assert.False(t, ok, "input %q must not parse", in)
	}
}

func TestNormalizeInputRoundTrip(t *testing.T) {
	assert.Equal(t, "2024-12-25T14:30", NormalizeInput("25.12.2024 14:30"))
	assert.Equal(t, "2024-12-25T00:00", NormalizeInput("25.12.2024"))
	// Unparseable values pass through so the user can correct them.
	assert.Equal(t, "not a date", NormalizeInput("not a date"))
}

func TestFormatDisplay(t *testing.T) {
	assert.Equal(t, "25.12.2024 14:30", FormatDisplay(time.Date(2024, 12, 25, 14, 30, 0, 0, time.UTC)))
	assert.Equal(t, "—", FormatDisplay(time.Time{}))
}

func TestToInputValue(t *testing.T) {
	assert.Equal(t, "2024-12-25T14:30", ToInputValue(time.Date(2024, 12, 25, 14, 30, 45, 0, time.UTC)))
	assert.Equal(t, "", ToInputValue(time.Time{}))
}
