package threshold

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseAt_Relative(t *testing.T) {
	now := time.Date(2024, time.March, 31, 17, 45, 12, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"1 day", time.Date(2024, time.March, 30, 0, 0, 0, 0, time.UTC)},
		{"30 days", time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{"0 days", time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)},
		{"1 month", time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)},
		{"13 months", time.Date(2023, time.February, 28, 0, 0, 0, 0, time.UTC)},
		{"2 years", time.Date(2022, time.March, 31, 0, 0, 0, 0, time.UTC)},
		{"1 year", time.Date(2023, time.March, 31, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseAt(tt.in, now)
			assert.True(t, ok)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseAt_LeapDayYearBack(t *testing.T) {
	now := time.Date(2024, time.February, 29, 8, 0, 0, 0, time.UTC)
	got, ok := ParseAt("1 year", now)
	assert.True(t, ok)
	assert.True(t, time.Date(2023, time.February, 28, 0, 0, 0, 0, time.UTC).Equal(got), "got %s", got)
}

func TestParseAt_Absolute(t *testing.T) {
	now := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)

	got, ok := ParseAt("2023-01-15", now)
	assert.True(t, ok)
	assert.True(t, time.Date(2023, time.January, 15, 0, 0, 0, 0, time.UTC).Equal(got), "got %s", got)

	got, ok = ParseAt("2023-01-15 10:30:00", now)
	assert.True(t, ok)
	assert.True(t, time.Date(2023, time.January, 15, 10, 30, 0, 0, time.UTC).Equal(got), "got %s", got)
}

func TestParseAt_Unparseable(t *testing.T) {
	now := time.Now()
	for _, in := range []string{"", "   ", "soon", "not a date at all"} {
		t.Run(in, func(t *testing.T) {
			_, ok := ParseAt(in, now)
			assert.False(t, ok)
		})
	}
}

func TestParse_UsesCurrentDay(t *testing.T) {
	got, ok := Parse("0 days")
	assert.True(t, ok)
	y, m, d := time.Now().Date()
	assert.Equal(t, time.Date(y, m, d, 0, 0, 0, 0, time.Local), got)
}
