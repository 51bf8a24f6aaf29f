package dbtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jkt(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, JakartaLocation())
}

func TestResolveBusinessDate(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want string
	}{
		{"before cutover belongs to previous day", jkt(2025, 3, 10, 3, 59), "2025-03-09"},
		{"after cutover is same day", jkt(2025, 3, 10, 4, 1), "2025-03-10"},
		{"exactly 04:00", jkt(2025, 3, 10, 4, 0), "2025-03-10"},
		{"late night stays on same day", jkt(2025, 3, 10, 23, 30), "2025-03-10"},
		{"just after midnight", jkt(2025, 3, 11, 0, 15), "2025-03-10"},
		{"month rollover", jkt(2025, 3, 1, 2, 0), "2025-02-28"},
		{"utc input is converted", time.Date(2025, 3, 9, 20, 30, 0, 0, time.UTC), "2025-03-09"}, // 03:30 WIB
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveBusinessDate(tc.in))
		})
	}
}

func TestCutoverRoundTrip(t *testing.T) {
	before := ResolveBusinessDate(jkt(2025, 6, 15, 3, 59))
	after := ResolveBusinessDate(jkt(2025, 6, 15, 4, 1))

	next, err := NextBusinessDate(before)
	require.NoError(t, err)
	assert.Equal(t, after, next)
}

func TestBusinessDayStart(t *testing.T) {
	start, err := BusinessDayStart("2025-03-10")
	require.NoError(t, err)
	assert.True(t, start.Equal(jkt(2025, 3, 10, 4, 0)))
	assert.Equal(t, "2025-03-10", ResolveBusinessDate(start))
	assert.Equal(t, "2025-03-09", ResolveBusinessDate(start.Add(-time.Second)))

	end, err := BusinessDayEnd("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, end.Sub(start))

	_, err = BusinessDayStart("10-03-2025")
	assert.Error(t, err)
}

func TestPreviousBusinessDate(t *testing.T) {
	prev, err := PreviousBusinessDate("2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-12-31", prev)
}

func TestMinutesSinceMidnight(t *testing.T) {
	assert.Equal(t, 420, MinutesSinceMidnight(jkt(2025, 3, 10, 7, 0)))
	assert.Equal(t, 0, MinutesSinceMidnight(jkt(2025, 3, 10, 0, 0)))
	assert.Equal(t, 8*60+5, MinutesSinceMidnight(time.Date(2025, 3, 10, 1, 5, 0, 0, time.UTC)))
}

func TestDatesBetween(t *testing.T) {
	got, err := DatesBetween("2025-02-27", "2025-03-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-02-27", "2025-02-28", "2025-03-01", "2025-03-02"}, got)

	_, err = DatesBetween("2025-03-02", "2025-03-01")
	assert.Error(t, err)
}

func TestTodParse(t *testing.T) {
	tod, err := Parse("07:00")
	require.NoError(t, err)
	assert.Equal(t, 420, tod.Minutes())
	assert.Equal(t, "07:00", tod.String())

	tod, err = Parse(" 12:30:15 ")
	require.NoError(t, err)
	assert.Equal(t, 750, tod.Minutes())

	_, err = Parse("25:00")
	assert.Error(t, err)

	assert.Equal(t, 8*60+15, From(jkt(2025, 1, 1, 8, 15)).Minutes())
}
