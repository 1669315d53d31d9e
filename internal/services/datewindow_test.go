package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var windowNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) // a Friday

func TestResolveDateWindowLast7(t *testing.T) {
	window := ResolveDateWindow(StatsQuery{Range: RangeLast7}, windowNow)

	assert.Equal(t, time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2024, 3, 15, 23, 59, 59, int(999*time.Millisecond), time.UTC), window.End)
}

func TestResolveDateWindowDefaultsToLast7(t *testing.T) {
	window := ResolveDateWindow(StatsQuery{}, windowNow)

	assert.Equal(t, time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2024, 3, 15, 23, 59, 59, int(999*time.Millisecond), time.UTC), window.End)
}

func TestResolveDateWindowToday(t *testing.T) {
	window := ResolveDateWindow(StatsQuery{Range: RangeToday}, windowNow)

	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, windowNow, window.End)
}

func TestResolveDateWindowYesterday(t *testing.T) {
	window := ResolveDateWindow(StatsQuery{Range: RangeYesterday}, windowNow)

	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2024, 3, 14, 23, 59, 59, int(999*time.Millisecond), time.UTC), window.End)
}

func TestResolveDateWindowThisWeekStartsMonday(t *testing.T) {
	window := ResolveDateWindow(StatsQuery{Range: RangeThisWeek}, windowNow)

	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), window.Start)
}

func TestResolveDateWindowThisWeekOnSunday(t *testing.T) {
	// Sunday belongs to the week that started the previous Monday.
	sunday := time.Date(2024, 3, 17, 12, 0, 0, 0, time.UTC)
	window := ResolveDateWindow(StatsQuery{Range: RangeThisWeek}, sunday)

	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), window.Start)
}

func TestResolveDateWindowThisMonth(t *testing.T) {
	window := ResolveDateWindow(StatsQuery{Range: RangeThisMonth}, windowNow)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), window.Start)
}

func TestResolveDateWindowExplicitSameDayIsInclusive(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	window := ResolveDateWindow(StatsQuery{From: &day, To: &day}, windowNow)

	assert.Equal(t, day, window.Start)
	assert.Equal(t, time.Date(2024, 3, 10, 23, 59, 59, int(999*time.Millisecond), time.UTC), window.End)
}

func TestPreviousWindowEndsJustBeforeStart(t *testing.T) {
	window := ResolveDateWindow(StatsQuery{Range: RangeLast7}, windowNow)
	previous := window.Previous()

	duration := window.End.Sub(window.Start)
	assert.Equal(t, window.Start.Add(-time.Millisecond), previous.End)
	assert.Equal(t, window.Start.Add(-duration), previous.Start)
}

func TestIsValidRange(t *testing.T) {
	for _, valid := range []string{RangeToday, RangeYesterday, RangeLast7, RangeLast30, RangeLast90, RangeThisWeek, RangeThisMonth} {
		assert.True(t, IsValidRange(valid), valid)
	}
	assert.False(t, IsValidRange("lastYear"))
	assert.False(t, IsValidRange(""))
}
