package calendar

import (
	"testing"
	"time"

	"github.com/brunolopes/shiftcore/internal/coreerr"
	"github.com/brunolopes/shiftcore/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildRejectsInvertedRange(t *testing.T) {
	_, err := Build(date(2026, 1, 10), date(2026, 1, 1), nil)
	require.Error(t, err)
	var ce *coreerr.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, coreerr.KindInvalidRange, ce.Kind)
}

func TestBuildDayCountAndWeekday(t *testing.T) {
	// 2026-01-05 is a Monday.
	cal, err := Build(date(2026, 1, 5), date(2026, 1, 11), nil)
	require.NoError(t, err)
	require.Len(t, cal.Days, 7)
	assert.Equal(t, domain.Monday, cal.Days[0].Weekday)
	assert.Equal(t, domain.Sunday, cal.Days[6].Weekday)
}

func TestBuildSingleFullWeek(t *testing.T) {
	// A Sunday-anchored week: 2026-01-04 (Sun) .. 2026-01-10 (Sat).
	cal, err := Build(date(2026, 1, 4), date(2026, 1, 10), nil)
	require.NoError(t, err)
	require.Len(t, cal.Weeks, 1)
	assert.True(t, cal.Weeks[0].Full())
}

func TestBuildPartialEdgeWeeks(t *testing.T) {
	// Starts mid-week (Wed 2026-01-07) through Wed 2026-01-21: edge
	// weeks are partial, the middle week is full.
	cal, err := Build(date(2026, 1, 7), date(2026, 1, 21), nil)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(cal.Weeks), 3)
	assert.False(t, cal.Weeks[0].Full())
	assert.False(t, cal.Weeks[len(cal.Weeks)-1].Full())
}

func TestBuildMonthGrouping(t *testing.T) {
	cal, err := Build(date(2026, 1, 30), date(2026, 2, 2), nil)
	require.NoError(t, err)
	require.Len(t, cal.Months, 2)
	assert.Equal(t, time.January, cal.Months[0].Month)
	assert.Equal(t, time.February, cal.Months[1].Month)
	assert.Len(t, cal.Months[0].Days, 2)
	assert.Len(t, cal.Months[1].Days, 2)
}

func TestBuildInjectsPublicHolidayPredicate(t *testing.T) {
	newYear := date(2026, 1, 1)
	cal, err := Build(newYear, newYear, func(d time.Time) bool { return d.Equal(newYear) })
	require.NoError(t, err)
	assert.True(t, cal.Days[0].IsPublicHoliday)
}

func TestBuildNilPredicateIsNoOp(t *testing.T) {
	cal, err := Build(date(2026, 1, 1), date(2026, 1, 1), nil)
	require.NoError(t, err)
	assert.False(t, cal.Days[0].IsPublicHoliday)
}
