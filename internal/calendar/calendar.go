// Package calendar expands a [start,end] date range into the ordered
// day/week/month structures the rest of the core operates on (spec.md
// §4.1). It is pure: given the same range and predicate it always
// produces the same result, and holds no state of its own.
package calendar

import (
	"time"

	"github.com/brunolopes/shiftcore/internal/coreerr"
	"github.com/brunolopes/shiftcore/internal/domain"
)

// Calendar is the expanded view of a date range: its days in order,
// grouped into weeks and months.
type Calendar struct {
	Days   []domain.Day
	Weeks  []domain.Week
	Months []domain.Month
}

// goWeekdayToDomain maps time.Weekday (Sun=0..Sat=6) to domain.Weekday
// (Mon=0..Sun=6), the convention spec.md §3 uses for Day.Weekday.
func goWeekdayToDomain(w time.Weekday) domain.Weekday {
	if w == time.Sunday {
		return domain.Sunday
	}
	return domain.Weekday(int(w) - 1)
}

// Build expands [start,end] (both inclusive) into a Calendar. isPublicHoliday
// may be nil, meaning no day is ever a public holiday — a legal no-op
// predicate per spec.md §4.1. Fails with coreerr.KindInvalidRange if
// end < start.
func Build(start, end time.Time, isPublicHoliday func(time.Time) bool) (*Calendar, error) {
	start = truncateToDate(start)
	end = truncateToDate(end)
	if end.Before(start) {
		return nil, coreerr.NewInvalidRange("end (%s) is before start (%s)", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	if isPublicHoliday == nil {
		isPublicHoliday = func(time.Time) bool { return false }
	}

	n := int(end.Sub(start).Hours()/24) + 1
	days := make([]domain.Day, 0, n)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, domain.Day{
			Date:            d,
			Label:           d.Format("2006-01-02"),
			Weekday:         goWeekdayToDomain(d.Weekday()),
			IsPublicHoliday: isPublicHoliday(d),
		})
	}

	return &Calendar{
		Days:   days,
		Weeks:  groupWeeks(days),
		Months: groupMonths(days),
	}, nil
}

// weekKey returns the Sunday that anchors the Sunday-anchored week
// containing d, per spec.md §4.1: "d - ((w+1) mod 7)" where w is the
// domain weekday index (Mon=0..Sun=6), not Go's Sun=0 convention.
func weekKey(d time.Time) time.Time {
	w := int(goWeekdayToDomain(d.Weekday()))
	offset := (w + 1) % 7
	return d.AddDate(0, 0, -offset)
}

func groupWeeks(days []domain.Day) []domain.Week {
	var weeks []domain.Week
	var cur []domain.Day
	var curKey time.Time
	for i, d := range days {
		k := weekKey(d.Date)
		if i == 0 || !k.Equal(curKey) {
			if len(cur) > 0 {
				weeks = append(weeks, domain.Week{Days: cur})
			}
			cur = nil
			curKey = k
		}
		cur = append(cur, d)
	}
	if len(cur) > 0 {
		weeks = append(weeks, domain.Week{Days: cur})
	}
	return weeks
}

func groupMonths(days []domain.Day) []domain.Month {
	var months []domain.Month
	var cur []domain.Day
	curYear, curMonth := 0, time.Month(0)
	for i, d := range days {
		if i == 0 || d.Date.Year() != curYear || d.Date.Month() != curMonth {
			if len(cur) > 0 {
				months = append(months, domain.Month{Year: curYear, Month: curMonth, Days: cur})
			}
			cur = nil
			curYear, curMonth = d.Date.Year(), d.Date.Month()
		}
		cur = append(cur, d)
	}
	if len(cur) > 0 {
		months = append(months, domain.Month{Year: curYear, Month: curMonth, Days: cur})
	}
	return months
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
