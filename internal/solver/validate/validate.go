// Package validate implements the Validator (spec.md §4.6): after a
// successful solve it re-counts holiday quotas and staffing versus
// targets and surfaces every discrepancy as an informational warning.
// Warnings never demote an Ok result to a failure.
package validate

import (
	"fmt"

	"github.com/brunolopes/shiftcore/internal/calendar"
	"github.com/brunolopes/shiftcore/internal/domain"
	"github.com/brunolopes/shiftcore/internal/normalize"
)

// Validate walks sched and returns one warning per requirement or
// holiday-quota deviation found (F3/F11/F12 misses).
func Validate(nc *normalize.NormalizedConfig, cal *calendar.Calendar, sched domain.Schedule) []domain.Warning {
	var warnings []domain.Warning

	staffIndex := make(map[string]int, len(sched.StaffOrder))
	for i, name := range sched.StaffOrder {
		staffIndex[name] = i
	}

	warnings = append(warnings, validateRequirements(nc, sched)...)
	warnings = append(warnings, validateWeeklyQuotas(nc, cal, sched, staffIndex)...)
	warnings = append(warnings, validateMonthlyQuotas(nc, cal, sched, staffIndex)...)

	return warnings
}

func validateRequirements(nc *normalize.NormalizedConfig, sched domain.Schedule) []domain.Warning {
	var warnings []domain.Warning
	dayPos := make(map[string]int, len(sched.Days))
	for i, d := range sched.Days {
		dayPos[d.Format("2006-01-02")] = i
	}

	for _, w := range nc.StaffedWorkShifts {
		for d := nc.Start; !d.After(nc.End); d = d.AddDate(0, 0, 1) {
			req := nc.Req[domain.ReqKey{Day: d, Shift: w}]
			if req == 0 {
				continue
			}
			di, ok := dayPos[d.Format("2006-01-02")]
			if !ok {
				continue
			}
			actual := 0
			for si := range sched.StaffOrder {
				if sched.Get(si, di) == w {
					actual++
				}
			}
			if actual != req {
				dd := d
				warnings = append(warnings, domain.Warning{
					Kind:    domain.WarningRequirementMiss,
					Day:     &dd,
					Shift:   w,
					Actual:  actual,
					Target:  req,
					Message: fmt.Sprintf("requirement miss: %s on %s has %d, target %d", w, d.Format("2006-01-02"), actual, req),
				})
			}
		}
	}
	return warnings
}

func validateWeeklyQuotas(nc *normalize.NormalizedConfig, cal *calendar.Calendar, sched domain.Schedule, staffIndex map[string]int) []domain.Warning {
	var warnings []domain.Warning
	dayPos := make(map[string]int, len(sched.Days))
	for i, d := range sched.Days {
		dayPos[d.Format("2006-01-02")] = i
	}

	for _, s := range nc.Staff {
		si, ok := staffIndex[s.Name]
		if !ok {
			continue
		}
		for shift, q := range s.Quotas {
			if q.Period != domain.PeriodWeek {
				continue
			}
			for _, week := range cal.Weeks {
				actual := 0
				for _, d := range week.Days {
					di, ok := dayPos[d.Date.Format("2006-01-02")]
					if !ok {
						continue
					}
					if sched.Get(si, di) == shift {
						actual++
					}
				}
				if actual != q.WeekCount {
					first := week.Days[0].Date
					warnings = append(warnings, domain.Warning{
						Kind:    domain.WarningHolidayQuotaMiss,
						Day:     &first,
						Staff:   s.Name,
						Shift:   shift,
						Actual:  actual,
						Target:  q.WeekCount,
						Message: fmt.Sprintf("weekly quota miss: %s %s week of %s has %d, target %d", s.Name, shift, first.Format("2006-01-02"), actual, q.WeekCount),
					})
				}
			}
		}
	}
	return warnings
}

func validateMonthlyQuotas(nc *normalize.NormalizedConfig, cal *calendar.Calendar, sched domain.Schedule, staffIndex map[string]int) []domain.Warning {
	var warnings []domain.Warning
	dayPos := make(map[string]int, len(sched.Days))
	for i, d := range sched.Days {
		dayPos[d.Format("2006-01-02")] = i
	}

	for _, s := range nc.Staff {
		si, ok := staffIndex[s.Name]
		if !ok {
			continue
		}
		for shift, q := range s.Quotas {
			if q.Period != domain.PeriodMonth {
				continue
			}
			for _, month := range cal.Months {
				actual := 0
				for _, d := range month.Days {
					di, ok := dayPos[d.Date.Format("2006-01-02")]
					if !ok {
						continue
					}
					if sched.Get(si, di) == shift {
						actual++
					}
				}
				if actual != q.MonthCount {
					first := month.Days[0].Date
					warnings = append(warnings, domain.Warning{
						Kind:    domain.WarningHolidayQuotaMiss,
						Day:     &first,
						Staff:   s.Name,
						Shift:   shift,
						Actual:  actual,
						Target:  q.MonthCount,
						Message: fmt.Sprintf("monthly quota miss: %s %s month of %s has %d, target %d", s.Name, shift, first.Format("2006-01"), actual, q.MonthCount),
					})
				}
			}
		}
	}
	return warnings
}
