package model

import (
	"time"

	"github.com/brunolopes/shiftcore/internal/calendar"
	"github.com/brunolopes/shiftcore/internal/domain"
	"github.com/brunolopes/shiftcore/internal/normalize"
)

// Violation names one broken constraint instance. Family/Tag are stable
// machine identifiers; HumanReadable matches the cause strings spec.md
// §4.5 shows ("hope: Alice on 1/5 (DayOff)").
type Violation struct {
	Family        string
	Tag           string
	HumanReadable string
}

// Constraint is one checkable hard-constraint family instance. Check
// returns every violation the grid currently has against it (empty
// means satisfied). The same Check is reused, unmodified, by the
// Diagnoser (internal/solver/diagnose): a feasible solve is exactly one
// where every Constraint.Check returns nil.
type Constraint interface {
	Family() string
	Check(g *Grid, m *Model) []Violation
}

// Model is the materialized decision space plus every hard constraint
// for one NormalizedConfig over one Calendar.
type Model struct {
	Config *normalize.NormalizedConfig
	Cal    *calendar.Calendar

	Days       []time.Time
	DayIndex   map[time.Time]int
	StaffNames []string
	StaffIndex map[string]int

	Constraints []Constraint
}

// Build materializes the decision space and every hard constraint
// family (F1 is implicit in the Grid representation; F2, the req=0 half
// of F3, F4-F11, F13 and F14 are built here). Soft families (F3 req>0, F7-soft, F11-soft, F12, F15-17)
// live in internal/solver/objective instead.
func Build(nc *normalize.NormalizedConfig, cal *calendar.Calendar) *Model {
	m := &Model{Config: nc, Cal: cal}

	m.Days = make([]time.Time, len(cal.Days))
	m.DayIndex = make(map[time.Time]int, len(cal.Days))
	for i, d := range cal.Days {
		m.Days[i] = d.Date
		m.DayIndex[d.Date] = i
	}

	m.StaffNames = make([]string, len(nc.Staff))
	m.StaffIndex = make(map[string]int, len(nc.Staff))
	for i, s := range nc.Staff {
		m.StaffNames[i] = s.Name
		m.StaffIndex[s.Name] = i
	}

	m.Constraints = append(m.Constraints, buildCapabilityConstraints(nc)...)
	m.Constraints = append(m.Constraints, buildRequirementZeroConstraints(nc)...)
	m.Constraints = append(m.Constraints, buildHopeConstraints(nc)...)
	m.Constraints = append(m.Constraints, buildWeekdayRuleConstraints(nc)...)
	m.Constraints = append(m.Constraints, buildGlobalRuleConstraints(nc, cal)...)
	m.Constraints = append(m.Constraints, buildNGHardConstraints(nc)...)
	m.Constraints = append(m.Constraints, buildForbiddenTransitionConstraints(nc)...)
	m.Constraints = append(m.Constraints, buildPeriodCountConstraints(nc)...)
	m.Constraints = append(m.Constraints, buildConsecutiveWorkConstraints(nc)...)
	m.Constraints = append(m.Constraints, buildWeeklyQuotaHardConstraints(nc, cal)...)
	m.Constraints = append(m.Constraints, buildHolidayOrderConstraints(nc, cal)...)
	m.Constraints = append(m.Constraints, buildPublicHolidayConstraint(nc, cal))

	return m
}

// dayIndexOf is the shared helper constraint Check methods use to
// resolve a calendrical date against m's day index without a panic on
// out-of-horizon dates (legacy configs sometimes reference them); it
// reports false for a date outside the horizon.
func (m *Model) dayIndexOf(d time.Time) (int, bool) {
	i, ok := m.DayIndex[truncate(d)]
	return i, ok
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsWork reports whether t belongs to the work-shift universe.
func (m *Model) IsWork(t domain.ShiftType) bool {
	for _, w := range m.Config.WorkShifts {
		if w.Name == t {
			return true
		}
	}
	return false
}

// IsHoliday reports whether t belongs to the holiday-type universe.
func (m *Model) IsHoliday(t domain.ShiftType) bool {
	for _, h := range m.Config.HolidayTypes {
		if h.Name == t {
			return true
		}
	}
	return false
}

// CheckAll runs every hard constraint and returns the combined
// violation list (nil means the grid is feasible).
func (m *Model) CheckAll(g *Grid) []Violation {
	var out []Violation
	for _, c := range m.Constraints {
		out = append(out, c.Check(g, m)...)
	}
	return out
}
