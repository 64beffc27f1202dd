package model

import (
	"fmt"
	"time"

	"github.com/brunolopes/shiftcore/internal/calendar"
	"github.com/brunolopes/shiftcore/internal/domain"
	"github.com/brunolopes/shiftcore/internal/normalize"
)

func shortDate(d time.Time) string {
	return fmt.Sprintf("%d/%d", int(d.Month()), d.Day())
}

// --- F2. Capability -------------------------------------------------

type capabilityConstraint struct {
	staffIdx int
	staff    string
	shift    domain.ShiftType
}

func (c *capabilityConstraint) Family() string { return "capability" }

func (c *capabilityConstraint) Check(g *Grid, m *Model) []Violation {
	var out []Violation
	for d, day := range m.Days {
		if g.Get(c.staffIdx, d) == c.shift {
			out = append(out, Violation{
				Family:        c.Family(),
				Tag:           fmt.Sprintf("%s|%s|%s", c.staff, shortDate(day), c.shift),
				HumanReadable: fmt.Sprintf("capability: %s not able for %s on %s", c.staff, c.shift, shortDate(day)),
			})
		}
	}
	return out
}

func buildCapabilityConstraints(nc *normalize.NormalizedConfig) []Constraint {
	var out []Constraint
	for si, s := range nc.Staff {
		for _, w := range nc.StaffedWorkShifts {
			if !s.Able(w) {
				out = append(out, &capabilityConstraint{staffIdx: si, staff: s.Name, shift: w})
			}
		}
	}
	return out
}

// --- F3 (req=0 hard half) --------------------------------------------

type requirementZeroConstraint struct {
	day   time.Time
	shift domain.ShiftType
}

func (c *requirementZeroConstraint) Family() string { return "requirement" }

func (c *requirementZeroConstraint) Check(g *Grid, m *Model) []Violation {
	di, ok := m.dayIndexOf(c.day)
	if !ok {
		return nil
	}
	var out []Violation
	for s, name := range m.StaffNames {
		if g.Get(s, di) == c.shift {
			out = append(out, Violation{
				Family:        c.Family(),
				Tag:           fmt.Sprintf("%s|%s|%s", shortDate(c.day), c.shift, name),
				HumanReadable: fmt.Sprintf("requirement: unsolicited %s assignment for %s on %s", c.shift, name, shortDate(c.day)),
			})
		}
	}
	return out
}

func buildRequirementZeroConstraints(nc *normalize.NormalizedConfig) []Constraint {
	var out []Constraint
	for _, w := range nc.StaffedWorkShifts {
		for d := nc.Start; !d.After(nc.End); d = d.AddDate(0, 0, 1) {
			if nc.Req[domain.ReqKey{Day: d, Shift: w}] == 0 {
				out = append(out, &requirementZeroConstraint{day: d, shift: w})
			}
		}
	}
	return out
}

// --- F4. Hope entries --------------------------------------------------

type hopeConstraint struct {
	staffIdx int
	staff    string
	day      time.Time
	tok      domain.HopeToken
}

func (c *hopeConstraint) Family() string { return "hope" }

func (c *hopeConstraint) Check(g *Grid, m *Model) []Violation {
	di, ok := m.dayIndexOf(c.day)
	if !ok {
		return nil
	}
	got := g.Get(c.staffIdx, di)
	satisfied := false
	switch c.tok {
	case domain.AnyHoliday:
		satisfied = m.IsHoliday(got)
	case domain.AnyWork:
		satisfied = m.IsWork(got)
	default:
		satisfied = got == domain.ShiftType(c.tok)
	}
	if satisfied {
		return nil
	}
	return []Violation{{
		Family:        c.Family(),
		Tag:           fmt.Sprintf("%s|%s|%s", c.staff, shortDate(c.day), c.tok),
		HumanReadable: fmt.Sprintf("hope: %s on %s (%s)", c.staff, shortDate(c.day), c.tok),
	}}
}

func buildHopeConstraints(nc *normalize.NormalizedConfig) []Constraint {
	var out []Constraint
	for k, tok := range nc.Hopes {
		si, ok := staffIndexByName(nc, k.Staff)
		if !ok {
			continue
		}
		out = append(out, &hopeConstraint{staffIdx: si, staff: k.Staff, day: k.Day, tok: tok})
	}
	return out
}

func staffIndexByName(nc *normalize.NormalizedConfig, name string) (int, bool) {
	for i, s := range nc.Staff {
		if s.Name == name {
			return i, true
		}
	}
	return 0, false
}

// --- F5. Weekday rules --------------------------------------------------

type weekdayRuleConstraint struct {
	staffIdx int
	staff    string
	weekday  domain.Weekday
	tok      domain.HopeToken
	kind     domain.RuleKind
}

func (c *weekdayRuleConstraint) Family() string { return "weekday_rule" }

func (c *weekdayRuleConstraint) Check(g *Grid, m *Model) []Violation {
	var out []Violation
	for d, day := range m.Cal.Days {
		if day.Weekday != c.weekday {
			continue
		}
		got := g.Get(c.staffIdx, d)
		matchesClass := false
		switch c.tok {
		case domain.AnyHoliday:
			matchesClass = m.IsHoliday(got)
		case domain.AnyWork:
			matchesClass = m.IsWork(got)
		default:
			matchesClass = got == domain.ShiftType(c.tok)
		}

		ok := matchesClass
		if c.kind == domain.RuleForbid {
			ok = !matchesClass
		}
		if !ok {
			out = append(out, Violation{
				Family:        c.Family(),
				Tag:           fmt.Sprintf("%s|%s|%s|%s", c.staff, c.weekday, c.tok, c.kind),
				HumanReadable: fmt.Sprintf("weekday-rule: %s on %s (%s %s %s)", c.staff, shortDate(day.Date), c.weekday, c.kind, c.tok),
			})
		}
	}
	return out
}

func buildWeekdayRuleConstraints(nc *normalize.NormalizedConfig) []Constraint {
	var out []Constraint
	for _, r := range nc.ExpandedWeekdayRules {
		si, ok := staffIndexByName(nc, r.Staff)
		if !ok {
			continue
		}
		out = append(out, &weekdayRuleConstraint{staffIdx: si, staff: r.Staff, weekday: r.Weekday, tok: r.Token, kind: r.Kind})
	}
	return out
}

// --- F6. Global rules --------------------------------------------------

type globalRuleConstraint struct {
	rule domain.GlobalRule
}

func (c *globalRuleConstraint) Family() string { return "global_rule" }

func scopeMatches(scope domain.RuleScope, day domain.Day) bool {
	if scope.Weekday != nil {
		return day.Weekday == *scope.Weekday
	}
	if scope.Date != nil {
		return truncate(*scope.Date).Equal(truncate(day.Date))
	}
	return false
}

func employmentMatches(filter string, staffEmp string) bool {
	return filter == "" || filter == staffEmp
}

func (c *globalRuleConstraint) Check(g *Grid, m *Model) []Violation {
	var out []Violation
	for si, s := range m.Config.Staff {
		if !employmentMatches(c.rule.EmploymentTypeFilter, s.EmploymentType) {
			continue
		}
		for d, day := range m.Cal.Days {
			if !scopeMatches(c.rule.Scope, day) {
				continue
			}
			got := g.Get(si, d)
			if m.IsHoliday(got) && got != c.rule.HolidayType {
				out = append(out, Violation{
					Family:        c.Family(),
					Tag:           fmt.Sprintf("%s|%s|%s", s.Name, shortDate(day.Date), got),
					HumanReadable: fmt.Sprintf("global-rule: %s assigned %s on %s, only %s permitted", s.Name, got, shortDate(day.Date), c.rule.HolidayType),
				})
			}
		}
	}
	return out
}

func buildGlobalRuleConstraints(nc *normalize.NormalizedConfig, cal *calendar.Calendar) []Constraint {
	var out []Constraint
	for _, r := range nc.GlobalRules {
		out = append(out, &globalRuleConstraint{rule: r})
	}
	return out
}

// --- F7 (hard half). NG pairs -------------------------------------------

type ngHardConstraint struct {
	aIdx, bIdx int
	a, b       string
}

func (c *ngHardConstraint) Family() string { return "ng_pair" }

func (c *ngHardConstraint) Check(g *Grid, m *Model) []Violation {
	var out []Violation
	for d, day := range m.Days {
		if m.IsWork(g.Get(c.aIdx, d)) && m.IsWork(g.Get(c.bIdx, d)) {
			out = append(out, Violation{
				Family:        c.Family(),
				Tag:           fmt.Sprintf("%s|%s|%s", c.a, c.b, shortDate(day)),
				HumanReadable: fmt.Sprintf("ng-pair: %s and %s both work on %s", c.a, c.b, shortDate(day)),
			})
		}
	}
	return out
}

func buildNGHardConstraints(nc *normalize.NormalizedConfig) []Constraint {
	var out []Constraint
	for _, p := range nc.NGPairs {
		if p.Kind != domain.NGHard {
			continue
		}
		aIdx, aok := staffIndexByName(nc, p.StaffA)
		bIdx, bok := staffIndexByName(nc, p.StaffB)
		if !aok || !bok {
			continue
		}
		out = append(out, &ngHardConstraint{aIdx: aIdx, bIdx: bIdx, a: p.StaffA, b: p.StaffB})
	}
	return out
}

// --- F8. Forbidden transitions ------------------------------------------

type forbiddenTransitionConstraint struct {
	prev, next domain.ShiftType
}

func (c *forbiddenTransitionConstraint) Family() string { return "forbidden_transition" }

func (c *forbiddenTransitionConstraint) Check(g *Grid, m *Model) []Violation {
	var out []Violation
	for si, s := range m.Config.Staff {
		if len(m.Days) > 0 && s.PrevShiftType == c.prev && g.Get(si, 0) == c.next {
			out = append(out, Violation{
				Family:        c.Family(),
				Tag:           fmt.Sprintf("%s|prehorizon|%s|%s", s.Name, c.prev, c.next),
				HumanReadable: fmt.Sprintf("forbidden-transition: %s prehorizon(%s)→%s(%s)", s.Name, c.prev, shortDate(m.Days[0]), c.next),
			})
		}
		for d := 0; d+1 < len(m.Days); d++ {
			if g.Get(si, d) == c.prev && g.Get(si, d+1) == c.next {
				out = append(out, Violation{
					Family: c.Family(),
					Tag:    fmt.Sprintf("%s|%s|%s|%s", s.Name, shortDate(m.Days[d]), c.prev, c.next),
					HumanReadable: fmt.Sprintf("forbidden-transition: %s %s(%s)→%s(%s)", s.Name,
						shortDate(m.Days[d]), c.prev, shortDate(m.Days[d+1]), c.next),
				})
			}
		}
	}
	return out
}

func buildForbiddenTransitionConstraints(nc *normalize.NormalizedConfig) []Constraint {
	var out []Constraint
	for _, t := range nc.ForbiddenTransitions {
		out = append(out, &forbiddenTransitionConstraint{prev: t.Prev, next: t.Next})
	}
	return out
}

// --- F9. Period counts ---------------------------------------------------

type periodCountConstraint struct {
	staffIdx  int
	staff     string
	shift     domain.ShiftType
	required  int
}

func (c *periodCountConstraint) Family() string { return "period_count" }

func (c *periodCountConstraint) Check(g *Grid, m *Model) []Violation {
	count := 0
	for d := range m.Days {
		if g.Get(c.staffIdx, d) == c.shift {
			count++
		}
	}
	if count == c.required {
		return nil
	}
	return []Violation{{
		Family:        c.Family(),
		Tag:           fmt.Sprintf("%s|%s", c.staff, c.shift),
		HumanReadable: fmt.Sprintf("period-count: %s has %d %s, expected %d", c.staff, count, c.shift, c.required),
	}}
}

func buildPeriodCountConstraints(nc *normalize.NormalizedConfig) []Constraint {
	hopeCounts := make(map[domain.PeriodCountKey]int)
	for k, tok := range nc.Hopes {
		if tok.IsGeneric() {
			continue
		}
		hopeCounts[domain.PeriodCountKey{Staff: k.Staff, Shift: domain.ShiftType(tok)}]++
	}

	seen := make(map[domain.PeriodCountKey]bool)
	var out []Constraint
	for k, count := range nc.PeriodCounts {
		si, ok := staffIndexByName(nc, k.Staff)
		if !ok {
			continue
		}
		seen[k] = true
		required := count
		if hc := hopeCounts[k]; hc > required {
			required = hc
		}
		out = append(out, &periodCountConstraint{staffIdx: si, staff: k.Staff, shift: k.Shift, required: required})
	}
	// A hope count with no explicit periodCounts entry still dominates
	// upward from a floor of zero (F9's "max(count, hopeCount)" with
	// count implicitly 0).
	for k, hc := range hopeCounts {
		if seen[k] {
			continue
		}
		si, ok := staffIndexByName(nc, k.Staff)
		if !ok {
			continue
		}
		out = append(out, &periodCountConstraint{staffIdx: si, staff: k.Staff, shift: k.Shift, required: hc})
	}
	return out
}

// --- F10. Consecutive work -----------------------------------------------

type consecutiveWorkConstraint struct {
	staffIdx   int
	staff      string
	windowStart int
	windowLen   int
	max         int
}

func (c *consecutiveWorkConstraint) Family() string { return "consec" }

func (c *consecutiveWorkConstraint) Check(g *Grid, m *Model) []Violation {
	count := 0
	for d := c.windowStart; d < c.windowStart+c.windowLen && d < len(m.Days); d++ {
		if m.IsWork(g.Get(c.staffIdx, d)) {
			count++
		}
	}
	if count <= c.max {
		return nil
	}
	return []Violation{{
		Family:        c.Family(),
		Tag:           fmt.Sprintf("%s|%d", c.staff, c.windowStart),
		HumanReadable: fmt.Sprintf("consec: %s from %s", c.staff, shortDate(m.Days[c.windowStart])),
	}}
}

func buildConsecutiveWorkConstraints(nc *normalize.NormalizedConfig) []Constraint {
	var out []Constraint
	numDays := 0
	for d := nc.Start; !d.After(nc.End); d = d.AddDate(0, 0, 1) {
		numDays++
	}

	for si, s := range nc.Staff {
		k := s.MaxConsecWork
		l := k + 1
		if s.PrevConsecWork > 0 {
			p := s.PrevConsecWork
			preLen := l - p
			if preLen > 0 {
				out = append(out, &consecutiveWorkConstraint{
					staffIdx: si, staff: s.Name,
					windowStart: 0, windowLen: preLen, max: preLen - 1,
				})
			}
		}
		for start := 0; start+l <= numDays; start++ {
			out = append(out, &consecutiveWorkConstraint{
				staffIdx: si, staff: s.Name,
				windowStart: start, windowLen: l, max: k,
			})
		}
	}
	return out
}

// --- F11 (hard half). Weekly holiday quota -------------------------------

type weeklyQuotaHardConstraint struct {
	staffIdx int
	staff    string
	shift    domain.ShiftType
	weekIdx  int
	dayIdxs  []int
	target   int
	full     bool
}

func (c *weeklyQuotaHardConstraint) Family() string { return "weekly_quota" }

func (c *weeklyQuotaHardConstraint) Check(g *Grid, m *Model) []Violation {
	count := 0
	for _, d := range c.dayIdxs {
		if g.Get(c.staffIdx, d) == c.shift {
			count++
		}
	}
	ok := count <= c.target
	if c.full {
		ok = count == c.target
	}
	if ok {
		return nil
	}
	return []Violation{{
		Family:        c.Family(),
		Tag:           fmt.Sprintf("%s|%s|%d", c.staff, c.shift, c.weekIdx),
		HumanReadable: fmt.Sprintf("weekly-quota: %s has %d %s in week %d, target %d", c.staff, count, c.shift, c.weekIdx, c.target),
	}}
}

func buildWeeklyQuotaHardConstraints(nc *normalize.NormalizedConfig, cal *calendar.Calendar) []Constraint {
	dayIdx := make(map[time.Time]int, len(cal.Days))
	for i, d := range cal.Days {
		dayIdx[truncate(d.Date)] = i
	}

	var out []Constraint
	for si, s := range nc.Staff {
		for shift, q := range s.Quotas {
			if q.Period != domain.PeriodWeek {
				continue
			}
			for wi, week := range cal.Weeks {
				idxs := make([]int, len(week.Days))
				for i, d := range week.Days {
					idxs[i] = dayIdx[truncate(d.Date)]
				}
				out = append(out, &weeklyQuotaHardConstraint{
					staffIdx: si, staff: s.Name, shift: shift, weekIdx: wi,
					dayIdxs: idxs, target: q.WeekCount, full: week.Full(),
				})
			}
		}
	}
	return out
}

// --- F13. Holiday order ---------------------------------------------------

type holidayOrderConstraint struct {
	pre, post domain.ShiftType
}

func (c *holidayOrderConstraint) Family() string { return "holiday_order" }

func (c *holidayOrderConstraint) Check(g *Grid, m *Model) []Violation {
	var out []Violation
	for si, s := range m.Config.Staff {
		for _, week := range m.Cal.Weeks {
			idxs := make([]int, len(week.Days))
			for i, d := range week.Days {
				di, _ := m.dayIndexOf(d.Date)
				idxs[i] = di
			}
			for i := 0; i < len(idxs); i++ {
				for j := i + 1; j < len(idxs); j++ {
					if g.Get(si, idxs[i]) == c.post && g.Get(si, idxs[j]) == c.pre {
						out = append(out, Violation{
							Family: c.Family(),
							Tag:    fmt.Sprintf("%s|%s|%s", s.Name, c.pre, c.post),
							HumanReadable: fmt.Sprintf("holiday-order: %s has %s on %s after %s on %s", s.Name,
								c.post, shortDate(m.Days[idxs[i]]), c.pre, shortDate(m.Days[idxs[j]])),
						})
					}
				}
			}
		}
	}
	return out
}

func buildHolidayOrderConstraints(nc *normalize.NormalizedConfig, cal *calendar.Calendar) []Constraint {
	var out []Constraint
	for _, r := range nc.HolidayOrderRules {
		out = append(out, &holidayOrderConstraint{pre: r.Pre, post: r.Post})
	}
	return out
}

// --- F14. Public-holiday compensation ------------------------------------

type publicHolidayConstraint struct {
	rule domain.PublicHolidayRule
}

func (c *publicHolidayConstraint) Family() string { return "public_holiday_comp" }

func (c *publicHolidayConstraint) Check(g *Grid, m *Model) []Violation {
	if !c.rule.Enabled || len(m.Cal.Days) == 0 {
		return nil
	}
	var out []Violation
	for si, s := range m.Config.Staff {
		if len(c.rule.EmploymentTypes) > 0 && !contains(c.rule.EmploymentTypes, s.EmploymentType) {
			continue
		}
		workPH, comp := 0, 0
		for d, day := range m.Cal.Days {
			if day.IsPublicHoliday && m.IsWork(g.Get(si, d)) {
				workPH++
			}
			if g.Get(si, d) == c.rule.CompHoliday {
				comp++
			}
			if comp > workPH {
				out = append(out, Violation{
					Family:        c.Family(),
					Tag:           fmt.Sprintf("%s|%s", s.Name, shortDate(day.Date)),
					HumanReadable: fmt.Sprintf("public-holiday-comp: %s over-compensated by %s", s.Name, shortDate(day.Date)),
				})
			}
		}
		if comp != workPH {
			last := m.Cal.Days[len(m.Cal.Days)-1]
			out = append(out, Violation{
				Family:        c.Family(),
				Tag:           fmt.Sprintf("%s|final", s.Name),
				HumanReadable: fmt.Sprintf("public-holiday-comp: %s ends with comp=%d work=%d on %s", s.Name, comp, workPH, shortDate(last.Date)),
			})
		}
	}
	return out
}

func contains(ss []string, v string) bool {
	for _, s := range ss {
		if s == v {
			return true
		}
	}
	return false
}

func buildPublicHolidayConstraint(nc *normalize.NormalizedConfig, cal *calendar.Calendar) Constraint {
	return &publicHolidayConstraint{rule: nc.PublicHolidayRule}
}
