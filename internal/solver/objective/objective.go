// Package objective implements ObjectiveComposer (spec.md §4.3 soft
// families F3/F7/F11/F12/F15-F17, §4.3): it sums weighted terms from
// the soft constraint families and staff preferences into the single
// maximization objective the engine climbs.
package objective

import (
	"math"
	"time"

	"github.com/brunolopes/shiftcore/internal/calendar"
	"github.com/brunolopes/shiftcore/internal/domain"
	"github.com/brunolopes/shiftcore/internal/normalize"
	"github.com/brunolopes/shiftcore/internal/solver/model"
)

// Term is one scoreable soft-objective contributor.
type Term interface {
	Family() string
	Score(g *model.Grid) float64
}

// Objective is the composed sum of every soft term for one model.
type Objective struct {
	Terms []Term
}

// Score sums every term's contribution for the candidate grid.
func (o *Objective) Score(g *model.Grid) float64 {
	total := 0.0
	for _, t := range o.Terms {
		total += t.Score(g)
	}
	return total
}

// Build composes the objective for nc over cal. m supplies day/staff
// indexing shared with the hard-constraint model.
func Build(nc *normalize.NormalizedConfig, cal *calendar.Calendar, m *model.Model) *Objective {
	obj := &Objective{}
	obj.Terms = append(obj.Terms, buildRequirementSoftTerms(nc, m)...)
	obj.Terms = append(obj.Terms, buildNGSoftTerms(nc, m)...)
	obj.Terms = append(obj.Terms, buildWeeklyQuotaSoftTerms(nc, cal, m)...)
	obj.Terms = append(obj.Terms, buildMonthlyQuotaSoftTerms(nc, cal, m)...)
	obj.Terms = append(obj.Terms, buildVacancySteeringTerms(nc, m)...)
	obj.Terms = append(obj.Terms, buildPreferenceTerms(nc, m)...)
	obj.Terms = append(obj.Terms, &tieBreakerTerm{m: m, weighted: buildWeightedShiftSets(nc)})
	return obj
}

// buildWeightedShiftSets returns, per staff index, the set of shift
// types F15 (vacancy steering) or F16 (preference) already attach a
// weight to for that staff — F17's tie-breaker bonus excludes them.
func buildWeightedShiftSets(nc *normalize.NormalizedConfig) map[int]map[domain.ShiftType]bool {
	sets := make(map[int]map[domain.ShiftType]bool, len(nc.Staff))
	for si, s := range nc.Staff {
		set := make(map[domain.ShiftType]bool)
		inScope := nc.VacancyPolicy.Kind == domain.AssignSpecific && nc.VacancyPolicy.Scope.Matches(s.Name, s.EmploymentType)
		if inScope {
			for _, cand := range nc.VacancyPolicy.Candidates {
				set[cand] = true
			}
		}
		for _, w := range nc.StaffedWorkShifts {
			if s.PreferenceFor(w) != domain.PreferenceMed {
				set[w] = true
			}
		}
		sets[si] = set
	}
	return sets
}

// --- F3 (req>0 soft half) -------------------------------------------

type requirementSoftTerm struct {
	m     *model.Model
	day   time.Time
	shift domain.ShiftType
	req   int
}

func (t *requirementSoftTerm) Family() string { return "requirement" }

func (t *requirementSoftTerm) Score(g *model.Grid) float64 {
	di, ok := t.m.DayIndex[truncate(t.day)]
	if !ok {
		return 0
	}
	a := 0
	for s := range t.m.StaffNames {
		if g.Get(s, di) == t.shift {
			a++
		}
	}
	return -10000 * math.Abs(float64(a-t.req))
}

func buildRequirementSoftTerms(nc *normalize.NormalizedConfig, m *model.Model) []Term {
	var out []Term
	for _, w := range nc.StaffedWorkShifts {
		for d := nc.Start; !d.After(nc.End); d = d.AddDate(0, 0, 1) {
			req := nc.Req[domain.ReqKey{Day: d, Shift: w}]
			if req > 0 {
				out = append(out, &requirementSoftTerm{m: m, day: d, shift: w, req: req})
			}
		}
	}
	return out
}

// --- F7 (soft half). NG pairs ----------------------------------------

type ngSoftTerm struct {
	m          *model.Model
	aIdx, bIdx int
}

func (t *ngSoftTerm) Family() string { return "ng_pair" }

func (t *ngSoftTerm) Score(g *model.Grid) float64 {
	total := 0.0
	for d := range t.m.Days {
		if t.m.IsWork(g.Get(t.aIdx, d)) && t.m.IsWork(g.Get(t.bIdx, d)) {
			total -= 100
		}
	}
	return total
}

func buildNGSoftTerms(nc *normalize.NormalizedConfig, m *model.Model) []Term {
	var out []Term
	for _, p := range nc.NGPairs {
		if p.Kind != domain.NGSoft {
			continue
		}
		aIdx, aok := indexOf(nc, p.StaffA)
		bIdx, bok := indexOf(nc, p.StaffB)
		if !aok || !bok {
			continue
		}
		out = append(out, &ngSoftTerm{m: m, aIdx: aIdx, bIdx: bIdx})
	}
	return out
}

// --- F11 (soft duplicate half). Weekly holiday quota ---------------------

type weeklyQuotaSoftTerm struct {
	staffIdx int
	shift    domain.ShiftType
	dayIdxs  []int
	target   int
	full     bool
}

func (t *weeklyQuotaSoftTerm) Family() string { return "weekly_quota" }

func (t *weeklyQuotaSoftTerm) Score(g *model.Grid) float64 {
	count := 0
	for _, d := range t.dayIdxs {
		if g.Get(t.staffIdx, d) == t.shift {
			count++
		}
	}
	diff := count - t.target
	if t.full {
		return -1000 * math.Abs(float64(diff))
	}
	if diff > 0 {
		return -1000 * float64(diff)
	}
	return 0
}

func buildWeeklyQuotaSoftTerms(nc *normalize.NormalizedConfig, cal *calendar.Calendar, m *model.Model) []Term {
	var out []Term
	for si, s := range nc.Staff {
		for shift, q := range s.Quotas {
			if q.Period != domain.PeriodWeek {
				continue
			}
			for _, week := range cal.Weeks {
				idxs := make([]int, 0, len(week.Days))
				for _, d := range week.Days {
					if di, ok := m.DayIndex[truncate(d.Date)]; ok {
						idxs = append(idxs, di)
					}
				}
				out = append(out, &weeklyQuotaSoftTerm{staffIdx: si, shift: shift, dayIdxs: idxs, target: q.WeekCount, full: week.Full()})
			}
		}
	}
	return out
}

// --- F12. Monthly holiday quota (soft only) ------------------------------

type monthlyQuotaSoftTerm struct {
	staffIdx int
	shift    domain.ShiftType
	dayIdxs  []int
	target   int
}

func (t *monthlyQuotaSoftTerm) Family() string { return "monthly_quota" }

func (t *monthlyQuotaSoftTerm) Score(g *model.Grid) float64 {
	count := 0
	for _, d := range t.dayIdxs {
		if g.Get(t.staffIdx, d) == t.shift {
			count++
		}
	}
	return -500 * math.Abs(float64(count-t.target))
}

func buildMonthlyQuotaSoftTerms(nc *normalize.NormalizedConfig, cal *calendar.Calendar, m *model.Model) []Term {
	var out []Term
	for si, s := range nc.Staff {
		for shift, q := range s.Quotas {
			if q.Period != domain.PeriodMonth {
				continue
			}
			for _, month := range cal.Months {
				idxs := make([]int, 0, len(month.Days))
				for _, d := range month.Days {
					if di, ok := m.DayIndex[truncate(d.Date)]; ok {
						idxs = append(idxs, di)
					}
				}
				out = append(out, &monthlyQuotaSoftTerm{staffIdx: si, shift: shift, dayIdxs: idxs, target: q.MonthCount})
			}
		}
	}
	return out
}

// --- F15. Vacancy steering ------------------------------------------------

type vacancySteeringTerm struct {
	m      *model.Model
	staffIdx int
	inScope  bool
	policy   domain.VacancyPolicy
}

func (t *vacancySteeringTerm) Family() string { return "vacancy_steering" }

func (t *vacancySteeringTerm) Score(g *model.Grid) float64 {
	total := 0.0
	vw := 0.2
	if t.policy.Kind == domain.AssignSpecific && t.inScope {
		vw = -0.02
	}
	for d := range t.m.Days {
		if g.Get(t.staffIdx, d) == domain.Vacant {
			total += vw
		}
	}
	if t.policy.Kind == domain.AssignSpecific && t.inScope {
		for i, cand := range t.policy.Candidates {
			w := 0.24 - 0.02*float64(i)
			if w < 0.06 {
				w = 0.06
			}
			for d := range t.m.Days {
				if g.Get(t.staffIdx, d) == cand {
					total += w
				}
			}
		}
	}
	return total
}

func buildVacancySteeringTerms(nc *normalize.NormalizedConfig, m *model.Model) []Term {
	var out []Term
	for si, s := range nc.Staff {
		inScope := nc.VacancyPolicy.Kind == domain.AssignSpecific && nc.VacancyPolicy.Scope.Matches(s.Name, s.EmploymentType)
		out = append(out, &vacancySteeringTerm{m: m, staffIdx: si, inScope: inScope, policy: nc.VacancyPolicy})
	}
	return out
}

// --- F16. Preference nudges -----------------------------------------------

type preferenceTerm struct {
	m        *model.Model
	staffIdx int
	shift    domain.ShiftType
	weight   float64
}

func (t *preferenceTerm) Family() string { return "preference" }

func (t *preferenceTerm) Score(g *model.Grid) float64 {
	total := 0.0
	for d := range t.m.Days {
		if g.Get(t.staffIdx, d) == t.shift {
			total += t.weight
		}
	}
	return total
}

func buildPreferenceTerms(nc *normalize.NormalizedConfig, m *model.Model) []Term {
	var out []Term
	for si, s := range nc.Staff {
		for _, w := range nc.StaffedWorkShifts {
			weight := 0.0
			switch s.PreferenceFor(w) {
			case domain.PreferenceHigh:
				weight = 1.0
			case domain.PreferenceLow:
				weight = -1.0
			}
			if weight != 0 {
				out = append(out, &preferenceTerm{m: m, staffIdx: si, shift: w, weight: weight})
			}
		}
	}
	return out
}

// --- F17. Tie-breaker ------------------------------------------------------

type tieBreakerTerm struct {
	m        *model.Model
	weighted map[int]map[domain.ShiftType]bool
}

func (t *tieBreakerTerm) Family() string { return "tie_breaker" }

// Score adds a flat bonus per assigned (non-Vacant) cell, but only for
// variables not already weighted by F15 or F16 — otherwise those cells
// would be counted twice.
func (t *tieBreakerTerm) Score(g *model.Grid) float64 {
	total := 0.0
	for s := range t.m.StaffNames {
		weighted := t.weighted[s]
		for d := range t.m.Days {
			shift := g.Get(s, d)
			if shift == domain.Vacant || weighted[shift] {
				continue
			}
			total += 0.01
		}
	}
	return total
}

func indexOf(nc *normalize.NormalizedConfig, name string) (int, bool) {
	for i, s := range nc.Staff {
		if s.Name == name {
			return i, true
		}
	}
	return 0, false
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
