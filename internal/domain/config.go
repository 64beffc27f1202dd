package domain

import "time"

// ReqKey identifies one (day, work-shift) cell in the Requirement map.
type ReqKey struct {
	Day   time.Time
	Shift ShiftType
}

// Config is the immutable, caller-supplied snapshot the core solves
// against. Everything here is the external editor's responsibility to
// produce; the core never mutates it (§3 Lifecycle).
type Config struct {
	Start, End time.Time

	WorkShifts      []WorkShiftDef
	HolidayTypes    []HolidayTypeDef
	EmploymentTypes []string

	GlobalMaxConsec int

	ForbiddenTransitions []ForbiddenTransition
	NGPairs              []NGPair

	Staff []Staff

	Req map[ReqKey]int

	Hopes map[HopeKey]HopeToken

	WeekdayRules []WeekdayRule
	GlobalRules  []GlobalRule

	PublicHolidayRule PublicHolidayRule
	HolidayOrderRules []HolidayOrderRule

	PeriodCounts map[PeriodCountKey]int

	VacancyPolicy VacancyPolicy

	// LegacyVacancyPolicy lets a caller submit the pre-migration
	// vacancy-field shape instead of the canonical VacancyPolicy above.
	// ConfigNormalizer migrates it (see
	// internal/normalize.MigrateVacancyPolicy) when VacancyPolicy.Kind
	// is unset. Ignored once VacancyPolicy.Kind is set directly.
	LegacyVacancyPolicy *LegacyVacancyConfig

	// SolverTimeoutSecs defaults to 300 when <= 0.
	SolverTimeoutSecs int

	// IsPublicHoliday is the injected predicate from §4.1. A nil value
	// means "no public holidays" (a legal no-op predicate).
	IsPublicHoliday func(time.Time) bool
}

// ShiftTypeUniverse returns WorkShifts ∪ HolidayTypes ∪ {Vacant, if
// the vacancy policy admits it}, preserving caller-defined order within
// each set (affects display/tie-breaking only, invariant 1).
func (c Config) ShiftTypeUniverse() []ShiftType {
	out := make([]ShiftType, 0, len(c.WorkShifts)+len(c.HolidayTypes)+1)
	for _, w := range c.WorkShifts {
		out = append(out, w.Name)
	}
	for _, h := range c.HolidayTypes {
		out = append(out, h.Name)
	}
	if c.VacancyPolicy.Kind != "" {
		out = append(out, Vacant)
	}
	return out
}

// Schedule is the dense staff×day output table (§6). Row order preserves
// Config.Staff; column order preserves calendrical order.
type Schedule struct {
	StaffOrder []string
	Days       []time.Time
	// Cell is keyed by (staffIndex, dayIndex) into the two slices above.
	Cell map[[2]int]ShiftType
}

// Get returns the assigned shift type at (staffIdx, dayIdx).
func (s Schedule) Get(staffIdx, dayIdx int) ShiftType {
	return s.Cell[[2]int{staffIdx, dayIdx}]
}

// WarningKind enumerates the warning kinds: the two families of
// post-solve discrepancy produced by the Validator (§4.6), plus
// unknown-token warnings produced by ConfigNormalizer.
type WarningKind string

const (
	WarningHolidayQuotaMiss WarningKind = "holiday_quota_miss"
	WarningRequirementMiss  WarningKind = "requirement_miss"
	WarningUnknownToken     WarningKind = "unknown_token"
)

// Warning is one informational, non-fatal discrepancy surfaced after a
// successful solve.
type Warning struct {
	Kind    WarningKind
	Day     *time.Time
	Staff   string
	Shift   ShiftType
	Actual  int
	Target  int
	Message string
}

// Cause is one entry of a DiagnosticReport (§4.5): the softenable
// constraint family that was relaxed to make the model feasible, a
// stable machine tag, and a human-readable rendering.
type Cause struct {
	Family        string
	Tag           string
	HumanReadable string
}
