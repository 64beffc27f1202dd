package domain

import "time"

// HopeKey identifies one cell in the HopeEntry map.
type HopeKey struct {
	Staff string
	Day   time.Time
}

// WeekdayRule is a (staff, weekday, token, kind) rule from §3. Weekday
// may be AllWeekdays before normalization expands it into seven
// concrete-weekday rules (SPEC_FULL §C).
type WeekdayRule struct {
	Staff   string
	Weekday Weekday
	Token   HopeToken // may hold a concrete ShiftType value too
	Kind    RuleKind
}

// RuleScope is either a fixed weekday or a specific calendar date.
type RuleScope struct {
	Weekday  *Weekday
	Date     *time.Time
}

// GlobalRule: on matching days, the only permitted holiday for matching
// staff is HolidayType (other holidays forbidden); work is unaffected.
type GlobalRule struct {
	Scope              RuleScope
	HolidayType        ShiftType
	EmploymentTypeFilter string // "" means no filter
}

// PublicHolidayRule enables the public-holiday compensation invariant
// (F14): cumulative work on public holidays must, at every prefix, be
// >= cumulative CompHoliday assignments, and equal at the final day.
type PublicHolidayRule struct {
	Enabled          bool
	EmploymentTypes  []string
	CompHoliday      ShiftType
}

// HolidayOrderRule: within a single week, Post may not appear on an
// earlier day than Pre for the same staff (F13).
type HolidayOrderRule struct {
	Pre  ShiftType
	Post ShiftType
}

// ForbiddenTransition: the pair may not occur on adjacent days for any
// staff (F8), including between Staff.PrevShiftType and day 0.
type ForbiddenTransition struct {
	Prev ShiftType
	Next ShiftType
}

// NGPair: in NGHard, StaffA and StaffB may not both work the same day;
// in NGSoft, co-working is penalized rather than forbidden (F7).
type NGPair struct {
	StaffA, StaffB string
	Kind           NGKind
}

// PeriodCountKey identifies one entry of the PeriodCount map (§3).
type PeriodCountKey struct {
	Staff string
	Shift ShiftType
}

// VacancyScopeKind selects which staff a VacancyPolicy's AssignSpecific
// candidate list applies to.
type VacancyScopeKind string

const (
	ScopeAll        VacancyScopeKind = "All"
	ScopeEmployment VacancyScopeKind = "Employment"
	ScopeStaff      VacancyScopeKind = "Staff"
)

// VacancyScope names which staff are "in scope" for AssignSpecific.
type VacancyScope struct {
	Kind  VacancyScopeKind
	Value string // employment type name or staff name, per Kind
}

// Matches reports whether the given staff falls within this scope.
func (s VacancyScope) Matches(staffName, employmentType string) bool {
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeEmployment:
		return s.Value == employmentType
	case ScopeStaff:
		return s.Value == staffName
	default:
		return false
	}
}

// VacancyPolicyKind distinguishes the two policies from §3.
type VacancyPolicyKind string

const (
	KeepBlank     VacancyPolicyKind = "KeepBlank"
	AssignSpecific VacancyPolicyKind = "AssignSpecific"
)

// VacancyPolicy is KeepBlank (no steering beyond F15's flat weight) or
// AssignSpecific with an ordered candidate list and a target scope.
type VacancyPolicy struct {
	Kind       VacancyPolicyKind
	Candidates []ShiftType // ordered; only meaningful for AssignSpecific
	Scope      VacancyScope
}

// LegacyVacancyConfig carries the pre-migration field shapes spec.md §6
// names: an old free-form policy label, the old single filler-shift
// field, and the two list fields that used to extend it.
// ConfigNormalizer folds all of this into a VacancyPolicy (see
// internal/normalize.MigrateVacancyPolicy) whenever a caller sets
// Config.LegacyVacancyPolicy instead of the canonical Config.VacancyPolicy.
//
// Grounded on original_source/app.py's vacancy_policy/filler_shift_type/
// vacancy_extra_candidates/vacancy_assist_shift session-state fields and
// the "temp_assign|extra_shift|assist collapse to assign_specific"
// migration it performs before building the model.
type LegacyVacancyConfig struct {
	// PolicyLabel is one of the old free-form labels: "keep_blank",
	// "assign_specific", or one of the superseded codes
	// "temp_assign" | "extra_shift" | "assist" (all collapse to
	// AssignSpecific).
	PolicyLabel string

	// FillerShiftType is the old single-candidate field; if set it
	// seeds the candidate list.
	FillerShiftType ShiftType

	// ExtraCandidates and AssistShift are merged into the candidate
	// list after FillerShiftType, uniquely and preserving first
	// occurrence.
	ExtraCandidates []ShiftType
	AssistShift     ShiftType

	Scope VacancyScope
}
