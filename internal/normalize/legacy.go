package normalize

import "github.com/brunolopes/shiftcore/internal/domain"

// MigrateVacancyPolicy applies the legacy field migration described in
// spec.md §6 and returns the canonical VacancyPolicy.
func MigrateVacancyPolicy(legacy domain.LegacyVacancyConfig) domain.VacancyPolicy {
	kind := domain.KeepBlank
	switch legacy.PolicyLabel {
	case "assign_specific", "temp_assign", "extra_shift", "assist":
		kind = domain.AssignSpecific
	}

	if kind == domain.KeepBlank {
		return domain.VacancyPolicy{Kind: domain.KeepBlank}
	}

	seen := make(map[domain.ShiftType]bool)
	var candidates []domain.ShiftType
	add := func(s domain.ShiftType) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		candidates = append(candidates, s)
	}

	add(legacy.FillerShiftType)
	for _, c := range legacy.ExtraCandidates {
		add(c)
	}
	add(legacy.AssistShift)

	scope := legacy.Scope
	if scope.Kind == "" {
		scope = domain.VacancyScope{Kind: domain.ScopeAll}
	}

	return domain.VacancyPolicy{
		Kind:       domain.AssignSpecific,
		Candidates: candidates,
		Scope:      scope,
	}
}

// ExpandAllWeekdayRule expands a single WeekdayRule whose Weekday is
// domain.AllWeekdays into seven concrete-weekday rules, so ModelBuilder
// (internal/solver/model) only ever sees concrete weekdays.
//
// Grounded on original_source/app.完全版2026.01.24.py's weekday-rule
// editor, whose day-of-week select includes "全日" ("every day") as an
// eighth option alongside Mon..Sun.
func ExpandAllWeekdayRule(r domain.WeekdayRule) []domain.WeekdayRule {
	if r.Weekday != domain.AllWeekdays {
		return []domain.WeekdayRule{r}
	}
	out := make([]domain.WeekdayRule, 0, 7)
	for w := domain.Monday; w <= domain.Sunday; w++ {
		rr := r
		rr.Weekday = w
		out = append(out, rr)
	}
	return out
}
