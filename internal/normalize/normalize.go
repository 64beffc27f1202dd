// Package normalize implements ConfigNormalizer (spec.md §4.2): it
// validates a domain.Config, migrates legacy field shapes, and fills
// caller-omitted defaults, producing an immutable NormalizedConfig plus
// a list of warnings. Unknown tokens in rules/hopes are dropped with a
// warning rather than failing the whole solve (§4.2, §7).
package normalize

import (
	"fmt"
	"sort"
	"time"

	"github.com/brunolopes/shiftcore/internal/coreerr"
	"github.com/brunolopes/shiftcore/internal/domain"
)

// NormalizedConfig is the immutable, fully-defaulted config the solver
// package consumes. It is never mutated after Normalize returns it.
type NormalizedConfig struct {
	domain.Config

	// ShiftTypes is the full universe in caller order (WorkShifts ∪
	// HolidayTypes ∪ maybe Vacant), computed once here so downstream
	// packages don't recompute it.
	ShiftTypes []domain.ShiftType

	// StaffedWorkShifts is the subset of WorkShifts with StaffedFlag=true.
	StaffedWorkShifts []domain.ShiftType

	// ExpandedWeekdayRules has every AllWeekdays rule already expanded
	// into seven concrete-weekday rules (SPEC_FULL §C).
	ExpandedWeekdayRules []domain.WeekdayRule
}

// Normalize validates cfg, migrates legacy field shapes (currently just
// VacancyPolicy, via MigrateVacancyPolicy), and fills in defaults. It
// returns coreerr.KindInvalidRange if the config has no staff or an
// inverted date range.
func Normalize(cfg domain.Config) (*NormalizedConfig, []domain.Warning, error) {
	if cfg.End.Before(cfg.Start) {
		return nil, nil, coreerr.NewInvalidRange("end (%s) before start (%s)", cfg.End.Format("2006-01-02"), cfg.Start.Format("2006-01-02"))
	}
	if len(cfg.Staff) == 0 {
		return nil, nil, coreerr.NewInvalidRange("config has no staff")
	}

	if cfg.VacancyPolicy.Kind == "" && cfg.LegacyVacancyPolicy != nil {
		cfg.VacancyPolicy = MigrateVacancyPolicy(*cfg.LegacyVacancyPolicy)
	}

	var warnings []domain.Warning

	universe := make(map[domain.ShiftType]bool)
	for _, w := range cfg.WorkShifts {
		universe[w.Name] = true
	}
	for _, h := range cfg.HolidayTypes {
		universe[h.Name] = true
	}

	nc := &NormalizedConfig{Config: cfg}
	nc.ShiftTypes = cfg.ShiftTypeUniverse()

	for _, w := range cfg.WorkShifts {
		if w.StaffedFlag {
			nc.StaffedWorkShifts = append(nc.StaffedWorkShifts, w.Name)
		}
	}

	// Fill per-staff defaults (§4.2): maxConsecWork==0 -> globalMaxConsec,
	// absent able[w] defaults to true for every work shift, absent
	// preference defaults to Med, prevShiftType not in ShiftTypes -> "".
	staff := make([]domain.Staff, len(cfg.Staff))
	copy(staff, cfg.Staff)
	for i := range staff {
		s := &staff[i]
		if s.MaxConsecWork == 0 {
			s.MaxConsecWork = cfg.GlobalMaxConsec
		}
		if s.AbleShifts == nil {
			s.AbleShifts = make(map[domain.ShiftType]bool)
		}
		for _, w := range cfg.WorkShifts {
			if _, ok := s.AbleShifts[w.Name]; !ok {
				s.AbleShifts[w.Name] = true
			}
		}
		if s.Preference == nil {
			s.Preference = make(map[domain.ShiftType]domain.Preference)
		}
		for _, w := range cfg.WorkShifts {
			if _, ok := s.Preference[w.Name]; !ok {
				s.Preference[w.Name] = domain.PreferenceMed
			}
		}
		if s.PrevShiftType != "" && !universe[s.PrevShiftType] && s.PrevShiftType != domain.Vacant {
			s.PrevShiftType = ""
		}
	}
	nc.Staff = staff

	// Drop hope entries / rules referencing undefined tokens, with a
	// warning each (§4.2, §7 UnknownToken policy: "Recovered locally").
	cleanHopes := make(map[domain.HopeKey]domain.HopeToken, len(cfg.Hopes))
	for k, tok := range cfg.Hopes {
		if tok.IsGeneric() || universe[domain.ShiftType(tok)] {
			cleanHopes[k] = tok
			continue
		}
		warnings = append(warnings, unknownTokenWarning("hope", k.Staff, &k.Day, string(tok)))
	}
	nc.Hopes = cleanHopes

	var expanded []domain.WeekdayRule
	for _, r := range cfg.WeekdayRules {
		if !r.Token.IsGeneric() && !universe[domain.ShiftType(r.Token)] {
			warnings = append(warnings, unknownTokenWarning("weekday_rule", r.Staff, nil, string(r.Token)))
			continue
		}
		expanded = append(expanded, ExpandAllWeekdayRule(r)...)
	}
	nc.ExpandedWeekdayRules = expanded

	var cleanGlobal []domain.GlobalRule
	for _, r := range cfg.GlobalRules {
		if !universe[r.HolidayType] {
			warnings = append(warnings, unknownTokenWarning("global_rule", "", nil, string(r.HolidayType)))
			continue
		}
		cleanGlobal = append(cleanGlobal, r)
	}
	nc.GlobalRules = cleanGlobal

	var cleanOrder []domain.HolidayOrderRule
	for _, r := range cfg.HolidayOrderRules {
		if !universe[r.Pre] || !universe[r.Post] {
			warnings = append(warnings, unknownTokenWarning("holiday_order_rule", "", nil, fmt.Sprintf("%s/%s", r.Pre, r.Post)))
			continue
		}
		cleanOrder = append(cleanOrder, r)
	}
	nc.HolidayOrderRules = cleanOrder

	var cleanTransitions []domain.ForbiddenTransition
	for _, r := range cfg.ForbiddenTransitions {
		if !universe[r.Prev] || !universe[r.Next] {
			warnings = append(warnings, unknownTokenWarning("forbidden_transition", "", nil, fmt.Sprintf("%s/%s", r.Prev, r.Next)))
			continue
		}
		cleanTransitions = append(cleanTransitions, r)
	}
	nc.ForbiddenTransitions = cleanTransitions

	cleanPeriodCounts := make(map[domain.PeriodCountKey]int, len(cfg.PeriodCounts))
	for k, v := range cfg.PeriodCounts {
		if !universe[k.Shift] {
			warnings = append(warnings, unknownTokenWarning("period_count", k.Staff, nil, string(k.Shift)))
			continue
		}
		cleanPeriodCounts[k] = v
	}
	nc.PeriodCounts = cleanPeriodCounts

	if cfg.SolverTimeoutSecs <= 0 {
		nc.SolverTimeoutSecs = 300
	}

	sort.Slice(warnings, func(i, j int) bool { return warnings[i].Message < warnings[j].Message })

	return nc, warnings, nil
}

func unknownTokenWarning(kind, staff string, day *time.Time, token string) domain.Warning {
	msg := fmt.Sprintf("unknown token %q dropped from %s", token, kind)
	if staff != "" {
		msg = fmt.Sprintf("%s (staff=%s)", msg, staff)
	}
	return domain.Warning{
		Kind:    domain.WarningUnknownToken,
		Staff:   staff,
		Day:     day,
		Message: msg,
	}
}
