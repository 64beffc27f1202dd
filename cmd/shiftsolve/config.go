package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/brunolopes/shiftcore/internal/domain"
)

const dateLayout = "2006-01-02"

// configFileDTO is the on-disk JSON shape a --config file is read as.
// domain.Config keys Req/Hopes/PeriodCounts by struct types, which
// encoding/json cannot use as object keys, so the file format flattens
// them into entry lists the same way internal/httpapi's wire format
// does (the two are kept as separate types deliberately: a CLI config
// file and an HTTP request body are different contracts that happen to
// share a shape today).
type configFileDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`

	WorkShifts      []domain.WorkShiftDef   `json:"work_shifts"`
	HolidayTypes    []domain.HolidayTypeDef `json:"holiday_types"`
	EmploymentTypes []string                `json:"employment_types"`

	GlobalMaxConsec int `json:"global_max_consec"`

	ForbiddenTransitions []domain.ForbiddenTransition `json:"forbidden_transitions"`
	NGPairs              []domain.NGPair              `json:"ng_pairs"`

	Staff []staffFileDTO `json:"staff"`

	Req          []reqFileEntry          `json:"req"`
	Hopes        []hopeFileEntry         `json:"hopes"`
	PeriodCounts []periodCountFileEntry  `json:"period_counts"`

	WeekdayRules []domain.WeekdayRule `json:"weekday_rules"`
	GlobalRules  []domain.GlobalRule  `json:"global_rules"`

	PublicHolidayRule domain.PublicHolidayRule  `json:"public_holiday_rule"`
	HolidayOrderRules []domain.HolidayOrderRule `json:"holiday_order_rules"`

	VacancyPolicy       domain.VacancyPolicy    `json:"vacancy_policy"`
	LegacyVacancyPolicy *legacyVacancyFileEntry `json:"legacy_vacancy_policy,omitempty"`

	SolverTimeoutSecs int `json:"solver_timeout_secs"`
}

// legacyVacancyFileEntry is the pre-migration vacancy-field shape
// (spec.md §6): a --config file written before the canonical
// vacancy_policy object existed can still use this instead, and
// ConfigNormalizer migrates it.
type legacyVacancyFileEntry struct {
	PolicyLabel     string              `json:"policy_label"`
	FillerShiftType domain.ShiftType    `json:"filler_shift_type"`
	ExtraCandidates []domain.ShiftType  `json:"extra_candidates"`
	AssistShift     domain.ShiftType    `json:"assist_shift"`
	Scope           domain.VacancyScope `json:"scope"`
}

func (d *legacyVacancyFileEntry) toDomain() *domain.LegacyVacancyConfig {
	if d == nil {
		return nil
	}
	return &domain.LegacyVacancyConfig{
		PolicyLabel:     d.PolicyLabel,
		FillerShiftType: d.FillerShiftType,
		ExtraCandidates: d.ExtraCandidates,
		AssistShift:     d.AssistShift,
		Scope:           d.Scope,
	}
}

type staffFileDTO struct {
	Name           string                                  `json:"name"`
	EmploymentType string                                  `json:"employment_type"`
	AbleShifts     map[domain.ShiftType]bool                `json:"able_shifts"`
	Preference     map[domain.ShiftType]domain.Preference   `json:"preference"`
	MaxConsecWork  int                                     `json:"max_consec_work"`
	PrevConsecWork int                                     `json:"prev_consec_work"`
	PrevShiftType  domain.ShiftType                        `json:"prev_shift_type"`
	Quotas         map[domain.ShiftType]domain.HolidayQuota `json:"quotas"`
}

type reqFileEntry struct {
	Day   string           `json:"day"`
	Shift domain.ShiftType `json:"shift"`
	Count int              `json:"count"`
}

type hopeFileEntry struct {
	Staff string           `json:"staff"`
	Day   string           `json:"day"`
	Token domain.HopeToken `json:"token"`
}

type periodCountFileEntry struct {
	Staff string           `json:"staff"`
	Shift domain.ShiftType `json:"shift"`
	Count int              `json:"count"`
}

// loadConfig reads and parses a --config JSON file into a domain.Config.
func loadConfig(path string) (domain.Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var dto configFileDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return domain.Config{}, fmt.Errorf("parsing config file: %w", err)
	}

	start, err := time.Parse(dateLayout, dto.Start)
	if err != nil {
		return domain.Config{}, fmt.Errorf("start: %w", err)
	}
	end, err := time.Parse(dateLayout, dto.End)
	if err != nil {
		return domain.Config{}, fmt.Errorf("end: %w", err)
	}

	cfg := domain.Config{
		Start:                start,
		End:                  end,
		WorkShifts:           dto.WorkShifts,
		HolidayTypes:         dto.HolidayTypes,
		EmploymentTypes:      dto.EmploymentTypes,
		GlobalMaxConsec:      dto.GlobalMaxConsec,
		ForbiddenTransitions: dto.ForbiddenTransitions,
		NGPairs:              dto.NGPairs,
		WeekdayRules:         dto.WeekdayRules,
		GlobalRules:          dto.GlobalRules,
		PublicHolidayRule:    dto.PublicHolidayRule,
		HolidayOrderRules:    dto.HolidayOrderRules,
		VacancyPolicy:        dto.VacancyPolicy,
		LegacyVacancyPolicy:  dto.LegacyVacancyPolicy.toDomain(),
		SolverTimeoutSecs:    dto.SolverTimeoutSecs,
		Req:                  map[domain.ReqKey]int{},
		Hopes:                map[domain.HopeKey]domain.HopeToken{},
		PeriodCounts:         map[domain.PeriodCountKey]int{},
	}

	cfg.Staff = make([]domain.Staff, len(dto.Staff))
	for i, s := range dto.Staff {
		cfg.Staff[i] = domain.Staff{
			Name:           s.Name,
			EmploymentType: s.EmploymentType,
			AbleShifts:     s.AbleShifts,
			Preference:     s.Preference,
			MaxConsecWork:  s.MaxConsecWork,
			PrevConsecWork: s.PrevConsecWork,
			PrevShiftType:  s.PrevShiftType,
			Quotas:         s.Quotas,
		}
	}

	for _, r := range dto.Req {
		day, err := time.Parse(dateLayout, r.Day)
		if err != nil {
			return domain.Config{}, fmt.Errorf("req day %q: %w", r.Day, err)
		}
		cfg.Req[domain.ReqKey{Day: day, Shift: r.Shift}] = r.Count
	}
	for _, h := range dto.Hopes {
		day, err := time.Parse(dateLayout, h.Day)
		if err != nil {
			return domain.Config{}, fmt.Errorf("hope day %q: %w", h.Day, err)
		}
		cfg.Hopes[domain.HopeKey{Staff: h.Staff, Day: day}] = h.Token
	}
	for _, p := range dto.PeriodCounts {
		cfg.PeriodCounts[domain.PeriodCountKey{Staff: p.Staff, Shift: p.Shift}] = p.Count
	}

	return cfg, nil
}

// scheduleFileDTO is the JSON shape `solve --out` writes and `validate
// --schedule` reads back, kept separate from internal/httpapi's and
// internal/resultcache's own schedule DTOs for the same reason as
// above: three independent contracts that happen to share a shape.
type scheduleFileDTO struct {
	StaffOrder []string       `json:"staff_order"`
	Days       []string       `json:"days"`
	Cells      []cellFileEntry `json:"cells"`
}

type cellFileEntry struct {
	Staff string           `json:"staff"`
	Day   string           `json:"day"`
	Shift domain.ShiftType `json:"shift"`
}

func encodeSchedule(s domain.Schedule) scheduleFileDTO {
	dto := scheduleFileDTO{
		StaffOrder: s.StaffOrder,
		Days:       make([]string, len(s.Days)),
		Cells:      make([]cellFileEntry, 0, len(s.Cell)),
	}
	for i, d := range s.Days {
		dto.Days[i] = d.Format(dateLayout)
	}
	for si, name := range s.StaffOrder {
		for di, d := range s.Days {
			dto.Cells = append(dto.Cells, cellFileEntry{Staff: name, Day: d.Format(dateLayout), Shift: s.Get(si, di)})
		}
	}
	return dto
}

func decodeSchedule(dto scheduleFileDTO) (domain.Schedule, error) {
	days := make([]time.Time, len(dto.Days))
	for i, d := range dto.Days {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			return domain.Schedule{}, fmt.Errorf("schedule day %q: %w", d, err)
		}
		days[i] = t
	}

	staffIndex := make(map[string]int, len(dto.StaffOrder))
	for i, name := range dto.StaffOrder {
		staffIndex[name] = i
	}
	dayIndex := make(map[string]int, len(dto.Days))
	for i, d := range dto.Days {
		dayIndex[d] = i
	}

	sched := domain.Schedule{
		StaffOrder: dto.StaffOrder,
		Days:       days,
		Cell:       make(map[[2]int]domain.ShiftType, len(dto.Cells)),
	}
	for _, c := range dto.Cells {
		si, ok := staffIndex[c.Staff]
		if !ok {
			return domain.Schedule{}, fmt.Errorf("schedule cell references unknown staff %q", c.Staff)
		}
		di, ok := dayIndex[c.Day]
		if !ok {
			return domain.Schedule{}, fmt.Errorf("schedule cell references unknown day %q", c.Day)
		}
		sched.Cell[[2]int{si, di}] = c.Shift
	}
	return sched, nil
}
