// Package httpapi is a thin Gin transport wrapping the core: it
// accepts a JSON Config, runs it through internal/solver/driver, and
// renders back a Schedule/Warnings or a DiagnosticReport. Grounded on
// the teacher's internal/api/server.go + handlers.go: a *gin.Engine
// with a cors.New() middleware and a Handler struct holding the
// dependencies routes need, nothing fancier.
package httpapi

import (
	"fmt"
	"time"

	"github.com/brunolopes/shiftcore/internal/domain"
)

const dateLayout = "2006-01-02"

// configDTO mirrors domain.Config for the wire: domain.Config keys
// three of its maps (Req, Hopes, PeriodCounts) by struct types, which
// encoding/json cannot use as object keys, so this flattens them into
// entry lists instead.
type configDTO struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`

	WorkShifts      []domain.WorkShiftDef  `json:"work_shifts"`
	HolidayTypes    []domain.HolidayTypeDef `json:"holiday_types"`
	EmploymentTypes []string               `json:"employment_types"`

	GlobalMaxConsec int `json:"global_max_consec"`

	ForbiddenTransitions []domain.ForbiddenTransition `json:"forbidden_transitions"`
	NGPairs              []domain.NGPair              `json:"ng_pairs"`

	Staff []staffDTO `json:"staff"`

	Req          []reqEntryDTO          `json:"req"`
	Hopes        []hopeEntryDTO         `json:"hopes"`
	PeriodCounts []periodCountEntryDTO  `json:"period_counts"`

	WeekdayRules []domain.WeekdayRule `json:"weekday_rules"`
	GlobalRules  []domain.GlobalRule  `json:"global_rules"`

	PublicHolidayRule domain.PublicHolidayRule  `json:"public_holiday_rule"`
	HolidayOrderRules []domain.HolidayOrderRule `json:"holiday_order_rules"`

	VacancyPolicy       domain.VacancyPolicy  `json:"vacancy_policy"`
	LegacyVacancyPolicy *legacyVacancyDTO     `json:"legacy_vacancy_policy,omitempty"`

	SolverTimeoutSecs int `json:"solver_timeout_secs"`
}

// legacyVacancyDTO is the pre-migration vacancy-field shape (spec.md §6):
// a caller that hasn't moved to the canonical vacancy_policy object yet
// can submit this instead, and ConfigNormalizer migrates it.
type legacyVacancyDTO struct {
	PolicyLabel     string                `json:"policy_label"`
	FillerShiftType domain.ShiftType      `json:"filler_shift_type"`
	ExtraCandidates []domain.ShiftType    `json:"extra_candidates"`
	AssistShift     domain.ShiftType      `json:"assist_shift"`
	Scope           domain.VacancyScope   `json:"scope"`
}

func (d *legacyVacancyDTO) toDomain() *domain.LegacyVacancyConfig {
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

type staffDTO struct {
	Name            string                           `json:"name"`
	EmploymentType  string                           `json:"employment_type"`
	AbleShifts      map[domain.ShiftType]bool         `json:"able_shifts"`
	Preference      map[domain.ShiftType]domain.Preference `json:"preference"`
	MaxConsecWork   int                              `json:"max_consec_work"`
	PrevConsecWork  int                              `json:"prev_consec_work"`
	PrevShiftType   domain.ShiftType                 `json:"prev_shift_type"`
	Quotas          map[domain.ShiftType]domain.HolidayQuota `json:"quotas"`
}

type reqEntryDTO struct {
	Day   string           `json:"day"`
	Shift domain.ShiftType `json:"shift"`
	Count int              `json:"count"`
}

type hopeEntryDTO struct {
	Staff string           `json:"staff"`
	Day   string           `json:"day"`
	Token domain.HopeToken `json:"token"`
}

type periodCountEntryDTO struct {
	Staff string           `json:"staff"`
	Shift domain.ShiftType `json:"shift"`
	Count int              `json:"count"`
}

// toDomain converts the wire DTO into a domain.Config. IsPublicHoliday
// is left nil (the no-op predicate) — the demo transport has no notion
// of an injected public-holiday source; a caller embedding the core
// directly can still pass one in.
func (d configDTO) toDomain() (domain.Config, error) {
	start, err := time.Parse(dateLayout, d.Start)
	if err != nil {
		return domain.Config{}, fmt.Errorf("start: %w", err)
	}
	end, err := time.Parse(dateLayout, d.End)
	if err != nil {
		return domain.Config{}, fmt.Errorf("end: %w", err)
	}

	cfg := domain.Config{
		Start:                start,
		End:                  end,
		WorkShifts:           d.WorkShifts,
		HolidayTypes:         d.HolidayTypes,
		EmploymentTypes:      d.EmploymentTypes,
		GlobalMaxConsec:      d.GlobalMaxConsec,
		ForbiddenTransitions: d.ForbiddenTransitions,
		NGPairs:              d.NGPairs,
		WeekdayRules:         d.WeekdayRules,
		GlobalRules:          d.GlobalRules,
		PublicHolidayRule:    d.PublicHolidayRule,
		HolidayOrderRules:    d.HolidayOrderRules,
		VacancyPolicy:        d.VacancyPolicy,
		LegacyVacancyPolicy:  d.LegacyVacancyPolicy.toDomain(),
		SolverTimeoutSecs:    d.SolverTimeoutSecs,
		Req:                  map[domain.ReqKey]int{},
		Hopes:                map[domain.HopeKey]domain.HopeToken{},
		PeriodCounts:         map[domain.PeriodCountKey]int{},
	}

	cfg.Staff = make([]domain.Staff, len(d.Staff))
	for i, s := range d.Staff {
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

	for _, r := range d.Req {
		day, err := time.Parse(dateLayout, r.Day)
		if err != nil {
			return domain.Config{}, fmt.Errorf("req day %q: %w", r.Day, err)
		}
		cfg.Req[domain.ReqKey{Day: day, Shift: r.Shift}] = r.Count
	}
	for _, h := range d.Hopes {
		day, err := time.Parse(dateLayout, h.Day)
		if err != nil {
			return domain.Config{}, fmt.Errorf("hope day %q: %w", h.Day, err)
		}
		cfg.Hopes[domain.HopeKey{Staff: h.Staff, Day: day}] = h.Token
	}
	for _, p := range d.PeriodCounts {
		cfg.PeriodCounts[domain.PeriodCountKey{Staff: p.Staff, Shift: p.Shift}] = p.Count
	}

	return cfg, nil
}

// scheduleResponse is the wire rendering of domain.Schedule: Cell's
// [2]int array key has the same JSON-object-key problem as Config's
// struct-keyed maps, so cells go out as a flat list.
type scheduleResponse struct {
	StaffOrder []string     `json:"staff_order"`
	Days       []string     `json:"days"`
	Cells      []cellEntry  `json:"cells"`
}

type cellEntry struct {
	Staff string           `json:"staff"`
	Day   string           `json:"day"`
	Shift domain.ShiftType `json:"shift"`
}

func newScheduleResponse(s domain.Schedule) scheduleResponse {
	resp := scheduleResponse{
		StaffOrder: s.StaffOrder,
		Days:       make([]string, len(s.Days)),
		Cells:      make([]cellEntry, 0, len(s.Cell)),
	}
	for i, d := range s.Days {
		resp.Days[i] = d.Format(dateLayout)
	}
	for si, name := range s.StaffOrder {
		for di, d := range s.Days {
			resp.Cells = append(resp.Cells, cellEntry{Staff: name, Day: d.Format(dateLayout), Shift: s.Get(si, di)})
		}
	}
	return resp
}

type warningResponse struct {
	Kind    domain.WarningKind `json:"kind"`
	Day     string             `json:"day,omitempty"`
	Staff   string             `json:"staff,omitempty"`
	Shift   domain.ShiftType   `json:"shift,omitempty"`
	Actual  int                `json:"actual"`
	Target  int                `json:"target"`
	Message string             `json:"message"`
}

func newWarningResponses(warnings []domain.Warning) []warningResponse {
	out := make([]warningResponse, len(warnings))
	for i, w := range warnings {
		resp := warningResponse{Kind: w.Kind, Staff: w.Staff, Shift: w.Shift, Actual: w.Actual, Target: w.Target, Message: w.Message}
		if w.Day != nil {
			resp.Day = w.Day.Format(dateLayout)
		}
		out[i] = resp
	}
	return out
}

type causeResponse struct {
	Family        string `json:"family"`
	Tag           string `json:"tag"`
	HumanReadable string `json:"human_readable"`
}

func newCauseResponses(causes []domain.Cause) []causeResponse {
	out := make([]causeResponse, len(causes))
	for i, c := range causes {
		out[i] = causeResponse{Family: c.Family, Tag: c.Tag, HumanReadable: c.HumanReadable}
	}
	return out
}
