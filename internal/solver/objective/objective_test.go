package objective

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brunolopes/shiftcore/internal/calendar"
	"github.com/brunolopes/shiftcore/internal/domain"
	"github.com/brunolopes/shiftcore/internal/normalize"
	"github.com/brunolopes/shiftcore/internal/solver/model"
)

func dayUTC(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func build(t *testing.T, cfg domain.Config) (*model.Model, *Objective) {
	t.Helper()
	nc, _, err := normalize.Normalize(cfg)
	require.NoError(t, err)
	cal, err := calendar.Build(nc.Start, nc.End, nc.IsPublicHoliday)
	require.NoError(t, err)
	m := model.Build(nc, cal)
	return m, Build(nc, cal, m)
}

func TestRequirementSoftTermPenalizesShortfall(t *testing.T) {
	d0 := dayUTC(2026, 1, 5)
	cfg := domain.Config{
		Start:           d0,
		End:             d0,
		WorkShifts:      []domain.WorkShiftDef{{Name: "Day", StaffedFlag: true}},
		GlobalMaxConsec: 10,
		Staff:           []domain.Staff{{Name: "Alice"}, {Name: "Bob"}},
		Req: map[domain.ReqKey]int{
			{Day: d0, Shift: "Day"}: 2,
		},
	}
	m, obj := build(t, cfg)

	g := model.NewGrid(2, 1)
	g.Set(0, 0, "Day")
	g.Set(1, 0, domain.Vacant)

	assert.Less(t, obj.Score(g), 0.0)
	_ = m
}

func TestRequirementSoftTermZeroAtTarget(t *testing.T) {
	d0 := dayUTC(2026, 1, 5)
	cfg := domain.Config{
		Start:           d0,
		End:             d0,
		WorkShifts:      []domain.WorkShiftDef{{Name: "Day", StaffedFlag: true}},
		GlobalMaxConsec: 10,
		Staff:           []domain.Staff{{Name: "Alice"}},
		Req: map[domain.ReqKey]int{
			{Day: d0, Shift: "Day"}: 1,
		},
	}
	_, obj := build(t, cfg)

	g := model.NewGrid(1, 1)
	g.Set(0, 0, "Day")

	// Only the requirement term and tie-breaker are live here; tie-breaker
	// contributes +0.01 for the one non-Vacant cell.
	assert.InDelta(t, 0.01, obj.Score(g), 1e-9)
}

func TestNGSoftPenalizesCoworking(t *testing.T) {
	d0 := dayUTC(2026, 1, 5)
	cfg := domain.Config{
		Start:           d0,
		End:             d0,
		WorkShifts:      []domain.WorkShiftDef{{Name: "Day", StaffedFlag: true}},
		GlobalMaxConsec: 10,
		Staff:           []domain.Staff{{Name: "Alice"}, {Name: "Bob"}},
		NGPairs: []domain.NGPair{
			{StaffA: "Alice", StaffB: "Bob", Kind: domain.NGSoft},
		},
	}
	_, obj := build(t, cfg)

	both := model.NewGrid(2, 1)
	both.Set(0, 0, "Day")
	both.Set(1, 0, "Day")

	apart := model.NewGrid(2, 1)
	apart.Set(0, 0, "Day")
	apart.Set(1, 0, domain.Vacant)

	assert.Less(t, obj.Score(both), obj.Score(apart))
}

func TestPreferenceTermRewardsHighPenalizesLow(t *testing.T) {
	d0 := dayUTC(2026, 1, 5)
	cfg := domain.Config{
		Start:           d0,
		End:             d0,
		WorkShifts:      []domain.WorkShiftDef{{Name: "Day", StaffedFlag: true}, {Name: "Night", StaffedFlag: true}},
		GlobalMaxConsec: 10,
		Staff: []domain.Staff{
			{Name: "Alice", Preference: map[domain.ShiftType]domain.Preference{
				"Day":   domain.PreferenceHigh,
				"Night": domain.PreferenceLow,
			}},
		},
	}
	_, obj := build(t, cfg)

	dayGrid := model.NewGrid(1, 1)
	dayGrid.Set(0, 0, "Day")

	nightGrid := model.NewGrid(1, 1)
	nightGrid.Set(0, 0, "Night")

	assert.Greater(t, obj.Score(dayGrid), obj.Score(nightGrid))
}

func TestVacancySteeringPrefersCandidateOverFlatWeight(t *testing.T) {
	d0 := dayUTC(2026, 1, 5)
	cfg := domain.Config{
		Start:           d0,
		End:             d0,
		WorkShifts:      []domain.WorkShiftDef{{Name: "Day", StaffedFlag: true}},
		HolidayTypes:    []domain.HolidayTypeDef{{Name: "Off", FixedQuota: false}},
		GlobalMaxConsec: 10,
		Staff:           []domain.Staff{{Name: "Alice"}},
		VacancyPolicy: domain.VacancyPolicy{
			Kind:       domain.AssignSpecific,
			Candidates: []domain.ShiftType{"Off"},
			Scope:      domain.VacancyScope{Kind: domain.ScopeAll},
		},
	}
	_, obj := build(t, cfg)

	candidate := model.NewGrid(1, 1)
	candidate.Set(0, 0, "Off")

	vacant := model.NewGrid(1, 1)
	vacant.Set(0, 0, domain.Vacant)

	assert.Greater(t, obj.Score(candidate), obj.Score(vacant))
}

func TestTieBreakerRewardsFewerVacantCells(t *testing.T) {
	d0 := dayUTC(2026, 1, 5)
	cfg := domain.Config{
		Start:           d0,
		End:             d0,
		WorkShifts:      []domain.WorkShiftDef{{Name: "Day", StaffedFlag: true}},
		GlobalMaxConsec: 10,
		Staff:           []domain.Staff{{Name: "Alice"}},
	}
	_, obj := build(t, cfg)

	filled := model.NewGrid(1, 1)
	filled.Set(0, 0, "Day")

	empty := model.NewGrid(1, 1)
	empty.Set(0, 0, domain.Vacant)

	var tb Term
	for _, term := range obj.Terms {
		if term.Family() == "tie_breaker" {
			tb = term
		}
	}
	require.NotNil(t, tb)
	assert.Greater(t, tb.Score(filled), tb.Score(empty))
}
