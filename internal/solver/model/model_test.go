package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brunolopes/shiftcore/internal/calendar"
	"github.com/brunolopes/shiftcore/internal/domain"
	"github.com/brunolopes/shiftcore/internal/normalize"
)

func dayUTC(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func buildModel(t *testing.T, cfg domain.Config) (*Model, *normalize.NormalizedConfig, *calendar.Calendar) {
	t.Helper()
	nc, _, err := normalize.Normalize(cfg)
	require.NoError(t, err)
	cal, err := calendar.Build(nc.Start, nc.End, nc.IsPublicHoliday)
	require.NoError(t, err)
	return Build(nc, cal), nc, cal
}

func TestCapabilityConstraintFlagsNonAbleAssignment(t *testing.T) {
	cfg := domain.Config{
		Start:           dayUTC(2026, 1, 5),
		End:             dayUTC(2026, 1, 5),
		WorkShifts:      []domain.WorkShiftDef{{Name: "Day", StaffedFlag: true}},
		GlobalMaxConsec: 10,
		Staff: []domain.Staff{
			{Name: "Alice", AbleShifts: map[domain.ShiftType]bool{"Day": false}},
		},
		Req: map[domain.ReqKey]int{
			{Day: dayUTC(2026, 1, 5), Shift: "Day"}: 1,
		},
	}
	m, _, _ := buildModel(t, cfg)

	g := NewGrid(1, 1)
	g.Set(0, 0, "Day")
	violations := m.CheckAll(g)
	require.Len(t, violations, 1)
	assert.Equal(t, "capability", violations[0].Family)
}

func TestHopeConstraintRequiresConcreteShift(t *testing.T) {
	d0 := dayUTC(2026, 1, 5)
	cfg := domain.Config{
		Start:           d0,
		End:             d0,
		WorkShifts:      []domain.WorkShiftDef{{Name: "Day", StaffedFlag: true}},
		GlobalMaxConsec: 10,
		Staff:           []domain.Staff{{Name: "Alice"}},
		Hopes: map[domain.HopeKey]domain.HopeToken{
			{Staff: "Alice", Day: d0}: "Day",
		},
		Req: map[domain.ReqKey]int{
			{Day: d0, Shift: "Day"}: 1,
		},
	}
	m, _, _ := buildModel(t, cfg)

	unmet := NewGrid(1, 1)
	unmet.Set(0, 0, domain.Vacant)
	assert.NotEmpty(t, m.CheckAll(unmet))

	met := NewGrid(1, 1)
	met.Set(0, 0, "Day")
	assert.Empty(t, m.CheckAll(met))
}

func TestForbiddenTransitionAcrossDays(t *testing.T) {
	cfg := domain.Config{
		Start:           dayUTC(2026, 1, 5),
		End:             dayUTC(2026, 1, 6),
		WorkShifts:      []domain.WorkShiftDef{{Name: "Day", StaffedFlag: true}, {Name: "Night", StaffedFlag: true}},
		GlobalMaxConsec: 10,
		Staff:           []domain.Staff{{Name: "Alice"}},
		ForbiddenTransitions: []domain.ForbiddenTransition{
			{Prev: "Night", Next: "Day"},
		},
	}
	day0, day1 := cfg.Start, cfg.Start.AddDate(0, 0, 1)
	cfg.Req = map[domain.ReqKey]int{}
	for _, day := range []time.Time{day0, day1} {
		for _, shift := range []domain.ShiftType{"Day", "Night"} {
			cfg.Req[domain.ReqKey{Day: day, Shift: shift}] = 1
		}
	}
	m, _, _ := buildModel(t, cfg)

	bad := NewGrid(1, 2)
	bad.Set(0, 0, "Night")
	bad.Set(0, 1, "Day")
	violations := m.CheckAll(bad)
	require.Len(t, violations, 1)
	assert.Equal(t, "forbidden_transition", violations[0].Family)

	good := NewGrid(1, 2)
	good.Set(0, 0, "Day")
	good.Set(0, 1, "Night")
	assert.Empty(t, m.CheckAll(good))
}

func TestForbiddenTransitionPreHorizon(t *testing.T) {
	cfg := domain.Config{
		Start:           dayUTC(2026, 1, 5),
		End:             dayUTC(2026, 1, 5),
		WorkShifts:      []domain.WorkShiftDef{{Name: "Day", StaffedFlag: true}, {Name: "Night", StaffedFlag: true}},
		GlobalMaxConsec: 10,
		Staff:           []domain.Staff{{Name: "Alice", PrevShiftType: "Night"}},
		ForbiddenTransitions: []domain.ForbiddenTransition{
			{Prev: "Night", Next: "Day"},
		},
		Req: map[domain.ReqKey]int{
			{Day: dayUTC(2026, 1, 5), Shift: "Day"}: 1,
		},
	}
	m, _, _ := buildModel(t, cfg)

	bad := NewGrid(1, 1)
	bad.Set(0, 0, "Day")
	assert.NotEmpty(t, m.CheckAll(bad))
}

func TestPeriodCountDominatesUpwardByHopes(t *testing.T) {
	d0 := dayUTC(2026, 1, 5)
	cfg := domain.Config{
		Start:           d0,
		End:             dayUTC(2026, 1, 9),
		WorkShifts:      []domain.WorkShiftDef{{Name: "Day", StaffedFlag: true}},
		GlobalMaxConsec: 10,
		Staff:           []domain.Staff{{Name: "Alice"}},
		PeriodCounts: map[domain.PeriodCountKey]int{
			{Staff: "Alice", Shift: "Day"}: 3,
		},
		Hopes: map[domain.HopeKey]domain.HopeToken{},
		Req:   map[domain.ReqKey]int{},
	}
	for i := 0; i < 5; i++ {
		cfg.Hopes[domain.HopeKey{Staff: "Alice", Day: d0.AddDate(0, 0, i)}] = "Day"
		cfg.Req[domain.ReqKey{Day: d0.AddDate(0, 0, i), Shift: "Day"}] = 1
	}
	m, _, _ := buildModel(t, cfg)

	g := NewGrid(1, 5)
	for i := 0; i < 5; i++ {
		g.Set(0, i, "Day")
	}
	assert.Empty(t, m.CheckAll(g), "5 concrete hopes dominate the declared count of 3")

	short := NewGrid(1, 5)
	for i := 0; i < 3; i++ {
		short.Set(0, i, "Day")
	}
	assert.NotEmpty(t, m.CheckAll(short))
}
