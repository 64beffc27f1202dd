package diagnose

import (
	"context"
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

func TestDiagnoseSurfacesTheUnavoidableHopeCapabilityConflict(t *testing.T) {
	d0 := dayUTC(2026, 1, 5)
	cfg := domain.Config{
		Start:           d0,
		End:             d0,
		WorkShifts:      []domain.WorkShiftDef{{Name: "Day", StaffedFlag: true}},
		HolidayTypes:    []domain.HolidayTypeDef{{Name: "Off", FixedQuota: false}},
		GlobalMaxConsec: 10,
		Staff: []domain.Staff{
			{Name: "Alice", AbleShifts: map[domain.ShiftType]bool{"Day": false}},
		},
		Hopes: map[domain.HopeKey]domain.HopeToken{
			{Staff: "Alice", Day: d0}: "Day",
		},
	}
	nc, _, err := normalize.Normalize(cfg)
	require.NoError(t, err)
	cal, err := calendar.Build(nc.Start, nc.End, nc.IsPublicHoliday)
	require.NoError(t, err)

	causes := Diagnose(context.Background(), nc, cal)

	require.NotEmpty(t, causes)
	found := false
	for _, c := range causes {
		if c.Family == "hope" || c.Family == "capability" {
			found = true
		}
	}
	assert.True(t, found, "expected the hope/capability conflict to surface as a cause")
}

func TestDiagnoseReturnsNoCausesOnFeasibleInstance(t *testing.T) {
	d0 := dayUTC(2026, 1, 5)
	cfg := domain.Config{
		Start:           d0,
		End:             d0,
		WorkShifts:      []domain.WorkShiftDef{{Name: "Day", StaffedFlag: true}},
		HolidayTypes:    []domain.HolidayTypeDef{{Name: "Off", FixedQuota: false}},
		GlobalMaxConsec: 10,
		Staff:           []domain.Staff{{Name: "Alice"}},
	}
	nc, _, err := normalize.Normalize(cfg)
	require.NoError(t, err)
	cal, err := calendar.Build(nc.Start, nc.End, nc.IsPublicHoliday)
	require.NoError(t, err)

	causes := Diagnose(context.Background(), nc, cal)

	assert.Empty(t, causes)
}
