package normalize

import (
	"testing"
	"time"

	"github.com/brunolopes/shiftcore/internal/coreerr"
	"github.com/brunolopes/shiftcore/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func baseConfig() domain.Config {
	return domain.Config{
		Start:           d(2026, 1, 5),
		End:             d(2026, 1, 11),
		WorkShifts:      []domain.WorkShiftDef{{Name: "Day", StaffedFlag: true}, {Name: "Night", StaffedFlag: true}, {Name: "Training", StaffedFlag: false}},
		HolidayTypes:    []domain.HolidayTypeDef{{Name: "Weekly", FixedQuota: true}},
		GlobalMaxConsec: 5,
		Staff:           []domain.Staff{{Name: "Alice"}},
	}
}

func TestNormalizeRejectsEmptyStaff(t *testing.T) {
	cfg := baseConfig()
	cfg.Staff = nil
	_, _, err := Normalize(cfg)
	require.Error(t, err)
	var ce *coreerr.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, coreerr.KindInvalidRange, ce.Kind)
}

func TestNormalizeRejectsInvertedRange(t *testing.T) {
	cfg := baseConfig()
	cfg.Start, cfg.End = cfg.End, cfg.Start
	_, _, err := Normalize(cfg)
	require.Error(t, err)
}

func TestNormalizeFillsStaffDefaults(t *testing.T) {
	cfg := baseConfig()
	nc, _, err := Normalize(cfg)
	require.NoError(t, err)

	alice := nc.Staff[0]
	assert.Equal(t, 5, alice.MaxConsecWork, "0 maxConsecWork substitutes globalMaxConsec")
	assert.True(t, alice.Able("Day"))
	assert.True(t, alice.Able("Night"))
	assert.Equal(t, domain.PreferenceMed, alice.PreferenceFor("Day"))
}

func TestNormalizeKeepsExplicitOverrides(t *testing.T) {
	cfg := baseConfig()
	cfg.Staff[0].MaxConsecWork = 3
	cfg.Staff[0].AbleShifts = map[domain.ShiftType]bool{"Day": false}
	cfg.Staff[0].Preference = map[domain.ShiftType]domain.Preference{"Day": domain.PreferenceHigh}

	nc, _, err := Normalize(cfg)
	require.NoError(t, err)

	alice := nc.Staff[0]
	assert.Equal(t, 3, alice.MaxConsecWork)
	assert.False(t, alice.Able("Day"))
	assert.True(t, alice.Able("Night"), "absent able[w] still defaults true")
	assert.Equal(t, domain.PreferenceHigh, alice.PreferenceFor("Day"))
}

func TestNormalizeDropsUnknownPrevShiftType(t *testing.T) {
	cfg := baseConfig()
	cfg.Staff[0].PrevShiftType = "Bogus"
	nc, _, err := Normalize(cfg)
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftType(""), nc.Staff[0].PrevShiftType)
}

func TestNormalizeDropsUnknownHopeTokenWithWarning(t *testing.T) {
	cfg := baseConfig()
	cfg.Hopes = map[domain.HopeKey]domain.HopeToken{
		{Staff: "Alice", Day: d(2026, 1, 5)}: "Nonexistent",
	}
	nc, warnings, err := Normalize(cfg)
	require.NoError(t, err)
	assert.Empty(t, nc.Hopes)
	require.Len(t, warnings, 1)
	assert.Equal(t, domain.WarningUnknownToken, warnings[0].Kind)
}

func TestNormalizeKeepsGenericHopeTokens(t *testing.T) {
	cfg := baseConfig()
	cfg.Hopes = map[domain.HopeKey]domain.HopeToken{
		{Staff: "Alice", Day: d(2026, 1, 5)}: domain.AnyWork,
	}
	nc, warnings, err := Normalize(cfg)
	require.NoError(t, err)
	assert.Len(t, nc.Hopes, 1)
	assert.Empty(t, warnings)
}

func TestNormalizeComputesStaffedWorkShifts(t *testing.T) {
	nc, _, err := Normalize(baseConfig())
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.ShiftType{"Day", "Night"}, nc.StaffedWorkShifts)
}

func TestNormalizeExpandsAllWeekdayRules(t *testing.T) {
	cfg := baseConfig()
	cfg.WeekdayRules = []domain.WeekdayRule{
		{Staff: "Alice", Weekday: domain.AllWeekdays, Token: "Day", Kind: domain.RuleForbid},
	}
	nc, _, err := Normalize(cfg)
	require.NoError(t, err)
	assert.Len(t, nc.ExpandedWeekdayRules, 7)
}

func TestNormalizeDefaultsSolverTimeout(t *testing.T) {
	nc, _, err := Normalize(baseConfig())
	require.NoError(t, err)
	assert.Equal(t, 300, nc.SolverTimeoutSecs)
}

func TestNormalizeMigratesLegacyVacancyPolicy(t *testing.T) {
	cfg := baseConfig()
	cfg.LegacyVacancyPolicy = &domain.LegacyVacancyConfig{
		PolicyLabel:     "extra_shift",
		FillerShiftType: "Day",
		ExtraCandidates: []domain.ShiftType{"Night"},
	}
	nc, _, err := Normalize(cfg)
	require.NoError(t, err)
	assert.Equal(t, domain.AssignSpecific, nc.VacancyPolicy.Kind)
	assert.Equal(t, []domain.ShiftType{"Day", "Night"}, nc.VacancyPolicy.Candidates)
	assert.Equal(t, domain.VacancyScope{Kind: domain.ScopeAll}, nc.VacancyPolicy.Scope)
}

func TestNormalizeIgnoresLegacyVacancyPolicyWhenCanonicalIsSet(t *testing.T) {
	cfg := baseConfig()
	cfg.VacancyPolicy = domain.VacancyPolicy{Kind: domain.KeepBlank}
	cfg.LegacyVacancyPolicy = &domain.LegacyVacancyConfig{PolicyLabel: "assign_specific", FillerShiftType: "Day"}
	nc, _, err := Normalize(cfg)
	require.NoError(t, err)
	assert.Equal(t, domain.KeepBlank, nc.VacancyPolicy.Kind)
}

func TestMigrateVacancyPolicyCollapsesSupersededLabels(t *testing.T) {
	for _, label := range []string{"assign_specific", "temp_assign", "extra_shift", "assist"} {
		vp := MigrateVacancyPolicy(domain.LegacyVacancyConfig{PolicyLabel: label, FillerShiftType: "Day"})
		assert.Equal(t, domain.AssignSpecific, vp.Kind, "label %q", label)
		assert.Equal(t, []domain.ShiftType{"Day"}, vp.Candidates, "label %q", label)
	}
}

func TestMigrateVacancyPolicyDedupesCandidatesPreservingFirstOccurrence(t *testing.T) {
	vp := MigrateVacancyPolicy(domain.LegacyVacancyConfig{
		PolicyLabel:     "assign_specific",
		FillerShiftType: "Day",
		ExtraCandidates: []domain.ShiftType{"Day", "Night"},
		AssistShift:     "Night",
	})
	assert.Equal(t, []domain.ShiftType{"Day", "Night"}, vp.Candidates)
}

func TestMigrateVacancyPolicyKeepBlankLabelDropsCandidates(t *testing.T) {
	vp := MigrateVacancyPolicy(domain.LegacyVacancyConfig{PolicyLabel: "keep_blank", FillerShiftType: "Day"})
	assert.Equal(t, domain.KeepBlank, vp.Kind)
	assert.Empty(t, vp.Candidates)
}
