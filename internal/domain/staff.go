package domain

// HolidayQuota is a per-staff, per-holiday-type target defined only for
// holidays whose FixedQuota flag is set (see HolidayTypeDef).
type HolidayQuota struct {
	Period     Period
	WeekCount  int
	MonthCount int
}

// Staff is one scheduled person.
type Staff struct {
	Name string

	EmploymentType string
	AbleShifts     map[ShiftType]bool
	Preference     map[ShiftType]Preference

	// MaxConsecWork is the staff's personal consecutive-work-day cap.
	// Zero means "use Config.GlobalMaxConsec".
	MaxConsecWork int

	// PrevConsecWork is how many consecutive work days the staff already
	// has going into day 0 of the horizon.
	PrevConsecWork int

	// PrevShiftType is the shift assigned the day before the horizon
	// starts, or "" if unknown/not applicable.
	PrevShiftType ShiftType

	// Quotas is keyed by holiday shift type; only entries for holidays
	// with FixedQuota=true are meaningful.
	Quotas map[ShiftType]HolidayQuota
}

// Able reports whether the staff may be assigned the given work shift.
// Capability never constrains holiday assignment (invariant 4, §3).
func (s Staff) Able(w ShiftType) bool {
	return s.AbleShifts[w]
}

// PreferenceFor returns the staff's preference for a work shift,
// defaulting to Med (ConfigNormalizer fills this in, but callers that
// build a Staff by hand get a safe default too).
func (s Staff) PreferenceFor(w ShiftType) Preference {
	if p, ok := s.Preference[w]; ok {
		return p
	}
	return PreferenceMed
}
