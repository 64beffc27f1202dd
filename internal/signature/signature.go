// Package signature implements InputSignature (spec.md §4.7): a
// deterministic SHA-256 digest of a domain.Config, used by callers to
// detect whether a cached Schedule is still valid without re-solving.
//
// There is no canonical-JSON library anywhere in the example pack, and
// the serialization here has to enforce a specific field order and
// explicit map-key sorting the standard encoding/json package cannot
// guarantee on its own (Go map iteration order is randomized, and
// encoding/json only sorts string-keyed maps, not the composite keys
// domain.Config actually uses) — so this is one of the few places that
// is deliberately hand-rolled rather than wired to a third-party
// dependency; see DESIGN.md.
package signature

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/brunolopes/shiftcore/internal/domain"
)

const dateFormat = "2006-01-02"

// Compute canonicalizes cfg and returns its SHA-256 digest as a lowercase
// hex string. Two Configs that differ only in map/slice insertion order
// of semantically-irrelevant collections hash identically.
func Compute(cfg domain.Config) string {
	var b strings.Builder
	w := &canonWriter{b: &b}

	w.date("start", cfg.Start)
	w.date("end", cfg.End)

	w.line("workShifts")
	for _, ws := range cfg.WorkShifts {
		w.kv2("  ", string(ws.Name), ws.StaffedFlag)
	}

	w.line("holidayTypes")
	for _, h := range cfg.HolidayTypes {
		w.kv2("  ", string(h.Name), h.FixedQuota)
	}

	w.line("employmentTypes")
	for _, e := range sortedStrings(cfg.EmploymentTypes) {
		w.kv1("  ", e)
	}

	w.kv1("globalMaxConsec", fmt.Sprintf("%d", cfg.GlobalMaxConsec))

	w.line("forbiddenTransitions")
	type transitionPair struct{ prev, next string }
	pairs := make([]transitionPair, len(cfg.ForbiddenTransitions))
	for i, t := range cfg.ForbiddenTransitions {
		pairs[i] = transitionPair{string(t.Prev), string(t.Next)}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].prev != pairs[j].prev {
			return pairs[i].prev < pairs[j].prev
		}
		return pairs[i].next < pairs[j].next
	})
	for _, p := range pairs {
		w.kv2("  ", p.prev, p.next)
	}

	w.line("ngPairs")
	type ngEntry struct{ a, b, kind string }
	ngs := make([]ngEntry, len(cfg.NGPairs))
	for i, p := range cfg.NGPairs {
		ngs[i] = ngEntry{p.StaffA, p.StaffB, string(p.Kind)}
	}
	sort.Slice(ngs, func(i, j int) bool {
		if ngs[i].a != ngs[j].a {
			return ngs[i].a < ngs[j].a
		}
		if ngs[i].b != ngs[j].b {
			return ngs[i].b < ngs[j].b
		}
		return ngs[i].kind < ngs[j].kind
	})
	for _, n := range ngs {
		fmt.Fprintf(w.b, "  %s|%s|%s\n", n.a, n.b, n.kind)
	}

	w.line("staff")
	staff := make([]domain.Staff, len(cfg.Staff))
	copy(staff, cfg.Staff)
	sort.Slice(staff, func(i, j int) bool { return staff[i].Name < staff[j].Name })
	for _, s := range staff {
		writeStaff(w, s)
	}

	w.line("req")
	writeReqMap(w, cfg.Req)

	w.line("hopes")
	writeHopeMap(w, cfg.Hopes)

	w.line("weekdayRules")
	rules := make([]domain.WeekdayRule, len(cfg.WeekdayRules))
	copy(rules, cfg.WeekdayRules)
	sort.Slice(rules, func(i, j int) bool {
		return weekdayRuleKey(rules[i]) < weekdayRuleKey(rules[j])
	})
	for _, r := range rules {
		fmt.Fprintf(w.b, "  %s|%s|%s|%s\n", r.Staff, r.Weekday.String(), r.Token, r.Kind)
	}

	w.line("globalRules")
	greduced := make([]string, len(cfg.GlobalRules))
	for i, r := range cfg.GlobalRules {
		scope := ""
		if r.Scope.Weekday != nil {
			scope = "weekday:" + r.Scope.Weekday.String()
		} else if r.Scope.Date != nil {
			scope = "date:" + r.Scope.Date.Format(dateFormat)
		}
		greduced[i] = fmt.Sprintf("%s|%s|%s", scope, r.HolidayType, r.EmploymentTypeFilter)
	}
	sort.Strings(greduced)
	for _, g := range greduced {
		fmt.Fprintf(w.b, "  %s\n", g)
	}

	w.line("publicHolidayRule")
	phr := cfg.PublicHolidayRule
	emp := append([]string(nil), phr.EmploymentTypes...)
	sort.Strings(emp)
	fmt.Fprintf(w.b, "  enabled=%t comp=%s emp=%s\n", phr.Enabled, phr.CompHoliday, strings.Join(emp, ","))

	w.line("holidayOrderRules")
	horeduced := make([]string, len(cfg.HolidayOrderRules))
	for i, r := range cfg.HolidayOrderRules {
		horeduced[i] = fmt.Sprintf("%s|%s", r.Pre, r.Post)
	}
	sort.Strings(horeduced)
	for _, h := range horeduced {
		fmt.Fprintf(w.b, "  %s\n", h)
	}

	w.line("periodCounts")
	pckeys := make([]domain.PeriodCountKey, 0, len(cfg.PeriodCounts))
	for k := range cfg.PeriodCounts {
		pckeys = append(pckeys, k)
	}
	sort.Slice(pckeys, func(i, j int) bool {
		if pckeys[i].Staff != pckeys[j].Staff {
			return pckeys[i].Staff < pckeys[j].Staff
		}
		return pckeys[i].Shift < pckeys[j].Shift
	})
	for _, k := range pckeys {
		fmt.Fprintf(w.b, "  %s|%s=%d\n", k.Staff, k.Shift, cfg.PeriodCounts[k])
	}

	w.line("vacancyPolicy")
	vp := cfg.VacancyPolicy
	fmt.Fprintf(w.b, "  kind=%s scopeKind=%s scopeValue=%s candidates=%s\n",
		vp.Kind, vp.Scope.Kind, vp.Scope.Value, joinShiftTypes(vp.Candidates))

	w.kv1("solverTimeoutSecs", fmt.Sprintf("%d", cfg.SolverTimeoutSecs))

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func writeStaff(w *canonWriter, s domain.Staff) {
	fmt.Fprintf(w.b, "  name=%s emp=%s maxConsec=%d prevConsec=%d prevShift=%s\n",
		s.Name, s.EmploymentType, s.MaxConsecWork, s.PrevConsecWork, s.PrevShiftType)

	for _, shift := range sortedShiftTypeBoolKeys(s.AbleShifts) {
		fmt.Fprintf(w.b, "    able %s=%t\n", shift, s.AbleShifts[shift])
	}
	for _, shift := range sortedShiftTypePrefKeys(s.Preference) {
		fmt.Fprintf(w.b, "    pref %s=%s\n", shift, s.Preference[shift])
	}
	for _, shift := range sortedShiftTypeQuotaKeys(s.Quotas) {
		q := s.Quotas[shift]
		fmt.Fprintf(w.b, "    quota %s period=%s week=%d month=%d\n", shift, q.Period, q.WeekCount, q.MonthCount)
	}
}

func writeReqMap(w *canonWriter, req map[domain.ReqKey]int) {
	keys := make([]domain.ReqKey, 0, len(req))
	for k := range req {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if !keys[i].Day.Equal(keys[j].Day) {
			return keys[i].Day.Before(keys[j].Day)
		}
		return keys[i].Shift < keys[j].Shift
	})
	for _, k := range keys {
		fmt.Fprintf(w.b, "  %s|%s=%d\n", k.Day.Format(dateFormat), k.Shift, req[k])
	}
}

func writeHopeMap(w *canonWriter, hopes map[domain.HopeKey]domain.HopeToken) {
	keys := make([]domain.HopeKey, 0, len(hopes))
	for k := range hopes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Staff != keys[j].Staff {
			return keys[i].Staff < keys[j].Staff
		}
		return keys[i].Day.Before(keys[j].Day)
	})
	for _, k := range keys {
		fmt.Fprintf(w.b, "  %s|%s=%s\n", k.Staff, k.Day.Format(dateFormat), hopes[k])
	}
}

func weekdayRuleKey(r domain.WeekdayRule) string {
	return fmt.Sprintf("%s|%s|%s|%s", r.Staff, r.Weekday.String(), r.Token, r.Kind)
}

func joinShiftTypes(ts []domain.ShiftType) string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = string(t)
	}
	return strings.Join(out, ",")
}

func sortedStrings(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func sortedShiftTypeBoolKeys(m map[domain.ShiftType]bool) []domain.ShiftType {
	out := make([]domain.ShiftType, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedShiftTypePrefKeys(m map[domain.ShiftType]domain.Preference) []domain.ShiftType {
	out := make([]domain.ShiftType, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedShiftTypeQuotaKeys(m map[domain.ShiftType]domain.HolidayQuota) []domain.ShiftType {
	out := make([]domain.ShiftType, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// canonWriter is a thin helper around strings.Builder giving the field
// writers above a consistent "label\n" / "  key=value\n" shape.
type canonWriter struct {
	b *strings.Builder
}

func (w *canonWriter) line(label string) {
	fmt.Fprintf(w.b, "%s\n", label)
}

func (w *canonWriter) date(label string, t time.Time) {
	fmt.Fprintf(w.b, "%s=%s\n", label, t.Format(dateFormat))
}

func (w *canonWriter) kv1(label, value string) {
	fmt.Fprintf(w.b, "%s=%s\n", label, value)
}

func (w *canonWriter) kv2(prefix, a string, b bool) {
	fmt.Fprintf(w.b, "%s%s=%t\n", prefix, a, b)
}
