package recurrence

import (
	"slices"
	"time"
)

func baseRule(f Frequency) Rule {
	return Rule{
		Frequency: f,
		Interval:  1,
		End:       NeverEnds{},
	}
}

// FromPreset builds the canonical rule for p, anchored to anchor.
// PresetNone yields nil. PresetCustom yields the daily shape as a neutral
// starting point for free-form editing.
func FromPreset(p Preset, anchor time.Time) *Rule {
	var r Rule
	switch p {
	case PresetNone:
		return nil
	case PresetWeekly:
		r = baseRule(Weekly)
		r.Weekdays = []Weekday{WeekdayOf(anchor)}
	case PresetWeekdays:
		r = baseRule(Weekly)
		r.Weekdays = slices.Clone(workweek)
	case PresetMonthly:
		r = baseRule(Monthly)
		r.Monthly = DayOfMonth(anchor.Day())
	case PresetYearly:
		r = baseRule(Yearly)
		r.Monthly = DayOfMonth(anchor.Day())
		r.Month = anchor.Month()
	default:
		r = baseRule(Daily)
	}
	return &r
}

// DetectPreset maps a rule back to the preset that would have produced it,
// or PresetCustom. A rule edited by hand into exactly Monday to Friday is
// reported as PresetWeekdays.
func DetectPreset(r *Rule) Preset {
	if r == nil {
		return PresetNone
	}
	if r.Interval != 1 {
		return PresetCustom
	}
	never := r.EndMode() == EndNever

	switch r.Frequency {
	case Daily:
		if never {
			return PresetDaily
		}
	case Weekly:
		days := normalizeWeekdays(r.Weekdays)
		if slices.Equal(days, workweek) {
			return PresetWeekdays
		}
		if len(days) == 1 {
			return PresetWeekly
		}
	case Monthly:
		if _, ok := r.Monthly.(DayOfMonth); ok && never {
			return PresetMonthly
		}
	case Yearly:
		if _, ok := r.Monthly.(DayOfMonth); ok && r.Month != 0 && never {
			return PresetYearly
		}
	}
	return PresetCustom
}

// normalizeWeekdays drops unknown values, dedupes, and sorts Monday first.
func normalizeWeekdays(days []Weekday) []Weekday {
	var out []Weekday
	for _, d := range AllWeekdays {
		if slices.Contains(days, d) {
			out = append(out, d)
		}
	}
	return out
}
