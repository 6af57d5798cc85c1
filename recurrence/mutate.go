package recurrence

import (
	"slices"
	"time"

	"github.com/samber/mo"
)

// MustRule returns a copy of *r for editing. It panics with ErrNilRule when r
// is nil: a rule that does not repeat has to go through FromPreset before
// any field can be changed.
func MustRule(r *Rule) Rule {
	if r == nil {
		panic(ErrNilRule)
	}
	return r.Clone()
}

// SetFrequency switches the rule to f and resets the interval to 1. Fields
// that do not apply to f are cleared; fields that f requires are filled from
// anchor.
func SetFrequency(r Rule, f Frequency, anchor time.Time) Rule {
	next := r.Clone()
	if !f.Valid() {
		return next
	}
	next.Frequency = f
	next.Interval = 1

	if f == Weekly {
		if len(next.Weekdays) == 0 {
			next.Weekdays = []Weekday{WeekdayOf(anchor)}
		}
	} else {
		next.Weekdays = nil
	}

	switch f {
	case Monthly:
		next.Month = 0
		return EnsureMonthlyDefaults(next, anchor)
	case Yearly:
		return EnsureYearlyDefaults(next, anchor)
	default:
		next.Monthly = nil
		next.Month = 0
	}
	return next
}

// SetInterval sets "every n units". n is rounded and clamped to
// [MinInterval, MaxInterval]; NaN becomes 1.
func SetInterval(r Rule, n float64) Rule {
	next := r.Clone()
	next.Interval = clampRound(n, MinInterval, MaxInterval, 1)
	return next
}

// SetWeekdays replaces the weekday set of a weekly rule. The result is
// deduplicated and in Monday-first order. A change that would leave no
// weekdays is ignored, as is any change to a rule that is not weekly.
func SetWeekdays(r Rule, days []Weekday) Rule {
	next := r.Clone()
	normalized := normalizeWeekdays(days)
	if r.Frequency != Weekly || len(normalized) == 0 {
		return next
	}
	next.Weekdays = normalized
	return next
}

// ToggleWeekday adds day to the set, or removes it unless it is the last one.
func ToggleWeekday(r Rule, day Weekday) Rule {
	if !day.Valid() {
		return r.Clone()
	}
	if slices.Contains(r.Weekdays, day) {
		return SetWeekdays(r, slices.DeleteFunc(slices.Clone(r.Weekdays), func(d Weekday) bool {
			return d == day
		}))
	}
	return SetWeekdays(r, append(slices.Clone(r.Weekdays), day))
}

// SetMonthlyDay switches to day-of-month mode on day, clamped to 1..31.
// Daily and weekly rules are returned unchanged.
func SetMonthlyDay(r Rule, day float64) Rule {
	next := r.Clone()
	if !r.hasMonthlyDetail() {
		return next
	}
	next.Monthly = DayOfMonth(clampRound(day, 1, MaxDayOfMonth, 1))
	return next
}

// SetMonthlyWeekday switches to nth-weekday mode. Unknown values, and daily
// or weekly rules, leave the rule unchanged.
func SetMonthlyWeekday(r Rule, position WeekPosition, weekday Weekday) Rule {
	next := r.Clone()
	detail := NthWeekday{Position: position, Weekday: weekday}
	if !r.hasMonthlyDetail() || !detail.valid() {
		return next
	}
	next.Monthly = detail
	return next
}

// SetYearlyMonth sets the month of a yearly rule, clamped to 1..12. Other
// frequencies are returned unchanged.
func SetYearlyMonth(r Rule, month float64) Rule {
	next := r.Clone()
	if r.Frequency != Yearly {
		return next
	}
	next.Month = time.Month(clampRound(month, 1, 12, 1))
	return next
}

// EnsureMonthlyDefaults makes sure a monthly detail is present, taking any
// missing value from anchor.
func EnsureMonthlyDefaults(r Rule, anchor time.Time) Rule {
	next := r.Clone()
	switch d := next.Monthly.(type) {
	case DayOfMonth:
		next.Monthly = DayOfMonth(clampInt(int(d), 1, MaxDayOfMonth))
	case NthWeekday:
		if !d.Position.Valid() {
			d.Position = WeekPositionOf(anchor)
		}
		if !d.Weekday.Valid() {
			d.Weekday = WeekdayOf(anchor)
		}
		next.Monthly = d
	default:
		next.Monthly = DayOfMonth(anchor.Day())
	}
	return next
}

// EnsureYearlyDefaults is EnsureMonthlyDefaults plus a month taken from
// anchor when unset.
func EnsureYearlyDefaults(r Rule, anchor time.Time) Rule {
	next := EnsureMonthlyDefaults(r, anchor)
	if next.Month < time.January || next.Month > time.December {
		next.Month = anchor.Month()
	}
	return next
}

// EndOptions carries the optional values for SetEnds.
type EndOptions struct {
	Date        mo.Option[time.Time]
	Occurrences mo.Option[int]
}

// SetEnds changes how the rule terminates. Switching to EndOnDate without a
// date keeps the current end date or falls back to anchor's date; switching
// to EndAfterOccurrences without a count keeps the current count or uses 1.
// Counts are clamped to [MinOccurrences, MaxOccurrences].
func SetEnds(r Rule, mode EndMode, opts EndOptions, anchor time.Time) Rule {
	next := r.Clone()
	switch mode {
	case EndNever:
		next.End = NeverEnds{}
	case EndOnDate:
		date := anchor
		if current, ok := r.End.(EndsOn); ok {
			date = current.Date
		}
		next.End = EndsOn{Date: midnight(opts.Date.OrElse(date))}
	case EndAfterOccurrences:
		count := defaultOccurrence
		if current, ok := r.End.(EndsAfter); ok {
			count = current.Occurrences
		}
		count = opts.Occurrences.OrElse(count)
		next.End = EndsAfter{Occurrences: clampInt(count, MinOccurrences, MaxOccurrences)}
	}
	return next
}
