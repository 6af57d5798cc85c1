package recurrence

import (
	"math"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Layouts tried in the caller's location when the reference carries no zone.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	dateLayout,
}

// ResolveAnchor turns a task's start or due date into the anchor used to
// seed presets and defaults. Zoned timestamps are converted into now's
// location; date-only and zone-less values are read as local. An empty or
// unparsable reference resolves to now.
func ResolveAnchor(reference string, now time.Time) time.Time {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return now
	}
	loc := now.Location()
	if t, err := time.Parse(time.RFC3339Nano, reference); err == nil {
		return t.In(loc)
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, reference, loc); err == nil {
			return t
		}
	}
	return now
}

// ParseLocalDate reads the YYYY-MM-DD prefix of s as a calendar date in loc,
// so "2024-03-20T00:00:00Z" stays on the 20th regardless of offset.
func ParseLocalDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) < len(dateLayout) {
		return time.Time{}, invalidf("date %q is shorter than YYYY-MM-DD", s)
	}
	t, err := time.ParseInLocation(dateLayout, s[:len(dateLayout)], loc)
	if err != nil {
		return time.Time{}, &Error{Type: ErrInvalidInput, Message: "malformed date", Err: err}
	}
	return t, nil
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// WeekdayOf returns the weekday of t's local calendar date.
func WeekdayOf(t time.Time) Weekday {
	return weekdayBySunday[midnight(t).Weekday()]
}

// WeekPositionOf reports which occurrence of its weekday t is within its
// month. A day with no same-weekday successor in the month is always Last,
// so the 29th of a 31-day month is Last even though it is also the fifth.
func WeekPositionOf(t time.Time) WeekPosition {
	day := t.Day()
	if day+7 > DaysInMonth(t.Year(), t.Month()) {
		return Last
	}
	switch (day + 6) / 7 {
	case 1:
		return First
	case 2:
		return Second
	case 3:
		return Third
	default:
		return Fourth
	}
}

// clampRound rounds v half-up and clamps it into [lo, hi]. NaN yields def.
func clampRound(v float64, lo, hi, def int) int {
	if math.IsNaN(v) {
		return def
	}
	v = math.Floor(v + 0.5)
	if v < float64(lo) {
		return lo
	}
	if v > float64(hi) {
		return hi
	}
	return int(v)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
