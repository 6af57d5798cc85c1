package recurrence

import (
	"time"
)

// Frequency is the calendar unit a rule repeats in.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// Valid reports whether f is one of the known frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// Weekday identifies a day of the week on the wire ("monday" ... "sunday").
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// AllWeekdays lists the weekdays in display order, Monday first.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// workweek is the fixed Monday to Friday set used by the weekdays preset.
var workweek = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

// weekdayBySunday is indexed by time.Weekday (0 = Sunday).
var weekdayBySunday = [7]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

var weekdayLabels = map[Weekday]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

// Valid reports whether d is one of the seven weekday identifiers.
func (d Weekday) Valid() bool {
	return d.order() >= 0
}

// order returns the position of d in AllWeekdays, or -1.
func (d Weekday) order() int {
	for i, w := range AllWeekdays {
		if w == d {
			return i
		}
	}
	return -1
}

// Label returns the English display name.
func (d Weekday) Label() string {
	return weekdayLabels[d]
}

// WeekPosition is the ordinal occurrence of a weekday within a month.
type WeekPosition string

const (
	First  WeekPosition = "first"
	Second WeekPosition = "second"
	Third  WeekPosition = "third"
	Fourth WeekPosition = "fourth"
	Last   WeekPosition = "last"
)

// Positions lists week positions in display order.
var Positions = []WeekPosition{First, Second, Third, Fourth, Last}

// Valid reports whether p is a known position.
func (p WeekPosition) Valid() bool {
	return p.ordinal() != 0
}

// ordinal maps first..fourth to 1..4 and last to -1; unknown values give 0.
func (p WeekPosition) ordinal() int {
	switch p {
	case First:
		return 1
	case Second:
		return 2
	case Third:
		return 3
	case Fourth:
		return 4
	case Last:
		return -1
	}
	return 0
}

func positionFromOrdinal(n int) (WeekPosition, bool) {
	switch n {
	case 1:
		return First, true
	case 2:
		return Second, true
	case 3:
		return Third, true
	case 4:
		return Fourth, true
	case -1:
		return Last, true
	}
	return "", false
}

// MonthlyMode selects how a monthly or yearly rule picks its day.
type MonthlyMode string

const (
	ModeDayOfMonth MonthlyMode = "day_of_month"
	ModeWeekday    MonthlyMode = "weekday"
)

// EndMode selects how a rule terminates.
type EndMode string

const (
	EndNever            EndMode = "never"
	EndOnDate           EndMode = "on_date"
	EndAfterOccurrences EndMode = "after_occurrences"
)

// Valid reports whether m is a known end mode.
func (m EndMode) Valid() bool {
	switch m {
	case EndNever, EndOnDate, EndAfterOccurrences:
		return true
	}
	return false
}

// Strategy tells whether the next occurrence is computed from the schedule
// (fixed) or from the completion of the previous one (rolling).
type Strategy string

const (
	StrategyFixed   Strategy = "fixed"
	StrategyRolling Strategy = "rolling"
)

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	return s == StrategyFixed || s == StrategyRolling
}

// Preset is the user-facing label for a canonical rule shape.
type Preset string

const (
	PresetNone     Preset = "none"
	PresetDaily    Preset = "daily"
	PresetWeekly   Preset = "weekly"
	PresetWeekdays Preset = "weekdays"
	PresetMonthly  Preset = "monthly"
	PresetYearly   Preset = "yearly"
	PresetCustom   Preset = "custom"
)

// Presets lists every preset in menu order.
var Presets = []Preset{PresetNone, PresetDaily, PresetWeekly, PresetWeekdays, PresetMonthly, PresetYearly, PresetCustom}

// Valid reports whether p is a known preset.
func (p Preset) Valid() bool {
	for _, known := range Presets {
		if p == known {
			return true
		}
	}
	return false
}

// Bounds applied by the mutators and decoders.
const (
	MinInterval       = 1
	MaxInterval       = 365
	MaxDayOfMonth     = 31
	MinOccurrences    = 1
	MaxOccurrences    = 1000
	defaultOccurrence = 1
)

// MonthlyDetail is either a DayOfMonth or an NthWeekday.
type MonthlyDetail interface {
	Mode() MonthlyMode
	monthlyDetail()
}

// DayOfMonth repeats on a fixed day of the month (1-31).
type DayOfMonth int

func (DayOfMonth) Mode() MonthlyMode { return ModeDayOfMonth }
func (DayOfMonth) monthlyDetail()    {}

// NthWeekday repeats on e.g. the last Friday of the month.
type NthWeekday struct {
	Position WeekPosition
	Weekday  Weekday
}

func (NthWeekday) Mode() MonthlyMode { return ModeWeekday }
func (NthWeekday) monthlyDetail()    {}

func (n NthWeekday) valid() bool {
	return n.Position.Valid() && n.Weekday.Valid()
}

// EndCondition is one of NeverEnds, EndsOn or EndsAfter.
type EndCondition interface {
	Mode() EndMode
	endCondition()
}

// NeverEnds repeats indefinitely.
type NeverEnds struct{}

func (NeverEnds) Mode() EndMode { return EndNever }
func (NeverEnds) endCondition() {}

// EndsOn stops after the given local date (inclusive).
type EndsOn struct {
	Date time.Time
}

func (EndsOn) Mode() EndMode { return EndOnDate }
func (EndsOn) endCondition() {}

// EndsAfter stops after a number of occurrences.
type EndsAfter struct {
	Occurrences int
}

func (EndsAfter) Mode() EndMode { return EndAfterOccurrences }
func (EndsAfter) endCondition() {}

// Rule describes how a task repeats. A nil *Rule means the task does not
// repeat.
//
// Weekdays is only populated for weekly rules, Monthly only for monthly and
// yearly rules, and Month only for yearly rules. A nil End reads as NeverEnds.
type Rule struct {
	Frequency Frequency
	Interval  int
	Weekdays  []Weekday
	Monthly   MonthlyDetail
	Month     time.Month
	End       EndCondition
}

// Clone returns a deep copy of r.
func (r Rule) Clone() Rule {
	r.Weekdays = append([]Weekday(nil), r.Weekdays...)
	return r
}

// EndMode reports the mode of r.End, treating nil as EndNever.
func (r Rule) EndMode() EndMode {
	if r.End == nil {
		return EndNever
	}
	return r.End.Mode()
}

func (r Rule) hasMonthlyDetail() bool {
	return r.Frequency == Monthly || r.Frequency == Yearly
}
