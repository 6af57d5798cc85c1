package recurrence

import (
	"encoding/json"
	"time"

	"github.com/samber/mo"
)

// wireRule is the snake_case JSON shape exchanged with the task API.
type wireRule struct {
	Frequency           Frequency               `json:"frequency"`
	Interval            int                     `json:"interval"`
	Weekdays            []Weekday               `json:"weekdays"`
	MonthlyMode         mo.Option[MonthlyMode]  `json:"monthly_mode"`
	DayOfMonth          mo.Option[int]          `json:"day_of_month"`
	WeekdayPosition     mo.Option[WeekPosition] `json:"weekday_position"`
	Weekday             mo.Option[Weekday]      `json:"weekday"`
	Month               mo.Option[int]          `json:"month"`
	Ends                EndMode                 `json:"ends"`
	EndDate             mo.Option[string]       `json:"end_date"`
	EndAfterOccurrences mo.Option[int]          `json:"end_after_occurrences"`
}

// MarshalJSON encodes the rule in the task API's wire format.
func (r Rule) MarshalJSON() ([]byte, error) {
	w := wireRule{
		Frequency: r.Frequency,
		Interval:  r.Interval,
		Weekdays:  r.Weekdays,
		Ends:      r.EndMode(),
	}
	if w.Weekdays == nil {
		w.Weekdays = []Weekday{}
	}

	switch d := r.Monthly.(type) {
	case DayOfMonth:
		w.MonthlyMode = mo.Some(ModeDayOfMonth)
		w.DayOfMonth = mo.Some(int(d))
	case NthWeekday:
		w.MonthlyMode = mo.Some(ModeWeekday)
		w.WeekdayPosition = mo.Some(d.Position)
		w.Weekday = mo.Some(d.Weekday)
	}
	if r.Month != 0 {
		w.Month = mo.Some(int(r.Month))
	}

	switch e := r.End.(type) {
	case EndsOn:
		w.EndDate = mo.Some(e.Date.Format(dateLayout))
	case EndsAfter:
		w.EndAfterOccurrences = mo.Some(e.Occurrences)
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the wire format. Unknown enum values are rejected;
// numbers are clamped into range and fields that do not apply to the
// frequency are dropped. An end mode whose value is missing degrades to
// never. A JSON null decodes into a nil *Rule without calling this method.
func (r *Rule) UnmarshalJSON(data []byte) error {
	var w wireRule
	if err := json.Unmarshal(data, &w); err != nil {
		return &Error{Type: ErrInvalidInput, Message: "malformed recurrence rule", Err: err}
	}
	rule, err := w.rule(time.Local)
	if err != nil {
		return err
	}
	*r = rule
	return nil
}

func (w wireRule) rule(loc *time.Location) (Rule, error) {
	if !w.Frequency.Valid() {
		return Rule{}, invalidf("unknown frequency %q", w.Frequency)
	}
	r := Rule{Frequency: w.Frequency, Interval: 1}
	if w.Interval != 0 {
		r.Interval = clampInt(w.Interval, MinInterval, MaxInterval)
	}

	for _, d := range w.Weekdays {
		if !d.Valid() {
			return Rule{}, invalidf("unknown weekday %q", d)
		}
	}
	if r.Frequency == Weekly {
		r.Weekdays = normalizeWeekdays(w.Weekdays)
	}

	if r.Frequency == Monthly || r.Frequency == Yearly {
		detail, err := w.monthlyDetail()
		if err != nil {
			return Rule{}, err
		}
		r.Monthly = detail
	}
	if m, ok := w.Month.Get(); ok && r.Frequency == Yearly {
		r.Month = time.Month(clampInt(m, 1, 12))
	}

	end, err := w.endCondition(loc)
	if err != nil {
		return Rule{}, err
	}
	r.End = end
	return r, nil
}

func (w wireRule) monthlyDetail() (MonthlyDetail, error) {
	mode := w.MonthlyMode.OrElse(ModeDayOfMonth)
	switch mode {
	case ModeDayOfMonth:
		if day, ok := w.DayOfMonth.Get(); ok {
			return DayOfMonth(clampInt(day, 1, MaxDayOfMonth)), nil
		}
		return nil, nil
	case ModeWeekday:
		pos, hasPos := w.WeekdayPosition.Get()
		wd, hasDay := w.Weekday.Get()
		if hasPos && !pos.Valid() {
			return nil, invalidf("unknown weekday_position %q", pos)
		}
		if hasDay && !wd.Valid() {
			return nil, invalidf("unknown weekday %q", wd)
		}
		if !hasPos || !hasDay {
			return nil, nil
		}
		return NthWeekday{Position: pos, Weekday: wd}, nil
	}
	return nil, invalidf("unknown monthly_mode %q", mode)
}

func (w wireRule) endCondition(loc *time.Location) (EndCondition, error) {
	switch w.Ends {
	case "", EndNever:
		return NeverEnds{}, nil
	case EndOnDate:
		s, ok := w.EndDate.Get()
		if !ok || s == "" {
			return NeverEnds{}, nil
		}
		date, err := ParseLocalDate(s, loc)
		if err != nil {
			return nil, err
		}
		return EndsOn{Date: date}, nil
	case EndAfterOccurrences:
		n, ok := w.EndAfterOccurrences.Get()
		if !ok {
			return NeverEnds{}, nil
		}
		return EndsAfter{Occurrences: clampInt(n, MinOccurrences, MaxOccurrences)}, nil
	}
	return nil, invalidf("unknown ends %q", w.Ends)
}

// TaskRecurrence is the recurrence part of a task create, update or read
// payload.
type TaskRecurrence struct {
	Recurrence         *Rule               `json:"recurrence"`
	RecurrenceStrategy mo.Option[Strategy] `json:"recurrence_strategy"`
}

// Validate rejects an unknown recurrence_strategy.
func (t TaskRecurrence) Validate() error {
	if s, ok := t.RecurrenceStrategy.Get(); ok && !s.Valid() {
		return invalidf("unknown recurrence_strategy %q", s)
	}
	return nil
}
