package recurrence

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/teambition/rrule-go"
)

// PropStrategy carries the recurrence strategy on a VTODO.
const PropStrategy = "X-LIBRECUR-STRATEGY"

// ProductID identifies calendars produced by EncodeCalendar.
const ProductID = "-//cyp0633//librecur//EN"

// ApplyToComponent writes r as the component's RRULE, replacing any existing
// one. A nil rule removes the RRULE. The strategy property is written only
// when present.
func ApplyToComponent(comp *ical.Component, r *Rule, strategy mo.Option[Strategy]) {
	delete(comp.Props, ical.PropRecurrenceRule)
	delete(comp.Props, PropStrategy)
	if r == nil {
		return
	}

	prop := ical.NewProp(ical.PropRecurrenceRule)
	prop.Value = r.RRule()
	comp.Props.Set(prop)

	if s, ok := strategy.Get(); ok {
		sp := ical.NewProp(PropStrategy)
		sp.Value = string(s)
		comp.Props.Set(sp)
	}
}

// RuleFromComponent extracts the rule and strategy from an iCal component.
// DTSTART (or DUE for a VTODO without one) supplies the location and the
// implicit weekday, day or month for rules that omit them. A component with
// no RRULE yields a nil rule.
func RuleFromComponent(comp *ical.Component) (*Rule, mo.Option[Strategy], error) {
	strategy := mo.None[Strategy]()
	if sp := comp.Props.Get(PropStrategy); sp != nil && sp.Value != "" {
		s, err := ParseStrategy(sp.Value)
		if err != nil {
			return nil, strategy, err
		}
		strategy = mo.Some(s)
	}

	prop := comp.Props.Get(ical.PropRecurrenceRule)
	if prop == nil || prop.Value == "" {
		return nil, strategy, nil
	}

	start, hasStart := componentStart(comp)
	loc := time.Local
	if hasStart {
		loc = start.Location()
	}

	opt, err := rrule.StrToROptionInLocation(prop.Value, loc)
	if err != nil {
		return nil, strategy, &Error{Type: ErrInvalidInput, Message: "malformed RRULE", Err: err}
	}
	if hasStart && opt.Dtstart.IsZero() {
		opt.Dtstart = start
	}
	r, err := fromROption(*opt, loc)
	if err != nil {
		return nil, strategy, err
	}
	return r, strategy, nil
}

func componentStart(comp *ical.Component) (time.Time, bool) {
	if start, err := comp.Props.DateTime(ical.PropDateTimeStart, time.Local); err == nil && !start.IsZero() {
		return start, true
	}
	if comp.Name == ical.CompToDo {
		if due, err := comp.Props.DateTime(ical.PropDue, time.Local); err == nil && !due.IsZero() {
			return due, true
		}
	}
	return time.Time{}, false
}

// NewTodo builds a VTODO starting on anchor's date and repeating by r.
func NewTodo(summary string, anchor time.Time, r *Rule, strategy mo.Option[Strategy]) *ical.Component {
	todo := ical.NewComponent(ical.CompToDo)
	todo.Props.SetText(ical.PropUID, uuid.NewString())
	todo.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	todo.Props.SetDate(ical.PropDateTimeStart, midnight(anchor))
	if summary != "" {
		todo.Props.SetText(ical.PropSummary, summary)
	}
	ApplyToComponent(todo, r, strategy)
	return todo
}

// EncodeCalendar wraps the components in a VCALENDAR and writes it to w.
func EncodeCalendar(w io.Writer, comps ...*ical.Component) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)
	cal.Children = append(cal.Children, comps...)
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}
