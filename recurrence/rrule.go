package recurrence

import (
	"time"

	"github.com/samber/mo"
	"github.com/teambition/rrule-go"
)

var rruleFrequencies = map[Frequency]rrule.Frequency{
	Daily:   rrule.DAILY,
	Weekly:  rrule.WEEKLY,
	Monthly: rrule.MONTHLY,
	Yearly:  rrule.YEARLY,
}

// rruleWeekdays is in AllWeekdays order, which matches rrule.Weekday.Day().
var rruleWeekdays = []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU}

func toRRuleWeekday(d Weekday) (rrule.Weekday, bool) {
	i := d.order()
	if i < 0 {
		return rrule.Weekday{}, false
	}
	return rruleWeekdays[i], true
}

func fromRRuleWeekday(wd rrule.Weekday) Weekday {
	return AllWeekdays[wd.Day()]
}

// ROption converts r into rrule-go options without a DTSTART. An end date
// becomes UNTIL at the last second of that local day.
func (r Rule) ROption() rrule.ROption {
	opt := rrule.ROption{
		Freq:     rruleFrequencies[r.Frequency],
		Interval: clampInt(r.Interval, MinInterval, MaxInterval),
	}

	switch r.Frequency {
	case Weekly:
		for _, d := range normalizeWeekdays(r.Weekdays) {
			wd, _ := toRRuleWeekday(d)
			opt.Byweekday = append(opt.Byweekday, wd)
		}
	case Monthly, Yearly:
		switch d := r.Monthly.(type) {
		case DayOfMonth:
			opt.Bymonthday = []int{int(d)}
		case NthWeekday:
			if wd, ok := toRRuleWeekday(d.Weekday); ok && d.Position.Valid() {
				opt.Byweekday = []rrule.Weekday{wd.Nth(d.Position.ordinal())}
			}
		}
		if r.Frequency == Yearly && r.Month >= time.January && r.Month <= time.December {
			opt.Bymonth = []int{int(r.Month)}
		}
	}

	switch e := r.End.(type) {
	case EndsOn:
		y, m, d := e.Date.Date()
		opt.Until = time.Date(y, m, d, 23, 59, 59, 0, e.Date.Location())
	case EndsAfter:
		opt.Count = e.Occurrences
	}
	return opt
}

// RRule renders r as an RFC 5545 RRULE value, e.g.
// "FREQ=MONTHLY;INTERVAL=1;BYDAY=-1FR".
func (r Rule) RRule() string {
	opt := r.ROption()
	return opt.RRuleString()
}

// ParseRRule reads an RRULE value (with or without the "RRULE:" prefix, and
// optionally preceded by a DTSTART line). Local UNTIL values and the end date
// are interpreted in loc. Constructs the model cannot express are reported
// as ErrUnsupported.
func ParseRRule(s string, loc *time.Location) (*Rule, error) {
	if loc == nil {
		loc = time.Local
	}
	opt, err := rrule.StrToROptionInLocation(s, loc)
	if err != nil {
		return nil, &Error{Type: ErrInvalidInput, Message: "malformed RRULE", Err: err}
	}
	return fromROption(*opt, loc)
}

func fromROption(opt rrule.ROption, loc *time.Location) (*Rule, error) {
	if len(opt.Byhour) > 0 || len(opt.Byminute) > 0 || len(opt.Bysecond) > 0 ||
		len(opt.Byyearday) > 0 || len(opt.Byweekno) > 0 || len(opt.Byeaster) > 0 {
		return nil, unsupportedf("BYHOUR, BYMINUTE, BYSECOND, BYYEARDAY, BYWEEKNO and BYEASTER are not supported")
	}

	start := mo.None[time.Time]()
	if !opt.Dtstart.IsZero() {
		start = mo.Some(opt.Dtstart.In(loc))
	}

	r := Rule{Interval: 1, End: NeverEnds{}}
	switch opt.Freq {
	case rrule.DAILY:
		r.Frequency = Daily
	case rrule.WEEKLY:
		r.Frequency = Weekly
	case rrule.MONTHLY:
		r.Frequency = Monthly
	case rrule.YEARLY:
		r.Frequency = Yearly
	default:
		return nil, unsupportedf("frequency %s is not supported", opt.Freq)
	}
	if opt.Interval > 0 {
		r.Interval = clampInt(opt.Interval, MinInterval, MaxInterval)
	}

	switch r.Frequency {
	case Daily:
		if len(opt.Byweekday) > 0 || len(opt.Bymonthday) > 0 || len(opt.Bymonth) > 0 || len(opt.Bysetpos) > 0 {
			return nil, unsupportedf("daily rules cannot be restricted with BY* parts")
		}
	case Weekly:
		if len(opt.Bymonthday) > 0 || len(opt.Bymonth) > 0 || len(opt.Bysetpos) > 0 {
			return nil, unsupportedf("weekly rules only support BYDAY")
		}
		var days []Weekday
		for _, wd := range opt.Byweekday {
			if wd.N() != 0 {
				return nil, unsupportedf("weekly BYDAY cannot carry an ordinal (%s)", wd.String())
			}
			days = append(days, fromRRuleWeekday(wd))
		}
		if len(days) == 0 {
			t, ok := start.Get()
			if !ok {
				return nil, unsupportedf("weekly rule without BYDAY needs a DTSTART")
			}
			days = []Weekday{WeekdayOf(t)}
		}
		r.Weekdays = normalizeWeekdays(days)
	case Monthly, Yearly:
		if r.Frequency == Monthly && len(opt.Bymonth) > 0 {
			return nil, unsupportedf("monthly rules cannot carry BYMONTH")
		}
		detail, err := monthlyDetailFromROption(opt, start)
		if err != nil {
			return nil, err
		}
		r.Monthly = detail
		if r.Frequency == Yearly {
			switch {
			case len(opt.Bymonth) == 1:
				r.Month = time.Month(clampInt(opt.Bymonth[0], 1, 12))
			case len(opt.Bymonth) > 1:
				return nil, unsupportedf("only one BYMONTH value is supported")
			case start.IsPresent():
				r.Month = start.MustGet().Month()
			default:
				return nil, unsupportedf("yearly rule without BYMONTH needs a DTSTART")
			}
		}
	}

	switch {
	case opt.Count > 0 && !opt.Until.IsZero():
		return nil, invalidf("COUNT and UNTIL are mutually exclusive")
	case opt.Count > 0:
		r.End = EndsAfter{Occurrences: clampInt(opt.Count, MinOccurrences, MaxOccurrences)}
	case !opt.Until.IsZero():
		r.End = EndsOn{Date: midnight(opt.Until.In(loc))}
	}
	return &r, nil
}

func monthlyDetailFromROption(opt rrule.ROption, start mo.Option[time.Time]) (MonthlyDetail, error) {
	switch {
	case len(opt.Bymonthday) > 0:
		if len(opt.Bymonthday) > 1 || len(opt.Byweekday) > 0 || len(opt.Bysetpos) > 0 {
			return nil, unsupportedf("only a single BYMONTHDAY is supported")
		}
		day := opt.Bymonthday[0]
		if day < 1 {
			return nil, unsupportedf("negative BYMONTHDAY %d is not supported", day)
		}
		return DayOfMonth(clampInt(day, 1, MaxDayOfMonth)), nil
	case len(opt.Byweekday) > 0:
		if len(opt.Byweekday) > 1 {
			return nil, unsupportedf("only a single BYDAY is supported for monthly and yearly rules")
		}
		wd := opt.Byweekday[0]
		n := wd.N()
		switch {
		case n != 0 && len(opt.Bysetpos) > 0:
			return nil, unsupportedf("BYDAY ordinal and BYSETPOS cannot be combined")
		case n == 0 && len(opt.Bysetpos) == 1:
			n = opt.Bysetpos[0]
		case n == 0:
			return nil, unsupportedf("BYDAY without an ordinal is not supported for monthly and yearly rules")
		}
		pos, ok := positionFromOrdinal(n)
		if !ok {
			return nil, unsupportedf("week position %d is not supported", n)
		}
		return NthWeekday{Position: pos, Weekday: fromRRuleWeekday(wd)}, nil
	case len(opt.Bysetpos) > 0:
		return nil, unsupportedf("BYSETPOS requires BYDAY")
	case start.IsPresent():
		return DayOfMonth(start.MustGet().Day()), nil
	}
	return nil, unsupportedf("monthly rule without BYMONTHDAY or BYDAY needs a DTSTART")
}
