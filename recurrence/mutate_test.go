package recurrence

import (
	"math"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustRule(t *testing.T) {
	assert.PanicsWithValue(t, ErrNilRule, func() { MustRule(nil) })

	src := FromPreset(PresetWeekdays, date(2024, time.March, 15))
	require.NotNil(t, src)
	r := MustRule(src)
	r.Weekdays[0] = Sunday
	assert.Equal(t, Monday, src.Weekdays[0], "MustRule must not share the weekday slice")
}

func TestSetFrequency(t *testing.T) {
	anchor := date(2024, time.March, 29) // last Friday of March

	t.Run("weekly seeds anchor weekday", func(t *testing.T) {
		r := SetFrequency(MustRule(FromPreset(PresetDaily, anchor)), Weekly, anchor)
		assert.Equal(t, []Weekday{Friday}, r.Weekdays)
		assertInvariants(t, r)
	})

	t.Run("weekly keeps existing weekdays", func(t *testing.T) {
		r := SetFrequency(MustRule(FromPreset(PresetWeekdays, anchor)), Weekly, anchor)
		assert.Len(t, r.Weekdays, 5)
	})

	t.Run("monthly fills day from anchor", func(t *testing.T) {
		r := SetFrequency(MustRule(FromPreset(PresetWeekly, anchor)), Monthly, anchor)
		assert.Equal(t, DayOfMonth(29), r.Monthly)
		assert.Nil(t, r.Weekdays)
		assertInvariants(t, r)
	})

	t.Run("yearly fills month and day", func(t *testing.T) {
		r := SetFrequency(MustRule(FromPreset(PresetDaily, anchor)), Yearly, anchor)
		assert.Equal(t, time.March, r.Month)
		assert.Equal(t, DayOfMonth(29), r.Monthly)
		assertInvariants(t, r)
	})

	t.Run("yearly keeps an nth weekday detail", func(t *testing.T) {
		monthly := SetMonthlyWeekday(MustRule(FromPreset(PresetMonthly, anchor)), Last, Friday)
		r := SetFrequency(monthly, Yearly, anchor)
		assert.Equal(t, NthWeekday{Position: Last, Weekday: Friday}, r.Monthly)
		assert.Equal(t, time.March, r.Month)
	})

	t.Run("daily clears every detail and resets interval", func(t *testing.T) {
		yearly := SetInterval(MustRule(FromPreset(PresetYearly, anchor)), 3)
		r := SetFrequency(yearly, Daily, anchor)
		assert.Equal(t, 1, r.Interval)
		assert.Nil(t, r.Monthly)
		assert.Zero(t, r.Month)
		assertInvariants(t, r)
	})

	t.Run("end condition survives", func(t *testing.T) {
		ending := SetEnds(MustRule(FromPreset(PresetDaily, anchor)), EndAfterOccurrences, EndOptions{Occurrences: mo.Some(5)}, anchor)
		r := SetFrequency(ending, Monthly, anchor)
		assert.Equal(t, EndsAfter{Occurrences: 5}, r.End)
	})

	t.Run("unknown frequency is ignored", func(t *testing.T) {
		src := MustRule(FromPreset(PresetWeekly, anchor))
		assert.Equal(t, src, SetFrequency(src, Frequency("hourly"), anchor))
	})
}

func TestSetInterval_Idempotent(t *testing.T) {
	base := MustRule(FromPreset(PresetDaily, date(2024, time.March, 15)))
	inputs := []float64{-3, 0, 0.4, 1, 2.5, 364.5, 365, 366, 1e6, math.NaN()}
	for _, n := range inputs {
		once := SetInterval(base, n)
		twice := SetInterval(once, n)
		assert.Equal(t, once, twice, "input %v", n)
		assert.Equal(t, once, SetInterval(once, float64(once.Interval)), "input %v", n)
		assertInvariants(t, once)
	}
	assert.Equal(t, 1, SetInterval(base, math.NaN()).Interval)
	assert.Equal(t, 365, SetInterval(base, 1000).Interval)
	assert.Equal(t, 3, SetInterval(base, 2.5).Interval)
}

func TestSetWeekdays(t *testing.T) {
	weekly := MustRule(FromPreset(PresetWeekly, date(2024, time.March, 15)))

	t.Run("dedupes and sorts", func(t *testing.T) {
		r := SetWeekdays(weekly, []Weekday{Sunday, Monday, Sunday, Wednesday})
		assert.Equal(t, []Weekday{Monday, Wednesday, Sunday}, r.Weekdays)
	})

	t.Run("empty set is a no-op", func(t *testing.T) {
		assert.Equal(t, weekly, SetWeekdays(weekly, nil))
		assert.Equal(t, weekly, SetWeekdays(weekly, []Weekday{}))
		assert.Equal(t, weekly, SetWeekdays(weekly, []Weekday{"funday"}))
	})

	t.Run("ignored on non-weekly rules", func(t *testing.T) {
		daily := MustRule(FromPreset(PresetDaily, date(2024, time.March, 15)))
		assert.Equal(t, daily, SetWeekdays(daily, []Weekday{Monday}))
	})

	t.Run("does not alias the input", func(t *testing.T) {
		in := []Weekday{Tuesday}
		r := SetWeekdays(weekly, in)
		in[0] = Saturday
		assert.Equal(t, []Weekday{Tuesday}, r.Weekdays)
	})
}

func TestToggleWeekday(t *testing.T) {
	weekly := MustRule(FromPreset(PresetWeekly, date(2024, time.March, 15)))

	r := ToggleWeekday(weekly, Monday)
	assert.Equal(t, []Weekday{Monday, Friday}, r.Weekdays)

	r = ToggleWeekday(r, Friday)
	assert.Equal(t, []Weekday{Monday}, r.Weekdays)

	assert.Equal(t, r, ToggleWeekday(r, Monday), "the last weekday cannot be removed")
	assert.Equal(t, []Weekday{Friday}, weekly.Weekdays, "input must not change")
}

func TestSetMonthlyDetail(t *testing.T) {
	anchor := date(2024, time.March, 15)
	monthly := MustRule(FromPreset(PresetMonthly, anchor))

	t.Run("day is clamped and idempotent", func(t *testing.T) {
		for _, day := range []float64{-1, 0, 15, 31, 32, 99.9} {
			once := SetMonthlyDay(monthly, day)
			assert.Equal(t, once, SetMonthlyDay(once, day))
			assertInvariants(t, once)
		}
		assert.Equal(t, DayOfMonth(31), SetMonthlyDay(monthly, 45).Monthly)
		assert.Equal(t, DayOfMonth(1), SetMonthlyDay(monthly, 0).Monthly)
	})

	t.Run("switching modes replaces the detail", func(t *testing.T) {
		r := SetMonthlyWeekday(monthly, Second, Tuesday)
		assert.Equal(t, NthWeekday{Position: Second, Weekday: Tuesday}, r.Monthly)
		r = SetMonthlyDay(r, 10)
		assert.Equal(t, DayOfMonth(10), r.Monthly)
	})

	t.Run("unknown position is ignored", func(t *testing.T) {
		assert.Equal(t, monthly, SetMonthlyWeekday(monthly, "fifth", Tuesday))
		assert.Equal(t, monthly, SetMonthlyWeekday(monthly, First, ""))
	})

	t.Run("ignored on weekly rules", func(t *testing.T) {
		weekly := MustRule(FromPreset(PresetWeekly, anchor))
		assert.Equal(t, weekly, SetMonthlyDay(weekly, 3))
		assert.Equal(t, weekly, SetMonthlyWeekday(weekly, First, Monday))
		assert.Equal(t, weekly, SetYearlyMonth(weekly, 4))
	})
}

func TestSetYearlyMonth(t *testing.T) {
	yearly := MustRule(FromPreset(PresetYearly, date(2024, time.March, 15)))
	nth := SetMonthlyWeekday(yearly, Last, Friday)

	r := SetYearlyMonth(nth, 11.6)
	assert.Equal(t, time.December, r.Month)
	assert.Equal(t, nth.Monthly, r.Monthly, "detail must be untouched")
	assert.Equal(t, time.January, SetYearlyMonth(yearly, -4).Month)
	assert.Equal(t, r, SetYearlyMonth(r, 12))
}

func TestEnsureDefaults(t *testing.T) {
	anchor := date(2024, time.March, 29)

	r := EnsureMonthlyDefaults(Rule{Frequency: Monthly, Interval: 1, Monthly: NthWeekday{}}, anchor)
	assert.Equal(t, NthWeekday{Position: Last, Weekday: Friday}, r.Monthly)

	r = EnsureMonthlyDefaults(Rule{Frequency: Monthly, Interval: 1, Monthly: NthWeekday{Position: First}}, anchor)
	assert.Equal(t, NthWeekday{Position: First, Weekday: Friday}, r.Monthly)

	r = EnsureMonthlyDefaults(Rule{Frequency: Monthly, Interval: 1, Monthly: DayOfMonth(40)}, anchor)
	assert.Equal(t, DayOfMonth(31), r.Monthly)

	r = EnsureYearlyDefaults(Rule{Frequency: Yearly, Interval: 1, Month: 13}, anchor)
	assert.Equal(t, time.March, r.Month)
	assert.Equal(t, DayOfMonth(29), r.Monthly)
}

func TestSetEnds(t *testing.T) {
	anchor := time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC)
	daily := MustRule(FromPreset(PresetDaily, anchor))

	t.Run("on date defaults to the anchor day", func(t *testing.T) {
		r := SetEnds(daily, EndOnDate, EndOptions{}, anchor)
		assert.Equal(t, EndsOn{Date: date(2024, time.March, 15)}, r.End)
		assertInvariants(t, r)
	})

	t.Run("on date keeps the current date", func(t *testing.T) {
		r := SetEnds(daily, EndOnDate, EndOptions{Date: mo.Some(date(2024, time.May, 1))}, anchor)
		r = SetEnds(r, EndOnDate, EndOptions{}, anchor)
		assert.Equal(t, EndsOn{Date: date(2024, time.May, 1)}, r.End)
	})

	t.Run("occurrences are clamped", func(t *testing.T) {
		assert.Equal(t, EndsAfter{Occurrences: 1000}, SetEnds(daily, EndAfterOccurrences, EndOptions{Occurrences: mo.Some(5000)}, anchor).End)
		assert.Equal(t, EndsAfter{Occurrences: 1}, SetEnds(daily, EndAfterOccurrences, EndOptions{Occurrences: mo.Some(0)}, anchor).End)
		assert.Equal(t, EndsAfter{Occurrences: 1}, SetEnds(daily, EndAfterOccurrences, EndOptions{}, anchor).End)
	})

	t.Run("switching modes drops the other value", func(t *testing.T) {
		r := SetEnds(daily, EndAfterOccurrences, EndOptions{Occurrences: mo.Some(10), Date: mo.Some(anchor)}, anchor)
		assert.Equal(t, EndsAfter{Occurrences: 10}, r.End)
		r = SetEnds(r, EndNever, EndOptions{}, anchor)
		assert.Equal(t, NeverEnds{}, r.End)
	})

	t.Run("unknown mode is ignored", func(t *testing.T) {
		assert.Equal(t, daily, SetEnds(daily, EndMode("sometime"), EndOptions{}, anchor))
	})
}

func TestMutatorSequencesPreserveInvariants(t *testing.T) {
	anchor := date(2024, time.March, 31)
	steps := []func(Rule) Rule{
		func(r Rule) Rule { return SetFrequency(r, Weekly, anchor) },
		func(r Rule) Rule { return ToggleWeekday(r, Wednesday) },
		func(r Rule) Rule { return SetMonthlyDay(r, 12) },
		func(r Rule) Rule { return SetFrequency(r, Monthly, anchor) },
		func(r Rule) Rule { return SetMonthlyWeekday(r, Last, Sunday) },
		func(r Rule) Rule { return SetYearlyMonth(r, 7) },
		func(r Rule) Rule { return SetFrequency(r, Yearly, anchor) },
		func(r Rule) Rule { return SetYearlyMonth(r, 7) },
		func(r Rule) Rule { return SetEnds(r, EndOnDate, EndOptions{}, anchor) },
		func(r Rule) Rule { return SetInterval(r, 4) },
		func(r Rule) Rule { return SetEnds(r, EndAfterOccurrences, EndOptions{Occurrences: mo.Some(3)}, anchor) },
		func(r Rule) Rule { return SetFrequency(r, Daily, anchor) },
		func(r Rule) Rule { return SetWeekdays(r, []Weekday{Monday}) },
		func(r Rule) Rule { return SetFrequency(r, Weekly, anchor) },
		func(r Rule) Rule { return SetWeekdays(r, nil) },
	}

	for _, p := range []Preset{PresetDaily, PresetWeekly, PresetWeekdays, PresetMonthly, PresetYearly, PresetCustom} {
		t.Run(string(p), func(t *testing.T) {
			r := MustRule(FromPreset(p, anchor))
			for _, step := range steps {
				r = step(r)
				assertInvariants(t, r)
			}
			assert.Equal(t, []Weekday{Sunday}, r.Weekdays)
		})
	}
}
