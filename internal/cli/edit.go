package cli

import (
	"fmt"
	"time"

	"github.com/cyp0633/librecur/recurrence"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

func (a *app) editCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Apply edits to the rule on stdin",
		Long: `Reads a rule, applies the given edits in a fixed order (frequency,
interval, weekdays, toggle, day, position/weekday, month, ends) and prints the
result. A null rule starts from --base.`,
		Args: cobra.NoArgs,
		RunE: a.runEdit,
	}
	addRefFlag(cmd)
	f := cmd.Flags()
	f.String("base", string(recurrence.PresetDaily), "Preset to start from when stdin holds null")
	f.String("frequency", "", "daily, weekly, monthly or yearly")
	f.Float64("interval", 1, "Repeat every N units")
	f.StringSlice("weekdays", nil, "Replace the weekly weekday set")
	f.StringSlice("toggle", nil, "Toggle weekdays in the weekly set")
	f.Float64("day", 1, "Day of month")
	f.String("position", "", "Week position (first..fourth, last)")
	f.String("weekday", "", "Weekday for the week position")
	f.Float64("month", 1, "Month of year (1-12)")
	f.String("ends", "", "never, on_date or after_occurrences")
	f.String("end-date", "", "End date (YYYY-MM-DD)")
	f.Int("count", 1, "Number of occurrences")
	return cmd
}

func (a *app) runEdit(cmd *cobra.Command, _ []string) error {
	anchor := a.anchor(cmd)
	f := cmd.Flags()

	in, err := readRule(cmd.InOrStdin())
	if err != nil {
		return err
	}
	if in == nil {
		raw, _ := f.GetString("base")
		p, err := recurrence.ParsePreset(raw)
		if err != nil {
			return err
		}
		in = recurrence.FromPreset(p, anchor)
		if in == nil {
			return fmt.Errorf("base preset %q does not repeat, nothing to edit", p)
		}
	}
	r := recurrence.MustRule(in)

	if f.Changed("frequency") {
		raw, _ := f.GetString("frequency")
		freq, err := recurrence.ParseFrequency(raw)
		if err != nil {
			return err
		}
		r = recurrence.SetFrequency(r, freq, anchor)
	}
	if f.Changed("interval") {
		n, _ := f.GetFloat64("interval")
		r = recurrence.SetInterval(r, n)
	}
	if f.Changed("weekdays") {
		raw, _ := f.GetStringSlice("weekdays")
		days, err := parseWeekdays(raw)
		if err != nil {
			return err
		}
		r = recurrence.SetWeekdays(r, days)
	}
	if f.Changed("toggle") {
		raw, _ := f.GetStringSlice("toggle")
		days, err := parseWeekdays(raw)
		if err != nil {
			return err
		}
		for _, d := range days {
			r = recurrence.ToggleWeekday(r, d)
		}
	}
	if f.Changed("day") {
		day, _ := f.GetFloat64("day")
		r = recurrence.SetMonthlyDay(r, day)
	}
	if f.Changed("position") || f.Changed("weekday") {
		if r, err = editNthWeekday(cmd, r, anchor); err != nil {
			return err
		}
	}
	if f.Changed("month") {
		m, _ := f.GetFloat64("month")
		r = recurrence.SetYearlyMonth(r, m)
	}
	if f.Changed("ends") {
		if r, err = editEnds(cmd, r, anchor); err != nil {
			return err
		}
	}

	a.logger.Debug("edited rule", "rrule", r.RRule())
	return writeJSON(cmd.OutOrStdout(), r)
}

func parseWeekdays(raw []string) ([]recurrence.Weekday, error) {
	days := make([]recurrence.Weekday, 0, len(raw))
	for _, s := range raw {
		d, err := recurrence.ParseWeekday(s)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, nil
}

// editNthWeekday fills whichever of --position and --weekday is missing from
// the rule's current detail, then from the anchor.
func editNthWeekday(cmd *cobra.Command, r recurrence.Rule, anchor time.Time) (recurrence.Rule, error) {
	pos := recurrence.WeekPositionOf(anchor)
	wd := recurrence.WeekdayOf(anchor)
	if cur, ok := r.Monthly.(recurrence.NthWeekday); ok {
		if cur.Position.Valid() {
			pos = cur.Position
		}
		if cur.Weekday.Valid() {
			wd = cur.Weekday
		}
	}

	f := cmd.Flags()
	if f.Changed("position") {
		raw, _ := f.GetString("position")
		p, err := recurrence.ParseWeekPosition(raw)
		if err != nil {
			return r, err
		}
		pos = p
	}
	if f.Changed("weekday") {
		raw, _ := f.GetString("weekday")
		d, err := recurrence.ParseWeekday(raw)
		if err != nil {
			return r, err
		}
		wd = d
	}
	return recurrence.SetMonthlyWeekday(r, pos, wd), nil
}

func editEnds(cmd *cobra.Command, r recurrence.Rule, anchor time.Time) (recurrence.Rule, error) {
	f := cmd.Flags()
	raw, _ := f.GetString("ends")
	mode, err := recurrence.ParseEndMode(raw)
	if err != nil {
		return r, err
	}

	var opts recurrence.EndOptions
	if f.Changed("end-date") {
		s, _ := f.GetString("end-date")
		date, err := recurrence.ParseLocalDate(s, anchor.Location())
		if err != nil {
			return r, err
		}
		opts.Date = mo.Some(date)
	}
	if f.Changed("count") {
		n, _ := f.GetInt("count")
		opts.Occurrences = mo.Some(n)
	}
	return recurrence.SetEnds(r, mode, opts, anchor), nil
}
