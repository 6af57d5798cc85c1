package recurrence

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/cyp0633/librecur/i18n"
	"github.com/samber/mo"
)

// Translator resolves a message key. fallback is the English message with
// {{name}} placeholders; params holds the values, including "count" when the
// message has plural forms. *i18n.Catalog implements it.
type Translator interface {
	Translate(key, fallback string, params map[string]any) string
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(key, fallback string, params map[string]any) string

func (f TranslatorFunc) Translate(key, fallback string, params map[string]any) string {
	return f(key, fallback, params)
}

// ListFormatter joins display labels into a sentence fragment.
type ListFormatter interface {
	Join(items []string) string
}

// ConjunctionList joins "A and B" or "A, B, and C". Without SerialComma the
// last pair has no comma ("A, B and C").
type ConjunctionList struct {
	Conjunction string
	SerialComma bool
}

func (l ConjunctionList) Join(items []string) string {
	conj := l.Conjunction
	if conj == "" {
		conj = "and"
	}
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " " + conj + " " + items[1]
	}
	head := strings.Join(items[:len(items)-1], ", ")
	if l.SerialComma {
		head += ","
	}
	return head + " " + conj + " " + items[len(items)-1]
}

// DateFormatter renders an end date. *i18n.Catalog implements it.
type DateFormatter interface {
	FormatDate(t time.Time) string
}

// DateFormatterFunc adapts a function to DateFormatter.
type DateFormatterFunc func(t time.Time) string

func (f DateFormatterFunc) FormatDate(t time.Time) string { return f(t) }

// DefaultDateFormatter renders dates like "Mar 20, 2024".
var DefaultDateFormatter DateFormatter = DateFormatterFunc(func(t time.Time) string {
	return t.Format("Jan 2, 2006")
})

// Summarizer produces human-readable descriptions of rules. It is immutable
// once built and safe for concurrent use.
type Summarizer struct {
	translator Translator
	lists      ListFormatter
	dates      DateFormatter
	reference  time.Time
	logger     *slog.Logger
}

// SummaryOption configures a Summarizer.
type SummaryOption func(*Summarizer)

// WithTranslator localizes every message. Without it, English is used.
func WithTranslator(t Translator) SummaryOption {
	return func(s *Summarizer) {
		if t != nil {
			s.translator = t
		}
	}
}

// WithListFormatter overrides how weekday lists are joined. By default the
// conjunction comes from the translator's recurrence.list.and message.
func WithListFormatter(l ListFormatter) SummaryOption {
	return func(s *Summarizer) {
		s.lists = l
	}
}

// WithDateFormatter overrides how end dates are rendered.
func WithDateFormatter(d DateFormatter) SummaryOption {
	return func(s *Summarizer) {
		if d != nil {
			s.dates = d
		}
	}
}

// WithReference sets the date whose month is used for yearly rules that
// carry no month. It defaults to the construction time.
func WithReference(t time.Time) SummaryOption {
	return func(s *Summarizer) {
		s.reference = t
	}
}

// WithLogger sets the logger used to report degraded rules.
func WithLogger(logger *slog.Logger) SummaryOption {
	return func(s *Summarizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSummarizer creates a Summarizer. Defaults: English, "Jan 2, 2006" dates,
// reference = now, logging discarded.
func NewSummarizer(opts ...SummaryOption) *Summarizer {
	s := &Summarizer{
		translator: TranslatorFunc(func(_, fallback string, params map[string]any) string {
			return i18n.Interpolate(fallback, params)
		}),
		dates:     DefaultDateFormatter,
		reference: time.Now(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize describes r in English with the default settings.
func Summarize(r *Rule) string {
	return NewSummarizer().Summarize(r, mo.None[Strategy]())
}

func (s *Summarizer) t(key, fallback string, params map[string]any) string {
	return s.translator.Translate(key, fallback, params)
}

// Summarize returns a sentence such as "Repeats every 2 weeks on Monday and
// Friday until Mar 20, 2024". It never fails: a nil rule reads "Does not
// repeat" and missing details are left out of the sentence. A rolling
// strategy appends "(after completion)".
func (s *Summarizer) Summarize(r *Rule, strategy mo.Option[Strategy]) string {
	if r == nil || !r.Frequency.Valid() {
		return s.t("recurrence.summary.none", "Does not repeat", nil)
	}

	parts := []string{s.frequencyClause(r.Frequency, clampInt(r.Interval, MinInterval, MaxInterval))}
	if detail := s.detailClause(r); detail != "" {
		parts = append(parts, detail)
	}
	if end := s.endClause(r.End); end != "" {
		parts = append(parts, end)
	}
	if st, ok := strategy.Get(); ok && st == StrategyRolling {
		parts = append(parts, s.t("recurrence.summary.afterCompletion", "(after completion)", nil))
	}
	return strings.Join(parts, " ")
}

var unitNames = map[Frequency]string{
	Daily:   "day",
	Weekly:  "week",
	Monthly: "month",
	Yearly:  "year",
}

func (s *Summarizer) frequencyClause(f Frequency, interval int) string {
	unit := unitNames[f]
	unitFallback := unit + "s"
	everyFallback := "Repeats every {{count}} {{unit}}"
	if interval == 1 {
		unitFallback = unit
		everyFallback = "Repeats every {{unit}}"
	}
	label := s.t("recurrence.unit."+unit, unitFallback, map[string]any{"count": interval})
	return s.t("recurrence.summary.every", everyFallback, map[string]any{"count": interval, "unit": label})
}

func (s *Summarizer) detailClause(r *Rule) string {
	switch r.Frequency {
	case Weekly:
		days := normalizeWeekdays(r.Weekdays)
		if len(days) == 0 {
			s.logger.Debug("weekly rule has no weekdays, omitting detail clause")
			return ""
		}
		labels := make([]string, len(days))
		for i, d := range days {
			labels[i] = s.WeekdayLabel(d)
		}
		return s.t("recurrence.summary.onWeekdays", "on {{days}}", map[string]any{"days": s.listFormatter().Join(labels)})
	case Monthly:
		return s.monthlyDetail(r.Monthly)
	case Yearly:
		month := r.Month
		if month < time.January || month > time.December {
			month = s.reference.Month()
		}
		params := map[string]any{"month": s.MonthLabel(month)}
		detail := s.monthlyDetail(r.Monthly)
		if detail == "" {
			return s.t("recurrence.summary.inMonth", "in {{month}}", params)
		}
		params["detail"] = detail
		return s.t("recurrence.summary.ofMonth", "{{detail}} of {{month}}", params)
	}
	return ""
}

func (s *Summarizer) monthlyDetail(detail MonthlyDetail) string {
	switch d := detail.(type) {
	case DayOfMonth:
		return s.t("recurrence.summary.onDay", "on day {{day}}", map[string]any{"day": int(d)})
	case NthWeekday:
		if !d.valid() {
			s.logger.Debug("nth-weekday detail is incomplete, omitting detail clause",
				"position", d.Position, "weekday", d.Weekday)
			return ""
		}
		return s.t("recurrence.summary.onPosition", "on the {{position}} {{weekday}}", map[string]any{
			"position": s.PositionLabel(d.Position),
			"weekday":  s.WeekdayLabel(d.Weekday),
		})
	}
	s.logger.Debug("rule has no monthly detail, omitting detail clause")
	return ""
}

func (s *Summarizer) endClause(end EndCondition) string {
	switch e := end.(type) {
	case EndsOn:
		return s.t("recurrence.summary.until", "until {{date}}", map[string]any{"date": s.dates.FormatDate(e.Date)})
	case EndsAfter:
		fallback := "for {{count}} occurrences"
		if e.Occurrences == 1 {
			fallback = "for {{count}} occurrence"
		}
		return s.t("recurrence.summary.occurrences", fallback, map[string]any{"count": e.Occurrences})
	}
	return ""
}

func (s *Summarizer) listFormatter() ListFormatter {
	if s.lists != nil {
		return s.lists
	}
	return ConjunctionList{
		Conjunction: s.t("recurrence.list.and", "and", nil),
		SerialComma: s.t("recurrence.list.serialComma", "true", nil) == "true",
	}
}

// WeekdayLabel returns the localized name of d.
func (s *Summarizer) WeekdayLabel(d Weekday) string {
	return s.t("recurrence.weekday."+string(d), d.Label(), nil)
}

// PositionLabel returns the localized ordinal, e.g. "last".
func (s *Summarizer) PositionLabel(p WeekPosition) string {
	return s.t("recurrence.position."+string(p), string(p), nil)
}

// MonthLabel returns the localized month name.
func (s *Summarizer) MonthLabel(m time.Month) string {
	return s.t(fmt.Sprintf("recurrence.month.%d", int(m)), m.String(), nil)
}

var presetLabels = map[Preset]string{
	PresetNone:     "Does not repeat",
	PresetDaily:    "Daily",
	PresetWeekly:   "Weekly",
	PresetWeekdays: "Every weekday (Monday to Friday)",
	PresetMonthly:  "Monthly",
	PresetYearly:   "Yearly",
	PresetCustom:   "Custom",
}

// PresetLabel returns the menu label for p.
func (s *Summarizer) PresetLabel(p Preset) string {
	return s.t("recurrence.preset."+string(p), presetLabels[p], nil)
}
