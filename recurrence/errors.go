package recurrence

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType classifies decode failures.
type ErrorType string

const (
	ErrInvalidInput ErrorType = "invalid_input"
	ErrUnsupported  ErrorType = "unsupported"
)

// Error is returned when an external representation (JSON, RRULE, xCal,
// iCalendar) cannot be turned into a Rule.
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrNilRule is the panic value of MustRule. Mutators never accept a nil
// rule; callers must materialize one through FromPreset first.
var ErrNilRule = errors.New("recurrence: nil rule passed where a rule is required")

func invalidf(format string, args ...any) *Error {
	return &Error{Type: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func unsupportedf(format string, args ...any) *Error {
	return &Error{Type: ErrUnsupported, Message: fmt.Sprintf(format, args...)}
}

func parseEnum[T ~string](kind, s string, valid func(T) bool) (T, error) {
	v := T(strings.ToLower(strings.TrimSpace(s)))
	if !valid(v) {
		return "", invalidf("unknown %s %q", kind, s)
	}
	return v, nil
}

// ParseFrequency parses a wire frequency, case-insensitively.
func ParseFrequency(s string) (Frequency, error) {
	return parseEnum("frequency", s, Frequency.Valid)
}

// ParseWeekday parses a weekday identifier such as "monday".
func ParseWeekday(s string) (Weekday, error) {
	return parseEnum("weekday", s, Weekday.Valid)
}

// ParseWeekPosition parses "first" ... "last".
func ParseWeekPosition(s string) (WeekPosition, error) {
	return parseEnum("week position", s, WeekPosition.Valid)
}

// ParseEndMode parses "never", "on_date" or "after_occurrences".
func ParseEndMode(s string) (EndMode, error) {
	return parseEnum("end mode", s, EndMode.Valid)
}

// ParseStrategy parses "fixed" or "rolling".
func ParseStrategy(s string) (Strategy, error) {
	return parseEnum("recurrence strategy", s, Strategy.Valid)
}

// ParsePreset parses a preset name.
func ParsePreset(s string) (Preset, error) {
	return parseEnum("preset", s, Preset.Valid)
}
