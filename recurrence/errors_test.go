package recurrence

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnums(t *testing.T) {
	p, err := ParsePreset(" Weekdays ")
	require.NoError(t, err)
	assert.Equal(t, PresetWeekdays, p)

	f, err := ParseFrequency("MONTHLY")
	require.NoError(t, err)
	assert.Equal(t, Monthly, f)

	pos, err := ParseWeekPosition("last")
	require.NoError(t, err)
	assert.Equal(t, Last, pos)

	s, err := ParseStrategy("rolling")
	require.NoError(t, err)
	assert.Equal(t, StrategyRolling, s)

	_, err = ParsePreset("fortnightly")
	require.Error(t, err)
	var recErr *Error
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, ErrInvalidInput, recErr.Type)
	assert.Contains(t, err.Error(), `unknown preset "fortnightly"`)

	_, err = ParseWeekday("")
	assert.Error(t, err)
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Type: ErrUnsupported, Message: "nope", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "unsupported: nope: boom", err.Error())
	assert.Equal(t, "invalid_input: bad", invalidf("bad").Error())
}

func TestRule_Clone(t *testing.T) {
	orig := Rule{Frequency: Weekly, Interval: 2, Weekdays: []Weekday{Monday, Friday}, End: NeverEnds{}}
	cp := orig.Clone()
	assert.Equal(t, orig, cp)

	cp.Weekdays[0] = Tuesday
	assert.Equal(t, Monday, orig.Weekdays[0])
}
