package recurrence

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRule_XCal(t *testing.T) {
	anchor := date(2024, time.March, 15)
	r := SetEnds(SetMonthlyWeekday(MustRule(FromPreset(PresetMonthly, anchor)), Last, Friday),
		EndOnDate, EndOptions{Date: mo.Some(date(2024, time.December, 31))}, anchor)

	el := r.XCal()
	assert.Equal(t, "recur", el.Tag)
	assert.Equal(t, XCalNamespace, el.SelectAttrValue("xmlns", ""))

	var tags []string
	for _, child := range el.ChildElements() {
		tags = append(tags, child.Tag)
	}
	assert.Equal(t, []string{"freq", "until", "interval", "byday"}, tags)
	assert.Equal(t, "MONTHLY", el.SelectElement("freq").Text())
	assert.Equal(t, "2024-12-31T23:59:59Z", el.SelectElement("until").Text())
	assert.Equal(t, "-1FR", el.SelectElement("byday").Text())

	doc, err := r.XCalString()
	require.NoError(t, err)
	assert.Contains(t, doc, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, doc, `<recur xmlns="urn:ietf:params:xml:ns:icalendar-2.0">`)
	assert.Contains(t, doc, "  <byday>-1FR</byday>")
}

func TestXCalRoundTrip(t *testing.T) {
	anchor := date(2024, time.March, 15)
	rules := map[string]Rule{
		"weekdays":     MustRule(FromPreset(PresetWeekdays, anchor)),
		"every 4 days": SetEnds(SetInterval(MustRule(FromPreset(PresetDaily, anchor)), 4), EndAfterOccurrences, EndOptions{Occurrences: mo.Some(8)}, anchor),
		"monthly":      MustRule(FromPreset(PresetMonthly, anchor)),
		"monthly nth":  SetMonthlyWeekday(MustRule(FromPreset(PresetMonthly, anchor)), Second, Monday),
		"yearly until": SetEnds(MustRule(FromPreset(PresetYearly, anchor)), EndOnDate, EndOptions{Date: mo.Some(date(2030, time.March, 15))}, anchor),
	}

	for name, r := range rules {
		t.Run(name, func(t *testing.T) {
			back, err := ParseXCal(r.XCal(), time.UTC)
			require.NoError(t, err)
			assert.Equal(t, r, *back)

			doc, err := r.XCalString()
			require.NoError(t, err)
			back, err = ParseXCalString(doc, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, r, *back)
		})
	}
}

func TestParseXCalString(t *testing.T) {
	t.Run("recur nested in a vtodo", func(t *testing.T) {
		doc := `<?xml version="1.0" encoding="UTF-8"?>
<icalendar xmlns="urn:ietf:params:xml:ns:icalendar-2.0">
  <vcalendar>
    <components>
      <vtodo>
        <properties>
          <rrule>
            <recur>
              <freq>WEEKLY</freq>
              <interval>2</interval>
              <byday>MO</byday>
              <byday>TH</byday>
              <wkst>MO</wkst>
            </recur>
          </rrule>
        </properties>
      </vtodo>
    </components>
  </vcalendar>
</icalendar>`
		r, err := ParseXCalString(doc, time.UTC)
		require.NoError(t, err)
		assert.Equal(t, Weekly, r.Frequency)
		assert.Equal(t, 2, r.Interval)
		assert.Equal(t, []Weekday{Monday, Thursday}, r.Weekdays)
	})

	t.Run("lower case values and bysetpos", func(t *testing.T) {
		doc := `<recur><freq>monthly</freq><byday>we</byday><bysetpos>-1</bysetpos><until>2024-09-30</until></recur>`
		r, err := ParseXCalString(doc, time.UTC)
		require.NoError(t, err)
		assert.Equal(t, NthWeekday{Position: Last, Weekday: Wednesday}, r.Monthly)
		assert.Equal(t, EndsOn{Date: date(2024, time.September, 30)}, r.End)
	})

	errs := map[string]string{
		"not xml":           `<recur><freq>DAILY</wrong></recur>`,
		"no recur":          `<vcalendar/>`,
		"no freq":           `<recur><interval>1</interval></recur>`,
		"bad interval":      `<recur><freq>DAILY</freq><interval>often</interval></recur>`,
		"bad byday":         `<recur><freq>WEEKLY</freq><byday>XX</byday></recur>`,
		"unsupported child": `<recur><freq>DAILY</freq><byhour>9</byhour></recur>`,
	}
	for name, doc := range errs {
		t.Run(name, func(t *testing.T) {
			_, err := ParseXCalString(doc, time.UTC)
			var recErr *Error
			assert.ErrorAs(t, err, &recErr)
		})
	}
}

func TestParseXCal_WrongElement(t *testing.T) {
	_, err := ParseXCal(etree.NewElement("rrule"), nil)
	assert.Error(t, err)
}

func TestParseByDay(t *testing.T) {
	wd, err := parseByDay("+2MO")
	require.NoError(t, err)
	assert.Equal(t, 2, wd.N())
	assert.Equal(t, 0, wd.Day())

	wd, err = parseByDay("-1su")
	require.NoError(t, err)
	assert.Equal(t, -1, wd.N())
	assert.Equal(t, 6, wd.Day())

	_, err = parseByDay("F")
	assert.Error(t, err)
	_, err = parseByDay("xFR")
	assert.Error(t, err)
}
