package recurrence

import (
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/teambition/rrule-go"
)

// XCalNamespace is the RFC 6321 iCalendar-in-XML namespace.
const XCalNamespace = "urn:ietf:params:xml:ns:icalendar-2.0"

const xcalUntilLayout = "2006-01-02T15:04:05Z"

// XCal renders r as an RFC 6321 <recur> element.
func (r Rule) XCal() *etree.Element {
	opt := r.ROption()

	recur := etree.NewElement("recur")
	recur.CreateAttr("xmlns", XCalNamespace)
	recur.CreateElement("freq").SetText(opt.Freq.String())
	if !opt.Until.IsZero() {
		recur.CreateElement("until").SetText(opt.Until.UTC().Format(xcalUntilLayout))
	}
	if opt.Count > 0 {
		recur.CreateElement("count").SetText(strconv.Itoa(opt.Count))
	}
	recur.CreateElement("interval").SetText(strconv.Itoa(opt.Interval))
	for _, wd := range opt.Byweekday {
		recur.CreateElement("byday").SetText(wd.String())
	}
	for _, d := range opt.Bymonthday {
		recur.CreateElement("bymonthday").SetText(strconv.Itoa(d))
	}
	for _, m := range opt.Bymonth {
		recur.CreateElement("bymonth").SetText(strconv.Itoa(m))
	}
	return recur
}

// XCalString renders r as an indented standalone XML document.
func (r Rule) XCalString() (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.SetRoot(r.XCal())
	doc.Indent(2)
	return doc.WriteToString()
}

// ParseXCalString parses a document whose root is, or contains, a <recur>.
func ParseXCalString(s string, loc *time.Location) (*Rule, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(s); err != nil {
		return nil, &Error{Type: ErrInvalidInput, Message: "malformed xCal document", Err: err}
	}
	root := doc.Root()
	if root == nil {
		return nil, invalidf("empty xCal document")
	}
	if root.Tag != "recur" {
		root = root.FindElement("//recur")
		if root == nil {
			return nil, invalidf("no <recur> element found")
		}
	}
	return ParseXCal(root, loc)
}

// ParseXCal reads an RFC 6321 <recur> element.
func ParseXCal(el *etree.Element, loc *time.Location) (*Rule, error) {
	if loc == nil {
		loc = time.Local
	}
	if el.Tag != "recur" {
		return nil, invalidf("expected <recur>, got <%s>", el.Tag)
	}

	var opt rrule.ROption
	freqSet := false
	for _, child := range el.ChildElements() {
		text := strings.TrimSpace(child.Text())
		var err error
		switch child.Tag {
		case "freq":
			opt.Freq, err = rrule.StrToFreq(strings.ToUpper(text))
			freqSet = err == nil
		case "until":
			opt.Until, err = parseXCalUntil(text, loc)
		case "count":
			opt.Count, err = strconv.Atoi(text)
		case "interval":
			opt.Interval, err = strconv.Atoi(text)
		case "byday":
			var wd rrule.Weekday
			wd, err = parseByDay(text)
			opt.Byweekday = append(opt.Byweekday, wd)
		case "bymonthday":
			err = appendInt(&opt.Bymonthday, text)
		case "bymonth":
			err = appendInt(&opt.Bymonth, text)
		case "bysetpos":
			err = appendInt(&opt.Bysetpos, text)
		case "wkst":
		default:
			return nil, unsupportedf("<%s> is not supported", child.Tag)
		}
		if err != nil {
			return nil, &Error{Type: ErrInvalidInput, Message: "malformed <" + child.Tag + ">", Err: err}
		}
	}
	if !freqSet {
		return nil, invalidf("<recur> has no <freq>")
	}
	return fromROption(opt, loc)
}

func parseXCalUntil(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(xcalUntilLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, loc); err == nil {
		return t, nil
	}
	return time.ParseInLocation(dateLayout, s, loc)
}

var byDayCodes = map[string]rrule.Weekday{
	"MO": rrule.MO, "TU": rrule.TU, "WE": rrule.WE, "TH": rrule.TH,
	"FR": rrule.FR, "SA": rrule.SA, "SU": rrule.SU,
}

// parseByDay reads values such as "FR", "+2MO" and "-1SU".
func parseByDay(s string) (rrule.Weekday, error) {
	s = strings.ToUpper(s)
	if len(s) < 2 {
		return rrule.Weekday{}, invalidf("weekday %q is too short", s)
	}
	wd, ok := byDayCodes[s[len(s)-2:]]
	if !ok {
		return rrule.Weekday{}, invalidf("unknown weekday %q", s)
	}
	if prefix := s[:len(s)-2]; prefix != "" {
		n, err := strconv.Atoi(prefix)
		if err != nil {
			return rrule.Weekday{}, err
		}
		return wd.Nth(n), nil
	}
	return wd, nil
}

func appendInt(dst *[]int, s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = append(*dst, n)
	return nil
}
