package timeaxis

import "time"

// calendarLayouts are tried in order by generic calendar parsing. Layouts
// without a zone are read as UTC.
var calendarLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05.999999999",
	"2006/01/02",
	"20060102150405",
	"20060102",
	time.RFC1123Z,
	time.RFC1123,
	time.ANSIC,
	"02 Jan 2006 15:04:05",
	"15:04:05.999999999",
}

// calendarParser remembers the last layout that matched, since a column
// almost always uses one layout throughout.
type calendarParser struct {
	last int
}

func (p *calendarParser) parse(s string) (time.Time, bool) {
	if t, err := time.Parse(calendarLayouts[p.last], s); err == nil {
		return t, true
	}
	for i, layout := range calendarLayouts {
		if i == p.last {
			continue
		}
		if t, err := time.Parse(layout, s); err == nil {
			p.last = i
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseCalendar parses a single timestamp with the generic layouts.
func ParseCalendar(s string) (time.Time, bool) {
	var p calendarParser
	return p.parse(s)
}
