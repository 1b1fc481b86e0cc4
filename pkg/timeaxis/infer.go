package timeaxis

import (
	"math"
	"strconv"
	"strings"
)

// Unit is an epoch sub-second unit.
type Unit string

// Epoch units.
const (
	Seconds Unit = "s"
	Millis  Unit = "ms"
	Micros  Unit = "us"
	Nanos   Unit = "ns"
)

// PerSecond returns how many units make up one second, or 0 for an unknown
// unit.
func (u Unit) PerSecond() float64 {
	switch u {
	case Seconds:
		return 1
	case Millis:
		return 1e3
	case Micros:
		return 1e6
	case Nanos:
		return 1e9
	}
	return 0
}

// Valid reports whether u is a known unit.
func (u Unit) Valid() bool { return u.PerSecond() != 0 }

// Encoding is how x values encode time.
type Encoding int

const (
	// None means the column is not treated as time.
	None Encoding = iota
	// Epoch means numeric counts of [Unit] since the Unix epoch.
	Epoch
	// Calendar means textual dates and times.
	Calendar
)

// String returns the lower-case encoding name.
func (e Encoding) String() string {
	switch e {
	case Epoch:
		return "epoch"
	case Calendar:
		return "calendar"
	default:
		return "none"
	}
}

// Source records which tier produced a [Decision].
type Source int

const (
	SourceNone Source = iota
	SourceHint
	SourceMagnitude
	SourceGeneric
)

// String returns the lower-case source name.
func (s Source) String() string {
	switch s {
	case SourceHint:
		return "hint"
	case SourceMagnitude:
		return "magnitude"
	case SourceGeneric:
		return "generic"
	default:
		return "none"
	}
}

// Hint is the operator's explicit description of the x column.
type Hint struct {
	Format string // unix, unix_s, unix_ms, unix_us, unix_ns, rfc3339, rfc3339_nano, iso8601
	Unit   string // s, ms, us, ns; overrides the unit implied by Format
}

// Empty reports whether no hint was given.
func (h Hint) Empty() bool { return h.Format == "" }

// Decision is the outcome of [Infer].
type Decision struct {
	Encoding Encoding
	Unit     Unit // set for Epoch
	Source   Source

	// HintFailed is set when a hint was given but could not be applied.
	HintFailed bool
}

// IsTime reports whether values are converted to time.
func (d Decision) IsTime() bool { return d.Encoding != None }

// UnitFromHint resolves the epoch unit of a unix-style hint. It returns
// false when the format is not a unix variant or the unit override is not a
// known unit.
func UnitFromHint(h Hint) (Unit, bool) {
	format := strings.ToLower(strings.TrimSpace(h.Format))
	if !strings.HasPrefix(format, "unix") {
		return "", false
	}
	if h.Unit != "" {
		u := Unit(strings.ToLower(strings.TrimSpace(h.Unit)))
		return u, u.Valid()
	}
	switch format {
	case "unix_ns":
		return Nanos, true
	case "unix_us":
		return Micros, true
	case "unix_ms":
		return Millis, true
	default:
		return Seconds, true
	}
}

// isCalendarHint reports whether format names a textual timestamp syntax.
func isCalendarHint(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "rfc3339", "rfc3339_nano", "iso8601":
		return true
	}
	return false
}

// Magnitude thresholds for epoch unit inference.
const (
	nanosThreshold   = 1e18
	microsThreshold  = 1e15
	millisThreshold  = 1e12
	secondsThreshold = 1e9
)

// UnitFromMagnitude infers the epoch unit from the largest value of a
// numeric column. Values below 1e9 are not treated as epoch counts.
func UnitFromMagnitude(max float64) (Unit, bool) {
	switch {
	case max >= nanosThreshold:
		return Nanos, true
	case max >= microsThreshold:
		return Micros, true
	case max >= millisThreshold:
		return Millis, true
	case max >= secondsThreshold:
		return Seconds, true
	}
	return "", false
}

// Infer decides the time encoding of a column from its raw cells. numeric
// tells whether the column's present cells all parse as numbers. Missing
// cells must be passed as "".
func Infer(hint Hint, values []string, numeric bool) Decision {
	d, _ := Resolve(hint, values, numeric)
	return d
}

// Resolve is [Infer] that also returns the converted column.
func Resolve(hint Hint, values []string, numeric bool) (Decision, []float64) {
	present := countPresent(values)
	hintFailed := false

	if !hint.Empty() {
		var d Decision
		switch {
		case strings.HasPrefix(strings.ToLower(strings.TrimSpace(hint.Format)), "unix"):
			if u, ok := UnitFromHint(hint); ok {
				d = Decision{Encoding: Epoch, Unit: u, Source: SourceHint}
			}
		case isCalendarHint(hint.Format):
			d = Decision{Encoding: Calendar, Source: SourceHint}
		}
		if d.Encoding != None {
			out, n := convert(values, d)
			if n > 0 || present == 0 {
				return d, out
			}
		}
		hintFailed = true
	}

	if numeric {
		if max, ok := maxFloat(values); ok {
			if u, ok := UnitFromMagnitude(max); ok {
				d := Decision{Encoding: Epoch, Unit: u, Source: SourceMagnitude, HintFailed: hintFailed}
				out, _ := convert(values, d)
				return d, out
			}
		}
	}

	d := Decision{Encoding: Calendar, Source: SourceGeneric, HintFailed: hintFailed}
	out, n := convert(values, d)
	if n > 0 {
		return d, out
	}

	d = Decision{Encoding: None, Source: SourceNone, HintFailed: hintFailed}
	out, _ = convert(values, d)
	return d, out
}

// Convert maps raw cells to Unix seconds under d. Cells that fail to parse
// become NaN. With Encoding None cells are parsed as plain numbers.
func Convert(values []string, d Decision) []float64 {
	out, _ := convert(values, d)
	return out
}

func convert(values []string, d Decision) ([]float64, int) {
	out := make([]float64, len(values))
	parsed := 0
	var cal calendarParser
	for i, raw := range values {
		v := math.NaN()
		s := strings.TrimSpace(raw)
		if s != "" {
			switch d.Encoding {
			case Epoch:
				if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) {
					v = f / d.Unit.PerSecond()
				}
			case Calendar:
				if t, ok := cal.parse(s); ok {
					v = float64(t.Unix()) + float64(t.Nanosecond())/1e9
				}
			default:
				if f, err := strconv.ParseFloat(s, 64); err == nil {
					v = f
				}
			}
		}
		if !math.IsNaN(v) {
			parsed++
		}
		out[i] = v
	}
	return out, parsed
}

func countPresent(values []string) int {
	n := 0
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}

func maxFloat(values []string) (float64, bool) {
	best, ok := math.Inf(-1), false
	for _, raw := range values {
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		if f > best {
			best = f
		}
		ok = true
	}
	return best, ok
}
