package timeaxis

import (
	"math"
	"strings"
	"time"
)

// Tick label classes accepted by [TickLayout].
const (
	TickFull   = "full"
	TickMedium = "medium"
	TickShort  = "short"
)

// TickLayout returns the time layout for a tick label class. Unknown classes
// return false and leave tick labels to [AutoTickLayout].
func TickLayout(class string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(class)) {
	case TickFull:
		return "2006-01-02 15:04:05", true
	case TickMedium:
		return "15:04:05", true
	case TickShort:
		return "04:05", true
	}
	return "", false
}

const day = 24 * time.Hour

// AutoTickLayout picks a tick label layout for a time axis spanning span.
func AutoTickLayout(span time.Duration) string {
	switch {
	case span >= 2*365*day:
		return "2006"
	case span >= 60*day:
		return "2006-01"
	case span >= 2*day:
		return "2006-01-02"
	case span >= day:
		return "01-02 15:04"
	case span >= 2*time.Minute:
		return "15:04"
	default:
		return "15:04:05"
	}
}

// tickSteps are the candidate spacings for time ticks, smallest first.
var tickSteps = []time.Duration{
	time.Millisecond, 2 * time.Millisecond, 5 * time.Millisecond,
	10 * time.Millisecond, 20 * time.Millisecond, 50 * time.Millisecond,
	100 * time.Millisecond, 200 * time.Millisecond, 500 * time.Millisecond,
	time.Second, 2 * time.Second, 5 * time.Second, 10 * time.Second, 15 * time.Second, 30 * time.Second,
	time.Minute, 2 * time.Minute, 5 * time.Minute, 10 * time.Minute, 15 * time.Minute, 30 * time.Minute,
	time.Hour, 2 * time.Hour, 3 * time.Hour, 6 * time.Hour, 12 * time.Hour,
	day, 2 * day, 7 * day, 14 * day, 30 * day, 90 * day, 180 * day, 365 * day,
}

// Ticks places major ticks between min and max (Unix seconds) at a round
// calendar spacing, aiming for at most target ticks.
func Ticks(min, max float64, target int) []float64 {
	if !(max > min) || target < 2 || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return nil
	}
	span := max - min
	step := tickSteps[len(tickSteps)-1].Seconds()
	for _, s := range tickSteps {
		if span/s.Seconds() <= float64(target) {
			step = s.Seconds()
			break
		}
	}
	for span/step > float64(target) {
		step *= 2
	}

	var out []float64
	for v := math.Ceil(min/step) * step; v <= max+step*1e-9; v += step {
		out = append(out, v)
	}
	return out
}
