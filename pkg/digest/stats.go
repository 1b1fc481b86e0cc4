package digest

import (
	"math"
	"slices"

	"github.com/montanaflynn/stats"
)

// OrderStats computes order statistics over a non-empty numeric sample.
type OrderStats interface {
	Min(data []float64) (float64, error)
	Max(data []float64) (float64, error)
	Median(data []float64) (float64, error)
	// Quantile returns the q-quantile (0 <= q <= 1) using linear
	// interpolation between closest ranks.
	Quantile(data []float64, q float64) (float64, error)
}

// DefaultOrderStats is backed by github.com/montanaflynn/stats.
type DefaultOrderStats struct{}

// Min implements [OrderStats].
func (DefaultOrderStats) Min(data []float64) (float64, error) { return stats.Min(data) }

// Max implements [OrderStats].
func (DefaultOrderStats) Max(data []float64) (float64, error) { return stats.Max(data) }

// Median implements [OrderStats].
func (DefaultOrderStats) Median(data []float64) (float64, error) { return stats.Median(data) }

// Quantile implements [OrderStats]. The position of the q-quantile in the
// sorted sample is (n-1)*q; fractional positions interpolate between the
// neighbouring values.
func (DefaultOrderStats) Quantile(data []float64, q float64) (float64, error) {
	if len(data) == 0 {
		return math.NaN(), stats.ErrEmptyInput
	}
	if q < 0 || q > 1 || math.IsNaN(q) {
		return math.NaN(), stats.ErrBounds
	}
	sorted := slices.Clone(data)
	slices.Sort(sorted)
	h := float64(len(sorted)-1) * q
	lo := int(math.Floor(h))
	if lo+1 >= len(sorted) {
		return sorted[lo], nil
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo]), nil
}

var _ OrderStats = DefaultOrderStats{}

// Summary is a five-number summary with its sample size.
type Summary struct {
	Min, P25, Median, P75, Max float64
	Count                      int
}

// Summarize computes the five-number summary of the finite values in data.
// It reports false when no finite value exists.
func Summarize(st OrderStats, data []float64) (Summary, bool, error) {
	finite := slices.DeleteFunc(slices.Clone(data), func(v float64) bool {
		return math.IsNaN(v) || math.IsInf(v, 0)
	})
	if len(finite) == 0 {
		return Summary{}, false, nil
	}

	var s Summary
	var err error
	if s.Min, err = st.Min(finite); err != nil {
		return Summary{}, false, err
	}
	if s.P25, err = st.Quantile(finite, 0.25); err != nil {
		return Summary{}, false, err
	}
	if s.Median, err = st.Median(finite); err != nil {
		return Summary{}, false, err
	}
	if s.P75, err = st.Quantile(finite, 0.75); err != nil {
		return Summary{}, false, err
	}
	if s.Max, err = st.Max(finite); err != nil {
		return Summary{}, false, err
	}
	s.Count = len(finite)
	return s, true, nil
}

// Mode returns the most frequent value. Among equally frequent values the
// one encountered first wins. It reports false for an empty input.
func Mode(values []string) (string, bool) {
	counts := make(map[string]int, len(values))
	var order []string
	for _, v := range values {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	best, bestN := "", 0
	for _, v := range order {
		if counts[v] > bestN {
			best, bestN = v, counts[v]
		}
	}
	return best, bestN > 0
}
