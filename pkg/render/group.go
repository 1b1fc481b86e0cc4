package render

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/benchviz/pkg/table"
)

// categoryOrder returns the distinct non-empty values in order of first
// appearance, or in ascending numeric order when the source column is
// numeric.
func categoryOrder(values []string, numeric bool) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	if numeric {
		sort.SliceStable(out, func(a, b int) bool {
			return numericKey(out[a]) < numericKey(out[b])
		})
	}
	return out
}

func numericKey(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.Inf(1)
	}
	return f
}

// categoricalPositions maps a text column onto positions 0..n-1 in order of
// first appearance. Missing cells map to NaN.
func categoricalPositions(col *table.Column) ([]string, []float64) {
	raw := col.Strings()
	labels := categoryOrder(raw, false)
	pos := indexOf(labels)
	xs := make([]float64, len(raw))
	for i, v := range raw {
		if v == "" {
			xs[i] = math.NaN()
			continue
		}
		xs[i] = float64(pos[v])
	}
	return labels, xs
}
