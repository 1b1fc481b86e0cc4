package render

import (
	"math"

	"github.com/matzehuels/benchviz/pkg/chart"
)

// binGroups bins every group over one shared set of equal-width edges and
// converts counts to probability mass. With commonNorm every group is
// normalized by the total count across groups, otherwise by its own count.
func binGroups(names []string, groups [][]float64, bins int, commonNorm bool, element string) *chart.HistData {
	edges := histEdges(groups, bins)
	h := &chart.HistData{Edges: edges, Element: element}

	total := 0
	for _, g := range groups {
		total += len(g)
	}
	if total == 0 {
		return h
	}

	for i, g := range groups {
		counts := make([]float64, len(edges)-1)
		for _, v := range g {
			counts[binIndex(edges, v)]++
		}
		denom := float64(len(g))
		if commonNorm {
			denom = float64(total)
		}
		if denom > 0 {
			for j := range counts {
				counts[j] /= denom
			}
		}
		h.Groups = append(h.Groups, chart.HistGroup{Name: names[i], Weights: counts})
	}
	return h
}

// histEdges returns bins+1 strictly increasing equal-width edges spanning
// every value. A range too narrow to split into bins (including a single
// value) is widened to 0.5 on each side of its midpoint, or further where
// float spacing at that magnitude requires it.
func histEdges(groups [][]float64, bins int) []float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, g := range groups {
		for _, v := range g {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		lo, hi = 0, 1
	}

	edges := spanEdges(lo, hi, bins)
	mid := lo + (hi-lo)/2
	for half := 0.5; !increasing(edges) && !math.IsInf(half, 1); half *= 2 {
		edges = spanEdges(mid-half, mid+half, bins)
	}
	return edges
}

func spanEdges(lo, hi float64, bins int) []float64 {
	edges := make([]float64, bins+1)
	width := (hi - lo) / float64(bins)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[bins] = hi
	return edges
}

func increasing(edges []float64) bool {
	for i := 1; i < len(edges); i++ {
		if !(edges[i] > edges[i-1]) {
			return false
		}
	}
	return true
}

// binIndex locates v in edges. Bins are half-open except the last, which
// includes its right edge.
func binIndex(edges []float64, v float64) int {
	n := len(edges) - 1
	i := int((v - edges[0]) / (edges[n] - edges[0]) * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	// Correct for rounding at interior edges.
	for i > 0 && v < edges[i] {
		i--
	}
	for i < n-1 && v >= edges[i+1] {
		i++
	}
	return i
}
