// Package downsample selects row subsets of large tables before plotting.
//
// Two strategies exist. Stride keeps every k-th row in original order and
// preserves the shape of a time series. Random draws a sample without
// replacement and preserves the shape of a distribution; it is reproducible
// for a fixed seed.
package downsample

import (
	"math/rand/v2"
	"time"
)

// Strategy names a sampling strategy.
type Strategy string

// Sampling strategies.
const (
	StrategyStride Strategy = "stride"
	StrategyRandom Strategy = "random"
)

// Stride returns the row indices kept when n rows are reduced to about max.
// With step = floor(n/max) it keeps indices 0, step, 2*step, ... and at most
// floor(n/step) of them. It returns nil when no reduction is needed
// (max <= 0 or n <= max).
func Stride(n, max int) []int {
	if max <= 0 || n <= max {
		return nil
	}
	step := n / max
	keep := n / step
	out := make([]int, 0, keep)
	for i := 0; i < n && len(out) < keep; i += step {
		out = append(out, i)
	}
	return out
}

// Random returns k distinct indices in [0, n) drawn without replacement. The
// result is unordered. A nil seed draws from a time-based source, so only a
// seeded call is reproducible. It returns nil when no reduction is needed
// (k <= 0 or n <= k).
func Random(n, k int, seed *uint64) []int {
	if k <= 0 || n <= k {
		return nil
	}
	rng := newRand(seed)

	// Partial Fisher-Yates over a lazily materialized permutation.
	swapped := make(map[int]int, k)
	at := func(i int) int {
		if v, ok := swapped[i]; ok {
			return v
		}
		return i
	}
	out := make([]int, k)
	for i := 0; i < k; i++ {
		j := i + rng.IntN(n-i)
		out[i] = at(j)
		swapped[j] = at(i)
	}
	return out
}

func newRand(seed *uint64) *rand.Rand {
	s := uint64(time.Now().UnixNano())
	if seed != nil {
		s = *seed
	}
	return rand.New(rand.NewPCG(s, s^0xdeadbeef))
}

// Plan is the outcome of [Choose].
type Plan struct {
	Strategy Strategy
	Rows     []int // nil when every row is kept
	Ordered  bool  // Rows preserve the original relative order
}

// Applied reports whether rows were dropped.
func (p Plan) Applied() bool { return p.Rows != nil }

// Choose picks the rows to keep from n under the row cap. Only StrategyStride
// yields ordered rows; a random plan must be re-sorted by the caller where
// order matters.
func Choose(n, cap int, strategy Strategy, seed *uint64) Plan {
	if strategy == StrategyRandom {
		return Plan{Strategy: StrategyRandom, Rows: Random(n, cap, seed)}
	}
	return Plan{Strategy: StrategyStride, Rows: Stride(n, cap), Ordered: true}
}
