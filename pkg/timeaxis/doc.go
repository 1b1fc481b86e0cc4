// Package timeaxis decides how an x column maps onto a time axis.
//
// Benchmark logs mix numeric epoch counts and human-readable timestamps with
// no header metadata, so the decision is made in two tiers:
//
//  1. An explicit [Hint] (format name and optional epoch unit) is tried first.
//  2. If there is no hint, or parsing under the hint fails, numeric columns
//     are classified by the magnitude of their largest value and everything
//     else goes through generic calendar parsing.
//
// Individual values that do not parse become NaN; that is never an error.
// All functions are pure and independent of any plotting backend. Converted
// values are Unix seconds as float64.
package timeaxis
