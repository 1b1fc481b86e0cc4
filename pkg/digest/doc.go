// Package digest computes the statistics digest of a load-test run.
//
// The digest is a flat, ordered set of string key/value pairs built from at
// most two facts about the results table:
//
//   - a five-number summary (min, p25, median, p75, max) plus count of the
//     latency_ms column, emitted only when at least one finite value exists;
//   - the most frequent value of the task_type column, emitted whenever the
//     column exists and has rows.
//
// Order statistics come from an injected [OrderStats] capability so the
// digest assembly can be tested without a particular statistics library.
// [Extract] adds the process contract: the run location comes from the
// environment, and the results file has a fixed name inside the run
// directory.
package digest
