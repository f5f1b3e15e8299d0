// Package reconcile runs the end-to-end linkage and menu fusion pipelines.
//
// A Service validates inputs, matches the two restaurant sets, merges the
// outcome into authoritative records, and summarizes the run. Menu runs
// collapse extraction candidates into a ranked item list. Each run receives
// a UUID that correlates its log lines and, when a history store is wired,
// the persisted run.
package reconcile
