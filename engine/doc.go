// Package engine implements the workflow coordinator: the state machine that
// sequences research, writing and critique, applies the revision decision
// policy inside a bounded loop, drives the metrics aggregator and progress
// publisher on every transition, and produces a final result or a classified
// failure that preserves partial work.
package engine
