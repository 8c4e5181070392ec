// Package metrics provides a lightweight aggregator that keeps usage
// counters (per-executor calls, per-stage elapsed time, revision cycles,
// estimated cost units) for a single workflow run. Every component holding
// the aggregator can record concurrently; readers always see a consistent
// point-in-time snapshot.
package metrics

import (
	"sync"
	"time"

	"github.com/scribeflow/scribeflow/model"
)

// StageInvocation is one completed (or failed) executor call.
type StageInvocation struct {
	Stage     model.Stage
	Executor  string
	Duration  time.Duration
	CostUnits float64
	Attempts  int
	Failed    bool
}

// Snapshot is a value copy of the aggregated counters. Attempts counts every
// executor attempt including retries, so Attempts minus the summed call
// counts is the number of retried calls.
type Snapshot struct {
	StartedAt      time.Time
	Calls          map[string]int
	StageDurations map[model.Stage]time.Duration
	CostUnits      float64
	Attempts       int
	Revisions      int
	Failures       int
}

// CallCount returns the number of recorded invocations for the executor.
func (s Snapshot) CallCount(executor string) int {
	return s.Calls[executor]
}

// Aggregator accumulates run metrics. Safe for concurrent use.
type Aggregator struct {
	mu             sync.Mutex
	startedAt      time.Time
	calls          map[string]int
	stageDurations map[model.Stage]time.Duration
	costUnits      float64
	attempts       int
	revisions      int
	failures       int
	onChange       func(Snapshot)
}

// New returns an empty aggregator stamped with the current time.
func New() *Aggregator {
	return &Aggregator{
		startedAt:      time.Now(),
		calls:          make(map[string]int),
		stageDurations: make(map[model.Stage]time.Duration),
	}
}

// Record adds one stage invocation to the counters. If an onChange callback
// is registered it is invoked with a copy of the updated state outside the
// critical section so slow observers never block the workflow.
func (a *Aggregator) Record(inv StageInvocation) {
	if a == nil {
		return
	}
	a.mu.Lock()
	a.calls[inv.Executor]++
	a.stageDurations[inv.Stage] += inv.Duration
	a.costUnits += inv.CostUnits
	a.attempts += inv.Attempts
	if inv.Failed {
		a.failures++
	}
	snapshot := a.snapshotLocked()
	cb := a.onChange
	a.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// AddRevision increments the revision cycle counter.
func (a *Aggregator) AddRevision() {
	if a == nil {
		return
	}
	a.mu.Lock()
	a.revisions++
	snapshot := a.snapshotLocked()
	cb := a.onChange
	a.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a consistent copy of the counters.
func (a *Aggregator) Snapshot() Snapshot {
	if a == nil {
		return Snapshot{}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// OnChange registers a callback invoked after every update. Passing nil
// disables it; only one callback can be active.
func (a *Aggregator) OnChange(cb func(Snapshot)) {
	if a == nil {
		return
	}
	a.mu.Lock()
	a.onChange = cb
	a.mu.Unlock()
}

func (a *Aggregator) snapshotLocked() Snapshot {
	calls := make(map[string]int, len(a.calls))
	for k, v := range a.calls {
		calls[k] = v
	}
	durations := make(map[model.Stage]time.Duration, len(a.stageDurations))
	for k, v := range a.stageDurations {
		durations[k] = v
	}
	return Snapshot{
		StartedAt:      a.startedAt,
		Calls:          calls,
		StageDurations: durations,
		CostUnits:      a.costUnits,
		Attempts:       a.attempts,
		Revisions:      a.revisions,
		Failures:       a.failures,
	}
}
