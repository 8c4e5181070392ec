package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/scribeflow/scribeflow/model"
)

func TestAggregatorRecord(t *testing.T) {
	aggregator := New()
	aggregator.Record(StageInvocation{
		Stage:     model.StageWriting,
		Executor:  "writing",
		Duration:  2 * time.Second,
		CostUnits: 100,
		Attempts:  1,
	})
	aggregator.Record(StageInvocation{
		Stage:     model.StageWriting,
		Executor:  "writing",
		Duration:  time.Second,
		CostUnits: 50,
		Attempts:  2,
	})
	aggregator.Record(StageInvocation{
		Stage:    model.StageCritiquing,
		Executor: "critique",
		Attempts: 1,
		Failed:   true,
	})
	aggregator.AddRevision()

	snapshot := aggregator.Snapshot()
	assert.Equal(t, 2, snapshot.CallCount("writing"))
	assert.Equal(t, 1, snapshot.CallCount("critique"))
	assert.Equal(t, 0, snapshot.CallCount("research"))
	assert.Equal(t, 3*time.Second, snapshot.StageDurations[model.StageWriting])
	assert.Equal(t, 150.0, snapshot.CostUnits)
	assert.Equal(t, 4, snapshot.Attempts, "retried calls contribute every attempt")
	assert.Equal(t, 1, snapshot.Revisions)
	assert.Equal(t, 1, snapshot.Failures)
	assert.False(t, snapshot.StartedAt.IsZero())
}

func TestAggregatorConcurrentRecord(t *testing.T) {
	aggregator := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			aggregator.Record(StageInvocation{Stage: model.StageResearching, Executor: "research", CostUnits: 1})
			aggregator.AddRevision()
			_ = aggregator.Snapshot()
		}()
	}
	wg.Wait()

	snapshot := aggregator.Snapshot()
	assert.Equal(t, 50, snapshot.CallCount("research"))
	assert.Equal(t, 50.0, snapshot.CostUnits)
	assert.Equal(t, 50, snapshot.Revisions)
}

func TestAggregatorSnapshotIsolation(t *testing.T) {
	aggregator := New()
	aggregator.Record(StageInvocation{Stage: model.StageWriting, Executor: "writing"})

	snapshot := aggregator.Snapshot()
	snapshot.Calls["writing"] = 99
	snapshot.StageDurations[model.StageWriting] = time.Hour

	fresh := aggregator.Snapshot()
	assert.Equal(t, 1, fresh.CallCount("writing"))
	assert.Equal(t, time.Duration(0), fresh.StageDurations[model.StageWriting])
}

func TestAggregatorOnChange(t *testing.T) {
	aggregator := New()
	var mu sync.Mutex
	var seen []Snapshot
	aggregator.OnChange(func(s Snapshot) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})

	aggregator.Record(StageInvocation{Stage: model.StageWriting, Executor: "writing"})
	aggregator.AddRevision()

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, seen, 2)
	assert.Equal(t, 1, seen[0].CallCount("writing"))
	assert.Equal(t, 1, seen[1].Revisions)
}

func TestNilAggregatorIsNoop(t *testing.T) {
	var aggregator *Aggregator
	aggregator.Record(StageInvocation{Executor: "writing"})
	aggregator.AddRevision()
	aggregator.OnChange(func(Snapshot) {})
	assert.Equal(t, Snapshot{}, aggregator.Snapshot())
}
