package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/scribeflow/scribeflow/model"
)

func TestPublishDelivers(t *testing.T) {
	publisher := NewPublisher(4)
	events, cancel := publisher.Subscribe()
	defer cancel()

	publisher.Publish(Event{Stage: model.StageResearching, Agent: "research", Status: StatusWorking})

	select {
	case event := <-events:
		assert.Equal(t, model.StageResearching, event.Stage)
		assert.Equal(t, StatusWorking, event.Status)
		assert.False(t, event.Time.IsZero(), "publish stamps missing timestamps")
	case <-time.After(time.Second):
		t.Fatal("expected an event")
	}
}

func TestPublishNeverBlocksOnSlowSubscriber(t *testing.T) {
	publisher := NewPublisher(2)
	events, cancel := publisher.Subscribe()
	defer cancel()

	// Nobody reads; the buffer holds 2, so the oldest events are dropped.
	for i := 0; i < 10; i++ {
		publisher.Publish(Event{Message: string(rune('a' + i))})
	}

	first := <-events
	second := <-events
	assert.Equal(t, "i", first.Message)
	assert.Equal(t, "j", second.Message)
	select {
	case <-events:
		t.Fatal("buffer should be drained")
	default:
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	publisher := NewPublisher(0)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			publisher.Publish(Event{Stage: model.StageWriting})
		}
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked without subscribers")
	}
}

func TestSubscribeCancelIsIdempotent(t *testing.T) {
	publisher := NewPublisher(1)
	events, cancel := publisher.Subscribe()
	cancel()
	cancel()

	_, open := <-events
	assert.False(t, open)
	publisher.Publish(Event{Stage: model.StageWriting})
}

func TestClose(t *testing.T) {
	publisher := NewPublisher(1)
	events, cancel := publisher.Subscribe()
	defer cancel()

	publisher.Close()
	publisher.Close()

	_, open := <-events
	assert.False(t, open, "close ends subscriber channels")
	publisher.Publish(Event{Stage: model.StageWriting})

	late, lateCancel := publisher.Subscribe()
	defer lateCancel()
	_, open = <-late
	assert.False(t, open, "subscribing after close yields a closed channel")
}

func TestStagePercent(t *testing.T) {
	assert.Equal(t, 5.0, StagePercent(model.StageInitializing, 0))
	assert.Equal(t, 20.0, StagePercent(model.StageResearching, 0))
	assert.Equal(t, 80.0, StagePercent(model.StageRevising, 0))
	assert.Equal(t, 90.0, StagePercent(model.StageRevising, 1))
	assert.Equal(t, 95.0, StagePercent(model.StageRevising, 2), "revision bonus capped below finalize")
	assert.Equal(t, 95.0, StagePercent(model.StageRevising, 9))
	assert.Equal(t, 100.0, StagePercent(model.StageCompleted, 3))
	assert.Equal(t, 0.0, StagePercent(model.StageFailed, 0))
}

func TestNilPublisherIsNoop(t *testing.T) {
	var publisher *Publisher
	publisher.Publish(Event{})
	publisher.Close()
}
