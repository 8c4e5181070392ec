// Package progress broadcasts workflow status to zero or more observers
// without ever blocking the producing coordinator. Each subscriber owns a
// bounded buffer; when an observer stops reading, the oldest buffered events
// are dropped in favour of new ones so the workflow never sees back-pressure.
package progress

import (
	"sync"
	"time"

	"github.com/scribeflow/scribeflow/internal/clock"
	"github.com/scribeflow/scribeflow/model"
)

// Status describes what a single agent is doing.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusWorking   Status = "working"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Event is one progress update emitted alongside a workflow transition.
type Event struct {
	Time     time.Time              `json:"time"`
	Stage    model.Stage            `json:"stage"`
	Agent    string                 `json:"agent"`
	Status   Status                 `json:"status"`
	Message  string                 `json:"message,omitempty"`
	Percent  float64                `json:"percent"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// DefaultBuffer is the per-subscriber event buffer size.
const DefaultBuffer = 64

type subscriber struct {
	ch chan Event
}

// offer delivers without blocking: when the buffer is full the oldest event
// is discarded to make room.
func (s *subscriber) offer(event Event) {
	for {
		select {
		case s.ch <- event:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

// Publisher fans events out to the current subscriber set. Safe for
// concurrent use; observers may join or leave at any point of the run.
type Publisher struct {
	mu          sync.RWMutex
	subscribers map[int]*subscriber
	nextID      int
	buffer      int
	closed      bool
}

// NewPublisher returns a publisher with the given per-subscriber buffer size;
// values below 1 fall back to DefaultBuffer.
func NewPublisher(buffer int) *Publisher {
	if buffer < 1 {
		buffer = DefaultBuffer
	}
	return &Publisher{
		subscribers: make(map[int]*subscriber),
		buffer:      buffer,
	}
}

// Publish delivers the event to every current subscriber. It never blocks,
// regardless of subscriber count or read speed. Publishing after Close is a
// no-op.
func (p *Publisher) Publish(event Event) {
	if p == nil {
		return
	}
	if event.Time.IsZero() {
		event.Time = clock.Now()
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	for _, sub := range p.subscribers {
		sub.offer(event)
	}
}

// Subscribe registers a new observer and returns its event channel together
// with a cancel function. The channel is closed when the observer cancels or
// the workflow reaches a terminal state. Subscribing to a closed publisher
// yields an already-closed channel.
func (p *Publisher) Subscribe() (<-chan Event, func()) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		ch := make(chan Event)
		close(ch)
		return ch, func() {}
	}
	id := p.nextID
	p.nextID++
	sub := &subscriber{ch: make(chan Event, p.buffer)}
	p.subscribers[id] = sub
	p.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			p.mu.Lock()
			if _, ok := p.subscribers[id]; ok {
				delete(p.subscribers, id)
				close(sub.ch)
			}
			p.mu.Unlock()
		})
	}
	return sub.ch, cancel
}

// Close ends the stream: all subscriber channels are closed and further
// Publish calls are ignored. Idempotent.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for id, sub := range p.subscribers {
		delete(p.subscribers, id)
		close(sub.ch)
	}
}

// stagePercent maps each stage to a rough completion estimate.
var stagePercent = map[model.Stage]float64{
	model.StageInitializing: 5,
	model.StageResearching:  20,
	model.StageWriting:      40,
	model.StageCritiquing:   60,
	model.StageRevising:     80,
	model.StageFinalizing:   95,
	model.StageCompleted:    100,
	model.StageFailed:       0,
}

// StagePercent estimates overall completion for a stage. Revision cycles add
// a small bonus so repeated critique passes still read as forward motion,
// capped below finalization.
func StagePercent(stage model.Stage, revision int) float64 {
	percent := stagePercent[stage]
	if stage == model.StageRevising && revision > 0 {
		bonus := float64(revision) * 10
		if bonus > 30 {
			bonus = 30
		}
		percent += bonus
		if percent > 95 {
			percent = 95
		}
	}
	return percent
}
