// Package frame provides the per-frame callback scheduling service the camera animator and the
// engine run on. A Scheduler queues one-shot callbacks for the next frame; a Loop also drives them.
package frame

import (
	"sync"
	"time"
)

// Callback is invoked once on the next frame with the frame timestamp, measured from the
// start of the loop that dispatched it.
type Callback func(now time.Duration)

// Scheduler queues callbacks for the next frame.
type Scheduler interface {
	// RequestFrame queues cb to run once on the next frame.
	// Callbacks requested while a frame is being dispatched run on the following frame.
	//
	// Parameters:
	//   - cb: the callback to run
	RequestFrame(cb Callback)
}

// Loop is a Scheduler that owns its own frame pump.
type Loop interface {
	Scheduler

	// Run dispatches frames until Stop is called. Blocks the calling goroutine.
	Run()

	// Stop ends Run. Safe to call multiple times.
	Stop()
}

// queue is the mutex-guarded pending callback list shared by the schedulers in this package.
type queue struct {
	mu      sync.Mutex
	pending []Callback
}

func (q *queue) push(cb Callback) {
	if cb == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, cb)
	q.mu.Unlock()
}

// dispatch runs every callback queued before the call, in request order.
// Returns the number of callbacks run.
func (q *queue) dispatch(now time.Duration) int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, cb := range batch {
		cb(now)
	}
	return len(batch)
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// ManualScheduler is a Scheduler whose frames are advanced explicitly by the owner.
// Used by headless hosts and tests.
type ManualScheduler struct {
	q queue
}

var _ Scheduler = &ManualScheduler{}

// NewManualScheduler creates an empty ManualScheduler.
//
// Returns:
//   - *ManualScheduler: the scheduler
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (m *ManualScheduler) RequestFrame(cb Callback) {
	m.q.push(cb)
}

// Advance runs one frame at the given timestamp.
//
// Parameters:
//   - now: the frame timestamp
//
// Returns:
//   - int: the number of callbacks run
func (m *ManualScheduler) Advance(now time.Duration) int {
	return m.q.dispatch(now)
}

// Pending returns the number of callbacks waiting for the next frame.
func (m *ManualScheduler) Pending() int {
	return m.q.len()
}
