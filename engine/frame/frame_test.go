package frame

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestManualSchedulerRunsOncePerRequest(t *testing.T) {
	s := NewManualScheduler()
	var calls []time.Duration
	s.RequestFrame(func(now time.Duration) { calls = append(calls, now) })
	s.RequestFrame(nil)

	if s.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", s.Pending())
	}
	if n := s.Advance(16 * time.Millisecond); n != 1 {
		t.Fatalf("Advance ran %d callbacks, want 1", n)
	}
	if n := s.Advance(32 * time.Millisecond); n != 0 {
		t.Fatalf("second Advance ran %d callbacks, want 0", n)
	}
	if len(calls) != 1 || calls[0] != 16*time.Millisecond {
		t.Fatalf("calls = %v", calls)
	}
}

func TestManualSchedulerDefersReentrantRequests(t *testing.T) {
	s := NewManualScheduler()
	frames := 0
	var step Callback
	step = func(time.Duration) {
		frames++
		if frames < 3 {
			s.RequestFrame(step)
		}
	}
	s.RequestFrame(step)

	for i := 1; i <= 5; i++ {
		s.Advance(time.Duration(i) * time.Millisecond)
	}
	if frames != 3 {
		t.Fatalf("frames = %d, want 3", frames)
	}
}

func TestTickerLoopDispatchesAndStops(t *testing.T) {
	var ticks atomic.Int32
	l := NewTickerLoop(1000, func(time.Duration) { ticks.Add(1) })

	fired := make(chan time.Duration, 1)
	l.RequestFrame(func(now time.Duration) { fired <- now })

	done := make(chan struct{})
	go func() {
		l.Run()
		close(done)
	}()

	select {
	case now := <-fired:
		if now <= 0 {
			t.Errorf("frame timestamp = %v, want > 0", now)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("requested frame never ran")
	}

	l.Stop()
	l.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
	if ticks.Load() == 0 {
		t.Error("onFrame never called")
	}
}
