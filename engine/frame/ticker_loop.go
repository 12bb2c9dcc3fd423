package frame

import (
	"sync"
	"time"
)

// TickerLoop is a Loop paced by a time.Ticker. It is the headless counterpart of the
// window-driven loop.
type TickerLoop struct {
	q queue

	rate    time.Duration
	onFrame func(now time.Duration)

	quitChannel chan struct{}
	quitOnce    sync.Once
}

var _ Loop = &TickerLoop{}

// NewTickerLoop creates a TickerLoop running at fps frames per second.
//
// Parameters:
//   - fps: target frames per second (defaults to 60 if <= 0)
//   - onFrame: optional function called every frame after the queued callbacks
//
// Returns:
//   - *TickerLoop: the loop, not yet running
func NewTickerLoop(fps float64, onFrame func(now time.Duration)) *TickerLoop {
	if fps <= 0 {
		fps = 60
	}
	return &TickerLoop{
		rate:        time.Duration(float64(time.Second) / fps),
		onFrame:     onFrame,
		quitChannel: make(chan struct{}),
	}
}

func (l *TickerLoop) RequestFrame(cb Callback) {
	l.q.push(cb)
}

func (l *TickerLoop) Run() {
	ticker := time.NewTicker(l.rate)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-l.quitChannel:
			return
		case t := <-ticker.C:
			now := t.Sub(start)
			l.q.dispatch(now)
			if l.onFrame != nil {
				l.onFrame(now)
			}
		}
	}
}

func (l *TickerLoop) Stop() {
	l.quitOnce.Do(func() {
		close(l.quitChannel)
	})
}
