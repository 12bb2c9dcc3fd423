package window

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-globe/engine/frame"
)

func newBareWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		width:  1280,
		height: 720,
		frames: frame.NewManualScheduler(),
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func TestBuilderOptions(t *testing.T) {
	w := newBareWindow(
		WithTitle("globe"),
		WithSize(800, 600),
		WithMinSize(100, 50),
		WithMaxSize(1920, 1080),
	)

	if w.title != "globe" {
		t.Errorf("title = %q", w.title)
	}
	if w.Width() != 800 || w.Height() != 600 {
		t.Errorf("size = %dx%d, want 800x600", w.Width(), w.Height())
	}
	if w.minWidth != 100 || w.minHeight != 50 {
		t.Errorf("min size = %dx%d", w.minWidth, w.minHeight)
	}
	if w.maxWidth != 1920 || w.maxHeight != 1080 {
		t.Errorf("max size = %dx%d", w.maxWidth, w.maxHeight)
	}
}

func TestWithSizeKeepsDefaultsForNonPositive(t *testing.T) {
	w := newBareWindow(WithSize(0, -1))
	if w.Width() != 1280 || w.Height() != 720 {
		t.Errorf("size = %dx%d, want 1280x720", w.Width(), w.Height())
	}
}

func TestUninitializedWindow(t *testing.T) {
	w := newBareWindow()

	if w.IsRunning() {
		t.Error("IsRunning() = true without a platform window")
	}
	if w.SurfaceDescriptor() != nil {
		t.Error("SurfaceDescriptor() != nil without a platform window")
	}
	if err := w.Close(); err == nil {
		t.Error("Close() = nil without a platform window")
	}

	var called bool
	w.RequestFrame(func(time.Duration) { called = true })
	w.Run()
	if called {
		t.Error("frame dispatched by a window that is not running")
	}
	if w.frames.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", w.frames.Pending())
	}
}
