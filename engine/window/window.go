package window

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-globe/engine/frame"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window is a platform window that pumps the globe's frames.
// It implements frame.Loop: callbacks requested through RequestFrame run once per message
// loop iteration with the time elapsed since the window was created.
type Window interface {
	frame.Loop

	// SetUpdateCallback sets the function called each message loop iteration after the
	// frame callbacks.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func(now time.Duration))

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, the frame queue and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// minWidth and minHeight bound the framebuffer during resize.
	minWidth  int
	minHeight int

	// maxWidth and maxHeight bound the framebuffer during resize.
	maxWidth  int
	maxHeight int

	// width and height are the current framebuffer size in pixels.
	width  int
	height int

	// frames queues the callbacks for the next loop iteration.
	frames *frame.ManualScheduler

	// stopRequested ends Run on the next iteration.
	stopRequested atomic.Bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// onUpdate is called each iteration of the message loop (if set).
	onUpdate func(now time.Duration)

	// onResize is called when the framebuffer is resized.
	onResize func(width, height int)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Applies default values first, then each option in order.
// Must be called from the goroutine that will call Run.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the window
//   - error: error if the platform window cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:     "oxy-globe",
		minWidth:  320,
		minHeight: 200,
		maxWidth:  glfwDontCare,
		maxHeight: glfwDontCare,
		width:     1280,
		height:    720,
		frames:    frame.NewManualScheduler(),
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) RequestFrame(cb frame.Callback) {
	w.frames.RequestFrame(cb)
}

// Run runs the window message loop, dispatching one frame per iteration.
// Blocks until the window is closed or Stop is called.
func (w *engineWindow) Run() {
	for w.IsRunning() && !w.stopRequested.Load() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		now := platformNow(w)
		w.frames.Advance(now)
		if w.onUpdate != nil {
			w.onUpdate(now)
		}

		runtime.Gosched()
	}
}

// Stop ends Run after the current iteration. Safe to call from any goroutine.
func (w *engineWindow) Stop() {
	w.stopRequested.Store(true)
}

func (w *engineWindow) SetUpdateCallback(callback func(now time.Duration)) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
