// Package globe holds the planet constants, the canvas size and the refresh signal the camera
// raises when the visible tile set must be recomputed.
package globe

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Globe defines the interface the camera consumes for planet constants and invalidation.
type Globe interface {
	// Radius returns the planet radius in world units.
	//
	// Returns:
	//   - float64: the radius
	Radius() float64

	// MaxLevel returns the deepest tile level.
	//
	// Returns:
	//   - int: the maximum level
	MaxLevel() int

	// CanvasSize returns the drawing surface size in pixels.
	//
	// Returns:
	//   - width, height: canvas size in pixels
	CanvasSize() (width, height int)

	// Resize updates the canvas size. Non-positive dimensions are ignored.
	//
	// Parameters:
	//   - width, height: new canvas size in pixels
	Resize(width, height int)

	// Refresh signals that the camera moved to a new level and the tile set is stale.
	// Invokes the refresh callback, if any, on the calling goroutine.
	Refresh()

	// SetRefreshCallback registers the function invoked by Refresh.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetRefreshCallback(callback func())

	// RefreshCount returns how many times Refresh has been called.
	//
	// Returns:
	//   - uint64: the refresh count
	RefreshCount() uint64

	// Config returns a copy of the current configuration.
	//
	// Returns:
	//   - Config: the configuration
	Config() Config
}

type globeImpl struct {
	mu     sync.RWMutex
	cfg    Config
	logger *slog.Logger

	onRefresh func()
	refreshes atomic.Uint64
}

var _ Globe = &globeImpl{}

// NewGlobe creates a Globe from DefaultConfig and the given options.
//
// Parameters:
//   - options: functional options to configure the globe
//
// Returns:
//   - Globe: the newly created globe
func NewGlobe(options ...GlobeBuilderOption) Globe {
	g := &globeImpl{
		cfg:    DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

func (g *globeImpl) Radius() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cfg.Radius
}

func (g *globeImpl) MaxLevel() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cfg.MaxLevel
}

func (g *globeImpl) CanvasSize() (width, height int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cfg.CanvasWidth, g.cfg.CanvasHeight
}

func (g *globeImpl) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	g.mu.Lock()
	g.cfg.CanvasWidth = width
	g.cfg.CanvasHeight = height
	g.mu.Unlock()
}

func (g *globeImpl) Refresh() {
	n := g.refreshes.Add(1)
	g.mu.RLock()
	cb := g.onRefresh
	g.mu.RUnlock()
	g.logger.Debug("globe refresh", "count", n)
	if cb != nil {
		cb()
	}
}

func (g *globeImpl) SetRefreshCallback(callback func()) {
	g.mu.Lock()
	g.onRefresh = callback
	g.mu.Unlock()
}

func (g *globeImpl) RefreshCount() uint64 {
	return g.refreshes.Load()
}

func (g *globeImpl) Config() Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cfg
}
