package globe

import "log/slog"

// GlobeBuilderOption is a functional option for configuring a Globe.
type GlobeBuilderOption func(*globeImpl)

// WithConfig replaces the whole configuration. Zero radius and canvas fields keep their
// defaults; MaxLevel is taken as given, zero included, when it lies in [0, LevelLimit].
//
// Parameters:
//   - cfg: the configuration to apply
//
// Returns:
//   - GlobeBuilderOption: option function to apply
func WithConfig(cfg Config) GlobeBuilderOption {
	return func(g *globeImpl) {
		if cfg.Radius > 0 {
			g.cfg.Radius = cfg.Radius
		}
		if cfg.MaxLevel >= 0 && cfg.MaxLevel <= LevelLimit {
			g.cfg.MaxLevel = cfg.MaxLevel
		}
		if cfg.CanvasWidth > 0 {
			g.cfg.CanvasWidth = cfg.CanvasWidth
		}
		if cfg.CanvasHeight > 0 {
			g.cfg.CanvasHeight = cfg.CanvasHeight
		}
	}
}

// WithRadius sets the planet radius.
//
// Parameters:
//   - radius: the radius in world units (ignored if <= 0)
//
// Returns:
//   - GlobeBuilderOption: option function to apply
func WithRadius(radius float64) GlobeBuilderOption {
	return func(g *globeImpl) {
		if radius > 0 {
			g.cfg.Radius = radius
		}
	}
}

// WithMaxLevel sets the deepest tile level.
//
// Parameters:
//   - level: the maximum level (ignored outside [0, LevelLimit])
//
// Returns:
//   - GlobeBuilderOption: option function to apply
func WithMaxLevel(level int) GlobeBuilderOption {
	return func(g *globeImpl) {
		if level >= 0 && level <= LevelLimit {
			g.cfg.MaxLevel = level
		}
	}
}

// WithCanvasSize sets the initial canvas size in pixels.
//
// Parameters:
//   - width, height: canvas size (ignored if either is <= 0)
//
// Returns:
//   - GlobeBuilderOption: option function to apply
func WithCanvasSize(width, height int) GlobeBuilderOption {
	return func(g *globeImpl) {
		if width > 0 && height > 0 {
			g.cfg.CanvasWidth = width
			g.cfg.CanvasHeight = height
		}
	}
}

// WithRefreshCallback registers the function invoked on every Refresh.
//
// Parameters:
//   - callback: the function to call
//
// Returns:
//   - GlobeBuilderOption: option function to apply
func WithRefreshCallback(callback func()) GlobeBuilderOption {
	return func(g *globeImpl) {
		g.onRefresh = callback
	}
}

// WithLogger sets the logger used for refresh diagnostics.
//
// Parameters:
//   - logger: the logger (ignored if nil)
//
// Returns:
//   - GlobeBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) GlobeBuilderOption {
	return func(g *globeImpl) {
		if logger != nil {
			g.logger = logger
		}
	}
}
