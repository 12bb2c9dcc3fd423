package engine

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-globe/engine/camera"
	"github.com/Carmen-Shannon/oxy-globe/engine/frame"
	"github.com/Carmen-Shannon/oxy-globe/engine/globe"
	"github.com/Carmen-Shannon/oxy-globe/engine/profiler"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler sets the profiler ticked each frame when profiling is enabled.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithLoop sets the frame loop the engine runs on, such as a window or a frame.TickerLoop.
// The default camera is scheduled on the same loop.
//
// Parameters:
//   - l: the frame loop
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLoop(l frame.Loop) EngineBuilderOption {
	return func(e *engine) {
		e.loop = l
	}
}

// WithCamera sets a pre-configured camera. Its globe becomes the engine's globe.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithGlobe sets the globe the default camera is built on. Ignored when WithCamera is used.
//
// Parameters:
//   - g: the globe
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithGlobe(g globe.Globe) EngineBuilderOption {
	return func(e *engine) {
		e.globe = g
	}
}

// WithLogger sets the structured logger.
//
// Parameters:
//   - logger: the logger (nil keeps slog.Default())
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) EngineBuilderOption {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTileSink sets the function receiving tile frames.
//
// Parameters:
//   - sink: the tile sink
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTileSink(sink TileSink) EngineBuilderOption {
	return func(e *engine) {
		e.sink = sink
	}
}

// WithSinkWorkers sets the number of workers dispatching tile frames.
// Values <= 0 keep the default of 2.
//
// Parameters:
//   - n: worker count
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSinkWorkers(n int) EngineBuilderOption {
	return func(e *engine) {
		if n > 0 {
			e.sinkWorkers = n
		}
	}
}

// WithUniformWriter sets the camera uniform upload target.
//
// Parameters:
//   - w: the writer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithUniformWriter(w UniformWriter) EngineBuilderOption {
	return func(e *engine) {
		e.uniform = w
	}
}

// WithTileLevelOffset sets how many levels deeper than the camera level tiles are searched.
// Negative values are treated as 0.
//
// Parameters:
//   - offset: the level offset (default DefaultTileLevelOffset)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTileLevelOffset(offset int) EngineBuilderOption {
	return func(e *engine) {
		e.tileLevelOffset = max(offset, 0)
	}
}

// WithTileSearchOptions sets the options passed to every visible tile search.
//
// Parameters:
//   - opts: the search options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTileSearchOptions(opts camera.TileSearchOptions) EngineBuilderOption {
	return func(e *engine) {
		e.searchOptions = opts
	}
}
