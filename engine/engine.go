package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-globe/common"
	"github.com/Carmen-Shannon/oxy-globe/engine/camera"
	"github.com/Carmen-Shannon/oxy-globe/engine/frame"
	"github.com/Carmen-Shannon/oxy-globe/engine/globe"
	"github.com/Carmen-Shannon/oxy-globe/engine/profiler"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultTileLevelOffset is how many levels deeper than the camera level tiles are searched.
// A tile of the camera's own level spans several canvas widths.
const DefaultTileLevelOffset = 3

// ErrEngineStopped is returned by Run when the engine has already been shut down.
var ErrEngineStopped = errors.New("engine stopped")

// TileFrame is the result of one visible tile search, handed to the tile sink.
type TileFrame struct {
	// Now is the timestamp of the frame the search ran in.
	Now time.Duration
	// Level is the tile level searched.
	Level int
	// Tiles are the renderable tiles at Level.
	Tiles []camera.VisibleTile
	// Matrices are the camera matrices the search ran against.
	Matrices camera.Matrices
	// Frustum is extracted from Matrices.ProjView.
	Frustum common.Frustum
}

// TileSink receives every new tile frame. It runs on a worker goroutine and owns its TileFrame.
type TileSink func(f TileFrame)

// UniformWriter uploads the camera uniform block, see renderer.CameraUniformBuffer.
type UniformWriter interface {
	// WriteCamera uploads u for the next draw.
	//
	// Parameters:
	//   - u: the camera uniform block
	WriteCamera(u camera.GPUCameraUniform)
}

// engine implements the Engine interface.
// Owns the frame loop and drives the camera and tile search on it.
type engine struct {
	loop   frame.Loop
	camera camera.Camera
	globe  globe.Globe
	logger *slog.Logger

	sink        TileSink
	sinkPool    worker.DynamicWorkerPool
	sinkWorkers int
	wg          sync.WaitGroup
	taskID      int

	uniform UniformWriter

	tileLevelOffset int
	searchOptions   camera.TileSearchOptions

	searched     bool
	lastProjView mgl64.Mat4
	lastRefresh  uint64
	lastFrame    TileFrame

	quitChannel chan struct{}
	quitOnce    sync.Once

	profiler         *profiler.Profiler
	profilingEnabled bool
}

// Engine drives a camera on a frame loop.
// Each frame it refreshes the camera, uploads its uniform and, when the view or the globe
// changed, searches the visible tiles and hands them to the tile sink.
type Engine interface {
	// Camera returns the camera driven by the engine.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Globe returns the globe the camera views.
	//
	// Returns:
	//   - globe.Globe: the globe
	Globe() globe.Globe

	// Loop returns the frame loop the engine runs on.
	//
	// Returns:
	//   - frame.Loop: the loop
	Loop() frame.Loop

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTileSink registers the function receiving tile frames.
	//
	// Parameters:
	//   - sink: the tile sink (or nil to stop dispatching)
	SetTileSink(sink TileSink)

	// SetUniformWriter registers the camera uniform upload target.
	//
	// Parameters:
	//   - w: the writer (or nil to disable uploads)
	SetUniformWriter(w UniformWriter)

	// Resize propagates a canvas size change to the camera aspect and the globe.
	// Zero sizes, as reported for minimized windows, are ignored.
	//
	// Parameters:
	//   - width: canvas width in pixels
	//   - height: canvas height in pixels
	Resize(width, height int)

	// Frame runs one frame of engine work at the given timestamp.
	// Run calls it on every loop frame; hosts driving their own loop may call it directly.
	//
	// Parameters:
	//   - now: the frame timestamp
	Frame(now time.Duration)

	// LastTileFrame returns the most recent tile search result.
	//
	// Returns:
	//   - TileFrame: the last frame, zero before the first search
	LastTileFrame() TileFrame

	// Run schedules the engine on its loop and runs the loop until Quit.
	//
	// Returns:
	//   - error: ErrEngineStopped if Quit was already called
	Run() error

	// Quit stops the loop. Run returns once in-flight tile sink calls finish.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine with the provided options.
// Without WithLoop a 60 fps ticker loop is used; without WithCamera a default camera is built
// on the engine's globe, loop and logger.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: error if the default camera cannot be created
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		logger:          slog.Default(),
		sinkWorkers:     2,
		tileLevelOffset: DefaultTileLevelOffset,
		quitChannel:     make(chan struct{}),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.loop == nil {
		e.loop = frame.NewTickerLoop(60, nil)
	}
	if e.camera == nil {
		if e.globe == nil {
			e.globe = globe.NewGlobe(globe.WithLogger(e.logger))
		}
		c, err := camera.NewCamera(
			camera.WithGlobe(e.globe),
			camera.WithScheduler(e.loop),
			camera.WithLogger(e.logger),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create camera: %w", err)
		}
		e.camera = c
	}
	e.globe = e.camera.Globe()

	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}
	e.sinkPool = worker.NewDynamicWorkerPool(e.sinkWorkers, 256, 1*time.Second)

	return e, nil
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Globe() globe.Globe {
	return e.globe
}

func (e *engine) Loop() frame.Loop {
	return e.loop
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTileSink(sink TileSink) {
	e.sink = sink
}

func (e *engine) SetUniformWriter(w UniformWriter) {
	e.uniform = w
}

func (e *engine) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if err := e.camera.SetAspect(float64(width) / float64(height)); err != nil {
		e.logger.Warn("ignoring resize", "width", width, "height", height, "error", err)
		return
	}
	e.globe.Resize(width, height)
}

func (e *engine) Frame(now time.Duration) {
	m := e.camera.Update()

	if e.uniform != nil {
		e.uniform.WriteCamera(e.camera.GPUUniform())
	}

	if level := e.camera.Level(); level >= 0 {
		refresh := e.globe.RefreshCount()
		if !e.searched || m.ProjView != e.lastProjView || refresh != e.lastRefresh {
			e.searchTiles(now, level, m)
			e.searched = true
			e.lastProjView = m.ProjView
			e.lastRefresh = refresh
		}
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}
}

// searchTiles runs the visible tile search for the camera level and dispatches the result.
func (e *engine) searchTiles(now time.Duration, level int, m camera.Matrices) {
	searchLevel := min(level+e.tileLevelOffset, e.globe.MaxLevel())
	tiles, err := e.camera.VisibleTiles(searchLevel, e.searchOptions)
	if err != nil {
		e.logger.Error("visible tile search failed", "level", searchLevel, "error", err)
		return
	}

	f := TileFrame{
		Now:      now,
		Level:    searchLevel,
		Tiles:    tiles,
		Matrices: m,
		Frustum:  e.camera.Frustum(),
	}
	e.lastFrame = f

	if e.sink == nil {
		return
	}
	// Run waits on wg for in-flight sink calls before returning.
	sink := e.sink
	e.wg.Add(1)
	id := e.taskID
	e.taskID++
	e.sinkPool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			defer e.wg.Done()
			sink(f)
			return nil, nil
		},
	})
}

func (e *engine) LastTileFrame() TileFrame {
	return e.lastFrame
}

func (e *engine) Run() error {
	select {
	case <-e.quitChannel:
		return ErrEngineStopped
	default:
	}

	var cb frame.Callback
	cb = func(now time.Duration) {
		select {
		case <-e.quitChannel:
			return
		default:
		}
		e.Frame(now)
		e.loop.RequestFrame(cb)
	}
	e.loop.RequestFrame(cb)

	e.logger.Info("engine running", "level", e.camera.Level(), "tile_level_offset", e.tileLevelOffset)
	e.loop.Run()
	e.wg.Wait()
	e.logger.Info("engine stopped")
	return nil
}

// Quit signals the engine to stop and shuts down the loop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
		e.loop.Stop()
		e.logger.Info("engine stopping")
	})
}
