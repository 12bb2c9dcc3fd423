package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Carmen-Shannon/oxy-globe/engine"
	"github.com/Carmen-Shannon/oxy-globe/engine/camera"
	"github.com/Carmen-Shannon/oxy-globe/engine/frame"
	"github.com/Carmen-Shannon/oxy-globe/engine/globe"
	"github.com/Carmen-Shannon/oxy-globe/engine/metrics"
	"github.com/Carmen-Shannon/oxy-globe/engine/renderer"
	"github.com/Carmen-Shannon/oxy-globe/engine/window"
)

// tourLevels are visited in order once the start level is reached, then the tour repeats.
var tourLevels = []int{4, 8, 12, 16, 12, 8, 4}

type demoConfig struct {
	Fov         float64
	Near        float64
	MetricsAddr string
	Headless    bool
	StartLevel  int
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	globeCfg := globe.LoadConfig(logger)
	demoCfg := loadDemoConfig(logger, globeCfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              demoCfg.MetricsAddr,
		Handler:           metricsMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("starting metrics server", "addr", demoCfg.MetricsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server listen error", "error", err)
		}
	}()

	err := run(ctx, logger, globeCfg, demoCfg)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		logger.Error("metrics server shutdown error", "error", serr)
	}

	if err != nil {
		logger.Error("globe demo failed", "error", err)
		os.Exit(1)
	}
	logger.Info("globe demo stopped")
}

func run(ctx context.Context, logger *slog.Logger, globeCfg globe.Config, demoCfg demoConfig) error {
	var (
		loop frame.Loop
		win  window.Window
		rend renderer.Renderer
	)

	if demoCfg.Headless {
		loop = frame.NewTickerLoop(60, nil)
	} else {
		w, err := window.NewWindow(
			window.WithTitle("oxy-globe"),
			window.WithSize(globeCfg.CanvasWidth, globeCfg.CanvasHeight),
		)
		if err != nil {
			return err
		}
		defer w.Close()

		r, err := renderer.NewRenderer(w.SurfaceDescriptor(), w.Width(), w.Height(),
			renderer.WithPresentMode(renderer.PresentModeVSync),
			renderer.WithLogger(logger),
		)
		if err != nil {
			return err
		}
		defer r.Release()

		globeCfg.CanvasWidth, globeCfg.CanvasHeight = w.Width(), w.Height()
		loop, win, rend = w, w, r
	}

	g := globe.NewGlobe(globe.WithConfig(globeCfg), globe.WithLogger(logger))
	cam, err := camera.NewCamera(
		camera.WithFov(demoCfg.Fov),
		camera.WithAspect(float64(globeCfg.CanvasWidth)/float64(globeCfg.CanvasHeight)),
		camera.WithNear(demoCfg.Near),
		camera.WithGlobe(g),
		camera.WithLogger(logger),
		camera.WithScheduler(loop),
	)
	if err != nil {
		return err
	}

	options := []engine.EngineBuilderOption{
		engine.WithLoop(loop),
		engine.WithCamera(cam),
		engine.WithLogger(logger),
		engine.WithProfiling(true),
		engine.WithTileSink(func(f engine.TileFrame) {
			logger.Debug("visible tiles", "level", f.Level, "count", len(f.Tiles))
		}),
	}
	if rend != nil {
		options = append(options, engine.WithUniformWriter(rend))
	}
	eng, err := engine.NewEngine(options...)
	if err != nil {
		return err
	}

	if win != nil {
		win.SetResizeCallback(func(width, height int) {
			eng.Resize(width, height)
			rend.Resize(width, height)
		})
		win.SetUpdateCallback(func(time.Duration) {
			if err := rend.RenderFrame(); err != nil {
				logger.Warn("frame not rendered", "error", err)
			}
		})
	}

	if _, err := cam.SetLevel(demoCfg.StartLevel); err != nil {
		return err
	}
	startTour(cam, logger)

	go func() {
		<-ctx.Done()
		eng.Quit()
	}()

	return eng.Run()
}

// startTour flies the camera through tourLevels, starting the next flight when one lands.
func startTour(cam camera.Camera, logger *slog.Logger) {
	next := 0
	var onDone func(level int)
	onDone = func(int) {
		level := tourLevels[next%len(tourLevels)]
		next++
		if err := cam.AnimateToLevel(level, onDone); err != nil {
			logger.Warn("tour step rejected", "level", level, "error", err)
		}
	}
	onDone(cam.Level())
}

func metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

func loadDemoConfig(logger *slog.Logger, globeCfg globe.Config) demoConfig {
	cfg := demoConfig{
		Fov:         camera.DefaultFov,
		Near:        1.0,
		MetricsAddr: ":9090",
		StartLevel:  2,
	}

	if v := os.Getenv("OXYGLOBE_FOV"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 || f >= 180 {
			logger.Warn("invalid OXYGLOBE_FOV value, using default", "value", v, "default", cfg.Fov)
		} else {
			cfg.Fov = f
		}
	}

	if v := os.Getenv("OXYGLOBE_NEAR"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			logger.Warn("invalid OXYGLOBE_NEAR value, using default", "value", v, "default", cfg.Near)
		} else {
			cfg.Near = f
		}
	}

	if v := os.Getenv("OXYGLOBE_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}

	if v := os.Getenv("OXYGLOBE_HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("invalid OXYGLOBE_HEADLESS value, using default", "value", v, "default", cfg.Headless)
		} else {
			cfg.Headless = b
		}
	}

	if v := os.Getenv("OXYGLOBE_START_LEVEL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > globeCfg.MaxLevel {
			logger.Warn("invalid OXYGLOBE_START_LEVEL value, using default", "value", v, "default", cfg.StartLevel)
		} else {
			cfg.StartLevel = n
		}
	}

	return cfg
}
