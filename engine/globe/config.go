package globe

import (
	"log/slog"
	"os"
	"strconv"
)

const (
	// EarthRadius is the WGS84 equatorial radius in meters.
	EarthRadius = 6378137.0

	// DefaultMaxLevel is the deepest tile level the globe pages in.
	DefaultMaxLevel = 18

	// LevelLimit is the deepest level a tile grid can address.
	LevelLimit = 30

	DefaultCanvasWidth  = 1280
	DefaultCanvasHeight = 720
)

// Config holds the planet and canvas constants shared by the camera and tile search.
type Config struct {
	Radius       float64
	MaxLevel     int
	CanvasWidth  int
	CanvasHeight int
}

// DefaultConfig returns the configuration for an Earth-sized globe on a 1280x720 canvas.
//
// Returns:
//   - Config: the default configuration
func DefaultConfig() Config {
	return Config{
		Radius:       EarthRadius,
		MaxLevel:     DefaultMaxLevel,
		CanvasWidth:  DefaultCanvasWidth,
		CanvasHeight: DefaultCanvasHeight,
	}
}

// LoadConfig reads the globe configuration from the environment, falling back to
// DefaultConfig for unset or invalid values.
//
// Recognized variables: OXYGLOBE_RADIUS, OXYGLOBE_MAX_LEVEL, OXYGLOBE_CANVAS_WIDTH,
// OXYGLOBE_CANVAS_HEIGHT.
//
// Parameters:
//   - logger: receives a warning for every rejected value
//
// Returns:
//   - Config: the loaded configuration
func LoadConfig(logger *slog.Logger) Config {
	cfg := DefaultConfig()

	if v := os.Getenv("OXYGLOBE_RADIUS"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r <= 0 {
			logger.Warn("invalid OXYGLOBE_RADIUS value, using default", "value", v, "default", cfg.Radius)
		} else {
			cfg.Radius = r
		}
	}

	if v := os.Getenv("OXYGLOBE_MAX_LEVEL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > LevelLimit {
			logger.Warn("invalid OXYGLOBE_MAX_LEVEL value, using default", "value", v, "default", cfg.MaxLevel)
		} else {
			cfg.MaxLevel = n
		}
	}

	if v := os.Getenv("OXYGLOBE_CANVAS_WIDTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid OXYGLOBE_CANVAS_WIDTH value, using default", "value", v, "default", cfg.CanvasWidth)
		} else {
			cfg.CanvasWidth = n
		}
	}

	if v := os.Getenv("OXYGLOBE_CANVAS_HEIGHT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid OXYGLOBE_CANVAS_HEIGHT value, using default", "value", v, "default", cfg.CanvasHeight)
		} else {
			cfg.CanvasHeight = n
		}
	}

	return cfg
}
