// Package metrics exposes Prometheus collectors for the camera and the tile-visibility search.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Animation results recorded by AnimationEvent.
const (
	AnimationStarted   = "started"
	AnimationDropped   = "dropped"
	AnimationCompleted = "completed"
	AnimationCancelled = "cancelled"
)

var (
	cameraLevel = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "oxyglobe_camera_level",
			Help: "Current camera zoom level.",
		},
	)

	cameraFovDegrees = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "oxyglobe_camera_fov_degrees",
			Help: "Current camera vertical field of view in degrees.",
		},
	)

	visibleTiles = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "oxyglobe_visible_tiles",
			Help: "Number of tiles returned by the last visibility search per level.",
		},
		[]string{"level"},
	)

	tileChecksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "oxyglobe_tile_visibility_checks_total",
			Help: "Total number of single-tile visibility evaluations.",
		},
	)

	tileSearchSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "oxyglobe_tile_search_duration_seconds",
			Help:    "Duration of a visible-tile search in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.00005, 2, 14),
		},
	)

	animationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oxyglobe_camera_animations_total",
			Help: "Total number of level animations by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(cameraLevel)
	prometheus.MustRegister(cameraFovDegrees)
	prometheus.MustRegister(visibleTiles)
	prometheus.MustRegister(tileChecksTotal)
	prometheus.MustRegister(tileSearchSeconds)
	prometheus.MustRegister(animationsTotal)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// SetCameraState records the camera's level and field of view.
func SetCameraState(level int, fovDegrees float64) {
	cameraLevel.Set(float64(level))
	cameraFovDegrees.Set(fovDegrees)
}

// IncTileChecks counts one single-tile visibility evaluation.
func IncTileChecks() {
	tileChecksTotal.Inc()
}

// ObserveTileSearch records the outcome of a visible-tile search.
//
// Parameters:
//   - level: the searched level
//   - tiles: number of tiles found
//   - d: time spent searching
func ObserveTileSearch(level, tiles int, d time.Duration) {
	visibleTiles.WithLabelValues(strconv.Itoa(level)).Set(float64(tiles))
	tileSearchSeconds.Observe(d.Seconds())
}

// AnimationEvent counts a level animation transition.
//
// Parameters:
//   - result: one of AnimationStarted, AnimationDropped, AnimationCompleted, AnimationCancelled
func AnimationEvent(result string) {
	animationsTotal.WithLabelValues(result).Inc()
}
