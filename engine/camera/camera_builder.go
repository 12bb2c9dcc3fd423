package camera

import (
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/oxy-globe/engine/frame"
	"github.com/Carmen-Shannon/oxy-globe/engine/globe"
)

type CameraBuilderOption func(*cameraImpl)

// WithFov sets the camera's initial vertical field of view. This is also the field of view
// Update restores whenever no compensation is needed.
//
// Parameters:
//   - fov: field of view in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithNear sets the near clipping plane distance. Near is fixed for the camera's lifetime.
//
// Parameters:
//   - near: near plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the near plane
func WithNear(near float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
	}
}

// WithFar sets the initial far clipping plane distance.
// Far is recomputed from the horizon distance as soon as the camera moves.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: functional option to set the far plane
func WithFar(far float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.far = far
	}
}

// WithGlobe attaches the globe providing the planet radius, maximum level, canvas size and
// the refresh signal.
//
// Parameters:
//   - g: the globe
//
// Returns:
//   - CameraBuilderOption: functional option to set the globe
func WithGlobe(g globe.Globe) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.globe = g
	}
}

// WithLogger sets the logger for camera diagnostics.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - CameraBuilderOption: functional option to set the logger
func WithLogger(logger *slog.Logger) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.logger = logger
	}
}

// WithScheduler attaches the frame scheduler level animations drive themselves with.
// Without a scheduler the owner advances animations by calling Tick.
//
// Parameters:
//   - s: the scheduler
//
// Returns:
//   - CameraBuilderOption: functional option to set the scheduler
func WithScheduler(s frame.Scheduler) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.scheduler = s
	}
}

// WithAnimationDuration sets the length of level animations.
//
// Parameters:
//   - d: the duration (ignored if <= 0)
//
// Returns:
//   - CameraBuilderOption: functional option to set the animation duration
func WithAnimationDuration(d time.Duration) CameraBuilderOption {
	return func(c *cameraImpl) {
		if d > 0 {
			c.animationDuration = d
		}
	}
}
