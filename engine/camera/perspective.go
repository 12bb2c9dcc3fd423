package camera

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-globe/common"
)

// setPerspective stores the perspective parameters, rebuilds the projection and rederives the
// dependent matrices. Callers validate the parameters.
func (c *cameraImpl) setPerspective(fov, aspect, near, far float64) {
	c.fov = fov
	c.aspect = aspect
	c.near = near
	c.far = far
	c.projection = common.Perspective(fov, aspect, near, far)
	c.deriveMatrices()
}

func (c *cameraImpl) SetFov(fov float64) error {
	if !(fov > 0) {
		return fmt.Errorf("%w: fov %v", ErrInvalidParameter, fov)
	}
	c.setPerspective(fov, c.aspect, c.near, c.far)
	return nil
}

func (c *cameraImpl) SetAspect(aspect float64) error {
	if !(aspect > 0) {
		return fmt.Errorf("%w: aspect %v", ErrInvalidParameter, aspect)
	}
	c.setPerspective(c.fov, aspect, c.near, c.far)
	return nil
}

// UpdateFar keeps far at the smallest value that still reaches the horizon.
// Inside the sphere there is no horizon, and close enough to the surface the horizon distance
// falls to near or below; in both cases the current far is kept.
func (c *cameraImpl) UpdateFar() {
	r := c.globe.Radius()
	d2 := c.Position().Dot(c.Position())
	far := c.far
	if d2 > r*r {
		far = farFactor * math.Sqrt(d2-r*r)
	}
	if !(far > c.near) {
		far = c.far
	}
	c.setPerspective(c.fov, c.aspect, c.near, far)
}

// FovForDeltaLevel returns the field of view that magnifies the view as much as moving
// deltaLevel levels closer: tan(new/2) = tan(fov/2) / 2^deltaLevel.
//
// Parameters:
//   - fov: the starting field of view in degrees
//   - deltaLevel: number of levels to compensate for (may be fractional)
//
// Returns:
//   - float64: the compensated field of view in degrees
func FovForDeltaLevel(fov, deltaLevel float64) float64 {
	tanOld := math.Tan(fov * math.Pi / 360)
	tanNew := tanOld / math.Pow(2, deltaLevel)
	return 2 * math.Atan(tanNew) * 180 / math.Pi
}

// DeltaLevelForFov is the inverse of FovForDeltaLevel: the number of levels a change of field
// of view from oldFov to newFov is equivalent to.
//
// Parameters:
//   - oldFov: the starting field of view in degrees
//   - newFov: the resulting field of view in degrees
//
// Returns:
//   - float64: log2(tan(oldFov/2) / tan(newFov/2)), positive when zooming in
func DeltaLevelForFov(oldFov, newFov float64) float64 {
	return math.Log2(math.Tan(oldFov*math.Pi/360) / math.Tan(newFov*math.Pi/360))
}
