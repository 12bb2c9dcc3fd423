package camera

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-globe/engine/metrics"
	"github.com/go-gl/mathgl/mgl64"
)

func (c *cameraImpl) TheoreticalDistance(level int) float64 {
	return baseDistanceFactor * c.globe.Radius() / math.Pow(2, float64(level))
}

func (c *cameraImpl) SafeThresholdLevel() int {
	base := baseDistanceFactor * c.globe.Radius()
	return int(math.Floor(math.Log2(base / (c.near * nearFactor))))
}

func (c *cameraImpl) SetLevel(level int) (bool, error) {
	clamped, changed, err := c.positionForLevel(level)
	if err != nil || !changed {
		return false, err
	}
	c.level = clamped
	c.logger.Debug("camera level changed", "level", clamped, "distance", c.DistanceToSurface())
	metrics.SetCameraState(c.level, c.fov)
	c.globe.Refresh()
	return true, nil
}

func (c *cameraImpl) Update() Matrices {
	if c.level >= 0 && c.anim == nil {
		safe := c.SafeThresholdLevel()
		if c.level > safe {
			c.placeAtLevel(safe)
			fov := FovForDeltaLevel(c.initialFov, float64(c.level-safe))
			if fov != c.fov {
				c.logger.Debug("compensating fov for near plane", "level", c.level, "safe_level", safe, "fov", fov)
			}
			c.setPerspective(fov, c.aspect, c.near, c.far)
		} else {
			c.placeAtLevel(c.level)
			c.setPerspective(c.initialFov, c.aspect, c.near, c.far)
		}
	}
	c.deriveMatrices()
	c.UpdateFar()
	metrics.SetCameraState(c.level, c.fov)
	return c.Matrices()
}

// positionForLevel validates and clamps level and, unless it equals the current level, moves the
// camera to that level's distance. The recorded level is left untouched.
//
// Returns:
//   - int: the clamped level
//   - bool: true if the camera moved
//   - error: ErrInvalidLevel if level is negative
func (c *cameraImpl) positionForLevel(level int) (int, bool, error) {
	if level < 0 {
		return 0, false, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	if maxLevel := c.globe.MaxLevel(); level > maxLevel {
		level = maxLevel
	}
	if level == c.level {
		return level, false, nil
	}
	c.placeAtLevel(level)
	return level, true, nil
}

// placeAtLevel moves the camera along its viewing axis to the level's distance from the planet
// center. A camera still at the origin is first aimed at the center from +Z.
func (c *cameraImpl) placeAtLevel(level int) {
	length := c.TheoreticalDistance(level) + c.globe.Radius()
	dir := c.LightDirection().Mul(-1)
	p := dir.Mul(length)
	if c.Position() == (mgl64.Vec3{}) {
		c.Look(p, mgl64.Vec3{}, DefaultUp)
		return
	}
	c.SetPosition(p)
}
