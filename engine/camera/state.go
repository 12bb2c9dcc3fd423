package camera

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// State is a value copy of everything that defines a camera's view.
// It is produced by Snapshot and applied by Restore.
type State struct {
	Orientation mgl64.Mat4
	Projection  mgl64.Mat4
	Pitch       float64
	Fov         float64
	Aspect      float64
	Near        float64
	Far         float64
	Level       int
}

// Position returns the camera position held in the orientation matrix.
func (s State) Position() mgl64.Vec3 {
	return s.Orientation.Col(3).Vec3()
}

func (c *cameraImpl) Snapshot() State {
	return State{
		Orientation: c.orientation,
		Projection:  c.projection,
		Pitch:       c.pitch,
		Fov:         c.fov,
		Aspect:      c.aspect,
		Near:        c.near,
		Far:         c.far,
		Level:       c.level,
	}
}

func (c *cameraImpl) Restore(s State) error {
	if !(s.Fov > 0) || !(s.Aspect > 0) || !(s.Near > 0) {
		return fmt.Errorf("%w: fov %v aspect %v near %v", ErrInvalidParameter, s.Fov, s.Aspect, s.Near)
	}
	c.orientation = s.Orientation
	c.projection = s.Projection
	c.pitch = s.Pitch
	c.fov = s.Fov
	c.aspect = s.Aspect
	c.near = s.Near
	c.far = s.Far
	c.level = s.Level
	c.deriveMatrices()
	return nil
}

// scratch returns a detached copy of the camera used to compute destination states.
// The copy has no level, scheduler or animation, so positioning it never short-circuits and
// never signals the globe.
func (c *cameraImpl) scratch() *cameraImpl {
	cp := *c
	cp.level = -1
	cp.scheduler = nil
	cp.anim = nil
	return &cp
}
