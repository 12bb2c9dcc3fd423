package camera

import (
	"github.com/Carmen-Shannon/oxy-globe/common"
	"github.com/go-gl/mathgl/mgl64"
)

func (c *cameraImpl) SetPosition(p mgl64.Vec3) {
	c.orientation.SetCol(3, p.Vec4(1))
	c.UpdateFar()
}

func (c *cameraImpl) Look(eye, target, up mgl64.Vec3) {
	c.orientation = common.OrientationBasis(eye, target, up)
	c.UpdateFar()
}

func (c *cameraImpl) LookAt(target mgl64.Vec3) {
	c.Look(c.Position(), target, DefaultUp)
}

func (c *cameraImpl) LightDirection() mgl64.Vec3 {
	return c.orientation.Col(2).Vec3().Mul(-1).Normalize()
}

func (c *cameraImpl) DistanceToSurface() float64 {
	return c.Position().Len() - c.globe.Radius()
}
