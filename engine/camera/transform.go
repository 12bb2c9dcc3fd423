package camera

import (
	"math"

	"github.com/Carmen-Shannon/oxy-globe/common"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/s2"
)

// VisibilityOptions configures point and tile visibility tests.
type VisibilityOptions struct {
	// Threshold is the lower NDC y bound, applied as -|Threshold|. Zero means 1.
	Threshold float64
}

func (o VisibilityOptions) threshold() float64 {
	return common.Coalesce(math.Abs(o.Threshold), 1)
}

func (c *cameraImpl) WorldToNDC(p mgl64.Vec3) mgl64.Vec3 {
	return common.TransformPoint(c.projView, p)
}

func (c *cameraImpl) NDCToWorld(p mgl64.Vec3) mgl64.Vec3 {
	invProj, _ := common.Invert4(c.projection)
	inCamera := common.TransformPoint(invProj, p)
	return c.CameraToWorld(inCamera)
}

func (c *cameraImpl) CameraToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return c.orientation.Mul4x1(p.Vec4(1)).Vec3()
}

func (c *cameraImpl) CameraVectorToWorld(v mgl64.Vec3) mgl64.Vec3 {
	return c.CameraToWorld(v).Sub(c.Position()).Normalize()
}

func (c *cameraImpl) PickDirectionByNDC(x, y float64) mgl64.Vec3 {
	p := c.NDCToWorld(mgl64.Vec3{x, y, pickDepth})
	return p.Sub(c.Position()).Normalize()
}

func (c *cameraImpl) PickDirectionByCanvas(x, y float64) mgl64.Vec3 {
	w, h := c.globe.CanvasSize()
	nx, ny := common.CanvasToNDC(x, y, float64(w), float64(h))
	return c.PickDirectionByNDC(nx, ny)
}

func (c *cameraImpl) IntersectWithPlanet(line common.Line) []mgl64.Vec3 {
	pts := common.IntersectLineSphere(line, mgl64.Vec3{}, c.globe.Radius())
	if len(pts) == 2 {
		cam := c.Position()
		if pts[1].Sub(cam).Len() < pts[0].Sub(cam).Len() {
			pts[0], pts[1] = pts[1], pts[0]
		}
	}
	return pts
}

func (c *cameraImpl) PickByNDC(x, y float64) []mgl64.Vec3 {
	return c.IntersectWithPlanet(common.Line{Origin: c.Position(), Direction: c.PickDirectionByNDC(x, y)})
}

func (c *cameraImpl) PickByCanvas(x, y float64) []mgl64.Vec3 {
	return c.IntersectWithPlanet(common.Line{Origin: c.Position(), Direction: c.PickDirectionByCanvas(x, y)})
}

func (c *cameraImpl) ViewIntersections() []mgl64.Vec3 {
	return c.IntersectWithPlanet(common.Line{Origin: c.Position(), Direction: c.LightDirection()})
}

func (c *cameraImpl) IsWorldPointVisible(p mgl64.Vec3, opts VisibilityOptions) bool {
	return c.isWorldPointVisible(p, c.WorldToNDC(p), opts.threshold())
}

// isWorldPointVisible takes the already projected ndc of p.
// Points behind the camera are rejected before ndc is read; the perspective divide mirrors
// them into the clip box.
func (c *cameraImpl) isWorldPointVisible(p, ndc mgl64.Vec3, threshold float64) bool {
	cam := c.Position()
	if p == cam || c.LightDirection().Dot(p.Sub(cam)) <= 0 {
		return false
	}
	hits := c.IntersectWithPlanet(common.NewLine(cam, p))
	if len(hits) == 0 {
		return false
	}
	if p.Sub(cam).Len() >= hits[0].Sub(cam).Len()+visibilityEpsilon {
		return false
	}
	return ndc[0] >= -1 && ndc[0] <= 1 && ndc[1] >= -threshold && ndc[1] <= 1
}

func (c *cameraImpl) IsGeoVisible(ll s2.LatLng, opts VisibilityOptions) bool {
	return c.IsWorldPointVisible(common.GeographicToCartesian(ll, c.globe.Radius()), opts)
}

func (c *cameraImpl) CameraPlane() common.Plane {
	return common.NewPlaneFromPointNormal(c.Position(), c.LightDirection().Mul(-1))
}
