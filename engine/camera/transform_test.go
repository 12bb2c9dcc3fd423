package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-globe/common"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/s2"
)

func newLevelCamera(t *testing.T, level int) *cameraImpl {
	t.Helper()
	c := newTestCamera(t)
	if _, err := c.SetLevel(level); err != nil {
		t.Fatal(err)
	}
	c.Update()
	return c
}

func TestCenterPickHitsSurfaceBelowCamera(t *testing.T) {
	c := newLevelCamera(t, 4)
	want := c.Position().Len() - testRadius

	for name, hits := range map[string][]mgl64.Vec3{
		"ndc":    c.PickByNDC(0, 0),
		"canvas": c.PickByCanvas(400, 400),
		"view":   c.ViewIntersections(),
	} {
		if len(hits) != 2 {
			t.Fatalf("%s: %d hits, want 2", name, len(hits))
		}
		if d := hits[0].Sub(c.Position()).Len(); !near(d, want, 1e-6) {
			t.Errorf("%s: nearest hit at %v, want %v", name, d, want)
		}
		if !vecNear(hits[0], mgl64.Vec3{0, 0, testRadius}, 1e-6) {
			t.Errorf("%s: nearest hit %v", name, hits[0])
		}
	}
}

func TestPickDirection(t *testing.T) {
	c := newLevelCamera(t, 2)
	if d := c.PickDirectionByNDC(0, 0); !vecNear(d, c.LightDirection(), 1e-9) {
		t.Errorf("center pick direction = %v, want %v", d, c.LightDirection())
	}
	up := c.PickDirectionByNDC(0, 1)
	if up[1] <= 0 {
		t.Errorf("top pick direction %v does not point up", up)
	}
	angle := math.Acos(up.Dot(c.LightDirection())) * 180 / math.Pi
	if !near(angle, DefaultFov/2, 1e-6) {
		t.Errorf("top pick angle = %v, want %v", angle, DefaultFov/2)
	}
	if d := c.PickDirectionByCanvas(400, 0); !vecNear(d, up, 1e-9) {
		t.Errorf("canvas top pick = %v, want %v", d, up)
	}
}

func TestWorldNDCRoundTrip(t *testing.T) {
	c := newLevelCamera(t, 2)
	points := []mgl64.Vec3{
		{0, 0, testRadius},
		c.PickByNDC(0.5, -0.3)[0],
		{100, -200, testRadius + 300},
	}
	for _, p := range points {
		back := c.NDCToWorld(c.WorldToNDC(p))
		if !vecNear(back, p, 1e-6) {
			t.Errorf("NDCToWorld(WorldToNDC(%v)) = %v", p, back)
		}
	}

	ndc := c.WorldToNDC(c.PickByNDC(0.5, -0.3)[0])
	if !near(ndc[0], 0.5, 1e-7) || !near(ndc[1], -0.3, 1e-7) {
		t.Errorf("picked point projects to %v, want (0.5, -0.3)", ndc)
	}
}

func TestCameraToWorld(t *testing.T) {
	c := newLevelCamera(t, 1)
	if p := c.CameraToWorld(mgl64.Vec3{}); p != c.Position() {
		t.Errorf("CameraToWorld(origin) = %v, want %v", p, c.Position())
	}
	if v := c.CameraVectorToWorld(mgl64.Vec3{0, 0, -1}); !vecNear(v, mgl64.Vec3{0, 0, -1}, 1e-9) {
		t.Errorf("CameraVectorToWorld(forward) = %v", v)
	}
	if v := c.CameraVectorToWorld(mgl64.Vec3{1, 0, 0}); !vecNear(v, mgl64.Vec3{1, 0, 0}, 1e-9) {
		t.Errorf("CameraVectorToWorld(right) = %v", v)
	}
}

func TestIsWorldPointVisible(t *testing.T) {
	c := newLevelCamera(t, 2)
	low := c.PickByNDC(0, -0.8)[0]
	surface := mgl64.Vec3{0, 0, testRadius}

	cases := []struct {
		name string
		p    mgl64.Vec3
		opts VisibilityOptions
		want bool
	}{
		{"below camera", mgl64.Vec3{0, 0, testRadius}, VisibilityOptions{}, true},
		{"far side", mgl64.Vec3{0, 0, -testRadius}, VisibilityOptions{}, false},
		{"beyond horizon", mgl64.Vec3{testRadius, 0, 0}, VisibilityOptions{}, false},
		{"camera position", c.Position(), VisibilityOptions{}, false},
		{"within epsilon past surface", surface.Sub(mgl64.Vec3{0, 0, 4}), VisibilityOptions{}, true},
		{"beyond epsilon past surface", surface.Sub(mgl64.Vec3{0, 0, 6}), VisibilityOptions{}, false},
		{"low point default threshold", low, VisibilityOptions{}, true},
		{"low point tight threshold", low, VisibilityOptions{Threshold: 0.5}, false},
		{"low point negative threshold", low, VisibilityOptions{Threshold: -0.5}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.IsWorldPointVisible(tc.p, tc.opts); got != tc.want {
				t.Errorf("IsWorldPointVisible = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsGeoVisible(t *testing.T) {
	c := newLevelCamera(t, 2)
	if !c.IsGeoVisible(s2.LatLngFromDegrees(0, 0), VisibilityOptions{}) {
		t.Error("(0, 0) should be visible")
	}
	if c.IsGeoVisible(s2.LatLngFromDegrees(0, 180), VisibilityOptions{}) {
		t.Error("(0, 180) should be hidden")
	}
}

func TestIntersectWithPlanetOrdersNearestFirst(t *testing.T) {
	c := newLevelCamera(t, 0)
	line := common.Line{Origin: c.Position(), Direction: mgl64.Vec3{0, 0, -1}}
	hits := c.IntersectWithPlanet(line)
	if len(hits) != 2 {
		t.Fatalf("%d hits, want 2", len(hits))
	}
	if hits[0][2] < hits[1][2] {
		t.Errorf("hits not ordered nearest first: %v", hits)
	}

	miss := common.Line{Origin: c.Position(), Direction: mgl64.Vec3{0, 0, 1}}
	if got := c.IntersectWithPlanet(miss); len(got) != 0 {
		t.Errorf("ray away from the planet hit %v", got)
	}
}

func TestCameraFacingAwaySeesNothing(t *testing.T) {
	c := newLevelCamera(t, 0)
	c.LookAt(c.Position().Mul(2))

	if hits := c.ViewIntersections(); len(hits) != 0 {
		t.Errorf("ViewIntersections() = %v, want none", hits)
	}
	if hits := c.PickByNDC(0, 0); len(hits) != 0 {
		t.Errorf("PickByNDC(0, 0) = %v, want none", hits)
	}
	if c.IsWorldPointVisible(mgl64.Vec3{0, 0, testRadius}, VisibilityOptions{}) {
		t.Error("point behind the camera reported visible")
	}
}

func TestCameraPlane(t *testing.T) {
	c := newLevelCamera(t, 3)
	plane := c.CameraPlane()
	if d := plane.SignedDistance(mgl64.Vec3{}); !near(d, -c.Position().Len(), 1e-6) {
		t.Errorf("planet center signed distance = %v, want %v", d, -c.Position().Len())
	}
	if d := plane.SignedDistance(c.Position()); !near(d, 0, 1e-6) {
		t.Errorf("camera signed distance = %v, want 0", d)
	}
}
