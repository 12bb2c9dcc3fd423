package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestExtractFrustum(t *testing.T) {
	proj := Perspective(90, 1, 1, 100)
	view, _ := Invert4(OrientationBasis(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}))
	f := ExtractFrustum(proj.Mul4(view))

	for i, p := range f.Planes {
		if math.Abs(p.Normal.Len()-1) > 1e-9 {
			t.Errorf("plane %d normal length = %v, want 1", i, p.Normal.Len())
		}
	}

	cases := []struct {
		name string
		p    mgl64.Vec3
		want bool
	}{
		{"origin", mgl64.Vec3{}, true},
		{"behind eye", mgl64.Vec3{0, 0, 20}, false},
		{"beyond far", mgl64.Vec3{0, 0, -200}, false},
		{"too far left", mgl64.Vec3{-50, 0, 0}, false},
		{"inside near corner", mgl64.Vec3{0.5, 0.5, 8}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.ContainsPoint(tc.p); got != tc.want {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}

	if !f.IntersectsSphere(mgl64.Vec3{-50, 0, 0}, 45) {
		t.Error("large sphere straddling the left plane should intersect")
	}
}

func TestPlaneSignedDistance(t *testing.T) {
	p := NewPlaneFromPointNormal(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{0, 0, 2})
	if d := p.SignedDistance(mgl64.Vec3{1, 1, 8}); math.Abs(d-3) > 1e-12 {
		t.Errorf("SignedDistance = %v, want 3", d)
	}
	if d := p.SignedDistance(mgl64.Vec3{}); math.Abs(d+5) > 1e-12 {
		t.Errorf("SignedDistance = %v, want -5", d)
	}
}
