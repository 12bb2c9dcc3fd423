package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Perspective creates a right-handed perspective projection matrix with a [-1, 1] clip depth range.
// The matrix is stored in column-major order: m[0]=f/aspect, m[5]=f, m[10]=(far+near)/(near-far),
// m[11]=-1, m[14]=2*far*near/(near-far), where f = 1/tan(fov/2).
//
// Parameters:
//   - fovDeg: vertical field of view in degrees
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl64.Mat4: the projection matrix
func Perspective(fovDeg, aspect, near, far float64) mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(fovDeg), aspect, near, far)
}

// OrientationBasis builds the camera-to-world matrix of a viewer at eye looking toward target.
// The columns are the right, up and backward axes followed by the eye translation, so the
// inverse of the result is the usual look-at view matrix.
// The up vector must not be parallel to the viewing direction.
//
// Parameters:
//   - eye: viewer position in world space
//   - target: point the viewer looks at
//   - up: approximate up direction (typically 0,1,0)
//
// Returns:
//   - mgl64.Mat4: the camera-to-world matrix
func OrientationBasis(eye, target, up mgl64.Vec3) mgl64.Mat4 {
	z := eye.Sub(target).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x).Normalize()
	return mgl64.Mat4FromCols(x.Vec4(0), y.Vec4(0), z.Vec4(0), eye.Vec4(1))
}

// Invert4 computes the inverse of a 4x4 matrix.
// If the matrix is singular (determinant == 0) the zero matrix is returned with false.
//
// Parameters:
//   - m: source matrix
//
// Returns:
//   - mgl64.Mat4: the inverse matrix
//   - bool: true if the matrix was successfully inverted, false if singular
func Invert4(m mgl64.Mat4) (mgl64.Mat4, bool) {
	if m.Det() == 0 {
		return mgl64.Mat4{}, false
	}
	return m.Inv(), true
}

// TransformPoint applies m to the point p (w = 1) and performs the homogeneous divide.
// When the resulting w is zero the undivided xyz is returned.
//
// Parameters:
//   - m: transform matrix
//   - p: point to transform
//
// Returns:
//   - mgl64.Vec3: the transformed point
func TransformPoint(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	v := m.Mul4x1(p.Vec4(1))
	if v[3] == 0 {
		return v.Vec3()
	}
	return v.Vec3().Mul(1 / v[3])
}

// ToFloat32 narrows a column-major matrix to the float32 layout expected by GPU buffers.
func ToFloat32(m mgl64.Mat4) [16]float32 {
	var out [16]float32
	for i := range out {
		out[i] = float32(m[i])
	}
	return out
}

// Line is a ray from Origin along the unit vector Direction.
type Line struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// NewLine creates a Line starting at origin and passing through the point through.
//
// Parameters:
//   - origin: the ray origin
//   - through: any other point on the ray (must differ from origin)
//
// Returns:
//   - Line: the ray with a normalized direction
func NewLine(origin, through mgl64.Vec3) Line {
	return Line{Origin: origin, Direction: through.Sub(origin).Normalize()}
}

// PointAt returns the point at distance t along the direction from the origin.
func (l Line) PointAt(t float64) mgl64.Vec3 {
	return l.Origin.Add(l.Direction.Mul(t))
}

// IntersectLineSphere returns the points where the ray crosses a sphere.
// Crossings behind the origin are dropped, so the result holds zero, one (tangent or origin
// inside the sphere) or two points ordered by increasing distance from the origin.
//
// Parameters:
//   - line: the ray to test; its direction must be non-zero
//   - center: sphere center
//   - radius: sphere radius
//
// Returns:
//   - []mgl64.Vec3: intersection points, nearest first
func IntersectLineSphere(line Line, center mgl64.Vec3, radius float64) []mgl64.Vec3 {
	oc := line.Origin.Sub(center)
	a := line.Direction.Dot(line.Direction)
	if a == 0 {
		return nil
	}
	b := 2 * line.Direction.Dot(oc)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - 4*a*c
	if disc < 0 {
		return nil
	}

	var roots []float64
	if disc == 0 {
		roots = []float64{-b / (2 * a)}
	} else {
		sq := math.Sqrt(disc)
		// a > 0, so the first root is the smaller one.
		roots = []float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)}
	}

	var out []mgl64.Vec3
	for _, t := range roots {
		if t >= 0 {
			out = append(out, line.PointAt(t))
		}
	}
	return out
}

// CanvasToNDC converts a canvas pixel position to normalized device coordinates.
// The canvas origin is the top-left corner; NDC y grows upward.
//
// Parameters:
//   - x, y: canvas position in pixels
//   - width, height: canvas size in pixels
//
// Returns:
//   - ndcX, ndcY: the position in [-1, 1]
func CanvasToNDC(x, y, width, height float64) (ndcX, ndcY float64) {
	return 2*x/width - 1, 1 - 2*y/height
}

// NDCToCanvas is the inverse of CanvasToNDC.
func NDCToCanvas(ndcX, ndcY, width, height float64) (x, y float64) {
	return (ndcX + 1) * width / 2, (1 - ndcY) * height / 2
}

// GeographicToCartesian converts a geographic position to a point on a sphere.
// Longitude 0 / latitude 0 lies on +Z, the north pole on +Y and longitude 90 east on +X.
//
// Parameters:
//   - ll: geographic position
//   - radius: sphere radius
//
// Returns:
//   - mgl64.Vec3: the point in world space
func GeographicToCartesian(ll s2.LatLng, radius float64) mgl64.Vec3 {
	lat := ll.Lat.Radians()
	lng := ll.Lng.Radians()
	cosLat := math.Cos(lat)
	return mgl64.Vec3{
		radius * math.Sin(lng) * cosLat,
		radius * math.Sin(lat),
		radius * math.Cos(lng) * cosLat,
	}
}

// CartesianToGeographic converts a world-space point to its geographic position.
// The origin maps to 0/0.
func CartesianToGeographic(p mgl64.Vec3) s2.LatLng {
	r := p.Len()
	if r == 0 {
		return s2.LatLng{}
	}
	lat := math.Asin(mgl64.Clamp(p[1]/r, -1, 1))
	lng := math.Atan2(p[0], p[2])
	return s2.LatLng{Lat: s1.Angle(lat), Lng: s1.Angle(lng)}
}
