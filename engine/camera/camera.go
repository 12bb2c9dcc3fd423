package camera

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/oxy-globe/common"
	"github.com/Carmen-Shannon/oxy-globe/engine/frame"
	"github.com/Carmen-Shannon/oxy-globe/engine/globe"
	"github.com/Carmen-Shannon/oxy-globe/engine/tile"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/s2"
)

var (
	// ErrInvalidParameter is returned when a perspective parameter or tile coordinate is out of range.
	ErrInvalidParameter = errors.New("invalid camera parameter")

	// ErrInvalidLevel is returned when a negative level is requested.
	ErrInvalidLevel = errors.New("invalid level")
)

const (
	// DefaultFov is the vertical field of view in degrees used when none is configured.
	DefaultFov = 45.0

	// DefaultAnimationDuration is the length of a level animation.
	DefaultAnimationDuration = 600 * time.Millisecond

	// DefaultPitch is the camera pitch in degrees; 90 looks straight down at the planet center.
	DefaultPitch = 90.0

	// nearFactor scales near when deciding how close the camera may get to the surface.
	nearFactor = 0.6

	// baseDistanceFactor times the planet radius is the surface distance at level 0.
	baseDistanceFactor = 1.23

	// farFactor pads the horizon distance used as the far plane.
	farFactor = 1.05

	// pickDepth is the NDC depth used to unproject pick rays.
	pickDepth = 0.499

	// visibilityEpsilon is the world-space slack when comparing a point to the first planet hit.
	visibilityEpsilon = 5.0
)

// DefaultUp is the up direction used by Look when none is given.
var DefaultUp = mgl64.Vec3{0, 1, 0}

// Matrices bundles the matrices derived from the camera state.
type Matrices struct {
	// View is the world-to-camera transform, the inverse of the orientation matrix.
	View mgl64.Mat4
	// Projection is the perspective projection.
	Projection mgl64.Mat4
	// ProjView is Projection * View, the matrix consumed by the renderer.
	ProjView mgl64.Mat4
}

type cameraImpl struct {
	globe     globe.Globe
	logger    *slog.Logger
	scheduler frame.Scheduler

	initialFov float64
	fov        float64
	aspect     float64
	near       float64
	far        float64
	pitch      float64
	level      int

	orientation mgl64.Mat4
	projection  mgl64.Mat4
	view        mgl64.Mat4
	projView    mgl64.Mat4

	animationDuration time.Duration
	anim              *animation
}

// Camera defines the interface for the globe camera.
// The camera owns the viewpoint, derives the projection and view matrices from it, maps screen
// positions to rays against the planet and decides which tiles of a level are visible.
// A Camera is owned by a single goroutine (the frame goroutine) and is not safe for concurrent use.
type Camera interface {
	// Position returns the camera position in world space.
	//
	// Returns:
	//   - mgl64.Vec3: the position
	Position() mgl64.Vec3

	// Orientation returns the camera-to-world matrix. Its columns are the right, up and
	// backward axes followed by the position.
	//
	// Returns:
	//   - mgl64.Mat4: the orientation matrix
	Orientation() mgl64.Mat4

	// Fov returns the current vertical field of view in degrees.
	//
	// Returns:
	//   - float64: field of view in degrees
	Fov() float64

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float64: the aspect ratio
	Aspect() float64

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float64: near plane distance
	Near() float64

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float64: far plane distance
	Far() float64

	// Pitch returns the camera pitch in degrees.
	//
	// Returns:
	//   - float64: pitch in degrees
	Pitch() float64

	// Level returns the current zoom level, or -1 before the first SetLevel.
	//
	// Returns:
	//   - int: the level
	Level() int

	// Globe returns the globe the camera orbits.
	//
	// Returns:
	//   - globe.Globe: the globe
	Globe() globe.Globe

	// Matrices returns the currently derived matrices without changing any state.
	//
	// Returns:
	//   - Matrices: view, projection and projection * view
	Matrices() Matrices

	// Update is the per-frame refresh. It repositions the camera for its level, compensating
	// with a narrower field of view when the level is deeper than the near plane allows,
	// then rederives the view matrix, the far plane and the projection * view matrix.
	// Repositioning is skipped while a level animation is running or before the first SetLevel.
	//
	// Returns:
	//   - Matrices: the refreshed matrices
	Update() Matrices

	// SetFov sets the vertical field of view and rebuilds the projection.
	//
	// Parameters:
	//   - fov: field of view in degrees (must be > 0)
	//
	// Returns:
	//   - error: ErrInvalidParameter if fov is not positive
	SetFov(fov float64) error

	// SetAspect sets the aspect ratio and rebuilds the projection.
	//
	// Parameters:
	//   - aspect: width / height (must be > 0)
	//
	// Returns:
	//   - error: ErrInvalidParameter if aspect is not positive
	SetAspect(aspect float64) error

	// UpdateFar sets far to 1.05 times the distance from the camera to the planet's horizon and
	// rebuilds the projection. Idempotent.
	UpdateFar()

	// SetPosition moves the camera without changing its orientation and updates the far plane.
	//
	// Parameters:
	//   - p: the new position in world space
	SetPosition(p mgl64.Vec3)

	// Look places the camera at eye facing target and updates the far plane.
	// up must not be parallel to target - eye.
	//
	// Parameters:
	//   - eye: camera position
	//   - target: point to look at
	//   - up: approximate up direction (DefaultUp for a north-up view)
	Look(eye, target, up mgl64.Vec3)

	// LookAt turns the camera toward target from its current position using DefaultUp.
	//
	// Parameters:
	//   - target: point to look at
	LookAt(target mgl64.Vec3)

	// LightDirection returns the unit viewing direction (the negated backward axis).
	//
	// Returns:
	//   - mgl64.Vec3: the viewing direction
	LightDirection() mgl64.Vec3

	// DistanceToSurface returns the distance from the camera to the planet surface.
	//
	// Returns:
	//   - float64: |position| - radius
	DistanceToSurface() float64

	// TheoreticalDistance returns the camera-to-surface distance for a level:
	// 1.23 * radius / 2^level.
	//
	// Parameters:
	//   - level: the zoom level
	//
	// Returns:
	//   - float64: the surface distance
	TheoreticalDistance(level int) float64

	// SafeThresholdLevel returns the deepest level at which the camera can be placed without the
	// surface coming closer than 0.6 * near.
	//
	// Returns:
	//   - int: the safe level
	SafeThresholdLevel() int

	// SetLevel positions the camera for a level and signals the globe to refresh.
	// Levels above the globe's maximum are clamped. Setting the current level is a no-op.
	//
	// Parameters:
	//   - level: the zoom level (must be >= 0)
	//
	// Returns:
	//   - bool: true if the camera moved and the globe was refreshed
	//   - error: ErrInvalidLevel if level is negative
	SetLevel(level int) (bool, error)

	// AnimateToLevel starts a linear flight to the position of a level over the animation
	// duration. The request is dropped if an animation is already running.
	// With a scheduler attached the animation drives itself through RequestFrame; otherwise
	// the owner must call Tick every frame.
	//
	// Parameters:
	//   - level: the target level (must be >= 0, clamped to the globe's maximum)
	//   - onDone: optional function called with the level once the animation completes
	//
	// Returns:
	//   - error: ErrInvalidLevel if level is negative
	AnimateToLevel(level int, onDone func(level int)) error

	// Tick advances a running animation to the frame timestamp now.
	//
	// Parameters:
	//   - now: monotonic frame timestamp
	//
	// Returns:
	//   - bool: true if the animation needs more frames
	Tick(now time.Duration) bool

	// IsAnimating reports whether a level animation is running.
	//
	// Returns:
	//   - bool: true while animating
	IsAnimating() bool

	// CancelAnimation stops a running animation where it is. The completion callback is not called.
	CancelAnimation()

	// Snapshot copies the camera state.
	//
	// Returns:
	//   - State: the state snapshot
	Snapshot() State

	// Restore replaces the camera state with a snapshot, including its matrices.
	//
	// Parameters:
	//   - s: the snapshot to restore
	//
	// Returns:
	//   - error: ErrInvalidParameter if the snapshot holds a non-positive fov, aspect or near
	Restore(s State) error

	// WorldToNDC projects a world-space point to normalized device coordinates.
	//
	// Parameters:
	//   - p: the world-space point
	//
	// Returns:
	//   - mgl64.Vec3: the point in NDC
	WorldToNDC(p mgl64.Vec3) mgl64.Vec3

	// NDCToWorld unprojects a point in normalized device coordinates to world space.
	//
	// Parameters:
	//   - p: the NDC point
	//
	// Returns:
	//   - mgl64.Vec3: the world-space point
	NDCToWorld(p mgl64.Vec3) mgl64.Vec3

	// CameraToWorld transforms a point from camera space to world space.
	//
	// Parameters:
	//   - p: the camera-space point
	//
	// Returns:
	//   - mgl64.Vec3: the world-space point
	CameraToWorld(p mgl64.Vec3) mgl64.Vec3

	// CameraVectorToWorld transforms a direction from camera space to a unit world direction.
	//
	// Parameters:
	//   - v: the camera-space direction
	//
	// Returns:
	//   - mgl64.Vec3: the normalized world direction
	CameraVectorToWorld(v mgl64.Vec3) mgl64.Vec3

	// PickDirectionByNDC returns the unit direction from the camera through an NDC position.
	//
	// Parameters:
	//   - x, y: NDC position
	//
	// Returns:
	//   - mgl64.Vec3: the pick direction
	PickDirectionByNDC(x, y float64) mgl64.Vec3

	// PickDirectionByCanvas returns the unit direction from the camera through a canvas pixel.
	//
	// Parameters:
	//   - x, y: canvas position in pixels, origin top-left
	//
	// Returns:
	//   - mgl64.Vec3: the pick direction
	PickDirectionByCanvas(x, y float64) mgl64.Vec3

	// IntersectWithPlanet intersects a ray with the planet. Crossings behind the ray origin
	// are not reported.
	//
	// Parameters:
	//   - line: the ray to intersect
	//
	// Returns:
	//   - []mgl64.Vec3: zero, one or two points, nearest to the camera first
	IntersectWithPlanet(line common.Line) []mgl64.Vec3

	// PickByNDC intersects the pick ray through an NDC position with the planet.
	//
	// Parameters:
	//   - x, y: NDC position
	//
	// Returns:
	//   - []mgl64.Vec3: intersections, nearest first
	PickByNDC(x, y float64) []mgl64.Vec3

	// PickByCanvas intersects the pick ray through a canvas pixel with the planet.
	//
	// Parameters:
	//   - x, y: canvas position in pixels, origin top-left
	//
	// Returns:
	//   - []mgl64.Vec3: intersections, nearest first
	PickByCanvas(x, y float64) []mgl64.Vec3

	// ViewIntersections intersects the line of sight with the planet.
	//
	// Returns:
	//   - []mgl64.Vec3: intersections, nearest first
	ViewIntersections() []mgl64.Vec3

	// IsWorldPointVisible reports whether a world-space point is ahead of the camera, not hidden
	// by the planet and inside the canvas. The lower canvas bound is -|threshold| in NDC.
	//
	// Parameters:
	//   - p: the world-space point
	//   - opts: visibility options
	//
	// Returns:
	//   - bool: true if visible
	IsWorldPointVisible(p mgl64.Vec3, opts VisibilityOptions) bool

	// IsGeoVisible is IsWorldPointVisible for a point on the planet surface.
	//
	// Parameters:
	//   - ll: geographic position
	//   - opts: visibility options
	//
	// Returns:
	//   - bool: true if visible
	IsGeoVisible(ll s2.LatLng, opts VisibilityOptions) bool

	// CameraPlane returns the plane through the camera perpendicular to the viewing direction.
	// Points in front of the camera have a negative signed distance.
	//
	// Returns:
	//   - common.Plane: the plane
	CameraPlane() common.Plane

	// TileVisibility evaluates how a tile projects onto the canvas.
	//
	// Parameters:
	//   - g: the tile
	//   - opts: visibility options
	//
	// Returns:
	//   - TileVisibility: the per-corner visibility and screen footprint
	//   - error: ErrInvalidLevel or ErrInvalidParameter for out-of-range tiles
	TileVisibility(g tile.Grid, opts VisibilityOptions) (TileVisibility, error)

	// VisibleTiles searches the renderable tiles of a level, walking outward from the tile under
	// the vertical visible center of the canvas.
	//
	// Parameters:
	//   - level: the level (must be >= 0, clamped to the globe's maximum)
	//   - opts: search options
	//
	// Returns:
	//   - []VisibleTile: the renderable tiles, each at most once
	//   - error: ErrInvalidLevel if level is negative
	VisibleTiles(level int, opts TileSearchOptions) ([]VisibleTile, error)

	// Frustum returns the view frustum planes of the current projection * view matrix.
	//
	// Returns:
	//   - common.Frustum: the frustum
	Frustum() common.Frustum

	// GPUUniform returns the camera uniform block for upload.
	//
	// Returns:
	//   - GPUCameraUniform: the uniform block
	GPUUniform() GPUCameraUniform
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera at the world origin with no level set.
// Defaults: fov 45 degrees, aspect 1, near 1, far 100, a globe built from globe.DefaultConfig
// and slog.Default for logging.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
//   - error: ErrInvalidParameter if fov, aspect or near is not positive, or far is not greater than near
func NewCamera(options ...CameraBuilderOption) (Camera, error) {
	c := &cameraImpl{
		fov:               DefaultFov,
		aspect:            1,
		near:              1,
		far:               100,
		pitch:             DefaultPitch,
		level:             -1,
		orientation:       mgl64.Ident4(),
		animationDuration: DefaultAnimationDuration,
	}
	for _, option := range options {
		option(c)
	}

	if !(c.fov > 0) {
		return nil, fmt.Errorf("%w: fov %v", ErrInvalidParameter, c.fov)
	}
	if !(c.aspect > 0) {
		return nil, fmt.Errorf("%w: aspect %v", ErrInvalidParameter, c.aspect)
	}
	if !(c.near > 0) {
		return nil, fmt.Errorf("%w: near %v", ErrInvalidParameter, c.near)
	}
	if !(c.far > c.near) {
		return nil, fmt.Errorf("%w: far %v not greater than near %v", ErrInvalidParameter, c.far, c.near)
	}

	if c.globe == nil {
		c.globe = globe.NewGlobe()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.initialFov = c.fov
	c.setPerspective(c.fov, c.aspect, c.near, c.far)
	return c, nil
}

func (c *cameraImpl) Position() mgl64.Vec3 {
	return c.orientation.Col(3).Vec3()
}

func (c *cameraImpl) Orientation() mgl64.Mat4 {
	return c.orientation
}

func (c *cameraImpl) Fov() float64 {
	return c.fov
}

func (c *cameraImpl) Aspect() float64 {
	return c.aspect
}

func (c *cameraImpl) Near() float64 {
	return c.near
}

func (c *cameraImpl) Far() float64 {
	return c.far
}

func (c *cameraImpl) Pitch() float64 {
	return c.pitch
}

func (c *cameraImpl) Level() int {
	return c.level
}

func (c *cameraImpl) Globe() globe.Globe {
	return c.globe
}

func (c *cameraImpl) Matrices() Matrices {
	return Matrices{View: c.view, Projection: c.projection, ProjView: c.projView}
}

func (c *cameraImpl) Frustum() common.Frustum {
	return common.ExtractFrustum(c.projView)
}

func (c *cameraImpl) GPUUniform() GPUCameraUniform {
	p := c.Position()
	return GPUCameraUniform{
		ViewProj:       common.ToFloat32(c.projView),
		CameraPosition: [3]float32{float32(p[0]), float32(p[1]), float32(p[2])},
	}
}

// deriveMatrices recomputes the view and projection * view matrices from the orientation and
// projection. A singular orientation keeps the previous view.
func (c *cameraImpl) deriveMatrices() {
	if view, ok := common.Invert4(c.orientation); ok {
		c.view = view
	}
	c.projView = c.projection.Mul4(c.view)
}
