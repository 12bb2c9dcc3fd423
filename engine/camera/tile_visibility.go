package camera

import (
	"fmt"
	"math"
	"time"

	"github.com/Carmen-Shannon/oxy-globe/common"
	"github.com/Carmen-Shannon/oxy-globe/engine/metrics"
	"github.com/Carmen-Shannon/oxy-globe/engine/tile"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

const (
	// DefaultMinArea is the smallest on-screen tile area, in square pixels, worth rendering.
	DefaultMinArea = 5000

	// DefaultMaxSteps bounds every left, right, up and down walk of the tile search.
	DefaultMaxSteps = 10

	// oversizedLonSpan is the longitude span beyond which a tile cannot be drawn as one screen quad.
	oversizedLonSpan = 90.0

	// scanSteps is the number of NDC intervals sampled when searching the vertical visible center.
	scanSteps = 10
)

// windowScales are the half-sizes of the centered NDC squares tried, largest first, when
// sampling the geographic window under the canvas.
var windowScales = [...]float64{0.9, 0.7, 0.5, 0.3, 0.1}

// Corner is one corner of a tile's projected quad.
type Corner struct {
	LonLat  s2.LatLng
	World   mgl64.Vec3
	NDC     mgl64.Vec3
	Visible bool
}

// TileVisibility describes how a tile projects onto the canvas.
type TileVisibility struct {
	// LB, LT, RT and RB are the left-bottom, left-top, right-top and right-bottom corners.
	LB, LT, RT, RB Corner

	// Envelope is the geographic rectangle the corners were taken from. For tiles wider than
	// 90 degrees of longitude it is the tile envelope clipped to the area under the canvas.
	Envelope orb.Bound

	// VisibleCount is the number of visible corners.
	VisibleCount int

	// Clockwise is true when LB, LT and RB wind the front-facing way on screen.
	Clockwise bool

	// Width, Height and Area are the approximate on-screen size in pixels.
	Width  int
	Height int
	Area   int
}

// VisibleTile is a tile returned by the search together with its visibility.
type VisibleTile struct {
	tile.Grid
	Visibility TileVisibility
}

// TileSearchOptions configures VisibleTiles. Zero fields take their defaults.
type TileSearchOptions struct {
	// Threshold is passed to the corner visibility test, see VisibilityOptions.
	Threshold float64
	// MinArea is the smallest renderable area in square pixels (DefaultMinArea).
	MinArea int
	// MaxSteps bounds each directional walk (DefaultMaxSteps).
	MaxSteps int
}

// IsRenderable reports whether a tile is large enough on screen, faces the camera and has at
// least one visible corner.
//
// Parameters:
//   - v: the tile visibility
//   - opts: search options providing the minimum area
//
// Returns:
//   - bool: true if the tile should be rendered
func IsRenderable(v TileVisibility, opts TileSearchOptions) bool {
	return v.Area >= common.Coalesce(opts.MinArea, DefaultMinArea) && v.Clockwise && v.VisibleCount >= 1
}

func (c *cameraImpl) TileVisibility(g tile.Grid, opts VisibilityOptions) (TileVisibility, error) {
	if g.Level < 0 {
		return TileVisibility{}, fmt.Errorf("%w: %d", ErrInvalidLevel, g.Level)
	}
	if !g.Valid() {
		return TileVisibility{}, fmt.Errorf("%w: tile %s", ErrInvalidParameter, g)
	}
	w := &screenWindow{c: c}
	return c.tileVisibility(g, opts.threshold(), w), nil
}

func (c *cameraImpl) tileVisibility(g tile.Grid, threshold float64, w *screenWindow) TileVisibility {
	metrics.IncTileChecks()

	env := g.Envelope()
	if env.Max.Lon()-env.Min.Lon() > oversizedLonSpan {
		if clipped, ok := w.clip(env); ok {
			env = clipped
		}
	}

	v := TileVisibility{Envelope: env}
	corners := [4]*Corner{&v.LB, &v.LT, &v.RT, &v.RB}
	lonlats := [4]orb.Point{
		{env.Min.Lon(), env.Min.Lat()},
		{env.Min.Lon(), env.Max.Lat()},
		{env.Max.Lon(), env.Max.Lat()},
		{env.Max.Lon(), env.Min.Lat()},
	}
	r := c.globe.Radius()
	for i, p := range lonlats {
		corner := corners[i]
		corner.LonLat = s2.LatLngFromDegrees(p.Lat(), p.Lon())
		corner.World = common.GeographicToCartesian(corner.LonLat, r)
		corner.NDC = c.WorldToNDC(corner.World)
		corner.Visible = c.isWorldPointVisible(corner.World, corner.NDC, threshold)
		if corner.Visible {
			v.VisibleCount++
		}
	}

	lb, lt, rt, rb := v.LB.NDC.Vec2(), v.LT.NDC.Vec2(), v.RT.NDC.Vec2(), v.RB.NDC.Vec2()
	v03 := rb.Sub(lb)
	v01 := lt.Sub(lb)
	v.Clockwise = v03[0]*v01[1]-v03[1]*v01[0] > 0

	cw, ch := c.globe.CanvasSize()
	topWidth := lt.Sub(rt).Len() * float64(cw) / 2
	bottomWidth := lb.Sub(rb).Len() * float64(cw) / 2
	leftHeight := lb.Sub(lt).Len() * float64(ch) / 2
	rightHeight := rt.Sub(rb).Len() * float64(ch) / 2
	v.Width = int(math.Floor((topWidth + bottomWidth) / 2))
	v.Height = int(math.Floor((leftHeight + rightHeight) / 2))
	v.Area = v.Width * v.Height
	return v
}

func (c *cameraImpl) VisibleTiles(level int, opts TileSearchOptions) ([]VisibleTile, error) {
	if level < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	if maxLevel := c.globe.MaxLevel(); level > maxLevel {
		level = maxLevel
	}
	start := time.Now()

	s := &tileSearch{
		c:         c,
		opts:      opts,
		threshold: VisibilityOptions{Threshold: opts.Threshold}.threshold(),
		limit:     min(common.Coalesce(opts.MaxSteps, DefaultMaxSteps), tile.Size(level)-1),
		window:    &screenWindow{c: c},
		seen:      make(map[tile.Grid]bool),
	}

	result := []VisibleTile{}
	center, ok := c.verticalCenter()
	if !ok {
		metrics.ObserveTileSearch(level, 0, time.Since(start))
		return result, nil
	}

	seed := tile.At(center, level)
	result = append(result, s.row(seed)...)
	for _, dir := range [...]tile.Direction{tile.Bottom, tile.Top} {
		g := seed
		for range s.limit {
			g = g.Neighbor(dir)
			row := s.row(g)
			if len(row) == 0 {
				break
			}
			result = append(result, row...)
		}
	}

	metrics.ObserveTileSearch(level, len(result), time.Since(start))
	return result, nil
}

// verticalCenter returns the geographic position under the vertical visible center of the
// canvas, on the x = 0 line. False when the planet is not under that position.
func (c *cameraImpl) verticalCenter() (s2.LatLng, bool) {
	ndcY := 0.0
	if c.pitch != DefaultPitch {
		delta := 2.0 / scanSteps
		top, bottom := 1.0, -1.0
		for i := 0; i <= scanSteps; i++ {
			y := 1 - float64(i)*delta
			if len(c.PickByNDC(0, y)) > 0 {
				top = y
				break
			}
		}
		for i := 0; i <= scanSteps; i++ {
			y := -1 + float64(i)*delta
			if len(c.PickByNDC(0, y)) > 0 {
				bottom = y
				break
			}
		}
		ndcY = (top + bottom) / 2
	}

	hits := c.PickByNDC(0, ndcY)
	if len(hits) == 0 {
		return s2.LatLng{}, false
	}
	return common.CartesianToGeographic(hits[0]), true
}

// tileSearch carries the state of one VisibleTiles call.
type tileSearch struct {
	c         *cameraImpl
	opts      TileSearchOptions
	threshold float64
	limit     int
	window    *screenWindow
	seen      map[tile.Grid]bool
}

// check evaluates g once. Tiles already evaluated in this search report false.
func (s *tileSearch) check(g tile.Grid) (VisibleTile, bool) {
	if s.seen[g] {
		return VisibleTile{}, false
	}
	s.seen[g] = true
	v := s.c.tileVisibility(g, s.threshold, s.window)
	if !IsRenderable(v, s.opts) {
		return VisibleTile{}, false
	}
	return VisibleTile{Grid: g, Visibility: v}, true
}

// row returns the renderable tiles of center's row, walking left then right from center until
// the first tile that is not renderable. Empty when center itself is not renderable.
func (s *tileSearch) row(center tile.Grid) []VisibleTile {
	vt, ok := s.check(center)
	if !ok {
		return nil
	}
	out := []VisibleTile{vt}
	for _, dir := range [...]tile.Direction{tile.Left, tile.Right} {
		g := center
		for range s.limit {
			g = g.Neighbor(dir)
			vt, ok := s.check(g)
			if !ok {
				break
			}
			out = append(out, vt)
		}
	}
	return out
}

// screenWindow lazily samples the geographic rectangle under the canvas.
type screenWindow struct {
	c      *cameraImpl
	done   bool
	ok     bool
	bound  orb.Bound
	center float64
}

// sample picks the corners of the largest centered NDC square lying entirely on the planet and
// records their lon/lat bounding box, with longitudes unwrapped around the canvas center.
func (w *screenWindow) sample() {
	w.done = true
	centerHits := w.c.PickByNDC(0, 0)
	if len(centerHits) == 0 {
		return
	}
	w.center = common.CartesianToGeographic(centerHits[0]).Lng.Degrees()

	for _, s := range windowScales {
		var pts []orb.Point
		for _, xy := range [...][2]float64{{-s, -s}, {-s, s}, {s, s}, {s, -s}} {
			hits := w.c.PickByNDC(xy[0], xy[1])
			if len(hits) == 0 {
				break
			}
			ll := common.CartesianToGeographic(hits[0])
			lon := w.center + math.Remainder(ll.Lng.Degrees()-w.center, 360)
			pts = append(pts, orb.Point{lon, ll.Lat.Degrees()})
		}
		if len(pts) == 4 {
			w.bound = orb.MultiPoint(pts).Bound()
			w.ok = true
			return
		}
	}
}

// clip intersects a tile envelope with the window. False when there is no window or no overlap.
func (w *screenWindow) clip(env orb.Bound) (orb.Bound, bool) {
	if !w.done {
		w.sample()
	}
	if !w.ok {
		return orb.Bound{}, false
	}

	minLat := math.Max(env.Min.Lat(), w.bound.Min.Lat())
	maxLat := math.Min(env.Max.Lat(), w.bound.Max.Lat())
	if minLat >= maxLat {
		return orb.Bound{}, false
	}

	minLon, maxLon := w.bound.Min.Lon(), w.bound.Max.Lon()
	if env.Max.Lon()-env.Min.Lon() < 360 {
		best := 0.0
		found := false
		for _, shift := range [...]float64{-360, 0, 360} {
			a := math.Max(env.Min.Lon()+shift, w.bound.Min.Lon())
			b := math.Min(env.Max.Lon()+shift, w.bound.Max.Lon())
			if b-a > best {
				best, minLon, maxLon, found = b-a, a, b, true
			}
		}
		if !found {
			return orb.Bound{}, false
		}
	}

	return orb.Bound{Min: orb.Point{minLon, minLat}, Max: orb.Point{maxLon, maxLat}}, true
}
