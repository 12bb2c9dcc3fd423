// Package tile identifies the Web-Mercator tiles the globe is paged in and answers neighbor
// and envelope queries for them.
package tile

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// Direction names one of the four edge neighbors of a tile.
type Direction int

const (
	Left Direction = iota
	Right
	Top
	Bottom
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Grid identifies one tile of the level-L grid, which has 2^L rows and 2^L columns.
// Row 0 is the northern edge and Column 0 starts at longitude -180.
type Grid struct {
	Level  int
	Row    int
	Column int
}

// Size returns the number of rows (and columns) of the grid at the given level.
//
// Parameters:
//   - level: the zoom level (must be >= 0)
//
// Returns:
//   - int: 2^level
func Size(level int) int {
	return 1 << level
}

// New creates a Grid, reporting an error when the coordinates are outside the level's grid.
//
// Parameters:
//   - level: the zoom level
//   - row: the row index counted from the north edge
//   - column: the column index counted from longitude -180
//
// Returns:
//   - Grid: the tile
//   - error: error if any coordinate is out of range
func New(level, row, column int) (Grid, error) {
	g := Grid{Level: level, Row: row, Column: column}
	if !g.Valid() {
		return Grid{}, fmt.Errorf("tile %s is outside the grid", g)
	}
	return g, nil
}

// At returns the tile of the given level containing a geographic position.
// Latitudes beyond the Web-Mercator limit snap to the first or last row and
// longitude 180 belongs to the last column.
//
// Parameters:
//   - ll: geographic position
//   - level: the zoom level (must be >= 0)
//
// Returns:
//   - Grid: the containing tile
func At(ll s2.LatLng, level int) Grid {
	lng := ll.Lng.Degrees()
	if math.Abs(lng) > 180+1e-9 {
		lng = math.Mod(lng+180, 360)
		if lng < 0 {
			lng += 360
		}
		lng -= 180
	}
	t := maptile.At(orb.Point{lng, ll.Lat.Degrees()}, maptile.Zoom(level))
	size := Size(level)
	return Grid{
		Level:  level,
		Row:    clampIndex(int(t.Y), size),
		Column: clampIndex(int(t.X), size),
	}
}

// Valid reports whether the row and column are inside the level's grid.
func (g Grid) Valid() bool {
	if g.Level < 0 || g.Level > 30 {
		return false
	}
	size := Size(g.Level)
	return g.Row >= 0 && g.Row < size && g.Column >= 0 && g.Column < size
}

// Neighbor returns the adjacent tile in the given direction.
// Columns wrap around the antimeridian and rows wrap from the northern edge to the southern one,
// so every tile has four neighbors; at level 0 the only tile is its own neighbor.
//
// Parameters:
//   - dir: the edge to cross
//
// Returns:
//   - Grid: the neighboring tile at the same level
func (g Grid) Neighbor(dir Direction) Grid {
	size := Size(g.Level)
	n := g
	switch dir {
	case Left:
		n.Column = (g.Column - 1 + size) % size
	case Right:
		n.Column = (g.Column + 1) % size
	case Top:
		n.Row = (g.Row - 1 + size) % size
	case Bottom:
		n.Row = (g.Row + 1) % size
	}
	return n
}

// Envelope returns the geographic bounds of the tile in degrees.
// Min holds the western longitude and southern latitude, Max the eastern longitude and northern latitude.
func (g Grid) Envelope() orb.Bound {
	return g.maptile().Bound()
}

// Center returns the geographic center of the tile envelope.
func (g Grid) Center() s2.LatLng {
	c := g.Envelope().Center()
	return s2.LatLngFromDegrees(c.Lat(), c.Lon())
}

// Quadkey returns the tile's quadkey, unique among the tiles of one level.
func (g Grid) Quadkey() uint64 {
	return g.maptile().Quadkey()
}

func (g Grid) String() string {
	return fmt.Sprintf("%d/%d/%d", g.Level, g.Row, g.Column)
}

func (g Grid) maptile() maptile.Tile {
	return maptile.New(uint32(g.Column), uint32(g.Row), maptile.Zoom(g.Level))
}

func clampIndex(i, size int) int {
	return int(math.Max(0, math.Min(float64(i), float64(size-1))))
}
