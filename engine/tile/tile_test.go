package tile

import (
	"math"
	"testing"

	"github.com/golang/geo/s2"
)

const mercatorMaxLat = 85.0511287798066

func TestNeighborWraps(t *testing.T) {
	cases := []struct {
		name string
		g    Grid
		dir  Direction
		want Grid
	}{
		{"left wraps", Grid{2, 1, 0}, Left, Grid{2, 1, 3}},
		{"right wraps", Grid{2, 1, 3}, Right, Grid{2, 1, 0}},
		{"top wraps", Grid{2, 0, 2}, Top, Grid{2, 3, 2}},
		{"bottom wraps", Grid{2, 3, 2}, Bottom, Grid{2, 0, 2}},
		{"interior left", Grid{3, 4, 4}, Left, Grid{3, 4, 3}},
		{"interior bottom", Grid{3, 4, 4}, Bottom, Grid{3, 5, 4}},
		{"level zero is its own neighbor", Grid{0, 0, 0}, Right, Grid{0, 0, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.g.Neighbor(tc.dir); got != tc.want {
				t.Errorf("%s.Neighbor(%s) = %s, want %s", tc.g, tc.dir, got, tc.want)
			}
		})
	}
}

func TestNewValidates(t *testing.T) {
	if _, err := New(2, 4, 0); err == nil {
		t.Error("row 4 at level 2 accepted")
	}
	if _, err := New(-1, 0, 0); err == nil {
		t.Error("negative level accepted")
	}
	g, err := New(2, 3, 3)
	if err != nil {
		t.Fatalf("New(2,3,3) error: %v", err)
	}
	if g.String() != "2/3/3" {
		t.Errorf("String() = %q", g.String())
	}
}

func TestEnvelope(t *testing.T) {
	cases := []struct {
		name                   string
		g                      Grid
		west, south, east, nth float64
	}{
		{"level zero", Grid{0, 0, 0}, -180, -mercatorMaxLat, 180, mercatorMaxLat},
		{"north west quadrant", Grid{1, 0, 0}, -180, 0, 0, mercatorMaxLat},
		{"south east quadrant", Grid{1, 1, 1}, 0, -mercatorMaxLat, 180, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := tc.g.Envelope()
			got := []float64{b.Min.Lon(), b.Min.Lat(), b.Max.Lon(), b.Max.Lat()}
			want := []float64{tc.west, tc.south, tc.east, tc.nth}
			for i := range got {
				if math.Abs(got[i]-want[i]) > 1e-6 {
					t.Errorf("bound[%d] = %v, want %v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestAt(t *testing.T) {
	cases := []struct {
		name     string
		lat, lng float64
		level    int
		want     Grid
	}{
		{"origin level 0", 0.5, 0.5, 0, Grid{0, 0, 0}},
		{"north east level 1", 10, 10, 1, Grid{1, 0, 1}},
		{"south west level 1", -10, -10, 1, Grid{1, 1, 0}},
		{"antimeridian belongs to last column", 0.5, 180, 2, Grid{2, 1, 3}},
		{"pole snaps to first row", 89.9, 0.5, 3, Grid{3, 0, 4}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := At(s2.LatLngFromDegrees(tc.lat, tc.lng), tc.level)
			if got != tc.want {
				t.Errorf("At(%v,%v,%d) = %s, want %s", tc.lat, tc.lng, tc.level, got, tc.want)
			}
			if !got.Valid() {
				t.Errorf("At returned invalid tile %s", got)
			}
		})
	}
}

func TestCenterInsideEnvelope(t *testing.T) {
	g := Grid{5, 11, 17}
	c := g.Center()
	if back := At(c, g.Level); back != g {
		t.Errorf("At(Center(%s)) = %s", g, back)
	}
}

func TestQuadkeyDistinct(t *testing.T) {
	seen := map[uint64]Grid{}
	for r := range Size(3) {
		for c := range Size(3) {
			g := Grid{3, r, c}
			if prev, ok := seen[g.Quadkey()]; ok {
				t.Fatalf("quadkey collision between %s and %s", prev, g)
			}
			seen[g.Quadkey()] = g
		}
	}
}
