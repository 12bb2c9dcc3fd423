package globe

import (
	"io"
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadConfig(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want Config
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			want: DefaultConfig(),
		},
		{
			name: "overrides",
			env: map[string]string{
				"OXYGLOBE_RADIUS":        "6371",
				"OXYGLOBE_MAX_LEVEL":     "12",
				"OXYGLOBE_CANVAS_WIDTH":  "800",
				"OXYGLOBE_CANVAS_HEIGHT": "600",
			},
			want: Config{Radius: 6371, MaxLevel: 12, CanvasWidth: 800, CanvasHeight: 600},
		},
		{
			name: "invalid values fall back",
			env: map[string]string{
				"OXYGLOBE_RADIUS":        "-1",
				"OXYGLOBE_MAX_LEVEL":     "abc",
				"OXYGLOBE_CANVAS_WIDTH":  "0",
				"OXYGLOBE_CANVAS_HEIGHT": "tall",
			},
			want: DefaultConfig(),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, k := range []string{"OXYGLOBE_RADIUS", "OXYGLOBE_MAX_LEVEL", "OXYGLOBE_CANVAS_WIDTH", "OXYGLOBE_CANVAS_HEIGHT"} {
				t.Setenv(k, tc.env[k])
			}
			if got := LoadConfig(discardLogger()); got != tc.want {
				t.Errorf("LoadConfig() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestRefreshCountsAndCallsBack(t *testing.T) {
	calls := 0
	g := NewGlobe(WithRadius(6371), WithLogger(discardLogger()), WithRefreshCallback(func() { calls++ }))

	g.Refresh()
	g.Refresh()
	if g.RefreshCount() != 2 || calls != 2 {
		t.Fatalf("RefreshCount() = %d, callbacks = %d, want 2 and 2", g.RefreshCount(), calls)
	}

	g.SetRefreshCallback(nil)
	g.Refresh()
	if g.RefreshCount() != 3 || calls != 2 {
		t.Fatalf("after clearing callback: count = %d, callbacks = %d", g.RefreshCount(), calls)
	}
	if g.Radius() != 6371 {
		t.Errorf("Radius() = %v, want 6371", g.Radius())
	}
}

func TestResize(t *testing.T) {
	g := NewGlobe(WithCanvasSize(800, 600))
	g.Resize(0, 100)
	if w, h := g.CanvasSize(); w != 800 || h != 600 {
		t.Fatalf("invalid resize applied: %dx%d", w, h)
	}
	g.Resize(1024, 768)
	if w, h := g.CanvasSize(); w != 1024 || h != 768 {
		t.Fatalf("CanvasSize() = %dx%d, want 1024x768", w, h)
	}
	if g.MaxLevel() != DefaultMaxLevel {
		t.Errorf("MaxLevel() = %d, want %d", g.MaxLevel(), DefaultMaxLevel)
	}
}

func TestMaxLevelOptions(t *testing.T) {
	cases := []struct {
		name   string
		option GlobeBuilderOption
		want   int
	}{
		{"config zero", WithConfig(Config{Radius: 6371, MaxLevel: 0}), 0},
		{"config in range", WithConfig(Config{MaxLevel: 12}), 12},
		{"config past limit", WithConfig(Config{MaxLevel: LevelLimit + 1}), DefaultMaxLevel},
		{"config negative", WithConfig(Config{MaxLevel: -1}), DefaultMaxLevel},
		{"option zero", WithMaxLevel(0), 0},
		{"option at limit", WithMaxLevel(LevelLimit), LevelLimit},
		{"option past limit", WithMaxLevel(LevelLimit + 1), DefaultMaxLevel},
		{"option negative", WithMaxLevel(-3), DefaultMaxLevel},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NewGlobe(tc.option).MaxLevel(); got != tc.want {
				t.Errorf("MaxLevel() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestLoadedZeroMaxLevelSurvivesWithConfig(t *testing.T) {
	t.Setenv("OXYGLOBE_MAX_LEVEL", "0")
	g := NewGlobe(WithConfig(LoadConfig(discardLogger())))
	if g.MaxLevel() != 0 {
		t.Errorf("MaxLevel() = %d, want 0", g.MaxLevel())
	}
}
