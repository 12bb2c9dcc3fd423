package camera

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-globe/engine/frame"
	"github.com/go-gl/mathgl/mgl64"
)

// runAnimation ticks c at frame intervals until the animation ends.
func runAnimation(t *testing.T, c *cameraImpl) {
	t.Helper()
	ticks := 0
	for now := time.Duration(0); c.Tick(now); now += frameInterval {
		ticks++
		if ticks > 1000 {
			t.Fatal("animation did not finish")
		}
	}
}

func TestAnimateToLevel(t *testing.T) {
	c := newLevelCamera(t, 2)
	start := c.Position()
	refreshes := c.Globe().RefreshCount()

	var done []int
	if err := c.AnimateToLevel(5, func(level int) { done = append(done, level) }); err != nil {
		t.Fatal(err)
	}
	if !c.IsAnimating() {
		t.Fatal("IsAnimating() = false after AnimateToLevel")
	}
	if c.Level() != 2 || c.Position() != start {
		t.Fatal("AnimateToLevel moved the camera before the first frame")
	}

	if !c.Tick(0) {
		t.Fatal("first Tick finished the animation")
	}
	dest := mgl64.Vec3{0, 0, c.TheoreticalDistance(5) + testRadius}
	step := dest.Sub(start).Mul(1.0 / 36)
	if got := c.Position(); !vecNear(got, start.Add(step), 1e-9) {
		t.Errorf("position after one frame = %v, want %v", got, start.Add(step))
	}

	if !c.Tick(300 * time.Millisecond) {
		t.Fatal("Tick at half duration finished the animation")
	}
	if c.Tick(DefaultAnimationDuration) {
		t.Fatal("Tick at full duration did not finish the animation")
	}

	if c.IsAnimating() {
		t.Error("IsAnimating() = true after completion")
	}
	if c.Level() != 5 {
		t.Errorf("Level() = %d, want 5", c.Level())
	}
	if !vecNear(c.Position(), dest, 1e-9) {
		t.Errorf("Position() = %v, want %v", c.Position(), dest)
	}
	if len(done) != 1 || done[0] != 5 {
		t.Errorf("onDone calls = %v, want [5]", done)
	}
	if c.Globe().RefreshCount() != refreshes {
		t.Error("animation signalled the globe")
	}
	if c.Tick(time.Second) {
		t.Error("Tick on an idle camera reported progress")
	}
}

func TestAnimateToLevelDropsConcurrentRequest(t *testing.T) {
	c := newLevelCamera(t, 2)

	var done []int
	onDone := func(level int) { done = append(done, level) }
	if err := c.AnimateToLevel(5, onDone); err != nil {
		t.Fatal(err)
	}
	if err := c.AnimateToLevel(7, onDone); err != nil {
		t.Fatalf("second AnimateToLevel: %v", err)
	}
	runAnimation(t, c)

	if len(done) != 1 || done[0] != 5 {
		t.Errorf("onDone calls = %v, want [5]", done)
	}
	if c.Level() != 5 {
		t.Errorf("Level() = %d, want 5", c.Level())
	}
}

func TestAnimateToLevelRejectsNegative(t *testing.T) {
	c := newLevelCamera(t, 2)
	if err := c.AnimateToLevel(-3, nil); !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("err = %v, want ErrInvalidLevel", err)
	}
	if c.IsAnimating() {
		t.Error("rejected request started an animation")
	}
}

func TestAnimateToLevelClampsTarget(t *testing.T) {
	c := newLevelCamera(t, 16)
	got := -1
	if err := c.AnimateToLevel(99, func(level int) { got = level }); err != nil {
		t.Fatal(err)
	}
	runAnimation(t, c)
	if got != 18 || c.Level() != 18 {
		t.Errorf("finished at %d, level %d, want 18", got, c.Level())
	}
}

func TestAnimateToLevelWithScheduler(t *testing.T) {
	s := frame.NewManualScheduler()
	c := newTestCamera(t, WithScheduler(s), WithAnimationDuration(100*time.Millisecond))
	if _, err := c.SetLevel(1); err != nil {
		t.Fatal(err)
	}

	finished := false
	if err := c.AnimateToLevel(3, func(int) { finished = true }); err != nil {
		t.Fatal(err)
	}
	if s.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", s.Pending())
	}

	frames := 0
	for now := time.Duration(0); s.Pending() > 0; now += frameInterval {
		s.Advance(now)
		frames++
		if frames > 100 {
			t.Fatal("animation did not finish")
		}
	}
	if !finished || c.Level() != 3 || c.IsAnimating() {
		t.Errorf("finished %v level %d animating %v", finished, c.Level(), c.IsAnimating())
	}
	// Seven moving frames fit under 100ms, the eighth completes.
	if frames != 8 {
		t.Errorf("frames = %d, want 8", frames)
	}
}

func TestUpdateDuringAnimationKeepsPosition(t *testing.T) {
	c := newLevelCamera(t, 2)
	if err := c.AnimateToLevel(6, nil); err != nil {
		t.Fatal(err)
	}
	c.Tick(0)
	c.Tick(frameInterval)
	mid := c.Position()

	c.Update()
	if c.Position() != mid {
		t.Errorf("Update moved an animating camera from %v to %v", mid, c.Position())
	}
}

func TestCancelAnimation(t *testing.T) {
	s := frame.NewManualScheduler()
	c := newTestCamera(t, WithScheduler(s))
	if _, err := c.SetLevel(2); err != nil {
		t.Fatal(err)
	}

	called := false
	if err := c.AnimateToLevel(8, func(int) { called = true }); err != nil {
		t.Fatal(err)
	}
	s.Advance(0)
	moved := c.Position()

	c.CancelAnimation()
	if c.IsAnimating() {
		t.Fatal("IsAnimating() = true after cancel")
	}
	s.Advance(frameInterval)
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d after cancel, want 0", s.Pending())
	}
	if c.Position() != moved || c.Level() != 2 || called {
		t.Error("cancelled animation kept running")
	}

	c.CancelAnimation()
	if err := c.AnimateToLevel(4, nil); err != nil || !c.IsAnimating() {
		t.Errorf("new animation after cancel: err %v animating %v", err, c.IsAnimating())
	}
}
