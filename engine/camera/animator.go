package camera

import (
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-globe/engine/metrics"
	"github.com/go-gl/mathgl/mgl64"
)

// frameInterval is the nominal frame length the animation step count is derived from.
const frameInterval = time.Second / 60

// animation is the Animating state of the level animator. A nil *animation is Idle.
type animation struct {
	started bool
	start   time.Duration
	delta   mgl64.Vec3
	dest    State
	level   int
	onDone  func(level int)
}

func (c *cameraImpl) AnimateToLevel(level int, onDone func(level int)) error {
	if level < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	if c.anim != nil {
		c.logger.Debug("level animation already running, dropping request", "level", level)
		metrics.AnimationEvent(metrics.AnimationDropped)
		return nil
	}

	s := c.scratch()
	target, _, err := s.positionForLevel(level)
	if err != nil {
		return err
	}
	dest := s.Snapshot()
	dest.Level = target

	steps := int(c.animationDuration / frameInterval)
	if steps < 1 {
		steps = 1
	}
	a := &animation{
		delta:  dest.Position().Sub(c.Position()).Mul(1 / float64(steps)),
		dest:   dest,
		level:  target,
		onDone: onDone,
	}
	c.anim = a
	metrics.AnimationEvent(metrics.AnimationStarted)
	c.logger.Debug("level animation started", "from", c.level, "to", target, "steps", steps)

	if c.scheduler != nil {
		c.scheduler.RequestFrame(c.frameCallback(a))
	}
	return nil
}

// frameCallback drives animation a from the scheduler until it finishes or is replaced.
func (c *cameraImpl) frameCallback(a *animation) func(now time.Duration) {
	var cb func(now time.Duration)
	cb = func(now time.Duration) {
		if c.anim != a {
			return
		}
		if c.Tick(now) {
			c.scheduler.RequestFrame(cb)
		}
	}
	return cb
}

func (c *cameraImpl) Tick(now time.Duration) bool {
	a := c.anim
	if a == nil {
		return false
	}
	if !a.started {
		a.started = true
		a.start = now
	}

	if now-a.start < c.animationDuration {
		c.SetPosition(c.Position().Add(a.delta))
		return true
	}

	// dest is a snapshot of this camera and always valid.
	_ = c.Restore(a.dest)
	c.anim = nil
	metrics.AnimationEvent(metrics.AnimationCompleted)
	metrics.SetCameraState(c.level, c.fov)
	c.logger.Info("level animation completed", "level", a.level)
	if a.onDone != nil {
		a.onDone(a.level)
	}
	return false
}

func (c *cameraImpl) IsAnimating() bool {
	return c.anim != nil
}

func (c *cameraImpl) CancelAnimation() {
	if c.anim == nil {
		return
	}
	c.anim = nil
	metrics.AnimationEvent(metrics.AnimationCancelled)
	c.logger.Debug("level animation cancelled", "level", c.level)
}
