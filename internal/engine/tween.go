package engine

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type tween struct {
	owner     ownerRef
	spec      TweenSpec
	x, y      *gween.Tween
	forward   bool
	cancelled bool
}

func (t *tween) Cancel() { t.cancelled = true }

func (t *tween) active() bool {
	return !t.cancelled && t.owner.live()
}

func easingFunc(e Easing) ease.TweenFunc {
	switch e {
	case EaseCubicInOut:
		return ease.InOutCubic
	default:
		return ease.Linear
	}
}

func (t *tween) build(from, to mgl64.Vec2) {
	seconds := float32(t.spec.Duration.Seconds())
	fn := easingFunc(t.spec.Easing)
	t.x = gween.New(float32(from.X()), float32(to.X()), seconds, fn)
	t.y = gween.New(float32(from.Y()), float32(to.Y()), seconds, fn)
}

func (t *tween) advance(dt float32) {
	if !t.active() {
		t.cancelled = true
		return
	}
	x, finished := t.x.Update(dt)
	y, _ := t.y.Update(dt)
	if t.spec.Apply != nil {
		t.spec.Apply(mgl64.Vec2{float64(x), float64(y)})
	}
	if !finished {
		return
	}
	switch t.spec.Mode {
	case Loop:
		t.x.Reset()
		t.y.Reset()
	case BackAndForth:
		t.forward = !t.forward
		if t.forward {
			t.build(t.spec.From, t.spec.To)
		} else {
			t.build(t.spec.To, t.spec.From)
		}
	default:
		t.cancelled = true
		if t.spec.Done != nil && t.owner.live() {
			t.spec.Done()
		}
	}
}

// Tween implements Tweener. The start value is applied immediately; a non
// positive duration jumps straight to the end value.
func (h *Headless) Tween(owner *Body, spec TweenSpec) Timer {
	t := &tween{owner: refOf(owner), spec: spec, forward: true}
	if spec.Duration <= 0 {
		if spec.Apply != nil {
			spec.Apply(spec.To)
		}
		t.cancelled = true
		if spec.Mode == Once && spec.Done != nil {
			spec.Done()
		}
		return t
	}
	t.build(spec.From, spec.To)
	if spec.Apply != nil {
		spec.Apply(spec.From)
	}
	h.tweens = append(h.tweens, t)
	return t
}

// ActiveTweens counts tweens that are still advancing.
func (h *Headless) ActiveTweens() int {
	n := 0
	for _, t := range h.tweens {
		if t.active() {
			n++
		}
	}
	return n
}
