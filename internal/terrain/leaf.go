package terrain

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"sideworld/internal/config"
	"sideworld/internal/engine"
	"sideworld/internal/mathx"
)

// LeafState is a step of the leaf's endless lifecycle. LeafWaking and
// LeafFadedOut are instantaneous: they are entered and left within the same
// callback, so State never reports them.
type LeafState uint8

const (
	LeafDormant LeafState = iota
	LeafWaking
	LeafAlive
	LeafFalling
	LeafFadedOut
	LeafDead
	LeafReviving
)

func (s LeafState) String() string {
	switch s {
	case LeafDormant:
		return "dormant"
	case LeafWaking:
		return "waking"
	case LeafAlive:
		return "alive"
	case LeafFalling:
		return "falling"
	case LeafFadedOut:
		return "faded-out"
	case LeafDead:
		return "dead"
	case LeafReviving:
		return "reviving"
	default:
		return "unknown"
	}
}

// Leaf is a canopy block that sways, falls, fades, waits and grows back at
// its origin, forever. Every timer it schedules carries the cycle epoch it was
// scheduled in and does nothing if the leaf has moved on since.
type Leaf struct {
	body   *engine.Body
	origin mgl64.Vec2
	size   mgl64.Vec2

	host   engine.Host
	timing config.LeafConfig
	rng    *rand.Rand

	state  LeafState
	epoch  uint64
	landed bool
	gone   bool

	pending []engine.Timer
	sway    []engine.Timer
}

// NewLeaf registers a leaf at origin and starts its first cycle. rng only
// drives cosmetic timing.
func NewLeaf(host engine.Host, origin, size mgl64.Vec2, timing config.LeafConfig, rng *rand.Rand) *Leaf {
	body := engine.NewBody(engine.KindLeaf, origin, size)
	engine.ApplyAppearance(body)
	l := &Leaf{
		body:   body,
		origin: origin,
		size:   size,
		host:   host,
		timing: timing,
		rng:    rng,
	}
	host.Add(l, engine.LayerLeaves)
	l.begin()
	return l
}

func (l *Leaf) Body() *engine.Body { return l.body }

func (l *Leaf) State() LeafState { return l.state }

func (l *Leaf) Origin() mgl64.Vec2 { return l.origin }

// ShouldCollideWith only lets a falling leaf touch surface blocks.
func (l *Leaf) ShouldCollideWith(other engine.Entity) bool {
	return l.state == LeafFalling && other.Body().Kind == engine.KindSurface
}

// OnCollisionEnter settles the leaf on its first landing.
func (l *Leaf) OnCollisionEnter(other engine.Entity) {
	if l.state != LeafFalling || l.landed {
		return
	}
	l.landed = true
	l.stopSway()
	start := l.body.Vel
	l.track(l.host.Tween(l.body, engine.TweenSpec{
		From:     start,
		To:       mgl64.Vec2{},
		Duration: l.timing.StopTime.Duration(),
		Apply:    func(v mgl64.Vec2) { l.body.Vel = v },
	}))
}

// Destroy cancels everything pending and removes the leaf.
func (l *Leaf) Destroy() {
	if l.gone {
		return
	}
	l.gone = true
	l.epoch++
	l.cancelAll()
	l.host.Remove(l, engine.LayerLeaves)
}

func (l *Leaf) begin() {
	l.epoch++
	l.state = LeafDormant
	l.landed = false
	l.body.Pos = l.origin
	l.body.Size = l.squashed()
	l.body.Vel = mgl64.Vec2{}
	l.body.Angle = 0
	l.body.Opacity = 1
	epoch := l.epoch
	delay := mathx.DurationBetween(l.rng, 0, l.timing.WakeDelayMax.Duration())
	l.track(l.host.After(l.body, delay, func() { l.wake(epoch) }))
}

// squashed is the resting shape: full width, height scaled by the squash factor.
func (l *Leaf) squashed() mgl64.Vec2 {
	return mgl64.Vec2{l.size.X(), l.size.Y() * l.timing.SquashFactor}
}

func (l *Leaf) current(epoch uint64, want LeafState) bool {
	return !l.gone && l.epoch == epoch && l.state == want
}

func (l *Leaf) wake(epoch uint64) {
	if !l.current(epoch, LeafDormant) {
		return
	}
	l.state = LeafWaking
	angle := l.timing.SwayAngle
	l.sway = append(l.sway,
		l.host.Tween(l.body, engine.TweenSpec{
			From:     mgl64.Vec2{-angle},
			To:       mgl64.Vec2{angle},
			Duration: l.timing.SwayCycle.Duration(),
			Mode:     engine.BackAndForth,
			Easing:   engine.EaseCubicInOut,
			Apply:    func(v mgl64.Vec2) { l.body.Angle = v.X() },
		}),
		l.host.Tween(l.body, engine.TweenSpec{
			From:     l.squashed(),
			To:       mgl64.Vec2{l.size.X() * l.timing.SquashFactor, l.size.Y()},
			Duration: l.timing.SquashCycle.Duration(),
			Mode:     engine.BackAndForth,
			Easing:   engine.EaseCubicInOut,
			Apply:    func(v mgl64.Vec2) { l.body.Size = v },
		}),
	)
	l.state = LeafAlive

	life := mathx.DurationBetween(l.rng, l.timing.LifetimeMin.Duration(), l.timing.LifetimeMax.Duration())
	l.track(l.host.After(l.body, life, func() { l.fall(epoch) }))
}

func (l *Leaf) fall(epoch uint64) {
	if !l.current(epoch, LeafAlive) {
		return
	}
	l.state = LeafFalling
	speed, drift := l.timing.FallSpeed, l.timing.FallDrift
	l.sway = append(l.sway, l.host.Tween(l.body, engine.TweenSpec{
		From:     mgl64.Vec2{drift, speed},
		To:       mgl64.Vec2{-drift, speed},
		Duration: l.timing.FallCycle.Duration(),
		Mode:     engine.BackAndForth,
		Apply:    func(v mgl64.Vec2) { l.body.Vel = v },
	}))
	l.track(l.host.Tween(l.body, engine.TweenSpec{
		From:     mgl64.Vec2{1},
		To:       mgl64.Vec2{0},
		Duration: l.timing.FadeOut.Duration(),
		Apply:    func(v mgl64.Vec2) { l.body.Opacity = v.X() },
		Done:     func() { l.fadedOut(epoch) },
	}))
}

func (l *Leaf) fadedOut(epoch uint64) {
	if !l.current(epoch, LeafFalling) {
		return
	}
	l.state = LeafFadedOut
	l.cancelAll()
	l.body.Vel = mgl64.Vec2{}
	l.body.Opacity = 0

	l.state = LeafDead
	wait := mathx.DurationBetween(l.rng, l.timing.DeathMin.Duration(), l.timing.DeathMax.Duration())
	l.track(l.host.After(l.body, wait, func() { l.revive(epoch) }))
}

func (l *Leaf) revive(epoch uint64) {
	if !l.current(epoch, LeafDead) {
		return
	}
	l.state = LeafReviving
	l.body.Pos = l.origin
	l.body.Size = l.squashed()
	l.body.Angle = 0
	l.body.Vel = mgl64.Vec2{}
	l.track(l.host.Tween(l.body, engine.TweenSpec{
		From:     mgl64.Vec2{0},
		To:       mgl64.Vec2{1},
		Duration: l.timing.FadeIn.Duration(),
		Apply:    func(v mgl64.Vec2) { l.body.Opacity = v.X() },
		Done: func() {
			if l.current(epoch, LeafReviving) {
				l.cancelAll()
				l.begin()
			}
		},
	}))
}

func (l *Leaf) track(t engine.Timer) {
	l.pending = append(l.pending, t)
}

func (l *Leaf) stopSway() {
	for _, t := range l.sway {
		t.Cancel()
	}
	l.sway = l.sway[:0]
}

func (l *Leaf) cancelAll() {
	l.stopSway()
	for _, t := range l.pending {
		t.Cancel()
	}
	l.pending = l.pending[:0]
}
