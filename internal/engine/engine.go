// Package engine describes what the world core needs from the surrounding
// game engine: a collection of live entities split into layers, a scheduler
// for delayed and per-frame callbacks, and a tweener for timed property
// interpolation. Headless implements all three in-process.
package engine

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind is the closed set of entity categories the core dispatches on.
type Kind uint8

const (
	KindSurface Kind = iota + 1
	KindFill
	KindTrunk
	KindLeaf
	KindCreature
	KindProjectile
	KindAvatar
	KindController
)

func (k Kind) String() string {
	switch k {
	case KindSurface:
		return "surface"
	case KindFill:
		return "fill"
	case KindTrunk:
		return "trunk"
	case KindLeaf:
		return "leaf"
	case KindCreature:
		return "creature"
	case KindProjectile:
		return "projectile"
	case KindAvatar:
		return "avatar"
	case KindController:
		return "controller"
	default:
		return "unknown"
	}
}

// Layer orders entities for drawing and selects which groups may collide.
type Layer int

const (
	LayerTerrain    Layer = -100
	LayerTerrainTop Layer = -99
	LayerTrees      Layer = -70
	LayerLeaves     Layer = -60
	LayerObjects    Layer = 0
)

// Entity is anything that can live in a Collection.
type Entity interface {
	Body() *Body
}

// Collider is implemented by entities that filter or react to contacts.
// Entities without it collide with everything their layer allows.
type Collider interface {
	ShouldCollideWith(other Entity) bool
	OnCollisionEnter(other Entity)
}

// Updater is called once per frame for every registered entity that has it.
type Updater interface {
	Update(dt time.Duration)
}

type Collection interface {
	Add(e Entity, layer Layer)
	// Remove reports whether e was registered under layer.
	Remove(e Entity, layer Layer) bool
}

// Timer is a handle to a pending callback or a running tween.
type Timer interface {
	Cancel()
}

// Scheduler runs callbacks on behalf of an owner body. Callbacks whose owner
// has been retired since scheduling are dropped without running.
type Scheduler interface {
	After(owner *Body, delay time.Duration, fn func()) Timer
	EveryFrame(owner *Body, fn func(dt time.Duration)) Timer
}

type RepeatMode uint8

const (
	Once RepeatMode = iota
	BackAndForth
	Loop
)

type Easing uint8

const (
	EaseLinear Easing = iota
	EaseCubicInOut
)

// TweenSpec interpolates a two component value from From to To. Scalar
// properties use the X component and ignore Y.
type TweenSpec struct {
	From     mgl64.Vec2
	To       mgl64.Vec2
	Duration time.Duration
	Mode     RepeatMode
	Easing   Easing
	Apply    func(v mgl64.Vec2)
	// Done runs when a Once tween reaches To. Repeating tweens never finish.
	Done func()
}

type Tweener interface {
	Tween(owner *Body, spec TweenSpec) Timer
}

// Host bundles the collaborators a world session is built on.
type Host interface {
	Collection
	Scheduler
	Tweener
}
