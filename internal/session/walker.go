package session

import (
	"github.com/go-gl/mathgl/mgl64"

	"sideworld/internal/engine"
	"sideworld/internal/entities"
)

const (
	walkerGravity      = 800
	impactThreshold    = 500
	impactDamageDivide = 100
)

// WalkerSize is the observer stand-in's bounding box.
var WalkerSize = mgl64.Vec2{70, 120}

// Walker is a scripted observer: it walks at a constant speed under gravity
// and takes damage from droppings and hard landings.
type Walker struct {
	body   *engine.Body
	health *entities.Health
}

// NewWalker places a walker with its feet on ground at x.
func NewWalker(x, ground, speed, health float64, onDeath func()) *Walker {
	body := engine.NewBody(engine.KindAvatar, mgl64.Vec2{x, ground - WalkerSize.Y()}, WalkerSize)
	body.Vel = mgl64.Vec2{speed, 0}
	body.Accel = mgl64.Vec2{0, walkerGravity}
	body.FlipX = speed < 0
	engine.ApplyAppearance(body)
	return &Walker{body: body, health: entities.NewHealth(health, onDeath)}
}

func (w *Walker) Body() *engine.Body { return w.body }

func (w *Walker) Health() float64 { return w.health.Value() }

func (w *Walker) TakeDamage(amount float64) { w.health.TakeDamage(amount) }

func (w *Walker) Dead() bool { return w.health.Dead() }

func (w *Walker) ShouldCollideWith(engine.Entity) bool { return true }

// OnCollisionEnter stops the fall on surface blocks, hurting the walker when
// it lands hard.
func (w *Walker) OnCollisionEnter(other engine.Entity) {
	if other.Body().Kind != engine.KindSurface {
		return
	}
	if fall := w.body.Vel.Y(); fall >= impactThreshold {
		w.TakeDamage(fall / impactDamageDivide)
	}
	w.body.Vel = mgl64.Vec2{w.body.Vel.X(), 0}
}
