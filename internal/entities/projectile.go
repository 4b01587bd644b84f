package entities

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"sideworld/internal/engine"
)

// ObserverFunc reports the observer's current top left corner.
type ObserverFunc func() mgl64.Vec2

// Projectile flies at a constant velocity, hurts the first Damageable it hits
// and disappears. It passes through other projectiles and through entities of
// the kind that released it.
type Projectile struct {
	body     *engine.Body
	host     engine.Host
	damage   float64
	ignore   engine.Kind
	observer ObserverFunc
	reach    float64
	spent    bool
}

// NewProjectile centres a projectile on center and registers it on the
// objects layer. It is dropped once it is reach pixels or more from the
// observer horizontally.
func NewProjectile(host engine.Host, center, size, velocity mgl64.Vec2, damage float64, ignore engine.Kind, observer ObserverFunc, reach float64) *Projectile {
	body := engine.NewBody(engine.KindProjectile, mgl64.Vec2{}, size)
	body.SetCenter(center)
	body.Vel = velocity
	engine.ApplyAppearance(body)
	p := &Projectile{
		body:     body,
		host:     host,
		damage:   damage,
		ignore:   ignore,
		observer: observer,
		reach:    reach,
	}
	host.Add(p, engine.LayerObjects)
	return p
}

func (p *Projectile) Body() *engine.Body { return p.body }

func (p *Projectile) Damage() float64 { return p.damage }

// Spent reports whether the projectile has left the world.
func (p *Projectile) Spent() bool { return p.spent }

func (p *Projectile) ShouldCollideWith(other engine.Entity) bool {
	kind := other.Body().Kind
	return kind != engine.KindProjectile && kind != p.ignore
}

func (p *Projectile) OnCollisionEnter(other engine.Entity) {
	if p.spent {
		return
	}
	if target, ok := other.(Damageable); ok {
		target.TakeDamage(p.damage)
	}
	p.Remove()
}

func (p *Projectile) Update(time.Duration) {
	if p.spent || p.observer == nil {
		return
	}
	if math.Abs(p.observer().X()-p.body.Pos.X()) >= p.reach {
		p.Remove()
	}
}

// Remove takes the projectile out of the world. Safe to call twice.
func (p *Projectile) Remove() {
	if p.spent {
		return
	}
	p.spent = true
	p.host.Remove(p, engine.LayerObjects)
}
