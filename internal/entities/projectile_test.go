package entities

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"sideworld/internal/engine"
)

const frame = 16 * time.Millisecond

type target struct {
	body   *engine.Body
	health *Health
}

func newTarget(host engine.Host, kind engine.Kind, pos mgl64.Vec2) *target {
	tg := &target{
		body:   engine.NewBody(kind, pos, mgl64.Vec2{40, 40}),
		health: NewHealth(100, nil),
	}
	host.Add(tg, engine.LayerObjects)
	return tg
}

func (tg *target) Body() *engine.Body { return tg.body }
func (tg *target) Health() float64 { return tg.health.Value() }
func (tg *target) TakeDamage(amount float64) { tg.health.TakeDamage(amount) }

func fixedObserver(x float64) ObserverFunc {
	return func() mgl64.Vec2 { return mgl64.Vec2{x, 0} }
}

func TestProjectileDamagesFirstHitAndDisappears(t *testing.T) {
	host := engine.NewHeadless(30)
	tg := newTarget(host, engine.KindAvatar, mgl64.Vec2{0, 0})
	p := NewProjectile(host, tg.body.Center(), mgl64.Vec2{7, 7}, mgl64.Vec2{0, 300}, 15, engine.KindCreature, fixedObserver(0), 1000)

	host.Step(frame)

	if tg.Health() != 85 {
		t.Fatalf("target health = %v, want 85", tg.Health())
	}
	if !p.Spent() || host.Contains(p) {
		t.Fatalf("projectile should be gone after its hit")
	}
	host.Step(frame)
	if tg.Health() != 85 {
		t.Fatalf("spent projectile hit again")
	}
}

func TestProjectileIgnoresOriginatorKindAndOtherProjectiles(t *testing.T) {
	host := engine.NewHeadless(30)
	bird := newTarget(host, engine.KindCreature, mgl64.Vec2{0, 0})
	a := NewProjectile(host, bird.body.Center(), mgl64.Vec2{7, 7}, mgl64.Vec2{}, 15, engine.KindCreature, fixedObserver(0), 1000)
	b := NewProjectile(host, bird.body.Center(), mgl64.Vec2{7, 7}, mgl64.Vec2{}, 15, engine.KindCreature, fixedObserver(0), 1000)

	for i := 0; i < 5; i++ {
		host.Step(frame)
	}
	if bird.Health() != 100 {
		t.Fatalf("projectile hurt its originator kind: %v", bird.Health())
	}
	if a.Spent() || b.Spent() {
		t.Fatalf("projectiles collided with each other")
	}
}

func TestProjectileStopsOnTerrainWithoutDamage(t *testing.T) {
	host := engine.NewHeadless(30)
	block := engine.NewBody(engine.KindSurface, mgl64.Vec2{0, 30}, mgl64.Vec2{30, 30})
	block.Immovable = true
	host.Add(block, engine.LayerTerrainTop)
	p := NewProjectile(host, mgl64.Vec2{15, 20}, mgl64.Vec2{7, 7}, mgl64.Vec2{0, 300}, 15, engine.KindCreature, fixedObserver(0), 1000)

	for i := 0; i < 10 && !p.Spent(); i++ {
		host.Step(frame)
	}
	if !p.Spent() {
		t.Fatalf("projectile passed through the surface")
	}
	if !host.Contains(block) {
		t.Fatalf("surface block was removed")
	}
}

func TestProjectileOutOfRangeIsRemoved(t *testing.T) {
	host := engine.NewHeadless(30)
	p := NewProjectile(host, mgl64.Vec2{1500, 0}, mgl64.Vec2{7, 7}, mgl64.Vec2{0, 300}, 15, engine.KindCreature, fixedObserver(0), 1000)
	near := NewProjectile(host, mgl64.Vec2{500, 0}, mgl64.Vec2{7, 7}, mgl64.Vec2{0, 300}, 15, engine.KindCreature, fixedObserver(0), 1000)

	host.Step(frame)
	if !p.Spent() || host.Contains(p) {
		t.Fatalf("distant projectile kept alive")
	}
	if near.Spent() {
		t.Fatalf("nearby projectile removed")
	}
}
