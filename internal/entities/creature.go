package entities

import (
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"sideworld/internal/config"
	"sideworld/internal/engine"
	"sideworld/internal/mathx"
)

// Direction is the sign of a creature's horizontal cruise velocity.
type Direction int

const (
	Left  Direction = -1
	Right Direction = 1
)

func (d Direction) String() string {
	if d == Left {
		return "left"
	}
	return "right"
}

const deadColor = "#7a7a7a"

// Creature is a bird: a constant horizontal cruise with a vertical
// back-and-forth wobble on top, dropping hazards now and then.
type Creature struct {
	id     ID
	body   *engine.Body
	host   engine.Host
	cfg    config.BirdConfig
	dir    Direction
	health *Health
	rng    *rand.Rand
	drop   func(center mgl64.Vec2)

	flight engine.Timer
	dying  bool
}

func newCreature(id ID, host engine.Host, cfg config.BirdConfig, pos mgl64.Vec2, dir Direction, seed int64, drop func(mgl64.Vec2)) *Creature {
	body := engine.NewBody(engine.KindCreature, pos, mgl64.Vec2{cfg.Size, cfg.Size})
	body.FlipX = dir == Right
	engine.ApplyAppearance(body)
	c := &Creature{
		id:     id,
		body:   body,
		host:   host,
		cfg:    cfg,
		dir:    dir,
		health: NewHealth(cfg.Health, nil),
		rng:    mathx.NewRand(seed),
		drop:   drop,
	}
	host.Add(c, engine.LayerObjects)
	c.fly()
	return c
}

func (c *Creature) fly() {
	cruise := float64(c.dir) * c.cfg.FlySpeed
	c.flight = c.host.Tween(c.body, engine.TweenSpec{
		From:     mgl64.Vec2{cruise, c.cfg.FlyVolatility},
		To:       mgl64.Vec2{cruise, -c.cfg.FlyVolatility},
		Duration: c.cfg.FlapCycle.Duration(),
		Mode:     engine.BackAndForth,
		Easing:   engine.EaseCubicInOut,
		Apply:    func(v mgl64.Vec2) { c.body.Vel = v },
	})
}

func (c *Creature) ID() ID { return c.id }

func (c *Creature) Body() *engine.Body { return c.body }

func (c *Creature) Direction() Direction { return c.dir }

func (c *Creature) Health() float64 { return c.health.Value() }

func (c *Creature) TakeDamage(amount float64) { c.health.TakeDamage(amount) }

func (c *Creature) Dead() bool { return c.health.Dead() }

// Dying reports whether the creature is playing its fall-away exit.
func (c *Creature) Dying() bool { return c.dying }

// Update rolls the per-frame dropping chance while the creature is alive.
func (c *Creature) Update(time.Duration) {
	if c.dying || c.Dead() || c.drop == nil || c.cfg.DroppingOdds <= 0 {
		return
	}
	if c.rng.Intn(c.cfg.DroppingOdds) == 0 {
		c.drop(c.body.Center())
	}
}

// die stops the creature and starts the fall-away tween. done runs when the
// tween finishes, unless the creature is removed first.
func (c *Creature) die(done func()) {
	c.dying = true
	if c.flight != nil {
		c.flight.Cancel()
	}
	c.body.Vel = mgl64.Vec2{}
	c.body.Color = deadColor
	start := c.body.Center()
	c.host.Tween(c.body, engine.TweenSpec{
		From:     start,
		To:       start.Add(mgl64.Vec2{0, c.cfg.DeletionDistance}),
		Duration: c.cfg.DeathFall.Duration(),
		Easing:   engine.EaseCubicInOut,
		Apply:    c.body.SetCenter,
		Done:     done,
	})
}
