package entities

import (
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"sideworld/internal/config"
	"sideworld/internal/engine"
	"sideworld/internal/mathx"
)

// spawnerLabel separates the spawner's random stream from the chunk seeds.
const spawnerLabel = 0x62697264

// FlockOffsets lays out a triangular flock: column c (1-based) holds c
// creatures. X grows away from the observer and y steps by two sizes inside
// a column.
func FlockOffsets(columns int, size float64) []mgl64.Vec2 {
	var out []mgl64.Vec2
	for col := 1; col <= columns; col++ {
		x := float64(2*col-1) * size
		y := float64(col-1) * size
		for n := 0; n < col; n++ {
			out = append(out, mgl64.Vec2{x, y - float64(2*n)*size})
		}
	}
	return out
}

// SpawnerStats counts creature churn since Start.
type SpawnerStats struct {
	Spawned int
	Killed  int
	Culled  int
	Dropped int
}

// Spawner streams creatures around the observer. It owns every creature it
// spawns and the droppings they release.
type Spawner struct {
	host     engine.Host
	birds    config.BirdConfig
	width    int
	observer ObserverFunc
	onKill   func()
	logger   *log.Logger

	seed   int64
	serial int64
	rng    *rand.Rand

	// controller owns the spawn timer and the reaper; retiring it stops both.
	controller *engine.Body
	running    bool

	registry    *Registry
	projectiles []*Projectile
	stats       SpawnerStats
}

// NewSpawner prepares a spawner seeded from the world seed. onKill is the
// score callback and runs once per creature killed.
func NewSpawner(host engine.Host, cfg *config.Config, observer ObserverFunc, onKill func(), logger *log.Logger) *Spawner {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if onKill == nil {
		onKill = func() {}
	}
	seed := mathx.Derive(cfg.WorldSeed(), spawnerLabel)
	return &Spawner{
		host:       host,
		birds:      cfg.Birds,
		width:      cfg.World.ViewportWidth,
		observer:   observer,
		onKill:     onKill,
		logger:     logger,
		seed:       seed,
		rng:        mathx.NewRand(seed),
		controller: engine.NewBody(engine.KindController, mgl64.Vec2{}, mgl64.Vec2{}),
		registry:   NewRegistry(),
	}
}

// Start spawns the first wave right away, schedules the next one and hooks
// Reap into every frame.
func (s *Spawner) Start() {
	if s.running {
		return
	}
	s.running = true
	s.host.EveryFrame(s.controller, func(time.Duration) { s.Reap() })
	s.spawn()
}

func (s *Spawner) spawn() {
	if !s.running {
		return
	}
	obs := s.observerPos()
	y := mathx.Between(s.rng, s.birds.BandMin, s.birds.BandMax)
	dir := Right
	if s.rng.Intn(2) == 0 {
		dir = Left
	}
	at := mgl64.Vec2{obs.X() - float64(dir)*s.birds.SpawnDistance, y}
	flock := s.rng.Float64() < s.birds.FlockProbability
	spawned := s.place(at, dir, flock)
	if flock {
		s.logger.Printf("flock of %d spawned at x=%.0f heading %s", len(spawned), at.X(), dir)
	}

	wait := mathx.DurationBetween(s.rng, s.birds.SpawnMin.Duration(), s.birds.SpawnMax.Duration())
	s.host.After(s.controller, wait, s.spawn)
}

// place creates a single creature at at, or a whole flock trailing behind it.
func (s *Spawner) place(at mgl64.Vec2, dir Direction, flock bool) []*Creature {
	if !flock {
		if c, ok := s.add(at, dir); ok {
			return []*Creature{c}
		}
		return nil
	}
	away := -float64(dir)
	offsets := FlockOffsets(s.birds.FlockColumns, s.birds.Size)
	out := make([]*Creature, 0, len(offsets))
	for _, off := range offsets {
		if c, ok := s.add(at.Add(mgl64.Vec2{off.X() * away, off.Y()}), dir); ok {
			out = append(out, c)
		}
	}
	return out
}

// add creates a creature and registers it. A creature the registry refuses
// is taken straight back out of the host.
func (s *Spawner) add(pos mgl64.Vec2, dir Direction) (*Creature, bool) {
	s.serial++
	id := ID(fmt.Sprintf("bird-%d", s.serial))
	c := newCreature(id, s.host, s.birds, pos, dir, mathx.Derive(s.seed, s.serial), s.release)
	if err := s.registry.Add(c, s.chunkIndex(pos.X())); err != nil {
		s.logger.Printf("spawn %s dropped: %v", id, err)
		s.host.Remove(c, engine.LayerObjects)
		return nil, false
	}
	s.stats.Spawned++
	return c, true
}

func (s *Spawner) release(center mgl64.Vec2) {
	p := NewProjectile(s.host, center,
		mgl64.Vec2{s.birds.DroppingSize, s.birds.DroppingSize},
		mgl64.Vec2{0, s.birds.DroppingSpeed},
		s.birds.DroppingDamage, engine.KindCreature, s.observer, s.birds.DroppingRange)
	s.projectiles = append(s.projectiles, p)
	s.stats.Dropped++
}

func (s *Spawner) observerPos() mgl64.Vec2 {
	if s.observer == nil {
		return mgl64.Vec2{}
	}
	return s.observer()
}

func (s *Spawner) chunkIndex(x float64) int {
	if s.width <= 0 {
		return 0
	}
	return mathx.AlignDownFloat(x, s.width) / s.width
}

// Reap runs once per frame. Creatures too far from the observer are removed
// on the spot without scoring. Freshly killed creatures score once, stop and
// fall away; they leave the registry when the fall finishes.
func (s *Spawner) Reap() {
	obs := s.observerPos().X()
	for _, c := range s.registry.All() {
		x := c.body.Pos.X()
		if math.Abs(obs-x) >= s.birds.DeletionDistance {
			s.cull(c)
			continue
		}
		if c.Dead() && !c.dying {
			s.kill(c)
		}
		s.registry.Transfer(c.id, s.chunkIndex(x))
	}

	live := s.projectiles[:0]
	for _, p := range s.projectiles {
		if !p.Spent() {
			live = append(live, p)
		}
	}
	for i := len(live); i < len(s.projectiles); i++ {
		s.projectiles[i] = nil
	}
	s.projectiles = live
}

func (s *Spawner) kill(c *Creature) {
	s.stats.Killed++
	s.onKill()
	c.die(func() { s.remove(c) })
}

func (s *Spawner) cull(c *Creature) {
	s.stats.Culled++
	s.logger.Printf("%s culled at x=%.0f", c.id, c.body.Pos.X())
	s.remove(c)
}

func (s *Spawner) remove(c *Creature) {
	s.host.Remove(c, engine.LayerObjects)
	s.registry.Remove(c.id)
}

// Creatures returns the owned creatures, dying ones included, in spawn order.
func (s *Spawner) Creatures() []*Creature {
	return s.registry.All()
}

func (s *Spawner) Registry() *Registry { return s.registry }

// Projectiles returns droppings still in flight.
func (s *Spawner) Projectiles() []*Projectile {
	out := make([]*Projectile, 0, len(s.projectiles))
	for _, p := range s.projectiles {
		if !p.Spent() {
			out = append(out, p)
		}
	}
	return out
}

func (s *Spawner) Stats() SpawnerStats { return s.stats }

// Stop cancels the spawn timer and the reaper and removes every creature and
// dropping the spawner still owns.
func (s *Spawner) Stop() {
	if !s.running {
		return
	}
	s.running = false
	s.controller.Retire()
	for _, c := range s.registry.All() {
		s.remove(c)
	}
	for _, p := range s.projectiles {
		p.Remove()
	}
	s.projectiles = nil
}
