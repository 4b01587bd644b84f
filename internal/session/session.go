// Package session wires the chunk window, the creature spawner and an
// observer into one explicitly owned simulation context.
package session

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"sideworld/internal/config"
	"sideworld/internal/engine"
	"sideworld/internal/entities"
	"sideworld/internal/world"
)

// ErrObserverDown is returned by Run once the observer's health is gone.
var ErrObserverDown = errors.New("observer health depleted")

// Engine is the collaborator a session drives: the engine.Host capabilities
// plus a way to advance time.
type Engine interface {
	engine.Host
	Step(dt time.Duration)
}

// Session owns everything one run of the world needs. Nothing in it is
// global; the score is only reachable through the session.
type Session struct {
	id       uuid.UUID
	cfg      *config.Config
	host     Engine
	logger   *log.Logger
	observer entities.Damageable
	window   *world.Window
	spawner  *entities.Spawner

	score atomic.Int64
	ticks atomic.Int64

	tick      time.Duration
	newTicker tickerFactory
	now       timeSource
	closed    bool
}

// New builds the window around the observer and starts the spawner. A nil
// observer gets a Walker at the configured start position.
func New(cfg *config.Config, host Engine, observer entities.Damageable, logger *log.Logger) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	if host == nil {
		return nil, errors.New("session needs an engine")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	s := &Session{
		id:        uuid.New(),
		cfg:       cfg,
		host:      host,
		logger:    logger,
		tick:      cfg.Session.TickRate.Duration(),
		newTicker: defaultTickerFactory(),
		now:       time.Now,
	}
	if s.tick <= 0 {
		s.tick = 16 * time.Millisecond
	}

	startX := cfg.Session.ObserverStartX
	if observer != nil {
		startX = observer.Body().Pos.X()
	}
	window, err := world.NewWindow(host, cfg, startX, cfg.Session.JitterSeed, logger)
	if err != nil {
		return nil, fmt.Errorf("build window: %w", err)
	}
	s.window = window

	if observer == nil {
		observer = NewWalker(startX, window.GroundHeight(startX+WalkerSize.X()/2),
			cfg.Session.ObserverSpeed, cfg.Session.ObserverHealth,
			func() { logger.Printf("observer died") })
	}
	s.observer = observer
	host.Add(observer, engine.LayerObjects)

	s.spawner = entities.NewSpawner(host, cfg, s.observerPos, s.addScore, logger)
	s.spawner.Start()

	logger.Printf("session %s started seed=%d chunks=%v", s.id, cfg.WorldSeed(), s.chunkIndices())
	return s, nil
}

func (s *Session) observerPos() mgl64.Vec2 {
	return s.observer.Body().Pos
}

func (s *Session) addScore() {
	s.score.Add(1)
}

func (s *Session) chunkIndices() []int {
	out := make([]int, 0, 3)
	for _, c := range s.window.Chunks() {
		out = append(out, c.Index)
	}
	return out
}

// Tick advances the world by dt. The window is resynchronised first so
// ground queries and collisions for this step see the right blocks, then the
// observer is pulled back above the ground if it tunnelled through, then the
// engine steps.
func (s *Session) Tick(dt time.Duration) *world.SlideSummary {
	if s.closed {
		return &world.SlideSummary{}
	}
	summary := s.window.Sync(s.observerPos().X())
	if !summary.Empty() {
		s.logger.Printf("window now %v (created %v, evicted %v)", s.chunkIndices(), summary.Created(), summary.Evicted())
	}
	s.correctBreakthrough()
	s.host.Step(dt)
	s.ticks.Add(1)
	return summary
}

// correctBreakthrough lifts the observer whose feet ended up below the ground
// line, which happens when a large step carries it past the surface blocks.
func (s *Session) correctBreakthrough() {
	body := s.observer.Body()
	feet := body.Pos.Y() + body.Size.Y()
	ground := s.window.GroundHeight(body.Center().X())
	if delta := ground - feet; delta < 0 {
		body.Pos = mgl64.Vec2{body.Pos.X(), body.Pos.Y() + delta}
		if body.Vel.Y() > 0 {
			body.Vel = mgl64.Vec2{body.Vel.X(), 0}
		}
	}
}

func (s *Session) ID() string { return s.id.String() }

// Score is the number of creatures killed so far.
func (s *Session) Score() int64 { return s.score.Load() }

func (s *Session) Ticks() int64 { return s.ticks.Load() }

func (s *Session) Observer() entities.Damageable { return s.observer }

func (s *Session) Window() *world.Window { return s.window }

func (s *Session) Spawner() *entities.Spawner { return s.spawner }

// GroundHeight is the ground line at x, answered for any x.
func (s *Session) GroundHeight(x float64) float64 {
	return s.window.GroundHeight(x)
}

// Close stops the spawner and evicts every chunk. The session cannot be
// ticked afterwards.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.spawner.Stop()
	s.window.Destroy()
	s.host.Remove(s.observer, engine.LayerObjects)
	stats := s.spawner.Stats()
	s.logger.Printf("session %s closed ticks=%d score=%d spawned=%d culled=%d",
		s.id, s.Ticks(), s.Score(), stats.Spawned, stats.Culled)
}
