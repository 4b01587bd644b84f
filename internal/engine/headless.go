package engine

import (
	"math"
	"time"
)

type entry struct {
	entity  Entity
	body    *Body
	layer   Layer
	seq     uint64
	static  bool
	removed bool
}

type cellKey struct {
	x, y int
}

type layerPair struct {
	a, b Layer
}

func pairOf(a, b Layer) layerPair {
	if a > b {
		a, b = b, a
	}
	return layerPair{a: a, b: b}
}

type contactKey struct {
	a, b *Body
}

// Headless is a single goroutine, in-process engine. It integrates
// velocities, advances tweens, detects axis aligned overlaps between layers
// that are allowed to collide and fires timers, in that order, on every Step.
type Headless struct {
	now    time.Duration
	seq    uint64
	timers timerHeap
	frames []*frameHook
	tweens []*tween

	entries  map[*Body]*entry
	all      []*entry
	dynamics []*entry
	updaters []*entry
	statics  map[cellKey][]*entry
	cell     float64

	rules    map[layerPair]bool
	contacts map[contactKey]struct{}
}

// NewHeadless returns an engine whose static spatial index uses cells of
// cellSize pixels, with the default collision rules installed.
func NewHeadless(cellSize float64) *Headless {
	if cellSize <= 0 {
		cellSize = 30
	}
	h := &Headless{
		entries:  make(map[*Body]*entry),
		statics:  make(map[cellKey][]*entry),
		cell:     cellSize,
		rules:    make(map[layerPair]bool),
		contacts: make(map[contactKey]struct{}),
	}
	h.SetLayersCollide(LayerLeaves, LayerTerrainTop, true)
	h.SetLayersCollide(LayerObjects, LayerTerrainTop, true)
	h.SetLayersCollide(LayerObjects, LayerTrees, true)
	h.SetLayersCollide(LayerObjects, LayerObjects, true)
	return h
}

func (h *Headless) SetLayersCollide(a, b Layer, collide bool) {
	if collide {
		h.rules[pairOf(a, b)] = true
		return
	}
	delete(h.rules, pairOf(a, b))
}

func (h *Headless) LayersCollide(a, b Layer) bool {
	return h.rules[pairOf(a, b)]
}

// Now is the simulated time elapsed since construction.
func (h *Headless) Now() time.Duration { return h.now }

// Add implements Collection. Adding an entity twice is a no-op.
func (h *Headless) Add(e Entity, layer Layer) {
	if e == nil || e.Body() == nil {
		return
	}
	body := e.Body()
	if _, ok := h.entries[body]; ok {
		return
	}
	h.seq++
	ent := &entry{entity: e, body: body, layer: layer, seq: h.seq, static: body.Immovable}
	h.entries[body] = ent
	h.all = append(h.all, ent)
	if ent.static {
		h.forCells(body, func(key cellKey) {
			h.statics[key] = append(h.statics[key], ent)
		})
	} else {
		h.dynamics = append(h.dynamics, ent)
	}
	if _, ok := e.(Updater); ok {
		h.updaters = append(h.updaters, ent)
	}
}

// Remove implements Collection. The body is retired so that callbacks bound
// to it never run afterwards.
func (h *Headless) Remove(e Entity, layer Layer) bool {
	if e == nil || e.Body() == nil {
		return false
	}
	body := e.Body()
	ent, ok := h.entries[body]
	if !ok || ent.layer != layer {
		return false
	}
	ent.removed = true
	delete(h.entries, body)
	if ent.static {
		h.forCells(body, func(key cellKey) {
			list := h.statics[key]
			for i, candidate := range list {
				if candidate == ent {
					list = append(list[:i], list[i+1:]...)
					break
				}
			}
			if len(list) == 0 {
				delete(h.statics, key)
			} else {
				h.statics[key] = list
			}
		})
	}
	for key := range h.contacts {
		if key.a == body || key.b == body {
			delete(h.contacts, key)
		}
	}
	body.Retire()
	return true
}

func (h *Headless) Contains(e Entity) bool {
	if e == nil || e.Body() == nil {
		return false
	}
	_, ok := h.entries[e.Body()]
	return ok
}

func (h *Headless) Len() int { return len(h.entries) }

// Layer lists the live entities of one layer in insertion order.
func (h *Headless) Layer(layer Layer) []Entity {
	var out []Entity
	for _, ent := range h.all {
		if !ent.removed && ent.layer == layer {
			out = append(out, ent.entity)
		}
	}
	return out
}

// InRange lists live entities whose horizontal extent intersects [minX, maxX).
func (h *Headless) InRange(minX, maxX float64) []Entity {
	var out []Entity
	for _, ent := range h.all {
		if ent.removed {
			continue
		}
		left := ent.body.Pos.X()
		right := left + ent.body.Size.X()
		if left < maxX && right > minX {
			out = append(out, ent.entity)
		}
	}
	return out
}

// Step advances the simulation by dt.
func (h *Headless) Step(dt time.Duration) {
	if dt <= 0 {
		return
	}
	h.compact()
	h.now += dt
	seconds := dt.Seconds()

	for _, hook := range append([]*frameHook(nil), h.frames...) {
		if hook.active() {
			hook.fn(dt)
		}
	}
	for _, ent := range append([]*entry(nil), h.updaters...) {
		if !ent.removed {
			ent.entity.(Updater).Update(dt)
		}
	}
	for _, t := range append([]*tween(nil), h.tweens...) {
		t.advance(float32(seconds))
	}
	for _, ent := range h.dynamics {
		if ent.removed {
			continue
		}
		b := ent.body
		b.Vel = b.Vel.Add(b.Accel.Mul(seconds))
		b.Pos = b.Pos.Add(b.Vel.Mul(seconds))
	}
	h.collide()
	h.fireDueTimers()
}

func (h *Headless) compact() {
	h.all = liveEntries(h.all)
	h.dynamics = liveEntries(h.dynamics)
	h.updaters = liveEntries(h.updaters)

	frames := h.frames[:0]
	for _, hook := range h.frames {
		if hook.active() {
			frames = append(frames, hook)
		}
	}
	for i := len(frames); i < len(h.frames); i++ {
		h.frames[i] = nil
	}
	h.frames = frames

	tweens := h.tweens[:0]
	for _, t := range h.tweens {
		if t.active() {
			tweens = append(tweens, t)
		}
	}
	for i := len(tweens); i < len(h.tweens); i++ {
		h.tweens[i] = nil
	}
	h.tweens = tweens
}

func liveEntries(list []*entry) []*entry {
	out := list[:0]
	for _, ent := range list {
		if !ent.removed {
			out = append(out, ent)
		}
	}
	for i := len(out); i < len(list); i++ {
		list[i] = nil
	}
	return out
}

func (h *Headless) forCells(b *Body, fn func(cellKey)) {
	minX := int(math.Floor(b.Pos.X() / h.cell))
	minY := int(math.Floor(b.Pos.Y() / h.cell))
	maxX := int(math.Ceil(b.Max().X()/h.cell)) - 1
	maxY := int(math.Ceil(b.Max().Y()/h.cell)) - 1
	if maxX < minX {
		maxX = minX
	}
	if maxY < minY {
		maxY = minY
	}
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			fn(cellKey{x: x, y: y})
		}
	}
}
