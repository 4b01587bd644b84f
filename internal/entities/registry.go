package entities

import (
	"fmt"
	"sort"
)

// ID names a creature for its whole life.
type ID string

// Registry owns the live creatures, in spawn order, and buckets them by the
// viewport index they currently fly over.
type Registry struct {
	creatures map[ID]*Creature
	order     []ID
	byChunk   map[int]map[ID]*Creature
	chunkOf   map[ID]int
}

func NewRegistry() *Registry {
	return &Registry{
		creatures: make(map[ID]*Creature),
		byChunk:   make(map[int]map[ID]*Creature),
		chunkOf:   make(map[ID]int),
	}
}

func (r *Registry) Add(c *Creature, chunk int) error {
	if c == nil {
		return fmt.Errorf("nil creature")
	}
	if c.id == "" {
		return fmt.Errorf("creature missing id")
	}
	if _, exists := r.creatures[c.id]; exists {
		return fmt.Errorf("creature %s already registered", c.id)
	}
	r.creatures[c.id] = c
	r.order = append(r.order, c.id)
	r.bucket(c, chunk)
	return nil
}

func (r *Registry) bucket(c *Creature, chunk int) {
	set := r.byChunk[chunk]
	if set == nil {
		set = make(map[ID]*Creature)
		r.byChunk[chunk] = set
	}
	set[c.id] = c
	r.chunkOf[c.id] = chunk
}

func (r *Registry) unbucket(id ID) {
	chunk, ok := r.chunkOf[id]
	if !ok {
		return
	}
	delete(r.chunkOf, id)
	if set := r.byChunk[chunk]; set != nil {
		delete(set, id)
		if len(set) == 0 {
			delete(r.byChunk, chunk)
		}
	}
}

// Remove reports whether id was registered.
func (r *Registry) Remove(id ID) bool {
	if _, ok := r.creatures[id]; !ok {
		return false
	}
	delete(r.creatures, id)
	r.unbucket(id)
	for i, candidate := range r.order {
		if candidate == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Transfer moves a creature to another chunk bucket.
func (r *Registry) Transfer(id ID, chunk int) {
	c, ok := r.creatures[id]
	if !ok {
		return
	}
	if current, ok := r.chunkOf[id]; ok && current == chunk {
		return
	}
	r.unbucket(id)
	r.bucket(c, chunk)
}

func (r *Registry) Creature(id ID) (*Creature, bool) {
	c, ok := r.creatures[id]
	return c, ok
}

// All returns the creatures in spawn order.
func (r *Registry) All() []*Creature {
	out := make([]*Creature, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.creatures[id])
	}
	return out
}

func (r *Registry) Len() int { return len(r.creatures) }

// ByChunk returns the creatures over one viewport index, in spawn order.
func (r *Registry) ByChunk(chunk int) []*Creature {
	set := r.byChunk[chunk]
	if len(set) == 0 {
		return nil
	}
	out := make([]*Creature, 0, len(set))
	for _, id := range r.order {
		if c, ok := set[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// ActiveChunks returns the sorted viewport indices that currently hold creatures.
func (r *Registry) ActiveChunks() []int {
	chunks := make([]int, 0, len(r.byChunk))
	for chunk := range r.byChunk {
		chunks = append(chunks, chunk)
	}
	sort.Ints(chunks)
	return chunks
}
