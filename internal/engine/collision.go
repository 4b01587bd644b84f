package engine

func agrees(a, b *entry) bool {
	if c, ok := a.entity.(Collider); ok && !c.ShouldCollideWith(b.entity) {
		return false
	}
	if c, ok := b.entity.(Collider); ok && !c.ShouldCollideWith(a.entity) {
		return false
	}
	return true
}

func orderedKey(a, b *entry) contactKey {
	if a.seq > b.seq {
		a, b = b, a
	}
	return contactKey{a: a.body, b: b.body}
}

type contact struct {
	a, b *entry
}

// collide refreshes the contact set and dispatches OnCollisionEnter for pairs
// that started overlapping during this step.
func (h *Headless) collide() {
	current := make(map[contactKey]struct{}, len(h.contacts))
	var fresh []contact
	consider := func(a, b *entry) {
		if !a.body.Overlaps(b.body) || !agrees(a, b) {
			return
		}
		key := orderedKey(a, b)
		if _, seen := current[key]; seen {
			return
		}
		current[key] = struct{}{}
		if _, ok := h.contacts[key]; !ok {
			fresh = append(fresh, contact{a: a, b: b})
		}
	}

	for i, dyn := range h.dynamics {
		if dyn.removed {
			continue
		}
		h.forCells(dyn.body, func(key cellKey) {
			for _, st := range h.statics[key] {
				if st.removed || !h.LayersCollide(dyn.layer, st.layer) {
					continue
				}
				consider(dyn, st)
			}
		})
		for _, other := range h.dynamics[i+1:] {
			if other.removed || !h.LayersCollide(dyn.layer, other.layer) {
				continue
			}
			consider(dyn, other)
		}
	}
	h.contacts = current

	for _, c := range fresh {
		if c.a.removed || c.b.removed {
			continue
		}
		if col, ok := c.a.entity.(Collider); ok {
			col.OnCollisionEnter(c.b.entity)
		}
		if c.a.removed || c.b.removed {
			continue
		}
		if col, ok := c.b.entity.(Collider); ok {
			col.OnCollisionEnter(c.a.entity)
		}
	}
}
