package engine

import (
	"container/heap"
	"time"
)

// ownerRef pins a callback to the owner generation current at scheduling.
type ownerRef struct {
	body *Body
	gen  uint64
}

func refOf(owner *Body) ownerRef {
	if owner == nil {
		return ownerRef{}
	}
	return ownerRef{body: owner, gen: owner.generation}
}

func (r ownerRef) live() bool {
	return r.body == nil || r.body.generation == r.gen
}

type timerEntry struct {
	due       time.Duration
	seq       uint64
	owner     ownerRef
	fn        func()
	cancelled bool
}

func (t *timerEntry) Cancel() { t.cancelled = true }

type timerHeap []*timerEntry

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].due == h[j].due {
		return h[i].seq < h[j].seq
	}
	return h[i].due < h[j].due
}

func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *timerHeap) Push(x any) { *h = append(*h, x.(*timerEntry)) }

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

type frameHook struct {
	owner     ownerRef
	fn        func(time.Duration)
	cancelled bool
}

func (f *frameHook) Cancel() { f.cancelled = true }

func (f *frameHook) active() bool {
	return !f.cancelled && f.owner.live()
}

// After implements Scheduler.
func (h *Headless) After(owner *Body, delay time.Duration, fn func()) Timer {
	if delay < 0 {
		delay = 0
	}
	h.seq++
	entry := &timerEntry{due: h.now + delay, seq: h.seq, owner: refOf(owner), fn: fn}
	heap.Push(&h.timers, entry)
	return entry
}

// EveryFrame implements Scheduler.
func (h *Headless) EveryFrame(owner *Body, fn func(dt time.Duration)) Timer {
	hook := &frameHook{owner: refOf(owner), fn: fn}
	h.frames = append(h.frames, hook)
	return hook
}

func (h *Headless) fireDueTimers() {
	for h.timers.Len() > 0 && h.timers[0].due <= h.now {
		entry := heap.Pop(&h.timers).(*timerEntry)
		if entry.cancelled || !entry.owner.live() || entry.fn == nil {
			continue
		}
		entry.cancelled = true
		entry.fn()
	}
}

// PendingTimers counts scheduled callbacks that would still run.
func (h *Headless) PendingTimers() int {
	n := 0
	for _, entry := range h.timers {
		if !entry.cancelled && entry.owner.live() {
			n++
		}
	}
	return n
}
