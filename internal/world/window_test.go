package world

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"sideworld/internal/config"
	"sideworld/internal/engine"
)

func newTestWindow(t *testing.T, observerX float64) (*Window, *engine.Headless) {
	t.Helper()
	host := engine.NewHeadless(30)
	w, err := NewWindow(host, config.Default(), observerX, 1, nil)
	if err != nil {
		t.Fatalf("NewWindow: %v", err)
	}
	return w, host
}

func indices(w *Window) []int {
	out := make([]int, 0, 3)
	for _, c := range w.Chunks() {
		out = append(out, c.Index)
	}
	return out
}

func assertContiguous(t *testing.T, w *Window) {
	t.Helper()
	chunks := w.Chunks()
	for i := 0; i+1 < len(chunks); i++ {
		if chunks[i].XEnd != chunks[i+1].XStart-1 {
			t.Fatalf("chunks %d and %d not contiguous: x_end=%d next x_start=%d",
				chunks[i].Index, chunks[i+1].Index, chunks[i].XEnd, chunks[i+1].XStart)
		}
		if chunks[i+1].Index != chunks[i].Index+1 {
			t.Fatalf("chunk indices out of order: %v", indices(w))
		}
	}
	if chunks[1].Index != w.Index() {
		t.Fatalf("middle chunk %d does not match window index %d", chunks[1].Index, w.Index())
	}
}

func entityCount(w *Window) int {
	n := 0
	for _, c := range w.Chunks() {
		n += len(c.Terrain().Blocks())
		for _, tree := range c.Trees() {
			n += len(tree.Trunk) + len(tree.Leaves)
		}
	}
	return n
}

func TestInitialWindowCoversObserver(t *testing.T) {
	w, host := newTestWindow(t, 400)
	if got := indices(w); got[0] != -1 || got[1] != 0 || got[2] != 1 {
		t.Fatalf("initial chunks = %v, want [-1 0 1]", got)
	}
	assertContiguous(t, w)
	mid := w.Chunks()[1]
	if mid.Seed != 420 || mid.XStart != 0 || mid.XEnd != 779 {
		t.Fatalf("middle chunk = %+v", *mid)
	}
	if w.Chunks()[0].Seed != 419 || w.Chunks()[2].Seed != 421 {
		t.Fatalf("neighbour seeds = %d, %d", w.Chunks()[0].Seed, w.Chunks()[2].Seed)
	}
	if host.Len() != entityCount(w) {
		t.Fatalf("collection holds %d entities, chunks own %d", host.Len(), entityCount(w))
	}
}

func TestSyncSlidesRightByOneChunk(t *testing.T) {
	w, host := newTestWindow(t, 400)
	zero := *w.Chunks()[1]

	if summary := w.Sync(800); !summary.Empty() {
		t.Fatalf("x exactly on the boundary should not slide: %+v", summary.Changes())
	}

	summary := w.Sync(801)
	if created, evicted := summary.Created(), summary.Evicted(); len(created) != 1 || created[0] != 2 || len(evicted) != 1 || evicted[0] != -1 {
		t.Fatalf("created=%v evicted=%v", created, evicted)
	}
	if got := indices(w); got[0] != 0 || got[1] != 1 || got[2] != 2 {
		t.Fatalf("chunks after slide = %v", got)
	}
	one := w.Chunks()[1]
	if one.XStart != zero.XEnd+1 {
		t.Fatalf("chunk 1 x_start=%d, want %d", one.XStart, zero.XEnd+1)
	}
	assertContiguous(t, w)
	if host.Len() != entityCount(w) {
		t.Fatalf("orphaned entities after slide: %d vs %d", host.Len(), entityCount(w))
	}
	for _, e := range host.InRange(-810, 0) {
		if kind := e.Body().Kind; kind != engine.KindLeaf {
			t.Fatalf("evicted chunk left a %s at x=%v", kind, e.Body().Pos.X())
		}
	}
}

func TestSyncSlidesLeft(t *testing.T) {
	w, host := newTestWindow(t, 400)
	summary := w.Sync(-1)
	if created, evicted := summary.Created(), summary.Evicted(); len(created) != 1 || created[0] != -2 || len(evicted) != 1 || evicted[0] != 1 {
		t.Fatalf("created=%v evicted=%v", created, evicted)
	}
	if w.Index() != -1 {
		t.Fatalf("index = %d, want -1", w.Index())
	}
	assertContiguous(t, w)
	if host.Len() != entityCount(w) {
		t.Fatalf("orphaned entities after slide")
	}
}

func TestSyncConvergesAfterTeleport(t *testing.T) {
	for _, target := range []float64{2500, 80000, -45000} {
		w, host := newTestWindow(t, 400)
		w.Sync(target)
		c, ok := w.ChunkAt(target)
		if !ok {
			t.Fatalf("no chunk contains teleport target %v (window %v)", target, indices(w))
		}
		if c != w.Chunks()[1] {
			t.Fatalf("observer at %v is not in the middle chunk", target)
		}
		if target < float64(w.Index())*800 || target > float64(w.Index()+1)*800 {
			t.Fatalf("index %d does not bracket %v", w.Index(), target)
		}
		assertContiguous(t, w)
		if host.Len() != entityCount(w) {
			t.Fatalf("teleport to %v leaked entities: %d vs %d", target, host.Len(), entityCount(w))
		}
	}
}

type snapshot struct {
	surfaces map[int]int
	trees    map[int]int
}

func takeSnapshot(c *Chunk) snapshot {
	s := snapshot{surfaces: map[int]int{}, trees: map[int]int{}}
	for x := c.XStart; x <= c.XEnd; x += 30 {
		if y, ok := c.Terrain().SurfaceRow(x); ok {
			s.surfaces[x] = y
		}
	}
	for _, tree := range c.Trees() {
		s.trees[tree.Root] = tree.Height
	}
	return s
}

func TestRevisitingAnIndexRegeneratesIdentically(t *testing.T) {
	w, _ := newTestWindow(t, 400)
	before := takeSnapshot(w.Chunks()[1])
	if len(before.surfaces) == 0 {
		t.Fatalf("empty snapshot")
	}

	w.Sync(5 * 800)
	w.Sync(400)
	after := takeSnapshot(w.Chunks()[1])

	if len(after.surfaces) != len(before.surfaces) || len(after.trees) != len(before.trees) {
		t.Fatalf("revisit changed sizes: %d/%d columns, %d/%d trees",
			len(before.surfaces), len(after.surfaces), len(before.trees), len(after.trees))
	}
	for x, y := range before.surfaces {
		if after.surfaces[x] != y {
			t.Fatalf("column %d surface %d became %d", x, y, after.surfaces[x])
		}
	}
	for x, h := range before.trees {
		if after.trees[x] != h {
			t.Fatalf("tree at %d height %d became %d", x, h, after.trees[x])
		}
	}
}

func TestGroundIsContinuousAcrossSeams(t *testing.T) {
	w, _ := newTestWindow(t, 400)
	for _, c := range w.Chunks()[:2] {
		seam := float64(c.XEnd + 1)
		inside := w.GroundHeight(seam - 0.01)
		outside := w.GroundHeight(seam + 0.01)
		if math.Abs(inside-outside) > 0.5 {
			t.Fatalf("seam at %v jumps from %v to %v", seam, inside, outside)
		}
	}
	if w.GroundHeight(1e6) != w.Chunks()[1].GroundHeight(1e6) {
		t.Fatalf("ground height outside the window should use the shared field")
	}
}

func TestDestroyRemovesEverything(t *testing.T) {
	w, host := newTestWindow(t, 400)
	summary := w.Destroy()
	if len(summary.Evicted()) != 3 {
		t.Fatalf("evicted %v", summary.Evicted())
	}
	if host.Len() != 0 || host.PendingTimers() != 0 {
		t.Fatalf("destroy left entities=%d timers=%d", host.Len(), host.PendingTimers())
	}
}

func TestSpanFor(t *testing.T) {
	tests := []struct {
		index, start, end int
	}{
		{index: 0, start: 0, end: 779},
		{index: 1, start: 780, end: 1589},
		{index: -1, start: -810, end: -1},
	}
	for _, tt := range tests {
		start, end := SpanFor(tt.index, 800, 30)
		if start != tt.start || end != tt.end {
			t.Fatalf("SpanFor(%d) = [%d, %d], want [%d, %d]", tt.index, start, end, tt.start, tt.end)
		}
	}
	if IndexFor(-0.5, 800) != -1 || IndexFor(800, 800) != 1 || IndexFor(799.9, 800) != 0 {
		t.Fatalf("IndexFor rounding is off")
	}
}

func TestSaveWindowPreview(t *testing.T) {
	w, host := newTestWindow(t, 400)
	dir := filepath.Join(t.TempDir(), "previews")
	path, err := SaveWindowPreview(w, host, dir)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat preview: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("preview is empty")
	}
	if _, err := SaveWindowPreview(w, host, ""); err == nil {
		t.Fatalf("expected error for empty output dir")
	}
}

func TestParseHexColor(t *testing.T) {
	col, ok := parseHexColor("#5d9b3d")
	if !ok || col.R != 0x5d || col.G != 0x9b || col.B != 0x3d {
		t.Fatalf("parseHexColor = %+v %v", col, ok)
	}
	if _, ok := parseHexColor("#zzzzzz"); ok {
		t.Fatalf("invalid hex accepted")
	}
}
