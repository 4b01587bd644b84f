package world

import (
	"fmt"
	"io"
	"log"

	"sideworld/internal/config"
	"sideworld/internal/engine"
	"sideworld/internal/mathx"
	"sideworld/internal/terrain"
)

// teleportSpan is how many viewports the observer may jump before the window
// is rebuilt outright instead of slid one chunk at a time.
const teleportSpan = 3

// Window keeps exactly three contiguous chunks alive around the observer:
// the chunk under the current viewport index and one on either side.
type Window struct {
	host   engine.Host
	cfg    *config.Config
	logger *log.Logger
	params chunkParams

	index  int
	chunks [3]*Chunk
}

// NewWindow builds the shared noise field and centres a window on
// observerX. jitterSeed only feeds cosmetic leaf timing.
func NewWindow(host engine.Host, cfg *config.Config, observerX float64, jitterSeed int64, logger *log.Logger) (*Window, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	noise, err := terrain.NewNoiseField(cfg.Terrain, cfg.TerrainSeed())
	if err != nil {
		return nil, fmt.Errorf("terrain: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	w := &Window{
		host:   host,
		cfg:    cfg,
		logger: logger,
		params: chunkParams{
			host:       host,
			cfg:        cfg,
			noise:      noise,
			baseHeight: float64(cfg.World.ViewportHeight) * cfg.Terrain.BaseHeightRatio,
			jitter:     mathx.NewRand(jitterSeed),
		},
	}
	w.rebuild(IndexFor(observerX, cfg.World.ViewportWidth), &SlideSummary{})
	return w, nil
}

func (w *Window) width() float64 {
	return float64(w.cfg.World.ViewportWidth)
}

// Index is the viewport index of the middle chunk.
func (w *Window) Index() int { return w.index }

// Chunks returns the live chunks ordered left to right.
func (w *Window) Chunks() []*Chunk {
	return []*Chunk{w.chunks[0], w.chunks[1], w.chunks[2]}
}

// Sync slides the window until observerX lies inside the viewport band of
// the middle chunk. Each slide evicts the chunk on the trailing side and
// builds a new one on the leading side. Jumps of several viewports rebuild
// all three chunks at once, which converges to the same state.
func (w *Window) Sync(observerX float64) *SlideSummary {
	summary := &SlideSummary{}
	target := IndexFor(observerX, w.cfg.World.ViewportWidth)
	if target-w.index >= teleportSpan || w.index-target >= teleportSpan {
		w.logger.Printf("observer jumped from viewport %d to %d, rebuilding window", w.index, target)
		w.rebuild(target, summary)
	}
	for {
		switch {
		case observerX > w.width()*float64(w.index+1):
			w.slideRight(summary)
		case observerX < w.width()*float64(w.index):
			w.slideLeft(summary)
		default:
			return summary
		}
	}
}

func (w *Window) slideRight(summary *SlideSummary) {
	w.index++
	fresh := w.build(w.index+1, summary)
	w.evict(w.chunks[0], summary)
	w.chunks = [3]*Chunk{w.chunks[1], w.chunks[2], fresh}
}

func (w *Window) slideLeft(summary *SlideSummary) {
	w.index--
	fresh := w.build(w.index-1, summary)
	w.evict(w.chunks[2], summary)
	w.chunks = [3]*Chunk{fresh, w.chunks[0], w.chunks[1]}
}

func (w *Window) rebuild(index int, summary *SlideSummary) {
	for _, c := range w.chunks {
		if c != nil {
			w.evict(c, summary)
		}
	}
	w.index = index
	for i := range w.chunks {
		w.chunks[i] = w.build(index-1+i, summary)
	}
}

func (w *Window) build(index int, summary *SlideSummary) *Chunk {
	c := newChunk(index, w.params)
	w.logger.Printf("chunk %d created seed=%d span=[%d,%d] trees=%d", c.Index, c.Seed, c.XStart, c.XEnd, len(c.Trees()))
	summary.add(c, ReasonCreated)
	return c
}

func (w *Window) evict(c *Chunk, summary *SlideSummary) {
	c.Destroy()
	w.logger.Printf("chunk %d evicted", c.Index)
	summary.add(c, ReasonEvicted)
}

// ChunkAt returns the live chunk containing x, if any.
func (w *Window) ChunkAt(x float64) (*Chunk, bool) {
	for _, c := range w.chunks {
		if c != nil && c.Contains(x) {
			return c, true
		}
	}
	return nil, false
}

// GroundHeight answers for any x. Every chunk shares the terrain seed, so
// positions outside the window get the same answer they will once loaded.
func (w *Window) GroundHeight(x float64) float64 {
	if c, ok := w.ChunkAt(x); ok {
		return c.GroundHeight(x)
	}
	return w.chunks[1].GroundHeight(x)
}

// Span is the pixel range covered by the three chunks.
func (w *Window) Span() (xStart, xEnd int) {
	return w.chunks[0].XStart, w.chunks[2].XEnd
}

// Destroy evicts every chunk.
func (w *Window) Destroy() *SlideSummary {
	summary := &SlideSummary{}
	for i, c := range w.chunks {
		if c != nil {
			w.evict(c, summary)
			w.chunks[i] = nil
		}
	}
	return summary
}
