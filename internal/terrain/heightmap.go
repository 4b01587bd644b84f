package terrain

import (
	"github.com/brentp/intintmap"
	"github.com/go-gl/mathgl/mgl64"

	"sideworld/internal/engine"
	"sideworld/internal/mathx"
)

// HeightMapOptions sizes the block grid a HeightMap lays down.
type HeightMapOptions struct {
	BlockSize int
	// Depth counts rows per column including the surface row.
	Depth int
	// BaseHeight is the ground line before the noise offset is applied.
	BaseHeight float64
}

// HeightMap answers ground height queries and materializes block columns for
// a horizontal range. Every column it lays down has exactly one surface block
// with Depth-1 fill blocks stacked beneath it.
type HeightMap struct {
	collection engine.Collection
	noise      NoiseField
	opts       HeightMapOptions

	surface *intintmap.Map // column x -> surface row y
	blocks  []*engine.Body
	first   int
	last    int
	spanned bool
}

func NewHeightMap(collection engine.Collection, noise NoiseField, opts HeightMapOptions) *HeightMap {
	if opts.BlockSize <= 0 {
		opts.BlockSize = 30
	}
	if opts.Depth <= 0 {
		opts.Depth = 1
	}
	return &HeightMap{
		collection: collection,
		noise:      noise,
		opts:       opts,
		surface:    intintmap.New(64, 0.6),
	}
}

// GroundHeight is the continuous ground line at pixel x.
func (h *HeightMap) GroundHeight(x float64) float64 {
	return h.opts.BaseHeight + h.noise.HeightOffset(x)
}

// SurfaceRowAt quantizes the ground line at x to the block row that contains it.
func (h *HeightMap) SurfaceRowAt(x float64) int {
	return mathx.AlignDownFloat(h.GroundHeight(x), h.opts.BlockSize)
}

// Materialize lays down every column whose x is a block multiple between
// minX rounded down and maxX rounded down plus one block. At least one column
// is always produced, an inverted range included. Columns that already exist
// are left alone. It returns the covered [first, last) column span.
func (h *HeightMap) Materialize(minX, maxX int) (first, last int) {
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	size := h.opts.BlockSize
	first = mathx.AlignDown(minX, size)
	last = mathx.AlignDown(maxX, size) + size

	for x := first; x < last; x += size {
		if _, ok := h.surface.Get(int64(x)); ok {
			continue
		}
		h.layColumn(x)
	}

	if h.spanned {
		h.first = min(h.first, first)
		h.last = max(h.last, last)
	} else {
		h.first, h.last, h.spanned = first, last, true
	}
	return first, last
}

func (h *HeightMap) layColumn(x int) {
	size := float64(h.opts.BlockSize)
	top := h.SurfaceRowAt(float64(x))
	h.surface.Put(int64(x), int64(top))

	for row := 0; row < h.opts.Depth; row++ {
		kind, layer := engine.KindFill, engine.LayerTerrain
		if row == 0 {
			kind, layer = engine.KindSurface, engine.LayerTerrainTop
		}
		block := engine.NewBody(kind,
			mgl64.Vec2{float64(x), float64(top) + float64(row)*size},
			mgl64.Vec2{size, size})
		block.Immovable = true
		engine.ApplyAppearance(block)
		h.blocks = append(h.blocks, block)
		if h.collection != nil {
			h.collection.Add(block, layer)
		}
	}
}

// SurfaceRow reports the surface block row laid down for column x.
func (h *HeightMap) SurfaceRow(x int) (int, bool) {
	y, ok := h.surface.Get(int64(x))
	return int(y), ok
}

// Span is the [first, last) column range materialized so far.
func (h *HeightMap) Span() (first, last int) {
	return h.first, h.last
}

func (h *HeightMap) Blocks() []*engine.Body {
	return h.blocks
}

func (h *HeightMap) Columns() int {
	return h.surface.Size()
}

// Destroy removes every block this map laid down from the collection.
func (h *HeightMap) Destroy() {
	for _, block := range h.blocks {
		if h.collection == nil {
			block.Retire()
			continue
		}
		layer := engine.LayerTerrain
		if block.Kind == engine.KindSurface {
			layer = engine.LayerTerrainTop
		}
		h.collection.Remove(block, layer)
	}
	h.blocks = nil
	h.surface = intintmap.New(64, 0.6)
	h.first, h.last, h.spanned = 0, 0, false
}
