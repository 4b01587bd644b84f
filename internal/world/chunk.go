package world

import (
	"math/rand"

	"sideworld/internal/config"
	"sideworld/internal/engine"
	"sideworld/internal/terrain"
)

// Chunk is one screen-width slice of the world: a height map over the shared
// noise field and a forest grown from a chunk specific seed over [XStart, XEnd].
type Chunk struct {
	Index  int
	Seed   int64
	XStart int
	XEnd   int

	ground *terrain.HeightMap
	forest *terrain.Planter
}

type chunkParams struct {
	host       engine.Host
	cfg        *config.Config
	noise      terrain.NoiseField
	baseHeight float64
	jitter     *rand.Rand
}

func newChunk(index int, p chunkParams) *Chunk {
	xStart, xEnd := SpanFor(index, p.cfg.World.ViewportWidth, p.cfg.World.BlockSize)
	c := &Chunk{
		Index:  index,
		Seed:   p.cfg.WorldSeed() + int64(index),
		XStart: xStart,
		XEnd:   xEnd,
	}
	c.ground = terrain.NewHeightMap(p.host, p.noise, terrain.HeightMapOptions{
		BlockSize:  p.cfg.World.BlockSize,
		Depth:      p.cfg.Terrain.Depth,
		BaseHeight: p.baseHeight,
	})
	c.forest = terrain.NewPlanter(p.host, c.ground.GroundHeight, c.Seed,
		p.cfg.World.BlockSize, p.cfg.Forest, p.cfg.Leaves, p.jitter)

	c.ground.Materialize(c.XStart, c.XEnd)
	c.forest.Plant(c.XStart, c.XEnd)
	return c
}

// Contains reports whether pixel x falls inside the chunk.
func (c *Chunk) Contains(x float64) bool {
	return x >= float64(c.XStart) && x < float64(c.XEnd+1)
}

func (c *Chunk) GroundHeight(x float64) float64 {
	return c.ground.GroundHeight(x)
}

func (c *Chunk) Terrain() *terrain.HeightMap { return c.ground }

func (c *Chunk) Trees() []*terrain.Tree { return c.forest.Trees() }

// Destroy removes every block, trunk and leaf the chunk created.
func (c *Chunk) Destroy() {
	c.forest.Destroy()
	c.ground.Destroy()
}
