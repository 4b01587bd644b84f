package terrain

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"sideworld/internal/config"
	"sideworld/internal/engine"
	"sideworld/internal/mathx"
)

// GroundFunc reports the ground line at pixel x.
type GroundFunc func(x float64) float64

// Tree is one planted trunk column with its canopy.
type Tree struct {
	Root   int // column x
	Ground int // surface row the trunk stands on
	Height int // trunk blocks
	Radius int // canopy radius in blocks
	Trunk  []*engine.Body
	Leaves []*Leaf
}

// Apex is the y of the topmost trunk block.
func (t *Tree) Apex(blockSize int) int {
	return t.Ground - t.Height*blockSize
}

// Planter grows trees over a horizontal range. Which columns get a tree, and
// how tall, depends only on the seed and the range.
type Planter struct {
	host      engine.Host
	ground    GroundFunc
	seed      int64
	blockSize int
	forest    config.ForestConfig
	leaves    config.LeafConfig
	jitter    *rand.Rand

	trees []*Tree
}

// NewPlanter builds a planter. jitter feeds leaf timing only and never
// influences placement.
func NewPlanter(host engine.Host, ground GroundFunc, seed int64, blockSize int, forest config.ForestConfig, leaves config.LeafConfig, jitter *rand.Rand) *Planter {
	if blockSize <= 0 {
		blockSize = 30
	}
	if jitter == nil {
		jitter = mathx.NewRand(mathx.Derive(seed, 1))
	}
	return &Planter{
		host:      host,
		ground:    ground,
		seed:      seed,
		blockSize: blockSize,
		forest:    forest,
		leaves:    leaves,
		jitter:    jitter,
	}
}

// CanopyRadius is ceil((height+2)/3).
func CanopyRadius(height int) int {
	return (height + 2 + 2) / 3
}

// Placement is one planted column chosen by Layout.
type Placement struct {
	Root   int
	Height int
}

// Layout rolls for a tree on each block column of [minX, maxX], rounded the
// same way as HeightMap.Materialize. It creates nothing.
func (p *Planter) Layout(minX, maxX int) []Placement {
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	rng := mathx.NewRand(p.seed)
	first := mathx.AlignDown(minX, p.blockSize)
	last := mathx.AlignDown(maxX, p.blockSize) + p.blockSize

	var out []Placement
	for x := first; x < last; x += p.blockSize {
		if rng.Float64() >= p.forest.PlantProbability {
			continue
		}
		out = append(out, Placement{Root: x, Height: p.forest.MinTrunkHeight + rng.Intn(p.forest.TrunkHeightRange)})
	}
	return out
}

// Plant grows a tree for every column Layout picks.
func (p *Planter) Plant(minX, maxX int) []*Tree {
	var planted []*Tree
	for _, at := range p.Layout(minX, maxX) {
		planted = append(planted, p.grow(at.Root, at.Height))
	}
	p.trees = append(p.trees, planted...)
	return planted
}

func (p *Planter) grow(x, height int) *Tree {
	size := float64(p.blockSize)
	ground := mathx.AlignDownFloat(p.ground(float64(x)), p.blockSize)
	tree := &Tree{Root: x, Ground: ground, Height: height, Radius: CanopyRadius(height)}

	for i := 1; i <= height; i++ {
		block := engine.NewBody(engine.KindTrunk,
			mgl64.Vec2{float64(x), float64(ground - i*p.blockSize)},
			mgl64.Vec2{size, size})
		block.Immovable = true
		engine.ApplyAppearance(block)
		p.host.Add(block, engine.LayerTrees)
		tree.Trunk = append(tree.Trunk, block)
	}

	// 2r x 2r canopy: columns -(r-1)..r around the trunk, rows from the apex
	// up 2r-1 more.
	apex := tree.Apex(p.blockSize)
	r := tree.Radius
	for dx := -(r - 1); dx <= r; dx++ {
		for dy := -(2*r - 1); dy <= 0; dy++ {
			origin := mgl64.Vec2{
				float64(x + dx*p.blockSize),
				float64(apex + dy*p.blockSize),
			}
			tree.Leaves = append(tree.Leaves, NewLeaf(p.host, origin, mgl64.Vec2{size, size}, p.leaves, p.jitter))
		}
	}
	return tree
}

func (p *Planter) Trees() []*Tree {
	return p.trees
}

// Destroy removes every trunk block and leaf and cancels their timers.
func (p *Planter) Destroy() {
	for _, tree := range p.trees {
		for _, block := range tree.Trunk {
			p.host.Remove(block, engine.LayerTrees)
		}
		for _, leaf := range tree.Leaves {
			leaf.Destroy()
		}
	}
	p.trees = nil
}
