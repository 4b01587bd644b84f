package terrain

import (
	"testing"

	"sideworld/internal/config"
	"sideworld/internal/engine"
)

func newTestPlanter(t *testing.T, host *engine.Headless, seed int64, mutate func(*config.ForestConfig)) (*Planter, *HeightMap) {
	t.Helper()
	hm := newTestHeightMap(t, host)
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg.Forest)
	}
	return NewPlanter(host, hm.GroundHeight, seed, cfg.World.BlockSize, cfg.Forest, cfg.Leaves, nil), hm
}

type placement struct {
	root, height int
}

func placements(trees []*Tree) []placement {
	out := make([]placement, 0, len(trees))
	for _, tree := range trees {
		out = append(out, placement{root: tree.Root, height: tree.Height})
	}
	return out
}

func TestPlantIsDeterministicForSeedAndRange(t *testing.T) {
	a, _ := newTestPlanter(t, engine.NewHeadless(30), 420, nil)
	b, _ := newTestPlanter(t, engine.NewHeadless(30), 420, nil)
	first := placements(a.Plant(0, 3000))
	second := placements(b.Plant(0, 3000))
	if len(first) == 0 {
		t.Fatalf("expected some trees over 100 columns")
	}
	if len(first) != len(second) {
		t.Fatalf("tree counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("tree %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}

	c, _ := newTestPlanter(t, engine.NewHeadless(30), 421, nil)
	third := placements(c.Plant(0, 3000))
	same := len(third) == len(first)
	for i := 0; same && i < len(first); i++ {
		same = first[i] == third[i]
	}
	if same {
		t.Fatalf("different seeds produced identical forests")
	}
}

func TestPlantProbabilityExtremes(t *testing.T) {
	none, _ := newTestPlanter(t, engine.NewHeadless(30), 1, func(f *config.ForestConfig) { f.PlantProbability = 0 })
	if trees := none.Plant(0, 900); len(trees) != 0 {
		t.Fatalf("p=0 planted %d trees", len(trees))
	}
	all, _ := newTestPlanter(t, engine.NewHeadless(30), 1, func(f *config.ForestConfig) { f.PlantProbability = 1 })
	if trees := all.Plant(0, 90); len(trees) != 4 {
		t.Fatalf("p=1 planted %d trees over 4 columns", len(trees))
	}
}

func TestTreeGeometry(t *testing.T) {
	host := engine.NewHeadless(30)
	planter, hm := newTestPlanter(t, host, 3, func(f *config.ForestConfig) { f.PlantProbability = 1 })
	trees := planter.Plant(0, 300)
	for _, tree := range trees {
		if tree.Height < 7 || tree.Height >= 14 {
			t.Fatalf("height %d outside [7, 14)", tree.Height)
		}
		if tree.Radius != CanopyRadius(tree.Height) {
			t.Fatalf("radius %d for height %d", tree.Radius, tree.Height)
		}
		if tree.Ground != hm.SurfaceRowAt(float64(tree.Root)) {
			t.Fatalf("tree at %d stands on %d, surface is %d", tree.Root, tree.Ground, hm.SurfaceRowAt(float64(tree.Root)))
		}
		if len(tree.Trunk) != tree.Height {
			t.Fatalf("trunk has %d blocks, want %d", len(tree.Trunk), tree.Height)
		}
		lowest := tree.Trunk[0]
		if int(lowest.Pos.Y())+30 != tree.Ground {
			t.Fatalf("trunk base %v not resting on ground %d", lowest.Pos.Y(), tree.Ground)
		}
		side := 2 * tree.Radius
		if len(tree.Leaves) != side*side {
			t.Fatalf("canopy has %d leaves, want %d", len(tree.Leaves), side*side)
		}
		apex := tree.Apex(30)
		columns := map[int]bool{}
		rows := map[int]bool{}
		for _, leaf := range tree.Leaves {
			o := leaf.Origin()
			dx := int(o.X()) - tree.Root
			dy := apex - int(o.Y())
			if dx < -(tree.Radius-1)*30 || dx > tree.Radius*30 {
				t.Fatalf("leaf at %v outside canopy columns of tree %d", o, tree.Root)
			}
			if dy < 0 || dy > (side-1)*30 {
				t.Fatalf("leaf at %v hangs below the apex %d or too high", o, apex)
			}
			columns[dx] = true
			rows[dy] = true
		}
		if len(columns) != side || len(rows) != side {
			t.Fatalf("canopy spans %d columns and %d rows, want %d each", len(columns), len(rows), side)
		}
	}
}

func TestLayoutMatchesPlantProbability(t *testing.T) {
	host := engine.NewHeadless(30)
	planter, _ := newTestPlanter(t, host, 420, nil)
	const columns = 100000
	picked := planter.Layout(0, columns*30-1)
	ratio := float64(len(picked)) / columns
	if ratio < 0.095 || ratio > 0.105 {
		t.Fatalf("planted ratio %.4f, want about 0.1", ratio)
	}
	if host.Len() != 0 {
		t.Fatalf("layout registered %d entities", host.Len())
	}

	trees := planter.Plant(0, 3000)
	want := planter.Layout(0, 3000)
	if len(trees) != len(want) {
		t.Fatalf("plant grew %d trees, layout picked %d", len(trees), len(want))
	}
	for i, tree := range trees {
		if tree.Root != want[i].Root || tree.Height != want[i].Height {
			t.Fatalf("tree %d = (%d, %d), layout says %+v", i, tree.Root, tree.Height, want[i])
		}
	}
}

func TestCanopyRadius(t *testing.T) {
	cases := map[int]int{7: 3, 8: 4, 10: 4, 13: 5}
	for height, want := range cases {
		if got := CanopyRadius(height); got != want {
			t.Fatalf("CanopyRadius(%d) = %d, want %d", height, got, want)
		}
	}
}

func TestPlanterDestroyLeavesNothingBehind(t *testing.T) {
	host := engine.NewHeadless(30)
	planter, _ := newTestPlanter(t, host, 5, func(f *config.ForestConfig) { f.PlantProbability = 1 })
	planter.Plant(0, 120)
	if host.Len() == 0 || host.PendingTimers() == 0 {
		t.Fatalf("expected trees and leaf timers to be registered")
	}
	planter.Destroy()
	if host.Len() != 0 {
		t.Fatalf("destroy left %d entities", host.Len())
	}
	if host.PendingTimers() != 0 {
		t.Fatalf("destroy left %d live timers", host.PendingTimers())
	}
	if len(planter.Trees()) != 0 {
		t.Fatalf("planter still tracks trees")
	}
}
