package terrain

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"sideworld/internal/config"
	"sideworld/internal/engine"
	"sideworld/internal/mathx"
)

func fastLeafTiming() config.LeafConfig {
	ms := func(n int) config.Duration { return config.Duration(time.Duration(n) * time.Millisecond) }
	return config.LeafConfig{
		WakeDelayMax: ms(100),
		SwayAngle:    10,
		SwayCycle:    ms(1000),
		SquashFactor: 0.9,
		SquashCycle:  ms(200),
		LifetimeMin:  ms(500),
		LifetimeMax:  ms(600),
		FadeOut:      ms(1000),
		DeathMin:     ms(200),
		DeathMax:     ms(300),
		FadeIn:       ms(300),
		FallSpeed:    50,
		FallDrift:    50,
		FallCycle:    ms(200),
		StopTime:     ms(100),
	}
}

func TestLeafCompletesCycleAndReturnsToOrigin(t *testing.T) {
	host := engine.NewHeadless(30)
	ground := engine.NewBody(engine.KindSurface, mgl64.Vec2{90, 40}, mgl64.Vec2{30, 30})
	ground.Immovable = true
	host.Add(ground, engine.LayerTerrainTop)

	origin := mgl64.Vec2{90, 0}
	leaf := NewLeaf(host, origin, mgl64.Vec2{30, 30}, fastLeafTiming(), mathx.NewRand(11))
	if leaf.State() != LeafDormant {
		t.Fatalf("new leaf should be dormant, got %v", leaf.State())
	}
	squashed := mgl64.Vec2{30, 27}
	if leaf.Body().Size != squashed {
		t.Fatalf("new leaf size = %v, want %v", leaf.Body().Size, squashed)
	}

	seen := map[LeafState]bool{}
	var order []LeafState
	landed := false
	reborn := false
	for i := 0; i < 500 && !reborn; i++ {
		prev := leaf.State()
		host.Step(10 * time.Millisecond)
		state := leaf.State()
		if state != prev {
			order = append(order, state)
		}
		seen[state] = true
		if state == LeafFalling && leaf.Body().Pos.Y() > origin.Y() && leaf.Body().Vel == (mgl64.Vec2{}) {
			landed = true
		}
		if prev == LeafReviving && state != LeafReviving {
			reborn = true
		}
	}

	if !reborn {
		t.Fatalf("leaf never completed a cycle, transitions: %v", order)
	}
	// a zero wake delay can wake the reborn leaf within the same step
	want := []LeafState{LeafAlive, LeafFalling, LeafDead, LeafReviving}
	if len(order) != len(want)+1 {
		t.Fatalf("transitions = %v, want %v then dormant", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("transitions = %v, want %v then dormant", order, want)
		}
	}
	if last := order[len(want)]; last != LeafDormant && last != LeafAlive {
		t.Fatalf("leaf left reviving for %v", last)
	}
	if seen[LeafWaking] || seen[LeafFadedOut] {
		t.Fatalf("instantaneous states were observable: %v", order)
	}
	if !landed {
		t.Fatalf("falling leaf never came to rest on the surface block")
	}
	if leaf.Body().Pos != origin {
		t.Fatalf("leaf restarted at %v, want exactly %v", leaf.Body().Pos, origin)
	}
	if leaf.Body().Opacity != 1 || leaf.Body().Vel != (mgl64.Vec2{}) {
		t.Fatalf("reborn leaf opacity=%v vel=%v", leaf.Body().Opacity, leaf.Body().Vel)
	}
	if leaf.Body().Size != squashed {
		t.Fatalf("reborn leaf size = %v, want %v", leaf.Body().Size, squashed)
	}
}

func TestLeafSquashSwingsBetweenAxes(t *testing.T) {
	host := engine.NewHeadless(30)
	timing := fastLeafTiming()
	timing.LifetimeMin = config.Duration(time.Minute)
	timing.LifetimeMax = config.Duration(time.Minute)
	leaf := NewLeaf(host, mgl64.Vec2{}, mgl64.Vec2{30, 30}, timing, mathx.NewRand(5))

	minW, minH := 30.0, 30.0
	for i := 0; i < 100; i++ {
		host.Step(10 * time.Millisecond)
		size := leaf.Body().Size
		if size.X() < 27-1e-9 || size.X() > 30+1e-9 || size.Y() < 27-1e-9 || size.Y() > 30+1e-9 {
			t.Fatalf("size %v left the squash range", size)
		}
		minW = min(minW, size.X())
		minH = min(minH, size.Y())
	}
	if leaf.State() != LeafAlive {
		t.Fatalf("leaf state = %v, want alive", leaf.State())
	}
	if minH > 27.5 || minW > 27.5 {
		t.Fatalf("squash never reached both shapes: min width %v, min height %v", minW, minH)
	}
}

func TestLeafOnlyCollidesWhileFalling(t *testing.T) {
	host := engine.NewHeadless(30)
	leaf := NewLeaf(host, mgl64.Vec2{}, mgl64.Vec2{30, 30}, fastLeafTiming(), mathx.NewRand(1))
	surface := engine.NewBody(engine.KindSurface, mgl64.Vec2{}, mgl64.Vec2{30, 30})
	trunk := engine.NewBody(engine.KindTrunk, mgl64.Vec2{}, mgl64.Vec2{30, 30})

	if leaf.ShouldCollideWith(surface) {
		t.Fatalf("dormant leaf must not collide")
	}
	for i := 0; i < 100 && leaf.State() != LeafFalling; i++ {
		host.Step(10 * time.Millisecond)
	}
	if leaf.State() != LeafFalling {
		t.Fatalf("leaf never started falling")
	}
	if !leaf.ShouldCollideWith(surface) {
		t.Fatalf("falling leaf should collide with the surface")
	}
	if leaf.ShouldCollideWith(trunk) {
		t.Fatalf("falling leaf should ignore trunks")
	}
}

func TestDestroyedLeafIgnoresPendingCallbacks(t *testing.T) {
	host := engine.NewHeadless(30)
	leaf := NewLeaf(host, mgl64.Vec2{}, mgl64.Vec2{30, 30}, fastLeafTiming(), mathx.NewRand(2))
	for i := 0; i < 100 && leaf.State() != LeafFalling; i++ {
		host.Step(10 * time.Millisecond)
	}
	leaf.Destroy()
	state := leaf.State()
	for i := 0; i < 300; i++ {
		host.Step(10 * time.Millisecond)
	}
	if leaf.State() != state {
		t.Fatalf("destroyed leaf changed state from %v to %v", state, leaf.State())
	}
	if host.Len() != 0 || host.PendingTimers() != 0 || host.ActiveTweens() != 0 {
		t.Fatalf("destroy left entities=%d timers=%d tweens=%d", host.Len(), host.PendingTimers(), host.ActiveTweens())
	}
	leaf.Destroy()
}
