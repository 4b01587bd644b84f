package engine

import "github.com/go-gl/mathgl/mgl64"

// Body is the spatial state shared by every entity. Positions are the top
// left corner in screen space, y grows downward.
type Body struct {
	Kind      Kind
	Pos       mgl64.Vec2
	Size      mgl64.Vec2
	Vel       mgl64.Vec2
	Accel     mgl64.Vec2
	Angle     float64
	Opacity   float64
	Immovable bool
	FlipX     bool
	Color     string

	generation uint64
}

func NewBody(kind Kind, pos, size mgl64.Vec2) *Body {
	return &Body{Kind: kind, Pos: pos, Size: size, Opacity: 1}
}

// Body lets a bare *Body be stored in a Collection.
func (b *Body) Body() *Body { return b }

func (b *Body) Center() mgl64.Vec2 {
	return b.Pos.Add(b.Size.Mul(0.5))
}

func (b *Body) SetCenter(c mgl64.Vec2) {
	b.Pos = c.Sub(b.Size.Mul(0.5))
}

// Generation changes every time the body is retired.
func (b *Body) Generation() uint64 { return b.generation }

// Retire invalidates every timer and tween scheduled against the body so far.
func (b *Body) Retire() { b.generation++ }

func (b *Body) Max() mgl64.Vec2 {
	return b.Pos.Add(b.Size)
}

// Overlaps reports strict overlap; touching edges do not count.
func (b *Body) Overlaps(o *Body) bool {
	bMax, oMax := b.Max(), o.Max()
	return b.Pos.X() < oMax.X() && o.Pos.X() < bMax.X() &&
		b.Pos.Y() < oMax.Y() && o.Pos.Y() < bMax.Y()
}
