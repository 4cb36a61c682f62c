package geom

import "math"

// Vec2 is a position or displacement in the simulation plane.
type Vec2 struct {
	X, Y float64
}

// Box is a periodic square cell of side L. All coordinates live in
// [0, L) on both axes; displacements are measured under the minimum
// image convention.
type Box struct {
	L float64
}

// FromDensity derives the box side for n particles at the given number
// density: L = sqrt(n/rho).
func FromDensity(n int, density float64) Box {
	return Box{L: math.Sqrt(float64(n) / density)}
}

// Wrap maps a coordinate into [0, L) with true modulo semantics:
// negative inputs land near L and an input of exactly L lands on 0.
func (b Box) Wrap(x float64) float64 {
	w := math.Mod(x, b.L)
	if w < 0 {
		w += b.L
	}
	// Adding L to a tiny negative remainder can round back up to L.
	if w >= b.L {
		w = 0
	}
	return w
}

// MinImage maps a displacement onto its nearest periodic image: the
// value congruent to d modulo L restricted to (-L/2, L/2].
func (b Box) MinImage(d float64) float64 {
	d -= b.L * math.Round(d/b.L)
	if d <= -b.L/2 {
		d += b.L
	}
	return d
}

// WrapVec wraps both coordinates into the box.
func (b Box) WrapVec(v Vec2) Vec2 {
	return Vec2{X: b.Wrap(v.X), Y: b.Wrap(v.Y)}
}

// SeparationSq returns the squared minimum-image distance between p and q.
func (b Box) SeparationSq(p, q Vec2) float64 {
	dx := b.MinImage(p.X - q.X)
	dy := b.MinImage(p.Y - q.Y)
	return dx*dx + dy*dy
}
