package noise

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Deterministic 2D gradient noise with an analytic derivative.
// Lattice gradients come from integer hashing, so no permutation
// tables need to be stored or seeded at runtime.

// Sample is one noise evaluation: the scalar value and its exact
// partial derivatives with respect to the query position.
type Sample struct {
	Value    float32
	Gradient mgl32.Vec2
}

// Source produces a continuous scalar field over 2D positions.
type Source interface {
	Sample(pos mgl32.Vec2) float32
}

// GradientSource additionally reports the analytic gradient of the
// field. Finite-difference approximations do not satisfy this
// contract; the gradient must be exact.
type GradientSource interface {
	Source
	SampleWithGradient(pos mgl32.Vec2) Sample
}

// Gradient2D is hash-lattice Perlin-style gradient noise. Values are
// roughly in [-1, 1] and the gradient is computed analytically by
// differentiating the bilinear blend.
type Gradient2D struct {
	seed int64
}

func NewGradient2D(seed int64) *Gradient2D {
	return &Gradient2D{seed: seed}
}

// Corner gradient directions. Eight evenly spread unit vectors keep
// the field isotropic enough without a normalize per lattice lookup.
var cornerDirs = [8]mgl32.Vec2{
	{1, 0},
	{0.70710678, 0.70710678},
	{0, 1},
	{-0.70710678, 0.70710678},
	{-1, 0},
	{-0.70710678, -0.70710678},
	{0, -1},
	{0.70710678, -0.70710678},
}

func hash2(x, z int64, seed int64) uint64 {
	// SplitMix64 style integer hash, stable across runs for same inputs
	v := uint64(x) + (uint64(z) << 1) + uint64(seed)*0x9E3779B97F4A7C15
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v = v ^ (v >> 31)
	return v
}

func latticeGradient(x, z int64, seed int64) mgl32.Vec2 {
	return cornerDirs[hash2(x, z, seed)&7]
}

func floorf(v float32) float32 {
	return float32(math.Floor(float64(v)))
}

// fade is the quintic Hermite curve 6t^5 - 15t^4 + 10t^3; fadeDeriv is
// its derivative 30t^2(t-1)^2. The quintic (rather than cubic) curve
// keeps the analytic gradient C1-continuous across cell boundaries.
func fade(t float32) float32 {
	return t * t * t * (t*(t*6-15) + 10)
}

func fadeDeriv(t float32) float32 {
	return 30 * t * t * (t - 1) * (t - 1)
}

func (n *Gradient2D) Sample(pos mgl32.Vec2) float32 {
	return n.SampleWithGradient(pos).Value
}

// SampleWithGradient evaluates the noise and its exact derivative.
//
// With corner dot products a,b,c,d and fade weights u,v the value is
//
//	a + u(b-a) + v(c-a) + uv(a-b-c+d)
//
// and the derivative splits into the blended corner gradients plus the
// derivative-of-the-weights term.
func (n *Gradient2D) SampleWithGradient(pos mgl32.Vec2) Sample {
	x0 := floorf(pos.X())
	z0 := floorf(pos.Y())
	ix := int64(x0)
	iz := int64(z0)

	// Fractional position inside the cell
	f := mgl32.Vec2{pos.X() - x0, pos.Y() - z0}

	g00 := latticeGradient(ix, iz, n.seed)
	g10 := latticeGradient(ix+1, iz, n.seed)
	g01 := latticeGradient(ix, iz+1, n.seed)
	g11 := latticeGradient(ix+1, iz+1, n.seed)

	a := g00.Dot(f)
	b := g10.Dot(mgl32.Vec2{f.X() - 1, f.Y()})
	c := g01.Dot(mgl32.Vec2{f.X(), f.Y() - 1})
	d := g11.Dot(mgl32.Vec2{f.X() - 1, f.Y() - 1})

	u := fade(f.X())
	v := fade(f.Y())
	du := fadeDeriv(f.X())
	dv := fadeDeriv(f.Y())

	k := a - b - c + d

	value := a + u*(b-a) + v*(c-a) + u*v*k

	// Blend of the corner gradients with the same weights
	grad := g00.
		Add(g10.Sub(g00).Mul(u)).
		Add(g01.Sub(g00).Mul(v)).
		Add(g00.Sub(g10).Sub(g01).Add(g11).Mul(u * v))

	// Weight-derivative term
	grad = grad.Add(mgl32.Vec2{
		du * ((b - a) + v*k),
		dv * ((c - a) + u*k),
	})

	return Sample{Value: value, Gradient: grad}
}
