package noise

import (
	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
)

// Perlin wraps aquilax/go-perlin as a value-only Source. The library
// exposes no derivative, so this source is suitable for fields that
// never need a gradient (albedo tinting, moisture-style masks), not
// for the lit height field.
type Perlin struct {
	p *perlin.Perlin
}

func NewPerlin(seed int64) *Perlin {
	const (
		alpha = 2.0 // smoothing
		beta  = 2.0 // frequency step
		n     = 3   // internal octaves
	)
	return &Perlin{p: perlin.NewPerlin(alpha, beta, n, seed)}
}

// Sample returns noise in roughly [-1, 1].
func (p *Perlin) Sample(pos mgl32.Vec2) float32 {
	return float32(p.p.Noise2D(float64(pos.X()), float64(pos.Y())))
}
