package fbm

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"terrain-relief/internal/noise"
)

// Fractal sum of rotated gradient-noise octaves. Each octave samples
// the source at a rotated and frequency-scaled position; the running
// inverse transform maps every octave's gradient back into the frame
// of the original query position, so the summed gradient is the exact
// derivative of the summed height.

// Settings configures the octave sum. Immutable after validation;
// sampling never mutates it.
type Settings struct {
	// Lacunarity is the per-octave frequency multiplier, > 0.
	Lacunarity float32
	// BaseAmplitude is the amplitude of octave 0, > 0.
	BaseAmplitude float32
	// Gain is the per-octave amplitude multiplier, in (0, 1).
	Gain float32
	// Rotation is the fixed per-octave domain rotation in radians.
	Rotation float32
	// Offset translates the query position before octave 0.
	Offset mgl32.Vec2
	// Octaves is the number of layers summed by full-detail queries.
	Octaves int
	// SmoothOctaves is the octave index at which the partial gradient
	// sum is captured as the smooth gradient. Must be < Octaves or the
	// smooth gradient stays zero.
	SmoothOctaves int
}

func (s Settings) Validate() error {
	if s.Lacunarity <= 0 {
		return fmt.Errorf("fbm: lacunarity must be > 0, got %v", s.Lacunarity)
	}
	if s.BaseAmplitude <= 0 {
		return fmt.Errorf("fbm: base amplitude must be > 0, got %v", s.BaseAmplitude)
	}
	if s.Gain <= 0 || s.Gain >= 1 {
		return fmt.Errorf("fbm: gain must be in (0, 1), got %v", s.Gain)
	}
	if s.Octaves < 1 {
		return fmt.Errorf("fbm: octave count must be >= 1, got %d", s.Octaves)
	}
	if s.SmoothOctaves < 0 || s.SmoothOctaves >= s.Octaves {
		return fmt.Errorf("fbm: smooth octave threshold %d out of range [0, %d)", s.SmoothOctaves, s.Octaves)
	}
	return nil
}

// Result is one height-field evaluation.
type Result struct {
	Height float32
	// Gradient is the full-detail derivative of Height.
	Gradient mgl32.Vec2
	// SmoothGradient is the gradient truncated after SmoothOctaves+1
	// octaves: the low-frequency slope, free of fine detail.
	SmoothGradient mgl32.Vec2
}

// Field evaluates the fractal sum over a gradient noise source.
type Field struct {
	src noise.GradientSource
	cfg Settings
}

// New validates cfg and returns a Field. Invalid settings are a
// construction-time error, never a silent runtime fallback.
func New(src noise.GradientSource, cfg Settings) (*Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Field{src: src, cfg: cfg}, nil
}

func (f *Field) Settings() Settings {
	return f.cfg
}

// Sample sums octaves layers at pos, capturing the smooth gradient
// when the octave index equals smoothAt (exact equality; pass a
// negative smoothAt to skip the capture). Pure function of its
// arguments; callers may invoke it from any number of goroutines.
func (f *Field) Sample(pos mgl32.Vec2, octaves, smoothAt int) Result {
	p := pos.Add(f.cfg.Offset)
	amp := f.cfg.BaseAmplitude

	// The rotation angle is fixed for the whole call, so both
	// matrices are built once, outside the loop.
	rot := mgl32.Rotate2D(f.cfg.Rotation)
	inv := mgl32.Rotate2D(-f.cfg.Rotation)
	acc := mgl32.Ident2()

	var res Result
	for i := 0; i < octaves; i++ {
		s := f.src.SampleWithGradient(p)
		res.Height += amp * s.Value
		// acc carries the chain rule through the rotations and
		// frequency scaling applied to p by earlier octaves.
		res.Gradient = res.Gradient.Add(acc.Mul2x1(s.Gradient).Mul(amp))
		if i == smoothAt {
			res.SmoothGradient = res.Gradient
		}
		amp *= f.cfg.Gain
		p = rot.Mul2x1(p).Mul(f.cfg.Lacunarity)
		acc = inv.Mul2(acc).Mul(f.cfg.Lacunarity)
	}
	return res
}

// SampleFull evaluates at the configured octave count and smooth
// threshold.
func (f *Field) SampleFull(pos mgl32.Vec2) Result {
	return f.Sample(pos, f.cfg.Octaves, f.cfg.SmoothOctaves)
}
