package terrain

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"terrain-relief/internal/fbm"
)

// Terrain ties the fractal height field to world space. All positions
// here are world coordinates: queries are scaled into the noise domain
// internally, heights come back in world units, and gradients are
// converted to per-world-unit slopes, so every caller - renderer and
// shadow marcher alike - sees one surface in one frame.
type Terrain struct {
	field         *fbm.Field
	noiseScale    float32 // domain units per world unit
	verticalScale float32
	shadowOctaves int
	lightDir      mgl32.Vec3 // unit, surface toward light
}

const (
	shadowSteps   = 20
	shadowStepLen = 10.0
	// Tolerance below the sampled surface before a march point counts
	// as occluded; hides stair-stepping from the coarse step length.
	shadowBias = 0.1
)

func New(field *fbm.Field, noiseScale, verticalScale float32, shadowOctaves int, lightDir mgl32.Vec3) (*Terrain, error) {
	if noiseScale <= 0 {
		return nil, fmt.Errorf("terrain: noise scale must be > 0, got %v", noiseScale)
	}
	if limit := field.Settings().Octaves; shadowOctaves < 1 || shadowOctaves > limit {
		return nil, fmt.Errorf("terrain: shadow octave count must be in [1, %d], got %d", limit, shadowOctaves)
	}
	if lightDir.Len() == 0 {
		return nil, fmt.Errorf("terrain: light direction must be non-zero")
	}
	return &Terrain{
		field:         field,
		noiseScale:    noiseScale,
		verticalScale: verticalScale,
		shadowOctaves: shadowOctaves,
		lightDir:      lightDir.Normalize(),
	}, nil
}

// Sample evaluates the full-detail field at a world XZ position. The
// returned gradients are per world unit of the unscaled height: the
// chain rule through the domain mapping is already applied.
func (t *Terrain) Sample(world mgl32.Vec2) fbm.Result {
	res := t.field.SampleFull(world.Mul(t.noiseScale))
	res.Gradient = res.Gradient.Mul(t.noiseScale)
	res.SmoothGradient = res.SmoothGradient.Mul(t.noiseScale)
	return res
}

// HeightAt returns the world-space surface height at a world XZ
// position, using octaves noise layers.
func (t *Terrain) HeightAt(world mgl32.Vec2, octaves int) float32 {
	return t.field.Sample(world.Mul(t.noiseScale), octaves, -1).Height * t.verticalScale
}

// Normal converts a per-world-unit height gradient into a world-space
// surface normal for lighting.
func (t *Terrain) Normal(grad mgl32.Vec2) mgl32.Vec3 {
	return mgl32.Vec3{-grad.X() * t.verticalScale, 1, -grad.Y() * t.verticalScale}.Normalize()
}

// LightDir returns the unit direction toward the light.
func (t *Terrain) LightDir() mgl32.Vec3 {
	return t.lightDir
}

// ShadowMarch walks from a world-space origin toward the light in
// fixed steps, testing the marched elevation against the
// reduced-octave terrain height. It returns the ray parameter at the
// first occluded step, or end+1 when no occlusion is found before the
// budget or end is reached. The end+1 sentinel is a defined outcome,
// not a failure: callers test result < end for "in shadow".
func (t *Terrain) ShadowMarch(origin mgl32.Vec3, start, end float32) float32 {
	tc := start
	for i := 0; i < shadowSteps; i++ {
		if tc > end {
			break
		}
		p := origin.Add(t.lightDir.Mul(tc))
		h := t.HeightAt(mgl32.Vec2{p.X(), p.Z()}, t.shadowOctaves)
		if p.Y() < h-shadowBias {
			return tc
		}
		tc += shadowStepLen
	}
	return end + 1
}
