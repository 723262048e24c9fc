package terrain

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Slope-driven blend between two terrain albedos. Decisions are made
// on the smooth (truncated-octave) gradient so material boundaries
// follow the large shapes of the terrain instead of speckling with
// per-sample roughness.

// slopeDamping scales the horizontal components of the slope normal
// before renormalizing, further flattening small slopes out of the
// material decision.
const slopeDamping = 0.25

// SlopeNormal derives the damped material normal from a smooth
// gradient.
func SlopeNormal(grad mgl32.Vec2) mgl32.Vec3 {
	n := mgl32.Vec3{-grad.X() * slopeDamping, 1, -grad.Y() * slopeDamping}
	return n.Normalize()
}

// BlendMaterial interpolates low -> high as the slope steepens.
// Below slopeLow the result is exactly low, above slopeHigh exactly
// high, with a cubic Hermite ramp in between.
func BlendMaterial(smoothGrad mgl32.Vec2, low, high mgl32.Vec3, slopeLow, slopeHigh float32) mgl32.Vec3 {
	n := SlopeNormal(smoothGrad)
	t := Smoothstep(slopeLow, slopeHigh, 1-n.Y())
	return low.Mul(1 - t).Add(high.Mul(t))
}

// Smoothstep is the standard cubic Hermite step: 0 at or below lo,
// 1 at or above hi, monotonic in between.
func Smoothstep(lo, hi, x float32) float32 {
	t := mgl32.Clamp((x-lo)/(hi-lo), 0, 1)
	return t * t * (3 - 2*t)
}
