package terrain

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"terrain-relief/internal/fbm"
	"terrain-relief/internal/noise"
)

// flatSource gives a constant field so world heights are exactly
// baseAmplitude * value * verticalScale, independent of position.
type flatSource struct {
	v float32
}

func (f flatSource) Sample(pos mgl32.Vec2) float32 {
	return f.v
}

func (f flatSource) SampleWithGradient(pos mgl32.Vec2) noise.Sample {
	return noise.Sample{Value: f.v}
}

func flatTerrain(t *testing.T, value, verticalScale float32, lightDir mgl32.Vec3) *Terrain {
	t.Helper()
	field, err := fbm.New(flatSource{v: value}, fbm.Settings{
		Lacunarity:    2.0,
		BaseAmplitude: 1.0,
		Gain:          0.5,
		Rotation:      0.524,
		Octaves:       1,
		SmoothOctaves: 0,
	})
	if err != nil {
		t.Fatal(err)
	}
	terr, err := New(field, 1, verticalScale, 1, lightDir)
	if err != nil {
		t.Fatal(err)
	}
	return terr
}

// TestShadowMarchUnoccluded verifies the sentinel when the ray climbs
// away from a flat surface.
func TestShadowMarchUnoccluded(t *testing.T) {
	terr := flatTerrain(t, 0, 10, mgl32.Vec3{0, 1, 0})

	got := terr.ShadowMarch(mgl32.Vec3{0, 5, 0}, 1, 150)
	if got != 151 {
		t.Errorf("ShadowMarch = %v, expected sentinel 151", got)
	}
}

// TestShadowMarchOccluded verifies a point below the surface is
// reported occluded at the first step.
func TestShadowMarchOccluded(t *testing.T) {
	// Surface at world height 1*10 = 10
	terr := flatTerrain(t, 1, 10, mgl32.Vec3{0, 1, 0})

	got := terr.ShadowMarch(mgl32.Vec3{0, 0, 0}, 1, 150)
	if got != 1 {
		t.Errorf("ShadowMarch = %v, expected occlusion at start t=1", got)
	}
}

// TestShadowMarchEmergence verifies the ray stops being occluded once
// it steps above the surface.
func TestShadowMarchEmergence(t *testing.T) {
	// Surface at 10; origin at 5 moving straight up crosses it
	// between the first step (t=1, y=6) and the second (t=11, y=16).
	terr := flatTerrain(t, 1, 10, mgl32.Vec3{0, 1, 0})

	got := terr.ShadowMarch(mgl32.Vec3{0, 5, 0}, 1, 150)
	if got != 1 {
		t.Errorf("ShadowMarch = %v, expected first sample at t=1 (y=6 < 10) occluded", got)
	}

	// Starting above the surface never occludes.
	got = terr.ShadowMarch(mgl32.Vec3{0, 11, 0}, 1, 150)
	if got != 151 {
		t.Errorf("ShadowMarch = %v, expected sentinel 151", got)
	}
}

// TestShadowMarchRange verifies every result lands in [start, end+1]
func TestShadowMarchRange(t *testing.T) {
	field, err := fbm.New(noise.NewGradient2D(42), fbm.Settings{
		Lacunarity:    2.0,
		BaseAmplitude: 0.4,
		Gain:          0.45,
		Rotation:      0.524,
		Octaves:       6,
		SmoothOctaves: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	terr, err := New(field, 1.0/256, 120, 3, mgl32.Vec3{-0.5, 0.6, -0.3})
	if err != nil {
		t.Fatal(err)
	}

	const start, end = 2.0, 180.0
	for i := 0; i < 100; i++ {
		origin := mgl32.Vec3{float32(i) * 13.7, float32(i%7) * 20, float32(i) * -9.3}
		got := terr.ShadowMarch(origin, start, end)
		if got < start || got > end+1 {
			t.Errorf("ShadowMarch(%v) = %v, outside [%v, %v]", origin, got, start, end+1)
		}
	}
}

// TestShadowMarchBudget verifies the fixed step budget cannot cover an
// oversized range and falls back to the sentinel.
func TestShadowMarchBudget(t *testing.T) {
	terr := flatTerrain(t, 0, 10, mgl32.Vec3{1, 0, 0})

	// Flat surface at 0, ray grazing at y=5: never occluded no matter
	// how large the range, and only 20 steps are ever taken.
	const end = 1e6
	got := terr.ShadowMarch(mgl32.Vec3{0, 5, 0}, 0, end)
	if got != end+1 {
		t.Errorf("ShadowMarch = %v, expected sentinel %v", got, float32(end+1))
	}
}

// TestShadowMarchSeesRenderedSurface verifies the marcher and the
// renderer query one and the same surface: a point lifted above its
// own terrain height can never self-occlude under a vertical light,
// since the marched XZ never moves and the elevation only climbs.
// Shadow octaves match the full count here so the marched height is
// exactly the rendered height.
func TestShadowMarchSeesRenderedSurface(t *testing.T) {
	field, err := fbm.New(noise.NewGradient2D(42), fbm.Settings{
		Lacunarity:    2.0,
		BaseAmplitude: 0.4,
		Gain:          0.45,
		Rotation:      0.524,
		Octaves:       6,
		SmoothOctaves: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	terr, err := New(field, 1.0/256, 120, 6, mgl32.Vec3{0, 1, 0})
	if err != nil {
		t.Fatal(err)
	}

	const start, end = 2.0, 180.0
	for i := -5; i <= 5; i++ {
		for j := -5; j <= 5; j++ {
			w := mgl32.Vec2{float32(i) * 60, float32(j) * 60}
			h := terr.HeightAt(w, 6)
			origin := mgl32.Vec3{w.X(), h + 0.5, w.Y()}

			got := terr.ShadowMarch(origin, start, end)
			if got != end+1 {
				t.Errorf("point above its own surface at %v (h=%v) self-occluded: ShadowMarch = %v, expected %v",
					w, h, got, float32(end+1))
			}
		}
	}
}

// TestHeightAtMatchesSample verifies the two query paths agree on the
// surface for equal octave counts.
func TestHeightAtMatchesSample(t *testing.T) {
	field, err := fbm.New(noise.NewGradient2D(7), fbm.Settings{
		Lacunarity:    2.0,
		BaseAmplitude: 0.4,
		Gain:          0.45,
		Rotation:      0.524,
		Octaves:       6,
		SmoothOctaves: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	terr, err := New(field, 1.0/256, 120, 6, mgl32.Vec3{0, 1, 0})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 20; i++ {
		w := mgl32.Vec2{float32(i) * 37.5, float32(i) * -21.25}
		full := terr.Sample(w).Height * 120
		marched := terr.HeightAt(w, 6)
		if math.Abs(float64(full-marched)) > 1e-3 {
			t.Errorf("surfaces disagree at %v: Sample=%v, HeightAt=%v", w, full, marched)
		}
	}
}

// TestNewRejectsBadOctaves verifies shadow octave validation against
// the field's configured count.
func TestNewRejectsBadOctaves(t *testing.T) {
	field, err := fbm.New(noise.NewGradient2D(1), fbm.Settings{
		Lacunarity:    2.0,
		BaseAmplitude: 0.4,
		Gain:          0.45,
		Rotation:      0.524,
		Octaves:       4,
		SmoothOctaves: 1,
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := New(field, 1, 120, 0, mgl32.Vec3{0, 1, 0}); err == nil {
		t.Error("New accepted zero shadow octaves")
	}
	if _, err := New(field, 1, 120, 5, mgl32.Vec3{0, 1, 0}); err == nil {
		t.Error("New accepted shadow octaves above the field's octave count")
	}
	if _, err := New(field, 0, 120, 2, mgl32.Vec3{0, 1, 0}); err == nil {
		t.Error("New accepted zero noise scale")
	}
}

// TestSampleGradientIsWorldSpace verifies the chain rule through the
// domain mapping: halving the noise scale halves the world slope.
func TestSampleGradientIsWorldSpace(t *testing.T) {
	settings := fbm.Settings{
		Lacunarity:    2.0,
		BaseAmplitude: 0.4,
		Gain:          0.45,
		Rotation:      0.524,
		Octaves:       4,
		SmoothOctaves: 1,
	}
	field, err := fbm.New(noise.NewGradient2D(3), settings)
	if err != nil {
		t.Fatal(err)
	}

	coarse, err := New(field, 1.0/256, 120, 2, mgl32.Vec3{0, 1, 0})
	if err != nil {
		t.Fatal(err)
	}

	w := mgl32.Vec2{96, -160}
	grad := coarse.Sample(w).Gradient

	// Central difference of the world-space height, per world unit.
	const h = 0.5
	dx := (coarse.HeightAt(mgl32.Vec2{w.X() + h, w.Y()}, 4) -
		coarse.HeightAt(mgl32.Vec2{w.X() - h, w.Y()}, 4)) / (2 * h) / 120
	dy := (coarse.HeightAt(mgl32.Vec2{w.X(), w.Y() + h}, 4) -
		coarse.HeightAt(mgl32.Vec2{w.X(), w.Y() - h}, 4)) / (2 * h) / 120

	if math.Abs(float64(grad.X()-dx)) > 1e-3 || math.Abs(float64(grad.Y()-dy)) > 1e-3 {
		t.Errorf("world-space gradient mismatch: analytic=(%v, %v), central diff=(%v, %v)",
			grad.X(), grad.Y(), dx, dy)
	}
}

// TestNormalPointsUp verifies a flat field yields the up normal
func TestNormalPointsUp(t *testing.T) {
	terr := flatTerrain(t, 0, 10, mgl32.Vec3{0, 1, 0})

	n := terr.Normal(mgl32.Vec2{})
	if n != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("Normal(zero gradient) = %v, expected (0, 1, 0)", n)
	}
}

// TestBlendEndpoints verifies the blend saturates at both color ends
func TestBlendEndpoints(t *testing.T) {
	low := mgl32.Vec3{0.3, 0.5, 0.2}
	high := mgl32.Vec3{0.5, 0.4, 0.35}

	// Zero gradient: slope 0, at or below the low edge.
	got := BlendMaterial(mgl32.Vec2{}, low, high, 0.1, 0.3)
	if got != low {
		t.Errorf("flat blend = %v, expected low color %v", got, low)
	}

	// Very steep gradient: slope saturates above the high edge.
	got = BlendMaterial(mgl32.Vec2{100, 0}, low, high, 0.1, 0.3)
	if got != high {
		t.Errorf("steep blend = %v, expected high color %v", got, high)
	}
}

// TestBlendBetween verifies intermediate slopes land on the segment
// between the two colors with one consistent blend factor.
func TestBlendBetween(t *testing.T) {
	low := mgl32.Vec3{0.1, 0.6, 0.2}
	high := mgl32.Vec3{0.7, 0.2, 0.5}

	got := BlendMaterial(mgl32.Vec2{2.2, -1.1}, low, high, 0.05, 0.6)

	tFactor := (got.X() - low.X()) / (high.X() - low.X())
	if tFactor <= 0 || tFactor >= 1 {
		t.Fatalf("blend factor %v not strictly between 0 and 1", tFactor)
	}
	for i := 1; i < 3; i++ {
		want := low[i] + tFactor*(high[i]-low[i])
		if math.Abs(float64(got[i]-want)) > 1e-5 {
			t.Errorf("channel %d = %v, expected %v for blend factor %v", i, got[i], want, tFactor)
		}
	}
}

// TestSmoothstep verifies edge clamping, midpoint and monotonicity
func TestSmoothstep(t *testing.T) {
	if got := Smoothstep(0.2, 0.8, 0.1); got != 0 {
		t.Errorf("Smoothstep below lo = %v, expected 0", got)
	}
	if got := Smoothstep(0.2, 0.8, 0.9); got != 1 {
		t.Errorf("Smoothstep above hi = %v, expected 1", got)
	}
	if got := Smoothstep(0.2, 0.8, 0.5); math.Abs(float64(got-0.5)) > 1e-6 {
		t.Errorf("Smoothstep midpoint = %v, expected 0.5", got)
	}

	prev := float32(-1)
	for x := float32(0); x <= 1; x += 0.01 {
		v := Smoothstep(0.2, 0.8, x)
		if v < prev {
			t.Fatalf("Smoothstep not monotonic at x=%v: %v < %v", x, v, prev)
		}
		prev = v
	}
}
