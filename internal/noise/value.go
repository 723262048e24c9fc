package noise

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// Value2D is lattice value noise whose corner values come from a
// seeded PRNG-shuffled table rather than direct hashing. It is kept
// apart from the deterministic height path on purpose: two Value2D
// instances agree only when built from the same seed, and nothing in
// the height computation may depend on it. It carries no gradient.
type Value2D struct {
	perm [512]uint8
}

func NewValue2D(seed int64) *Value2D {
	v := &Value2D{}
	rng := rand.New(rand.NewSource(seed))
	for i := range 256 {
		v.perm[i] = uint8(i)
	}
	rng.Shuffle(256, func(i, j int) {
		v.perm[i], v.perm[j] = v.perm[j], v.perm[i]
	})
	// Mirror so lookups never wrap explicitly
	for i := range 256 {
		v.perm[256+i] = v.perm[i]
	}
	return v
}

func (v *Value2D) corner(x, z int64) float32 {
	h := v.perm[int(uint8(x))+int(v.perm[uint8(z)])]
	return float32(h)/127.5 - 1 // [-1, 1]
}

// Sample returns value noise in [-1, 1].
func (v *Value2D) Sample(pos mgl32.Vec2) float32 {
	x0 := floorf(pos.X())
	z0 := floorf(pos.Y())

	fx := fade(pos.X() - x0)
	fz := fade(pos.Y() - z0)

	ix := int64(x0)
	iz := int64(z0)

	v00 := v.corner(ix, iz)
	v10 := v.corner(ix+1, iz)
	v01 := v.corner(ix, iz+1)
	v11 := v.corner(ix+1, iz+1)

	i0 := v00 + fx*(v10-v00)
	i1 := v01 + fx*(v11-v01)
	return i0 + fz*(i1-i0)
}
