// Package noise implements a deterministic, seedless 3D value noise field.
// It is a pure function of its input: the same coordinate always yields the
// same value, with no internal state, which keeps per-pixel ray marches
// reproducible and trivially parallel.
package noise

import (
	"math"

	"github.com/df07/go-blackhole-renderer/pkg/core"
)

func hash(n float64) float64 {
	x := math.Sin(n) * 43758.5453
	return x - math.Floor(x)
}

func lerp(v0, v1, t float64) float64 {
	return v0 + (v1-v0)*t
}

// Value3 evaluates hash-lattice value noise at p. The result is in [0, 1],
// continuous, and finite for any finite input.
func Value3(p core.Vec3) float64 {
	cell := core.NewVec3(math.Floor(p.X), math.Floor(p.Y), math.Floor(p.Z))
	f := p.Subtract(cell)

	// Hermite fade keeps the field C1-continuous across cell boundaries
	f = core.NewVec3(
		f.X*f.X*(3.0-2.0*f.X),
		f.Y*f.Y*(3.0-2.0*f.Y),
		f.Z*f.Z*(3.0-2.0*f.Z),
	)

	n := cell.Dot(core.NewVec3(1, 57, 113))

	return lerp(lerp(
		lerp(hash(n+0), hash(n+1), f.X),
		lerp(hash(n+57), hash(n+58), f.X), f.Y),
		lerp(
			lerp(hash(n+113), hash(n+114), f.X),
			lerp(hash(n+170), hash(n+171), f.X), f.Y), f.Z)
}

// Signed3 evaluates value noise remapped to [-1, 1]
func Signed3(p core.Vec3) float64 {
	return 2.0*Value3(p) - 1.0
}

// rotate decorrelates octaves so lattice artifacts don't line up
func rotate(v core.Vec3) core.Vec3 {
	return core.NewVec3(
		core.NewVec3(0.00, 0.80, 0.60).Dot(v),
		core.NewVec3(-0.80, 0.36, -0.48).Dot(v),
		core.NewVec3(-0.60, -0.48, 0.64).Dot(v),
	)
}

// Fractal sums octaves of value noise with amplitude halving and frequency
// doubling per octave. The effective octave count is min(octaves, lodCap),
// never less than one; lodCap <= 0 means no cap. The result is normalized
// to [0, 1] regardless of how many octaves contributed.
func Fractal(p core.Vec3, octaves, lodCap int) float64 {
	if lodCap > 0 && octaves > lodCap {
		octaves = lodCap
	}
	if octaves < 1 {
		octaves = 1
	}

	q := rotate(p)
	sum := 0.0
	norm := 0.0
	amplitude := 0.5
	for i := 0; i < octaves; i++ {
		sum += amplitude * Value3(q)
		norm += amplitude
		q = q.Multiply(2.0)
		amplitude *= 0.5
	}
	return sum / norm
}
