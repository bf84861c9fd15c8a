package scene

import (
	"math"

	"github.com/df07/go-blackhole-renderer/pkg/core"
	"github.com/df07/go-blackhole-renderer/pkg/integrator"
	"github.com/df07/go-blackhole-renderer/pkg/noise"
)

// Starfield parameters. Star density is value noise raised to a high power,
// which sparsifies the field into isolated bright points; the nebula tint is
// low-octave fractal noise.
const (
	starFrequency = 90.0
	starPower     = 22.0
	starGain      = 30.0

	nebulaFrequency = 3.5
	nebulaOctaves   = 3
)

var (
	nebulaDeep = core.NewVec3(0.015, 0.01, 0.04)
	nebulaGlow = core.NewVec3(0.10, 0.06, 0.16)
)

// NewStarfield returns a procedural directional background: sparse white
// stars over a faint purple nebula haze. Deterministic in the direction, so
// the backdrop is stable from frame to frame.
func NewStarfield() integrator.BackgroundFunc {
	return func(direction core.Vec3) core.Vec3 {
		dir := direction.Normalize()

		star := math.Pow(noise.Value3(dir.Multiply(starFrequency)), starPower) * starGain
		star = min(star, 4.0)

		haze := noise.Fractal(dir.Multiply(nebulaFrequency), nebulaOctaves, 0)
		nebula := nebulaDeep.Lerp(nebulaGlow, haze)

		return nebula.Add(core.NewVec3(star, star, star*1.05))
	}
}

// NewSolidBackground returns a constant-color background, mostly useful in
// tests and as a fallback when no starfield is wanted.
func NewSolidBackground(color core.Vec3) integrator.BackgroundFunc {
	return func(core.Vec3) core.Vec3 {
		return color
	}
}
