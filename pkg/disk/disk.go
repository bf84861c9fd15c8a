// Package disk models the emissive accretion disk as a volumetric medium:
// a density envelope around the equatorial plane plus a noise-modulated
// emission color sampled from a radial ramp.
package disk

import (
	"math"

	"github.com/df07/go-blackhole-renderer/pkg/core"
	"github.com/df07/go-blackhole-renderer/pkg/noise"
)

// densityThreshold short-circuits contributions too faint to matter
const densityThreshold = 1e-3

// Envelope is the static disk configuration. Radii are in Schwarzschild
// units; InnerRadius must be less than OuterRadius.
type Envelope struct {
	InnerRadius float64 // inner cutoff (ISCO)
	OuterRadius float64
	HalfHeight  float64

	RadialFalloff   float64 // exponent on the radial density term
	VerticalFalloff float64 // exponent on the height density term

	RotationSpeed float64 // azimuthal advance of the turbulence per unit time
	Octaves       int     // turbulence octaves, subject to the LOD cap
	Absorption    float64 // Beer-Lambert absorption coefficient
}

// DefaultEnvelope returns the standard disk: ISCO at 2.6 R_S, outer edge at
// 12 R_S, thin vertical profile.
func DefaultEnvelope() Envelope {
	return Envelope{
		InnerRadius:     2.6,
		OuterRadius:     12.0,
		HalfHeight:      0.4,
		RadialFalloff:   2.0,
		VerticalFalloff: 2.5,
		RotationSpeed:   0.35,
		Octaves:         5,
		Absorption:      2.0,
	}
}

func smoothstep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0.0
		}
		return 1.0
	}
	t := (x - edge0) / (edge1 - edge0)
	if t < 0.0 {
		t = 0.0
	} else if t > 1.0 {
		t = 1.0
	}
	return t * t * (3.0 - 2.0*t)
}

// Contains is the loose bounding test used to reject positions cheaply
// before the full density evaluation.
func (e Envelope) Contains(p core.Vec3) bool {
	if math.Abs(p.Y) > e.HalfHeight {
		return false
	}
	rho2 := p.X*p.X + p.Z*p.Z
	inner := e.InnerRadius * 0.9
	return rho2 >= inner*inner && rho2 <= e.OuterRadius*e.OuterRadius
}

// Density evaluates the local disk density at p: a radial falloff toward the
// outer edge, a power-law falloff with height, and a smooth inner-edge mask
// below the ISCO. Values under densityThreshold collapse to zero.
func (e Envelope) Density(p core.Vec3) float64 {
	rho := math.Sqrt(p.X*p.X + p.Z*p.Z)

	radial := math.Max(0.0, 1.0-rho/e.OuterRadius)
	radial = math.Pow(radial, e.RadialFalloff)

	vertical := math.Max(0.0, 1.0-math.Abs(p.Y)/e.HalfHeight)
	vertical = math.Pow(vertical, e.VerticalFalloff)

	innerMask := smoothstep(e.InnerRadius, e.InnerRadius*1.1, rho)

	density := radial * vertical * innerMask
	if density < densityThreshold {
		return 0.0
	}
	return density
}

// Shade returns the local emission color and density at p. The emission is
// the radial ramp color modulated by fractal turbulence evaluated in a frame
// that rotates with the disk (azimuth advanced by time * RotationSpeed).
// lodCap bounds the turbulence octave count.
func (e Envelope) Shade(p core.Vec3, time float64, ramp SampleFunc, lodCap int) (core.Vec3, float64) {
	density := e.Density(p)
	if density == 0.0 {
		return core.Vec3{}, 0.0
	}

	rho := math.Sqrt(p.X*p.X + p.Z*p.Z)
	u := (rho - e.InnerRadius) / (e.OuterRadius - e.InnerRadius)
	base := ramp(u)

	// Sample turbulence in the co-rotating frame so the pattern orbits
	phi := math.Atan2(p.Z, p.X) - time*e.RotationSpeed
	coord := core.NewVec3(rho*math.Cos(phi), p.Y*4.0, rho*math.Sin(phi))
	turbulence := noise.Fractal(coord.Multiply(0.9), e.Octaves, lodCap)

	emission := base.Multiply(0.4 + 0.6*turbulence)
	return emission, density
}
