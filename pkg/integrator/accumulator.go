package integrator

import (
	"math"

	"github.com/df07/go-blackhole-renderer/pkg/core"
)

// accumulator carries the per-ray running radiance and transmittance.
// Transmittance starts at 1 and only ever decreases.
type accumulator struct {
	color         core.Vec3
	transmittance float64
}

func newAccumulator() accumulator {
	return accumulator{transmittance: 1.0}
}

// add applies Beer-Lambert absorption for one march segment: the emission
// enters weighted by the absorbed fraction under the current transmittance,
// then the transmittance decays by exp(-opticalDepth).
func (a *accumulator) add(emission core.Vec3, opticalDepth float64) {
	t := math.Exp(-opticalDepth)
	a.color = a.color.Add(emission.Multiply((1.0 - t) * a.transmittance))
	a.transmittance *= t
}

// composite adds a background color under the remaining transmittance
func (a *accumulator) composite(background core.Vec3) core.Vec3 {
	return a.color.Add(background.Multiply(a.transmittance))
}
