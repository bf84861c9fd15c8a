package geodesic

import (
	"math"

	"github.com/df07/go-blackhole-renderer/pkg/core"
)

// schwarzschildState packs the spherical coordinates and their derivatives
// in the order the geodesic equations evolve them:
// [r, theta, phi, dr, dtheta, dphi].
type schwarzschildState [6]float64

// Schwarzschild computes the right-hand side of the null geodesic equations
// from the standard connection coefficients, using the metric factor
// f = 1 - R_S/r and the conserved energy E to close the system.
type Schwarzschild struct{}

// Derivatives writes d(state)/dlambda into out. Singular at theta = 0 and
// theta = pi through the cot(theta) term, which is guarded by SafeRecip.
func (Schwarzschild) Derivatives(y *schwarzschildState, energy float64, out *schwarzschildState) {
	r, theta := y[0], y[1]
	dr, dtheta, dphi := y[3], y[4], y[5]

	const rs = SchwarzschildRadius
	invR := core.SafeRecip(r)
	f := 1.0 - rs*invR
	invF := core.SafeRecip(f)
	halfRsOverR2 := 0.5 * rs * invR * invR

	sinTheta, cosTheta := math.Sin(theta), math.Cos(theta)
	dtdLambda := energy * invF

	out[0] = dr
	out[1] = dtheta
	out[2] = dphi

	out[3] = -halfRsOverR2*f*dtdLambda*dtdLambda +
		halfRsOverR2*invF*dr*dr +
		(r-rs)*(dtheta*dtheta+sinTheta*sinTheta*dphi*dphi)

	out[4] = -2.0*dr*dtheta*invR + sinTheta*cosTheta*dphi*dphi

	out[5] = -2.0*dr*dphi*invR - 2.0*cosTheta*core.SafeRecip(sinTheta)*dtheta*dphi
}
