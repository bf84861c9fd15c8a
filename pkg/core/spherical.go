package core

import "math"

// recipEpsilon is the additive bias used to keep reciprocals finite at
// coordinate singularities (r = 0, sin(theta) = 0).
const recipEpsilon = 1e-9

// SafeRecip returns 1/x with the magnitude of x floored at a small epsilon,
// preserving sign. Every division in the spherical machinery goes through
// this helper so the singular cases stay in one auditable place.
func SafeRecip(x float64) float64 {
	if x >= 0 {
		return 1.0 / (x + recipEpsilon)
	}
	return 1.0 / (x - recipEpsilon)
}

// ClampedAcos returns acos with the input clamped to [-1, 1]
func ClampedAcos(x float64) float64 {
	return math.Acos(max(-1.0, min(1.0, x)))
}

// ToSpherical converts a Cartesian position to spherical coordinates with a
// Y-up convention: theta is the polar angle from +Y, phi the azimuth in the
// XZ plane.
func ToSpherical(p Vec3) (r, theta, phi float64) {
	r = p.Length()
	theta = ClampedAcos(p.Y * SafeRecip(r))
	phi = math.Atan2(p.Z, p.X)
	return r, theta, phi
}

// FromSpherical converts spherical coordinates back to a Cartesian position
func FromSpherical(r, theta, phi float64) Vec3 {
	sinTheta := math.Sin(theta)
	return Vec3{
		X: r * sinTheta * math.Cos(phi),
		Y: r * math.Cos(theta),
		Z: r * sinTheta * math.Sin(phi),
	}
}

// SphericalDerivs projects a Cartesian velocity onto the spherical coordinate
// derivatives (dr, dtheta, dphi) at position p.
func SphericalDerivs(p, v Vec3) (dr, dtheta, dphi float64) {
	r, theta, _ := ToSpherical(p)
	dr = p.Dot(v) * SafeRecip(r)
	dtheta = (dr*math.Cos(theta) - v.Y) * SafeRecip(r*math.Sin(theta))
	dphi = (p.X*v.Z - p.Z*v.X) * SafeRecip(p.X*p.X+p.Z*p.Z)
	return dr, dtheta, dphi
}

// CartesianVelocity converts spherical coordinate derivatives back to a
// Cartesian velocity vector at (r, theta, phi).
func CartesianVelocity(r, theta, phi, dr, dtheta, dphi float64) Vec3 {
	sinTheta, cosTheta := math.Sin(theta), math.Cos(theta)
	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
	return Vec3{
		X: sinTheta*cosPhi*dr + r*cosTheta*cosPhi*dtheta - r*sinTheta*sinPhi*dphi,
		Y: cosTheta*dr - r*sinTheta*dtheta,
		Z: sinTheta*sinPhi*dr + r*cosTheta*sinPhi*dtheta + r*sinTheta*cosPhi*dphi,
	}
}
