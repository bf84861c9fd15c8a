package disk

import "github.com/df07/go-blackhole-renderer/pkg/core"

// SampleFunc returns the disk emission color for a normalized radius u in
// [0, 1], where u = 0 is the inner edge and u = 1 the outer edge.
type SampleFunc func(u float64) core.Vec3

// Ramp is a 1D color lookup: evenly spaced stops with linear interpolation
// between them. Inputs outside [0, 1] clamp to the endpoint stops.
type Ramp struct {
	stops []core.Vec3
}

// NewRamp creates a ramp from its color stops, ordered inner to outer
func NewRamp(stops ...core.Vec3) *Ramp {
	if len(stops) == 0 {
		stops = []core.Vec3{{}}
	}
	return &Ramp{stops: stops}
}

// Sample evaluates the ramp at normalized radius u
func (r *Ramp) Sample(u float64) core.Vec3 {
	if len(r.stops) == 1 {
		return r.stops[0]
	}
	u = max(0.0, min(1.0, u))
	scaled := u * float64(len(r.stops)-1)
	i := int(scaled)
	if i >= len(r.stops)-1 {
		return r.stops[len(r.stops)-1]
	}
	return r.stops[i].Lerp(r.stops[i+1], scaled-float64(i))
}

// NewFireRamp builds the default accretion disk ramp: white-hot at the inner
// edge cooling through yellow and orange to a dim red rim. Inner stops are
// deliberately "hot" with components above 1 so tone mapping has headroom
// to work with.
func NewFireRamp() *Ramp {
	return NewRamp(
		core.NewVec3(3.2, 2.9, 2.6),
		core.NewVec3(1.7, 1.3, 1.0),
		core.NewVec3(1.0, 0.6, 0.0),
		core.NewVec3(1.0, 0.0, 0.0),
		core.NewVec3(0.2, 0.02, 0.0),
	)
}
