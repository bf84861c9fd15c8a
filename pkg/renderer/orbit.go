package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-blackhole-renderer/pkg/core"
)

// Elevation is kept strictly inside (0, pi) so the view basis never
// degenerates at the poles.
const elevationMargin = 0.01

// OrbitCamera is the interactive orbit rig around the origin: azimuth and
// elevation angles at a given radius, with optional roll and an auto-orbit
// mode parameterized by scene time.
type OrbitCamera struct {
	Azimuth   float64
	Elevation float64
	Radius    float64
	Roll      float64

	AutoOrbit      bool
	AutoOrbitSpeed float64
}

// NewOrbitCamera returns the default viewing pose: slightly above the disk
// plane at 15 Schwarzschild radii.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Azimuth:        math.Pi * 0.25,
		Elevation:      math.Pi * 0.45,
		Radius:         15.0,
		AutoOrbitSpeed: 0.05,
	}
}

// Update advances the auto-orbit pose for the given scene time
func (o *OrbitCamera) Update(time float64) {
	if !o.AutoOrbit {
		return
	}
	o.Azimuth = time * o.AutoOrbitSpeed
	o.Elevation = math.Pi*0.3 + math.Sin(time*0.05)*0.3
}

// Position returns the camera position for the current orbit pose
func (o *OrbitCamera) Position() core.Vec3 {
	elev := max(elevationMargin, min(math.Pi-elevationMargin, o.Elevation))
	return core.NewVec3(
		o.Radius*math.Sin(elev)*math.Cos(o.Azimuth),
		o.Radius*math.Cos(elev),
		o.Radius*math.Sin(elev)*math.Sin(o.Azimuth),
	)
}

// Basis returns the view orientation looking at the origin, with roll applied
func (o *OrbitCamera) Basis() mgl64.Mat3 {
	return rollBasis(LookAt(o.Position(), core.NewVec3(0, 0, 0)), o.Roll)
}

// Config assembles a CameraConfig for the current pose
func (o *OrbitCamera) Config(width, height int, fovDegrees float64) CameraConfig {
	return CameraConfig{
		Position:    o.Position(),
		Orientation: o.Basis(),
		Width:       width,
		Height:      height,
		FovDegrees:  fovDegrees,
	}
}
