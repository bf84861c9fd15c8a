package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-blackhole-renderer/pkg/core"
)

// CameraConfig describes the per-frame view: position, orientation basis,
// image size, and vertical field of view.
type CameraConfig struct {
	Position    core.Vec3
	Orientation mgl64.Mat3 // columns: right, up, forward
	Width       int
	Height      int
	FovDegrees  float64
}

// LookAt builds a right/up/forward orientation basis from a camera position
// and target, using world +Y as up.
func LookAt(position, target core.Vec3) mgl64.Mat3 {
	forward := target.Subtract(position).Normalize()
	f := mgl64.Vec3{forward.X, forward.Y, forward.Z}
	right := f.Cross(mgl64.Vec3{0, 1, 0}).Normalize()
	up := right.Cross(f)
	return mgl64.Mat3FromCols(right, up, f)
}

// rollBasis rotates the right/up columns of a basis around its forward axis
func rollBasis(basis mgl64.Mat3, roll float64) mgl64.Mat3 {
	if math.Abs(roll) < 0.001 {
		return basis
	}
	right, up, forward := basis.Col(0), basis.Col(1), basis.Col(2)
	cosRoll, sinRoll := math.Cos(roll), math.Sin(roll)
	rightRolled := right.Mul(cosRoll).Add(up.Mul(sinRoll))
	upRolled := right.Mul(-sinRoll).Add(up.Mul(cosRoll))
	return mgl64.Mat3FromCols(rightRolled, upRolled, forward)
}

// Camera is the pixel driver: it converts pixel coordinates into world-space
// rays. It is stateless after construction.
type Camera struct {
	config     CameraConfig
	tanHalfFov float64
	aspect     float64
}

// NewCamera creates a camera, clamping resolution and field of view so a
// malformed configuration cannot push NaNs into the first ray direction.
func NewCamera(config CameraConfig) *Camera {
	if config.Width < 1 {
		config.Width = 1
	}
	if config.Height < 1 {
		config.Height = 1
	}
	config.FovDegrees = max(1.0, min(175.0, config.FovDegrees))

	return &Camera{
		config:     config,
		tanHalfFov: math.Tan(config.FovDegrees * math.Pi / 360.0),
		aspect:     float64(config.Width) / float64(config.Height),
	}
}

// Config returns the (possibly clamped) camera configuration
func (c *Camera) Config() CameraConfig {
	return c.config
}

// RayForPixel maps pixel (i, j) to the world-space ray through its center:
// aspect-corrected NDC scaled by tan(fov/2), rotated by the view basis.
func (c *Camera) RayForPixel(i, j int) core.Ray {
	x := (2.0*(float64(i)+0.5)/float64(c.config.Width) - 1.0) * c.aspect
	y := 2.0*(float64(j)+0.5)/float64(c.config.Height) - 1.0

	local := mgl64.Vec3{x * c.tanHalfFov, -y * c.tanHalfFov, 1.0}
	world := c.config.Orientation.Mul3x1(local)
	direction := core.NewVec3(world.X(), world.Y(), world.Z()).Normalize()

	return core.NewRay(c.config.Position, direction)
}
