package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-blackhole-renderer/pkg/core"
)

func TestLookAt_Orthonormal(t *testing.T) {
	positions := []core.Vec3{
		core.NewVec3(0, 0, -10),
		core.NewVec3(10, 5, 3),
		core.NewVec3(-7, 2, 7),
	}

	const tolerance = 1e-9
	for _, pos := range positions {
		basis := LookAt(pos, core.NewVec3(0, 0, 0))
		right, up, forward := basis.Col(0), basis.Col(1), basis.Col(2)

		for name, col := range map[string]mgl64.Vec3{"right": right, "up": up, "forward": forward} {
			if math.Abs(col.Len()-1.0) > tolerance {
				t.Errorf("Basis column %s not unit length: %v", name, col.Len())
			}
		}
		if math.Abs(right.Dot(up)) > tolerance || math.Abs(right.Dot(forward)) > tolerance || math.Abs(up.Dot(forward)) > tolerance {
			t.Errorf("Basis at %v not orthogonal", pos)
		}

		// Forward points from the camera to the target
		expected := pos.Negate().Normalize()
		got := core.NewVec3(forward.X(), forward.Y(), forward.Z())
		if got.Subtract(expected).Length() > tolerance {
			t.Errorf("Forward %v, expected %v", got, expected)
		}
	}
}

func TestCamera_CenterRayPointsForward(t *testing.T) {
	position := core.NewVec3(0, 0, -10)
	camera := NewCamera(CameraConfig{
		Position:    position,
		Orientation: LookAt(position, core.NewVec3(0, 0, 0)),
		Width:       101, // odd so a pixel center sits on the axis
		Height:      101,
		FovDegrees:  60,
	})

	ray := camera.RayForPixel(50, 50)

	if ray.Origin != position {
		t.Errorf("Ray origin %v, expected %v", ray.Origin, position)
	}
	forward := core.NewVec3(0, 0, 1)
	if ray.Direction.Subtract(forward).Length() > 1e-9 {
		t.Errorf("Center ray %v, expected %v", ray.Direction, forward)
	}
}

func TestCamera_FovSpansImage(t *testing.T) {
	position := core.NewVec3(0, 0, -10)
	camera := NewCamera(CameraConfig{
		Position:    position,
		Orientation: LookAt(position, core.NewVec3(0, 0, 0)),
		Width:       100,
		Height:      100,
		FovDegrees:  90,
	})

	top := camera.RayForPixel(50, 0)
	bottom := camera.RayForPixel(50, 99)

	// With a 90 degree fov the extreme rays are just under 45 degrees off
	// axis (pixel centers sit half a pixel inside the frustum edge)
	angle := core.ClampedAcos(top.Direction.Dot(core.NewVec3(0, 0, 1)))
	if angle < math.Pi/4*0.9 || angle > math.Pi/4 {
		t.Errorf("Top ray off-axis angle %v, expected just under pi/4", angle)
	}

	// Vertical symmetry
	if math.Abs(top.Direction.Y+bottom.Direction.Y) > 1e-9 {
		t.Errorf("Rays not vertically symmetric: %v vs %v", top.Direction, bottom.Direction)
	}
	if top.Direction.Y <= 0 {
		t.Errorf("Top-of-image ray should point up, got %v", top.Direction)
	}
}

func TestNewCamera_ClampsDegenerateConfig(t *testing.T) {
	camera := NewCamera(CameraConfig{
		Position:    core.NewVec3(0, 0, -10),
		Orientation: mgl64.Ident3(),
		Width:       0,
		Height:      -5,
		FovDegrees:  500,
	})

	config := camera.Config()
	if config.Width != 1 || config.Height != 1 {
		t.Errorf("Resolution not clamped: %dx%d", config.Width, config.Height)
	}
	if config.FovDegrees != 175 {
		t.Errorf("Fov not clamped: %v", config.FovDegrees)
	}

	if !NewCamera(config).RayForPixel(0, 0).Direction.IsFinite() {
		t.Errorf("Clamped camera still produces non-finite rays")
	}

	low := NewCamera(CameraConfig{Orientation: mgl64.Ident3(), Width: 10, Height: 10, FovDegrees: 0})
	if low.Config().FovDegrees != 1 {
		t.Errorf("Fov not clamped upward: %v", low.Config().FovDegrees)
	}
}

func TestOrbitCamera_Position(t *testing.T) {
	orbit := NewOrbitCamera()
	orbit.Radius = 15

	const tolerance = 1e-9

	// Always on the sphere of the configured radius
	for _, azimuth := range []float64{0, 1.1, math.Pi, 5.0} {
		for _, elevation := range []float64{0.3, math.Pi / 2, 2.5} {
			orbit.Azimuth = azimuth
			orbit.Elevation = elevation
			if math.Abs(orbit.Position().Length()-15) > tolerance {
				t.Errorf("Orbit position %v not at radius 15", orbit.Position())
			}
		}
	}

	// On the equator the camera sits in the XZ plane
	orbit.Azimuth = 0
	orbit.Elevation = math.Pi / 2
	p := orbit.Position()
	if p.Subtract(core.NewVec3(15, 0, 0)).Length() > tolerance {
		t.Errorf("Equatorial position %v, expected (15, 0, 0)", p)
	}
}

func TestOrbitCamera_ElevationClamped(t *testing.T) {
	orbit := NewOrbitCamera()

	// Poles would make LookAt degenerate; the pose stays strictly inside
	for _, elevation := range []float64{0, -1, math.Pi, 10} {
		orbit.Elevation = elevation
		basis := orbit.Basis()
		for i := 0; i < 3; i++ {
			col := basis.Col(i)
			if math.IsNaN(col.X()) || math.IsNaN(col.Y()) || math.IsNaN(col.Z()) {
				t.Errorf("Degenerate basis at elevation %v", elevation)
			}
		}
	}
}

func TestOrbitCamera_AutoOrbit(t *testing.T) {
	orbit := NewOrbitCamera()

	frozen := orbit.Azimuth
	orbit.Update(10)
	if orbit.Azimuth != frozen {
		t.Errorf("Update moved the camera with auto-orbit disabled")
	}

	orbit.AutoOrbit = true
	orbit.Update(10)
	if orbit.Azimuth == frozen {
		t.Errorf("Auto-orbit did not advance the azimuth")
	}
}

func TestOrbitCamera_Config(t *testing.T) {
	orbit := NewOrbitCamera()
	config := orbit.Config(320, 240, 60)

	if config.Width != 320 || config.Height != 240 || config.FovDegrees != 60 {
		t.Errorf("Config did not carry dimensions: %+v", config)
	}
	if config.Position != orbit.Position() {
		t.Errorf("Config position %v, expected %v", config.Position, orbit.Position())
	}
}
