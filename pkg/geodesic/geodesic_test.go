package geodesic

import (
	"math"
	"testing"

	"github.com/df07/go-blackhole-renderer/pkg/core"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  Mode
		expectErr bool
	}{
		{"Fast", "fast", ModeFast, false},
		{"Accurate", "accurate", ModeAccurate, false},
		{"Unknown", "newtonian", ModeFast, true},
		{"Empty", "", ModeFast, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, err := ParseMode(tt.input)
			if tt.expectErr {
				if err == nil {
					t.Errorf("ParseMode(%q) expected an error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMode(%q) unexpected error: %v", tt.input, err)
			}
			if mode != tt.expected {
				t.Errorf("ParseMode(%q) = %v, expected %v", tt.input, mode, tt.expected)
			}
		})
	}
}

func TestModeString(t *testing.T) {
	if ModeFast.String() != "fast" || ModeAccurate.String() != "accurate" {
		t.Errorf("Mode strings wrong: %q, %q", ModeFast.String(), ModeAccurate.String())
	}
}

func TestNewState_ConservedQuantities(t *testing.T) {
	// Tangential ray on the equator at r = 10: dphi = 0.1, so
	// L = r^2 * dphi = 10 and E = sqrt(f) for a null ray.
	origin := core.NewVec3(10, 0, 0)
	direction := core.NewVec3(0, 0, 1)

	s := NewState(origin, direction, ModeAccurate)

	const tolerance = 1e-6
	if math.Abs(s.AngularMomentum-10.0) > tolerance {
		t.Errorf("Expected angular momentum 10, got %v", s.AngularMomentum)
	}

	expectedEnergy := math.Sqrt(1.0 - SchwarzschildRadius/10.0)
	if math.Abs(s.Energy-expectedEnergy) > tolerance {
		t.Errorf("Expected energy %v, got %v", expectedEnergy, s.Energy)
	}
}

func TestNewState_FastModeSkipsSpherical(t *testing.T) {
	s := NewState(core.NewVec3(10, 0, 0), core.NewVec3(0, 0, 1), ModeFast)

	if s.Energy != 0 || s.AngularMomentum != 0 || s.R != 0 {
		t.Errorf("Fast mode should not populate the spherical state, got %+v", s)
	}
	if s.Position != core.NewVec3(10, 0, 0) {
		t.Errorf("Position not preserved: %v", s.Position)
	}
}

func TestStepSize_Clamps(t *testing.T) {
	stepper := NewStepper(ModeFast)

	tests := []struct {
		name     string
		radius   float64
		expected float64
	}{
		{"Far away clamps high", 100.0, 0.1 * 5.0},
		{"Near center clamps low", 0.5, 0.1 * 0.3},
		{"Mid range scales linearly", 8.0, 0.1 * 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := State{Position: core.NewVec3(tt.radius, 0, 0)}
			got := stepper.StepSize(&s, 1.0)
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("StepSize at r=%v: got %v, expected %v", tt.radius, got, tt.expected)
			}
		})
	}

	// The quality multiplier applies directly
	s := State{Position: core.NewVec3(8, 0, 0)}
	if got := stepper.StepSize(&s, 2.0); math.Abs(got-0.4) > 1e-12 {
		t.Errorf("StepSize with quality scale 2: got %v, expected 0.4", got)
	}
}

func TestNewtonianAcceleration_PointsInward(t *testing.T) {
	var n Newtonian

	position := core.NewVec3(5, 1, -3)
	direction := core.NewVec3(0, 0, 1)

	accel := n.Acceleration(position, direction)
	if accel.Dot(position) >= 0 {
		t.Errorf("Acceleration %v does not point toward the center from %v", accel, position)
	}
}

func TestNewtonianAcceleration_RadialRayFeelsNoForce(t *testing.T) {
	var n Newtonian

	position := core.NewVec3(5, 0, 0)
	direction := core.NewVec3(1, 0, 0) // h = |r x v| = 0

	accel := n.Acceleration(position, direction)
	if accel.Length() > 1e-12 {
		t.Errorf("Radial ray should feel no bending force, got %v", accel)
	}
}

// The pseudo-Newtonian force derives h^2 from the instantaneous state on
// every evaluation, so scaling the direction scales the force quadratically.
// Freezing h at initialization would break this relationship.
func TestNewtonianAngularMomentumRecomputed(t *testing.T) {
	var n Newtonian

	position := core.NewVec3(5, 1, -3)
	direction := core.NewVec3(0.2, 0.9, 0.4)

	a1 := n.Acceleration(position, direction)
	a2 := n.Acceleration(position, direction.Multiply(2.0))

	const tolerance = 1e-9
	if a2.Subtract(a1.Multiply(4.0)).Length() > tolerance {
		t.Errorf("Expected quadratic scaling in |v|: %v vs 4 * %v", a2, a1)
	}
}

func TestEulerRenormalization(t *testing.T) {
	stepper := NewStepper(ModeFast)
	s := NewState(core.NewVec3(10, 0, 0), core.NewVec3(0, 0, 1), ModeFast)

	for i := 0; i < 8; i++ {
		stepper.Step(&s, 0.1)
	}

	if math.Abs(s.Direction.Length()-1.0) > 1e-9 {
		t.Errorf("Direction not renormalized after 8 steps: length %v", s.Direction.Length())
	}
}

func TestAccurateMode_RadialPlunge(t *testing.T) {
	// A ray aimed straight at the center must reach the horizon
	stepper := NewStepper(ModeAccurate)
	s := NewState(core.NewVec3(0, 0, -10), core.NewVec3(0, 0, 1), ModeAccurate)

	for i := 0; i < 3000 && s.Radius() > 1.02; i++ {
		stepper.Step(&s, stepper.StepSize(&s, 1.0))
	}

	if s.Radius() > 1.02 {
		t.Errorf("Radial ray never approached the horizon, stalled at r=%v", s.Radius())
	}
}

// marchToEscape integrates a ray from far away past the hole and returns its
// final unit direction.
func marchToEscape(t *testing.T, mode Mode, origin, direction core.Vec3) core.Vec3 {
	t.Helper()

	stepper := NewStepper(mode)
	s := NewState(origin, direction, mode)

	for i := 0; i < 20000; i++ {
		if s.Position.Z > -origin.Z {
			return s.Direction.Normalize()
		}
		stepper.Step(&s, stepper.StepSize(&s, 1.0))
	}
	t.Fatalf("Ray did not traverse the scene in mode %v", mode)
	return core.Vec3{}
}

func TestWeakFieldDeflectionConvergence(t *testing.T) {
	// At impact parameter b = 200 the analytic weak-field deflection is
	// 2 R_S / b = 0.01 rad. Both fidelities must land near it, and near
	// each other.
	origin := core.NewVec3(200, 0, -400)
	direction := core.NewVec3(0, 0, 1)
	const expected = 2.0 * SchwarzschildRadius / 200.0

	fastDir := marchToEscape(t, ModeFast, origin, direction)
	accurateDir := marchToEscape(t, ModeAccurate, origin, direction)

	fastAngle := core.ClampedAcos(fastDir.Dot(direction))
	accurateAngle := core.ClampedAcos(accurateDir.Dot(direction))

	if fastAngle < expected/3 || fastAngle > expected*3 {
		t.Errorf("Fast-mode deflection %v far from expected %v", fastAngle, expected)
	}
	if accurateAngle < expected/3 || accurateAngle > expected*3 {
		t.Errorf("Accurate-mode deflection %v far from expected %v", accurateAngle, expected)
	}
	if math.Abs(fastAngle-accurateAngle) > expected {
		t.Errorf("Modes disagree in the weak field: fast %v vs accurate %v", fastAngle, accurateAngle)
	}
}
