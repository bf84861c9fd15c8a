package noise

import (
	"math"
	"testing"

	"github.com/df07/go-blackhole-renderer/pkg/core"
)

func TestValue3_Deterministic(t *testing.T) {
	points := []core.Vec3{
		core.NewVec3(0, 0, 0),
		core.NewVec3(1.5, -2.3, 7.7),
		core.NewVec3(-100.2, 55.5, 0.001),
	}

	for _, p := range points {
		first := Value3(p)
		second := Value3(p)
		if first != second {
			t.Errorf("Value3(%v) not deterministic: %v vs %v", p, first, second)
		}
	}
}

func TestValue3_Range(t *testing.T) {
	for x := -3.0; x <= 3.0; x += 0.37 {
		for y := -3.0; y <= 3.0; y += 0.41 {
			p := core.NewVec3(x, y, x*y)
			v := Value3(p)
			if v < 0.0 || v > 1.0 || math.IsNaN(v) {
				t.Fatalf("Value3(%v) = %v, expected a value in [0, 1]", p, v)
			}
		}
	}
}

func TestValue3_Continuity(t *testing.T) {
	// The field is C1; a tiny input perturbation must not jump the output.
	const delta = 1e-4
	const tolerance = 0.01

	points := []core.Vec3{
		core.NewVec3(0.5, 0.5, 0.5),
		core.NewVec3(12.3, -4.5, 6.7),
		core.NewVec3(-0.001, 0.999, 2.0), // straddling cell boundaries
	}

	for _, p := range points {
		base := Value3(p)
		for _, offset := range []core.Vec3{
			core.NewVec3(delta, 0, 0),
			core.NewVec3(0, delta, 0),
			core.NewVec3(0, 0, delta),
		} {
			v := Value3(p.Add(offset))
			if math.Abs(v-base) > tolerance {
				t.Errorf("Discontinuity at %v + %v: %v vs %v", p, offset, base, v)
			}
		}
	}
}

func TestSigned3_Range(t *testing.T) {
	for x := -2.0; x <= 2.0; x += 0.29 {
		p := core.NewVec3(x, 2*x, -x)
		v := Signed3(p)
		if v < -1.0 || v > 1.0 {
			t.Errorf("Signed3(%v) = %v, expected a value in [-1, 1]", p, v)
		}
	}
}

func TestFractal_Range(t *testing.T) {
	for _, octaves := range []int{1, 3, 5, 8} {
		for x := -2.0; x <= 2.0; x += 0.53 {
			p := core.NewVec3(x, x*0.7, -x*1.3)
			v := Fractal(p, octaves, 0)
			if v < 0.0 || v > 1.0 || math.IsNaN(v) {
				t.Fatalf("Fractal(%v, %d octaves) = %v, expected a value in [0, 1]", p, octaves, v)
			}
		}
	}
}

func TestFractal_LODCap(t *testing.T) {
	p := core.NewVec3(1.7, -2.2, 3.9)

	// A cap below the octave count is exactly equivalent to asking for
	// fewer octaves.
	if Fractal(p, 8, 3) != Fractal(p, 3, 0) {
		t.Errorf("Fractal with lodCap 3 differs from Fractal with 3 octaves")
	}

	// A cap above the octave count changes nothing
	if Fractal(p, 3, 8) != Fractal(p, 3, 0) {
		t.Errorf("Fractal with slack lodCap differs from uncapped")
	}

	// At least one octave always contributes
	if Fractal(p, 0, 0) != Fractal(p, 1, 0) {
		t.Errorf("Fractal with zero octaves should fall back to one octave")
	}
}
