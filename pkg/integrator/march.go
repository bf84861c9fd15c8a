// Package integrator turns a primary ray into radiance by marching it
// through curved spacetime: it advances the ray under a force/geodesic
// model, accumulates volumetric disk emission with absorption, and detects
// capture, escape, and budget exhaustion.
package integrator

import (
	"github.com/df07/go-blackhole-renderer/pkg/core"
	"github.com/df07/go-blackhole-renderer/pkg/disk"
	"github.com/df07/go-blackhole-renderer/pkg/geodesic"
)

const (
	horizonRadiusSq = geodesic.SchwarzschildRadius * geodesic.SchwarzschildRadius

	// The spherical ODE system stiffens approaching the horizon, so the
	// accurate mode captures at a small margin outside it.
	strictCaptureSq = (1.01 * geodesic.SchwarzschildRadius) * (1.01 * geodesic.SchwarzschildRadius)

	// Below this transmittance the background contribution is negligible
	// and the march stops early. An optimization, not a correctness rule.
	transmittanceFloor = 1e-3

	// A ray has escaped once it travels this many disk outer radii beyond
	// its starting distance.
	escapeFactor = 4.0
)

// Quality bounds the worst-case cost of a ray march without changing the
// algorithm's semantics.
type Quality struct {
	MaxIterations int     // hard cap on march steps
	StepScale     float64 // multiplier on the adaptive step size
	NoiseLOD      int     // cap on turbulence/background noise octaves
}

// DefaultQuality returns the full-fidelity settings
func DefaultQuality() Quality {
	return Quality{
		MaxIterations: 512,
		StepScale:     1.0,
		NoiseLOD:      6,
	}
}

// Options is the immutable per-frame configuration for a march
type Options struct {
	RenderDisk           bool
	GravitationalLensing bool
	Mode                 geodesic.Mode
	Time                 float64 // scene time driving disk rotation
}

// DefaultOptions enables the disk and lensing in fast mode
func DefaultOptions() Options {
	return Options{
		RenderDisk:           true,
		GravitationalLensing: true,
		Mode:                 geodesic.ModeFast,
	}
}

// Outcome reports how a march terminated
type Outcome int

const (
	// OutcomeCaptured means the ray crossed the horizon
	OutcomeCaptured Outcome = iota
	// OutcomeEscaped means the ray left the scene (or exhausted its budget)
	// and sampled the background
	OutcomeEscaped
	// OutcomeAbsorbed means disk absorption drove transmittance to the floor
	OutcomeAbsorbed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCaptured:
		return "captured"
	case OutcomeAbsorbed:
		return "absorbed"
	default:
		return "escaped"
	}
}

// Result is the outcome of marching a single ray
type Result struct {
	Color          core.Vec3
	Outcome        Outcome
	Steps          int
	Transmittance  float64
	FinalDirection core.Vec3
}

// BackgroundFunc samples the directional background (skybox, starfield)
// for a unit direction.
type BackgroundFunc func(direction core.Vec3) core.Vec3

// Marcher marches rays against a fixed disk envelope, color ramp, and
// background. It holds no mutable state; a single Marcher is safe to share
// across every pixel of a frame.
type Marcher struct {
	Envelope   disk.Envelope
	Ramp       disk.SampleFunc
	Background BackgroundFunc
}

// NewMarcher creates a marcher over the given static frame assets
func NewMarcher(envelope disk.Envelope, ramp disk.SampleFunc, background BackgroundFunc) *Marcher {
	return &Marcher{Envelope: envelope, Ramp: ramp, Background: background}
}

// March integrates one ray to termination and returns its radiance.
// Termination checks run in priority order each step: horizon capture first,
// then disk accumulation with early-out on opaque media, then escape. Budget
// exhaustion counts as escape.
func (m *Marcher) March(ray core.Ray, opts Options, quality Quality) Result {
	if !ray.Origin.IsFinite() || !ray.Direction.IsFinite() {
		return Result{Outcome: OutcomeCaptured, Transmittance: 1.0}
	}

	initialDir := ray.Direction.Normalize()

	// Already inside the horizon: captured before the first step, and the
	// background never contributes.
	if ray.Origin.LengthSquared() < horizonRadiusSq {
		return Result{Outcome: OutcomeCaptured, Transmittance: 1.0, FinalDirection: initialDir}
	}

	captureSq := float64(horizonRadiusSq)
	if opts.Mode == geodesic.ModeAccurate {
		captureSq = strictCaptureSq
	}

	state := geodesic.NewState(ray.Origin, initialDir, opts.Mode)
	stepper := geodesic.NewStepper(opts.Mode)
	acc := newAccumulator()

	escapeDistance := ray.Origin.Length() + escapeFactor*m.Envelope.OuterRadius
	traveled := 0.0
	steps := 0

	for ; steps < quality.MaxIterations; steps++ {
		dLambda := stepper.StepSize(&state, quality.StepScale)

		var stepLength float64
		if opts.GravitationalLensing {
			prev := state.Position
			stepper.Step(&state, dLambda)
			stepLength = state.Position.Subtract(prev).Length()
		} else {
			// Straight-line propagation: the direction is never touched
			state.Position = state.Position.Add(state.Direction.Multiply(dLambda))
			stepLength = dLambda
		}
		traveled += stepLength

		if state.Position.LengthSquared() < captureSq {
			// The horizon blocks the background, not prior disk emission
			return Result{
				Color:          acc.color,
				Outcome:        OutcomeCaptured,
				Steps:          steps + 1,
				Transmittance:  acc.transmittance,
				FinalDirection: m.terminalDirection(&state, opts, initialDir),
			}
		}

		if opts.RenderDisk && m.Envelope.Contains(state.Position) {
			emission, density := m.Envelope.Shade(state.Position, opts.Time, m.Ramp, quality.NoiseLOD)
			if density > 0.0 {
				acc.add(emission, density*m.Envelope.Absorption*stepLength)
				if acc.transmittance < transmittanceFloor {
					return Result{
						Color:          acc.color,
						Outcome:        OutcomeAbsorbed,
						Steps:          steps + 1,
						Transmittance:  acc.transmittance,
						FinalDirection: m.terminalDirection(&state, opts, initialDir),
					}
				}
			}
		}

		if traveled > escapeDistance {
			steps++
			break
		}
	}

	// Escaped, or the iteration budget ran out: either way, composite the
	// background along the (possibly bent) terminal direction.
	dir := m.terminalDirection(&state, opts, initialDir)
	return Result{
		Color:          acc.composite(m.Background(dir)),
		Outcome:        OutcomeEscaped,
		Steps:          steps,
		Transmittance:  acc.transmittance,
		FinalDirection: dir,
	}
}

// terminalDirection returns the unit direction a terminated ray is heading.
// With lensing disabled this is exactly the initial direction.
func (m *Marcher) terminalDirection(state *geodesic.State, opts Options, initialDir core.Vec3) core.Vec3 {
	if !opts.GravitationalLensing {
		return initialDir
	}
	return state.Direction.Normalize()
}
