// Package scene assembles ready-made black hole scenes: a disk envelope,
// an emission ramp, a procedural background, and a camera pose.
package scene

import (
	"fmt"

	"github.com/df07/go-blackhole-renderer/pkg/disk"
	"github.com/df07/go-blackhole-renderer/pkg/integrator"
	"github.com/df07/go-blackhole-renderer/pkg/renderer"
)

// Scene bundles the static frame assets with a camera pose and the per-frame
// options. Everything here is immutable for the duration of a frame and
// owned by the caller.
type Scene struct {
	Envelope   disk.Envelope
	Ramp       *disk.Ramp
	Background integrator.BackgroundFunc

	Camera  renderer.CameraConfig
	Options integrator.Options
	Quality integrator.Quality
}

// NewDefaultScene creates the standard view: orbit camera slightly above the
// disk plane at 15 R_S, fire-colored disk, procedural starfield background,
// lensing and disk enabled in fast mode.
func NewDefaultScene(width, height int) *Scene {
	orbit := renderer.NewOrbitCamera()

	return &Scene{
		Envelope:   disk.DefaultEnvelope(),
		Ramp:       disk.NewFireRamp(),
		Background: NewStarfield(),
		Camera:     orbit.Config(width, height, 60.0),
		Options:    integrator.DefaultOptions(),
		Quality:    integrator.DefaultQuality(),
	}
}

// Marcher builds the ray marcher over this scene's static assets
func (s *Scene) Marcher() *integrator.Marcher {
	return integrator.NewMarcher(s.Envelope, s.Ramp.Sample, s.Background)
}

// FrameConfig assembles the immutable per-frame configuration
func (s *Scene) FrameConfig() renderer.FrameConfig {
	return renderer.FrameConfig{
		Camera:  s.Camera,
		Options: s.Options,
		Quality: s.Quality,
	}
}

// QualityPreset maps a preset name to concrete quality settings
func QualityPreset(name string) (integrator.Quality, error) {
	switch name {
	case "low":
		return integrator.Quality{MaxIterations: 128, StepScale: 2.0, NoiseLOD: 3}, nil
	case "medium":
		return integrator.Quality{MaxIterations: 256, StepScale: 1.5, NoiseLOD: 4}, nil
	case "high":
		return integrator.DefaultQuality(), nil
	default:
		return integrator.Quality{}, fmt.Errorf("unknown quality preset: %q", name)
	}
}
