package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-blackhole-renderer/pkg/core"
	"github.com/df07/go-blackhole-renderer/pkg/integrator"
)

// FrameConfig is the full immutable configuration for rendering one frame
type FrameConfig struct {
	Camera  CameraConfig
	Options integrator.Options
	Quality integrator.Quality
}

// Renderer renders frames by marching one ray per pixel. It owns no mutable
// state beyond its configuration, so distinct Renderers can work on
// non-overlapping regions of a shared buffer concurrently.
type Renderer struct {
	marcher *integrator.Marcher
	config  FrameConfig
	camera  *Camera
}

// NewRenderer creates a renderer for the given marcher and frame config
func NewRenderer(marcher *integrator.Marcher, config FrameConfig) *Renderer {
	return &Renderer{
		marcher: marcher,
		config:  config,
		camera:  NewCamera(config.Camera),
	}
}

// SetQuality swaps the quality settings, leaving camera and options alone.
// Progressive passes use this to re-render at increasing fidelity.
func (r *Renderer) SetQuality(q integrator.Quality) {
	r.config.Quality = q
}

// RenderBounds marches every pixel within bounds, writing linear radiance
// into the shared buffer. Bounds of concurrent calls must not overlap.
func (r *Renderer) RenderBounds(bounds image.Rectangle, radiance [][]core.Vec3) RenderStats {
	stats := RenderStats{TotalPixels: bounds.Dx() * bounds.Dy()}

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			result := r.marcher.March(r.camera.RayForPixel(i, j), r.config.Options, r.config.Quality)
			radiance[j][i] = result.Color

			stats.TotalSteps += result.Steps
			switch result.Outcome {
			case integrator.OutcomeCaptured:
				stats.CapturedRays++
			case integrator.OutcomeAbsorbed:
				stats.AbsorbedRays++
			default:
				stats.EscapedRays++
			}
		}
	}

	stats.finalize()
	return stats
}

// RenderFrame renders the whole frame single-threaded and returns the
// tone-mapped image. The progressive renderer is the parallel path; this is
// the simple one for tests and one-shot use.
func (r *Renderer) RenderFrame() (*image.RGBA, RenderStats) {
	width, height := r.config.Camera.Width, r.config.Camera.Height
	radiance := NewRadianceBuffer(width, height)
	stats := r.RenderBounds(image.Rect(0, 0, width, height), radiance)
	return AssembleImage(radiance, image.Rect(0, 0, width, height)), stats
}

// NewRadianceBuffer allocates a height-by-width linear radiance buffer
func NewRadianceBuffer(width, height int) [][]core.Vec3 {
	buf := make([][]core.Vec3, height)
	for y := range buf {
		buf[y] = make([]core.Vec3, width)
	}
	return buf
}

// ToneMap compresses unbounded linear radiance into [0,1] with the Reinhard
// curve c/(c+1) followed by gamma 2.2 correction.
func ToneMap(c core.Vec3) core.Vec3 {
	mapped := core.NewVec3(
		c.X/(c.X+1.0),
		c.Y/(c.Y+1.0),
		c.Z/(c.Z+1.0),
	)
	return mapped.GammaCorrect(2.2).Clamp(0.0, 1.0)
}

// toColor converts tone-mapped radiance to an 8-bit RGBA pixel
func toColor(c core.Vec3) color.RGBA {
	mapped := ToneMap(c)
	return color.RGBA{
		R: uint8(255 * mapped.X),
		G: uint8(255 * mapped.Y),
		B: uint8(255 * mapped.Z),
		A: 255,
	}
}

// AssembleImage tone-maps a region of the radiance buffer into an RGBA image
// with origin (0,0) at the region's top-left corner.
func AssembleImage(radiance [][]core.Vec3, bounds image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, toColor(radiance[y][x]))
		}
	}
	return img
}
