package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/df07/go-blackhole-renderer/pkg/geodesic"
	"github.com/df07/go-blackhole-renderer/pkg/renderer"
	"github.com/df07/go-blackhole-renderer/pkg/scene"
)

func main() {
	// Parse command line flags
	width := flag.Int("width", 960, "Image width in pixels")
	height := flag.Int("height", 720, "Image height in pixels")
	mode := flag.String("mode", "fast", "Integration mode: 'fast' or 'accurate'")
	quality := flag.String("quality", "high", "Quality preset: 'low', 'medium', or 'high'")
	azimuth := flag.Float64("azimuth", 45.0, "Camera azimuth in degrees")
	elevation := flag.Float64("elevation", 81.0, "Camera elevation in degrees (0 = north pole)")
	radius := flag.Float64("radius", 15.0, "Camera distance from the black hole in Schwarzschild radii")
	fov := flag.Float64("fov", 60.0, "Vertical field of view in degrees")
	timeParam := flag.Float64("time", 0.0, "Scene time driving disk rotation")
	noDisk := flag.Bool("no-disk", false, "Disable the accretion disk")
	noLensing := flag.Bool("no-lensing", false, "Disable gravitational lensing (straight rays)")
	passes := flag.Int("passes", 1, "Number of progressive passes")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Black Hole Renderer")
		fmt.Println("Usage: blackhole [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Output will be saved to output/render_<timestamp>.png")
		return
	}

	fmt.Println("Starting black hole render...")

	integrationMode, err := geodesic.ParseMode(*mode)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	qualitySettings, err := scene.QualityPreset(*quality)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	// Build the scene with the requested camera pose
	sc := scene.NewDefaultScene(*width, *height)
	orbit := renderer.NewOrbitCamera()
	orbit.Azimuth = *azimuth * math.Pi / 180.0
	orbit.Elevation = *elevation * math.Pi / 180.0
	orbit.Radius = *radius
	sc.Camera = orbit.Config(*width, *height, *fov)
	sc.Quality = qualitySettings
	sc.Options.Mode = integrationMode
	sc.Options.Time = *timeParam
	sc.Options.RenderDisk = !*noDisk
	sc.Options.GravitationalLensing = !*noLensing

	outputDir := "output"
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Printf("Error creating output directory: %v\n", err)
		return
	}

	startTime := time.Now()
	img, err := render(sc, *passes)
	if err != nil {
		fmt.Printf("Render failed: %v\n", err)
		return
	}
	fmt.Printf("Render completed in %v\n", time.Since(startTime))

	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		fmt.Printf("Error creating file: %v\n", err)
		return
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		fmt.Printf("Error saving PNG: %v\n", err)
		return
	}

	fmt.Printf("Render saved as %s\n", filename)
}

// render runs either a single full-quality frame or a parallel progressive
// refinement, returning the final image.
func render(sc *scene.Scene, passes int) (*image.RGBA, error) {
	marcher := sc.Marcher()

	if passes <= 1 {
		img, stats := renderer.NewRenderer(marcher, sc.FrameConfig()).RenderFrame()
		fmt.Printf("Rays: %d captured, %d escaped, %d absorbed (%.1f steps/ray)\n",
			stats.CapturedRays, stats.EscapedRays, stats.AbsorbedRays, stats.AverageSteps)
		return img, nil
	}

	config := renderer.DefaultProgressiveConfig()
	config.MaxPasses = passes

	pr := renderer.NewProgressiveRenderer(marcher, sc.FrameConfig(), config, renderer.NewDefaultLogger())
	passChan, _, errChan := pr.RenderProgressive(context.Background(), renderer.RenderOptions{})

	var final *image.RGBA
	for result := range passChan {
		final = result.Image
	}
	if err := <-errChan; err != nil {
		return nil, err
	}
	if final == nil {
		return nil, fmt.Errorf("no passes completed")
	}
	return final, nil
}
