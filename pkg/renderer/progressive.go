package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-blackhole-renderer/pkg/core"
	"github.com/df07/go-blackhole-renderer/pkg/integrator"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize   int // size of each tile (64x64 recommended)
	MaxPasses  int // number of refinement passes
	NumWorkers int // number of parallel workers (0 = use CPU count)
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:   64,
		MaxPasses:  4,
		NumWorkers: 0,
	}
}

// ProgressiveRenderer renders a frame in multiple passes: early passes use
// a reduced iteration budget, coarser steps, and fewer noise octaves for a
// quick preview, and each later pass re-renders at higher fidelity until
// the final pass runs at the frame's full quality settings.
type ProgressiveRenderer struct {
	marcher       *integrator.Marcher
	frame         FrameConfig
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile
	radiance      [][]core.Vec3
	workerPool    *WorkerPool
	logger        core.Logger
}

// NewProgressiveRenderer creates a progressive renderer
func NewProgressiveRenderer(marcher *integrator.Marcher, frame FrameConfig, config ProgressiveConfig, logger core.Logger) *ProgressiveRenderer {
	width, height := frame.Camera.Width, frame.Camera.Height

	return &ProgressiveRenderer{
		marcher:    marcher,
		frame:      frame,
		width:      width,
		height:     height,
		config:     config,
		tiles:      NewTileGrid(width, height, config.TileSize),
		radiance:   NewRadianceBuffer(width, height),
		workerPool: NewWorkerPool(marcher, frame, config.TileSize, config.NumWorkers),
		logger:     logger,
	}
}

// qualityForPass derates the frame's quality settings for early passes.
// Each pass before the last halves the iteration budget, doubles the step
// scale, and drops a noise octave per remaining pass; the final pass always
// gets the full settings.
func (pr *ProgressiveRenderer) qualityForPass(passNumber int) integrator.Quality {
	final := pr.frame.Quality
	remaining := pr.config.MaxPasses - passNumber
	if remaining <= 0 {
		return final
	}

	derated := final
	derated.MaxIterations = max(32, final.MaxIterations>>remaining)
	derated.StepScale = final.StepScale * float64(int(1)<<remaining)
	derated.NoiseLOD = max(2, final.NoiseLOD-remaining)
	return derated
}

// RenderPass renders a single progressive pass using parallel processing
func (pr *ProgressiveRenderer) RenderPass(passNumber int, tileCallback func(TileCompletionResult)) (*image.RGBA, RenderStats, error) {
	quality := pr.qualityForPass(passNumber)

	pr.logger.Printf("Pass %d: %d max iterations, step scale %.2f (using %d workers)...\n",
		passNumber, quality.MaxIterations, quality.StepScale, pr.workerPool.GetNumWorkers())

	if passNumber == 1 {
		pr.workerPool.Start()
	}

	for taskID, tile := range pr.tiles {
		pr.workerPool.SubmitTask(TileTask{
			Tile:     tile,
			Quality:  quality,
			TaskID:   taskID,
			Radiance: pr.radiance,
		})
	}

	var stats RenderStats
	for i := 0; i < len(pr.tiles); i++ {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			return nil, RenderStats{}, result.Error
		}
		stats.merge(result.Stats)

		if tileCallback != nil {
			tile := pr.tiles[result.TaskID]
			tileCallback(TileCompletionResult{
				TileX:       tile.Bounds.Min.X / pr.config.TileSize,
				TileY:       tile.Bounds.Min.Y / pr.config.TileSize,
				TileImage:   AssembleImage(pr.radiance, tile.Bounds),
				PassNumber:  passNumber,
				TileNumber:  i + 1,
				TotalTiles:  len(pr.tiles),
				TotalPasses: pr.config.MaxPasses,
			})
		}
	}
	stats.finalize()

	img := AssembleImage(pr.radiance, image.Rect(0, 0, pr.width, pr.height))
	return img, stats, nil
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX      int // tile coordinates (not pixel coordinates)
	TileY      int
	TileImage  *image.RGBA // image data for just this tile
	PassNumber int

	// Progress information
	TileNumber  int // current tile number in this pass (1-based)
	TotalTiles  int // total number of tiles in the image
	TotalPasses int // total number of passes planned
}

// RenderOptions configures progressive rendering behavior
type RenderOptions struct {
	TileUpdates bool // whether to generate tile completion events
}

// RenderProgressive renders with channel-based communication. The caller
// should read from the returned channels in separate goroutines. If
// options.TileUpdates is false, the tile channel is closed immediately and
// no tile events are generated.
func (pr *ProgressiveRenderer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100)
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)
		defer pr.workerPool.Stop()

		pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.config.MaxPasses)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			// A cancelled context means the client abandoned this frame
			select {
			case <-ctx.Done():
				pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- ctx.Err()
				return
			default:
			}

			startTime := time.Now()

			var tileCallback func(TileCompletionResult)
			if options.TileUpdates {
				tileCallback = func(result TileCompletionResult) {
					select {
					case tileChan <- result:
					case <-ctx.Done():
					default:
						// Channel full, drop the tile update
					}
				}
			}

			img, stats, err := pr.RenderPass(pass, tileCallback)
			if err != nil {
				errChan <- err
				return
			}

			pr.logger.Printf("Pass %d completed in %v (%.1f steps/ray, %d captured, %d escaped)\n",
				pass, time.Since(startTime), stats.AverageSteps, stats.CapturedRays, stats.EscapedRays)

			result := PassResult{
				PassNumber: pass,
				Image:      img,
				Stats:      stats,
				IsLast:     pass == pr.config.MaxPasses,
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				return
			}
		}
	}()

	return passChan, tileChan, errChan
}
