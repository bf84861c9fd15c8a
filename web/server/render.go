package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/nfnt/resize"

	"github.com/df07/go-blackhole-renderer/pkg/core"
	"github.com/df07/go-blackhole-renderer/pkg/geodesic"
	"github.com/df07/go-blackhole-renderer/pkg/renderer"
	"github.com/df07/go-blackhole-renderer/pkg/scene"
)

// ProgressUpdate represents a single progressive pass update sent to clients
type ProgressUpdate struct {
	PassNumber  int    `json:"passNumber"`
	TotalPasses int    `json:"totalPasses"`
	ImageData   string `json:"imageData"` // base64 encoded PNG
	Preview     bool   `json:"preview"`   // true for downscaled early passes
	Stats       Stats  `json:"stats"`
	IsComplete  bool   `json:"isComplete"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

// TileUpdate represents a single tile update sent via SSE
type TileUpdate struct {
	TileX       int    `json:"tileX"`
	TileY       int    `json:"tileY"`
	ImageData   string `json:"imageData"` // base64 encoded PNG of just this tile
	PassNumber  int    `json:"passNumber"`
	TileNumber  int    `json:"tileNumber"`
	TotalTiles  int    `json:"totalTiles"`
	TotalPasses int    `json:"totalPasses"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "tile", "passComplete", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// RenderingPipeline contains a configured scene and progressive renderer
type RenderingPipeline struct {
	Scene    *scene.Scene
	Renderer *renderer.ProgressiveRenderer
}

// handleRender handles progressive rendering with real-time tile streaming via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	ctx := r.Context()

	// Single SSE writer goroutine keeps writes thread-safe
	sseEventChan := make(chan SSEEvent, 100)
	go s.writeSSEEvents(w, ctx, sseEventChan)

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	consoleChan, webLogger := s.setupConsoleLogging()
	go s.streamConsoleMessages(ctx, consoleChan, sseEventChan)

	pipeline, err := s.setupRenderingPipeline(req, webLogger)
	if err != nil {
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	startTime := time.Now()
	passChan, tileChan, errChan := pipeline.Renderer.RenderProgressive(ctx, renderer.RenderOptions{TileUpdates: true})

	s.streamRenderEvents(ctx, sseEventChan, passChan, tileChan, errChan, req, startTime)
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	return consoleChan, NewWebLogger(renderID, consoleChan)
}

// setupRenderingPipeline creates and configures the scene and renderer
func (s *Server) setupRenderingPipeline(req *RenderRequest, logger core.Logger) (*RenderingPipeline, error) {
	mode, err := geodesic.ParseMode(req.Mode)
	if err != nil {
		return nil, err
	}

	sc := scene.NewDefaultScene(req.Width, req.Height)
	orbit := renderer.NewOrbitCamera()
	orbit.Azimuth = req.Azimuth
	orbit.Elevation = req.Elevation
	orbit.Radius = req.Radius
	sc.Camera = orbit.Config(req.Width, req.Height, req.Fov)
	sc.Quality = req.quality()
	sc.Options.Mode = mode
	sc.Options.Time = req.Time
	sc.Options.RenderDisk = req.Disk
	sc.Options.GravitationalLensing = req.Lensing

	config := renderer.ProgressiveConfig{
		TileSize:   DefaultTileSize,
		MaxPasses:  req.MaxPasses,
		NumWorkers: 0, // auto-detect
	}

	return &RenderingPipeline{
		Scene:    sc,
		Renderer: renderer.NewProgressiveRenderer(sc.Marcher(), sc.FrameConfig(), config, logger),
	}, nil
}

// writeSSEEvents handles writing all SSE events in a single goroutine
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}

			select {
			case <-ctx.Done():
				return
			default:
			}

			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			return
		}
	}
}

// streamConsoleMessages forwards logger output into the SSE stream
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent) {
	for {
		select {
		case consoleMsg, ok := <-consoleChan:
			if !ok {
				return
			}

			data, err := json.Marshal(consoleMsg)
			if err != nil {
				log.Printf("Error marshaling console message: %v", err)
				continue
			}

			select {
			case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
			case <-ctx.Done():
				return
			default:
				// Channel full, skip message to avoid blocking
			}

		case <-ctx.Done():
			return
		}
	}
}

// streamRenderEvents forwards pass and tile results into the SSE stream
// until the render completes, errors, or the client disconnects.
func (s *Server) streamRenderEvents(ctx context.Context, sseEventChan chan SSEEvent,
	passChan <-chan renderer.PassResult, tileChan <-chan renderer.TileCompletionResult,
	errChan <-chan error, req *RenderRequest, startTime time.Time) {

	for passChan != nil || tileChan != nil {
		select {
		case tile, ok := <-tileChan:
			if !ok {
				tileChan = nil
				continue
			}
			s.sendTileUpdate(ctx, sseEventChan, tile)

		case pass, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			s.sendPassUpdate(ctx, sseEventChan, pass, req, startTime)

		case err := <-errChan:
			if err != nil {
				s.handleError(ctx, sseEventChan, err.Error())
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) sendTileUpdate(ctx context.Context, sseEventChan chan SSEEvent, tile renderer.TileCompletionResult) {
	imageData, err := encodePNGBase64(tile.TileImage)
	if err != nil {
		log.Printf("Error encoding tile image: %v", err)
		return
	}

	data, err := json.Marshal(TileUpdate{
		TileX:       tile.TileX,
		TileY:       tile.TileY,
		ImageData:   imageData,
		PassNumber:  tile.PassNumber,
		TileNumber:  tile.TileNumber,
		TotalTiles:  tile.TotalTiles,
		TotalPasses: tile.TotalPasses,
	})
	if err != nil {
		log.Printf("Error marshaling tile update: %v", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "tile", Data: string(data)}:
	case <-ctx.Done():
	default:
		// Channel full, drop the tile; the pass image will include it
	}
}

func (s *Server) sendPassUpdate(ctx context.Context, sseEventChan chan SSEEvent, pass renderer.PassResult, req *RenderRequest, startTime time.Time) {
	update, err := buildProgressUpdate(pass, req, startTime)
	if err != nil {
		log.Printf("Error encoding pass image: %v", err)
		return
	}

	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Error marshaling pass update: %v", err)
		return
	}

	eventType := "passComplete"
	if pass.IsLast {
		eventType = "complete"
	}

	select {
	case sseEventChan <- SSEEvent{Type: eventType, Data: string(data)}:
	case <-ctx.Done():
	}
}

// buildProgressUpdate encodes a pass image for transport. Early passes are
// rendered at derated quality anyway, so their payload is downscaled to
// half resolution to keep the stream light; the final pass ships full size.
func buildProgressUpdate(pass renderer.PassResult, req *RenderRequest, startTime time.Time) (*ProgressUpdate, error) {
	var img image.Image = pass.Image
	preview := false
	if !pass.IsLast && req.Width > 256 {
		img = resize.Resize(uint(req.Width/2), 0, img, resize.Bilinear)
		preview = true
	}

	imageData, err := encodePNGBase64(img)
	if err != nil {
		return nil, err
	}

	return &ProgressUpdate{
		PassNumber:  pass.PassNumber,
		TotalPasses: req.MaxPasses,
		ImageData:   imageData,
		Preview:     preview,
		Stats: Stats{
			TotalPixels:  pass.Stats.TotalPixels,
			CapturedRays: pass.Stats.CapturedRays,
			EscapedRays:  pass.Stats.EscapedRays,
			AbsorbedRays: pass.Stats.AbsorbedRays,
			AverageSteps: roundTo(pass.Stats.AverageSteps, 1),
		},
		IsComplete: pass.IsLast,
		ElapsedMs:  time.Since(startTime).Milliseconds(),
	}, nil
}

// handleError sends an error event to the client
func (s *Server) handleError(ctx context.Context, sseEventChan chan SSEEvent, message string) {
	log.Printf("Render error: %s", message)

	data, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: string(data)}:
	case <-ctx.Done():
	}
}

func encodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func roundTo(v float64, digits int) float64 {
	scale := math.Pow(10, float64(digits))
	return math.Round(v*scale) / scale
}
