package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-blackhole-renderer/pkg/integrator"
	"github.com/df07/go-blackhole-renderer/pkg/scene"
)

// DefaultTileSize is the tile edge used for streamed renders
const DefaultTileSize = 64

// Server handles web requests for the black hole renderer
type Server struct {
	port int
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Mode      string  `json:"mode"`      // "fast" or "accurate"
	Quality   string  `json:"quality"`   // "low", "medium", "high"
	MaxPasses int     `json:"maxPasses"` // number of progressive passes
	Azimuth   float64 `json:"azimuth"`   // camera azimuth, radians
	Elevation float64 `json:"elevation"` // camera elevation, radians
	Radius    float64 `json:"radius"`    // camera distance, Schwarzschild radii
	Fov       float64 `json:"fov"`       // vertical field of view, degrees
	Time      float64 `json:"time"`      // scene time driving disk rotation
	Disk      bool    `json:"disk"`      // render the accretion disk
	Lensing   bool    `json:"lensing"`   // enable gravitational lensing
}

// Stats represents render statistics sent to the client
type Stats struct {
	TotalPixels  int     `json:"totalPixels"`
	CapturedRays int     `json:"capturedRays"`
	EscapedRays  int     `json:"escapedRays"`
	AbsorbedRays int     `json:"absorbedRays"`
	AverageSteps float64 `json:"averageSteps"`
}

// Start starts the web server
func (s *Server) Start() error {
	// Serve static files
	http.Handle("/", http.FileServer(http.Dir("static/")))

	// API endpoints
	http.HandleFunc("/api/render", s.handleRender)
	http.HandleFunc("/api/health", s.handleHealth)
	http.HandleFunc("/api/scene-config", s.handleSceneConfig)
	http.HandleFunc("/ws", s.handleWebSocket)

	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, nil)
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleSceneConfig returns the default scene parameters so the client can
// prepopulate its controls.
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	defaults := defaultRenderRequest()
	envelope := scene.NewDefaultScene(defaults.Width, defaults.Height).Envelope

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"render": defaults,
		"disk": map[string]float64{
			"innerRadius": envelope.InnerRadius,
			"outerRadius": envelope.OuterRadius,
			"halfHeight":  envelope.HalfHeight,
		},
	})
}

func defaultRenderRequest() RenderRequest {
	return RenderRequest{
		Width:     960,
		Height:    720,
		Mode:      "fast",
		Quality:   "high",
		MaxPasses: 4,
		Azimuth:   0.785,
		Elevation: 1.414,
		Radius:    15.0,
		Fov:       60.0,
		Disk:      true,
		Lensing:   true,
	}
}

// parseRenderRequest reads render parameters from query values, falling back
// to defaults for anything unspecified.
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := defaultRenderRequest()
	q := r.URL.Query()

	parseInt(q, "width", &req.Width)
	parseInt(q, "height", &req.Height)
	parseInt(q, "maxPasses", &req.MaxPasses)
	parseFloat(q, "azimuth", &req.Azimuth)
	parseFloat(q, "elevation", &req.Elevation)
	parseFloat(q, "radius", &req.Radius)
	parseFloat(q, "fov", &req.Fov)
	parseFloat(q, "time", &req.Time)
	parseBool(q, "disk", &req.Disk)
	parseBool(q, "lensing", &req.Lensing)
	if v := q.Get("mode"); v != "" {
		req.Mode = v
	}
	if v := q.Get("quality"); v != "" {
		req.Quality = v
	}

	return req.validate()
}

// validate bounds the request so one client cannot ask for an absurd render
func (req RenderRequest) validate() (*RenderRequest, error) {
	if req.Width < 1 || req.Width > 4096 || req.Height < 1 || req.Height > 4096 {
		return nil, fmt.Errorf("resolution out of range: %dx%d", req.Width, req.Height)
	}
	if req.MaxPasses < 1 || req.MaxPasses > 16 {
		return nil, fmt.Errorf("maxPasses out of range: %d", req.MaxPasses)
	}
	if req.Radius <= 1.0 {
		return nil, fmt.Errorf("camera radius must be outside the horizon, got %g", req.Radius)
	}
	if _, err := scene.QualityPreset(req.Quality); err != nil {
		return nil, err
	}
	return &req, nil
}

// quality resolves the request's preset name; validate already vetted it
func (req *RenderRequest) quality() integrator.Quality {
	q, _ := scene.QualityPreset(req.Quality)
	return q
}

func parseInt(q url.Values, key string, dst *int) {
	if v := q.Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func parseFloat(q url.Values, key string, dst *float64) {
	if v := q.Get(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func parseBool(q url.Values, key string, dst *bool) {
	if v := q.Get(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
