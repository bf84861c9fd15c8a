package server

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/df07/go-blackhole-renderer/pkg/renderer"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local viewer, same machine
	},
}

// wsRequest is a render request received over the websocket. Zero-valued
// fields fall back to the defaults, matching the query-parameter API.
type wsRequest struct {
	RenderRequest
	Cancel bool `json:"cancel"` // cancel the in-flight render instead
}

// wsFrame is a message sent to the websocket client
type wsFrame struct {
	Type string      `json:"type"` // "pass", "complete", "error"
	Data interface{} `json:"data"`
}

// wsConn wraps a websocket connection with a write lock so render
// goroutines and the read loop never interleave writes.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// handleWebSocket streams progressive render passes over a websocket. Each
// incoming request restarts the render; an explicit cancel stops it. Unlike
// the SSE endpoint this supports interactive camera dragging, where the
// client fires a new request per orbit change.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	wc := &wsConn{conn: conn}
	var cancelRender context.CancelFunc

	for {
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		// A new request supersedes any render still in flight
		if cancelRender != nil {
			cancelRender()
			cancelRender = nil
		}
		if req.Cancel {
			continue
		}

		validated, err := req.applyDefaults().validate()
		if err != nil {
			wc.writeJSON(wsFrame{Type: "error", Data: map[string]string{"message": err.Error()}})
			continue
		}

		var ctx context.Context
		ctx, cancelRender = context.WithCancel(r.Context())
		go s.renderToWebSocket(ctx, wc, validated)
	}

	if cancelRender != nil {
		cancelRender()
	}
}

// applyDefaults fills zero-valued fields so clients can send sparse requests
func (req wsRequest) applyDefaults() RenderRequest {
	def := defaultRenderRequest()
	out := req.RenderRequest
	if out.Width == 0 {
		out.Width = def.Width
	}
	if out.Height == 0 {
		out.Height = def.Height
	}
	if out.Mode == "" {
		out.Mode = def.Mode
	}
	if out.Quality == "" {
		out.Quality = def.Quality
	}
	if out.MaxPasses == 0 {
		out.MaxPasses = def.MaxPasses
	}
	if out.Radius == 0 {
		out.Radius = def.Radius
	}
	if out.Fov == 0 {
		out.Fov = def.Fov
	}
	return out
}

// renderToWebSocket runs one progressive render and streams each pass
func (s *Server) renderToWebSocket(ctx context.Context, wc *wsConn, req *RenderRequest) {
	pipeline, err := s.setupRenderingPipeline(req, renderer.NewDefaultLogger())
	if err != nil {
		wc.writeJSON(wsFrame{Type: "error", Data: map[string]string{"message": err.Error()}})
		return
	}

	startTime := time.Now()
	passChan, _, errChan := pipeline.Renderer.RenderProgressive(ctx, renderer.RenderOptions{TileUpdates: false})

	for {
		select {
		case pass, ok := <-passChan:
			if !ok {
				return
			}

			update, err := buildProgressUpdate(pass, req, startTime)
			if err != nil {
				log.Printf("Error encoding pass image: %v", err)
				continue
			}

			frameType := "pass"
			if pass.IsLast {
				frameType = "complete"
			}
			if err := wc.writeJSON(wsFrame{Type: frameType, Data: update}); err != nil {
				return
			}

		case err := <-errChan:
			if err != nil {
				wc.writeJSON(wsFrame{Type: "error", Data: map[string]string{"message": err.Error()}})
				return
			}

		case <-ctx.Done():
			return
		}
	}
}
