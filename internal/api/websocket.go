package api

import (
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kryptokommunist/doyle-packing-sub000/internal/spiral"
)

const (
	// MaxWSConnectionsTotal is the maximum number of WebSocket connections allowed
	MaxWSConnectionsTotal = 100

	// MaxWSConnectionsPerIP is the maximum WebSocket connections per IP
	MaxWSConnectionsPerIP = 4

	// MaxAnimationSteps caps the frame count of one animation request.
	// Every frame is a full render, so this bounds CPU per connection.
	MaxAnimationSteps = 120

	// animationReadTimeout bounds how long a client may take to send its
	// animation request after connecting
	animationReadTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// Non-browser clients send no Origin header
		if origin == "" {
			return true
		}
		if IsAllowedOrigin(origin) {
			return true
		}

		// Log rejected origin for security monitoring
		log.Printf("⚠️ WebSocket connection rejected from origin: %s", origin)
		RecordConnectionRejected("origin")
		return false
	},
}

// animateRequest is the single message a client sends after connecting to
// /api/spiral/animate: geometry parameters plus the t ramp to sweep.
type animateRequest struct {
	spiralRequest
	TStart *float64 `json:"tStart"`
	TEnd   *float64 `json:"tEnd"`
	Steps  *int     `json:"steps"`
}

// animationFrame is one streamed message. The export shape matches
// GET /api/spiral/{id} so viewers can share decoding code.
type animationFrame struct {
	Frame  int                    `json:"frame"`
	Steps  int                    `json:"steps"`
	T      float64                `json:"t"`
	Export *spiral.GeometryExport `json:"export"`
}

// AnimationStreamer serves geometry exports over a linear ramp of the time
// parameter. One connection carries one animation and is then closed.
type AnimationStreamer struct {
	renderer  SpiralRenderer
	wsLimiter *WebSocketRateLimiter
	active    int32 // atomic, total open connections
}

// NewAnimationStreamer creates a streamer with per-IP connection limiting.
func NewAnimationStreamer(renderer SpiralRenderer) *AnimationStreamer {
	return &AnimationStreamer{
		renderer:  renderer,
		wsLimiter: NewWebSocketRateLimiter(MaxWSConnectionsPerIP),
	}
}

// ActiveConnections returns the number of open animation connections.
func (a *AnimationStreamer) ActiveConnections() int {
	return int(atomic.LoadInt32(&a.active))
}

// HandleAnimate handles incoming WebSocket connections with DoS protection.
func (a *AnimationStreamer) HandleAnimate(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	if a.ActiveConnections() >= MaxWSConnectionsTotal {
		log.Printf("⚠️ WebSocket connection rejected: total limit reached")
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}

	if !a.wsLimiter.Allow(ip) {
		log.Printf("⚠️ WebSocket connection rejected from %s: per-IP limit reached", ip)
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		a.wsLimiter.Release(ip) // Release the slot we reserved
		return
	}

	count := atomic.AddInt32(&a.active, 1)
	UpdateWSConnections(int(count))
	defer func() {
		conn.Close()
		a.wsLimiter.Release(ip)
		UpdateWSConnections(int(atomic.AddInt32(&a.active, -1)))
	}()

	conn.SetReadDeadline(time.Now().Add(animationReadTimeout))
	var req animateRequest
	if err := conn.ReadJSON(&req); err != nil {
		conn.WriteJSON(map[string]string{"error": "invalid animation request"})
		return
	}

	a.stream(conn, &req)
}

// stream renders and sends every frame of the ramp, then a done marker.
func (a *AnimationStreamer) stream(conn *websocket.Conn, req *animateRequest) {
	params, err := req.toParams()
	if err != nil {
		conn.WriteJSON(map[string]string{"error": err.Error()})
		return
	}

	tStart := params.T
	if req.TStart != nil {
		tStart = *req.TStart
	}
	tEnd := tStart + 2
	if req.TEnd != nil {
		tEnd = *req.TEnd
	}
	steps := 60
	if req.Steps != nil {
		steps = *req.Steps
	}
	if steps < 1 {
		steps = 1
	}
	if steps > MaxAnimationSteps {
		steps = MaxAnimationSteps
	}

	anglePerRing := 15.0
	if req.Angle != nil {
		anglePerRing = *req.Angle
	}

	for i := 0; i <= steps; i++ {
		t := tStart
		if steps > 0 {
			t += (tEnd - tStart) * float64(i) / float64(steps)
		}
		params.T = t

		sp, err := a.renderer.Render(params)
		if err != nil {
			conn.WriteJSON(map[string]string{"error": err.Error()})
			return
		}

		frame := animationFrame{Frame: i, Steps: steps, T: t, Export: sp.Export(anglePerRing)}
		if err := conn.WriteJSON(frame); err != nil {
			return // client went away
		}
		IncrementWSMessages()
	}

	conn.WriteJSON(map[string]string{"event": "done"})
}
