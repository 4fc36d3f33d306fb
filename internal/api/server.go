package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kryptokommunist/doyle-packing-sub000/internal/config"
)

// Server is the HTTP API server with WebSocket support.
// It combines the HTTP router with the animation streamer for real-time
// export streaming.
type Server struct {
	renderer    *Service
	store       *ExportStore
	router      *chi.Mux
	animator    *AnimationStreamer
	rateLimiter *IPRateLimiter
}

// NewServer creates a new API server with default production configuration.
//
// IMPORTANT: No network listeners are opened until Start() is called.
// For testing HTTP endpoints, use NewRouter() directly or Router().
func NewServer(cfg config.AppConfig) *Server {
	renderer := NewService()
	store := NewExportStore(cfg.Server.StoreLimit)

	s := &Server{
		renderer: renderer,
		store:    store,
		animator: NewAnimationStreamer(renderer),
	}

	// Create rate limiter (we track it for cleanup on Stop)
	s.rateLimiter = NewIPRateLimiter(DefaultRateLimitConfig)

	// Build router using the factory
	s.router = NewRouter(RouterConfig{
		Renderer:    renderer,
		Store:       store,
		Defaults:    cfg.Render,
		RateLimiter: s.rateLimiter,
	})

	// Add WebSocket routes (these need the animator instance)
	s.setupWebSocketRoutes()

	return s
}

// setupWebSocketRoutes adds WebSocket-specific routes to the router.
// These routes need access to the animator instance, so they can't be
// part of the generic NewRouter factory.
func (s *Server) setupWebSocketRoutes() {
	s.router.Get("/api/spiral/animate", s.animator.HandleAnimate)
}

// Start begins the HTTP server. Blocks until the listener fails.
func (s *Server) Start(addr string) error {
	log.Printf("🌐 API server starting on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// Router returns the HTTP handler for use with httptest.
// Use this in integration tests instead of calling Start().
//
// Example:
//
//	server := api.NewServer(config.Load())
//	ts := httptest.NewServer(server.Router())
//	defer ts.Close()
//	resp, _ := http.Post(ts.URL+"/api/spiral", "application/json", body)
func (s *Server) Router() http.Handler {
	return s.router
}

// Stop performs graceful shutdown of background workers.
// Call this before process exit to ensure clean cleanup.
func (s *Server) Stop() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}
