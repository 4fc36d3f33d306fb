package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kryptokommunist/doyle-packing-sub000/internal/config"
)

// RouterConfig contains all dependencies needed to construct the HTTP router.
// This struct is designed for dependency injection and testability.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    Renderer: mockRenderer,
//	    Store:    api.NewExportStore(4),
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Renderer computes spirals (required)
	Renderer SpiralRenderer

	// Store keeps recent geometry exports (required)
	Store *ExportStore

	// Defaults are the presentational parameters applied when a request
	// omits them. The zero value means config.DefaultRender().
	Defaults config.RenderConfig

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter.
	// Only used if RateLimiter is nil. If both are nil, uses DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, uses the default local-development origins.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful for benchmarks).
	DisableLogging bool
}

// routerHandlers holds the handler functions for the router.
// This is used internally to pass handlers to route setup.
type routerHandlers struct {
	renderer SpiralRenderer
	store    *ExportStore
	defaults config.RenderConfig
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// IMPORTANT: This function is PURE - it has no side effects beyond the rate
// limiter's cleanup goroutine when one has to be created:
//   - No network listeners are opened
//   - No background workers are launched
//
// This makes it safe to use in tests with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware - Order matters!
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	// Rate limiting (BEFORE CORS to reject early and save CPU)
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	// HTTP metrics (after rate limiting so rejections stay in
	// connection_rejected_total, not the request histogram)
	r.Use(metricsMiddleware)

	// CORS configuration
	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	defaults := cfg.Defaults
	if defaults == (config.RenderConfig{}) {
		defaults = config.DefaultRender()
	}

	h := &routerHandlers{
		renderer: cfg.Renderer,
		store:    cfg.Store,
		defaults: defaults,
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/spiral", h.handleCreateSpiral)
		r.Get("/spiral/{id}", h.handleGetSpiral)
		r.Get("/spiral/{id}/svg", h.handleGetSpiralSVG)
		r.Get("/defaults", h.handleGetDefaults)
	})

	// Default route
	r.Get("/", rootHandler)

	return r
}

// metricsMiddleware records per-request latency and status. The endpoint
// label is the chi route pattern, never the raw URL, keeping metric
// cardinality bounded.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		endpoint := chi.RouteContext(r.Context()).RoutePattern()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		RecordRequest(r.Method, endpoint, ww.Status(), time.Since(start))
	})
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"service":   "doyle-packing",
		"endpoints": []string{"POST /api/spiral", "GET /api/spiral/{id}", "GET /api/spiral/{id}/svg"},
	})
}
