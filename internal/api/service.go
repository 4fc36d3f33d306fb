package api

import (
	"github.com/kryptokommunist/doyle-packing-sub000/internal/spiral"
)

// SpiralRenderer defines the geometry methods used by the API.
// This interface enables mocking for tests without running real renders.
// Keep this minimal - only include methods the API layer actually calls.
type SpiralRenderer interface {
	// Render computes a full spiral for the given parameters
	Render(params spiral.Params) (*spiral.Spiral, error)
	// CacheStats returns cumulative template cache hits and misses
	CacheStats() (hits, misses uint64)
}

// Service is the production SpiralRenderer. It owns the shared template
// cache; all renders of the process go through it so congruent rings are
// reused across requests.
type Service struct {
	cache *spiral.TemplateCache
}

// NewService creates a renderer with a fresh template cache.
func NewService() *Service {
	return &Service{cache: spiral.NewTemplateCache()}
}

// Render runs one spiral render against the shared cache.
func (s *Service) Render(params spiral.Params) (*spiral.Spiral, error) {
	return spiral.Render(params, spiral.Options{Cache: s.cache})
}

// CacheStats returns the template cache's cumulative hit/miss counters.
func (s *Service) CacheStats() (hits, misses uint64) {
	return s.cache.Stats()
}
