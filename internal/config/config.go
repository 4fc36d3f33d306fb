// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all render and server settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
)

// =============================================================================
// RENDER CONFIGURATION
// =============================================================================

// RenderConfig holds the presentational defaults applied when a request does
// not override them. Geometry parameters (p, q, t, ...) live in
// spiral.Params and are validated there.
type RenderConfig struct {
	Size         int     // Square canvas edge in pixels
	StrokeWidth  float64 // Outline stroke width in pixels
	Spacing      float64 // Hatch line spacing in pixels
	AnglePerRing float64 // Hatch angle increment per ring in degrees
	Offset       float64 // Inward hatch inset in pixels
	DrawOutline  bool    // Whether group outlines are drawn
}

// DefaultRender returns the default render configuration.
func DefaultRender() RenderConfig {
	return RenderConfig{
		Size:         1000,
		StrokeWidth:  1,
		Spacing:      5,
		AnglePerRing: 15,
		Offset:       0,
		DrawOutline:  true,
	}
}

// RenderFromEnv returns render configuration with environment variable
// overrides. Environment variables take precedence over defaults.
func RenderFromEnv() RenderConfig {
	cfg := DefaultRender()

	if s := getEnvInt("SVG_SIZE", 0); s > 0 {
		cfg.Size = s
	}
	if sw := getEnvFloat("STROKE_WIDTH", 0); sw > 0 {
		cfg.StrokeWidth = sw
	}
	if sp := getEnvFloat("HATCH_SPACING", 0); sp > 0 {
		cfg.Spacing = sp
	}
	if a := getEnvFloat("ANGLE_PER_RING", -1); a >= 0 {
		cfg.AnglePerRing = a
	}
	if o := getEnvFloat("HATCH_OFFSET", -1); o >= 0 {
		cfg.Offset = o
	}
	if os.Getenv("DRAW_OUTLINE") == "false" {
		cfg.DrawOutline = false
	}

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port       int
	StoreLimit int // Bounded size of the in-memory export store
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:       3000,
		StoreLimit: 12,
	}
}

// ServerFromEnv returns server configuration with environment variable
// overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if sl := getEnvInt("STORE_LIMIT", 0); sl > 0 {
		cfg.StoreLimit = sl
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Render RenderConfig
	Server ServerConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Render: RenderFromEnv(),
		Server: ServerFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
