package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/kryptokommunist/doyle-packing-sub000/internal/api"
	"github.com/kryptokommunist/doyle-packing-sub000/internal/config"
)

func main() {
	// Load .env file from parent directory
	if err := godotenv.Load("../.env"); err != nil {
		// Try current directory as fallback
		if err := godotenv.Load(".env"); err != nil {
			log.Println("💡 No .env file found, using environment variables only")
		}
	} else {
		log.Println("✅ Loaded environment from ../.env")
	}

	log.Println("🌀 ================================")
	log.Println("🌀  DOYLE SPIRAL PACKING SERVICE")
	log.Println("🌀 ================================")

	// Load centralized configuration (SSOT - Single Source of Truth)
	appConfig := config.Load()
	serverCfg := appConfig.Server
	renderCfg := appConfig.Render

	log.Printf("🎨 Render defaults: %dpx canvas, spacing %.1f, %.1f°/ring, offset %.1f",
		renderCfg.Size, renderCfg.Spacing, renderCfg.AnglePerRing, renderCfg.Offset)
	log.Printf("🗃️ Export store limit: %d spirals", serverCfg.StoreLimit)

	// Start debug server
	debugCfg := api.DefaultObservabilityConfig()
	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		if err := api.StartDebugServer(debugCfg); err != nil {
			log.Printf("⚠️ Debug server disabled: %v", err)
		}
	}

	server := api.NewServer(appConfig)

	// Start API server in goroutine
	go func() {
		addr := ":" + strconv.Itoa(serverCfg.Port)
		log.Printf("🌐 API server on http://localhost%s", addr)
		log.Printf("🌀 Render endpoint: POST http://localhost%s/api/spiral", addr)

		if err := server.Start(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	server.Stop()
	log.Println("👋 Goodbye!")
}
