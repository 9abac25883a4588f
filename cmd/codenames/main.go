// Package main provides the entry point for the Codenames server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/soliade/codenames/internal/api"
	"github.com/soliade/codenames/internal/app"
	"github.com/soliade/codenames/internal/appinfo"
	"github.com/soliade/codenames/internal/config"
	"github.com/soliade/codenames/internal/store"
	"github.com/soliade/codenames/internal/version"
	"github.com/soliade/codenames/internal/words"
)

func main() {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	// Corrupt config falls back to defaults with a warning; env wins.
	cfg, _ := config.LoadConfig()
	cfg = config.ApplyEnvOverrides(cfg)

	port := flag.Int("port", cfg.Port, "HTTP server port")
	host := flag.String("host", "0.0.0.0", "HTTP bind address")
	flag.Parse()

	dbPath := cfg.DatabasePath
	if dbPath == "" {
		dataDir, err := config.EnsureDataDir()
		if err != nil {
			log.Fatalf("Failed to ensure data directory: %v", err)
		}
		dbPath = filepath.Join(dataDir, appinfo.DatabaseFileName)
	}
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	picker, err := words.Load(cfg.WordList)
	if err != nil {
		log.Fatalf("Failed to load word list: %v", err)
	}
	log.Printf("Word list %q loaded (%d words)", cfg.WordList, picker.PoolSize())

	hub := api.NewHub()
	go hub.Run()

	games := &app.GamesService{
		Store:     db,
		Words:     picker,
		Broadcast: hub,
	}
	health := app.HealthService{Version: version.String(), Store: db}

	serverOpts := []api.ServerOption{api.WithHub(hub)}
	if len(cfg.CORSOrigins) > 0 {
		serverOpts = append(serverOpts, api.WithCORS(api.CORSConfig{AllowedOrigins: cfg.CORSOrigins}))
	}

	var limiter *api.RateLimiter
	if cfg.RateLimitEnabled {
		limiter = api.NewRateLimiter(api.DefaultRateLimiterConfig())
		serverOpts = append(serverOpts, api.WithRateLimiter(limiter))
	}

	addr := fmt.Sprintf("%s:%d", *host, *port)
	server := api.NewServer(addr, games, health, serverOpts...)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting %s v%s on %s", appinfo.AppName, version.String(), addr)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-done:
		log.Println("Shutting down...")
	case err := <-errCh:
		log.Printf("Server error: %v", err)
		os.Exit(1)
	}

	// Stop the hub first so streaming handlers unwind, then drain HTTP.
	hub.Stop()
	if limiter != nil {
		limiter.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
