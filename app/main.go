package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/api"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/cfg"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/database"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/fetcher"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/tasks"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load configuration from environment variables and command-line flags
	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	log.Printf("Starting M3U-XMLTV Channel Matcher %s...", appCfg.Version)

	// Database connection
	log.Println("Opening database...")
	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	log.Printf("Database ready (schema version %d, dirty: %v)", version, dirty)

	// Working folders
	for _, dir := range []string{appCfg.M3UDir, appCfg.XMLTVDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("Failed to create folder %s: %v", dir, err)
		}
	}

	// Initialize core components
	matchRepo := database.NewMatchRepository(db)
	httpClient := &http.Client{Timeout: 60 * time.Second}
	sourceFetcher := fetcher.NewFetcher(httpClient, appCfg.UserAgent)

	// Initialize and start scheduler
	log.Printf("Starting background scheduler with %d workers...", appCfg.WorkerCount)
	scheduler := tasks.NewScheduler()
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize HTTP server
	log.Println("Initializing HTTP server...")
	apiHandler := api.NewHandler(matchRepo, scheduler, sourceFetcher)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	// Create HTTP server with timeouts
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start HTTP server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on port %s", appCfg.Port)
		log.Printf("Endpoints available:")
		log.Printf("  Playlist:      http://localhost:%s/playlist.m3u", appCfg.Port)
		log.Printf("  Guide:         http://localhost:%s/guide.xml", appCfg.Port)
		log.Printf("  Health check:  http://localhost:%s/health", appCfg.Port)
		log.Printf("  Statistics:    http://localhost:%s/stats", appCfg.Port)

		if appCfg.APIAccessKey != "" {
			log.Printf("  Fetch sources: http://localhost:%s/api/fetch (POST, requires API key)", appCfg.Port)
			log.Printf("  Match:         http://localhost:%s/api/match (POST, requires API key)", appCfg.Port)
			log.Printf("  Generate:      http://localhost:%s/api/generate (POST, requires API key)", appCfg.Port)
			log.Printf("  Matches:       http://localhost:%s/api/matches (requires API key)", appCfg.Port)
		} else {
			log.Printf("  API endpoints: DISABLED (API_ACCESS_KEY not set)")
		}

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Println("M3U-XMLTV Channel Matcher started successfully!")
	log.Println("Press Ctrl+C to shutdown gracefully...")

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case err := <-serverErrChan:
		log.Printf("Server error: %v", err)
	}

	// Graceful shutdown
	log.Println("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped")
	}

	// Scheduler is stopped via defer
	log.Println("Background scheduler stopped")

	log.Println("Shutdown complete")
}
