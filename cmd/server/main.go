package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/accusim-bookkeeping/internal/config"
	"github.com/accusim-bookkeeping/internal/coordinator"
	"github.com/accusim-bookkeeping/internal/data/local"
	"github.com/accusim-bookkeeping/internal/data/store"
	"github.com/accusim-bookkeeping/internal/extraction/gemini"
	"github.com/accusim-bookkeeping/internal/logger"
	"github.com/accusim-bookkeeping/internal/platform/persistence"
	"github.com/accusim-bookkeeping/internal/server"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("accusim")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// The local SQLite store is the durability floor and always opens.
	localStore, err := local.NewStore(log, cfg.Local.Path)
	if err != nil {
		log.Error("Failed to open local store", "error", err)
		os.Exit(1)
	}

	// The remote tier only comes up when the configuration passes the
	// enablement guard. An unreachable remote at startup is not fatal: the
	// local store keeps the app fully functional, so the failure is logged,
	// surfaced as the session sync error, and the remote tier stays off.
	var (
		postgresDB    *persistence.PostgresDB
		mongoDB       *persistence.MongoDB
		remoteStore   store.RemoteStore
		remoteInitErr error
	)
	if cfg.Remote.Enabled() {
		postgresDB, remoteInitErr = persistence.NewPostgresDB(appCtx, log, &cfg.Remote)
		if remoteInitErr == nil {
			mongoDB, remoteInitErr = persistence.NewMongoDB(appCtx, log, &cfg.Mongo)
			if remoteInitErr != nil {
				postgresDB.Close()
				postgresDB = nil
			}
		}
		if remoteInitErr != nil {
			log.Warn("Remote store unavailable, continuing in local-only mode", "error", remoteInitErr)
		} else {
			remoteStore = store.NewRemote(log, postgresDB, mongoDB)
			log.Info("Remote replication enabled")
		}
	} else {
		log.Info("Running in local-only mode")
	}

	dataStore, err := store.New(log, localStore, remoteStore, cfg.SyncPool.Size)
	if err != nil {
		log.Error("Failed to initialize data store", "error", err)
		os.Exit(1)
	}

	// Initialize the extraction client and the application coordinator
	extractor := gemini.NewClient(log, &gemini.Config{
		BaseURL:     cfg.Gemini.BaseURL,
		APIKey:      cfg.Gemini.APIKey,
		TextModel:   cfg.Gemini.TextModel,
		VisionModel: cfg.Gemini.VisionModel,
		Timeout:     cfg.Gemini.Timeout,
	})

	app := coordinator.New(log, dataStore, extractor)
	if remoteInitErr != nil {
		app.RecordSyncError(fmt.Errorf("%w: startup: %v", store.ErrRemoteSync, remoteInitErr))
	}
	if err := app.Load(appCtx); err != nil {
		log.Error("Failed to load application state", "error", err)
		os.Exit(1)
	}

	// Initialize REST server
	srv := server.NewServer(log, cfg, app)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := srv.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	if err = srv.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	dataStore.Close()

	if postgresDB != nil {
		postgresDB.Close()
	}
	if mongoDB != nil {
		if err := mongoDB.Close(shutdownCtx); err != nil {
			log.Error("Error closing MongoDB connection", "error", err)
		}
	}
	if err := localStore.Close(); err != nil {
		log.Error("Error closing local store", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
