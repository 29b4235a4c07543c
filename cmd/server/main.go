package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/iconidentify/ytthumbs/internal/api"
	"github.com/iconidentify/ytthumbs/internal/api/handler"
	"github.com/iconidentify/ytthumbs/internal/config"
	"github.com/iconidentify/ytthumbs/internal/downloader"
	"github.com/iconidentify/ytthumbs/internal/logging"
	"github.com/iconidentify/ytthumbs/internal/repository"
	"github.com/iconidentify/ytthumbs/internal/service"
	"github.com/iconidentify/ytthumbs/pkg/youtube"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("yt-thumbs-server %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	// A missing .env is fine
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env: %v\n", err)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	levelName := cfg.Log.Level
	if levelName == "" {
		levelName = "info"
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, level, cfg.Log.Format)
	slog.SetDefault(logger)

	logger.Info("starting yt-thumbs server",
		"version", Version,
		"build_time", BuildTime,
	)

	// Initialize dependencies
	var history repository.HistoryRepository
	var historyHandler *handler.HistoryHandler
	if cfg.History.Path != "" {
		repo, err := repository.NewSQLiteHistoryRepository(cfg.History.Path)
		if err != nil {
			logger.Error("failed to open history", "path", cfg.History.Path, "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		logger.Info("download history enabled", "path", repo.Path())
		history = repo
		historyHandler = handler.NewHistoryHandler(repo, cfg.History.ListLimit, logger)
	}

	dl := downloader.NewHTTPDownloader(cfg.Download)
	dl.SetLogger(logger)
	metadataClient := youtube.NewMetadataClient(cfg.Metadata)

	// Initialize services
	thumbnailSvc := service.NewThumbnailService(
		youtube.NewImageHost(cfg.Download.ImageBaseURL),
		dl,
		history,
		logger,
	)
	batchSvc := service.NewBatchService(thumbnailSvc, metadataClient, logger)

	// Setup router
	router := api.NewRouter(
		handler.NewThumbnailHandler(thumbnailSvc, logger),
		handler.NewBatchHandler(batchSvc, logger),
		handler.NewHealthHandler(history, Version),
		historyHandler,
		cfg.Server.RequestTimeout,
		logger,
	)

	// Setup HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-serverErr:
		logger.Error("server error", "error", err)
		if history != nil {
			history.Close()
		}
		os.Exit(1)
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
