package api

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/iconidentify/ytthumbs/internal/api/handler"
	mw "github.com/iconidentify/ytthumbs/internal/api/middleware"
)

// NewRouter creates the HTTP router with all routes configured.
// historyHandler may be nil when the history ledger is disabled.
func NewRouter(
	thumbnailHandler *handler.ThumbnailHandler,
	batchHandler *handler.BatchHandler,
	healthHandler *handler.HealthHandler,
	historyHandler *handler.HistoryHandler,
	requestTimeout time.Duration,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CleanPath) // Normalize paths (e.g., //health -> /health)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logger(logger))
	r.Use(mw.Recovery(logger))
	if requestTimeout > 0 {
		r.Use(middleware.Timeout(requestTimeout))
	}
	r.Use(mw.CORS)

	// Health endpoints
	r.Get("/health", healthHandler.Live)
	r.Get("/ready", healthHandler.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/stats", healthHandler.Stats)

		r.Get("/thumbnails", thumbnailHandler.Resolve)
		r.Get("/thumbnails/{videoID}.jpg", thumbnailHandler.Image)

		r.Post("/batch", batchHandler.Process)

		if historyHandler != nil {
			r.Get("/history", historyHandler.List)
		}
	})

	return r
}
