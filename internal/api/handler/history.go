package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/iconidentify/ytthumbs/internal/repository"
)

// HistoryHandler exposes the download history ledger.
type HistoryHandler struct {
	history      repository.HistoryRepository
	defaultLimit int
	logger       *slog.Logger
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(history repository.HistoryRepository, defaultLimit int, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{
		history:      history,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

// DownloadResponse represents one history entry.
type DownloadResponse struct {
	ID           string    `json:"id"`
	VideoID      string    `json:"video_id"`
	Tier         string    `json:"tier"`
	SourceURL    string    `json:"source_url"`
	Path         string    `json:"path"`
	Bytes        int64     `json:"bytes"`
	DownloadedAt time.Time `json:"downloaded_at"`
}

// HistoryListResponse contains recent downloads.
type HistoryListResponse struct {
	Downloads []DownloadResponse `json:"downloads"`
	Limit     int                `json:"limit"`
}

// List handles GET /api/v1/history
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := h.defaultLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	records, err := h.history.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("list history failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list history")
		return
	}

	resp := HistoryListResponse{
		Downloads: make([]DownloadResponse, 0, len(records)),
		Limit:     limit,
	}
	for _, rec := range records {
		resp.Downloads = append(resp.Downloads, DownloadResponse{
			ID:           rec.ID,
			VideoID:      rec.VideoID.String(),
			Tier:         rec.Tier.String(),
			SourceURL:    rec.SourceURL,
			Path:         rec.Path,
			Bytes:        rec.Bytes,
			DownloadedAt: rec.DownloadedAt,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
