package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iconidentify/ytthumbs/internal/domain"
	"github.com/iconidentify/ytthumbs/internal/service"
	"github.com/iconidentify/ytthumbs/pkg/youtube"
)

// TierHeader names the tier served by the image endpoint.
const TierHeader = "X-Thumbnail-Tier"

// ThumbnailHandler handles thumbnail lookup HTTP requests.
type ThumbnailHandler struct {
	thumbnails *service.ThumbnailService
	logger     *slog.Logger
}

// NewThumbnailHandler creates a new thumbnail handler.
func NewThumbnailHandler(thumbnails *service.ThumbnailService, logger *slog.Logger) *ThumbnailHandler {
	return &ThumbnailHandler{
		thumbnails: thumbnails,
		logger:     logger,
	}
}

// ThumbnailResponse is the JSON response for a resolved thumbnail.
type ThumbnailResponse struct {
	VideoID  string `json:"video_id"`
	URL      string `json:"url"`
	Tier     string `json:"tier"`
	Verified bool   `json:"verified"`
}

// Resolve handles GET /api/v1/thumbnails?url=<u>[&verify=true]
func (h *ThumbnailHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	input := r.URL.Query().Get("url")
	if input == "" {
		writeError(w, http.StatusBadRequest, "url parameter is required")
		return
	}

	id, err := youtube.ExtractVideoID(input)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not extract video ID from URL")
		return
	}

	verify, _ := strconv.ParseBool(r.URL.Query().Get("verify"))
	if !verify {
		candidate := h.thumbnails.ResolveURL(id)
		writeJSON(w, http.StatusOK, ThumbnailResponse{
			VideoID: id.String(),
			URL:     candidate.URL,
			Tier:    candidate.Tier.String(),
		})
		return
	}

	candidate, err := h.thumbnails.VerifyURL(r.Context(), id)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("verify failed", "video_id", id, "error", err)
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ThumbnailResponse{
		VideoID:  id.String(),
		URL:      candidate.URL,
		Tier:     candidate.Tier.String(),
		Verified: true,
	})
}

// Image handles GET /api/v1/thumbnails/{videoID}.jpg
func (h *ThumbnailHandler) Image(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseVideoID(chi.URLParam(r, "videoID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid video ID")
		return
	}

	fetched, err := h.thumbnails.Open(r.Context(), id)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("thumbnail fetch failed", "video_id", id, "error", err)
		}
		writeError(w, status, err.Error())
		return
	}
	defer fetched.Body.Close()

	contentType := fetched.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set(TierHeader, fetched.Candidate.Tier.String())
	if fetched.Size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(fetched.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, fetched.Body); err != nil {
		h.logger.Warn("thumbnail stream interrupted", "video_id", id, "error", err)
	}
}
