package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/iconidentify/ytthumbs/internal/domain"
	"github.com/iconidentify/ytthumbs/internal/report"
	"github.com/iconidentify/ytthumbs/internal/service"
)

// BatchErrorsHeader carries the number of lines that could not be processed.
const BatchErrorsHeader = "X-Batch-Errors"

const maxBatchBody = 1 << 20

// BatchHandler handles batch report HTTP requests.
type BatchHandler struct {
	batch  *service.BatchService
	logger *slog.Logger
}

// NewBatchHandler creates a new batch handler.
func NewBatchHandler(batch *service.BatchService, logger *slog.Logger) *BatchHandler {
	return &BatchHandler{
		batch:  batch,
		logger: logger,
	}
}

// Process handles POST /api/v1/batch. The body is one URL per line.
func (h *BatchHandler) Process(w http.ResponseWriter, r *http.Request) {
	lines, err := service.ParseLines(http.MaxBytesReader(w, r.Body, maxBatchBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if service.CountURLs(lines) == 0 {
		writeError(w, http.StatusBadRequest, domain.ErrEmptyBatch.Error())
		return
	}

	result, err := h.batch.Process(r.Context(), lines)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("batch failed", "error", err)
		}
		if result != nil {
			w.Header().Set(BatchErrorsHeader, strconv.Itoa(len(result.Errors)))
		}
		writeError(w, status, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set(BatchErrorsHeader, strconv.Itoa(len(result.Errors)))
	w.WriteHeader(http.StatusOK)
	if err := report.Markdown(w, result.Records); err != nil {
		h.logger.Warn("write batch report failed", "error", err)
	}
}
