package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/iconidentify/ytthumbs/internal/domain"
	"github.com/iconidentify/ytthumbs/pkg/youtube"
)

// MetadataFetcher looks up a video's title and description.
type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, id domain.VideoID) (*domain.VideoMetadata, error)
}

// BatchResult is the outcome of a batch run.
type BatchResult struct {
	Records []domain.BatchRecord
	Errors  []*domain.LineError
	Total   int // URL lines seen, excluding blanks and comments
}

// BatchService turns a list of URLs into report rows.
type BatchService struct {
	thumbnails *ThumbnailService
	metadata   MetadataFetcher
	logger     *slog.Logger
}

// NewBatchService creates a new batch service.
func NewBatchService(thumbnails *ThumbnailService, metadata MetadataFetcher, logger *slog.Logger) *BatchService {
	return &BatchService{
		thumbnails: thumbnails,
		metadata:   metadata,
		logger:     logger,
	}
}

// ReadLines reads a batch file. It fails with ErrBatchFileNotFound when the
// file is missing and ErrEmptyBatch when it holds no URL lines.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrBatchFileNotFound, path)
		}
		return nil, domain.NewIOError("open", path, err)
	}
	defer f.Close()

	lines, err := ParseLines(f)
	if err != nil {
		return nil, domain.NewIOError("read", path, err)
	}
	if CountURLs(lines) == 0 {
		return nil, domain.ErrEmptyBatch
	}
	return lines, nil
}

// ParseLines splits r into lines, keeping blanks so line numbers stay stable.
func ParseLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// CountURLs counts lines that Process would treat as input.
func CountURLs(lines []string) int {
	n := 0
	for _, line := range lines {
		if isInputLine(line) {
			n++
		}
	}
	return n
}

func isInputLine(line string) bool {
	line = strings.TrimSpace(line)
	return line != "" && !strings.HasPrefix(line, "#")
}

// Process handles each line in order. A bad line is recorded in
// BatchResult.Errors and does not stop the batch. If no line produced a
// record the result is returned together with ErrNoValidURLs.
func (s *BatchService) Process(ctx context.Context, lines []string) (*BatchResult, error) {
	result := &BatchResult{}

	for i, raw := range lines {
		if !isInputLine(raw) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		input := strings.TrimSpace(raw)
		result.Total++

		record, err := s.processLine(ctx, input)
		if err != nil {
			lineErr := &domain.LineError{Line: i + 1, Input: input, Err: err}
			result.Errors = append(result.Errors, lineErr)
			s.logger.Debug("batch line failed", "line", i+1, "input", input, "error", err)
			continue
		}
		record.Line = i + 1
		result.Records = append(result.Records, *record)
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	s.logger.Info("batch processed",
		"total", result.Total,
		"records", len(result.Records),
		"errors", len(result.Errors),
	)

	if len(result.Records) == 0 {
		return result, domain.ErrNoValidURLs
	}
	return result, nil
}

func (s *BatchService) processLine(ctx context.Context, input string) (*domain.BatchRecord, error) {
	id, err := youtube.ExtractVideoID(input)
	if err != nil {
		return nil, err
	}

	meta, err := s.metadata.FetchMetadata(ctx, id)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !errors.Is(err, domain.ErrMetadataUnavailable) {
			return nil, err
		}
		// Keep the row with empty text
		s.logger.Warn("video metadata unavailable", "video_id", id, "error", err)
		meta = &domain.VideoMetadata{}
	}

	return &domain.BatchRecord{
		Input:        input,
		VideoID:      id,
		ThumbnailURL: s.thumbnails.ResolveURL(id).URL,
		Title:        meta.Title,
		Description:  meta.Description,
	}, nil
}
