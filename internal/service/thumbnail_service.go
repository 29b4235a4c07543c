package service

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/iconidentify/ytthumbs/internal/domain"
	"github.com/iconidentify/ytthumbs/internal/downloader"
	"github.com/iconidentify/ytthumbs/internal/repository"
	"github.com/iconidentify/ytthumbs/pkg/youtube"
)

// ThumbnailService resolves and downloads thumbnails for a video.
type ThumbnailService struct {
	host    *youtube.ImageHost
	fetcher downloader.Fetcher
	history repository.HistoryRepository
	logger  *slog.Logger
}

// NewThumbnailService creates a new thumbnail service.
// history may be nil, in which case downloads are not recorded.
func NewThumbnailService(
	host *youtube.ImageHost,
	fetcher downloader.Fetcher,
	history repository.HistoryRepository,
	logger *slog.Logger,
) *ThumbnailService {
	return &ThumbnailService{
		host:    host,
		fetcher: fetcher,
		history: history,
		logger:  logger,
	}
}

// ResolveURL returns the highest tier URL without touching the network.
func (s *ThumbnailService) ResolveURL(id domain.VideoID) domain.ThumbnailCandidate {
	return domain.ThumbnailCandidate{
		Tier: domain.TierMaxRes,
		URL:  s.host.URL(id, domain.TierMaxRes),
	}
}

// VerifyURL returns the first tier the image host reports as available.
func (s *ThumbnailService) VerifyURL(ctx context.Context, id domain.VideoID) (*domain.ThumbnailCandidate, error) {
	candidate, err := s.fetcher.SelectBest(ctx, s.host.Candidates(id))
	if err != nil {
		return nil, domain.NewThumbnailError(id, "verify", err)
	}
	return candidate, nil
}

// Open fetches the best available tier. The caller must close the body.
func (s *ThumbnailService) Open(ctx context.Context, id domain.VideoID) (*downloader.Fetched, error) {
	fetched, err := s.fetcher.FetchBest(ctx, s.host.Candidates(id))
	if err != nil {
		return nil, domain.NewThumbnailError(id, "fetch", err)
	}
	if fetched.Candidate.Tier != domain.TierMaxRes {
		s.logger.Info("using fallback thumbnail tier", "video_id", id, "tier", fetched.Candidate.Tier)
	}
	return fetched, nil
}

// DefaultOutputPath is the file name used when no output path is given.
func DefaultOutputPath(id domain.VideoID) string {
	return id.String() + ".jpg"
}

// Download saves the best available tier to outputPath, or to
// DefaultOutputPath when outputPath is empty. The target directory must exist.
// Nothing is left at outputPath if the download fails.
func (s *ThumbnailService) Download(ctx context.Context, id domain.VideoID, outputPath string) (*domain.DownloadRecord, error) {
	if outputPath == "" {
		outputPath = DefaultOutputPath(id)
	}

	fetched, err := s.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	defer fetched.Body.Close()

	// Write to temp file first, then rename into place
	tempFile := filepath.Join(filepath.Dir(outputPath), "."+uuid.New().String()+".tmp")
	f, err := os.Create(tempFile)
	if err != nil {
		return nil, domain.NewIOError("create", tempFile, err)
	}

	n, err := io.Copy(f, fetched.Body)
	closeErr := f.Close()
	if err != nil {
		os.Remove(tempFile)
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, domain.NewIOError("write", outputPath, err)
		}
		return nil, domain.NewThumbnailError(id, "read body", err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return nil, domain.NewIOError("write", outputPath, closeErr)
	}

	if err := os.Rename(tempFile, outputPath); err != nil {
		os.Remove(tempFile)
		return nil, domain.NewIOError("rename", outputPath, err)
	}

	record := &domain.DownloadRecord{
		VideoID:      id,
		Tier:         fetched.Candidate.Tier,
		SourceURL:    fetched.Candidate.URL,
		Path:         outputPath,
		Bytes:        n,
		DownloadedAt: time.Now(),
	}
	if abs, err := filepath.Abs(outputPath); err == nil {
		record.Path = abs
	}

	s.logger.Debug("thumbnail downloaded",
		"video_id", id,
		"tier", record.Tier,
		"path", record.Path,
		"bytes", n,
	)

	if s.history != nil {
		if err := s.history.Save(ctx, record); err != nil {
			s.logger.Warn("failed to record download", "video_id", id, "error", err)
		}
	}

	return record, nil
}
