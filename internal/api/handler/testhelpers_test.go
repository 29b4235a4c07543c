package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iconidentify/ytthumbs/internal/config"
	"github.com/iconidentify/ytthumbs/internal/domain"
	"github.com/iconidentify/ytthumbs/internal/logging"
	"github.com/iconidentify/ytthumbs/internal/downloader"
	"github.com/iconidentify/ytthumbs/internal/service"
	"github.com/iconidentify/ytthumbs/pkg/youtube"
)

// testLogger returns a silent logger for tests.
func testLogger() *slog.Logger {
	return logging.Discard()
}

var testJPEG = strings.Repeat("\xd8", 1500)

// newImageHost starts a fake image host. Tiers not listed in available answer 404.
func newImageHost(t *testing.T, available ...domain.Tier) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, tier := range available {
			if strings.HasSuffix(r.URL.Path, "/"+tier.String()+".jpg") {
				w.Header().Set("Content-Type", "image/jpeg")
				w.WriteHeader(http.StatusOK)
				if r.Method == http.MethodGet {
					w.Write([]byte(testJPEG))
				}
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)
	return server
}

func newThumbnailService(baseURL string) *service.ThumbnailService {
	dl := downloader.NewHTTPDownloader(config.DownloadConfig{
		Timeout:       5 * time.Second,
		UserAgent:     "test-agent",
		MinImageBytes: 1000,
	})
	dl.SetLogger(testLogger())
	return service.NewThumbnailService(youtube.NewImageHost(baseURL+"/vi"), dl, nil, testLogger())
}

// mockMetadata is a test implementation of service.MetadataFetcher.
type mockMetadata struct {
	titles map[domain.VideoID]string
	err    error
}

func (m *mockMetadata) FetchMetadata(ctx context.Context, id domain.VideoID) (*domain.VideoMetadata, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.VideoMetadata{
		Title:       m.titles[id],
		Description: "description of " + id.String(),
	}, nil
}

// mockHistory is a test implementation of repository.HistoryRepository.
type mockHistory struct {
	records []*domain.DownloadRecord
	listErr error
	limit   int
}

func (m *mockHistory) Save(ctx context.Context, record *domain.DownloadRecord) error {
	m.records = append(m.records, record)
	return nil
}

func (m *mockHistory) List(ctx context.Context, limit int) ([]*domain.DownloadRecord, error) {
	m.limit = limit
	if m.listErr != nil {
		return nil, m.listErr
	}
	if limit < len(m.records) {
		return m.records[:limit], nil
	}
	return m.records, nil
}

func (m *mockHistory) Close() error { return nil }
