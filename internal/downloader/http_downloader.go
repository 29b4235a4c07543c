package downloader

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/iconidentify/ytthumbs/internal/config"
	"github.com/iconidentify/ytthumbs/internal/domain"
)

// HTTPDownloader implements Fetcher using HTTP requests.
type HTTPDownloader struct {
	client        *http.Client
	userAgent     string
	minImageBytes int64
	logger        *slog.Logger
}

// NewHTTPDownloader creates a new HTTP-based thumbnail fetcher.
func NewHTTPDownloader(cfg config.DownloadConfig) *HTTPDownloader {
	return &HTTPDownloader{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent:     cfg.UserAgent,
		minImageBytes: cfg.MinImageBytes,
		logger:        slog.Default(),
	}
}

// SetLogger sets the logger for fallback reporting.
func (d *HTTPDownloader) SetLogger(logger *slog.Logger) {
	d.logger = logger
}

// Download performs a single GET of one candidate. Non-2xx responses are errors.
// Caller is responsible for closing the returned body.
func (d *HTTPDownloader) Download(ctx context.Context, c domain.ThumbnailCandidate) (*Fetched, error) {
	resp, err := d.get(ctx, c.URL)
	if err != nil {
		return nil, err
	}
	return &Fetched{
		Candidate:   c,
		Body:        resp.Body,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        contentLength(resp),
	}, nil
}

// Probe checks URL accessibility without downloading the image.
func (d *HTTPDownloader) Probe(ctx context.Context, url string) (*ProbeResult, error) {
	resp, err := d.do(ctx, http.MethodHead, url)
	if err != nil {
		return &ProbeResult{
			Accessible: false,
			Error:      err.Error(),
		}, nil
	}
	defer resp.Body.Close()

	result := &ProbeResult{
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: contentLength(resp),
		Accessible:    resp.StatusCode >= 200 && resp.StatusCode <= 299,
	}

	if !result.Accessible {
		result.Error = fmt.Sprintf("status code %d", resp.StatusCode)
	}

	return result, nil
}

// FetchBest downloads the first candidate that answers with a real image.
// Each candidate is requested at most once.
func (d *HTTPDownloader) FetchBest(ctx context.Context, candidates []domain.ThumbnailCandidate) (*Fetched, error) {
	if len(candidates) == 0 {
		return nil, domain.ErrThumbnailUnavailable
	}

	var lastErr error
	for i, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fetched, err := d.Download(ctx, c)
		if err == nil && i < len(candidates)-1 && d.isPlaceholder(fetched.Size) {
			fetched.Body.Close()
			err = fmt.Errorf("%w: %d bytes", domain.ErrPlaceholderImage, fetched.Size)
		}
		if err != nil {
			lastErr = err
			d.logger.Debug("thumbnail tier unavailable",
				"tier", c.Tier,
				"url", c.URL,
				"error", err,
			)
			continue
		}

		return fetched, nil
	}

	return nil, fmt.Errorf("%w: %w", domain.ErrThumbnailUnavailable, lastErr)
}

// SelectBest returns the first candidate whose probe succeeds.
func (d *HTTPDownloader) SelectBest(ctx context.Context, candidates []domain.ThumbnailCandidate) (*domain.ThumbnailCandidate, error) {
	for i, c := range candidates {
		probe, err := d.Probe(ctx, c.URL)
		if err != nil {
			continue
		}
		if !probe.Accessible {
			d.logger.Debug("thumbnail tier not accessible", "tier", c.Tier, "error", probe.Error)
			continue
		}
		if i < len(candidates)-1 && d.isPlaceholder(probe.ContentLength) {
			d.logger.Debug("thumbnail tier is a placeholder", "tier", c.Tier, "bytes", probe.ContentLength)
			continue
		}
		selected := c
		return &selected, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, domain.ErrThumbnailUnavailable
}

// get performs a GET and closes the body of non-2xx responses.
func (d *HTTPDownloader) get(ctx context.Context, url string) (*http.Response, error) {
	resp, err := d.do(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: status %d", domain.ErrFetchFailed, resp.StatusCode)
	}
	return resp, nil
}

func (d *HTTPDownloader) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "image/jpeg,image/*;q=0.9,*/*;q=0.8")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	return resp, nil
}

// isPlaceholder reports whether a known length is too small to be a real
// thumbnail. Unknown lengths (-1) are accepted.
func (d *HTTPDownloader) isPlaceholder(size int64) bool {
	return size >= 0 && size <= d.minImageBytes
}

func contentLength(resp *http.Response) int64 {
	size := resp.ContentLength
	if size < 0 {
		// Try to parse from header
		if cl := resp.Header.Get("Content-Length"); cl != "" {
			if parsed, err := strconv.ParseInt(cl, 10, 64); err == nil {
				size = parsed
			}
		}
	}
	return size
}
