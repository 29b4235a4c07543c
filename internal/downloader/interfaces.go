package downloader

import (
	"context"
	"io"

	"github.com/iconidentify/ytthumbs/internal/domain"
)

// Fetcher retrieves thumbnail images from the image host.
type Fetcher interface {
	// FetchBest GETs each candidate in order and returns the first usable one.
	// Caller is responsible for closing the returned body.
	FetchBest(ctx context.Context, candidates []domain.ThumbnailCandidate) (*Fetched, error)

	// SelectBest HEADs each candidate in order and returns the first accessible one.
	SelectBest(ctx context.Context, candidates []domain.ThumbnailCandidate) (*domain.ThumbnailCandidate, error)
}

// Fetched is an open thumbnail response.
type Fetched struct {
	Candidate   domain.ThumbnailCandidate
	Body        io.ReadCloser
	ContentType string
	Size        int64 // -1 when the host did not send a length
}

// ProbeResult contains information about a thumbnail URL.
type ProbeResult struct {
	ContentType   string
	ContentLength int64
	Accessible    bool
	Error         string
}
