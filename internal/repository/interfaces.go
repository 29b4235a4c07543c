package repository

import (
	"context"

	"github.com/iconidentify/ytthumbs/internal/domain"
)

// HistoryRepository records completed thumbnail downloads.
type HistoryRepository interface {
	// Save persists a download record. An empty ID is filled in.
	Save(ctx context.Context, record *domain.DownloadRecord) error

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]*domain.DownloadRecord, error)

	// Close releases the underlying store.
	Close() error
}
