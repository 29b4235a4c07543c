package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/iconidentify/ytthumbs/internal/domain"
)

// SQLiteHistoryRepository implements HistoryRepository on a local SQLite file.
type SQLiteHistoryRepository struct {
	db   *sql.DB
	path string
}

// NewSQLiteHistoryRepository opens (or creates) the history database at path.
func NewSQLiteHistoryRepository(path string) (*SQLiteHistoryRepository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, domain.NewIOError("create history dir", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Create downloads table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS downloads (
			id TEXT PRIMARY KEY,
			video_id TEXT NOT NULL,
			tier TEXT NOT NULL,
			source_url TEXT NOT NULL,
			path TEXT NOT NULL,
			bytes INTEGER NOT NULL,
			downloaded_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_downloads_downloaded_at ON downloads(downloaded_at);
		CREATE INDEX IF NOT EXISTS idx_downloads_video_id ON downloads(video_id);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteHistoryRepository{db: db, path: path}, nil
}

// Save inserts a download record.
func (r *SQLiteHistoryRepository) Save(ctx context.Context, record *domain.DownloadRecord) error {
	if record.ID == "" {
		record.ID = "dl_" + uuid.New().String()[:8]
	}
	if record.DownloadedAt.IsZero() {
		record.DownloadedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO downloads (id, video_id, tier, source_url, path, bytes, downloaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, record.ID, string(record.VideoID), string(record.Tier), record.SourceURL, record.Path,
		record.Bytes, record.DownloadedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("insert download %s: %w", record.ID, err)
	}
	return nil
}

// List returns the most recent downloads.
func (r *SQLiteHistoryRepository) List(ctx context.Context, limit int) ([]*domain.DownloadRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, video_id, tier, source_url, path, bytes, downloaded_at
		FROM downloads
		ORDER BY downloaded_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query downloads: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.DownloadRecord, 0, limit)
	for rows.Next() {
		var (
			rec      domain.DownloadRecord
			videoID  string
			tier     string
			unixNano int64
		)
		if err := rows.Scan(&rec.ID, &videoID, &tier, &rec.SourceURL, &rec.Path, &rec.Bytes, &unixNano); err != nil {
			return nil, fmt.Errorf("scan download: %w", err)
		}
		rec.VideoID = domain.VideoID(videoID)
		rec.Tier = domain.Tier(tier)
		rec.DownloadedAt = time.Unix(0, unixNano)
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate downloads: %w", err)
	}

	return records, nil
}

// Path returns the database file location.
func (r *SQLiteHistoryRepository) Path() string {
	return r.path
}

// Close closes the database.
func (r *SQLiteHistoryRepository) Close() error {
	return r.db.Close()
}
