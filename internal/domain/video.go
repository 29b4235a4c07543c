package domain

import (
	"time"
)

// VideoIDLength is the fixed length of a YouTube video ID.
const VideoIDLength = 11

// VideoID is the 11-character YouTube video identifier.
type VideoID string

// String returns the string representation of the VideoID.
func (id VideoID) String() string {
	return string(id)
}

// IsVideoIDChar reports whether c may appear in a video ID.
func IsVideoIDChar(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '-' || c == '_'
}

// ParseVideoID validates a bare video ID token.
func ParseVideoID(s string) (VideoID, error) {
	if len(s) != VideoIDLength {
		return "", ErrInvalidURL
	}
	for i := 0; i < len(s); i++ {
		if !IsVideoIDChar(s[i]) {
			return "", ErrInvalidURL
		}
	}
	return VideoID(s), nil
}

// VideoMetadata is the title and description of a video.
type VideoMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DownloadRecord is one completed thumbnail download.
type DownloadRecord struct {
	ID           string    `json:"id"`
	VideoID      VideoID   `json:"video_id"`
	Tier         Tier      `json:"tier"`
	SourceURL    string    `json:"source_url"`
	Path         string    `json:"path"`
	Bytes        int64     `json:"bytes"`
	DownloadedAt time.Time `json:"downloaded_at"`
}
