package domain

import "errors"

// Domain errors.
var (
	// ErrInvalidURL is returned when no supported URL shape yields a video ID.
	ErrInvalidURL = errors.New("unrecognized URL format")

	// ErrThumbnailUnavailable is returned when every quality tier failed to fetch.
	ErrThumbnailUnavailable = errors.New("thumbnail unavailable")

	// ErrFetchFailed is returned when a single thumbnail tier could not be fetched.
	ErrFetchFailed = errors.New("thumbnail fetch failed")

	// ErrPlaceholderImage is returned when the image host answered with its
	// placeholder instead of a real thumbnail.
	ErrPlaceholderImage = errors.New("placeholder image returned")

	// ErrMetadataUnavailable is returned when the video page lookup fails.
	ErrMetadataUnavailable = errors.New("video metadata unavailable")

	// ErrBatchFileNotFound is returned when the batch input file does not exist.
	ErrBatchFileNotFound = errors.New("batch file not found")

	// ErrEmptyBatch is returned when the batch input has no URLs.
	ErrEmptyBatch = errors.New("no URLs found in batch file")

	// ErrNoValidURLs is returned when no batch line produced a record.
	ErrNoValidURLs = errors.New("no valid URLs were processed")
)

// ThumbnailError wraps an error with video context.
type ThumbnailError struct {
	VideoID VideoID
	Op      string
	Err     error
}

func (e *ThumbnailError) Error() string {
	if e.VideoID != "" {
		return e.Op + " [" + e.VideoID.String() + "]: " + e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *ThumbnailError) Unwrap() error {
	return e.Err
}

// NewThumbnailError creates a new ThumbnailError.
func NewThumbnailError(videoID VideoID, op string, err error) *ThumbnailError {
	return &ThumbnailError{
		VideoID: videoID,
		Op:      op,
		Err:     err,
	}
}

// IOError reports a local file operation that failed.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError.
func NewIOError(op, path string, err error) *IOError {
	return &IOError{Op: op, Path: path, Err: err}
}
