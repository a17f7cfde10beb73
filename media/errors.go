package media

import "errors"

var (
	// ErrInvalidFileType is returned when an upload declares a content type
	// other than image/jpeg or image/png. Nothing is written to disk.
	ErrInvalidFileType = errors.New("media: invalid file type")

	// ErrRateLimited is returned when an upload maps to an identifier that
	// already has a raw artifact on disk. Nothing is written to disk; the
	// correct caller behavior is to retry after a delay.
	ErrRateLimited = errors.New("media: upload rate limit exceeded")

	// ErrThumbnail is returned when the preview could not be derived from an
	// accepted original. The raw artifact has been rolled back.
	ErrThumbnail = errors.New("media: thumbnail creation failed")
)
