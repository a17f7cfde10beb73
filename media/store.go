package media

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/facette/natsort"
)

// extensionsByContentType maps the accepted upload content types to the
// extension used for the raw artifact.
var extensionsByContentType = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
}

// rawExtensions in lookup order when resolving the raw half of an artifact
// pair from its identifier.
var rawExtensions = []string{"jpg", "png"}

// Artifact describes one stored upload: the raw original and its derived
// preview, both named by the same identifier.
type Artifact struct {
	Identifier int64  `json:"identifier"`
	RawFile    string `json:"raw_file"`
	Preview    string `json:"preview"`
}

// Timestamp returns the upload acceptance time encoded in the identifier.
func (a Artifact) Timestamp() time.Time {
	return time.UnixMilli(a.Identifier * 10).UTC()
}

// Store persists uploaded pictures as raw/preview artifact pairs in two
// parallel directories. It owns both directories exclusively and keeps no
// in-memory state about them; every listing re-reads the filesystem.
type Store struct {
	rawPath      string
	previewsPath string
	thumbMaxSize int

	now func() time.Time
}

// NewStore creates a picture store over the given raw and previews
// directories, creating them if absent.
func NewStore(rawPath, previewsPath string, thumbMaxSize int) (*Store, error) {
	for _, dir := range []string{rawPath, previewsPath} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create artifact directory '%s': %w", dir, err)
		}
	}

	log.Printf("media.store: storing raw uploads in %s, previews in %s", rawPath, previewsPath)
	return &Store{
		rawPath:      rawPath,
		previewsPath: previewsPath,
		thumbMaxSize: thumbMaxSize,
		now:          time.Now,
	}, nil
}

// RawDir returns the directory holding original uploads.
func (s *Store) RawDir() string { return s.rawPath }

// PreviewsDir returns the directory holding derived thumbnails.
func (s *Store) PreviewsDir() string { return s.previewsPath }

// allocateIdentifier derives the upload identifier from the current wall
// clock at hundredth-of-a-second resolution. Two uploads accepted within the
// same tick map to the same identifier; exclusive creation of the raw file
// arbitrates which of them wins.
func (s *Store) allocateIdentifier() int64 {
	return s.now().UTC().UnixMilli() / 10
}

// Ingest accepts one upload end-to-end: it allocates an identifier, persists
// the original under raw/, derives the preview and persists it under
// previews/, and returns the identifier. On any failure after the raw file
// was created, the raw file is removed again; a failed ingest never leaves a
// partial artifact pair behind.
func (s *Store) Ingest(contentType string, data []byte) (int64, error) {
	ext, ok := extensionsByContentType[contentType]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrInvalidFileType, contentType)
	}

	id := s.allocateIdentifier()

	// a same-tick upload of the other image type produces a different raw
	// filename, so the exclusive create below would not catch it
	for _, other := range rawExtensions {
		if other == ext {
			continue
		}
		if _, err := os.Stat(s.rawFilePath(id, other)); err == nil {
			return 0, fmt.Errorf("%w: identifier %d already taken", ErrRateLimited, id)
		}
	}

	rawPath := s.rawFilePath(id, ext)
	rawFile, err := os.OpenFile(rawPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return 0, fmt.Errorf("%w: identifier %d already taken", ErrRateLimited, id)
		}
		return 0, fmt.Errorf("failed to create raw artifact '%s': %w", rawPath, err)
	}

	if _, err := rawFile.Write(data); err != nil {
		rawFile.Close()
		os.Remove(rawPath)
		return 0, fmt.Errorf("failed to write raw artifact '%s': %w", rawPath, err)
	}
	if err := rawFile.Close(); err != nil {
		os.Remove(rawPath)
		return 0, fmt.Errorf("failed to close raw artifact '%s': %w", rawPath, err)
	}

	thumb, err := Thumbnail(data, s.thumbMaxSize)
	if err != nil {
		os.Remove(rawPath)
		return 0, fmt.Errorf("%w: %v", ErrThumbnail, err)
	}

	previewPath := s.previewFilePath(id)
	if err := os.WriteFile(previewPath, thumb, 0644); err != nil {
		os.Remove(previewPath)
		os.Remove(rawPath)
		return 0, fmt.Errorf("failed to write preview '%s': %w", previewPath, err)
	}

	return id, nil
}

func (s *Store) rawFilePath(id int64, ext string) string {
	return filepath.Join(s.rawPath, fmt.Sprintf("%d.%s", id, ext))
}

func (s *Store) previewFilePath(id int64) string {
	return filepath.Join(s.previewsPath, fmt.Sprintf("%d.jpg", id))
}

// List returns all stored artifact pairs, newest first. The previews
// directory is the source of truth: every preview has a raw counterpart by
// construction, while a raw file without a preview never outlives the
// request that wrote it.
func (s *Store) List() ([]Artifact, error) {
	entries, err := os.ReadDir(s.previewsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list previews directory '%s': %w", s.previewsPath, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	natsort.Sort(names)

	artifacts := make([]Artifact, 0, len(names))
	for i := len(names) - 1; i >= 0; i-- {
		preview := names[i]
		idStr := strings.TrimSuffix(preview, filepath.Ext(preview))
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			log.Printf("media.store: skipping preview with unparsable identifier: %s", preview)
			continue
		}

		rawFile := idStr + "." + rawExtensions[len(rawExtensions)-1]
		for _, ext := range rawExtensions {
			if _, err := os.Stat(s.rawFilePath(id, ext)); err == nil {
				rawFile = idStr + "." + ext
				break
			}
		}

		artifacts = append(artifacts, Artifact{
			Identifier: id,
			RawFile:    rawFile,
			Preview:    preview,
		})
	}

	return artifacts, nil
}

// Purge deletes and recreates both artifact directories.
func (s *Store) Purge() error {
	for _, dir := range []string{s.rawPath, s.previewsPath} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to remove artifact directory '%s': %w", dir, err)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to recreate artifact directory '%s': %w", dir, err)
		}
	}
	log.Printf("media.store: purged all artifacts")
	return nil
}
