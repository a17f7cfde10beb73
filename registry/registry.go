package registry

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/FelixWohlfrom/berry-cam-server/models"
)

const apiKeyBytes = 16

var (
	// ErrUserNotFound is returned when a username has no record in the document.
	ErrUserNotFound = errors.New("registry: user not found")
	// ErrCameraNotFound is returned when a camera name has no record in the document.
	ErrCameraNotFound = errors.New("registry: camera not found")
)

// document is the full backing file content. Every mutation rewrites the
// entire document; there is no per-record persistence.
type document struct {
	Users   map[string]*models.User   `yaml:"user"`
	Cameras map[string]*models.Camera `yaml:"cameras"`
}

// Store is a durable, whole-document store for users and cameras, backed by a
// single YAML file. Mutating operations are serialized by a store-wide lock
// around the full load-mutate-save cycle; saves replace the file atomically,
// so lock-free readers never observe a partially written document.
type Store struct {
	path string
	mu   sync.Mutex
}

// Open validates that the backing document at path parses and returns a store
// for it. A malformed document is a fatal condition for the caller; the
// process must not serve requests with a registry it cannot read.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() (*document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry '%s': %w", s.path, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse registry '%s': %w", s.path, err)
	}
	if doc.Users == nil {
		doc.Users = make(map[string]*models.User)
	}
	if doc.Cameras == nil {
		doc.Cameras = make(map[string]*models.Camera)
	}
	return &doc, nil
}

// save writes the document to a temporary file in the registry's directory
// and renames it over the backing file, so concurrent readers see either the
// old or the new content, never a torn write.
func (s *Store) save(doc *document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode registry document: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp registry file in '%s': %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp registry file '%s': %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp registry file '%s': %w", tmpName, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace registry '%s': %w", s.path, err)
	}
	return nil
}

// mutate runs fn against a freshly loaded document under the store lock and
// persists the result. fn must not retain the document past its return.
func (s *Store) mutate(fn func(doc *document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.save(doc)
}

// GetUser returns the user record for username, or ErrUserNotFound.
func (s *Store) GetUser(username string) (*models.User, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	user, ok := doc.Users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	user.Username = username
	return user, nil
}

// APIKeys returns the set of all known API keys. Possibly empty, never nil.
func (s *Store) APIKeys() (map[string]struct{}, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	keys := make(map[string]struct{}, len(doc.Users))
	for _, user := range doc.Users {
		keys[user.APIKey] = struct{}{}
	}
	return keys, nil
}

// RegenerateAPIKey replaces the API key of username with a fresh random token
// and returns the new value. The old key stops validating as soon as the
// document is rewritten.
func (s *Store) RegenerateAPIKey(username string) (string, error) {
	buf := make([]byte, apiKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate api key: %w", err)
	}
	newKey := hex.EncodeToString(buf)

	err := s.mutate(func(doc *document) error {
		user, ok := doc.Users[username]
		if !ok {
			return ErrUserNotFound
		}
		user.APIKey = newKey
		return nil
	})
	if err != nil {
		return "", err
	}
	return newKey, nil
}

// GetCamera returns the camera record for name, or ErrCameraNotFound.
func (s *Store) GetCamera(name string) (*models.Camera, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	camera, ok := doc.Cameras[name]
	if !ok {
		return nil, ErrCameraNotFound
	}
	camera.Name = name
	return camera, nil
}

// ListCameras returns all camera records keyed by name. Possibly empty,
// never nil.
func (s *Store) ListCameras() (map[string]*models.Camera, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	for name, camera := range doc.Cameras {
		camera.Name = name
	}
	return doc.Cameras, nil
}

// SetCameraEnabled updates the operator intent for a camera. An unknown name
// is created with the given flag and a last connection of now; an existing
// record keeps its last connection untouched.
func (s *Store) SetCameraEnabled(name string, enabled bool) (*models.Camera, error) {
	var result *models.Camera
	err := s.mutate(func(doc *document) error {
		camera, ok := doc.Cameras[name]
		if !ok {
			camera = &models.Camera{
				Enabled:        enabled,
				LastConnection: time.Now().UTC().Unix(),
			}
			doc.Cameras[name] = camera
		} else {
			camera.Enabled = enabled
		}
		result = &models.Camera{
			Name:           name,
			Enabled:        camera.Enabled,
			LastConnection: camera.LastConnection,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecordCameraReport upserts a camera from a device report: the enabled flag
// is taken from the report and the last connection is refreshed to now.
func (s *Store) RecordCameraReport(name string, enabled bool) (*models.Camera, error) {
	var result *models.Camera
	err := s.mutate(func(doc *document) error {
		camera, ok := doc.Cameras[name]
		if !ok {
			camera = &models.Camera{}
			doc.Cameras[name] = camera
		}
		camera.Enabled = enabled
		camera.LastConnection = time.Now().UTC().Unix()
		result = &models.Camera{
			Name:           name,
			Enabled:        camera.Enabled,
			LastConnection: camera.LastConnection,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteCamera removes the camera record for name. Deleting an unknown name
// is not an error.
func (s *Store) DeleteCamera(name string) error {
	return s.mutate(func(doc *document) error {
		delete(doc.Cameras, name)
		return nil
	})
}
