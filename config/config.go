package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DefaultRawSubDir      = "raw"
	DefaultPreviewsSubDir = "previews"
)

const (
	defaultThumbnailMaxSize = 128
	defaultSessionHours     = 24
)

type Config struct {
	// registry document (users + cameras)
	RegistryPath string

	// upload storage configuration
	UploadDir    string // root for uploaded artifacts
	RawPath      string // full-calculated path for original uploads
	PreviewsPath string // full-calculated path for derived thumbnails

	// thumbnail generation settings
	ThumbnailMaxSize int

	// operator session settings
	SessionSecret string
	SessionHours  int
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	registryPath := getEnvOrDefault("REGISTRY_PATH", "conf.yaml")
	absRegistryPath, err := filepath.Abs(registryPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for registry '%s': %w", registryPath, err)
	}

	uploadDir := getEnvOrDefault("UPLOAD_DIR", filepath.Join(".", "uploads"))
	absUploadDir, err := filepath.Abs(uploadDir)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for upload dir '%s': %w", uploadDir, err)
	}

	rawSubDir := getEnvOrDefault("RAW_SUBDIR", DefaultRawSubDir)
	absRawPath := filepath.Join(absUploadDir, rawSubDir)

	previewsSubDir := getEnvOrDefault("PREVIEWS_SUBDIR", DefaultPreviewsSubDir)
	absPreviewsPath := filepath.Join(absUploadDir, previewsSubDir)

	thumbMaxSize := getEnvIntOrDefault("THUMBNAIL_MAX_SIZE", defaultThumbnailMaxSize)

	sessionSecret := getEnvOrDefault("SESSION_SECRET", "")
	if sessionSecret == "" {
		return Config{}, fmt.Errorf("SESSION_SECRET must be set")
	}
	sessionHours := getEnvIntOrDefault("SESSION_HOURS", defaultSessionHours)

	cfg := Config{
		RegistryPath:     absRegistryPath,
		UploadDir:        absUploadDir,
		RawPath:          absRawPath,
		PreviewsPath:     absPreviewsPath,
		ThumbnailMaxSize: thumbMaxSize,
		SessionSecret:    sessionSecret,
		SessionHours:     sessionHours,
	}

	return cfg, nil
}
