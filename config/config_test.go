package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.UploadDir))
	assert.Equal(t, filepath.Join(cfg.UploadDir, DefaultRawSubDir), cfg.RawPath)
	assert.Equal(t, filepath.Join(cfg.UploadDir, DefaultPreviewsSubDir), cfg.PreviewsPath)
	assert.Equal(t, 128, cfg.ThumbnailMaxSize)
	assert.Equal(t, 24, cfg.SessionHours)
}

func TestLoadConfigRequiresSessionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("UPLOAD_DIR", t.TempDir())
	t.Setenv("RAW_SUBDIR", "originals")
	t.Setenv("THUMBNAIL_MAX_SIZE", "256")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cfg.UploadDir, "originals"), cfg.RawPath)
	assert.Equal(t, 256, cfg.ThumbnailMaxSize)
}

func TestGetEnvIntOrDefaultInvalid(t *testing.T) {
	t.Setenv("THUMBNAIL_MAX_SIZE", "not-a-number")

	assert.Equal(t, 128, getEnvIntOrDefault("THUMBNAIL_MAX_SIZE", 128))
}
