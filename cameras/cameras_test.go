package cameras

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FelixWohlfrom/berry-cam-server/registry"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conf.yaml")
	content := fmt.Sprintf(`
user: {}
cameras:
  Test-Camera:
    enabled: true
    last_connection: %d
`, time.Now().UTC().Unix())
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	store, err := registry.Open(path)
	require.NoError(t, err)
	return NewRegistry(store)
}

// registryWithLastConnection builds a registry holding a single camera whose
// last connection lies the given duration in the past.
func registryWithLastConnection(t *testing.T, age time.Duration) *Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conf.yaml")
	content := fmt.Sprintf(`
user: {}
cameras:
  Test-Camera:
    enabled: true
    last_connection: %d
`, time.Now().UTC().Add(-age).Unix())
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	store, err := registry.Open(path)
	require.NoError(t, err)
	return NewRegistry(store)
}

func TestStatusKnownCamera(t *testing.T) {
	reg := newTestRegistry(t)

	camera, err := reg.Status("Test-Camera")
	require.NoError(t, err)
	assert.Equal(t, "Test-Camera", camera.Name)
	assert.True(t, camera.Enabled)
}

func TestStatusUnknownCameraDefaultsDisabled(t *testing.T) {
	reg := newTestRegistry(t)

	camera, err := reg.Status("Garden")
	require.NoError(t, err)
	assert.Equal(t, "Garden", camera.Name)
	assert.False(t, camera.Enabled)
}

func TestReportRefreshesLastConnection(t *testing.T) {
	reg := registryWithLastConnection(t, time.Hour)

	camera, err := reg.Report("Test-Camera", true)
	require.NoError(t, err)
	assert.InDelta(t, time.Now().UTC().Unix(), camera.LastConnection, 5)
}

func TestSetEnabledKeepsLastConnection(t *testing.T) {
	reg := registryWithLastConnection(t, time.Hour)

	before, err := reg.Status("Test-Camera")
	require.NoError(t, err)

	camera, err := reg.SetEnabled("Test-Camera", false)
	require.NoError(t, err)
	assert.False(t, camera.Enabled)
	assert.Equal(t, before.LastConnection, camera.LastConnection)
}

func TestListComputesPending(t *testing.T) {
	tests := []struct {
		name    string
		age     time.Duration
		pending bool
	}{
		{"recent connection", 299 * time.Second, false},
		{"stale connection", 301 * time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := registryWithLastConnection(t, tt.age)

			infos, err := reg.List()
			require.NoError(t, err)
			require.Contains(t, infos, "Test-Camera")
			assert.Equal(t, tt.pending, infos["Test-Camera"].ConnectionPending)
		})
	}
}

func TestListFormatsLastConnection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.yaml")
	content := `
user: {}
cameras:
  Test-Camera:
    enabled: false
    last_connection: 1580552100
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	store, err := registry.Open(path)
	require.NoError(t, err)
	reg := NewRegistry(store)

	infos, err := reg.List()
	require.NoError(t, err)
	assert.Equal(t, "2020-02-01 10:15:00 UTC", infos["Test-Camera"].LastConnection)
}

func TestDeleteRemovesFromList(t *testing.T) {
	reg := newTestRegistry(t)

	require.NoError(t, reg.Delete("Test-Camera"))

	infos, err := reg.List()
	require.NoError(t, err)
	assert.NotContains(t, infos, "Test-Camera")
}
