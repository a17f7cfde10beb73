package cameras

import (
	"errors"
	"time"

	"github.com/FelixWohlfrom/berry-cam-server/models"
	"github.com/FelixWohlfrom/berry-cam-server/registry"
)

const lastConnectionFormat = "2006-01-02 15:04:05 UTC"

// Info is the operator-facing view of a camera record, with the derived
// connection staleness computed at read time.
type Info struct {
	Name              string `json:"name"`
	Enabled           bool   `json:"enabled"`
	LastConnection    string `json:"last_connection"`
	ConnectionPending bool   `json:"last_connection_pending"`
}

// Registry exposes camera state on top of the config store. Device reports
// and operator toggles both funnel through the store's serialized mutation
// path; this layer only decides which fields each call site may touch.
type Registry struct {
	store *registry.Store
}

func NewRegistry(store *registry.Store) *Registry {
	return &Registry{store: store}
}

// Report records a device heartbeat: the enabled flag is upserted from the
// report and the last connection is refreshed to now. Unknown names are
// created implicitly.
func (r *Registry) Report(name string, enabled bool) (*models.Camera, error) {
	return r.store.RecordCameraReport(name, enabled)
}

// SetEnabled records operator intent without touching the last connection of
// an existing record.
func (r *Registry) SetEnabled(name string, enabled bool) (*models.Camera, error) {
	return r.store.SetCameraEnabled(name, enabled)
}

// Status returns the camera record for name. An unknown name yields a
// default disabled record rather than an error, so devices polling their
// configuration before their first report get a usable answer.
func (r *Registry) Status(name string) (*models.Camera, error) {
	camera, err := r.store.GetCamera(name)
	if errors.Is(err, registry.ErrCameraNotFound) {
		return &models.Camera{Name: name, Enabled: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return camera, nil
}

// Delete removes the camera record for name. Idempotent.
func (r *Registry) Delete(name string) error {
	return r.store.DeleteCamera(name)
}

// List returns the operator view of all known cameras, keyed by name.
func (r *Registry) List() (map[string]Info, error) {
	cams, err := r.store.ListCameras()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	infos := make(map[string]Info, len(cams))
	for name, camera := range cams {
		infos[name] = Info{
			Name:              name,
			Enabled:           camera.Enabled,
			LastConnection:    time.Unix(camera.LastConnection, 0).UTC().Format(lastConnectionFormat),
			ConnectionPending: camera.ConnectionPending(now),
		}
	}
	return infos, nil
}
