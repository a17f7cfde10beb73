package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FelixWohlfrom/berry-cam-server/cameras"
)

type CameraHandler struct {
	Registry *cameras.Registry
}

func NewCameraHandler(registry *cameras.Registry) *CameraHandler {
	return &CameraHandler{Registry: registry}
}

// Status answers a device polling its configuration. Unknown names get a
// default disabled record so devices can poll before their first report.
func (h *CameraHandler) Status(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	if name == "" {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeBadRequest, "Missing required argument name")
		return
	}

	camera, err := h.Registry.Status(name)
	if err != nil {
		log.Printf("handlers: camera status lookup failed: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load camera status")
		return
	}

	writeJSON(w, http.StatusOK, camera)
}

// Report records a device heartbeat, creating the camera record on first
// contact and refreshing its last connection time.
func (h *CameraHandler) Report(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	if name == "" {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeBadRequest, "Missing required argument name")
		return
	}

	enabled := r.FormValue("enabled") == "true" || r.FormValue("enabled") == "True"

	if _, err := h.Registry.Report(name, enabled); err != nil {
		log.Printf("handlers: camera report failed: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to store camera report")
		return
	}

	writeJSON(w, http.StatusOK, "Success")
}

// List returns the operator view of all known cameras.
func (h *CameraHandler) List(w http.ResponseWriter, r *http.Request) {
	infos, err := h.Registry.List()
	if err != nil {
		log.Printf("handlers: camera listing failed: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to list cameras")
		return
	}

	writeJSON(w, http.StatusOK, infos)
}

type cameraEnablePayload struct {
	Enabled bool `json:"enabled"`
}

// SetEnabled toggles operator intent for a camera without touching its last
// connection time.
func (h *CameraHandler) SetEnabled(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var payload cameraEnablePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request payload")
		return
	}

	camera, err := h.Registry.SetEnabled(name, payload.Enabled)
	if err != nil {
		log.Printf("handlers: camera enable toggle failed: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to update camera")
		return
	}

	writeJSON(w, http.StatusOK, camera)
}

// Delete removes a camera record. Deleting an unknown name succeeds.
func (h *CameraHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.Registry.Delete(name); err != nil {
		log.Printf("handlers: camera delete failed: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to delete camera")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
