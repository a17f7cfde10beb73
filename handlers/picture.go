package handlers

import (
	"errors"
	"io"
	"log"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/FelixWohlfrom/berry-cam-server/media"
)

// maxUploadBytes bounds how much of an upload is read into memory.
const maxUploadBytes = 32 << 20

type PictureHandler struct {
	Pictures *media.Store
}

func NewPictureHandler(pictures *media.Store) *PictureHandler {
	return &PictureHandler{Pictures: pictures}
}

// Upload stores a device picture. The identifier is derived from the arrival
// time, which caps accepted uploads at one per tick; callers hitting the
// limit should back off and retry.
func (h *PictureHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeBadRequest, "Missing required argument file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mime.TypeByExtension(filepath.Ext(header.Filename))
	}

	data, err := io.ReadAll(file)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to read uploaded file")
		return
	}

	id, err := h.Pictures.Ingest(contentType, data)
	switch {
	case errors.Is(err, media.ErrInvalidFileType):
		WriteAPIError(w, http.StatusBadRequest, ErrCodeBadRequest,
			"Invalid file type given. Only images allowed. Given file type: "+contentType)
		return
	case errors.Is(err, media.ErrRateLimited):
		WriteAPIError(w, http.StatusTooManyRequests, ErrCodeTooManyRequests,
			"Please don't spam the server and reduce image upload frequency.")
		return
	case errors.Is(err, media.ErrThumbnail):
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Could not create thumbnail")
		return
	case err != nil:
		log.Printf("handlers: picture upload failed: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to store picture")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "Success", "identifier": id})
}
