package handlers

import (
	"log"
	"net/http"

	"github.com/FelixWohlfrom/berry-cam-server/media"
)

const mostRecentCount = 5

type ViewerHandler struct {
	Pictures *media.Store
}

func NewViewerHandler(pictures *media.Store) *ViewerHandler {
	return &ViewerHandler{Pictures: pictures}
}

type pictureInfo struct {
	Identifier int64  `json:"identifier"`
	RawFile    string `json:"raw_file"`
	Preview    string `json:"preview"`
	Timestamp  string `json:"timestamp"`
}

type viewerListing struct {
	MostRecent []pictureInfo `json:"most_recent_pictures"`
	Older      []pictureInfo `json:"older_pictures"`
}

// List returns all uploaded pictures, newest first, split into the handful of
// most recent ones and the rest.
func (h *ViewerHandler) List(w http.ResponseWriter, r *http.Request) {
	artifacts, err := h.Pictures.List()
	if err != nil {
		log.Printf("handlers: artifact listing failed: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to list pictures")
		return
	}

	listing := viewerListing{
		MostRecent: make([]pictureInfo, 0, mostRecentCount),
		Older:      make([]pictureInfo, 0),
	}
	for _, artifact := range artifacts {
		info := pictureInfo{
			Identifier: artifact.Identifier,
			RawFile:    artifact.RawFile,
			Preview:    artifact.Preview,
			Timestamp:  artifact.Timestamp().Format("2006-01-02 15:04:05"),
		}
		if len(listing.MostRecent) < mostRecentCount {
			listing.MostRecent = append(listing.MostRecent, info)
		} else {
			listing.Older = append(listing.Older, info)
		}
	}

	writeJSON(w, http.StatusOK, listing)
}

// Cleanup deletes all stored pictures and recreates the artifact directories.
func (h *ViewerHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	if err := h.Pictures.Purge(); err != nil {
		log.Printf("handlers: artifact cleanup failed: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to clean up pictures")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Success"})
}
