package handlers

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// AssetServer creates a handler to serve stored artifact files from a single
// directory. The request path after routePrefix is the filename; nested paths
// and traversal attempts are rejected.
// example usage in main.go:
//
//	r.Get("/previews/*", handlers.AssetServer(pictures.PreviewsDir(), "/previews/"))
//	r.Get("/large/*", handlers.AssetServer(pictures.RawDir(), "/large/"))
func AssetServer(assetDir, routePrefix string) http.HandlerFunc {
	cleanAssetDir := filepath.Clean(assetDir)
	log.Printf("Serving assets for '%s*' from directory: %s", routePrefix, cleanAssetDir)

	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, routePrefix)
		if name == "" || strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
			WriteAPIError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid asset path")
			return
		}

		assetPath := filepath.Join(cleanAssetDir, name)
		if !strings.HasPrefix(assetPath, cleanAssetDir) {
			WriteAPIError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid asset path")
			return
		}

		info, err := os.Stat(assetPath)
		if err != nil || info.IsDir() {
			WriteAPIError(w, http.StatusNotFound, ErrCodeNotFound, "Asset not found")
			return
		}

		http.ServeFile(w, r, assetPath)
	}
}
