package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/FelixWohlfrom/berry-cam-server/cameras"
	"github.com/FelixWohlfrom/berry-cam-server/config"
	"github.com/FelixWohlfrom/berry-cam-server/handlers"
	"github.com/FelixWohlfrom/berry-cam-server/media"
	"github.com/FelixWohlfrom/berry-cam-server/registry"
)

// checkWritable verifies the process can create files in dir by writing and
// removing a probe file. The server must not come up with read-only artifact
// directories.
func checkWritable(dir string) error {
	probe := filepath.Join(dir, ".write-check")
	f, err := os.Create(probe)
	if err != nil {
		return err
	}
	f.Close()
	return os.Remove(probe)
}

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	store, err := registry.Open(cfg.RegistryPath)
	if err != nil {
		log.Fatalf("FATAL: Failed to open registry: %v", err)
	}
	log.Printf("Using registry: %s", cfg.RegistryPath)

	pictures, err := media.NewStore(cfg.RawPath, cfg.PreviewsPath, cfg.ThumbnailMaxSize)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize picture store: %v", err)
	}
	for _, dir := range []string{cfg.RawPath, cfg.PreviewsPath} {
		if err := checkWritable(dir); err != nil {
			log.Fatalf("FATAL: Artifact directory %s is not writable: %v", dir, err)
		}
	}
	log.Printf("Using image upload dir: %s", cfg.UploadDir)
	log.Printf("Thumbnail max size (longest side): %dpx", cfg.ThumbnailMaxSize)

	cameraRegistry := cameras.NewRegistry(store)

	sessionSecret := []byte(cfg.SessionSecret)
	sessionTTL := time.Duration(cfg.SessionHours) * time.Hour

	authHandler := handlers.NewAuthHandler(store, sessionSecret, sessionTTL)
	pictureHandler := handlers.NewPictureHandler(pictures)
	cameraHandler := handlers.NewCameraHandler(cameraRegistry)
	viewerHandler := handlers.NewViewerHandler(pictures)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, //TODO: configurable
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	apiKeyRequired := func(next http.Handler) http.Handler {
		return handlers.APIKeyRequired(store, next)
	}
	sessionRequired := func(next http.Handler) http.Handler {
		return handlers.SessionRequired(store, sessionSecret, next)
	}

	// device-facing REST api, shared-secret api key auth
	r.Route("/api", func(r chi.Router) {
		r.Use(apiKeyRequired)
		r.Post("/picture/", pictureHandler.Upload)
		r.Route("/camera", func(r chi.Router) {
			r.Get("/", cameraHandler.Status)
			r.Post("/", cameraHandler.Report)
		})
	})

	r.Post("/auth/login", authHandler.Login)
	r.Post("/auth/logout", authHandler.Logout)

	// operator UI endpoints, session cookie auth
	r.Group(func(r chi.Router) {
		r.Use(sessionRequired)

		r.Get("/auth/me", authHandler.CurrentUser)
		r.Post("/api_key/regenerate", authHandler.RegenerateAPIKey)

		r.Route("/viewer", func(r chi.Router) {
			r.Get("/", viewerHandler.List)
			r.Post("/cleanup", viewerHandler.Cleanup)
		})

		r.Route("/cameras", func(r chi.Router) {
			r.Get("/", cameraHandler.List)
			r.Put("/{name}", cameraHandler.SetEnabled)
			r.Delete("/{name}", cameraHandler.Delete)
		})

		r.Get("/previews/*", handlers.AssetServer(pictures.PreviewsDir(), "/previews/"))
		r.Get("/large/*", handlers.AssetServer(pictures.RawDir(), "/large/"))
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	fmt.Printf("Server starting on http://localhost:%s\n", port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
