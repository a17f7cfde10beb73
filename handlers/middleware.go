package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	"github.com/FelixWohlfrom/berry-cam-server/models"
	"github.com/FelixWohlfrom/berry-cam-server/registry"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// UserContextKey is the key used to store the user object in the request context.
	UserContextKey ContextKey = "user"
)

// APIKeyRequired creates a middleware for device-facing endpoints. The key is
// taken from the api_key form or query parameter and checked against the set
// of keys in the registry. A missing key is a bad request, an unknown key is
// forbidden.
func APIKeyRequired(store *registry.Store, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.FormValue("api_key")
		if apiKey == "" {
			WriteAPIError(w, http.StatusBadRequest, ErrCodeBadRequest, "Missing required argument api_key")
			return
		}

		keys, err := store.APIKeys()
		if err != nil {
			log.Printf("handlers: failed to load api keys: %v", err)
			WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to validate api_key")
			return
		}

		if _, ok := keys[apiKey]; !ok {
			WriteAPIError(w, http.StatusForbidden, ErrCodeForbidden, "Invalid api_key given")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SessionRequired creates a middleware for operator-facing endpoints. It
// verifies the signed session cookie and, if valid, fetches the user and adds
// them to the request context.
func SessionRequired(store *registry.Store, sessionSecret []byte, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			WriteAPIError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Login required")
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return sessionSecret, nil
		})
		if err != nil || !token.Valid {
			WriteAPIError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid session")
			return
		}

		user, err := store.GetUser(claims.Subject)
		if err != nil {
			// user may have been removed from the registry after login
			WriteAPIError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Unknown user")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFromContext retrieves the authenticated user placed by SessionRequired.
func userFromContext(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	return user, ok && user != nil
}
