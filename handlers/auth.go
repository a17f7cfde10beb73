package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/FelixWohlfrom/berry-cam-server/models"
	"github.com/FelixWohlfrom/berry-cam-server/registry"
)

const sessionCookieName = "berrycam_session"

type AuthHandler struct {
	Store         *registry.Store
	SessionSecret []byte
	SessionTTL    time.Duration
}

func NewAuthHandler(store *registry.Store, sessionSecret []byte, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{Store: store, SessionSecret: sessionSecret, SessionTTL: sessionTTL}
}

type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request payload")
		return
	}

	user, err := h.Store.GetUser(payload.Username)
	if err != nil || !user.CheckPassword(payload.Password) {
		WriteAPIError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid credentials")
		return
	}

	expirationTime := time.Now().Add(h.SessionTTL)
	claims := &jwt.RegisteredClaims{
		Subject:   user.Username,
		ID:        uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(expirationTime),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		Issuer:    "berry-cam-server",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(h.SessionSecret)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to create session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    tokenString,
		Path:     "/",
		Expires:  expirationTime,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, LoginResponse{User: *user, ExpiresAt: expirationTime})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// CurrentUser returns the authenticated user from the request context.
// Must be protected by SessionRequired.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Could not retrieve user from context")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// RegenerateAPIKey replaces the logged-in user's API key with a fresh one and
// returns it. The previous key stops validating immediately.
func (h *AuthHandler) RegenerateAPIKey(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Could not retrieve user from context")
		return
	}

	newKey, err := h.Store.RegenerateAPIKey(user.Username)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to regenerate api key")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"api_key": newKey})
}
