package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"ClipFM/config"
	"ClipFM/core/audio"
	"ClipFM/core/auth"
	"ClipFM/core/media"
	"ClipFM/repository"
	"ClipFM/storage"
)

// APIHandler handles all API requests.
type APIHandler struct {
	verifier       *auth.Verifier
	userRepo       repository.UserRepository
	trackRepo      repository.TrackRepository
	acquirer       media.Acquirer
	audioExtractor audio.Extractor
	frameExtractor media.FrameExtractor
	uploader       storage.Uploader
	cfg            *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	verifier *auth.Verifier,
	userRepo repository.UserRepository,
	trackRepo repository.TrackRepository,
	acquirer media.Acquirer,
	audioExtractor audio.Extractor,
	frameExtractor media.FrameExtractor,
	uploader storage.Uploader,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		verifier:       verifier,
		userRepo:       userRepo,
		trackRepo:      trackRepo,
		acquirer:       acquirer,
		audioExtractor: audioExtractor,
		frameExtractor: frameExtractor,
		uploader:       uploader,
		cfg:            cfg,
	}
}

// respondJSON writes a JSON payload with the given status code.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// respondError writes the uniform error shape. The message is what the client
// sees; internal detail belongs in the log, not here.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// AuthMiddleware checks the Authorization header and resolves the user.
// A missing header is a malformed request (400); a credential the verifier
// rejects is unauthenticated (401).
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, http.StatusBadRequest, "Authorization token missing")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := h.verifier.ParseToken(parts[1])
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid token or user not found")
			return
		}

		ctx := context.WithValue(r.Context(), "userID", claims.UserID)
		ctx = context.WithValue(ctx, "username", claims.Username)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// GetUserIDFromContext extracts the user ID from the request context.
func GetUserIDFromContext(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value("userID").(int64)
	if !ok {
		return 0, fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// GetUsernameFromContext extracts the username from the request context.
func GetUsernameFromContext(ctx context.Context) (string, error) {
	username, ok := ctx.Value("username").(string)
	if !ok {
		return "", fmt.Errorf("username not found in context")
	}
	return username, nil
}

// corsMiddleware sets permissive CORS headers and answers preflights.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
