package server

import (
	"net/http"

	"ClipFM/db"
	"ClipFM/logger"

	"github.com/gorilla/mux"
)

// GetTracksHandler returns the current user's track list, newest last.
// Reads go through the Redis cache; the database is the source of truth.
func (h *APIHandler) GetTracksHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if tracks, ok := db.GetCachedTracks(r.Context(), userID); ok {
		respondJSON(w, http.StatusOK, tracks)
		return
	}

	tracks, err := h.trackRepo.GetAllTracksByUserID(r.Context(), userID)
	if err != nil {
		logger.Error("Failed to retrieve tracks",
			logger.Int64("userId", userID),
			logger.ErrorField(err),
		)
		respondError(w, http.StatusInternalServerError, "Failed to retrieve tracks")
		return
	}

	if err := db.CacheTracks(r.Context(), userID, tracks); err != nil {
		logger.Debug("Track cache write skipped", logger.ErrorField(err))
	}

	respondJSON(w, http.StatusOK, tracks)
}

// GetTrackHandler returns a single track by id. A track that does not exist,
// or that belongs to another user, is a 404 either way.
func (h *APIHandler) GetTrackHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	trackID := mux.Vars(r)["id"]
	track, err := h.trackRepo.GetTrackByID(r.Context(), trackID)
	if err != nil {
		logger.Error("Failed to retrieve track",
			logger.String("trackId", trackID),
			logger.ErrorField(err),
		)
		respondError(w, http.StatusInternalServerError, "Failed to retrieve track")
		return
	}
	if track == nil || track.UserID != userID {
		respondError(w, http.StatusNotFound, "Track not found")
		return
	}

	respondJSON(w, http.StatusOK, track)
}
