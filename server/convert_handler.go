package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ClipFM/core/media"
	"ClipFM/db"
	"ClipFM/logger"
	"ClipFM/model"
	"ClipFM/storage"
)

// maxUploadSize caps the in-memory portion of multipart parsing.
const maxUploadSize = 32 << 20 // 32MB

// ConvertRequest is the body of POST /api/convert.
type ConvertRequest struct {
	URL string `json:"url"`
}

// ConvertResponse is the success payload for both convert endpoints.
type ConvertResponse struct {
	Track  *model.Track   `json:"track"`
	Tracks []*model.Track `json:"tracks"`
}

// ConvertHandler handles POST /api/convert: fetch the video behind a URL,
// extract audio and a thumbnail, upload both, and append a track record.
func (h *APIHandler) ConvertHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		respondError(w, http.StatusBadRequest, "No URL provided")
		return
	}

	// The download and encode steps are the slow part; bound them so one
	// stuck request cannot hold a worker forever.
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.ConvertTimeout)
	defer cancel()

	scratch, err := media.NewScratchDir(h.cfg.ScratchDir)
	if err != nil {
		logger.Error("Failed to create scratch directory", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to prepare working directory")
		return
	}
	defer scratch.Remove()

	logger.Info("Starting remote conversion",
		logger.Int64("userId", userID),
		logger.String("url", req.URL),
	)

	videoPath, err := h.acquirer.FetchByURL(ctx, req.URL, scratch.Path)
	if err != nil {
		logger.Error("Video download failed",
			logger.String("url", req.URL),
			logger.ErrorField(err),
		)
		respondError(w, http.StatusInternalServerError, "Failed to download video")
		return
	}

	h.finishConversion(ctx, w, userID, videoPath, scratch, req.URL, model.SourceRemote)
}

// ConvertManualHandler handles POST /api/convert/manual: same pipeline, but
// the video arrives as a multipart upload instead of a URL.
func (h *APIHandler) ConvertManualHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}

	// Reject before creating the scratch directory: a request with nothing
	// to convert must leave no trace on disk.
	file, header, err := r.FormFile("video")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No video file provided")
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.ConvertTimeout)
	defer cancel()

	scratch, err := media.NewScratchDir(h.cfg.ScratchDir)
	if err != nil {
		logger.Error("Failed to create scratch directory", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to prepare working directory")
		return
	}
	defer scratch.Remove()

	logger.Info("Starting upload conversion",
		logger.Int64("userId", userID),
		logger.String("filename", header.Filename),
	)

	videoPath, err := h.acquirer.AcceptUpload(file, header.Filename, scratch.Path)
	if err != nil {
		logger.Error("Failed to persist uploaded video",
			logger.String("filename", header.Filename),
			logger.ErrorField(err),
		)
		respondError(w, http.StatusInternalServerError, "Failed to save uploaded video")
		return
	}

	h.finishConversion(ctx, w, userID, videoPath, scratch, header.Filename, model.SourceUpload)
}

// finishConversion runs the shared tail of the pipeline: extract audio,
// upload it (fatal on failure), extract and upload a frame (best effort),
// append the track record, and respond with the new track plus the user's
// full list. The scratch directory is the caller's to remove.
func (h *APIHandler) finishConversion(
	ctx context.Context,
	w http.ResponseWriter,
	userID int64,
	videoPath string,
	scratch *media.ScratchDir,
	sourceURL string,
	source string,
) {
	audioPath, duration, err := h.audioExtractor.ExtractAudio(ctx, videoPath)
	if err != nil {
		logger.Error("Audio extraction failed",
			logger.String("video", videoPath),
			logger.ErrorField(err),
		)
		respondError(w, http.StatusInternalServerError, "Audio extraction failed")
		return
	}

	audioURL, err := h.uploader.UploadFile(ctx, audioPath, storage.KindAudio)
	if err != nil {
		logger.Error("Audio upload failed",
			logger.String("audio", audioPath),
			logger.ErrorField(err),
		)
		respondError(w, http.StatusInternalServerError, "Audio upload failed")
		return
	}

	// Thumbnail is best effort end to end: no frame, or a failed frame
	// upload, still produces a track — with a null frame URL.
	var frameURL *string
	framePath, err := h.frameExtractor.ExtractFirstFrame(ctx, videoPath, scratch.Path)
	if err != nil {
		logger.Warn("Frame extraction failed",
			logger.String("video", videoPath),
			logger.ErrorField(err),
		)
	} else if framePath != "" {
		if u, err := h.uploader.UploadFile(ctx, framePath, storage.KindImage); err != nil {
			logger.Warn("Frame upload failed",
				logger.String("frame", framePath),
				logger.ErrorField(err),
			)
		} else {
			frameURL = &u
		}
	}

	now := time.Now()
	track := &model.Track{
		ID:            fmt.Sprintf("trk_%d", now.UnixNano()),
		UserID:        userID,
		AudioURL:      audioURL,
		AudioTitle:    media.TitleFromPath(videoPath),
		AudioDuration: duration,
		FrameURL:      frameURL,
		SourceURL:     sourceURL,
		Source:        source,
		CreatedAt:     now.UnixMilli(),
	}

	if err := h.trackRepo.AppendTrack(ctx, track); err != nil {
		logger.Error("Failed to append track record",
			logger.Int64("userId", userID),
			logger.String("trackId", track.ID),
			logger.ErrorField(err),
		)
		respondError(w, http.StatusInternalServerError, "Failed to save track")
		return
	}

	if err := db.InvalidateTracks(ctx, userID); err != nil {
		logger.Debug("Track cache invalidation skipped", logger.ErrorField(err))
	}

	tracks, err := h.trackRepo.GetAllTracksByUserID(ctx, userID)
	if err != nil {
		// The record is already written; degrade the list rather than
		// failing the whole conversion.
		logger.Warn("Failed to load track list after append",
			logger.Int64("userId", userID),
			logger.ErrorField(err),
		)
		tracks = []*model.Track{track}
	}

	logger.Info("Conversion completed",
		logger.Int64("userId", userID),
		logger.String("trackId", track.ID),
		logger.String("title", track.AudioTitle),
		logger.Float64("duration", duration),
		logger.Bool("hasFrame", frameURL != nil),
	)

	respondJSON(w, http.StatusOK, ConvertResponse{Track: track, Tracks: tracks})
}
