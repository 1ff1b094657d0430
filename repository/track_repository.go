package repository

import (
	"context"
	"database/sql"
	"fmt"

	"ClipFM/model"
)

// TrackRepository defines the interface for track record operations. Records
// are append-only: a track is written once, after its assets are uploaded,
// and never updated.
type TrackRepository interface {
	AppendTrack(ctx context.Context, track *model.Track) error
	GetAllTracksByUserID(ctx context.Context, userID int64) ([]*model.Track, error)
	GetTrackByID(ctx context.Context, id string) (*model.Track, error)
}

// mysqlTrackRepository implements TrackRepository for MySQL.
type mysqlTrackRepository struct {
	db *sql.DB
}

// NewMySQLTrackRepository creates a new mysqlTrackRepository.
func NewMySQLTrackRepository(db *sql.DB) TrackRepository {
	return &mysqlTrackRepository{db: db}
}

// AppendTrack inserts a new track record. Each record is its own row keyed by
// the track id, so appends from concurrent requests cannot overwrite each
// other.
func (r *mysqlTrackRepository) AppendTrack(ctx context.Context, track *model.Track) error {
	query := `INSERT INTO tracks (id, user_id, audio_url, audio_title, audio_duration, frame_url, source_url, source, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for AppendTrack: %w", err)
	}
	defer stmt.Close()

	var frameURL sql.NullString
	if track.FrameURL != nil {
		frameURL = sql.NullString{String: *track.FrameURL, Valid: true}
	}

	_, err = stmt.ExecContext(ctx, track.ID, track.UserID, track.AudioURL, track.AudioTitle,
		track.AudioDuration, frameURL, track.SourceURL, track.Source, track.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to execute AppendTrack: %w", err)
	}
	return nil
}

// GetAllTracksByUserID retrieves a user's tracks in insertion order.
func (r *mysqlTrackRepository) GetAllTracksByUserID(ctx context.Context, userID int64) ([]*model.Track, error) {
	query := `SELECT id, user_id, audio_url, audio_title, audio_duration, frame_url, source_url, source, created_at
	           FROM tracks WHERE user_id = ? ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks for user ID %d: %w", userID, err)
	}
	defer rows.Close()

	tracks := make([]*model.Track, 0)
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track in GetAllTracksByUserID: %w", err)
		}
		tracks = append(tracks, track)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in GetAllTracksByUserID: %w", err)
	}

	return tracks, nil
}

// GetTrackByID retrieves a track by its ID. Returns (nil, nil) when absent.
func (r *mysqlTrackRepository) GetTrackByID(ctx context.Context, id string) (*model.Track, error) {
	query := `SELECT id, user_id, audio_url, audio_title, audio_duration, frame_url, source_url, source, created_at
	           FROM tracks WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	track, err := scanTrack(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Track not found
		}
		return nil, fmt.Errorf("failed to scan track by ID %s: %w", id, err)
	}
	return track, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrack(row rowScanner) (*model.Track, error) {
	track := &model.Track{}
	var frameURL sql.NullString
	err := row.Scan(&track.ID, &track.UserID, &track.AudioURL, &track.AudioTitle,
		&track.AudioDuration, &frameURL, &track.SourceURL, &track.Source, &track.CreatedAt)
	if err != nil {
		return nil, err
	}
	if frameURL.Valid {
		track.FrameURL = &frameURL.String
	}
	return track, nil
}
