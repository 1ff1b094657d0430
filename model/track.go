package model

// TrackSource says where the source video came from.
const (
	SourceRemote = "remote"
	SourceUpload = "upload"
)

// Track represents one converted audio clip plus its optional thumbnail.
// Records are immutable once written; the ID is derived from creation time,
// so two identical conversions produce two distinct tracks.
type Track struct {
	ID            string  `json:"id"`
	UserID        int64   `json:"userId"`
	AudioURL      string  `json:"audio_url"`
	AudioTitle    string  `json:"audio_title"`
	AudioDuration float64 `json:"audio_duration"` // seconds, as reported by the source container
	FrameURL      *string `json:"frame_url"`      // nil when no frame could be decoded or uploaded
	SourceURL     string  `json:"video_url"`      // original video URL, or the uploaded filename
	Source        string  `json:"source"`         // "remote" | "upload"
	CreatedAt     int64   `json:"created_at"`     // epoch milliseconds
}
