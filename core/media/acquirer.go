package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// ErrNoVideoFile is returned when a download finishes without producing a
// recognizable video file in the scratch directory.
var ErrNoVideoFile = errors.New("no video file found after download")

// videoExtensions lists container extensions the acquirer recognizes, in
// preference order.
var videoExtensions = []string{".mp4", ".webm", ".mkv", ".mov", ".avi"}

// Acquirer produces a local video file inside a request's scratch directory,
// either by fetching a remote URL or by persisting uploaded bytes.
type Acquirer interface {
	FetchByURL(ctx context.Context, videoURL, destDir string) (string, error)
	AcceptUpload(file io.Reader, filename, destDir string) (string, error)
}

// YtdlpAcquirer implements Acquirer using yt-dlp for the URL path.
type YtdlpAcquirer struct{}

// NewYtdlpAcquirer creates a new YtdlpAcquirer.
func NewYtdlpAcquirer() *YtdlpAcquirer {
	return &YtdlpAcquirer{}
}

// FetchByURL downloads the video behind videoURL into destDir and returns the
// path of the resulting video file. The output template points yt-dlp at the
// request's own scratch directory, so concurrent downloads cannot collide.
func (a *YtdlpAcquirer) FetchByURL(ctx context.Context, videoURL, destDir string) (string, error) {
	dl := ytdlp.New().
		NoPlaylist().
		FormatSort("res,ext:mp4:m4a").
		Output(filepath.Join(destDir, "%(title)s.%(ext)s"))

	if _, err := dl.Run(ctx, videoURL); err != nil {
		return "", fmt.Errorf("yt-dlp download failed for %s: %w", videoURL, err)
	}

	videoPath, err := findVideoFile(destDir)
	if err != nil {
		return "", err
	}
	return videoPath, nil
}

// AcceptUpload writes the posted bytes to destDir under a sanitized version
// of the client-supplied filename.
func (a *YtdlpAcquirer) AcceptUpload(file io.Reader, filename, destDir string) (string, error) {
	destPath := filepath.Join(destDir, SanitizeFilename(filename))

	destFile, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file %s: %w", destPath, err)
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, file); err != nil {
		return "", fmt.Errorf("failed to copy uploaded file to %s: %w", destPath, err)
	}
	return destPath, nil
}

// findVideoFile locates the downloaded video in dir by extension.
func findVideoFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read scratch directory %s: %w", dir, err)
	}

	for _, ext := range videoExtensions {
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if strings.EqualFold(filepath.Ext(entry.Name()), ext) {
				return filepath.Join(dir, entry.Name()), nil
			}
		}
	}
	return "", ErrNoVideoFile
}

var nonAlphaNumeric = regexp.MustCompile(`[^a-zA-Z0-9_\-\.]`)
var multipleSpaces = regexp.MustCompile(`\s+`)

// SanitizeFilename makes a client-supplied filename safe to write to disk.
// Path separators and shell-hostile characters are stripped; an empty result
// falls back to a fixed name so the pipeline still has a file to work with.
func SanitizeFilename(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	base = multipleSpaces.ReplaceAllString(base, "_")
	base = nonAlphaNumeric.ReplaceAllString(base, "")

	// Cap length to stay under filesystem limits.
	maxLength := 150
	if len(base) > maxLength {
		base = base[:maxLength]
	}
	if base == "" || base == "." || base == ".." {
		base = "upload.mp4"
	}
	return base
}

// TitleFromPath derives a track title from a video file path: the base name
// without its extension.
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
