package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Extractor demuxes the audio stream of a local video file into a standalone
// audio file and reports the container's duration.
type Extractor interface {
	ExtractAudio(ctx context.Context, videoPath string) (audioPath string, duration float64, err error)
}

// FFmpegExtractor implements Extractor using ffmpeg and ffprobe.
type FFmpegExtractor struct {
	ffmpegPath string
	bitrate    string // e.g., "192k"
}

// NewFFmpegExtractor creates a new FFmpegExtractor.
func NewFFmpegExtractor(ffmpegPath, bitrate string) *FFmpegExtractor {
	return &FFmpegExtractor{ffmpegPath: ffmpegPath, bitrate: bitrate}
}

// ExtractAudio writes the video's audio stream as an mp3 next to the source
// file and returns its path plus the source-reported duration in seconds.
// A container without an audio stream is an error. The ffmpeg process has
// fully exited when this returns, so the caller may delete the source file
// immediately afterward.
func (p *FFmpegExtractor) ExtractAudio(ctx context.Context, videoPath string) (string, float64, error) {
	// Duration comes from the container header, not from re-measuring the
	// encoded output.
	duration, err := p.probeDuration(ctx, videoPath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to probe duration: %w", err)
	}

	audioPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".mp3"

	args := []string{
		"-y",
		"-i", videoPath,
		"-vn",
		"-acodec", "libmp3lame",
		"-b:a", p.bitrate,
		audioPath,
	}

	cmd := exec.CommandContext(ctx, p.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", 0, fmt.Errorf("ffmpeg execution failed for %s: %w\nFFmpeg Error: %s", videoPath, err, stderr.String())
	}

	return audioPath, duration, nil
}

// ffprobeOutput defines the structure for ffprobe JSON output.
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// probeDuration uses ffprobe to get the container duration in seconds.
func (p *FFmpegExtractor) probeDuration(ctx context.Context, inputFile string) (float64, error) {
	ffprobePath := strings.Replace(p.ffmpegPath, "ffmpeg", "ffprobe", 1)

	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		inputFile,
	}

	cmd := exec.CommandContext(ctx, ffprobePath, args...)
	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe execution failed for %s: %w\nFFprobe Error: %s", inputFile, err, stderr.String())
	}

	var probeData ffprobeOutput
	if err := json.Unmarshal(out.Bytes(), &probeData); err != nil {
		return 0, fmt.Errorf("failed to unmarshal ffprobe output for %s: %w\nFFprobe Output: %s", inputFile, err, out.String())
	}

	if probeData.Format.Duration == "" {
		return 0, fmt.Errorf("duration not found in ffprobe output for %s", inputFile)
	}

	duration, err := strconv.ParseFloat(probeData.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration string %q for %s: %w", probeData.Format.Duration, inputFile, err)
	}

	return duration, nil
}
