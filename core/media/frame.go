package media

import (
	"bytes"
	"context"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// FrameExtractor decodes a representative still frame from a video file.
type FrameExtractor interface {
	// ExtractFirstFrame writes the first decodable frame of the video as a
	// JPEG in outDir and returns its path. A video that yields no frame is
	// not an error: the result is just empty. A missing thumbnail never
	// fails a conversion.
	ExtractFirstFrame(ctx context.Context, videoPath, outDir string) (string, error)
}

// FFmpegFrameExtractor implements FrameExtractor with ffmpeg.
type FFmpegFrameExtractor struct {
	ffmpegPath string
}

// NewFFmpegFrameExtractor creates a new FFmpegFrameExtractor.
func NewFFmpegFrameExtractor(ffmpegPath string) *FFmpegFrameExtractor {
	return &FFmpegFrameExtractor{ffmpegPath: ffmpegPath}
}

// ExtractFirstFrame grabs whatever frame decodes first. No seeking: across
// containers this is a best-effort thumbnail, not a deterministic one.
func (p *FFmpegFrameExtractor) ExtractFirstFrame(ctx context.Context, videoPath, outDir string) (string, error) {
	base := filepath.Base(videoPath)
	framePath := filepath.Join(outDir, "frame_"+strings.TrimSuffix(base, filepath.Ext(base))+".jpg")

	args := []string{
		"-y",
		"-i", videoPath,
		"-frames:v", "1",
		"-q:v", "2",
		framePath,
	}

	cmd := exec.CommandContext(ctx, p.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		log.Printf("Could not extract frame from %s: %v\nFFmpeg Error: %s", videoPath, err, stderr.String())
		return "", nil
	}

	// ffmpeg can exit zero without writing anything for streams it cannot
	// decode; treat a missing or empty file as no frame.
	info, err := os.Stat(framePath)
	if err != nil || info.Size() == 0 {
		log.Printf("No frame produced for %s", videoPath)
		return "", nil
	}

	return framePath, nil
}
