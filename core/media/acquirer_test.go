package media

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAcceptUploadWritesFile(t *testing.T) {
	dir := t.TempDir()
	a := NewYtdlpAcquirer()

	path, err := a.AcceptUpload(strings.NewReader("video bytes"), "my clip.mp4", dir)
	if err != nil {
		t.Fatalf("AcceptUpload failed: %v", err)
	}

	if filepath.Dir(path) != dir {
		t.Errorf("upload written to %s, want inside %s", path, dir)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read uploaded file: %v", err)
	}
	if string(data) != "video bytes" {
		t.Errorf("uploaded content = %q, want %q", data, "video bytes")
	}
}

func TestAcceptUploadStripsPathComponents(t *testing.T) {
	dir := t.TempDir()
	a := NewYtdlpAcquirer()

	path, err := a.AcceptUpload(strings.NewReader("x"), "../../etc/passwd.mp4", dir)
	if err != nil {
		t.Fatalf("AcceptUpload failed: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("upload escaped the destination directory: %s", path)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "clip.mp4", "clip.mp4"},
		{"spaces become underscores", "my cool clip.mp4", "my_cool_clip.mp4"},
		{"hostile characters stripped", "a;rm -rf$(x).mp4", "arm_-rfx.mp4"},
		{"path components stripped", "/tmp/../../x.mp4", "x.mp4"},
		{"empty falls back", "", "upload.mp4"},
		{"dot falls back", ".", "upload.mp4"},
		{"unicode stripped", "видео.mp4", ".mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilenameCapsLength(t *testing.T) {
	long := strings.Repeat("a", 400) + ".mp4"
	got := SanitizeFilename(long)
	if len(got) > 150 {
		t.Errorf("sanitized name is %d chars, want <= 150", len(got))
	}
}

func TestTitleFromPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/scratch/req-1/Never Gonna Give You Up.mp4", "Never Gonna Give You Up"},
		{"clip.webm", "clip"},
		{"/a/b/no_extension", "no_extension"},
		{"dotted.name.mkv", "dotted.name"},
	}

	for _, tt := range tests {
		if got := TitleFromPath(tt.in); got != tt.want {
			t.Errorf("TitleFromPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFindVideoFile(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"notes.txt", "clip.MP4", "audio.mp3"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	path, err := findVideoFile(dir)
	if err != nil {
		t.Fatalf("findVideoFile failed: %v", err)
	}
	if filepath.Base(path) != "clip.MP4" {
		t.Errorf("findVideoFile = %s, want clip.MP4", path)
	}
}

func TestFindVideoFileEmptyDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := findVideoFile(dir)
	if !errors.Is(err, ErrNoVideoFile) {
		t.Errorf("findVideoFile = %v, want ErrNoVideoFile", err)
	}
}
