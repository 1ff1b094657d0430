package media

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ScratchDir is a per-request working directory. Every conversion request
// gets its own, so concurrent requests never share a download destination.
// It must be removed on every exit path, success or failure, to bound disk
// usage.
type ScratchDir struct {
	Path string
}

// NewScratchDir creates a unique scratch directory under base.
func NewScratchDir(base string) (*ScratchDir, error) {
	path := filepath.Join(base, "req-"+uuid.New().String())
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory %s: %w", path, err)
	}
	return &ScratchDir{Path: path}, nil
}

// Remove deletes the scratch directory and everything in it. Meant to be
// deferred; removal failure is logged, not returned.
func (s *ScratchDir) Remove() {
	if s == nil || s.Path == "" {
		return
	}
	if err := os.RemoveAll(s.Path); err != nil {
		log.Printf("Failed to remove scratch directory %s: %v", s.Path, err)
	}
}
