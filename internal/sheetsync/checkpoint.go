package sheetsync

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// CheckpointStore persists the single timestamp marking the newest sheet row
// already processed.
type CheckpointStore interface {
	Load() (time.Time, error)
	Save(t time.Time) error
}

// FileCheckpoint keeps the checkpoint in a small local file as RFC3339.
// A missing file means "never synced" and loads as the zero time.
type FileCheckpoint struct {
	Path string
}

func (f *FileCheckpoint) Load() (time.Time, error) {
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read checkpoint %s: %w", f.Path, err)
	}
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(string(data)))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid checkpoint in %s: %w", f.Path, err)
	}
	return t, nil
}

func (f *FileCheckpoint) Save(t time.Time) error {
	if err := os.WriteFile(f.Path, []byte(t.UTC().Format(time.RFC3339Nano)), 0644); err != nil {
		return fmt.Errorf("failed to write checkpoint %s: %w", f.Path, err)
	}
	return nil
}
