package sheetsync

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileCheckpoint_MissingFileLoadsZero(t *testing.T) {
	cp := &FileCheckpoint{Path: filepath.Join(t.TempDir(), "checkpoint")}

	got, err := cp.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("expected zero time for a first run, got %v", got)
	}
}

func TestFileCheckpoint_RoundTrip(t *testing.T) {
	cp := &FileCheckpoint{Path: filepath.Join(t.TempDir(), "checkpoint")}

	want := time.Date(2024, 6, 15, 12, 30, 0, 0, time.UTC)
	if err := cp.Save(want); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := cp.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestFileCheckpoint_CorruptFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint")
	if err := os.WriteFile(path, []byte("not a timestamp"), 0644); err != nil {
		t.Fatal(err)
	}

	cp := &FileCheckpoint{Path: path}
	if _, err := cp.Load(); err == nil {
		t.Error("expected an error for a corrupt checkpoint file")
	}
}
