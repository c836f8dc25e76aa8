package player

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func tempVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "episode.mkv")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPlay_MissingFile(t *testing.T) {
	l := New("true", nil, nil)
	if err := l.Play(filepath.Join(t.TempDir(), "nope.mkv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPlay(t *testing.T) {
	l := New("true", nil, nil)
	if err := l.Play(tempVideo(t)); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
}

func TestPlayAndWait(t *testing.T) {
	l := New("true", nil, nil)
	if err := l.PlayAndWait(context.Background(), tempVideo(t)); err != nil {
		t.Fatalf("PlayAndWait failed: %v", err)
	}
}

func TestPlayAndWait_BadCommand(t *testing.T) {
	l := New("definitely-not-a-player-binary", nil, nil)
	if err := l.PlayAndWait(context.Background(), tempVideo(t)); err == nil {
		t.Error("expected error for unknown player command")
	}
}
