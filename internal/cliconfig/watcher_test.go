package cliconfig

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`log_level = "info"`), 0644); err != nil {
		t.Fatal(err)
	}

	levels := make(chan string, 4)
	w := NewWatcher(path, func(fc FileConfig) { levels <- fc.LogLevel }, nil)
	w.delay = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(50 * time.Millisecond)

	// Unrelated files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte(`log_level = "error"`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`log_level = "debug"`), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-levels:
		if got != "debug" {
			t.Errorf("reloaded log level = %q, want debug", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("config change not reported")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() error = %v", err)
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "missing", "config.toml"), func(FileConfig) {}, nil)

	if err := w.Run(context.Background()); err == nil {
		t.Error("Run() expected error for missing directory")
	}
}
