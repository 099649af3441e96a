package tui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
)

func TestWatchSource_FileWatchesParentDir(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "test-watch-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tempDir)

	path := filepath.Join(tempDir, "history.jsonl")
	if err := os.WriteFile(path, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := watchSource(w, path); err != nil {
		t.Fatalf("watchSource() error = %v", err)
	}

	watched := w.WatchList()
	if len(watched) != 1 || watched[0] != tempDir {
		t.Errorf("WatchList() = %v, want just %q", watched, tempDir)
	}
}

func TestWatchSource_DirectoryWatchesWholeTree(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "test-watch-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tempDir)

	// Session files live two levels down, like projects/<proj>/x.jsonl.
	nested := filepath.Join(tempDir, "proj-a", "chats")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(nested, "s.jsonl"), []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := watchSource(w, tempDir); err != nil {
		t.Fatalf("watchSource() error = %v", err)
	}

	watched := make(map[string]bool)
	for _, p := range w.WatchList() {
		watched[p] = true
	}
	for _, want := range []string{tempDir, filepath.Join(tempDir, "proj-a"), nested} {
		if !watched[want] {
			t.Errorf("WatchList() missing %q (got %v)", want, w.WatchList())
		}
	}
}
