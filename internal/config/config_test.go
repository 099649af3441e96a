package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load("/non/existent/config.toml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Logging.MaxSizeMB != 5 {
		t.Errorf("Logging.MaxSizeMB = %d, want 5", cfg.Logging.MaxSizeMB)
	}
	if cfg.Search.Limit != 0 {
		t.Errorf("Search.Limit = %d, want 0", cfg.Search.Limit)
	}
}

func TestLoad_ParsesOverrides(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "test-config-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tempDir)

	content := `
[sources]
history_file = "/data/history.jsonl"
store_db = "~/store/__store.db"

[search]
limit = 25
unique = true

[logging]
enabled = true
level = "debug"
`
	path := filepath.Join(tempDir, FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Sources.HistoryFile != "/data/history.jsonl" {
		t.Errorf("Sources.HistoryFile = %q", cfg.Sources.HistoryFile)
	}
	if strings.HasPrefix(cfg.Sources.StoreDB, "~") {
		t.Errorf("Sources.StoreDB = %q, want home expansion", cfg.Sources.StoreDB)
	}
	if !strings.HasSuffix(cfg.Sources.StoreDB, filepath.Join("store", "__store.db")) {
		t.Errorf("Sources.StoreDB = %q, want store/__store.db suffix", cfg.Sources.StoreDB)
	}
	if cfg.Search.Limit != 25 {
		t.Errorf("Search.Limit = %d, want 25", cfg.Search.Limit)
	}
	if !cfg.Search.Unique {
		t.Error("Search.Unique = false, want true")
	}
	if !cfg.Logging.Enabled || cfg.Logging.Level != "debug" {
		t.Errorf("Logging = %+v, want enabled debug", cfg.Logging)
	}

	// Unset sections keep their defaults.
	if cfg.Logging.MaxBackups != 3 {
		t.Errorf("Logging.MaxBackups = %d, want 3", cfg.Logging.MaxBackups)
	}
}

func TestLoad_BrokenFile(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "test-config-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tempDir)

	path := filepath.Join(tempDir, FileName)
	if err := os.WriteFile(path, []byte("[sources\nbroken"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error for broken TOML")
	}
	if cfg == nil {
		t.Fatal("Load() should still return defaults on parse error")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory in test environment")
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "tilde prefix",
			in:   "~/logs/debug.log",
			want: filepath.Join(home, "logs", "debug.log"),
		},
		{
			name: "absolute path untouched",
			in:   "/var/log/debug.log",
			want: "/var/log/debug.log",
		},
		{
			name: "empty path untouched",
			in:   "",
			want: "",
		},
		{
			name: "bare tilde untouched",
			in:   "~",
			want: "~",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandHome(tt.in); got != tt.want {
				t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
