// Package config loads the user configuration from a TOML file. Missing
// file means defaults; a broken file is an error the CLI surfaces.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the TOML config file under the config directory.
const FileName = "config.toml"

// Config is the user-facing configuration.
type Config struct {
	// Sources overrides the on-disk location of each history source.
	// Paths may start with "~/".
	Sources SourcesConfig `toml:"sources"`

	// Search sets defaults for the search pipeline.
	Search SearchConfig `toml:"search"`

	// Logging controls the rotated debug log.
	Logging LoggingConfig `toml:"logging"`
}

// SourcesConfig overrides source paths. Empty fields keep each client's
// conventional location.
type SourcesConfig struct {
	// HistoryFile is the legacy line-delimited history log.
	HistoryFile string `toml:"history_file"`

	// StoreDB is the structured session store.
	StoreDB string `toml:"store_db"`

	// ClaudeDir is the per-session transcripts directory.
	ClaudeDir string `toml:"claude_dir"`

	// GeminiDir is the saved-chats tmp directory.
	GeminiDir string `toml:"gemini_dir"`

	// AiderHistory is the flat prompt history file.
	AiderHistory string `toml:"aider_history"`
}

// SearchConfig sets search defaults, overridable per invocation by
// flags.
type SearchConfig struct {
	// Limit caps the result count. 0 means no cap.
	Limit int `toml:"limit"`

	// IncludeSlashCommands keeps slash-command entries in results.
	IncludeSlashCommands bool `toml:"include_slash_commands"`

	// Unique drops repeated prompts, keeping the first occurrence.
	Unique bool `toml:"unique"`
}

// LoggingConfig controls the debug log file.
type LoggingConfig struct {
	// Enabled turns file logging on. Off by default.
	Enabled bool `toml:"enabled"`

	// Level is the minimum level: "debug", "info", "warn", "error".
	Level string `toml:"level"`

	// MaxSizeMB is the rotation threshold.
	MaxSizeMB int `toml:"max_size_mb"`

	// MaxBackups is the number of rotated files to keep.
	MaxBackups int `toml:"max_backups"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Search: SearchConfig{Limit: 0},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
	}
}

// Dir returns the configuration directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".prompthistory"), nil
}

// Path returns the config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads the config file at path, or the default location when path
// is empty. A missing file yields defaults, not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return Default(), nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return Default(), fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.Sources.HistoryFile = ExpandHome(cfg.Sources.HistoryFile)
	cfg.Sources.StoreDB = ExpandHome(cfg.Sources.StoreDB)
	cfg.Sources.ClaudeDir = ExpandHome(cfg.Sources.ClaudeDir)
	cfg.Sources.GeminiDir = ExpandHome(cfg.Sources.GeminiDir)
	cfg.Sources.AiderHistory = ExpandHome(cfg.Sources.AiderHistory)
	return cfg, nil
}

// ExpandHome resolves a leading "~/" against the home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
