// Package source reads prompt history out of the various client log
// formats and maps each of them onto the canonical entry schema. Every
// adapter is best-effort at the record level: a bad record is skipped
// and logged, never fatal. File-system failures surface as errors so the
// aggregator can decide whether the source was primary (propagate) or
// optional (contribute nothing).
package source

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/junhoyeo/prompthistory/internal/logging"
	"github.com/junhoyeo/prompthistory/internal/models"
)

var log = logging.ForComponent(logging.CompSource)

// Source is one history log format. Adding a client means adding a
// variant, not touching the engine.
type Source interface {
	// Name is the stable identifier used by --source and the sources
	// command.
	Name() string

	// Path is the resolved on-disk location this adapter reads.
	Path() string

	// Available reports whether the backing path currently exists.
	Available() bool

	// Entries reads and normalizes every record. Per-record failures are
	// skipped; only file-system level failures return an error. Sources
	// are never written to.
	Entries() ([]models.EnrichedEntry, error)
}

// Paths holds the resolved source locations. Zero values fall back to
// each client's conventional path under the home directory.
type Paths struct {
	HistoryFile  string
	StoreDB      string
	ClaudeDir    string
	GeminiDir    string
	AiderHistory string
}

// DefaultPaths resolves the conventional location for every source.
func DefaultPaths() Paths {
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}
	}
	return Paths{
		HistoryFile:  filepath.Join(home, ".claude", "history.jsonl"),
		StoreDB:      filepath.Join(home, ".claude", "__store.db"),
		ClaudeDir:    filepath.Join(home, ".claude", "projects"),
		GeminiDir:    filepath.Join(home, ".gemini", "tmp"),
		AiderHistory: filepath.Join(home, ".aider", "history.jsonl"),
	}
}

func (p Paths) withDefaults() Paths {
	def := DefaultPaths()
	if p.HistoryFile == "" {
		p.HistoryFile = def.HistoryFile
	}
	if p.StoreDB == "" {
		p.StoreDB = def.StoreDB
	}
	if p.ClaudeDir == "" {
		p.ClaudeDir = def.ClaudeDir
	}
	if p.GeminiDir == "" {
		p.GeminiDir = def.GeminiDir
	}
	if p.AiderHistory == "" {
		p.AiderHistory = def.AiderHistory
	}
	return p
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// describeOpenError turns a file-system error into the user-facing
// message for a failed primary source. "never used this tool" and "no
// access" are different situations and must read differently.
func describeOpenError(name, path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%s source not found at %s (has this client written any history yet? override the path in config.toml): %w", name, path, err)
	case os.IsPermission(err):
		return fmt.Errorf("permission denied reading %s source at %s (check the file's ownership and mode): %w", name, path, err)
	default:
		return fmt.Errorf("reading %s source at %s: %w", name, path, err)
	}
}
