package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/junhoyeo/prompthistory/internal/models"
)

// aiderRecord is the structured line format; older installs write the
// prompt as plain text instead.
type aiderRecord struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Aider reads the flat prompt history file. The format records no
// per-line timestamps or workspace, so every entry carries the file's
// modification time and the project "unknown".
type Aider struct {
	path string
}

func NewAider(path string) *Aider {
	if path == "" {
		path = DefaultPaths().AiderHistory
		// Older installs write a flat file directly in the home
		// directory instead.
		if !fileExists(path) {
			if legacy := legacyAiderHistory(); legacy != "" && fileExists(legacy) {
				path = legacy
			}
		}
	}
	return &Aider{path: path}
}

func legacyAiderHistory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".aider.chat.history")
}

func (a *Aider) Name() string    { return "aider" }
func (a *Aider) Path() string    { return a.path }
func (a *Aider) Available() bool { return fileExists(a.path) }

func (a *Aider) Entries() ([]models.EnrichedEntry, error) {
	info, err := os.Stat(a.path)
	if err != nil {
		return nil, describeOpenError(a.Name(), a.path, err)
	}
	f, err := os.Open(a.path)
	if err != nil {
		return nil, describeOpenError(a.Name(), a.path, err)
	}
	defer f.Close()

	ts := info.ModTime().UnixMilli()
	if ts < models.MinTimestamp {
		ts = models.MinTimestamp
	}

	var entries []models.EnrichedEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, scanInitialBuf), scanMaxBuf)

	ordinal := 0
	for scanner.Scan() {
		ordinal++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		display := string(line)
		if line[0] == '{' {
			var record aiderRecord
			if err := json.Unmarshal(line, &record); err == nil {
				if record.Role != "user" || record.Content == "" {
					continue
				}
				display = record.Content
			}
		}

		entries = append(entries, models.Enrich(models.Entry{
			Display:   display,
			Timestamp: ts,
			Project:   "unknown",
		}, ordinal))
	}
	if err := scanner.Err(); err != nil {
		return nil, describeOpenError(a.Name(), a.path, err)
	}
	return entries, nil
}
