package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/junhoyeo/prompthistory/internal/models"
)

// scanner buffer sizes; prompt lines with pasted contents can be large.
const (
	scanInitialBuf = 64 * 1024
	scanMaxBuf     = 10 * 1024 * 1024
)

// HistoryFile reads the legacy line-delimited history log: one canonical
// JSON record per line. Lines that are not valid JSON and records that
// fail schema validation are skipped with a logged reason; neither
// aborts the read.
type HistoryFile struct {
	path string
}

func NewHistoryFile(path string) *HistoryFile {
	if path == "" {
		path = DefaultPaths().HistoryFile
	}
	return &HistoryFile{path: path}
}

func (h *HistoryFile) Name() string    { return "history" }
func (h *HistoryFile) Path() string    { return h.path }
func (h *HistoryFile) Available() bool { return fileExists(h.path) }

func (h *HistoryFile) Entries() ([]models.EnrichedEntry, error) {
	f, err := os.Open(h.path)
	if err != nil {
		return nil, describeOpenError(h.Name(), h.path, err)
	}
	defer f.Close()

	var entries []models.EnrichedEntry
	skipped := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, scanInitialBuf), scanMaxBuf)

	ordinal := 0
	for scanner.Scan() {
		ordinal++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var raw any
		if err := json.Unmarshal(line, &raw); err != nil {
			log.Debug("skipping malformed line",
				slog.String("path", h.path),
				slog.Int("line", ordinal),
				slog.String("error", err.Error()))
			skipped++
			continue
		}

		entry, err := models.ValidateAndEnrich(raw, ordinal)
		if err != nil {
			log.Debug("skipping invalid record",
				slog.String("path", h.path),
				slog.String("reason", err.Error()))
			skipped++
			continue
		}
		entries = append(entries, *entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, describeOpenError(h.Name(), h.path, err)
	}

	if skipped > 0 {
		log.Info("history file read with skips",
			slog.String("path", h.path),
			slog.Int("entries", len(entries)),
			slog.Int("skipped", skipped))
	}
	return entries, nil
}
