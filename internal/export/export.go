// Package export writes entries back out in portable formats. Exports
// carry the canonical record only: derived metadata stays internal,
// unknown source fields round-trip verbatim.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/junhoyeo/prompthistory/internal/models"
)

// Format is a supported export encoding.
type Format string

const (
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
	FormatText  Format = "txt"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSONL, FormatCSV, FormatText:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown export format %q (supported: jsonl, csv, txt)", s)
	}
}

// Write encodes entries to w in the given format.
func Write(w io.Writer, format Format, entries []models.EnrichedEntry) error {
	switch format {
	case FormatJSONL:
		return writeJSONL(w, entries)
	case FormatCSV:
		return writeCSV(w, entries)
	case FormatText:
		return writeText(w, entries)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// writeJSONL emits one canonical JSON object per line, the same shape
// the history file stores.
func writeJSONL(w io.Writer, entries []models.EnrichedEntry) error {
	enc := json.NewEncoder(w)
	for _, e := range entries {
		if err := enc.Encode(e.Canonical()); err != nil {
			return fmt.Errorf("encoding entry: %w", err)
		}
	}
	return nil
}

func writeCSV(w io.Writer, entries []models.EnrichedEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"timestamp", "project", "sessionId", "display"}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, e := range entries {
		record := []string{
			strconv.FormatInt(e.Timestamp, 10),
			e.Project,
			e.SessionID,
			e.Display,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeText emits a human-readable listing, one block per entry.
func writeText(w io.Writer, entries []models.EnrichedEntry) error {
	for i, e := range entries {
		ts := e.Time().Format(time.RFC3339)
		if _, err := fmt.Fprintf(w, "[%s] %s\n%s\n", ts, e.Project, e.Display); err != nil {
			return err
		}
		if i < len(entries)-1 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}
	return nil
}
