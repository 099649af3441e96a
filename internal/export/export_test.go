package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/junhoyeo/prompthistory/internal/models"
)

func sampleEntries() []models.EnrichedEntry {
	first := models.Entry{
		Display:   "fix the login bug",
		Timestamp: 1700000000000,
		Project:   "/work/app",
		SessionID: "a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d",
		Extra:     map[string]any{"customTag": "keep-me"},
	}
	second := models.Entry{
		Display:   "add tests, please",
		Timestamp: 1700000100000,
		Project:   "/work/app",
	}
	return []models.EnrichedEntry{
		models.Enrich(first, 1),
		models.Enrich(second, 2),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "jsonl", want: FormatJSONL},
		{in: "csv", want: FormatCSV},
		{in: "txt", want: FormatText},
		{in: "xml", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriteJSONL(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSONL, sampleEntries()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 1 is not valid JSON: %v", err)
	}

	if first["display"] != "fix the login bug" {
		t.Errorf("display = %v", first["display"])
	}
	if first["customTag"] != "keep-me" {
		t.Errorf("unknown field not round-tripped: %v", first["customTag"])
	}

	// Derived metadata never leaves the process.
	for _, key := range []string{"_lineNumber", "_truncatedDisplay", "_isSlashCommand", "_isDuplicate"} {
		if _, ok := first[key]; ok {
			t.Errorf("derived field %q leaked into export", key)
		}
	}

	var second map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("line 2 is not valid JSON: %v", err)
	}
	if _, ok := second["sessionId"]; ok {
		t.Error("empty sessionId should be omitted")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatCSV, sampleEntries()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header + 2", len(records))
	}

	wantHeader := []string{"timestamp", "project", "sessionId", "display"}
	for i, col := range wantHeader {
		if records[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], col)
		}
	}
	if records[1][0] != "1700000000000" {
		t.Errorf("timestamp column = %q", records[1][0])
	}
	// The comma in the prompt must survive quoting.
	if records[2][3] != "add tests, please" {
		t.Errorf("display column = %q", records[2][3])
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatText, sampleEntries()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "fix the login bug") {
		t.Errorf("text export missing prompt: %q", out)
	}
	if !strings.Contains(out, "/work/app") {
		t.Errorf("text export missing project: %q", out)
	}
}

func TestWriteEmpty(t *testing.T) {
	for _, format := range []Format{FormatJSONL, FormatCSV, FormatText} {
		var buf bytes.Buffer
		if err := Write(&buf, format, nil); err != nil {
			t.Errorf("Write(%v, empty) error = %v", format, err)
		}
		if format == FormatCSV && !strings.HasPrefix(buf.String(), "timestamp,") {
			t.Errorf("csv export of empty set should still carry a header: %q", buf.String())
		}
	}
}
