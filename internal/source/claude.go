package source

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/junhoyeo/prompthistory/internal/models"
)

// claudeSessionRecord is one line of a per-session JSONL transcript.
type claudeSessionRecord struct {
	Type      string          `json:"type"`
	Message   json.RawMessage `json:"message"`
	CWD       string          `json:"cwd"`
	SessionID string          `json:"sessionId"`
	Timestamp string          `json:"timestamp"`
}

type claudeMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// ClaudeProjects reads per-session transcript files under the projects
// directory (one subdirectory per workspace, one JSONL file per
// session). Only user-typed prompts are extracted: records whose message
// content is a plain string, not tool results.
type ClaudeProjects struct {
	dir string
}

func NewClaudeProjects(dir string) *ClaudeProjects {
	if dir == "" {
		dir = DefaultPaths().ClaudeDir
	}
	return &ClaudeProjects{dir: dir}
}

func (c *ClaudeProjects) Name() string    { return "claude-projects" }
func (c *ClaudeProjects) Path() string    { return c.dir }
func (c *ClaudeProjects) Available() bool { return fileExists(c.dir) }

func (c *ClaudeProjects) Entries() ([]models.EnrichedEntry, error) {
	projects, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, describeOpenError(c.Name(), c.dir, err)
	}

	var entries []models.EnrichedEntry
	for _, project := range projects {
		if !project.IsDir() {
			continue
		}
		projectDir := filepath.Join(c.dir, project.Name())
		files, err := os.ReadDir(projectDir)
		if err != nil {
			log.Warn("skipping unreadable project directory",
				slog.String("path", projectDir),
				slog.String("error", err.Error()))
			continue
		}
		for _, file := range files {
			if !strings.HasSuffix(file.Name(), ".jsonl") {
				continue
			}
			sessionPath := filepath.Join(projectDir, file.Name())
			entries = append(entries, c.readSession(sessionPath, project.Name())...)
		}
	}
	return entries, nil
}

// readSession extracts user prompts from one transcript. Line numbers
// are scoped to the file. A session file that cannot be opened
// contributes nothing; it is one of many.
func (c *ClaudeProjects) readSession(path, dirName string) []models.EnrichedEntry {
	f, err := os.Open(path)
	if err != nil {
		log.Warn("skipping unreadable session file",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil
	}
	defer f.Close()

	var entries []models.EnrichedEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, scanInitialBuf), scanMaxBuf)

	ordinal := 0
	for scanner.Scan() {
		ordinal++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var record claudeSessionRecord
		if err := json.Unmarshal(line, &record); err != nil {
			log.Debug("skipping malformed session line",
				slog.String("path", path),
				slog.Int("line", ordinal))
			continue
		}
		if record.Type != "user" {
			continue
		}

		var msg claudeMessage
		if err := json.Unmarshal(record.Message, &msg); err != nil {
			continue
		}
		// User-typed prompts carry string content; tool results carry an
		// array and are not prompts.
		var display string
		if err := json.Unmarshal(msg.Content, &display); err != nil || display == "" {
			continue
		}

		ts, err := time.Parse(time.RFC3339, record.Timestamp)
		if err != nil || ts.UnixMilli() < models.MinTimestamp {
			log.Debug("skipping user record without a usable timestamp",
				slog.String("path", path),
				slog.Int("line", ordinal))
			continue
		}

		entry := models.Entry{
			Display:   display,
			Timestamp: ts.UnixMilli(),
			Project:   record.CWD,
		}
		if entry.Project == "" {
			entry.Project = decodeProjectDir(dirName)
		}
		if models.ValidUUID(record.SessionID) {
			entry.SessionID = record.SessionID
		}
		entries = append(entries, models.Enrich(entry, ordinal))
	}
	return entries
}

// decodeProjectDir recovers a path-like project name from the encoded
// directory name ("-home-user-proj" -> "/home/user/proj"). The encoding
// is lossy: a hyphen inside a directory name is indistinguishable from a
// path separator, so "-work-my-app" decodes to "/work/my/app". Only used
// as a fallback when the record carries no cwd.
func decodeProjectDir(name string) string {
	if !strings.HasPrefix(name, "-") {
		return name
	}
	return strings.ReplaceAll(name, "-", "/")
}
