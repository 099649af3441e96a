package source

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/junhoyeo/prompthistory/internal/models"
)

// geminiChat is one saved chat file: tmp/<hash>/chats/session-*.json.
type geminiChat struct {
	SessionID string          `json:"sessionId"`
	StartTime string          `json:"startTime"`
	Messages  []geminiMessage `json:"messages"`
}

type geminiMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// Gemini reads chat files saved under the client's tmp directory. Each
// workspace hashes to its own subdirectory; the hash directory path
// stands in for the project since the original path is not recorded.
type Gemini struct {
	dir string
}

func NewGemini(dir string) *Gemini {
	if dir == "" {
		dir = DefaultPaths().GeminiDir
	}
	return &Gemini{dir: dir}
}

func (g *Gemini) Name() string    { return "gemini" }
func (g *Gemini) Path() string    { return g.dir }
func (g *Gemini) Available() bool { return fileExists(g.dir) }

func (g *Gemini) Entries() ([]models.EnrichedEntry, error) {
	hashes, err := os.ReadDir(g.dir)
	if err != nil {
		return nil, describeOpenError(g.Name(), g.dir, err)
	}

	var entries []models.EnrichedEntry
	for _, hash := range hashes {
		if !hash.IsDir() {
			continue
		}
		chatsDir := filepath.Join(g.dir, hash.Name(), "chats")
		files, err := os.ReadDir(chatsDir)
		if err != nil {
			continue
		}
		project := filepath.Join(g.dir, hash.Name())
		for _, file := range files {
			name := file.Name()
			if !strings.HasPrefix(name, "session-") || !strings.HasSuffix(name, ".json") {
				continue
			}
			entries = append(entries, g.readChat(filepath.Join(chatsDir, name), project)...)
		}
	}
	return entries, nil
}

// readChat extracts user messages from one saved chat. The ordinal is
// the message's position within the file, counting every role.
func (g *Gemini) readChat(path, project string) []models.EnrichedEntry {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("skipping unreadable chat file",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil
	}

	var chat geminiChat
	if err := json.Unmarshal(data, &chat); err != nil {
		log.Debug("skipping malformed chat file",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil
	}

	var entries []models.EnrichedEntry
	for i, msg := range chat.Messages {
		if msg.Role != "user" || msg.Content == "" {
			continue
		}

		ts, err := time.Parse(time.RFC3339, msg.Timestamp)
		if err != nil {
			// Fall back to the chat's start time; better a coarse
			// timestamp than a dropped prompt.
			ts, err = time.Parse(time.RFC3339, chat.StartTime)
		}
		if err != nil || ts.UnixMilli() < models.MinTimestamp {
			log.Debug("skipping message without a usable timestamp",
				slog.String("path", path),
				slog.Int("index", i))
			continue
		}

		entry := models.Entry{
			Display:   msg.Content,
			Timestamp: ts.UnixMilli(),
			Project:   project,
		}
		if models.ValidUUID(chat.SessionID) {
			entry.SessionID = chat.SessionID
		}
		entries = append(entries, models.Enrich(entry, i+1))
	}
	return entries
}
