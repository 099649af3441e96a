package source

import (
	"database/sql"
	"log/slog"
	"os"

	_ "modernc.org/sqlite"

	"github.com/junhoyeo/prompthistory/internal/models"
)

// storeQuery joins conversation turns to their parent sessions and the
// owning project, keeping only user-authored text parts, newest first.
const storeQuery = `
	SELECT m.content, m.created_at, s.id, p.path
	FROM messages m
	JOIN sessions s ON s.id = m.session_id
	JOIN projects p ON p.id = s.project_id
	WHERE m.role = 'user' AND m.part_type = 'text'
	ORDER BY m.created_at DESC`

// StoreDB reads the structured session store. The connection is opened
// strictly read-only so a live writer of the store is never contended
// with, and it is closed before Entries returns.
type StoreDB struct {
	path string
}

func NewStoreDB(path string) *StoreDB {
	if path == "" {
		path = DefaultPaths().StoreDB
	}
	return &StoreDB{path: path}
}

func (s *StoreDB) Name() string    { return "store" }
func (s *StoreDB) Path() string    { return s.path }
func (s *StoreDB) Available() bool { return fileExists(s.path) }

func (s *StoreDB) Entries() ([]models.EnrichedEntry, error) {
	// sql.Open is lazy; stat first so a missing store reports not-found
	// rather than a driver error on first query.
	if _, err := os.Stat(s.path); err != nil {
		return nil, describeOpenError(s.Name(), s.path, err)
	}

	db, err := sql.Open("sqlite", "file:"+s.path+"?mode=ro")
	if err != nil {
		return nil, describeOpenError(s.Name(), s.path, err)
	}
	defer db.Close()

	rows, err := db.Query(storeQuery)
	if err != nil {
		return nil, describeOpenError(s.Name(), s.path, err)
	}
	defer rows.Close()

	var entries []models.EnrichedEntry
	ordinal := 0
	for rows.Next() {
		ordinal++
		var content string
		var createdAt int64
		var sessionID, projectPath sql.NullString
		if err := rows.Scan(&content, &createdAt, &sessionID, &projectPath); err != nil {
			log.Debug("skipping unreadable row",
				slog.String("path", s.path),
				slog.Int("row", ordinal),
				slog.String("error", err.Error()))
			continue
		}
		if createdAt < models.MinTimestamp {
			log.Debug("skipping row before timestamp floor",
				slog.String("path", s.path),
				slog.Int("row", ordinal))
			continue
		}

		entry := models.Entry{
			Display:   content,
			Timestamp: createdAt,
			Project:   projectPath.String,
		}
		if sessionID.Valid && models.ValidUUID(sessionID.String) {
			entry.SessionID = sessionID.String
		}
		entries = append(entries, models.Enrich(entry, ordinal))
	}
	if err := rows.Err(); err != nil {
		return nil, describeOpenError(s.Name(), s.path, err)
	}
	return entries, nil
}
