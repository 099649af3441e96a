package models

import "time"

// SearchOptions describes one query against the search engine. All
// fields are optional; the zero value means "everything except slash
// commands, original order".
type SearchOptions struct {
	// Query is free text matched approximately against display and
	// project. Empty means no ranking: every entry is a candidate in
	// collection order.
	Query string

	// Project is a case-insensitive substring filter on the project path.
	Project string

	// From and To are inclusive date bounds. To covers the entire
	// calendar day it names, not just its midnight instant.
	From *time.Time
	To   *time.Time

	// Limit truncates the result list after all filters. Nil means
	// unlimited; zero means zero results.
	Limit *int

	// Unique keeps only the first occurrence per DedupKey.
	Unique bool

	// IncludeSlashCommands disables the default slash-command exclusion.
	IncludeSlashCommands bool
}

// Match describes where a query matched one field, for highlighting.
// Indices are [start, end) spans over the field's value.
type Match struct {
	Key     string   `json:"key"`
	Value   string   `json:"value"`
	Indices [][2]int `json:"indices"`
}

// SearchResult wraps an entry with ranking metadata. Score and Matches
// are set only when the query was non-empty; lower score = stronger
// match, and scores are only comparable within one Search call.
type SearchResult struct {
	Entry   EnrichedEntry
	Score   *int
	Matches []Match
}
