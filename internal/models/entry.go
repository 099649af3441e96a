package models

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf16"
)

// MinTimestamp is the sanity floor for entry timestamps, in milliseconds
// since epoch (2001-09-09). Records older than this are rejected rather
// than clamped.
const MinTimestamp int64 = 1_000_000_000_000

// TruncateLimit is the maximum length of TruncatedDisplay in UTF-16 code
// units, ellipsis included.
const TruncateLimit = 500

// PastedContent is one attachment referenced from a prompt. It is carried
// through unmodified and never searched.
type PastedContent struct {
	ID          float64 `json:"id"`
	Type        string  `json:"type"`
	Content     string  `json:"content,omitempty"`
	ContentHash string  `json:"contentHash,omitempty"`
}

// Entry is the canonical prompt record shared by every source adapter.
type Entry struct {
	Display        string                   `json:"display"`
	PastedContents map[string]PastedContent `json:"pastedContents,omitempty"`
	Timestamp      int64                    `json:"timestamp"`
	Project        string                   `json:"project"`
	SessionID      string                   `json:"sessionId,omitempty"`

	// Extra holds unknown fields from the source record so that export
	// round-trips them verbatim.
	Extra map[string]any `json:"-"`
}

// EnrichedEntry is an Entry plus metadata derived once at ingestion.
// Accepted entries are immutable afterwards.
type EnrichedEntry struct {
	Entry

	// LineNumber is the 1-based ordinal of the record within its source
	// stream. It is scoped to that stream, not globally unique.
	LineNumber int

	// TruncatedDisplay is Display capped to TruncateLimit UTF-16 units;
	// when truncation occurred the string ends with "..." and its UTF-16
	// length is exactly TruncateLimit.
	TruncatedDisplay string

	// IsSlashCommand reports whether Display, after stripping leading
	// whitespace, starts with "/".
	IsSlashCommand bool

	// IsDuplicate is reserved for post-hoc dedup marking.
	IsDuplicate bool
}

// Enrich computes the derived metadata for an already-valid Entry.
func Enrich(e Entry, ordinal int) EnrichedEntry {
	return EnrichedEntry{
		Entry:            e,
		LineNumber:       ordinal,
		TruncatedDisplay: TruncateDisplay(e.Display),
		IsSlashCommand:   SlashCommand(e.Display),
	}
}

// TruncateDisplay caps s to TruncateLimit UTF-16 code units. The "..."
// marker counts toward the cap, so the result is never longer than the
// input's own UTF-16 length or the limit.
func TruncateDisplay(s string) string {
	units := utf16.Encode([]rune(s))
	if len(units) <= TruncateLimit {
		return s
	}
	head := utf16.Decode(units[:TruncateLimit-3])
	return string(head) + "..."
}

// SlashCommand reports whether the prompt is tool-control input rather
// than a conversational prompt.
func SlashCommand(display string) bool {
	return strings.HasPrefix(strings.TrimLeftFunc(display, unicode.IsSpace), "/")
}

// DedupKey is the normalized identity used by the uniqueness filter:
// trim plus lowercase, nothing more. Prompts differing only in internal
// whitespace stay distinct.
func DedupKey(display string) string {
	return strings.ToLower(strings.TrimSpace(display))
}

// Time returns the entry timestamp as a time.Time.
func (e Entry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Canonical returns the entry as the canonical on-disk object: typed
// fields first, then unknown source fields merged back verbatim. Derived
// underscore-prefixed metadata is never included.
func (e Entry) Canonical() map[string]any {
	m := make(map[string]any, 5+len(e.Extra))
	m["display"] = e.Display
	m["timestamp"] = e.Timestamp
	m["project"] = e.Project
	if e.PastedContents != nil {
		m["pastedContents"] = e.PastedContents
	}
	if e.SessionID != "" {
		m["sessionId"] = e.SessionID
	}
	for k, v := range e.Extra {
		m[k] = v
	}
	return m
}
