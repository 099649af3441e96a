package source

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/junhoyeo/prompthistory/internal/models"
)

// Aggregator holds every configured source and decides which one is
// primary. The default selection is made once at construction and does
// not change if files appear or disappear afterwards.
type Aggregator struct {
	sources []Source
	primary Source
}

// NewAggregator builds the full adapter set from the resolved paths.
// The structured store is primary when it exists; otherwise the legacy
// history file is, whether or not it exists — a missing primary should
// fail loudly when read, not fall through to a different format.
func NewAggregator(paths Paths) *Aggregator {
	paths = paths.withDefaults()

	store := NewStoreDB(paths.StoreDB)
	history := NewHistoryFile(paths.HistoryFile)

	a := &Aggregator{
		sources: []Source{
			history,
			store,
			NewClaudeProjects(paths.ClaudeDir),
			NewGemini(paths.GeminiDir),
			NewAider(paths.AiderHistory),
		},
	}
	if store.Available() {
		a.primary = store
	} else {
		a.primary = history
	}
	return a
}

// Sources lists every adapter in registration order.
func (a *Aggregator) Sources() []Source {
	out := make([]Source, len(a.sources))
	copy(out, a.sources)
	return out
}

// Default returns the primary source.
func (a *Aggregator) Default() Source {
	return a.primary
}

// ByName looks up an adapter by its stable name.
func (a *Aggregator) ByName(name string) (Source, error) {
	for _, s := range a.sources {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unknown source %q (run the sources command to list them)", name)
}

// All merges every available source, newest first. Individual source
// failures are logged and contribute nothing; the merge only fails when
// no source yields anything and at least one errored.
func (a *Aggregator) All() ([]models.EnrichedEntry, error) {
	var merged []models.EnrichedEntry
	var firstErr error
	read := 0

	for _, s := range a.sources {
		if !s.Available() {
			continue
		}
		entries, err := s.Entries()
		if err != nil {
			log.Warn("source failed during merge",
				slog.String("source", s.Name()),
				slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		read++
		merged = append(merged, entries...)
	}

	if read == 0 && firstErr != nil {
		return nil, firstErr
	}

	// Stable: entries with equal timestamps keep source registration
	// order, and within a source its own order.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp > merged[j].Timestamp
	})
	return merged, nil
}
