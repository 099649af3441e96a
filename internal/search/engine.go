package search

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/junhoyeo/prompthistory/internal/models"
)

// endOfDayOffsetMillis widens the "to" bound to cover the whole calendar
// day it names (+1 day -1 ms). This is a fixed UTC day length and is kept
// literal even across daylight-saving transitions.
const endOfDayOffsetMillis int64 = 86_399_999

// Engine answers ranked, filtered queries over an immutable collection of
// enriched entries. It keeps its own copy of the collection, which also
// serves the no-query path, so results never depend on the fuzzy index's
// internal document list. Construction is the one-time index cost; the
// input must not change afterwards without building a new Engine.
type Engine struct {
	entries []models.EnrichedEntry
}

// NewEngine copies entries and builds the engine over them.
func NewEngine(entries []models.EnrichedEntry) *Engine {
	copied := make([]models.EnrichedEntry, len(entries))
	copy(copied, entries)
	return &Engine{entries: copied}
}

// Len returns the number of indexed entries.
func (e *Engine) Len() int {
	return len(e.entries)
}

// ByLineNumber returns the first indexed entry whose source ordinal is n.
// Line numbers are scoped to one source stream, so this lookup is only
// meaningful over a single-source view.
func (e *Engine) ByLineNumber(n int) (models.EnrichedEntry, bool) {
	for _, entry := range e.entries {
		if entry.LineNumber == n {
			return entry, true
		}
	}
	return models.EnrichedEntry{}, false
}

// Search evaluates opts in a fixed stage order: match, project filter,
// date range, slash-command filter, uniqueness, limit. Each stage
// consumes the previous stage's output, so the limit always runs last.
// Search never fails for well-typed options and is deterministic: the
// same options against the same engine yield identical ordered output.
func (e *Engine) Search(opts models.SearchOptions) []models.SearchResult {
	var results []models.SearchResult
	if opts.Query != "" {
		results = e.match(opts.Query)
	} else {
		results = make([]models.SearchResult, 0, len(e.entries))
		for _, entry := range e.entries {
			results = append(results, models.SearchResult{Entry: entry})
		}
	}

	if opts.Project != "" {
		results = filterProject(results, opts.Project)
	}
	if opts.From != nil || opts.To != nil {
		results = filterDates(results, opts)
	}
	if !opts.IncludeSlashCommands {
		results = filterSlash(results)
	}
	if opts.Unique {
		results = filterUnique(results)
	}
	if opts.Limit != nil {
		limit := *opts.Limit
		if limit < 0 {
			limit = 0
		}
		if len(results) > limit {
			results = results[:limit]
		}
	}
	return results
}

// fieldSource adapts one entry field to fuzzy.Source.
type fieldSource struct {
	entries []models.EnrichedEntry
	field   func(models.EnrichedEntry) string
}

func (s fieldSource) String(i int) string { return s.field(s.entries[i]) }
func (s fieldSource) Len() int            { return len(s.entries) }

type candidate struct {
	index   int
	score   int
	matches []models.Match
}

// match runs the fuzzy query over the display and project fields and
// merges the hits per entry: the better (lower) score wins, both fields'
// match spans are reported. Ties keep entry enumeration order.
func (e *Engine) match(query string) []models.SearchResult {
	byIndex := make(map[int]*candidate)

	for _, key := range []string{"display", "project"} {
		field := func(en models.EnrichedEntry) string { return en.Display }
		if key == "project" {
			field = func(en models.EnrichedEntry) string { return en.Project }
		}
		for _, m := range fuzzy.FindFrom(query, fieldSource{entries: e.entries, field: field}) {
			// sahilm scores are higher-is-better; the exposed contract is
			// lower-is-better, so negate.
			score := -m.Score
			match := models.Match{
				Key:     key,
				Value:   field(e.entries[m.Index]),
				Indices: spans(m.MatchedIndexes),
			}
			if c, ok := byIndex[m.Index]; ok {
				if score < c.score {
					c.score = score
				}
				c.matches = append(c.matches, match)
				continue
			}
			byIndex[m.Index] = &candidate{
				index:   m.Index,
				score:   score,
				matches: []models.Match{match},
			}
		}
	}

	ordered := make([]*candidate, 0, len(byIndex))
	for i := range e.entries {
		if c, ok := byIndex[i]; ok {
			ordered = append(ordered, c)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].score < ordered[j].score
	})

	results := make([]models.SearchResult, 0, len(ordered))
	for _, c := range ordered {
		score := c.score
		results = append(results, models.SearchResult{
			Entry:   e.entries[c.index],
			Score:   &score,
			Matches: c.matches,
		})
	}
	return results
}

// spans collapses per-character match positions into [start, end) pairs.
func spans(indexes []int) [][2]int {
	if len(indexes) == 0 {
		return nil
	}
	out := make([][2]int, 0, len(indexes))
	start, prev := indexes[0], indexes[0]
	for _, idx := range indexes[1:] {
		if idx == prev+1 {
			prev = idx
			continue
		}
		out = append(out, [2]int{start, prev + 1})
		start, prev = idx, idx
	}
	return append(out, [2]int{start, prev + 1})
}

func filterProject(results []models.SearchResult, project string) []models.SearchResult {
	needle := strings.ToLower(project)
	out := make([]models.SearchResult, 0, len(results))
	for _, r := range results {
		if strings.Contains(strings.ToLower(r.Entry.Project), needle) {
			out = append(out, r)
		}
	}
	return out
}

func filterDates(results []models.SearchResult, opts models.SearchOptions) []models.SearchResult {
	out := make([]models.SearchResult, 0, len(results))
	for _, r := range results {
		if opts.From != nil && r.Entry.Timestamp < opts.From.UnixMilli() {
			continue
		}
		if opts.To != nil && r.Entry.Timestamp > opts.To.UnixMilli()+endOfDayOffsetMillis {
			continue
		}
		out = append(out, r)
	}
	return out
}

func filterSlash(results []models.SearchResult) []models.SearchResult {
	out := make([]models.SearchResult, 0, len(results))
	for _, r := range results {
		if r.Entry.IsSlashCommand {
			continue
		}
		out = append(out, r)
	}
	return out
}

func filterUnique(results []models.SearchResult) []models.SearchResult {
	seen := make(map[string]struct{}, len(results))
	out := make([]models.SearchResult, 0, len(results))
	for _, r := range results {
		key := models.DedupKey(r.Entry.Display)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
