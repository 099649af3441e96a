package search

import (
	"reflect"
	"testing"
	"time"

	"github.com/junhoyeo/prompthistory/internal/models"
)

func fixtureEntry(display string, ts int64, project string, ordinal int) models.EnrichedEntry {
	return models.Enrich(models.Entry{
		Display:   display,
		Timestamp: ts,
		Project:   project,
	}, ordinal)
}

func fixtureEntries() []models.EnrichedEntry {
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC).UnixMilli()
	return []models.EnrichedEntry{
		fixtureEntry("/rewind", base+5000, "/Users/a/foo-bar", 1),
		fixtureEntry("implement auth", base+1000, "/Users/a/foo-bar", 2),
		fixtureEntry("Implement Auth", base+2000, "/Users/a/foo-bar", 3),
		fixtureEntry("fix the login page", base+3000, "/Users/a/baz", 4),
		fixtureEntry("write release notes", base+4000, "/Users/a/baz", 5),
	}
}

func intPtr(i int) *int          { return &i }
func datePtr(t time.Time) *time.Time { return &t }

func TestSearchNoQueryShape(t *testing.T) {
	engine := NewEngine(fixtureEntries())
	results := engine.Search(models.SearchOptions{})

	if len(results) == 0 {
		t.Fatal("Search({}) returned no results")
	}
	for i, r := range results {
		if r.Score != nil {
			t.Errorf("result %d: Score should be nil without a query", i)
		}
		if r.Matches != nil {
			t.Errorf("result %d: Matches should be nil without a query", i)
		}
		if r.Entry.IsSlashCommand {
			t.Errorf("result %d: slash command not excluded by default", i)
		}
	}
}

func TestSearchNoQueryPreservesCollectionOrder(t *testing.T) {
	engine := NewEngine(fixtureEntries())
	results := engine.Search(models.SearchOptions{IncludeSlashCommands: true})

	if len(results) != 5 {
		t.Fatalf("got %d results, want 5", len(results))
	}
	for i, r := range results {
		if r.Entry.LineNumber != i+1 {
			t.Errorf("result %d out of collection order: line %d", i, r.Entry.LineNumber)
		}
	}
}

func TestSearchIdempotent(t *testing.T) {
	engine := NewEngine(fixtureEntries())
	opts := models.SearchOptions{Query: "auth", Unique: true, Limit: intPtr(10)}

	first := engine.Search(opts)
	second := engine.Search(opts)

	if !reflect.DeepEqual(first, second) {
		t.Error("identical searches on an unmodified engine returned different output")
	}
}

func TestSearchScoreOrdering(t *testing.T) {
	engine := NewEngine(fixtureEntries())
	results := engine.Search(models.SearchOptions{Query: "implement auth"})

	if len(results) < 2 {
		t.Fatalf("got %d results, want at least 2", len(results))
	}
	for i, r := range results {
		if r.Score == nil {
			t.Fatalf("result %d: Score missing with a non-empty query", i)
		}
		if len(r.Matches) == 0 {
			t.Errorf("result %d: no match spans reported", i)
		}
	}
	for i := 0; i < len(results)-1; i++ {
		if *results[i].Score > *results[i+1].Score {
			t.Errorf("results not in ascending score order at %d: %d > %d",
				i, *results[i].Score, *results[i+1].Score)
		}
	}
}

func TestSearchProjectFilter(t *testing.T) {
	engine := NewEngine(fixtureEntries())
	results := engine.Search(models.SearchOptions{Project: "foo"})

	if len(results) == 0 {
		t.Fatal("project filter dropped everything")
	}
	for _, r := range results {
		if r.Entry.Project != "/Users/a/foo-bar" {
			t.Errorf("project %q leaked through the %q filter", r.Entry.Project, "foo")
		}
	}

	// Case-insensitive substring.
	upper := engine.Search(models.SearchOptions{Project: "FOO-BAR"})
	if len(upper) != len(results) {
		t.Errorf("case-insensitive filter: got %d, want %d", len(upper), len(results))
	}
}

func TestSearchDateRangeInclusive(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	lastMilli := day.UnixMilli() + 86_399_999
	entries := []models.EnrichedEntry{
		fixtureEntry("end of day", lastMilli, "/p", 1),
		fixtureEntry("next midnight", day.AddDate(0, 0, 1).UnixMilli(), "/p", 2),
	}
	engine := NewEngine(entries)

	results := engine.Search(models.SearchOptions{To: datePtr(day)})
	if len(results) != 1 || results[0].Entry.Display != "end of day" {
		t.Fatalf("to-bound should include the whole named day, got %d results", len(results))
	}

	results = engine.Search(models.SearchOptions{From: datePtr(day.AddDate(0, 0, 1))})
	if len(results) != 1 || results[0].Entry.Display != "next midnight" {
		t.Fatalf("from-bound should be inclusive, got %d results", len(results))
	}

	// from > to yields zero matches, not an error.
	results = engine.Search(models.SearchOptions{
		From: datePtr(day.AddDate(0, 0, 2)),
		To:   datePtr(day),
	})
	if len(results) != 0 {
		t.Errorf("inverted range: got %d results, want 0", len(results))
	}
}

func TestSearchSlashCommandExclusion(t *testing.T) {
	engine := NewEngine(fixtureEntries())

	byDefault := engine.Search(models.SearchOptions{})
	for _, r := range byDefault {
		if r.Entry.IsSlashCommand {
			t.Fatalf("slash command %q present in default results", r.Entry.Display)
		}
	}

	included := engine.Search(models.SearchOptions{IncludeSlashCommands: true})
	if len(included) < len(byDefault) {
		t.Errorf("includeSlashCommands shrank results: %d < %d", len(included), len(byDefault))
	}
}

func TestSearchUnique(t *testing.T) {
	engine := NewEngine(fixtureEntries())

	results := engine.Search(models.SearchOptions{Unique: true})
	seen := make(map[string]bool)
	for _, r := range results {
		key := models.DedupKey(r.Entry.Display)
		if seen[key] {
			t.Errorf("duplicate key %q in unique results", key)
		}
		seen[key] = true
	}

	all := engine.Search(models.SearchOptions{})
	if len(results) > len(all) {
		t.Errorf("unique results (%d) exceed non-unique (%d)", len(results), len(all))
	}

	// First occurrence in current order wins: "implement auth" comes
	// before "Implement Auth" in the collection.
	for _, r := range results {
		if models.DedupKey(r.Entry.Display) == "implement auth" {
			if r.Entry.Display != "implement auth" {
				t.Errorf("kept %q, want the first occurrence", r.Entry.Display)
			}
		}
	}
}

func TestSearchUniqueExcludesSlashScenario(t *testing.T) {
	engine := NewEngine(fixtureEntries()[:3])
	results := engine.Search(models.SearchOptions{Unique: true})

	if len(results) != 1 {
		t.Fatalf("got %d results, want exactly 1", len(results))
	}
	if results[0].Entry.Display != "implement auth" {
		t.Errorf("kept %q, want first occurrence %q", results[0].Entry.Display, "implement auth")
	}
}

func TestSearchLimit(t *testing.T) {
	engine := NewEngine(fixtureEntries())

	for _, limit := range []int{0, 1, 3, 100} {
		results := engine.Search(models.SearchOptions{IncludeSlashCommands: true, Limit: intPtr(limit)})
		if len(results) > limit {
			t.Errorf("limit %d: got %d results", limit, len(results))
		}
	}
}

func TestSearchUniqueDedupsBeforeLimit(t *testing.T) {
	entries := []models.EnrichedEntry{
		fixtureEntry("same prompt", models.MinTimestamp + 1, "/p", 1),
		fixtureEntry("same prompt", models.MinTimestamp + 2, "/p", 2),
		fixtureEntry("another prompt", models.MinTimestamp + 3, "/p", 3),
	}
	engine := NewEngine(entries)

	results := engine.Search(models.SearchOptions{Unique: true, Limit: intPtr(2)})
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Entry.LineNumber != 1 || results[1].Entry.LineNumber != 3 {
		t.Error("limit must apply after dedup, not before")
	}
}

func TestByLineNumber(t *testing.T) {
	engine := NewEngine(fixtureEntries())

	entry, ok := engine.ByLineNumber(4)
	if !ok {
		t.Fatal("ByLineNumber(4) not found")
	}
	if entry.Display != "fix the login page" {
		t.Errorf("ByLineNumber(4) = %q", entry.Display)
	}

	if _, ok := engine.ByLineNumber(99); ok {
		t.Error("ByLineNumber(99) should not be found")
	}
}

func TestEngineCopiesInput(t *testing.T) {
	entries := fixtureEntries()
	engine := NewEngine(entries)
	entries[1].Entry.Display = "mutated"

	entry, ok := engine.ByLineNumber(2)
	if !ok || entry.Display != "implement auth" {
		t.Error("engine must own a copy of the input collection")
	}
}

func TestSpans(t *testing.T) {
	tests := []struct {
		name    string
		indexes []int
		want    [][2]int
	}{
		{"empty", nil, nil},
		{"single", []int{3}, [][2]int{{3, 4}}},
		{"contiguous", []int{0, 1, 2, 3}, [][2]int{{0, 4}}},
		{"two runs", []int{0, 1, 5, 6, 7}, [][2]int{{0, 2}, {5, 8}}},
		{"scattered", []int{2, 4, 6}, [][2]int{{2, 3}, {4, 5}, {6, 7}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := spans(tt.indexes)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("spans(%v) = %v, want %v", tt.indexes, got, tt.want)
			}
		})
	}
}
