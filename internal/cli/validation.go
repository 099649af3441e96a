package cli

import (
	"fmt"
	"time"

	"github.com/junhoyeo/prompthistory/internal/models"
	"github.com/junhoyeo/prompthistory/internal/source"
)

// dateLayout is the accepted form for --from and --to.
const dateLayout = "2006-01-02"

// parseDate parses a calendar date. The empty string means "not set".
func parseDate(flag, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s date %q (expected YYYY-MM-DD)", flag, value)
	}
	return &t, nil
}

// searchFlags is the filter set shared by search, list, and export.
type searchFlags struct {
	project      string
	from         string
	to           string
	limit        int
	unique       bool
	includeSlash bool
}

// options converts the raw flag values into engine options. A negative
// limit means "no limit was requested" and falls back to the configured
// default; zero and up is an explicit cap.
func (f searchFlags) options(query string) (models.SearchOptions, error) {
	from, err := parseDate("from", f.from)
	if err != nil {
		return models.SearchOptions{}, err
	}
	to, err := parseDate("to", f.to)
	if err != nil {
		return models.SearchOptions{}, err
	}

	opts := models.SearchOptions{
		Query:                query,
		Project:              f.project,
		From:                 from,
		To:                   to,
		Unique:               f.unique || cfg.Search.Unique,
		IncludeSlashCommands: f.includeSlash || cfg.Search.IncludeSlashCommands,
	}

	limit := f.limit
	if limit < 0 && cfg.Search.Limit > 0 {
		limit = cfg.Search.Limit
	}
	if limit >= 0 {
		opts.Limit = &limit
	}
	return opts, nil
}

// loadEntries resolves which sources to read. --source names one
// adapter, --all merges every available one, and otherwise the default
// source is read on its own.
func loadEntries(agg *source.Aggregator, sourceName string, all bool) ([]models.EnrichedEntry, error) {
	if sourceName != "" && all {
		return nil, fmt.Errorf("--source and --all are mutually exclusive")
	}
	if all {
		return agg.All()
	}

	s := agg.Default()
	if sourceName != "" {
		var err error
		s, err = agg.ByName(sourceName)
		if err != nil {
			return nil, err
		}
	}
	return s.Entries()
}
