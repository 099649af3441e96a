package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/junhoyeo/prompthistory/internal/models"
	"github.com/junhoyeo/prompthistory/internal/search"
)

func NewSearchCommand() *cobra.Command {
	var flags searchFlags
	var sourceName string
	var useAll bool
	var asJSON bool
	var copyFirst bool

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search prompt history",
		Long:  `Fuzzy-search your prompt history. Without a query, every entry is listed in original order.`,
		Example: `  # Fuzzy search across the default source
  prompthistory search "implement auth"

  # Search every available source at once
  prompthistory search "database migration" --all

  # Narrow to a project and date range
  prompthistory search "refactor" --project my-app --from 2024-01-01 --to 2024-06-30

  # Drop repeated prompts and cap the output
  prompthistory search "fix" --unique --limit 10

  # Copy the best match to the clipboard
  prompthistory search "that long prompt" --copy`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSearch(query, flags, sourceName, useAll, asJSON, copyFirst)
		},
	}

	addSearchFlags(cmd, &flags, -1)
	cmd.Flags().StringVar(&sourceName, "source", "", "Read a single named source (see 'sources')")
	cmd.Flags().BoolVar(&useAll, "all", false, "Merge every available source")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit results as JSON")
	cmd.Flags().BoolVar(&copyFirst, "copy", false, "Copy the top result's full prompt to the clipboard")

	return cmd
}

func addSearchFlags(cmd *cobra.Command, flags *searchFlags, defaultLimit int) {
	cmd.Flags().StringVar(&flags.project, "project", "", "Filter by project path substring (case-insensitive)")
	cmd.Flags().StringVar(&flags.from, "from", "", "Earliest date, YYYY-MM-DD")
	cmd.Flags().StringVar(&flags.to, "to", "", "Latest date, YYYY-MM-DD (the whole day is included)")
	cmd.Flags().IntVar(&flags.limit, "limit", defaultLimit, "Maximum number of results (-1 = no limit)")
	cmd.Flags().BoolVar(&flags.unique, "unique", false, "Drop repeated prompts, keeping the first")
	cmd.Flags().BoolVar(&flags.includeSlash, "include-slash", false, "Keep slash commands in the results")
}

func runSearch(query string, flags searchFlags, sourceName string, useAll, asJSON, copyFirst bool) error {
	opts, err := flags.options(query)
	if err != nil {
		return err
	}

	entries, err := loadEntries(aggregator(), sourceName, useAll)
	if err != nil {
		return err
	}

	results := search.NewEngine(entries).Search(opts)

	if copyFirst {
		if len(results) == 0 {
			return fmt.Errorf("nothing to copy: no results")
		}
		if err := clipboard.WriteAll(results[0].Entry.Display); err != nil {
			return fmt.Errorf("copying to clipboard: %w", err)
		}
		fmt.Fprintln(os.Stderr, "Copied top result to clipboard.")
	}

	if asJSON {
		return printResultsJSON(results)
	}

	printResults(query, results)
	return nil
}

func printResults(query string, results []models.SearchResult) {
	if len(results) == 0 {
		fmt.Println("No results found.")
		return
	}

	if query != "" {
		fmt.Printf("Found %d result(s) for '%s':\n\n", len(results), query)
	} else {
		fmt.Printf("%d entries:\n\n", len(results))
	}

	for i, result := range results {
		entry := result.Entry
		fmt.Printf("%d. [#%d] %s\n", i+1, entry.LineNumber, entry.TruncatedDisplay)
		fmt.Printf("   %s", entry.Time().Format("2006-01-02 15:04"))
		if entry.Project != "" {
			fmt.Printf(" | %s", entry.Project)
		}
		if result.Score != nil {
			fmt.Printf(" | score %d", *result.Score)
		}
		fmt.Println()
		fmt.Println()
	}
}

// printResultsJSON emits the canonical record per result plus the
// derived and ranking metadata, one array for the whole result set.
func printResultsJSON(results []models.SearchResult) error {
	out := make([]map[string]any, 0, len(results))
	for _, r := range results {
		m := r.Entry.Canonical()
		m["_lineNumber"] = r.Entry.LineNumber
		m["_truncatedDisplay"] = r.Entry.TruncatedDisplay
		m["_isSlashCommand"] = r.Entry.IsSlashCommand
		if r.Score != nil {
			m["_score"] = *r.Score
		}
		if r.Matches != nil {
			m["_matches"] = r.Matches
		}
		out = append(out, m)
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}
