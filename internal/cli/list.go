package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/junhoyeo/prompthistory/internal/search"
)

func NewListCommand() *cobra.Command {
	var flags searchFlags
	var sourceName string
	var useAll bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent prompts",
		Long:  `List prompts newest first, without fuzzy ranking.`,
		Example: `  # The 20 most recent prompts
  prompthistory list

  # Recent prompts across every source
  prompthistory list --all

  # Recent prompts for one project
  prompthistory list --project backend --limit 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(flags, sourceName, useAll)
		},
	}

	addSearchFlags(cmd, &flags, 20)
	cmd.Flags().StringVar(&sourceName, "source", "", "Read a single named source (see 'sources')")
	cmd.Flags().BoolVar(&useAll, "all", false, "Merge every available source")

	return cmd
}

func runList(flags searchFlags, sourceName string, useAll bool) error {
	opts, err := flags.options("")
	if err != nil {
		return err
	}

	entries, err := loadEntries(aggregator(), sourceName, useAll)
	if err != nil {
		return err
	}

	// Single sources come back in stream order; listing is newest first.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})

	results := search.NewEngine(entries).Search(opts)
	if len(results) == 0 {
		fmt.Println("No prompts found.")
		return nil
	}

	fmt.Printf("Recent prompts:\n\n")
	for _, result := range results {
		entry := result.Entry
		display := entry.TruncatedDisplay
		if i := strings.IndexByte(display, '\n'); i >= 0 {
			display = display[:i] + " ..."
		}
		fmt.Printf("[#%d] %s\n", entry.LineNumber, display)
		fmt.Printf("  %s", entry.Time().Format("2006-01-02 15:04:05"))
		if entry.Project != "" {
			fmt.Printf(" | %s", entry.Project)
		}
		fmt.Println()
		fmt.Println()
	}
	return nil
}
