package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/junhoyeo/prompthistory/internal/export"
	"github.com/junhoyeo/prompthistory/internal/models"
	"github.com/junhoyeo/prompthistory/internal/search"
)

func NewExportCommand() *cobra.Command {
	var flags searchFlags
	var sourceName string
	var useAll bool
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "export [query]",
		Short: "Export prompts",
		Long:  `Export prompts in a portable format. Filters work like search; without a query everything is exported in original order.`,
		Example: `  # Everything from the default source as JSON lines
  prompthistory export

  # One project's prompts as CSV
  prompthistory export --project my-app --format csv -o my-app.csv

  # Matching prompts across every source
  prompthistory export "migration" --all --format txt`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runExport(query, flags, sourceName, useAll, format, output)
		},
	}

	addSearchFlags(cmd, &flags, -1)
	cmd.Flags().StringVar(&sourceName, "source", "", "Read a single named source (see 'sources')")
	cmd.Flags().BoolVar(&useAll, "all", false, "Merge every available source")
	cmd.Flags().StringVar(&format, "format", "jsonl", "Export format: jsonl, csv, or txt")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}

func runExport(query string, flags searchFlags, sourceName string, useAll bool, format, output string) error {
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}

	opts, err := flags.options(query)
	if err != nil {
		return err
	}

	entries, err := loadEntries(aggregator(), sourceName, useAll)
	if err != nil {
		return err
	}

	results := search.NewEngine(entries).Search(opts)
	selected := make([]models.EnrichedEntry, 0, len(results))
	for _, r := range results {
		selected = append(selected, r.Entry)
	}

	w := os.Stdout
	if output != "" {
		w, err = os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer w.Close()
	}

	if err := export.Write(w, f, selected); err != nil {
		return err
	}
	if output != "" {
		fmt.Fprintf(os.Stderr, "Exported %d entries to %s\n", len(selected), output)
	}
	return nil
}
