package cli

import (
	"github.com/spf13/cobra"

	"github.com/junhoyeo/prompthistory/internal/models"
	"github.com/junhoyeo/prompthistory/internal/tui"
)

func NewBrowseCommand() *cobra.Command {
	var flags searchFlags
	var sourceName string
	var includeSlash bool

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse prompts in TUI",
		Long:  `Open an interactive terminal UI with live fuzzy search over one source. The view reloads when the source file changes.`,
		Example: `  # Browse the default source
  prompthistory browse

  # Browse the legacy history file, one project only
  prompthistory browse --source history --project my-app`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(flags, sourceName, includeSlash)
		},
	}

	cmd.Flags().StringVar(&flags.project, "project", "", "Filter by project path substring (case-insensitive)")
	cmd.Flags().StringVar(&sourceName, "source", "", "Browse a single named source (see 'sources')")
	cmd.Flags().BoolVar(&includeSlash, "include-slash", false, "Keep slash commands in the results")

	return cmd
}

func runBrowse(flags searchFlags, sourceName string, includeSlash bool) error {
	agg := aggregator()

	src := agg.Default()
	if sourceName != "" {
		var err error
		src, err = agg.ByName(sourceName)
		if err != nil {
			return err
		}
	}

	opts := models.SearchOptions{
		Project:              flags.project,
		Unique:               cfg.Search.Unique,
		IncludeSlashCommands: includeSlash || cfg.Search.IncludeSlashCommands,
	}
	return tui.NewBrowser(src, opts).Run()
}
