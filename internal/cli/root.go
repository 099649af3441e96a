// Package cli wires the command surface: every command reads one or
// more history sources, runs the shared search pipeline, and prints.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/junhoyeo/prompthistory/internal/config"
	"github.com/junhoyeo/prompthistory/internal/logging"
	"github.com/junhoyeo/prompthistory/internal/source"
)

var (
	configPath string
	verbose    bool

	cfg *config.Config
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "prompthistory",
		Short: "Search your AI prompt history",
		Long: `Prompt History - Normalize and fuzzy-search the prompts you have typed
into AI coding assistants, across every client's history format.`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			initLogging()
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Shutdown()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.prompthistory/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Write a debug log under the config directory")

	rootCmd.AddCommand(
		NewSearchCommand(),
		NewListCommand(),
		NewShowCommand(),
		NewExportCommand(),
		NewSourcesCommand(),
		NewBrowseCommand(),
	)

	return rootCmd
}

func initLogging() {
	lc := logging.Config{
		Level:      cfg.Logging.Level,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	}
	if cfg.Logging.Enabled || verbose {
		if dir, err := config.Dir(); err == nil {
			lc.Dir = dir
		}
	}
	if verbose {
		lc.Level = "debug"
	}
	logging.Init(lc)
}

// aggregator builds the source set from the loaded config.
func aggregator() *source.Aggregator {
	return source.NewAggregator(source.Paths{
		HistoryFile:  cfg.Sources.HistoryFile,
		StoreDB:      cfg.Sources.StoreDB,
		ClaudeDir:    cfg.Sources.ClaudeDir,
		GeminiDir:    cfg.Sources.GeminiDir,
		AiderHistory: cfg.Sources.AiderHistory,
	})
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logging.Shutdown()
		os.Exit(1)
	}
}
