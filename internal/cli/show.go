package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/junhoyeo/prompthistory/internal/search"
)

func NewShowCommand() *cobra.Command {
	var sourceName string
	var asJSON bool
	var copyPrompt bool

	cmd := &cobra.Command{
		Use:   "show <line-number>",
		Short: "Show one prompt in full",
		Long:  `Show a single prompt by its line number within one source, untruncated, with its pasted contents.`,
		Example: `  # Show entry 42 of the default source
  prompthistory show 42

  # Show entry 7 of the legacy history file
  prompthistory show 7 --source history

  # Copy the full prompt to the clipboard
  prompthistory show 42 --copy`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid line number %q", args[0])
			}
			return runShow(n, sourceName, asJSON, copyPrompt)
		},
	}

	cmd.Flags().StringVar(&sourceName, "source", "", "Read a single named source (see 'sources')")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the entry as JSON")
	cmd.Flags().BoolVar(&copyPrompt, "copy", false, "Copy the full prompt to the clipboard")

	return cmd
}

func runShow(n int, sourceName string, asJSON, copyPrompt bool) error {
	entries, err := loadEntries(aggregator(), sourceName, false)
	if err != nil {
		return err
	}

	entry, ok := search.NewEngine(entries).ByLineNumber(n)
	if !ok {
		return fmt.Errorf("no entry at line %d", n)
	}

	if copyPrompt {
		if err := clipboard.WriteAll(entry.Display); err != nil {
			return fmt.Errorf("copying to clipboard: %w", err)
		}
	}

	if asJSON {
		encoded, err := json.MarshalIndent(entry.Canonical(), "", "  ")
		if err != nil {
			return fmt.Errorf("encoding entry: %w", err)
		}
		fmt.Println(string(encoded))
		return nil
	}

	fmt.Printf("Line:    %d\n", entry.LineNumber)
	fmt.Printf("Date:    %s\n", entry.Time().Format("2006-01-02 15:04:05"))
	if entry.Project != "" {
		fmt.Printf("Project: %s\n", entry.Project)
	}
	if entry.SessionID != "" {
		fmt.Printf("Session: %s\n", entry.SessionID)
	}
	fmt.Printf("\n%s\n", entry.Display)

	if len(entry.PastedContents) > 0 {
		fmt.Printf("\nPasted contents (%d):\n", len(entry.PastedContents))
		for id, pc := range entry.PastedContents {
			switch {
			case pc.Content != "":
				fmt.Printf("  [%s] %s (%d bytes)\n", id, pc.Type, len(pc.Content))
			case pc.ContentHash != "":
				fmt.Printf("  [%s] %s (hash %s)\n", id, pc.Type, pc.ContentHash)
			default:
				fmt.Printf("  [%s] %s\n", id, pc.Type)
			}
		}
	}
	return nil
}
