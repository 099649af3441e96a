package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewSourcesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List history sources",
		Long:  `List every known history source, where it is read from, and whether it currently exists.`,
		Example: `  # Show which sources are available on this machine
  prompthistory sources`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSources()
		},
	}
	return cmd
}

func runSources() error {
	agg := aggregator()
	def := agg.Default()

	for _, s := range agg.Sources() {
		status := "missing"
		if s.Available() {
			status = "available"
		}
		marker := " "
		if s.Name() == def.Name() {
			marker = "*"
		}
		fmt.Printf("%s %-16s %-10s %s\n", marker, s.Name(), status, s.Path())
	}
	fmt.Println("\n* = default source")
	return nil
}
