// Package main provides the entry point for the nlcamel CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for nlcamel.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nlcamel",
		Short: "Detect newsletter subscription offerings across domains",
		Long: `nlcamel crawls a ranked list of domains and heuristically detects
whether each site offers a newsletter subscription. For every domain it
tries a small set of likely paths, scores the fetched pages against
form, text, and provider signals, and records the outcome in a CSV file.

By default the domain list is downloaded from a public ranked list.
Use --domains to scan an explicit set instead.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
