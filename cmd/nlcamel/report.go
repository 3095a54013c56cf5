package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mhammadzahi/nl-camel/internal/config"
	"github.com/mhammadzahi/nl-camel/internal/report"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [results.csv]",
		Short: "Summarize crawl results as Markdown",
		Long: `Report reads a result CSV produced by scan and renders a Markdown
summary: run metrics, a classification pie chart, and the
highest-confidence sites.

Examples:
  # Summarize the default result file to stdout
  nlcamel report

  # Summarize a specific file into a Markdown document
  nlcamel report results.csv -o summary.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: runReportCmd,
	}

	cmd.Flags().StringP("output", "o", "",
		"Write the summary to specified file path instead of stdout")
	cmd.Flags().Int("top", 25,
		"How many of the highest-confidence sites to list")

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, args []string) error {
	input := config.DefaultOutputFile
	if len(args) > 0 {
		input = args[0]
	}

	records, err := report.ReadRecords(input)
	if err != nil {
		return fmt.Errorf("failed to read results: %w", err)
	}

	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	topN, err := cmd.Flags().GetInt("top")
	if err != nil {
		return err
	}

	output := cmd.OutOrStdout()
	if outputPath != "" {
		dir := filepath.Dir(outputPath)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	return report.NewMarkdownSummary(output, report.WithTopN(topN)).Write(records)
}
