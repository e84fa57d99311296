package main

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/tordrt/pgmaint"
	"github.com/tordrt/pgmaint/internal/formatter"
	"github.com/tordrt/pgmaint/internal/script"
)

var (
	outputFile   string
	outputDir    string
	part         string
	format       string
	copyToClip   bool
	tablesFormat string
	adviseFormat string
)

var generateCmd = &cobra.Command{
	Use:   "generate [file]",
	Short: "Render VACUUM and REINDEX scripts for a list of tables",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGenerate,
}

var tablesCmd = &cobra.Command{
	Use:   "tables [file]",
	Short: "Show the tables detected in the input",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTables,
}

var adviseCmd = &cobra.Command{
	Use:   "advise [file]",
	Short: "Ask the language model for maintenance advice on the detected tables",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAdvise,
}

func init() {
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	generateCmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Write maintenance.sql, vacuum.sql, reindex.sql and _tables.md to this directory")
	generateCmd.Flags().StringVarP(&part, "part", "p", "combined", "Script part: combined, vacuum or reindex")
	generateCmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or markdown")
	generateCmd.Flags().BoolVar(&copyToClip, "copy", false, "Also copy the selected script part to the clipboard")

	tablesCmd.Flags().StringVarP(&tablesFormat, "format", "f", "text", "Output format: text or markdown")
	adviseCmd.Flags().StringVarP(&adviseFormat, "format", "f", "markdown", "Output format: text or markdown")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if outputDir != "" && outputFile != "" {
		return fmt.Errorf("cannot use both --output-dir and --output flags")
	}

	selected, err := script.ParsePart(part)
	if err != nil {
		return err
	}
	markdown, err := parseFormat(format)
	if err != nil {
		return err
	}

	input, err := readInput(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	result := pgmaint.Build(input)
	logger.Debug("parsed input", "tables", len(result.Tables))

	var writer io.Writer = cmd.OutOrStdout()
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Warn("failed to close output file", "error", err)
			}
		}()
		writer = f
	}

	if err := pgmaint.WriteScripts(result, &pgmaint.OutputOptions{
		Writer:    writer,
		OutputDir: outputDir,
		Part:      selected,
		Markdown:  markdown,
	}); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if copyToClip {
		if err := clipboard.WriteAll(result.Scripts.Body(selected)); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		logger.Info("copied script to clipboard", "part", selected, "tables", len(result.Tables))
	}

	return nil
}

func runTables(cmd *cobra.Command, args []string) error {
	markdown, err := parseFormat(tablesFormat)
	if err != nil {
		return err
	}

	input, err := readInput(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	result := pgmaint.Build(input)
	if markdown {
		return formatter.NewMarkdownFormatter(cmd.OutOrStdout()).FormatTables(result.Tables)
	}
	return formatter.NewTextFormatter(cmd.OutOrStdout()).FormatTables(result.Tables)
}

func runAdvise(cmd *cobra.Command, args []string) error {
	markdown, err := parseFormat(adviseFormat)
	if err != nil {
		return err
	}

	input, err := readInput(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	result := pgmaint.Build(input)
	advice, requested := pgmaint.Advise(cmd.Context(), result, newAdvisorService(cmd.Context()))
	if !requested {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No tables detected; nothing to analyze.")
		return err
	}

	if markdown {
		return formatter.NewMarkdownFormatter(cmd.OutOrStdout()).FormatAdvice(advice)
	}
	return formatter.NewTextFormatter(cmd.OutOrStdout()).FormatAdvice(advice)
}
