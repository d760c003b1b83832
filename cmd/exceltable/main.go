// Package main provides the CLI entry point for exceltable-go.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hhl6833/exceltable-go/internal/config"
	"github.com/hhl6833/exceltable-go/pkg/exceltable"
	"github.com/hhl6833/exceltable-go/pkg/exceltable/output"
)

var (
	cfgFile     string
	outputPath  string
	format      string
	pretty      bool
	sheetIndex  int
	keys        []string
	recordsOnly bool
	dateLayout  string
	locale      string
	charset     string
	verbose     bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "exceltable [input.xlsx]",
		Short: "Extract header-keyed rows from spreadsheet files",
		Long: `exceltable-go locates the given header labels in a sheet and outputs
every non-blank row below them as key/value records.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         run,
	}

	flags := rootCmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./exceltable.yaml or ~/.exceltable/exceltable.yaml)")
	flags.StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	flags.StringVar(&format, "format", "", "Output format: json or yaml (default from config)")
	flags.BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	flags.IntVarP(&sheetIndex, "sheet", "s", 0, "Zero-based sheet index")
	flags.StringArrayVarP(&keys, "key", "k", nil, "Header label to extract (repeatable)")
	flags.BoolVar(&recordsOnly, "records-only", false, "Output only the list of records")
	flags.StringVar(&dateLayout, "date-layout", "", "Go time layout for date cells")
	flags.StringVar(&locale, "locale", "", "Locale for number display, e.g. en-US")
	flags.StringVar(&charset, "charset", "", "Charset for legacy BIFF5 .xls strings, e.g. cp1251")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	_ = rootCmd.MarkFlagRequired("key")

	return rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	level := cfg.LogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	outFormat, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	tag, err := cfg.LocaleTag()
	if err != nil {
		return err
	}

	opts := exceltable.Options{
		DateLayout: cfg.DateLayout,
		Locale:     tag,
		Charset:    cfg.XLSCharset,
		Logger:     logger,
	}

	table, err := exceltable.ReadTable(inputPath, sheetIndex, keys, opts)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	logger.Info("extracted table",
		"sheet", table.SheetName, "keys", table.KeyNames(), "records", len(table.Records), "range", table.Range)

	var data []byte
	if recordsOnly {
		data, err = output.Encode(table.Records, outFormat, cfg.Output.Pretty)
	} else {
		data, err = output.Encode(table, outFormat, cfg.Output.Pretty)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	_, err = cmd.OutOrStdout().Write(append(data, '\n'))
	return err
}

// applyFlags overrides config values with explicitly set flags.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = format
	}
	if flags.Changed("pretty") {
		cfg.Output.Pretty = pretty
	}
	if flags.Changed("date-layout") {
		cfg.DateLayout = dateLayout
	}
	if flags.Changed("locale") {
		cfg.Locale = locale
	}
	if flags.Changed("charset") {
		cfg.XLSCharset = charset
	}
}
