// Package main provides the CLI entry point for csv2xlsx.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/ukaji3/csv2xlsx-go/internal/config"
	"github.com/ukaji3/csv2xlsx-go/internal/logging"
	"github.com/ukaji3/csv2xlsx-go/pkg/csv2xlsx"
	"github.com/ukaji3/csv2xlsx-go/pkg/csv2xlsx/output"
	"github.com/ukaji3/csv2xlsx-go/pkg/csv2xlsx/reader"
)

type flags struct {
	inputDir     string
	outputPath   string
	encoding     string
	delimiter    string
	recursive    bool
	quiet        bool
	configPath   string
	exclude      []string
	inferTypes   bool
	autoFit      bool
	freezeHeader bool
	jsonOutput   bool
	pretty       bool
	logLevel     string
	logFormat    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	rootCmd := &cobra.Command{
		Use:   "csv2xlsx -i <input-dir> -o <output.xlsx>",
		Short: "Combine a folder of CSV files into one Excel workbook",
		Long: `csv2xlsx combines the CSV files in a directory into a single Excel
workbook with one sheet per file. Delimiters are detected per file unless
given explicitly.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return run(cmd, f)
	}

	fs := rootCmd.Flags()
	fs.StringVarP(&f.inputDir, "input-dir", "i", "", "Directory containing CSV files")
	fs.StringVarP(&f.outputPath, "output", "o", "", "Output Excel path (e.g., combined.xlsx)")
	fs.StringVar(&f.encoding, "encoding", reader.DefaultEncoding, "CSV encoding")
	fs.StringVar(&f.delimiter, "delimiter", "", `Delimiter override (e.g., , ; \t |); detected per file if omitted`)
	fs.BoolVarP(&f.recursive, "recursive", "r", false, "Recurse into subdirectories")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "Suppress progress output")
	fs.StringVar(&f.configPath, "config", "", "TOML config file supplying defaults")
	fs.StringArrayVar(&f.exclude, "exclude", nil, "Gitignore-style pattern of files to skip (repeatable)")
	fs.BoolVar(&f.inferTypes, "infer-types", false, "Write numeric fields as numbers")
	fs.BoolVar(&f.autoFit, "autofit", false, "Size columns to their content")
	fs.BoolVar(&f.freezeHeader, "freeze-header", false, "Keep the first row visible while scrolling")
	fs.BoolVar(&f.jsonOutput, "json", false, "Print the run result as JSON")
	fs.BoolVar(&f.pretty, "pretty", false, "Pretty-print JSON output")
	fs.StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "console", "Log format: console, json")
	_ = rootCmd.MarkFlagRequired("input-dir")
	_ = rootCmd.MarkFlagRequired("output")

	return rootCmd
}

func run(cmd *cobra.Command, f *flags) error {
	// Validate input directory exists
	if err := csv2xlsx.CheckInputDir(f.inputDir); err != nil {
		return err
	}

	// Load config, then let explicit flags win
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg, cmd.Flags(), f)
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Progress goes to stderr when stdout carries JSON
	stdout := cmd.OutOrStdout()
	logOut := stdout
	if f.jsonOutput {
		logOut = cmd.ErrOrStderr()
	}
	logger, err := newLogger(cfg, logOut)
	if err != nil {
		return err
	}

	// Convert
	opts := cfg.Options()
	opts.Logger = logger
	result, err := csv2xlsx.Combine(f.inputDir, f.outputPath, opts)
	if err != nil {
		return err
	}

	// Serialize to JSON
	if f.jsonOutput {
		jsonData, err := output.ToJSON(result, f.pretty)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		fmt.Fprintln(stdout, string(jsonData))
		return nil
	}
	if !cfg.Quiet {
		fmt.Fprintln(stdout, renderSummary(result, f.inputDir))
	}
	return nil
}

// applyFlags overrides config values with flags set on the command line.
func applyFlags(cfg *config.Config, fs *pflag.FlagSet, f *flags) {
	if fs.Changed("encoding") {
		cfg.Encoding = f.encoding
	}
	if fs.Changed("delimiter") {
		cfg.Delimiter = f.delimiter
	}
	if fs.Changed("recursive") {
		cfg.Recursive = f.recursive
	}
	if fs.Changed("quiet") {
		cfg.Quiet = f.quiet
	}
	if fs.Changed("exclude") {
		cfg.Exclude = f.exclude
	}
	if fs.Changed("infer-types") {
		cfg.InferTypes = f.inferTypes
	}
	if fs.Changed("autofit") {
		cfg.AutoFit = f.autoFit
	}
	if fs.Changed("freeze-header") {
		cfg.FreezeHeader = f.freezeHeader
	}
	if fs.Changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if fs.Changed("log-format") {
		cfg.Logging.Format = f.logFormat
	}
}

func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	if cfg.Quiet {
		return logging.Discard(), nil
	}
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: w,
		Color:  logging.IsTerminal(w),
	})
}
