package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/bda-datasets/internal/config"
	"github.com/pfrederiksen/bda-datasets/internal/dataset"
	"github.com/pfrederiksen/bda-datasets/internal/export"
	"github.com/pfrederiksen/bda-datasets/internal/football"
	"github.com/pfrederiksen/bda-datasets/internal/logger"
	"github.com/pfrederiksen/bda-datasets/internal/source"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

type importFlags struct {
	years       string
	format      string
	cachePath   string
	url         string
	skipHeader  int
	attempts    int
	sqlitePath  string
	metricsFile string
	verbose     bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bda-datasets",
		Short: "Fetch and shape datasets from Bayesian Data Analysis",
		Long: `A CLI tool to download, cache and shape the datasets used in
Bayesian Data Analysis into analysis-ready tables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newImportCmd(), newShowCmd(), newDescribeCmd(), newListCmd())
	return cmd
}

func newImportCmd() *cobra.Command {
	var f importFlags

	cmd := &cobra.Command{
		Use:   "import <dataset>",
		Short: "Import a dataset and print the resulting table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], &f)
		},
	}

	cmd.Flags().StringVar(&f.years, "years", "", "Seasons to keep, e.g. 1981,1983-1986 (default: all)")
	cmd.Flags().StringVar(&f.format, "format", "text", "Output format: text, json or csv")
	cmd.Flags().StringVar(&f.cachePath, "cache", "", "Cache file for the raw dataset")
	cmd.Flags().StringVar(&f.url, "url", "", "Remote location of the raw dataset")
	cmd.Flags().IntVar(&f.skipHeader, "skip-header", -1, "Metadata lines before the data")
	cmd.Flags().IntVar(&f.attempts, "attempts", 0, "Download attempts")
	cmd.Flags().StringVar(&f.sqlitePath, "sqlite", "", "Also write the table to this SQLite database")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
	cmd.Flags().BoolVar(&f.verbose, "verbose", false, "Enable verbose logging")

	return cmd
}

// applyFlags overlays explicitly set flags on cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config, f *importFlags) error {
	flags := cmd.Flags()
	if flags.Changed("years") {
		cfg.Years = f.years
	}
	if flags.Changed("cache") {
		cfg.CachePath = f.cachePath
	}
	if flags.Changed("url") {
		cfg.URL = f.url
	}
	if flags.Changed("skip-header") {
		cfg.SkipHeaderLines = f.skipHeader
	}
	if flags.Changed("attempts") {
		cfg.FetchAttempts = f.attempts
	}
	if f.verbose {
		cfg.LogLevel = "debug"
	}
	return cfg.Validate()
}

func parseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(s))
	if !format.Valid() {
		return "", fmt.Errorf("invalid format: %s (must be 'text', 'json' or 'csv')", s)
	}
	return format, nil
}

func runImport(cmd *cobra.Command, name string, f *importFlags) error {
	// Reject unknown datasets before config is read or any file is written.
	if _, err := dataset.Describe(name); err != nil {
		return err
	}
	format, err := parseFormat(f.format)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg, f); err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log := logger.New(level, cmd.ErrOrStderr())

	imp := dataset.New(cfg, dataset.WithLogger(log))
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	table, err := imp.Import(ctx, name)
	if f.metricsFile != "" {
		if mErr := imp.Metrics().WriteTextfile(f.metricsFile); mErr != nil {
			log.Error("Failed to write metrics", logger.Fields{"path": f.metricsFile}, mErr)
		}
	}
	if err != nil {
		return err
	}

	if f.sqlitePath != "" {
		if err := writeSQLite(ctx, f.sqlitePath, name, table); err != nil {
			return err
		}
		log.Info("Exported table", logger.Fields{"path": f.sqlitePath, "records": len(table.Records)})
	}

	return WriteOutput(cmd.OutOrStdout(), table, format, f.verbose)
}

func writeSQLite(ctx context.Context, path, name string, table *football.Table) error {
	db, err := export.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.WriteTable(ctx, name, table); err != nil {
		return fmt.Errorf("exporting to %s: %w", path, err)
	}
	return nil
}

func newShowCmd() *cobra.Command {
	var sqlitePath, format string

	cmd := &cobra.Command{
		Use:   "show <dataset>",
		Short: "Print a table previously exported with import --sqlite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if _, err := dataset.Describe(name); err != nil {
				return err
			}
			out, err := parseFormat(format)
			if err != nil {
				return err
			}
			if sqlitePath == "" {
				return errors.New("--sqlite is required")
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			table, err := readSQLite(ctx, sqlitePath, name)
			if err != nil {
				return err
			}
			return WriteOutput(cmd.OutOrStdout(), table, out, false)
		},
	}

	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite database written by import --sqlite")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or csv")

	return cmd
}

func readSQLite(ctx context.Context, path, name string) (*football.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	db, err := export.Open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	records, err := db.ReadTable(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &football.Table{Records: records, Parsed: len(records)}, nil
}

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <dataset>",
		Short: "Print the description of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dataset.Describe(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), d)
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List supported datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, n := range dataset.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

// errorKind names the failure class shown to the user.
func errorKind(err error) string {
	var exhausted *football.CatalogExhaustedError
	switch {
	case errors.Is(err, dataset.ErrUnsupportedDataset):
		return "UnsupportedDataset"
	case errors.Is(err, source.ErrSourceUnavailable):
		return "SourceUnavailable"
	case errors.As(err, &exhausted):
		return "CatalogExhausted"
	case errors.Is(err, config.ErrInvalidConfig), errors.Is(err, config.ErrLoadConfig):
		return "Config"
	default:
		return ""
	}
}

// Run executes the CLI with args and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if kind := errorKind(err); kind != "" {
			fmt.Fprintf(stderr, "Error: %s: %v\n", kind, err)
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return ExitError
	}
	return ExitSuccess
}

// Execute runs the CLI
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
