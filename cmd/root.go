package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/rowpick/pkg/logger"
	"github.com/oakwood-commons/rowpick/pkg/picker"
	"github.com/oakwood-commons/rowpick/pkg/settings"
)

// errShowHelp is returned when no input is provided and help should be shown.
var errShowHelp = errors.New("no input provided")

var (
	tableTitles  []string
	fieldSpecs   []string
	widthSpecs   []string
	sortFlags    []string
	requireExprs []string
	requireMsgs  []string

	configFile   string
	outputFormat string
	themeFile    string
	noColor      bool
	logLevel     int8
	layoutWidth  int
	layoutHeight int
)

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName + " [file...]",
	Short: "interactive row picker for tabular data",
	Long: `rowpick renders one table per input (JSON, YAML, NDJSON, TOML, or CSV)
and lets you scroll, filter, sort, and select rows interactively. On confirm
it prints the selected rows of every table to stdout.

Per-table flags (--title, --fields, --widths, --sort, --require) repeat once
per input, in input order.`,
	Example: `  kubectl get pods -o json | rowpick --fields metadata.name
  rowpick hosts.csv regions.yaml --require 'count >= 1' --require-msg 'pick a host'
  rowpick services.json --sort name:desc --output yaml
  rowpick --config tables.yaml`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	rootCmd.Flags().StringArrayVar(&tableTitles, "title", nil, "panel title for the matching input (default: file name)")
	rootCmd.Flags().StringArrayVar(&fieldSpecs, "fields", nil, "comma-separated columns for the matching input (default: auto-detect)")
	rootCmd.Flags().StringArrayVar(&widthSpecs, "widths", nil, "column width overrides for the matching input, e.g. name=20,env=8")
	rootCmd.Flags().StringArrayVar(&sortFlags, "sort", nil, "sort spec for the matching input, e.g. name or name:desc")
	rootCmd.Flags().StringArrayVar(&requireExprs, "require", nil, "CEL expression over the selection ('rows', 'count') that must hold on confirm")
	rootCmd.Flags().StringArrayVar(&requireMsgs, "require-msg", nil, "message shown when the matching --require expression fails")
	rootCmd.Flags().StringVar(&configFile, "config", "", "YAML file defining the tables (replaces file arguments and per-table flags)")
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "json", "output format: json|yaml|ndjson")
	rootCmd.Flags().StringVar(&themeFile, "theme-file", "", "path to a YAML theme file")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable color output")
	rootCmd.Flags().Int8Var(&logLevel, "log-level", 0, "minimum log level (-1 debug, 0 info, 1 warn)")
	rootCmd.Flags().IntVar(&layoutWidth, "width", 0, "layout width in columns (default: detect)")
	rootCmd.Flags().IntVar(&layoutHeight, "height", 0, "layout height in rows (default: detect)")
	rootCmd.Version = cliVersionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if errors.Is(err, errShowHelp) {
		_ = rootCmd.Help()
		return nil
	}
	return err
}

func runRoot(cmd *cobra.Command, args []string) error {
	lgr := logger.Get(logLevel)
	ctx := logger.WithLogger(cmd.Context(), lgr)

	tables, err := buildTables(ctx, args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	opts, cleanup := getProgramOptions(ctx)
	defer cleanup()

	// When stdin carried the data, results go to stdout while the TUI
	// runs on the reopened terminal, so piping stays composable.
	result, err := picker.Run(tables, picker.Config{
		Width:     layoutWidth,
		Height:    layoutHeight,
		NoColor:   noColor,
		ThemeFile: themeFile,
		Logger:    *lgr,
	}, opts...)
	if err != nil {
		if errors.Is(err, picker.ErrCanceled) {
			lgr.V(1).Info("selection canceled")
		}
		return err
	}

	return printResult(cmd.OutOrStdout(), result, outputFormat)
}

// buildTables turns every input into one picker table, pairing the repeated
// per-table flags with inputs by position.
func buildTables(ctx context.Context, args []string, stdin io.Reader) ([]picker.Table, error) {
	lgr := logger.FromContext(ctx)
	if configFile != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("--config cannot be combined with file arguments")
		}
		return loadTablesConfig(configFile)
	}

	var inputs []tableInput
	if len(args) == 0 {
		if !stdinIsPiped() {
			return nil, errShowHelp
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		inputs = append(inputs, tableInput{name: "stdin", data: data})
	} else {
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", path, err)
			}
			inputs = append(inputs, tableInput{name: path, data: data})
		}
	}

	pick := func(specs []string, i int) string {
		if i < len(specs) {
			return specs[i]
		}
		return ""
	}

	tables := make([]picker.Table, 0, len(inputs))
	for i, in := range inputs {
		rows, err := rowsFromInput(in)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", in.name, err)
		}
		lgr.V(1).Info("loaded table", "input", in.name, "rows", len(rows))

		widths, err := parseWidths(pick(widthSpecs, i))
		if err != nil {
			return nil, fmt.Errorf("--widths for %s: %w", in.name, err)
		}
		sort, err := parseSortFlag(pick(sortFlags, i))
		if err != nil {
			return nil, fmt.Errorf("--sort for %s: %w", in.name, err)
		}

		tbl := picker.Table{
			Title:  tableTitle(pick(tableTitles, i), in.name),
			Rows:   rows,
			Fields: splitFields(pick(fieldSpecs, i)),
			Widths: widths,
			Sort:   sort,
		}
		if expr := pick(requireExprs, i); expr != "" {
			tbl.Require = []string{expr}
			if msg := pick(requireMsgs, i); msg != "" {
				tbl.RequireMsg = []string{msg}
			}
		}
		tables = append(tables, tbl)
	}
	return tables, nil
}

func cliVersionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s)",
		settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime)
}

func tableTitle(flag, name string) string {
	if flag != "" {
		return flag
	}
	base := name
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	return base
}
