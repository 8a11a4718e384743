// Package picker is the embeddable API for the interactive row picker.
// Host applications hand it one or more tables of rows and get back the
// per-table selections once the user confirms.
package picker

import (
	"errors"
	"fmt"
	"io"

	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/rowpick/internal/rowset"
	"github.com/oakwood-commons/rowpick/internal/ui"
	"github.com/oakwood-commons/rowpick/internal/validate"
)

// ErrCanceled is returned when the user aborts the picker instead of
// confirming a selection.
var ErrCanceled = errors.New("selection canceled")

// SortSpec orders a table by one field before it is shown.
type SortSpec struct {
	Field      string
	Descending bool
}

// Table describes one table shown by the picker.
type Table struct {
	// Title appears in the panel's top border.
	Title string
	// Rows is the table data. Map keys become columns.
	Rows []map[string]any
	// Fields picks and orders the columns. Empty means auto-detect from
	// the first row's scalar keys.
	Fields []string
	// Widths overrides the auto-sized width of individual columns.
	Widths map[string]int
	// Sort pre-orders the rows.
	Sort []SortSpec
	// Require holds CEL expressions over the selection ("rows", "count")
	// that must all evaluate to true before the picker accepts a confirm.
	Require []string
	// RequireMsg optionally pairs a human message with each Require
	// expression.
	RequireMsg []string
	// Validate is an arbitrary Go-side check run after the Require
	// expressions pass.
	Validate func(selected []map[string]any) error
}

// Config carries picker-wide options.
type Config struct {
	// Width and Height force the layout size; zero auto-detects.
	Width  int
	Height int
	// NoColor strips all styling from the output.
	NoColor bool
	// ThemeFile points at a YAML theme to load before rendering.
	ThemeFile string
	// Logger receives debug-level event traces. Zero value discards them.
	Logger logr.Logger
}

// Run shows the picker and blocks until the user confirms or cancels.
// The result holds one slice per table, in table order, each containing
// the selected rows in their original ingestion order. A cancel returns
// ErrCanceled.
func Run(tables []Table, cfg Config, opts ...tea.ProgramOption) ([][]map[string]any, error) {
	if len(tables) == 0 {
		return nil, errors.New("no tables to pick from")
	}

	if cfg.ThemeFile != "" {
		theme, err := ui.LoadThemeFile(cfg.ThemeFile)
		if err != nil {
			return nil, fmt.Errorf("loading theme: %w", err)
		}
		ui.SetTheme(theme)
	}

	configs := make([]ui.TableConfig, len(tables))
	for i, tbl := range tables {
		c, err := toTableConfig(tbl)
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", tbl.Title, err)
		}
		configs[i] = c
	}

	configure := func(m *ui.Model) {
		if cfg.Logger.GetSink() != nil {
			m.SetLogger(cfg.Logger)
		}
	}
	m, err := ui.RunModel(configs, cfg.Width, cfg.Height, cfg.NoColor, configure, opts...)
	if err != nil {
		return nil, err
	}
	if m.Canceled() {
		return nil, ErrCanceled
	}
	return m.Result(), nil
}

func toTableConfig(tbl Table) (ui.TableConfig, error) {
	sort := make([]rowset.SortSpec, len(tbl.Sort))
	for i, s := range tbl.Sort {
		sort[i] = rowset.SortSpec{Field: s.Field, Descending: s.Descending}
	}

	rules, err := validate.CompileAll(tbl.Require, tbl.RequireMsg)
	if err != nil {
		return ui.TableConfig{}, err
	}
	check := combineValidators(validate.Func(rules), tbl.Validate)

	return ui.TableConfig{
		Title:    tbl.Title,
		Rows:     tbl.Rows,
		Fields:   tbl.Fields,
		Widths:   tbl.Widths,
		Sort:     sort,
		Validate: check,
	}, nil
}

// combineValidators runs the CEL requirements first, then the Go check.
func combineValidators(fns ...func([]map[string]any) error) func([]map[string]any) error {
	active := fns[:0]
	for _, fn := range fns {
		if fn != nil {
			active = append(active, fn)
		}
	}
	if len(active) == 0 {
		return nil
	}
	return func(rows []map[string]any) error {
		for _, fn := range active {
			if err := fn(rows); err != nil {
				return err
			}
		}
		return nil
	}
}

// DetectTerminalSize returns the best-effort terminal dimensions, falling
// back to generous defaults in non-TTY environments.
func DetectTerminalSize() (width, height int) {
	return ui.DetectTerminalSize()
}

// WithIO returns program options that redirect the picker's input and
// output, e.g. to keep stdout free for the printed result.
func WithIO(in io.Reader, out io.Writer) []tea.ProgramOption {
	return ui.WithIO(in, out)
}
