package cmd

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/rowpick/pkg/picker"
)

// tablesConfig is the YAML schema accepted by --config. Each table entry
// either names an input file or carries its rows inline.
type tablesConfig struct {
	Tables []tableEntry `yaml:"tables"`
}

type tableEntry struct {
	Title      string           `yaml:"title"`
	File       string           `yaml:"file"`
	Rows       []map[string]any `yaml:"rows"`
	Fields     []string         `yaml:"fields"`
	Widths     map[string]int   `yaml:"widths"`
	Sort       []string         `yaml:"sort"`
	Require    []string         `yaml:"require"`
	RequireMsg []string         `yaml:"require_msg"`
}

// loadTablesConfig reads a --config file and resolves every entry into a
// picker table, loading referenced files through the same ingestion path as
// positional arguments.
func loadTablesConfig(path string) ([]picker.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg tablesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", path, err)
	}
	if len(cfg.Tables) == 0 {
		return nil, fmt.Errorf("config %s defines no tables", path)
	}

	tables := make([]picker.Table, 0, len(cfg.Tables))
	for i, entry := range cfg.Tables {
		tbl, err := entry.toTable()
		if err != nil {
			return nil, fmt.Errorf("config table %d: %w", i+1, err)
		}
		tables = append(tables, tbl)
	}
	return tables, nil
}

func (e tableEntry) toTable() (picker.Table, error) {
	if e.File != "" && len(e.Rows) > 0 {
		return picker.Table{}, fmt.Errorf("set either file or rows, not both")
	}

	rows := e.Rows
	name := e.Title
	if e.File != "" {
		data, err := os.ReadFile(e.File)
		if err != nil {
			return picker.Table{}, fmt.Errorf("reading %s: %w", e.File, err)
		}
		rows, err = rowsFromInput(tableInput{name: e.File, data: data})
		if err != nil {
			return picker.Table{}, fmt.Errorf("parsing %s: %w", e.File, err)
		}
		if name == "" {
			name = e.File
		}
	}
	if len(rows) == 0 && e.File == "" {
		return picker.Table{}, fmt.Errorf("set file or rows")
	}

	sort, err := parseSortFlag(strings.Join(e.Sort, ","))
	if err != nil {
		return picker.Table{}, fmt.Errorf("sort: %w", err)
	}

	return picker.Table{
		Title:      tableTitle(e.Title, name),
		Rows:       rows,
		Fields:     e.Fields,
		Widths:     e.Widths,
		Sort:       sort,
		Require:    e.Require,
		RequireMsg: e.RequireMsg,
	}, nil
}
