package cmd

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/rowpick/pkg/loader"
	"github.com/oakwood-commons/rowpick/pkg/picker"
)

type tableInput struct {
	name string
	data []byte
}

// rowsFromInput parses one input into table rows. CSV is handled here by
// extension or content sniff; everything else goes through the loader's
// auto-detection (JSON, YAML, NDJSON, TOML).
func rowsFromInput(in tableInput) ([]map[string]any, error) {
	if isCSVInput(in) {
		return parseCSV(in.data)
	}
	return loader.Rows(string(in.data))
}

func isCSVInput(in tableInput) bool {
	if ext := strings.ToLower(filepath.Ext(in.name)); ext != "" {
		return ext == ".csv"
	}
	// Stdin has no extension. Sniff: a multi-column first record that YAML
	// cannot parse is treated as CSV.
	reader := csv.NewReader(bytes.NewReader(in.data))
	firstRow, err := reader.Read()
	if err != nil || len(firstRow) < 2 {
		return false
	}
	var probe any
	return yaml.Unmarshal(in.data, &probe) != nil
}

// parseCSV converts CSV data into rows keyed by the header record.
func parseCSV(data []byte) ([]map[string]any, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	headers := records[0]
	rows := make([]map[string]any, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]any, len(headers))
		for j, header := range headers {
			value := ""
			if j < len(rec) {
				value = rec[j]
			}
			row[header] = value
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// splitFields parses a comma-separated column list. Empty means auto-detect.
func splitFields(spec string) []string {
	if strings.TrimSpace(spec) == "" {
		return nil
	}
	parts := strings.Split(spec, ",")
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		if f := strings.TrimSpace(p); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// parseWidths parses "name=20,env=8" into per-column width overrides.
func parseWidths(spec string) (map[string]int, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}
	widths := make(map[string]int)
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, val, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("expected column=width, got %q", part)
		}
		w, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil || w < 1 {
			return nil, fmt.Errorf("invalid width %q for column %q", val, name)
		}
		widths[strings.TrimSpace(name)] = w
	}
	return widths, nil
}

// parseSortFlag parses "name" / "name:asc" / "name:desc", comma-separated
// for multiple keys.
func parseSortFlag(spec string) ([]picker.SortSpec, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}
	var out []picker.SortSpec
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		field, dir, _ := strings.Cut(part, ":")
		s := picker.SortSpec{Field: strings.TrimSpace(field)}
		switch strings.ToLower(strings.TrimSpace(dir)) {
		case "", "asc", "ascending":
		case "desc", "descending":
			s.Descending = true
		default:
			return nil, fmt.Errorf("sort direction %q, want asc or desc", dir)
		}
		if s.Field == "" {
			return nil, fmt.Errorf("sort spec %q has no field", part)
		}
		out = append(out, s)
	}
	return out, nil
}
