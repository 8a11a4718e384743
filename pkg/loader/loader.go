// Package loader parses table input from files, stdin, or in-process values.
//
// Input format is auto-detected: JSON, newline-delimited JSON, TOML, and
// single- or multi-document YAML are all accepted. Whatever the format, the
// result is normalized into rows, one map per row, ready to show in a table.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LoadData parses a string into documents, auto-detecting the format:
//   - single JSON object/array
//   - newline-delimited JSON (NDJSON): one JSON value per line
//   - TOML
//   - YAML: single document or multi-document (separated by ---)
//
// Every format returns []any with one element per document. Single-document
// inputs yield a one-element slice.
func LoadData(input string) ([]any, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty input")
	}

	// CLI tools overwrite progress lines with bare carriage returns, which
	// would otherwise glue two records onto one line.
	input = strings.ReplaceAll(input, "\r\n", "\n")
	input = strings.ReplaceAll(input, "\r", "\n")

	// Multi-document YAML first, it is the most restrictive shape.
	if strings.Contains(input, "\n---") || strings.HasPrefix(input, "---") {
		return loadMultiDocYAML(input)
	}

	lines := strings.Split(input, "\n")
	if len(lines) > 1 && isLikelyNDJSON(lines) {
		return loadNDJSON(input)
	}

	// Check TOML before JSON: a [section] header would otherwise parse as
	// the start of a JSON array.
	if isLikelyTOML(input) {
		return loadTOML(input)
	}

	if strings.HasPrefix(input, "{") || strings.HasPrefix(input, "[") {
		if docs, err := loadJSON(input); err == nil {
			return docs, nil
		}
		// Flow-style YAML starts with the same braces; retry before
		// rejecting the input.
	}

	return loadYAML(input)
}

// LoadRoot parses input into a single root node. Multi-document inputs are
// returned as a slice.
func LoadRoot(input string) (any, error) {
	docs, err := LoadData(input)
	if err != nil {
		return nil, err
	}
	if len(docs) == 1 {
		return docs[0], nil
	}
	return docs, nil
}

// Rows parses input and flattens the documents into table rows. A document
// that is a list contributes one row per element; a document that is a map
// is a row itself. Scalar elements are wrapped under a "value" key so they
// still render as a row.
func Rows(input string) ([]map[string]any, error) {
	docs, err := LoadData(input)
	if err != nil {
		return nil, err
	}

	var rows []map[string]any
	for _, doc := range docs {
		switch v := doc.(type) {
		case []any:
			for _, elem := range v {
				rows = append(rows, asRow(elem))
			}
		case map[string]any:
			rows = append(rows, v)
		default:
			rows = append(rows, asRow(v))
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows found in input")
	}
	return rows, nil
}

// RowsFromFile reads a file and parses it into table rows.
func RowsFromFile(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Rows(string(data))
}

// RowsFromAny converts an in-process value into table rows. Strings and byte
// slices go through format detection; slices of maps or structs become one
// row per element. Structs are converted to maps via JSON marshaling so
// their tags apply.
func RowsFromAny(value any) ([]map[string]any, error) {
	if value == nil {
		return nil, fmt.Errorf("row input is nil")
	}

	switch v := value.(type) {
	case string:
		return Rows(v)
	case []byte:
		return Rows(string(v))
	case []map[string]any:
		return v, nil
	}

	normalized, err := normalizeValue(value)
	if err != nil {
		return nil, err
	}

	switch v := normalized.(type) {
	case []any:
		rows := make([]map[string]any, 0, len(v))
		for _, elem := range v {
			rows = append(rows, asRow(elem))
		}
		return rows, nil
	case map[string]any:
		return []map[string]any{v}, nil
	default:
		return nil, fmt.Errorf("cannot build rows from %T", value)
	}
}

func asRow(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{"value": v}
}

// normalizeValue converts arbitrary Go values to JSON-compatible types.
// Standard containers and primitives pass through; structs are converted to
// maps via a JSON round trip, which respects struct tags. Slices are
// normalized recursively so structs nested in slices convert too.
func normalizeValue(value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	rv := reflect.ValueOf(value)
	kind := rv.Kind()

	if kind == reflect.Ptr {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
		kind = rv.Kind()
		value = rv.Interface()
	}

	switch kind {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.String:
		return value, nil
	case reflect.Slice, reflect.Array:
		length := rv.Len()
		normalized := make([]any, length)
		for i := 0; i < length; i++ {
			val, err := normalizeValue(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("element [%d]: %w", i, err)
			}
			normalized[i] = val
		}
		return normalized, nil
	case reflect.Map:
		if m, ok := value.(map[string]any); ok {
			return m, nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := fmt.Sprintf("%v", iter.Key().Interface())
			val, err := normalizeValue(iter.Value().Interface())
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			out[key] = val
		}
		return out, nil
	case reflect.Interface:
		return normalizeValue(rv.Interface())
	case reflect.Struct:
		data, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("cannot marshal %T to JSON: %w", value, err)
		}
		var result any
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("cannot unmarshal to standard type: %w", err)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unsupported type: %v", kind)
	}
}

// loadJSON parses a single JSON object or array and wraps it in []any
func loadJSON(input string) ([]any, error) {
	var data any
	if err := json.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return []any{data}, nil
}

// loadYAML parses a single YAML document and wraps it in []any
func loadYAML(input string) ([]any, error) {
	var data any
	if err := yaml.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return []any{data}, nil
}

// loadMultiDocYAML parses YAML with multiple documents (separated by ---)
func loadMultiDocYAML(input string) ([]any, error) {
	var results []any
	decoder := yaml.NewDecoder(strings.NewReader(input))

	for {
		var doc any
		if err := decoder.Decode(&doc); err != nil {
			if err.Error() == "EOF" {
				break
			}
			return nil, fmt.Errorf("invalid multi-document YAML: %w", err)
		}
		if doc != nil {
			results = append(results, doc)
		}
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no documents found in multi-document YAML")
	}
	return results, nil
}

// loadNDJSON parses newline-delimited JSON, one value per line. Lines that
// fail to parse are kept as plain strings.
func loadNDJSON(input string) ([]any, error) {
	lines := strings.Split(input, "\n")
	results := make([]any, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var obj any
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			results = append(results, line)
			continue
		}
		results = append(results, obj)
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no data found in input")
	}
	return results, nil
}

// isLikelyNDJSON heuristic: a majority of non-empty lines must start with
// '{' or '['. Positive matching keeps YAML list items (which lack braces)
// from being misclassified.
func isLikelyNDJSON(lines []string) bool {
	jsonCount := 0
	nonEmptyCount := 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmptyCount++

		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			jsonCount++
		}
	}

	return nonEmptyCount > 1 && jsonCount > nonEmptyCount/2
}

// isLikelyTOML heuristic: looks for [section] headers or key = value lines,
// both distinct from YAML's key: value syntax.
func isLikelyTOML(input string) bool {
	lines := strings.Split(input, "\n")

	// TOML section headers: [server], [[items]], ["table name"],
	// [database.credentials]. Excludes JSON arrays like [1, 2, 3] which
	// have spaces/commas without quotes. Anchored to column zero so quoted
	// array literals inside indented YAML blocks do not count as sections.
	sectionPattern := regexp.MustCompile(`^\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)

	// TOML key = value with bare, quoted, or dotted keys.
	keyValuePattern := regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)

	sectionCount := 0
	keyValueCount := 0
	nonEmptyCount := 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmptyCount++

		if sectionPattern.MatchString(line) {
			sectionCount++
		}
		if keyValuePattern.MatchString(line) {
			keyValueCount++
		}
	}

	if sectionCount > 0 {
		return true
	}
	if nonEmptyCount > 0 && keyValueCount > nonEmptyCount/2 {
		return true
	}
	return false
}

// loadTOML parses TOML content and wraps it in []any
func loadTOML(input string) ([]any, error) {
	var data any
	if err := toml.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	return []any{data}, nil
}
