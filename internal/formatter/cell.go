// Package formatter converts arbitrary row values into display strings and
// provides the ANSI-aware text utilities used by the panel renderers.
package formatter

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Stringify returns a compact single-line representation for an arbitrary cell
// value. Composite values marshal to compact JSON so they stay readable in a
// single column.
func Stringify(v any) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return escapeScalarString(t)
	case bool, int, int64, float64:
		return fmt.Sprint(t)
	case time.Time:
		return t.Format(time.RFC3339)
	case map[string]any, []any:
		if b, err := json.Marshal(t); err == nil {
			return string(b)
		}
		return fmt.Sprintf("%v", t)
	default:
		// Reflection fallback so embedded callers passing native Go types
		// (structs, typed slices/maps) get JSON output instead of Go's
		// default fmt representation like "map[key:value]".
		rv := reflect.ValueOf(v)
		switch rv.Kind() { //nolint:exhaustive // only composite types need JSON marshaling
		case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
			if b, err := json.Marshal(v); err == nil {
				return string(b)
			}
		case reflect.Ptr:
			if !rv.IsNil() {
				elem := rv.Elem()
				if elem.Kind() == reflect.Struct || elem.Kind() == reflect.Map || elem.Kind() == reflect.Slice {
					if b, err := json.Marshal(v); err == nil {
						return string(b)
					}
				}
			}
		}
		return fmt.Sprintf("%v", v)
	}
}

// StringifyPreserveNewlines keeps real line breaks for scalar strings (used in
// the preview panel where multiline values should stay readable). Non-string
// types fall back to Stringify.
func StringifyPreserveNewlines(v any) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return normalizeScalarString(t, false)
	default:
		return Stringify(v)
	}
}

// escapeScalarString flattens control characters so table rows stay single-line.
func escapeScalarString(s string) string {
	return normalizeScalarString(s, true)
}

// normalizeScalarString prepares scalar strings for display. When
// escapeNewlines is true, newline characters are rendered as literal "\n" so
// rows stay single-line; otherwise real line breaks are preserved while
// carriage returns are normalized away.
func normalizeScalarString(s string, escapeNewlines bool) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if escapeNewlines && strings.Contains(s, "\n") {
		s = strings.ReplaceAll(s, "\n", "\\n")
	}
	return s
}
