package loader

import (
	"fmt"
	"reflect"
)

// maxExpandDepth bounds the recursive expansion of serialized cells. A cell
// whose decoded value contains yet another serialized string keeps expanding
// until this depth.
const maxExpandDepth = 20

// TryDecode parses a string cell as serialized data (JSON, YAML, TOML,
// NDJSON). It returns the decoded structure and true only when the result is
// a map or a slice; scalars and plain prose report false so ordinary text
// cells stay untouched.
func TryDecode(value string) (any, bool) {
	if value == "" {
		return nil, false
	}
	parsed, err := LoadRoot(value)
	if err != nil {
		return nil, false
	}
	if !structured(parsed) {
		return nil, false
	}
	return parsed, true
}

// RecursiveDecode expands every serialized string leaf in a row value into
// its parsed structure. The preview popup runs object cells through this so
// a JSON blob stored inside a YAML field still renders as nested fields.
func RecursiveDecode(node any) any {
	return expand(node, 0)
}

func expand(node any, depth int) any {
	if depth > maxExpandDepth {
		return node
	}

	switch v := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = expand(val, depth+1)
		}
		return out

	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = expand(val, depth+1)
		}
		return out

	case string:
		if decoded, ok := TryDecode(v); ok {
			return expand(decoded, depth+1)
		}
		return v
	}

	return expandTyped(node, depth)
}

// expandTyped widens typed containers (map[string]string, []int, pointers)
// into map[string]any / []any while expanding their leaves. Host applications
// hand the picker rows with such values directly; file inputs never produce
// them.
func expandTyped(node any, depth int) any {
	if node == nil {
		return nil
	}

	rv := reflect.ValueOf(node)
	switch rv.Kind() {
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := fmt.Sprintf("%v", iter.Key().Interface())
			out[key] = expand(iter.Value().Interface(), depth+1)
		}
		return out

	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = expand(rv.Index(i).Interface(), depth+1)
		}
		return out

	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return expand(rv.Elem().Interface(), depth+1)
	}

	return node
}

// structured reports whether v is a map or slice of any element type.
func structured(v any) bool {
	if v == nil {
		return false
	}
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	kind := reflect.ValueOf(v).Kind()
	return kind == reflect.Map || kind == reflect.Slice
}
