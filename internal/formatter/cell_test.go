package formatter

import (
	"testing"
	"time"
)

func TestStringify(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "hello", "hello"},
		{"multiline string", "line1\nline2", "line1\\nline2"},
		{"windows newlines", "a\r\nb", "a\\nb"},
		{"bool", true, "true"},
		{"int", 42, "42"},
		{"float", 3.5, "3.5"},
		{"time as ISO-8601", ts, "2024-03-09T14:30:00Z"},
		{"map as compact JSON", map[string]any{"a": 1.0}, `{"a":1}`},
		{"slice as compact JSON", []any{"x", 2.0}, `["x",2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stringify(tt.in); got != tt.want {
				t.Errorf("Stringify(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStringifyNativeTypes(t *testing.T) {
	type sample struct {
		Name string `json:"name"`
	}
	if got := Stringify(sample{Name: "n"}); got != `{"name":"n"}` {
		t.Errorf("struct = %q", got)
	}
	if got := Stringify([]string{"a", "b"}); got != `["a","b"]` {
		t.Errorf("typed slice = %q", got)
	}
}

func TestStringifyPreserveNewlines(t *testing.T) {
	if got := StringifyPreserveNewlines("a\nb"); got != "a\nb" {
		t.Errorf("got %q, want newline preserved", got)
	}
	if got := StringifyPreserveNewlines(7); got != "7" {
		t.Errorf("non-string fallback = %q", got)
	}
}
