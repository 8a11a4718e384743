package loader

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDataJSON(t *testing.T) {
	t.Run("single object", func(t *testing.T) {
		got, err := LoadData(`{"name": "test", "value": 42}`)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("single array", func(t *testing.T) {
		got, err := LoadData(`[1, 2, 3]`)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("invalid JSON falls back to YAML", func(t *testing.T) {
		got, err := LoadData(`{invalid}`)
		require.NoError(t, err)
		require.Len(t, got, 1)
		// YAML parses {invalid} as a flow mapping with a nil value
		assert.Equal(t, map[string]interface{}{"invalid": nil}, got[0])
	})
}

func TestLoadDataYAML(t *testing.T) {
	got, err := LoadData("name: test\nvalue: 42")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.IsType(t, map[string]interface{}{}, got[0])
}

func TestLoadDataMultiDocYAML(t *testing.T) {
	input := `name: Alice
age: 30
---
name: Bob
age: 25
---
name: Charlie
age: 35`

	got, err := LoadData(input)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	for _, doc := range got {
		assert.IsType(t, map[string]interface{}{}, doc)
	}
}

func TestLoadDataNDJSON(t *testing.T) {
	t.Run("one object per line", func(t *testing.T) {
		input := `{"id": 1, "message": "first"}
{"id": 2, "message": "second"}
{"id": 3, "message": "third"}`

		got, err := LoadData(input)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("blank lines are skipped", func(t *testing.T) {
		input := "{\"id\": 1}\n\n{\"id\": 2}\n\n{\"id\": 3}"
		got, err := LoadData(input)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("unparseable lines kept as strings", func(t *testing.T) {
		input := `{"id": 1}
this is a plain string line
{"id": 2}`

		got, err := LoadData(input)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "this is a plain string line", got[1])
	})

	t.Run("carriage returns split records", func(t *testing.T) {
		input := "{\"level\":\"debug\"}\r❌ error message\n{\"level\":\"info\"}"
		got, err := LoadData(input)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.IsType(t, map[string]interface{}{}, got[0])
		assert.Equal(t, "❌ error message", got[1])
	})

	t.Run("Windows CRLF line endings", func(t *testing.T) {
		input := "{\"id\":1}\r\n{\"id\":2}\r\n{\"id\":3}"
		got, err := LoadData(input)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})
}

func TestYAMLListNotMisdetectedAsNDJSON(t *testing.T) {
	input := `linters:
  enable:
    - asciicheck
    - bodyclose
    - dogsled
    - dupl
    - errcheck
    - misspell
    - nakedret
    - prealloc`

	got, err := LoadData(input)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.IsType(t, map[string]interface{}{}, got[0])
}

func TestLoadDataTOML(t *testing.T) {
	input := `title = "Sample"

[server]
host = "localhost"
port = 8080

[[users]]
name = "Alice"
roles = ["admin", "user"]

[[users]]
name = "Bob"
roles = ["user"]`

	got, err := LoadData(input)
	require.NoError(t, err)
	require.Len(t, got, 1)

	m, ok := got[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Sample", m["title"])

	server, ok := m["server"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "localhost", server["host"])
	assert.Equal(t, int64(8080), server["port"])

	users, ok := m["users"].([]any)
	require.True(t, ok)
	assert.Len(t, users, 2)
}

func TestIsLikelyTOML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{
			name: "section header",
			input: `[server]
host = "localhost"`,
			want: true,
		},
		{
			name: "array of tables",
			input: `[[items]]
name = "item1"`,
			want: true,
		},
		{
			name: "key-value assignments",
			input: `name = "test"
value = 42
enabled = true`,
			want: true,
		},
		{
			name: "YAML syntax",
			input: `name: test
value: 42`,
			want: false,
		},
		{
			name:  "JSON object",
			input: `{"name": "test"}`,
			want:  false,
		},
		{
			name: "YAML list",
			input: `- item1
- item2`,
			want: false,
		},
		{
			name: "dotted key assignment",
			input: `database.host = "localhost"
database.port = 5432`,
			want: true,
		},
		{
			name: "quoted section header",
			input: `["table name"]
key = "value"`,
			want: true,
		},
		{
			name:  "JSON array should not match",
			input: `[1, 2, 3]`,
			want:  false,
		},
		{
			name: "indented JSON-style array not mistaken for section",
			input: `            - when: arch == "2.0"
              expression: |
                ["legacy"]`,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isLikelyTOML(tt.input), "isLikelyTOML(%q)", tt.input)
		})
	}
}

func TestLoadDataEmpty(t *testing.T) {
	_, err := LoadData("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty input")
}

func TestLoadRoot(t *testing.T) {
	t.Run("single document returned unwrapped", func(t *testing.T) {
		root, err := LoadRoot(`{"name":"test"}`)
		require.NoError(t, err)
		assert.IsType(t, map[string]interface{}{}, root)
	})

	t.Run("multi-document returned as slice", func(t *testing.T) {
		root, err := LoadRoot("name: Alice\n---\nname: Bob")
		require.NoError(t, err)
		arr, ok := root.([]interface{})
		require.True(t, ok, "expected []interface{}, got %T", root)
		assert.Len(t, arr, 2)
	})
}

func TestRows(t *testing.T) {
	t.Run("JSON array of objects", func(t *testing.T) {
		rows, err := Rows(`[{"name":"alpha"},{"name":"bravo"}]`)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "alpha", rows[0]["name"])
		assert.Equal(t, "bravo", rows[1]["name"])
	})

	t.Run("NDJSON becomes one row per line", func(t *testing.T) {
		rows, err := Rows("{\"id\":1}\n{\"id\":2}")
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("multi-doc YAML becomes one row per document", func(t *testing.T) {
		rows, err := Rows("name: Alice\n---\nname: Bob")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Bob", rows[1]["name"])
	})

	t.Run("single object becomes one row", func(t *testing.T) {
		rows, err := Rows(`{"name":"solo"}`)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("scalar elements wrapped under value", func(t *testing.T) {
		rows, err := Rows(`["alpha", "bravo"]`)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "alpha", rows[0]["value"])
	})

	t.Run("TOML array of tables", func(t *testing.T) {
		input := `[[users]]
name = "Alice"

[[users]]
name = "Bob"`
		rows, err := Rows(input)
		require.NoError(t, err)
		// A single TOML document is one row holding the users table.
		require.Len(t, rows, 1)
		assert.Contains(t, rows[0], "users")
	})
}

func TestRowsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/data.yaml"
	content := []byte("- name: alpha\n- name: bravo\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	rows, err := RowsFromFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "alpha", rows[0]["name"])
}

func TestRowsFromAny(t *testing.T) {
	type service struct {
		Name string `json:"name"`
		Port int    `json:"port"`
	}

	t.Run("nil input", func(t *testing.T) {
		_, err := RowsFromAny(nil)
		require.Error(t, err)
	})

	t.Run("string delegates to format detection", func(t *testing.T) {
		rows, err := RowsFromAny(`[{"id":1}]`)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("row maps pass through", func(t *testing.T) {
		in := []map[string]any{{"name": "alpha"}}
		rows, err := RowsFromAny(in)
		require.NoError(t, err)
		assert.Equal(t, in, rows)
	})

	t.Run("struct slice converted via JSON tags", func(t *testing.T) {
		rows, err := RowsFromAny([]service{
			{Name: "api", Port: 8080},
			{Name: "worker", Port: 9090},
		})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "api", rows[0]["name"])
		assert.Equal(t, float64(8080), rows[0]["port"])
	})

	t.Run("single struct becomes one row", func(t *testing.T) {
		rows, err := RowsFromAny(service{Name: "api", Port: 8080})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "api", rows[0]["name"])
	})

	t.Run("scalar slice wrapped under value", func(t *testing.T) {
		rows, err := RowsFromAny([]string{"a", "b"})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "a", rows[0]["value"])
	})
}
