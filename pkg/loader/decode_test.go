package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryDecode(t *testing.T) {
	tests := []struct {
		name string
		cell string
		ok   bool
	}{
		{"json object", `{"name":"alice","age":30}`, true},
		{"json array", `[1,2,3]`, true},
		{"yaml mapping", "name: bob\nage: 25\n", true},
		{"plain prose", "hello world", false},
		{"bare number", "42", false},
		{"bare boolean", "true", false},
		{"empty cell", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := TryDecode(tt.cell)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestTryDecodeReturnsParsedStructure(t *testing.T) {
	decoded, ok := TryDecode(`{"replicas":3}`)
	require.True(t, ok)
	m, ok := decoded.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(3), m["replicas"])
}

func TestRecursiveDecodeExpandsSerializedCells(t *testing.T) {
	row := map[string]any{
		"name":    "api-gateway",
		"payload": `{"key":"value"}`,
		"port":    8080,
	}
	m := RecursiveDecode(row).(map[string]any)

	assert.Equal(t, "api-gateway", m["name"])
	assert.Equal(t, 8080, m["port"])
	inner, ok := m["payload"].(map[string]any)
	require.True(t, ok, "serialized cell should expand into a map")
	assert.Equal(t, "value", inner["key"])
}

func TestRecursiveDecodeExpandsNestedSerialization(t *testing.T) {
	// A JSON cell whose value is itself a serialized JSON string.
	row := map[string]any{
		"outer": `{"inner":"{\"deep\":true}"}`,
	}
	m := RecursiveDecode(row).(map[string]any)
	outer := m["outer"].(map[string]any)
	inner := outer["inner"].(map[string]any)
	assert.Equal(t, true, inner["deep"])
}

func TestRecursiveDecodeWalksLists(t *testing.T) {
	cell := []any{`{"a":1}`, "plain", 42}
	arr := RecursiveDecode(cell).([]any)

	decoded, ok := arr[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), decoded["a"])
	assert.Equal(t, "plain", arr[1])
	assert.Equal(t, 42, arr[2])
}

func TestRecursiveDecodeWidensTypedContainers(t *testing.T) {
	// Host applications hand the picker typed values like annotation maps.
	row := map[string]any{
		"annotations": map[string]string{
			"payload": `{"key":"value"}`,
			"plain":   "hello",
		},
		"tags": []string{`{"a":1}`, "plain"},
	}
	m := RecursiveDecode(row).(map[string]any)

	ann, ok := m["annotations"].(map[string]any)
	require.True(t, ok, "typed map should widen to map[string]any")
	decoded := ann["payload"].(map[string]any)
	assert.Equal(t, "value", decoded["key"])
	assert.Equal(t, "hello", ann["plain"])

	tags, ok := m["tags"].([]any)
	require.True(t, ok, "typed slice should widen to []any")
	first := tags[0].(map[string]any)
	assert.Equal(t, float64(1), first["a"])
}

func TestRecursiveDecodeLeavesScalarRowsAlone(t *testing.T) {
	row := map[string]any{"name": "alice", "age": 30}
	m := RecursiveDecode(row).(map[string]any)
	assert.Equal(t, "alice", m["name"])
	assert.Equal(t, 30, m["age"])
}

func TestStructured(t *testing.T) {
	assert.True(t, structured(map[string]any{"a": 1}))
	assert.True(t, structured([]any{1, 2}))
	assert.True(t, structured(map[string]string{"a": "b"}))
	assert.False(t, structured("hello"))
	assert.False(t, structured(42))
	assert.False(t, structured(nil))
	assert.False(t, structured(true))
}
