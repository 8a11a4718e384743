package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetTableFlags(t *testing.T) {
	t.Helper()
	tableTitles = nil
	fieldSpecs = nil
	widthSpecs = nil
	sortFlags = nil
	requireExprs = nil
	requireMsgs = nil
	configFile = ""
	t.Cleanup(func() {
		tableTitles = nil
		fieldSpecs = nil
		widthSpecs = nil
		sortFlags = nil
		requireExprs = nil
		requireMsgs = nil
		configFile = ""
	})
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestBuildTablesFromFiles(t *testing.T) {
	resetTableFlags(t)
	hosts := writeTempFile(t, "hosts.json", `[{"name": "api"}, {"name": "db"}]`)
	regions := writeTempFile(t, "regions.csv", "region\neu-west-1\nus-east-1\n")

	tables, err := buildTables(context.Background(), []string{hosts, regions}, nil)
	require.NoError(t, err)
	require.Len(t, tables, 2)

	assert.Equal(t, "hosts.json", tables[0].Title)
	assert.Len(t, tables[0].Rows, 2)
	assert.Equal(t, "regions.csv", tables[1].Title)
	assert.Equal(t, "eu-west-1", tables[1].Rows[0]["region"])
}

func TestBuildTablesPairsFlagsByPosition(t *testing.T) {
	resetTableFlags(t)
	tableTitles = []string{"Hosts"}
	fieldSpecs = []string{"name,env"}
	widthSpecs = []string{"name=20"}
	sortFlags = []string{"name:desc"}
	requireExprs = []string{"count >= 1", "count <= 2"}
	requireMsgs = []string{"pick a host"}

	hosts := writeTempFile(t, "hosts.json", `[{"name": "api", "env": "prod"}]`)
	regions := writeTempFile(t, "regions.json", `[{"region": "eu"}]`)

	tables, err := buildTables(context.Background(), []string{hosts, regions}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Hosts", tables[0].Title)
	assert.Equal(t, []string{"name", "env"}, tables[0].Fields)
	assert.Equal(t, map[string]int{"name": 20}, tables[0].Widths)
	require.Len(t, tables[0].Sort, 1)
	assert.True(t, tables[0].Sort[0].Descending)
	assert.Equal(t, []string{"count >= 1"}, tables[0].Require)
	assert.Equal(t, []string{"pick a host"}, tables[0].RequireMsg)

	// The second table gets defaults plus its own require expression.
	assert.Equal(t, "regions.json", tables[1].Title)
	assert.Nil(t, tables[1].Fields)
	assert.Equal(t, []string{"count <= 2"}, tables[1].Require)
	assert.Nil(t, tables[1].RequireMsg)
}

func TestBuildTablesStdin(t *testing.T) {
	resetTableFlags(t)
	restore := stdinIsPiped
	stdinIsPiped = func() bool { return true }
	t.Cleanup(func() { stdinIsPiped = restore })

	stdin := strings.NewReader(`{"name": "api"}` + "\n" + `{"name": "db"}` + "\n")
	tables, err := buildTables(context.Background(), nil, stdin)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "stdin", tables[0].Title)
	assert.Len(t, tables[0].Rows, 2)
}

func TestBuildTablesNoInputShowsHelp(t *testing.T) {
	resetTableFlags(t)
	restore := stdinIsPiped
	stdinIsPiped = func() bool { return false }
	t.Cleanup(func() { stdinIsPiped = restore })

	_, err := buildTables(context.Background(), nil, strings.NewReader(""))
	assert.ErrorIs(t, err, errShowHelp)
}

func TestBuildTablesMissingFile(t *testing.T) {
	resetTableFlags(t)
	_, err := buildTables(context.Background(), []string{"/does/not/exist.json"}, nil)
	assert.Error(t, err)
}

func TestTableTitle(t *testing.T) {
	assert.Equal(t, "Hosts", tableTitle("Hosts", "ignored.json"))
	assert.Equal(t, "hosts.json", tableTitle("", "/data/hosts.json"))
	assert.Equal(t, "stdin", tableTitle("", "stdin"))
}

func TestPrintResultJSONSingleTableUnwraps(t *testing.T) {
	var buf bytes.Buffer
	result := [][]map[string]any{{{"name": "api"}}}
	require.NoError(t, printResult(&buf, result, "json"))

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "api", rows[0]["name"])
}

func TestPrintResultJSONMultiTableNests(t *testing.T) {
	var buf bytes.Buffer
	result := [][]map[string]any{
		{{"name": "api"}},
		{{"region": "eu"}},
	}
	require.NoError(t, printResult(&buf, result, "json"))

	var nested [][]map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &nested))
	require.Len(t, nested, 2)
	assert.Equal(t, "eu", nested[1][0]["region"])
}

func TestPrintResultYAML(t *testing.T) {
	var buf bytes.Buffer
	result := [][]map[string]any{{{"name": "api"}}}
	require.NoError(t, printResult(&buf, result, "yaml"))
	assert.Contains(t, buf.String(), "name: api")
}

func TestPrintResultNDJSONFlattens(t *testing.T) {
	var buf bytes.Buffer
	result := [][]map[string]any{
		{{"name": "api"}, {"name": "db"}},
		{{"region": "eu"}},
	}
	require.NoError(t, printResult(&buf, result, "ndjson"))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 3)
}

func TestPrintResultUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, printResult(&buf, nil, "csv"))
}
