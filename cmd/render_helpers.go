package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// printResult writes the confirmed selections to w. A single table prints as
// a flat row array; multiple tables print as one array per table.
func printResult(w io.Writer, result [][]map[string]any, format string) error {
	var payload any = result
	if len(result) == 1 {
		payload = result[0]
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(payload); err != nil {
			return err
		}
		return enc.Close()
	case "ndjson":
		enc := json.NewEncoder(w)
		for _, rows := range result {
			for _, row := range rows {
				if err := enc.Encode(row); err != nil {
					return err
				}
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want json, yaml, or ndjson)", format)
	}
}
