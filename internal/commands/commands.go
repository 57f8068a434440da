// Package commands implements the CLI commands.
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"

	"github.com/letta-tools/lettaq/internal/output"
)

// applyJQ runs a gojq expression over a JSON document and returns the
// result: a single value when the query yields one, an array otherwise.
func applyJQ(raw json.RawMessage, expr string) (any, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, output.ErrUsageHint("Invalid --jq expression", err.Error())
	}

	var input any
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, output.ErrParse(err)
	}

	var results []any
	iter := query.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, output.ErrUsageHint("--jq evaluation failed", err.Error())
		}
		results = append(results, v)
	}

	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return results, nil
	}
}

// dataSummary generates a short summary for an arbitrary JSON payload.
func dataSummary(raw json.RawMessage) string {
	var arr []any
	if err := json.Unmarshal(raw, &arr); err == nil {
		if len(arr) == 1 {
			return "1 item"
		}
		return fmt.Sprintf("%d items", len(arr))
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "API response"
	}
	for _, key := range []string{"name", "id", "status"} {
		if v, ok := obj[key].(string); ok && v != "" {
			if len(v) > 50 {
				v = v[:47] + "..."
			}
			return v
		}
	}
	return "API response"
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
