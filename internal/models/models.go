// Package models handles model-listing responses. The API's descriptor
// shape is not statically known, so records stay schema-free: the filter
// reads only the identifier fields and returns records unmodified.
package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/letta-tools/lettaq/internal/output"
)

// Record is one model descriptor as returned by the API.
type Record map[string]any

// Identifier returns the record's model identifier, trying the field
// names seen across providers: model, then id, then name.
func (r Record) Identifier() string {
	for _, key := range []string{"model", "id", "name"} {
		if v, ok := r[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// Handle returns the provider-qualified handle (e.g. "anthropic/claude-3"),
// if present.
func (r Record) Handle() string {
	if v, ok := r["handle"].(string); ok {
		return v
	}
	return ""
}

// Filter returns the subset of records whose identifier or handle contains
// substr, case-insensitively. Ordering and field values are preserved.
// An empty substr returns all records.
func Filter(records []Record, substr string) []Record {
	if substr == "" {
		return records
	}
	needle := strings.ToLower(substr)

	var matched []Record
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.Identifier()), needle) ||
			strings.Contains(strings.ToLower(rec.Handle()), needle) {
			matched = append(matched, rec)
		}
	}
	return matched
}

// Decode parses a model-listing response body. The endpoint has returned
// both a bare array and an object wrapping one under "models" or "data",
// so all three shapes are accepted.
func Decode(raw json.RawMessage) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(raw, &records); err == nil {
		return records, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, output.ErrParse(fmt.Errorf("model listing is neither an array nor an object"))
	}
	for _, key := range []string{"models", "data"} {
		if inner, ok := wrapped[key]; ok {
			if err := json.Unmarshal(inner, &records); err != nil {
				return nil, output.ErrParse(fmt.Errorf("%q is not an array of model records", key))
			}
			return records, nil
		}
	}
	return nil, output.ErrParse(fmt.Errorf("no model array found in response"))
}
