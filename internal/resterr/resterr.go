package resterr

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Message extracts a renderable error message from a non-2xx response body.
//
// Resolution order:
//  1. a "detail" string, the backend's standard single-message shape;
//  2. a field-to-messages validation object, aggregated into one
//     multi-line "field: msg, msg" string with deterministic field order;
//  3. the fallback, when the body is absent or not parseable JSON.
func Message(body []byte, fallback string) string {
	if len(body) == 0 {
		return fallback
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || len(raw) == 0 {
		return fallback
	}

	if detail, ok := raw["detail"]; ok {
		var s string
		if err := json.Unmarshal(detail, &s); err == nil && s != "" {
			return s
		}
	}

	fields := make([]string, 0, len(raw))
	for name := range raw {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	var lines []string
	for _, name := range fields {
		var msgs []string
		if err := json.Unmarshal(raw[name], &msgs); err == nil && len(msgs) > 0 {
			lines = append(lines, fmt.Sprintf("%s: %s", name, strings.Join(msgs, ", ")))
			continue
		}
		var single string
		if err := json.Unmarshal(raw[name], &single); err == nil && single != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", name, single))
		}
	}
	if len(lines) == 0 {
		return fallback
	}

	return strings.Join(lines, "\n")
}
