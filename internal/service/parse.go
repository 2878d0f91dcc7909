package service

import (
	"encoding/json"
	"strconv"
	"strings"
)

// parseErrMessage is the fixed error value embedded when the model's
// response cannot be decoded as JSON.
const parseErrMessage = "Failed to parse JSON response"

// parseModelJSON recovers a JSON object from the model's free-text answer.
// Models routinely wrap JSON in a fenced markdown block; a block labeled
// "json" wins, then any fenced block, then the raw text. On decode failure
// it returns a payload carrying the raw response instead of failing.
func parseModelJSON(text string) (map[string]any, bool) {
	trimmed := strings.TrimSpace(text)

	jsonStr := trimmed
	if idx := strings.Index(trimmed, "```json"); idx != -1 {
		after := trimmed[idx+len("```json"):]
		if end := strings.Index(after, "```"); end != -1 {
			after = after[:end]
		}
		jsonStr = strings.TrimSpace(after)
	} else if strings.Contains(trimmed, "```") {
		parts := strings.Split(trimmed, "```")
		if len(parts) > 1 {
			jsonStr = strings.TrimSpace(parts[1])
		}
	}

	// A literal "null" decodes without error into a nil map; treat it as
	// a parse failure so callers always get a writable map.
	var result map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil || result == nil {
		return map[string]any{
			"raw_response": trimmed,
			"error":        parseErrMessage,
		}, false
	}
	return result, true
}

// subMap returns a nested object field, or an empty map when the field is
// missing, null, or not an object.
func subMap(m map[string]any, key string) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return map[string]any{}
}

// subList returns a nested array-of-objects field; entries that are not
// objects are skipped.
func subList(m map[string]any, key string) []map[string]any {
	if m == nil {
		return nil
	}
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if entry, ok := item.(map[string]any); ok {
			out = append(out, entry)
		}
	}
	return out
}

// field renders a scalar field as display text, substituting def when the
// value is missing or null. JSON numbers print without a trailing ".0".
func field(m map[string]any, key, def string) string {
	if m == nil {
		return def
	}
	v, ok := m[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return def
		}
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return def
	}
}
