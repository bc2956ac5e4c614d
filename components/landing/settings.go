package landing

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Settings is the free-form configuration bag of a widget instance. Its
// shape is enforced per type by the type's JSON schema.
type Settings map[string]any

// Clone deep-copies nested maps and slices.
func (s Settings) Clone() Settings {
	if s == nil {
		return Settings{}
	}
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = cloneValue(v)
	}
	return out
}

// String returns the string at key or fallback.
func (s Settings) String(key, fallback string) string {
	return stringValue(s[key], fallback)
}

// Int returns the integer at key or fallback. JSON numbers and numeric
// strings are accepted.
func (s Settings) Int(key string, fallback int) int {
	switch val := s[key].(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return n
		}
	}
	return fallback
}

// Bool returns the boolean at key or fallback.
func (s Settings) Bool(key string, fallback bool) bool {
	if _, ok := s[key]; !ok {
		return fallback
	}
	return boolValue(s[key])
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return map[string]any(Settings(val).Clone())
	case Settings:
		return val.Clone()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	default:
		return v
	}
}

func stringValue(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func boolValue(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return strings.EqualFold(val, "true") || val == "on" || val == "1"
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	default:
		return false
	}
}

func cloneWidgets(widgets []WidgetConfig) []WidgetConfig {
	out := make([]WidgetConfig, len(widgets))
	for i, w := range widgets {
		out[i] = w.Clone()
	}
	return out
}
