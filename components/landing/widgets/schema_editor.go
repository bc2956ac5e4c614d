package widgets

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-landing/components/landing"
)

// SchemaEditor derives an editor form from a widget's JSON schema and
// coerces submitted values to the declared property types.
type SchemaEditor struct {
	Title  string
	Schema map[string]any
	// Order lists property keys in display order. Keys missing from Order
	// follow alphabetically.
	Order []string
}

var _ landing.Editor = SchemaEditor{}

// Form lists one field per schema property seeded with the current value.
func (e SchemaEditor) Form(_ context.Context, settings landing.Settings) (landing.EditorForm, error) {
	props := e.properties()
	required := e.required()
	form := landing.EditorForm{Title: e.Title}
	for _, key := range e.keys(props) {
		prop, _ := props[key].(map[string]any)
		field := landing.EditorField{
			Key:      key,
			Label:    fieldLabel(key, prop),
			Kind:     fieldKind(prop),
			Value:    settings[key],
			Options:  enumOptions(prop),
			Required: required[key],
		}
		if field.Value == nil {
			field.Value = prop["default"]
		}
		form.Fields = append(form.Fields, field)
	}
	return form, nil
}

// Apply returns current overlaid with the coerced input. Input keys the
// schema does not declare are dropped when the schema has properties.
func (e SchemaEditor) Apply(current landing.Settings, input map[string]any) (landing.Settings, error) {
	next := current.Clone()
	props := e.properties()
	for key, raw := range input {
		prop, declared := props[key].(map[string]any)
		if len(props) > 0 && !declared {
			continue
		}
		value, err := coerce(raw, prop)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", landing.ErrInvalidSettings, key, err)
		}
		if value == nil {
			delete(next, key)
			continue
		}
		next[key] = value
	}
	return next, nil
}

func (e SchemaEditor) properties() map[string]any {
	props, _ := e.Schema["properties"].(map[string]any)
	return props
}

func (e SchemaEditor) required() map[string]bool {
	out := map[string]bool{}
	switch list := e.Schema["required"].(type) {
	case []string:
		for _, key := range list {
			out[key] = true
		}
	case []any:
		for _, key := range list {
			if s, ok := key.(string); ok {
				out[s] = true
			}
		}
	}
	return out
}

func (e SchemaEditor) keys(props map[string]any) []string {
	seen := make(map[string]bool, len(props))
	keys := make([]string, 0, len(props))
	for _, key := range e.Order {
		if _, ok := props[key]; ok && !seen[key] {
			keys = append(keys, key)
			seen[key] = true
		}
	}
	rest := make([]string, 0, len(props))
	for key := range props {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func fieldLabel(key string, prop map[string]any) string {
	if title, ok := prop["title"].(string); ok && title != "" {
		return title
	}
	return key
}

func fieldKind(prop map[string]any) string {
	if len(enumOptions(prop)) > 0 {
		return "select"
	}
	switch prop["type"] {
	case "integer", "number":
		return "number"
	case "boolean":
		return "checkbox"
	case "string":
		switch prop["format"] {
		case "color":
			return "color"
		case "uri", "uri-reference":
			return "url"
		case "textarea":
			return "textarea"
		}
	}
	return "text"
}

func enumOptions(prop map[string]any) []string {
	var out []string
	switch list := prop["enum"].(type) {
	case []string:
		out = append(out, list...)
	case []any:
		for _, item := range list {
			out = append(out, fmt.Sprint(item))
		}
	}
	return out
}

// coerce converts form or JSON input to the property's declared type. An
// empty string for a non-string property clears the value.
func coerce(raw any, prop map[string]any) (any, error) {
	kind, _ := prop["type"].(string)
	str, isString := raw.(string)
	if isString && kind != "string" && kind != "" && strings.TrimSpace(str) == "" {
		return nil, nil
	}
	switch kind {
	case "integer":
		switch v := raw.(type) {
		case int:
			return v, nil
		case int64:
			return int(v), nil
		case float64:
			if v != float64(int(v)) {
				return nil, fmt.Errorf("expected integer, got %v", v)
			}
			return int(v), nil
		case json.Number:
			n, err := v.Int64()
			return int(n), err
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("expected integer, got %q", v)
			}
			return n, nil
		}
		return nil, fmt.Errorf("expected integer, got %T", raw)
	case "number":
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case json.Number:
			return v.Float64()
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("expected number, got %q", v)
			}
			return f, nil
		}
		return nil, fmt.Errorf("expected number, got %T", raw)
	case "boolean":
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "true", "on", "1", "yes":
				return true, nil
			case "false", "off", "0", "no":
				return false, nil
			}
			return nil, fmt.Errorf("expected boolean, got %q", v)
		}
		return nil, fmt.Errorf("expected boolean, got %T", raw)
	case "string":
		if isString {
			return str, nil
		}
		return fmt.Sprint(raw), nil
	default:
		return raw, nil
	}
}
