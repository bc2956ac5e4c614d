package landing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SettingsValidator validates a settings bag against its widget type.
type SettingsValidator interface {
	Validate(wt WidgetType, settings Settings) error
}

// JSONSchemaValidator compiles widget schemas once and validates settings.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures the settings satisfy the widget schema. Settings are
// round-tripped through JSON so Go ints and typed slices validate the same
// way a decoded request body would.
func (v *JSONSchemaValidator) Validate(wt WidgetType, settings Settings) error {
	if len(wt.Schema) == 0 {
		return nil
	}
	schema, err := v.schemaFor(wt)
	if err != nil {
		return err
	}
	payload := map[string]any{}
	if settings != nil {
		data, err := json.Marshal(settings)
		if err != nil {
			return fmt.Errorf("landing: marshal settings for %s: %w", wt.Name, err)
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("landing: normalize settings for %s: %w", wt.Name, err)
		}
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSettings, wt.Name, err)
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(wt WidgetType) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[wt.Name]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(wt.Schema)
	if err != nil {
		return nil, fmt.Errorf("landing: marshal schema %s: %w", wt.Name, err)
	}
	compiler := jsonschema.NewCompiler()
	name := wt.Name + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("landing: load schema %s: %w", wt.Name, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("landing: compile schema %s: %w", wt.Name, err)
	}
	v.mu.Lock()
	v.compiled[wt.Name] = compiled
	v.mu.Unlock()
	return compiled, nil
}
