package landing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSchemaValidator(t *testing.T) {
	validator := NewJSONSchemaValidator()
	wt := WidgetType{
		Name: "blog",
		Schema: map[string]any{
			"type":     "object",
			"required": []any{"limit"},
			"properties": map[string]any{
				"limit": map[string]any{"type": "integer", "minimum": 1, "maximum": 12},
			},
		},
	}

	require.NoError(t, validator.Validate(wt, Settings{"limit": 3}))
	assert.ErrorIs(t, validator.Validate(wt, Settings{"limit": 50}), ErrInvalidSettings)
	assert.ErrorIs(t, validator.Validate(wt, Settings{}), ErrInvalidSettings)
	assert.ErrorIs(t, validator.Validate(wt, nil), ErrInvalidSettings)
}

func TestJSONSchemaValidatorWithoutSchema(t *testing.T) {
	validator := NewJSONSchemaValidator()
	require.NoError(t, validator.Validate(WidgetType{Name: "free"}, Settings{"anything": true}))
}

func TestSettingsAccessors(t *testing.T) {
	settings := Settings{
		"title":  "Hi",
		"limit":  float64(4),
		"count":  "7",
		"show":   "on",
		"nested": map[string]any{"a": []any{"x"}},
	}

	assert.Equal(t, "Hi", settings.String("title", "x"))
	assert.Equal(t, "x", settings.String("missing", "x"))
	assert.Equal(t, 4, settings.Int("limit", 1))
	assert.Equal(t, 7, settings.Int("count", 1))
	assert.Equal(t, 1, settings.Int("title", 1))
	assert.True(t, settings.Bool("show", false))
	assert.True(t, settings.Bool("missing", true))

	clone := settings.Clone()
	clone["nested"].(map[string]any)["a"].([]any)[0] = "y"
	assert.Equal(t, "x", settings["nested"].(map[string]any)["a"].([]any)[0])
}
