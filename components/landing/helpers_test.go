package landing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubEditor struct {
	fields []string
}

func (e stubEditor) Form(_ context.Context, settings Settings) (EditorForm, error) {
	form := EditorForm{Title: "stub"}
	for _, key := range e.fields {
		form.Fields = append(form.Fields, EditorField{Key: key, Label: key, Kind: "text", Value: settings[key]})
	}
	return form, nil
}

func (stubEditor) Apply(current Settings, input map[string]any) (Settings, error) {
	next := current.Clone()
	for k, v := range input {
		next[k] = v
	}
	return next, nil
}

func textDisplay(key string) Display {
	return DisplayFunc(func(_ context.Context, rc RenderContext) (Fragment, error) {
		return Fragment(fmt.Sprintf("<p>%s:%s</p>", rc.Widget.Type, rc.Widget.Settings.String(key, ""))), nil
	})
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry()
	require.NoError(t, err)
	require.NoError(t, reg.Register(WidgetType{
		Name:     "hero",
		Label:    "Hero",
		Defaults: Settings{"title": "Welcome"},
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{"type": "string"},
			},
		},
		Display: textDisplay("title"),
		Editor:  stubEditor{fields: []string{"title"}},
	}))
	require.NoError(t, reg.Register(WidgetType{
		Name:     "cta",
		Label:    "Call to action",
		Defaults: Settings{"label": "Join"},
		Display:  textDisplay("label"),
		Editor:   stubEditor{fields: []string{"label"}},
	}))
	require.NoError(t, reg.Register(WidgetType{
		Name:  "broken",
		Label: "Broken",
		Display: DisplayFunc(func(context.Context, RenderContext) (Fragment, error) {
			return "", errors.New("feed offline")
		}),
		Editor: stubEditor{},
	}))
	reg.Seal()
	return reg
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("w%d", n)
	}
}

func newTestStore(t *testing.T, layouts LayoutStore) *Store {
	t.Helper()
	store, err := NewStore(StoreOptions{
		PageID:      "home",
		Registry:    testRegistry(t),
		Layouts:     layouts,
		IDGenerator: sequentialIDs(),
	})
	require.NoError(t, err)
	return store
}

type recordingObserver struct {
	mu      sync.Mutex
	changes []Change
}

func (r *recordingObserver) WidgetsChanged(_ context.Context, change Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, change)
}

func (r *recordingObserver) kinds() []ChangeKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ChangeKind, len(r.changes))
	for i, c := range r.changes {
		out[i] = c.Kind
	}
	return out
}

type failingLayoutStore struct {
	err error
}

func (f failingLayoutStore) SaveLayout(context.Context, string, []WidgetConfig) error {
	return f.err
}

func (f failingLayoutStore) LoadLayout(context.Context, string) ([]WidgetConfig, error) {
	return nil, f.err
}

type recordingTelemetry struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingTelemetry) has(event string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e == event {
			return true
		}
	}
	return false
}

func ids(widgets []WidgetConfig) []string {
	out := make([]string, len(widgets))
	for i, w := range widgets {
		out[i] = w.ID
	}
	return out
}
