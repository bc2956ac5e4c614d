package landing

import (
	"context"
	"time"
)

// LayoutStore persists the ordered widget sequence of a page.
// Implementations must be safe for concurrent use.
type LayoutStore interface {
	SaveLayout(ctx context.Context, pageID string, widgets []WidgetConfig) error
	LoadLayout(ctx context.Context, pageID string) ([]WidgetConfig, error)
}

// TypeRegistry resolves widget type tags to their display/editor pair.
type TypeRegistry interface {
	Lookup(name string) (WidgetType, bool)
	Types() []WidgetType
}

// Observer receives every change applied to a Store.
type Observer interface {
	WidgetsChanged(ctx context.Context, change Change)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, change Change)

// WidgetsChanged calls f(ctx, change).
func (f ObserverFunc) WidgetsChanged(ctx context.Context, change Change) {
	f(ctx, change)
}

// Display renders the public half of a widget.
type Display interface {
	Render(ctx context.Context, rc RenderContext) (Fragment, error)
}

// DisplayFunc adapts a function to the Display interface.
type DisplayFunc func(ctx context.Context, rc RenderContext) (Fragment, error)

// Render calls f(ctx, rc).
func (f DisplayFunc) Render(ctx context.Context, rc RenderContext) (Fragment, error) {
	return f(ctx, rc)
}

// Editor describes and applies settings edits for a widget type. Apply must
// return the complete settings bag; the store replaces, it never merges.
type Editor interface {
	Form(ctx context.Context, settings Settings) (EditorForm, error)
	Apply(current Settings, input map[string]any) (Settings, error)
}

// Confirmer gates destructive composer actions.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(ctx context.Context, prompt string) bool

// Confirm calls f(ctx, prompt).
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// Alerter surfaces failures to whoever is editing the page.
type Alerter interface {
	Alert(ctx context.Context, pageID string, err error)
}

// Fragment is rendered HTML produced by a widget display.
type Fragment string

// WidgetConfig is one widget placed on a page.
type WidgetConfig struct {
	ID       string   `json:"id" yaml:"id"`
	Type     string   `json:"type" yaml:"type"`
	Settings Settings `json:"settings" yaml:"settings"`
}

// Clone returns a deep copy of the config.
func (c WidgetConfig) Clone() WidgetConfig {
	return WidgetConfig{ID: c.ID, Type: c.Type, Settings: c.Settings.Clone()}
}

// WidgetType pairs a display with an editor under a unique tag.
type WidgetType struct {
	Name        string         `json:"name"`
	Label       string         `json:"label"`
	Description string         `json:"description,omitempty"`
	Category    string         `json:"category,omitempty"`
	Schema      map[string]any `json:"schema,omitempty"`
	Defaults    Settings       `json:"defaults,omitempty"`
	Display     Display        `json:"-"`
	Editor      Editor         `json:"-"`
}

// RenderContext carries what a display needs to render one instance.
type RenderContext struct {
	PageID string
	Widget WidgetConfig
}

// EditorForm describes the fields an editor exposes, seeded with the
// instance's current settings.
type EditorForm struct {
	Type   string        `json:"type"`
	Title  string        `json:"title"`
	Fields []EditorField `json:"fields"`
}

// EditorField is one editable setting.
type EditorField struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Kind     string   `json:"kind"`
	Value    any      `json:"value,omitempty"`
	Options  []string `json:"options,omitempty"`
	Required bool     `json:"required,omitempty"`
}

// ChangeKind names the operation that produced a Change.
type ChangeKind string

const (
	ChangeAdd        ChangeKind = "add"
	ChangeUpdate     ChangeKind = "update"
	ChangeRemove     ChangeKind = "remove"
	ChangeReorder    ChangeKind = "reorder"
	ChangeLoad       ChangeKind = "load"
	ChangeSave       ChangeKind = "save"
	ChangeSaveFailed ChangeKind = "save_failed"
)

// Change is published to observers after every store mutation and save
// attempt. Widgets always holds the full sequence after the change.
type Change struct {
	ID       string         `json:"id"`
	PageID   string         `json:"page_id"`
	Kind     ChangeKind     `json:"kind"`
	WidgetID string         `json:"widget_id,omitempty"`
	Widgets  []WidgetConfig `json:"widgets"`
	Err      string         `json:"error,omitempty"`
	At       time.Time      `json:"at"`
}
