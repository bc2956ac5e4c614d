package landing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"sync"
)

var (
	// ErrEditorClosed is returned when submitting a session that is no
	// longer the open one.
	ErrEditorClosed = errors.New("landing: editor session is closed")
	// ErrDeleteDeclined is returned when the confirmer rejects a delete.
	ErrDeleteDeclined = errors.New("landing: delete not confirmed")

	errMissingStore    = errors.New("landing: composer requires a store")
	errMissingRenderer = errors.New("landing: renderer not configured")
)

const defaultPageTemplate = "page.html"

// ComposerOptions configures a Composer.
type ComposerOptions struct {
	Store     *Store
	Registry  TypeRegistry
	Renderer  Renderer
	Confirmer Confirmer
	Alerter   Alerter
	Telemetry Telemetry
	Template  string
	Title     string
}

// RenderedWidget is one materialized widget instance.
type RenderedWidget struct {
	Config WidgetConfig
	HTML   Fragment
	Err    string
}

// Composer renders a store's sequence as a vertical stack of widgets and
// mediates editing. At most one editor session is open at a time.
type Composer struct {
	opts   ComposerOptions
	cancel func()

	mu       sync.RWMutex
	rendered []RenderedWidget
	editing  *EditorSession
}

// NewComposer renders the store's current sequence and subscribes to it.
func NewComposer(ctx context.Context, opts ComposerOptions) (*Composer, error) {
	if opts.Store == nil {
		return nil, errMissingStore
	}
	if opts.Registry == nil {
		opts.Registry = opts.Store.opts.Registry
	}
	if opts.Confirmer == nil {
		opts.Confirmer = ConfirmFunc(func(context.Context, string) bool { return true })
	}
	if opts.Template == "" {
		opts.Template = defaultPageTemplate
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	c := &Composer{opts: opts}
	c.render(ctx, opts.Store.Widgets())
	c.cancel = opts.Store.Observe(c)
	return c, nil
}

// Close detaches the composer from its store.
func (c *Composer) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

// WidgetsChanged re-renders the full sequence. Save notifications carry an
// unchanged sequence and are ignored.
func (c *Composer) WidgetsChanged(ctx context.Context, change Change) {
	switch change.Kind {
	case ChangeSave, ChangeSaveFailed:
		return
	case ChangeRemove:
		c.mu.Lock()
		if c.editing != nil && c.editing.WidgetID == change.WidgetID {
			c.editing = nil
		}
		c.mu.Unlock()
	}
	c.render(ctx, change.Widgets)
}

// Rendered returns the currently materialized widgets.
func (c *Composer) Rendered() []RenderedWidget {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]RenderedWidget, len(c.rendered))
	for i, r := range c.rendered {
		out[i] = RenderedWidget{Config: r.Config.Clone(), HTML: r.HTML, Err: r.Err}
	}
	return out
}

// Page renders the whole page through the configured Renderer.
func (c *Composer) Page(ctx context.Context) (string, error) {
	if c.opts.Renderer == nil {
		return "", errMissingRenderer
	}
	rendered := c.Rendered()
	widgets := make([]map[string]any, 0, len(rendered))
	for _, r := range rendered {
		widgets = append(widgets, map[string]any{
			"id":    r.Config.ID,
			"type":  r.Config.Type,
			"html":  string(r.HTML),
			"error": r.Err,
		})
	}
	editing := ""
	if session := c.Editing(); session != nil {
		editing = session.WidgetID
	}
	title := c.opts.Title
	if title == "" {
		title = c.opts.Store.PageID()
	}
	var buf bytes.Buffer
	if _, err := c.opts.Renderer.Render(c.opts.Template, map[string]any{
		"title":   title,
		"page_id": c.opts.Store.PageID(),
		"widgets": widgets,
		"editing": editing,
	}, &buf); err != nil {
		return "", fmt.Errorf("landing: render page %s: %w", c.opts.Store.PageID(), err)
	}
	c.opts.Telemetry.Record(ctx, "landing.page.render", map[string]any{
		"page_id": c.opts.Store.PageID(),
		"widgets": len(widgets),
	})
	return buf.String(), nil
}

// Editing returns the open editor session or nil when idle.
func (c *Composer) Editing() *EditorSession {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.editing
}

// RequestEdit opens the editor for a widget, replacing any open session.
func (c *Composer) RequestEdit(ctx context.Context, widgetID string) (*EditorSession, error) {
	widget, ok := c.opts.Store.Widget(widgetID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWidgetNotFound, widgetID)
	}
	wt, ok := c.opts.Registry.Lookup(widget.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWidgetType, widget.Type)
	}
	form, err := wt.Editor.Form(ctx, widget.Settings.Clone())
	if err != nil {
		return nil, fmt.Errorf("landing: open editor for %s: %w", widgetID, err)
	}
	session := &EditorSession{
		WidgetID: widget.ID,
		Type:     widget.Type,
		Form:     form,
		composer: c,
		editor:   wt.Editor,
		settings: widget.Settings.Clone(),
	}
	c.mu.Lock()
	c.editing = session
	c.mu.Unlock()
	c.opts.Telemetry.Record(ctx, "landing.editor.open", map[string]any{
		"widget_id": widget.ID,
		"type":      widget.Type,
	})
	return session, nil
}

// CloseEditor returns the composer to idle.
func (c *Composer) CloseEditor() {
	c.mu.Lock()
	c.editing = nil
	c.mu.Unlock()
}

// RequestDelete asks the confirmer, then removes the widget.
func (c *Composer) RequestDelete(ctx context.Context, widgetID string) error {
	if !c.opts.Confirmer.Confirm(ctx, fmt.Sprintf("Delete widget %s?", widgetID)) {
		return ErrDeleteDeclined
	}
	return c.opts.Store.RemoveWidget(ctx, widgetID)
}

// Move reorders a widget; the store notification triggers the re-render.
func (c *Composer) Move(ctx context.Context, from, to int) error {
	return c.opts.Store.Reorder(ctx, from, to)
}

// SaveLayout persists the current sequence and alerts on failure.
func (c *Composer) SaveLayout(ctx context.Context) error {
	err := c.opts.Store.SaveWidgets(ctx, c.opts.Store.Widgets())
	if err != nil && c.opts.Alerter != nil {
		c.opts.Alerter.Alert(ctx, c.opts.Store.PageID(), err)
	}
	return err
}

func (c *Composer) render(ctx context.Context, widgets []WidgetConfig) {
	rendered := make([]RenderedWidget, 0, len(widgets))
	for _, w := range widgets {
		wt, ok := c.opts.Registry.Lookup(w.Type)
		if !ok {
			c.opts.Telemetry.Record(ctx, "landing.widget.unknown_type", map[string]any{
				"widget_id": w.ID,
				"type":      w.Type,
			})
			continue
		}
		fragment, err := wt.Display.Render(ctx, RenderContext{PageID: c.opts.Store.PageID(), Widget: w})
		if err != nil {
			c.opts.Telemetry.Record(ctx, "landing.widget.render_error", map[string]any{
				"widget_id": w.ID,
				"type":      w.Type,
				"error":     err.Error(),
			})
			rendered = append(rendered, RenderedWidget{Config: w, HTML: errorFragment(wt), Err: err.Error()})
			continue
		}
		rendered = append(rendered, RenderedWidget{Config: w, HTML: fragment})
	}
	c.mu.Lock()
	c.rendered = rendered
	c.mu.Unlock()
}

func errorFragment(wt WidgetType) Fragment {
	return Fragment(fmt.Sprintf(`<div class="landing-widget__error">%s is unavailable right now.</div>`, html.EscapeString(wt.Label)))
}

// EditorSession is an open editor seeded with a widget's settings.
type EditorSession struct {
	WidgetID string
	Type     string
	Form     EditorForm

	composer *Composer
	editor   Editor
	settings Settings
}

// Submit applies editor input and replaces the widget's settings in the
// store with the full resulting bag.
func (s *EditorSession) Submit(ctx context.Context, input map[string]any) (WidgetConfig, error) {
	if s.composer.Editing() != s {
		return WidgetConfig{}, ErrEditorClosed
	}
	current, ok := s.composer.opts.Store.Widget(s.WidgetID)
	if !ok {
		return WidgetConfig{}, ErrEditorClosed
	}
	// Apply on top of the stored bag so updates made while the form was
	// open are kept.
	next, err := s.editor.Apply(current.Settings.Clone(), input)
	if err != nil {
		return WidgetConfig{}, err
	}
	cfg := WidgetConfig{ID: s.WidgetID, Type: s.Type, Settings: next}
	if err := s.composer.opts.Store.UpdateWidget(ctx, cfg); err != nil {
		return WidgetConfig{}, err
	}
	s.settings = next.Clone()
	return cfg, nil
}

// Settings returns the session's current settings.
func (s *EditorSession) Settings() Settings {
	return s.settings.Clone()
}
