package widgets

import (
	"context"
	"fmt"

	"github.com/goliatone/go-landing/components/landing"
)

// TemplateDisplay renders settings through a named fragment template.
type TemplateDisplay struct {
	renderer landing.Renderer
	template string
	payload  func(landing.Settings) map[string]any
}

var _ landing.Display = (*TemplateDisplay)(nil)

// NewTemplateDisplay builds a display for template name. payload maps an
// instance's settings to template data.
func NewTemplateDisplay(renderer landing.Renderer, name string, payload func(landing.Settings) map[string]any) *TemplateDisplay {
	return &TemplateDisplay{renderer: renderer, template: name, payload: payload}
}

// Render implements landing.Display.
func (d *TemplateDisplay) Render(_ context.Context, rc landing.RenderContext) (landing.Fragment, error) {
	data := d.payload(rc.Widget.Settings)
	data["id"] = rc.Widget.ID
	data["type"] = rc.Widget.Type
	html, err := d.renderer.Render(d.template, data)
	if err != nil {
		return "", fmt.Errorf("widgets: render %s: %w", d.template, err)
	}
	return landing.Fragment(html), nil
}

func heroPayload(s landing.Settings) map[string]any {
	return map[string]any{
		"title":            s.String("title", "Welcome"),
		"subtitle":         s.String("subtitle", ""),
		"background_color": s.String("backgroundColor", "#ffffff"),
		"title_size":       s.String("titleSize", "large"),
	}
}

func ctaPayload(s landing.Settings) map[string]any {
	return map[string]any{
		"label":        s.String("label", "Get involved"),
		"text":         s.String("text", ""),
		"link":         s.String("link", "#"),
		"button_color": s.String("buttonColor", "#0d6efd"),
	}
}

func bookingPayload(s landing.Settings) map[string]any {
	return map[string]any{
		"title": s.String("title", "Book a visit"),
		"label": s.String("label", "Book now"),
		"link":  s.String("link", "#"),
		"slots": s.Int("slots", 0),
	}
}
