package widgets

import (
	"fmt"

	"github.com/goliatone/go-landing/components/landing"
	"github.com/goliatone/go-landing/pkg/feeds"
)

// Dependencies are the collaborators shared by the built-in widgets.
type Dependencies struct {
	Renderer        landing.Renderer
	Feeds           feeds.Fetcher
	Cache           *landing.FeedCache[[]feeds.Record]
	Telemetry       landing.Telemetry
	ChartTheme      string
	ChartAssetsHost string
}

func (d Dependencies) telemetry() landing.Telemetry {
	if d.Telemetry == nil {
		return landing.MultiTelemetry(nil)
	}
	return d.Telemetry
}

func (d Dependencies) withRenderer() (Dependencies, error) {
	if d.Renderer != nil {
		return d, nil
	}
	renderer, err := NewTemplateRenderer()
	if err != nil {
		return d, fmt.Errorf("widgets: template renderer: %w", err)
	}
	d.Renderer = renderer
	return d, nil
}

// DefaultFeedSpecs lists the remote content widgets.
var DefaultFeedSpecs = []FeedSpec{
	{
		Type: "ngo-events", Label: "Upcoming events", Description: "Events published by the organization",
		Endpoint: "/events", Title: "Upcoming events",
		TitleField: "title", DetailField: "location", LinkField: "url", DateField: "startDate",
		EmptyText: "No upcoming events.",
	},
	{
		Type: "blog", Label: "Blog", Description: "Latest blog posts",
		Endpoint: "/posts", Title: "From the blog",
		TitleField: "title", DetailField: "summary", LinkField: "url", DateField: "publishedAt",
		EmptyText: "No posts yet.",
	},
	{
		Type: "donor-recognition", Label: "Donor recognition", Description: "Thank the people who give",
		Endpoint: "/donors", Title: "Thank you to our donors",
		TitleField: "name", DetailField: "tier",
		EmptyText: "Be the first to give.", Limit: 12,
	},
	{
		Type: "grants", Label: "Grants", Description: "Open grant opportunities",
		Endpoint: "/grants", Title: "Open grants",
		TitleField: "name", DetailField: "amount", LinkField: "url", DateField: "deadline",
		EmptyText: "No open grants right now.",
	},
	{
		Type: "careers", Label: "Careers", Description: "Open positions",
		Endpoint: "/careers", Title: "Join the team",
		TitleField: "title", DetailField: "location", LinkField: "url",
		EmptyText: "No openings at the moment.", Limit: 5,
	},
	{
		Type: "products", Label: "Products", Description: "Featured products",
		Endpoint: "/products", Title: "Shop",
		TitleField: "name", DetailField: "price", LinkField: "url",
		EmptyText: "The shop is empty.", Limit: 6,
	},
}

// RegisterDefaults registers every built-in widget type.
func RegisterDefaults(reg *landing.Registry, deps Dependencies) error {
	deps, err := deps.withRenderer()
	if err != nil {
		return err
	}
	for _, wt := range DefaultTypes(deps) {
		if err := reg.Register(wt); err != nil {
			return err
		}
	}
	return nil
}

// DefaultTypes builds the built-in widget types without registering them.
func DefaultTypes(deps Dependencies) []landing.WidgetType {
	out := []landing.WidgetType{
		staticType("hero", "Hero banner", "Headline with optional subtitle", heroSchema(), landing.Settings{
			"title":           "Welcome",
			"backgroundColor": "#ffffff",
			"titleSize":       "large",
		}, []string{"title", "subtitle", "backgroundColor", "titleSize"}, NewTemplateDisplay(deps.Renderer, "hero.html", heroPayload)),
		staticType("cta", "Call to action", "Button linking to a campaign", ctaSchema(), landing.Settings{
			"label":       "Get involved",
			"link":        "#",
			"buttonColor": "#0d6efd",
		}, []string{"label", "text", "link", "buttonColor"}, NewTemplateDisplay(deps.Renderer, "cta.html", ctaPayload)),
		staticType("booking", "Booking", "Invite visitors to book a slot", bookingSchema(), landing.Settings{
			"title": "Book a visit",
			"label": "Book now",
			"slots": 0,
		}, []string{"title", "label", "link", "slots"}, NewTemplateDisplay(deps.Renderer, "booking.html", bookingPayload)),
		{
			Name:        "impact-report",
			Label:       "Impact report",
			Description: "Chart of impact metrics",
			Category:    "content",
			Schema:      impactSchema(),
			Defaults:    landing.Settings{"title": "Our impact", "chart": "bar"},
			Display:     NewImpactDisplay(deps),
			Editor:      SchemaEditor{Title: "Impact report", Schema: impactSchema(), Order: []string{"title", "subtitle", "chart"}},
		},
	}
	for _, spec := range DefaultFeedSpecs {
		out = append(out, feedType(spec, deps))
	}
	return out
}

func staticType(name, label, description string, schema map[string]any, defaults landing.Settings, order []string, display landing.Display) landing.WidgetType {
	return landing.WidgetType{
		Name:        name,
		Label:       label,
		Description: description,
		Category:    "layout",
		Schema:      schema,
		Defaults:    defaults,
		Display:     display,
		Editor:      SchemaEditor{Title: label, Schema: schema, Order: order},
	}
}

func feedType(spec FeedSpec, deps Dependencies) landing.WidgetType {
	if spec.Limit <= 0 {
		spec.Limit = defaultFeedLimit
	}
	schema := feedSchema(spec)
	return landing.WidgetType{
		Name:        spec.Type,
		Label:       spec.Label,
		Description: spec.Description,
		Category:    "content",
		Schema:      schema,
		Defaults:    landing.Settings{"title": spec.Title, "limit": spec.Limit},
		Display:     NewFeedDisplay(spec, deps),
		Editor:      SchemaEditor{Title: spec.Label, Schema: schema, Order: []string{"title", "limit", "emptyText"}},
	}
}

func heroSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"title"},
		"properties": map[string]any{
			"title":           map[string]any{"type": "string", "title": "Headline", "minLength": 1},
			"subtitle":        map[string]any{"type": "string", "title": "Subtitle"},
			"backgroundColor": map[string]any{"type": "string", "title": "Background color", "format": "color"},
			"titleSize":       map[string]any{"type": "string", "title": "Title size", "enum": []string{"small", "medium", "large"}},
		},
	}
}

func ctaSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"label"},
		"properties": map[string]any{
			"label":       map[string]any{"type": "string", "title": "Button label", "minLength": 1},
			"text":        map[string]any{"type": "string", "title": "Text", "format": "textarea"},
			"link":        map[string]any{"type": "string", "title": "Link", "format": "uri-reference"},
			"buttonColor": map[string]any{"type": "string", "title": "Button color", "format": "color"},
		},
	}
}

func bookingSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{"type": "string", "title": "Heading"},
			"label": map[string]any{"type": "string", "title": "Button label"},
			"link":  map[string]any{"type": "string", "title": "Booking link", "format": "uri-reference"},
			"slots": map[string]any{"type": "integer", "title": "Available slots", "minimum": 0},
		},
	}
}

// KindFactory resolves manifest entries to built-in displays. Supported
// kinds are hero, cta, booking, impact-report and feed; feed entries read
// their endpoint from the entry's defaults.
func KindFactory(deps Dependencies) (landing.KindFactory, error) {
	deps, err := deps.withRenderer()
	if err != nil {
		return nil, err
	}
	return landing.KindFactoryFunc(func(entry landing.ManifestWidget) (landing.Display, landing.Editor, error) {
		schema := entry.Schema
		title := entry.Label
		if title == "" {
			title = entry.Name
		}
		switch entry.Kind {
		case "hero":
			return NewTemplateDisplay(deps.Renderer, "hero.html", heroPayload), editorFor(title, schema, heroSchema()), nil
		case "cta":
			return NewTemplateDisplay(deps.Renderer, "cta.html", ctaPayload), editorFor(title, schema, ctaSchema()), nil
		case "booking":
			return NewTemplateDisplay(deps.Renderer, "booking.html", bookingPayload), editorFor(title, schema, bookingSchema()), nil
		case "impact-report":
			return NewImpactDisplay(deps), editorFor(title, schema, impactSchema()), nil
		case "feed":
			spec := FeedSpec{
				Type:      entry.Name,
				Label:     title,
				Endpoint:  landing.Settings(entry.Defaults).String("endpoint", ""),
				Title:     landing.Settings(entry.Defaults).String("title", title),
				EmptyText: landing.Settings(entry.Defaults).String("emptyText", ""),
				Limit:     landing.Settings(entry.Defaults).Int("limit", defaultFeedLimit),
			}
			if spec.Endpoint == "" {
				return nil, nil, fmt.Errorf("widgets: feed %s requires defaults.endpoint", entry.Name)
			}
			return NewFeedDisplay(spec, deps), editorFor(title, schema, feedSchema(spec)), nil
		default:
			return nil, nil, fmt.Errorf("widgets: unknown kind %q", entry.Kind)
		}
	}), nil
}

func editorFor(title string, schema, fallback map[string]any) SchemaEditor {
	if len(schema) == 0 {
		schema = fallback
	}
	return SchemaEditor{Title: title, Schema: schema}
}
