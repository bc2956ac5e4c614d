package widgets

import (
	"context"
	"fmt"

	"github.com/goliatone/go-landing/components/landing"
	"github.com/goliatone/go-landing/pkg/feeds"
)

const (
	publishedStatus  = "Published"
	defaultFeedLimit = 3
	maxFeedLimit     = 24
	feedTemplate     = "feed.html"
)

// FeedSpec describes how a remote content widget maps backend records to
// list items.
type FeedSpec struct {
	Type        string
	Label       string
	Description string
	Endpoint    string
	Title       string
	TitleField  string
	DetailField string
	LinkField   string
	DateField   string
	EmptyText   string
	Limit       int
}

// FeedItem is one rendered list entry.
type FeedItem struct {
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
	Link   string `json:"link,omitempty"`
	Date   string `json:"date,omitempty"`
}

// FeedDisplay fetches records for a widget instance, keeps the published
// ones and renders the first N. Fetch failures render the widget's error
// state instead of failing the page.
type FeedDisplay struct {
	spec      FeedSpec
	fetcher   feeds.Fetcher
	cache     *landing.FeedCache[[]feeds.Record]
	renderer  landing.Renderer
	telemetry landing.Telemetry
}

var _ landing.Display = (*FeedDisplay)(nil)

// NewFeedDisplay wires a feed display. cache may be nil.
func NewFeedDisplay(spec FeedSpec, deps Dependencies) *FeedDisplay {
	if spec.TitleField == "" {
		spec.TitleField = "title"
	}
	if spec.EmptyText == "" {
		spec.EmptyText = "Nothing to show yet."
	}
	if spec.Limit <= 0 {
		spec.Limit = defaultFeedLimit
	}
	return &FeedDisplay{
		spec:      spec,
		fetcher:   deps.Feeds,
		cache:     deps.Cache,
		renderer:  deps.Renderer,
		telemetry: deps.telemetry(),
	}
}

// Render implements landing.Display.
func (d *FeedDisplay) Render(ctx context.Context, rc landing.RenderContext) (landing.Fragment, error) {
	settings := rc.Widget.Settings
	endpoint := settings.String("endpoint", d.spec.Endpoint)
	limit := settings.Int("limit", d.spec.Limit)
	data := map[string]any{
		"id":         rc.Widget.ID,
		"type":       rc.Widget.Type,
		"title":      settings.String("title", d.spec.Title),
		"empty_text": settings.String("emptyText", d.spec.EmptyText),
		"state":      "ready",
		"items":      []FeedItem{},
	}
	records, err := d.fetch(ctx, endpoint)
	if err != nil {
		d.telemetry.Record(ctx, "landing.feed.error", map[string]any{
			"page_id":   rc.PageID,
			"widget_id": rc.Widget.ID,
			"endpoint":  endpoint,
			"error":     err.Error(),
		})
		data["state"] = "error"
	} else {
		data["items"] = d.items(records, limit)
	}
	html, err := d.renderer.Render(feedTemplate, data)
	if err != nil {
		return "", fmt.Errorf("widgets: render %s: %w", rc.Widget.Type, err)
	}
	return landing.Fragment(html), nil
}

func (d *FeedDisplay) fetch(ctx context.Context, endpoint string) ([]feeds.Record, error) {
	if d.fetcher == nil {
		return nil, fmt.Errorf("widgets: no feed client for %s", endpoint)
	}
	load := func() ([]feeds.Record, error) {
		return d.fetcher.FetchRecords(ctx, endpoint)
	}
	if d.cache == nil {
		return load()
	}
	return d.cache.GetOrLoad(landing.FeedKey(endpoint, nil), load)
}

func (d *FeedDisplay) items(records []feeds.Record, limit int) []FeedItem {
	if limit <= 0 {
		limit = d.spec.Limit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	published := FilterPublished(records)
	if len(published) > limit {
		published = published[:limit]
	}
	items := make([]FeedItem, 0, len(published))
	for _, record := range published {
		items = append(items, FeedItem{
			Title:  record.String(d.spec.TitleField, "Untitled"),
			Detail: fieldOrEmpty(record, d.spec.DetailField),
			Link:   fieldOrEmpty(record, d.spec.LinkField),
			Date:   fieldOrEmpty(record, d.spec.DateField),
		})
	}
	return items
}

// FilterPublished keeps records whose status is Published. Records without
// a status field are kept.
func FilterPublished(records []feeds.Record) []feeds.Record {
	out := make([]feeds.Record, 0, len(records))
	for _, record := range records {
		if status, ok := record["status"]; ok && status != publishedStatus {
			continue
		}
		out = append(out, record)
	}
	return out
}

func fieldOrEmpty(record feeds.Record, key string) string {
	if key == "" {
		return ""
	}
	if v, ok := record[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return ""
}

func feedSchema(spec FeedSpec) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":     map[string]any{"type": "string", "title": "Heading"},
			"limit":     map[string]any{"type": "integer", "title": "Items to show", "minimum": 1, "maximum": maxFeedLimit, "default": spec.Limit},
			"emptyText": map[string]any{"type": "string", "title": "Empty message"},
			"endpoint":  map[string]any{"type": "string", "title": "Endpoint", "format": "uri-reference"},
		},
	}
}
