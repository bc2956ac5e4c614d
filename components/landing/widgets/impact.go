package widgets

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/goliatone/go-landing/components/landing"
	"github.com/goliatone/go-landing/pkg/feeds"
)

const (
	impactTemplate     = "impact.html"
	defaultChartHeight = "320px"
	defaultImpactPath  = "/impact"
)

// ImpactDisplay charts impact metrics (label/value records) with go-echarts.
type ImpactDisplay struct {
	feed       *FeedDisplay
	renderer   landing.Renderer
	telemetry  landing.Telemetry
	theme      string
	assetsHost string
}

var _ landing.Display = (*ImpactDisplay)(nil)

// NewImpactDisplay wires the impact report display.
func NewImpactDisplay(deps Dependencies) *ImpactDisplay {
	theme := deps.ChartTheme
	if theme == "" {
		theme = types.ThemeWesteros
	}
	return &ImpactDisplay{
		feed:       NewFeedDisplay(FeedSpec{Type: "impact-report", Endpoint: defaultImpactPath}, deps),
		renderer:   deps.Renderer,
		telemetry:  deps.telemetry(),
		theme:      theme,
		assetsHost: deps.ChartAssetsHost,
	}
}

// Render implements landing.Display.
func (d *ImpactDisplay) Render(ctx context.Context, rc landing.RenderContext) (landing.Fragment, error) {
	settings := rc.Widget.Settings
	endpoint := settings.String("endpoint", defaultImpactPath)
	title := settings.String("title", "Our impact")
	data := map[string]any{
		"id":         rc.Widget.ID,
		"type":       rc.Widget.Type,
		"title":      title,
		"empty_text": settings.String("emptyText", "Impact figures are on their way."),
		"chart_html": "",
	}
	records, err := d.feed.fetch(ctx, endpoint)
	if err != nil {
		d.telemetry.Record(ctx, "landing.feed.error", map[string]any{
			"page_id":   rc.PageID,
			"widget_id": rc.Widget.ID,
			"endpoint":  endpoint,
			"error":     err.Error(),
		})
	} else if points := impactPoints(FilterPublished(records)); len(points) > 0 {
		chartHTML, err := d.renderChart(settings.String("chart", "bar"), title, settings.String("subtitle", ""), points)
		if err != nil {
			return "", fmt.Errorf("widgets: chart %s: %w", rc.Widget.ID, err)
		}
		data["chart_html"] = chartHTML
	}
	html, err := d.renderer.Render(impactTemplate, data)
	if err != nil {
		return "", fmt.Errorf("widgets: render %s: %w", rc.Widget.Type, err)
	}
	return landing.Fragment(html), nil
}

// ImpactPoint is one labelled metric.
type ImpactPoint struct {
	Label string
	Value float64
}

func impactPoints(records []feeds.Record) []ImpactPoint {
	points := make([]ImpactPoint, 0, len(records))
	for i, record := range records {
		label := record.String("label", record.String("name", fmt.Sprintf("Item %d", i+1)))
		points = append(points, ImpactPoint{Label: label, Value: record.Float("value", 0)})
	}
	return points
}

func (d *ImpactDisplay) renderChart(kind, title, subtitle string, points []ImpactPoint) (string, error) {
	labels := make([]string, len(points))
	for i, p := range points {
		labels[i] = p.Label
	}
	switch kind {
	case "line":
		line := charts.NewLine()
		line.SetGlobalOptions(d.globalOptions(title, subtitle)...)
		line.SetXAxis(labels)
		data := make([]opts.LineData, len(points))
		for i, p := range points {
			data[i] = opts.LineData{Name: p.Label, Value: p.Value}
		}
		line.AddSeries(title, data)
		line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		return renderChart(line)
	case "bar", "":
		bar := charts.NewBar()
		bar.SetGlobalOptions(d.globalOptions(title, subtitle)...)
		bar.SetXAxis(labels)
		data := make([]opts.BarData, len(points))
		for i, p := range points {
			data[i] = opts.BarData{Name: p.Label, Value: p.Value}
		}
		bar.AddSeries(title, data)
		return renderChart(bar)
	default:
		return "", fmt.Errorf("unsupported chart type: %s", kind)
	}
}

func (d *ImpactDisplay) globalOptions(title, subtitle string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  d.theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if d.assetsHost != "" {
		initOpts.AssetsHost = d.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func impactSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":     map[string]any{"type": "string", "title": "Heading"},
			"subtitle":  map[string]any{"type": "string", "title": "Subtitle"},
			"chart":     map[string]any{"type": "string", "title": "Chart", "enum": []string{"bar", "line"}},
			"emptyText": map[string]any{"type": "string", "title": "Empty message"},
			"endpoint":  map[string]any{"type": "string", "title": "Endpoint", "format": "uri-reference"},
		},
	}
}
