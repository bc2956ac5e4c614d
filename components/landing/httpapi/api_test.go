package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-landing/components/landing"
	"github.com/goliatone/go-landing/pkg/metrics"
)

type pageRenderer struct{}

func (pageRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	payload, _ := data.(map[string]any)
	html := fmt.Sprintf("<main data-page=%q>%d widgets</main>", payload["page_id"], len(payload["widgets"].([]map[string]any)))
	for _, w := range out {
		if _, err := io.WriteString(w, html); err != nil {
			return "", err
		}
	}
	return html, nil
}

type mergeEditor struct{}

func (mergeEditor) Form(_ context.Context, settings landing.Settings) (landing.EditorForm, error) {
	return landing.EditorForm{Title: "Hero", Fields: []landing.EditorField{{Key: "title", Kind: "text", Value: settings["title"]}}}, nil
}

func (mergeEditor) Apply(current landing.Settings, input map[string]any) (landing.Settings, error) {
	next := current.Clone()
	for k, v := range input {
		next[k] = v
	}
	return next, nil
}

type brokenLayouts struct{}

func (brokenLayouts) SaveLayout(context.Context, string, []landing.WidgetConfig) error {
	return errors.New("backend unavailable")
}

func (brokenLayouts) LoadLayout(context.Context, string) ([]landing.WidgetConfig, error) {
	return nil, nil
}

func newTestApp(t *testing.T, layouts landing.LayoutStore, metricsHandler http.Handler) *fiber.App {
	t.Helper()
	reg, err := landing.NewRegistry()
	require.NoError(t, err)
	require.NoError(t, reg.Register(landing.WidgetType{
		Name:     "hero",
		Label:    "Hero",
		Category: "layout",
		Defaults: landing.Settings{"title": "Welcome"},
		Display: landing.DisplayFunc(func(_ context.Context, rc landing.RenderContext) (landing.Fragment, error) {
			return landing.Fragment("<h1>" + rc.Widget.Settings.String("title", "") + "</h1>"), nil
		}),
		Editor: mergeEditor{},
	}))
	reg.Seal()
	n := 0
	sessions, err := landing.NewSessions(landing.SessionOptions{
		Registry: reg,
		Layouts:  layouts,
		Renderer: pageRenderer{},
		IDGenerator: func() string {
			n++
			return fmt.Sprintf("w%d", n)
		},
	})
	require.NoError(t, err)
	app, err := NewApp(Config{Sessions: sessions, Metrics: metricsHandler})
	require.NoError(t, err)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func TestAddWidgetRoute(t *testing.T) {
	app := newTestApp(t, nil, nil)

	resp, body := doJSON(t, app, http.MethodPost, "/pages/home/widgets", map[string]string{"type": "hero"})

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "w1", body["id"])
	assert.Equal(t, "hero", body["type"])
}

func TestAddWidgetUnknownTypeIs422(t *testing.T) {
	app := newTestApp(t, nil, nil)

	resp, body := doJSON(t, app, http.MethodPost, "/pages/home/widgets", map[string]string{"type": "carousel"})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body["error"], "unknown widget type")
}

func TestWidgetLifecycleRoutes(t *testing.T) {
	app := newTestApp(t, nil, nil)
	doJSON(t, app, http.MethodPost, "/pages/home/widgets", map[string]string{"type": "hero"})
	doJSON(t, app, http.MethodPost, "/pages/home/widgets", map[string]string{"type": "hero"})

	resp, _ := doJSON(t, app, http.MethodPut, "/pages/home/widgets/w1", map[string]any{"settings": map[string]any{"title": "Edited"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/pages/home/widgets/reorder", map[string]int{"from": 0, "to": 1})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/pages/home/widgets", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	widgets := body["widgets"].([]any)
	require.Len(t, widgets, 2)
	last := widgets[1].(map[string]any)
	assert.Equal(t, "w1", last["id"])
	assert.Equal(t, "Edited", last["settings"].(map[string]any)["title"])

	resp, _ = doJSON(t, app, http.MethodDelete, "/pages/home/widgets/w1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/pages/home/widgets/w1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateUnknownWidgetIs404(t *testing.T) {
	app := newTestApp(t, nil, nil)

	resp, _ := doJSON(t, app, http.MethodPut, "/pages/home/widgets/ghost", map[string]any{"settings": map[string]any{}})

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEditorRoutes(t *testing.T) {
	app := newTestApp(t, nil, nil)
	doJSON(t, app, http.MethodPost, "/pages/home/widgets", map[string]string{"type": "hero"})

	resp, form := doJSON(t, app, http.MethodGet, "/pages/home/widgets/w1/editor", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hero", form["type"])

	resp, updated := doJSON(t, app, http.MethodPost, "/pages/home/widgets/w1/editor", map[string]any{"title": "From editor"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "From editor", updated["settings"].(map[string]any)["title"])

	resp, _ = doJSON(t, app, http.MethodDelete, "/pages/home/editor", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestSaveRoute(t *testing.T) {
	layouts := landing.NewMemoryLayoutStore()
	app := newTestApp(t, layouts, nil)
	doJSON(t, app, http.MethodPost, "/pages/home/widgets", map[string]string{"type": "hero"})

	resp, _ := doJSON(t, app, http.MethodPost, "/pages/home/save", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	stored, err := layouts.LoadLayout(context.Background(), "home")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestSaveFailureIs502(t *testing.T) {
	app := newTestApp(t, brokenLayouts{}, nil)
	doJSON(t, app, http.MethodPost, "/pages/home/widgets", map[string]string{"type": "hero"})

	resp, body := doJSON(t, app, http.MethodPost, "/pages/home/save", nil)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body["error"], "backend unavailable")
}

func TestPageRoute(t *testing.T) {
	app := newTestApp(t, nil, nil)
	doJSON(t, app, http.MethodPost, "/pages/home/widgets", map[string]string{"type": "hero"})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/pages/home", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Equal(t, `<main data-page="home">1 widgets</main>`, string(raw))
}

func TestClosePageRouteDiscardsUnsavedEdits(t *testing.T) {
	app := newTestApp(t, nil, nil)
	doJSON(t, app, http.MethodPost, "/pages/home/widgets", map[string]string{"type": "hero"})
	resp, _ := doJSON(t, app, http.MethodPost, "/pages/home/save", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doJSON(t, app, http.MethodPost, "/pages/home/widgets", map[string]string{"type": "hero"})

	resp, _ = doJSON(t, app, http.MethodDelete, "/pages/home", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodDelete, "/pages/home", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/pages/home/widgets", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	widgets := body["widgets"].([]any)
	require.Len(t, widgets, 1)
	assert.Equal(t, "w1", widgets[0].(map[string]any)["id"])
}

func TestWidgetTypesRoute(t *testing.T) {
	app := newTestApp(t, nil, nil)

	resp, body := doJSON(t, app, http.MethodGet, "/widget-types", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	types := body["types"].([]any)
	require.Len(t, types, 1)
	assert.Equal(t, "hero", types[0].(map[string]any)["name"])
}

func TestWebSocketRequiresUpgrade(t *testing.T) {
	app := newTestApp(t, nil, nil)

	resp, _ := doJSON(t, app, http.MethodGet, "/pages/home/ws", nil)

	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}

func TestMetricsRoute(t *testing.T) {
	tel := metrics.New()
	tel.Record(context.Background(), "landing.widget.add", nil)
	app := newTestApp(t, nil, tel.Handler())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `landing_events_total{event="landing.widget.add"} 1`)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadGateway, statusFor(fmt.Errorf("%w: %w", landing.ErrSaveFailed, errors.New("x"))))
	assert.Equal(t, http.StatusConflict, statusFor(landing.ErrDeleteDeclined))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(landing.ErrInvalidSettings))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}

func TestRegisterRequiresSessions(t *testing.T) {
	require.Error(t, Register(fiber.New(), Config{}))
}
