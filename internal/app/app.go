package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/goliatone/go-landing/components/landing"
	"github.com/goliatone/go-landing/components/landing/httpapi"
	"github.com/goliatone/go-landing/components/landing/widgets"
	"github.com/goliatone/go-landing/internal/config"
	"github.com/goliatone/go-landing/pkg/feeds"
	"github.com/goliatone/go-landing/pkg/layoutstore/httpstore"
	"github.com/goliatone/go-landing/pkg/layoutstore/redisstore"
	"github.com/goliatone/go-landing/pkg/layoutstore/sqlitestore"
	"github.com/goliatone/go-landing/pkg/logger"
	"github.com/goliatone/go-landing/pkg/metrics"
)

// App is a fully wired landing page builder server.
type App struct {
	Config   config.Config
	Registry *landing.Registry
	Sessions *landing.Sessions
	Metrics  *metrics.Telemetry
	HTTP     *fiber.App

	closers []func() error
}

// Option customizes Build.
type Option func(*options)

type options struct {
	pageRenderer   landing.Renderer
	widgetRenderer landing.Renderer
	feeds          feeds.Fetcher
}

// WithRenderers replaces the embedded page and widget template renderers.
func WithRenderers(page, widget landing.Renderer) Option {
	return func(o *options) {
		o.pageRenderer = page
		o.widgetRenderer = widget
	}
}

// WithFeeds replaces the HTTP feed client.
func WithFeeds(f feeds.Fetcher) Option {
	return func(o *options) {
		o.feeds = f
	}
}

// Build assembles registry, layout store, feeds, sessions and the Fiber app
// from cfg.
func Build(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	a := &App{Config: cfg}

	var telemetry landing.MultiTelemetry
	telemetry = append(telemetry, logger.Telemetry{})
	if cfg.Metrics {
		a.Metrics = metrics.New()
		telemetry = append(telemetry, a.Metrics)
	}

	fetcher, err := buildFeeds(cfg.Feeds, o.feeds)
	if err != nil {
		return nil, err
	}
	cache, err := landing.NewFeedCache[[]feeds.Record](cfg.Feeds.CacheSize, cfg.Feeds.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("app: feed cache: %w", err)
	}

	deps := widgets.Dependencies{
		Renderer:        o.widgetRenderer,
		Feeds:           fetcher,
		Cache:           cache,
		Telemetry:       telemetry,
		ChartTheme:      cfg.Chart.Theme,
		ChartAssetsHost: cfg.Chart.AssetsHost,
	}
	if a.Registry, err = BuildRegistry(cfg.Manifest, deps); err != nil {
		return nil, err
	}

	layouts, closer, err := OpenLayoutStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}

	pageRenderer := o.pageRenderer
	if pageRenderer == nil {
		if pageRenderer, err = landing.NewTemplateRenderer(); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("app: page renderer: %w", err)
		}
	}
	a.Sessions, err = landing.NewSessions(landing.SessionOptions{
		Registry:  a.Registry,
		Layouts:   layouts,
		Renderer:  pageRenderer,
		Alerter:   logger.Alerter{},
		Telemetry: telemetry,
		MaxPages:  cfg.MaxSessions,
	})
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	httpCfg := httpapi.Config{
		Sessions:   a.Sessions,
		Telemetry:  telemetry,
		Middleware: []fiber.Handler{logger.FiberLogger()},
	}
	if a.Metrics != nil {
		httpCfg.Metrics = a.Metrics.Handler()
	}
	if a.HTTP, err = httpapi.NewApp(httpCfg); err != nil {
		_ = a.Close()
		return nil, err
	}

	logger.Info("Landing builder ready", map[string]interface{}{
		"store":   cfg.Store.Backend,
		"types":   len(a.Registry.Types()),
		"metrics": cfg.Metrics,
	})
	return a, nil
}

// Listen serves HTTP on the configured address until Close is called.
func (a *App) Listen() error {
	return a.HTTP.Listen(a.Config.Addr)
}

// Close shuts the server down and releases store connections.
func (a *App) Close() error {
	var errs []error
	if a.HTTP != nil {
		if err := a.HTTP.Shutdown(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, closer := range a.closers {
		if err := closer(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func buildFeeds(cfg config.FeedConfig, override feeds.Fetcher) (feeds.Fetcher, error) {
	if override != nil {
		return override, nil
	}
	if cfg.BaseURL == "" {
		logger.Warn("No feed base URL configured, feed widgets will show their error state", nil)
		return nil, nil
	}
	client, err := feeds.NewHTTPClient(feeds.HTTPConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("app: feeds client: %w", err)
	}
	return client, nil
}

// BuildRegistry registers the built-in widget types plus any manifest
// entries, then seals the registry.
func BuildRegistry(manifest string, deps widgets.Dependencies) (*landing.Registry, error) {
	reg, err := landing.NewRegistry()
	if err != nil {
		return nil, err
	}
	if err := widgets.RegisterDefaults(reg, deps); err != nil {
		return nil, err
	}
	if manifest != "" {
		factory, err := widgets.KindFactory(deps)
		if err != nil {
			return nil, err
		}
		if _, err := reg.LoadManifestFile(manifest, factory); err != nil {
			return nil, err
		}
	}
	reg.Seal()
	return reg, nil
}

// OpenLayoutStore opens the configured persistence backend. The returned
// closer is nil when the backend holds no connection.
func OpenLayoutStore(ctx context.Context, cfg config.StoreConfig) (landing.LayoutStore, func() error, error) {
	switch cfg.Backend {
	case config.StoreMemory, "":
		return landing.NewMemoryLayoutStore(), nil, nil
	case config.StoreSQLite:
		store, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("app: sqlite store: %w", err)
		}
		return store, store.Close, nil
	case config.StoreHTTP:
		store, err := httpstore.New(httpstore.Config{
			BaseURL: cfg.HTTPBaseURL,
			APIKey:  cfg.HTTPAPIKey,
			Timeout: cfg.HTTPTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("app: http store: %w", err)
		}
		return store, nil, nil
	case config.StoreRedis:
		store, client, err := redisstore.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, redisstore.Options{Prefix: cfg.RedisPrefix})
		if err != nil {
			return nil, nil, fmt.Errorf("app: redis store: %w", err)
		}
		return store, client.Close, nil
	default:
		return nil, nil, fmt.Errorf("app: unknown store backend %q", cfg.Backend)
	}
}
