package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/goliatone/go-landing/components/landing"
	"github.com/goliatone/go-landing/components/landing/commands"
)

// Config wires the landing routes onto a Fiber router.
type Config struct {
	Sessions   *landing.Sessions
	Handlers   *Handlers
	Telemetry  commands.Telemetry
	Metrics    http.Handler
	Middleware []fiber.Handler
	BasePath   string
}

// NewApp builds a Fiber app with the landing routes mounted.
func NewApp(cfg Config) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
			return c.Status(status).JSON(fiber.Map{"error": err.Error()})
		},
	})
	for _, mw := range cfg.Middleware {
		app.Use(mw)
	}
	if err := Register(app, cfg); err != nil {
		return nil, err
	}
	return app, nil
}

// Register mounts page, widget, editor, type catalog, WebSocket and
// metrics routes.
func Register(r fiber.Router, cfg Config) error {
	if r == nil {
		return errors.New("httpapi: router is required")
	}
	if cfg.Sessions == nil {
		return errors.New("httpapi: sessions are required")
	}
	h := cfg.Handlers
	if h == nil {
		h = NewHandlers(cfg.Sessions, cfg.Telemetry)
	}

	if cfg.Metrics != nil {
		r.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	group := r
	if cfg.BasePath != "" && cfg.BasePath != "/" {
		group = r.Group(cfg.BasePath)
	}

	group.Get("/widget-types", h.listTypes)

	group.Get("/pages/:page", h.getPage)
	group.Delete("/pages/:page", h.closePage)
	pages := group.Group("/pages/:page")
	pages.Get("/widgets", h.listWidgets)
	pages.Post("/widgets", h.addWidget)
	pages.Post("/widgets/reorder", h.reorderWidgets)
	pages.Put("/widgets/:id", h.updateWidget)
	pages.Delete("/widgets/:id", h.removeWidget)
	pages.Get("/widgets/:id/editor", h.openEditor)
	pages.Post("/widgets/:id/editor", h.submitEditor)
	pages.Delete("/editor", h.closeEditor)
	pages.Post("/save", h.saveLayout)

	pages.Get("/ws", requireUpgrade, websocket.New(streamChanges(cfg.Sessions)))
	return nil
}

func requireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// streamChanges pushes every store change of the page to the socket until
// either side goes away.
func streamChanges(sessions *landing.Sessions) func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		session, err := sessions.Open(context.Background(), conn.Params("page"))
		if err != nil {
			_ = conn.WriteJSON(fiber.Map{"error": err.Error()})
			return
		}
		changes, cancel := session.Broadcast.Subscribe()
		defer cancel()

		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case change, ok := <-changes:
				if !ok {
					return
				}
				if err := conn.WriteJSON(change); err != nil {
					return
				}
			case <-closed:
				return
			}
		}
	}
}
