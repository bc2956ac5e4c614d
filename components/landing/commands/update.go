package commands

import (
	"context"
	"fmt"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-landing/components/landing"
)

// UpdateWidgetInput replaces a widget's settings bag.
type UpdateWidgetInput struct {
	PageID   string
	WidgetID string
	Settings landing.Settings
}

// UpdateWidgetCommand wraps Store.UpdateWidget.
type UpdateWidgetCommand struct {
	sessions  SessionOpener
	telemetry Telemetry
}

// NewUpdateWidgetCommand builds the command.
func NewUpdateWidgetCommand(sessions SessionOpener, telemetry Telemetry) *UpdateWidgetCommand {
	return &UpdateWidgetCommand{sessions: sessions, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateWidgetInput] = (*UpdateWidgetCommand)(nil)

// Execute applies the update. Unknown widget ids are reported as
// landing.ErrWidgetNotFound so transports can answer 404.
func (c *UpdateWidgetCommand) Execute(ctx context.Context, msg UpdateWidgetInput) error {
	session, err := openSession(ctx, c.sessions, msg.PageID)
	if err != nil {
		return err
	}
	if _, ok := session.Store.Widget(msg.WidgetID); !ok {
		return fmt.Errorf("%w: %s", landing.ErrWidgetNotFound, msg.WidgetID)
	}
	if err := session.Store.UpdateWidget(ctx, landing.WidgetConfig{ID: msg.WidgetID, Settings: msg.Settings}); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "landing.command.update", map[string]any{
		"page_id":   msg.PageID,
		"widget_id": msg.WidgetID,
	})
	return nil
}
