package commands

import (
	"context"
	"fmt"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-landing/components/landing"
)

// RemoveWidgetInput deletes a widget from a page.
type RemoveWidgetInput struct {
	PageID   string
	WidgetID string
}

// RemoveWidgetCommand routes deletes through the composer so its confirmer
// and editor bookkeeping apply.
type RemoveWidgetCommand struct {
	sessions  SessionOpener
	telemetry Telemetry
}

// NewRemoveWidgetCommand builds the command.
func NewRemoveWidgetCommand(sessions SessionOpener, telemetry Telemetry) *RemoveWidgetCommand {
	return &RemoveWidgetCommand{sessions: sessions, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RemoveWidgetInput] = (*RemoveWidgetCommand)(nil)

// Execute removes the widget.
func (c *RemoveWidgetCommand) Execute(ctx context.Context, msg RemoveWidgetInput) error {
	session, err := openSession(ctx, c.sessions, msg.PageID)
	if err != nil {
		return err
	}
	if _, ok := session.Store.Widget(msg.WidgetID); !ok {
		return fmt.Errorf("%w: %s", landing.ErrWidgetNotFound, msg.WidgetID)
	}
	if err := session.Composer.RequestDelete(ctx, msg.WidgetID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "landing.command.remove", map[string]any{
		"page_id":   msg.PageID,
		"widget_id": msg.WidgetID,
	})
	return nil
}
