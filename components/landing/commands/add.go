package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-landing/components/landing"
)

// AddWidgetInput appends a widget of Type to a page. Created receives the
// new config when set.
type AddWidgetInput struct {
	PageID  string
	Type    string
	Created *landing.WidgetConfig
}

// AddWidgetCommand wraps Store.AddWidget.
type AddWidgetCommand struct {
	sessions  SessionOpener
	telemetry Telemetry
}

// NewAddWidgetCommand builds the command.
func NewAddWidgetCommand(sessions SessionOpener, telemetry Telemetry) *AddWidgetCommand {
	return &AddWidgetCommand{sessions: sessions, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AddWidgetInput] = (*AddWidgetCommand)(nil)

// Execute adds the widget.
func (c *AddWidgetCommand) Execute(ctx context.Context, msg AddWidgetInput) error {
	session, err := openSession(ctx, c.sessions, msg.PageID)
	if err != nil {
		return err
	}
	cfg, err := session.Store.AddWidget(ctx, msg.Type)
	if err != nil {
		return err
	}
	if msg.Created != nil {
		*msg.Created = cfg
	}
	c.telemetry.Record(ctx, "landing.command.add", map[string]any{
		"page_id":   msg.PageID,
		"widget_id": cfg.ID,
		"type":      cfg.Type,
	})
	return nil
}
