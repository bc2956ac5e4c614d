package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"
)

// ReorderWidgetInput moves the widget at From to To.
type ReorderWidgetInput struct {
	PageID string
	From   int
	To     int
}

// ReorderWidgetCommand wraps Composer.Move.
type ReorderWidgetCommand struct {
	sessions  SessionOpener
	telemetry Telemetry
}

// NewReorderWidgetCommand builds the command.
func NewReorderWidgetCommand(sessions SessionOpener, telemetry Telemetry) *ReorderWidgetCommand {
	return &ReorderWidgetCommand{sessions: sessions, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ReorderWidgetInput] = (*ReorderWidgetCommand)(nil)

// Execute applies the move.
func (c *ReorderWidgetCommand) Execute(ctx context.Context, msg ReorderWidgetInput) error {
	session, err := openSession(ctx, c.sessions, msg.PageID)
	if err != nil {
		return err
	}
	if err := session.Composer.Move(ctx, msg.From, msg.To); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "landing.command.reorder", map[string]any{
		"page_id": msg.PageID,
		"from":    msg.From,
		"to":      msg.To,
	})
	return nil
}
