package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"
)

// SaveLayoutInput persists a page's current sequence.
type SaveLayoutInput struct {
	PageID string
}

// SaveLayoutCommand wraps Composer.SaveLayout.
type SaveLayoutCommand struct {
	sessions  SessionOpener
	telemetry Telemetry
}

// NewSaveLayoutCommand builds the command.
func NewSaveLayoutCommand(sessions SessionOpener, telemetry Telemetry) *SaveLayoutCommand {
	return &SaveLayoutCommand{sessions: sessions, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SaveLayoutInput] = (*SaveLayoutCommand)(nil)

// Execute saves the layout.
func (c *SaveLayoutCommand) Execute(ctx context.Context, msg SaveLayoutInput) error {
	session, err := openSession(ctx, c.sessions, msg.PageID)
	if err != nil {
		return err
	}
	if err := session.Composer.SaveLayout(ctx); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "landing.command.save", map[string]any{"page_id": msg.PageID})
	return nil
}
