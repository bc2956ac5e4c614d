package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"
)

// SessionCloser drops the editing session of a page.
type SessionCloser interface {
	Close(pageID string) bool
}

// ClosePageInput ends a page's editing session. Unsaved edits are lost.
type ClosePageInput struct {
	PageID string
}

// ClosePageCommand wraps Sessions.Close.
type ClosePageCommand struct {
	sessions  SessionCloser
	telemetry Telemetry
}

// NewClosePageCommand builds the command.
func NewClosePageCommand(sessions SessionCloser, telemetry Telemetry) *ClosePageCommand {
	return &ClosePageCommand{sessions: sessions, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ClosePageInput] = (*ClosePageCommand)(nil)

// Execute closes the session. Closing a page that is not open is a no-op.
func (c *ClosePageCommand) Execute(ctx context.Context, msg ClosePageInput) error {
	if c.sessions == nil {
		return errMissingSessions
	}
	if c.sessions.Close(msg.PageID) {
		c.telemetry.Record(ctx, "landing.command.close_page", map[string]any{"page_id": msg.PageID})
	}
	return nil
}
