package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-landing/components/landing"
)

// SubmitEditorInput applies editor input to a widget. Updated receives the
// resulting config when set.
type SubmitEditorInput struct {
	PageID   string
	WidgetID string
	Input    map[string]any
	Updated  *landing.WidgetConfig
}

// SubmitEditorCommand submits through the open editor session, opening one
// for the widget first when a different widget (or none) is being edited.
type SubmitEditorCommand struct {
	sessions  SessionOpener
	telemetry Telemetry
}

// NewSubmitEditorCommand builds the command.
func NewSubmitEditorCommand(sessions SessionOpener, telemetry Telemetry) *SubmitEditorCommand {
	return &SubmitEditorCommand{sessions: sessions, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SubmitEditorInput] = (*SubmitEditorCommand)(nil)

// Execute submits the editor input.
func (c *SubmitEditorCommand) Execute(ctx context.Context, msg SubmitEditorInput) error {
	session, err := openSession(ctx, c.sessions, msg.PageID)
	if err != nil {
		return err
	}
	editor := session.Composer.Editing()
	if editor == nil || editor.WidgetID != msg.WidgetID {
		if editor, err = session.Composer.RequestEdit(ctx, msg.WidgetID); err != nil {
			return err
		}
	}
	cfg, err := editor.Submit(ctx, msg.Input)
	if err != nil {
		return err
	}
	if msg.Updated != nil {
		*msg.Updated = cfg
	}
	c.telemetry.Record(ctx, "landing.command.editor_submit", map[string]any{
		"page_id":   msg.PageID,
		"widget_id": msg.WidgetID,
	})
	return nil
}

// CloseEditorInput returns a page's composer to idle.
type CloseEditorInput struct {
	PageID string
}

// CloseEditorCommand wraps Composer.CloseEditor.
type CloseEditorCommand struct {
	sessions SessionOpener
}

// NewCloseEditorCommand builds the command.
func NewCloseEditorCommand(sessions SessionOpener) *CloseEditorCommand {
	return &CloseEditorCommand{sessions: sessions}
}

var _ gocommand.Commander[CloseEditorInput] = (*CloseEditorCommand)(nil)

// Execute closes the editor.
func (c *CloseEditorCommand) Execute(ctx context.Context, msg CloseEditorInput) error {
	session, err := openSession(ctx, c.sessions, msg.PageID)
	if err != nil {
		return err
	}
	session.Composer.CloseEditor()
	return nil
}
