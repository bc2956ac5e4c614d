package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-landing/components/landing"
)

// EditorRequest identifies the widget whose editor should open.
type EditorRequest struct {
	PageID   string
	WidgetID string
}

// EditorQuery opens the composer's editor for a widget and returns its form.
// Opening replaces any editor already open on the page.
type EditorQuery struct {
	sessions sessionOpener
}

// NewEditorQuery builds the query.
func NewEditorQuery(sessions sessionOpener) *EditorQuery {
	return &EditorQuery{sessions: sessions}
}

var _ gocommand.Querier[EditorRequest, landing.EditorForm] = (*EditorQuery)(nil)

// Query returns the editor form seeded with the widget's settings.
func (q *EditorQuery) Query(ctx context.Context, req EditorRequest) (landing.EditorForm, error) {
	session, err := open(ctx, q.sessions, req.PageID)
	if err != nil {
		return landing.EditorForm{}, err
	}
	editor, err := session.Composer.RequestEdit(ctx, req.WidgetID)
	if err != nil {
		return landing.EditorForm{}, err
	}
	form := editor.Form
	if form.Type == "" {
		form.Type = editor.Type
	}
	return form, nil
}
