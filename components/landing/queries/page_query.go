package queries

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-landing/components/landing"
)

type sessionOpener interface {
	Open(ctx context.Context, pageID string) (*landing.Session, error)
}

var errMissingSessions = errors.New("queries: session opener not configured")

func open(ctx context.Context, sessions sessionOpener, pageID string) (*landing.Session, error) {
	if sessions == nil {
		return nil, errMissingSessions
	}
	return sessions.Open(ctx, pageID)
}

// PageRequest identifies a page.
type PageRequest struct {
	PageID string
}

// PageView is a rendered page.
type PageView struct {
	PageID  string
	HTML    string
	Widgets []landing.RenderedWidget
}

// PageQuery renders a page through its composer.
type PageQuery struct {
	sessions sessionOpener
}

// NewPageQuery builds the query.
func NewPageQuery(sessions sessionOpener) *PageQuery {
	return &PageQuery{sessions: sessions}
}

var _ gocommand.Querier[PageRequest, PageView] = (*PageQuery)(nil)

// Query renders the page.
func (q *PageQuery) Query(ctx context.Context, req PageRequest) (PageView, error) {
	session, err := open(ctx, q.sessions, req.PageID)
	if err != nil {
		return PageView{}, err
	}
	html, err := session.Composer.Page(ctx)
	if err != nil {
		return PageView{}, err
	}
	return PageView{PageID: req.PageID, HTML: html, Widgets: session.Composer.Rendered()}, nil
}

// WidgetsQuery lists a page's current widget sequence.
type WidgetsQuery struct {
	sessions sessionOpener
}

// NewWidgetsQuery builds the query.
func NewWidgetsQuery(sessions sessionOpener) *WidgetsQuery {
	return &WidgetsQuery{sessions: sessions}
}

var _ gocommand.Querier[PageRequest, []landing.WidgetConfig] = (*WidgetsQuery)(nil)

// Query returns a copy of the sequence.
func (q *WidgetsQuery) Query(ctx context.Context, req PageRequest) ([]landing.WidgetConfig, error) {
	session, err := open(ctx, q.sessions, req.PageID)
	if err != nil {
		return nil, err
	}
	return session.Store.Widgets(), nil
}
