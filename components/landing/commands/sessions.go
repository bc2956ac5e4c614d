package commands

import (
	"context"
	"errors"

	"github.com/goliatone/go-landing/components/landing"
)

// SessionOpener resolves the editing session of a page.
type SessionOpener interface {
	Open(ctx context.Context, pageID string) (*landing.Session, error)
}

var errMissingSessions = errors.New("commands: session opener not configured")

func openSession(ctx context.Context, sessions SessionOpener, pageID string) (*landing.Session, error) {
	if sessions == nil {
		return nil, errMissingSessions
	}
	return sessions.Open(ctx, pageID)
}
