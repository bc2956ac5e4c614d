package landing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

const defaultMaxPages = 128

var errInvalidPage = errors.New("landing: page id is required")

// SessionOptions holds the collaborators shared by every page session.
// MaxPages bounds the open sessions; the least recently used page is
// closed when a new one would exceed it.
type SessionOptions struct {
	Registry    TypeRegistry
	Layouts     LayoutStore
	Validator   SettingsValidator
	Renderer    Renderer
	Confirmer   Confirmer
	Alerter     Alerter
	Telemetry   Telemetry
	IDGenerator func() string
	MaxPages    int
}

// Session bundles the store, composer and change broadcast of one page.
type Session struct {
	PageID    string
	Store     *Store
	Composer  *Composer
	Broadcast *BroadcastHook
}

func (s *Session) close() {
	s.Composer.Close()
	s.Broadcast.Close()
}

// pendingOpen lets concurrent opens of the same page share one build.
type pendingOpen struct {
	done    chan struct{}
	session *Session
	err     error
}

// Sessions keeps one editing session per page.
type Sessions struct {
	opts SessionOptions

	mu      sync.Mutex
	pages   *lru.Cache
	opening map[string]*pendingOpen
	dropped []*Session
}

// NewSessions builds a session manager. A registry is required; layouts
// default to an in-memory store.
func NewSessions(opts SessionOptions) (*Sessions, error) {
	if opts.Registry == nil {
		return nil, errMissingRegistry
	}
	if opts.Layouts == nil {
		opts.Layouts = NewMemoryLayoutStore()
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = defaultMaxPages
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)

	s := &Sessions{opts: opts, opening: make(map[string]*pendingOpen)}
	// The callback runs on the goroutine calling Add or Remove, which
	// already holds s.mu.
	pages, err := lru.NewWithEvict(opts.MaxPages, func(_, value interface{}) {
		s.dropped = append(s.dropped, value.(*Session))
	})
	if err != nil {
		return nil, fmt.Errorf("landing: sessions: %w", err)
	}
	s.pages = pages
	return s, nil
}

// Registry exposes the shared type registry.
func (s *Sessions) Registry() TypeRegistry {
	return s.opts.Registry
}

// Open returns the session for pageID, loading its persisted layout the
// first time the page is opened. Loading happens outside the lock so a
// slow page does not hold up others; concurrent opens of the same page
// wait for the first one.
func (s *Sessions) Open(ctx context.Context, pageID string) (*Session, error) {
	if pageID == "" {
		return nil, errInvalidPage
	}

	s.mu.Lock()
	if v, ok := s.pages.Get(pageID); ok {
		s.mu.Unlock()
		return v.(*Session), nil
	}
	if p, ok := s.opening[pageID]; ok {
		s.mu.Unlock()
		select {
		case <-p.done:
			return p.session, p.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	p := &pendingOpen{done: make(chan struct{})}
	s.opening[pageID] = p
	s.mu.Unlock()

	session, err := s.build(ctx, pageID)

	s.mu.Lock()
	delete(s.opening, pageID)
	if err == nil {
		s.pages.Add(pageID, session)
	}
	dropped := s.takeDropped()
	s.mu.Unlock()

	p.session, p.err = session, err
	close(p.done)
	s.closeSessions(dropped)
	if err != nil {
		return nil, err
	}
	s.opts.Telemetry.Record(ctx, "landing.session.open", map[string]any{
		"page_id": pageID,
		"widgets": len(session.Store.Widgets()),
	})
	return session, nil
}

func (s *Sessions) build(ctx context.Context, pageID string) (*Session, error) {
	store, err := NewStore(StoreOptions{
		PageID:      pageID,
		Registry:    s.opts.Registry,
		Layouts:     s.opts.Layouts,
		Validator:   s.opts.Validator,
		Telemetry:   s.opts.Telemetry,
		IDGenerator: s.opts.IDGenerator,
	})
	if err != nil {
		return nil, err
	}
	if err := store.Load(ctx); err != nil {
		return nil, err
	}
	composer, err := NewComposer(ctx, ComposerOptions{
		Store:     store,
		Registry:  s.opts.Registry,
		Renderer:  s.opts.Renderer,
		Confirmer: s.opts.Confirmer,
		Alerter:   s.opts.Alerter,
		Telemetry: s.opts.Telemetry,
	})
	if err != nil {
		return nil, fmt.Errorf("landing: open page %s: %w", pageID, err)
	}
	broadcast := NewBroadcastHook()
	store.Observe(broadcast)
	return &Session{
		PageID:    pageID,
		Store:     store,
		Composer:  composer,
		Broadcast: broadcast,
	}, nil
}

// Lookup returns an already open session and marks it recently used.
func (s *Sessions) Lookup(pageID string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.pages.Get(pageID)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

// Close drops the session for pageID and ends its change subscriptions.
// Unsaved edits are discarded. It reports whether a session was open.
func (s *Sessions) Close(pageID string) bool {
	s.mu.Lock()
	present := s.pages.Remove(pageID)
	dropped := s.takeDropped()
	s.mu.Unlock()
	s.closeSessions(dropped)
	return present
}

// Pages lists the open page ids.
func (s *Sessions) Pages() []string {
	s.mu.Lock()
	keys := s.pages.Keys()
	s.mu.Unlock()
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.(string))
	}
	sort.Strings(out)
	return out
}

func (s *Sessions) takeDropped() []*Session {
	dropped := s.dropped
	s.dropped = nil
	return dropped
}

func (s *Sessions) closeSessions(dropped []*Session) {
	for _, session := range dropped {
		session.close()
		s.opts.Telemetry.Record(context.Background(), "landing.session.close", map[string]any{"page_id": session.PageID})
	}
}
