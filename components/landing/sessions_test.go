package landing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionsOpenLoadsLayout(t *testing.T) {
	ctx := context.Background()
	layouts := NewMemoryLayoutStore()
	require.NoError(t, layouts.SaveLayout(ctx, "home", []WidgetConfig{
		{ID: "a", Type: "hero", Settings: Settings{"title": "Hi"}},
	}))
	sessions, err := NewSessions(SessionOptions{Registry: testRegistry(t), Layouts: layouts})
	require.NoError(t, err)

	session, err := sessions.Open(ctx, "home")
	require.NoError(t, err)

	assert.Equal(t, "home", session.PageID)
	assert.Len(t, session.Store.Widgets(), 1)
	assert.Len(t, session.Composer.Rendered(), 1)

	again, err := sessions.Open(ctx, "home")
	require.NoError(t, err)
	assert.Same(t, session, again)
}

func TestSessionsArePerPage(t *testing.T) {
	ctx := context.Background()
	sessions, err := NewSessions(SessionOptions{Registry: testRegistry(t)})
	require.NoError(t, err)

	home, err := sessions.Open(ctx, "home")
	require.NoError(t, err)
	about, err := sessions.Open(ctx, "about")
	require.NoError(t, err)
	_, err = home.Store.AddWidget(ctx, "hero")
	require.NoError(t, err)

	assert.Len(t, home.Store.Widgets(), 1)
	assert.Empty(t, about.Store.Widgets())
	assert.Equal(t, []string{"about", "home"}, sessions.Pages())
}

func TestSessionsBroadcastChanges(t *testing.T) {
	ctx := context.Background()
	sessions, err := NewSessions(SessionOptions{Registry: testRegistry(t)})
	require.NoError(t, err)
	session, err := sessions.Open(ctx, "home")
	require.NoError(t, err)
	ch, cancel := session.Broadcast.Subscribe()
	defer cancel()

	_, err = session.Store.AddWidget(ctx, "cta")
	require.NoError(t, err)

	select {
	case change := <-ch:
		assert.Equal(t, ChangeAdd, change.Kind)
		require.Len(t, change.Widgets, 1)
	default:
		t.Fatalf("expected broadcast change")
	}
}

func TestSessionsClose(t *testing.T) {
	ctx := context.Background()
	telemetry := &recordingTelemetry{}
	sessions, err := NewSessions(SessionOptions{Registry: testRegistry(t), Telemetry: telemetry})
	require.NoError(t, err)
	_, err = sessions.Open(ctx, "home")
	require.NoError(t, err)

	sessions.Close("home")
	sessions.Close("home")

	_, ok := sessions.Lookup("home")
	assert.False(t, ok)
	closes := 0
	for _, e := range telemetry.events {
		if e == "landing.session.close" {
			closes++
		}
	}
	assert.Equal(t, 1, closes)
}

func TestSessionsOpenErrors(t *testing.T) {
	ctx := context.Background()
	_, err := NewSessions(SessionOptions{})
	require.Error(t, err)

	sessions, err := NewSessions(SessionOptions{
		Registry: testRegistry(t),
		Layouts:  failingLayoutStore{err: errors.New("timeout")},
	})
	require.NoError(t, err)
	_, err = sessions.Open(ctx, "")
	require.Error(t, err)
	_, err = sessions.Open(ctx, "home")
	require.Error(t, err)
	assert.Empty(t, sessions.Pages())
}

type blockingLayouts struct {
	*MemoryLayoutStore
	slowPage string
	entered  chan struct{}
	release  chan struct{}
}

func (b blockingLayouts) LoadLayout(ctx context.Context, pageID string) ([]WidgetConfig, error) {
	if pageID == b.slowPage {
		close(b.entered)
		<-b.release
	}
	return b.MemoryLayoutStore.LoadLayout(ctx, pageID)
}

func TestSessionsSlowPageDoesNotBlockOthers(t *testing.T) {
	ctx := context.Background()
	layouts := blockingLayouts{
		MemoryLayoutStore: NewMemoryLayoutStore(),
		slowPage:          "slow",
		entered:           make(chan struct{}),
		release:           make(chan struct{}),
	}
	sessions, err := NewSessions(SessionOptions{Registry: testRegistry(t), Layouts: layouts})
	require.NoError(t, err)

	slowDone := make(chan error, 1)
	go func() {
		_, err := sessions.Open(ctx, "slow")
		slowDone <- err
	}()
	<-layouts.entered

	fastDone := make(chan error, 1)
	go func() {
		_, err := sessions.Open(ctx, "fast")
		fastDone <- err
	}()
	select {
	case err := <-fastDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatalf("open of fast page waited on slow page")
	}
	_, ok := sessions.Lookup("fast")
	assert.True(t, ok)

	close(layouts.release)
	require.NoError(t, <-slowDone)
	assert.Equal(t, []string{"fast", "slow"}, sessions.Pages())
}

func TestSessionsConcurrentOpenSharesSession(t *testing.T) {
	ctx := context.Background()
	sessions, err := NewSessions(SessionOptions{Registry: testRegistry(t)})
	require.NoError(t, err)

	const n = 8
	var wg sync.WaitGroup
	results := make([]*Session, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			session, err := sessions.Open(ctx, "home")
			assert.NoError(t, err)
			results[i] = session
		}(i)
	}
	wg.Wait()

	for _, session := range results {
		assert.Same(t, results[0], session)
	}
}

func TestSessionsEvictLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	telemetry := &recordingTelemetry{}
	sessions, err := NewSessions(SessionOptions{Registry: testRegistry(t), Telemetry: telemetry, MaxPages: 2})
	require.NoError(t, err)

	home, err := sessions.Open(ctx, "home")
	require.NoError(t, err)
	changes, cancel := home.Broadcast.Subscribe()
	defer cancel()
	_, err = sessions.Open(ctx, "about")
	require.NoError(t, err)
	_, ok := sessions.Lookup("home")
	require.True(t, ok)

	_, err = sessions.Open(ctx, "donate")
	require.NoError(t, err)

	assert.Equal(t, []string{"donate", "home"}, sessions.Pages())
	assert.True(t, telemetry.has("landing.session.close"))

	_, err = sessions.Open(ctx, "events")
	require.NoError(t, err)
	assert.Equal(t, []string{"donate", "events"}, sessions.Pages())
	_, open := <-changes
	assert.False(t, open)
}

func TestSessionsCloseEndsSubscriptions(t *testing.T) {
	ctx := context.Background()
	sessions, err := NewSessions(SessionOptions{Registry: testRegistry(t)})
	require.NoError(t, err)
	session, err := sessions.Open(ctx, "home")
	require.NoError(t, err)
	changes, cancel := session.Broadcast.Subscribe()

	assert.True(t, sessions.Close("home"))
	assert.False(t, sessions.Close("home"))

	select {
	case _, open := <-changes:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatalf("subscription still open after session close")
	}
	assert.Equal(t, 0, session.Broadcast.Subscribers())
	cancel()

	reopened, err := sessions.Open(ctx, "home")
	require.NoError(t, err)
	assert.NotSame(t, session, reopened)
}
