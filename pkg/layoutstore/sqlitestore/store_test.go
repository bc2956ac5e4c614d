package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-landing/components/landing"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layouts.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(" ")
	require.Error(t, err)
}

func TestLayoutRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)
	widgets := []landing.WidgetConfig{
		{ID: "1", Type: "hero", Settings: landing.Settings{"title": "Hi"}},
		{ID: "2", Type: "cta", Settings: landing.Settings{"label": "Give"}},
	}

	require.NoError(t, store.SaveLayout(ctx, "home", widgets))
	loaded, err := store.LoadLayout(ctx, "home")
	require.NoError(t, err)

	assert.Equal(t, widgets, loaded)
}

func TestSaveLayoutOverwrites(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)
	require.NoError(t, store.SaveLayout(ctx, "home", []landing.WidgetConfig{{ID: "1", Type: "hero", Settings: landing.Settings{}}}))
	require.NoError(t, store.SaveLayout(ctx, "home", []landing.WidgetConfig{{ID: "2", Type: "cta", Settings: landing.Settings{}}}))

	loaded, err := store.LoadLayout(ctx, "home")
	require.NoError(t, err)

	require.Len(t, loaded, 1)
	assert.Equal(t, "2", loaded[0].ID)
	pages, err := store.Pages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"home"}, pages)
}

func TestLoadMissingPageIsEmpty(t *testing.T) {
	store, _ := openTestStore(t)
	loaded, err := store.LoadLayout(context.Background(), "about")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestReopenSkipsAppliedMigrations(t *testing.T) {
	ctx := context.Background()
	store, path := openTestStore(t)
	require.NoError(t, store.SaveLayout(ctx, "home", []landing.WidgetConfig{{ID: "1", Type: "hero", Settings: landing.Settings{}}}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	loaded, err := reopened.LoadLayout(ctx, "home")
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestRequiresPageID(t *testing.T) {
	store, _ := openTestStore(t)
	require.Error(t, store.SaveLayout(context.Background(), "", nil))
	_, err := store.LoadLayout(context.Background(), "")
	require.Error(t, err)
}

func TestExtractUp(t *testing.T) {
	assert.Equal(t, "\nCREATE TABLE a (id TEXT);\n", extractUp("-- +migrate Up\nCREATE TABLE a (id TEXT);\n-- +migrate Down\nDROP TABLE a;"))
	assert.Equal(t, "SELECT 1;", extractUp("SELECT 1;"))
}
