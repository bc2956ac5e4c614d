package redisstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-landing/components/landing"
)

type fakeClient struct {
	mu      sync.Mutex
	data    map[string]string
	ttls    map[string]time.Duration
	failSet error
}

func newFakeClient() *fakeClient {
	return &fakeClient{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeClient) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	val, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (f *fakeClient) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSet != nil {
		return redis.NewStatusResult("", f.failSet)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	default:
		f.data[key] = fmt.Sprint(v)
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	store, err := New(client, Options{Prefix: "tenant-a:", TTL: time.Hour})
	require.NoError(t, err)
	widgets := []landing.WidgetConfig{{ID: "1", Type: "hero", Settings: landing.Settings{"title": "Hi"}}}

	require.NoError(t, store.SaveLayout(ctx, "home", widgets))
	loaded, err := store.LoadLayout(ctx, "home")
	require.NoError(t, err)

	assert.Equal(t, widgets, loaded)
	assert.Contains(t, client.data, "tenant-a:page:home")
	assert.Equal(t, time.Hour, client.ttls["tenant-a:page:home"])
}

func TestStoreMissingKeyIsEmpty(t *testing.T) {
	store, err := New(newFakeClient(), Options{})
	require.NoError(t, err)

	loaded, err := store.LoadLayout(context.Background(), "home")

	require.NoError(t, err)
	assert.Empty(t, loaded)
	assert.Equal(t, "landing:page:home", store.Key("home"))
}

func TestStoreSaveError(t *testing.T) {
	client := newFakeClient()
	client.failSet = errors.New("READONLY")
	store, err := New(client, Options{})
	require.NoError(t, err)

	err = store.SaveLayout(context.Background(), "home", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "READONLY")
}

func TestStoreCorruptValue(t *testing.T) {
	client := newFakeClient()
	client.data["landing:page:home"] = "not-json"
	store, err := New(client, Options{})
	require.NoError(t, err)

	_, err = store.LoadLayout(context.Background(), "home")
	require.Error(t, err)
}

func TestNewRequiresClient(t *testing.T) {
	_, err := New(nil, Options{})
	require.Error(t, err)
}
