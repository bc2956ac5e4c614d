package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/goliatone/go-landing/components/landing"
)

const (
	defaultPrefix           = "landing:"
	defaultOperationTimeout = 5 * time.Second
)

// Client is the subset of redis.Cmdable the store needs.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Options configures a Store.
type Options struct {
	Prefix  string
	TTL     time.Duration
	Timeout time.Duration
}

// Store keeps each page layout as a JSON value under <prefix>page:<id>.
type Store struct {
	client  Client
	prefix  string
	ttl     time.Duration
	timeout time.Duration
}

var _ landing.LayoutStore = (*Store)(nil)

// New wraps a redis client.
func New(client Client, opts Options) (*Store, error) {
	if client == nil {
		return nil, errors.New("redisstore: client is required")
	}
	if opts.Prefix == "" {
		opts.Prefix = defaultPrefix
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultOperationTimeout
	}
	return &Store{client: client, prefix: opts.Prefix, ttl: opts.TTL, timeout: opts.Timeout}, nil
}

// Dial connects to addr and verifies the connection.
func Dial(ctx context.Context, addr, password string, db int, opts Options) (*Store, *redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := client.Ping(pingCtx).Result(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redisstore: connect %s: %w", addr, err)
	}
	store, err := New(client, opts)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return store, client, nil
}

// Key returns the redis key for pageID.
func (s *Store) Key(pageID string) string {
	return s.prefix + "page:" + pageID
}

// SaveLayout writes the full sequence for pageID.
func (s *Store) SaveLayout(ctx context.Context, pageID string, widgets []landing.WidgetConfig) error {
	pageID = strings.TrimSpace(pageID)
	if pageID == "" {
		return errors.New("redisstore: page id is required")
	}
	if widgets == nil {
		widgets = []landing.WidgetConfig{}
	}
	payload, err := json.Marshal(widgets)
	if err != nil {
		return fmt.Errorf("redisstore: encode layout: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.client.Set(ctx, s.Key(pageID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redisstore: save %s: %w", pageID, err)
	}
	return nil
}

// LoadLayout reads the sequence for pageID. A missing key is an empty layout.
func (s *Store) LoadLayout(ctx context.Context, pageID string) ([]landing.WidgetConfig, error) {
	pageID = strings.TrimSpace(pageID)
	if pageID == "" {
		return nil, errors.New("redisstore: page id is required")
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	val, err := s.client.Get(ctx, s.Key(pageID)).Result()
	if err == redis.Nil {
		return []landing.WidgetConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redisstore: load %s: %w", pageID, err)
	}
	var widgets []landing.WidgetConfig
	if err := json.Unmarshal([]byte(val), &widgets); err != nil {
		return nil, fmt.Errorf("redisstore: decode %s: %w", pageID, err)
	}
	return widgets, nil
}
