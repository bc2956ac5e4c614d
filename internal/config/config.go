package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const envPrefix = "LANDING_"

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreHTTP   = "http"
	StoreRedis  = "redis"
)

// Config is the runtime configuration of the landing server.
type Config struct {
	Addr        string `env:"ADDR" envDefault:":8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`
	Metrics     bool   `env:"METRICS" envDefault:"true"`
	Manifest    string `env:"MANIFEST"`
	MaxSessions int    `env:"MAX_SESSIONS" envDefault:"128"`

	Store StoreConfig `envPrefix:"STORE_"`
	Feeds FeedConfig  `envPrefix:"FEEDS_"`
	Chart ChartConfig `envPrefix:"CHART_"`
}

// StoreConfig selects and configures the layout persistence backend.
type StoreConfig struct {
	Backend       string        `env:"BACKEND" envDefault:"memory"`
	SQLitePath    string        `env:"SQLITE_PATH" envDefault:"landing.db"`
	HTTPBaseURL   string        `env:"HTTP_BASE_URL"`
	HTTPAPIKey    string        `env:"HTTP_API_KEY"`
	HTTPTimeout   time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string        `env:"REDIS_PREFIX" envDefault:"landing:"`
}

// FeedConfig configures the remote content client used by feed widgets.
type FeedConfig struct {
	BaseURL   string        `env:"BASE_URL"`
	APIKey    string        `env:"API_KEY"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"10s"`
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"1m"`
	CacheSize int           `env:"CACHE_SIZE" envDefault:"256"`
}

// ChartConfig tunes go-echarts output.
type ChartConfig struct {
	Theme      string `env:"THEME"`
	AssetsHost string `env:"ASSETS_HOST"`
}

// Load reads optional dotenv files, then parses LANDING_* variables.
// Missing dotenv files are ignored.
func Load(dotenvFiles ...string) (Config, error) {
	for _, file := range dotenvFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}
	return Parse(env.Options{Prefix: envPrefix})
}

// Parse reads the configuration with the given env options. Tests pass
// Environment to avoid touching the process environment.
func Parse(opts env.Options) (Config, error) {
	if opts.Prefix == "" {
		opts.Prefix = envPrefix
	}
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks backend-specific requirements.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case StoreMemory:
	case StoreSQLite:
		if strings.TrimSpace(c.Store.SQLitePath) == "" {
			return fmt.Errorf("config: %sSTORE_SQLITE_PATH is required for the sqlite backend", envPrefix)
		}
	case StoreHTTP:
		if strings.TrimSpace(c.Store.HTTPBaseURL) == "" {
			return fmt.Errorf("config: %sSTORE_HTTP_BASE_URL is required for the http backend", envPrefix)
		}
	case StoreRedis:
		if strings.TrimSpace(c.Store.RedisAddr) == "" {
			return fmt.Errorf("config: %sSTORE_REDIS_ADDR is required for the redis backend", envPrefix)
		}
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	if c.MaxSessions <= 0 {
		return fmt.Errorf("config: %sMAX_SESSIONS must be positive", envPrefix)
	}
	if c.Feeds.CacheSize < 0 {
		return fmt.Errorf("config: feed cache size must not be negative")
	}
	return nil
}
