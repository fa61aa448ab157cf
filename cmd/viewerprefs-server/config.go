package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/CreativeUnicorns/viewerprefs"
	"github.com/CreativeUnicorns/viewerprefs/cache"
	"github.com/CreativeUnicorns/viewerprefs/storage"
)

// config is read from VIEWERPREFS_* environment variables; flags override it.
type config struct {
	ListenAddr    string `env:"LISTEN_ADDR" envDefault:":8080"`
	SecureCookies bool   `env:"SECURE_COOKIES"`

	Storage     string `env:"STORAGE" envDefault:"memory"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"viewerprefs.db"`
	PostgresDSN string `env:"POSTGRES_DSN"`
	MemoryQuota int    `env:"MEMORY_QUOTA_BYTES" envDefault:"0"`
	CookieDays  int    `env:"COOKIE_DAYS" envDefault:"3650"`
	Encrypt     bool   `env:"ENCRYPT"`
	Cache       string `env:"CACHE" envDefault:"none"`
	RedisAddr   string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass   string `env:"REDIS_PASSWORD"`
	RedisDB     int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix string `env:"REDIS_PREFIX" envDefault:"viewerprefs:"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json"`
}

// loadConfig parses the VIEWERPREFS_* entries of environ, then args.
func loadConfig(args []string, environ map[string]string) (config, error) {
	var cfg config
	if err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      "VIEWERPREFS_",
		Environment: environ,
	}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("viewerprefs-server", flag.ContinueOnError)
	fs.StringVar(&cfg.ListenAddr, "listen-addr", cfg.ListenAddr, "HTTP listen address")
	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "storage backend: memory, sqlite or postgres")
	fs.StringVar(&cfg.SQLitePath, "sqlite-path", cfg.SQLitePath, "SQLite database file")
	fs.StringVar(&cfg.PostgresDSN, "postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string")
	fs.StringVar(&cfg.Cache, "cache", cfg.Cache, "duration filter mirror: none, memory or redis")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	cfg.Storage = strings.ToLower(cfg.Storage)
	cfg.Cache = strings.ToLower(cfg.Cache)
	return cfg, nil
}

func environMap() map[string]string {
	m := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			m[k] = v
		}
	}
	return m
}

func (c config) newLogger(w io.Writer) viewerprefs.Logger {
	logger := viewerprefs.NewLogger(w, strings.EqualFold(c.LogFormat, "text"))
	logger.SetLevel(viewerprefs.ParseLogLevel(c.LogLevel))
	return logger
}

func (c config) openStorage() (viewerprefs.Storage, error) {
	switch c.Storage {
	case "memory":
		var opts []storage.MemoryOption
		if c.MemoryQuota > 0 {
			opts = append(opts, storage.WithQuota(c.MemoryQuota))
		}
		return storage.NewMemoryStorage(opts...), nil
	case "sqlite":
		return storage.NewSQLiteStorage(c.SQLitePath)
	case "postgres":
		if c.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres storage requires VIEWERPREFS_POSTGRES_DSN")
		}
		return storage.NewPostgresStorage(c.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown storage %q", c.Storage)
	}
}

// openCache returns a nil Cache for "none".
func (c config) openCache() (viewerprefs.Cache, error) {
	switch c.Cache {
	case "", "none":
		return nil, nil
	case "memory":
		return cache.NewMemoryCache(), nil
	case "redis":
		return cache.NewRedisCache(c.RedisAddr, c.RedisPass, c.RedisDB, c.RedisPrefix)
	default:
		return nil, fmt.Errorf("unknown cache %q", c.Cache)
	}
}

// newManager wires every configured backend into a Manager.
func (c config) newManager(logger viewerprefs.Logger) (*viewerprefs.Manager, error) {
	store, err := c.openStorage()
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	opts := []viewerprefs.Option{
		viewerprefs.WithStorage(store),
		viewerprefs.WithLogger(logger),
		viewerprefs.WithCookieLifetime(c.CookieDays),
	}

	ca, err := c.openCache()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	if ca != nil {
		opts = append(opts, viewerprefs.WithCache(ca))
	}

	if c.Encrypt {
		enc, err := viewerprefs.NewEncryptionAdapter()
		if err != nil {
			store.Close()
			if ca != nil {
				ca.Close()
			}
			return nil, fmt.Errorf("configuring encryption: %w", err)
		}
		opts = append(opts, viewerprefs.WithEncryption(enc))
	}

	return viewerprefs.New(opts...), nil
}
