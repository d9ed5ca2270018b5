package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Viewer struct {
		Tick            time.Duration `env:"VIEWER_TICK" env-default:"50ms"`
		Debounce        time.Duration `env:"VIEWER_DEBOUNCE" env-default:"300ms"`
		DefaultDuration time.Duration `env:"VIEWER_DEFAULT_DURATION" env-default:"5s"`
		MediaTimeout    time.Duration `env:"VIEWER_MEDIA_TIMEOUT" env-default:"10s"`
	}
	Catalog struct {
		Source  string        `env:"CATALOG_SOURCE" env-default:"file"`
		Path    string        `env:"CATALOG_PATH" env-default:"./stories.json"`
		URL     string        `env:"CATALOG_URL"`
		Refresh time.Duration `env:"CATALOG_REFRESH" env-default:"15m"`
	}
	Media struct {
		CacheSize       int `env:"MEDIA_CACHE_SIZE" env-default:"256"`
		PrefetchWorkers int `env:"MEDIA_PREFETCH_WORKERS" env-default:"4"`
		RatePerSecond   int `env:"MEDIA_RATE_PER_SECOND" env-default:"20"`
		RateBurst       int `env:"MEDIA_RATE_BURST" env-default:"10"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT" env-default:"5432"`
		Host    string `env:"POSTGRES_HOST" env-default:"localhost"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
}

const (
	SourceFile     = "file"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

var (
	once    sync.Once
	cfg     *Config
	loadErr error
)

func New() (*Config, error) {
	once.Do(func() {
		c := &Config{}
		if err := cleanenv.ReadEnv(c); err != nil {
			help, _ := cleanenv.GetDescription(c, nil)
			loadErr = fmt.Errorf("failed to read configuration: %w\n%v", err, help)
			return
		}
		if err := c.Validate(); err != nil {
			loadErr = err
			return
		}
		cfg = c
	})
	return cfg, loadErr
}

// Validate rejects settings the viewer cannot run with.
func (c *Config) Validate() error {
	switch c.Catalog.Source {
	case SourceFile, SourcePostgres:
	case SourceHTTP:
		if c.Catalog.URL == "" {
			return fmt.Errorf("CATALOG_URL is required when CATALOG_SOURCE=%s", SourceHTTP)
		}
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q", c.Catalog.Source)
	}
	if c.Viewer.Tick <= 0 {
		return fmt.Errorf("VIEWER_TICK must be positive, got %s", c.Viewer.Tick)
	}
	if c.Viewer.DefaultDuration <= 0 {
		return fmt.Errorf("VIEWER_DEFAULT_DURATION must be positive, got %s", c.Viewer.DefaultDuration)
	}
	return nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Postgres.User,
		c.Postgres.Pass,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.Name,
		c.Postgres.SslMode,
	)
}
