package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Shankh"`
		Port     int    `envconfig:"PORT" default:"8080"`
		Env      string `envconfig:"APP_ENV" default:"development"`
		// TimeZone is the workshop's IANA zone. It decides which calendar day counts as today.
		TimeZone string `envconfig:"APP_TIMEZONE" default:"UTC"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"shankh"`
		SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	}

	Server struct {
		Timeout      time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
		WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	}

	Log struct {
		Format  string `envconfig:"LOG_FORMAT" default:"text"`
		Level   string `envconfig:"LOG_LEVEL" default:"info"`
		// TUIFile receives the TUI's logs. The TUI discards them when unset.
		TUIFile string `envconfig:"LOG_TUI_FILE"`
	}

	// Redis is optional. Without an address, writers are serialized in-process only.
	Redis struct {
		Addr     string `envconfig:"REDIS_ADDR"`
		Password string `envconfig:"REDIS_PASSWORD"`
		DB       int    `envconfig:"REDIS_DB" default:"0"`
	}

	Lock struct {
		TTL           time.Duration `envconfig:"LOCK_TTL" default:"30s"`
		RetryInterval time.Duration `envconfig:"LOCK_RETRY_INTERVAL" default:"100ms"`
		RetryCount    int           `envconfig:"LOCK_RETRY_COUNT" default:"50"`
	}

	HTTP struct {
		AllowedOrigins []string `envconfig:"HTTP_ALLOWED_ORIGINS" default:"http://localhost:5173"`
		RateLimit      int      `envconfig:"HTTP_RATE_LIMIT" default:"120"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Location resolves App.TimeZone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.TimeZone)
	if err != nil {
		return time.UTC
	}

	return loc
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if _, err := time.LoadLocation(cfg.App.TimeZone); err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", cfg.App.TimeZone, err)
	}

	return &cfg, nil
}
