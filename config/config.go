// Package config loads runtime configuration from an optional YAML file and
// the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env     string  `yaml:"env" env:"WORKLOG_ENV" env-default:"local"`
	HTTP    HTTP    `yaml:"http"`
	Storage Storage `yaml:"storage"`
	Log     Log     `yaml:"log"`
	Stats   Stats   `yaml:"stats"`

	// Demo enables /api/scenarios, which replaces stored data.
	Demo bool `yaml:"demo" env:"WORKLOG_DEMO" env-default:"false"`
}

type HTTP struct {
	Host            string        `yaml:"host" env:"WORKLOG_HTTP_HOST" env-default:"127.0.0.1"`
	Port            int           `yaml:"port" env:"WORKLOG_HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"WORKLOG_HTTP_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"WORKLOG_HTTP_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"WORKLOG_HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"WORKLOG_HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
	AllowedOrigins  []string      `yaml:"allowed_origins" env:"WORKLOG_HTTP_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:*,http://127.0.0.1:*"`
}

// Addr is the listen address.
func (h HTTP) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

type Storage struct {
	Path string `yaml:"path" env:"WORKLOG_STORAGE_PATH" env-default:"worklog.db"`
}

type Log struct {
	Level  string `yaml:"level" env:"WORKLOG_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"WORKLOG_LOG_FORMAT" env-default:"console"`
}

type Stats struct {
	Locale   string `yaml:"locale" env:"WORKLOG_STATS_LOCALE" env-default:"zh"`
	TimeZone string `yaml:"time_zone" env:"WORKLOG_STATS_TIME_ZONE" env-default:"Local"`
}

// Load reads the YAML file at path (when non-empty) and applies environment
// overrides. An empty path reads the environment only.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values cleanenv cannot express as tags.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.HTTP.Port)
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		return fmt.Errorf("storage.path must not be empty")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format %q: want json or console", c.Log.Format)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Stats.TimeZone. "Local" and "" mean the host zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Stats.TimeZone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Stats.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("stats.time_zone %q: %w", c.Stats.TimeZone, err)
	}
	return loc, nil
}

// Usage describes the supported environment variables.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}
