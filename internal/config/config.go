package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	BackendParse    = "parse"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Backend  string `env:"BACKEND" envDefault:"parse"`

	Parse ParseConfig `envPrefix:"PARSE_"`

	DatabaseURL string `env:"DATABASE_URL"`
}

// ParseConfig holds the credentials of the hosted Parse application.
// Missing credentials are not an error here: the server rejects the first request instead.
type ParseConfig struct {
	AppID     string        `env:"APP_ID"`
	JSKey     string        `env:"JS_KEY"`
	ServerURL string        `env:"SERVER_URL" envDefault:"https://parseapi.back4app.com"`
	RetryMax  int           `env:"RETRY_MAX" envDefault:"3"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"0s"`
}

// Load reads an optional .env file from the working directory and then parses the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "failed to load .env file")
	}

	return parse(env.Options{})
}

// Parse builds a Config from the given variables only.
func Parse(environment map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environment})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, errors.Wrap(err, "failed to parse environment")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendParse:
		if c.Parse.ServerURL == "" {
			return errors.New("PARSE_SERVER_URL must not be empty")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres backend")
		}
	case BackendMemory:
	default:
		return errors.Errorf("unknown backend %q", c.Backend)
	}

	if c.Parse.RetryMax < 0 {
		return errors.New("PARSE_RETRY_MAX must not be negative")
	}

	return nil
}
