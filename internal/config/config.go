package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Cache backends
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

type Config struct {
	API        API
	Cache      Cache
	Redis      Redis
	HTTPServer HTTPServer
	Log        Log
}

// API configures the remote rate provider. AppID may be empty; only a live
// fetch requires it.
type API struct {
	AppID   string        `env:"API_ID"`
	URL     string        `env:"API_URL" env-default:"https://openexchangerates.org/api/latest.json"`
	Timeout time.Duration `env:"API_TIMEOUT" env-default:"10s"`
}

type Cache struct {
	Backend   string        `env:"CACHE_BACKEND" env-default:"file"`
	Path      string        `env:"CACHE_PATH" env-default:".currencies"`
	TTL       time.Duration `env:"CACHE_TTL" env-default:"1h"`
	BadgerDir string        `env:"CACHE_BADGER_DIR" env-default:".currencies.db"`
	Key       string        `env:"CACHE_KEY" env-default:"nkap:currencies"`
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

type HTTPServer struct {
	Port         string        `env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"120s"`
}

type Log struct {
	Level string `env:"LOG_LEVEL"`
}

// Load reads the configuration from the environment, after loading an
// optional .env file from the working directory
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects values cleanenv cannot check on its own
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendMemory, BackendBadger, BackendRedis:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %s", c.Cache.TTL)
	}

	return nil
}
