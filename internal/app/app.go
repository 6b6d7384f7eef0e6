// Package app wires the configured cache backend, rate provider and
// conversion service for the command line and the HTTP server.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/damon-houk/nkap/internal/application/service"
	"github.com/damon-houk/nkap/internal/config"
	"github.com/damon-houk/nkap/internal/domain/repository"
	"github.com/damon-houk/nkap/internal/infrastructure/api"
	"github.com/damon-houk/nkap/internal/infrastructure/cache"
	"github.com/damon-houk/nkap/internal/infrastructure/db"
	"github.com/damon-houk/nkap/internal/infrastructure/logger"
	"github.com/damon-houk/nkap/internal/infrastructure/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Service *service.ConversionService
	Metrics *metrics.Metrics

	store *cache.SnapshotStore
}

// New builds the service stack described by cfg. Collectors are registered
// on reg; a nil reg keeps them private.
func New(ctx context.Context, cfg *config.Config, log logger.Logger, reg prometheus.Registerer) (*App, error) {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	backend, err := NewSnapshotBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	log.Debug("Cache backend initialized", map[string]interface{}{
		"backend": cfg.Cache.Backend,
		"ttl":     cfg.Cache.TTL.String(),
	})

	m := metrics.NewMetrics(reg)
	provider := initProvider(cfg, log, m)
	store := cache.NewSnapshotStore(backend, cfg.Cache.TTL)

	return &App{
		Service: service.NewConversionService(store, provider, log, m),
		Metrics: m,
		store:   store,
	}, nil
}

// NewSnapshotBackend opens the snapshot backend selected by cfg.Cache.Backend
func NewSnapshotBackend(ctx context.Context, cfg *config.Config) (repository.SnapshotBackend, error) {
	switch cfg.Cache.Backend {
	case config.BackendFile:
		return cache.NewFileBackend(cfg.Cache.Path), nil
	case config.BackendMemory:
		return cache.NewMemoryBackend(), nil
	case config.BackendBadger:
		backend, err := db.OpenBadgerSnapshotBackend(cfg.Cache.BadgerDir, cfg.Cache.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to open badger cache: %w", err)
		}
		return backend, nil
	case config.BackendRedis:
		backend, err := db.OpenRedisSnapshotBackend(ctx, &redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Cache.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis cache: %w", err)
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

func initProvider(cfg *config.Config, log logger.Logger, m *metrics.Metrics) *api.InstrumentedProvider {
	httpClient := &http.Client{Timeout: cfg.API.Timeout}
	client := api.NewOpenExchangeRatesClient(cfg.API.AppID, httpClient, log).WithBaseURL(cfg.API.URL)
	return api.NewInstrumentedProvider(client, log, m)
}

// Close releases the cache backend
func (a *App) Close() error {
	return a.store.Close()
}
