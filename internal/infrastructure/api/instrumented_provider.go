package api

import (
	"context"
	"errors"
	"time"

	"github.com/damon-houk/nkap/internal/domain/entity"
	"github.com/damon-houk/nkap/internal/domain/service"
	"github.com/damon-houk/nkap/internal/infrastructure/logger"
	"github.com/damon-houk/nkap/internal/infrastructure/metrics"
)

// InstrumentedProvider logs and measures every fetch of the wrapped provider
type InstrumentedProvider struct {
	provider service.RateProvider
	logger   logger.Logger
	metrics  *metrics.Metrics
}

// NewInstrumentedProvider wraps provider
func NewInstrumentedProvider(provider service.RateProvider, log logger.Logger, m *metrics.Metrics) *InstrumentedProvider {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	if m == nil {
		m = metrics.NewMetrics(nil)
	}

	return &InstrumentedProvider{
		provider: provider,
		logger:   log,
		metrics:  m,
	}
}

// FetchRates delegates to the wrapped provider. Errors are returned unchanged.
func (p *InstrumentedProvider) FetchRates(ctx context.Context) (entity.RateTable, error) {
	p.logger.Info("Fetching exchange rates", nil)

	start := time.Now()
	table, err := p.provider.FetchRates(ctx)
	elapsed := time.Since(start)

	p.metrics.ProviderFetchDuration.Observe(elapsed.Seconds())
	p.metrics.ProviderFetchesTotal.WithLabelValues(FetchResult(err)).Inc()

	if err != nil {
		p.logger.Error("Failed to fetch exchange rates", map[string]interface{}{
			"error":       err.Error(),
			"duration_ms": elapsed.Milliseconds(),
		})
		return nil, err
	}

	p.logger.Info("Exchange rates fetched", map[string]interface{}{
		"count":       len(table),
		"duration_ms": elapsed.Milliseconds(),
	})

	return table, nil
}

// FetchResult labels a fetch outcome for metrics
func FetchResult(err error) string {
	var unexpected *service.UnexpectedStatusError

	switch {
	case err == nil:
		return "success"
	case errors.Is(err, service.ErrMissingCredential):
		return "missing_credential"
	case errors.Is(err, service.ErrInvalidCredential):
		return "invalid_credential"
	case errors.Is(err, service.ErrRateLimited):
		return "rate_limited"
	case errors.As(err, &unexpected):
		return "unexpected_status"
	case errors.Is(err, service.ErrTransport):
		return "transport"
	case errors.Is(err, service.ErrDecode):
		return "decode"
	default:
		return "error"
	}
}
