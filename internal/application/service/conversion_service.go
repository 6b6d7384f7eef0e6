// Package service internal/application/service/conversion_service.go
package service

import (
	"context"

	"github.com/damon-houk/nkap/internal/domain/entity"
	"github.com/damon-houk/nkap/internal/domain/repository"
	domainsvc "github.com/damon-houk/nkap/internal/domain/service"
	"github.com/damon-houk/nkap/internal/infrastructure/cache"
	"github.com/damon-houk/nkap/internal/infrastructure/logger"
	"github.com/damon-houk/nkap/internal/infrastructure/metrics"
	"github.com/damon-houk/nkap/internal/infrastructure/middleware"
)

// ConversionService converts amounts using a cached rate table, refetching
// it from the provider when the cache cannot serve it
type ConversionService struct {
	cache    repository.RateCache
	provider domainsvc.RateProvider
	logger   logger.Logger
	metrics  *metrics.Metrics
}

// NewConversionService creates a new conversion service
func NewConversionService(cache repository.RateCache, provider domainsvc.RateProvider, log logger.Logger, m *metrics.Metrics) *ConversionService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	if m == nil {
		m = metrics.NewMetrics(nil)
	}

	return &ConversionService{
		cache:    cache,
		provider: provider,
		logger:   log,
		metrics:  m,
	}
}

// GetRates returns the cached rate table when it is fresh, otherwise fetches
// a new one and caches it. A failed cache write is logged and ignored; a
// failed fetch is returned as is.
func (s *ConversionService) GetRates(ctx context.Context) (entity.RateTable, error) {
	requestID := middleware.GetRequestID(ctx)

	var table entity.RateTable
	err := s.cache.TryLoad(ctx, &table)
	if err == nil {
		s.metrics.CacheLookupsTotal.WithLabelValues("hit", "").Inc()
		s.logger.Debug("Serving exchange rates from cache", map[string]interface{}{
			"request_id": requestID,
			"count":      len(table),
		})
		return table, nil
	}

	// Missing, corrupt and expired snapshots are all handled by refetching
	reason := cache.MissReason(err)
	s.metrics.CacheLookupsTotal.WithLabelValues("miss", reason).Inc()
	s.logger.Debug("Exchange rate cache miss", map[string]interface{}{
		"request_id": requestID,
		"reason":     reason,
		"error":      err.Error(),
	})

	table, err = s.provider.FetchRates(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Store(ctx, table); err != nil {
		s.metrics.CacheWritesTotal.WithLabelValues("failure").Inc()
		s.logger.Warn("Failed to cache exchange rates", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
	} else {
		s.metrics.CacheWritesTotal.WithLabelValues("success").Inc()
	}

	return table, nil
}

// ListRates returns the current rates ordered by currency code
func (s *ConversionService) ListRates(ctx context.Context) ([]entity.Rate, error) {
	table, err := s.GetRates(ctx)
	if err != nil {
		return nil, err
	}
	return table.Sorted(), nil
}

// Convert converts amount from one currency to another. The rate is
// to/from as read from the rate table; no rounding is applied.
func (s *ConversionService) Convert(ctx context.Context, from, to string, amount float64) (*entity.Conversion, error) {
	requestID := middleware.GetRequestID(ctx)

	if err := entity.CheckCurrencyFormat(from); err != nil {
		s.metrics.ConversionsTotal.WithLabelValues("invalid_format").Inc()
		return nil, err
	}

	if err := entity.CheckCurrencyFormat(to); err != nil {
		s.metrics.ConversionsTotal.WithLabelValues("invalid_format").Inc()
		return nil, err
	}

	// Nothing to look up for a zero amount
	if amount == 0 {
		s.metrics.ConversionsTotal.WithLabelValues("zero").Inc()
		return &entity.Conversion{From: from, To: to}, nil
	}

	table, err := s.GetRates(ctx)
	if err != nil {
		s.metrics.ConversionsTotal.WithLabelValues("provider_error").Inc()
		s.logger.Error("Failed to get exchange rates", map[string]interface{}{
			"request_id": requestID,
			"from":       from,
			"to":         to,
			"error":      err.Error(),
		})
		return nil, err
	}

	sourceRate, err := table.Lookup(from)
	if err != nil {
		s.metrics.ConversionsTotal.WithLabelValues("unknown_currency").Inc()
		return nil, err
	}

	targetRate, err := table.Lookup(to)
	if err != nil {
		s.metrics.ConversionsTotal.WithLabelValues("unknown_currency").Inc()
		return nil, err
	}

	rate := targetRate / sourceRate
	convertedAmount := amount * rate

	s.metrics.ConversionsTotal.WithLabelValues("success").Inc()
	s.logger.Info("Conversion completed", map[string]interface{}{
		"request_id":       requestID,
		"from":             from,
		"to":               to,
		"amount":           amount,
		"exchange_rate":    rate,
		"converted_amount": convertedAmount,
	})

	return &entity.Conversion{
		From:            from,
		To:              to,
		Amount:          amount,
		ConvertedAmount: convertedAmount,
		Rate:            rate,
	}, nil
}
