package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/damon-houk/nkap/internal/app"
	"github.com/damon-houk/nkap/internal/config"
	"github.com/damon-houk/nkap/internal/infrastructure/handler"
	"github.com/damon-houk/nkap/internal/infrastructure/logger"
	"github.com/damon-houk/nkap/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	level := cfg.Log.Level
	if level == "" {
		level = "info"
	}
	log := logger.NewJSONLogger(os.Stdout, logger.ParseLevel(level))
	logger.SetDefaultLogger(log)

	log.Info("Starting nkap exchange rate server", map[string]interface{}{
		"cache_backend": cfg.Cache.Backend,
		"cache_ttl":     cfg.Cache.TTL.String(),
	})

	if cfg.API.AppID == "" {
		log.Warn("API_ID is not set, rates can only be served from the cache", nil)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	application, err := app.New(context.Background(), cfg, log, reg)
	if err != nil {
		log.Fatal("Failed to initialize application", map[string]interface{}{
			"error": err.Error(),
		})
	}

	defer func() {
		if err := application.Close(); err != nil {
			log.Error("Error closing cache backend", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	// Initialize handlers
	conversionHandler := handler.NewConversionHandler(application.Service, log)
	ratesHandler := handler.NewRatesHandler(application.Service, log)

	// Setup router
	router := mux.NewRouter()
	router.Use(
		middleware.RequestIDMiddleware,
		middleware.LoggingMiddleware(log),
		middleware.MetricsMiddleware(application.Metrics),
	)
	conversionHandler.RegisterRoutes(router)
	ratesHandler.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods("GET")

	server := &http.Server{
		Addr:         ":" + cfg.HTTPServer.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"addr": server.Addr,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		log.Error("HTTP server error", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	log.Info("Shutting down server", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	log.Info("Server exited", nil)
}
