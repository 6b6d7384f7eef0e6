package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/damon-houk/nkap/internal/app"
	"github.com/damon-houk/nkap/internal/cli"
	"github.com/damon-houk/nkap/internal/config"
	"github.com/damon-houk/nkap/internal/infrastructure/logger"
	"github.com/damon-houk/nkap/internal/infrastructure/middleware"
	"github.com/google/uuid"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Problem with configuration: %v\n", err)
		return cli.ExitError
	}

	// Logs go to stderr so that stdout only carries results
	level := cfg.Log.Level
	if level == "" {
		level = "warn"
	}
	log := logger.NewJSONLogger(os.Stderr, logger.ParseLevel(level))
	logger.SetDefaultLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = middleware.WithRequestID(ctx, uuid.New().String())

	application, err := app.New(ctx, cfg, log, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Problem with cache backend: %v\n", err)
		return cli.ExitError
	}

	defer func() {
		if err := application.Close(); err != nil {
			log.Warn("Error closing cache backend", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	return cli.New(application.Service, os.Stdin, os.Stdout, os.Stderr).Run(ctx, os.Args[1:])
}
