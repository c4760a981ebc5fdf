package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/charmbracelet/log"

	"github.com/amirasaad/onramp/infra/initializer"
	"github.com/amirasaad/onramp/pkg/app"
	"github.com/amirasaad/onramp/pkg/config"
	"github.com/amirasaad/onramp/webapi"
)

// @title Onramp API
// @version 1.0.0
// @description Crypto on/off-ramp provider aggregation: catalogs, quotes and redirects
// @license.name MIT
// @host localhost:3000
// @BasePath /
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	// Fetch catalogs and wire providers
	deps, err := initializer.InitializeDependencies(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	logger := deps.Logger

	a := app.New(deps, cfg)
	defer func() {
		if cerr := a.Close(); cerr != nil {
			logger.Error("Failed to release resources", "error", cerr)
		}
	}()

	fiberApp := webapi.SetupApp(a)

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down server")
		if err := fiberApp.Shutdown(); err != nil {
			logger.Error("Shutdown failed", "error", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Starting server",
		"env", cfg.Env,
		"address", addr,
		"scheme", cfg.Server.Scheme,
	)
	return fiberApp.Listen(addr)
}
