// Package app assembles the services the HTTP layer exposes.
package app

import (
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/amirasaad/onramp/pkg/catalog"
	"github.com/amirasaad/onramp/pkg/config"
	"github.com/amirasaad/onramp/pkg/eligibility"
	"github.com/amirasaad/onramp/pkg/geo"
	"github.com/amirasaad/onramp/pkg/metrics"
	"github.com/amirasaad/onramp/pkg/provider"
	"github.com/amirasaad/onramp/pkg/quote"
	"github.com/amirasaad/onramp/pkg/redirect"
	"github.com/amirasaad/onramp/pkg/service/onboard"
	"github.com/amirasaad/onramp/pkg/signing"
)

// Deps contains the infrastructure built at startup.
type Deps struct {
	Store    *catalog.Store
	Registry *provider.Registry
	Geo      geo.Resolver
	Signer   signing.Signer
	Metrics  *metrics.Metrics
	// Gatherer serves /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
	// Closers are released on shutdown.
	Closers []io.Closer
}

type App struct {
	Deps           *Deps
	Config         *config.App
	OnboardService *onboard.Service
}

func New(deps *Deps, cfg *config.App) *App {
	fallback := eligibility.DefaultCurrency
	if cfg != nil && cfg.Onboard != nil && cfg.Onboard.DefaultCurrency != "" {
		fallback = cfg.Onboard.DefaultCurrency
	}

	return &App{
		Deps:   deps,
		Config: cfg,
		OnboardService: onboard.New(onboard.Deps{
			Store:       deps.Store,
			Geo:         deps.Geo,
			Eligibility: eligibility.New(deps.Store, deps.Registry, fallback, deps.Logger),
			Quotes:      quote.NewEngine(deps.Store, deps.Registry, deps.Logger, deps.Metrics),
			Redirects:   redirect.NewBuilder(deps.Registry, deps.Logger),
			Signer:      deps.Signer,
			Metrics:     deps.Metrics,
			Logger:      deps.Logger,
		}),
	}
}

// Close releases every closer, returning the first error.
func (a *App) Close() error {
	var first error
	for _, c := range a.Deps.Closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
