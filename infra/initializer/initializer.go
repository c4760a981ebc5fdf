package initializer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	infra_cache "github.com/amirasaad/onramp/infra/cache"
	infra_geo "github.com/amirasaad/onramp/infra/geo"
	"github.com/amirasaad/onramp/infra/provider/binance"
	"github.com/amirasaad/onramp/infra/provider/client"
	"github.com/amirasaad/onramp/infra/provider/mtpelerin"
	"github.com/amirasaad/onramp/infra/provider/transak"
	"github.com/amirasaad/onramp/pkg/app"
	"github.com/amirasaad/onramp/pkg/cache"
	"github.com/amirasaad/onramp/pkg/catalog"
	"github.com/amirasaad/onramp/pkg/config"
	"github.com/amirasaad/onramp/pkg/domain"
	"github.com/amirasaad/onramp/pkg/geo"
	"github.com/amirasaad/onramp/pkg/metrics"
	"github.com/amirasaad/onramp/pkg/provider"
	"github.com/amirasaad/onramp/pkg/signing"
)

// InitializeDependencies builds the providers, loads every catalog and wires
// geolocation. It blocks until the catalog load finishes or times out.
func InitializeDependencies(ctx context.Context, cfg *config.App) (deps *app.Deps, err error) {
	logger := setupLogger(cfg.Log)
	deps = &app.Deps{Logger: logger}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Gatherer = reg
	deps.Metrics = metrics.New(reg)

	signer, err := signing.Load(cfg.Signing.PrivateKey, cfg.Signing.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load signing keys: %w", err)
	}
	if cfg.Signing.PrivateKey == "" {
		logger.Warn("No signing key configured, Binance calls will fail")
	}
	deps.Signer = signer

	deps.Registry, err = newRegistry(cfg, signer, deps.Metrics, logger)
	if err != nil {
		return nil, err
	}

	deps.Store = loadCatalogs(ctx, cfg.Catalog, deps.Registry, deps.Metrics, logger)

	deps.Geo, deps.Closers, err = newGeo(cfg, deps.Metrics, logger)
	if err != nil {
		return nil, err
	}
	return deps, nil
}

func newRegistry(cfg *config.App, signer signing.Signer, m *metrics.Metrics, logger *slog.Logger) (*provider.Registry, error) {
	binanceClient, err := client.New(client.Config{
		Name:              string(domain.Binance),
		BaseURL:           cfg.Binance.URL,
		Timeout:           cfg.Binance.HTTPTimeout,
		ProxyURL:          cfg.Binance.ProxyURL,
		RequestsPerSecond: cfg.Binance.RPS,
	}, logger, m)
	if err != nil {
		return nil, fmt.Errorf("failed to create binance client: %w", err)
	}
	transakClient, err := client.New(client.Config{
		Name:              string(domain.Transak),
		BaseURL:           cfg.Transak.URL,
		Timeout:           cfg.Transak.HTTPTimeout,
		RequestsPerSecond: cfg.Transak.RPS,
	}, logger, m)
	if err != nil {
		return nil, fmt.Errorf("failed to create transak client: %w", err)
	}
	mtPelerinClient, err := client.New(client.Config{
		Name:              string(domain.MtPelerin),
		BaseURL:           cfg.MtPelerin.URL,
		Timeout:           cfg.MtPelerin.HTTPTimeout,
		RequestsPerSecond: cfg.MtPelerin.RPS,
	}, logger, m)
	if err != nil {
		return nil, fmt.Errorf("failed to create mt pelerin client: %w", err)
	}

	return provider.NewRegistry(
		binance.New(binance.Config{
			MerchantCode: cfg.Binance.MerchantCode,
			RedirectURL:  cfg.Binance.RedirectURL,
			FeePercent:   cfg.Binance.FeePercent,
		}, binanceClient, signer, logger),
		transak.New(transak.Config{
			APIKey:      cfg.Transak.APIKey,
			RedirectURL: cfg.Transak.RedirectURL,
		}, transakClient, logger),
		mtpelerin.New(mtpelerin.Config{
			WidgetURL:   cfg.MtPelerin.WidgetURL,
			WidgetToken: cfg.MtPelerin.WidgetToken,
			Referrer:    cfg.MtPelerin.Referrer,
		}, mtPelerinClient, logger),
	), nil
}

func loadCatalogs(
	ctx context.Context,
	cfg *config.Catalog,
	registry *provider.Registry,
	m *metrics.Metrics,
	logger *slog.Logger,
) *catalog.Store {
	start := time.Now()
	store := catalog.Load(ctx, registry.Fetchers(),
		catalog.WithLogger(logger),
		catalog.WithTimeout(cfg.LoadTimeout),
		catalog.WithObserver(m.ObserveFetch),
	)
	for _, st := range store.Providers() {
		m.SetAssets(st.Provider, st.Assets)
	}
	logger.Info("Provider catalogs loaded", "duration", time.Since(start))
	return store
}

// newGeo chains the offline database and the remote API behind a cache.
func newGeo(cfg *config.App, m *metrics.Metrics, logger *slog.Logger) (geo.Resolver, []io.Closer, error) {
	var (
		sources []geo.Source
		closers []io.Closer
	)
	if cfg.Geo.MaxMindDB != "" {
		db, err := infra_geo.OpenMaxMind(cfg.Geo.MaxMindDB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open maxmind database: %w", err)
		}
		sources = append(sources, db)
		closers = append(closers, db)
	}
	if cfg.Geo.RemoteURL != "" {
		c, err := client.New(client.Config{
			Name:    "iplocation",
			BaseURL: cfg.Geo.RemoteURL,
			Timeout: cfg.Geo.RemoteTimeout,
		}, logger, m)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create geo client: %w", err)
		}
		sources = append(sources, infra_geo.NewRemote(c))
	}

	var countryCache cache.CountryCache
	if cfg.Redis.URL != "" {
		rc, err := infra_cache.NewRedisCache(cfg.Redis.URL, cfg.Redis.KeyPrefix, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create redis cache: %w", err)
		}
		countryCache = rc
		closers = append(closers, rc)
	} else {
		mc := infra_cache.NewMemoryCache(cfg.Geo.CacheCleanup)
		countryCache = mc
		closers = append(closers, mc)
	}

	return geo.NewChain(sources,
		geo.WithCache(countryCache, cfg.Geo.CacheTTL),
		geo.WithFallback(cfg.Geo.DefaultCountry),
		geo.WithLogger(logger),
		geo.WithMetrics(m),
	), closers, nil
}
