// Package quote computes per-provider price quotes from the loaded catalogs.
package quote

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/amirasaad/onramp/pkg/catalog"
	"github.com/amirasaad/onramp/pkg/domain"
	"github.com/amirasaad/onramp/pkg/metrics"
	"github.com/amirasaad/onramp/pkg/network"
	"github.com/amirasaad/onramp/pkg/provider"
)

// Pricers looks up the pricer of a provider.
type Pricers interface {
	Pricer(id domain.ProviderID) (provider.Pricer, bool)
}

// Engine answers quote requests against a catalog store.
type Engine struct {
	store   *catalog.Store
	pricers Pricers
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewEngine creates an Engine. m may be nil.
func NewEngine(store *catalog.Store, pricers Pricers, logger *slog.Logger, m *metrics.Metrics) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:   store,
		pricers: pricers,
		logger:  logger.With(slog.String("component", "quote")),
		metrics: m,
	}
}

// GetQuotes prices req with every requested provider. Every provider in
// req.Providers has a key in the result, with an empty list when it cannot
// serve the request.
func (e *Engine) GetQuotes(ctx context.Context, req domain.QuoteRequest) map[domain.ProviderID][]domain.Quote {
	req.FiatCurrency = network.Currency(req.FiatCurrency)

	out := make(map[domain.ProviderID][]domain.Quote, len(req.Providers))
	for _, id := range req.Providers {
		out[id] = []domain.Quote{}
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for _, id := range req.Providers {
		g.Go(func() error {
			start := time.Now()
			quotes := e.quoteProvider(ctx, id, req)
			e.metrics.ObserveQuote(id, time.Since(start))
			if len(quotes) == 0 {
				return nil
			}
			mu.Lock()
			out[id] = quotes
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return out
}

func (e *Engine) quoteProvider(ctx context.Context, id domain.ProviderID, req domain.QuoteRequest) []domain.Quote {
	logger := e.logger.With("provider", id)

	pricer, ok := e.pricers.Pricer(id)
	if !ok || !e.store.Ready(id) {
		logger.Debug("Provider not available for quoting")
		return nil
	}
	entry, ok := e.store.Catalog(id)[req.CryptoCurrency]
	if !ok {
		logger.Debug("Asset not offered", "asset", req.CryptoCurrency)
		return nil
	}
	if !entry.HasNetwork(req.Network) {
		logger.Debug("Network not offered", "asset", req.CryptoCurrency, "network", req.Network)
		return nil
	}
	options := entry.FiatCurrencies[req.FiatCurrency]
	if len(options) == 0 {
		logger.Debug("Fiat currency not offered", "asset", req.CryptoCurrency, "fiat", req.FiatCurrency)
		return nil
	}

	var quotes []domain.Quote
	for _, opt := range options {
		if req.CountryCode != "" && !opt.AvailableIn(req.CountryCode) {
			continue
		}
		if q, ok := e.quoteOption(ctx, logger, id, pricer, req, opt); ok {
			quotes = append(quotes, q)
		}
	}
	return quotes
}

func (e *Engine) quoteOption(
	ctx context.Context,
	logger *slog.Logger,
	id domain.ProviderID,
	pricer provider.Pricer,
	req domain.QuoteRequest,
	opt domain.PaymentOption,
) (domain.Quote, bool) {
	if req.AmountType == domain.AmountFiat && !opt.Accepts(req.Amount) {
		e.metrics.QuoteOption(id, metrics.OutcomeOutOfRange)
		return domain.Quote{}, false
	}

	price, err := pricer.Price(ctx, req, opt)
	if err != nil {
		logger.Warn("Pricing failed", "paymentMethod", opt.PaymentMethod, "error", err)
		e.metrics.QuoteOption(id, metrics.OutcomePriceError)
		return domain.Quote{}, false
	}

	if req.AmountType == domain.AmountCrypto && !opt.Accepts(req.Amount*price.Rate) {
		e.metrics.QuoteOption(id, metrics.OutcomeOutOfRange)
		return domain.Quote{}, false
	}

	e.metrics.QuoteOption(id, metrics.OutcomePriced)
	return domain.Quote{
		Provider:      id,
		Rate:          price.Rate,
		Fee:           price.Fee,
		PaymentMethod: opt.PaymentMethod,
	}, true
}
