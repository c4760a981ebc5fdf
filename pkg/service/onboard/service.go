// Package onboard answers what a user can buy from where they are, what it
// would cost, and where to go to buy it.
package onboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/amirasaad/onramp/pkg/catalog"
	"github.com/amirasaad/onramp/pkg/domain"
	"github.com/amirasaad/onramp/pkg/eligibility"
	"github.com/amirasaad/onramp/pkg/geo"
	"github.com/amirasaad/onramp/pkg/metrics"
	"github.com/amirasaad/onramp/pkg/quote"
	"github.com/amirasaad/onramp/pkg/redirect"
	"github.com/amirasaad/onramp/pkg/signing"
)

// Deps are the collaborators of the service. Metrics and Signer may be nil.
type Deps struct {
	Store       *catalog.Store
	Geo         geo.Resolver
	Eligibility *eligibility.Resolver
	Quotes      *quote.Engine
	Redirects   *redirect.Builder
	Signer      signing.Signer
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
}

// Service composes geolocation, eligibility and the catalog store.
type Service struct {
	store       *catalog.Store
	geo         geo.Resolver
	eligibility *eligibility.Resolver
	quotes      *quote.Engine
	redirects   *redirect.Builder
	signer      signing.Signer
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// New creates a Service.
func New(deps Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:       deps.Store,
		geo:         deps.Geo,
		eligibility: deps.Eligibility,
		quotes:      deps.Quotes,
		redirects:   deps.Redirects,
		signer:      deps.Signer,
		metrics:     deps.Metrics,
		logger:      logger.With(slog.String("component", "onboard")),
	}
}

// Onboard returns every provider catalog usable from the country of ip. A
// provider is attached only when it is eligible and has something to offer
// there.
func (s *Service) Onboard(ctx context.Context, ip string) (*domain.OnboardResponse, error) {
	start := time.Now()
	country := s.geo.Resolve(ctx, ip)
	resp := &domain.OnboardResponse{
		CountryCode:  country,
		CurrencyCode: s.eligibility.DefaultCurrency(country),
		Providers:    make(map[domain.ProviderID]domain.Catalog),
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for _, p := range domain.AllProviders() {
		g.Go(func() error {
			if !s.eligibility.IsEligible(ctx, p, ip, country) {
				return nil
			}
			slice := s.store.Catalog(p).ForCountry(country)
			if len(slice) == 0 {
				return nil
			}
			mu.Lock()
			resp.Providers[p] = slice
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	elapsed := time.Since(start)
	s.metrics.ObserveOnboard(elapsed)
	s.logger.Info("Onboard completed",
		"country", country, "currency", resp.CurrencyCode,
		"providers", len(resp.Providers), "duration", elapsed)
	return resp, nil
}

// Quote prices req with the requested providers. When req carries no country
// it is resolved from ip.
func (s *Service) Quote(ctx context.Context, ip string, req domain.QuoteRequest) (map[domain.ProviderID][]domain.Quote, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.CountryCode == "" && ip != "" {
		req.CountryCode = s.geo.Resolve(ctx, ip)
	}
	return s.quotes.GetQuotes(ctx, req), nil
}

// Redirect builds the deep link for req.
func (s *Service) Redirect(ctx context.Context, req domain.RedirectRequest) (string, error) {
	return s.redirects.Build(ctx, req)
}

// Sign returns the base64 signature of content.
func (s *Service) Sign(content string) (string, error) {
	if s.signer == nil {
		return "", fmt.Errorf("sign: %w", signing.ErrNoPrivateKey)
	}
	return signing.SignString(s.signer, content)
}

// Providers reports the load state of every provider.
func (s *Service) Providers() []catalog.Status {
	return s.store.Providers()
}
