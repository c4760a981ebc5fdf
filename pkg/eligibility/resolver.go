// Package eligibility decides which providers a user may use from a country.
package eligibility

import (
	"context"
	"log/slog"

	"github.com/amirasaad/onramp/pkg/catalog"
	"github.com/amirasaad/onramp/pkg/domain"
	"github.com/amirasaad/onramp/pkg/provider"
)

// DefaultCurrency is used when no provider knows the country's currency.
const DefaultCurrency = "USD"

// IPCheckers looks up a provider's live IP check.
type IPCheckers interface {
	IPChecker(id domain.ProviderID) (provider.IPChecker, bool)
}

// Resolver combines provider country data and live IP checks.
type Resolver struct {
	store    *catalog.Store
	checkers IPCheckers
	fallback string
	logger   *slog.Logger
}

// New creates a Resolver. checkers may be nil; fallback defaults to USD.
func New(store *catalog.Store, checkers IPCheckers, fallback string, logger *slog.Logger) *Resolver {
	if fallback == "" {
		fallback = DefaultCurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		store:    store,
		checkers: checkers,
		fallback: fallback,
		logger:   logger.With(slog.String("component", "eligibility")),
	}
}

// IsEligible reports whether a user at ip in country may use p.
func (r *Resolver) IsEligible(ctx context.Context, p domain.ProviderID, ip, country string) bool {
	if !r.store.Ready(p) {
		return false
	}
	if r.checkers != nil {
		if checker, ok := r.checkers.IPChecker(p); ok {
			allowed, err := checker.CheckIP(ctx, ip)
			if err != nil {
				r.logger.Warn("IP check failed", "provider", p, "ip", ip, "error", err)
				return false
			}
			return allowed
		}
	}
	if rec, ok := r.store.Country(p, country); ok {
		return rec.IsAllowed
	}
	// A default-allow policy only covers real countries: one that no other
	// provider has a record of is denied.
	return r.store.DefaultAllowed(p) && r.knownElsewhere(p, country)
}

func (r *Resolver) knownElsewhere(p domain.ProviderID, country string) bool {
	for _, other := range domain.AllProviders() {
		if other == p {
			continue
		}
		if _, ok := r.store.Country(other, country); ok {
			return true
		}
	}
	return false
}

// DefaultCurrency returns the local currency of country according to the
// first provider that knows it.
func (r *Resolver) DefaultCurrency(country string) string {
	for _, p := range domain.AllProviders() {
		if rec, ok := r.store.Country(p, country); ok && rec.CurrencyCode != "" {
			return rec.CurrencyCode
		}
	}
	return r.fallback
}
