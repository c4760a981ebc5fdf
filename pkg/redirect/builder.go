package redirect

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirasaad/onramp/pkg/domain"
	"github.com/amirasaad/onramp/pkg/network"
	"github.com/amirasaad/onramp/pkg/provider"
)

// Redirectors looks up the redirect builder of a provider.
type Redirectors interface {
	Get(id domain.ProviderID) (provider.Ramp, error)
}

// Builder dispatches redirect requests to the provider that serves them.
type Builder struct {
	ramps  Redirectors
	logger *slog.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(ramps Redirectors, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{ramps: ramps, logger: logger.With(slog.String("component", "redirect"))}
}

// Build validates req and returns the provider URL. Every failure wraps
// domain.ErrInvalidRequest.
func (b *Builder) Build(ctx context.Context, req domain.RedirectRequest) (string, error) {
	req.FiatCurrency = network.Currency(req.FiatCurrency)
	if err := req.Validate(); err != nil {
		return "", err
	}
	ramp, err := b.ramps.Get(req.Provider)
	if err != nil {
		return "", err
	}
	u, err := ramp.RedirectURL(ctx, req)
	if err != nil {
		b.logger.Info("Redirect rejected", "provider", req.Provider, "error", err)
		return "", fmt.Errorf("build %s redirect: %w", req.Provider, err)
	}
	return u, nil
}

// NativeNetwork reverse-maps n with table, failing with an InvalidRequestError
// when the provider has no name for it.
func NativeNetwork(table *network.Table, n network.Network) (string, error) {
	native, ok := table.Native(n)
	if !ok {
		return "", domain.NewInvalidRequest("network", fmt.Sprintf("%s is not supported", n))
	}
	return native, nil
}
