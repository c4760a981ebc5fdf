package provider

import (
	"context"

	"github.com/amirasaad/onramp/pkg/catalog"
	"github.com/amirasaad/onramp/pkg/domain"
)

// Fetcher loads a provider's catalog at startup.
type Fetcher = catalog.Fetcher

// Pricer prices one catalog payment option for a quote request.
type Pricer interface {
	// Price returns the rate and fee for opt. Errors drop the option from the
	// quote; they are not surfaced to the caller.
	Price(ctx context.Context, req domain.QuoteRequest, opt domain.PaymentOption) (domain.Price, error)
}

// Redirector builds a deep link into the provider's hosted flow.
type Redirector interface {
	// RedirectURL returns an error wrapping domain.ErrInvalidRequest for
	// input the provider cannot serve.
	RedirectURL(ctx context.Context, req domain.RedirectRequest) (string, error)
}

// IPChecker asks the provider whether a client IP may use it.
type IPChecker interface {
	CheckIP(ctx context.Context, ip string) (bool, error)
}

// Ramp is the full contract every on/off-ramp provider implements.
type Ramp interface {
	Fetcher
	Pricer
	Redirector
}
