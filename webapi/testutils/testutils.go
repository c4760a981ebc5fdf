// Package testutils runs the HTTP API against in-memory providers.
package testutils

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/amirasaad/onramp/pkg/app"
	"github.com/amirasaad/onramp/pkg/catalog"
	"github.com/amirasaad/onramp/pkg/config"
	"github.com/amirasaad/onramp/pkg/domain"
	"github.com/amirasaad/onramp/pkg/metrics"
	"github.com/amirasaad/onramp/pkg/network"
	"github.com/amirasaad/onramp/pkg/provider"
	"github.com/amirasaad/onramp/pkg/redirect"
	"github.com/amirasaad/onramp/pkg/signing"
	"github.com/amirasaad/onramp/webapi"
)

// Addresses the fake geolocation knows.
const (
	IPGB      = "81.2.69.142"
	IPUnknown = "203.0.113.1"
)

// Ramp is a provider double with a fixed price and a predictable redirect.
type Ramp struct {
	Provider domain.ProviderID
	Rate     float64
	Fee      float64
}

func (r Ramp) ID() domain.ProviderID { return r.Provider }

func (r Ramp) Fetch(context.Context) catalog.Result { return catalog.Result{Provider: r.Provider} }

func (r Ramp) Price(context.Context, domain.QuoteRequest, domain.PaymentOption) (domain.Price, error) {
	return domain.Price{Rate: r.Rate, Fee: r.Fee}, nil
}

func (r Ramp) RedirectURL(_ context.Context, req domain.RedirectRequest) (string, error) {
	switch {
	case r.Provider == domain.Transak && req.PaymentMethod == "":
		return "", domain.NewInvalidRequest("paymentMethod", "required for transak provider")
	case r.Provider == domain.Binance && req.AmountType == domain.AmountCrypto:
		return "", domain.NewInvalidRequest("amountType", "binance only accepts fiat amounts")
	}
	var params redirect.Params
	params.Add("asset", req.CryptoCurrency).
		Add("network", req.Network.String()).
		AddFloat("amount", req.Amount)
	return params.URL("https://" + string(r.Provider) + ".example/"), nil
}

type countries map[string]string

func (c countries) Resolve(_ context.Context, ip string) string {
	if country, ok := c[ip]; ok {
		return country
	}
	return "ZZ"
}

// Store returns a snapshot where Binance and Transak sell ETH on BSC for USD
// and Mt Pelerin failed to load. Binance allows any country some provider
// knows; Transak knows only GB.
func Store() *catalog.Store {
	eth := func(opt domain.PaymentOption) domain.Catalog {
		return domain.Catalog{"ETH": {
			Networks:       []network.Network{network.BSC},
			FiatCurrencies: map[string][]domain.PaymentOption{"USD": {opt}},
		}}
	}
	return catalog.NewStore(
		catalog.Result{
			Provider:       domain.Binance,
			DefaultAllowed: true,
			Catalog: eth(domain.PaymentOption{
				PaymentMethod: "CARD", MinLimit: domain.Limit(100), MaxLimit: domain.Limit(5000),
			}),
		},
		catalog.Result{
			Provider: domain.Transak,
			Catalog:  eth(domain.PaymentOption{PaymentMethod: "credit_debit_card"}),
			Countries: map[string]domain.CountryRecord{
				"GB": {Alpha2: "GB", CurrencyCode: "GBP", IsAllowed: true},
			},
		},
		catalog.Failed(domain.MtPelerin, domain.ErrProviderUnavailable),
	)
}

// E2ETestSuite serves the full fiber app over in-memory collaborators.
type E2ETestSuite struct {
	suite.Suite
	App    *fiber.App
	Signer *signing.RSASigner
	Config *config.App
}

// SetupSuite builds the app once for the suite.
func (s *E2ETestSuite) SetupSuite() {
	if s.Config == nil {
		s.Config = DefaultConfig()
	}
	s.App, s.Signer = NewApp(s.T(), s.Config)
}

// DefaultConfig is a configuration whose rate limit tests never reach. The
// in-memory test connection is a trusted proxy, so X-Forwarded-For names
// the client.
func DefaultConfig() *config.App {
	return &config.App{
		Env: "test",
		Server: &config.Server{
			ProxyHeader:    fiber.HeaderXForwardedFor,
			TrustedProxies: []string{"0.0.0.0"},
		},
		RateLimit: &config.RateLimit{MaxRequests: 1000, Window: time.Minute},
		Onboard:   &config.Onboard{DefaultCurrency: "USD"},
	}
}

// NewApp serves Store through fake providers with a fresh signing key.
func NewApp(t testing.TB, cfg *config.App) (*fiber.App, *signing.RSASigner) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	signer := signing.NewRSASigner(key, nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	a := app.New(&app.Deps{
		Store: Store(),
		Registry: provider.NewRegistry(
			Ramp{Provider: domain.Binance, Rate: 2000, Fee: 3},
			Ramp{Provider: domain.Transak, Rate: 2010, Fee: 4.5},
			Ramp{Provider: domain.MtPelerin, Rate: 1990, Fee: 1},
		),
		Geo:      countries{IPGB: "GB"},
		Signer:   signer,
		Metrics:  metrics.New(reg),
		Gatherer: reg,
		Logger:   logger,
	}, cfg)
	return webapi.SetupApp(a), signer
}

// MakeRequest sends a request as if it came from ip through a proxy.
func (s *E2ETestSuite) MakeRequest(method, path, body, ip string) *http.Response {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if ip != "" {
		req.Header.Set(fiber.HeaderXForwardedFor, ip)
	}
	resp, err := s.App.Test(req, -1)
	s.Require().NoError(err)
	return resp
}

// Get issues a GET against app from ip.
func Get(t testing.TB, app *fiber.App, path, ip string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if ip != "" {
		req.Header.Set(fiber.HeaderXForwardedFor, ip)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}
