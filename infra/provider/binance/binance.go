// Package binance integrates Binance Connect.
package binance

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/amirasaad/onramp/infra/provider/client"
	"github.com/amirasaad/onramp/pkg/catalog"
	"github.com/amirasaad/onramp/pkg/domain"
	"github.com/amirasaad/onramp/pkg/network"
	"github.com/amirasaad/onramp/pkg/provider"
	"github.com/amirasaad/onramp/pkg/redirect"
	"github.com/amirasaad/onramp/pkg/signing"
)

// DefaultRedirectURL is the hosted pre-connect page.
const DefaultRedirectURL = "https://www.binancecnt.com/en/pre-connect"

// Config holds the merchant settings.
type Config struct {
	MerchantCode string
	RedirectURL  string
	// FeePercent is charged on the trade amount.
	FeePercent decimal.Decimal
}

// Provider is the Binance Connect ramp.
type Provider struct {
	cfg    Config
	client *client.Client
	signer signing.Signer
	table  *network.Table
	logger *slog.Logger
	now    func() time.Time
}

var (
	_ provider.Ramp      = (*Provider)(nil)
	_ provider.IPChecker = (*Provider)(nil)
)

// New creates the provider. Every API call and redirect is signed with signer.
func New(cfg Config, c *client.Client, signer signing.Signer, logger *slog.Logger) *Provider {
	if cfg.RedirectURL == "" {
		cfg.RedirectURL = DefaultRedirectURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		cfg:    cfg,
		client: c,
		signer: signer,
		table:  network.BinanceTable(),
		logger: logger.With(slog.String("provider", string(domain.Binance))),
		now:    time.Now,
	}
}

func (p *Provider) ID() domain.ProviderID { return domain.Binance }

// Fetch loads trade pairs and networks in parallel.
func (p *Provider) Fetch(ctx context.Context) catalog.Result {
	var (
		pairs    []tradePair
		networks []cryptoNetwork
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		pairs, err = p.tradePairs(gctx)
		return err
	})
	g.Go(func() (err error) {
		networks, err = p.networkList(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return catalog.Failed(domain.Binance, fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err))
	}

	return catalog.Result{
		Provider: domain.Binance,
		Catalog:  p.build(pairs, networks),
	}
}

func (p *Provider) build(pairs []tradePair, networks []cryptoNetwork) domain.Catalog {
	b := catalog.NewBuilder(p.table, p.logger)
	for _, pair := range pairs {
		b.AddPaymentOption(pair.CryptoCurrency, pair.FiatCurrency, domain.PaymentOption{
			PaymentMethod: pair.PaymentMethod,
			MinLimit:      domain.OptionalLimit(pair.MinLimit),
			MaxLimit:      domain.OptionalLimit(pair.MaxLimit),
			Rate:          pair.Quotation,
		})
	}
	for _, n := range networks {
		b.AddNetwork(n.CryptoCurrency, n.Network)
	}
	return b.Build()
}

// Price uses the quotation captured at catalog load. The fee is a fixed
// percentage of the requested amount.
func (p *Provider) Price(_ context.Context, req domain.QuoteRequest, opt domain.PaymentOption) (domain.Price, error) {
	if opt.Rate <= 0 {
		return domain.Price{}, fmt.Errorf("%w: no quotation for %s/%s",
			domain.ErrUnsupportedFiat, req.CryptoCurrency, req.FiatCurrency)
	}
	fee := decimal.NewFromFloat(req.Amount).
		Mul(p.cfg.FeePercent).
		Div(decimal.NewFromInt(100))
	return domain.Price{Rate: opt.Rate, Fee: fee.InexactFloat64()}, nil
}

// RedirectURL builds a signed pre-connect link. Binance only accepts fiat
// order amounts.
func (p *Provider) RedirectURL(_ context.Context, req domain.RedirectRequest) (string, error) {
	if req.AmountType != domain.AmountFiat {
		return "", domain.NewInvalidRequest("amountType", "must be 'fiat' for binance")
	}
	native, err := redirect.NativeNetwork(p.table, req.Network)
	if err != nil {
		return "", err
	}

	var params redirect.Params
	params.AddIf("cryptoAddress", req.Address).
		Add("cryptoCurrency", req.CryptoCurrency).
		Add("cryptoNetwork", native).
		Add("fiatCurrency", req.FiatCurrency).
		Add("merchantCode", p.cfg.MerchantCode).
		AddFloat("orderAmount", req.Amount).
		Add("timestamp", strconv.FormatInt(p.now().UnixMilli(), 10))

	sig, err := signing.SignString(p.signer, params.Raw())
	if err != nil {
		return "", fmt.Errorf("sign redirect: %w", err)
	}
	params.Add("signature", sig)
	return params.URL(p.cfg.RedirectURL), nil
}
