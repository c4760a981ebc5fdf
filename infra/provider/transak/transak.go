// Package transak integrates the Transak fiat gateway.
package transak

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/amirasaad/onramp/infra/provider/client"
	"github.com/amirasaad/onramp/pkg/catalog"
	"github.com/amirasaad/onramp/pkg/domain"
	"github.com/amirasaad/onramp/pkg/network"
	"github.com/amirasaad/onramp/pkg/provider"
	"github.com/amirasaad/onramp/pkg/redirect"
)

// DefaultRedirectURL is the hosted widget.
const DefaultRedirectURL = "https://global.transak.com/"

var errNoPrice = errors.New("transak returned no conversion price")

// Config holds the partner settings.
type Config struct {
	APIKey      string
	RedirectURL string
}

// Provider is the Transak ramp.
type Provider struct {
	cfg     Config
	client  *client.Client
	table   *network.Table
	logger  *slog.Logger
	orderID func() string
}

var _ provider.Ramp = (*Provider)(nil)

// New creates the provider.
func New(cfg Config, c *client.Client, logger *slog.Logger) *Provider {
	if cfg.RedirectURL == "" {
		cfg.RedirectURL = DefaultRedirectURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		cfg:     cfg,
		client:  c,
		table:   network.TransakTable(),
		logger:  logger.With(slog.String("provider", string(domain.Transak))),
		orderID: func() string { return uuid.NewString() },
	}
}

func (p *Provider) ID() domain.ProviderID { return domain.Transak }

// Fetch loads countries, fiat and crypto currencies in parallel.
func (p *Provider) Fetch(ctx context.Context) catalog.Result {
	var (
		countries []country
		fiats     []fiatCurrency
		cryptos   []cryptoCurrency
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		countries, err = get[[]country](gctx, p, countriesPath, nil)
		return err
	})
	g.Go(func() (err error) {
		fiats, err = get[[]fiatCurrency](gctx, p, fiatCurrenciesPath, nil)
		return err
	})
	g.Go(func() (err error) {
		cryptos, err = get[[]cryptoCurrency](gctx, p, cryptoCurrenciesPath, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return catalog.Failed(domain.Transak, fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err))
	}

	return catalog.Result{
		Provider:  domain.Transak,
		Catalog:   p.build(fiats, cryptos),
		Countries: countryRecords(countries),
	}
}

func countryRecords(countries []country) map[string]domain.CountryRecord {
	out := make(map[string]domain.CountryRecord, len(countries))
	for _, c := range countries {
		code := strings.ToUpper(c.Alpha2)
		out[code] = domain.CountryRecord{
			Alpha2:       code,
			Alpha3:       c.Alpha3,
			Name:         c.Name,
			CurrencyCode: network.Currency(c.CurrencyCode),
			IsAllowed:    c.IsAllowed,
		}
	}
	return out
}

// build offers every allowed fiat route for every allowed crypto asset, then
// removes the combinations Transak reports as unsupported on a network.
func (p *Provider) build(fiats []fiatCurrency, cryptos []cryptoCurrency) domain.Catalog {
	routes := make(map[string][]domain.PaymentOption)
	for _, f := range fiats {
		if !f.IsAllowed {
			continue
		}
		countries := make([]string, 0, len(f.SupportingCountries))
		for _, c := range f.SupportingCountries {
			countries = append(countries, strings.ToUpper(c))
		}
		for _, o := range f.PaymentOptions {
			if !o.IsActive {
				continue
			}
			routes[f.Symbol] = append(routes[f.Symbol], domain.PaymentOption{
				PaymentMethod:       o.ID,
				MinLimit:            domain.OptionalLimit(o.MinAmount),
				MaxLimit:            domain.OptionalLimit(o.MaxAmount),
				SupportingCountries: countries,
			})
		}
	}

	b := catalog.NewBuilder(p.table, p.logger)
	seen := make(map[string]bool)
	for _, c := range cryptos {
		if !c.IsAllowed {
			continue
		}
		if !seen[c.Symbol] {
			seen[c.Symbol] = true
			for fiat, options := range routes {
				for _, o := range options {
					b.AddPaymentOption(c.Symbol, fiat, o)
				}
			}
		}
		b.SetAssetID(c.Symbol, c.UniqueID)
		b.AddNetwork(c.Symbol, c.Network.Name)
		for _, u := range c.Network.FiatCurrenciesNotSupported {
			b.Exclude(c.Symbol, catalog.Exclusion{
				Network:       c.Network.Name,
				FiatCurrency:  u.FiatCurrency,
				PaymentMethod: u.PaymentMethod,
			})
		}
	}
	return b.Build()
}

// Price asks Transak for a live quote of one payment method.
func (p *Provider) Price(ctx context.Context, req domain.QuoteRequest, opt domain.PaymentOption) (domain.Price, error) {
	native, ok := p.table.Native(req.Network)
	if !ok {
		return domain.Price{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedNetwork, req.Network)
	}
	q := url.Values{}
	q.Set("partnerApiKey", p.cfg.APIKey)
	q.Set("fiatCurrency", req.FiatCurrency)
	q.Set("cryptoCurrency", req.CryptoCurrency)
	q.Set("isBuyOrSell", "BUY")
	q.Set("network", native)
	q.Set("paymentMethod", opt.PaymentMethod)
	if req.AmountType == domain.AmountCrypto {
		q.Set("cryptoAmount", strconv.FormatFloat(req.Amount, 'f', -1, 64))
	} else {
		q.Set("fiatAmount", strconv.FormatFloat(req.Amount, 'f', -1, 64))
	}

	quote, err := get[priceQuote](ctx, p, pricePath, q)
	if err != nil {
		return domain.Price{}, err
	}
	if quote.ConversionPrice <= 0 {
		return domain.Price{}, errNoPrice
	}
	return domain.Price{Rate: 1 / quote.ConversionPrice, Fee: quote.TotalFee}, nil
}

// RedirectURL builds a widget link. Transak needs the payment method chosen
// from a quote.
func (p *Provider) RedirectURL(_ context.Context, req domain.RedirectRequest) (string, error) {
	if req.PaymentMethod == "" {
		return "", domain.NewInvalidRequest("paymentMethod", "required for transak provider")
	}
	native, err := redirect.NativeNetwork(p.table, req.Network)
	if err != nil {
		return "", err
	}

	var params redirect.Params
	params.Add("apiKey", p.cfg.APIKey).
		Add("cryptoCurrencyCode", req.CryptoCurrency).
		Add("fiatCurrency", req.FiatCurrency).
		Add("network", native).
		Add("paymentMethod", req.PaymentMethod)
	if req.AmountType == domain.AmountCrypto {
		params.AddFloat("cryptoAmount", req.Amount)
	} else {
		params.AddFloat("fiatAmount", req.Amount)
	}
	params.AddIf("walletAddress", req.Address).
		Add("partnerOrderId", p.orderID())
	return params.URL(p.cfg.RedirectURL), nil
}
