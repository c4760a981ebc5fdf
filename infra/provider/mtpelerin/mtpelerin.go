// Package mtpelerin integrates the Mt Pelerin bridge widget.
package mtpelerin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/amirasaad/onramp/infra/provider/client"
	"github.com/amirasaad/onramp/pkg/catalog"
	"github.com/amirasaad/onramp/pkg/domain"
	"github.com/amirasaad/onramp/pkg/network"
	"github.com/amirasaad/onramp/pkg/provider"
	"github.com/amirasaad/onramp/pkg/redirect"
)

const (
	// DefaultBaseURL is the public API.
	DefaultBaseURL = "https://api.mtpelerin.com"
	// DefaultWidgetURL is the hosted widget.
	DefaultWidgetURL = "https://widget.mtpelerin.com/"

	// BankTransfer is the only payment method listed in the catalog.
	BankTransfer = "bank_transfer"
)

var errNoAmount = errors.New("mt pelerin returned no amount")

var supportedFiat = []string{
	"CHF", "DKK", "EUR", "GBP", "HKD", "JPY", "NOK", "NZD", "SEK", "SGD", "USD", "ZAR",
}

// bankEnabled fiat currencies are paid by transfer; others fall back to card.
var bankEnabled = map[string]bool{
	"CHF": true, "DKK": true, "EUR": true, "GBP": true, "HKD": true, "JPY": true,
	"NOK": true, "NZD": true, "SEK": true, "SGD": true, "USD": true, "ZAR": true,
}

var supportedSymbols = map[string]bool{
	"agEUR": true, "AVAX": true, "BNB": true, "BTC": true, "BTCB": true, "crvUSD": true,
	"DAI": true, "ETH": true, "EURL": true, "EURC": true, "EUROe": true, "EURS": true,
	"EURT": true, "FRAX": true, "GHO": true, "jCHF": true, "jEUR": true, "LUSD": true,
	"MAI": true, "MATIC": true, "RBTC": true, "RDOC": true, "RIF": true, "sat": true,
	"tzBTC": true, "USDC": true, "USDC.e": true, "USDRIF": true, "USDT": true,
	"WBTC": true, "WETH": true, "XCHF": true, "XDAI": true, "XTZ": true,
}

// Config holds the widget settings.
type Config struct {
	WidgetURL string
	// WidgetToken is the integrator token sent as _ctkn.
	WidgetToken string
	// Referrer is sent as rfr.
	Referrer string
}

// Provider is the Mt Pelerin ramp.
type Provider struct {
	cfg    Config
	client *client.Client
	table  *network.Table
	logger *slog.Logger
}

var _ provider.Ramp = (*Provider)(nil)

func New(cfg Config, c *client.Client, logger *slog.Logger) *Provider {
	if cfg.WidgetURL == "" {
		cfg.WidgetURL = DefaultWidgetURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		cfg:    cfg,
		client: c,
		table:  network.MtPelerinTable(),
		logger: logger.With(slog.String("provider", string(domain.MtPelerin))),
	}
}

func (p *Provider) ID() domain.ProviderID { return domain.MtPelerin }

// Fetch loads the forbidden country list and the token list in parallel.
// Countries not on the forbidden list are allowed.
func (p *Provider) Fetch(ctx context.Context) catalog.Result {
	var (
		forbidden []string
		tokens    map[string]token
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.client.GetJSON(gctx, forbiddenCountriesPath, nil, nil, &forbidden)
	})
	g.Go(func() error {
		return p.client.GetJSON(gctx, tokensPath, nil, nil, &tokens)
	})
	if err := g.Wait(); err != nil {
		return catalog.Failed(domain.MtPelerin, fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err))
	}

	countries := make(map[string]domain.CountryRecord, len(forbidden))
	for _, code := range forbidden {
		code = strings.ToUpper(code)
		countries[code] = domain.CountryRecord{Alpha2: code, IsAllowed: false}
	}
	return catalog.Result{
		Provider:       domain.MtPelerin,
		Catalog:        p.build(tokens),
		Countries:      countries,
		DefaultAllowed: true,
	}
}

func (p *Provider) build(tokens map[string]token) domain.Catalog {
	ids := make([]string, 0, len(tokens))
	for id := range tokens {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	b := catalog.NewBuilder(p.table, p.logger)
	seen := make(map[string]bool)
	for _, id := range ids {
		t := tokens[id]
		if t.Network == "" || !supportedSymbols[t.Symbol] {
			continue
		}
		if _, ok := p.table.Canonicalize(t.Network); !ok {
			continue
		}
		if !seen[t.Symbol] {
			seen[t.Symbol] = true
			for _, fiat := range supportedFiat {
				b.AddPaymentOption(t.Symbol, fiat, domain.PaymentOption{PaymentMethod: BankTransfer})
			}
		}
		b.SetAssetID(t.Symbol, id)
		b.AddNetwork(t.Symbol, t.Network)
	}
	return b.Build()
}

// Price converts through the live rate endpoint. Fiat amounts are converted
// fiat to crypto; crypto amounts the other way round.
func (p *Provider) Price(ctx context.Context, req domain.QuoteRequest, _ domain.PaymentOption) (domain.Price, error) {
	if !slices.Contains(supportedFiat, req.FiatCurrency) {
		return domain.Price{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedFiat, req.FiatCurrency)
	}
	native, ok := p.table.Native(req.Network)
	if !ok {
		return domain.Price{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedNetwork, req.Network)
	}

	body := convertRequest{
		SourceCurrency: req.FiatCurrency,
		SourceNetwork:  fiatNetwork,
		SourceAmount:   req.Amount,
		DestCurrency:   req.CryptoCurrency,
		DestNetwork:    native,
		IsCardPayment:  !bankEnabled[req.FiatCurrency],
	}
	if req.AmountType == domain.AmountCrypto {
		body.SourceCurrency, body.DestCurrency = req.CryptoCurrency, req.FiatCurrency
		body.SourceNetwork, body.DestNetwork = native, fiatNetwork
	}

	var resp convertResponse
	if err := p.client.PostJSON(ctx, convertPath, body, nil, &resp); err != nil {
		return domain.Price{}, err
	}
	dest := float64(resp.DestAmount)
	if dest <= 0 {
		return domain.Price{}, errNoAmount
	}

	fiatAmount, rate := req.Amount, req.Amount/dest
	if req.AmountType == domain.AmountCrypto {
		fiatAmount, rate = dest, dest/req.Amount
	}
	fee := float64(resp.Fees.NetworkFee) + float64(resp.Fees.FixFee)*fiatAmount/100
	return domain.Price{Rate: rate, Fee: fee}, nil
}

// RedirectURL builds a widget link on the buy tab.
func (p *Provider) RedirectURL(_ context.Context, req domain.RedirectRequest) (string, error) {
	native, err := redirect.NativeNetwork(p.table, req.Network)
	if err != nil {
		return "", err
	}

	var params redirect.Params
	params.Add("type", "web").
		Add("lang", "en").
		Add("tab", "buy").
		Add("mode", "dark").
		Add("bdc", req.CryptoCurrency).
		Add("bsc", req.FiatCurrency)
	if req.AmountType == domain.AmountCrypto {
		params.AddFloat("bda", req.Amount)
	} else {
		params.AddFloat("bsa", req.Amount)
	}
	params.Add("net", native).
		AddIf("addr", req.Address).
		AddIf("_ctkn", p.cfg.WidgetToken).
		AddIf("rfr", p.cfg.Referrer)
	if !bankEnabled[req.FiatCurrency] {
		params.Add("pm", "card")
	}
	return params.URL(p.cfg.WidgetURL), nil
}
