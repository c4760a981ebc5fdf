package transak

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirasaad/onramp/infra/provider/client"
	"github.com/amirasaad/onramp/pkg/catalog"
	"github.com/amirasaad/onramp/pkg/domain"
	"github.com/amirasaad/onramp/pkg/network"
	"github.com/amirasaad/onramp/pkg/provider"
	"github.com/amirasaad/onramp/pkg/quote"
)

const countriesJSON = `{"response":[
 {"alpha2":"gb","alpha3":"GBR","name":"United Kingdom","currencyCode":"gbp","isAllowed":true},
 {"alpha2":"KP","alpha3":"PRK","name":"North Korea","currencyCode":"KPW","isAllowed":false}
]}`

const fiatJSON = `{"response":[
 {"symbol":"USD","isAllowed":true,"supportingCountries":["us","gb"],"paymentOptions":[
   {"id":"credit_debit_card","minAmount":30,"maxAmount":3000,"isActive":true},
   {"id":"pm_wire","minAmount":100,"maxAmount":50000,"isActive":false}]},
 {"symbol":"eur","isAllowed":true,"supportingCountries":["de","fr"],"paymentOptions":[
   {"id":"sepa_bank_transfer","minAmount":20,"maxAmount":0,"isActive":true}]},
 {"symbol":"JPY","isAllowed":false,"supportingCountries":["jp"],"paymentOptions":[
   {"id":"credit_debit_card","minAmount":1000,"maxAmount":100000,"isActive":true}]}
]}`

const cryptoJSON = `{"response":[
 {"symbol":"USDT","uniqueId":"USDTethereum","isAllowed":true,"network":{"name":"ethereum",
   "fiatCurrenciesNotSupported":[{"fiatCurrency":"EUR","paymentMethod":"sepa_bank_transfer"}]}},
 {"symbol":"USDT","uniqueId":"USDTpolygon","isAllowed":true,"network":{"name":"polygon"}},
 {"symbol":"ETH","uniqueId":"ETHethereum","isAllowed":true,"network":{"name":"ethereum"}},
 {"symbol":"STRK","uniqueId":"STRKstarknet","isAllowed":true,"network":{"name":"starknet"}},
 {"symbol":"XYZ","uniqueId":"XYZbsc","isAllowed":false,"network":{"name":"bsc"}}
]}`

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := client.New(client.Config{Name: "transak", BaseURL: srv.URL, Timeout: time.Second},
		slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	require.NoError(t, err)

	p := New(Config{APIKey: "key"}, c, slog.New(slog.NewTextHandler(io.Discard, nil)))
	p.orderID = func() string { return "order-1" }
	return p
}

func catalogHandler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case countriesPath:
		_, _ = w.Write([]byte(countriesJSON))
	case fiatCurrenciesPath:
		_, _ = w.Write([]byte(fiatJSON))
	case cryptoCurrenciesPath:
		_, _ = w.Write([]byte(cryptoJSON))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestFetch(t *testing.T) {
	p := newTestProvider(t, catalogHandler)

	res := p.Fetch(context.Background())
	require.NoError(t, res.Err)
	assert.Equal(t, domain.Transak, res.Provider)
	assert.False(t, res.DefaultAllowed)

	cat := res.Catalog
	require.Contains(t, cat, "USDT")
	usdt := cat["USDT"]
	assert.Equal(t, []network.Network{network.ETH, network.MATIC}, usdt.Networks)
	assert.Equal(t, "USDTethereum", usdt.AssetID)
	require.Len(t, usdt.FiatCurrencies["USD"], 1, "inactive options are skipped")
	card := usdt.FiatCurrencies["USD"][0]
	assert.Equal(t, "credit_debit_card", card.PaymentMethod)
	assert.InDelta(t, 30, *card.MinLimit, 0)
	assert.InDelta(t, 3000, *card.MaxLimit, 0)
	assert.Equal(t, []string{"US", "GB"}, card.SupportingCountries)
	assert.NotContains(t, usdt.FiatCurrencies, "EUR", "excluded route leaves no options")

	require.Contains(t, cat, "ETH")
	require.Len(t, cat["ETH"].FiatCurrencies["EUR"], 1)
	assert.Nil(t, cat["ETH"].FiatCurrencies["EUR"][0].MaxLimit)

	require.Contains(t, cat, "STRK")
	assert.Equal(t, []network.Network{"starknet"}, cat["STRK"].Networks)

	assert.NotContains(t, cat, "XYZ")
	for _, e := range cat {
		assert.NotContains(t, e.FiatCurrencies, "JPY")
	}

	gb, ok := res.Countries["GB"]
	require.True(t, ok)
	assert.Equal(t, "GBP", gb.CurrencyCode)
	assert.True(t, gb.IsAllowed)
	assert.False(t, res.Countries["KP"].IsAllowed)
}

func TestFetchFailure(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == cryptoCurrenciesPath {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		catalogHandler(w, r)
	})

	res := p.Fetch(context.Background())
	assert.ErrorIs(t, res.Err, domain.ErrProviderUnavailable)
	assert.Empty(t, res.Catalog)
}

func TestCatalogForCountry(t *testing.T) {
	p := newTestProvider(t, catalogHandler)
	res := p.Fetch(context.Background())
	require.NoError(t, res.Err)

	gb := res.Catalog.ForCountry("GB")
	require.Contains(t, gb, "USDT")
	assert.Contains(t, gb["USDT"].FiatCurrencies, "USD")
	require.Contains(t, gb, "ETH")
	assert.NotContains(t, gb["ETH"].FiatCurrencies, "EUR")
}

func TestPrice(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pricePath, r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "key", q.Get("partnerApiKey"))
		assert.Equal(t, "ethereum", q.Get("network"))
		assert.Equal(t, "BUY", q.Get("isBuyOrSell"))
		assert.Equal(t, "credit_debit_card", q.Get("paymentMethod"))
		assert.Equal(t, "250", q.Get("fiatAmount"))
		assert.Empty(t, q.Get("cryptoAmount"))
		_, _ = w.Write([]byte(`{"response":{"conversionPrice":0.0005,"fiatAmount":250,"cryptoAmount":0.12,"totalFee":3.5}}`))
	})

	price, err := p.Price(context.Background(), domain.QuoteRequest{
		Network:        network.ETH,
		CryptoCurrency: "ETH",
		FiatCurrency:   "USD",
		AmountType:     domain.AmountFiat,
		Amount:         250,
	}, domain.PaymentOption{PaymentMethod: "credit_debit_card"})
	require.NoError(t, err)
	assert.InDelta(t, 2000, price.Rate, 1e-6)
	assert.InDelta(t, 3.5, price.Fee, 0)
}

func TestPriceErrors(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("cryptoAmount") != "" {
			_, _ = w.Write([]byte(`{"response":{"conversionPrice":0}}`))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
	})
	req := domain.QuoteRequest{Network: network.ETH, CryptoCurrency: "ETH", FiatCurrency: "USD", Amount: 1}

	req.AmountType = domain.AmountFiat
	_, err := p.Price(context.Background(), req, domain.PaymentOption{PaymentMethod: "credit_debit_card"})
	var statusErr *client.StatusError
	assert.ErrorAs(t, err, &statusErr)

	req.AmountType = domain.AmountCrypto
	_, err = p.Price(context.Background(), req, domain.PaymentOption{PaymentMethod: "credit_debit_card"})
	assert.ErrorIs(t, err, errNoPrice)

	req.Network = network.Network("ethereum")
	_, err = p.Price(context.Background(), req, domain.PaymentOption{PaymentMethod: "credit_debit_card"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedNetwork)
}

func TestRedirectURL(t *testing.T) {
	p := newTestProvider(t, catalogHandler)

	u, err := p.RedirectURL(context.Background(), domain.RedirectRequest{
		Provider:       domain.Transak,
		Network:        network.ETH,
		CryptoCurrency: "USDT",
		FiatCurrency:   "USD",
		AmountType:     domain.AmountFiat,
		Amount:         100,
		Address:        "0xabc",
		PaymentMethod:  "credit_debit_card",
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultRedirectURL+"?apiKey=key&cryptoCurrencyCode=USDT&fiatCurrency=USD"+
		"&network=ethereum&paymentMethod=credit_debit_card&fiatAmount=100"+
		"&walletAddress=0xabc&partnerOrderId=order-1", u)
}

func TestRedirectURLCryptoAmount(t *testing.T) {
	p := newTestProvider(t, catalogHandler)

	u, err := p.RedirectURL(context.Background(), domain.RedirectRequest{
		Provider:       domain.Transak,
		Network:        network.MATIC,
		CryptoCurrency: "USDT",
		FiatCurrency:   "EUR",
		AmountType:     domain.AmountCrypto,
		Amount:         0.5,
		PaymentMethod:  "sepa_bank_transfer",
	})
	require.NoError(t, err)
	assert.Contains(t, u, "network=polygon")
	assert.Contains(t, u, "cryptoAmount=0.5")
	assert.NotContains(t, u, "walletAddress")
}

func TestRedirectURLRequiresPaymentMethod(t *testing.T) {
	p := newTestProvider(t, catalogHandler)

	_, err := p.RedirectURL(context.Background(), domain.RedirectRequest{
		Provider:       domain.Transak,
		Network:        network.ETH,
		CryptoCurrency: "USDT",
		FiatCurrency:   "USD",
		AmountType:     domain.AmountFiat,
		Amount:         100,
	})
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.ErrorContains(t, err, "paymentMethod")
}

func TestAdvertisedNetworksAreQuotable(t *testing.T) {
	const cryptos = `{"response":[
 {"symbol":"ETH","uniqueId":"ETHethereum","isAllowed":true,"network":{"name":"ethereum"}},
 {"symbol":"ETH","uniqueId":"ETHbase","isAllowed":true,"network":{"name":"base"}},
 {"symbol":"ETH","uniqueId":"ETHlinea","isAllowed":true,"network":{"name":"linea"}}
]}`
	var (
		mu   sync.Mutex
		seen []string
	)
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case cryptoCurrenciesPath:
			_, _ = w.Write([]byte(cryptos))
		case pricePath:
			mu.Lock()
			seen = append(seen, r.URL.Query().Get("network"))
			mu.Unlock()
			_, _ = w.Write([]byte(`{"response":{"conversionPrice":0.0005,"totalFee":1}}`))
		default:
			catalogHandler(w, r)
		}
	})

	res := p.Fetch(context.Background())
	require.NoError(t, res.Err)
	networks := res.Catalog["ETH"].Networks
	assert.Equal(t, []network.Network{network.ETH, network.BASE, "linea"}, networks)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := quote.NewEngine(catalog.NewStore(res), provider.NewRegistry(p), logger, nil)

	for _, n := range networks {
		// clients send back what onboarding advertised
		parsed := network.Parse(string(n))

		quotes := engine.GetQuotes(context.Background(), domain.QuoteRequest{
			Providers:      []domain.ProviderID{domain.Transak},
			Network:        parsed,
			CryptoCurrency: "ETH",
			FiatCurrency:   "USD",
			AmountType:     domain.AmountFiat,
			Amount:         100,
		})
		assert.Len(t, quotes[domain.Transak], 1, "network %s", n)

		u, err := p.RedirectURL(context.Background(), domain.RedirectRequest{
			Provider:       domain.Transak,
			Network:        parsed,
			CryptoCurrency: "ETH",
			FiatCurrency:   "USD",
			AmountType:     domain.AmountFiat,
			Amount:         100,
			PaymentMethod:  "credit_debit_card",
		})
		require.NoError(t, err, "network %s", n)
		assert.Contains(t, u, "network=")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"ethereum", "base", "linea"}, seen)
}
