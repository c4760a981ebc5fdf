package quote

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirasaad/onramp/pkg/catalog"
	"github.com/amirasaad/onramp/pkg/domain"
	"github.com/amirasaad/onramp/pkg/metrics"
	"github.com/amirasaad/onramp/pkg/network"
	"github.com/amirasaad/onramp/pkg/provider"
)

type mockPricer struct {
	mock.Mock
}

func (m *mockPricer) Price(ctx context.Context, req domain.QuoteRequest, opt domain.PaymentOption) (domain.Price, error) {
	args := m.Called(ctx, req, opt)
	return args.Get(0).(domain.Price), args.Error(1)
}

type pricers map[domain.ProviderID]provider.Pricer

func (p pricers) Pricer(id domain.ProviderID) (provider.Pricer, bool) {
	pricer, ok := p[id]
	return pricer, ok
}

func option(method string, lo, hi float64) domain.PaymentOption {
	return domain.PaymentOption{PaymentMethod: method, MinLimit: domain.Limit(lo), MaxLimit: domain.Limit(hi)}
}

func ethOnBSC(options ...domain.PaymentOption) domain.Catalog {
	return domain.Catalog{
		"ETH": {
			Networks:       []network.Network{network.BSC},
			FiatCurrencies: map[string][]domain.PaymentOption{"USD": options},
		},
	}
}

func request(amountType domain.AmountType, amount float64, providers ...domain.ProviderID) domain.QuoteRequest {
	return domain.QuoteRequest{
		Providers:      providers,
		Network:        network.BSC,
		CryptoCurrency: "ETH",
		FiatCurrency:   "USD",
		AmountType:     amountType,
		Amount:         amount,
	}
}

func newEngine(store *catalog.Store, p Pricers) *Engine {
	return NewEngine(store, p, slog.New(slog.NewTextHandler(io.Discard, nil)), metrics.New(prometheus.NewRegistry()))
}

func TestGetQuotes_FiatRangeIsInclusive(t *testing.T) {
	store := catalog.NewStore(catalog.Result{Provider: domain.Transak, Catalog: ethOnBSC(option("card", 100, 5000))})
	pricer := new(mockPricer)
	pricer.On("Price", mock.Anything, mock.Anything, mock.Anything).Return(domain.Price{Rate: 2000, Fee: 3}, nil)
	engine := newEngine(store, pricers{domain.Transak: pricer})
	ctx := context.Background()

	tests := []struct {
		amount float64
		want   int
	}{
		{amount: 50, want: 0},
		{amount: 100, want: 1},
		{amount: 2500, want: 1},
		{amount: 5000, want: 1},
		{amount: 5000.01, want: 0},
	}
	for _, tt := range tests {
		got := engine.GetQuotes(ctx, request(domain.AmountFiat, tt.amount, domain.Transak))
		require.Contains(t, got, domain.Transak)
		assert.Len(t, got[domain.Transak], tt.want, "amount %v", tt.amount)
	}

	got := engine.GetQuotes(ctx, request(domain.AmountFiat, 100, domain.Transak))
	require.Len(t, got[domain.Transak], 1)
	assert.Equal(t, domain.Quote{Provider: domain.Transak, Rate: 2000, Fee: 3, PaymentMethod: "card"}, got[domain.Transak][0])
}

func TestGetQuotes_OutOfRangeFiatSkipsPricing(t *testing.T) {
	store := catalog.NewStore(catalog.Result{Provider: domain.Transak, Catalog: ethOnBSC(option("card", 100, 5000))})
	pricer := new(mockPricer)
	engine := newEngine(store, pricers{domain.Transak: pricer})

	got := engine.GetQuotes(context.Background(), request(domain.AmountFiat, 10, domain.Transak))
	assert.Empty(t, got[domain.Transak])
	pricer.AssertNotCalled(t, "Price", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetQuotes_CryptoAmountCheckedAfterPricing(t *testing.T) {
	store := catalog.NewStore(catalog.Result{Provider: domain.MtPelerin, Catalog: ethOnBSC(option("bank_transfer", 100, 5000))})
	pricer := new(mockPricer)
	pricer.On("Price", mock.Anything, mock.Anything, mock.Anything).Return(domain.Price{Rate: 2000, Fee: 1}, nil)
	engine := newEngine(store, pricers{domain.MtPelerin: pricer})
	ctx := context.Background()

	assert.Len(t, engine.GetQuotes(ctx, request(domain.AmountCrypto, 0.05, domain.MtPelerin))[domain.MtPelerin], 1)
	assert.Len(t, engine.GetQuotes(ctx, request(domain.AmountCrypto, 2.5, domain.MtPelerin))[domain.MtPelerin], 1)
	assert.Empty(t, engine.GetQuotes(ctx, request(domain.AmountCrypto, 3, domain.MtPelerin))[domain.MtPelerin])
	assert.Empty(t, engine.GetQuotes(ctx, request(domain.AmountCrypto, 0.01, domain.MtPelerin))[domain.MtPelerin])
}

func TestGetQuotes_OpenEndedLimits(t *testing.T) {
	store := catalog.NewStore(catalog.Result{Provider: domain.MtPelerin, Catalog: ethOnBSC(domain.PaymentOption{PaymentMethod: "bank_transfer"})})
	pricer := new(mockPricer)
	pricer.On("Price", mock.Anything, mock.Anything, mock.Anything).Return(domain.Price{Rate: 2000}, nil)
	engine := newEngine(store, pricers{domain.MtPelerin: pricer})

	got := engine.GetQuotes(context.Background(), request(domain.AmountFiat, 1e9, domain.MtPelerin))
	assert.Len(t, got[domain.MtPelerin], 1)
}

func TestGetQuotes_UnsupportedCombinationsAreEmpty(t *testing.T) {
	store := catalog.NewStore(catalog.Result{Provider: domain.Transak, Catalog: ethOnBSC(option("card", 100, 5000))})
	pricer := new(mockPricer)
	engine := newEngine(store, pricers{domain.Transak: pricer})
	ctx := context.Background()

	wrongNetwork := request(domain.AmountFiat, 200, domain.Transak)
	wrongNetwork.Network = network.ETH
	wrongAsset := request(domain.AmountFiat, 200, domain.Transak)
	wrongAsset.CryptoCurrency = "BTC"
	wrongFiat := request(domain.AmountFiat, 200, domain.Transak)
	wrongFiat.FiatCurrency = "EUR"

	for _, req := range []domain.QuoteRequest{wrongNetwork, wrongAsset, wrongFiat} {
		got := engine.GetQuotes(ctx, req)
		require.Contains(t, got, domain.Transak)
		assert.NotNil(t, got[domain.Transak])
		assert.Empty(t, got[domain.Transak])
	}
	pricer.AssertNotCalled(t, "Price", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetQuotes_EveryRequestedProviderHasKey(t *testing.T) {
	store := catalog.NewStore(
		catalog.Result{Provider: domain.Transak, Catalog: ethOnBSC(option("card", 100, 5000))},
		catalog.Failed(domain.Binance, domain.ErrProviderUnavailable),
	)
	pricer := new(mockPricer)
	pricer.On("Price", mock.Anything, mock.Anything, mock.Anything).Return(domain.Price{Rate: 2000}, nil)
	engine := newEngine(store, pricers{domain.Transak: pricer, domain.Binance: pricer})

	got := engine.GetQuotes(context.Background(),
		request(domain.AmountFiat, 200, domain.Transak, domain.Binance, domain.MtPelerin))

	assert.Len(t, got, 3)
	assert.Len(t, got[domain.Transak], 1)
	assert.Empty(t, got[domain.Binance])
	assert.Empty(t, got[domain.MtPelerin])
}

func TestGetQuotes_PricingFailureDropsOption(t *testing.T) {
	store := catalog.NewStore(catalog.Result{
		Provider: domain.Transak,
		Catalog:  ethOnBSC(option("card", 100, 5000), option("sepa", 100, 5000)),
	})
	pricer := new(mockPricer)
	pricer.On("Price", mock.Anything, mock.Anything, mock.MatchedBy(func(o domain.PaymentOption) bool {
		return o.PaymentMethod == "card"
	})).Return(domain.Price{}, errors.New("upstream 500"))
	pricer.On("Price", mock.Anything, mock.Anything, mock.MatchedBy(func(o domain.PaymentOption) bool {
		return o.PaymentMethod == "sepa"
	})).Return(domain.Price{Rate: 1990, Fee: 1}, nil)
	engine := newEngine(store, pricers{domain.Transak: pricer})

	got := engine.GetQuotes(context.Background(), request(domain.AmountFiat, 200, domain.Transak))
	require.Len(t, got[domain.Transak], 1)
	assert.Equal(t, "sepa", got[domain.Transak][0].PaymentMethod)
}

func TestGetQuotes_CountryRestriction(t *testing.T) {
	gbOnly := option("faster_payments", 100, 5000)
	gbOnly.SupportingCountries = []string{"GB"}
	store := catalog.NewStore(catalog.Result{Provider: domain.Transak, Catalog: ethOnBSC(gbOnly)})
	pricer := new(mockPricer)
	pricer.On("Price", mock.Anything, mock.Anything, mock.Anything).Return(domain.Price{Rate: 2000}, nil)
	engine := newEngine(store, pricers{domain.Transak: pricer})
	ctx := context.Background()

	req := request(domain.AmountFiat, 200, domain.Transak)
	req.CountryCode = "GB"
	assert.Len(t, engine.GetQuotes(ctx, req)[domain.Transak], 1)
	req.CountryCode = "FR"
	assert.Empty(t, engine.GetQuotes(ctx, req)[domain.Transak])
}

func TestGetQuotes_Deterministic(t *testing.T) {
	store := catalog.NewStore(catalog.Result{
		Provider: domain.Transak,
		Catalog:  ethOnBSC(option("card", 100, 5000), option("sepa", 50, 500)),
	})
	pricer := new(mockPricer)
	pricer.On("Price", mock.Anything, mock.Anything, mock.Anything).Return(domain.Price{Rate: 2000, Fee: 2}, nil)
	engine := newEngine(store, pricers{domain.Transak: pricer})
	req := request(domain.AmountFiat, 200, domain.Transak)

	first := engine.GetQuotes(context.Background(), req)
	for range 5 {
		assert.Equal(t, first, engine.GetQuotes(context.Background(), req))
	}
}
