package redirect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirasaad/onramp/pkg/catalog"
	"github.com/amirasaad/onramp/pkg/domain"
	"github.com/amirasaad/onramp/pkg/network"
	"github.com/amirasaad/onramp/pkg/provider"
)

func TestParams_KeepsOrder(t *testing.T) {
	var p Params
	p.Add("z", "1").AddIf("empty", "").Add("a", "x y").Flag("bsc").AddFloat("amount", 100.5)

	assert.Equal(t, "z=1&a=x y&bsc&amount=100.5", p.Raw())
	assert.Equal(t, "z=1&a=x+y&bsc&amount=100.5", p.Encode())
	assert.Equal(t, "https://example.com/?z=1&a=x+y&bsc&amount=100.5", p.URL("https://example.com/"))
	assert.Equal(t, "https://example.com/?type=web&z=1&a=x+y&bsc&amount=100.5", p.URL("https://example.com/?type=web"))
}

func TestParams_Empty(t *testing.T) {
	var p Params
	assert.Equal(t, "", p.Raw())
	assert.Equal(t, "https://example.com", p.URL("https://example.com"))
}

type tableRamp struct {
	id    domain.ProviderID
	table *network.Table
}

func (r tableRamp) ID() domain.ProviderID { return r.id }

func (r tableRamp) Fetch(context.Context) catalog.Result { return catalog.Result{} }

func (r tableRamp) Price(context.Context, domain.QuoteRequest, domain.PaymentOption) (domain.Price, error) {
	return domain.Price{}, nil
}

func (r tableRamp) RedirectURL(_ context.Context, req domain.RedirectRequest) (string, error) {
	native, err := NativeNetwork(r.table, req.Network)
	if err != nil {
		return "", err
	}
	var p Params
	p.Add("network", native).Add("fiat", req.FiatCurrency)
	return p.URL("https://ramp.example"), nil
}

func redirectRequest(n network.Network) domain.RedirectRequest {
	return domain.RedirectRequest{
		Provider:       domain.Binance,
		Network:        n,
		CryptoCurrency: "USDT",
		FiatCurrency:   "eur",
		AmountType:     domain.AmountFiat,
		Amount:         100,
	}
}

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder(provider.NewRegistry(tableRamp{id: domain.Binance, table: network.BinanceTable()}), nil)

	u, err := b.Build(context.Background(), redirectRequest(network.ARBI))
	require.NoError(t, err)
	assert.Equal(t, "https://ramp.example?network=ARBITRUM&fiat=EUR", u)
}

func TestBuilder_UnmappedNetworkIsInvalidRequest(t *testing.T) {
	b := NewBuilder(provider.NewRegistry(tableRamp{id: domain.Binance, table: network.BinanceTable()}), nil)

	u, err := b.Build(context.Background(), redirectRequest(network.ETH))
	assert.Empty(t, u)
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
	var invalid *domain.InvalidRequestError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "network", invalid.Field)
}

func TestBuilder_RejectsBadInput(t *testing.T) {
	b := NewBuilder(provider.NewRegistry(tableRamp{id: domain.Binance, table: network.BinanceTable()}), nil)

	missingAmount := redirectRequest(network.BSC)
	missingAmount.Amount = 0
	_, err := b.Build(context.Background(), missingAmount)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	unknown := redirectRequest(network.BSC)
	unknown.Provider = domain.Transak
	_, err = b.Build(context.Background(), unknown)
	assert.ErrorIs(t, err, domain.ErrUnknownProvider)
}
