package catalog

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirasaad/onramp/pkg/domain"
	"github.com/amirasaad/onramp/pkg/network"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func card(min, max float64) domain.PaymentOption {
	return domain.PaymentOption{
		PaymentMethod: "credit_debit_card",
		MinLimit:      domain.Limit(min),
		MaxLimit:      domain.Limit(max),
	}
}

func TestBuilder_MergesOptionsAndNetworks(t *testing.T) {
	b := NewBuilder(network.TransakTable(), discardLogger())
	b.AddPaymentOption("ETH", "usd", card(30, 3000))
	b.AddPaymentOption("ETH", "EUR", card(20, 2000))
	assert.True(t, b.AddNetwork("ETH", "ethereum"))
	assert.True(t, b.AddNetwork("ETH", "arbitrum"))
	assert.True(t, b.AddNetwork("ETH", "ethereum"))

	cat := b.Build()
	require.Contains(t, cat, "ETH")
	entry := cat["ETH"]
	assert.ElementsMatch(t, []network.Network{network.ETH, network.ARBI}, entry.Networks)
	assert.Len(t, entry.FiatCurrencies["USD"], 1)
	assert.Len(t, entry.FiatCurrencies["EUR"], 1)
}

func TestBuilder_DuplicateOptionsAreKept(t *testing.T) {
	b := NewBuilder(network.TransakTable(), discardLogger())
	b.AddPaymentOption("BTC", "USD", card(10, 100))
	b.AddPaymentOption("BTC", "USD", card(10, 100))
	b.AddNetwork("BTC", "mainnet")

	cat := b.Build()
	require.Contains(t, cat, "BTC")
	assert.Len(t, cat["BTC"].FiatCurrencies["USD"], 2)
}

func TestBuilder_NetworkWithoutFiatIsSkipped(t *testing.T) {
	b := NewBuilder(network.TransakTable(), discardLogger())
	assert.False(t, b.AddNetwork("DOGE", "dogecoin"))

	cat := b.Build()
	assert.NotContains(t, cat, "DOGE")
}

func TestBuilder_AllowListDropsUnknownNetworks(t *testing.T) {
	b := NewBuilder(network.MtPelerinTable(), discardLogger())
	b.AddPaymentOption("XTZ", "EUR", domain.PaymentOption{PaymentMethod: "bank_transfer"})
	assert.False(t, b.AddNetwork("XTZ", "tezos_mainnet"))

	cat := b.Build()
	assert.NotContains(t, cat, "XTZ", "asset without any network is pruned")
}

func TestBuilder_ExclusionPrunesEmptyEntries(t *testing.T) {
	b := NewBuilder(network.TransakTable(), discardLogger())
	b.AddPaymentOption("USDT", "GBP", card(10, 1000))
	b.AddPaymentOption("USDT", "EUR", card(10, 1000))
	b.AddPaymentOption("USDT", "EUR", domain.PaymentOption{PaymentMethod: "sepa_bank_transfer"})
	b.AddNetwork("USDT", "polygon")
	b.Exclude("USDT", Exclusion{Network: "polygon", FiatCurrency: "GBP", PaymentMethod: "credit_debit_card"})
	b.Exclude("USDT", Exclusion{Network: "polygon", FiatCurrency: "eur", PaymentMethod: "credit_debit_card"})

	cat := b.Build()
	require.Contains(t, cat, "USDT")
	assert.NotContains(t, cat["USDT"].FiatCurrencies, "GBP")
	require.Len(t, cat["USDT"].FiatCurrencies["EUR"], 1)
	assert.Equal(t, "sepa_bank_transfer", cat["USDT"].FiatCurrencies["EUR"][0].PaymentMethod)
}

func TestBuilder_ExcludingEverythingRemovesAsset(t *testing.T) {
	b := NewBuilder(network.TransakTable(), discardLogger())
	b.AddPaymentOption("SOL", "USD", card(10, 1000))
	b.AddNetwork("SOL", "solana")
	b.Exclude("SOL", Exclusion{FiatCurrency: "USD", PaymentMethod: "credit_debit_card"})

	assert.Empty(t, b.Build())
}

func TestBuilder_BuildInvariant(t *testing.T) {
	b := NewBuilder(network.BinanceTable(), discardLogger())
	b.AddPaymentOption("BNB", "USD", card(15, 20000))
	b.AddNetwork("BNB", "BSC")
	b.AddPaymentOption("ETH", "USD", card(15, 20000))
	b.AddNetwork("ETH", "ETH")
	b.AddPaymentOption("XRP", "USD", card(15, 20000))

	cat := b.Build()
	for asset, entry := range cat {
		assert.NotEmpty(t, entry.Networks, asset)
		assert.NotEmpty(t, entry.FiatCurrencies, asset)
		for fiat, options := range entry.FiatCurrencies {
			assert.NotEmpty(t, options, "%s/%s", asset, fiat)
		}
	}
	assert.Contains(t, cat, "BNB")
	assert.NotContains(t, cat, "ETH")
	assert.NotContains(t, cat, "XRP")
}

func TestCatalog_ForCountry(t *testing.T) {
	gbOnly := card(10, 100)
	gbOnly.SupportingCountries = []string{"GB"}
	everywhere := domain.PaymentOption{PaymentMethod: "apple_pay"}
	frOnly := card(10, 100)
	frOnly.SupportingCountries = []string{"FR"}

	b := NewBuilder(network.TransakTable(), discardLogger())
	b.AddPaymentOption("ETH", "GBP", gbOnly)
	b.AddPaymentOption("ETH", "USD", everywhere)
	b.AddNetwork("ETH", "ethereum")
	b.AddPaymentOption("BTC", "EUR", frOnly)
	b.AddNetwork("BTC", "mainnet")
	cat := b.Build()

	gb := cat.ForCountry("GB")
	require.Contains(t, gb, "ETH")
	assert.Len(t, gb["ETH"].FiatCurrencies, 2)
	assert.NotContains(t, gb, "BTC")

	de := cat.ForCountry("DE")
	require.Contains(t, de, "ETH")
	assert.NotContains(t, de["ETH"].FiatCurrencies, "GBP")
	assert.NotContains(t, de, "BTC")

	// slicing leaves the source untouched
	de["ETH"].Networks = nil
	assert.NotEmpty(t, cat["ETH"].Networks)
	assert.Contains(t, cat, "BTC")
}
