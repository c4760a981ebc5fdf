package catalog

import (
	"log/slog"

	"github.com/amirasaad/onramp/pkg/domain"
	"github.com/amirasaad/onramp/pkg/network"
)

// Exclusion removes a payment method for one fiat currency from an asset.
// Network records where the provider reported it; the exclusion applies to
// the asset as a whole.
type Exclusion struct {
	Network       string
	FiatCurrency  string
	PaymentMethod string
}

// Builder merges one provider's raw catalog into a domain.Catalog.
// It is not safe for concurrent use; every provider owns its own builder.
type Builder struct {
	table   *network.Table
	logger  *slog.Logger
	entries domain.Catalog
	// exclusions are applied at Build so that their order relative to
	// AddPaymentOption does not matter.
	exclusions map[string][]Exclusion
}

// NewBuilder creates a builder that canonicalizes networks with table.
func NewBuilder(table *network.Table, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		table:      table,
		logger:     logger,
		entries:    make(domain.Catalog),
		exclusions: make(map[string][]Exclusion),
	}
}

func (b *Builder) entry(asset string) *domain.CatalogEntry {
	e, ok := b.entries[asset]
	if !ok {
		e = domain.NewCatalogEntry()
		b.entries[asset] = e
	}
	return e
}

// AddPaymentOption appends opt under asset and fiat. Duplicates are kept.
func (b *Builder) AddPaymentOption(asset, fiat string, opt domain.PaymentOption) {
	e := b.entry(asset)
	fiat = network.Currency(fiat)
	e.FiatCurrencies[fiat] = append(e.FiatCurrencies[fiat], opt)
}

// SetAssetID records the provider-internal id of an asset already in the
// catalog. Assets listed once per network keep the first id.
func (b *Builder) SetAssetID(asset, id string) {
	if e, ok := b.entries[asset]; ok && e.AssetID == "" {
		e.AssetID = id
	}
}

// AddNetwork records that asset is offered on the provider network nativeName.
// It reports false when the asset has no fiat record yet or the table drops
// the name.
func (b *Builder) AddNetwork(asset, nativeName string) bool {
	e, ok := b.entries[asset]
	if !ok || len(e.FiatCurrencies) == 0 {
		b.logger.Debug("Skipping network for asset without fiat currencies",
			"asset", asset, "network", nativeName)
		return false
	}
	n, ok := b.table.Canonicalize(nativeName)
	if !ok {
		b.logger.Debug("Network not supported", "asset", asset, "network", nativeName)
		return false
	}
	if !e.HasNetwork(n) {
		e.Networks = append(e.Networks, n)
	}
	return true
}

// Exclude drops the options of asset matching ex.
func (b *Builder) Exclude(asset string, ex Exclusion) {
	ex.FiatCurrency = network.Currency(ex.FiatCurrency)
	b.exclusions[asset] = append(b.exclusions[asset], ex)
}

// Build applies exclusions and prunes empty fiat currencies and unusable
// assets. The builder must not be used afterwards.
func (b *Builder) Build() domain.Catalog {
	for asset, exclusions := range b.exclusions {
		e, ok := b.entries[asset]
		if !ok {
			continue
		}
		for _, ex := range exclusions {
			options := e.FiatCurrencies[ex.FiatCurrency]
			kept := options[:0]
			for _, o := range options {
				if o.PaymentMethod != ex.PaymentMethod {
					kept = append(kept, o)
				}
			}
			e.FiatCurrencies[ex.FiatCurrency] = kept
		}
	}

	out := make(domain.Catalog, len(b.entries))
	for asset, e := range b.entries {
		for fiat, options := range e.FiatCurrencies {
			if len(options) == 0 {
				delete(e.FiatCurrencies, fiat)
			}
		}
		if !e.Usable() {
			continue
		}
		out[asset] = e
	}
	b.entries = nil
	return out
}
