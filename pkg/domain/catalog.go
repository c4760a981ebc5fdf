package domain

import (
	"math"
	"slices"

	"github.com/amirasaad/onramp/pkg/network"
)

// PaymentOption is one way of paying in a fiat currency, with the amount range
// the provider accepts. A nil MinLimit or MaxLimit is open-ended.
type PaymentOption struct {
	PaymentMethod       string   `json:"paymentMethod"`
	MinLimit            *float64 `json:"minLimit"`
	MaxLimit            *float64 `json:"maxLimit"`
	SupportingCountries []string `json:"supportingCountries,omitempty"`
	// Rate is the fiat price of one unit of crypto at catalog refresh, 0 if unknown.
	Rate float64 `json:"-"`
}

// Limit returns a pointer suitable for MinLimit/MaxLimit.
func Limit(v float64) *float64 {
	return &v
}

// OptionalLimit treats zero and negative provider limits as open-ended.
func OptionalLimit(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return Limit(v)
}

// Bounds returns the range with open ends resolved to 0 and +Inf.
func (o PaymentOption) Bounds() (float64, float64) {
	lo, hi := 0.0, math.Inf(1)
	if o.MinLimit != nil {
		lo = *o.MinLimit
	}
	if o.MaxLimit != nil {
		hi = *o.MaxLimit
	}
	return lo, hi
}

// Accepts reports whether amount lies within the option range, bounds included.
func (o PaymentOption) Accepts(amount float64) bool {
	lo, hi := o.Bounds()
	return amount >= lo && amount <= hi
}

// AvailableIn reports whether the option can be used from the given country.
// Options without a country list are available everywhere.
func (o PaymentOption) AvailableIn(country string) bool {
	if len(o.SupportingCountries) == 0 {
		return true
	}
	return slices.Contains(o.SupportingCountries, country)
}

// CatalogEntry is what a provider offers for one crypto asset.
type CatalogEntry struct {
	FiatCurrencies map[string][]PaymentOption `json:"fiatCurrencies"`
	Networks       []network.Network          `json:"networks"`
	// AssetID is the provider-internal identifier of the asset, if any.
	AssetID string `json:"-"`
}

// NewCatalogEntry returns an empty entry.
func NewCatalogEntry() *CatalogEntry {
	return &CatalogEntry{FiatCurrencies: make(map[string][]PaymentOption)}
}

// HasNetwork reports whether the asset is offered on n.
func (e *CatalogEntry) HasNetwork(n network.Network) bool {
	return slices.Contains(e.Networks, n)
}

// Usable reports whether the entry has a network and a priced fiat route.
func (e *CatalogEntry) Usable() bool {
	if len(e.Networks) == 0 {
		return false
	}
	for _, options := range e.FiatCurrencies {
		if len(options) > 0 {
			return true
		}
	}
	return false
}

// Clone deep-copies the entry.
func (e *CatalogEntry) Clone() *CatalogEntry {
	c := &CatalogEntry{
		FiatCurrencies: make(map[string][]PaymentOption, len(e.FiatCurrencies)),
		Networks:       slices.Clone(e.Networks),
		AssetID:        e.AssetID,
	}
	for fiat, options := range e.FiatCurrencies {
		c.FiatCurrencies[fiat] = slices.Clone(options)
	}
	return c
}

// Catalog maps asset symbols to what a provider offers for them.
type Catalog map[string]*CatalogEntry

// ForCountry returns a copy restricted to options usable from country, with
// entries that lose every option removed.
func (c Catalog) ForCountry(country string) Catalog {
	out := make(Catalog, len(c))
	for asset, entry := range c {
		sliced := &CatalogEntry{
			FiatCurrencies: make(map[string][]PaymentOption),
			Networks:       slices.Clone(entry.Networks),
			AssetID:        entry.AssetID,
		}
		for fiat, options := range entry.FiatCurrencies {
			var kept []PaymentOption
			for _, o := range options {
				if o.AvailableIn(country) {
					kept = append(kept, o)
				}
			}
			if len(kept) > 0 {
				sliced.FiatCurrencies[fiat] = kept
			}
		}
		if sliced.Usable() {
			out[asset] = sliced
		}
	}
	return out
}

// CountryRecord is one provider's view of a country.
type CountryRecord struct {
	Alpha2       string `json:"alpha2"`
	Alpha3       string `json:"alpha3,omitempty"`
	Name         string `json:"name,omitempty"`
	CurrencyCode string `json:"currencyCode,omitempty"`
	IsAllowed    bool   `json:"isAllowed"`
}
