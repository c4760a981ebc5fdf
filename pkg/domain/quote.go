package domain

import "github.com/amirasaad/onramp/pkg/network"

// QuoteRequest asks what a trade would cost with each of the listed providers.
type QuoteRequest struct {
	Providers      []ProviderID
	Network        network.Network
	CryptoCurrency string
	FiatCurrency   string
	AmountType     AmountType
	Amount         float64
	// CountryCode restricts payment options to those usable from the country.
	// Empty means no restriction.
	CountryCode string
}

// Validate checks the fields every provider needs.
func (r QuoteRequest) Validate() error {
	switch {
	case len(r.Providers) == 0:
		return NewInvalidRequest("providers", "must not be empty")
	case r.CryptoCurrency == "":
		return NewInvalidRequest("cryptoCurrency", "is required")
	case r.FiatCurrency == "":
		return NewInvalidRequest("fiatCurrency", "is required")
	case r.Network == "":
		return NewInvalidRequest("network", "is required")
	case r.AmountType != AmountFiat && r.AmountType != AmountCrypto:
		return NewInvalidRequest("amountType", "must be 'fiat' or 'crypto'")
	case r.Amount <= 0:
		return NewInvalidRequest("amount", "must be positive")
	}
	return nil
}

// Price is a provider's rate and fee for one payment option.
type Price struct {
	// Rate is the fiat price of one unit of the crypto asset.
	Rate float64
	// Fee is expressed in the unit of the request amount.
	Fee float64
}

// Quote is one priced payment option.
type Quote struct {
	Provider      ProviderID `json:"provider"`
	Rate          float64    `json:"rate"`
	Fee           float64    `json:"fee"`
	PaymentMethod string     `json:"paymentMethod"`
}

// RedirectRequest asks for a deep link into a provider's hosted flow.
type RedirectRequest struct {
	Provider       ProviderID
	Network        network.Network
	CryptoCurrency string
	FiatCurrency   string
	AmountType     AmountType
	Amount         float64
	Address        string
	PaymentMethod  string
}

// Validate checks the provider-independent fields.
func (r RedirectRequest) Validate() error {
	switch {
	case r.Provider == "":
		return NewInvalidRequest("provider", "is required")
	case r.CryptoCurrency == "":
		return NewInvalidRequest("cryptoCurrency", "is required")
	case r.FiatCurrency == "":
		return NewInvalidRequest("fiatCurrency", "is required")
	case r.Network == "":
		return NewInvalidRequest("network", "is required")
	case r.AmountType != AmountFiat && r.AmountType != AmountCrypto:
		return NewInvalidRequest("amountType", "must be 'fiat' or 'crypto'")
	case r.Amount <= 0:
		return NewInvalidRequest("amount", "must be positive")
	}
	return nil
}

// OnboardResponse is everything a user from CountryCode can use, per provider.
type OnboardResponse struct {
	CountryCode  string                 `json:"countryCode"`
	CurrencyCode string                 `json:"currencyCode"`
	Providers    map[ProviderID]Catalog `json:"providers"`
}
