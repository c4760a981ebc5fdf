package transak

import (
	"context"
	"net/url"
)

const (
	countriesPath        = "/api/v2/countries"
	fiatCurrenciesPath   = "/api/v2/currencies/fiat-currencies"
	cryptoCurrenciesPath = "/api/v2/currencies/crypto-currencies"
	pricePath            = "/api/v2/currencies/price"
)

type response[T any] struct {
	Response T `json:"response"`
}

type country struct {
	Alpha2       string `json:"alpha2"`
	Alpha3       string `json:"alpha3"`
	Name         string `json:"name"`
	CurrencyCode string `json:"currencyCode"`
	IsAllowed    bool   `json:"isAllowed"`
}

type paymentOption struct {
	ID        string  `json:"id"`
	MinAmount float64 `json:"minAmount"`
	MaxAmount float64 `json:"maxAmount"`
	IsActive  bool    `json:"isActive"`
}

type fiatCurrency struct {
	Symbol              string          `json:"symbol"`
	IsAllowed           bool            `json:"isAllowed"`
	SupportingCountries []string        `json:"supportingCountries"`
	PaymentOptions      []paymentOption `json:"paymentOptions"`
}

type unsupportedFiat struct {
	FiatCurrency  string `json:"fiatCurrency"`
	PaymentMethod string `json:"paymentMethod"`
}

type cryptoNetwork struct {
	Name                       string            `json:"name"`
	FiatCurrenciesNotSupported []unsupportedFiat `json:"fiatCurrenciesNotSupported"`
}

type cryptoCurrency struct {
	Symbol    string        `json:"symbol"`
	UniqueID  string        `json:"uniqueId"`
	IsAllowed bool          `json:"isAllowed"`
	Network   cryptoNetwork `json:"network"`
}

type priceQuote struct {
	ConversionPrice float64 `json:"conversionPrice"`
	FiatAmount      float64 `json:"fiatAmount"`
	CryptoAmount    float64 `json:"cryptoAmount"`
	TotalFee        float64 `json:"totalFee"`
	PaymentMethod   string  `json:"paymentMethod"`
}

func get[T any](ctx context.Context, p *Provider, path string, query url.Values) (T, error) {
	var out response[T]
	err := p.client.GetJSON(ctx, path, query, nil, &out)
	return out.Response, err
}
