package onboard

import (
	"github.com/amirasaad/onramp/pkg/domain"
	"github.com/amirasaad/onramp/pkg/network"
)

// QuoteRequest is the body of POST /onboard/quote.
type QuoteRequest struct {
	Providers      []string `json:"providers" validate:"required,min=1,dive,oneof=binance transak mtpelerin"`
	Network        string   `json:"network" validate:"required"`
	CryptoCurrency string   `json:"cryptoCurrency" validate:"required"`
	FiatCurrency   string   `json:"fiatCurrency" validate:"required,len=3"`
	AmountType     string   `json:"amountType" validate:"required,oneof=fiat crypto"`
	Amount         float64  `json:"amount" validate:"gt=0"`
	// CountryCode overrides the country detected from the caller address.
	CountryCode string `json:"countryCode" validate:"omitempty,len=2,alpha"`
}

// ToDomain converts the body into a quote request.
func (r QuoteRequest) ToDomain() (domain.QuoteRequest, error) {
	providers, err := domain.ParseProviderIDs(r.Providers)
	if err != nil {
		return domain.QuoteRequest{}, err
	}
	amountType, err := domain.ParseAmountType(r.AmountType)
	if err != nil {
		return domain.QuoteRequest{}, err
	}
	return domain.QuoteRequest{
		Providers:      providers,
		Network:        network.Parse(r.Network),
		CryptoCurrency: r.CryptoCurrency,
		FiatCurrency:   network.Currency(r.FiatCurrency),
		AmountType:     amountType,
		Amount:         r.Amount,
		CountryCode:    network.Currency(r.CountryCode),
	}, nil
}

// InitRequest is the body of POST /onboard/init.
type InitRequest struct {
	Provider       string  `json:"provider" validate:"required,oneof=binance transak mtpelerin"`
	Network        string  `json:"network" validate:"required"`
	CryptoCurrency string  `json:"cryptoCurrency" validate:"required"`
	FiatCurrency   string  `json:"fiatCurrency" validate:"required,len=3"`
	AmountType     string  `json:"amountType" validate:"required,oneof=fiat crypto"`
	Amount         float64 `json:"amount" validate:"gt=0"`
	Address        string  `json:"address"`
	PaymentMethod  string  `json:"paymentMethod"`
}

// ToDomain converts the body into a redirect request.
func (r InitRequest) ToDomain() (domain.RedirectRequest, error) {
	provider, err := domain.ParseProviderID(r.Provider)
	if err != nil {
		return domain.RedirectRequest{}, err
	}
	amountType, err := domain.ParseAmountType(r.AmountType)
	if err != nil {
		return domain.RedirectRequest{}, err
	}
	return domain.RedirectRequest{
		Provider:       provider,
		Network:        network.Parse(r.Network),
		CryptoCurrency: r.CryptoCurrency,
		FiatCurrency:   network.Currency(r.FiatCurrency),
		AmountType:     amountType,
		Amount:         r.Amount,
		Address:        r.Address,
		PaymentMethod:  r.PaymentMethod,
	}, nil
}

// InitResponse carries the provider deep link.
type InitResponse struct {
	URL string `json:"url"`
}

// SignRequest is the body of POST /onboard/sign.
type SignRequest struct {
	StringToSign string `json:"stringToSign" validate:"required"`
}

// SignResponse carries the base64 signature.
type SignResponse struct {
	Signature string `json:"signature"`
}
