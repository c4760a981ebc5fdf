package domain

import "strings"

// ProviderID identifies one of the supported on/off-ramp providers.
type ProviderID string

// Known providers. The set is closed: anything else is rejected by ParseProviderID.
const (
	Binance   ProviderID = "binance"
	Transak   ProviderID = "transak"
	MtPelerin ProviderID = "mtpelerin"
)

// AllProviders lists providers in the order they are consulted.
func AllProviders() []ProviderID {
	return []ProviderID{Binance, Transak, MtPelerin}
}

// ParseProviderID validates a provider name.
func ParseProviderID(s string) (ProviderID, error) {
	switch id := ProviderID(strings.ToLower(strings.TrimSpace(s))); id {
	case Binance, Transak, MtPelerin:
		return id, nil
	default:
		return "", ErrUnknownProvider
	}
}

// ParseProviderIDs validates and de-duplicates a provider list, keeping order.
func ParseProviderIDs(names []string) ([]ProviderID, error) {
	seen := make(map[ProviderID]struct{}, len(names))
	ids := make([]ProviderID, 0, len(names))
	for _, name := range names {
		id, err := ParseProviderID(name)
		if err != nil {
			return nil, NewInvalidRequest("providers", "contains unknown provider "+name)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func (p ProviderID) String() string {
	return string(p)
}

// AmountType tells whether a trade amount is expressed in fiat or crypto.
type AmountType string

const (
	AmountFiat   AmountType = "fiat"
	AmountCrypto AmountType = "crypto"
)

// ParseAmountType validates an amount type.
func ParseAmountType(s string) (AmountType, error) {
	switch t := AmountType(strings.ToLower(s)); t {
	case AmountFiat, AmountCrypto:
		return t, nil
	default:
		return "", NewInvalidRequest("amountType", "must be 'fiat' or 'crypto'")
	}
}
