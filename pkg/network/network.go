// Package network normalizes provider-specific network and currency vocabularies
// into one canonical code set.
package network

import "strings"

// Network is a canonical network code shared by all providers.
type Network string

// Canonical networks.
const (
	ETH    Network = "ETH"
	BTC    Network = "BTC"
	BSC    Network = "BSC"
	SOL    Network = "SOL"
	FTM    Network = "FTM"
	CELO   Network = "CELO"
	AVAX   Network = "AVAX"
	MATIC  Network = "MATIC"
	ARBI   Network = "ARBI"
	OP     Network = "OP"
	MOVR   Network = "MOVR"
	GLMR   Network = "GLMR"
	ONE    Network = "ONE"
	ROSE   Network = "ROSE"
	ZKSYNC Network = "ZKSYNC"
	BASE   Network = "BASE"
	GNOSIS Network = "GNOSIS"
)

var known = map[Network]struct{}{
	ETH: {}, BTC: {}, BSC: {}, SOL: {}, FTM: {}, CELO: {}, AVAX: {}, MATIC: {},
	ARBI: {}, OP: {}, MOVR: {}, GLMR: {}, ONE: {}, ROSE: {}, ZKSYNC: {}, BASE: {}, GNOSIS: {},
}

// String returns the code.
func (n Network) String() string {
	return string(n)
}

// IsKnown reports whether n belongs to the fixed canonical set.
func (n Network) IsKnown() bool {
	_, ok := known[n]
	return ok
}

// Parse converts user input into a network code. Known codes are matched
// case-insensitively; anything else is returned unchanged.
func Parse(s string) Network {
	s = strings.TrimSpace(s)
	if n := Network(strings.ToUpper(s)); n.IsKnown() {
		return n
	}
	return Network(s)
}

// Currency normalizes an ISO 4217 fiat code.
func Currency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
