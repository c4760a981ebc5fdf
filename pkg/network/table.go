package network

import "strings"

// Table maps one provider's network names onto canonical codes.
//
// Provider vocabularies are not consistent with each other: "mainnet" is Bitcoin
// for one provider and Ethereum for another, so every provider owns a table.
type Table struct {
	mapping   map[string]Network
	reverse   map[Network]string
	allowList bool
}

// NewTable builds a table. With allowList set, names missing from mapping are
// rejected instead of passed through.
func NewTable(mapping map[string]Network, allowList bool) *Table {
	reverse := make(map[Network]string, len(mapping))
	for native, canonical := range mapping {
		reverse[canonical] = native
	}
	return &Table{mapping: mapping, reverse: reverse, allowList: allowList}
}

// Canonicalize translates a provider network name. Unmapped names pass through
// unless the table is an allow-list, in which case ok is false. A passthrough
// name is folded the way Parse folds user input, so "base" becomes BASE.
func (t *Table) Canonicalize(name string) (Network, bool) {
	if n, ok := t.mapping[name]; ok {
		return n, true
	}
	if t.allowList {
		return "", false
	}
	return Parse(name), true
}

// Native returns the provider's own name for a canonical network.
func (t *Table) Native(n Network) (string, bool) {
	if native, ok := t.reverse[n]; ok {
		return native, true
	}
	if t.allowList {
		return "", false
	}
	if _, mapped := t.mapping[string(n)]; mapped {
		return "", false
	}
	// passthrough providers spell canonical codes in lower case
	if n.IsKnown() {
		return strings.ToLower(string(n)), true
	}
	return string(n), true
}

// Networks lists the canonical codes the table can produce.
func (t *Table) Networks() []Network {
	out := make([]Network, 0, len(t.reverse))
	for n := range t.reverse {
		out = append(out, n)
	}
	return out
}

// BinanceTable covers Binance Connect network names.
func BinanceTable() *Table {
	return NewTable(map[string]Network{
		"BSC":      BSC,
		"OPTIMISM": OP,
		"ARBITRUM": ARBI,
		"CELO":     CELO,
		"AVAX":     AVAX,
		"FTM":      FTM,
		"MATIC":    MATIC,
		"ONE":      ONE,
		"MOVR":     MOVR,
		"GLMR":     GLMR,
		"ROSE":     ROSE,
	}, true)
}

// TransakTable covers Transak network names.
func TransakTable() *Table {
	return NewTable(map[string]Network{
		"ethereum":   ETH,
		"mainnet":    BTC,
		"bsc":        BSC,
		"solana":     SOL,
		"fantom":     FTM,
		"celo":       CELO,
		"avaxcchain": AVAX,
		"polygon":    MATIC,
		"arbitrum":   ARBI,
		"optimism":   OP,
		"moonriver":  MOVR,
		"base":       BASE,
		"zksync":     ZKSYNC,
		"gnosis":     GNOSIS,
	}, false)
}

// MtPelerinTable covers Mt Pelerin network names.
func MtPelerinTable() *Table {
	return NewTable(map[string]Network{
		"arbitrum_mainnet":  ARBI,
		"avalanche_mainnet": AVAX,
		"bsc_mainnet":       BSC,
		"fantom_mainnet":    FTM,
		"mainnet":           ETH,
		"matic_mainnet":     MATIC,
		"optimism_mainnet":  OP,
		"zksync_mainnet":    ZKSYNC,
		"base_mainnet":      BASE,
		"xdai_mainnet":      GNOSIS,
	}, true)
}
