package catalog

import (
	"github.com/amirasaad/onramp/pkg/domain"
)

// State is the load state of one provider partition.
type State int

const (
	// StateNotAttempted means no result was recorded for the provider.
	StateNotAttempted State = iota
	// StateUnavailable means the fetch failed; the partition is empty.
	StateUnavailable
	// StateReady means the partition holds the fetched catalog.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUnavailable:
		return "unavailable"
	case StateReady:
		return "ready"
	default:
		return "not_attempted"
	}
}

// MarshalText renders the state by name in JSON documents.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name. Unknown names decode as StateNotAttempted.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ready":
		*s = StateReady
	case "unavailable":
		*s = StateUnavailable
	default:
		*s = StateNotAttempted
	}
	return nil
}

// Result is what a provider fetch produces.
type Result struct {
	Provider domain.ProviderID
	Catalog  domain.Catalog
	// Countries is keyed by upper-case ISO alpha-2 code.
	Countries map[string]domain.CountryRecord
	// DefaultAllowed applies to countries missing from Countries.
	DefaultAllowed bool
	Err            error
}

// Failed returns an empty result for provider carrying err.
func Failed(provider domain.ProviderID, err error) Result {
	return Result{Provider: provider, Err: err}
}

type partition struct {
	state          State
	catalog        domain.Catalog
	countries      map[string]domain.CountryRecord
	defaultAllowed bool
	err            error
}

// Status summarizes one provider partition.
type Status struct {
	Provider  domain.ProviderID `json:"provider"`
	State     State             `json:"state"`
	Assets    int               `json:"assets"`
	Countries int               `json:"countries"`
	Error     string            `json:"error,omitempty"`
}

// Store holds every provider's catalog. It is immutable once built and safe
// for concurrent readers.
type Store struct {
	partitions map[domain.ProviderID]*partition
}

// NewStore builds a store from fetch results. A result with Err set makes the
// provider unavailable regardless of any partial data it carries.
func NewStore(results ...Result) *Store {
	s := &Store{partitions: make(map[domain.ProviderID]*partition, len(results))}
	for _, r := range results {
		if r.Err != nil {
			s.partitions[r.Provider] = &partition{
				state:     StateUnavailable,
				catalog:   domain.Catalog{},
				countries: map[string]domain.CountryRecord{},
				err:       r.Err,
			}
			continue
		}
		p := &partition{
			state:          StateReady,
			catalog:        r.Catalog,
			countries:      r.Countries,
			defaultAllowed: r.DefaultAllowed,
		}
		if p.catalog == nil {
			p.catalog = domain.Catalog{}
		}
		if p.countries == nil {
			p.countries = map[string]domain.CountryRecord{}
		}
		s.partitions[r.Provider] = p
	}
	return s
}

// State returns the load state of provider.
func (s *Store) State(provider domain.ProviderID) State {
	if p, ok := s.partitions[provider]; ok {
		return p.state
	}
	return StateNotAttempted
}

// Ready reports whether provider loaded successfully.
func (s *Store) Ready(provider domain.ProviderID) bool {
	return s.State(provider) == StateReady
}

// Err returns the fetch error recorded for provider, if any.
func (s *Store) Err(provider domain.ProviderID) error {
	if p, ok := s.partitions[provider]; ok {
		return p.err
	}
	return nil
}

// Catalog returns the provider's catalog. Callers must not modify it.
func (s *Store) Catalog(provider domain.ProviderID) domain.Catalog {
	if p, ok := s.partitions[provider]; ok {
		return p.catalog
	}
	return domain.Catalog{}
}

// Country returns the provider's record for an alpha-2 code.
func (s *Store) Country(provider domain.ProviderID, code string) (domain.CountryRecord, bool) {
	p, ok := s.partitions[provider]
	if !ok {
		return domain.CountryRecord{}, false
	}
	rec, ok := p.countries[code]
	return rec, ok
}

// DefaultAllowed returns the provider's policy for countries it has no record of.
func (s *Store) DefaultAllowed(provider domain.ProviderID) bool {
	if p, ok := s.partitions[provider]; ok {
		return p.defaultAllowed
	}
	return false
}

// Providers lists every known provider's status in the fixed provider order.
func (s *Store) Providers() []Status {
	all := domain.AllProviders()
	out := make([]Status, 0, len(all))
	for _, id := range all {
		st := Status{Provider: id, State: s.State(id)}
		if p, ok := s.partitions[id]; ok {
			st.Assets = len(p.catalog)
			st.Countries = len(p.countries)
			if p.err != nil {
				st.Error = p.err.Error()
			}
		}
		out = append(out, st)
	}
	return out
}
