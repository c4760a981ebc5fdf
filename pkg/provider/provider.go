package provider

import (
	"fmt"

	"github.com/amirasaad/onramp/pkg/catalog"
	"github.com/amirasaad/onramp/pkg/domain"
)

// Registry holds the configured ramps keyed by provider id.
type Registry struct {
	ramps map[domain.ProviderID]Ramp
}

// NewRegistry registers ramps. A later ramp with the same id replaces an
// earlier one.
func NewRegistry(ramps ...Ramp) *Registry {
	r := &Registry{ramps: make(map[domain.ProviderID]Ramp, len(ramps))}
	for _, ramp := range ramps {
		r.ramps[ramp.ID()] = ramp
	}
	return r
}

// Get returns the ramp for id.
func (r *Registry) Get(id domain.ProviderID) (Ramp, error) {
	ramp, ok := r.ramps[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s not configured", domain.ErrUnknownProvider, id)
	}
	return ramp, nil
}

// Pricer returns the pricer of id.
func (r *Registry) Pricer(id domain.ProviderID) (Pricer, bool) {
	ramp, ok := r.ramps[id]
	return ramp, ok
}

// IPChecker returns the live IP check of id, if the provider has one.
func (r *Registry) IPChecker(id domain.ProviderID) (IPChecker, bool) {
	checker, ok := r.ramps[id].(IPChecker)
	return checker, ok
}

// IDs lists registered providers in the fixed provider order.
func (r *Registry) IDs() []domain.ProviderID {
	var ids []domain.ProviderID
	for _, id := range domain.AllProviders() {
		if _, ok := r.ramps[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Fetchers returns the catalog fetcher of every registered provider.
func (r *Registry) Fetchers() []catalog.Fetcher {
	ids := r.IDs()
	out := make([]catalog.Fetcher, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.ramps[id])
	}
	return out
}
