// Package geo holds the geolocation sources used by pkg/geo.
package geo

import (
	"context"
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
)

// MaxMind looks addresses up in a GeoLite2/GeoIP2 country database.
type MaxMind struct {
	db *geoip2.Reader
}

// OpenMaxMind opens the database at path.
func OpenMaxMind(path string) (*MaxMind, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open maxmind db: %w", err)
	}
	return &MaxMind{db: db}, nil
}

// NewMaxMindFromBytes loads a database held in memory.
func NewMaxMindFromBytes(b []byte) (*MaxMind, error) {
	db, err := geoip2.FromBytes(b)
	if err != nil {
		return nil, fmt.Errorf("load maxmind db: %w", err)
	}
	return &MaxMind{db: db}, nil
}

func (m *MaxMind) Name() string { return "maxmind" }

// Lookup returns the registered country ISO code, or "" for unknown addresses.
func (m *MaxMind) Lookup(_ context.Context, ip string) (string, error) {
	addr := net.ParseIP(ip)
	if addr == nil {
		return "", fmt.Errorf("invalid ip %q", ip)
	}
	rec, err := m.db.Country(addr)
	if err != nil {
		return "", err
	}
	if rec.Country.IsoCode != "" {
		return rec.Country.IsoCode, nil
	}
	return rec.RegisteredCountry.IsoCode, nil
}

// Close releases the database.
func (m *MaxMind) Close() error {
	return m.db.Close()
}
