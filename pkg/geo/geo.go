// Package geo resolves client IP addresses to ISO 3166 alpha-2 country codes.
package geo

import (
	"context"
	"log/slog"
	"net"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/amirasaad/onramp/pkg/cache"
	"github.com/amirasaad/onramp/pkg/metrics"
)

// DefaultCountry is answered when no source knows an address.
const DefaultCountry = "GB"

// Resolver maps an IP address to a country. It never fails.
type Resolver interface {
	Resolve(ctx context.Context, ip string) string
}

// Source is one way of looking an address up. It returns "" when the
// address is unknown to it.
type Source interface {
	Name() string
	Lookup(ctx context.Context, ip string) (string, error)
}

// Chain asks its sources in order and caches the first answer.
type Chain struct {
	sources  []Source
	cache    cache.CountryCache
	ttl      time.Duration
	fallback string
	group    singleflight.Group
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures a Chain.
type Option func(*Chain)

// WithCache caches resolved countries for ttl.
func WithCache(c cache.CountryCache, ttl time.Duration) Option {
	return func(ch *Chain) {
		ch.cache = c
		ch.ttl = ttl
	}
}

// WithFallback replaces DefaultCountry.
func WithFallback(country string) Option {
	return func(ch *Chain) {
		if c := Normalize(country); c != "" {
			ch.fallback = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(ch *Chain) { ch.logger = logger }
}

// WithMetrics records which source answered.
func WithMetrics(m *metrics.Metrics) Option {
	return func(ch *Chain) { ch.metrics = m }
}

// NewChain creates a Chain over sources.
func NewChain(sources []Source, opts ...Option) *Chain {
	ch := &Chain{
		sources:  sources,
		fallback: DefaultCountry,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(ch)
	}
	ch.logger = ch.logger.With(slog.String("component", "geo"))
	return ch
}

// Resolve returns the country of ip, or the fallback country.
func (c *Chain) Resolve(ctx context.Context, ip string) string {
	ip = strings.TrimSpace(ip)
	if net.ParseIP(ip) == nil {
		c.logger.Debug("Not an IP address", "ip", ip)
		c.metrics.GeoLookup("default")
		return c.fallback
	}

	if c.cache != nil {
		country, ok, err := c.cache.Get(ctx, ip)
		if err != nil {
			c.logger.Warn("Country cache read failed", "ip", ip, "error", err)
		} else if ok {
			c.metrics.GeoLookup("cache")
			return country
		}
	}

	// Concurrent callers share one lookup, so it must not die with the first
	// caller's request.
	shared := context.WithoutCancel(ctx)
	v, _, _ := c.group.Do(ip, func() (any, error) {
		return c.lookup(shared, ip), nil
	})
	return v.(string)
}

func (c *Chain) lookup(ctx context.Context, ip string) string {
	for _, src := range c.sources {
		raw, err := src.Lookup(ctx, ip)
		if err != nil {
			c.logger.Warn("Country lookup failed", "source", src.Name(), "ip", ip, "error", err)
			continue
		}
		country := Normalize(raw)
		if country == "" {
			continue
		}
		c.metrics.GeoLookup(src.Name())
		if c.cache != nil {
			if err := c.cache.Set(ctx, ip, country, c.ttl); err != nil {
				c.logger.Warn("Country cache write failed", "ip", ip, "error", err)
			}
		}
		return country
	}
	c.metrics.GeoLookup("default")
	return c.fallback
}

// Normalize upper-cases a country code and maps placeholder answers such as
// "-" and "_" to "".
func Normalize(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return ""
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ""
		}
	}
	return code
}

// Static always answers the same country. It is useful behind a proxy that
// already geolocates, and in tests.
type Static string

func (s Static) Resolve(context.Context, string) string { return string(s) }
