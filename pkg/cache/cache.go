package cache

import (
	"context"
	"time"
)

// CountryCache remembers which country an IP address resolved to.
type CountryCache interface {
	// Get returns the cached alpha-2 code of ip. A miss is not an error.
	Get(ctx context.Context, ip string) (country string, ok bool, err error)
	Set(ctx context.Context, ip, country string, ttl time.Duration) error
	Delete(ctx context.Context, ip string) error
}
