package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/amirasaad/onramp/pkg/domain"
)

// Fetcher retrieves a provider's raw catalog and turns it into a Result.
// Fetch reports failures through Result.Err, never by panicking or blocking
// past ctx.
type Fetcher interface {
	ID() domain.ProviderID
	Fetch(ctx context.Context) Result
}

// Observer is notified once per finished fetch.
type Observer func(provider domain.ProviderID, elapsed time.Duration, err error)

type loadOptions struct {
	logger   *slog.Logger
	timeout  time.Duration
	observer Observer
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// WithLogger sets the logger used by Load.
func WithLogger(logger *slog.Logger) LoadOption {
	return func(o *loadOptions) { o.logger = logger }
}

// WithTimeout bounds the whole load. Zero means no bound beyond ctx.
func WithTimeout(d time.Duration) LoadOption {
	return func(o *loadOptions) { o.timeout = d }
}

// WithObserver registers a callback for finished fetches.
func WithObserver(fn Observer) LoadOption {
	return func(o *loadOptions) { o.observer = fn }
}

// Load runs every fetcher concurrently and builds the store once all of them
// have returned. A failing provider becomes unavailable; Load itself never fails.
func Load(ctx context.Context, fetchers []Fetcher, opts ...LoadOption) *Store {
	o := loadOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger.With(slog.String("component", "catalog"))

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	results := make([]Result, len(fetchers))
	var g errgroup.Group
	for i, f := range fetchers {
		g.Go(func() error {
			start := time.Now()
			r := fetch(ctx, f)
			elapsed := time.Since(start)
			if r.Err != nil {
				logger.Error("Provider catalog unavailable",
					"provider", f.ID(), "duration", elapsed, "error", r.Err)
			} else {
				logger.Info("Provider catalog loaded",
					"provider", f.ID(), "assets", len(r.Catalog),
					"countries", len(r.Countries), "duration", elapsed)
			}
			if o.observer != nil {
				o.observer(f.ID(), elapsed, r.Err)
			}
			results[i] = r
			return nil
		})
	}
	_ = g.Wait()

	return NewStore(results...)
}

// fetch shields Load from a misbehaving fetcher.
func fetch(ctx context.Context, f Fetcher) (r Result) {
	defer func() {
		if p := recover(); p != nil {
			r = Failed(f.ID(), fmt.Errorf("%w: panic: %v", domain.ErrProviderUnavailable, p))
		}
	}()
	r = f.Fetch(ctx)
	r.Provider = f.ID()
	return r
}
