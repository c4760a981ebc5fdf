// Package metrics exposes Prometheus instruments for the ramp service.
//
// A nil *Metrics is valid and records nothing, so components can be built
// without instrumentation in tests.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/amirasaad/onramp/pkg/domain"
)

const namespace = "onramp"

// Quote option outcomes.
const (
	OutcomePriced     = "priced"
	OutcomeOutOfRange = "out_of_range"
	OutcomePriceError = "price_error"
)

// Metrics groups every instrument the service records.
type Metrics struct {
	CatalogFetchDuration *prometheus.HistogramVec
	CatalogAssets        *prometheus.GaugeVec
	ProviderRequests     *prometheus.CounterVec
	QuoteOptions         *prometheus.CounterVec
	QuoteDuration        *prometheus.HistogramVec
	OnboardDuration      prometheus.Histogram
	GeoLookups           *prometheus.CounterVec
}

// New registers the instruments with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CatalogFetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "catalog",
				Name:      "fetch_duration_seconds",
				Help:      "Time spent loading a provider catalog at startup.",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
			},
			[]string{"provider", "ok"},
		),
		CatalogAssets: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "catalog",
				Name:      "assets",
				Help:      "Crypto assets held in a provider catalog.",
			},
			[]string{"provider"},
		),
		ProviderRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "provider",
				Name:      "requests_total",
				Help:      "Outbound provider API calls by response status.",
			},
			[]string{"provider", "status"},
		),
		QuoteOptions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "quote",
				Name:      "options_total",
				Help:      "Payment options considered while quoting, by outcome.",
			},
			[]string{"provider", "outcome"},
		),
		QuoteDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "quote",
				Name:      "duration_seconds",
				Help:      "Time spent quoting one provider.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		OnboardDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "onboard",
				Name:      "duration_seconds",
				Help:      "Time spent answering an onboard request.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		GeoLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "geo",
				Name:      "lookups_total",
				Help:      "IP to country lookups by answering source.",
			},
			[]string{"source"},
		),
	}
}

// ObserveFetch records a finished catalog fetch.
func (m *Metrics) ObserveFetch(p domain.ProviderID, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.CatalogFetchDuration.WithLabelValues(p.String(), strconv.FormatBool(err == nil)).
		Observe(elapsed.Seconds())
}

// SetAssets records the catalog size of a provider.
func (m *Metrics) SetAssets(p domain.ProviderID, n int) {
	if m == nil {
		return
	}
	m.CatalogAssets.WithLabelValues(p.String()).Set(float64(n))
}

// ProviderRequest records an outbound call. status is the HTTP status code,
// or 0 when no response was received.
func (m *Metrics) ProviderRequest(p string, status int) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.ProviderRequests.WithLabelValues(p, label).Inc()
}

// QuoteOption records how one payment option was handled.
func (m *Metrics) QuoteOption(p domain.ProviderID, outcome string) {
	if m == nil {
		return
	}
	m.QuoteOptions.WithLabelValues(p.String(), outcome).Inc()
}

// ObserveQuote records the time spent quoting one provider.
func (m *Metrics) ObserveQuote(p domain.ProviderID, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.QuoteDuration.WithLabelValues(p.String()).Observe(elapsed.Seconds())
}

// ObserveOnboard records an onboard request.
func (m *Metrics) ObserveOnboard(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.OnboardDuration.Observe(elapsed.Seconds())
}

// GeoLookup records which source answered a geolocation lookup.
func (m *Metrics) GeoLookup(source string) {
	if m == nil {
		return
	}
	m.GeoLookups.WithLabelValues(source).Inc()
}
