// Package metrics declares the Prometheus collectors of the amount registry.
// They register on the controller-runtime registry so the manager and the
// standalone server expose them from the same endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

// Query outcomes, used as the "outcome" label of QueriesTotal.
const (
	OutcomeDirect       = "direct"
	OutcomeFlavor       = "flavor"
	OutcomeFallback     = "fallback"
	OutcomeDefault      = "default"
	OutcomeIncompatible = "incompatible"
	OutcomeNoMatch      = "no_match"
	OutcomeError        = "error"
)

// Reload results, used as the "result" label of ReloadsTotal.
const (
	ReloadSuccess        = "success"
	ReloadDiscoveryError = "discovery_error"
	ReloadAmbiguous      = "ambiguous"
	ReloadError          = "error"
)

var (
	CatalogProviders = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "moneta_catalog_providers",
			Help: "Number of amount types registered in the live catalog.",
		},
	)
	CatalogShadowedProviders = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "moneta_catalog_shadowed_providers",
			Help: "Number of amount providers that lost registration to a higher priority provider in the live catalog.",
		},
	)
	AmbiguousRegistrationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "moneta_catalog_ambiguous_registrations_total",
			Help: "Total number of catalog builds rejected because two providers shared a priority.",
		},
	)

	ReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moneta_registry_reloads_total",
			Help: "Number of registry reloads by result.",
		},
		[]string{"result"},
	)
	ReloadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moneta_registry_reload_duration_seconds",
			Help:    "Time taken to discover providers and rebuild the catalog.",
			Buckets: prometheus.DefBuckets,
		},
	)

	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moneta_resolver_queries_total",
			Help: "Number of amount type queries by outcome.",
		},
		[]string{"outcome"},
	)
	QueryCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "moneta_resolver_query_cache_hits_total",
			Help: "Number of amount type queries answered from the query cache.",
		},
	)
)

func init() {
	metrics.Registry.MustRegister(
		CatalogProviders,
		CatalogShadowedProviders,
		AmbiguousRegistrationsTotal,
		ReloadsTotal,
		ReloadDuration,
		QueriesTotal,
		QueryCacheHitsTotal,
	)
}
