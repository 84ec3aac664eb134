package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	uploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalogue",
		Name:      "uploads_total",
		Help:      "Uploaded spreadsheets by resulting status.",
	}, []string{"status"})

	uploadValidationErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "catalogue",
		Name:      "upload_validation_errors_total",
		Help:      "Validation messages reported across all uploads.",
	})

	specimensReconciled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalogue",
		Name:      "specimens_reconciled_total",
		Help:      "Specimens written by uploads or the edit API.",
	}, []string{"type", "operation"})

	lookupsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalogue",
		Name:      "lookups_created_total",
		Help:      "Lookup values registered on demand.",
	}, []string{"kind"})

	lookupCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalogue",
		Name:      "lookup_cache_requests_total",
		Help:      "Lookup choice cache reads by result.",
	}, []string{"result"})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		uploadsTotal,
		uploadValidationErrors,
		specimensReconciled,
		lookupsCreated,
		lookupCache,
	)
}

func ObserveUpload(status string, validationErrors int) {
	uploadsTotal.WithLabelValues(status).Inc()
	if validationErrors > 0 {
		uploadValidationErrors.Add(float64(validationErrors))
	}
}

func ObserveReconciled(specimenType, operation string, n int) {
	if n > 0 {
		specimensReconciled.WithLabelValues(specimenType, operation).Add(float64(n))
	}
}

func ObserveLookupCreated(kind string, n int) {
	if n > 0 {
		lookupsCreated.WithLabelValues(kind).Add(float64(n))
	}
}

func ObserveLookupCache(hit bool) {
	if hit {
		lookupCache.WithLabelValues("hit").Inc()
		return
	}
	lookupCache.WithLabelValues("miss").Inc()
}

// Handler serves the Prometheus text exposition for this process.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry to tests.
func Gatherer() prometheus.Gatherer {
	return registry
}
