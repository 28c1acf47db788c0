// Package metrics holds the Prometheus instruments for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	HTTPRequestDuration *prometheus.HistogramVec
	RecordsGenerated    *prometheus.CounterVec
	IngestFailures      *prometheus.CounterVec
	FraudQueries        *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lynx_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status code",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
		RecordsGenerated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lynx_records_generated_total",
			Help: "Synthetic records generated, by record kind",
		}, []string{"kind"}),
		IngestFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lynx_ingest_failures_total",
			Help: "Records that failed ingestion, by stage",
		}, []string{"stage"}),
		FraudQueries: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lynx_fraud_queries_total",
			Help: "Fraud pattern queries served, by operation",
		}, []string{"operation"}),
	}
}

// NewForTest creates metrics on a private registry so tests do not collide
// on the default registerer.
func NewForTest() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lynx_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status code",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
		RecordsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lynx_records_generated_total",
			Help: "Synthetic records generated, by record kind",
		}, []string{"kind"}),
		IngestFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lynx_ingest_failures_total",
			Help: "Records that failed ingestion, by stage",
		}, []string{"stage"}),
		FraudQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lynx_fraud_queries_total",
			Help: "Fraud pattern queries served, by operation",
		}, []string{"operation"}),
	}
}
