// Package metrics colectores Prometheus del servicio (expuestos en /metrics).
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ── HTTP ──────────────────────────────────────────────────────────────────

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shipdash_http_request_duration_seconds",
			Help:    "Duración de las peticiones HTTP",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shipdash_http_requests_total",
			Help: "Total de peticiones HTTP",
		},
		[]string{"method", "route", "status"},
	)

	// ── Agregaciones ──────────────────────────────────────────────────────────

	AggregationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shipdash_aggregation_duration_seconds",
			Help:    "Duración de cada función de agregación",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"name"},
	)

	AggregationPanics = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shipdash_aggregation_panics_total",
			Help: "Agregaciones que entraron en pánico y devolvieron vacío",
		},
		[]string{"name"},
	)

	AnalyticsCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shipdash_analytics_cache_hits_total",
			Help: "Aciertos de la caché de analítica",
		},
	)

	AnalyticsCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shipdash_analytics_cache_misses_total",
			Help: "Fallos de la caché de analítica",
		},
	)

	// ── Facturación ───────────────────────────────────────────────────────────

	InvoicesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shipdash_invoices_generated_total",
			Help: "Facturas generadas por resultado",
		},
		[]string{"result"}, // created, empty, error
	)

	ExportRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shipdash_export_rows_total",
			Help: "Filas exportadas por entidad y formato",
		},
		[]string{"entity", "format"},
	)

	// ── Ingesta ───────────────────────────────────────────────────────────────

	IngestEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shipdash_ingest_events_total",
			Help: "Eventos de envío consumidos por tipo y resultado",
		},
		[]string{"type", "result"}, // applied, rejected, failed
	)
)

// RecordHTTPRequest registra una petición terminada.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	HTTPRequestDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
	HTTPRequestsTotal.WithLabelValues(method, route, code).Inc()
}

// RecordAggregation registra la duración de una agregación.
func RecordAggregation(name string, duration time.Duration) {
	AggregationDuration.WithLabelValues(name).Observe(duration.Seconds())
}

// RecordAggregationPanic cuenta una agregación recuperada de un pánico.
func RecordAggregationPanic(name string) {
	AggregationPanics.WithLabelValues(name).Inc()
}

// RecordCache registra un acierto o fallo de la caché de analítica.
func RecordCache(hit bool) {
	if hit {
		AnalyticsCacheHits.Inc()
		return
	}
	AnalyticsCacheMisses.Inc()
}

// RecordInvoice registra el resultado de una generación de factura.
func RecordInvoice(result string) {
	InvoicesGenerated.WithLabelValues(result).Inc()
}

// RecordExport suma filas exportadas.
func RecordExport(entity, format string, rows int) {
	ExportRows.WithLabelValues(entity, format).Add(float64(rows))
}

// RecordIngest registra un evento de ingesta procesado.
func RecordIngest(eventType, result string) {
	IngestEvents.WithLabelValues(eventType, result).Inc()
}
