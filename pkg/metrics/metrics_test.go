package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/shipments", "200"))
	RecordHTTPRequest("GET", "/api/shipments", 200, 15*time.Millisecond)
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/shipments", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordCache(t *testing.T) {
	hits := testutil.ToFloat64(AnalyticsCacheHits)
	misses := testutil.ToFloat64(AnalyticsCacheMisses)

	RecordCache(true)
	RecordCache(false)
	RecordCache(false)

	assert.Equal(t, hits+1, testutil.ToFloat64(AnalyticsCacheHits))
	assert.Equal(t, misses+2, testutil.ToFloat64(AnalyticsCacheMisses))
}

func TestRecordExport(t *testing.T) {
	before := testutil.ToFloat64(ExportRows.WithLabelValues("shipments", "csv"))
	RecordExport("shipments", "csv", 250)
	assert.Equal(t, before+250, testutil.ToFloat64(ExportRows.WithLabelValues("shipments", "csv")))
}

func TestRecordIngestYFactura(t *testing.T) {
	RecordIngest("shipment.created", "applied")
	RecordInvoice("created")
	assert.GreaterOrEqual(t, testutil.ToFloat64(IngestEvents.WithLabelValues("shipment.created", "applied")), 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(InvoicesGenerated.WithLabelValues("created")), 1.0)
}
