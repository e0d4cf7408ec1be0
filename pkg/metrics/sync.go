package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics records catalog synchronization activity.
type SyncMetrics struct {
	duration      *prometheus.HistogramVec
	adopted       prometheus.Counter
	missingSKU    prometheus.Counter
	failedBatches prometheus.Counter
	compared      *prometheus.CounterVec
}

// NewSyncMetrics registers the sync metrics on the provided registerer.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_sync_duration_seconds",
		Help:    "Duration of catalog sync operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	adopted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_adopted_products_total",
		Help: "Storefront products upserted into the mirror ledger.",
	})
	missingSKU := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_adoption_missing_sku_total",
		Help: "Storefront products adopted with no SKU (keyed by product ID).",
	})
	failedBatches := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_adoption_failed_batches_total",
		Help: "Adoption upsert batches that failed and were skipped.",
	})
	compared := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_live_compare_items_total",
		Help: "Live comparison rows produced, by price status.",
	}, []string{"status"})
	reg.MustRegister(duration, adopted, missingSKU, failedBatches, compared)
	return &SyncMetrics{
		duration:      duration,
		adopted:       adopted,
		missingSKU:    missingSKU,
		failedBatches: failedBatches,
		compared:      compared,
	}
}

// ObserveDuration records the duration of the named sync operation.
func (m *SyncMetrics) ObserveDuration(operation string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(operation)).Observe(d.Seconds())
}

// AddAdopted increments the adopted-product counter by n.
func (m *SyncMetrics) AddAdopted(n int) {
	if m == nil || m.adopted == nil || n <= 0 {
		return
	}
	m.adopted.Add(float64(n))
}

// AddMissingSKU increments the missing-SKU counter by n.
func (m *SyncMetrics) AddMissingSKU(n int) {
	if m == nil || m.missingSKU == nil || n <= 0 {
		return
	}
	m.missingSKU.Add(float64(n))
}

// IncFailedBatch increments the failed-batch counter.
func (m *SyncMetrics) IncFailedBatch() {
	if m == nil || m.failedBatches == nil {
		return
	}
	m.failedBatches.Inc()
}

// IncCompared increments the live-comparison counter for the given status.
func (m *SyncMetrics) IncCompared(status string) {
	if m == nil || m.compared == nil {
		return
	}
	m.compared.WithLabelValues(normalizeLabel(status)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
