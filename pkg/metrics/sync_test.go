package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestSyncMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSyncMetrics(reg)

	m.ObserveDuration("adoption", 250*time.Millisecond)
	m.AddAdopted(100)
	m.AddMissingSKU(3)
	m.IncFailedBatch()
	m.IncCompared("OK")
	m.IncCompared("OK")
	m.IncCompared("DIFFERENT")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := counterValue(mfs, "catalog_adopted_products_total", "", ""); err != nil || got != 100 {
		t.Fatalf("adopted counter = %v (err %v)", got, err)
	}
	if got, err := counterValue(mfs, "catalog_adoption_missing_sku_total", "", ""); err != nil || got != 3 {
		t.Fatalf("missing sku counter = %v (err %v)", got, err)
	}
	if got, err := counterValue(mfs, "catalog_adoption_failed_batches_total", "", ""); err != nil || got != 1 {
		t.Fatalf("failed batch counter = %v (err %v)", got, err)
	}
	if got, err := counterValue(mfs, "catalog_live_compare_items_total", "status", "OK"); err != nil || got != 2 {
		t.Fatalf("compared OK counter = %v (err %v)", got, err)
	}
}

func TestSyncMetricsNilRegistererIsNoop(t *testing.T) {
	m := NewSyncMetrics(nil)
	m.ObserveDuration("adoption", time.Second)
	m.AddAdopted(1)
	m.AddMissingSKU(1)
	m.IncFailedBatch()
	m.IncCompared("OK")
	var nilMetrics *SyncMetrics
	nilMetrics.IncFailedBatch()
}

func counterValue(mfs []*dto.MetricFamily, name, labelKey, labelValue string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if labelKey == "" {
				return metric.GetCounter().GetValue(), nil
			}
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == labelKey && lp.GetValue() == labelValue {
					return metric.GetCounter().GetValue(), nil
				}
			}
		}
	}
	return 0, fmt.Errorf("metric %s{%s=%q} not found", name, labelKey, labelValue)
}
