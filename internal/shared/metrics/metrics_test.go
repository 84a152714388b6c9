package metrics

import (
	"strings"
	"testing"
)

func TestRenderCounters(t *testing.T) {
	IncAnalysisStarted()
	IncTopicSkipped()
	IncLLMRetry()

	out := Render()
	for _, name := range []string{
		"analysis_started_total",
		"analysis_completed_total",
		"topic_skipped_total",
		"llm_retry_total",
		"analysis_duration_ms_bucket",
		"analysis_duration_ms_count",
	} {
		if !strings.Contains(out, name) {
			t.Errorf("metric %s missing from output", name)
		}
	}
}

func TestHistogramCumulativeBuckets(t *testing.T) {
	h := newHistogram([]float64{10, 100, 1000})
	h.Observe(5)
	h.Observe(50)
	h.Observe(5000)

	snap := h.Snapshot()
	if snap.count != 3 {
		t.Fatalf("count = %d", snap.count)
	}
	// Per-bucket counts; the +Inf observation lives only in the total.
	if snap.counts[0] != 1 || snap.counts[1] != 1 || snap.counts[2] != 0 {
		t.Fatalf("counts = %v", snap.counts)
	}
	if snap.sum != 5055 {
		t.Fatalf("sum = %v", snap.sum)
	}
}
