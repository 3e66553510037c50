package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordReviewMutation(t *testing.T) {
	before := testutil.ToFloat64(ReviewMutations.WithLabelValues("add", "ok"))
	RecordReviewMutation("add", "ok")
	RecordReviewMutation("add", "ok")
	after := testutil.ToFloat64(ReviewMutations.WithLabelValues("add", "ok"))
	if after-before != 2 {
		t.Errorf("add/ok delta = %v, want 2", after-before)
	}
}

func TestRecordFilterCache(t *testing.T) {
	hits := testutil.ToFloat64(FilterCache.WithLabelValues("hit"))
	misses := testutil.ToFloat64(FilterCache.WithLabelValues("miss"))

	RecordFilterCache(true)
	RecordFilterCache(false)
	RecordFilterCache(false)

	if d := testutil.ToFloat64(FilterCache.WithLabelValues("hit")) - hits; d != 1 {
		t.Errorf("hit delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(FilterCache.WithLabelValues("miss")) - misses; d != 2 {
		t.Errorf("miss delta = %v, want 2", d)
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/api/movies", "200"))
	RecordHTTPRequest("GET", "/api/movies", 200)
	if d := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/api/movies", "200")) - before; d != 1 {
		t.Errorf("delta = %v, want 1", d)
	}
}

func TestMetricsLint(t *testing.T) {
	RecordHitCount(3 * time.Millisecond)
	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer,
		"moovie_review_mutations_total",
		"moovie_hit_count_duration_seconds",
		"moovie_filter_cache_total",
		"moovie_http_requests_total",
	)
	if err != nil {
		t.Fatalf("GatherAndLint() error = %v", err)
	}
	for _, p := range problems {
		t.Errorf("lint %s: %s", p.Metric, p.Text)
	}
}
