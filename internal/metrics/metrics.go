package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReviewMutations 评论增删次数，result 为 ok / user_error / internal_error
	ReviewMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moovie_review_mutations_total",
			Help: "Total number of review add/delete operations",
		},
		[]string{"operation", "result"},
	)

	HitCountDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moovie_hit_count_duration_seconds",
			Help:    "Duration of a full faceted hit-count computation",
			Buckets: prometheus.DefBuckets,
		},
	)

	// FilterCache result 为 hit / miss
	FilterCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moovie_filter_cache_total",
			Help: "Hit-count cache lookups",
		},
		[]string{"result"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moovie_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
)

// RecordReviewMutation 记录一次评论变更
func RecordReviewMutation(operation, result string) {
	ReviewMutations.WithLabelValues(operation, result).Inc()
}

// RecordHitCount 记录一次命中计数耗时
func RecordHitCount(duration time.Duration) {
	HitCountDuration.Observe(duration.Seconds())
}

// RecordFilterCache 记录缓存命中或未命中
func RecordFilterCache(hit bool) {
	if hit {
		FilterCache.WithLabelValues("hit").Inc()
		return
	}
	FilterCache.WithLabelValues("miss").Inc()
}

// RecordHTTPRequest route 为路由模板，未匹配时由调用方传 "unmatched"
func RecordHTTPRequest(method, route string, status int) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
