// Package metrics 定义了前端服务暴露的 Prometheus 指标。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tinverse"

// 页面缓存查找结果
const (
	LookupFresh = "fresh"
	LookupStale = "stale"
	LookupMiss  = "miss"
)

var (
	// BackendRequestDuration 统计对远端内容 API 的请求耗时
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Duration of requests to the remote content API in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint", "outcome"},
	)

	// PageCacheLookups 统计分页缓存的命中情况
	PageCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_cache_lookups_total",
			Help:      "Total number of pagination cache lookups by result",
		},
		[]string{"result"},
	)

	// PlaceholderPages 统计合成占位页的次数
	PlaceholderPages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "placeholder_pages_total",
			Help:      "Total number of pages filled with synthesized placeholder articles",
		},
		[]string{"reason"},
	)

	// ListInstances 当前存活的列表实例数
	ListInstances = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "list_instances",
			Help:      "Number of live article list instances",
		},
	)

	// EventsPublished 统计事件总线上的事件，outcome 为 queued、dropped 或 closed
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Total number of domain events published by topic and outcome",
		},
		[]string{"topic", "outcome"},
	)

	// HTTPRequestsTotal 统计入站 HTTP 请求
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration 统计入站 HTTP 请求耗时
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordBackendRequest 记录一次后端请求
func RecordBackendRequest(endpoint, outcome string, seconds float64) {
	BackendRequestDuration.WithLabelValues(endpoint, outcome).Observe(seconds)
}

// RecordPageCacheLookup 记录一次分页缓存查找
func RecordPageCacheLookup(result string) {
	PageCacheLookups.WithLabelValues(result).Inc()
}

// RecordPlaceholderPage 记录一次占位页合成，reason 为 empty 或 error
func RecordPlaceholderPage(reason string) {
	PlaceholderPages.WithLabelValues(reason).Inc()
}
