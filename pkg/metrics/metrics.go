// Package metrics 暴露 Prometheus 指标
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 服务指标集合，使用独立 Registry 便于测试
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	BookingOutcomes *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec
	StatusClients   prometheus.Gauge
}

// New 创建并注册全部指标
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campus",
			Name:      "http_requests_total",
			Help:      "HTTP 请求总数",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "campus",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP 请求耗时",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		BookingOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campus",
			Name:      "booking_outcomes_total",
			Help:      "预订操作结果（created / conflict / race / invalid / cancelled / approved / rejected）",
		}, []string{"outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campus",
			Name:      "availability_cache_lookups_total",
			Help:      "空闲表缓存命中情况",
		}, []string{"result"}),
		StatusClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "campus",
			Name:      "status_ws_clients",
			Help:      "当前订阅教室状态推送的 WebSocket 连接数",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.BookingOutcomes,
		m.CacheLookups,
		m.StatusClients,
	)
	return m
}

// Handler /metrics 端点
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// BookingOutcome 记录一次预订操作结果；m 为 nil 时忽略
func (m *Metrics) BookingOutcome(outcome string) {
	if m == nil {
		return
	}
	m.BookingOutcomes.WithLabelValues(outcome).Inc()
}

// CacheLookup 记录一次空闲表缓存查询；m 为 nil 时忽略
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
