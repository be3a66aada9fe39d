// Package metrics 提供 Prometheus 指标定义与采集接口
package metrics

import (
	"context"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wyfcoding/riskengine/pkg/logger"
)

// Metrics 指标集合
type Metrics struct {
	// HTTP 请求计数
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// gRPC 请求计数
	GRPCRequestsTotal *prometheus.CounterVec
	// gRPC 请求耗时
	GRPCRequestDuration *prometheus.HistogramVec

	// 业务指标
	EvaluationsTotal               *prometheus.CounterVec
	EvaluationStorageFailuresTotal prometheus.Counter
	EventPublishFailuresTotal      prometheus.Counter
	RateLimitedTotal               prometheus.Counter

	registry *prometheus.Registry
}

// New 创建指标实例，使用独立 registry，便于多实例与测试
func New(namespace string) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),

		GRPCRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grpc_requests_total",
			Help:      "Total gRPC requests",
		}, []string{"method", "code"}),
		GRPCRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "grpc_request_duration_seconds",
			Help:      "gRPC request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),

		EvaluationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Total risk evaluations computed",
		}, []string{"risk_level"}),
		EvaluationStorageFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluation_storage_failures_total",
			Help:      "Evaluations that could not be persisted",
		}),
		EventPublishFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_failures_total",
			Help:      "Evaluation events that failed to publish",
		}),
		RateLimitedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		}),

		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.GRPCRequestsTotal,
		m.GRPCRequestDuration,
		m.EvaluationsTotal,
		m.EvaluationStorageFailuresTotal,
		m.EventPublishFailuresTotal,
		m.RateLimitedTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	logger.Info(context.Background(), "Metrics registered successfully", "namespace", namespace)
	return m
}

// Registry 返回指标所在 registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler 返回 Prometheus 抓取 handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// MetricsCollector 指标收集器接口
type MetricsCollector interface {
	// 记录 HTTP 请求
	RecordHTTPRequest(method, path string, statusCode int, duration float64)
	// 记录 gRPC 请求
	RecordGRPCRequest(method, code string, duration float64)
	// 记录一次评估
	RecordEvaluation(level string)
	// 记录评估持久化失败
	RecordStorageFailure()
	// 记录事件发布失败
	RecordPublishFailure()
	// 记录被限流的请求
	RecordRateLimited()
}

// RecordHTTPRequest 记录 HTTP 请求
func (m *Metrics) RecordHTTPRequest(method, path string, statusCode int, duration float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordGRPCRequest 记录 gRPC 请求
func (m *Metrics) RecordGRPCRequest(method, code string, duration float64) {
	m.GRPCRequestsTotal.WithLabelValues(method, code).Inc()
	m.GRPCRequestDuration.WithLabelValues(method).Observe(duration)
}

// RecordEvaluation 记录评估
func (m *Metrics) RecordEvaluation(level string) {
	m.EvaluationsTotal.WithLabelValues(level).Inc()
}

// RecordStorageFailure 记录持久化失败
func (m *Metrics) RecordStorageFailure() {
	m.EvaluationStorageFailuresTotal.Inc()
}

// RecordPublishFailure 记录事件发布失败
func (m *Metrics) RecordPublishFailure() {
	m.EventPublishFailuresTotal.Inc()
}

// RecordRateLimited 记录限流
func (m *Metrics) RecordRateLimited() {
	m.RateLimitedTotal.Inc()
}

// NopCollector 不做任何记录的收集器
type NopCollector struct{}

func (NopCollector) RecordHTTPRequest(string, string, int, float64) {}
func (NopCollector) RecordGRPCRequest(string, string, float64)      {}
func (NopCollector) RecordEvaluation(string)                        {}
func (NopCollector) RecordStorageFailure()                          {}
func (NopCollector) RecordPublishFailure()                          {}
func (NopCollector) RecordRateLimited()                             {}
