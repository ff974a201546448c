package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// EventsProcessed 按实体/操作/结果统计处理过的变更事件
	EventsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_events_processed_total",
			Help: "Total number of change events processed by sync handlers",
		},
		[]string{"entity", "operation", "outcome"},
	)

	// AcksPublished 按主题统计已发布的确认事件
	AcksPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_acks_published_total",
			Help: "Total number of acknowledgment events published",
		},
		[]string{"topic", "success"},
	)

	// SearchDuration 按集合统计向量检索耗时
	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vector_search_duration_seconds",
			Help:    "Vector index search latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"collection"},
	)

	// RetryAttempts 按操作统计重试次数
	RetryAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vector_store_retry_attempts_total",
			Help: "Total number of retried vector store operations",
		},
		[]string{"operation"},
	)

	// IntentDecisions 按意图统计分类结果
	IntentDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intent_decisions_total",
			Help: "Total number of intent classification decisions",
		},
		[]string{"intent"},
	)
)

func init() {
	prometheus.MustRegister(
		EventsProcessed,
		AcksPublished,
		SearchDuration,
		RetryAttempts,
		IntentDecisions,
	)
}

// Handler 返回/metrics处理器
func Handler() http.Handler {
	return promhttp.Handler()
}
