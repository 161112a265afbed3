package msgqueue

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type queueMetrics struct {
	enqueueTotal   *prometheus.CounterVec
	handledTotal   *prometheus.CounterVec
	deadTotal      *prometheus.CounterVec
	handleDuration *prometheus.HistogramVec
}

var (
	metricsOnce sync.Once
	metricsInst *queueMetrics
)

func getMetrics() *queueMetrics {
	metricsOnce.Do(func() {
		metricsInst = &queueMetrics{
			enqueueTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "msgqueue_enqueued_total",
				Help: "Messages enqueued, by queue.",
			}, []string{"queue"}),
			handledTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "msgqueue_handled_total",
				Help: "Messages handled, by queue and outcome.",
			}, []string{"queue", "outcome"}),
			deadTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "msgqueue_dead_total",
				Help: "Messages moved to the dead letter state, by queue.",
			}, []string{"queue"}),
			handleDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "msgqueue_handle_duration_seconds",
				Help:    "Handler latency, by queue.",
				Buckets: prometheus.DefBuckets,
			}, []string{"queue"}),
		}
	})
	return metricsInst
}
