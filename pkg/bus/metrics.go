package bus

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	busMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "busproxy",
			Subsystem: "bus",
			Name:      "messages_total",
			Help:      "Messages handled by bus consumers.",
		},
		[]string{"address", "action", "status"},
	)
	busDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "busproxy",
			Subsystem: "bus",
			Name:      "message_duration_seconds",
			Help:      "Time spent handling a message in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"address", "action", "status"},
	)
	busConsumers = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "busproxy",
			Subsystem: "bus",
			Name:      "consumers",
			Help:      "Whether a consumer is active at the address.",
		},
		[]string{"address"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(busMessages, busDuration, busConsumers)
	})
}

func RecordMessage(address, action, status string, duration time.Duration) {
	RegisterMetrics()
	busMessages.WithLabelValues(address, action, status).Inc()
	busDuration.WithLabelValues(address, action, status).Observe(duration.Seconds())
}

func recordConsumer(address string, active bool) {
	RegisterMetrics()
	value := 0.0
	if active {
		value = 1
	}
	busConsumers.WithLabelValues(address).Set(value)
}
