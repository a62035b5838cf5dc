package metrics

import (
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resilientReadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tribo",
		Subsystem: "resilient_client",
		Name:      "reads_total",
		Help:      "Count of reads including retries.",
	}, []string{"operation", "network", "status"})
	resilientReadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tribo",
		Subsystem: "resilient_client",
		Name:      "read_duration_seconds",
		Help:      "Duration of reads including backoff.",
		Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 20, 40},
	}, []string{"operation", "network", "status"})
	resilientCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tribo",
		Subsystem: "resilient_client",
		Name:      "cache_lookups_total",
		Help:      "Count of cache lookups by result.",
	}, []string{"operation", "network", "result"})
	resilientRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tribo",
		Subsystem: "resilient_client",
		Name:      "retries_total",
		Help:      "Count of retried reads by reason.",
	}, []string{"operation", "network", "reason"})
)

// ResilientClient tracks the retrying, cached read path.
type ResilientClient struct {
	network model.Network
}

func NewResilientClient(network model.Network) *ResilientClient {
	if network == "" {
		network = "unknown"
	}
	return &ResilientClient{network: network}
}

// Observe records the final outcome of a read.
func (m ResilientClient) Observe(operation string, err error, started time.Time) {
	status := rpcStatus(err)
	resilientReadsTotal.WithLabelValues(operation, string(m.network), status).Inc()
	resilientReadDuration.WithLabelValues(operation, string(m.network), status).Observe(time.Since(started).Seconds())
}

func (m ResilientClient) ObserveCache(operation string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	resilientCacheTotal.WithLabelValues(operation, string(m.network), result).Inc()
}

func (m ResilientClient) ObserveRetry(operation string, reason string) {
	resilientRetriesTotal.WithLabelValues(operation, string(m.network), reason).Inc()
}
