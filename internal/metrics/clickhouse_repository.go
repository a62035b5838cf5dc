package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/Tribo-Hackathon/Tribo/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	snapshotStoreOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tribo",
		Subsystem: "snapshot_store",
		Name:      "operations_total",
		Help:      "Count of snapshot store queries and batch inserts by outcome.",
	}, []string{"operation", "network", "status"})
	snapshotStoreOpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tribo",
		Subsystem: "snapshot_store",
		Name:      "operation_duration_seconds",
		Help:      "Duration of snapshot store operations.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
	}, []string{"operation", "network"})
	snapshotStoreLastSuccess = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "tribo",
		Subsystem: "snapshot_store",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix time of the last successful operation. A stale insert gauge means the follower stopped recording.",
	}, []string{"operation", "network"})
)

// ClickhouseRepository records the calls the follower and the gateway make
// against the proposal snapshot tables.
type ClickhouseRepository struct {
	network model.Network
	now     func() time.Time
}

// NewClickhouseRepository labels operations that carry no network with
// network.
func NewClickhouseRepository(network model.Network) *ClickhouseRepository {
	if network == "" {
		network = "unknown"
	}
	return &ClickhouseRepository{network: network, now: time.Now}
}

func (m ClickhouseRepository) Observe(operation string, network model.Network, err error, started time.Time) {
	if network == "" {
		network = m.network
	}
	now := m.now()
	snapshotStoreOpsTotal.WithLabelValues(operation, string(network), storeStatus(err)).Inc()
	snapshotStoreOpDuration.WithLabelValues(operation, string(network)).Observe(now.Sub(started).Seconds())
	if err == nil {
		snapshotStoreLastSuccess.WithLabelValues(operation, string(network)).Set(float64(now.Unix()))
	}
}

// storeStatus separates server side rejections from transport failures.
func storeStatus(err error) string {
	var exception *clickhouse.Exception
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.As(err, &exception):
		return "rejected"
	default:
		return "error"
	}
}
