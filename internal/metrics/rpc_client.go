package metrics

import (
	"strconv"
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/ethrpc"
	"github.com/Tribo-Hackathon/Tribo/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rpcRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tribo",
		Subsystem: "rpc_client",
		Name:      "operations_total",
		Help:      "Count of JSON-RPC operations per upstream endpoint.",
	}, []string{"operation", "network", "endpoint", "status"})
	rpcRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tribo",
		Subsystem: "rpc_client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of JSON-RPC operations per upstream endpoint.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "network", "endpoint", "status"})
)

// RPCClient tracks metrics for raw calls to the upstream providers.
type RPCClient struct {
	network model.Network
}

// NewRPCClient constructs a metrics collector for RPC calls.
func NewRPCClient(network model.Network) *RPCClient {
	if network == "" {
		network = "unknown"
	}
	return &RPCClient{network: network}
}

// Observe records a single RPC call outcome and duration. Failures are
// labelled with their error kind.
func (m RPCClient) Observe(operation string, endpoint int, err error, started time.Time) {
	status := rpcStatus(err)
	idx := strconv.Itoa(endpoint)

	rpcRequestsTotal.WithLabelValues(operation, string(m.network), idx, status).Inc()
	rpcRequestDuration.WithLabelValues(operation, string(m.network), idx, status).Observe(time.Since(started).Seconds())
}

func rpcStatus(err error) string {
	if err == nil {
		return "success"
	}
	return ethrpc.Classify(err).String()
}
