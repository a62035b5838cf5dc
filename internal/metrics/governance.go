package metrics

import (
	"strconv"
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	governanceDiscoveryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tribo",
		Subsystem: "governance",
		Name:      "discovery_total",
		Help:      "Count of proposal discoveries by outcome.",
	}, []string{"network", "outcome"})
	governanceDiscoveryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tribo",
		Subsystem: "governance",
		Name:      "discovery_duration_seconds",
		Help:      "Duration of a proposal discovery.",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"network", "outcome"})
	governanceDiscoverySize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tribo",
		Subsystem: "governance",
		Name:      "discovery_proposals",
		Help:      "Number of proposals returned per discovery.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	}, []string{"network"})
	governanceFieldFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tribo",
		Subsystem: "governance",
		Name:      "field_failures_total",
		Help:      "Count of proposal fields left at their default.",
	}, []string{"network", "field", "rate_limited"})
)

// Governance tracks proposal aggregation.
type Governance struct {
	network model.Network
}

func NewGovernance(network model.Network) *Governance {
	if network == "" {
		network = "unknown"
	}
	return &Governance{network: network}
}

// ObserveDiscovery records one scan of a governor.
func (m Governance) ObserveDiscovery(outcome string, proposals int, started time.Time) {
	governanceDiscoveryTotal.WithLabelValues(string(m.network), outcome).Inc()
	governanceDiscoveryDuration.WithLabelValues(string(m.network), outcome).Observe(time.Since(started).Seconds())
	governanceDiscoverySize.WithLabelValues(string(m.network)).Observe(float64(proposals))
}

func (m Governance) ObserveFieldFailure(field string, rateLimited bool) {
	governanceFieldFailuresTotal.WithLabelValues(string(m.network), field, strconv.FormatBool(rateLimited)).Inc()
}
