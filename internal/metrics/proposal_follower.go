package metrics

import (
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	followerCycleTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tribo",
		Subsystem: "proposal_follower",
		Name:      "cycles_total",
		Help:      "Count of follower cycles over the registry.",
	}, []string{"network", "status"})

	followerCycleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tribo",
		Subsystem: "proposal_follower",
		Name:      "cycle_duration_seconds",
		Help:      "Duration of a follower cycle.",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"network", "status"})

	followerCommunities = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "tribo",
		Subsystem: "proposal_follower",
		Name:      "communities",
		Help:      "Number of communities scanned in the last cycle.",
	}, []string{"network"})

	followerSnapshotsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tribo",
		Subsystem: "proposal_follower",
		Name:      "snapshots_total",
		Help:      "Count of proposal snapshots handed to the writer.",
	}, []string{"network", "status"})

	followerReorgsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tribo",
		Subsystem: "proposal_follower",
		Name:      "tally_decreases_total",
		Help:      "Count of proposals whose tally went down between cycles.",
	}, []string{"network"})

	followerNotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tribo",
		Subsystem: "proposal_follower",
		Name:      "notifications_total",
		Help:      "Count of new proposal notifications.",
	}, []string{"network", "status"})
)

// ProposalFollower tracks the background proposal follower.
type ProposalFollower struct {
	network model.Network
}

// NewProposalFollower constructs a ProposalFollower with defaults.
func NewProposalFollower(network model.Network) *ProposalFollower {
	if network == "" {
		network = "unknown"
	}
	return &ProposalFollower{network: network}
}

// ObserveCycle records one pass over every community.
func (m ProposalFollower) ObserveCycle(err error, communities int, started time.Time) {
	status := statusOf(err)
	followerCycleTotal.WithLabelValues(string(m.network), status).Inc()
	followerCycleDuration.WithLabelValues(string(m.network), status).
		Observe(time.Since(started).Seconds())
	followerCommunities.WithLabelValues(string(m.network)).Set(float64(communities))
}

// ObserveSnapshots records a flushed batch of snapshots.
func (m ProposalFollower) ObserveSnapshots(err error, snapshots int) {
	followerSnapshotsTotal.WithLabelValues(string(m.network), statusOf(err)).Add(float64(snapshots))
}

func (m ProposalFollower) ObserveTallyDecrease() {
	followerReorgsTotal.WithLabelValues(string(m.network)).Inc()
}

func (m ProposalFollower) ObserveNotification(err error) {
	followerNotificationsTotal.WithLabelValues(string(m.network), statusOf(err)).Inc()
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
