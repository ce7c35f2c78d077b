package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector receives measurements from the roster service and the stores
type Collector interface {
	// AssignmentRun records one assignment computation
	AssignmentRun(strategy string, staffedPosts, assigned, unassigned int)
	// GroupsFormed records the number of patrol groups produced
	GroupsFormed(n int)
	// StoreError counts a failed store operation
	StoreError(op string)
}

// Nop discards all measurements
type Nop struct{}

var _ Collector = Nop{}

func (Nop) AssignmentRun(string, int, int, int) {}
func (Nop) GroupsFormed(int)                    {}
func (Nop) StoreError(string)                   {}

// Prometheus implements Collector with Prometheus metrics
type Prometheus struct {
	runs         *prometheus.CounterVec
	staffedPosts prometheus.Gauge
	assigned     prometheus.Gauge
	unassigned   prometheus.Gauge
	groups       prometheus.Gauge
	storeErrors  *prometheus.CounterVec
}

var _ Collector = (*Prometheus)(nil)

// NewPrometheus creates the collector and registers its metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "fence_patrol"
	}

	p := &Prometheus{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assignments",
			Name:      "runs_total",
			Help:      "Assignment computations by matching strategy.",
		}, []string{"strategy"}),
		staffedPosts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "assignments",
			Name:      "staffed_posts",
			Help:      "Posts staffed by the latest assignment computation.",
		}),
		assigned: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "assignments",
			Name:      "assigned_volunteers",
			Help:      "Volunteers posted by the latest assignment computation.",
		}),
		unassigned: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "assignments",
			Name:      "unassigned_volunteers",
			Help:      "Available volunteers left without a post by the latest computation.",
		}),
		groups: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "groups",
			Name:      "formed",
			Help:      "Patrol groups produced by the latest partitioning.",
		}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "errors_total",
			Help:      "Failed store operations by operation name.",
		}, []string{"op"}),
	}
	reg.MustRegister(p.runs, p.staffedPosts, p.assigned, p.unassigned, p.groups, p.storeErrors)
	return p
}

func (p *Prometheus) AssignmentRun(strategy string, staffedPosts, assigned, unassigned int) {
	p.runs.WithLabelValues(strategy).Inc()
	p.staffedPosts.Set(float64(staffedPosts))
	p.assigned.Set(float64(assigned))
	p.unassigned.Set(float64(unassigned))
}

func (p *Prometheus) GroupsFormed(n int) {
	p.groups.Set(float64(n))
}

func (p *Prometheus) StoreError(op string) {
	p.storeErrors.WithLabelValues(op).Inc()
}
