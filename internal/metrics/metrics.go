// Package metrics collects and exposes Prometheus metrics for the
// registration workflow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector counts workflow outcomes. Services record through the interface
// so tests can pass a no-op.
type Collector struct {
	submissions         prometheus.Counter
	duplicateRejections prometheus.Counter
	decisions           *prometheus.CounterVec
	provisioningFails   *prometheus.CounterVec
	profileWriteFails   prometheus.Counter
	decisionConflicts   prometheus.Counter
	orphanedIdentities  prometheus.Gauge
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		submissions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "learnportal_registration_submissions_total",
			Help: "Accepted registration submissions.",
		}),
		duplicateRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "learnportal_registration_duplicates_total",
			Help: "Submissions rejected for a duplicate email.",
		}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "learnportal_registration_decisions_total",
			Help: "Terminal registration decisions by action.",
		}, []string{"action"}),
		provisioningFails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "learnportal_provisioning_failures_total",
			Help: "Aborted provisioning attempts by failed step.",
		}, []string{"step"}),
		profileWriteFails: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "learnportal_profile_write_failures_total",
			Help: "Best-effort profile writes that failed.",
		}),
		decisionConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "learnportal_decision_conflicts_total",
			Help: "Decisions that lost the race on a pending request.",
		}),
		orphanedIdentities: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "learnportal_orphaned_identities",
			Help: "Identities at the provider with no matching user row, as of the last sweep.",
		}),
	}

	reg.MustRegister(
		c.submissions,
		c.duplicateRejections,
		c.decisions,
		c.provisioningFails,
		c.profileWriteFails,
		c.decisionConflicts,
		c.orphanedIdentities,
	)
	return c
}

func (c *Collector) RecordSubmission()         { c.submissions.Inc() }
func (c *Collector) RecordDuplicateRejection() { c.duplicateRejections.Inc() }

func (c *Collector) RecordDecision(action string) {
	c.decisions.WithLabelValues(action).Inc()
}

func (c *Collector) RecordProvisioningFailure(step string) {
	c.provisioningFails.WithLabelValues(step).Inc()
}

func (c *Collector) RecordProfileWriteFailure() { c.profileWriteFails.Inc() }
func (c *Collector) RecordDecisionConflict()    { c.decisionConflicts.Inc() }

func (c *Collector) SetOrphanedIdentities(n int) {
	c.orphanedIdentities.Set(float64(n))
}
