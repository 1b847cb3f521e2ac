package metrics

// Recorder is what the workflow services record against. Collector is the
// Prometheus-backed implementation; tests use NewNoop.
type Recorder interface {
	RecordSubmission()
	RecordDuplicateRejection()
	RecordDecision(action string)
	RecordProvisioningFailure(step string)
	RecordProfileWriteFailure()
	RecordDecisionConflict()
	SetOrphanedIdentities(n int)
}

type noop struct{}

func NewNoop() Recorder { return noop{} }

func (noop) RecordSubmission()                 {}
func (noop) RecordDuplicateRejection()         {}
func (noop) RecordDecision(string)             {}
func (noop) RecordProvisioningFailure(string)  {}
func (noop) RecordProfileWriteFailure()        {}
func (noop) RecordDecisionConflict()           {}
func (noop) SetOrphanedIdentities(int)         {}
