// Package pipeline models the fixed corrugated-box production pipeline and
// decides whether a step may legally start or stop given the state of its
// neighbours. All functions here are pure; persistence and timestamps are
// the caller's job.
package pipeline

// StepName identifies one of the nine canonical production stations.
type StepName string

const (
	PaperStore                   StepName = "PaperStore"
	PrintingDetails              StepName = "PrintingDetails"
	Corrugation                  StepName = "Corrugation"
	FluteLaminateBoardConversion StepName = "FluteLaminateBoardConversion"
	Punching                     StepName = "Punching"
	DieCutting                   StepName = "DieCutting"
	SideFlapPasting              StepName = "SideFlapPasting"
	QualityDept                  StepName = "QualityDept"
	DispatchProcess              StepName = "DispatchProcess"
)

// AllSteps lists every canonical step in pipeline order.
var AllSteps = []StepName{
	PaperStore,
	PrintingDetails,
	Corrugation,
	FluteLaminateBoardConversion,
	Punching,
	DieCutting,
	SideFlapPasting,
	QualityDept,
	DispatchProcess,
}

// Known reports whether name is one of the canonical step names.
func Known(name StepName) bool {
	for _, s := range AllSteps {
		if s == name {
			return true
		}
	}
	return false
}

// Status is the coarse lifecycle state of a JobStep.
type Status string

const (
	StatusPlanned Status = "planned"
	StatusStart   Status = "start"
	StatusStop    Status = "stop"
)

// DetailStatus is the finer per-discipline state (printing-specific,
// corrugation-specific, ...). It is bookkeeping for the shop floor and is
// never consulted when gating transitions.
type DetailStatus string

const (
	DetailInProgress DetailStatus = "in_progress"
	DetailHold       DetailStatus = "hold"
	DetailAccept     DetailStatus = "accept"
	DetailReject     DetailStatus = "reject"
)

// Action is a requested transition on a step.
type Action string

const (
	ActionStart Action = "start"
	ActionStop  Action = "stop"
)

// StepState is the minimal view of one step the transition engine needs:
// its canonical name and coarse status within a single planning revision.
type StepState struct {
	Name   StepName
	Status Status
}
