package pipeline

// PredecessorGroup is one prerequisite clause for a step. A group with a
// single member is an AND-predecessor; a group with several members is an
// OR-join satisfied by any one of them. A step's groups are ANDed together.
type PredecessorGroup []StepName

// dependencyGraph is the fixed station topology. Read-only after init:
// safe for concurrent lookups from any number of requests.
//
//	PaperStore ─┬─ PrintingDetails ─┐
//	            └─ Corrugation ─────┴─ FluteLaminateBoardConversion ─┬─ Punching ──┬─ SideFlapPasting ─ QualityDept ─ DispatchProcess
//	                                                                 └─ DieCutting ┘ (either)
var dependencyGraph = map[StepName][]PredecessorGroup{
	PaperStore:      nil,
	PrintingDetails: {{PaperStore}},
	Corrugation:     {{PaperStore}},
	FluteLaminateBoardConversion: {
		{PrintingDetails},
		{Corrugation},
	},
	Punching:        {{FluteLaminateBoardConversion}},
	DieCutting:      {{FluteLaminateBoardConversion}},
	SideFlapPasting: {{Punching, DieCutting}},
	QualityDept:     {{SideFlapPasting}},
	DispatchProcess: {{QualityDept}},
}

// Predecessors returns the prerequisite groups for a step. The second
// return is false for names outside the canonical set.
func Predecessors(name StepName) ([]PredecessorGroup, bool) {
	groups, ok := dependencyGraph[name]
	return groups, ok
}
