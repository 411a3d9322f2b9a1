package pipeline

import "fmt"

// Decision is the outcome of a transition check. BlockingStep names the
// first prerequisite that failed, when there is one.
type Decision struct {
	Allowed      bool
	BlockingStep StepName
	Reason       string
}

// allow is the shared success decision.
var allow = Decision{Allowed: true, Reason: "ok"}

func blocked(step StepName, format string, args ...interface{}) Decision {
	return Decision{BlockingStep: step, Reason: fmt.Sprintf(format, args...)}
}

// CanTransition decides whether target may perform action given the steps
// of one planning revision. Policy is parallel-start, sequential-completion:
// a step may start once every prerequisite has at least started, but may
// only stop once every prerequisite has fully stopped. OR-joins are
// satisfied by any one member that exists and qualifies.
//
// A prerequisite absent from steps counts as not ready, never as vacuously
// satisfied. Unknown target names are rejected outright.
func CanTransition(steps []StepState, target StepName, action Action) Decision {
	groups, ok := Predecessors(target)
	if !ok {
		return blocked(target, "unknown step %q", target)
	}
	if action != ActionStart && action != ActionStop {
		return blocked(target, "unknown action %q", action)
	}
	if len(groups) == 0 {
		return allow
	}

	byName := make(map[StepName]Status, len(steps))
	for _, s := range steps {
		byName[s.Name] = s.Status
	}

	for _, group := range groups {
		if d := checkGroup(byName, group, action); !d.Allowed {
			return d
		}
	}
	return allow
}

// checkGroup verifies one prerequisite clause. Single-member groups are
// AND-predecessors; multi-member groups need any one qualifying member.
func checkGroup(byName map[StepName]Status, group PredecessorGroup, action Action) Decision {
	for _, name := range group {
		status, exists := byName[name]
		if exists && satisfies(status, action) {
			return allow
		}
	}

	// Report the first member as the blocker; for an AND-predecessor that
	// is the predecessor itself.
	first := group[0]
	if _, exists := byName[first]; !exists && len(group) == 1 {
		return blocked(first, "prerequisite %s missing from planning", first)
	}
	if action == ActionStart {
		return blocked(first, "prerequisite %s has not started", first)
	}
	return blocked(first, "prerequisite %s has not completed", first)
}

// satisfies reports whether a prerequisite in status clears the threshold
// for the requested action.
func satisfies(status Status, action Action) bool {
	switch action {
	case ActionStart:
		return status == StatusStart || status == StatusStop
	case ActionStop:
		return status == StatusStop
	}
	return false
}
