package access

import "github.com/sunpack/boxline/internal/pipeline"

// Tier is a job's demand tier. High-demand jobs are visible to every role
// that operates a step in them, regardless of machine assignment.
type Tier string

const (
	TierNormal Tier = "normal"
	TierHigh   Tier = "high"
)

// StepInfo is the engine's view of one step in a planning revision.
type StepInfo struct {
	Name     pipeline.StepName
	Status   pipeline.Status
	Machines []MachineRef
}

// JobInfo is the engine's view of one job: the resolved demand tier (Job
// row wins, planning tier is the fallback), the legacy job-level machine
// assignment, and the steps of the current planning revision. Planning-only
// records have HasJobRow false.
type JobInfo struct {
	JobNo      string
	HasJobRow  bool
	DemandTier Tier
	MachineID  string
	Steps      []StepInfo
}

// Logger receives decision traces. Satisfied by *log.Logger.
type Logger interface {
	Printf(format string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}

// Engine evaluates visibility. Zero value works; Log is optional.
type Engine struct {
	Log Logger
}

// New returns an Engine tracing to log, or silent when log is nil.
func New(log Logger) *Engine {
	if log == nil {
		log = nopLogger{}
	}
	return &Engine{Log: log}
}

func (e *Engine) logf(format string, v ...interface{}) {
	if e.Log != nil {
		e.Log.Printf(format, v...)
	}
}

// IsStepVisible decides whether one step of a job is visible to a user.
// A step is visible when the user bypasses filtering, when the job is
// high-demand and the user's role operates the step, when the role operates
// the step and the step is unassigned or assigned to one of the user's
// machines, or when the step is assigned to one of the user's machines
// regardless of role.
func (e *Engine) IsStepVisible(step StepInfo, job JobInfo, roles RoleSet, machines MachineSet) bool {
	if machines.IsBypass() {
		return true
	}
	roleMatch := roles.Operates(step.Name)
	if job.DemandTier == TierHigh && roleMatch {
		return true
	}
	if roleMatch {
		// Unassigned steps default open to their natural operators.
		if len(step.Machines) == 0 || machines.Intersects(step.Machines) {
			return true
		}
	}
	return len(step.Machines) > 0 && machines.Intersects(step.Machines)
}

// JobVisible decides whether a job is surfaced to a user at all. The job
// must pass either the job-level gate (direct machine match or high demand)
// or have at least one visible step, and is then narrowed: when the user's
// role matches steps in this planning, at least one of those steps must
// have its start prerequisites satisfied, so a downstream station is not
// shown work that has not reached it yet.
func (e *Engine) JobVisible(job JobInfo, roles RoleSet, machines MachineSet) bool {
	if machines.IsBypass() {
		return true
	}

	gate := job.DemandTier == TierHigh ||
		(job.MachineID != "" && machines.Contains(job.MachineID))
	if !gate {
		for _, step := range job.Steps {
			if e.IsStepVisible(step, job, roles, machines) {
				gate = true
				break
			}
		}
	}
	if !gate {
		return false
	}

	return e.roleStepReady(job, roles)
}

// roleStepReady applies the start-readiness narrowing. Users whose roles
// match no step in the planning are governed by machine visibility alone.
func (e *Engine) roleStepReady(job JobInfo, roles RoleSet) bool {
	states := make([]pipeline.StepState, len(job.Steps))
	for i, s := range job.Steps {
		states[i] = pipeline.StepState{Name: s.Name, Status: s.Status}
	}

	matched := false
	for _, step := range job.Steps {
		if !roles.Operates(step.Name) {
			continue
		}
		matched = true
		if d := pipeline.CanTransition(states, step.Name, pipeline.ActionStart); d.Allowed {
			return true
		}
	}
	if matched {
		e.logf("access: job %s filtered, no role-matched step is start-ready", job.JobNo)
		return false
	}
	return true
}

// FilteredJobNumbers returns the job numbers from jobs that the user may
// see. For bypass users this is every job number. The result is intended
// as an inclusion filter for subsequent record retrieval.
func (e *Engine) FilteredJobNumbers(jobs []JobInfo, roles RoleSet, machines MachineSet) map[string]bool {
	visible := make(map[string]bool)
	for _, job := range jobs {
		if e.JobVisible(job, roles, machines) {
			visible[job.JobNo] = true
		}
	}
	return visible
}
