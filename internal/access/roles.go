// Package access decides which jobs and steps a shop-floor user may see or
// act on, given their roles, their assigned machines, and each job's demand
// tier. The decision functions are pure; only the user-machine resolver
// touches the database.
package access

import (
	"encoding/json"
	"strings"

	"github.com/sunpack/boxline/internal/pipeline"
)

// Role is a user role tag.
type Role string

const (
	RoleAdmin             Role = "admin"
	RolePlanner           Role = "planner"
	RoleFlyingSquad       Role = "flyingsquad"
	RolePrinter           Role = "printer"
	RoleCorrugator        Role = "corrugator"
	RoleFluteLaminator    Role = "flutelaminator"
	RolePunchingOperator  Role = "punching_operator"
	RolePastingOperator   Role = "pasting_operator"
	RoleQCManager         Role = "qc_manager"
	RoleDispatchExecutive Role = "dispatch_executive"
	RolePaperStore        Role = "paperstore"
)

// bypassRoles see every job with no machine or dependency filtering.
var bypassRoles = map[Role]bool{
	RoleAdmin:       true,
	RolePlanner:     true,
	RoleFlyingSquad: true,
}

// roleSteps maps each operator role to the step names it runs.
var roleSteps = map[Role][]pipeline.StepName{
	RolePrinter:           {pipeline.PrintingDetails},
	RoleCorrugator:        {pipeline.Corrugation},
	RoleFluteLaminator:    {pipeline.FluteLaminateBoardConversion},
	RolePunchingOperator:  {pipeline.Punching, pipeline.DieCutting},
	RolePastingOperator:   {pipeline.SideFlapPasting},
	RoleQCManager:         {pipeline.QualityDept},
	RoleDispatchExecutive: {pipeline.DispatchProcess, pipeline.PaperStore},
	RolePaperStore:        {pipeline.PaperStore, pipeline.DispatchProcess},
}

// RoleSet is a user's parsed set of role tags.
type RoleSet []Role

// ParseRoles reads the stored role field, which historically is either a
// bare tag ("printer") or a JSON list (`["printer","corrugator"]`).
// Unparseable input yields an empty set: the user ends up with no matching
// role, never with bypass rights.
func ParseRoles(raw string) RoleSet {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var tags []string
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			return nil
		}
		set := make(RoleSet, 0, len(tags))
		for _, tag := range tags {
			if tag = strings.TrimSpace(tag); tag != "" {
				set = append(set, Role(tag))
			}
		}
		return set
	}
	return RoleSet{Role(raw)}
}

// HasBypass reports whether any role in the set is exempt from filtering.
func (rs RoleSet) HasBypass() bool {
	for _, r := range rs {
		if bypassRoles[r] {
			return true
		}
	}
	return false
}

// Operates reports whether any role in the set is mapped to the step name.
func (rs RoleSet) Operates(name pipeline.StepName) bool {
	for _, r := range rs {
		for _, s := range roleSteps[r] {
			if s == name {
				return true
			}
		}
	}
	return false
}

// Steps returns the union of step names the set's roles operate.
func (rs RoleSet) Steps() []pipeline.StepName {
	seen := make(map[pipeline.StepName]bool)
	var out []pipeline.StepName
	for _, r := range rs {
		for _, s := range roleSteps[r] {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// Contains reports whether the set includes the role.
func (rs RoleSet) Contains(role Role) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}
