package access

import "encoding/json"

// MachineRef is the normalized shape of a machine assignment. Legacy
// planning payloads spell the identifier key several ways; NormalizeMachineRef
// folds them into this one shape at the ingestion boundary so the decision
// functions never see raw records.
type MachineRef struct {
	ID   string `json:"id"`
	Code string `json:"code,omitempty"`
	Type string `json:"type,omitempty"`
}

// machineIDKeys are the identifier spellings seen in legacy payloads, in
// precedence order.
var machineIDKeys = []string{"id", "machineId", "machine_id", "machineID"}

// NormalizeMachineRef converts one raw machine record into a MachineRef.
// Returns false when no identifier key is present.
func NormalizeMachineRef(raw map[string]interface{}) (MachineRef, bool) {
	var ref MachineRef
	for _, key := range machineIDKeys {
		if v, ok := raw[key].(string); ok && v != "" {
			ref.ID = v
			break
		}
	}
	if ref.ID == "" {
		return MachineRef{}, false
	}
	if v, ok := raw["code"].(string); ok {
		ref.Code = v
	}
	if v, ok := raw["type"].(string); ok {
		ref.Type = v
	}
	return ref, true
}

// NormalizeMachineRefs parses a JSON array of raw machine records, dropping
// entries without a usable identifier.
func NormalizeMachineRefs(data []byte) []MachineRef {
	if len(data) == 0 {
		return nil
	}
	var raws []map[string]interface{}
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil
	}
	var refs []MachineRef
	for _, raw := range raws {
		if ref, ok := NormalizeMachineRef(raw); ok {
			refs = append(refs, ref)
		}
	}
	return refs
}

// MachineSet is the set of machine IDs assigned to a user, or the
// distinguished bypass marker. An empty set for a non-bypass user filters
// everything out; bypass filters nothing. The two must never be conflated.
type MachineSet struct {
	bypass bool
	ids    map[string]bool
}

// NewMachineSet builds a set from machine IDs.
func NewMachineSet(ids ...string) MachineSet {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id != "" {
			m[id] = true
		}
	}
	return MachineSet{ids: m}
}

// Bypass returns the no-filtering marker used for bypass roles.
func Bypass() MachineSet {
	return MachineSet{bypass: true}
}

// IsBypass reports whether this is the no-filtering marker.
func (s MachineSet) IsBypass() bool { return s.bypass }

// Len returns the number of machine IDs (0 for bypass).
func (s MachineSet) Len() int { return len(s.ids) }

// Contains reports whether id is in the set. Bypass contains everything.
func (s MachineSet) Contains(id string) bool {
	if s.bypass {
		return true
	}
	return id != "" && s.ids[id]
}

// Intersects reports whether any ref's ID is in the set.
func (s MachineSet) Intersects(refs []MachineRef) bool {
	for _, ref := range refs {
		if s.Contains(ref.ID) {
			return true
		}
	}
	return false
}

// IDs returns the member IDs in unspecified order.
func (s MachineSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	return out
}
