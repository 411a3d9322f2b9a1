package access

import "testing"

func TestNormalizeMachineRef_KeyVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]interface{}
		want string
		ok   bool
	}{
		{"id", map[string]interface{}{"id": "mc-1"}, "mc-1", true},
		{"machineId", map[string]interface{}{"machineId": "mc-2"}, "mc-2", true},
		{"machine_id", map[string]interface{}{"machine_id": "mc-3"}, "mc-3", true},
		{"machineID", map[string]interface{}{"machineID": "mc-4"}, "mc-4", true},
		{"no identifier", map[string]interface{}{"code": "PRN1"}, "", false},
		{"non-string id", map[string]interface{}{"id": 42}, "", false},
		{"empty id", map[string]interface{}{"id": ""}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, ok := NormalizeMachineRef(tt.raw)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ref.ID != tt.want {
				t.Errorf("ID = %q, want %q", ref.ID, tt.want)
			}
		})
	}
}

func TestNormalizeMachineRef_Metadata(t *testing.T) {
	ref, ok := NormalizeMachineRef(map[string]interface{}{
		"machine_id": "mc-9", "code": "COR2", "type": "corrugation",
	})
	if !ok {
		t.Fatal("want ok")
	}
	if ref.Code != "COR2" || ref.Type != "corrugation" {
		t.Errorf("ref = %+v", ref)
	}
}

func TestNormalizeMachineRefs_JSON(t *testing.T) {
	data := []byte(`[{"machineId":"mc-1"},{"code":"orphan"},{"id":"mc-2","code":"X"}]`)
	refs := NormalizeMachineRefs(data)
	if len(refs) != 2 {
		t.Fatalf("len = %d, want 2 (%v)", len(refs), refs)
	}
	if refs[0].ID != "mc-1" || refs[1].ID != "mc-2" {
		t.Errorf("refs = %v", refs)
	}
}

func TestNormalizeMachineRefs_Garbage(t *testing.T) {
	if refs := NormalizeMachineRefs([]byte(`{"not":"an array"}`)); refs != nil {
		t.Errorf("refs = %v, want nil", refs)
	}
	if refs := NormalizeMachineRefs(nil); refs != nil {
		t.Errorf("refs = %v, want nil", refs)
	}
}

func TestMachineSet_EmptyVsBypass(t *testing.T) {
	empty := NewMachineSet()
	if empty.IsBypass() {
		t.Error("empty set must not be bypass")
	}
	if empty.Contains("mc-1") {
		t.Error("empty set contains nothing")
	}

	bypass := Bypass()
	if !bypass.IsBypass() {
		t.Error("bypass marker lost")
	}
	if !bypass.Contains("anything") {
		t.Error("bypass contains everything")
	}
}

func TestMachineSet_Intersects(t *testing.T) {
	set := NewMachineSet("mc-1", "mc-2")
	if !set.Intersects([]MachineRef{{ID: "mc-2"}}) {
		t.Error("want intersect on mc-2")
	}
	if set.Intersects([]MachineRef{{ID: "mc-3"}}) {
		t.Error("no intersect expected on mc-3")
	}
	if set.Intersects(nil) {
		t.Error("no intersect expected on empty refs")
	}
}

func TestMachineSet_IgnoresBlankIDs(t *testing.T) {
	set := NewMachineSet("", "mc-1")
	if set.Len() != 1 {
		t.Errorf("Len = %d, want 1", set.Len())
	}
	if set.Contains("") {
		t.Error("blank id must never match")
	}
}
