package pipeline

import "testing"

// states is a shorthand for building a planning's step list in tests.
func states(pairs ...interface{}) []StepState {
	var out []StepState
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, StepState{Name: pairs[i].(StepName), Status: pairs[i+1].(Status)})
	}
	return out
}

func TestCanTransition_PaperStoreUnconditional(t *testing.T) {
	for _, action := range []Action{ActionStart, ActionStop} {
		d := CanTransition(nil, PaperStore, action)
		if !d.Allowed {
			t.Errorf("PaperStore %s: allowed = false, want true (reason %q)", action, d.Reason)
		}
	}
}

func TestCanTransition_UnknownStep(t *testing.T) {
	d := CanTransition(states(PaperStore, StatusStop), "Gluing", ActionStart)
	if d.Allowed {
		t.Error("unknown step allowed, want rejected")
	}
}

func TestCanTransition_UnknownAction(t *testing.T) {
	d := CanTransition(states(PaperStore, StatusStop), PrintingDetails, Action("pause"))
	if d.Allowed {
		t.Error("unknown action allowed, want rejected")
	}
}

func TestCanTransition_StartNeedsPredecessorStarted(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{"planned blocks", StatusPlanned, false},
		{"start permits", StatusStart, true},
		{"stop permits", StatusStop, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CanTransition(states(PaperStore, tt.status), PrintingDetails, ActionStart)
			if d.Allowed != tt.want {
				t.Errorf("allowed = %v, want %v (reason %q)", d.Allowed, tt.want, d.Reason)
			}
		})
	}
}

func TestCanTransition_StopNeedsPredecessorStopped(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{"planned blocks", StatusPlanned, false},
		{"start blocks", StatusStart, false},
		{"stop permits", StatusStop, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CanTransition(states(PaperStore, tt.status), Corrugation, ActionStop)
			if d.Allowed != tt.want {
				t.Errorf("allowed = %v, want %v (reason %q)", d.Allowed, tt.want, d.Reason)
			}
		})
	}
}

func TestCanTransition_AndJoin(t *testing.T) {
	// FluteLaminateBoardConversion needs both PrintingDetails and Corrugation.
	steps := states(
		PaperStore, StatusStop,
		PrintingDetails, StatusStart,
		Corrugation, StatusPlanned,
	)
	d := CanTransition(steps, FluteLaminateBoardConversion, ActionStart)
	if d.Allowed {
		t.Fatal("start allowed with Corrugation planned, want blocked")
	}
	if d.BlockingStep != Corrugation {
		t.Errorf("blocking step = %q, want %q", d.BlockingStep, Corrugation)
	}

	steps[2].Status = StatusStart
	d = CanTransition(steps, FluteLaminateBoardConversion, ActionStart)
	if !d.Allowed {
		t.Errorf("start blocked after Corrugation started: %q", d.Reason)
	}
}

func TestCanTransition_AndJoinStopOneSideOnly(t *testing.T) {
	// One predecessor stopped, the other still planned: stop must stay blocked.
	steps := states(PrintingDetails, StatusStop, Corrugation, StatusPlanned)
	d := CanTransition(steps, FluteLaminateBoardConversion, ActionStop)
	if d.Allowed {
		t.Error("stop allowed with Corrugation planned, want blocked")
	}
}

func TestCanTransition_OrJoin(t *testing.T) {
	tests := []struct {
		name     string
		punching Status
		die      Status
		want     bool
	}{
		{"both planned", StatusPlanned, StatusPlanned, false},
		{"punching started", StatusStart, StatusPlanned, true},
		{"die cutting started", StatusPlanned, StatusStart, true},
		{"punching stopped", StatusStop, StatusPlanned, true},
		{"both stopped", StatusStop, StatusStop, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := states(Punching, tt.punching, DieCutting, tt.die)
			d := CanTransition(steps, SideFlapPasting, ActionStart)
			if d.Allowed != tt.want {
				t.Errorf("allowed = %v, want %v (reason %q)", d.Allowed, tt.want, d.Reason)
			}
		})
	}
}

func TestCanTransition_OrJoinSingleMemberPlanning(t *testing.T) {
	// A planning that only carries Punching: its state alone decides.
	d := CanTransition(states(Punching, StatusStart), SideFlapPasting, ActionStart)
	if !d.Allowed {
		t.Errorf("start blocked with only Punching started: %q", d.Reason)
	}
	d = CanTransition(states(Punching, StatusStart), SideFlapPasting, ActionStop)
	if d.Allowed {
		t.Error("stop allowed with Punching only started, want blocked")
	}
}

func TestCanTransition_OrJoinBothMissing(t *testing.T) {
	d := CanTransition(states(PaperStore, StatusStop), SideFlapPasting, ActionStart)
	if d.Allowed {
		t.Error("start allowed with neither OR member present, want blocked")
	}
}

func TestCanTransition_MissingPredecessorBlocks(t *testing.T) {
	// QualityDept requires SideFlapPasting, absent here.
	d := CanTransition(states(PaperStore, StatusStop), QualityDept, ActionStart)
	if d.Allowed {
		t.Fatal("start allowed with missing prerequisite, want blocked")
	}
	if d.BlockingStep != SideFlapPasting {
		t.Errorf("blocking step = %q, want %q", d.BlockingStep, SideFlapPasting)
	}
}

func TestCanTransition_FluteScenario(t *testing.T) {
	steps := states(
		PaperStore, StatusStop,
		PrintingDetails, StatusStart,
		Corrugation, StatusPlanned,
	)
	d := CanTransition(steps, FluteLaminateBoardConversion, ActionStart)
	if d.Allowed {
		t.Fatal("want blocked while Corrugation is planned")
	}
	if d.BlockingStep != Corrugation {
		t.Errorf("blocking step = %q, want Corrugation", d.BlockingStep)
	}
	steps[2].Status = StatusStart
	if d := CanTransition(steps, FluteLaminateBoardConversion, ActionStart); !d.Allowed {
		t.Errorf("want allowed after Corrugation starts, got %q", d.Reason)
	}
}

// Stop-readiness must imply start-readiness for every step and every
// combination of predecessor statuses.
func TestCanTransition_StopImpliesStart(t *testing.T) {
	statuses := []Status{StatusPlanned, StatusStart, StatusStop}
	for _, target := range AllSteps {
		groups, _ := Predecessors(target)
		var preds []StepName
		for _, g := range groups {
			preds = append(preds, g...)
		}
		assignments := enumerate(len(preds), statuses)
		for _, assign := range assignments {
			var steps []StepState
			for i, p := range preds {
				steps = append(steps, StepState{Name: p, Status: assign[i]})
			}
			stop := CanTransition(steps, target, ActionStop)
			start := CanTransition(steps, target, ActionStart)
			if stop.Allowed && !start.Allowed {
				t.Errorf("%s: stop allowed but start blocked for %v", target, steps)
			}
		}
	}
}

// enumerate returns every assignment of values to n slots.
func enumerate(n int, values []Status) [][]Status {
	if n == 0 {
		return [][]Status{nil}
	}
	var out [][]Status
	for _, rest := range enumerate(n-1, values) {
		for _, v := range values {
			row := append(append([]Status{}, rest...), v)
			out = append(out, row)
		}
	}
	return out
}

func TestKnown(t *testing.T) {
	if !Known(DieCutting) {
		t.Error("DieCutting should be known")
	}
	if Known("Slotting") {
		t.Error("Slotting should not be known")
	}
}
