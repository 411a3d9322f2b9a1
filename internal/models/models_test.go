package models

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

// gormTag extracts the gorm tag from a struct field.
func gormTag(t *testing.T, typ reflect.Type, fieldName string) string {
	t.Helper()
	f, ok := typ.FieldByName(fieldName)
	if !ok {
		t.Fatalf("%s.%s: field not found", typ.Name(), fieldName)
	}
	return f.Tag.Get("gorm")
}

// assertGormTag checks that a struct field's gorm tag contains the expected value.
func assertGormTag(t *testing.T, typ reflect.Type, fieldName, expected string) {
	t.Helper()
	tag := gormTag(t, typ, fieldName)
	if !strings.Contains(tag, expected) {
		t.Errorf("%s.%s gorm tag = %q, want to contain %q", typ.Name(), fieldName, tag, expected)
	}
}

func TestJob_Fields(t *testing.T) {
	typ := reflect.TypeOf(Job{})

	assertGormTag(t, typ, "JobNo", "primaryKey")
	assertGormTag(t, typ, "JobNo", "size:64")
	assertGormTag(t, typ, "DemandTier", "default:normal")
	assertGormTag(t, typ, "DemandTier", "index")
	assertGormTag(t, typ, "MachineID", "size:64")
	assertGormTag(t, typ, "Plannings", "foreignKey:JobNo")
}

func TestJobPlanning_Fields(t *testing.T) {
	typ := reflect.TypeOf(JobPlanning{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "JobNo", "idx_job_revision")
	assertGormTag(t, typ, "Revision", "idx_job_revision")
	assertGormTag(t, typ, "DemandTier", "default:normal")
	assertGormTag(t, typ, "Steps", "foreignKey:PlanningID")
}

func TestJobStep_Fields(t *testing.T) {
	typ := reflect.TypeOf(JobStep{})

	assertGormTag(t, typ, "PlanningID", "not null")
	assertGormTag(t, typ, "PlanningID", "index")
	assertGormTag(t, typ, "StepName", "size:32")
	assertGormTag(t, typ, "Status", "default:planned")
	assertGormTag(t, typ, "Machines", "foreignKey:StepID")

	f, _ := typ.FieldByName("StartedAt")
	if f.Type.String() != "*time.Time" {
		t.Errorf("StartedAt type = %q, want *time.Time", f.Type.String())
	}
}

func TestStepMachine_Fields(t *testing.T) {
	typ := reflect.TypeOf(StepMachine{})

	assertGormTag(t, typ, "StepID", "not null")
	assertGormTag(t, typ, "MachineID", "not null")
	assertGormTag(t, typ, "MachineID", "index")
}

func TestUserMachine_Fields(t *testing.T) {
	typ := reflect.TypeOf(UserMachine{})

	assertGormTag(t, typ, "UserID", "idx_user_machine")
	assertGormTag(t, typ, "MachineID", "idx_user_machine")
	if tag := gormTag(t, typ, "Active"); strings.Contains(tag, "default") {
		t.Errorf("Active gorm tag = %q, a column default would swallow deactivations", tag)
	}
}

func TestActionLog_Fields(t *testing.T) {
	typ := reflect.TypeOf(ActionLog{})

	assertGormTag(t, typ, "UserID", "not null")
	assertGormTag(t, typ, "JobNo", "index")
	assertGormTag(t, typ, "Detail", "type:text")
}

func TestJobStep_Instantiation(t *testing.T) {
	now := time.Now()
	s := JobStep{
		PlanningID:   1,
		StepNo:       2,
		StepName:     "Corrugation",
		Status:       "start",
		DetailStatus: "in_progress",
		StartedBy:    "user-7",
		StartedAt:    &now,
	}
	if s.StepName != "Corrugation" {
		t.Errorf("StepName = %q, want Corrugation", s.StepName)
	}
	if s.StoppedAt != nil {
		t.Error("StoppedAt should be nil before completion")
	}
}
