package models

import "time"

// JobPlanning is one revision of a job's step pipeline. A job may gain new
// revisions over time; prerequisites are only ever resolved within a single
// revision. Planning rows can exist before their Job row does, so the
// planning carries its own demand tier as a fallback.
type JobPlanning struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	JobNo      string `gorm:"size:64;uniqueIndex:idx_job_revision"`
	Revision   int    `gorm:"default:1;uniqueIndex:idx_job_revision"`
	DemandTier string `gorm:"size:8;default:normal"`
	CreatedAt  time.Time

	Steps []JobStep `gorm:"foreignKey:PlanningID"`
}

// JobStep is one station's record within a planning revision. Status is the
// coarse lifecycle (planned/start/stop); DetailStatus is the per-discipline
// state (in_progress/hold/accept/reject) used for shop-floor bookkeeping.
type JobStep struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	PlanningID   uint   `gorm:"not null;index"`
	StepNo       int    `gorm:"not null"`
	StepName     string `gorm:"size:32;not null;index"`
	Status       string `gorm:"size:8;default:planned;index"`
	DetailStatus string `gorm:"size:16"`
	HoldCount    int    `gorm:"default:0"`
	StartedBy    string `gorm:"size:64"`
	StoppedBy    string `gorm:"size:64"`
	StartedAt    *time.Time
	StoppedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Machines []StepMachine `gorm:"foreignKey:StepID"`
}

// StepMachine assigns a machine to a step. Code and Type are descriptive
// only; authorization compares MachineID and nothing else.
type StepMachine struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	StepID    uint   `gorm:"not null;index"`
	MachineID string `gorm:"size:64;not null;index"`
	Code      string `gorm:"size:32"`
	Type      string `gorm:"size:32"`
}
