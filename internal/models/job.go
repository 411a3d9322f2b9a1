package models

import "time"

// Job is a production order. JobNo is the human-readable identifier used
// everywhere; some legacy orders carry a direct machine assignment that
// predates step-level assignment.
type Job struct {
	JobNo      string `gorm:"primaryKey;size:64"`
	Customer   string `gorm:"size:128"`
	DemandTier string `gorm:"size:8;default:normal;index"`
	MachineID  string `gorm:"size:64"`
	BoardSize  string `gorm:"size:64"`
	Quantity   int
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Plannings []JobPlanning `gorm:"foreignKey:JobNo;references:JobNo"`
}
