package models

import "time"

// ActionLog records who transitioned which step of which job and when.
type ActionLog struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	UserID    string `gorm:"size:64;not null;index"`
	JobNo     string `gorm:"size:64;not null;index"`
	StepName  string `gorm:"size:32;not null"`
	Action    string `gorm:"size:16;not null"`
	Detail    string `gorm:"type:text"`
	CreatedAt time.Time
}
