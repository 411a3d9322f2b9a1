package jobs

import (
	"fmt"
	"time"

	"github.com/sunpack/boxline/internal/models"
	"github.com/sunpack/boxline/internal/pipeline"
	"gorm.io/gorm"
)

// StartStep transitions a step of a job's latest planning to start, gated
// by the dependency engine's start threshold. The whole check-and-update
// runs in one transaction so two racing operators cannot both win.
func StartStep(db *gorm.DB, jobNo string, stepName pipeline.StepName, userID string) error {
	return transition(db, jobNo, stepName, userID, pipeline.ActionStart)
}

// StopStep transitions a step to stop, gated by the stricter completion
// threshold: prerequisites must be fully stopped, not merely started.
func StopStep(db *gorm.DB, jobNo string, stepName pipeline.StepName, userID string) error {
	return transition(db, jobNo, stepName, userID, pipeline.ActionStop)
}

func transition(db *gorm.DB, jobNo string, stepName pipeline.StepName, userID string, action pipeline.Action) error {
	return db.Transaction(func(tx *gorm.DB) error {
		planning, err := latestPlanning(tx, jobNo)
		if err != nil {
			return err
		}

		target, err := findStep(planning, stepName)
		if err != nil {
			return err
		}

		switch action {
		case pipeline.ActionStart:
			if target.Status != string(pipeline.StatusPlanned) {
				return fmt.Errorf("jobs: step %s/%s already %s", jobNo, stepName, target.Status)
			}
		case pipeline.ActionStop:
			if target.Status != string(pipeline.StatusStart) {
				return fmt.Errorf("jobs: step %s/%s is %s, cannot stop", jobNo, stepName, target.Status)
			}
		}

		states := make([]pipeline.StepState, len(planning.Steps))
		for i, s := range planning.Steps {
			states[i] = pipeline.StepState{
				Name:   pipeline.StepName(s.StepName),
				Status: pipeline.Status(s.Status),
			}
		}
		if d := pipeline.CanTransition(states, stepName, action); !d.Allowed {
			return fmt.Errorf("jobs: %s %s/%s: %s: %w", action, jobNo, stepName, d.Reason, ErrBlocked)
		}

		now := time.Now()
		updates := map[string]interface{}{}
		logAction := string(action)
		switch action {
		case pipeline.ActionStart:
			updates["status"] = string(pipeline.StatusStart)
			updates["detail_status"] = string(pipeline.DetailInProgress)
			updates["started_by"] = userID
			updates["started_at"] = now
		case pipeline.ActionStop:
			updates["status"] = string(pipeline.StatusStop)
			updates["stopped_by"] = userID
			updates["stopped_at"] = now
		}
		if err := tx.Model(&models.JobStep{}).Where("id = ?", target.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("jobs: %s step %s/%s: %w", action, jobNo, stepName, err)
		}

		return logStep(tx, userID, jobNo, stepName, logAction, "")
	})
}

// HoldStep pauses work at the per-discipline level. The step's coarse
// status stays start; only the detail status changes.
func HoldStep(db *gorm.DB, jobNo string, stepName pipeline.StepName, userID, reason string) error {
	return detailTransition(db, jobNo, stepName, userID, pipeline.DetailHold, "hold", reason)
}

// ResumeStep clears a hold, returning the detail status to in_progress.
func ResumeStep(db *gorm.DB, jobNo string, stepName pipeline.StepName, userID string) error {
	return detailTransition(db, jobNo, stepName, userID, pipeline.DetailInProgress, "resume", "")
}

func detailTransition(db *gorm.DB, jobNo string, stepName pipeline.StepName, userID string, detail pipeline.DetailStatus, action, reason string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		planning, err := latestPlanning(tx, jobNo)
		if err != nil {
			return err
		}
		target, err := findStep(planning, stepName)
		if err != nil {
			return err
		}
		if target.Status != string(pipeline.StatusStart) {
			return fmt.Errorf("jobs: step %s/%s is %s, cannot %s", jobNo, stepName, target.Status, action)
		}
		if action == "hold" && target.DetailStatus == string(pipeline.DetailHold) {
			return fmt.Errorf("jobs: step %s/%s already on hold", jobNo, stepName)
		}

		updates := map[string]interface{}{"detail_status": string(detail)}
		if action == "hold" {
			updates["hold_count"] = gorm.Expr("hold_count + 1")
		}
		if err := tx.Model(&models.JobStep{}).Where("id = ?", target.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("jobs: %s step %s/%s: %w", action, jobNo, stepName, err)
		}
		return logStep(tx, userID, jobNo, stepName, action, reason)
	})
}

// findStep locates the named step within one planning revision.
func findStep(planning *models.JobPlanning, stepName pipeline.StepName) (*models.JobStep, error) {
	for i := range planning.Steps {
		if planning.Steps[i].StepName == string(stepName) {
			return &planning.Steps[i], nil
		}
	}
	return nil, fmt.Errorf("jobs: step %s not in planning %s rev %d: %w",
		stepName, planning.JobNo, planning.Revision, gorm.ErrRecordNotFound)
}

func logStep(tx *gorm.DB, userID, jobNo string, stepName pipeline.StepName, action, detail string) error {
	entry := models.ActionLog{
		UserID:   userID,
		JobNo:    jobNo,
		StepName: string(stepName),
		Action:   action,
		Detail:   detail,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("jobs: log %s %s/%s: %w", action, jobNo, stepName, err)
	}
	return nil
}
