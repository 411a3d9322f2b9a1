package jobs

import (
	"fmt"

	"github.com/sunpack/boxline/internal/access"
	"github.com/sunpack/boxline/internal/models"
	"github.com/sunpack/boxline/internal/pipeline"
	"gorm.io/gorm"
)

// Snapshot materializes the access engine's view of every job: the latest
// planning revision's steps with their machine assignments, and the
// resolved demand tier. A Job row's tier always wins; the planning tier is
// consulted only for planning-only records. Jobs without any planning and
// plannings without any Job row both appear.
func Snapshot(db *gorm.DB) ([]access.JobInfo, error) {
	var jobRows []models.Job
	if err := db.Find(&jobRows).Error; err != nil {
		return nil, fmt.Errorf("jobs: snapshot jobs: %w", err)
	}
	jobByNo := make(map[string]models.Job, len(jobRows))
	for _, j := range jobRows {
		jobByNo[j.JobNo] = j
	}

	var plannings []models.JobPlanning
	if err := db.Preload("Steps.Machines").Order("job_no, revision").Find(&plannings).Error; err != nil {
		return nil, fmt.Errorf("jobs: snapshot plannings: %w", err)
	}

	// Ordered by revision, so the last planning per job wins.
	latest := make(map[string]models.JobPlanning)
	for _, p := range plannings {
		latest[p.JobNo] = p
	}

	var infos []access.JobInfo
	seen := make(map[string]bool)
	for jobNo, planning := range latest {
		info := access.JobInfo{
			JobNo:      jobNo,
			DemandTier: access.Tier(planning.DemandTier),
			Steps:      stepInfos(planning.Steps),
		}
		if job, ok := jobByNo[jobNo]; ok {
			info.HasJobRow = true
			info.DemandTier = access.Tier(job.DemandTier)
			info.MachineID = job.MachineID
		}
		infos = append(infos, info)
		seen[jobNo] = true
	}
	for _, job := range jobRows {
		if seen[job.JobNo] {
			continue
		}
		infos = append(infos, access.JobInfo{
			JobNo:      job.JobNo,
			HasJobRow:  true,
			DemandTier: access.Tier(job.DemandTier),
			MachineID:  job.MachineID,
		})
	}
	return infos, nil
}

// stepInfos converts persisted steps to the engine's snapshot shape.
func stepInfos(steps []models.JobStep) []access.StepInfo {
	out := make([]access.StepInfo, len(steps))
	for i, s := range steps {
		refs := make([]access.MachineRef, len(s.Machines))
		for j, m := range s.Machines {
			refs[j] = access.MachineRef{ID: m.MachineID, Code: m.Code, Type: m.Type}
		}
		out[i] = access.StepInfo{
			Name:     pipeline.StepName(s.StepName),
			Status:   pipeline.Status(s.Status),
			Machines: refs,
		}
	}
	return out
}

// latestPlanning loads the newest planning revision for a job with its
// steps, ordered by step number.
func latestPlanning(tx *gorm.DB, jobNo string) (*models.JobPlanning, error) {
	var planning models.JobPlanning
	err := tx.Preload("Steps", func(db *gorm.DB) *gorm.DB {
		return db.Order("step_no ASC")
	}).Where("job_no = ?", jobNo).
		Order("revision DESC").
		First(&planning).Error
	if err != nil {
		return nil, fmt.Errorf("jobs: planning for %s: %w", jobNo, err)
	}
	return &planning, nil
}
