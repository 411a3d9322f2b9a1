// Package jobs is the persistence-facing service around the decision
// engines: job and planning CRUD, snapshot assembly for the access engine,
// and the transactional step transitions gated by the pipeline engine.
package jobs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sunpack/boxline/internal/access"
	"github.com/sunpack/boxline/internal/models"
	"gorm.io/gorm"
)

// ErrBlocked marks a transition refused by the dependency engine. The
// wrapped message carries the blocking step and reason.
var ErrBlocked = errors.New("transition blocked")

// CreateJobOpts holds the fields for a new job.
type CreateJobOpts struct {
	JobNo      string
	Customer   string
	DemandTier string
	MachineID  string
	BoardSize  string
	Quantity   int
}

// CreateJob inserts a new job row. The job number must be unique.
func CreateJob(db *gorm.DB, opts CreateJobOpts) (*models.Job, error) {
	if strings.TrimSpace(opts.JobNo) == "" {
		return nil, fmt.Errorf("jobs: job number is required")
	}
	tier := opts.DemandTier
	if tier == "" {
		tier = string(access.TierNormal)
	}
	if tier != string(access.TierNormal) && tier != string(access.TierHigh) {
		return nil, fmt.Errorf("jobs: invalid demand tier %q", tier)
	}

	job := models.Job{
		JobNo:      opts.JobNo,
		Customer:   opts.Customer,
		DemandTier: tier,
		MachineID:  opts.MachineID,
		BoardSize:  opts.BoardSize,
		Quantity:   opts.Quantity,
	}
	if err := db.Create(&job).Error; err != nil {
		return nil, fmt.Errorf("jobs: create %s: %w", opts.JobNo, err)
	}
	return &job, nil
}

// GetJob fetches a job row by number.
func GetJob(db *gorm.DB, jobNo string) (*models.Job, error) {
	var job models.Job
	if err := db.First(&job, "job_no = ?", jobNo).Error; err != nil {
		return nil, fmt.Errorf("jobs: get %s: %w", jobNo, err)
	}
	return &job, nil
}

// ListVisible returns the snapshot rows the user is allowed to see,
// filtered through the access engine.
func ListVisible(db *gorm.DB, eng *access.Engine, roles access.RoleSet, machines access.MachineSet) ([]access.JobInfo, error) {
	snapshot, err := Snapshot(db)
	if err != nil {
		return nil, err
	}
	allowed := eng.FilteredJobNumbers(snapshot, roles, machines)

	visible := make([]access.JobInfo, 0, len(allowed))
	for _, info := range snapshot {
		if allowed[info.JobNo] {
			visible = append(visible, info)
		}
	}
	return visible, nil
}
