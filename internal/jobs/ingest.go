package jobs

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sunpack/boxline/internal/access"
	"github.com/sunpack/boxline/internal/models"
	"github.com/sunpack/boxline/internal/pipeline"
	"gorm.io/gorm"
)

// PlanningPayload is the inbound shape of a planning revision. Machine
// records arrive duck-typed from legacy clients (differently spelled
// identifier keys) and are normalized once here, at the boundary.
type PlanningPayload struct {
	JobNo      string        `json:"jobNo"`
	DemandTier string        `json:"demandTier"`
	Steps      []StepPayload `json:"steps"`
}

// StepPayload is one step in an inbound planning.
type StepPayload struct {
	StepNo   int                      `json:"stepNo"`
	StepName string                   `json:"stepName"`
	Machines []map[string]interface{} `json:"machines"`
}

// refs returns the step's machine assignments in normalized form.
func (sp StepPayload) refs() []access.MachineRef {
	var refs []access.MachineRef
	for _, raw := range sp.Machines {
		if ref, ok := access.NormalizeMachineRef(raw); ok {
			refs = append(refs, ref)
		}
	}
	return refs
}

// ParsePlanningPayload decodes and validates an inbound planning revision:
// known step names only, strictly increasing step numbers, a valid tier.
func ParsePlanningPayload(data []byte) (*PlanningPayload, error) {
	var p PlanningPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("jobs: parse planning: %w", err)
	}

	var errs []string
	if strings.TrimSpace(p.JobNo) == "" {
		errs = append(errs, "jobNo is required")
	}
	if p.DemandTier == "" {
		p.DemandTier = string(access.TierNormal)
	}
	if p.DemandTier != string(access.TierNormal) && p.DemandTier != string(access.TierHigh) {
		errs = append(errs, fmt.Sprintf("invalid demandTier %q", p.DemandTier))
	}
	if len(p.Steps) == 0 {
		errs = append(errs, "at least one step is required")
	}
	lastNo := 0
	for i, s := range p.Steps {
		if !pipeline.Known(pipeline.StepName(s.StepName)) {
			errs = append(errs, fmt.Sprintf("steps[%d]: unknown step name %q", i, s.StepName))
		}
		if s.StepNo <= lastNo {
			errs = append(errs, fmt.Sprintf("steps[%d]: stepNo %d not increasing", i, s.StepNo))
		}
		lastNo = s.StepNo
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("jobs: invalid planning: %s", strings.Join(errs, "; "))
	}
	return &p, nil
}

// ImportPlanning persists a parsed planning as the next revision for its
// job number. Steps are created in planned state with their normalized
// machine assignments.
func ImportPlanning(db *gorm.DB, p *PlanningPayload) (*models.JobPlanning, error) {
	if p == nil {
		return nil, fmt.Errorf("jobs: nil planning payload")
	}
	if p.DemandTier == "" {
		p.DemandTier = string(access.TierNormal)
	}

	var planning models.JobPlanning
	err := db.Transaction(func(tx *gorm.DB) error {
		var maxRev int
		if err := tx.Model(&models.JobPlanning{}).
			Where("job_no = ?", p.JobNo).
			Select("COALESCE(MAX(revision), 0)").
			Scan(&maxRev).Error; err != nil {
			return fmt.Errorf("jobs: max revision for %s: %w", p.JobNo, err)
		}

		planning = models.JobPlanning{
			JobNo:      p.JobNo,
			Revision:   maxRev + 1,
			DemandTier: p.DemandTier,
		}
		if err := tx.Create(&planning).Error; err != nil {
			return fmt.Errorf("jobs: create planning %s rev %d: %w", p.JobNo, planning.Revision, err)
		}

		for _, sp := range p.Steps {
			step := models.JobStep{
				PlanningID: planning.ID,
				StepNo:     sp.StepNo,
				StepName:   sp.StepName,
				Status:     string(pipeline.StatusPlanned),
			}
			if err := tx.Create(&step).Error; err != nil {
				return fmt.Errorf("jobs: create step %s/%s: %w", p.JobNo, sp.StepName, err)
			}
			for _, ref := range sp.refs() {
				sm := models.StepMachine{
					StepID:    step.ID,
					MachineID: ref.ID,
					Code:      ref.Code,
					Type:      ref.Type,
				}
				if err := tx.Create(&sm).Error; err != nil {
					return fmt.Errorf("jobs: assign machine %s to %s/%s: %w", ref.ID, p.JobNo, sp.StepName, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &planning, nil
}
