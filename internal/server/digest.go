package server

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sunpack/boxline/internal/models"
	"github.com/sunpack/boxline/internal/notify"
	"github.com/sunpack/boxline/internal/pipeline"
	"gorm.io/gorm"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// nextCronDuration parses a 5-field cron expression and returns the duration
// until the next fire time. Returns 0 on parse error.
func nextCronDuration(expr string) time.Duration {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return 0
	}
	next := sched.Next(time.Now())
	d := time.Until(next)
	if d < 0 {
		return 0
	}
	return d
}

// runDigest posts a shift digest on the configured cron schedule until the
// context is cancelled. An unparseable expression disables the digest.
func runDigest(ctx context.Context, expr string, db *gorm.DB, notifier notify.Notifier) {
	for {
		d := nextCronDuration(expr)
		if d == 0 {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(d):
		}

		text, err := BuildDigest(db)
		if err != nil {
			continue
		}
		notifier.Send(ctx, notify.Event{Kind: notify.KindDigest, Text: text})
	}
}

// BuildDigest summarizes the shop floor: jobs in flight, steps running,
// steps on hold, jobs dispatched.
func BuildDigest(db *gorm.DB) (string, error) {
	var running, onHold, dispatched int64

	if err := db.Model(&models.JobStep{}).
		Where("status = ?", string(pipeline.StatusStart)).
		Count(&running).Error; err != nil {
		return "", fmt.Errorf("server: digest running count: %w", err)
	}
	if err := db.Model(&models.JobStep{}).
		Where("status = ? AND detail_status = ?", string(pipeline.StatusStart), string(pipeline.DetailHold)).
		Count(&onHold).Error; err != nil {
		return "", fmt.Errorf("server: digest hold count: %w", err)
	}
	if err := db.Model(&models.JobStep{}).
		Where("step_name = ? AND status = ?", string(pipeline.DispatchProcess), string(pipeline.StatusStop)).
		Count(&dispatched).Error; err != nil {
		return "", fmt.Errorf("server: digest dispatch count: %w", err)
	}

	return fmt.Sprintf("Shift digest: %d steps running, %d on hold, %d jobs dispatched", running, onHold, dispatched), nil
}
