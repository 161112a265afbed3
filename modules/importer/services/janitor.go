package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/campusware/campus/modules/importer/domain/entities/importtask"
	"github.com/campusware/campus/pkg/composables"
)

const staleTaskMessage = "no validation result arrived before the retention window expired"

// TaskJanitor fails tasks stuck in QUEUED past the retention window. A lost
// worker or a dropped result message otherwise leaves tasks queued forever.
type TaskJanitor struct {
	tasks     importtask.Repository
	interval  time.Duration
	retention time.Duration
	log       *logrus.Logger
}

func NewTaskJanitor(tasks importtask.Repository, interval, retention time.Duration, log *logrus.Logger) *TaskJanitor {
	return &TaskJanitor{tasks: tasks, interval: interval, retention: retention, log: log}
}

func (j *TaskJanitor) Name() string {
	return "import-task-janitor"
}

func (j *TaskJanitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n, err := j.Sweep(ctx); err != nil {
				j.log.WithError(err).Error("stale task sweep failed")
			} else if n > 0 {
				j.log.WithField("count", n).Warn("stale import tasks failed")
			}
		}
	}
}

// Sweep fails every QUEUED task older than the retention window and reports
// how many it touched.
func (j *TaskJanitor) Sweep(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-j.retention)
	return composables.InTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return j.tasks.FailStale(txCtx, cutoff, staleTaskMessage)
	})
}
