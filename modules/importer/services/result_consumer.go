package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/campusware/campus/modules/importer/domain/entities/importtask"
	"github.com/campusware/campus/modules/importer/domain/events"
	"github.com/campusware/campus/modules/importer/domain/messages"
	"github.com/campusware/campus/modules/importer/services/seeding"
	"github.com/campusware/campus/pkg/composables"
	"github.com/campusware/campus/pkg/eventbus"
)

// Seeder applies one validated batch of rows.
type Seeder interface {
	Seed(ctx context.Context, category messages.Category, rows []json.RawMessage, campusID string) (*seeding.Result, error)
}

// ResultConsumer turns validation results into terminal task states. It runs
// behind the single-claim queue consumer, so results are processed one at a
// time and seeding never interleaves.
type ResultConsumer struct {
	tasks  importtask.Repository
	engine Seeder
	bus    eventbus.EventBus
	log    *logrus.Logger
	inTx   func(context.Context, func(context.Context) error) error
}

func NewResultConsumer(tasks importtask.Repository, engine Seeder, bus eventbus.EventBus, log *logrus.Logger) *ResultConsumer {
	return &ResultConsumer{tasks: tasks, engine: engine, bus: bus, log: log, inTx: composables.InTx}
}

// Handle processes one result message. Returning nil acknowledges the
// message; redelivered results for already finished tasks acknowledge as
// no-ops so the terminal state never regresses.
func (c *ResultConsumer) Handle(ctx context.Context, payload json.RawMessage) error {
	var envelope messages.ResultEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return fmt.Errorf("malformed result payload: %w", err)
	}
	taskID, err := uuid.Parse(envelope.TaskID)
	if err != nil {
		return fmt.Errorf("malformed task id %q: %w", envelope.TaskID, err)
	}

	task, err := c.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, importtask.ErrTaskNotFound) {
			c.log.WithField("task", taskID).Warn("result for unknown task dropped")
			return nil
		}
		return err
	}
	if task.Status != importtask.StatusQueued {
		c.log.WithFields(logrus.Fields{
			"task":   taskID,
			"status": task.Status,
		}).Info("result for finished task dropped")
		return nil
	}
	if envelope.AdminID != "" && envelope.AdminID != task.SubmitterID {
		c.log.WithFields(logrus.Fields{
			"task":      taskID,
			"submitter": task.SubmitterID,
			"admin":     envelope.AdminID,
		}).Warn("result admin does not match task submitter")
	}

	status, taskErrors, err := c.resolve(ctx, task, &envelope.Result)
	if err != nil {
		return err
	}

	err = c.inTx(ctx, func(txCtx context.Context) error {
		return c.tasks.Complete(txCtx, taskID, status, taskErrors)
	})
	if err != nil {
		if errors.Is(err, importtask.ErrTaskNotQueued) {
			c.log.WithField("task", taskID).Info("task finished concurrently, result dropped")
			return nil
		}
		return err
	}

	getMetrics().finishedTotal.WithLabelValues(string(status)).Inc()
	c.bus.Publish(&events.TaskFinished{
		TaskID:     taskID,
		Status:     status,
		ErrorCount: len(taskErrors),
	})
	c.log.WithFields(logrus.Fields{
		"task":   taskID,
		"status": status,
		"errors": len(taskErrors),
	}).Info("import task finished")
	return nil
}

// resolve computes the terminal state. A failed validation maps the worker's
// errors verbatim; a successful one seeds the rows and keeps COMPLETED even
// when individual rows fail, matching the partial-import contract.
func (c *ResultConsumer) resolve(ctx context.Context, task *importtask.ImportTask, result *messages.ValidationResult) (importtask.Status, []*importtask.TaskError, error) {
	if !result.Success {
		return importtask.StatusFailed, workerTaskErrors(task.ID, result.Errors), nil
	}

	seeded, err := c.engine.Seed(ctx, result.Type, result.Data, task.CampusID)
	if err != nil {
		// An undispatchable batch fails the whole task rather than retrying
		// forever.
		c.log.WithError(err).WithField("task", task.ID).Error("batch rejected")
		return importtask.StatusFailed, []*importtask.TaskError{{
			TaskID:   task.ID,
			Kind:     importtask.KindUnknown,
			Message:  err.Error(),
			Severity: importtask.SeverityError,
		}}, nil
	}
	return importtask.StatusCompleted, seeded.Errors, nil
}

func workerTaskErrors(taskID uuid.UUID, workerErrors []messages.WorkerError) []*importtask.TaskError {
	out := make([]*importtask.TaskError, 0, len(workerErrors))
	for i, we := range workerErrors {
		row := i + 1
		if we.Row != nil {
			row = *we.Row
		}
		message := "validation failed"
		if we.Message != nil {
			message = *we.Message
		}
		severity := importtask.SeverityError
		if we.Severity != nil && importtask.Severity(*we.Severity) == importtask.SeverityWarning {
			severity = importtask.SeverityWarning
		}
		out = append(out, &importtask.TaskError{
			TaskID:   taskID,
			Row:      row,
			Column:   we.Column,
			Kind:     importtask.KindValidation,
			Message:  message,
			Severity: severity,
		})
	}
	return out
}
