package services

import (
	"context"
	"encoding/base64"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/campusware/campus/modules/importer/domain/entities/importtask"
	"github.com/campusware/campus/modules/importer/domain/messages"
	"github.com/campusware/campus/modules/importer/infrastructure/msgqueue"
	"github.com/campusware/campus/pkg/composables"
	"github.com/campusware/campus/pkg/excel"
	"github.com/campusware/campus/pkg/serrors"
)

// SubmitCommand carries one upload into the pipeline.
type SubmitCommand struct {
	SubmitterID string
	CampusID    string
	FileName    string
	Description string
	Category    string
	File        []byte
}

// ImportService owns the task lifecycle on the submission side: it records
// the task, hands the file to the validator and answers task queries. It
// never waits for validation.
type ImportService struct {
	tasks     importtask.Repository
	publisher msgqueue.Publisher
	exporter  *excel.Exporter
	log       *logrus.Logger
	inTx      func(context.Context, func(context.Context) error) error
}

func NewImportService(tasks importtask.Repository, publisher msgqueue.Publisher, log *logrus.Logger) *ImportService {
	return &ImportService{
		tasks:     tasks,
		publisher: publisher,
		exporter:  excel.NewExporter(),
		log:       log,
		inTx:      composables.InTx,
	}
}

// Submit stores the task and enqueues the validation request in one
// transaction, then immediately returns the queued task. Validation and
// seeding happen later, driven by the result consumer.
func (s *ImportService) Submit(ctx context.Context, cmd *SubmitCommand) (*importtask.ImportTask, error) {
	category, err := messages.ParseCategory(cmd.Category)
	if err != nil {
		return nil, serrors.NewError("IMPORT_BAD_CATEGORY", err.Error())
	}
	if cmd.SubmitterID == "" {
		return nil, serrors.NewError("IMPORT_NO_SUBMITTER", "submitter id is required")
	}
	if len(cmd.File) == 0 {
		return nil, serrors.NewError("IMPORT_EMPTY_FILE", "file is empty")
	}

	task := &importtask.ImportTask{
		ID:          uuid.New(),
		SubmitterID: cmd.SubmitterID,
		CampusID:    cmd.CampusID,
		FileName:    cmd.FileName,
		Description: cmd.Description,
		Status:      importtask.StatusQueued,
	}

	err = s.inTx(ctx, func(txCtx context.Context) error {
		if err := s.tasks.Create(txCtx, task); err != nil {
			return err
		}
		return s.publisher.Enqueue(txCtx, msgqueue.RequestsQueue, &messages.ImportRequest{
			TaskID:      task.ID.String(),
			FileData:    base64.StdEncoding.EncodeToString(cmd.File),
			Category:    string(category),
			SubmitterID: cmd.SubmitterID,
			CampusID:    cmd.CampusID,
		})
	})
	if err != nil {
		return nil, err
	}

	getMetrics().submittedTotal.WithLabelValues(string(category)).Inc()
	s.log.WithFields(logrus.Fields{
		"task":     task.ID,
		"category": category,
	}).Info("import task queued")
	return task, nil
}

func (s *ImportService) GetTask(ctx context.Context, id uuid.UUID) (*importtask.ImportTask, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *ImportService) GetTaskErrors(ctx context.Context, id uuid.UUID) ([]*importtask.TaskError, error) {
	if _, err := s.tasks.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.tasks.ListErrors(ctx, id)
}

func (s *ImportService) ListTasks(ctx context.Context, params *importtask.FindParams) ([]*importtask.ImportTask, int64, error) {
	tasks, err := s.tasks.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.tasks.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return tasks, count, nil
}

func (s *ImportService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return s.inTx(ctx, func(txCtx context.Context) error {
		return s.tasks.Delete(txCtx, id)
	})
}

// BuildErrorReport renders a task's errors as an xlsx workbook for download.
func (s *ImportService) BuildErrorReport(ctx context.Context, id uuid.UUID) ([]byte, error) {
	taskErrors, err := s.GetTaskErrors(ctx, id)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(taskErrors))
	for _, e := range taskErrors {
		column := ""
		if e.Column != nil {
			column = *e.Column
		}
		rows = append(rows, []interface{}{e.Row, column, string(e.Kind), string(e.Severity), e.Message})
	}

	ds := excel.NewSliceDataSource("Errors", []string{"Row", "Column", "Kind", "Severity", "Message"}, rows)
	return s.exporter.Export(ctx, ds)
}
