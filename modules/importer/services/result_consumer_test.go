package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/campusware/campus/modules/importer/domain/entities/importtask"
	"github.com/campusware/campus/modules/importer/domain/events"
	"github.com/campusware/campus/modules/importer/domain/messages"
	"github.com/campusware/campus/modules/importer/services/seeding"
	"github.com/campusware/campus/pkg/eventbus"
)

type fakeTaskRepo struct {
	importtask.Repository
	tasks     map[uuid.UUID]*importtask.ImportTask
	completed []completion
}

type completion struct {
	taskID uuid.UUID
	status importtask.Status
	errors []*importtask.TaskError
}

func newFakeTaskRepo(tasks ...*importtask.ImportTask) *fakeTaskRepo {
	byID := make(map[uuid.UUID]*importtask.ImportTask, len(tasks))
	for _, task := range tasks {
		byID[task.ID] = task
	}
	return &fakeTaskRepo{tasks: byID}
}

func (f *fakeTaskRepo) GetByID(_ context.Context, id uuid.UUID) (*importtask.ImportTask, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, importtask.ErrTaskNotFound
	}
	return task, nil
}

func (f *fakeTaskRepo) Complete(_ context.Context, taskID uuid.UUID, status importtask.Status, taskErrors []*importtask.TaskError) error {
	task, ok := f.tasks[taskID]
	if !ok {
		return importtask.ErrTaskNotFound
	}
	if task.Status != importtask.StatusQueued {
		return importtask.ErrTaskNotQueued
	}
	task.Status = status
	task.ErrorCount = len(taskErrors)
	f.completed = append(f.completed, completion{taskID, status, taskErrors})
	return nil
}

type fakeSeeder struct {
	result   *seeding.Result
	err      error
	category messages.Category
	rows     []json.RawMessage
	campus   string
}

func (f *fakeSeeder) Seed(_ context.Context, category messages.Category, rows []json.RawMessage, campusID string) (*seeding.Result, error) {
	f.category = category
	f.rows = rows
	f.campus = campusID
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func newConsumer(repo *fakeTaskRepo, seeder Seeder, bus eventbus.EventBus) *ResultConsumer {
	c := NewResultConsumer(repo, seeder, bus, quietLogger())
	c.inTx = func(ctx context.Context, fn func(context.Context) error) error {
		return fn(ctx)
	}
	return c
}

func queuedTask() *importtask.ImportTask {
	return &importtask.ImportTask{
		ID:          uuid.New(),
		SubmitterID: "admin-1",
		CampusID:    "north",
		FileName:    "teachers.xlsx",
		Status:      importtask.StatusQueued,
		CreatedAt:   time.Now(),
	}
}

func envelopePayload(t *testing.T, envelope *messages.ResultEnvelope) json.RawMessage {
	t.Helper()
	payload, err := json.Marshal(envelope)
	require.NoError(t, err)
	return payload
}

func TestResultConsumerSeedsSuccessfulResult(t *testing.T) {
	task := queuedTask()
	repo := newFakeTaskRepo(task)
	seeder := &fakeSeeder{result: &seeding.Result{Seeded: 2}}
	bus := eventbus.NewEventPublisher(quietLogger())

	var finished []*events.TaskFinished
	bus.Subscribe(func(e *events.TaskFinished) {
		finished = append(finished, e)
	})

	consumer := newConsumer(repo, seeder, bus)
	rows := []json.RawMessage{json.RawMessage(`{"code":"T-1"}`), json.RawMessage(`{"code":"T-2"}`)}
	payload := envelopePayload(t, &messages.ResultEnvelope{
		TaskID:  task.ID.String(),
		AdminID: "admin-1",
		Result: messages.ValidationResult{
			Success: true,
			Type:    messages.CategoryTeacher,
			Data:    rows,
		},
	})

	require.NoError(t, consumer.Handle(context.Background(), payload))

	require.Equal(t, messages.CategoryTeacher, seeder.category)
	require.Equal(t, "north", seeder.campus)
	require.Len(t, seeder.rows, 2)

	require.Len(t, repo.completed, 1)
	require.Equal(t, importtask.StatusCompleted, repo.completed[0].status)
	require.Empty(t, repo.completed[0].errors)

	require.Len(t, finished, 1)
	require.Equal(t, task.ID, finished[0].TaskID)
	require.Equal(t, importtask.StatusCompleted, finished[0].Status)
}

func TestResultConsumerCompletesDespiteRowErrors(t *testing.T) {
	task := queuedTask()
	repo := newFakeTaskRepo(task)
	column := "email"
	seeder := &fakeSeeder{result: &seeding.Result{
		Seeded: 1,
		Errors: []*importtask.TaskError{{
			Row:      2,
			Column:   &column,
			Kind:     importtask.KindDuplicateKey,
			Message:  "duplicate key value violates unique constraint",
			Severity: importtask.SeverityError,
		}},
	}}

	consumer := newConsumer(repo, seeder, eventbus.NewEventPublisher(quietLogger()))
	payload := envelopePayload(t, &messages.ResultEnvelope{
		TaskID: task.ID.String(),
		Result: messages.ValidationResult{Success: true, Type: messages.CategoryTeacher},
	})

	require.NoError(t, consumer.Handle(context.Background(), payload))

	require.Equal(t, importtask.StatusCompleted, task.Status)
	require.Equal(t, 1, task.ErrorCount)
}

func TestResultConsumerFailsTaskOnValidationFailure(t *testing.T) {
	task := queuedTask()
	repo := newFakeTaskRepo(task)
	consumer := newConsumer(repo, &fakeSeeder{}, eventbus.NewEventPublisher(quietLogger()))

	row := 4
	message := "missing column name"
	payload := envelopePayload(t, &messages.ResultEnvelope{
		TaskID: task.ID.String(),
		Result: messages.ValidationResult{
			Success: false,
			Errors: []messages.WorkerError{
				{Row: &row, Message: &message},
				{},
			},
		},
	})

	require.NoError(t, consumer.Handle(context.Background(), payload))

	require.Equal(t, importtask.StatusFailed, task.Status)
	require.Len(t, repo.completed, 1)

	taskErrors := repo.completed[0].errors
	require.Len(t, taskErrors, 2)
	require.Equal(t, 4, taskErrors[0].Row)
	require.Equal(t, message, taskErrors[0].Message)
	require.Equal(t, importtask.KindValidation, taskErrors[0].Kind)
	// The second worker error carries no fields; defaults apply.
	require.Equal(t, 2, taskErrors[1].Row)
	require.Equal(t, importtask.SeverityError, taskErrors[1].Severity)
}

func TestResultConsumerDropsUnknownTask(t *testing.T) {
	repo := newFakeTaskRepo()
	consumer := newConsumer(repo, &fakeSeeder{}, eventbus.NewEventPublisher(quietLogger()))

	payload := envelopePayload(t, &messages.ResultEnvelope{
		TaskID: uuid.New().String(),
		Result: messages.ValidationResult{Success: true, Type: messages.CategoryCourse},
	})

	require.NoError(t, consumer.Handle(context.Background(), payload))
	require.Empty(t, repo.completed)
}

func TestResultConsumerDropsFinishedTask(t *testing.T) {
	task := queuedTask()
	task.Status = importtask.StatusCompleted
	repo := newFakeTaskRepo(task)
	consumer := newConsumer(repo, &fakeSeeder{}, eventbus.NewEventPublisher(quietLogger()))

	payload := envelopePayload(t, &messages.ResultEnvelope{
		TaskID: task.ID.String(),
		Result: messages.ValidationResult{Success: true, Type: messages.CategoryCourse},
	})

	require.NoError(t, consumer.Handle(context.Background(), payload))
	require.Empty(t, repo.completed)
	require.Equal(t, importtask.StatusCompleted, task.Status)
}

func TestResultConsumerFailsTaskOnUndispatchableBatch(t *testing.T) {
	task := queuedTask()
	repo := newFakeTaskRepo(task)
	seeder := &fakeSeeder{err: context.DeadlineExceeded}
	consumer := newConsumer(repo, seeder, eventbus.NewEventPublisher(quietLogger()))

	payload := envelopePayload(t, &messages.ResultEnvelope{
		TaskID: task.ID.String(),
		Result: messages.ValidationResult{Success: true, Type: messages.Category("BOGUS")},
	})

	require.NoError(t, consumer.Handle(context.Background(), payload))
	require.Equal(t, importtask.StatusFailed, task.Status)
	require.Len(t, repo.completed, 1)
	require.Equal(t, importtask.KindUnknown, repo.completed[0].errors[0].Kind)
}

func TestResultConsumerRejectsMalformedPayload(t *testing.T) {
	consumer := newConsumer(newFakeTaskRepo(), &fakeSeeder{}, eventbus.NewEventPublisher(quietLogger()))

	require.Error(t, consumer.Handle(context.Background(), json.RawMessage(`{"taskId":`)))
	require.Error(t, consumer.Handle(context.Background(), json.RawMessage(`{"taskId":"not-a-uuid"}`)))
}
