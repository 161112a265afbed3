package services

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/campusware/campus/modules/importer/domain/entities/importtask"
	"github.com/campusware/campus/modules/importer/domain/messages"
	"github.com/campusware/campus/modules/importer/infrastructure/msgqueue"
)

type fakePublisher struct {
	queue    string
	payloads []interface{}
	err      error
}

func (f *fakePublisher) Enqueue(_ context.Context, queue string, payload interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.queue = queue
	f.payloads = append(f.payloads, payload)
	return nil
}

type submitTaskRepo struct {
	importtask.Repository
	created []*importtask.ImportTask
	errors  map[uuid.UUID][]*importtask.TaskError
}

func (f *submitTaskRepo) Create(_ context.Context, task *importtask.ImportTask) error {
	f.created = append(f.created, task)
	return nil
}

func (f *submitTaskRepo) GetByID(_ context.Context, id uuid.UUID) (*importtask.ImportTask, error) {
	for _, task := range f.created {
		if task.ID == id {
			return task, nil
		}
	}
	return nil, importtask.ErrTaskNotFound
}

func (f *submitTaskRepo) ListErrors(_ context.Context, id uuid.UUID) ([]*importtask.TaskError, error) {
	return f.errors[id], nil
}

func newService(repo importtask.Repository, publisher msgqueue.Publisher) *ImportService {
	svc := NewImportService(repo, publisher, quietLogger())
	svc.inTx = func(ctx context.Context, fn func(context.Context) error) error {
		return fn(ctx)
	}
	return svc
}

func TestSubmitQueuesTaskAndRequest(t *testing.T) {
	repo := &submitTaskRepo{}
	publisher := &fakePublisher{}
	svc := newService(repo, publisher)

	file := []byte("PK\x03\x04 workbook bytes")
	task, err := svc.Submit(context.Background(), &SubmitCommand{
		SubmitterID: "admin-1",
		CampusID:    "north",
		FileName:    "teachers.xlsx",
		Category:    "TEACHER",
		File:        file,
	})

	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, task.ID)
	require.Equal(t, importtask.StatusQueued, task.Status)

	require.Len(t, repo.created, 1)
	require.Equal(t, task.ID, repo.created[0].ID)

	require.Equal(t, msgqueue.RequestsQueue, publisher.queue)
	require.Len(t, publisher.payloads, 1)
	request := publisher.payloads[0].(*messages.ImportRequest)
	require.Equal(t, task.ID.String(), request.TaskID)
	require.Equal(t, "TEACHER", request.Category)
	require.Equal(t, "admin-1", request.SubmitterID)
	require.Equal(t, "north", request.CampusID)

	decoded, err := base64.StdEncoding.DecodeString(request.FileData)
	require.NoError(t, err)
	require.Equal(t, file, decoded)
}

func TestSubmitRejectsBadInput(t *testing.T) {
	svc := newService(&submitTaskRepo{}, &fakePublisher{})

	_, err := svc.Submit(context.Background(), &SubmitCommand{
		SubmitterID: "admin-1",
		Category:    "PETS",
		File:        []byte("x"),
	})
	require.Error(t, err)

	_, err = svc.Submit(context.Background(), &SubmitCommand{
		Category: "TEACHER",
		File:     []byte("x"),
	})
	require.Error(t, err)

	_, err = svc.Submit(context.Background(), &SubmitCommand{
		SubmitterID: "admin-1",
		Category:    "TEACHER",
	})
	require.Error(t, err)
}

func TestSubmitRollsBackWhenEnqueueFails(t *testing.T) {
	repo := &submitTaskRepo{}
	publisher := &fakePublisher{err: context.DeadlineExceeded}
	svc := newService(repo, publisher)

	_, err := svc.Submit(context.Background(), &SubmitCommand{
		SubmitterID: "admin-1",
		Category:    "TEACHER",
		File:        []byte("x"),
	})

	require.Error(t, err)
}

func TestBuildErrorReport(t *testing.T) {
	task := queuedTask()
	column := "email"
	repo := &submitTaskRepo{
		created: []*importtask.ImportTask{task},
		errors: map[uuid.UUID][]*importtask.TaskError{
			task.ID: {{
				Row:      3,
				Column:   &column,
				Kind:     importtask.KindDuplicateKey,
				Message:  "duplicate email",
				Severity: importtask.SeverityError,
			}},
		},
	}
	svc := newService(repo, &fakePublisher{})

	report, err := svc.BuildErrorReport(context.Background(), task.ID)

	require.NoError(t, err)
	require.NotEmpty(t, report)
	// xlsx workbooks are zip archives.
	require.Equal(t, []byte("PK"), report[:2])
}

func TestBuildErrorReportUnknownTask(t *testing.T) {
	svc := newService(&submitTaskRepo{}, &fakePublisher{})

	_, err := svc.BuildErrorReport(context.Background(), uuid.New())

	require.ErrorIs(t, err, importtask.ErrTaskNotFound)
}
